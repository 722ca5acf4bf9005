package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mattn/go-shellwords"
	"github.com/spf13/cobra"

	"github.com/jbweber/virshkit/internal/virsh"
)

func init() {
	rootCmd.AddCommand(shellCmd)
}

var shellCmd = &cobra.Command{
	Use:   "shell",
	Short: "Run virsh commands in one persistent session",
	Long: `Open a persistent virsh session and read commands from stdin.

Lines are sent to virsh as they are. Lines starting with a dot are handled
locally:
  .get <key>           show a property (uri, debug, session_id, ...)
  .set <key> <value>   change a property; changing uri reconnects
  .unset <key>         reset a property to its default
  .new-session         replace the session with a fresh one
  .quit                close the session and exit`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		if ctx == nil {
			ctx = context.Background()
		}
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}

		p, err := virsh.NewPersistent(ctx, cfg)
		if err != nil {
			return err
		}
		defer func() {
			if closeErr := p.Close(); closeErr != nil {
				fmt.Fprintf(os.Stderr, "Warning: failed to close virsh session: %v\n", closeErr)
			}
		}()
		// Failed commands are shown, not fatal.
		p.SetIgnoreErrors(true)

		fmt.Printf("✓ Session %s open\n", p.Session().ID())
		return runShell(ctx, p, os.Stdin, os.Stdout)
	},
}

func runShell(ctx context.Context, p *virsh.Persistent, in io.Reader, out io.Writer) error {
	sc := bufio.NewScanner(in)
	for {
		_, _ = fmt.Fprint(out, "virshkit> ")
		if !sc.Scan() {
			_, _ = fmt.Fprintln(out)
			return sc.Err()
		}

		line := strings.TrimSpace(sc.Text())
		switch {
		case line == "":
			continue
		case line == "exit" || line == "quit" || line == ".quit":
			return nil
		case strings.HasPrefix(line, "."):
			if err := shellBuiltin(ctx, p, line[1:], out); err != nil {
				_, _ = fmt.Fprintf(out, "Error: %v\n", err)
			}
			continue
		}

		result, err := p.Command(ctx, line)
		if err != nil {
			// Session faults are not recoverable from the prompt.
			return err
		}
		_, _ = fmt.Fprint(out, strings.TrimRight(result.Stdout, "\n"))
		_, _ = fmt.Fprintln(out)
		if result.ExitStatus != 0 {
			_, _ = fmt.Fprintf(out, "(exit status %d)\n", result.ExitStatus)
		}
	}
}

func shellBuiltin(ctx context.Context, p *virsh.Persistent, line string, out io.Writer) error {
	words, err := shellwords.Parse(line)
	if err != nil {
		return err
	}
	if len(words) == 0 {
		return fmt.Errorf("empty command")
	}

	switch words[0] {
	case "get":
		if len(words) != 2 {
			return fmt.Errorf("usage: .get <key>")
		}
		value, err := p.Get(words[1])
		if err != nil {
			return err
		}
		if s, ok := value.(interface{ ID() string }); ok {
			value = s.ID()
		}
		_, _ = fmt.Fprintf(out, "%s = %v\n", words[1], value)
	case "set":
		if len(words) != 3 {
			return fmt.Errorf("usage: .set <key> <value>")
		}
		return p.Set(ctx, words[1], words[2])
	case "unset":
		if len(words) != 2 {
			return fmt.Errorf("usage: .unset <key>")
		}
		return p.Delete(ctx, words[1])
	case "new-session":
		if err := p.NewSession(ctx); err != nil {
			return err
		}
		_, _ = fmt.Fprintf(out, "✓ Session %s open\n", p.Session().ID())
	default:
		return fmt.Errorf("unknown command .%s", words[0])
	}
	return nil
}
