package executor

import (
	"context"
	"errors"
	"strings"

	"al.essio.dev/pkg/shellescape"
	"github.com/sirupsen/logrus"
)

// SessionRunner is a persistent interactive channel to the management binary.
// It is satisfied by *session.Session.
type SessionRunner interface {
	Run(ctx context.Context, command string, ignoreErrors bool) (*Result, error)
}

// Options is the configuration an invocation is executed with.
type Options struct {
	ExecutablePath string
	URI            string
	Debug          bool
	IgnoreErrors   bool

	// Session, when set, receives the sub-command instead of a new process.
	Session SessionRunner

	// Runner spawns one-shot processes. Nil means a LocalRunner.
	Runner Runner
}

// CommandLine builds the full one-shot command line for a sub-command:
// "<executable> [-c '<uri>'] <subcommand>".
func CommandLine(executablePath, uri, subcommand string) string {
	parts := []string{executablePath}
	if uri != "" {
		parts = append(parts, "-c", shellescape.Quote(uri))
	}
	if subcommand = strings.TrimSpace(subcommand); subcommand != "" {
		parts = append(parts, subcommand)
	}
	return strings.Join(parts, " ")
}

// Execute runs subcommand against the management binary. With a session the
// text is typed into it; otherwise a fresh child process is spawned and its
// real exit status is used. A nonzero status becomes a *CommandError unless
// opts.IgnoreErrors is set, in which case the Result is returned as is.
func Execute(ctx context.Context, subcommand string, opts Options) (*Result, error) {
	var (
		result *Result
		err    error
	)

	if opts.Session != nil {
		if opts.Debug {
			logrus.WithField("command", subcommand).Debug("Running session command")
		}
		result, err = opts.Session.Run(ctx, subcommand, opts.IgnoreErrors)
	} else {
		command := CommandLine(opts.ExecutablePath, opts.URI, subcommand)
		if opts.Debug {
			logrus.Debugf("Running command: %s", command)
		}

		runner := opts.Runner
		if runner == nil {
			runner = NewLocalRunner()
		}
		result, err = runner.Run(ctx, command)
		if err == nil && result.ExitStatus != 0 && !opts.IgnoreErrors {
			err = &CommandError{Command: command, Result: result}
		}
	}

	if opts.Debug {
		logged := result
		var cmdErr *CommandError
		if logged == nil && errors.As(err, &cmdErr) {
			logged = cmdErr.Result
		}
		if logged != nil {
			logrus.Debugf("status: %d", logged.ExitStatus)
			logrus.Debugf("stdout: %s", strings.TrimSpace(logged.Stdout))
			logrus.Debugf("stderr: %s", strings.TrimSpace(logged.Stderr))
		}
	}

	if err != nil {
		return nil, err
	}
	return result, nil
}
