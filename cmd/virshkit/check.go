package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/jbweber/virshkit/internal/executor"
	"github.com/jbweber/virshkit/internal/libvirt"
	"github.com/jbweber/virshkit/internal/output"
	"github.com/jbweber/virshkit/internal/virsh"
)

var skipDaemon bool

func init() {
	rootCmd.AddCommand(checkCmd)
	checkCmd.Flags().BoolVar(&skipDaemon, "no-daemon", false, "only report what virsh says")
}

var checkCmd = &cobra.Command{
	Use:   "check [domain...]",
	Short: "Compare domain states reported by virsh and the libvirt daemon",
	Long: `Report the state of domains as virsh sees it and, unless --no-daemon is
given, as the libvirt daemon reports it over its RPC socket.

Without arguments every defined domain is checked. The command fails when
the two sources disagree.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withFacade(cmd, func(ctx context.Context, v facade) error {
			names := args
			if len(names) == 0 {
				var err error
				if names, err = listDomains(ctx, v); err != nil {
					return err
				}
			}

			states := make([]output.DomainState, 0, len(names))
			for _, name := range names {
				state, err := v.Domstate(ctx, name)
				var cmdErr *executor.CommandError
				switch {
				case errors.As(err, &cmdErr):
					state = virsh.StateUndefined
				case err != nil:
					return err
				}
				states = append(states, output.DomainState{Name: name, State: state, Alive: virsh.IsAliveState(state)})
			}

			if !skipDaemon {
				if err := probeDaemon(ctx, v, states); err != nil {
					logrus.Warnf("Skipping daemon probe: %v", err)
				}
			}

			formatter, err := newFormatter()
			if err != nil {
				return err
			}
			text, err := formatter.FormatStates(states)
			if err != nil {
				return fmt.Errorf("failed to format output: %w", err)
			}
			fmt.Print(text)

			mismatches := 0
			for _, s := range states {
				if s.Mismatch() {
					mismatches++
				}
			}
			if mismatches > 0 {
				return fmt.Errorf("%d domain(s) disagree between virsh and the daemon", mismatches)
			}
			return nil
		})
	},
}

// listDomains returns the names of all defined domains, sorted.
func listDomains(ctx context.Context, v facade) ([]string, error) {
	result, err := v.Command(ctx, "list --all --name")
	if err != nil {
		return nil, fmt.Errorf("failed to list domains: %w", err)
	}
	var names []string
	for _, line := range strings.Split(result.Stdout, "\n") {
		if name := strings.TrimSpace(line); name != "" {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names, nil
}

// probeDaemon fills in the Daemon field of every row.
func probeDaemon(ctx context.Context, v facade, states []output.DomainState) error {
	uri, err := v.CanonicalURI(ctx)
	if err != nil {
		return fmt.Errorf("failed to query connection URI: %w", err)
	}
	socket, err := libvirt.SocketForURI(uri)
	if err != nil {
		return err
	}

	client, err := libvirt.ConnectWithContext(ctx, socket, 5*time.Second)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := client.Close(); closeErr != nil {
			fmt.Fprintf(os.Stderr, "Warning: failed to close libvirt connection: %v\n", closeErr)
		}
	}()

	for i := range states {
		state, err := client.DomainState(states[i].Name)
		if err != nil {
			return fmt.Errorf("failed to get state of %s: %w", states[i].Name, err)
		}
		states[i].Daemon = state
	}
	return nil
}
