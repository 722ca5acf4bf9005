package executor

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
)

// Runner spawns a command line as a one-shot child process.
type Runner interface {
	// Run executes command and returns its separately captured output and
	// exit status. A nonzero exit is not an error; failing to start is.
	Run(ctx context.Context, command string) (*Result, error)
}

// LocalRunner runs commands through a local shell, so redirections such as
// "dumpxml vm > file" behave as typed.
type LocalRunner struct {
	Shell     string
	ShellArgs []string
}

// NewLocalRunner returns a LocalRunner using /bin/sh -c.
func NewLocalRunner() *LocalRunner {
	return &LocalRunner{Shell: "/bin/sh", ShellArgs: []string{"-c"}}
}

// Run executes command and captures stdout, stderr and the exit code.
func (r *LocalRunner) Run(ctx context.Context, command string) (*Result, error) {
	args := append(append([]string{}, r.ShellArgs...), command)
	cmd := exec.CommandContext(ctx, r.Shell, args...)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()

	result := &Result{
		Command: command,
		Stdout:  stdout.String(),
		Stderr:  stderr.String(),
	}

	if err != nil {
		var exitErr *exec.ExitError
		if !errors.As(err, &exitErr) {
			return nil, fmt.Errorf("failed to execute command %q: %w", command, err)
		}
		result.ExitStatus = exitErr.ExitCode()
		if result.ExitStatus < 0 {
			// Killed by a signal, e.g. context cancellation.
			return nil, fmt.Errorf("command %q terminated: %w", command, err)
		}
	}

	return result, nil
}

var _ Runner = (*LocalRunner)(nil)
