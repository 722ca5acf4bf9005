package executor

import (
	"context"
	"sync"
)

// mockRunner is a mock implementation of Runner for testing.
type mockRunner struct {
	mu sync.Mutex

	runFunc  func(command string) (*Result, error)
	runCalls []string
}

func newMockRunner(status int, stdout, stderr string) *mockRunner {
	m := &mockRunner{}
	m.runFunc = func(command string) (*Result, error) {
		return &Result{Command: command, ExitStatus: status, Stdout: stdout, Stderr: stderr}, nil
	}
	return m
}

func (m *mockRunner) Run(_ context.Context, command string) (*Result, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.runCalls = append(m.runCalls, command)
	return m.runFunc(command)
}

// mockSession is a mock implementation of SessionRunner for testing.
type mockSession struct {
	mu sync.Mutex

	status int
	output string

	commands     []string
	ignoreErrors []bool
}

func (m *mockSession) Run(_ context.Context, command string, ignoreErrors bool) (*Result, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.commands = append(m.commands, command)
	m.ignoreErrors = append(m.ignoreErrors, ignoreErrors)

	result := &Result{Command: command, ExitStatus: m.status, Stdout: m.output}
	if m.status != 0 && !ignoreErrors {
		return nil, &CommandError{Command: command, Result: result}
	}
	return result, nil
}
