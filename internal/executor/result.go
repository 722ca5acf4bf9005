package executor

import (
	"fmt"
	"strings"
)

// Result is the normalized outcome of one invocation of the management binary.
type Result struct {
	Command    string `json:"command" yaml:"command"`
	ExitStatus int    `json:"exit_status" yaml:"exit_status"`
	Stdout     string `json:"stdout" yaml:"stdout"`
	Stderr     string `json:"stderr" yaml:"stderr"` // Always empty for interactive sessions
}

// Success reports whether the invocation exited with status zero.
func (r *Result) Success() bool {
	return r != nil && r.ExitStatus == 0
}

// TrimmedStdout returns stdout without leading and trailing whitespace.
func (r *Result) TrimmedStdout() string {
	if r == nil {
		return ""
	}
	return strings.TrimSpace(r.Stdout)
}

// CommandError is returned when an invocation exits nonzero and errors are
// not being ignored. It carries the full Result.
type CommandError struct {
	Command string
	Result  *Result
	Message string
}

func (e *CommandError) Error() string {
	msg := e.Message
	if msg == "" {
		msg = "command returned non-zero exit status"
	}
	if e.Result == nil {
		return fmt.Sprintf("%s: %s", msg, e.Command)
	}

	detail := strings.TrimSpace(e.Result.Stderr)
	if detail == "" {
		detail = strings.TrimSpace(e.Result.Stdout)
	}
	if detail == "" {
		return fmt.Sprintf("%s %d: %s", msg, e.Result.ExitStatus, e.Command)
	}
	return fmt.Sprintf("%s %d: %s: %s", msg, e.Result.ExitStatus, e.Command, detail)
}
