package session

import (
	"errors"
	"fmt"
	"time"
)

var (
	// ErrSessionNotFound is returned when attaching to an id that is unknown
	// or whose session has been closed.
	ErrSessionNotFound = errors.New("session not found")

	// ErrClosed is returned when a command is sent to a closed session.
	ErrClosed = errors.New("session closed")
)

// StartError is returned when the interactive process exits or never shows
// its prompt during startup.
type StartError struct {
	Command []string
	Output  string
	Err     error
}

func (e *StartError) Error() string {
	return fmt.Sprintf("failed to start session %q: %v", e.Command, e.Err)
}

func (e *StartError) Unwrap() error { return e.Err }

// TimeoutError is returned when the prompt does not reappear in time. The
// session is unusable afterwards and must be reopened.
type TimeoutError struct {
	Command string
	Timeout time.Duration
	Output  string
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("timed out after %s waiting for prompt (command %q)", e.Timeout, e.Command)
}

// TerminatedError is returned when the process exits while a command is
// being written or its output read.
type TerminatedError struct {
	Command string
	Output  string
	Err     error
}

func (e *TerminatedError) Error() string {
	return fmt.Sprintf("session process terminated (command %q): %v", e.Command, e.Err)
}

func (e *TerminatedError) Unwrap() error { return e.Err }

// ProtocolError is returned for any other read or write failure.
type ProtocolError struct {
	Command string
	Err     error
}

func (e *ProtocolError) Error() string {
	return fmt.Sprintf("session protocol error (command %q): %v", e.Command, e.Err)
}

func (e *ProtocolError) Unwrap() error { return e.Err }
