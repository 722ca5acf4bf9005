package session

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"regexp"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/mattn/go-shellwords"
	"github.com/sirupsen/logrus"

	"github.com/jbweber/virshkit/internal/executor"
)

const (
	// DefaultPrompt matches "virsh # ".
	DefaultPrompt = `virsh\s*#\s*`

	// DefaultCommandTimeout is the fixed outer timeout used by Run.
	DefaultCommandTimeout = 60 * time.Second

	// DefaultStartupTimeout bounds the wait for the first prompt.
	DefaultStartupTimeout = 10 * time.Second

	commandErrorMessage = "Virsh Command returned non-zero exit status"
)

// Options configures a new interactive session.
type Options struct {
	// ExecutablePath is the management binary, optionally with leading
	// wrapper words ("sudo virsh").
	ExecutablePath string

	// URI is appended as "-c <uri>" when non-empty.
	URI string

	// ExistingID attaches to an already running session instead of
	// spawning one. Only honored by Registry.Open.
	ExistingID string

	Prompt         string
	StartupTimeout time.Duration
	CommandTimeout time.Duration

	// Spawner starts the process. Nil means PTYSpawner.
	Spawner Spawner
}

// Session is a conversational channel to one running instance of the
// management binary.
//
// Commands must not overlap: callers serialize access. After a
// TimeoutError the session is unusable and must be reopened.
type Session struct {
	id             string
	argv           []string
	prompt         *regexp.Regexp
	commandTimeout time.Duration
	proc           Process

	chunks  chan []byte
	readErr error
	done    chan struct{}
	buf     []byte

	broken error

	mu      sync.Mutex
	closed  bool
	onClose func(id string)
}

// Open spawns the management binary and waits for its prompt.
func Open(ctx context.Context, opts Options) (*Session, error) {
	argv, err := shellwords.Parse(opts.ExecutablePath)
	if err != nil {
		return nil, fmt.Errorf("failed to parse executable path %q: %w", opts.ExecutablePath, err)
	}
	if len(argv) == 0 {
		return nil, &StartError{Err: errors.New("executable path is empty")}
	}
	if opts.URI != "" {
		argv = append(argv, "-c", opts.URI)
	}

	promptPattern := opts.Prompt
	if promptPattern == "" {
		promptPattern = DefaultPrompt
	}
	prompt, err := regexp.Compile(promptPattern)
	if err != nil {
		return nil, fmt.Errorf("invalid prompt pattern %q: %w", promptPattern, err)
	}

	startupTimeout := opts.StartupTimeout
	if startupTimeout <= 0 {
		startupTimeout = DefaultStartupTimeout
	}
	commandTimeout := opts.CommandTimeout
	if commandTimeout <= 0 {
		commandTimeout = DefaultCommandTimeout
	}

	spawner := opts.Spawner
	if spawner == nil {
		spawner = PTYSpawner{}
	}

	proc, err := spawner.Spawn(argv)
	if err != nil {
		return nil, &StartError{Command: argv, Err: err}
	}

	s := &Session{
		id:             uuid.NewString(),
		argv:           argv,
		prompt:         prompt,
		commandTimeout: commandTimeout,
		proc:           proc,
		chunks:         make(chan []byte, 64),
		done:           make(chan struct{}),
	}
	go s.readLoop()

	out, err := s.readUntilPrompt(ctx, "", startupTimeout)
	if err != nil {
		_ = s.Close()
		return nil, &StartError{Command: argv, Output: out, Err: err}
	}

	logrus.WithFields(logrus.Fields{
		"session": s.id,
		"pid":     proc.Pid(),
	}).Debugf("Opened virsh session: %s", strings.Join(argv, " "))
	return s, nil
}

// ID returns the opaque session identifier.
func (s *Session) ID() string { return s.id }

// Pid returns the process id of the interactive program.
func (s *Session) Pid() int { return s.proc.Pid() }

// Command returns the argv the session was spawned with.
func (s *Session) Command() []string { return append([]string(nil), s.argv...) }

// Closed reports whether Close has been called.
func (s *Session) Closed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

// SendCommand writes text followed by a newline and reads until the prompt
// reappears or timeout elapses. The returned output has the command echo
// and the trailing prompt removed.
//
// The status is inferred from the output text (see InferStatus), not from
// the program's own return code. internalTimeout is the quiet period used
// to discard stale output before the command is written; zero discards only
// what is already buffered.
func (s *Session) SendCommand(ctx context.Context, text string, timeout, internalTimeout time.Duration) (int, string, error) {
	if s.Closed() {
		return 0, "", ErrClosed
	}
	if s.broken != nil {
		return 0, "", &ProtocolError{Command: text, Err: fmt.Errorf("session unusable after earlier failure: %w", s.broken)}
	}
	if timeout <= 0 {
		timeout = s.commandTimeout
	}

	if err := s.drain(text, internalTimeout); err != nil {
		return 0, "", err
	}

	if _, err := io.WriteString(s.proc, text+"\n"); err != nil {
		if s.exited() {
			return 0, "", &TerminatedError{Command: text, Err: err}
		}
		return 0, "", &ProtocolError{Command: text, Err: err}
	}

	out, err := s.readUntilPrompt(ctx, text, timeout)
	if err != nil {
		s.broken = err
		return 0, out, err
	}

	out = stripEcho(out, text)
	return InferStatus(out), out, nil
}

// Run sends text with the fixed command timeout and wraps the outcome in a
// Result with empty stderr. A nonzero inferred status is returned as a
// *executor.CommandError unless ignoreErrors is set.
func (s *Session) Run(ctx context.Context, text string, ignoreErrors bool) (*executor.Result, error) {
	status, out, err := s.SendCommand(ctx, text, s.commandTimeout, 0)
	if err != nil {
		return nil, err
	}

	result := &executor.Result{
		Command:    text,
		ExitStatus: status,
		Stdout:     out,
	}
	if status != 0 && !ignoreErrors {
		return nil, &executor.CommandError{Command: text, Result: result, Message: commandErrorMessage}
	}
	return result, nil
}

// Close terminates the process. It is safe to call more than once.
func (s *Session) Close() error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	onClose := s.onClose
	s.mu.Unlock()

	close(s.done)
	err := s.proc.Kill()
	if onClose != nil {
		onClose(s.id)
	}

	logrus.WithField("session", s.id).Debug("Closed virsh session")
	if err != nil {
		return fmt.Errorf("failed to terminate session %s: %w", s.id, err)
	}
	return nil
}

var _ executor.SessionRunner = (*Session)(nil)

func (s *Session) readLoop() {
	defer close(s.chunks)

	b := make([]byte, 4096)
	for {
		n, err := s.proc.Read(b)
		if n > 0 {
			chunk := make([]byte, n)
			copy(chunk, b[:n])
			select {
			case s.chunks <- chunk:
			case <-s.done:
				return
			}
		}
		if err != nil {
			s.readErr = err
			return
		}
	}
}

func (s *Session) exited() bool {
	select {
	case <-s.proc.Exited():
		return true
	default:
		return false
	}
}

// drain discards buffered output, then keeps discarding until the stream
// has been quiet for quiet.
func (s *Session) drain(command string, quiet time.Duration) error {
	s.buf = s.buf[:0]
	for {
		select {
		case _, ok := <-s.chunks:
			if !ok {
				return s.readFailure(command, "")
			}
			continue
		default:
		}
		if quiet <= 0 {
			return nil
		}

		timer := time.NewTimer(quiet)
		select {
		case _, ok := <-s.chunks:
			timer.Stop()
			if !ok {
				return s.readFailure(command, "")
			}
		case <-timer.C:
			return nil
		}
	}
}

// readUntilPrompt accumulates output until its last line matches the prompt
// and returns everything before that line.
func (s *Session) readUntilPrompt(ctx context.Context, command string, timeout time.Duration) (string, error) {
	deadline := time.NewTimer(timeout)
	defer deadline.Stop()

	for {
		if out, ok := s.takeUntilPrompt(); ok {
			return out, nil
		}

		select {
		case chunk, ok := <-s.chunks:
			if !ok {
				return normalize(string(s.buf)), s.readFailure(command, normalize(string(s.buf)))
			}
			s.buf = append(s.buf, chunk...)
		case <-deadline.C:
			return normalize(string(s.buf)), &TimeoutError{Command: command, Timeout: timeout, Output: normalize(string(s.buf))}
		case <-ctx.Done():
			return normalize(string(s.buf)), &ProtocolError{Command: command, Err: ctx.Err()}
		}
	}
}

func (s *Session) takeUntilPrompt() (string, bool) {
	if len(s.buf) == 0 {
		return "", false
	}

	text := normalize(string(s.buf))
	idx := strings.LastIndex(text, "\n")
	last := text[idx+1:]
	if !s.prompt.MatchString(last) {
		return "", false
	}

	s.buf = s.buf[:0]
	if idx < 0 {
		return "", true
	}
	return text[:idx+1], true
}

func (s *Session) readFailure(command, output string) error {
	err := s.readErr
	if err == nil || errors.Is(err, io.EOF) || errors.Is(err, syscall.EIO) || errors.Is(err, os.ErrClosed) || errors.Is(err, io.ErrClosedPipe) {
		if err == nil {
			err = io.EOF
		}
		return &TerminatedError{Command: command, Output: output, Err: err}
	}
	return &ProtocolError{Command: command, Err: err}
}

func normalize(text string) string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	return strings.ReplaceAll(text, "\r", "")
}

// stripEcho removes the terminal echo of command from the first output line.
func stripEcho(out, command string) string {
	first, rest, found := strings.Cut(out, "\n")
	if strings.TrimSpace(first) != strings.TrimSpace(command) {
		return out
	}
	if !found {
		return ""
	}
	return rest
}
