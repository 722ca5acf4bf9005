package session

import (
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"sync"

	"github.com/creack/pty"
)

// Process is a running interactive program. Reads return everything it
// writes to stdout and stderr, interleaved.
type Process interface {
	io.ReadWriter

	// Pid returns the operating system process id.
	Pid() int

	// Kill terminates the process and releases its streams. It is safe to
	// call more than once.
	Kill() error

	// Exited is closed once the process has exited.
	Exited() <-chan struct{}
}

// Spawner starts interactive processes.
type Spawner interface {
	Spawn(argv []string) (Process, error)
}

// PTYSpawner runs the process on a pseudo-terminal, which is what makes
// virsh print its prompt.
type PTYSpawner struct{}

// Spawn starts argv attached to a new pseudo-terminal.
func (PTYSpawner) Spawn(argv []string) (Process, error) {
	if len(argv) == 0 {
		return nil, errors.New("empty command")
	}

	cmd := exec.Command(argv[0], argv[1:]...)
	cmd.Env = append(os.Environ(), "TERM=dumb")

	f, err := pty.Start(cmd)
	if err != nil {
		return nil, fmt.Errorf("failed to start %s on a pty: %w", argv[0], err)
	}

	p := &ptyProcess{cmd: cmd, tty: f, exited: make(chan struct{})}
	go func() {
		_ = cmd.Wait()
		close(p.exited)
	}()
	return p, nil
}

type ptyProcess struct {
	cmd    *exec.Cmd
	tty    *os.File
	exited chan struct{}
	once   sync.Once
}

func (p *ptyProcess) Read(b []byte) (int, error)  { return p.tty.Read(b) }
func (p *ptyProcess) Write(b []byte) (int, error) { return p.tty.Write(b) }
func (p *ptyProcess) Pid() int                    { return p.cmd.Process.Pid }
func (p *ptyProcess) Exited() <-chan struct{}     { return p.exited }

func (p *ptyProcess) Kill() error {
	var err error
	p.once.Do(func() {
		if kerr := p.cmd.Process.Kill(); kerr != nil && !errors.Is(kerr, os.ErrProcessDone) {
			err = kerr
		}
		if cerr := p.tty.Close(); cerr != nil && err == nil {
			err = cerr
		}
	})
	return err
}

// PipeSpawner runs the process with plain pipes, stdout and stderr merged.
// Programs that only prompt on a terminal will not work with it.
type PipeSpawner struct{}

// Spawn starts argv with stdin and a merged output pipe.
func (PipeSpawner) Spawn(argv []string) (Process, error) {
	if len(argv) == 0 {
		return nil, errors.New("empty command")
	}

	cmd := exec.Command(argv[0], argv[1:]...)
	stdin, err := cmd.StdinPipe()
	if err != nil {
		return nil, fmt.Errorf("failed to open stdin pipe: %w", err)
	}

	pr, pw := io.Pipe()
	cmd.Stdout = pw
	cmd.Stderr = pw

	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("failed to start %s: %w", argv[0], err)
	}

	p := &pipeProcess{cmd: cmd, stdin: stdin, out: pr, exited: make(chan struct{})}
	go func() {
		_ = cmd.Wait()
		_ = pw.Close()
		close(p.exited)
	}()
	return p, nil
}

type pipeProcess struct {
	cmd    *exec.Cmd
	stdin  io.WriteCloser
	out    *io.PipeReader
	exited chan struct{}
	once   sync.Once
}

func (p *pipeProcess) Read(b []byte) (int, error)  { return p.out.Read(b) }
func (p *pipeProcess) Write(b []byte) (int, error) { return p.stdin.Write(b) }
func (p *pipeProcess) Pid() int                    { return p.cmd.Process.Pid }
func (p *pipeProcess) Exited() <-chan struct{}     { return p.exited }

func (p *pipeProcess) Kill() error {
	var err error
	p.once.Do(func() {
		_ = p.stdin.Close()
		if kerr := p.cmd.Process.Kill(); kerr != nil && !errors.Is(kerr, os.ErrProcessDone) {
			err = kerr
		}
		_ = p.out.Close()
	})
	return err
}
