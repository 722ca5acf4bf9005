package session

import (
	"bufio"
	"errors"
	"io"
	"strings"
	"sync"
)

const fakePrompt = "virsh # "

// fakeProcess is an in-memory interactive program driven by a handler.
type fakeProcess struct {
	inR  *io.PipeReader
	inW  *io.PipeWriter
	outR *io.PipeReader
	outW *io.PipeWriter

	pid    int
	exited chan struct{}
	once   sync.Once
}

func (p *fakeProcess) Read(b []byte) (int, error)  { return p.outR.Read(b) }
func (p *fakeProcess) Write(b []byte) (int, error) { return p.inW.Write(b) }
func (p *fakeProcess) Pid() int                    { return p.pid }
func (p *fakeProcess) Exited() <-chan struct{}     { return p.exited }

func (p *fakeProcess) Kill() error {
	p.exit()
	_ = p.inR.Close()
	return nil
}

func (p *fakeProcess) exit() {
	p.once.Do(func() {
		_ = p.outW.Close()
		close(p.exited)
	})
}

// reply is what the fake program does for one input line.
type reply struct {
	output   string
	noPrompt bool   // hang without printing a prompt
	exit     bool   // exit after printing output
	after    string // written after the prompt
}

// fakeSpawner spawns fakeProcesses and records the argv it was asked for.
type fakeSpawner struct {
	mu sync.Mutex

	banner    string
	noPrompt  bool // never print the initial prompt
	exitEarly bool // exit before printing the initial prompt
	echo      bool // echo input lines like a terminal
	spawnErr  error
	handler   func(line string) reply

	spawnCalls [][]string
	processes  []*fakeProcess
	received   []string
}

func newFakeSpawner() *fakeSpawner {
	return &fakeSpawner{
		banner: "Welcome to virsh, the virtualization interactive terminal.\r\n\r\n",
		echo:   true,
		handler: func(line string) reply {
			return reply{output: "ran " + line + "\r\n"}
		},
	}
}

func (f *fakeSpawner) Spawn(argv []string) (Process, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.spawnCalls = append(f.spawnCalls, argv)
	if f.spawnErr != nil {
		return nil, f.spawnErr
	}

	inR, inW := io.Pipe()
	outR, outW := io.Pipe()
	p := &fakeProcess{
		inR: inR, inW: inW, outR: outR, outW: outW,
		pid:    1000 + len(f.processes),
		exited: make(chan struct{}),
	}
	f.processes = append(f.processes, p)

	go f.serve(p)
	return p, nil
}

func (f *fakeSpawner) lines() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.received...)
}

func (f *fakeSpawner) serve(p *fakeProcess) {
	defer p.exit()

	if f.exitEarly {
		_, _ = io.WriteString(p.outW, "error: failed to connect to the hypervisor\r\n")
		return
	}
	if _, err := io.WriteString(p.outW, f.banner); err != nil {
		return
	}
	if f.noPrompt {
		<-p.exited
		return
	}
	if _, err := io.WriteString(p.outW, fakePrompt); err != nil {
		return
	}

	sc := bufio.NewScanner(p.inR)
	for sc.Scan() {
		line := sc.Text()
		f.mu.Lock()
		f.received = append(f.received, line)
		f.mu.Unlock()

		var b strings.Builder
		if f.echo {
			b.WriteString(line + "\r\n")
		}
		r := f.handler(line)
		b.WriteString(r.output)
		if _, err := io.WriteString(p.outW, b.String()); err != nil {
			return
		}
		if r.exit {
			return
		}
		if r.noPrompt {
			continue
		}
		if _, err := io.WriteString(p.outW, fakePrompt); err != nil {
			return
		}
		if r.after != "" {
			if _, err := io.WriteString(p.outW, r.after); err != nil {
				return
			}
		}
	}
}

var errSpawn = errors.New("exec: \"virsh\": executable file not found in $PATH")
