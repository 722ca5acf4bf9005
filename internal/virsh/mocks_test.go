package virsh

import (
	"bufio"
	"context"
	"errors"
	"io"
	"strings"
	"sync"

	"github.com/jbweber/virshkit/internal/executor"
	"github.com/jbweber/virshkit/internal/session"
)

// fakeHypervisor emulates the subset of virsh the catalog uses. It serves
// one-shot invocations as an executor.Runner and interactive sessions as a
// session.Spawner, sharing one set of domains.
type fakeHypervisor struct {
	mu sync.Mutex

	domains map[string]string // name -> state
	saved   map[string]string // path -> name
	uri     string

	failing  map[string]bool // verbs that always fail
	frozen   bool            // commands succeed without changing state
	runErr   error           // returned by Run instead of a result
	restored string          // state after restore

	calls     []string   // sub-commands, both modes
	lines     []string   // full one-shot command lines
	spawns    [][]string // argv of every spawned session
	processes []*fakeProcess
}

func newFakeHypervisor() *fakeHypervisor {
	return &fakeHypervisor{
		domains:  make(map[string]string),
		saved:    make(map[string]string),
		failing:  make(map[string]bool),
		uri:      "qemu:///system",
		restored: StateRunning,
	}
}

func (h *fakeHypervisor) withDomain(name, state string) *fakeHypervisor {
	h.domains[name] = state
	return h
}

func (h *fakeHypervisor) state(name string) string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.domains[name]
}

func (h *fakeHypervisor) commands() []string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]string(nil), h.calls...)
}

// verbs returns the first word of every sub-command run so far.
func (h *fakeHypervisor) verbs() []string {
	var out []string
	for _, c := range h.commands() {
		out = append(out, strings.Fields(c)[0])
	}
	return out
}

func (h *fakeHypervisor) Run(_ context.Context, command string) (*executor.Result, error) {
	h.mu.Lock()
	h.lines = append(h.lines, command)
	err := h.runErr
	h.mu.Unlock()
	if err != nil {
		return nil, err
	}

	fields := strings.Fields(command)[1:]
	if len(fields) >= 2 && fields[0] == "-c" {
		fields = fields[2:]
	}
	status, stdout, stderr := h.handle(strings.Join(fields, " "))
	return &executor.Result{Command: command, ExitStatus: status, Stdout: stdout, Stderr: stderr}, nil
}

func (h *fakeHypervisor) handle(sub string) (int, string, string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.calls = append(h.calls, sub)
	fields := strings.Fields(sub)
	if len(fields) == 0 {
		return 0, "", ""
	}
	verb := fields[0]
	arg := func(i int) string {
		if i < len(fields) {
			return fields[i]
		}
		return ""
	}
	if h.failing[verb] {
		return 1, "", "error: failed to " + verb + " " + arg(1) + "\n"
	}

	name := arg(1)
	state, exists := h.domains[name]
	notFound := "error: failed to get domain '" + name + "'\n"
	set := func(s string) {
		if !h.frozen {
			h.domains[name] = s
		}
	}

	switch verb {
	case "domstate":
		if !exists {
			return 1, "", notFound
		}
		return 0, state + "\n\n", ""
	case "start":
		if !exists {
			return 1, "", notFound
		}
		if state != StateShutOff {
			return 1, "", "error: Domain is already active\n"
		}
		set(StateRunning)
	case "shutdown", "destroy":
		if !exists {
			return 1, "", notFound
		}
		if !IsAliveState(state) {
			return 1, "", "error: domain is not running\n"
		}
		set(StateShutOff)
	case "suspend":
		if !exists {
			return 1, "", notFound
		}
		set(StatePaused)
	case "resume":
		if !exists {
			return 1, "", notFound
		}
		set(StateRunning)
	case "save":
		if !exists {
			return 1, "", notFound
		}
		h.saved[arg(2)] = name
		set(StateShutOff)
	case "restore":
		dom, ok := h.saved[arg(1)]
		if !ok {
			return 1, "", "error: Failed to restore domain from " + arg(1) + "\n"
		}
		if !h.frozen {
			h.domains[dom] = h.restored
		}
	case "undefine":
		if !exists {
			return 1, "", notFound
		}
		if !h.frozen {
			delete(h.domains, name)
		}
	case "uri":
		return 0, h.uri + "\n", ""
	case "hostname":
		return 0, "host1.example.com\n", ""
	}
	return 0, "ok\n", ""
}

func (h *fakeHypervisor) Spawn(argv []string) (session.Process, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.spawns = append(h.spawns, argv)
	inR, inW := io.Pipe()
	outR, outW := io.Pipe()
	p := &fakeProcess{
		inR: inR, inW: inW, outR: outR, outW: outW,
		pid:    2000 + len(h.processes),
		exited: make(chan struct{}),
	}
	h.processes = append(h.processes, p)

	go h.serve(p)
	return p, nil
}

func (h *fakeHypervisor) serve(p *fakeProcess) {
	defer p.exit()

	if _, err := io.WriteString(p.outW, "virsh # "); err != nil {
		return
	}
	sc := bufio.NewScanner(p.inR)
	for sc.Scan() {
		_, stdout, stderr := h.handle(sc.Text())
		out := strings.ReplaceAll(stdout+stderr, "\n", "\r\n")
		if _, err := io.WriteString(p.outW, out+"virsh # "); err != nil {
			return
		}
	}
}

// fakeProcess is an in-memory session.Process.
type fakeProcess struct {
	inR  *io.PipeReader
	inW  *io.PipeWriter
	outR *io.PipeReader
	outW *io.PipeWriter

	pid    int
	exited chan struct{}
	once   sync.Once
	killed bool
}

func (p *fakeProcess) Read(b []byte) (int, error)  { return p.outR.Read(b) }
func (p *fakeProcess) Write(b []byte) (int, error) { return p.inW.Write(b) }
func (p *fakeProcess) Pid() int                    { return p.pid }
func (p *fakeProcess) Exited() <-chan struct{}     { return p.exited }

func (p *fakeProcess) Kill() error {
	p.killed = true
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

var errRunner = errors.New("fork/exec /usr/bin/virsh: resource temporarily unavailable")
