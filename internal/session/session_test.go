package session

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jbweber/virshkit/internal/executor"
)

func openFake(t *testing.T, sp *fakeSpawner, uri string) *Session {
	t.Helper()
	s, err := Open(context.Background(), Options{
		ExecutablePath: "/usr/bin/virsh",
		URI:            uri,
		Spawner:        sp,
		StartupTimeout: 2 * time.Second,
		CommandTimeout: 2 * time.Second,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestOpen_SpawnsWithURI(t *testing.T) {
	sp := newFakeSpawner()
	s := openFake(t, sp, "qemu:///system")

	require.Len(t, sp.spawnCalls, 1)
	assert.Equal(t, []string{"/usr/bin/virsh", "-c", "qemu:///system"}, sp.spawnCalls[0])
	assert.Equal(t, []string{"/usr/bin/virsh", "-c", "qemu:///system"}, s.Command())
	assert.NotEmpty(t, s.ID())
	assert.Equal(t, 1000, s.Pid())
}

func TestOpen_NoURI(t *testing.T) {
	sp := newFakeSpawner()
	openFake(t, sp, "")

	assert.Equal(t, []string{"/usr/bin/virsh"}, sp.spawnCalls[0])
}

func TestOpen_WrapperWords(t *testing.T) {
	sp := newFakeSpawner()
	s, err := Open(context.Background(), Options{ExecutablePath: "sudo -n virsh", Spawner: sp})
	require.NoError(t, err)
	defer s.Close()

	assert.Equal(t, []string{"sudo", "-n", "virsh"}, sp.spawnCalls[0])
}

func TestOpen_Failures(t *testing.T) {
	tests := []struct {
		name  string
		setup func(sp *fakeSpawner)
	}{
		{"spawn fails", func(sp *fakeSpawner) { sp.spawnErr = errSpawn }},
		{"exits before prompt", func(sp *fakeSpawner) { sp.exitEarly = true }},
		{"prompt never shown", func(sp *fakeSpawner) { sp.noPrompt = true }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sp := newFakeSpawner()
			tt.setup(sp)

			_, err := Open(context.Background(), Options{
				ExecutablePath: "virsh",
				Spawner:        sp,
				StartupTimeout: 100 * time.Millisecond,
			})

			var startErr *StartError
			require.ErrorAs(t, err, &startErr)
			assert.Equal(t, []string{"virsh"}, startErr.Command)
		})
	}
}

func TestOpen_InvalidPrompt(t *testing.T) {
	_, err := Open(context.Background(), Options{ExecutablePath: "virsh", Prompt: "([", Spawner: newFakeSpawner()})
	assert.Error(t, err)
}

func TestSendCommand_Success(t *testing.T) {
	sp := newFakeSpawner()
	sp.handler = func(line string) reply {
		return reply{output: "running\r\n\r\n"}
	}
	s := openFake(t, sp, "")

	status, out, err := s.SendCommand(context.Background(), "domstate vm1", time.Second, 0)
	require.NoError(t, err)

	assert.Equal(t, 0, status)
	assert.Equal(t, "running\n\n", out, "echo and prompt are stripped, CRLF normalized")
	assert.Equal(t, []string{"domstate vm1"}, sp.lines())
}

func TestSendCommand_WithoutEcho(t *testing.T) {
	sp := newFakeSpawner()
	sp.echo = false
	s := openFake(t, sp, "")

	_, out, err := s.SendCommand(context.Background(), "hostname", time.Second, 0)
	require.NoError(t, err)
	assert.Equal(t, "ran hostname\n", out)
}

func TestSendCommand_InfersFailure(t *testing.T) {
	sp := newFakeSpawner()
	sp.handler = func(line string) reply {
		if strings.HasSuffix(line, "missing") {
			return reply{output: "error: domain not found\r\n"}
		}
		return reply{output: "shut off\r\n"}
	}
	s := openFake(t, sp, "")

	status, out, err := s.SendCommand(context.Background(), "domstate missing", time.Second, 0)
	require.NoError(t, err)
	assert.Equal(t, 1, status)
	assert.Contains(t, out, "error: domain not found")

	status, _, err = s.SendCommand(context.Background(), "domstate vm1", time.Second, 0)
	require.NoError(t, err)
	assert.Equal(t, 0, status)
}

func TestSendCommand_Timeout(t *testing.T) {
	sp := newFakeSpawner()
	sp.handler = func(line string) reply {
		return reply{output: "partial output\r\n", noPrompt: true}
	}
	s := openFake(t, sp, "")

	_, _, err := s.SendCommand(context.Background(), "migrate vm1", 50*time.Millisecond, 0)
	var timeoutErr *TimeoutError
	require.ErrorAs(t, err, &timeoutErr)
	assert.Equal(t, "migrate vm1", timeoutErr.Command)
	assert.Contains(t, timeoutErr.Output, "partial output")

	// The session is in an undefined state after a timeout.
	_, _, err = s.SendCommand(context.Background(), "list", time.Second, 0)
	var protoErr *ProtocolError
	assert.ErrorAs(t, err, &protoErr)
}

func TestSendCommand_Terminated(t *testing.T) {
	sp := newFakeSpawner()
	sp.handler = func(line string) reply {
		return reply{output: "bye\r\n", exit: true}
	}
	s := openFake(t, sp, "")

	_, _, err := s.SendCommand(context.Background(), "quit", time.Second, 0)
	var termErr *TerminatedError
	require.ErrorAs(t, err, &termErr)
	assert.Contains(t, termErr.Output, "bye")
}

func TestSendCommand_ContextCancelled(t *testing.T) {
	sp := newFakeSpawner()
	sp.handler = func(line string) reply { return reply{noPrompt: true} }
	s := openFake(t, sp, "")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, _, err := s.SendCommand(ctx, "list", time.Second, 0)
	assert.True(t, errors.Is(err, context.Canceled))
}

func TestSendCommand_DrainsStaleOutput(t *testing.T) {
	sp := newFakeSpawner()
	calls := 0
	sp.handler = func(line string) reply {
		calls++
		if calls == 1 {
			// Late noise after the prompt of the first command.
			return reply{output: "first\r\n", after: "stale noise\r\n"}
		}
		return reply{output: "second\r\n"}
	}
	s := openFake(t, sp, "")

	_, out, err := s.SendCommand(context.Background(), "one", time.Second, 0)
	require.NoError(t, err)
	assert.Equal(t, "first\n", out)

	_, out, err = s.SendCommand(context.Background(), "two", time.Second, 50*time.Millisecond)
	require.NoError(t, err)
	assert.Equal(t, "second\n", out)
}

func TestRun(t *testing.T) {
	sp := newFakeSpawner()
	sp.handler = func(line string) reply {
		if line == "start vm1" {
			return reply{output: "error: Failed to start domain vm1\r\n"}
		}
		return reply{output: "Domain vm2 started\r\n"}
	}
	s := openFake(t, sp, "")

	result, err := s.Run(context.Background(), "start vm2", false)
	require.NoError(t, err)
	assert.Equal(t, executor.Result{Command: "start vm2", Stdout: "Domain vm2 started\n"}, *result)

	_, err = s.Run(context.Background(), "start vm1", false)
	var cmdErr *executor.CommandError
	require.ErrorAs(t, err, &cmdErr)
	assert.Equal(t, 1, cmdErr.Result.ExitStatus)
	assert.Empty(t, cmdErr.Result.Stderr)

	result, err = s.Run(context.Background(), "start vm1", true)
	require.NoError(t, err)
	assert.Equal(t, 1, result.ExitStatus)
}

func TestClose_Idempotent(t *testing.T) {
	sp := newFakeSpawner()
	s := openFake(t, sp, "")

	require.NoError(t, s.Close())
	require.NoError(t, s.Close())
	assert.True(t, s.Closed())

	_, _, err := s.SendCommand(context.Background(), "list", time.Second, 0)
	assert.ErrorIs(t, err, ErrClosed)

	select {
	case <-sp.processes[0].Exited():
	case <-time.After(time.Second):
		t.Fatal("process not terminated by Close")
	}
}

// TestPipeSpawner_RealProcess drives a real child process that behaves like
// a minimal interactive virsh.
func TestPipeSpawner_RealProcess(t *testing.T) {
	if _, err := os.Stat("/bin/sh"); err != nil {
		t.Skip("/bin/sh not available")
	}

	script := filepath.Join(t.TempDir(), "fake-virsh")
	body := `#!/bin/sh
printf 'Welcome\n\nvirsh # '
while IFS= read -r line; do
  case "$line" in
    quit) exit 0 ;;
    "domstate missing") echo "error: failed to get domain 'missing'" ;;
    *) echo "ran: $line $*" ;;
  esac
  printf 'virsh # '
done
`
	require.NoError(t, os.WriteFile(script, []byte(body), 0755))

	s, err := Open(context.Background(), Options{
		ExecutablePath: script,
		URI:            "test:///default",
		Spawner:        PipeSpawner{},
		StartupTimeout: 5 * time.Second,
		CommandTimeout: 5 * time.Second,
	})
	require.NoError(t, err)
	defer s.Close()

	status, out, err := s.SendCommand(context.Background(), "domstate vm1", 5*time.Second, 0)
	require.NoError(t, err)
	assert.Equal(t, 0, status)
	assert.Equal(t, "ran: domstate vm1 -c test:///default\n", out)

	status, _, err = s.SendCommand(context.Background(), "domstate missing", 5*time.Second, 0)
	require.NoError(t, err)
	assert.Equal(t, 1, status)

	_, _, err = s.SendCommand(context.Background(), "quit", 5*time.Second, 0)
	var termErr *TerminatedError
	assert.ErrorAs(t, err, &termErr)

	require.NoError(t, s.Close())
}
