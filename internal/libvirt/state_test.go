package libvirt

import (
	"errors"
	"reflect"
	"testing"

	"github.com/digitalocean/go-libvirt"

	"github.com/jbweber/virshkit/internal/virsh"
)

func TestStateName(t *testing.T) {
	tests := []struct {
		state libvirt.DomainState
		want  string
	}{
		{libvirt.DomainNostate, "no state"},
		{libvirt.DomainRunning, "running"},
		{libvirt.DomainBlocked, "idle"},
		{libvirt.DomainPaused, "paused"},
		{libvirt.DomainShutdown, "in shutdown"},
		{libvirt.DomainShutoff, "shut off"},
		{libvirt.DomainCrashed, "crashed"},
		{libvirt.DomainPmsuspended, "pmsuspended"},
		{libvirt.DomainState(99), "unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			if got := StateName(tt.state); got != tt.want {
				t.Errorf("StateName(%d) = %q, want %q", tt.state, got, tt.want)
			}
		})
	}
}

func TestStateName_AliveMatchesVirsh(t *testing.T) {
	alive := map[libvirt.DomainState]bool{
		libvirt.DomainNostate: true,
		libvirt.DomainRunning: true,
		libvirt.DomainBlocked: true,
		libvirt.DomainPaused:  true,
	}
	for state := libvirt.DomainNostate; state <= libvirt.DomainPmsuspended; state++ {
		if got := virsh.IsAliveState(StateName(state)); got != alive[state] {
			t.Errorf("IsAliveState(%q) = %v, want %v", StateName(state), got, alive[state])
		}
	}
}

func TestDomainState(t *testing.T) {
	api := newMockAPI()
	api.domains["vm1"] = libvirt.DomainRunning
	api.domains["vm2"] = libvirt.DomainShutoff
	c := NewClient(api)

	tests := []struct {
		name string
		want string
	}{
		{"vm1", virsh.StateRunning},
		{"vm2", virsh.StateShutOff},
		{"missing", virsh.StateUndefined},
	}
	for _, tt := range tests {
		got, err := c.DomainState(tt.name)
		if err != nil {
			t.Fatalf("DomainState(%s) failed: %v", tt.name, err)
		}
		if got != tt.want {
			t.Errorf("DomainState(%s) = %q, want %q", tt.name, got, tt.want)
		}
	}
}

func TestDomainState_Error(t *testing.T) {
	api := newMockAPI()
	api.domains["vm1"] = libvirt.DomainRunning
	api.stateErr = errors.New("broken pipe")
	c := NewClient(api)

	if _, err := c.DomainState("vm1"); err == nil {
		t.Fatal("expected error, got nil")
	}
}

func TestDomainStates(t *testing.T) {
	api := newMockAPI()
	api.domains["web"] = libvirt.DomainPaused
	api.domains["db"] = libvirt.DomainRunning
	c := NewClient(api)

	states, err := c.DomainStates()
	if err != nil {
		t.Fatalf("DomainStates failed: %v", err)
	}
	want := map[string]string{"web": virsh.StatePaused, "db": virsh.StateRunning}
	if !reflect.DeepEqual(states, want) {
		t.Errorf("DomainStates = %v, want %v", states, want)
	}

	names, err := c.DomainNames()
	if err != nil {
		t.Fatalf("DomainNames failed: %v", err)
	}
	if !reflect.DeepEqual(names, []string{"db", "web"}) {
		t.Errorf("DomainNames = %v, want [db web]", names)
	}
}

func TestDomainStates_ListError(t *testing.T) {
	api := newMockAPI()
	api.listErr = errors.New("permission denied")

	if _, err := NewClient(api).DomainStates(); err == nil {
		t.Fatal("expected error, got nil")
	}
}

func TestNotConnected(t *testing.T) {
	c := &Client{}
	if _, err := c.DomainState("vm1"); err == nil {
		t.Error("DomainState: expected error on disconnected client")
	}
	if _, err := c.DomainStates(); err == nil {
		t.Error("DomainStates: expected error on disconnected client")
	}
	if _, err := c.Hostname(); err == nil {
		t.Error("Hostname: expected error on disconnected client")
	}
}
