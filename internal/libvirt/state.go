package libvirt

import (
	"fmt"
	"sort"

	"github.com/digitalocean/go-libvirt"

	"github.com/jbweber/virshkit/internal/virsh"
)

// StateName maps a libvirt domain state to the name virsh prints for it.
func StateName(state libvirt.DomainState) string {
	switch state {
	case libvirt.DomainNostate:
		return virsh.StateNoState
	case libvirt.DomainRunning:
		return virsh.StateRunning
	case libvirt.DomainBlocked:
		return virsh.StateIdle
	case libvirt.DomainPaused:
		return virsh.StatePaused
	case libvirt.DomainShutdown:
		return virsh.StateInShutdown
	case libvirt.DomainShutoff:
		return virsh.StateShutOff
	case libvirt.DomainCrashed:
		return virsh.StateCrashed
	case libvirt.DomainPmsuspended:
		return virsh.StatePMSuspended
	}
	return "unknown"
}

// DomainState returns the virsh state name of a domain, or
// virsh.StateUndefined when no such domain exists.
func (c *Client) DomainState(name string) (string, error) {
	if c.api == nil {
		return "", fmt.Errorf("client not connected")
	}

	dom, err := c.api.DomainLookupByName(name)
	if err != nil {
		if libvirt.IsNotFound(err) {
			return virsh.StateUndefined, nil
		}
		return "", fmt.Errorf("failed to look up domain %s: %w", name, err)
	}

	return c.state(dom)
}

// DomainStates returns the state of every defined domain by name.
func (c *Client) DomainStates() (map[string]string, error) {
	if c.api == nil {
		return nil, fmt.Errorf("client not connected")
	}

	domains, _, err := c.api.ConnectListAllDomains(1, 0)
	if err != nil {
		return nil, fmt.Errorf("failed to list domains: %w", err)
	}

	states := make(map[string]string, len(domains))
	for _, dom := range domains {
		state, err := c.state(dom)
		if err != nil {
			return nil, err
		}
		states[dom.Name] = state
	}
	return states, nil
}

// DomainNames returns the names of all defined domains, sorted.
func (c *Client) DomainNames() ([]string, error) {
	states, err := c.DomainStates()
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(states))
	for name := range states {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

func (c *Client) state(dom libvirt.Domain) (string, error) {
	state, _, err := c.api.DomainGetState(dom, 0)
	if err != nil {
		if libvirt.IsNotFound(err) {
			return virsh.StateUndefined, nil
		}
		return "", fmt.Errorf("failed to get state of domain %s: %w", dom.Name, err)
	}
	return StateName(libvirt.DomainState(state)), nil
}
