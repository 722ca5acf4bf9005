package libvirt

import (
	"fmt"

	"github.com/digitalocean/go-libvirt"
)

// mockAPI is a mock implementation of API for testing.
type mockAPI struct {
	libVersion    uint64
	libVersionErr error
	hostname      string

	// name -> state
	domains  map[string]libvirt.DomainState
	listErr  error
	stateErr error

	disconnectCalls int
	lookupCalls     []string
}

func newMockAPI() *mockAPI {
	return &mockAPI{
		libVersion: 9000000,
		hostname:   "host1.example.com",
		domains:    make(map[string]libvirt.DomainState),
	}
}

func (m *mockAPI) ConnectGetLibVersion() (uint64, error) {
	return m.libVersion, m.libVersionErr
}

func (m *mockAPI) ConnectGetHostname() (string, error) {
	return m.hostname, nil
}

func (m *mockAPI) ConnectListAllDomains(_ int32, _ libvirt.ConnectListAllDomainsFlags) ([]libvirt.Domain, uint32, error) {
	if m.listErr != nil {
		return nil, 0, m.listErr
	}
	var domains []libvirt.Domain
	for name := range m.domains {
		domains = append(domains, libvirt.Domain{Name: name})
	}
	return domains, uint32(len(domains)), nil
}

func (m *mockAPI) DomainLookupByName(name string) (libvirt.Domain, error) {
	m.lookupCalls = append(m.lookupCalls, name)
	if _, ok := m.domains[name]; !ok {
		return libvirt.Domain{}, libvirt.Error{
			Code:    uint32(libvirt.ErrNoDomain),
			Message: fmt.Sprintf("Domain not found: no domain with matching name '%s'", name),
		}
	}
	return libvirt.Domain{Name: name}, nil
}

func (m *mockAPI) DomainGetState(dom libvirt.Domain, _ uint32) (int32, int32, error) {
	if m.stateErr != nil {
		return 0, 0, m.stateErr
	}
	state, ok := m.domains[dom.Name]
	if !ok {
		return 0, 0, libvirt.Error{Code: uint32(libvirt.ErrNoDomain)}
	}
	return int32(state), 0, nil
}

func (m *mockAPI) Disconnect() error {
	m.disconnectCalls++
	return nil
}
