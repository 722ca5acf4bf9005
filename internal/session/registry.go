package session

import (
	"context"
	"fmt"
	"sort"
	"sync"
)

// DefaultRegistry is used by callers that do not supply their own.
var DefaultRegistry = NewRegistry()

// Registry tracks running sessions by id so they can be attached to later.
// A closed session is removed and its id becomes invalid.
type Registry struct {
	mu       sync.Mutex
	sessions map[string]*Session
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{sessions: make(map[string]*Session)}
}

// Open attaches to opts.ExistingID when set; otherwise it spawns a new
// session and registers it.
func (r *Registry) Open(ctx context.Context, opts Options) (*Session, error) {
	if opts.ExistingID != "" {
		return r.Attach(opts.ExistingID)
	}

	s, err := Open(ctx, opts)
	if err != nil {
		return nil, err
	}

	r.mu.Lock()
	r.sessions[s.id] = s
	r.mu.Unlock()

	s.mu.Lock()
	s.onClose = r.remove
	s.mu.Unlock()
	return s, nil
}

// Attach returns the running session with the given id.
func (r *Registry) Attach(id string) (*Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.sessions[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrSessionNotFound, id)
	}
	return s, nil
}

// Close closes and unregisters the session with the given id.
func (r *Registry) Close(id string) error {
	s, err := r.Attach(id)
	if err != nil {
		return err
	}
	return s.Close()
}

// IDs returns the ids of all running sessions, sorted.
func (r *Registry) IDs() []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	ids := make([]string, 0, len(r.sessions))
	for id := range r.sessions {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

func (r *Registry) remove(id string) {
	r.mu.Lock()
	delete(r.sessions, id)
	r.mu.Unlock()
}
