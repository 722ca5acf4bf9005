package virsh

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/jbweber/virshkit/internal/config"
	"github.com/jbweber/virshkit/internal/executor"
	"github.com/jbweber/virshkit/internal/session"
)

// Keys of the session properties. Both are read-only.
const (
	KeySession   = "session"
	KeySessionID = "session_id"
)

// Option configures a façade.
type Option func(*Virsh)

// WithRunner sets the runner used for one-shot invocations.
func WithRunner(r executor.Runner) Option {
	return func(v *Virsh) {
		v.runner = r
	}
}

// WithRegistry sets the registry persistent sessions are opened through.
func WithRegistry(r *session.Registry) Option {
	return func(v *Virsh) {
		v.registry = r
	}
}

// WithSpawner sets how persistent sessions start the management binary.
func WithSpawner(s session.Spawner) Option {
	return func(v *Virsh) {
		v.spawner = s
	}
}

// WithSessionID makes a persistent façade attach to a running session
// instead of spawning its first one. The attaching façade shares ownership
// of that session: if either façade closes or replaces it, the other one
// reports no session and its operations fail with session.ErrClosed.
func WithSessionID(id string) Option {
	return func(v *Virsh) {
		v.attachID = id
	}
}

// Virsh runs every catalog operation as a new virsh process, configured by
// its properties at call time.
//
// A Virsh is not safe for concurrent use.
type Virsh struct {
	props    *config.Properties
	runner   executor.Runner
	registry *session.Registry
	spawner  session.Spawner

	screenshotErrors int

	// Only used by Persistent.
	persistent bool
	attachID   string
	sess       *session.Session
}

// New creates a transient façade from cfg.
func New(cfg config.Config, opts ...Option) *Virsh {
	v := &Virsh{
		props:    config.NewProperties(cfg),
		registry: session.DefaultRegistry,
	}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// Config returns a snapshot of the current configuration.
func (v *Virsh) Config() config.Config {
	return v.props.Config()
}

// ScreenshotErrors returns the number of failed screenshots so far.
func (v *Virsh) ScreenshotErrors() int {
	return v.screenshotErrors
}

// Get returns the property stored under key. "session" yields the
// *session.Session of a persistent façade and "session_id" its id; both are
// nil or empty otherwise, including when a shared session was closed.
func (v *Virsh) Get(key string) (any, error) {
	switch key {
	case KeySession:
		if !v.hasSession() {
			return nil, nil
		}
		return v.sess, nil
	case KeySessionID:
		if !v.hasSession() {
			return "", nil
		}
		return v.sess.ID(), nil
	}
	return v.props.Get(key)
}

// Set validates and stores a property.
func (v *Virsh) Set(ctx context.Context, key string, value any) error {
	if key == KeySession || key == KeySessionID {
		return &config.ConfigurationError{Key: key, Reason: "is read-only"}
	}
	return v.props.Set(key, value)
}

// Delete resets a property to its default.
func (v *Virsh) Delete(ctx context.Context, key string) error {
	if key == KeySession || key == KeySessionID {
		return &config.ConfigurationError{Key: key, Reason: "is read-only"}
	}
	return v.props.Delete(key)
}

// SetURI changes the connection URI used by later operations.
func (v *Virsh) SetURI(ctx context.Context, uri string) error {
	return v.Set(ctx, config.KeyURI, uri)
}

// SetIgnoreErrors toggles whether failed invocations return a result.
func (v *Virsh) SetIgnoreErrors(ignore bool) {
	v.props.SetIgnoreErrors(ignore)
}

// SetDebug toggles per-invocation logging.
func (v *Virsh) SetDebug(debug bool) {
	v.props.SetDebug(debug)
}

// Close releases the façade. It is a no-op for a transient façade.
func (v *Virsh) Close() error {
	return nil
}

// hasSession reports whether the façade holds a session that is still open.
func (v *Virsh) hasSession() bool {
	return v.sess != nil && !v.sess.Closed()
}

func (v *Virsh) params() Params {
	p := Params{
		Options: executor.Options{
			ExecutablePath: v.props.ExecutablePath(),
			URI:            v.props.URI(),
			Debug:          v.props.Debug(),
			IgnoreErrors:   v.props.IgnoreErrors(),
			Runner:         v.runner,
		},
		ScreenshotErrors: &v.screenshotErrors,
	}
	switch {
	case v.sess != nil:
		p.Session = v.sess
	case v.persistent:
		p.Session = closedSession{}
	}
	return p
}

// closedSession stands in for the session of a persistent façade that has
// none, so operations fail instead of silently spawning processes.
type closedSession struct{}

func (closedSession) Run(context.Context, string, bool) (*executor.Result, error) {
	return nil, session.ErrClosed
}

// Persistent runs every catalog operation inside one interactive virsh
// session. Changing the URI replaces the session.
//
// Callers must not issue operations on the same Persistent concurrently.
type Persistent struct {
	*Virsh
}

// NewPersistent creates a persistent façade and opens its session, or
// attaches to the one named by WithSessionID.
func NewPersistent(ctx context.Context, cfg config.Config, opts ...Option) (*Persistent, error) {
	p := &Persistent{Virsh: New(cfg, opts...)}
	p.persistent = true

	if err := p.NewSession(ctx); err != nil {
		return nil, err
	}
	return p, nil
}

// Session returns the current session, or nil after Close.
func (p *Persistent) Session() *session.Session {
	return p.sess
}

// NewSession closes the current session and opens a new one with the
// current executable and URI.
func (p *Persistent) NewSession(ctx context.Context) error {
	if err := p.closeSession(); err != nil {
		return err
	}

	cfg := p.props.Config()
	opts := session.Options{
		ExecutablePath: cfg.ExecutablePath,
		URI:            cfg.URI,
		ExistingID:     p.attachID,
		Prompt:         cfg.Prompt,
		StartupTimeout: cfg.StartupTimeout,
		CommandTimeout: cfg.CommandTimeout,
		Spawner:        p.spawner,
	}
	p.attachID = ""

	s, err := p.registry.Open(ctx, opts)
	if err != nil {
		return fmt.Errorf("failed to open virsh session: %w", err)
	}
	p.sess = s

	logrus.WithField("session", s.ID()).Debugf("Using virsh session for %q", cfg.URI)
	return nil
}

// Set stores a property. Changing "uri" replaces the session.
func (p *Persistent) Set(ctx context.Context, key string, value any) error {
	before := p.props.URI()
	if err := p.Virsh.Set(ctx, key, value); err != nil {
		return err
	}
	return p.reconnect(ctx, before)
}

// Delete resets a property. Resetting "uri" replaces the session.
func (p *Persistent) Delete(ctx context.Context, key string) error {
	before := p.props.URI()
	if err := p.Virsh.Delete(ctx, key); err != nil {
		return err
	}
	return p.reconnect(ctx, before)
}

// SetURI changes the connection URI. When it differs from the current one
// the old session is closed and exactly one new session is opened.
func (p *Persistent) SetURI(ctx context.Context, uri string) error {
	return p.Set(ctx, config.KeyURI, uri)
}

// Close terminates the session. It is safe to call more than once; later
// operations fail with session.ErrClosed.
func (p *Persistent) Close() error {
	return p.closeSession()
}

func (p *Persistent) reconnect(ctx context.Context, before string) error {
	if p.props.URI() == before {
		return nil
	}
	return p.NewSession(ctx)
}

func (p *Persistent) closeSession() error {
	if p.sess == nil {
		return nil
	}
	s := p.sess
	p.sess = nil
	if err := s.Close(); err != nil {
		return fmt.Errorf("failed to close virsh session: %w", err)
	}
	return nil
}
