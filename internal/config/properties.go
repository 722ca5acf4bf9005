package config

import (
	"fmt"
	"reflect"
	"sort"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"
)

// Recognized property keys.
const (
	KeyURI            = "uri"
	KeyExecutablePath = "executable_path"
	KeyIgnoreErrors   = "ignore_errors"
	KeyDebug          = "debug"
)

func isKnownKey(key string) bool {
	switch key {
	case KeyURI, KeyExecutablePath, KeyIgnoreErrors, KeyDebug:
		return true
	}
	return false
}

// Properties is the key/value view of a Config. Built-in keys map onto typed
// fields; keys from Config.Extra extend the recognized set for this instance
// only.
//
// Properties is not safe for concurrent use.
type Properties struct {
	cfg        Config
	extra      map[string]any
	recognized map[string]bool
}

// NewProperties creates a property store from cfg. Unset fields take their
// defaults.
func NewProperties(cfg Config) *Properties {
	cfg.Normalize()
	p := &Properties{
		cfg:        cfg,
		extra:      make(map[string]any, len(cfg.Extra)),
		recognized: make(map[string]bool, len(cfg.Extra)),
	}
	for k, v := range cfg.Extra {
		p.extra[k] = v
		p.recognized[k] = true
	}
	p.cfg.Extra = nil
	return p
}

// Config returns a snapshot of the current values.
func (p *Properties) Config() Config {
	cfg := p.cfg
	if len(p.extra) > 0 {
		cfg.Extra = make(map[string]string, len(p.extra))
		for k, v := range p.extra {
			cfg.Extra[k] = fmt.Sprint(v)
		}
	}
	return cfg
}

// URI returns the connection URI; empty means the local default.
func (p *Properties) URI() string { return p.cfg.URI }

// ExecutablePath returns the management binary path.
func (p *Properties) ExecutablePath() string { return p.cfg.ExecutablePath }

// IgnoreErrors reports whether failed invocations return a result instead of an error.
func (p *Properties) IgnoreErrors() bool { return p.cfg.IgnoreErrors }

// Debug reports whether every invocation is logged.
func (p *Properties) Debug() bool { return p.cfg.Debug }

// Keys returns every recognized key, sorted.
func (p *Properties) Keys() []string {
	keys := []string{KeyURI, KeyExecutablePath, KeyIgnoreErrors, KeyDebug}
	for k := range p.recognized {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Get returns the value stored under key, or its default.
func (p *Properties) Get(key string) (any, error) {
	switch key {
	case KeyURI:
		return p.cfg.URI, nil
	case KeyExecutablePath:
		return p.cfg.ExecutablePath, nil
	case KeyIgnoreErrors:
		return p.cfg.IgnoreErrors, nil
	case KeyDebug:
		return p.cfg.Debug, nil
	}
	if v, ok := p.extra[key]; ok {
		return v, nil
	}
	return nil, &NotFoundError{Key: key}
}

// Set validates and stores value under key. Boolean keys accept any value
// and normalize it by truthiness.
func (p *Properties) Set(key string, value any) error {
	switch key {
	case KeyURI:
		s, ok := value.(string)
		if !ok && value != nil {
			return &ConfigurationError{Key: key, Reason: fmt.Sprintf("must be a string, got %T", value)}
		}
		p.SetURI(s)
		return nil
	case KeyExecutablePath:
		s, ok := value.(string)
		if !ok {
			return &ConfigurationError{Key: key, Reason: fmt.Sprintf("must be a string, got %T", value)}
		}
		return p.SetExecutablePath(s)
	case KeyIgnoreErrors:
		p.SetIgnoreErrors(Truthy(value))
		return nil
	case KeyDebug:
		p.SetDebug(Truthy(value))
		return nil
	}
	if !p.recognized[key] {
		return &ConfigurationError{Key: key, Reason: "is not a recognized setting"}
	}
	p.extra[key] = value
	return nil
}

// Delete removes a locally set value. Built-in keys fall back to their
// default; instance-local keys are dropped until set again.
func (p *Properties) Delete(key string) error {
	d := Defaults()
	switch key {
	case KeyURI:
		p.cfg.URI = d.URI
		return nil
	case KeyExecutablePath:
		p.cfg.ExecutablePath = d.ExecutablePath
		return nil
	case KeyIgnoreErrors:
		p.cfg.IgnoreErrors = d.IgnoreErrors
		return nil
	case KeyDebug:
		p.cfg.Debug = d.Debug
		return nil
	}
	if _, ok := p.extra[key]; !ok {
		return &NotFoundError{Key: key}
	}
	delete(p.extra, key)
	return nil
}

// SetURI stores the connection URI.
func (p *Properties) SetURI(uri string) {
	p.cfg.URI = uri
}

// SetExecutablePath stores the management binary path.
func (p *Properties) SetExecutablePath(path string) error {
	if strings.TrimSpace(path) == "" {
		return &ConfigurationError{Key: KeyExecutablePath, Reason: "is required"}
	}
	p.cfg.ExecutablePath = path
	return nil
}

// SetIgnoreErrors toggles error tolerance.
func (p *Properties) SetIgnoreErrors(ignore bool) {
	p.cfg.IgnoreErrors = ignore
}

// SetDebug toggles per-invocation logging and announces the change.
func (p *Properties) SetDebug(debug bool) {
	p.cfg.Debug = debug
	if debug {
		logrus.Debug("Virsh debugging switched on")
	} else {
		logrus.Debug("Virsh debugging switched off")
	}
}

// Truthy normalizes an arbitrary value to a boolean: nil, false, zero
// numbers, empty strings and empty collections are false. Strings that parse
// with strconv.ParseBool ("false", "0", ...) use the parsed value; any other
// non-empty string is true.
func Truthy(value any) bool {
	switch v := value.(type) {
	case nil:
		return false
	case bool:
		return v
	case string:
		if v == "" {
			return false
		}
		if b, err := strconv.ParseBool(strings.TrimSpace(v)); err == nil {
			return b
		}
		switch strings.ToLower(strings.TrimSpace(v)) {
		case "no", "off":
			return false
		}
		return true
	}

	rv := reflect.ValueOf(value)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return rv.Int() != 0
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return rv.Uint() != 0
	case reflect.Float32, reflect.Float64:
		return rv.Float() != 0
	case reflect.Slice, reflect.Map, reflect.Array, reflect.Chan:
		return rv.Len() != 0
	case reflect.Pointer, reflect.Interface:
		return !rv.IsNil()
	}
	return true
}
