package config

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"regexp"
	"time"

	"al.essio.dev/pkg/shellescape"
	"github.com/mattn/go-shellwords"
	"gopkg.in/yaml.v3"
)

const (
	// DefaultExecutable is the management binary looked up on PATH when no
	// executable_path is configured.
	DefaultExecutable = "virsh"

	// DefaultPrompt matches the interactive virsh prompt ("virsh # ").
	DefaultPrompt = `virsh\s*#\s*`

	// DefaultCommandTimeout bounds a single interactive command.
	DefaultCommandTimeout = 60 * time.Second

	// DefaultStartupTimeout bounds the wait for the first prompt of a new session.
	DefaultStartupTimeout = 10 * time.Second
)

// Config holds the per-connection settings merged into every catalog operation.
type Config struct {
	URI            string            `yaml:"uri,omitempty"` // Empty means the local default connection
	ExecutablePath string            `yaml:"executable_path,omitempty"`
	IgnoreErrors   bool              `yaml:"ignore_errors,omitempty"`
	Debug          bool              `yaml:"debug,omitempty"`
	Prompt         string            `yaml:"prompt,omitempty"`
	CommandTimeout time.Duration     `yaml:"command_timeout,omitempty"`
	StartupTimeout time.Duration     `yaml:"startup_timeout,omitempty"`
	Extra          map[string]string `yaml:"extra,omitempty"` // Instance-local keys not known to the store
}

// Defaults returns a Config populated with default values. ExecutablePath is
// left as the bare binary name; call ResolveExecutable to make it absolute.
func Defaults() Config {
	return Config{
		ExecutablePath: DefaultExecutable,
		Prompt:         DefaultPrompt,
		CommandTimeout: DefaultCommandTimeout,
		StartupTimeout: DefaultStartupTimeout,
	}
}

// Normalize fills unset fields with defaults.
func (c *Config) Normalize() {
	d := Defaults()
	if c.ExecutablePath == "" {
		c.ExecutablePath = d.ExecutablePath
	}
	if c.Prompt == "" {
		c.Prompt = d.Prompt
	}
	if c.CommandTimeout == 0 {
		c.CommandTimeout = d.CommandTimeout
	}
	if c.StartupTimeout == 0 {
		c.StartupTimeout = d.StartupTimeout
	}
}

// Validate checks the configuration for errors.
// Does not check that the executable exists - see ResolveExecutable.
func (c *Config) Validate() error {
	if c.ExecutablePath == "" {
		return &ConfigurationError{Key: KeyExecutablePath, Reason: "is required"}
	}
	if _, err := shellwords.Parse(c.ExecutablePath); err != nil {
		return &ConfigurationError{Key: KeyExecutablePath, Reason: fmt.Sprintf("cannot be parsed: %v", err)}
	}
	if c.Prompt != "" {
		if _, err := regexp.Compile(c.Prompt); err != nil {
			return &ConfigurationError{Key: "prompt", Reason: fmt.Sprintf("invalid pattern: %v", err)}
		}
	}
	if c.CommandTimeout < 0 {
		return &ConfigurationError{Key: "command_timeout", Reason: fmt.Sprintf("must be >= 0, got %s", c.CommandTimeout)}
	}
	if c.StartupTimeout < 0 {
		return &ConfigurationError{Key: "startup_timeout", Reason: fmt.Sprintf("must be >= 0, got %s", c.StartupTimeout)}
	}
	for key := range c.Extra {
		if isKnownKey(key) {
			return &ConfigurationError{Key: key, Reason: "is a built-in setting and cannot be given in extra"}
		}
	}
	return nil
}

// ExecutableArgs splits ExecutablePath into argv, so wrappers such as
// "sudo virsh" keep working.
func (c *Config) ExecutableArgs() ([]string, error) {
	args, err := shellwords.Parse(c.ExecutablePath)
	if err != nil {
		return nil, fmt.Errorf("failed to parse executable path %q: %w", c.ExecutablePath, err)
	}
	if len(args) == 0 {
		return nil, &ConfigurationError{Key: KeyExecutablePath, Reason: "is empty"}
	}
	return args, nil
}

// ResolveExecutable resolves the binary named by ExecutablePath to an absolute
// path. Any trailing words (arguments) are kept as given.
func (c *Config) ResolveExecutable() error {
	args, err := c.ExecutableArgs()
	if err != nil {
		return err
	}

	path, err := exec.LookPath(args[0])
	if err != nil {
		return &ConfigurationError{Key: KeyExecutablePath, Reason: fmt.Sprintf("%q not found: %v", args[0], err)}
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("failed to make %s absolute: %w", path, err)
	}

	if len(args) == 1 {
		c.ExecutablePath = shellescape.Quote(abs)
		return nil
	}
	c.ExecutablePath = shellescape.QuoteCommand(append([]string{abs}, args[1:]...))
	return nil
}

// LoadFromFile loads a configuration from a YAML file.
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	return LoadFromYAML(data)
}

// LoadFromYAML loads a configuration from YAML bytes, applying defaults
// before validation.
func LoadFromYAML(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	cfg.Normalize()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// SaveToFile writes the configuration as YAML.
func SaveToFile(cfg *Config, path string) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config to YAML: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write file %s: %w", path, err)
	}

	return nil
}
