// Package output provides formatters for displaying invocation results and
// domain state reports in various formats (table, YAML, JSON).
package output

import (
	"fmt"

	"github.com/jbweber/virshkit/internal/executor"
)

// Format represents an output format type.
type Format string

const (
	// FormatTable is a human-readable format: raw stdout for results, a
	// table for state reports.
	FormatTable Format = "table"
	// FormatYAML is a YAML format.
	FormatYAML Format = "yaml"
	// FormatJSON is a JSON format for machine consumption.
	FormatJSON Format = "json"
)

// DomainState is one row of a state report.
type DomainState struct {
	Name  string `json:"name" yaml:"name"`
	State string `json:"state" yaml:"state"`
	Alive bool   `json:"alive" yaml:"alive"`

	// Daemon is the state reported by the libvirt daemon when it was probed
	// as well.
	Daemon string `json:"daemon,omitempty" yaml:"daemon,omitempty"`
}

// Mismatch reports whether the daemon was probed and disagrees with virsh.
func (s DomainState) Mismatch() bool {
	return s.Daemon != "" && s.Daemon != s.State
}

// Formatter formats results for output.
type Formatter interface {
	// FormatResult formats the outcome of one invocation.
	FormatResult(r *executor.Result) (string, error)

	// FormatStates formats a state report.
	FormatStates(states []DomainState) (string, error)
}

// Options contains options for formatting output.
type Options struct {
	// Format specifies the output format.
	Format Format
	// NoHeaders omits headers in table format.
	NoHeaders bool
}

// NewFormatter creates a new Formatter based on the specified format.
func NewFormatter(opts Options) (Formatter, error) {
	switch opts.Format {
	case FormatTable:
		return &TableFormatter{NoHeaders: opts.NoHeaders}, nil
	case FormatYAML:
		return &YAMLFormatter{}, nil
	case FormatJSON:
		return &JSONFormatter{}, nil
	default:
		return nil, fmt.Errorf("unsupported output format: %s (supported: table, yaml, json)", opts.Format)
	}
}

// ValidateFormat checks if a format string is valid.
func ValidateFormat(format string) error {
	f := Format(format)
	switch f {
	case FormatTable, FormatYAML, FormatJSON:
		return nil
	default:
		return fmt.Errorf("invalid format: %s (valid formats: table, yaml, json)", format)
	}
}
