package output

import (
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/jbweber/virshkit/internal/executor"
)

// YAMLFormatter formats output as YAML.
type YAMLFormatter struct{}

// FormatResult formats an invocation result as a YAML document.
func (f *YAMLFormatter) FormatResult(r *executor.Result) (string, error) {
	data, err := yaml.Marshal(r)
	if err != nil {
		return "", fmt.Errorf("failed to marshal result to YAML: %w", err)
	}

	return string(data), nil
}

// FormatStates formats a state report as a YAML sequence.
func (f *YAMLFormatter) FormatStates(states []DomainState) (string, error) {
	if len(states) == 0 {
		return "[]\n", nil
	}

	data, err := yaml.Marshal(states)
	if err != nil {
		return "", fmt.Errorf("failed to marshal states to YAML: %w", err)
	}

	return string(data), nil
}
