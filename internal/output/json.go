package output

import (
	"encoding/json"
	"fmt"

	"github.com/jbweber/virshkit/internal/executor"
)

// JSONFormatter formats output as JSON.
type JSONFormatter struct{}

// FormatResult formats an invocation result as a JSON object.
func (f *JSONFormatter) FormatResult(r *executor.Result) (string, error) {
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal result to JSON: %w", err)
	}

	return string(data) + "\n", nil
}

// FormatStates formats a state report as a JSON array.
func (f *JSONFormatter) FormatStates(states []DomainState) (string, error) {
	if len(states) == 0 {
		return "[]\n", nil
	}

	data, err := json.MarshalIndent(states, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal states to JSON: %w", err)
	}

	return string(data) + "\n", nil
}
