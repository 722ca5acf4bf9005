package config

import "fmt"

// NotFoundError is returned when a key has no value and no default.
type NotFoundError struct {
	Key string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("property %q not found", e.Key)
}

// ConfigurationError reports an unknown setting or an invalid value for a
// known one. It always indicates a broken harness, never a test outcome.
type ConfigurationError struct {
	Key    string
	Reason string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("configuration error: %s %s", e.Key, e.Reason)
}
