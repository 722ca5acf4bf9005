package virsh

import "fmt"

// StatusError is returned when a domain is not in the state an operation
// requires before or after running.
type StatusError struct {
	Domain  string
	State   string
	Message string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("domain %s: %s", e.Domain, e.Message)
}
