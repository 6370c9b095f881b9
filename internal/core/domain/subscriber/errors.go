package subscriber

import "fmt"

// ValidationError reports a malformed signup field. It is caller-correctable
// and handled at the HTTP boundary; it never escalates past it.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}
