package ports

import (
	"errors"
	"fmt"
)

// ErrUnknownToken is returned when a confirmation token resolves to no
// subscriber. It is deliberately distinct from a storage failure so the
// boundary can answer "bad link" instead of "we are broken".
var ErrUnknownToken = errors.New("no subscriber is associated with the provided token")

// StorageError wraps a backing-store failure with the operation that hit it.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage: failed to %s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

// TransportError wraps an email delivery failure with the recipient it was
// addressed to.
type TransportError struct {
	Recipient string
	Err       error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("transport: failed to deliver to %s: %v", e.Recipient, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}
