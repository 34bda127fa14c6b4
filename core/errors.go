package core

import (
	"fmt"
)

// StorageError is returned when a query or update against the sample store fails.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage error while %s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

// TransportError is returned when a batch could not be delivered at all,
// regardless of what the remote service would have answered.
type TransportError struct {
	URL string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("error sending batch to %s: %v", e.URL, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// ProtocolError is returned when a request can not be built from the given
// headers or endpoint.
type ProtocolError struct {
	Field string
	Err   error
}

func (e *ProtocolError) Error() string {
	return fmt.Sprintf("invalid %s: %v", e.Field, e.Err)
}

func (e *ProtocolError) Unwrap() error {
	return e.Err
}

// StatusError is returned when the remote service answered a batch with a
// non 2xx status and commit_on_error is disabled.
type StatusError struct {
	SystemID string
	Status   int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("system %s: remote service answered with HTTP %d", e.SystemID, e.Status)
}

func isSuccess(status int) bool {
	return status >= 200 && status < 300
}
