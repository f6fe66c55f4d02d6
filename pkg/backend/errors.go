package backend

import (
	"errors"
	"fmt"
)

// ErrOperationFailed matches every failure coming back from the backend, whichever way
// it failed. Callers that don't care about the difference should check for this.
var ErrOperationFailed = errors.New("backend operation failed")

// TransportError covers network failures, unexpected HTTP statuses and bodies that
// can't be decoded.
type TransportError struct {
	Endpoint   string
	StatusCode int
	Err        error
}

func (e *TransportError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s: unexpected status %d", e.Endpoint, e.StatusCode)
	}

	return fmt.Sprintf("%s: %v", e.Endpoint, e.Err)
}

func (e *TransportError) Unwrap() []error {
	return []error{ErrOperationFailed, e.Err}
}

// ApplicationError is a well formed response with success set to false
type ApplicationError struct {
	Endpoint string
	Message  string
}

func (e *ApplicationError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("%s: request was not successful", e.Endpoint)
	}

	return fmt.Sprintf("%s: %s", e.Endpoint, e.Message)
}

func (e *ApplicationError) Unwrap() error {
	return ErrOperationFailed
}
