package directory

import (
	"errors"
	"fmt"
)

// ErrNoSession means no identity is signed in; no request was made.
var ErrNoSession = errors.New("no active session")

// HTTPError is a non-2xx answer from the directory endpoint.
type HTTPError struct {
	Status     int
	StatusText string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("%d - %s", e.Status, e.StatusText)
}

// TransportError covers network and body decoding failures.
type TransportError struct {
	Message string
	Err     error
}

func (e *TransportError) Error() string { return e.Message }

func (e *TransportError) Unwrap() error { return e.Err }

// MalformedEntryError is an entry that has phone numbers but no display name.
type MalformedEntryError struct {
	Index        int
	ResourceName string
}

func (e *MalformedEntryError) Error() string {
	if e.ResourceName != "" {
		return fmt.Sprintf("directory entry %d (%s) has phone numbers but no display name", e.Index, e.ResourceName)
	}
	return fmt.Sprintf("directory entry %d has phone numbers but no display name", e.Index)
}

// requiresLogin reports whether err should send the user back through sign-in.
func requiresLogin(err error) bool {
	var httpErr *HTTPError
	var transportErr *TransportError
	return errors.Is(err, ErrNoSession) || errors.As(err, &httpErr) || errors.As(err, &transportErr)
}
