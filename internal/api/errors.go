package api

import (
	"errors"
	"fmt"
)

// ErrNoToken means the session holds no bearer token. The request was not
// sent.
var ErrNoToken = errors.New("no auth token found")

// NoTokenError is ErrNoToken for one call, with the text that resource
// shows the user. Match it with errors.Is(err, ErrNoToken).
type NoTokenError struct {
	Op      string
	Message string
}

func (e *NoTokenError) Error() string { return e.Op + ": " + ErrNoToken.Error() }

func (e *NoTokenError) Unwrap() error { return ErrNoToken }

const (
	noTokenMessage  = "No auth token found. Please log in."
	fallbackMessage = "Something went wrong"
)

// TransportError means no response was received at all.
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// ServerError is a response with a failure status, or a success status
// whose body could not be used.
type ServerError struct {
	Op      string
	Status  int
	Message string
}

func (e *ServerError) Error() string {
	return fmt.Sprintf("%s: status %d: %s", e.Op, e.Status, e.Message)
}

// Message turns any error from this package into the text shown to the
// user: the server's own message when there is one, the transport's
// message when nothing came back, and a generic fallback otherwise.
func Message(err error) string {
	if err == nil {
		return ""
	}
	var nerr *NoTokenError
	if errors.As(err, &nerr) && nerr.Message != "" {
		return nerr.Message
	}
	if errors.Is(err, ErrNoToken) {
		return noTokenMessage
	}

	var serr *ServerError
	if errors.As(err, &serr) {
		return serr.Message
	}

	var terr *TransportError
	if errors.As(err, &terr) && terr.Err != nil {
		return terr.Err.Error()
	}
	return fallbackMessage
}

// Status returns the HTTP status behind err, or 0 if there was none.
func Status(err error) int {
	var serr *ServerError
	if errors.As(err, &serr) {
		return serr.Status
	}
	return 0
}
