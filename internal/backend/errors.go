// In file: internal/backend/errors.go

// Package backend contains the thin HTTP clients for the two service
// families the gateway queries: the system-landscape service (AICockpit)
// and the client-request service (BCM). Both clients classify failures into
// two error types so the tool invoker can tell "the backend never answered"
// apart from "the backend answered with an error".
package backend

import "fmt"

// TransportError means no HTTP response was received at all: timeout,
// connection refused, TLS failure. These surface to the model as a
// backend-unavailable tool result and are never retried here.
type TransportError struct {
	URL string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("backend unreachable at %s: %v", e.URL, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// StatusError means the backend responded with a non-success status. The
// body is preserved verbatim so the model can relay whatever diagnostic the
// backend produced.
type StatusError struct {
	URL        string
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("backend at %s returned status %d: %s", e.URL, e.StatusCode, e.Body)
}
