package api

import (
	"errors"
	"fmt"
)

// FailureKind partitions everything that can go wrong with a remote call.
// Callers branch on the kind, never on raw status codes or error strings.
type FailureKind string

const (
	// FailureTransport covers requests that never produced an HTTP response:
	// connection refused, DNS failure, timeout, context cancellation.
	FailureTransport FailureKind = "transport"

	// FailureClient is a 4xx response: the request itself was rejected.
	FailureClient FailureKind = "client_error"

	// FailureServer is a 5xx response.
	FailureServer FailureKind = "server_error"

	// FailureMalformed is a 2xx response whose body could not be decoded.
	FailureMalformed FailureKind = "malformed_response"
)

// Failure is the single error type returned by Client operations.
type Failure struct {
	Kind      FailureKind
	Status    int    // HTTP status when a response was received, else 0
	Operation string // logical operation name, e.g. "create_task"
	Message   string
	cause     error
}

func (f *Failure) Error() string {
	if f.Status > 0 {
		return fmt.Sprintf("api %s: %s (http %d): %s", f.Operation, f.Kind, f.Status, f.Message)
	}
	return fmt.Sprintf("api %s: %s: %s", f.Operation, f.Kind, f.Message)
}

func (f *Failure) Unwrap() error { return f.cause }

// NotFound reports whether the failure is a rejection for a missing record.
func (f *Failure) NotFound() bool {
	return f.Kind == FailureClient && f.Status == 404
}

// AsFailure extracts a *Failure from an error chain.
func AsFailure(err error) (*Failure, bool) {
	var f *Failure
	if errors.As(err, &f) {
		return f, true
	}
	return nil, false
}
