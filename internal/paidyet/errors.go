package paidyet

import "fmt"

// ValidationError reports a structurally invalid intent. It is returned
// before any network activity and is never retried.
type ValidationError struct {
	Field string
	Msg   string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return "invalid intent: " + e.Msg
	}
	return fmt.Sprintf("invalid intent: %s: %s", e.Field, e.Msg)
}

// AuthError reports a failed token issuance. Retrying with the same
// credentials will not help, so the dispatcher surfaces it as-is.
type AuthError struct {
	Cause error
}

func (e *AuthError) Error() string {
	if e.Cause != nil {
		return "authentication failed: " + e.Cause.Error()
	}
	return "authentication failed"
}

func (e *AuthError) Unwrap() error { return e.Cause }

// TransportError reports a gateway call that produced no usable response
// (connection refused, timeout, unreadable body). It is the only error kind
// the retry policy applies to.
type TransportError struct {
	Op    Operation
	Cause error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("gateway %s: %v", e.Op, e.Cause)
}

func (e *TransportError) Unwrap() error { return e.Cause }
