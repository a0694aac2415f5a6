package errors

import (
	stderr "errors"
	"fmt"
	"time"
)

// AuthTransitionError indicates that an authentication transition is not allowed from the current status.
type AuthTransitionError struct {
	From   string
	Action string
}

// Error is an implementation of the error interface.
func (e *AuthTransitionError) Error() string {
	return fmt.Sprintf("cannot %s while %s", e.Action, e.From)
}

// IsAuthTransition reports whether an AuthTransitionError is part of the error chain.
func IsAuthTransition(e error) bool {
	var at *AuthTransitionError
	return stderr.As(e, &at)
}

// TimeoutError indicates that an operation did not complete within its deadline.
type TimeoutError struct {
	Operation string
	Timeout   time.Duration
}

// Error is an implementation of the error interface.
func (e *TimeoutError) Error() string {
	return fmt.Sprintf("%s timed out after %v", e.Operation, e.Timeout)
}

// IsTimeout reports whether a TimeoutError is part of the error chain.
func IsTimeout(e error) bool {
	var te *TimeoutError
	return stderr.As(e, &te)
}

// ServerNotRunningError indicates that a call needed the language server before it was connected.
type ServerNotRunningError struct {
	Method string
}

// Error is an implementation of the error interface.
func (e *ServerNotRunningError) Error() string {
	return fmt.Sprintf("language server is not running, cannot call %q", e.Method)
}

// IsServerNotRunning reports whether a ServerNotRunningError is part of the error chain.
func IsServerNotRunning(e error) bool {
	var nr *ServerNotRunningError
	return stderr.As(e, &nr)
}
