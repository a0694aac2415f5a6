package errors

import (
	stderr "errors"
	"fmt"

	"github.com/gofrs/uuid"
)

// UUIDNotFoundError reports that no IDE session is registered under the UUID.
type UUIDNotFoundError struct {
	UUID uuid.UUID
}

// Error is an implementation of the error interface.
func (n *UUIDNotFoundError) Error() string {
	return fmt.Sprintf("session %q not found", n.UUID)
}

// NotFoundUUID returns the missing session UUID and true if a UUIDNotFoundError is part of the error chain.
func NotFoundUUID(e error) (_ uuid.UUID, ok bool) {
	var nf *UUIDNotFoundError
	if !stderr.As(e, &nf) {
		return uuid.Nil, false
	}
	return nf.UUID, true
}

// NoSessionFoundError indicates that a request arrived without an IDE session in its context.
type NoSessionFoundError struct{}

// Error is an implementation of the error interface.
func (n *NoSessionFoundError) Error() string {
	return "no session found in context"
}

// IsNoSession reports whether the request could not be tied to an IDE session.
func IsNoSession(e error) bool {
	var ns *NoSessionFoundError
	if stderr.As(e, &ns) {
		return true
	}
	_, ok := NotFoundUUID(e)
	return ok
}
