package errors

import (
	stderr "errors"
	"fmt"
)

// DecodeErrorKind classifies why an encrypted payload could not be decoded.
type DecodeErrorKind string

const (
	// DecodeExpired means the token was well formed but past its expiry.
	DecodeExpired DecodeErrorKind = "expired"
	// DecodeIntegrity means the authentication tag did not verify.
	DecodeIntegrity DecodeErrorKind = "integrity"
	// DecodeMalformed means the payload could not be parsed at all.
	DecodeMalformed DecodeErrorKind = "malformed"
)

// DecodeError indicates that an encrypted payload could not be decrypted or validated.
type DecodeError struct {
	Kind DecodeErrorKind
	Err  error
}

// Error is an implementation of the error interface.
func (e *DecodeError) Error() string {
	return fmt.Sprintf("decoding encrypted payload (%s): %v", e.Kind, e.Err)
}

// Unwrap returns the underlying cause.
func (e *DecodeError) Unwrap() error {
	return e.Err
}

// DecodeKind returns the kind of DecodeError in the error chain, if any.
func DecodeKind(e error) (_ DecodeErrorKind, ok bool) {
	var de *DecodeError
	if !stderr.As(e, &de) {
		return "", false
	}
	return de.Kind, true
}

// IsExpired reports whether the error chain holds an expired DecodeError.
func IsExpired(e error) bool {
	kind, ok := DecodeKind(e)
	return ok && kind == DecodeExpired
}
