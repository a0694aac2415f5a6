package errors

import (
	stderr "errors"
	"fmt"
	"strings"
)

// ManifestFetchError indicates that the version manifest could not be retrieved or parsed.
type ManifestFetchError struct {
	URL        string
	StatusCode int
	Err        error
}

// Error is an implementation of the error interface.
func (e *ManifestFetchError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("fetching manifest %q: unexpected status %d", e.URL, e.StatusCode)
	}
	return fmt.Sprintf("fetching manifest %q: %v", e.URL, e.Err)
}

// Unwrap returns the underlying cause.
func (e *ManifestFetchError) Unwrap() error {
	return e.Err
}

// IsManifestFetch reports whether a ManifestFetchError is part of the error chain.
func IsManifestFetch(e error) bool {
	var mf *ManifestFetchError
	return stderr.As(e, &mf)
}

// NoCompatibleVersionError indicates that no manifest version satisfies the requested platform,
// architecture and version range.
type NoCompatibleVersionError struct {
	Platform     string
	Architecture string
	VersionRange string
}

// Error is an implementation of the error interface.
func (e *NoCompatibleVersionError) Error() string {
	return fmt.Sprintf("no compatible version for %s/%s in range %q", e.Platform, e.Architecture, e.VersionRange)
}

// IntegrityError indicates that a downloaded file does not match any of its expected hashes.
type IntegrityError struct {
	File     string
	Expected []string
	Actual   string
}

// Error is an implementation of the error interface.
func (e *IntegrityError) Error() string {
	return fmt.Sprintf("integrity check failed for %q: got %s, expected one of [%s]", e.File, e.Actual, strings.Join(e.Expected, ", "))
}

// IsIntegrity reports whether an IntegrityError is part of the error chain.
func IsIntegrity(e error) bool {
	var ie *IntegrityError
	return stderr.As(e, &ie)
}

// DownloadError indicates that an artifact could not be downloaded.
type DownloadError struct {
	URL        string
	StatusCode int
	Err        error
}

// Error is an implementation of the error interface.
func (e *DownloadError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("downloading %q: unexpected status %d", e.URL, e.StatusCode)
	}
	return fmt.Sprintf("downloading %q: %v", e.URL, e.Err)
}

// Unwrap returns the underlying cause.
func (e *DownloadError) Unwrap() error {
	return e.Err
}

// ValidationError indicates that a value failed validation.
type ValidationError struct {
	Field  string
	Reason string
}

// Error is an implementation of the error interface.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}
