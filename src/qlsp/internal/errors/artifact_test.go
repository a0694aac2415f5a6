package errors

import (
	"fmt"
	"io"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCustomErrors(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{
			name: "manifest status",
			err:  &ManifestFetchError{URL: "https://example.com/m.json", StatusCode: 503},
			want: `fetching manifest "https://example.com/m.json": unexpected status 503`,
		},
		{
			name: "manifest cause",
			err:  &ManifestFetchError{URL: "u", Err: io.EOF},
			want: `fetching manifest "u": EOF`,
		},
		{
			name: "no compatible version",
			err:  &NoCompatibleVersionError{Platform: "linux", Architecture: "x64", VersionRange: ">=1.0.0"},
			want: `no compatible version for linux/x64 in range ">=1.0.0"`,
		},
		{
			name: "integrity",
			err:  &IntegrityError{File: "servers.zip", Expected: []string{"sha384:aa", "sha256:bb"}, Actual: "sha384:cc"},
			want: `integrity check failed for "servers.zip": got sha384:cc, expected one of [sha384:aa, sha256:bb]`,
		},
		{
			name: "download status",
			err:  &DownloadError{URL: "u", StatusCode: 404},
			want: `downloading "u": unexpected status 404`,
		},
		{
			name: "validation",
			err:  &ValidationError{Field: "serverCommand", Reason: "must be node"},
			want: "invalid serverCommand: must be node",
		},
		{
			name: "auth transition",
			err:  &AuthTransitionError{From: "LOGGED_IN", Action: "login"},
			want: "cannot login while LOGGED_IN",
		},
		{
			name: "timeout",
			err:  &TimeoutError{Operation: "login", Timeout: 5 * time.Second},
			want: "login timed out after 5s",
		},
		{
			name: "server not running",
			err:  &ServerNotRunningError{Method: "aws/chat/sendChatPrompt"},
			want: `language server is not running, cannot call "aws/chat/sendChatPrompt"`,
		},
		{
			name: "decode",
			err:  &DecodeError{Kind: DecodeExpired, Err: io.ErrUnexpectedEOF},
			want: "decoding encrypted payload (expired): unexpected EOF",
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.err.Error())
		})
	}
}

func TestPredicates(t *testing.T) {
	wrap := func(err error) error { return fmt.Errorf("outer: %w", err) }

	assert.True(t, IsManifestFetch(wrap(&ManifestFetchError{URL: "u", StatusCode: 500})))
	assert.False(t, IsManifestFetch(wrap(io.EOF)))

	assert.True(t, IsIntegrity(wrap(&IntegrityError{File: "f"})))
	assert.False(t, IsIntegrity(&DownloadError{URL: "u"}))

	assert.True(t, IsAuthTransition(wrap(&AuthTransitionError{})))
	assert.True(t, IsTimeout(wrap(&TimeoutError{})))
	assert.False(t, IsTimeout(New("credentials rejected")))

	assert.True(t, IsServerNotRunning(wrap(&ServerNotRunningError{Method: "aws/identity/getSsoToken"})))
	assert.False(t, IsServerNotRunning(&TimeoutError{}))

	assert.ErrorIs(t, &ManifestFetchError{Err: io.EOF}, io.EOF)
	assert.ErrorIs(t, &DownloadError{Err: io.EOF}, io.EOF)
}

func TestDecodeKind(t *testing.T) {
	tests := []struct {
		name        string
		err         error
		wantKind    DecodeErrorKind
		wantOK      bool
		wantExpired bool
	}{
		{
			name:        "expired",
			err:         fmt.Errorf("decrypt: %w", &DecodeError{Kind: DecodeExpired}),
			wantKind:    DecodeExpired,
			wantOK:      true,
			wantExpired: true,
		},
		{
			name:     "integrity",
			err:      &DecodeError{Kind: DecodeIntegrity},
			wantKind: DecodeIntegrity,
			wantOK:   true,
		},
		{
			name: "other",
			err:  io.EOF,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			kind, ok := DecodeKind(tt.err)
			assert.Equal(t, tt.wantKind, kind)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.wantExpired, IsExpired(tt.err))
		})
	}
}
