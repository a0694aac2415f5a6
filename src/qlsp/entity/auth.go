package entity

import (
	"github.com/uber/qchat-lsp/src/qlsp/internal/errors"
)

// BuilderIDStartURL is the issuer used for every BUILDER_ID login.
const BuilderIDStartURL = "https://view.awsapps.com/start"

// AuthStatus is the top level authentication status.
type AuthStatus string

const (
	AuthStatusLoggedOut AuthStatus = "LOGGED_OUT"
	AuthStatusLoggedIn  AuthStatus = "LOGGED_IN"
	AuthStatusExpired   AuthStatus = "EXPIRED"
)

// LoginType identifies the identity provider used for a login.
type LoginType string

const (
	LoginTypeNone              LoginType = "NONE"
	LoginTypeBuilderID         LoginType = "BUILDER_ID"
	LoginTypeIAMIdentityCenter LoginType = "IAM_IDENTITY_CENTER"
)

// Valid reports whether the login type is one of the known values.
func (t LoginType) Valid() bool {
	switch t {
	case LoginTypeNone, LoginTypeBuilderID, LoginTypeIAMIdentityCenter:
		return true
	}
	return false
}

// LoginParams carries the provider specific parameters of a login.
type LoginParams struct {
	StartURL string `json:"startUrl,omitempty" yaml:"startUrl,omitempty"`
	Region   string `json:"region,omitempty" yaml:"region,omitempty"`
}

// AuthState is the current authentication state of the daemon.
type AuthState struct {
	Status      AuthStatus   `json:"status"`
	LoginType   LoginType    `json:"loginType"`
	LoginParams *LoginParams `json:"loginParams,omitempty"`
	SsoTokenID  string       `json:"-"`
}

// LoggedOutState is the only valid state with LOGGED_OUT status.
func LoggedOutState() AuthState {
	return AuthState{Status: AuthStatusLoggedOut, LoginType: LoginTypeNone}
}

// Validate checks the invariants between status, login type and parameters.
func (s AuthState) Validate() error {
	switch s.Status {
	case AuthStatusLoggedOut:
		if s.LoginType != LoginTypeNone {
			return &errors.ValidationError{Field: "loginType", Reason: "must be NONE when logged out"}
		}
		if s.SsoTokenID != "" {
			return &errors.ValidationError{Field: "ssoTokenId", Reason: "must be empty when logged out"}
		}
		return nil
	case AuthStatusLoggedIn, AuthStatusExpired:
		if s.LoginType == LoginTypeNone || !s.LoginType.Valid() {
			return &errors.ValidationError{Field: "loginType", Reason: "must be set when " + string(s.Status)}
		}
		if s.LoginParams == nil {
			return &errors.ValidationError{Field: "loginParams", Reason: "must be set when " + string(s.Status)}
		}
		_, err := IssuerURL(s.LoginType, s.LoginParams)
		return err
	}
	return &errors.ValidationError{Field: "status", Reason: "unknown status " + string(s.Status)}
}

// IssuerURL derives the SSO start URL for a login type.
func IssuerURL(loginType LoginType, params *LoginParams) (string, error) {
	switch loginType {
	case LoginTypeBuilderID:
		return BuilderIDStartURL, nil
	case LoginTypeIAMIdentityCenter:
		if params == nil || params.StartURL == "" {
			return "", &errors.ValidationError{Field: "loginParams.startUrl", Reason: "required for IAM_IDENTITY_CENTER"}
		}
		return params.StartURL, nil
	}
	return "", &errors.ValidationError{Field: "loginType", Reason: "no issuer for " + string(loginType)}
}

// LoginRequest is sent by the IDE to start a login.
type LoginRequest struct {
	LoginType   LoginType   `json:"loginType"`
	LoginParams LoginParams `json:"loginParams"`
}

// AuthResult is returned to the IDE for every auth operation.
type AuthResult struct {
	State   AuthState `json:"state"`
	Message string    `json:"message,omitempty"`
}
