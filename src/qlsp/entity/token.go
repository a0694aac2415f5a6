package entity

import "encoding/json"

// Credential source kinds understood by the language server token service.
const (
	SsoSourceBuilderID         = "AwsBuilderId"
	SsoSourceIAMIdentityCenter = "IamIdentityCenter"
)

// SsoTokenSource selects the identity provider of a token request.
type SsoTokenSource struct {
	Kind        string `json:"kind"`
	ProfileName string `json:"profileName,omitempty"`
	StartURL    string `json:"startUrl,omitempty"`
	Region      string `json:"region,omitempty"`
}

// GetSsoTokenOptions tune a token request.
type GetSsoTokenOptions struct {
	LoginOnInvalidToken bool `json:"loginOnInvalidToken"`
}

// GetSsoTokenParams are the parameters of aws/identity/getSsoToken.
type GetSsoTokenParams struct {
	ClientName string             `json:"clientName"`
	Source     SsoTokenSource     `json:"source"`
	Options    GetSsoTokenOptions `json:"options"`
}

// SsoToken is a token issued by the token service.
type SsoToken struct {
	ID          string `json:"id"`
	AccessToken string `json:"accessToken"`
}

// GetSsoTokenResult is the result of aws/identity/getSsoToken.
type GetSsoTokenResult struct {
	SsoToken SsoToken `json:"ssoToken"`
}

// InvalidateSsoTokenParams are the parameters of aws/identity/invalidateSsoToken.
type InvalidateSsoTokenParams struct {
	SsoTokenID string `json:"ssoTokenId"`
}

// UpdateCredentialsParams carries encrypted credentials to aws/credentials/token/update.
type UpdateCredentialsParams struct {
	Data      string `json:"data"`
	Encrypted bool   `json:"encrypted"`
}

// BearerCredentials is the plaintext form of the data pushed with UpdateCredentialsParams.
type BearerCredentials struct {
	Token string `json:"token"`
}

// ConnectionMetadata answers aws/credentials/getConnectionMetadata.
type ConnectionMetadata struct {
	SSO *SsoProfileData `json:"sso,omitempty"`
}

// SsoProfileData names the issuer of the current connection.
type SsoProfileData struct {
	StartURL string `json:"startUrl"`
}

// SendChatPromptParams are the parameters of aws/chat/sendChatPrompt.
type SendChatPromptParams struct {
	Message            string `json:"message"`
	PartialResultToken string `json:"partialResultToken"`
}

// ChatPromptResult is the raw result of aws/chat/sendChatPrompt, either an encrypted string or a plain object.
type ChatPromptResult = json.RawMessage
