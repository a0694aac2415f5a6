package model

import (
	"github.com/gofrs/uuid"
	"go.lsp.dev/jsonrpc2"
	"go.lsp.dev/protocol"
)

// Session is the repository layer model for an individual IDE session.
type Session struct {
	UUID             uuid.UUID
	InitializeParams *protocol.InitializeParams
	Conn             jsonrpc2.Conn
	ClientName       string
	Initialized      bool
}

// AuthRecord is the persisted form of the auth state. Empty fields are absent keys.
type AuthRecord struct {
	LoginType   string `yaml:"loginType,omitempty"`
	LoginParams string `yaml:"loginParams,omitempty"`
	SsoTokenID  string `yaml:"ssoTokenId,omitempty"`
}

// IsEmpty reports whether no key is stored.
func (r AuthRecord) IsEmpty() bool {
	return r.LoginType == "" && r.LoginParams == "" && r.SsoTokenID == ""
}
