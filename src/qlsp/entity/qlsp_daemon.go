// Package entity contains the domain types for the qlsp-daemon service.
package entity

import (
	"github.com/gofrs/uuid"
	"go.lsp.dev/jsonrpc2"
	"go.lsp.dev/protocol"
)

type keyType string

// SessionContextKey indicates the key to be used to identify the session UUID in the context.
const SessionContextKey keyType = "SessionUUID"

// Session entity representing a single IDE session.
type Session struct {
	UUID             uuid.UUID                  `json:"uuid" zap:"uuid"`
	InitializeParams *protocol.InitializeParams `json:"-" zap:"-"`
	Conn             jsonrpc2.Conn              `json:"-" zap:"-"`
	ClientName       ClientName                 `json:"clientName" zap:"clientName"`
	Initialized      bool                       `json:"initialized" zap:"initialized"`
}

// ClientName identifies the name that the will be set in the initialization parameters for a given client.
type ClientName string

const (
	// ClientNameVSCode is the name of the VSCode client.
	ClientNameVSCode ClientName = "Visual Studio Code"
	// ClientNameEclipse is the name of the Eclipse client.
	ClientNameEclipse ClientName = "Eclipse IDE"
)
