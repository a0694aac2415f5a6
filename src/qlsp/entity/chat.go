package entity

import (
	"encoding/json"
	"time"

	"github.com/gofrs/uuid"
	"go.lsp.dev/protocol"
)

// PendingRequest is the routing context of an in-flight chat request.
type PendingRequest struct {
	SessionUUID uuid.UUID
	TabID       string
	CreatedAt   time.Time
}

// ChatPrompt is a prompt sent by an IDE tab. The payload is opaque to the daemon.
type ChatPrompt struct {
	TabID   string          `json:"tabId"`
	Payload json.RawMessage `json:"payload"`
}

// ChatProgress is a partial result routed back to the tab that issued the request.
type ChatProgress struct {
	TabID string          `json:"tabId"`
	Value json.RawMessage `json:"value"`
}

// ChatResult is the final result of a chat request.
type ChatResult struct {
	TabID  string          `json:"tabId"`
	Result json.RawMessage `json:"result"`
}

// TabClosed is sent by the IDE when a chat tab goes away.
type TabClosed struct {
	TabID string `json:"tabId"`
}

// PartialResult is a $/progress notification from the language server. The value is either an
// encrypted string or a plain JSON value.
type PartialResult struct {
	Token protocol.ProgressToken `json:"token"`
	Value json.RawMessage        `json:"value"`
}
