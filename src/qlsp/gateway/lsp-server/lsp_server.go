package lspserver

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/uber/qchat-lsp/src/qlsp/entity"
	"github.com/uber/qchat-lsp/src/qlsp/internal/errors"
	"go.lsp.dev/jsonrpc2"
	"go.lsp.dev/protocol"
	"go.uber.org/atomic"
	"go.uber.org/zap"
)

// Methods served by the language server.
const (
	MethodGetSsoToken        = "aws/identity/getSsoToken"
	MethodInvalidateSsoToken = "aws/identity/invalidateSsoToken"
	MethodUpdateBearerToken  = "aws/credentials/token/update"
	MethodDeleteBearerToken  = "aws/credentials/token/delete"
	MethodSendChatPrompt     = "aws/chat/sendChatPrompt"
)

const _errCallServer = "calling language server %q: %w"

// Gateway is used to send outbound calls and notifications to the language server.
// Calls fail with a ServerNotRunningError until a connection is set.
type Gateway interface {
	// SetConn replaces the active connection. A nil conn marks the server as not running.
	SetConn(conn jsonrpc2.Conn)
	// Connected reports whether a connection is set.
	Connected() bool

	Initialize(ctx context.Context, params *protocol.InitializeParams) (*protocol.InitializeResult, error)
	Initialized(ctx context.Context) error
	Shutdown(ctx context.Context) error
	Exit(ctx context.Context) error

	GetSsoToken(ctx context.Context, params *entity.GetSsoTokenParams) (*entity.GetSsoTokenResult, error)
	InvalidateSsoToken(ctx context.Context, ssoTokenID string) error
	UpdateBearerToken(ctx context.Context, encrypted string) error
	DeleteBearerToken(ctx context.Context) error

	SendChatPrompt(ctx context.Context, params *entity.SendChatPromptParams) (json.RawMessage, error)
}

type connHolder struct {
	conn jsonrpc2.Conn
}

type gateway struct {
	conn   atomic.Pointer[connHolder]
	logger *zap.SugaredLogger
}

// New returns a Gateway for calling the language server.
func New(logger *zap.SugaredLogger) Gateway {
	return &gateway{
		logger: logger.With("plugin", "lsp-server-gateway"),
	}
}

func (g *gateway) SetConn(conn jsonrpc2.Conn) {
	if conn == nil {
		g.conn.Store(nil)
		return
	}
	g.conn.Store(&connHolder{conn: conn})
}

func (g *gateway) Connected() bool {
	return g.conn.Load() != nil
}

func (g *gateway) getConn(method string) (jsonrpc2.Conn, error) {
	h := g.conn.Load()
	if h == nil {
		return nil, &errors.ServerNotRunningError{Method: method}
	}
	return h.conn, nil
}

func (g *gateway) call(ctx context.Context, method string, params, result interface{}) error {
	conn, err := g.getConn(method)
	if err != nil {
		return err
	}
	if _, err := conn.Call(ctx, method, params, result); err != nil {
		return fmt.Errorf(_errCallServer, method, err)
	}
	return nil
}

func (g *gateway) notify(ctx context.Context, method string, params interface{}) error {
	conn, err := g.getConn(method)
	if err != nil {
		return err
	}
	if err := conn.Notify(ctx, method, params); err != nil {
		return fmt.Errorf(_errCallServer, method, err)
	}
	return nil
}

func (g *gateway) Initialize(ctx context.Context, params *protocol.InitializeParams) (*protocol.InitializeResult, error) {
	result := &protocol.InitializeResult{}
	if err := g.call(ctx, protocol.MethodInitialize, params, result); err != nil {
		return nil, err
	}
	return result, nil
}

func (g *gateway) Initialized(ctx context.Context) error {
	return g.notify(ctx, protocol.MethodInitialized, &protocol.InitializedParams{})
}

func (g *gateway) Shutdown(ctx context.Context) error {
	return g.call(ctx, protocol.MethodShutdown, nil, nil)
}

func (g *gateway) Exit(ctx context.Context) error {
	return g.notify(ctx, protocol.MethodExit, nil)
}

func (g *gateway) GetSsoToken(ctx context.Context, params *entity.GetSsoTokenParams) (*entity.GetSsoTokenResult, error) {
	result := &entity.GetSsoTokenResult{}
	if err := g.call(ctx, MethodGetSsoToken, params, result); err != nil {
		return nil, err
	}
	return result, nil
}

func (g *gateway) InvalidateSsoToken(ctx context.Context, ssoTokenID string) error {
	return g.call(ctx, MethodInvalidateSsoToken, &entity.InvalidateSsoTokenParams{SsoTokenID: ssoTokenID}, nil)
}

func (g *gateway) UpdateBearerToken(ctx context.Context, encrypted string) error {
	return g.call(ctx, MethodUpdateBearerToken, &entity.UpdateCredentialsParams{Data: encrypted, Encrypted: true}, nil)
}

func (g *gateway) DeleteBearerToken(ctx context.Context) error {
	return g.notify(ctx, MethodDeleteBearerToken, nil)
}

func (g *gateway) SendChatPrompt(ctx context.Context, params *entity.SendChatPromptParams) (json.RawMessage, error) {
	var result json.RawMessage
	if err := g.call(ctx, MethodSendChatPrompt, params, &result); err != nil {
		return nil, err
	}
	return result, nil
}
