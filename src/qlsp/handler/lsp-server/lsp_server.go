// Package lspserver routes requests and notifications initiated by the language server.
package lspserver

import (
	"context"

	tally "github.com/uber-go/tally/v4"
	"github.com/uber/qchat-lsp/src/qlsp/controller/auth"
	"github.com/uber/qchat-lsp/src/qlsp/controller/chat"
	lsplifecycle "github.com/uber/qchat-lsp/src/qlsp/controller/lsp-lifecycle"
	ideclient "github.com/uber/qchat-lsp/src/qlsp/gateway/ide-client"
	"github.com/uber/qchat-lsp/src/qlsp/mapper"
	"go.lsp.dev/jsonrpc2"
	"go.lsp.dev/protocol"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

const (
	// MethodGetConnectionMetadata is requested by the server to learn which SSO issuer the current bearer token belongs to.
	MethodGetConnectionMetadata = "aws/credentials/getConnectionMetadata"

	_nameKey = "lsp-server"
)

// Handler receives the messages sent by the language server.
type Handler interface {
	HandleReq(ctx context.Context, reply jsonrpc2.Replier, req jsonrpc2.Request) error
}

// Params are inbound parameters to initialize a new Handler.
type Params struct {
	fx.In

	Server     lsplifecycle.Controller
	Auth       auth.Controller
	Chat       chat.Controller
	IdeGateway ideclient.Gateway
	Logger     *zap.SugaredLogger
	Stats      tally.Scope
}

type router struct {
	auth       auth.Controller
	chat       chat.Controller
	ideGateway ideclient.Gateway
	logger     *zap.SugaredLogger
	stats      tally.Scope
}

// New constructs a Handler and registers it for every language server process started by the lifecycle controller.
func New(p Params) Handler {
	r := &router{
		auth:       p.Auth,
		chat:       p.Chat,
		ideGateway: p.IdeGateway,
		logger:     p.Logger.With("plugin", _nameKey),
		stats:      p.Stats.SubScope("lsp_server"),
	}
	p.Server.RegisterServerHandler(r.HandleReq)
	return r
}

// HandleReq handles routing for a single server message. Messages arrive in order on the connection's read loop.
func (r *router) HandleReq(ctx context.Context, reply jsonrpc2.Replier, req jsonrpc2.Request) error {
	r.stats.Tagged(map[string]string{"method": req.Method()}).Counter("calls").Inc(1)

	switch req.Method() {
	case protocol.MethodProgress:
		return r.progress(ctx, reply, req)

	case protocol.MethodWindowLogMessage:
		return r.logMessage(ctx, reply, req)

	case protocol.MethodWindowShowMessage:
		return r.showMessage(ctx, reply, req)

	case MethodGetConnectionMetadata:
		return reply(ctx, r.auth.ConnectionMetadata(), nil)

	default:
		return jsonrpc2.MethodNotFoundHandler(ctx, reply, req)
	}
}

func (r *router) progress(ctx context.Context, reply jsonrpc2.Replier, req jsonrpc2.Request) error {
	params, err := mapper.RequestToProgressParams(req)
	if err != nil {
		return reply(ctx, nil, err)
	}

	if err := r.chat.OnProgress(ctx, params); err != nil {
		r.logger.Warnw("forwarding progress", "token", params.Token, zap.Error(err))
	}
	return reply(ctx, nil, nil)
}

func (r *router) logMessage(ctx context.Context, reply jsonrpc2.Replier, req jsonrpc2.Request) error {
	params, err := mapper.RequestToLogMessageParams(req)
	if err != nil {
		return reply(ctx, nil, err)
	}

	switch params.Type {
	case protocol.MessageTypeError:
		r.logger.Error(params.Message)
	case protocol.MessageTypeWarning:
		r.logger.Warn(params.Message)
	case protocol.MessageTypeInfo:
		r.logger.Info(params.Message)
	default:
		r.logger.Debug(params.Message)
	}
	return reply(ctx, nil, nil)
}

func (r *router) showMessage(ctx context.Context, reply jsonrpc2.Replier, req jsonrpc2.Request) error {
	params, err := mapper.RequestToShowMessageParams(req)
	if err != nil {
		return reply(ctx, nil, err)
	}

	if err := r.ideGateway.BroadcastShowMessage(ctx, params); err != nil {
		r.logger.Warnw("forwarding message to IDE sessions", zap.Error(err))
	}
	return reply(ctx, nil, nil)
}
