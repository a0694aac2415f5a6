package qlspdaemon

import (
	"context"
	"sync"

	"github.com/gofrs/uuid"
	tally "github.com/uber-go/tally/v4"
	controller "github.com/uber/qchat-lsp/src/qlsp/controller/qlsp-daemon"
	"github.com/uber/qchat-lsp/src/qlsp/entity"
	"github.com/uber/qchat-lsp/src/qlsp/mapper"
	"go.lsp.dev/jsonrpc2"
	"go.lsp.dev/protocol"
	"go.uber.org/zap"
)

// Methods served to the IDE in addition to the LSP lifecycle.
const (
	// MethodRequestFullShutdown directs the server to shut down on the next JSON-RPC 'exit' method call.
	MethodRequestFullShutdown      = "qlsp/requestFullShutdown"
	MethodAuthLogin                = "qlsp/auth/login"
	MethodAuthLogout               = "qlsp/auth/logout"
	MethodAuthReAuthenticate       = "qlsp/auth/reauthenticate"
	MethodAuthState                = "qlsp/auth/state"
	MethodChatSendPrompt           = "qlsp/chat/sendPrompt"
	MethodChatTabClosed            = "qlsp/chat/tabClosed"
	MethodViewCurrent              = "qlsp/view/current"
	MethodViewBrowserCompatibility = "qlsp/view/browserCompatibility"
	MethodInstallInfo              = "qlsp/install/info"
)

type jsonRPCRouter struct {
	qlspdaemon controller.Controller
	uuid       uuid.UUID
	stats      tally.Scope
	logger     *zap.SugaredLogger
	inflight   *sync.WaitGroup
}

// HandleReq handles routing for a single request.
func (r *jsonRPCRouter) HandleReq(ctx context.Context, reply jsonrpc2.Replier, req jsonrpc2.Request) error {
	ctx = context.WithValue(ctx, entity.SessionContextKey, r.uuid)
	reply = r.countingReplier(req.Method(), reply)

	switch req.Method() {
	// Lifecycle related methods.
	case protocol.MethodInitialize:
		return r.Initialize(ctx, reply, req)

	case protocol.MethodInitialized:
		return r.Initialized(ctx, reply, req)

	case protocol.MethodShutdown:
		return r.Shutdown(ctx, reply, req)

	case protocol.MethodExit:
		return r.Exit(ctx, reply, req)

	case MethodRequestFullShutdown:
		return r.RequestFullShutdown(ctx, reply, req)

	// Auth methods. Token exchanges may wait on the user, so they run off the read loop.
	case MethodAuthLogin:
		return r.async(ctx, reply, req, r.Login)

	case MethodAuthLogout:
		return r.async(ctx, reply, req, r.Logout)

	case MethodAuthReAuthenticate:
		return r.async(ctx, reply, req, r.ReAuthenticate)

	case MethodAuthState:
		return r.AuthState(ctx, reply, req)

	// Chat methods.
	case MethodChatSendPrompt:
		return r.async(ctx, reply, req, r.SendPrompt)

	case MethodChatTabClosed:
		return r.TabClosed(ctx, reply, req)

	// View methods.
	case MethodViewCurrent:
		return r.CurrentView(ctx, reply, req)

	case MethodViewBrowserCompatibility:
		return r.BrowserCompatibility(ctx, reply, req)

	// Installation methods.
	case MethodInstallInfo:
		return r.async(ctx, reply, req, r.InstallInfo)

	default:
		return jsonrpc2.MethodNotFoundHandler(ctx, reply, req)
	}
}

func (r *jsonRPCRouter) UUID() uuid.UUID {
	return r.uuid
}

// async runs a method in its own goroutine so that other requests of the session are not held up.
func (r *jsonRPCRouter) async(ctx context.Context, reply jsonrpc2.Replier, req jsonrpc2.Request, method jsonrpc2.Handler) error {
	r.inflight.Add(1)
	go func() {
		defer r.inflight.Done()
		if err := method(ctx, reply, req); err != nil {
			r.logger.Debugw("async reply failed", "method", req.Method(), zap.Error(err))
		}
	}()
	return nil
}

// countingReplier counts calls and failures and maps errors to JSON-RPC error codes.
func (r *jsonRPCRouter) countingReplier(method string, reply jsonrpc2.Replier) jsonrpc2.Replier {
	scope := r.stats.Tagged(map[string]string{"method": method})
	scope.Counter("calls").Inc(1)
	return func(ctx context.Context, result interface{}, err error) error {
		if err != nil {
			scope.Counter("errors").Inc(1)
		}
		return reply(ctx, result, mapper.ToJSONRPCError(err))
	}
}
