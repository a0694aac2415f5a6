package handler

import (
	controller "github.com/uber/qchat-lsp/src/qlsp/controller"
	qlspdaemon "github.com/uber/qchat-lsp/src/qlsp/controller/qlsp-daemon"
	lspserver "github.com/uber/qchat-lsp/src/qlsp/handler/lsp-server"
	handler "github.com/uber/qchat-lsp/src/qlsp/handler/qlsp-daemon"
	authstore "github.com/uber/qchat-lsp/src/qlsp/repository/auth-store"
	"github.com/uber/qchat-lsp/src/qlsp/repository/session"
	"go.uber.org/fx"
)

// Module provides the qlsp-daemon server into an Fx application.
var Module = fx.Options(
	controller.Module,
	fx.Provide(session.New),
	fx.Provide(authstore.New),
	fx.Provide(handler.New),
	fx.Provide(lspserver.New),
	fx.Invoke(outputServiceInfo),
	fx.Invoke(func(m handler.Handler) {}),
	fx.Invoke(func(m lspserver.Handler) {}),
	fx.Invoke(func(m qlspdaemon.Controller) {}),
)
