package controller

import (
	"github.com/uber/qchat-lsp/src/qlsp/controller/artifact"
	"github.com/uber/qchat-lsp/src/qlsp/controller/auth"
	"github.com/uber/qchat-lsp/src/qlsp/controller/chat"
	"github.com/uber/qchat-lsp/src/qlsp/controller/correlator"
	lsplifecycle "github.com/uber/qchat-lsp/src/qlsp/controller/lsp-lifecycle"
	qlspdaemon "github.com/uber/qchat-lsp/src/qlsp/controller/qlsp-daemon"
	viewrouter "github.com/uber/qchat-lsp/src/qlsp/controller/view-router"
	"go.uber.org/fx"
)

var Module = fx.Options(
	fx.Provide(qlspdaemon.New),
	fx.Provide(artifact.New),
	fx.Provide(lsplifecycle.New),
	fx.Provide(auth.New),
	fx.Provide(correlator.New),
	fx.Provide(chat.New),
	fx.Provide(viewrouter.New),
)
