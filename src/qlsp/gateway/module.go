package gateway

import (
	ideclient "github.com/uber/qchat-lsp/src/qlsp/gateway/ide-client"
	lspserver "github.com/uber/qchat-lsp/src/qlsp/gateway/lsp-server"
	manifestclient "github.com/uber/qchat-lsp/src/qlsp/gateway/manifest-client"
	"go.uber.org/fx"
)

// Module provides the outbound gateways into an Fx application.
var Module = fx.Options(
	fx.Provide(ideclient.New),
	fx.Provide(lspserver.New),
	fx.Provide(manifestclient.New),
)
