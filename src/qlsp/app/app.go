package app

import (
	"context"
	"time"

	tally "github.com/uber-go/tally/v4"
	"github.com/uber/qchat-lsp/src/qlsp/controller/artifact"
	lsplifecycle "github.com/uber/qchat-lsp/src/qlsp/controller/lsp-lifecycle"
	"github.com/uber/qchat-lsp/src/qlsp/gateway"
	"github.com/uber/qchat-lsp/src/qlsp/handler"
	"github.com/uber/qchat-lsp/src/qlsp/internal/clock"
	"github.com/uber/qchat-lsp/src/qlsp/internal/core"
	"github.com/uber/qchat-lsp/src/qlsp/internal/encryption"
	"github.com/uber/qchat-lsp/src/qlsp/internal/eventbus"
	"github.com/uber/qchat-lsp/src/qlsp/internal/executor"
	"github.com/uber/qchat-lsp/src/qlsp/internal/fs"
	"github.com/uber/qchat-lsp/src/qlsp/internal/jsonrpcfx"
	"github.com/uber/qchat-lsp/src/qlsp/internal/serverinfofile"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// Module defines the qlsp-daemon application module.
var Module = fx.Options(
	baseModule,
	handler.Module, // inbounds
	jsonrpcfx.Module,
	serverinfofile.Module,
	fx.Invoke(logStartup),
)

// InstallModule resolves the language server installation without starting the daemon.
// The server info file of a running daemon is left untouched.
var InstallModule = fx.Options(
	baseModule,
	fx.Provide(artifact.New),
	fx.Provide(lsplifecycle.New),
	fx.Provide(serverinfofile.NewInMemory),
)

var baseModule = fx.Options(
	gateway.Module, // outbounds
	fs.Module,
	executor.Module,
	clock.Module,
	eventbus.Module,
	encryption.Module,
	core.ConfigModule,
	core.LoggerModule,
	fx.Provide(newStats),
	fx.Decorate(decorateEnvContext),
	fx.Decorate(decorateConfigProvider),
	fx.Provide(func() Context {
		return Context{
			Environment:        "local",
			RuntimeEnvironment: "local",
		}
	}),
)

func newStats(lc fx.Lifecycle) tally.Scope {
	rs, closer := tally.NewRootScope(tally.ScopeOptions{
		Tags: map[string]string{
			"service": "qlsp-daemon",
		},
	}, 1*time.Second)

	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			return closer.Close()
		},
	})

	return rs
}

func logStartup(env Context, logger *zap.SugaredLogger) {
	logger.Infow("starting qlsp-daemon", "environment", env.Environment)
}
