package gateway

import (
	"testing"

	"github.com/stretchr/testify/assert"
	ideclient "github.com/uber/qchat-lsp/src/qlsp/gateway/ide-client"
	lspserver "github.com/uber/qchat-lsp/src/qlsp/gateway/lsp-server"
	manifestclient "github.com/uber/qchat-lsp/src/qlsp/gateway/manifest-client"
	"go.uber.org/config"
	"go.uber.org/fx"
	"go.uber.org/fx/fxtest"
	"go.uber.org/goleak"
	"go.uber.org/zap"
)

func TestModule(t *testing.T) {
	cfg, err := config.NewStaticProvider(map[string]interface{}{})
	assert.NoError(t, err)

	var (
		ide      ideclient.Gateway
		server   lspserver.Gateway
		manifest manifestclient.Gateway
	)
	app := fxtest.New(t,
		Module,
		fx.Provide(func() config.Provider { return cfg }),
		fx.Supply(zap.NewNop()),
		fx.Supply(zap.NewNop().Sugar()),
		fx.Populate(&ide, &server, &manifest),
	)
	app.RequireStart().RequireStop()

	assert.NotNil(t, ide)
	assert.NotNil(t, server)
	assert.NotNil(t, manifest)
}

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}
