// Package lsplifecycle installs, launches and supervises the language server process.
package lsplifecycle

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	tally "github.com/uber-go/tally/v4"
	"github.com/uber/qchat-lsp/src/qlsp/controller/artifact"
	"github.com/uber/qchat-lsp/src/qlsp/entity"
	lspserver "github.com/uber/qchat-lsp/src/qlsp/gateway/lsp-server"
	manifestclient "github.com/uber/qchat-lsp/src/qlsp/gateway/manifest-client"
	"github.com/uber/qchat-lsp/src/qlsp/internal/clock"
	"github.com/uber/qchat-lsp/src/qlsp/internal/encryption"
	"github.com/uber/qchat-lsp/src/qlsp/internal/eventbus"
	"github.com/uber/qchat-lsp/src/qlsp/internal/executor"
	"github.com/uber/qchat-lsp/src/qlsp/internal/fs"
	"github.com/uber/qchat-lsp/src/qlsp/internal/logfilewriter"
	"github.com/uber/qchat-lsp/src/qlsp/internal/platform"
	"github.com/uber/qchat-lsp/src/qlsp/internal/serverinfofile"
	"go.lsp.dev/jsonrpc2"
	"go.uber.org/atomic"
	"go.uber.org/config"
	"go.uber.org/fx"
	"go.uber.org/multierr"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

const (
	_nameKey        = "lsp-lifecycle"
	_logFileKey     = "lsp-server"
	_serverCfgKey   = "server"
	_artifactCfgKey = "artifact"
	_cacheDirName   = "qlsp"
	_lspDirName     = "lsp"

	_defaultEntryPoint        = "aws-lsp-codewhisperer.js"
	_defaultChatAsset         = "amazonq-ui.js"
	_defaultShutdownTimeout   = 5 * time.Second
	_defaultInitializeTimeout = 60 * time.Second
	_defaultMaxRestarts       = 3
	_defaultInitialBackoff    = 500 * time.Millisecond
	_defaultMaxBackoff        = 30 * time.Second
	_defaultResetWindow       = 60 * time.Second
)

// Controller owns the language server process from installation to shutdown.
type Controller interface {
	// GetInstallation resolves the installation once per process. Concurrent callers share one resolution.
	GetInstallation(ctx context.Context) (*entity.LspInstallResult, error)
	// Start installs and launches the server, then keeps it running until Stop.
	Start(ctx context.Context) error
	// Stop asks the server to shut down and kills it if it does not exit in time.
	Stop(ctx context.Context) error
	// State returns the last published server state.
	State() entity.ServerState
	// RegisterServerHandler sets the handler for requests and notifications initiated by the server.
	RegisterServerHandler(handler jsonrpc2.Handler)
}

// Params are inbound parameters to initialize a new Controller.
type Params struct {
	fx.In

	Config         config.Provider
	Lifecycle      fx.Lifecycle
	Logger         *zap.SugaredLogger
	Stats          tally.Scope
	FS             fs.QlspFS
	Executor       executor.Executor
	ServerInfoFile serverinfofile.ServerInfoFile
	Bus            *eventbus.Bus
	Artifacts      artifact.Controller
	Manifests      manifestclient.Gateway
	Channel        encryption.Channel
	Server         lspserver.Gateway
	Clock          clock.Clock `optional:"true"`
}

type serverConfig struct {
	EntryPoint               string           `yaml:"entryPoint"`
	ChatAsset                string           `yaml:"chatAsset"`
	ShutdownTimeoutSeconds   int              `yaml:"shutdownTimeoutSeconds"`
	InitializeTimeoutSeconds int              `yaml:"initializeTimeoutSeconds"`
	Supervisor               supervisorConfig `yaml:"supervisor"`
}

type supervisorConfig struct {
	MaxRestarts          *int `yaml:"maxRestarts"`
	InitialBackoffMillis int  `yaml:"initialBackoffMillis"`
	MaxBackoffMillis     int  `yaml:"maxBackoffMillis"`
	ResetWindowSeconds   int  `yaml:"resetWindowSeconds"`
}

type controller struct {
	logger         *zap.SugaredLogger
	stats          tally.Scope
	fs             fs.QlspFS
	executor       executor.Executor
	serverInfoFile serverinfofile.ServerInfoFile
	bus            *eventbus.Bus
	artifacts      artifact.Controller
	manifests      manifestclient.Gateway
	channel        encryption.Channel
	server         lspserver.Gateway
	clock          clock.Clock

	platform          platform.Info
	platformErr       error
	request           artifact.Request
	manifestURL       string
	entryPoint        string
	chatAsset         string
	shutdownTimeout   time.Duration
	initializeTimeout time.Duration
	maxRestarts       int
	initialBackoff    time.Duration
	maxBackoff        time.Duration
	resetWindow       time.Duration

	install atomic.Pointer[entity.LspInstallResult]
	group   singleflight.Group

	state         atomic.String
	serverHandler atomic.Pointer[jsonrpc2.Handler]
	current       atomic.Pointer[serverProcess]
	starting      atomic.Bool
	stopping      atomic.Bool
	stopped       chan struct{}
	wg            sync.WaitGroup

	outputMu           sync.Mutex
	output             logfilewriter.OutputWriter
	outputWriterParams logfilewriter.Params

	// launch starts the server binary. Replaced in tests.
	launch func(command string, args []string, env []string) (*serverProcess, error)
}

// New creates a new lifecycle controller. Startup runs in the background once the application starts.
func New(p Params) (Controller, error) {
	artifactCfg := artifact.Config{}
	if err := p.Config.Get(_artifactCfgKey).Populate(&artifactCfg); err != nil {
		return nil, fmt.Errorf("getting configuration for %q: %w", _artifactCfgKey, err)
	}
	serverCfg := serverConfig{}
	if err := p.Config.Get(_serverCfgKey).Populate(&serverCfg); err != nil {
		return nil, fmt.Errorf("getting configuration for %q: %w", _serverCfgKey, err)
	}

	workingDir := artifactCfg.WorkingDirectory
	if workingDir == "" {
		cacheDir, err := p.FS.UserCacheDir()
		if err != nil {
			return nil, fmt.Errorf("locating user cache directory: %w", err)
		}
		workingDir = filepath.Join(cacheDir, _cacheDirName, _lspDirName)
	}

	info, platformErr := platform.Detect()

	c := &controller{
		logger:         p.Logger.With("plugin", _nameKey),
		stats:          p.Stats.SubScope("lsp_lifecycle"),
		fs:             p.FS,
		executor:       p.Executor,
		serverInfoFile: p.ServerInfoFile,
		bus:            p.Bus,
		artifacts:      p.Artifacts,
		manifests:      p.Manifests,
		channel:        p.Channel,
		server:         p.Server,
		clock:          p.Clock,

		platform:    info,
		platformErr: platformErr,
		request: artifact.Request{
			Platform:       info.Platform,
			Architecture:   info.Architecture,
			VersionRange:   artifactCfg.SupportedVersions,
			DestinationDir: workingDir,
		},
		manifestURL:       artifactCfg.ManifestURL,
		entryPoint:        orDefault(serverCfg.EntryPoint, _defaultEntryPoint),
		chatAsset:         orDefault(serverCfg.ChatAsset, _defaultChatAsset),
		shutdownTimeout:   secondsOrDefault(serverCfg.ShutdownTimeoutSeconds, _defaultShutdownTimeout),
		initializeTimeout: secondsOrDefault(serverCfg.InitializeTimeoutSeconds, _defaultInitializeTimeout),
		maxRestarts:       _defaultMaxRestarts,
		initialBackoff:    millisOrDefault(serverCfg.Supervisor.InitialBackoffMillis, _defaultInitialBackoff),
		maxBackoff:        millisOrDefault(serverCfg.Supervisor.MaxBackoffMillis, _defaultMaxBackoff),
		resetWindow:       secondsOrDefault(serverCfg.Supervisor.ResetWindowSeconds, _defaultResetWindow),

		stopped: make(chan struct{}),
		outputWriterParams: logfilewriter.Params{
			FS:             p.FS,
			Lifecycle:      p.Lifecycle,
			ServerInfoFile: p.ServerInfoFile,
		},
	}
	if serverCfg.Supervisor.MaxRestarts != nil {
		c.maxRestarts = *serverCfg.Supervisor.MaxRestarts
	}
	if c.clock == nil {
		c.clock = clock.New()
	}
	c.state.Store(string(entity.ServerStatePending))
	c.launch = c.launchProcess

	p.Lifecycle.Append(fx.Hook{
		OnStart: c.onStart,
		OnStop:  c.Stop,
	})

	return c, nil
}

func (c *controller) onStart(ctx context.Context) error {
	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		if err := c.Start(context.Background()); err != nil {
			c.logger.Errorw("language server failed to start", zap.Error(err))
		}
	}()
	return nil
}

func (c *controller) State() entity.ServerState {
	return entity.ServerState(c.state.Load())
}

func (c *controller) RegisterServerHandler(handler jsonrpc2.Handler) {
	c.serverHandler.Store(&handler)
}

// Start resolves the installation and launches the first server process. A second call while the
// server is starting or running is a no-op.
func (c *controller) Start(ctx context.Context) error {
	if c.stopping.Load() {
		return fmt.Errorf("starting language server: controller is stopped")
	}
	if !c.starting.CompareAndSwap(false, true) {
		return nil
	}
	c.wg.Add(1)
	defer c.wg.Done()

	c.publishServerState(entity.ServerStatePending)

	install, err := c.GetInstallation(ctx)
	if err != nil {
		return c.failStart(fmt.Errorf("resolving installation: %w", err))
	}
	c.publishChatAssetState(install)

	proc, err := c.startServer(ctx, install)
	if err != nil {
		return c.failStart(err)
	}

	c.wg.Add(1)
	go c.supervise(install, proc)
	return nil
}

func (c *controller) failStart(err error) error {
	c.starting.Store(false)
	if !c.stopping.Load() {
		c.publishServerState(entity.ServerStateFailed)
	}
	return err
}

// Stop sends shutdown and exit to the server, kills it after the shutdown timeout and waits for the
// background goroutines to finish.
func (c *controller) Stop(ctx context.Context) error {
	if !c.stopping.CompareAndSwap(false, true) {
		return nil
	}
	close(c.stopped)

	var err error
	if proc := c.current.Load(); proc != nil {
		err = c.shutdownServer(ctx, proc)
	}

	done := make(chan struct{})
	go func() {
		c.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-ctx.Done():
		err = multierr.Append(err, ctx.Err())
	}
	return err
}

func (c *controller) shutdownServer(ctx context.Context, proc *serverProcess) error {
	shutdownCtx, cancel := context.WithTimeout(ctx, c.shutdownTimeout)
	defer cancel()

	err := c.server.Shutdown(shutdownCtx)
	if err == nil {
		err = c.server.Exit(shutdownCtx)
	}
	if err != nil {
		c.logger.Warnw("language server did not accept shutdown", zap.Error(err))
	}

	select {
	case <-proc.exited:
		return nil
	case <-shutdownCtx.Done():
	}

	c.logger.Warnw("language server did not exit in time, killing it", "timeout", c.shutdownTimeout)
	return multierr.Append(err, proc.kill())
}

func (c *controller) publishServerState(state entity.ServerState) {
	previous := c.state.Swap(string(state))
	if previous != string(state) {
		c.logger.Infow("language server state changed", "from", previous, "to", state)
	}
	eventbus.Publish(c.bus, eventbus.ServerStateTopic, state)
}

func (c *controller) publishChatAssetState(install *entity.LspInstallResult) {
	path := filepath.Join(install.ClientDirectory, c.chatAsset)
	exists, err := c.fs.FileExists(path)
	if err != nil {
		c.logger.Warnw("checking chat asset", "path", path, zap.Error(err))
	}
	eventbus.Publish(c.bus, eventbus.ChatAssetStateTopic, entity.ChatAssetState{Available: exists, Path: path})
}

func orDefault(value, fallback string) string {
	if value == "" {
		return fallback
	}
	return value
}

func secondsOrDefault(value int, fallback time.Duration) time.Duration {
	if value <= 0 {
		return fallback
	}
	return time.Duration(value) * time.Second
}

func millisOrDefault(value int, fallback time.Duration) time.Duration {
	if value <= 0 {
		return fallback
	}
	return time.Duration(value) * time.Millisecond
}

// environment returns the child environment. Proxy settings follow the manifest host.
func (c *controller) environment() []string {
	env := append(os.Environ(), "ENABLE_INLINE_COMPLETION=true", "ENABLE_TOKEN_PROVIDER=true")
	if proxy, ok := c.manifests.ProxyURL(c.manifestURL); ok {
		env = append(env, "HTTPS_PROXY="+proxy)
	}
	return env
}
