// Package qlspdaemon implements the qlsp-daemon business logic.
package qlspdaemon

import (
	"context"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/gofrs/uuid"
	"github.com/uber/qchat-lsp/src/qlsp/controller/auth"
	"github.com/uber/qchat-lsp/src/qlsp/controller/chat"
	lsplifecycle "github.com/uber/qchat-lsp/src/qlsp/controller/lsp-lifecycle"
	viewrouter "github.com/uber/qchat-lsp/src/qlsp/controller/view-router"
	"github.com/uber/qchat-lsp/src/qlsp/entity"
	ideclient "github.com/uber/qchat-lsp/src/qlsp/gateway/ide-client"
	"github.com/uber/qchat-lsp/src/qlsp/internal/clock"
	"github.com/uber/qchat-lsp/src/qlsp/internal/eventbus"
	"github.com/uber/qchat-lsp/src/qlsp/repository/session"
	"go.lsp.dev/jsonrpc2"
	"go.lsp.dev/protocol"
	"go.uber.org/config"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

const (
	// Configuration keys
	_idleTimeoutMinutesKey = "idleTimeoutMinutes"

	_serverName = "qlsp"
)

// Controller orchestrates the business logic for each request.
type Controller interface {
	// LSP Methods defined per protocol.
	Initialize(ctx context.Context, params *protocol.InitializeParams) (*protocol.InitializeResult, error)
	Initialized(ctx context.Context, params *protocol.InitializedParams) error
	Shutdown(ctx context.Context) error
	Exit(ctx context.Context) error

	// Auth related methods.
	Login(ctx context.Context, req *entity.LoginRequest) (*entity.AuthResult, error)
	Logout(ctx context.Context) (*entity.AuthResult, error)
	ReAuthenticate(ctx context.Context) (*entity.AuthResult, error)
	AuthState(ctx context.Context) (*entity.AuthState, error)

	// Chat related methods.
	SendPrompt(ctx context.Context, prompt *entity.ChatPrompt) (*entity.ChatResult, error)
	TabClosed(ctx context.Context, params *entity.TabClosed) error

	// View related methods.
	CurrentView(ctx context.Context) (*entity.ViewParams, error)
	BrowserCompatibility(ctx context.Context, state *entity.BrowserState) (*entity.ViewParams, error)

	// InstallInfo returns the resolved language server installation, resolving it if needed.
	InstallInfo(ctx context.Context) (*entity.LspInstallResult, error)

	// Custom methods for use within this service.
	RequestFullShutdown(ctx context.Context) error
	InitSession(ctx context.Context, conn jsonrpc2.Conn) (uuid.UUID, error)
	EndSession(ctx context.Context, uuid uuid.UUID) error
}

// Params are inbound parameters to initialize a new controller.
type Params struct {
	fx.In

	Shutdowner fx.Shutdowner
	Lifecycle  fx.Lifecycle
	Sessions   session.Repository
	IdeGateway ideclient.Gateway
	Logger     *zap.SugaredLogger
	Config     config.Provider
	Clock      clock.Clock
	Bus        *eventbus.Bus

	Auth   auth.Controller
	Chat   chat.Controller
	Views  viewrouter.Controller
	Server lsplifecycle.Controller
}

type controller struct {
	sessions           session.Repository
	shutdowner         fx.Shutdowner
	fullShutdown       bool
	fullShutdownMu     sync.Mutex
	idleTimer          clock.Timer
	idleTimerMu        sync.Mutex
	idleTimeoutMinutes time.Duration
	logger             *zap.SugaredLogger
	ideGateway         ideclient.Gateway
	clock              clock.Clock
	bus                *eventbus.Bus

	auth   auth.Controller
	chat   chat.Controller
	views  viewrouter.Controller
	server lsplifecycle.Controller
}

// New constructs a new top-level controller for the service.
func New(p Params) (Controller, error) {
	ctx := context.Background()

	var timeoutMinutesRaw int64
	if err := p.Config.Get(_idleTimeoutMinutesKey).Populate(&timeoutMinutesRaw); err != nil || timeoutMinutesRaw == 0 {
		return nil, fmt.Errorf("unable to get idle timeout from config: %w", err)
	}

	c := &controller{
		sessions:   p.Sessions,
		shutdowner: p.Shutdowner,
		logger:     p.Logger,
		ideGateway: p.IdeGateway,
		clock:      p.Clock,
		bus:        p.Bus,
		auth:       p.Auth,
		chat:       p.Chat,
		views:      p.Views,
		server:     p.Server,

		idleTimeoutMinutes: time.Duration(timeoutMinutesRaw) * time.Minute,
	}
	c.refreshIdleTimer(ctx)

	unsubscribe := []func(){
		eventbus.Subscribe(p.Bus, eventbus.ActiveViewTopic, c.broadcastView),
		eventbus.Subscribe(p.Bus, eventbus.AuthStateTopic, c.broadcastAuthState),
	}
	p.Lifecycle.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			for _, u := range unsubscribe {
				u()
			}
			c.idleTimerMu.Lock()
			defer c.idleTimerMu.Unlock()
			c.idleTimer.Stop()
			return nil
		},
	})

	return c, nil
}

func (c *controller) broadcastView(view entity.ActiveView) {
	if err := c.ideGateway.Broadcast(context.Background(), ideclient.MethodViewDidChange, &entity.ViewParams{View: view}); err != nil {
		c.logger.Warnf("broadcasting view change: %s", err)
	}
}

func (c *controller) broadcastAuthState(state entity.AuthState) {
	if err := c.ideGateway.Broadcast(context.Background(), ideclient.MethodAuthDidChange, &state); err != nil {
		c.logger.Warnf("broadcasting auth state change: %s", err)
	}
}

// refreshIdleTimer ensures that the service shuts down after a defined inactivity period with no connections.
func (c *controller) refreshIdleTimer(ctx context.Context) error {
	c.idleTimerMu.Lock()
	defer c.idleTimerMu.Unlock()

	// First call starts the timer and leaves it running prior to first connection.
	if c.idleTimer == nil {
		c.idleTimer = c.clock.AfterFunc(c.idleTimeoutMinutes, c.shutdown)
		return nil
	}

	// Subsequent calls stop the timer and restart it only if no connections are active.
	currentSessions, err := c.sessions.SessionCount(ctx)
	if err != nil {
		return fmt.Errorf("error resetting timeout: %w", err)
	}

	c.idleTimer.Stop()
	if currentSessions == 0 {
		c.idleTimer = c.clock.AfterFunc(c.idleTimeoutMinutes, c.shutdown)
	}
	return nil
}

func (c *controller) shutdown() {
	c.logger.Info("Shutdown signal received.")
	if err := c.shutdowner.Shutdown(); err != nil {
		os.Exit(1)
	}
}
