// Package auth owns the login state machine and the credentials pushed to the language server.
package auth

import (
	"context"
	stderr "errors"
	"fmt"
	"sync"
	"time"

	tally "github.com/uber-go/tally/v4"
	"github.com/uber/qchat-lsp/src/qlsp/entity"
	lspserver "github.com/uber/qchat-lsp/src/qlsp/gateway/lsp-server"
	"github.com/uber/qchat-lsp/src/qlsp/internal/encryption"
	"github.com/uber/qchat-lsp/src/qlsp/internal/errors"
	"github.com/uber/qchat-lsp/src/qlsp/internal/eventbus"
	"github.com/uber/qchat-lsp/src/qlsp/mapper"
	authstore "github.com/uber/qchat-lsp/src/qlsp/repository/auth-store"
	"go.uber.org/atomic"
	"go.uber.org/config"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

const (
	_nameKey    = "auth"
	_configKey  = "auth"
	_clientName = "qlsp"

	_defaultLoginTimeout = 5 * time.Minute
)

// Controller manages the authentication state. Transitions are serialized and persisted before they
// become visible.
type Controller interface {
	// Login exchanges credentials for a token. While logged in it returns the current state and an AuthTransitionError.
	Login(ctx context.Context, req *entity.LoginRequest) (*entity.AuthResult, error)
	// Logout invalidates the token and deletes the credentials held by the server. Logging out twice is a no-op.
	Logout(ctx context.Context) (*entity.AuthResult, error)
	// Expire deletes the credentials held by the server without invalidating the token remotely.
	Expire(ctx context.Context) (*entity.AuthResult, error)
	// ReAuthenticate repeats the exchange with the stored login type and parameters.
	ReAuthenticate(ctx context.Context) (*entity.AuthResult, error)
	// SilentlyReAuthenticate is ReAuthenticate without any interactive prompt.
	SilentlyReAuthenticate(ctx context.Context) (*entity.AuthResult, error)
	// State returns the current state.
	State() entity.AuthState
	// ConnectionMetadata describes the current connection for the language server.
	ConnectionMetadata() *entity.ConnectionMetadata
}

// Params are inbound parameters to initialize a new Controller.
type Params struct {
	fx.In

	Config    config.Provider
	Lifecycle fx.Lifecycle
	Logger    *zap.SugaredLogger
	Stats     tally.Scope
	Store     authstore.Repository
	Server    lspserver.Gateway
	Channel   encryption.Channel
	Bus       *eventbus.Bus
}

type authConfig struct {
	LoginTimeoutSeconds int  `yaml:"loginTimeoutSeconds"`
	WatchStore          bool `yaml:"watchStore"`
}

type controller struct {
	logger  *zap.SugaredLogger
	stats   tally.Scope
	store   authstore.Repository
	server  lspserver.Gateway
	channel encryption.Channel
	bus     *eventbus.Bus

	loginTimeout time.Duration
	watchStore   bool

	// mu serializes transitions. Readers use state without taking it.
	mu    sync.Mutex
	state atomic.Pointer[entity.AuthState]

	stopping atomic.Bool
	wg       sync.WaitGroup
}

// New creates a new auth controller. The stored state is loaded when the application starts.
func New(p Params) (Controller, error) {
	cfg := authConfig{}
	if err := p.Config.Get(_configKey).Populate(&cfg); err != nil {
		return nil, fmt.Errorf("getting configuration for %q: %w", _configKey, err)
	}

	c := &controller{
		logger:       p.Logger.With("plugin", _nameKey),
		stats:        p.Stats.SubScope("auth"),
		store:        p.Store,
		server:       p.Server,
		channel:      p.Channel,
		bus:          p.Bus,
		loginTimeout: _defaultLoginTimeout,
		watchStore:   cfg.WatchStore,
	}
	if cfg.LoginTimeoutSeconds > 0 {
		c.loginTimeout = time.Duration(cfg.LoginTimeoutSeconds) * time.Second
	}
	loggedOut := entity.LoggedOutState()
	c.state.Store(&loggedOut)

	eventbus.Subscribe(p.Bus, eventbus.ServerStateTopic, c.onServerState)
	p.Lifecycle.Append(fx.Hook{
		OnStart: c.onStart,
		OnStop:  c.onStop,
	})
	return c, nil
}

func (c *controller) onStart(ctx context.Context) error {
	state, _ := c.resync(ctx)
	eventbus.Publish(c.bus, eventbus.AuthStateTopic, state)
	if c.watchStore {
		if err := c.store.Watch(c.onStoreChanged); err != nil {
			c.logger.Warnw("auth store changes made by other processes will not be seen", zap.Error(err))
		}
	}
	return nil
}

func (c *controller) onStop(ctx context.Context) error {
	c.stopping.Store(true)
	done := make(chan struct{})
	go func() {
		c.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (c *controller) State() entity.AuthState {
	return *c.state.Load()
}

func (c *controller) ConnectionMetadata() *entity.ConnectionMetadata {
	current := c.State()
	if current.Status == entity.AuthStatusLoggedOut {
		return &entity.ConnectionMetadata{}
	}
	issuer, err := entity.IssuerURL(current.LoginType, current.LoginParams)
	if err != nil {
		c.logger.Warnw("no issuer for the current login", zap.Error(err))
		return &entity.ConnectionMetadata{}
	}
	return &entity.ConnectionMetadata{SSO: &entity.SsoProfileData{StartURL: issuer}}
}

func (c *controller) Login(ctx context.Context, req *entity.LoginRequest) (*entity.AuthResult, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	current := c.State()
	if current.Status == entity.AuthStatusLoggedIn {
		return &entity.AuthResult{State: current, Message: "already logged in"},
			&errors.AuthTransitionError{From: string(current.Status), Action: "login"}
	}
	if req.LoginType == entity.LoginTypeNone || !req.LoginType.Valid() {
		return c.failed(current, "login", &errors.ValidationError{Field: "loginType", Reason: fmt.Sprintf("cannot log in with %q", req.LoginType)})
	}
	params := req.LoginParams
	if _, err := entity.IssuerURL(req.LoginType, &params); err != nil {
		return c.failed(current, "login", err)
	}

	tokenID, err := c.exchange(ctx, req.LoginType, &params, false)
	if err != nil {
		return c.failed(current, "login", err)
	}

	next := entity.AuthState{
		Status:      entity.AuthStatusLoggedIn,
		LoginType:   req.LoginType,
		LoginParams: &params,
		SsoTokenID:  tokenID,
	}
	if err := c.transition(ctx, next); err != nil {
		return c.failed(current, "login", err)
	}
	return &entity.AuthResult{State: next}, nil
}

func (c *controller) Logout(ctx context.Context) (*entity.AuthResult, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	current := c.State()
	if current.Status == entity.AuthStatusLoggedOut {
		return &entity.AuthResult{State: current}, nil
	}

	if current.SsoTokenID == "" {
		c.logger.Warnw("no token on record, forcing logout", "status", current.Status)
	} else {
		if err := c.server.InvalidateSsoToken(ctx, current.SsoTokenID); err != nil {
			return c.failed(current, "logout", err)
		}
		// Best effort, the token is invalidated already.
		if err := c.server.DeleteBearerToken(ctx); err != nil && !errors.IsServerNotRunning(err) {
			c.logger.Warnw("deleting credentials held by the language server", zap.Error(err))
		}
	}

	next := entity.LoggedOutState()
	if err := c.transition(ctx, next); err != nil {
		return c.failed(current, "logout", err)
	}
	return &entity.AuthResult{State: next}, nil
}

func (c *controller) Expire(ctx context.Context) (*entity.AuthResult, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.expire(ctx)
}

func (c *controller) expire(ctx context.Context) (*entity.AuthResult, error) {
	current := c.State()
	switch current.Status {
	case entity.AuthStatusLoggedOut:
		return &entity.AuthResult{State: current}, &errors.AuthTransitionError{From: string(current.Status), Action: "expire"}
	case entity.AuthStatusExpired:
		return &entity.AuthResult{State: current}, nil
	}

	if err := c.server.DeleteBearerToken(ctx); err != nil && !errors.IsServerNotRunning(err) {
		return c.failed(current, "expire", err)
	}

	next := current
	next.Status = entity.AuthStatusExpired
	next.SsoTokenID = ""
	if err := c.transition(ctx, next); err != nil {
		return c.failed(current, "expire", err)
	}
	return &entity.AuthResult{State: next}, nil
}

func (c *controller) ReAuthenticate(ctx context.Context) (*entity.AuthResult, error) {
	return c.reAuthenticate(ctx, false)
}

func (c *controller) SilentlyReAuthenticate(ctx context.Context) (*entity.AuthResult, error) {
	return c.reAuthenticate(ctx, true)
}

func (c *controller) reAuthenticate(ctx context.Context, silent bool) (*entity.AuthResult, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	current := c.State()
	if current.Status == entity.AuthStatusLoggedOut {
		return &entity.AuthResult{State: current}, nil
	}

	tokenID, err := c.exchange(ctx, current.LoginType, current.LoginParams, silent)
	if err != nil {
		return c.failed(current, "reauthenticate", err)
	}

	next := current
	next.Status = entity.AuthStatusLoggedIn
	next.SsoTokenID = tokenID
	if err := c.transition(ctx, next); err != nil {
		return c.failed(current, "reauthenticate", err)
	}
	return &entity.AuthResult{State: next}, nil
}

// exchange obtains a token from the token service and pushes the encrypted bearer token to the
// server. It returns the id of the new token.
func (c *controller) exchange(ctx context.Context, loginType entity.LoginType, params *entity.LoginParams, silent bool) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.loginTimeout)
	defer cancel()

	token, err := c.server.GetSsoToken(ctx, mapper.LoginToSsoTokenParams(_clientName, loginType, params, !silent))
	if err != nil {
		return "", c.timeoutOr(ctx, "token exchange", err)
	}

	data, err := c.channel.Encrypt(entity.BearerCredentials{Token: token.SsoToken.AccessToken})
	if err != nil {
		return "", fmt.Errorf("encrypting bearer token: %w", err)
	}
	if err := c.server.UpdateBearerToken(ctx, data); err != nil {
		return "", c.timeoutOr(ctx, "bearer token update", err)
	}
	return token.SsoToken.ID, nil
}

func (c *controller) timeoutOr(ctx context.Context, operation string, err error) error {
	if stderr.Is(ctx.Err(), context.DeadlineExceeded) {
		return &errors.TimeoutError{Operation: operation, Timeout: c.loginTimeout}
	}
	return err
}

// transition persists next and then makes it the current state. It must be called with mu held.
func (c *controller) transition(ctx context.Context, next entity.AuthState) error {
	if err := next.Validate(); err != nil {
		return err
	}
	record, err := mapper.AuthStateToRecord(next)
	if err != nil {
		return err
	}
	if err := c.store.Save(ctx, record); err != nil {
		return fmt.Errorf("persisting auth state: %w", err)
	}

	previous := c.State()
	c.state.Store(&next)
	c.stats.Tagged(map[string]string{"status": string(next.Status)}).Counter("transitions").Inc(1)
	c.logger.Infow("auth state changed", "from", previous.Status, "to", next.Status, "loginType", next.LoginType)
	eventbus.Publish(c.bus, eventbus.AuthStateTopic, next)
	return nil
}

func (c *controller) failed(current entity.AuthState, action string, err error) (*entity.AuthResult, error) {
	c.stats.Tagged(map[string]string{"action": action}).Counter("failures").Inc(1)
	if errors.IsTimeout(err) {
		c.logger.Warnw("auth operation timed out", "action", action, zap.Error(err))
	} else {
		c.logger.Errorw("auth operation failed", "action", action, zap.Error(err))
	}
	return &entity.AuthResult{State: current, Message: err.Error()}, err
}

// resync adopts the stored state when it differs from the current one and reports whether it changed.
func (c *controller) resync(ctx context.Context) (entity.AuthState, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	current := c.State()
	record, err := c.store.Load(ctx)
	if err != nil {
		c.logger.Warnw("loading stored auth state", zap.Error(err))
		return current, false
	}
	if currentRecord, err := mapper.AuthStateToRecord(current); err == nil && currentRecord == record {
		return current, false
	}

	next, err := mapper.RecordToAuthState(record)
	if err != nil {
		c.logger.Warnw("stored auth state is invalid, logging out", zap.Error(err))
	}
	c.state.Store(&next)
	c.logger.Infow("auth state loaded from store", "status", next.Status, "loginType", next.LoginType)
	return next, true
}

func (c *controller) onStoreChanged() {
	if state, changed := c.resync(context.Background()); changed {
		eventbus.Publish(c.bus, eventbus.AuthStateTopic, state)
	}
}

// onServerState pushes fresh credentials to a server that just started. A failed refresh expires the session.
func (c *controller) onServerState(state entity.ServerState) {
	if state != entity.ServerStateRunning || c.stopping.Load() {
		return
	}
	if c.State().Status == entity.AuthStatusLoggedOut {
		return
	}

	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		ctx := context.Background()
		if _, err := c.SilentlyReAuthenticate(ctx); err != nil {
			c.mu.Lock()
			defer c.mu.Unlock()
			if c.State().Status == entity.AuthStatusLoggedIn {
				c.expire(ctx)
			}
		}
	}()
}
