package qlspdaemon

import (
	"context"
	"fmt"

	"github.com/gofrs/uuid"
	"github.com/uber/qchat-lsp/src/qlsp/entity"
	ideclient "github.com/uber/qchat-lsp/src/qlsp/gateway/ide-client"
	"github.com/uber/qchat-lsp/src/qlsp/mapper"
	"go.lsp.dev/jsonrpc2"
	"go.lsp.dev/protocol"
	"go.uber.org/multierr"
)

// Initialize will store information about a new connection and perform any setup needed.
func (c *controller) Initialize(ctx context.Context, params *protocol.InitializeParams) (*protocol.InitializeResult, error) {
	s, err := c.sessions.GetFromContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("getting session from context: %w", err)
	}

	s.InitializeParams = params
	if params.ClientInfo != nil {
		s.ClientName = entity.ClientName(params.ClientInfo.Name)
	}
	if err := c.sessions.Set(ctx, s); err != nil {
		return nil, fmt.Errorf("setting updated session state: %w", err)
	}

	return &protocol.InitializeResult{
		ServerInfo: &protocol.ServerInfo{
			Name: _serverName,
		},
	}, nil
}

// Initialized sends the current view and auth state to the new session.
func (c *controller) Initialized(ctx context.Context, params *protocol.InitializedParams) error {
	s, err := c.sessions.GetFromContext(ctx)
	if err != nil {
		return fmt.Errorf("getting session from context: %w", err)
	}

	s.Initialized = true
	if err := c.sessions.Set(ctx, s); err != nil {
		return fmt.Errorf("setting updated session state: %w", err)
	}

	state := c.auth.State()
	err = multierr.Combine(
		c.ideGateway.NotifySession(ctx, s.UUID, ideclient.MethodViewDidChange, &entity.ViewParams{View: c.views.Current()}),
		c.ideGateway.NotifySession(ctx, s.UUID, ideclient.MethodAuthDidChange, &state),
	)
	if err != nil {
		c.logger.Warnw("sending initial state", "session", s.UUID, "error", err)
	}
	return nil
}

// Shutdown is sent just before Exit to indicate that the session will exit.
func (c *controller) Shutdown(ctx context.Context) error {
	id, err := mapper.ContextToSessionUUID(ctx)
	if err != nil {
		return err
	}
	c.logger.Debugw("session shutting down", "session", id)
	return nil
}

// Exit will be used to either clean up from an individual connection, or shutdown the whole server.
func (c *controller) Exit(ctx context.Context) error {
	c.fullShutdownMu.Lock()
	full := c.fullShutdown
	c.fullShutdownMu.Unlock()

	if full {
		c.idleTimerMu.Lock()
		c.idleTimer.Stop()
		c.idleTimerMu.Unlock()
		c.shutdown()
		return nil
	}

	s, err := c.sessions.GetFromContext(ctx)
	if err != nil {
		return fmt.Errorf("error during session exit: %w", err)
	}
	return c.EndSession(ctx, s.UUID)
}

// RequestFullShutdown will set the controller to treat subsequent Exit requests as requests to exit the entire process.
func (c *controller) RequestFullShutdown(ctx context.Context) error {
	c.fullShutdownMu.Lock()
	defer c.fullShutdownMu.Unlock()

	c.fullShutdown = true
	return nil
}

// InitSession creates a new empty session and returns its UUID.
func (c *controller) InitSession(ctx context.Context, conn jsonrpc2.Conn) (uuid.UUID, error) {
	defer c.refreshIdleTimer(ctx)

	id, err := uuid.NewV4()
	if err != nil {
		return uuid.Nil, err
	}

	session := mapper.UUIDToSession(id, conn)
	if err := c.ideGateway.RegisterClient(ctx, id, conn); err != nil {
		return uuid.Nil, err
	}

	if err := c.sessions.Set(ctx, session); err != nil {
		return uuid.Nil, err
	}
	return id, nil
}

// EndSession includes any cleanup at the end of the session, during or after the last JSON-RPC request.
func (c *controller) EndSession(ctx context.Context, uuid uuid.UUID) error {
	defer c.refreshIdleTimer(ctx)

	if err := c.chat.EndSession(ctx, uuid); err != nil {
		c.logger.Errorf("releasing pending chat requests: %s", err)
	}

	if err := c.ideGateway.DeregisterClient(ctx, uuid); err != nil {
		c.logger.Error(err)
	}

	return c.sessions.Delete(ctx, uuid)
}
