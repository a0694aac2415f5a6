// Package qlspdaemon implements the qlsp-daemon service's JSON-RPC handlers.
package qlspdaemon

import (
	"context"
	"fmt"
	"sync"

	"github.com/gofrs/uuid"
	tally "github.com/uber-go/tally/v4"
	controller "github.com/uber/qchat-lsp/src/qlsp/controller/qlsp-daemon"
	"github.com/uber/qchat-lsp/src/qlsp/entity"
	"github.com/uber/qchat-lsp/src/qlsp/internal/jsonrpcfx"
	"go.lsp.dev/jsonrpc2"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// Handler represents the qlsp-daemon service's IDE facing API.
type Handler = jsonrpcfx.ConnectionManager

// Params are inbound parameters to initialize a new Handler.
type Params struct {
	fx.In

	Controller controller.Controller
	JSONRPC    jsonrpcfx.JSONRPCModule
	Lifecycle  fx.Lifecycle
	Logger     *zap.SugaredLogger
	Stats      tally.Scope
}

type jsonRPCConnectionManager struct {
	ctrl   controller.Controller
	logger *zap.SugaredLogger
	stats  tally.Scope

	// inflight tracks requests answered outside of the connection read loop.
	inflight sync.WaitGroup
}

// New constructs a new qlsp-daemon Handler and registers it with the JSON-RPC inbound.
func New(p Params) (Handler, error) {
	c := &jsonRPCConnectionManager{
		ctrl:   p.Controller,
		logger: p.Logger,
		stats:  p.Stats.SubScope("json_rpc"),
	}
	if err := p.JSONRPC.RegisterConnectionManager(c); err != nil {
		return nil, err
	}

	p.Lifecycle.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			done := make(chan struct{})
			go func() {
				c.inflight.Wait()
				close(done)
			}()
			select {
			case <-done:
				return nil
			case <-ctx.Done():
				return ctx.Err()
			}
		},
	})
	return c, nil
}

// NewConnection will store a new connection and return a router that includes its UUID.
func (c *jsonRPCConnectionManager) NewConnection(ctx context.Context, conn jsonrpc2.Conn) (router jsonrpcfx.Router, err error) {
	id, err := c.ctrl.InitSession(ctx, conn)
	if err != nil {
		return nil, fmt.Errorf("error while creating new connection: %w", err)
	}

	r := jsonRPCRouter{
		qlspdaemon: c.ctrl,
		uuid:       id,
		stats:      c.stats,
		logger:     c.logger,
		inflight:   &c.inflight,
	}

	return &r, nil
}

// RemoveConnection cleans up a closed connection.
func (c *jsonRPCConnectionManager) RemoveConnection(ctx context.Context, id uuid.UUID) {
	// Ensure session is removed even if no Exit call has been received.
	ctx = context.WithValue(ctx, entity.SessionContextKey, id)
	if err := c.ctrl.EndSession(ctx, id); err != nil {
		c.logger.Warnf("ending session %s: %s", id, err)
	}
}
