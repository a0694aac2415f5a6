package jsonrpcfx

import (
	"context"
	"errors"
	"fmt"
	"net"
	"sync"

	"github.com/gofrs/uuid"
	"github.com/uber/qchat-lsp/src/qlsp/internal/serverinfofile"
	"go.lsp.dev/jsonrpc2"
	"go.uber.org/config"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

const (
	_configKeyAddress = "jsonrpc.address"
	_outputKey        = "lsp-address"
)

// Module is an fx module to handle JSON-RPC requests from IDE clients.
var Module = fx.Provide(New)

// JSONRPCModule accepts IDE connections and hands each one to the registered ConnectionManager.
type JSONRPCModule interface {
	OnStart(ctx context.Context) error
	OnStop(ctx context.Context) error
	ServeStream(ctx context.Context, conn jsonrpc2.Conn) error
	RegisterConnectionManager(connectionManager ConnectionManager) error
	// Addr returns the bound listener address, or the configured one before start.
	Addr() string
}

// Router serves as the interface through which handling of requests will be implemented.
type Router interface {
	HandleReq(ctx context.Context, reply jsonrpc2.Replier, req jsonrpc2.Request) error
	UUID() uuid.UUID
}

// ConnectionManager will manage each active connection and its corresponding Router throughout the lifecycle of a connection.
type ConnectionManager interface {
	NewConnection(ctx context.Context, conn jsonrpc2.Conn) (router Router, err error)
	RemoveConnection(ctx context.Context, id uuid.UUID)
}

type module struct {
	address string

	connectionMgr  ConnectionManager
	ln             net.Listener
	logger         *zap.SugaredLogger
	serverInfoFile serverinfofile.ServerInfoFile

	cancel context.CancelFunc
	served chan struct{}
	conns  sync.WaitGroup
	mu     sync.Mutex
}

// Params define values to be used by JsonRpcHandler.
type Params struct {
	fx.In

	Config         config.Provider
	Lifecycle      fx.Lifecycle
	Logger         *zap.SugaredLogger
	ServerInfoFile serverinfofile.ServerInfoFile
}

// New creates a new server to handle JSON-RPC requests on the configured address.
func New(p Params) (JSONRPCModule, error) {
	if p.Lifecycle == nil || p.Config == nil {
		return nil, errors.New("required parameters are missing")
	}

	m := &module{
		logger:         p.Logger,
		serverInfoFile: p.ServerInfoFile,
	}

	if err := m.processConfig(p.Config); err != nil {
		return nil, err
	}

	p.Lifecycle.Append(fx.Hook{
		OnStart: m.OnStart,
		OnStop:  m.OnStop,
	})

	return m, nil
}

// OnStart binds the listener and begins handling incoming connections in the background.
func (m *module) OnStart(ctx context.Context) error {
	ln, err := net.Listen("tcp", m.address)
	if err != nil {
		return fmt.Errorf("listening on %q: %w", m.address, err)
	}

	m.mu.Lock()
	m.ln = ln
	serveCtx, cancel := context.WithCancel(context.Background())
	m.cancel = cancel
	m.served = make(chan struct{})
	m.mu.Unlock()

	if err := m.serverInfoFile.UpdateField(_outputKey, ln.Addr().String()); err != nil {
		cancel()
		ln.Close()
		m.mu.Lock()
		m.cancel = nil
		m.mu.Unlock()
		return err
	}

	m.logger.Warnw("started JSON-RPC inbound", zap.String("address", ln.Addr().String()))
	go m.serve(serveCtx, ln, m.served)
	return nil
}

// OnStop closes the listener and every active connection, then waits for the accept loop to exit.
func (m *module) OnStop(ctx context.Context) error {
	m.mu.Lock()
	cancel, served, ln := m.cancel, m.served, m.ln
	m.mu.Unlock()

	if cancel == nil {
		return nil
	}
	cancel()
	ln.Close()

	select {
	case <-served:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Addr returns the address the module is, or will be, listening on.
func (m *module) Addr() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.ln != nil {
		return m.ln.Addr().String()
	}
	return m.address
}

// ServeStream is called when a new connection is initiated. Requests received via the connection will be routed to the handler, and answered via the connection's replier.
func (m *module) ServeStream(ctx context.Context, conn jsonrpc2.Conn) error {
	if m.connectionMgr == nil {
		m.logger.Errorf("cannot serve connection, no connection manager set")
		return errors.New("cannot serve connection, no connection manager set")
	}

	handler, err := m.connectionMgr.NewConnection(ctx, conn)
	if err != nil {
		return err
	}
	m.logger.Infow("client connected", zap.Stringer("uuid", handler.UUID()))
	conn.Go(ctx, handler.HandleReq)

	select {
	case <-conn.Done():
	case <-ctx.Done():
		conn.Close()
		<-conn.Done()
	}

	m.connectionMgr.RemoveConnection(ctx, handler.UUID())
	m.logger.Infow("client disconnected", zap.Stringer("uuid", handler.UUID()))

	return conn.Err()
}

// RegisterConnectionManager sets the connection manager, which keeps track of current active connections and provides a Router implementation.
func (m *module) RegisterConnectionManager(connectionMgr ConnectionManager) error {
	if m.connectionMgr != nil {
		return errors.New("cannot register a duplicate connection manager")
	}
	m.connectionMgr = connectionMgr
	return nil
}

// serve accepts connections until the listener is closed, then waits for every connection to drain.
func (m *module) serve(ctx context.Context, ln net.Listener, served chan struct{}) {
	defer close(served)
	defer m.conns.Wait()

	for {
		netConn, err := ln.Accept()
		if err != nil {
			if ctx.Err() == nil && !errors.Is(err, net.ErrClosed) {
				m.logger.Errorw("JSON-RPC inbound stopped", zap.Error(err))
			}
			return
		}

		m.conns.Add(1)
		go func() {
			defer m.conns.Done()
			stream := jsonrpc2.NewStream(netConn)
			if err := m.ServeStream(ctx, jsonrpc2.NewConn(stream)); err != nil && ctx.Err() == nil {
				m.logger.Debugw("connection closed", zap.Error(err))
			}
			stream.Close()
		}()
	}
}

func (m *module) processConfig(cfg config.Provider) error {
	val := cfg.Get(_configKeyAddress)
	if err := val.Populate(&m.address); err != nil {
		return fmt.Errorf("getting config field %q: %w", _configKeyAddress, err)
	}

	if m.address == "" {
		return fmt.Errorf("missing field %q in config", _configKeyAddress)
	}

	return nil
}
