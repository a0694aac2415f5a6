package ideclient

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/gofrs/uuid"
	"github.com/uber/qchat-lsp/src/qlsp/mapper"
	"go.lsp.dev/jsonrpc2"
	"go.lsp.dev/protocol"
	"go.uber.org/multierr"
	"go.uber.org/zap"
)

// Notifications sent to the IDE.
const (
	MethodViewDidChange = "qlsp/view/didChange"
	MethodAuthDidChange = "qlsp/auth/didChange"
	MethodChatProgress  = "qlsp/chat/progress"
)

const _errSendToClient = "sending call/notification to IDE: %w"

// Gateway is used to send outbound notifications to the IDE.
// Calls that take only a context route to the session UUID stored in it.
type Gateway interface {
	// RegisterClient registers a new client with the gateway. Should be called each time a new IDE connection is initialized.
	RegisterClient(ctx context.Context, id uuid.UUID, conn jsonrpc2.Conn) error
	// DeregisterClient removes a client from the gateway. Should be called each time an IDE connection is closed.
	DeregisterClient(ctx context.Context, id uuid.UUID) error
	// Sessions returns the ids of all registered clients.
	Sessions() []uuid.UUID

	// Notify sends a notification to the session in ctx.
	Notify(ctx context.Context, method string, params interface{}) error
	// NotifySession sends a notification to the given session.
	NotifySession(ctx context.Context, id uuid.UUID, method string, params interface{}) error
	// Broadcast sends a notification to every registered session. Failures are aggregated.
	Broadcast(ctx context.Context, method string, params interface{}) error

	ShowMessage(ctx context.Context, params *protocol.ShowMessageParams) error
	// BroadcastShowMessage shows a message in every registered session.
	BroadcastShowMessage(ctx context.Context, params *protocol.ShowMessageParams) error
}

type gateway struct {
	clients     map[uuid.UUID]protocol.Client
	connections map[uuid.UUID]jsonrpc2.Conn
	clientsMu   sync.Mutex
	logger      *zap.Logger
}

// New returns a Gateway for sending IDE notifications.
func New(logger *zap.Logger) Gateway {
	return &gateway{
		clients:     make(map[uuid.UUID]protocol.Client),
		connections: make(map[uuid.UUID]jsonrpc2.Conn),
		logger:      logger,
	}
}

func (g *gateway) RegisterClient(ctx context.Context, id uuid.UUID, conn jsonrpc2.Conn) error {
	g.clientsMu.Lock()
	defer g.clientsMu.Unlock()

	g.clients[id] = protocol.ClientDispatcher(conn, g.logger)
	g.connections[id] = conn

	return nil
}

func (g *gateway) DeregisterClient(ctx context.Context, id uuid.UUID) error {
	g.clientsMu.Lock()
	defer g.clientsMu.Unlock()

	delete(g.clients, id)
	delete(g.connections, id)

	return nil
}

func (g *gateway) Sessions() []uuid.UUID {
	g.clientsMu.Lock()
	defer g.clientsMu.Unlock()

	ids := make([]uuid.UUID, 0, len(g.connections))
	for id := range g.connections {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i].String() < ids[j].String() })
	return ids
}

func (g *gateway) Notify(ctx context.Context, method string, params interface{}) error {
	id, err := mapper.ContextToSessionUUID(ctx)
	if err != nil {
		return fmt.Errorf(_errSendToClient, err)
	}
	return g.NotifySession(ctx, id, method, params)
}

func (g *gateway) NotifySession(ctx context.Context, id uuid.UUID, method string, params interface{}) error {
	_, conn, err := g.getClient(id)
	if err != nil {
		return fmt.Errorf(_errSendToClient, err)
	}
	if err := conn.Notify(ctx, method, params); err != nil {
		return fmt.Errorf(_errSendToClient, err)
	}
	return nil
}

func (g *gateway) Broadcast(ctx context.Context, method string, params interface{}) error {
	var errs error
	for _, id := range g.Sessions() {
		errs = multierr.Append(errs, g.NotifySession(ctx, id, method, params))
	}
	return errs
}

func (g *gateway) ShowMessage(ctx context.Context, params *protocol.ShowMessageParams) error {
	id, err := mapper.ContextToSessionUUID(ctx)
	if err != nil {
		return fmt.Errorf(_errSendToClient, err)
	}
	c, _, err := g.getClient(id)
	if err != nil {
		return fmt.Errorf(_errSendToClient, err)
	}
	return c.ShowMessage(ctx, params)
}

func (g *gateway) BroadcastShowMessage(ctx context.Context, params *protocol.ShowMessageParams) error {
	var errs error
	for _, id := range g.Sessions() {
		c, _, err := g.getClient(id)
		if err != nil {
			// Deregistered since the session list was taken.
			continue
		}
		errs = multierr.Append(errs, c.ShowMessage(ctx, params))
	}
	return errs
}

func (g *gateway) getClient(id uuid.UUID) (protocol.Client, jsonrpc2.Conn, error) {
	g.clientsMu.Lock()
	defer g.clientsMu.Unlock()

	client, ok := g.clients[id]
	if !ok {
		return nil, nil, fmt.Errorf("client with id %q not found", id)
	}

	conn, ok := g.connections[id]
	if !ok {
		return nil, nil, fmt.Errorf("client with id %q not found", id)
	}
	return client, conn, nil
}
