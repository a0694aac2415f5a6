package correlator

import (
	"sync"

	"github.com/gofrs/uuid"
	"github.com/uber/qchat-lsp/src/qlsp/entity"
	"github.com/uber/qchat-lsp/src/qlsp/factory"
	"github.com/uber/qchat-lsp/src/qlsp/internal/clock"
	"go.uber.org/fx"
)

// Controller maps partial result tokens to the IDE tab that started the request.
type Controller interface {
	// Register stores req under a new token and returns the token. Tokens are never reused.
	Register(req entity.PendingRequest) string
	// Resolve returns the request stored under token.
	Resolve(token string) (entity.PendingRequest, bool)
	// Release removes token. Releasing an unknown token is a no-op.
	Release(token string)
	// ReleaseSession removes every token owned by the session and returns how many were removed.
	ReleaseSession(sessionUUID uuid.UUID) int
	// ReleaseTab removes every token owned by a tab of the session and returns how many were removed.
	ReleaseTab(sessionUUID uuid.UUID, tabID string) int
	// Len returns the number of pending requests.
	Len() int
}

// Params are inbound parameters to initialize a new Controller.
type Params struct {
	fx.In

	Clock clock.Clock `optional:"true"`
}

type controller struct {
	clock   clock.Clock
	pending sync.Map
}

// New creates a new Controller.
func New(p Params) Controller {
	c := p.Clock
	if c == nil {
		c = clock.New()
	}
	return &controller{clock: c}
}

func (c *controller) Register(req entity.PendingRequest) string {
	if req.CreatedAt.IsZero() {
		req.CreatedAt = c.clock.Now()
	}
	for {
		token := factory.UUID().String()
		if _, loaded := c.pending.LoadOrStore(token, req); !loaded {
			return token
		}
	}
}

func (c *controller) Resolve(token string) (entity.PendingRequest, bool) {
	val, ok := c.pending.Load(token)
	if !ok {
		return entity.PendingRequest{}, false
	}
	return val.(entity.PendingRequest), true
}

func (c *controller) Release(token string) {
	c.pending.Delete(token)
}

func (c *controller) ReleaseSession(sessionUUID uuid.UUID) int {
	return c.releaseWhere(func(req entity.PendingRequest) bool {
		return req.SessionUUID == sessionUUID
	})
}

func (c *controller) ReleaseTab(sessionUUID uuid.UUID, tabID string) int {
	return c.releaseWhere(func(req entity.PendingRequest) bool {
		return req.SessionUUID == sessionUUID && req.TabID == tabID
	})
}

func (c *controller) releaseWhere(match func(entity.PendingRequest) bool) int {
	removed := 0
	c.pending.Range(func(key, val interface{}) bool {
		if match(val.(entity.PendingRequest)) {
			if _, loaded := c.pending.LoadAndDelete(key); loaded {
				removed++
			}
		}
		return true
	})
	return removed
}

func (c *controller) Len() int {
	n := 0
	c.pending.Range(func(_, _ interface{}) bool {
		n++
		return true
	})
	return n
}
