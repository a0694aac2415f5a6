// Package viewrouter derives the single view the IDE should display from the latest auth, server,
// browser and chat asset states.
package viewrouter

import (
	"context"
	"fmt"
	"sync"
	"time"

	tally "github.com/uber-go/tally/v4"
	"github.com/uber/qchat-lsp/src/qlsp/entity"
	"github.com/uber/qchat-lsp/src/qlsp/internal/clock"
	"github.com/uber/qchat-lsp/src/qlsp/internal/eventbus"
	"go.uber.org/config"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

const (
	_nameKey   = "view-router"
	_configKey = "view"
)

// Controller exposes the active view. Changes are published on eventbus.ActiveViewTopic.
type Controller interface {
	// Current returns the view computed from the latest inputs.
	Current() entity.ActiveView
}

// Params are inbound parameters to initialize a new Controller.
type Params struct {
	fx.In

	Config    config.Provider
	Lifecycle fx.Lifecycle
	Logger    *zap.SugaredLogger
	Stats     tally.Scope
	Clock     clock.Clock
	Bus       *eventbus.Bus
}

type viewConfig struct {
	DebounceMillis int `yaml:"debounceMillis"`
}

// inputs holds the last received value of every input. A nil field has not been received yet.
type inputs struct {
	auth      *entity.AuthState
	server    *entity.ServerState
	browser   *entity.BrowserState
	chatAsset *entity.ChatAssetState
}

type controller struct {
	logger   *zap.SugaredLogger
	stats    tally.Scope
	clock    clock.Clock
	bus      *eventbus.Bus
	debounce time.Duration

	mu      sync.Mutex
	latest  inputs
	pending clock.Timer
	stopped bool

	// emitMu orders emissions. It is taken before mu and never held by Current.
	emitMu  sync.Mutex
	emitted entity.ActiveView
}

// New creates a view router subscribed to its input topics.
func New(p Params) (Controller, error) {
	cfg := viewConfig{}
	if err := p.Config.Get(_configKey).Populate(&cfg); err != nil {
		return nil, fmt.Errorf("getting configuration for %q: %w", _configKey, err)
	}
	if cfg.DebounceMillis < 0 {
		return nil, fmt.Errorf("%s.debounceMillis must not be negative, got %d", _configKey, cfg.DebounceMillis)
	}

	c := &controller{
		logger:   p.Logger.With("plugin", _nameKey),
		stats:    p.Stats.SubScope("view"),
		clock:    p.Clock,
		bus:      p.Bus,
		debounce: time.Duration(cfg.DebounceMillis) * time.Millisecond,
	}

	unsubscribe := []func(){
		eventbus.Subscribe(p.Bus, eventbus.AuthStateTopic, func(s entity.AuthState) {
			c.update(func(in *inputs) { in.auth = &s })
		}),
		eventbus.Subscribe(p.Bus, eventbus.ServerStateTopic, func(s entity.ServerState) {
			c.update(func(in *inputs) { in.server = &s })
		}),
		eventbus.Subscribe(p.Bus, eventbus.BrowserStateTopic, func(s entity.BrowserState) {
			c.update(func(in *inputs) { in.browser = &s })
		}),
		eventbus.Subscribe(p.Bus, eventbus.ChatAssetStateTopic, func(s entity.ChatAssetState) {
			c.update(func(in *inputs) { in.chatAsset = &s })
		}),
	}

	p.Lifecycle.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			for _, u := range unsubscribe {
				u()
			}
			c.mu.Lock()
			defer c.mu.Unlock()
			c.stopped = true
			if c.pending != nil {
				c.pending.Stop()
				c.pending = nil
			}
			return nil
		},
	})
	return c, nil
}

func (c *controller) Current() entity.ActiveView {
	c.mu.Lock()
	defer c.mu.Unlock()
	return resolve(c.latest)
}

// update applies an input change and schedules an emission.
func (c *controller) update(apply func(*inputs)) {
	c.mu.Lock()
	apply(&c.latest)
	if c.stopped {
		c.mu.Unlock()
		return
	}
	if c.debounce == 0 {
		c.mu.Unlock()
		c.emit()
		return
	}
	if c.pending != nil {
		c.pending.Stop()
	}
	c.pending = c.clock.AfterFunc(c.debounce, c.flush)
	c.mu.Unlock()
}

func (c *controller) flush() {
	c.mu.Lock()
	c.pending = nil
	stopped := c.stopped
	c.mu.Unlock()
	if !stopped {
		c.emit()
	}
}

// emit publishes the current view if it differs from the last one published.
func (c *controller) emit() {
	c.emitMu.Lock()
	defer c.emitMu.Unlock()

	view := c.Current()
	if view == c.emitted {
		return
	}
	previous := c.emitted
	c.emitted = view

	c.stats.Tagged(map[string]string{"view": string(view)}).Counter("changes").Inc(1)
	c.logger.Infow("active view changed", "from", previous, "to", view)
	eventbus.Publish(c.bus, eventbus.ActiveViewTopic, view)
}

// resolve applies the view precedence to a set of inputs. The first matching rule wins.
func resolve(in inputs) entity.ActiveView {
	switch {
	case in.browser != nil && !in.browser.Available:
		return entity.DependencyMissingView
	case in.server != nil && *in.server == entity.ServerStateFailed:
		return entity.LspStartupFailedView
	case in.server == nil || *in.server != entity.ServerStateRunning:
		return entity.LspInitializingView
	case in.chatAsset != nil && !in.chatAsset.Available:
		return entity.ChatAssetMissingView
	case in.auth == nil:
		return entity.LspInitializingView
	case in.auth.Status == entity.AuthStatusLoggedOut:
		return entity.ToolkitLoginView
	case in.auth.Status == entity.AuthStatusExpired:
		return entity.ReAuthenticateView
	}
	return entity.ChatView
}
