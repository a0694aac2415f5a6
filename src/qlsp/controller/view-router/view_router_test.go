package viewrouter

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	tally "github.com/uber-go/tally/v4"
	"github.com/uber/qchat-lsp/src/qlsp/entity"
	"github.com/uber/qchat-lsp/src/qlsp/internal/clock"
	"github.com/uber/qchat-lsp/src/qlsp/internal/clock/clockmock"
	"github.com/uber/qchat-lsp/src/qlsp/internal/eventbus"
	"go.uber.org/config"
	"go.uber.org/fx/fxtest"
	"go.uber.org/mock/gomock"
	"go.uber.org/zap"
)

func ptr[T any](v T) *T {
	return &v
}

var (
	_loggedIn  = entity.AuthState{Status: entity.AuthStatusLoggedIn, LoginType: entity.LoginTypeBuilderID, LoginParams: &entity.LoginParams{}}
	_loggedOut = entity.LoggedOutState()
	_expired   = entity.AuthState{Status: entity.AuthStatusExpired, LoginType: entity.LoginTypeBuilderID, LoginParams: &entity.LoginParams{}}
	_running   = entity.ServerStateRunning
	_available = entity.BrowserState{Available: true}
	_missing   = entity.BrowserState{Available: false, Reason: "no webview runtime"}
)

func TestResolve(t *testing.T) {
	tests := []struct {
		name string
		in   inputs
		want entity.ActiveView
	}{
		{
			name: "nothing received",
			want: entity.LspInitializingView,
		},
		{
			name: "browser missing wins over everything",
			in:   inputs{browser: &_missing, server: ptr(entity.ServerStateFailed), auth: &_loggedOut},
			want: entity.DependencyMissingView,
		},
		{
			name: "server failed",
			in:   inputs{browser: &_available, server: ptr(entity.ServerStateFailed), auth: &_loggedOut},
			want: entity.LspStartupFailedView,
		},
		{
			name: "server pending",
			in:   inputs{server: ptr(entity.ServerStatePending), auth: &_loggedIn},
			want: entity.LspInitializingView,
		},
		{
			name: "server unknown",
			in:   inputs{browser: &_available, auth: &_loggedIn},
			want: entity.LspInitializingView,
		},
		{
			name: "chat asset missing",
			in:   inputs{server: &_running, chatAsset: &entity.ChatAssetState{}, auth: &_loggedOut},
			want: entity.ChatAssetMissingView,
		},
		{
			name: "auth unknown",
			in:   inputs{server: &_running},
			want: entity.LspInitializingView,
		},
		{
			name: "logged out",
			in:   inputs{server: &_running, auth: &_loggedOut},
			want: entity.ToolkitLoginView,
		},
		{
			name: "expired",
			in:   inputs{server: &_running, chatAsset: &entity.ChatAssetState{Available: true}, auth: &_expired},
			want: entity.ReAuthenticateView,
		},
		{
			name: "chat",
			in:   inputs{browser: &_available, server: &_running, chatAsset: &entity.ChatAssetState{Available: true}, auth: &_loggedIn},
			want: entity.ChatView,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, resolve(tt.in))
		})
	}
}

type testRouter struct {
	*controller
	bus   *eventbus.Bus
	views []entity.ActiveView
	stats tally.TestScope
}

func newTestRouter(t *testing.T, debounceMillis int, clk clock.Clock) *testRouter {
	cfg, err := config.NewStaticProvider(map[string]interface{}{
		"view": map[string]interface{}{"debounceMillis": debounceMillis},
	})
	require.NoError(t, err)

	lc := fxtest.NewLifecycle(t)
	r := &testRouter{bus: eventbus.New(), stats: tally.NewTestScope("", nil)}
	eventbus.Subscribe(r.bus, eventbus.ActiveViewTopic, func(v entity.ActiveView) {
		r.views = append(r.views, v)
	})

	c, err := New(Params{
		Config:    cfg,
		Lifecycle: lc,
		Logger:    zap.NewNop().Sugar(),
		Stats:     r.stats,
		Clock:     clk,
		Bus:       r.bus,
	})
	require.NoError(t, err)
	r.controller = c.(*controller)

	lc.RequireStart()
	t.Cleanup(lc.RequireStop)
	return r
}

func TestNew(t *testing.T) {
	cfg, err := config.NewStaticProvider(map[string]interface{}{
		"view": map[string]interface{}{"debounceMillis": -1},
	})
	require.NoError(t, err)
	_, err = New(Params{Config: cfg, Lifecycle: fxtest.NewLifecycle(t), Logger: zap.NewNop().Sugar(), Stats: tally.NoopScope, Bus: eventbus.New()})
	assert.ErrorContains(t, err, "must not be negative")
}

func TestEmitsOnlyChanges(t *testing.T) {
	r := newTestRouter(t, 0, clock.New())
	assert.Equal(t, entity.LspInitializingView, r.Current())

	eventbus.Publish(r.bus, eventbus.AuthStateTopic, _loggedOut)
	eventbus.Publish(r.bus, eventbus.ServerStateTopic, entity.ServerStatePending)
	eventbus.Publish(r.bus, eventbus.ServerStateTopic, entity.ServerStateRunning)
	eventbus.Publish(r.bus, eventbus.BrowserStateTopic, _available)
	eventbus.Publish(r.bus, eventbus.AuthStateTopic, _loggedIn)
	eventbus.Publish(r.bus, eventbus.AuthStateTopic, _loggedIn)
	eventbus.Publish(r.bus, eventbus.AuthStateTopic, _expired)
	eventbus.Publish(r.bus, eventbus.BrowserStateTopic, _missing)

	assert.Equal(t, []entity.ActiveView{
		entity.LspInitializingView,
		entity.ToolkitLoginView,
		entity.ChatView,
		entity.ReAuthenticateView,
		entity.DependencyMissingView,
	}, r.views)
	assert.Equal(t, entity.DependencyMissingView, r.Current())

	counter := r.stats.Snapshot().Counters()["view.changes+view=CHAT_VIEW"]
	require.NotNil(t, counter)
	assert.Equal(t, int64(1), counter.Value())
}

func TestDebounce(t *testing.T) {
	ctrl := gomock.NewController(t)
	clk := clockmock.NewMockClock(ctrl)

	var fire func()
	var stopped int
	clk.EXPECT().AfterFunc(50*time.Millisecond, gomock.Any()).DoAndReturn(func(d time.Duration, f func()) clock.Timer {
		fire = f
		timer := clockmock.NewMockTimer(ctrl)
		timer.EXPECT().Stop().DoAndReturn(func() bool {
			stopped++
			return true
		}).AnyTimes()
		return timer
	}).Times(3)

	r := newTestRouter(t, 50, clk)
	eventbus.Publish(r.bus, eventbus.ServerStateTopic, entity.ServerStateRunning)
	eventbus.Publish(r.bus, eventbus.AuthStateTopic, _loggedOut)
	eventbus.Publish(r.bus, eventbus.AuthStateTopic, _loggedIn)
	assert.Equal(t, 2, stopped, "every change restarts the pending timer")
	assert.Empty(t, r.views)
	assert.Equal(t, entity.ChatView, r.Current(), "current reflects inputs before the debounced emission")

	fire()
	assert.Equal(t, []entity.ActiveView{entity.ChatView}, r.views)
	fire()
	assert.Len(t, r.views, 1, "same view is not emitted twice")
}

func TestStopCancelsPendingEmission(t *testing.T) {
	ctrl := gomock.NewController(t)
	clk := clockmock.NewMockClock(ctrl)
	timer := clockmock.NewMockTimer(ctrl)
	var fire func()
	clk.EXPECT().AfterFunc(gomock.Any(), gomock.Any()).DoAndReturn(func(d time.Duration, f func()) clock.Timer {
		fire = f
		return timer
	})
	timer.EXPECT().Stop().Return(true)

	cfg, err := config.NewStaticProvider(map[string]interface{}{
		"view": map[string]interface{}{"debounceMillis": 10},
	})
	require.NoError(t, err)
	lc := fxtest.NewLifecycle(t)
	bus := eventbus.New()
	var views []entity.ActiveView
	eventbus.Subscribe(bus, eventbus.ActiveViewTopic, func(v entity.ActiveView) { views = append(views, v) })

	_, err = New(Params{Config: cfg, Lifecycle: lc, Logger: zap.NewNop().Sugar(), Stats: tally.NoopScope, Clock: clk, Bus: bus})
	require.NoError(t, err)
	lc.RequireStart()

	eventbus.Publish(bus, eventbus.ServerStateTopic, entity.ServerStateFailed)
	lc.RequireStop()

	fire()
	eventbus.Publish(bus, eventbus.ServerStateTopic, entity.ServerStateRunning)
	assert.Empty(t, views)
}
