package lsplifecycle

import (
	"bufio"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	tally "github.com/uber-go/tally/v4"
	"github.com/uber/qchat-lsp/src/qlsp/controller/artifact"
	"github.com/uber/qchat-lsp/src/qlsp/controller/artifact/artifactmock"
	"github.com/uber/qchat-lsp/src/qlsp/entity"
	lspserver "github.com/uber/qchat-lsp/src/qlsp/gateway/lsp-server"
	"github.com/uber/qchat-lsp/src/qlsp/gateway/manifest-client/manifestclientmock"
	"github.com/uber/qchat-lsp/src/qlsp/internal/encryption"
	qerrors "github.com/uber/qchat-lsp/src/qlsp/internal/errors"
	"github.com/uber/qchat-lsp/src/qlsp/internal/eventbus"
	"github.com/uber/qchat-lsp/src/qlsp/internal/executor"
	"github.com/uber/qchat-lsp/src/qlsp/internal/fs"
	"github.com/uber/qchat-lsp/src/qlsp/internal/platform"
	"github.com/uber/qchat-lsp/src/qlsp/internal/serverinfofile/serverinfofilemock"
	"go.lsp.dev/jsonrpc2"
	"go.lsp.dev/protocol"
	"go.uber.org/config"
	"go.uber.org/fx/fxtest"
	"go.uber.org/goleak"
	"go.uber.org/mock/gomock"
	"go.uber.org/multierr"
	"go.uber.org/zap"
)

const _proxy = "http://proxy.example.com:3128"

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type testEnv struct {
	c         *controller
	dir       string
	artifacts *artifactmock.MockController
	infoFile  *serverinfofilemock.MockServerInfoFile
	launcher  *fakeLauncher
	states    *recorder[entity.ServerState]
	assets    *recorder[entity.ChatAssetState]
	lifecycle *fxtest.Lifecycle
}

func newTestEnv(t *testing.T, maxRestarts int) *testEnv {
	ctrl := gomock.NewController(t)
	dir := t.TempDir()

	cfg, err := config.NewStaticProvider(map[string]interface{}{
		"artifact": map[string]interface{}{
			"manifestUrl":       "https://example.com/manifest.json",
			"supportedVersions": ">=1.0.0 <2.0.0",
			"workingDirectory":  dir,
		},
		"server": map[string]interface{}{
			"shutdownTimeoutSeconds":   1,
			"initializeTimeoutSeconds": 5,
			"supervisor": map[string]interface{}{
				"maxRestarts":          maxRestarts,
				"initialBackoffMillis": 1,
				"maxBackoffMillis":     2,
				"resetWindowSeconds":   3600,
			},
		},
	})
	require.NoError(t, err)

	artifacts := artifactmock.NewMockController(ctrl)
	manifests := manifestclientmock.NewMockGateway(ctrl)
	manifests.EXPECT().ProxyURL("https://example.com/manifest.json").Return(_proxy, true).AnyTimes()
	infoFile := serverinfofilemock.NewMockServerInfoFile(ctrl)
	channel, err := encryption.New(encryption.Params{Config: cfg})
	require.NoError(t, err)
	bus := eventbus.New()
	lifecycle := fxtest.NewLifecycle(t)

	controllerIface, err := New(Params{
		Config:         cfg,
		Lifecycle:      lifecycle,
		Logger:         zap.NewNop().Sugar(),
		Stats:          tally.NewTestScope("test", nil),
		FS:             fs.New(),
		Executor:       executor.NewExecutor(),
		ServerInfoFile: infoFile,
		Bus:            bus,
		Artifacts:      artifacts,
		Manifests:      manifests,
		Channel:        channel,
		Server:         lspserver.New(zap.NewNop().Sugar()),
	})
	require.NoError(t, err)

	c := controllerIface.(*controller)
	c.platform = platform.Info{Platform: platform.Linux, Architecture: platform.X64}
	c.platformErr = nil
	launcher := &fakeLauncher{}
	c.launch = launcher.launch
	c.output = &fakeOutput{}

	return &testEnv{
		c:         c,
		dir:       dir,
		artifacts: artifacts,
		infoFile:  infoFile,
		launcher:  launcher,
		states:    record(bus, eventbus.ServerStateTopic),
		assets:    record(bus, eventbus.ChatAssetStateTopic),
		lifecycle: lifecycle,
	}
}

// writeInstall lays out a version directory the way the artifact resolver leaves it.
func writeInstall(t *testing.T, root, version string) *entity.LspInstallResult {
	dest := filepath.Join(root, version)
	serverDir := filepath.Join(dest, "servers")
	clientDir := filepath.Join(dest, "clients")
	require.NoError(t, os.MkdirAll(serverDir, 0o755))
	require.NoError(t, os.MkdirAll(clientDir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(serverDir, "node"), []byte("#!/bin/sh\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(serverDir, "aws-lsp-codewhisperer.js"), []byte("//"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(clientDir, "amazonq-ui.js"), []byte("//"), 0o644))

	return &entity.LspInstallResult{
		Location:          entity.LocationRemote,
		Version:           version,
		ServerDirectory:   serverDir,
		ClientDirectory:   clientDir,
		ServerCommand:     "node",
		ServerCommandArgs: "aws-lsp-codewhisperer.js",
	}
}

func TestGetInstallation(t *testing.T) {
	env := newTestEnv(t, 0)
	install := writeInstall(t, env.dir, "1.2.0")
	writeInstall(t, env.dir, "1.1.0")
	require.NoError(t, os.MkdirAll(filepath.Join(env.dir, "notes"), 0o755))

	env.artifacts.EXPECT().Resolve(gomock.Any(), gomock.Any()).DoAndReturn(
		func(ctx context.Context, req artifact.Request) (*entity.LspInstallResult, error) {
			time.Sleep(10 * time.Millisecond)
			return install, nil
		}).Times(1)
	env.infoFile.EXPECT().UpdateField("server-version", "1.2.0").Return(nil)
	env.infoFile.EXPECT().UpdateField("server-location", "REMOTE").Return(nil)
	env.infoFile.EXPECT().UpdateField("server-directory", install.ServerDirectory).Return(errors.New("read-only"))

	var wg sync.WaitGroup
	results := make([]*entity.LspInstallResult, 5)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			r, err := env.c.GetInstallation(context.Background())
			assert.NoError(t, err)
			results[i] = r
		}(i)
	}
	wg.Wait()
	env.c.wg.Wait()

	for _, r := range results {
		assert.Same(t, install, r)
	}

	info, err := os.Stat(filepath.Join(install.ServerDirectory, "node"))
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o755), info.Mode().Perm())

	_, err = os.Stat(filepath.Join(env.dir, "1.1.0"))
	assert.True(t, os.IsNotExist(err), "old version should be removed")
	_, err = os.Stat(filepath.Join(env.dir, "notes"))
	assert.NoError(t, err, "non version directories are kept")
}

func TestGetInstallationIgnoresCallerCancellation(t *testing.T) {
	env := newTestEnv(t, 0)
	env.infoFile.EXPECT().UpdateField(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	install := writeInstall(t, env.dir, "1.2.0")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	env.artifacts.EXPECT().Resolve(gomock.Any(), gomock.Any()).DoAndReturn(
		func(ctx context.Context, req artifact.Request) (*entity.LspInstallResult, error) {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			return install, nil
		}).Times(1)

	r, err := env.c.GetInstallation(ctx)
	require.NoError(t, err)
	assert.Same(t, install, r)

	r, err = env.c.GetInstallation(context.Background())
	require.NoError(t, err)
	assert.Same(t, install, r)
	env.c.wg.Wait()
}

func TestGetInstallationCacheFallback(t *testing.T) {
	manifestErr := &qerrors.ManifestFetchError{URL: "https://example.com/manifest.json", StatusCode: 503}

	t.Run("newest valid cached version", func(t *testing.T) {
		env := newTestEnv(t, 0)
		env.infoFile.EXPECT().UpdateField(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
		valid := writeInstall(t, env.dir, "1.1.0")
		valid.Location = entity.LocationCache
		broken := &entity.LspInstallResult{
			Location:          entity.LocationCache,
			Version:           "1.3.0",
			ServerDirectory:   filepath.Join(env.dir, "1.3.0", "servers"),
			ServerCommand:     "node",
			ServerCommandArgs: "aws-lsp-codewhisperer.js",
		}

		env.artifacts.EXPECT().Resolve(gomock.Any(), gomock.Any()).Return(nil, manifestErr)
		env.artifacts.EXPECT().CachedInstalls(env.c.request).Return([]*entity.LspInstallResult{broken, valid}, nil)

		r, err := env.c.GetInstallation(context.Background())
		require.NoError(t, err)
		assert.Equal(t, "1.1.0", r.Version)
		assert.Equal(t, entity.LocationCache, r.Location)
		env.c.wg.Wait()
	})

	t.Run("nothing cached", func(t *testing.T) {
		env := newTestEnv(t, 0)
		env.artifacts.EXPECT().Resolve(gomock.Any(), gomock.Any()).Return(nil, manifestErr)
		env.artifacts.EXPECT().CachedInstalls(gomock.Any()).Return(nil, nil)

		_, err := env.c.GetInstallation(context.Background())
		assert.True(t, qerrors.IsManifestFetch(err))
	})

	t.Run("other errors do not fall back", func(t *testing.T) {
		env := newTestEnv(t, 0)
		env.artifacts.EXPECT().Resolve(gomock.Any(), gomock.Any()).Return(nil, &qerrors.NoCompatibleVersionError{})

		_, err := env.c.GetInstallation(context.Background())
		var noVersion *qerrors.NoCompatibleVersionError
		assert.ErrorAs(t, err, &noVersion)
	})
}

func TestGetInstallationValidation(t *testing.T) {
	tests := []struct {
		name   string
		modify func(r *entity.LspInstallResult)
		field  string
	}{
		{
			name:   "wrong command",
			modify: func(r *entity.LspInstallResult) { r.ServerCommand = "deno" },
			field:  "serverCommand",
		},
		{
			name:   "wrong entry point",
			modify: func(r *entity.LspInstallResult) { r.ServerCommandArgs = "other.js" },
			field:  "serverCommandArgs",
		},
		{
			name:   "missing server directory",
			modify: func(r *entity.LspInstallResult) { r.ServerDirectory = filepath.Join(r.ServerDirectory, "missing") },
			field:  "serverCommand",
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t, 0)
			install := writeInstall(t, env.dir, "1.2.0")
			tt.modify(install)

			// Failures are not memoized, the next call resolves again.
			env.artifacts.EXPECT().Resolve(gomock.Any(), gomock.Any()).Return(install, nil).Times(2)
			for i := 0; i < 2; i++ {
				_, err := env.c.GetInstallation(context.Background())
				var validation *qerrors.ValidationError
				require.ErrorAs(t, err, &validation)
				assert.Equal(t, tt.field, validation.Field)
			}
		})
	}
}

func TestGetInstallationOverride(t *testing.T) {
	env := newTestEnv(t, 0)
	env.infoFile.EXPECT().UpdateField(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	install := writeInstall(t, env.dir, "local")
	install.Location = entity.LocationOverride
	require.NoError(t, os.MkdirAll(filepath.Join(install.ServerDirectory, "dev"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(install.ServerDirectory, "dev", "server.js"), []byte("//"), 0o644))
	install.ServerCommandArgs = "dev/server.js"
	writeInstall(t, env.dir, "1.0.0")

	env.artifacts.EXPECT().Resolve(gomock.Any(), gomock.Any()).Return(install, nil)

	r, err := env.c.GetInstallation(context.Background())
	require.NoError(t, err)
	assert.Equal(t, entity.LocationOverride, r.Location)
	env.c.wg.Wait()

	info, err := os.Stat(filepath.Join(install.ServerDirectory, "node"))
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o755), info.Mode().Perm())
	_, err = os.Stat(filepath.Join(env.dir, "1.0.0"))
	assert.NoError(t, err, "no cleanup for overrides")
}

func TestGetInstallationOverrideValidation(t *testing.T) {
	tests := []struct {
		name string
		args string
	}{
		{name: "missing entry point", args: "does-not-exist/server.js"},
		{name: "entry point outside server directory", args: "../clients/amazonq-ui.js"},
		{name: "entry point is a directory", args: "."},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t, 0)
			install := writeInstall(t, env.dir, "local")
			install.Location = entity.LocationOverride
			install.ServerCommandArgs = tt.args

			env.artifacts.EXPECT().Resolve(gomock.Any(), gomock.Any()).Return(install, nil)

			_, err := env.c.GetInstallation(context.Background())
			var validation *qerrors.ValidationError
			require.ErrorAs(t, err, &validation)
			assert.Equal(t, "serverCommandArgs", validation.Field)
			assert.Nil(t, env.c.install.Load())
		})
	}
}

func TestStartAndStop(t *testing.T) {
	env := newTestEnv(t, 3)
	env.infoFile.EXPECT().UpdateField(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	install := writeInstall(t, env.dir, "1.2.0")
	env.artifacts.EXPECT().Resolve(gomock.Any(), gomock.Any()).Return(install, nil)

	require.NoError(t, env.c.Start(context.Background()))
	assert.Equal(t, entity.ServerStateRunning, env.c.State())
	assert.True(t, env.c.server.Connected())
	assert.Equal(t, []entity.ServerState{entity.ServerStatePending, entity.ServerStateRunning}, env.states.values())
	assert.Equal(t, []entity.ChatAssetState{{
		Available: true,
		Path:      filepath.Join(install.ClientDirectory, "amazonq-ui.js"),
	}}, env.assets.values())

	// A second start while running does nothing.
	require.NoError(t, env.c.Start(context.Background()))
	assert.Equal(t, 1, env.launcher.launchCount())

	handshakes := env.launcher.handshakeLines()
	require.Len(t, handshakes, 1)
	var hs struct {
		Version string `json:"version"`
		Key     string `json:"key"`
		Mode    string `json:"mode"`
	}
	require.NoError(t, json.Unmarshal([]byte(handshakes[0]), &hs))
	assert.Equal(t, "1.0", hs.Version)
	assert.Equal(t, "JWT", hs.Mode)
	key, err := base64.StdEncoding.DecodeString(hs.Key)
	require.NoError(t, err)
	assert.Len(t, key, 32)

	launchEnv := env.launcher.lastEnv()
	assert.Contains(t, launchEnv, "ENABLE_INLINE_COMPLETION=true")
	assert.Contains(t, launchEnv, "ENABLE_TOKEN_PROVIDER=true")
	assert.Contains(t, launchEnv, "HTTPS_PROXY="+_proxy)

	require.NoError(t, env.c.Stop(context.Background()))
	assert.False(t, env.c.server.Connected())
	assert.Equal(t, 0, env.launcher.killCount())
	assert.NotContains(t, env.states.values(), entity.ServerStateFailed)

	assert.Error(t, env.c.Start(context.Background()), "no start after stop")
}

func TestStartFailures(t *testing.T) {
	t.Run("install", func(t *testing.T) {
		env := newTestEnv(t, 3)
		env.artifacts.EXPECT().Resolve(gomock.Any(), gomock.Any()).Return(nil, &qerrors.NoCompatibleVersionError{})

		assert.Error(t, env.c.Start(context.Background()))
		assert.Equal(t, entity.ServerStateFailed, env.c.State())
		assert.Equal(t, 0, env.launcher.launchCount())
	})

	t.Run("launch", func(t *testing.T) {
		env := newTestEnv(t, 3)
		env.infoFile.EXPECT().UpdateField(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
		env.artifacts.EXPECT().Resolve(gomock.Any(), gomock.Any()).Return(writeInstall(t, env.dir, "1.2.0"), nil)
		env.launcher.failLaunch = errors.New("exec format error")

		err := env.c.Start(context.Background())
		assert.ErrorContains(t, err, "exec format error")
		assert.Equal(t, []entity.ServerState{entity.ServerStatePending, entity.ServerStateFailed}, env.states.values())
		require.NoError(t, env.c.Stop(context.Background()))
	})

	t.Run("initialize", func(t *testing.T) {
		env := newTestEnv(t, 3)
		env.infoFile.EXPECT().UpdateField(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
		env.artifacts.EXPECT().Resolve(gomock.Any(), gomock.Any()).Return(writeInstall(t, env.dir, "1.2.0"), nil)
		env.launcher.rejectInitialize = true

		assert.Error(t, env.c.Start(context.Background()))
		assert.Equal(t, entity.ServerStateFailed, env.c.State())
		assert.Equal(t, 1, env.launcher.killCount())
		assert.False(t, env.c.server.Connected())
		require.NoError(t, env.c.Stop(context.Background()))
	})
}

func TestStartServerStoppedDuringLaunch(t *testing.T) {
	env := newTestEnv(t, 3)
	install := writeInstall(t, env.dir, "1.2.0")
	env.launcher.onLaunch = func() { env.c.stopping.Store(true) }

	proc, err := env.c.startServer(context.Background(), install)
	assert.ErrorContains(t, err, "controller is stopped")
	assert.Nil(t, proc)
	assert.Equal(t, 1, env.launcher.killCount())
	assert.Nil(t, env.c.current.Load())
	assert.False(t, env.c.server.Connected())
	assert.NotContains(t, env.states.values(), entity.ServerStateRunning)
}

func TestSupervisorRelaunches(t *testing.T) {
	env := newTestEnv(t, 3)
	env.infoFile.EXPECT().UpdateField(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	env.artifacts.EXPECT().Resolve(gomock.Any(), gomock.Any()).Return(writeInstall(t, env.dir, "1.2.0"), nil).Times(1)
	env.launcher.crashes = 1

	require.NoError(t, env.c.Start(context.Background()))
	require.Eventually(t, func() bool {
		return env.launcher.launchCount() == 2 && env.c.State() == entity.ServerStateRunning
	}, 5*time.Second, 5*time.Millisecond)

	assert.Equal(t, []entity.ServerState{
		entity.ServerStatePending,
		entity.ServerStateRunning,
		entity.ServerStatePending,
		entity.ServerStateRunning,
	}, env.states.values())

	require.NoError(t, env.c.Stop(context.Background()))
}

func TestSupervisorGivesUp(t *testing.T) {
	env := newTestEnv(t, 2)
	env.infoFile.EXPECT().UpdateField(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	env.artifacts.EXPECT().Resolve(gomock.Any(), gomock.Any()).Return(writeInstall(t, env.dir, "1.2.0"), nil)
	env.launcher.crashes = -1

	require.NoError(t, env.c.Start(context.Background()))
	require.Eventually(t, func() bool {
		return env.c.State() == entity.ServerStateFailed
	}, 5*time.Second, 5*time.Millisecond)

	assert.Equal(t, 3, env.launcher.launchCount())
	assert.False(t, env.c.starting.Load(), "a failed server can be started again")
	require.NoError(t, env.c.Stop(context.Background()))
}

func TestStopKillsUnresponsiveServer(t *testing.T) {
	env := newTestEnv(t, 3)
	env.infoFile.EXPECT().UpdateField(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	env.artifacts.EXPECT().Resolve(gomock.Any(), gomock.Any()).Return(writeInstall(t, env.dir, "1.2.0"), nil)
	env.launcher.ignoreShutdown = true

	require.NoError(t, env.c.Start(context.Background()))
	require.NoError(t, env.c.Stop(context.Background()))
	assert.Equal(t, 1, env.launcher.killCount())
	assert.Equal(t, entity.ServerStateRunning, env.c.State(), "a requested stop is not a failure")
}

func TestServerHandler(t *testing.T) {
	env := newTestEnv(t, 3)
	env.infoFile.EXPECT().UpdateField(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	env.artifacts.EXPECT().Resolve(gomock.Any(), gomock.Any()).Return(writeInstall(t, env.dir, "1.2.0"), nil)

	received := make(chan string, 1)
	env.c.RegisterServerHandler(func(ctx context.Context, reply jsonrpc2.Replier, req jsonrpc2.Request) error {
		received <- req.Method()
		return reply(ctx, nil, nil)
	})
	env.launcher.onInitialized = func(conn jsonrpc2.Conn) {
		conn.Notify(context.Background(), protocol.MethodWindowLogMessage, &protocol.LogMessageParams{
			Type:    protocol.MessageTypeInfo,
			Message: "ready",
		})
	}

	require.NoError(t, env.c.Start(context.Background()))
	select {
	case method := <-received:
		assert.Equal(t, protocol.MethodWindowLogMessage, method)
	case <-time.After(5 * time.Second):
		t.Fatal("server notification was not dispatched")
	}
	require.NoError(t, env.c.Stop(context.Background()))
}

func TestLifecycleHooks(t *testing.T) {
	env := newTestEnv(t, 3)
	env.infoFile.EXPECT().UpdateField(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	env.artifacts.EXPECT().Resolve(gomock.Any(), gomock.Any()).Return(writeInstall(t, env.dir, "1.2.0"), nil)

	env.lifecycle.RequireStart()
	require.Eventually(t, func() bool {
		return env.c.State() == entity.ServerStateRunning
	}, 5*time.Second, 5*time.Millisecond)
	env.lifecycle.RequireStop()
	assert.False(t, env.c.server.Connected())
}

func TestLaunchProcess(t *testing.T) {
	cat, err := exec.LookPath("cat")
	if err != nil {
		t.Skip("cat is not available")
	}

	output := &fakeOutput{}
	c := &controller{
		logger:   zap.NewNop().Sugar(),
		executor: executor.NewExecutor(),
		output:   output,
	}

	proc, err := c.launchProcess(cat, nil, os.Environ())
	require.NoError(t, err)

	_, err = proc.Write([]byte("ping\n"))
	require.NoError(t, err)
	line, err := bufio.NewReader(proc).ReadString('\n')
	require.NoError(t, err)
	assert.Equal(t, "ping\n", line)

	require.NoError(t, proc.stdin.Close())
	assert.NoError(t, proc.wait())
	assert.NoError(t, proc.kill(), "killing an exited process is not an error")
}

func TestLaunchProcessStartFailure(t *testing.T) {
	c := &controller{
		logger:   zap.NewNop().Sugar(),
		executor: executor.NewExecutor(),
		output:   &fakeOutput{},
	}
	_, err := c.launchProcess(filepath.Join(t.TempDir(), "missing"), nil, nil)
	assert.Error(t, err)
}

type recorder[T any] struct {
	mu  sync.Mutex
	got []T
}

func record[T any](bus *eventbus.Bus, topic eventbus.Topic[T]) *recorder[T] {
	r := &recorder[T]{}
	eventbus.Subscribe(bus, topic, func(v T) {
		r.mu.Lock()
		defer r.mu.Unlock()
		r.got = append(r.got, v)
	})
	return r
}

func (r *recorder[T]) values() []T {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]T(nil), r.got...)
}

type fakeOutput struct {
	mu    sync.Mutex
	lines []string
}

func (o *fakeOutput) Write(p []byte) (int, error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.lines = append(o.lines, string(p))
	return len(p), nil
}

func (o *fakeOutput) Tail() []string {
	o.mu.Lock()
	defer o.mu.Unlock()
	return append([]string(nil), o.lines...)
}

// fakeLauncher runs an in-memory language server for every launch.
type fakeLauncher struct {
	mu         sync.Mutex
	launches   int
	kills      int
	handshakes []string
	env        []string

	failLaunch       error
	rejectInitialize bool
	ignoreShutdown   bool
	// crashes is the number of launches that exit right after initialization, -1 for all of them.
	crashes       int
	onLaunch      func()
	onInitialized func(conn jsonrpc2.Conn)
}

func (f *fakeLauncher) launchCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.launches
}

func (f *fakeLauncher) killCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.kills
}

func (f *fakeLauncher) handshakeLines() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.handshakes...)
}

func (f *fakeLauncher) lastEnv() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.env
}

func (f *fakeLauncher) launch(command string, args []string, env []string) (*serverProcess, error) {
	f.mu.Lock()
	f.launches++
	f.env = env
	crash := f.crashes < 0 || f.launches <= f.crashes
	f.mu.Unlock()

	if f.onLaunch != nil {
		f.onLaunch()
	}
	if f.failLaunch != nil {
		return nil, f.failLaunch
	}

	stdinR, stdinW := io.Pipe()
	stdoutR, stdoutW := io.Pipe()
	exited := make(chan struct{})
	var exitOnce sync.Once
	var exitErr error
	exit := func(err error) {
		exitOnce.Do(func() {
			exitErr = err
			stdinR.Close()
			stdoutW.Close()
			close(exited)
		})
	}

	go func() {
		reader := bufio.NewReader(stdinR)
		line, err := reader.ReadString('\n')
		if err != nil {
			exit(err)
			return
		}
		f.mu.Lock()
		f.handshakes = append(f.handshakes, line)
		f.mu.Unlock()

		conn := jsonrpc2.NewConn(jsonrpc2.NewStream(&pipeConn{Reader: reader, WriteCloser: stdoutW, in: stdinR}))
		conn.Go(context.Background(), func(ctx context.Context, reply jsonrpc2.Replier, req jsonrpc2.Request) error {
			switch req.Method() {
			case protocol.MethodInitialize:
				if f.rejectInitialize {
					return reply(ctx, nil, jsonrpc2.NewError(jsonrpc2.InternalError, "bad init"))
				}
				return reply(ctx, &protocol.InitializeResult{ServerInfo: &protocol.ServerInfo{Name: "fake", Version: "1.2.0"}}, nil)
			case protocol.MethodInitialized:
				if crash {
					go exit(errors.New("exit status 1"))
				} else if f.onInitialized != nil {
					go f.onInitialized(conn)
				}
				return reply(ctx, nil, nil)
			case protocol.MethodShutdown:
				if f.ignoreShutdown {
					return nil
				}
				return reply(ctx, nil, nil)
			case protocol.MethodExit:
				go exit(nil)
				return reply(ctx, nil, nil)
			}
			return jsonrpc2.MethodNotFoundHandler(ctx, reply, req)
		})

		select {
		case <-exited:
		case <-conn.Done():
			exit(conn.Err())
		}
		conn.Close()
		<-conn.Done()
	}()

	return &serverProcess{
		stdin:  stdinW,
		stdout: stdoutR,
		wait: func() error {
			<-exited
			return exitErr
		},
		kill: func() error {
			f.mu.Lock()
			f.kills++
			f.mu.Unlock()
			exit(errors.New("signal: killed"))
			return nil
		},
	}, nil
}

type pipeConn struct {
	io.Reader
	io.WriteCloser
	in io.Closer
}

func (p *pipeConn) Close() error {
	return multierr.Append(p.WriteCloser.Close(), p.in.Close())
}
