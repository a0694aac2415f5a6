package authstore

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/gofrs/flock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uber/qchat-lsp/src/qlsp/internal/fs"
	"github.com/uber/qchat-lsp/src/qlsp/internal/fs/fsmock"
	"github.com/uber/qchat-lsp/src/qlsp/model"
	"go.uber.org/config"
	"go.uber.org/fx/fxtest"
	"go.uber.org/goleak"
	"go.uber.org/mock/gomock"
	"go.uber.org/zap"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func newTestRepository(t *testing.T, path string) (*repository, *fxtest.Lifecycle) {
	cfg, err := config.NewStaticProvider(map[string]interface{}{
		"auth": map[string]interface{}{"storePath": path},
	})
	require.NoError(t, err)

	lc := fxtest.NewLifecycle(t)
	r, err := New(Params{
		Config:    cfg,
		Lifecycle: lc,
		Logger:    zap.NewNop().Sugar(),
		FS:        fs.New(),
	})
	require.NoError(t, err)
	return r.(*repository), lc
}

func TestNew(t *testing.T) {
	t.Run("default path", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		fsMock := fsmock.NewMockQlspFS(ctrl)
		fsMock.EXPECT().UserConfigDir().Return("/home/user/.config", nil)
		cfg, err := config.NewStaticProvider(map[string]interface{}{})
		require.NoError(t, err)

		r, err := New(Params{Config: cfg, Lifecycle: fxtest.NewLifecycle(t), Logger: zap.NewNop().Sugar(), FS: fsMock})
		require.NoError(t, err)
		assert.Equal(t, "/home/user/.config/qlsp/auth.yaml", r.Path())
	})

	t.Run("no config directory", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		fsMock := fsmock.NewMockQlspFS(ctrl)
		fsMock.EXPECT().UserConfigDir().Return("", errors.New("$HOME is not defined"))
		cfg, err := config.NewStaticProvider(map[string]interface{}{})
		require.NoError(t, err)

		_, err = New(Params{Config: cfg, Lifecycle: fxtest.NewLifecycle(t), Logger: zap.NewNop().Sugar(), FS: fsMock})
		assert.ErrorContains(t, err, "$HOME is not defined")
	})
}

func TestSaveAndLoad(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "nested", "auth.yaml")
	r, _ := newTestRepository(t, path)

	record, err := r.Load(ctx)
	require.NoError(t, err)
	assert.True(t, record.IsEmpty(), "missing file is an empty record")

	stored := model.AuthRecord{
		LoginType:   "IAM_IDENTITY_CENTER",
		LoginParams: `{"startUrl":"https://example.awsapps.com/start","region":"us-west-2"}`,
		SsoTokenID:  "token-1",
	}
	require.NoError(t, r.Save(ctx, stored))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	record, err = r.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, stored, record)

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	var names []string
	for _, e := range entries {
		names = append(names, e.Name())
	}
	assert.ElementsMatch(t, []string{"auth.yaml", "auth.yaml.lock"}, names, "no temp files are left behind")

	require.NoError(t, r.Save(ctx, model.AuthRecord{}))
	_, err = os.Stat(path)
	assert.True(t, os.IsNotExist(err), "an empty record clears every key")
	require.NoError(t, r.Save(ctx, model.AuthRecord{}), "clearing twice is fine")
}

func TestLoadCorrupt(t *testing.T) {
	path := filepath.Join(t.TempDir(), "auth.yaml")
	require.NoError(t, os.WriteFile(path, []byte("loginType: [unterminated"), 0o600))
	r, _ := newTestRepository(t, path)

	_, err := r.Load(context.Background())
	assert.ErrorContains(t, err, "parsing")
}

func TestLockHeldByAnotherProcess(t *testing.T) {
	path := filepath.Join(t.TempDir(), "auth.yaml")
	r, _ := newTestRepository(t, path)

	other := flock.New(path + ".lock")
	locked, err := other.TryLock()
	require.NoError(t, err)
	require.True(t, locked)
	defer other.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	err = r.Save(ctx, model.AuthRecord{LoginType: "BUILDER_ID"})
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestWatch(t *testing.T) {
	path := filepath.Join(t.TempDir(), "auth.yaml")
	r, lc := newTestRepository(t, path)
	lc.RequireStart()

	changes := make(chan struct{}, 10)
	require.NoError(t, r.Watch(func() { changes <- struct{}{} }))
	assert.Error(t, r.Watch(func() {}), "a store is watched once")

	// Unrelated files in the directory are ignored.
	require.NoError(t, os.WriteFile(filepath.Join(filepath.Dir(path), "other.yaml"), []byte("a: b"), 0o600))

	writer, _ := newTestRepository(t, path)
	require.NoError(t, writer.Save(context.Background(), model.AuthRecord{LoginType: "BUILDER_ID", LoginParams: "{}"}))

	select {
	case <-changes:
	case <-time.After(5 * time.Second):
		t.Fatal("no change reported for the store file")
	}

	lc.RequireStop()
	assert.Nil(t, r.watcher)
}
