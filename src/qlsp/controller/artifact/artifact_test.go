package artifact

import (
	"bytes"
	"context"
	"crypto/sha512"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"

	"github.com/klauspost/compress/zip"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	tally "github.com/uber-go/tally/v4"
	"github.com/uber/qchat-lsp/src/qlsp/entity"
	manifestclient "github.com/uber/qchat-lsp/src/qlsp/gateway/manifest-client"
	"github.com/uber/qchat-lsp/src/qlsp/internal/errors"
	"github.com/uber/qchat-lsp/src/qlsp/internal/fs"
	"go.uber.org/config"
	"go.uber.org/zap"
)

type testServer struct {
	*httptest.Server
	manifest  *entity.Manifest
	files     map[string][]byte
	downloads atomic.Int32
	fail      atomic.Bool
}

func newTestServer(t *testing.T) *testServer {
	ts := &testServer{files: make(map[string][]byte)}
	ts.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/manifest.json" {
			if ts.fail.Load() {
				w.WriteHeader(http.StatusInternalServerError)
				return
			}
			json.NewEncoder(w).Encode(ts.manifest)
			return
		}
		data, ok := ts.files[r.URL.Path]
		if !ok {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		ts.downloads.Add(1)
		w.Write(data)
	}))
	t.Cleanup(ts.Close)
	return ts
}

func zipOf(t *testing.T, files map[string]string) []byte {
	buf := &bytes.Buffer{}
	w := zip.NewWriter(buf)
	for name, content := range files {
		f, err := w.Create(name)
		require.NoError(t, err)
		_, err = f.Write([]byte(content))
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())
	return buf.Bytes()
}

func sha384Of(data []byte) string {
	sum := sha512.Sum384(data)
	return "sha384:" + hex.EncodeToString(sum[:])
}

// addVersion publishes a version with a servers.zip and clients.zip for linux/x64.
func (ts *testServer) addVersion(t *testing.T, version string, delisted bool) {
	servers := zipOf(t, map[string]string{"aws-lsp-codewhisperer.js": "console.log('" + version + "')", "node": "bin"})
	clients := zipOf(t, map[string]string{"amazonq-ui.js": "ui"})
	ts.files["/"+version+"/servers.zip"] = servers
	ts.files["/"+version+"/clients.zip"] = clients

	if ts.manifest == nil {
		ts.manifest = &entity.Manifest{ManifestSchemaVersion: "0.1", ArtifactID: "CodeWhispererLanguageServer"}
	}
	ts.manifest.Versions = append(ts.manifest.Versions, entity.ArtifactVersion{
		ServerVersion: version,
		IsDelisted:    delisted,
		Targets: []entity.Target{
			{
				Platform: "linux",
				Arch:     "x64",
				Contents: []entity.Content{
					{Filename: "servers.zip", URL: ts.URL + "/" + version + "/servers.zip", Hashes: []string{sha384Of(servers)}},
					{Filename: "clients.zip", URL: ts.URL + "/" + version + "/clients.zip", Hashes: []string{"sha256:ffff", sha384Of(clients)}},
				},
			},
		},
	})
}

func newController(t *testing.T, manifestURL string) (*controller, tally.TestScope) {
	cfg, err := config.NewStaticProvider(map[string]interface{}{
		"artifact": map[string]interface{}{
			"manifestUrl": manifestURL,
		},
	})
	require.NoError(t, err)

	logger := zap.NewNop().Sugar()
	manifests, err := manifestclient.New(manifestclient.Params{Config: cfg, Logger: logger})
	require.NoError(t, err)

	scope := tally.NewTestScope("test", nil)
	c, err := New(Params{
		Config:    cfg,
		Logger:    logger,
		Stats:     scope,
		FS:        fs.New(),
		Manifests: manifests,
	})
	require.NoError(t, err)
	return c.(*controller), scope
}

func request(dir string) Request {
	return Request{Platform: "linux", Architecture: "x64", VersionRange: ">=1.0.0 <2.0.0", DestinationDir: dir}
}

func TestResolveDownloadsThenCaches(t *testing.T) {
	ts := newTestServer(t)
	ts.addVersion(t, "1.3.0", false)
	c, _ := newController(t, ts.URL+"/manifest.json")
	dir := t.TempDir()
	ctx := context.Background()

	result, err := c.Resolve(ctx, request(dir))
	require.NoError(t, err)
	assert.Equal(t, &entity.LspInstallResult{
		Location:          entity.LocationRemote,
		Version:           "1.3.0",
		ServerDirectory:   filepath.Join(dir, "1.3.0", "servers"),
		ClientDirectory:   filepath.Join(dir, "1.3.0", "clients"),
		ServerCommand:     "node",
		ServerCommandArgs: "aws-lsp-codewhisperer.js",
	}, result)
	assert.FileExists(t, filepath.Join(dir, "1.3.0", "servers", "aws-lsp-codewhisperer.js"))
	assert.FileExists(t, filepath.Join(dir, "1.3.0", "clients", "amazonq-ui.js"))
	assert.Equal(t, int32(2), ts.downloads.Load())

	again, err := c.Resolve(ctx, request(dir))
	require.NoError(t, err)
	assert.Equal(t, entity.LocationCache, again.Location)
	assert.Equal(t, int32(2), ts.downloads.Load(), "verified files are not downloaded again")

	t.Run("missing extraction is restored", func(t *testing.T) {
		require.NoError(t, os.RemoveAll(filepath.Join(dir, "1.3.0", "clients")))
		result, err := c.Resolve(ctx, request(dir))
		require.NoError(t, err)
		assert.Equal(t, entity.LocationCache, result.Location)
		assert.FileExists(t, filepath.Join(dir, "1.3.0", "clients", "amazonq-ui.js"))
	})

	t.Run("corrupt cache is replaced", func(t *testing.T) {
		require.NoError(t, os.WriteFile(filepath.Join(dir, "1.3.0", "servers.zip"), []byte("tampered"), 0o644))
		result, err := c.Resolve(ctx, request(dir))
		require.NoError(t, err)
		assert.Equal(t, entity.LocationRemote, result.Location)
		assert.Equal(t, int32(3), ts.downloads.Load())
	})
}

func TestResolveSelectsFirstCompatibleVersion(t *testing.T) {
	ts := newTestServer(t)
	ts.addVersion(t, "2.0.0", false)
	ts.addVersion(t, "1.5.0", true)
	ts.addVersion(t, "1.4.0", false)
	ts.addVersion(t, "1.3.0", false)
	c, _ := newController(t, ts.URL+"/manifest.json")

	result, err := c.Resolve(context.Background(), request(t.TempDir()))
	require.NoError(t, err)
	assert.Equal(t, "1.4.0", result.Version)
}

func TestResolveNoCompatibleVersion(t *testing.T) {
	ts := newTestServer(t)
	ts.addVersion(t, "3.0.0", false)
	c, _ := newController(t, ts.URL+"/manifest.json")

	_, err := c.Resolve(context.Background(), request(t.TempDir()))
	var nc *errors.NoCompatibleVersionError
	require.ErrorAs(t, err, &nc)
	assert.Equal(t, "linux", nc.Platform)

	t.Run("other platform", func(t *testing.T) {
		req := request(t.TempDir())
		req.Platform = "darwin"
		_, err := c.Resolve(context.Background(), req)
		assert.ErrorAs(t, err, &nc)
	})
}

func TestResolveIntegrityFailure(t *testing.T) {
	ts := newTestServer(t)
	ts.addVersion(t, "1.3.0", false)
	ts.manifest.Versions[0].Targets[0].Contents[0].Hashes = []string{"sha384:0000"}
	c, scope := newController(t, ts.URL+"/manifest.json")
	dir := t.TempDir()

	_, err := c.Resolve(context.Background(), request(dir))
	var ie *errors.IntegrityError
	require.ErrorAs(t, err, &ie)
	assert.Equal(t, "servers.zip", ie.File)
	assert.NoFileExists(t, filepath.Join(dir, "1.3.0", "servers.zip"))

	entries, err := os.ReadDir(filepath.Join(dir, "1.3.0"))
	require.NoError(t, err)
	assert.Empty(t, entries, "temp files are removed")

	counters := scope.Snapshot().Counters()
	require.Contains(t, counters, "test.artifact.integrity_failure+")
	assert.Equal(t, int64(1), counters["test.artifact.integrity_failure+"].Value())
}

func TestResolveManifestFailure(t *testing.T) {
	ts := newTestServer(t)
	ts.fail.Store(true)
	c, _ := newController(t, ts.URL+"/manifest.json")

	_, err := c.Resolve(context.Background(), request(t.TempDir()))
	assert.True(t, errors.IsManifestFetch(err))
}

func TestResolveDownloadFailure(t *testing.T) {
	ts := newTestServer(t)
	ts.addVersion(t, "1.3.0", false)
	delete(ts.files, "/1.3.0/clients.zip")
	c, _ := newController(t, ts.URL+"/manifest.json")

	_, err := c.Resolve(context.Background(), request(t.TempDir()))
	var de *errors.DownloadError
	require.ErrorAs(t, err, &de)
	assert.Equal(t, http.StatusNotFound, de.StatusCode)
}

func TestResolveOverride(t *testing.T) {
	serverDir := t.TempDir()
	clientDir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(serverDir, "node"), []byte("bin"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(serverDir, "custom.js"), []byte("//"), 0o644))

	c, _ := newController(t, "http://127.0.0.1:1/unreachable.json")
	env := map[string]string{
		EnvServerDirectory:        serverDir,
		EnvClientDirectory:        clientDir,
		EnvServerCommand:          "node",
		EnvServerCommandArguments: "custom.js",
	}
	c.getenv = func(key string) string { return env[key] }

	result, err := c.Resolve(context.Background(), request(t.TempDir()))
	require.NoError(t, err)
	assert.Equal(t, entity.LocationOverride, result.Location)
	assert.Equal(t, serverDir, result.ServerDirectory)
	assert.Equal(t, "custom.js", result.ServerCommandArgs)

	tests := []struct {
		name   string
		modify func(map[string]string)
	}{
		{name: "partial", modify: func(e map[string]string) { delete(e, EnvClientDirectory) }},
		{name: "wrong command", modify: func(e map[string]string) { e[EnvServerCommand] = "python" }},
		{name: "missing server dir", modify: func(e map[string]string) { e[EnvServerDirectory] = filepath.Join(serverDir, "nope") }},
		{name: "missing client dir", modify: func(e map[string]string) { e[EnvClientDirectory] = filepath.Join(clientDir, "nope") }},
		{name: "missing entry point", modify: func(e map[string]string) { e[EnvServerCommandArguments] = "does-not-exist/server.js" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rejected := map[string]string{}
			for k, v := range env {
				rejected[k] = v
			}
			tt.modify(rejected)
			c.getenv = func(key string) string { return rejected[key] }

			_, err := c.Resolve(context.Background(), request(t.TempDir()))
			assert.True(t, errors.IsManifestFetch(err), "a rejected override falls through to the manifest")
		})
	}
}

func TestCachedInstalls(t *testing.T) {
	c, _ := newController(t, "")
	dir := t.TempDir()
	for _, v := range []string{"1.2.0", "1.10.0", "2.1.0", "not-a-version"} {
		require.NoError(t, os.MkdirAll(filepath.Join(dir, v), 0o755))
	}
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".qlsp.lock"), nil, 0o644))

	results, err := c.CachedInstalls(request(dir))
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, "1.10.0", results[0].Version)
	assert.Equal(t, "1.2.0", results[1].Version)
	assert.Equal(t, entity.LocationCache, results[0].Location)

	t.Run("missing directory", func(t *testing.T) {
		results, err := c.CachedInstalls(request(filepath.Join(dir, "absent")))
		assert.NoError(t, err)
		assert.Empty(t, results)
	})
}

func TestExtractRejectsZipSlip(t *testing.T) {
	c, _ := newController(t, "")
	dir := t.TempDir()
	archive := filepath.Join(dir, "evil.zip")
	require.NoError(t, os.WriteFile(archive, zipOf(t, map[string]string{"../escape.txt": "x"}), 0o644))

	err := c.extract(archive, filepath.Join(dir, "evil"))
	assert.ErrorContains(t, err, "escapes")
	assert.NoFileExists(t, filepath.Join(dir, "escape.txt"))
}

func TestMultiHasher(t *testing.T) {
	_, err := newMultiHasher([]string{"md5:abc"})
	assert.Error(t, err)
	_, err = newMultiHasher([]string{"nocolon"})
	assert.Error(t, err)
	_, err = newMultiHasher(nil)
	assert.Error(t, err)

	h, err := newMultiHasher([]string{"SHA384:x"})
	require.NoError(t, err)
	fmt.Fprint(h, "data")
	actual, ok := h.matches([]string{"SHA384:x"})
	assert.False(t, ok)
	assert.Equal(t, sha384Of([]byte("data")), actual)
}
