package artifact

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/Masterminds/semver"
	"github.com/gofrs/flock"
	tally "github.com/uber-go/tally/v4"
	"github.com/uber/qchat-lsp/src/qlsp/entity"
	manifestclient "github.com/uber/qchat-lsp/src/qlsp/gateway/manifest-client"
	"github.com/uber/qchat-lsp/src/qlsp/internal/errors"
	"github.com/uber/qchat-lsp/src/qlsp/internal/fs"
	"github.com/uber/qchat-lsp/src/qlsp/internal/platform"
	"go.uber.org/config"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

const (
	_nameKey          = "artifact"
	_artifactCfgKey   = "artifact"
	_serverCfgKey     = "server"
	_lockRetryDelay   = 100 * time.Millisecond
	_overrideVersion  = "override"
	_defaultServerDir = "servers"
	_defaultClientDir = "clients"
	_defaultEntry     = "aws-lsp-codewhisperer.js"
)

// LockFileName is the inter-process lock taken in the destination root while it is modified.
const LockFileName = ".qlsp.lock"

// Environment variables that point the daemon at a local server build.
const (
	EnvServerDirectory        = "Q_SERVER_DIRECTORY"
	EnvClientDirectory        = "Q_CLIENT_DIRECTORY"
	EnvServerCommand          = "Q_SERVER_COMMAND"
	EnvServerCommandArguments = "Q_SERVER_COMMAND_ARGUMENTS"
)

// Request describes the installation to resolve.
type Request struct {
	Platform     string
	Architecture string
	VersionRange string
	// DestinationDir holds one subdirectory per installed version.
	DestinationDir string
}

// Controller resolves a usable language server installation.
type Controller interface {
	// Resolve returns an override, cached or freshly downloaded installation for req.
	Resolve(ctx context.Context, req Request) (*entity.LspInstallResult, error)
	// CachedInstalls lists installations already present under req.DestinationDir that satisfy the
	// version range, newest first. Nothing is verified or downloaded.
	CachedInstalls(req Request) ([]*entity.LspInstallResult, error)
}

// Params are inbound parameters to initialize a new Controller.
type Params struct {
	fx.In

	Config    config.Provider
	Logger    *zap.SugaredLogger
	Stats     tally.Scope
	FS        fs.QlspFS
	Manifests manifestclient.Gateway
}

// Config is the artifact block of the configuration.
type Config struct {
	ManifestURL        string `yaml:"manifestUrl"`
	SupportedVersions  string `yaml:"supportedVersions"`
	WorkingDirectory   string `yaml:"workingDirectory"`
	ServerSubdirectory string `yaml:"serverSubdirectory"`
	ClientSubdirectory string `yaml:"clientSubdirectory"`
}

type serverConfig struct {
	EntryPoint string `yaml:"entryPoint"`
}

type controller struct {
	cfg        Config
	entryPoint string
	logger     *zap.SugaredLogger
	stats      tally.Scope
	fs         fs.QlspFS
	manifests  manifestclient.Gateway
	getenv     func(string) string
}

// New creates a new artifact resolver.
func New(p Params) (Controller, error) {
	cfg := Config{}
	if err := p.Config.Get(_artifactCfgKey).Populate(&cfg); err != nil {
		return nil, fmt.Errorf("getting configuration for %q: %w", _artifactCfgKey, err)
	}
	if cfg.ServerSubdirectory == "" {
		cfg.ServerSubdirectory = _defaultServerDir
	}
	if cfg.ClientSubdirectory == "" {
		cfg.ClientSubdirectory = _defaultClientDir
	}

	serverCfg := serverConfig{}
	if err := p.Config.Get(_serverCfgKey).Populate(&serverCfg); err != nil {
		return nil, fmt.Errorf("getting configuration for %q: %w", _serverCfgKey, err)
	}
	if serverCfg.EntryPoint == "" {
		serverCfg.EntryPoint = _defaultEntry
	}

	return &controller{
		cfg:        cfg,
		entryPoint: serverCfg.EntryPoint,
		logger:     p.Logger.With("plugin", _nameKey),
		stats:      p.Stats.SubScope(_nameKey),
		fs:         p.FS,
		manifests:  p.Manifests,
		getenv:     os.Getenv,
	}, nil
}

func (c *controller) Resolve(ctx context.Context, req Request) (*entity.LspInstallResult, error) {
	info := platform.Info{Platform: req.Platform, Architecture: req.Architecture}

	if result, ok := c.resolveOverride(info); ok {
		c.stats.Tagged(map[string]string{"location": string(entity.LocationOverride)}).Counter("install").Inc(1)
		return result, nil
	}

	c.stats.Counter("manifest_fetch").Inc(1)
	manifest, err := c.manifests.FetchManifest(ctx, c.cfg.ManifestURL)
	if err != nil {
		c.stats.Counter("manifest_fetch_failure").Inc(1)
		return nil, err
	}

	version, target, err := selectVersion(manifest, req)
	if err != nil {
		return nil, err
	}
	c.logger.Infow("selected language server version", "version", version, "platform", info.String())

	dest := filepath.Join(req.DestinationDir, version)
	downloaded, err := c.install(ctx, req.DestinationDir, dest, target)
	if err != nil {
		return nil, err
	}

	location := entity.LocationCache
	if downloaded {
		location = entity.LocationRemote
	}
	c.stats.Tagged(map[string]string{"location": string(location)}).Counter("install").Inc(1)

	return c.resultFor(info, version, dest, location), nil
}

func (c *controller) resultFor(info platform.Info, version, dest string, location entity.LocationKind) *entity.LspInstallResult {
	return &entity.LspInstallResult{
		Location:          location,
		Version:           version,
		ServerDirectory:   filepath.Join(dest, c.cfg.ServerSubdirectory),
		ClientDirectory:   filepath.Join(dest, c.cfg.ClientSubdirectory),
		ServerCommand:     info.ExecutableName(),
		ServerCommandArgs: c.entryPoint,
	}
}

// resolveOverride returns an OVERRIDE installation when all four environment variables describe a usable build.
func (c *controller) resolveOverride(info platform.Info) (*entity.LspInstallResult, bool) {
	serverDir := c.getenv(EnvServerDirectory)
	clientDir := c.getenv(EnvClientDirectory)
	command := c.getenv(EnvServerCommand)
	args := c.getenv(EnvServerCommandArguments)

	if serverDir == "" && clientDir == "" && command == "" && args == "" {
		return nil, false
	}

	reject := func(reason string) (*entity.LspInstallResult, bool) {
		c.logger.Warnw("ignoring language server override", "reason", reason)
		return nil, false
	}

	if serverDir == "" || clientDir == "" || command == "" || args == "" {
		return reject("all of " + EnvServerDirectory + ", " + EnvClientDirectory + ", " + EnvServerCommand + " and " + EnvServerCommandArguments + " must be set")
	}
	if command != info.ExecutableName() {
		return reject(fmt.Sprintf("command %q is not %q", command, info.ExecutableName()))
	}
	if ok, err := c.fs.DirExists(serverDir); err != nil || !ok {
		return reject(fmt.Sprintf("server directory %q does not exist", serverDir))
	}
	if ok, err := c.fs.DirExists(clientDir); err != nil || !ok {
		return reject(fmt.Sprintf("client directory %q does not exist", clientDir))
	}
	if ok, err := c.fs.FileExists(filepath.Join(serverDir, command)); err != nil || !ok {
		return reject(fmt.Sprintf("command %q not found in %q", command, serverDir))
	}
	if ok, err := c.fs.FileExists(filepath.Join(serverDir, args)); err != nil || !ok {
		return reject(fmt.Sprintf("entry point %q not found in %q", args, serverDir))
	}

	return &entity.LspInstallResult{
		Location:          entity.LocationOverride,
		Version:           _overrideVersion,
		ServerDirectory:   serverDir,
		ClientDirectory:   clientDir,
		ServerCommand:     command,
		ServerCommandArgs: args,
	}, true
}

// selectVersion returns the first version in manifest order that is listed, has a matching target and satisfies the range.
func selectVersion(manifest *entity.Manifest, req Request) (string, entity.Target, error) {
	constraint, err := parseRange(req.VersionRange)
	if err != nil {
		return "", entity.Target{}, err
	}

	for _, v := range manifest.Versions {
		if v.IsDelisted {
			continue
		}
		target, ok := v.TargetFor(req.Platform, req.Architecture)
		if !ok {
			continue
		}
		parsed, err := semver.NewVersion(v.ServerVersion)
		if err != nil || !constraint.Check(parsed) {
			continue
		}
		return v.ServerVersion, target, nil
	}

	return "", entity.Target{}, &errors.NoCompatibleVersionError{
		Platform:     req.Platform,
		Architecture: req.Architecture,
		VersionRange: req.VersionRange,
	}
}

// install makes every content of target present and verified under dest. It reports whether anything was downloaded.
func (c *controller) install(ctx context.Context, root, dest string, target entity.Target) (downloaded bool, err error) {
	if err := c.fs.MkdirAll(dest); err != nil {
		return false, fmt.Errorf("creating %q: %w", dest, err)
	}

	lock := flock.New(filepath.Join(root, LockFileName))
	locked, err := lock.TryLockContext(ctx, _lockRetryDelay)
	if err != nil {
		return false, fmt.Errorf("locking %q: %w", root, err)
	}
	if !locked {
		return false, fmt.Errorf("locking %q: lock is held by another process", root)
	}
	defer lock.Unlock()

	for _, content := range target.Contents {
		fetched, err := c.ensureContent(ctx, dest, content)
		if err != nil {
			return false, err
		}
		downloaded = downloaded || fetched

		if !content.IsZip() {
			continue
		}
		extractDir := filepath.Join(dest, content.ExtractDirName())
		exists, err := c.fs.DirExists(extractDir)
		if err != nil {
			return false, err
		}
		if fetched || !exists {
			if err := c.extract(filepath.Join(dest, content.Filename), extractDir); err != nil {
				return false, err
			}
		}
	}
	return downloaded, nil
}

// ensureContent downloads content unless a file with a matching hash is already in place.
func (c *controller) ensureContent(ctx context.Context, dest string, content entity.Content) (downloaded bool, err error) {
	path := filepath.Join(dest, content.Filename)

	if ok, err := c.fs.FileExists(path); err == nil && ok {
		if err := c.verifyFile(path, content); err == nil {
			c.logger.Debugw("using cached artifact", "file", path)
			c.stats.Counter("cache_hit").Inc(1)
			return false, nil
		}
		c.logger.Infow("cached artifact does not match its hashes, downloading again", "file", path)
	}

	tmp, err := c.fs.TempFile(dest, ".download-*")
	if err != nil {
		return false, fmt.Errorf("creating temp file in %q: %w", dest, err)
	}
	tmpPath := tmp.Name()
	defer c.fs.Remove(tmpPath)

	hasher, err := newMultiHasher(content.Hashes)
	if err != nil {
		tmp.Close()
		return false, err
	}

	c.stats.Counter("download").Inc(1)
	_, copyErr := c.manifests.Download(ctx, content.URL, io.MultiWriter(tmp, hasher))
	closeErr := tmp.Close()
	if copyErr != nil {
		return false, copyErr
	}
	if closeErr != nil {
		return false, fmt.Errorf("closing %q: %w", tmpPath, closeErr)
	}

	if actual, ok := hasher.matches(content.Hashes); !ok {
		c.stats.Counter("integrity_failure").Inc(1)
		return false, &errors.IntegrityError{File: content.Filename, Expected: content.Hashes, Actual: actual}
	}

	if err := c.fs.Rename(tmpPath, path); err != nil {
		return false, fmt.Errorf("moving %q into place: %w", content.Filename, err)
	}
	return true, nil
}

func (c *controller) verifyFile(path string, content entity.Content) error {
	f, err := c.fs.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	hasher, err := newMultiHasher(content.Hashes)
	if err != nil {
		return err
	}
	if _, err := io.Copy(hasher, f); err != nil {
		return err
	}
	if actual, ok := hasher.matches(content.Hashes); !ok {
		return &errors.IntegrityError{File: content.Filename, Expected: content.Hashes, Actual: actual}
	}
	return nil
}

func (c *controller) CachedInstalls(req Request) ([]*entity.LspInstallResult, error) {
	constraint, err := parseRange(req.VersionRange)
	if err != nil {
		return nil, err
	}

	entries, err := c.fs.ReadDir(req.DestinationDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("listing %q: %w", req.DestinationDir, err)
	}

	var versions []*semver.Version
	names := make(map[*semver.Version]string)
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		v, err := semver.NewVersion(e.Name())
		if err != nil || !constraint.Check(v) {
			continue
		}
		versions = append(versions, v)
		names[v] = e.Name()
	}
	sort.Sort(sort.Reverse(semver.Collection(versions)))

	info := platform.Info{Platform: req.Platform, Architecture: req.Architecture}
	results := make([]*entity.LspInstallResult, 0, len(versions))
	for _, v := range versions {
		name := names[v]
		results = append(results, c.resultFor(info, name, filepath.Join(req.DestinationDir, name), entity.LocationCache))
	}
	return results, nil
}
