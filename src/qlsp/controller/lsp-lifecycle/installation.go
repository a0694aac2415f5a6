package lsplifecycle

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/Masterminds/semver"
	"github.com/gofrs/flock"
	"github.com/uber/qchat-lsp/src/qlsp/controller/artifact"
	"github.com/uber/qchat-lsp/src/qlsp/entity"
	"github.com/uber/qchat-lsp/src/qlsp/internal/errors"
	"github.com/uber/qchat-lsp/src/qlsp/mapper"
	"go.uber.org/multierr"
	"go.uber.org/zap"
)

const (
	_installKey    = "install"
	_executableMod = 0o755
)

func (c *controller) GetInstallation(ctx context.Context) (*entity.LspInstallResult, error) {
	if install := c.install.Load(); install != nil {
		return install, nil
	}

	v, err, _ := c.group.Do(_installKey, func() (interface{}, error) {
		if install := c.install.Load(); install != nil {
			return install, nil
		}
		// Every waiter shares this resolution, so one caller cancelling must not fail the others.
		install, err := c.resolve(context.WithoutCancel(ctx))
		if err != nil {
			return nil, err
		}
		c.install.Store(install)
		c.afterInstall(install)
		return install, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*entity.LspInstallResult), nil
}

func (c *controller) resolve(ctx context.Context) (*entity.LspInstallResult, error) {
	if c.platformErr != nil {
		return nil, c.platformErr
	}

	install, err := c.artifacts.Resolve(ctx, c.request)
	if err != nil {
		if !errors.IsManifestFetch(err) {
			return nil, err
		}
		c.logger.Warnw("manifest unavailable, looking for a cached installation", zap.Error(err))
		return c.cachedFallback(err)
	}

	if err := c.prepare(install); err != nil {
		return nil, err
	}
	return install, nil
}

// cachedFallback returns the newest cached installation in range that passes validation.
func (c *controller) cachedFallback(cause error) (*entity.LspInstallResult, error) {
	candidates, err := c.artifacts.CachedInstalls(c.request)
	if err != nil {
		return nil, multierr.Append(cause, err)
	}
	for _, candidate := range candidates {
		if err := c.prepare(candidate); err != nil {
			c.logger.Infow("skipping cached installation", "version", candidate.Version, zap.Error(err))
			continue
		}
		c.logger.Infow("using cached installation", "version", candidate.Version)
		return candidate, nil
	}
	return nil, cause
}

// prepare makes the executable runnable and validates the installation layout.
func (c *controller) prepare(install *entity.LspInstallResult) error {
	executable := filepath.Join(install.ServerDirectory, install.ServerCommand)
	if c.platform.IsPOSIX() {
		if err := c.fs.Chmod(executable, _executableMod); err != nil {
			return &errors.ValidationError{Field: "serverCommand", Reason: fmt.Sprintf("cannot make %q executable: %v", executable, err)}
		}
	}
	return c.validate(install)
}

func (c *controller) validate(install *entity.LspInstallResult) error {
	if ok, err := c.fs.DirExists(install.ServerDirectory); err != nil || !ok {
		return &errors.ValidationError{Field: "serverDirectory", Reason: fmt.Sprintf("%q does not exist", install.ServerDirectory)}
	}
	if install.ServerCommand != c.platform.ExecutableName() {
		return &errors.ValidationError{Field: "serverCommand", Reason: fmt.Sprintf("%q is not %q", install.ServerCommand, c.platform.ExecutableName())}
	}
	if ok, err := c.fs.FileExists(filepath.Join(install.ServerDirectory, install.ServerCommand)); err != nil || !ok {
		return &errors.ValidationError{Field: "serverCommand", Reason: fmt.Sprintf("%q not found in %q", install.ServerCommand, install.ServerDirectory)}
	}
	if install.Location == entity.LocationOverride {
		return c.validateOverrideEntryPoint(install)
	}
	if install.ServerCommandArgs != c.entryPoint {
		return &errors.ValidationError{Field: "serverCommandArgs", Reason: fmt.Sprintf("%q is not %q", install.ServerCommandArgs, c.entryPoint)}
	}
	return nil
}

// validateOverrideEntryPoint requires the override entry point to be an existing file inside the server directory.
func (c *controller) validateOverrideEntryPoint(install *entity.LspInstallResult) error {
	entry := filepath.Join(install.ServerDirectory, install.ServerCommandArgs)
	if !strings.HasPrefix(entry, filepath.Clean(install.ServerDirectory)+string(filepath.Separator)) {
		return &errors.ValidationError{Field: "serverCommandArgs", Reason: fmt.Sprintf("%q is outside %q", install.ServerCommandArgs, install.ServerDirectory)}
	}
	if ok, err := c.fs.FileExists(entry); err != nil || !ok {
		return &errors.ValidationError{Field: "serverCommandArgs", Reason: fmt.Sprintf("%q not found in %q", install.ServerCommandArgs, install.ServerDirectory)}
	}
	return nil
}

func (c *controller) afterInstall(install *entity.LspInstallResult) {
	c.logger.Infow("language server installation resolved",
		"version", install.Version,
		"location", install.Location,
		"serverDirectory", install.ServerDirectory,
	)
	for key, value := range mapper.InstallResultToServerInfo(install) {
		if err := c.serverInfoFile.UpdateField(key, value); err != nil {
			c.logger.Warnw("updating server info file", "key", key, zap.Error(err))
		}
	}

	if install.Location == entity.LocationOverride {
		return
	}
	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		if err := c.cleanup(install.Version); err != nil {
			c.logger.Warnw("removing old language server versions", zap.Error(err))
		}
	}()
}

// cleanup removes every version directory other than keep. Errors are aggregated.
func (c *controller) cleanup(keep string) error {
	root := c.request.DestinationDir
	lock := flock.New(filepath.Join(root, artifact.LockFileName))
	locked, err := lock.TryLock()
	if err != nil {
		return fmt.Errorf("locking %q: %w", root, err)
	}
	if !locked {
		// Another process is installing; it cleans up after itself.
		return nil
	}
	defer lock.Unlock()

	entries, err := c.fs.ReadDir(root)
	if err != nil {
		return fmt.Errorf("listing %q: %w", root, err)
	}

	var errs error
	for _, e := range entries {
		if !e.IsDir() || e.Name() == keep {
			continue
		}
		if _, err := semver.NewVersion(e.Name()); err != nil {
			continue
		}
		path := filepath.Join(root, e.Name())
		if err := c.fs.RemoveAll(path); err != nil {
			errs = multierr.Append(errs, fmt.Errorf("removing %q: %w", path, err))
			continue
		}
		c.logger.Infow("removed old language server version", "version", e.Name())
	}
	return errs
}
