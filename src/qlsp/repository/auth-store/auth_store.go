// Package authstore persists the authentication keys shared by every daemon of the user.
package authstore

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/gofrs/flock"
	"github.com/uber/qchat-lsp/src/qlsp/internal/fs"
	"github.com/uber/qchat-lsp/src/qlsp/model"
	"go.uber.org/config"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

const (
	_nameKey    = "auth-store"
	_configKey  = "auth"
	_dirName    = "qlsp"
	_fileName   = "auth.yaml"
	_lockSuffix = ".lock"
	_retryDelay = 10 * time.Millisecond
	_fileMode   = 0o600
)

// Repository reads and writes the persisted auth keys. Reads and writes hold an inter-process lock.
type Repository interface {
	// Load returns the stored record. A missing file is an empty record.
	Load(ctx context.Context) (model.AuthRecord, error)
	// Save replaces the stored record. An empty record removes the file.
	Save(ctx context.Context, record model.AuthRecord) error
	// Watch calls onChange whenever the store file is created, written or removed, until the application stops.
	Watch(onChange func()) error
	// Path returns the location of the store file.
	Path() string
}

// Params are inbound parameters to initialize a new Repository.
type Params struct {
	fx.In

	Config    config.Provider
	Lifecycle fx.Lifecycle
	Logger    *zap.SugaredLogger
	FS        fs.QlspFS
}

type storeConfig struct {
	StorePath string `yaml:"storePath"`
}

type repository struct {
	logger   *zap.SugaredLogger
	fs       fs.QlspFS
	path     string
	dir      string
	lockPath string

	watchMu sync.Mutex
	watcher *fsnotify.Watcher
	done    chan struct{}
}

// New returns a Repository backed by a YAML file.
func New(p Params) (Repository, error) {
	cfg := storeConfig{}
	if err := p.Config.Get(_configKey).Populate(&cfg); err != nil {
		return nil, fmt.Errorf("getting configuration for %q: %w", _configKey, err)
	}

	path := cfg.StorePath
	if path == "" {
		configDir, err := p.FS.UserConfigDir()
		if err != nil {
			return nil, fmt.Errorf("locating user config directory: %w", err)
		}
		path = filepath.Join(configDir, _dirName, _fileName)
	}
	path = filepath.Clean(path)

	r := &repository{
		logger:   p.Logger.With("plugin", _nameKey),
		fs:       p.FS,
		path:     path,
		dir:      filepath.Dir(path),
		lockPath: path + _lockSuffix,
	}
	p.Lifecycle.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			return r.stopWatch()
		},
	})
	return r, nil
}

func (r *repository) Path() string {
	return r.path
}

func (r *repository) Load(ctx context.Context) (model.AuthRecord, error) {
	lock, err := r.lock(ctx, false)
	if err != nil {
		return model.AuthRecord{}, err
	}
	defer lock.Unlock()

	data, err := r.fs.ReadFile(r.path)
	if err != nil {
		if os.IsNotExist(err) {
			return model.AuthRecord{}, nil
		}
		return model.AuthRecord{}, fmt.Errorf("reading %q: %w", r.path, err)
	}

	record := model.AuthRecord{}
	if err := yaml.Unmarshal(data, &record); err != nil {
		return model.AuthRecord{}, fmt.Errorf("parsing %q: %w", r.path, err)
	}
	return record, nil
}

func (r *repository) Save(ctx context.Context, record model.AuthRecord) error {
	lock, err := r.lock(ctx, true)
	if err != nil {
		return err
	}
	defer lock.Unlock()

	if record.IsEmpty() {
		if err := r.fs.Remove(r.path); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("clearing %q: %w", r.path, err)
		}
		return nil
	}

	data, err := yaml.Marshal(record)
	if err != nil {
		return fmt.Errorf("encoding auth record: %w", err)
	}
	return r.writeAtomic(data)
}

// writeAtomic replaces the store file so readers never see a partial record.
func (r *repository) writeAtomic(data []byte) error {
	tmp, err := r.fs.TempFile(r.dir, _fileName+".*")
	if err != nil {
		return fmt.Errorf("creating temp file in %q: %w", r.dir, err)
	}
	defer r.fs.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("writing %q: %w", tmp.Name(), err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("closing %q: %w", tmp.Name(), err)
	}
	if err := r.fs.Chmod(tmp.Name(), _fileMode); err != nil {
		return fmt.Errorf("restricting %q: %w", tmp.Name(), err)
	}
	if err := r.fs.Rename(tmp.Name(), r.path); err != nil {
		return fmt.Errorf("replacing %q: %w", r.path, err)
	}
	return nil
}

func (r *repository) lock(ctx context.Context, exclusive bool) (*flock.Flock, error) {
	if err := r.fs.MkdirAll(r.dir); err != nil {
		return nil, fmt.Errorf("creating %q: %w", r.dir, err)
	}

	lock := flock.New(r.lockPath)
	try := lock.TryRLockContext
	if exclusive {
		try = lock.TryLockContext
	}
	locked, err := try(ctx, _retryDelay)
	if err != nil {
		return nil, fmt.Errorf("locking %q: %w", r.lockPath, err)
	}
	if !locked {
		return nil, fmt.Errorf("locking %q: lock not acquired", r.lockPath)
	}
	return lock, nil
}

func (r *repository) Watch(onChange func()) error {
	r.watchMu.Lock()
	defer r.watchMu.Unlock()

	if r.watcher != nil {
		return fmt.Errorf("auth store %q is already watched", r.path)
	}
	if err := r.fs.MkdirAll(r.dir); err != nil {
		return fmt.Errorf("creating %q: %w", r.dir, err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create fs watcher for auth store: %w", err)
	}
	// The directory is watched since the file is replaced on every write.
	if err := watcher.Add(r.dir); err != nil {
		watcher.Close()
		return fmt.Errorf("watching %q: %w", r.dir, err)
	}

	r.watcher = watcher
	r.done = make(chan struct{})
	go r.handleChanges(watcher, r.done, onChange)
	return nil
}

func (r *repository) handleChanges(watcher *fsnotify.Watcher, done chan struct{}, onChange func()) {
	defer close(done)
	for {
		select {
		case event, ok := <-watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != r.path {
				continue
			}
			if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) && !event.Has(fsnotify.Remove) && !event.Has(fsnotify.Rename) {
				continue
			}
			onChange()
		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			r.logger.Warnf("Failure in auth store watcher: %v", err)
		}
	}
}

func (r *repository) stopWatch() error {
	r.watchMu.Lock()
	defer r.watchMu.Unlock()

	if r.watcher == nil {
		return nil
	}
	err := r.watcher.Close()
	<-r.done
	r.watcher = nil
	if err != nil {
		return fmt.Errorf("failed to close auth store watcher: %w", err)
	}
	return nil
}
