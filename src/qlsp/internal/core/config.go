package core

import (
	"fmt"
	"os"
	"path/filepath"

	uber_config "go.uber.org/config"
	"go.uber.org/fx"
)

const (
	// ConfigDirEnv overrides the directory holding meta.yaml and the files it lists.
	ConfigDirEnv = "QLSP_CONFIG_DIR"

	_defaultConfigDir = "src/qlsp/config"
	_metaFile         = "meta.yaml"
)

// ConfigModule provides the merged YAML configuration.
var ConfigModule = fx.Options(
	fx.Provide(NewConfig),
)

// Config wraps the merged provider so that it can be named in logs.
type Config struct {
	provider uber_config.Provider
}

// Get returns the value at the given dotted path.
func (c Config) Get(path string) uber_config.Value {
	return c.provider.Get(path)
}

// Name implements uber_config.Provider.
func (c Config) Name() string {
	return "config"
}

// NewConfig reads meta.yaml from the configuration directory and merges every listed file that
// exists, in order, expanding ${VAR:default} references from the environment.
func NewConfig() (uber_config.Provider, error) {
	configDir := getConfigDir()

	metaProvider, err := uber_config.NewYAML(
		uber_config.File(filepath.Join(configDir, _metaFile)),
		uber_config.Expand(os.LookupEnv),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load meta configuration: %w", err)
	}

	var configFiles []string
	if err := metaProvider.Get("files").Populate(&configFiles); err != nil {
		return nil, fmt.Errorf("failed to read files list from %s: %w", _metaFile, err)
	}

	var options []uber_config.YAMLOption
	for _, file := range configFiles {
		fullPath := filepath.Join(configDir, file)
		if _, err := os.Stat(fullPath); err == nil {
			options = append(options, uber_config.File(fullPath))
		}
	}

	if len(options) == 0 {
		return nil, fmt.Errorf("no configuration files found in %s", configDir)
	}
	options = append(options, uber_config.Expand(os.LookupEnv))

	provider, err := uber_config.NewYAML(options...)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	return Config{provider: provider}, nil
}

func getConfigDir() string {
	if configDir := os.Getenv(ConfigDirEnv); configDir != "" {
		return configDir
	}

	// Relative to the workspace root, where the binary is expected to be started from.
	return _defaultConfigDir
}
