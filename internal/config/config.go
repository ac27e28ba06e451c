// Package config loads fcx configuration from .fcx/config.yaml, found by
// walking up from the working directory. Missing config falls back to
// defaults; a present but invalid config is an error.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// ConfigFileName is the name of the fcx configuration file.
const ConfigFileName = "config.yaml"

// ConfigDirName is the name of the fcx configuration directory.
const ConfigDirName = ".fcx"

// Config holds all fcx configuration.
type Config struct {
	DB        DBConfig        `yaml:"db"`
	Discovery DiscoveryConfig `yaml:"discovery"`
	Semantic  SemanticConfig  `yaml:"semantic"`
}

// DBConfig locates the graph database the parser writes.
type DBConfig struct {
	Driver string `yaml:"driver"` // sqlite or dolt
	Path   string `yaml:"path"`   // sqlite file path, or dolt file:// DSN
}

// DiscoveryConfig holds the default limits for discovery runs.
type DiscoveryConfig struct {
	MaxDepth      int     `yaml:"max_depth"`
	MaxSymbols    int     `yaml:"max_symbols"`
	MaxIterations int     `yaml:"max_iterations"`
	MinRelevance  float64 `yaml:"min_relevance"`
}

// SemanticConfig controls the optional embedding-based post-filter.
type SemanticConfig struct {
	Enabled   bool    `yaml:"enabled"`
	Model     string  `yaml:"model"`
	Threshold float64 `yaml:"threshold"`
}

// ErrConfigNotFound is returned when no config file can be found.
var ErrConfigNotFound = errors.New("config file not found")

// ErrInvalidConfig is returned when config validation fails.
var ErrInvalidConfig = errors.New("invalid configuration")

// Load reads config from .fcx/config.yaml, falling back to defaults. The
// config directory is searched from workDir up the directory tree.
func Load(workDir string) (*Config, error) {
	configDir, err := FindConfigDir(workDir)
	if err != nil {
		return DefaultConfig(), nil
	}
	return LoadFromPath(filepath.Join(configDir, ConfigFileName))
}

// LoadFromPath reads config from a specific path, merging with defaults and
// validating the result.
func LoadFromPath(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultConfig(), nil
		}
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	loaded := &Config{}
	if err := yaml.Unmarshal(data, loaded); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	merged := Merge(loaded, DefaultConfig())
	if err := Validate(merged); err != nil {
		return nil, err
	}
	return merged, nil
}

// FindConfigDir locates the .fcx directory by walking up from startDir.
func FindConfigDir(startDir string) (string, error) {
	absDir, err := filepath.Abs(startDir)
	if err != nil {
		return "", fmt.Errorf("resolving path: %w", err)
	}

	currentDir := absDir
	for {
		configDir := filepath.Join(currentDir, ConfigDirName)
		info, err := os.Stat(configDir)
		if err == nil && info.IsDir() {
			return configDir, nil
		}

		parentDir := filepath.Dir(currentDir)
		if parentDir == currentDir {
			return "", ErrConfigNotFound
		}
		currentDir = parentDir
	}
}

// Merge fills zero values in cfg with values from defaults.
func Merge(cfg, defaults *Config) *Config {
	merged := *cfg

	if merged.DB.Driver == "" {
		merged.DB.Driver = defaults.DB.Driver
	}
	if merged.DB.Path == "" {
		merged.DB.Path = defaults.DB.Path
	}
	if merged.Discovery.MaxDepth == 0 {
		merged.Discovery.MaxDepth = defaults.Discovery.MaxDepth
	}
	if merged.Discovery.MaxSymbols == 0 {
		merged.Discovery.MaxSymbols = defaults.Discovery.MaxSymbols
	}
	if merged.Discovery.MaxIterations == 0 {
		merged.Discovery.MaxIterations = defaults.Discovery.MaxIterations
	}
	if merged.Semantic.Model == "" {
		merged.Semantic.Model = defaults.Semantic.Model
	}
	if merged.Semantic.Threshold == 0 {
		merged.Semantic.Threshold = defaults.Semantic.Threshold
	}

	return &merged
}

// Validate checks the merged configuration for unusable values.
func Validate(cfg *Config) error {
	switch cfg.DB.Driver {
	case "sqlite", "dolt":
	default:
		return fmt.Errorf("%w: db.driver must be sqlite or dolt, got %q", ErrInvalidConfig, cfg.DB.Driver)
	}
	if cfg.Discovery.MaxDepth < 0 {
		return fmt.Errorf("%w: discovery.max_depth must not be negative", ErrInvalidConfig)
	}
	if cfg.Discovery.MaxSymbols < 0 {
		return fmt.Errorf("%w: discovery.max_symbols must not be negative", ErrInvalidConfig)
	}
	if cfg.Semantic.Threshold < 0 || cfg.Semantic.Threshold > 1 {
		return fmt.Errorf("%w: semantic.threshold must be in [0,1]", ErrInvalidConfig)
	}
	return nil
}
