// Package config loads propsel settings from propsel.yaml and the
// environment.
package config

import (
	"fmt"

	"github.com/spf13/viper"

	"github.com/roach88/propsel/internal/selector"
)

// EnvPrefix prefixes every environment variable override,
// e.g. PROPSEL_FORMAT=json.
const EnvPrefix = "PROPSEL"

// Config holds defaults for CLI flags.
type Config struct {
	// Format is the output format: text or json.
	Format string `mapstructure:"format"`

	// Verbose enables debug logging.
	Verbose bool `mapstructure:"verbose"`

	// DB is the catalog database used by select --db and snapshot.
	DB string `mapstructure:"db"`

	// ModelsDir is the model directory used when a command gets none.
	ModelsDir string `mapstructure:"models_dir"`

	// CacheSize bounds the engine's enumeration cache.
	CacheSize int `mapstructure:"cache_size"`
}

// Load reads the configuration. An explicit path must exist; otherwise
// propsel.yaml is looked up in the working directory and defaults apply
// when it is absent.
func Load(path string) (*Config, error) {
	return load(path, ".")
}

func load(path, searchDir string) (*Config, error) {
	v := viper.New()

	v.SetDefault("format", "text")
	v.SetDefault("verbose", false)
	v.SetDefault("db", "")
	v.SetDefault("models_dir", "")
	v.SetDefault("cache_size", selector.DefaultCacheSize)

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("propsel")
		v.SetConfigType("yaml")
		v.AddConfigPath(searchDir)
	}

	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok || path != "" {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		// Config file not found - use defaults
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := validateConfig(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// validateConfig validates the configuration
func validateConfig(cfg *Config) error {
	if cfg.Format != "text" && cfg.Format != "json" {
		return fmt.Errorf("format must be text or json, got: %s", cfg.Format)
	}
	if cfg.CacheSize < 0 {
		return fmt.Errorf("cache_size must be non-negative, got: %d", cfg.CacheSize)
	}
	return nil
}
