// Package config provides configuration management for hookscope.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
	"github.com/xvierd/hookscope/internal/logging"
)

// EnvPrefix prefixes environment overrides, e.g. HOOKSCOPE_GIT_TIMEOUT.
const EnvPrefix = "HOOKSCOPE"

const defaultDataDir = "~/.hookscope"

// Config holds all configuration for hookscope.
type Config struct {
	Git     GitConfig     `mapstructure:"git"`
	Hooks   HooksConfig   `mapstructure:"hooks"`
	Log     LogConfig     `mapstructure:"log"`
	Storage StorageConfig `mapstructure:"storage"`
	// Patterns maps pattern names to regular expressions with named groups.
	// Names are case-insensitive.
	Patterns       map[string]string `mapstructure:"patterns"`
	DefaultPattern string            `mapstructure:"default_pattern"`
}

// GitConfig holds settings for git plumbing queries.
type GitConfig struct {
	Binary  string        `mapstructure:"binary"`
	Timeout time.Duration `mapstructure:"timeout"`
}

// HooksConfig holds settings for running hook tools.
type HooksConfig struct {
	Timeout time.Duration `mapstructure:"timeout"`
	Stream  string        `mapstructure:"stream"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// StorageConfig holds storage settings.
type StorageConfig struct {
	DataDir string `mapstructure:"data_dir"`
	// Audit records every hook outcome in the database.
	Audit bool `mapstructure:"audit"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Git: GitConfig{
			Binary:  "git",
			Timeout: 30 * time.Second,
		},
		Hooks: HooksConfig{
			Timeout: 5 * time.Minute,
			Stream:  "combined",
		},
		Log: LogConfig{
			Level:  "warn",
			Format: "text",
		},
		Storage: StorageConfig{
			DataDir: defaultDataDir,
			Audit:   true,
		},
		Patterns:       map[string]string{},
		DefaultPattern: "xmllint",
	}
}

// Load loads the configuration from path, or from the default location when
// path is empty. A missing file is created with the defaults.
func Load(path string) (*Config, error) {
	if path == "" {
		var err error
		path, err = GetConfigPath()
		if err != nil {
			return nil, fmt.Errorf("failed to get config path: %w", err)
		}
	}

	// If config file doesn't exist, create it with defaults
	if _, err := os.Stat(path); os.IsNotExist(err) {
		if err := Save(DefaultConfig(), path); err != nil {
			return nil, fmt.Errorf("failed to create default config: %w", err)
		}
	}

	v := newViper()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if cfg.Patterns == nil {
		cfg.Patterns = map[string]string{}
	}

	dataDir, err := expandHome(cfg.Storage.DataDir)
	if err != nil {
		return nil, err
	}
	cfg.Storage.DataDir = dataDir

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return &cfg, nil
}

// Save saves the configuration to path.
func Save(cfg *Config, path string) error {
	// Ensure config directory exists
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	v := viper.New()
	v.SetConfigType("toml")

	v.Set("git.binary", cfg.Git.Binary)
	v.Set("git.timeout", cfg.Git.Timeout.String())
	v.Set("hooks.timeout", cfg.Hooks.Timeout.String())
	v.Set("hooks.stream", cfg.Hooks.Stream)
	v.Set("log.level", cfg.Log.Level)
	v.Set("log.format", cfg.Log.Format)
	v.Set("storage.data_dir", cfg.Storage.DataDir)
	v.Set("storage.audit", cfg.Storage.Audit)
	v.Set("patterns", cfg.Patterns)
	v.Set("default_pattern", cfg.DefaultPattern)

	return v.WriteConfigAs(path)
}

// Validate checks values that would otherwise fail late.
func (c *Config) Validate() error {
	if _, err := logging.ParseLevel(c.Log.Level); err != nil {
		return err
	}
	switch c.Log.Format {
	case "text", "json":
	default:
		return fmt.Errorf("unknown log format %q", c.Log.Format)
	}
	if c.Git.Timeout < 0 || c.Hooks.Timeout < 0 {
		return fmt.Errorf("timeouts cannot be negative")
	}
	return nil
}

// GetConfigPath returns the path to the config file.
func GetConfigPath() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(homeDir, ".hookscope", "config.toml"), nil
}

// GetDBPath returns the path to the database file.
func GetDBPath(cfg *Config) string {
	return filepath.Join(cfg.Storage.DataDir, "hookscope.db")
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetConfigType("toml")
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v)
	return v
}

// setDefaults sets default values for viper.
func setDefaults(v *viper.Viper) {
	defaults := DefaultConfig()
	v.SetDefault("git.binary", defaults.Git.Binary)
	v.SetDefault("git.timeout", defaults.Git.Timeout.String())
	v.SetDefault("hooks.timeout", defaults.Hooks.Timeout.String())
	v.SetDefault("hooks.stream", defaults.Hooks.Stream)
	v.SetDefault("log.level", defaults.Log.Level)
	v.SetDefault("log.format", defaults.Log.Format)
	v.SetDefault("storage.data_dir", defaults.Storage.DataDir)
	v.SetDefault("storage.audit", defaults.Storage.Audit)
	v.SetDefault("default_pattern", defaults.DefaultPattern)
}

func expandHome(dir string) (string, error) {
	if dir == "" {
		dir = defaultDataDir
	}
	if dir != "~" && !strings.HasPrefix(dir, "~/") {
		return dir, nil
	}
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(homeDir, strings.TrimPrefix(dir, "~")), nil
}
