// Package config loads runtime settings for the processform commands from
// defaults, an optional config file and PROCESSFORM_ environment variables.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// EnvPrefix is prepended to every environment override.
const EnvPrefix = "PROCESSFORM"

// Config is the resolved configuration.
type Config struct {
	Addr        string        `mapstructure:"addr"`
	Title       string        `mapstructure:"title"`
	SchemaFile  string        `mapstructure:"schema_file"`
	SlidesFile  string        `mapstructure:"slides_file"`
	LogLevel    string        `mapstructure:"log_level"`
	SessionTTL  time.Duration `mapstructure:"session_ttl"`
	MaxSessions int           `mapstructure:"max_sessions"`
}

// DefaultConfig returns the built-in settings.
func DefaultConfig() Config {
	return Config{
		Addr:        ":8080",
		Title:       "Process details",
		LogLevel:    "info",
		SessionTTL:  30 * time.Minute,
		MaxSessions: 1000,
	}
}

// Level parses LogLevel, falling back to info.
func (c Config) Level() slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.TrimSpace(c.LogLevel))); err != nil {
		return slog.LevelInfo
	}
	return level
}

// MinSessionTTL is the shortest session lifetime Validate accepts.
const MinSessionTTL = time.Second

// Validate reports settings the commands cannot run with.
func (c Config) Validate() error {
	var errs []error
	if c.SessionTTL < MinSessionTTL {
		errs = append(errs, fmt.Errorf("config: session_ttl must be at least %s, got %s", MinSessionTTL, c.SessionTTL))
	}
	if c.MaxSessions < 1 {
		errs = append(errs, fmt.Errorf("config: max_sessions must be at least 1, got %d", c.MaxSessions))
	}
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.TrimSpace(c.LogLevel))); err != nil {
		errs = append(errs, fmt.Errorf("config: log_level: %w", err))
	}
	return errors.Join(errs...)
}

// Manager handles loading and hot-reloading configuration.
type Manager struct {
	mu        sync.RWMutex
	v         *viper.Viper
	config    *Config
	callbacks []func(*Config)
}

// NewManager creates a config manager and loads the initial config. An empty
// cfgFile searches ./processform.yaml and $HOME/.processform; a missing file
// is not an error in that case.
func NewManager(cfgFile string) (*Manager, error) {
	cm := &Manager{
		v:         viper.New(),
		callbacks: make([]func(*Config), 0),
	}

	if err := cm.initViper(cfgFile); err != nil {
		return nil, err
	}

	cfg, err := cm.load()
	if err != nil {
		return nil, err
	}
	cm.config = cfg

	return cm, nil
}

func (cm *Manager) initViper(cfgFile string) error {
	defaults := DefaultConfig()
	cm.v.SetDefault("addr", defaults.Addr)
	cm.v.SetDefault("title", defaults.Title)
	cm.v.SetDefault("schema_file", defaults.SchemaFile)
	cm.v.SetDefault("slides_file", defaults.SlidesFile)
	cm.v.SetDefault("log_level", defaults.LogLevel)
	cm.v.SetDefault("session_ttl", defaults.SessionTTL)
	cm.v.SetDefault("max_sessions", defaults.MaxSessions)

	cm.v.SetEnvPrefix(EnvPrefix)
	cm.v.AutomaticEnv()

	if cfgFile != "" {
		cm.v.SetConfigFile(cfgFile)
	} else {
		cm.v.SetConfigName("processform")
		cm.v.SetConfigType("yaml")
		cm.v.AddConfigPath(".")
		cm.v.AddConfigPath("$HOME/.processform")
	}

	if err := cm.v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile != "" || !errors.As(err, &notFound) {
			return fmt.Errorf("config: read config file: %w", err)
		}
	}
	return nil
}

func (cm *Manager) load() (*Config, error) {
	var cfg Config
	if err := cm.v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("config: unmarshal: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Get returns the current configuration.
func (cm *Manager) Get() *Config {
	cm.mu.RLock()
	defer cm.mu.RUnlock()
	return cm.config
}

// File reports the config file in use, or "" when running on defaults.
func (cm *Manager) File() string {
	return cm.v.ConfigFileUsed()
}

// OnChange registers a callback for config changes.
func (cm *Manager) OnChange(fn func(*Config)) {
	cm.mu.Lock()
	defer cm.mu.Unlock()
	cm.callbacks = append(cm.callbacks, fn)
}

// WatchConfig reloads the config file on change and notifies callbacks. Invalid
// edits are ignored and the previous config stays active.
func (cm *Manager) WatchConfig() {
	if cm.File() == "" {
		return
	}
	cm.v.OnConfigChange(func(fsnotify.Event) {
		cm.reload()
	})
	cm.v.WatchConfig()
}

func (cm *Manager) reload() {
	cfg, err := cm.load()
	if err != nil {
		return
	}

	cm.mu.Lock()
	cm.config = cfg
	callbacks := make([]func(*Config), len(cm.callbacks))
	copy(callbacks, cm.callbacks)
	cm.mu.Unlock()

	for _, fn := range callbacks {
		fn(cfg)
	}
}

// WriteDefault writes the default configuration to path.
func WriteDefault(path string) error {
	cfg := DefaultConfig()
	data, err := yaml.Marshal(map[string]any{
		"addr":         cfg.Addr,
		"title":        cfg.Title,
		"schema_file":  cfg.SchemaFile,
		"slides_file":  cfg.SlidesFile,
		"log_level":    cfg.LogLevel,
		"session_ttl":  cfg.SessionTTL.String(),
		"max_sessions": cfg.MaxSessions,
	})
	if err != nil {
		return fmt.Errorf("config: marshal defaults: %w", err)
	}

	header := []byte(`# processform configuration
# Every key can be overridden with a PROCESSFORM_<KEY> environment variable.

`)
	return os.WriteFile(path, append(header, data...), 0o644)
}
