// Package config loads runtime configuration from defaults, an optional
// yaml file and the environment.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"

	"github.com/spf13/viper"

	"todolists/internal/store"
)

const (
	// AppName is the application directory name.
	AppName = "todolists"

	// EnvPrefix prefixes every environment override, e.g. TODOLISTS_PORT.
	EnvPrefix = "TODOLISTS"
)

// Config holds the server and storage settings.
type Config struct {
	Port    string        `mapstructure:"port" yaml:"port"`
	Storage StorageConfig `mapstructure:"storage" yaml:"storage"`
}

// StorageConfig selects the key-value backend.
type StorageConfig struct {
	Driver string `mapstructure:"driver" yaml:"driver"` // memory, sqlite3, mysql, pgx
	DSN    string `mapstructure:"dsn" yaml:"dsn"`
}

// Load builds the configuration. path names a yaml file; when empty the
// default file is read if it exists.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Variables read by earlier releases.
	_ = v.BindEnv("port", EnvPrefix+"_PORT", "PORT")
	_ = v.BindEnv("storage.dsn", EnvPrefix+"_STORAGE_DSN", "DB_PATH")

	if path == "" {
		if _, err := os.Stat(DefaultConfigPath()); err == nil {
			path = DefaultConfigPath()
		}
	}
	if path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config %s: %w", path, err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks that the settings can be used to start.
func (c *Config) Validate() error {
	if _, err := strconv.Atoi(c.Port); err != nil {
		return fmt.Errorf("invalid port %q", c.Port)
	}
	if !slices.Contains(store.Drivers, c.Storage.Driver) {
		return fmt.Errorf("unknown storage driver %q (want one of %s)", c.Storage.Driver, strings.Join(store.Drivers, ", "))
	}
	if c.Storage.Driver != store.DriverMemory && c.Storage.DSN == "" {
		return errors.New("storage.dsn is required")
	}
	return nil
}

// Addr returns the listen address for the HTTP server.
func (c *Config) Addr() string {
	return ":" + c.Port
}

// OpenStore opens the configured backend. For sqlite files the data
// directory is created first.
func (c *Config) OpenStore() (store.Store, error) {
	if c.Storage.Driver == store.DriverSQLite && c.Storage.DSN != ":memory:" {
		path := c.Storage.DSN
		if i := strings.IndexByte(path, '?'); i >= 0 {
			path = path[:i]
		}
		path = strings.TrimPrefix(path, "file:")
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return nil, fmt.Errorf("failed to create data directory: %w", err)
		}
	}

	s, err := store.Open(c.Storage.Driver, c.Storage.DSN)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize store: %w", err)
	}
	return s, nil
}

// DefaultConfigDir returns the default configuration directory.
// Uses XDG_CONFIG_HOME if set, otherwise $HOME/.config.
func DefaultConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, AppName)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return AppName
	}
	return filepath.Join(home, ".config", AppName)
}

// DefaultConfigPath returns the path of the yaml file read when no
// --config flag is given.
func DefaultConfigPath() string {
	return filepath.Join(DefaultConfigDir(), "config.yaml")
}
