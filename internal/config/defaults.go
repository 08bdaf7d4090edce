package config

import (
	"github.com/spf13/viper"

	"todolists/internal/store"
)

const (
	DefaultPort   = "8080"
	DefaultDriver = store.DriverSQLite
	DefaultDSN    = "./data/todolists.db"
)

// DefaultConfig returns the configuration used when nothing is set.
func DefaultConfig() *Config {
	return &Config{
		Port: DefaultPort,
		Storage: StorageConfig{
			Driver: DefaultDriver,
			DSN:    DefaultDSN,
		},
	}
}

func setDefaults(v *viper.Viper) {
	d := DefaultConfig()
	v.SetDefault("port", d.Port)
	v.SetDefault("storage.driver", d.Storage.Driver)
	v.SetDefault("storage.dsn", d.Storage.DSN)
}
