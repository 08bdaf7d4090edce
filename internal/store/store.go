package store

import (
	"context"
	"errors"
	"fmt"
)

// ErrUnknownDriver is returned by Open for an unsupported driver name.
var ErrUnknownDriver = errors.New("unknown storage driver")

// Store defines the key-value persistence operations used by task lists.
type Store interface {
	// Get returns the value stored under key. ok is false if the key is absent.
	Get(ctx context.Context, key string) (value string, ok bool, err error)
	// Set stores value under key, replacing any previous value.
	Set(ctx context.Context, key, value string) error
	// Remove deletes key. Removing a missing key is not an error.
	Remove(ctx context.Context, key string) error
	// Keys returns every key in enumeration order (oldest first).
	Keys(ctx context.Context) ([]string, error)

	// Lifecycle
	Close() error
}

// Drivers lists the driver names accepted by Open.
var Drivers = []string{DriverMemory, DriverSQLite, DriverMySQL, DriverPostgres}

const (
	DriverMemory   = "memory"
	DriverSQLite   = "sqlite3"
	DriverMySQL    = "mysql"
	DriverPostgres = "pgx"
)

// Open creates the store for the given driver and data source name.
func Open(driver, dsn string) (Store, error) {
	switch driver {
	case DriverMemory:
		return NewMemoryStore(), nil
	case DriverSQLite:
		return NewSQLiteStore(dsn)
	case DriverMySQL:
		return NewMySQLStore(dsn)
	case DriverPostgres:
		return NewPostgresStore(dsn)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownDriver, driver)
	}
}
