package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	_ "github.com/go-sql-driver/mysql"
	_ "github.com/jackc/pgx/v5/stdlib"
	_ "github.com/mattn/go-sqlite3"
)

// dialect holds the statements that differ between SQL engines.
type dialect struct {
	driver          string
	numbered        bool // $1, $2 placeholders instead of ?
	migrationsTable string
	upsertEntry     string
}

var (
	sqliteDialect = dialect{
		driver: DriverSQLite,
		migrationsTable: `
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER NOT NULL PRIMARY KEY,
			name TEXT NOT NULL,
			applied_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		)
	`,
		upsertEntry: `
		INSERT INTO entries (entry_key, entry_value, created_at, updated_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(entry_key) DO UPDATE SET entry_value = excluded.entry_value, updated_at = excluded.updated_at
	`,
	}

	mysqlDialect = dialect{
		driver: DriverMySQL,
		migrationsTable: `
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INT NOT NULL PRIMARY KEY,
			name VARCHAR(255) NOT NULL,
			applied_at TIMESTAMP(6) NOT NULL DEFAULT CURRENT_TIMESTAMP(6)
		) ENGINE=InnoDB
	`,
		upsertEntry: `
		INSERT INTO entries (entry_key, entry_value, created_at, updated_at)
		VALUES (?, ?, ?, ?)
		ON DUPLICATE KEY UPDATE entry_value = VALUES(entry_value), updated_at = VALUES(updated_at)
	`,
	}

	postgresDialect = dialect{
		driver:   DriverPostgres,
		numbered: true,
		migrationsTable: `
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER NOT NULL PRIMARY KEY,
			name TEXT NOT NULL,
			applied_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)
	`,
		upsertEntry: `
		INSERT INTO entries (entry_key, entry_value, created_at, updated_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT (entry_key) DO UPDATE SET entry_value = EXCLUDED.entry_value, updated_at = EXCLUDED.updated_at
	`,
	}
)

// rebind rewrites ? placeholders for engines that number them.
func (d dialect) rebind(query string) string {
	if !d.numbered {
		return query
	}

	var b strings.Builder
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteString("$" + strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// SQLStore implements the Store interface on a single SQL table.
type SQLStore struct {
	db      *sql.DB
	dialect dialect
}

// NewSQLiteStore creates a SQLite-backed store with the given database path.
func NewSQLiteStore(dbPath string) (*SQLStore, error) {
	db, err := sql.Open(DriverSQLite, dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// One connection keeps ":memory:" a single database.
	db.SetMaxOpenConns(1)

	return newSQLStore(db, sqliteDialect)
}

// NewMySQLStore creates a MySQL-backed store from a go-sql-driver DSN.
func NewMySQLStore(dsn string) (*SQLStore, error) {
	db, err := sql.Open(DriverMySQL, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	return newSQLStore(db, mysqlDialect)
}

// NewPostgresStore creates a PostgreSQL-backed store from a pgx connection URL.
func NewPostgresStore(dbURL string) (*SQLStore, error) {
	db, err := sql.Open(DriverPostgres, dbURL)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	return newSQLStore(db, postgresDialect)
}

func newSQLStore(db *sql.DB, d dialect) (*SQLStore, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	store := &SQLStore{db: db, dialect: d}
	if err := runMigrations(ctx, db, d); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return store, nil
}

// Close closes the database connection.
func (s *SQLStore) Close() error {
	return s.db.Close()
}

// Get retrieves the value stored under key.
func (s *SQLStore) Get(ctx context.Context, key string) (string, bool, error) {
	var value string
	err := s.db.QueryRowContext(ctx, s.dialect.rebind(`
		SELECT entry_value FROM entries WHERE entry_key = ?
	`), key).Scan(&value)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("failed to get entry %q: %w", key, err)
	}

	return value, true, nil
}

// Set inserts or replaces the value stored under key.
func (s *SQLStore) Set(ctx context.Context, key, value string) error {
	now := time.Now().UTC()

	_, err := s.db.ExecContext(ctx, s.dialect.rebind(s.dialect.upsertEntry), key, value, now, now)
	if err != nil {
		return fmt.Errorf("failed to set entry %q: %w", key, err)
	}

	return nil
}

// Remove deletes the entry stored under key.
func (s *SQLStore) Remove(ctx context.Context, key string) error {
	_, err := s.db.ExecContext(ctx, s.dialect.rebind(`DELETE FROM entries WHERE entry_key = ?`), key)
	if err != nil {
		return fmt.Errorf("failed to remove entry %q: %w", key, err)
	}
	return nil
}

// Keys retrieves all keys ordered by creation time.
func (s *SQLStore) Keys(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT entry_key FROM entries ORDER BY created_at ASC, entry_key ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list entries: %w", err)
	}
	defer rows.Close()

	var keys []string
	for rows.Next() {
		var key string
		if err := rows.Scan(&key); err != nil {
			return nil, fmt.Errorf("failed to scan entry key: %w", err)
		}
		keys = append(keys, key)
	}

	return keys, rows.Err()
}
