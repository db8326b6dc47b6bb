package slot

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"
)

// SQLiteSchema defines the slot table for SQLite.
const SQLiteSchema = `
CREATE TABLE IF NOT EXISTS storage_slots (
	slot_key TEXT PRIMARY KEY NOT NULL,
	data TEXT NOT NULL,
	saved_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);
`

// PostgresSchema defines the slot table for Postgres.
const PostgresSchema = `
CREATE TABLE IF NOT EXISTS storage_slots (
	slot_key TEXT PRIMARY KEY NOT NULL,
	data TEXT NOT NULL,
	saved_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
`

type dialect struct {
	driver string
	schema string
	load   string
	save   string
	delete string
}

var sqliteDialect = dialect{
	driver: "sqlite",
	schema: SQLiteSchema,
	load:   `SELECT data FROM storage_slots WHERE slot_key = ?`,
	save:   `INSERT OR REPLACE INTO storage_slots (slot_key, data, saved_at) VALUES (?, ?, CURRENT_TIMESTAMP)`,
	delete: `DELETE FROM storage_slots WHERE slot_key = ?`,
}

var postgresDialect = dialect{
	driver: "postgres",
	schema: PostgresSchema,
	load:   `SELECT data FROM storage_slots WHERE slot_key = $1`,
	save: `INSERT INTO storage_slots (slot_key, data, saved_at) VALUES ($1, $2, NOW())
		ON CONFLICT (slot_key) DO UPDATE SET data = EXCLUDED.data, saved_at = EXCLUDED.saved_at`,
	delete: `DELETE FROM storage_slots WHERE slot_key = $1`,
}

// DB is a slot kept in a SQL table, one row per key.
type DB struct {
	db      *sql.DB
	mu      sync.RWMutex
	dialect dialect
	source  string
}

// NewSQLite opens (creating if needed) a SQLite slot database at dbPath.
func NewSQLite(dbPath string) (*DB, error) {
	return openDB(sqliteDialect, dbPath, dbPath)
}

// NewPostgres connects to the Postgres database described by dsn.
func NewPostgres(dsn string) (*DB, error) {
	return openDB(postgresDialect, dsn, "postgres")
}

func openDB(d dialect, dsn, source string) (*DB, error) {
	db, err := sql.Open(d.driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s storage: %w", d.driver, err)
	}

	if d.driver == sqliteDialect.driver {
		// A single writer keeps SQLite from reporting SQLITE_BUSY on concurrent saves.
		db.SetMaxOpenConns(1)
	}

	if err := db.Ping(); err != nil {
		closeErr := db.Close()
		return nil, errors.Join(fmt.Errorf("failed to connect to %s storage: %w", d.driver, err), closeErr)
	}

	if _, err := db.Exec(d.schema); err != nil {
		closeErr := db.Close()
		return nil, errors.Join(fmt.Errorf("failed to create slot table: %w", err), closeErr)
	}

	slog.Debug("Storage opened", "driver", d.driver, "source", source)
	return &DB{db: db, dialect: d, source: source}, nil
}

// Load returns the value stored under key.
func (s *DB) Load(ctx context.Context, key string) ([]byte, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var data string
	err := s.db.QueryRowContext(ctx, s.dialect.load, key).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to query slot %q: %w", key, err)
	}
	return []byte(data), true, nil
}

// Save replaces the value stored under key.
func (s *DB) Save(ctx context.Context, key string, data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.db.ExecContext(ctx, s.dialect.save, key, string(data)); err != nil {
		return fmt.Errorf("failed to save slot %q: %w", key, err)
	}
	return nil
}

// Delete removes key, reporting whether it existed.
func (s *DB) Delete(ctx context.Context, key string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	result, err := s.db.ExecContext(ctx, s.dialect.delete, key)
	if err != nil {
		return false, fmt.Errorf("failed to delete slot %q: %w", key, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return rowsAffected > 0, nil
}

// Close closes the database connection.
func (s *DB) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.db != nil {
		return s.db.Close()
	}
	return nil
}
