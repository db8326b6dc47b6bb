// Package slot implements the single key-value storage slot the catalog is mirrored into.
package slot

import (
	"context"
	"fmt"
	"strings"
)

// Slot stores one opaque value per key. Save always replaces the whole value.
type Slot interface {
	Load(ctx context.Context, key string) ([]byte, bool, error)
	Save(ctx context.Context, key string, data []byte) error
	Delete(ctx context.Context, key string) (bool, error)
	Close() error
}

// Backend names accepted by Open.
const (
	BackendSQLite   = "sqlite"
	BackendFile     = "file"
	BackendPostgres = "postgres"
	BackendMemory   = "memory"
)

// Options selects and configures a backend.
type Options struct {
	Backend string
	// DBFile is the SQLite database path.
	DBFile string
	// Dir is the directory used by the file backend.
	Dir string
	// DSN is the Postgres connection string.
	DSN string
}

// Open creates the backend named by opts.Backend. An empty name means SQLite.
func Open(opts Options) (Slot, error) {
	switch strings.ToLower(strings.TrimSpace(opts.Backend)) {
	case "", BackendSQLite:
		if opts.DBFile == "" {
			return nil, fmt.Errorf("sqlite storage requires a database file")
		}
		return NewSQLite(opts.DBFile)
	case BackendFile:
		if opts.Dir == "" {
			return nil, fmt.Errorf("file storage requires a directory")
		}
		return NewFile(opts.Dir), nil
	case BackendPostgres:
		if opts.DSN == "" {
			return nil, fmt.Errorf("postgres storage requires a DSN")
		}
		return NewPostgres(opts.DSN)
	case BackendMemory:
		return NewMemory(), nil
	}
	return nil, fmt.Errorf("unknown storage backend %q; valid backends are: sqlite, file, postgres, memory", opts.Backend)
}
