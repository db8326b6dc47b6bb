// Package datastore exports the catalog as rows to a local SQLite file or a
// remote Datasette instance.
package datastore

import "context"

// Store is a destination for exported rows.
type Store interface {
	// Connect prepares the destination
	Connect(ctx context.Context) error

	// CreateTable creates a table with the given schema if it doesn't exist
	CreateTable(ctx context.Context, schema string) error

	// BatchInsert upserts records into table, keyed by the table's primary key
	BatchInsert(ctx context.Context, database string, table string, records []map[string]any) error

	// Close releases the destination
	Close() error
}
