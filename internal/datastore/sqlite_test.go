package datastore

import (
	"context"
	"testing"

	"github.com/lepinkainen/bookshop/internal/catalog"
	"github.com/lepinkainen/bookshop/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSQLiteStore_CreateTableAndInsert(t *testing.T) {
	ctx := context.Background()
	store := NewSQLiteStore("file::memory:?cache=shared")
	require.NoError(t, store.Connect(ctx))
	defer func() { _ = store.Close() }()

	schema := `CREATE TABLE IF NOT EXISTS test_table (
		id INTEGER PRIMARY KEY,
		name TEXT,
		value INTEGER
	)`
	require.NoError(t, store.CreateTable(ctx, schema))

	records := []map[string]any{
		{"id": 1, "name": "foo", "value": 42},
		{"id": 2, "name": "bar", "value": 99},
	}
	require.NoError(t, store.BatchInsert(ctx, "bookshop", "test_table", records))

	// Same key again replaces instead of failing
	require.NoError(t, store.BatchInsert(ctx, "bookshop", "test_table", []map[string]any{{"id": 1, "name": "baz", "value": 7}}))

	var count int
	require.NoError(t, store.db.QueryRow("SELECT COUNT(*) FROM test_table").Scan(&count))
	assert.Equal(t, 2, count)

	var name string
	require.NoError(t, store.db.QueryRow("SELECT name FROM test_table WHERE id = 1").Scan(&name))
	assert.Equal(t, "baz", name)
}

func TestSQLiteStore_EmptyBatch(t *testing.T) {
	store := NewSQLiteStore("file::memory:")
	require.NoError(t, store.Connect(context.Background()))
	defer func() { _ = store.Close() }()

	assert.NoError(t, store.BatchInsert(context.Background(), "bookshop", "missing_table", nil))
}

func TestExportBooks(t *testing.T) {
	env := testutil.NewTestEnv(t)
	dbPath := env.Path("export.db")
	ctx := context.Background()

	require.NoError(t, ExportBooks(ctx, NewSQLiteStore(dbPath), "bookshop", catalog.SeedBooks()))
	env.RequireFileExists("export.db")

	check := NewSQLiteStore(dbPath)
	require.NoError(t, check.Connect(ctx))
	defer func() { _ = check.Close() }()

	var (
		title string
		genre string
		price float64
		year  int
	)
	err := check.db.QueryRow("SELECT title, genre, price, year FROM books WHERE id = 2").Scan(&title, &genre, &price, &year)
	require.NoError(t, err)
	assert.Equal(t, "To Kill a Mockingbird", title)
	assert.Equal(t, "Fiction", genre)
	assert.InDelta(t, 24.99, price, 0.001)
	assert.Equal(t, 1960, year)
}

func TestBookRecord(t *testing.T) {
	record := BookRecord(catalog.SeedBooks()[0])

	assert.Equal(t, int64(1), record["id"])
	assert.Equal(t, "Classic", record["genre"])
	assert.Len(t, record, 9)
}
