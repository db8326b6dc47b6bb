package datastore

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/lepinkainen/bookshop/internal/catalog"
)

// BooksTable is the table exported books are written to.
const BooksTable = "books"

// BooksSchema creates BooksTable in SQLite.
const BooksSchema = `CREATE TABLE IF NOT EXISTS books (
	id INTEGER PRIMARY KEY,
	title TEXT NOT NULL,
	author TEXT NOT NULL,
	price REAL NOT NULL,
	genre TEXT NOT NULL,
	isbn TEXT,
	year INTEGER,
	description TEXT,
	image TEXT
)`

// BookRecord maps b to a row of BooksTable.
func BookRecord(b catalog.Book) map[string]any {
	return map[string]any{
		"id":          b.ID,
		"title":       b.Title,
		"author":      b.Author,
		"price":       b.Price,
		"genre":       string(b.Genre),
		"isbn":        b.ISBN,
		"year":        b.Year,
		"description": b.Description,
		"image":       b.Image,
	}
}

// ExportBooks connects to s, creates the books table and upserts books into it.
func ExportBooks(ctx context.Context, s Store, database string, books []catalog.Book) error {
	if err := s.Connect(ctx); err != nil {
		return fmt.Errorf("failed to connect to datastore: %w", err)
	}
	defer func() { _ = s.Close() }()

	if err := s.CreateTable(ctx, BooksSchema); err != nil {
		return err
	}

	records := make([]map[string]any, len(books))
	for i, b := range books {
		records[i] = BookRecord(b)
	}
	if err := s.BatchInsert(ctx, database, BooksTable, records); err != nil {
		return fmt.Errorf("failed to export books: %w", err)
	}

	slog.Info("Exported books", "table", BooksTable, "count", len(records))
	return nil
}
