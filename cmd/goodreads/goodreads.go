// Package goodreads imports a Goodreads library export into the catalog.
package goodreads

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/lepinkainen/bookshop/internal/catalog"
	"github.com/lepinkainen/bookshop/internal/csvutil"
)

// Catalog is the part of the store the importer writes to.
type Catalog interface {
	All() []catalog.Book
	Create(ctx context.Context, p catalog.Payload) (catalog.Book, error)
}

// ParseParams holds the parameters of an import run
type ParseParams struct {
	CSVPath string
	// DryRun parses and validates without creating books
	DryRun bool
	// AllowDuplicates imports rows matching a book already in the catalog
	AllowDuplicates bool
}

// Result summarizes an import run
type Result struct {
	Parsed     int
	Created    int
	Duplicates int
	Invalid    int
	// Books holds the created books, or the would-be payloads on a dry run
	Books []catalog.Book
}

var importFunc = ImportBooks

// ImportWithParams checks params and runs the import.
func ImportWithParams(ctx context.Context, store Catalog, params ParseParams) (*Result, error) {
	if params.CSVPath == "" {
		return nil, fmt.Errorf("input CSV file is required")
	}
	return importFunc(ctx, store, params)
}

// ImportBooks reads params.CSVPath and creates a book for every valid row.
// Rows that fail validation are skipped with a warning. The first storage
// error stops the run.
func ImportBooks(ctx context.Context, store Catalog, params ParseParams) (*Result, error) {
	rows, err := csvutil.ProcessCSV(params.CSVPath, parseRow, csvutil.ProcessorOptions{
		Required:    requiredColumns,
		SkipInvalid: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to read Goodreads export: %w", err)
	}

	result := &Result{Parsed: len(rows)}
	seen := newDuplicateIndex(store.All())

	for _, row := range rows {
		payload := row.Payload()
		if err := catalog.Validate(payload); err != nil {
			slog.Warn("Skipping invalid book", "goodreads_id", row.BookID, "title", row.Title, "error", err)
			result.Invalid++
			continue
		}

		if !params.AllowDuplicates && seen.contains(payload) {
			slog.Debug("Skipping book already in catalog", "title", payload.Title)
			result.Duplicates++
			continue
		}
		seen.add(payload)

		if params.DryRun {
			result.Books = append(result.Books, payload.Book(0))
			continue
		}

		book, err := store.Create(ctx, payload)
		if err != nil {
			return result, fmt.Errorf("failed to import %q: %w", payload.Title, err)
		}
		result.Books = append(result.Books, book)
		result.Created++
		logImportProgress(result.Created, len(rows))
	}

	slog.Info("Goodreads import finished",
		"parsed", result.Parsed,
		"created", result.Created,
		"duplicates", result.Duplicates,
		"invalid", result.Invalid,
		"dry_run", params.DryRun,
	)
	return result, nil
}

type duplicateIndex map[string]struct{}

func newDuplicateIndex(books []catalog.Book) duplicateIndex {
	idx := make(duplicateIndex, len(books))
	for _, b := range books {
		idx.add(b.Payload())
	}
	return idx
}

func (d duplicateIndex) keys(p catalog.Payload) []string {
	keys := []string{"t:" + strings.ToLower(p.Title) + "\x00" + strings.ToLower(p.Author)}
	if p.ISBN != "" {
		keys = append(keys, "i:"+p.ISBN)
	}
	return keys
}

func (d duplicateIndex) add(p catalog.Payload) {
	for _, k := range d.keys(p) {
		d[k] = struct{}{}
	}
}

func (d duplicateIndex) contains(p catalog.Payload) bool {
	for _, k := range d.keys(p) {
		if _, ok := d[k]; ok {
			return true
		}
	}
	return false
}

func logImportProgress(processed, total int) {
	if processed == 0 || processed%10 != 0 {
		return
	}

	percentage := "0%"
	if total > 0 {
		percentage = fmt.Sprintf("%.1f%%", float64(processed)/float64(total)*100)
	}
	slog.Info("Importing books", "processed", processed, "total", total, "percentage", percentage)
}
