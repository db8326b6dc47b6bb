// Package csvutil reads CSV exports into typed records.
package csvutil

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
)

// ProcessorOptions configures CSV processing behavior.
type ProcessorOptions struct {
	// Required lists header columns that must be present.
	Required []string

	// SkipInvalid skips records the parser rejects instead of failing.
	SkipInvalid bool
}

// Record is one CSV row addressable by header name.
type Record struct {
	Line   int
	fields []string
	header map[string]int
}

// Get returns the trimmed value of column name, or "" when the column is
// absent or the row is short.
func (r Record) Get(name string) string {
	i, ok := r.header[name]
	if !ok || i >= len(r.fields) {
		return ""
	}
	return strings.TrimSpace(r.fields[i])
}

// Fields returns the raw row.
func (r Record) Fields() []string {
	return r.fields
}

// ProcessCSV opens filename and hands it to ProcessReader.
func ProcessCSV[T any](filename string, parser func(Record) (T, error), opts ProcessorOptions) ([]T, error) {
	csvFile, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open CSV file: %w", err)
	}
	defer func() { _ = csvFile.Close() }()

	return ProcessReader(csvFile, parser, opts)
}

// ProcessReader parses every row after the header with parser.
// Rows the CSV reader cannot parse are logged and skipped.
func ProcessReader[T any](r io.Reader, parser func(Record) (T, error), opts ProcessorOptions) ([]T, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	names, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("CSV file is empty")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read header: %w", err)
	}

	header := make(map[string]int, len(names))
	for i, name := range names {
		header[strings.TrimSpace(strings.TrimPrefix(name, "\ufeff"))] = i
	}
	for _, name := range opts.Required {
		if _, ok := header[name]; !ok {
			return nil, fmt.Errorf("CSV header is missing the %q column", name)
		}
	}

	var items []T
	for line := 2; ; line++ {
		fields, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			slog.Warn("Error reading record", "line", line, "error", err)
			continue
		}

		item, err := parser(Record{Line: line, fields: fields, header: header})
		if err != nil {
			if opts.SkipInvalid {
				slog.Warn("Skipping invalid record", "line", line, "error", err)
				continue
			}
			return nil, fmt.Errorf("invalid record on line %d: %w", line, err)
		}
		items = append(items, item)
	}

	return items, nil
}
