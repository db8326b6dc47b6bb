// Package export writes the catalog out as JSON, Obsidian notes or a database table.
package export

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/lepinkainen/bookshop/internal/catalog"
	"github.com/lepinkainen/bookshop/internal/cover"
	"github.com/lepinkainen/bookshop/internal/datastore"
	"github.com/lepinkainen/bookshop/internal/fileutil"
	"github.com/lepinkainen/bookshop/internal/obsidian"
)

// CoverDownloader stores a local copy of a cover image.
type CoverDownloader interface {
	Download(ctx context.Context, opts cover.DownloadOptions) (*cover.DownloadResult, error)
}

// MarkdownParams holds the parameters of a markdown export
type MarkdownParams struct {
	OutputDir string
	Overwrite bool
	// Covers, when set, downloads each cover next to the notes
	Covers CoverDownloader
}

// MarkdownResult summarizes a markdown export
type MarkdownResult struct {
	Written int
	Skipped int
	Covers  int
}

// JSON writes books to path as an indented array.
func JSON(books []catalog.Book, path string, overwrite bool) (bool, error) {
	if books == nil {
		books = []catalog.Book{}
	}
	written, err := fileutil.WriteJSONFile(books, path, overwrite)
	if err != nil {
		return false, fmt.Errorf("failed to export JSON: %w", err)
	}
	return written, nil
}

// Markdown writes one note per book into params.OutputDir. A note that already
// exists is skipped unless params.Overwrite is set, in which case its tags are kept.
func Markdown(ctx context.Context, books []catalog.Book, params MarkdownParams) (*MarkdownResult, error) {
	if err := os.MkdirAll(params.OutputDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	result := &MarkdownResult{}
	for _, b := range books {
		if err := ctx.Err(); err != nil {
			return result, err
		}

		path := fileutil.GetMarkdownFilePath(b.Title, params.OutputDir)
		if fileutil.FileExists(path) && !params.Overwrite {
			slog.Debug("Note already exists, skipping", "filename", path)
			result.Skipped++
			continue
		}

		note := obsidian.BookNote(b, downloadCover(ctx, params, b, result))
		if existing, err := readNote(path); err != nil {
			slog.Warn("Failed to read existing note", "filename", path, "error", err)
		} else {
			note.MergeExisting(existing)
		}

		data, err := note.Build()
		if err != nil {
			return result, fmt.Errorf("failed to build note for %q: %w", b.Title, err)
		}
		if _, err := fileutil.WriteFileWithOverwrite(path, data, 0o644, true); err != nil {
			return result, fmt.Errorf("failed to write note for %q: %w", b.Title, err)
		}
		result.Written++
	}

	slog.Info("Markdown export finished",
		"dir", params.OutputDir,
		"written", result.Written,
		"skipped", result.Skipped,
		"covers", result.Covers,
	)
	return result, nil
}

func downloadCover(ctx context.Context, params MarkdownParams, b catalog.Book, result *MarkdownResult) string {
	if params.Covers == nil || b.Image == "" || b.Image == catalog.PlaceholderImage {
		return ""
	}

	res, err := params.Covers.Download(ctx, cover.DownloadOptions{
		URL:       b.Image,
		OutputDir: params.OutputDir,
		Filename:  cover.Filename(b.Title),
		Overwrite: params.Overwrite,
	})
	if err != nil {
		slog.Warn("Failed to download cover", "title", b.Title, "url", b.Image, "error", err)
		return ""
	}
	if res == nil {
		return ""
	}
	if res.Downloaded {
		result.Covers++
	}
	return filepath.ToSlash(res.RelativePath)
}

// readNote returns nil when path does not exist.
func readNote(path string) (*obsidian.Note, error) {
	content, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return obsidian.ParseMarkdown(content)
}

// Table upserts books into the books table of s.
func Table(ctx context.Context, s datastore.Store, database string, books []catalog.Book) error {
	return datastore.ExportBooks(ctx, s, database, books)
}
