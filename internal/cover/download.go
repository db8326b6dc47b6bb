package cover

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"

	"github.com/disintegration/imaging"
	"github.com/gabriel-vasile/mimetype"
	"github.com/lepinkainen/bookshop/internal/fileutil"
)

const (
	// MaxWidth is the width downloaded covers are scaled down to.
	MaxWidth = 300

	maxDownloadBytes = 10 << 20
)

// DownloadOptions holds options for downloading a cover image.
type DownloadOptions struct {
	// URL is the source URL of the cover image
	URL string
	// OutputDir is the directory the attachments folder is created in
	OutputDir string
	// Filename is the name of the cover file (e.g., "Title - cover.jpg")
	Filename string
	// Overwrite forces re-downloading even if the cover exists
	Overwrite bool
}

// DownloadResult describes a stored cover.
type DownloadResult struct {
	// Downloaded indicates if a new file was written
	Downloaded bool
	// LocalPath is the full path to the cover
	LocalPath string
	// RelativePath is the path relative to OutputDir (e.g., "attachments/Title - cover.jpg")
	RelativePath string
}

// Download fetches the cover at opts.URL, verifies it is an image and stores it
// as a JPEG no wider than MaxWidth under OutputDir/attachments.
// An empty URL returns nil without error.
func (r *Resolver) Download(ctx context.Context, opts DownloadOptions) (*DownloadResult, error) {
	if opts.URL == "" {
		return nil, nil
	}

	relativePath := filepath.Join("attachments", opts.Filename)
	result := &DownloadResult{
		LocalPath:    filepath.Join(opts.OutputDir, relativePath),
		RelativePath: relativePath,
	}

	if fileutil.FileExists(result.LocalPath) && !opts.Overwrite {
		slog.Debug("Cover already exists, skipping download", "path", result.LocalPath)
		return result, nil
	}

	data, err := r.fetch(ctx, opts.URL)
	if err != nil {
		return nil, err
	}

	mtype := mimetype.Detect(data)
	if !mimetype.EqualsAny(mtype.String(), "image/jpeg", "image/png", "image/gif", "image/bmp", "image/tiff") {
		return nil, fmt.Errorf("unsupported cover type %s from %s", mtype.String(), opts.URL)
	}

	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("failed to decode cover: %w", err)
	}
	if img.Bounds().Dx() > MaxWidth {
		img = imaging.Resize(img, MaxWidth, 0, imaging.Lanczos)
	}

	if err := os.MkdirAll(filepath.Dir(result.LocalPath), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create attachments directory: %w", err)
	}
	if err := imaging.Save(img, result.LocalPath, imaging.JPEGQuality(85)); err != nil {
		return nil, fmt.Errorf("failed to write cover file: %w", err)
	}

	slog.Info("Downloaded cover", "path", result.LocalPath, "type", mtype.String())
	result.Downloaded = true
	return result, nil
}

func (r *Resolver) fetch(ctx context.Context, url string) ([]byte, error) {
	if err := r.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := r.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to download cover: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("unexpected status %d downloading cover from %s", resp.StatusCode, url)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxDownloadBytes))
	if err != nil {
		return nil, fmt.Errorf("failed to read cover: %w", err)
	}
	return data, nil
}

// Filename builds the standard cover filename for a book title.
func Filename(title string) string {
	return fileutil.SanitizeFilename(title) + " - cover.jpg"
}
