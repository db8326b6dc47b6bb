package cover

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/disintegration/imaging"
	"github.com/lepinkainen/bookshop/internal/catalog"
	"github.com/lepinkainen/bookshop/internal/ratelimit"
	"github.com/lepinkainen/bookshop/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pngBytes(t *testing.T, width, height int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for x := range width {
		for y := range height {
			img.Set(x, y, color.RGBA{R: 200, G: 100, B: 50, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

type coverServer struct {
	*httptest.Server
	hits atomic.Int32
}

func newCoverServer(t *testing.T) *coverServer {
	t.Helper()
	cs := &coverServer{}
	cover := pngBytes(t, 600, 900)

	mux := http.NewServeMux()
	mux.HandleFunc("/cover.png", func(w http.ResponseWriter, r *http.Request) {
		cs.hits.Add(1)
		w.Header().Set("Content-Type", "image/png")
		_, _ = w.Write(cover)
	})
	mux.HandleFunc("/small.png", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "image/png")
		_, _ = w.Write(pngBytes(t, 120, 180))
	})
	mux.HandleFunc("/no-head.png", func(w http.ResponseWriter, r *http.Request) {
		cs.hits.Add(1)
		if r.Method == http.MethodHead {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		w.Header().Set("Content-Type", "image/png")
		_, _ = w.Write(cover)
	})
	mux.HandleFunc("/page.html", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write([]byte("<html><body>not a cover</body></html>"))
	})
	mux.HandleFunc("/lying.png", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "image/png")
		_, _ = w.Write([]byte("<html><body>not a cover</body></html>"))
	})

	cs.Server = httptest.NewServer(mux)
	t.Cleanup(cs.Close)
	return cs
}

func newTestResolver(cs *coverServer, opts ...Option) *Resolver {
	base := []Option{
		WithClient(cs.Client()),
		WithLimiter(ratelimit.New("test", 0, 1)),
	}
	return NewResolver(append(base, opts...)...)
}

func TestResolve(t *testing.T) {
	cs := newCoverServer(t)
	r := newTestResolver(cs)
	ctx := context.Background()

	tests := []struct {
		name string
		url  string
		want string
	}{
		{name: "image", url: cs.URL + "/cover.png", want: cs.URL + "/cover.png"},
		{name: "head refused", url: cs.URL + "/no-head.png", want: cs.URL + "/no-head.png"},
		{name: "html page", url: cs.URL + "/page.html", want: catalog.PlaceholderImage},
		{name: "missing", url: cs.URL + "/missing.png", want: catalog.PlaceholderImage},
		{name: "empty", url: "", want: catalog.PlaceholderImage},
		{name: "whitespace", url: "   ", want: catalog.PlaceholderImage},
		{name: "unreachable", url: "http://127.0.0.1:1/cover.png", want: catalog.PlaceholderImage},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, r.Resolve(ctx, tt.url))
		})
	}
}

func TestResolveCachesResults(t *testing.T) {
	cs := newCoverServer(t)
	r := newTestResolver(cs, WithTTL(time.Minute))
	url := cs.URL + "/cover.png"

	require.Equal(t, url, r.Resolve(context.Background(), url))
	require.Equal(t, url, r.Resolve(context.Background(), url))
	assert.Equal(t, int32(1), cs.hits.Load())

	r.Forget(url)
	require.Equal(t, url, r.Resolve(context.Background(), url))
	assert.Equal(t, int32(2), cs.hits.Load())
}

func TestResolveCustomPlaceholder(t *testing.T) {
	cs := newCoverServer(t)
	r := newTestResolver(cs, WithPlaceholder("https://example.com/none.jpg"))

	assert.Equal(t, "https://example.com/none.jpg", r.Resolve(context.Background(), cs.URL+"/page.html"))
	assert.Equal(t, "https://example.com/none.jpg", r.Placeholder())
}

func TestResolveCancelledContextIsNotCached(t *testing.T) {
	cs := newCoverServer(t)
	r := newTestResolver(cs)
	url := cs.URL + "/cover.png"

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.Equal(t, catalog.PlaceholderImage, r.Resolve(ctx, url))

	assert.Equal(t, url, r.Resolve(context.Background(), url))
}

func TestResolveBook(t *testing.T) {
	cs := newCoverServer(t)
	r := newTestResolver(cs)

	b := r.ResolveBook(context.Background(), catalog.Book{ID: 1, Title: "Dune", Image: cs.URL + "/page.html"})
	assert.Equal(t, catalog.PlaceholderImage, b.Image)
	assert.Equal(t, "Dune", b.Title)
}

func TestDownloadResizes(t *testing.T) {
	cs := newCoverServer(t)
	r := newTestResolver(cs)
	env := testutil.NewTestEnv(t)

	result, err := r.Download(context.Background(), DownloadOptions{
		URL:       cs.URL + "/cover.png",
		OutputDir: env.RootDir(),
		Filename:  Filename("Dune: Messiah"),
	})
	require.NoError(t, err)
	require.NotNil(t, result)
	assert.True(t, result.Downloaded)
	assert.Equal(t, "attachments/Dune - Messiah - cover.jpg", result.RelativePath)
	env.RequireFileExists(result.RelativePath)

	img, err := imaging.Open(result.LocalPath)
	require.NoError(t, err)
	assert.Equal(t, MaxWidth, img.Bounds().Dx())
	assert.Equal(t, 450, img.Bounds().Dy())
}

func TestDownloadKeepsSmallImages(t *testing.T) {
	cs := newCoverServer(t)
	r := newTestResolver(cs)
	env := testutil.NewTestEnv(t)

	result, err := r.Download(context.Background(), DownloadOptions{
		URL:       cs.URL + "/small.png",
		OutputDir: env.RootDir(),
		Filename:  "small.jpg",
	})
	require.NoError(t, err)

	img, err := imaging.Open(result.LocalPath)
	require.NoError(t, err)
	assert.Equal(t, 120, img.Bounds().Dx())
}

func TestDownloadSkipsExisting(t *testing.T) {
	cs := newCoverServer(t)
	r := newTestResolver(cs)
	env := testutil.NewTestEnv(t)
	env.WriteFileString("attachments/dune.jpg", "existing")

	result, err := r.Download(context.Background(), DownloadOptions{
		URL:       cs.URL + "/cover.png",
		OutputDir: env.RootDir(),
		Filename:  "dune.jpg",
	})
	require.NoError(t, err)
	assert.False(t, result.Downloaded)
	assert.Equal(t, "existing", env.ReadFileString("attachments/dune.jpg"))
	assert.Equal(t, int32(0), cs.hits.Load())
}

func TestDownloadRejectsNonImages(t *testing.T) {
	cs := newCoverServer(t)
	r := newTestResolver(cs)
	env := testutil.NewTestEnv(t)

	_, err := r.Download(context.Background(), DownloadOptions{
		URL:       cs.URL + "/lying.png",
		OutputDir: env.RootDir(),
		Filename:  "lying.jpg",
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported cover type")
	env.RequireFileNotExists("attachments/lying.jpg")
}

func TestDownloadEmptyURL(t *testing.T) {
	r := NewResolver()

	result, err := r.Download(context.Background(), DownloadOptions{OutputDir: t.TempDir(), Filename: "x.jpg"})
	require.NoError(t, err)
	assert.Nil(t, result)
}
