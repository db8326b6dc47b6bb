// Package cover checks that book cover URLs point at loadable images and
// stores local copies of them.
package cover

import (
	"context"
	"fmt"
	"log/slog"
	"mime"
	"net/http"
	"strings"
	"time"

	"github.com/jellydator/ttlcache/v3"
	"github.com/lepinkainen/bookshop/internal/catalog"
	"github.com/lepinkainen/bookshop/internal/ratelimit"
)

const (
	defaultTTL     = time.Hour
	defaultTimeout = 10 * time.Second
)

// Resolver maps cover URLs to themselves when they serve an image and to the
// placeholder otherwise.
type Resolver struct {
	client      *http.Client
	limiter     *ratelimit.Limiter
	cache       *ttlcache.Cache[string, string]
	placeholder string
}

// Option configures a Resolver.
type Option func(*resolverOptions)

type resolverOptions struct {
	client      *http.Client
	limiter     *ratelimit.Limiter
	ttl         time.Duration
	placeholder string
}

// WithClient sets the HTTP client used for probes and downloads.
func WithClient(c *http.Client) Option {
	return func(o *resolverOptions) { o.client = c }
}

// WithLimiter throttles outgoing requests.
func WithLimiter(l *ratelimit.Limiter) Option {
	return func(o *resolverOptions) { o.limiter = l }
}

// WithTTL sets how long a probe result is reused.
func WithTTL(ttl time.Duration) Option {
	return func(o *resolverOptions) { o.ttl = ttl }
}

// WithPlaceholder replaces the default placeholder image.
func WithPlaceholder(url string) Option {
	return func(o *resolverOptions) { o.placeholder = url }
}

// NewResolver creates a Resolver.
func NewResolver(opts ...Option) *Resolver {
	o := resolverOptions{
		client:      &http.Client{Timeout: defaultTimeout},
		limiter:     ratelimit.PerSecond("covers", 5),
		ttl:         defaultTTL,
		placeholder: catalog.PlaceholderImage,
	}
	for _, opt := range opts {
		opt(&o)
	}
	if o.ttl <= 0 {
		o.ttl = defaultTTL
	}
	if o.placeholder == "" {
		o.placeholder = catalog.PlaceholderImage
	}

	return &Resolver{
		client:      o.client,
		limiter:     o.limiter,
		cache:       ttlcache.New(ttlcache.WithTTL[string, string](o.ttl)),
		placeholder: o.placeholder,
	}
}

// Placeholder returns the image used for covers that fail to load.
func (r *Resolver) Placeholder() string {
	return r.placeholder
}

// Resolve returns url if it answers with a 2xx image response, else the placeholder.
func (r *Resolver) Resolve(ctx context.Context, url string) string {
	url = strings.TrimSpace(url)
	if url == "" {
		return r.placeholder
	}
	if item := r.cache.Get(url); item != nil {
		return item.Value()
	}

	ok, err := r.probe(ctx, url)
	if err != nil && ctx.Err() != nil {
		// Not the image's fault, try again next time
		return r.placeholder
	}

	resolved := r.placeholder
	if ok {
		resolved = url
	} else {
		slog.Debug("Cover unavailable, using placeholder", "url", url, "error", err)
	}
	r.cache.Set(url, resolved, ttlcache.DefaultTTL)
	return resolved
}

// ResolveBook returns b with its image resolved.
func (r *Resolver) ResolveBook(ctx context.Context, b catalog.Book) catalog.Book {
	b.Image = r.Resolve(ctx, b.Image)
	return b
}

// Forget drops any cached result for url.
func (r *Resolver) Forget(url string) {
	r.cache.Delete(url)
}

func (r *Resolver) probe(ctx context.Context, url string) (bool, error) {
	ok, status, err := r.request(ctx, http.MethodHead, url)
	if ok || status == 0 {
		return ok, err
	}
	// Some hosts refuse HEAD or omit the content type on it
	ok, _, err = r.request(ctx, http.MethodGet, url)
	return ok, err
}

func (r *Resolver) request(ctx context.Context, method, url string) (bool, int, error) {
	if err := r.limiter.Wait(ctx); err != nil {
		return false, 0, err
	}

	req, err := http.NewRequestWithContext(ctx, method, url, nil)
	if err != nil {
		return false, 0, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := r.client.Do(req)
	if err != nil {
		return false, 0, fmt.Errorf("failed to fetch cover: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return false, resp.StatusCode, fmt.Errorf("unexpected status %d for %s", resp.StatusCode, url)
	}
	return isImage(resp.Header.Get("Content-Type")), resp.StatusCode, nil
}

func isImage(contentType string) bool {
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return false
	}
	return strings.HasPrefix(mediaType, "image/")
}
