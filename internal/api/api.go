// Package api serves the catalog as a JSON API.
package api

import (
	"context"
	"net/http"

	"github.com/julienschmidt/httprouter"
	"github.com/lepinkainen/bookshop/internal/catalog"
)

// Version is reported by the healthcheck.
var Version = "dev"

// Catalog is the store the handlers read and mutate.
type Catalog interface {
	List(q catalog.Query) []catalog.Book
	Get(id int64) (catalog.Book, error)
	Create(ctx context.Context, p catalog.Payload) (catalog.Book, error)
	Update(ctx context.Context, id int64, p catalog.Payload) (catalog.Book, error)
	Delete(ctx context.Context, id int64) error
}

// CoverResolver replaces broken cover URLs.
type CoverResolver interface {
	ResolveBook(ctx context.Context, b catalog.Book) catalog.Book
}

// Handler holds the dependencies of the HTTP handlers.
type Handler struct {
	store  Catalog
	covers CoverResolver
}

// Option configures a Handler.
type Option func(*Handler)

// WithCovers enables ?covers=resolve on read endpoints.
func WithCovers(r CoverResolver) Option {
	return func(h *Handler) { h.covers = r }
}

// New creates a Handler over store.
func New(store Catalog, opts ...Option) *Handler {
	h := &Handler{store: store}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Routes returns the router wrapped in the middleware chain.
func (h *Handler) Routes() http.Handler {
	router := httprouter.New()

	router.NotFound = http.HandlerFunc(h.notFoundResponse)
	router.MethodNotAllowed = http.HandlerFunc(h.methodNotAllowedResponse)

	router.HandlerFunc(http.MethodGet, "/v1/healthcheck", h.healthcheckHandler)

	router.HandlerFunc(http.MethodGet, "/v1/books", h.listBooksHandler)
	router.HandlerFunc(http.MethodPost, "/v1/books", h.createBookHandler)
	router.HandlerFunc(http.MethodGet, "/v1/books/:id", h.showBookHandler)
	router.HandlerFunc(http.MethodPut, "/v1/books/:id", h.updateBookHandler)
	router.HandlerFunc(http.MethodDelete, "/v1/books/:id", h.deleteBookHandler)

	return h.recoverPanic(h.requestID(h.logRequest(router)))
}
