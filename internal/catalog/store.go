package catalog

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/lepinkainen/bookshop/internal/errors"
)

// DefaultKey is the storage slot key holding the serialized collection.
const DefaultKey = "books"

// CorruptSuffix is appended to the slot key to hold a copy of a payload that
// could not be decoded, before anything overwrites it.
const CorruptSuffix = ".corrupt"

// Slot is the single key-value entry the collection is mirrored into.
type Slot interface {
	// Load returns the stored value and whether the key exists.
	Load(ctx context.Context, key string) ([]byte, bool, error)
	// Save replaces the stored value wholesale.
	Save(ctx context.Context, key string, data []byte) error
}

// Hook observes the collection after a mutation has been persisted.
type Hook func(ctx context.Context, books []Book)

// Option configures a Store.
type Option func(*Store)

// WithIDSource replaces the clock based id source.
func WithIDSource(ids IDSource) Option {
	return func(s *Store) { s.ids = ids }
}

// WithKey stores the collection under key instead of DefaultKey.
func WithKey(key string) Option {
	return func(s *Store) { s.key = key }
}

// WithHook registers an observer called after every persisted mutation.
func WithHook(h Hook) Option {
	return func(s *Store) { s.hooks = append(s.hooks, h) }
}

// Store owns the authoritative list of books and the slot mirroring it.
type Store struct {
	mu    sync.RWMutex
	slot  Slot
	key   string
	ids   IDSource
	hooks []Hook
	books []Book
}

// New creates an empty Store over slot. Call Initialize before use.
func New(slot Slot, opts ...Option) *Store {
	s := &Store{
		slot:  slot,
		key:   DefaultKey,
		ids:   NewClockIDs(),
		books: []Book{},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Initialize hydrates the store from the slot. A missing, unreadable or
// unparsable value falls back to the seed list; it never fails. A seed list
// installed because the key was absent is written back so the slot exists afterwards.
func (s *Store) Initialize(ctx context.Context) []Book {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, found, err := s.slot.Load(ctx, s.key)
	switch {
	case err != nil:
		slog.Warn("Failed to read storage slot, using seed data", "key", s.key, "error", err)
		s.books = SeedBooks()
	case !found:
		slog.Debug("Storage slot empty, using seed data", "key", s.key)
		s.books = SeedBooks()
		if err := s.save(ctx, s.books); err != nil {
			slog.Warn("Failed to write seed data", "key", s.key, "error", err)
		}
	default:
		books, err := Decode(data)
		if err != nil {
			slog.Warn("Unparsable storage slot, using seed data", "key", s.key, "error", err)
			books = SeedBooks()
			s.backup(ctx, data)
		}
		s.books = books
	}

	slog.Debug("Catalog initialized", "key", s.key, "books", len(s.books))
	return cloneBooks(s.books)
}

// List returns the books matching q in q's order. It never mutates the store.
func (s *Store) List(q Query) []Book {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return q.Apply(s.books)
}

// All returns the whole collection in storage order.
func (s *Store) All() []Book {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneBooks(s.books)
}

// Len returns the number of books held.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.books)
}

// Get returns the book with id.
func (s *Store) Get(id int64) (Book, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if i := s.indexOf(id); i >= 0 {
		return s.books[i], nil
	}
	return Book{}, errors.NewNotFoundError(id)
}

// Create appends a new book built from p with a fresh unique id and persists the collection.
func (s *Store) Create(ctx context.Context, p Payload) (Book, error) {
	s.mu.Lock()
	book := p.Book(s.newID())
	next := append(cloneBooks(s.books), book)
	if err := s.commit(ctx, next); err != nil {
		s.mu.Unlock()
		return Book{}, fmt.Errorf("failed to create book: %w", err)
	}
	snapshot := cloneBooks(next)
	s.mu.Unlock()

	slog.Debug("Book created", "id", book.ID, "title", book.Title)
	s.notify(ctx, snapshot)
	return book, nil
}

// Update replaces every field of the book with id by p, keeping the id, and persists the collection.
func (s *Store) Update(ctx context.Context, id int64, p Payload) (Book, error) {
	s.mu.Lock()
	i := s.indexOf(id)
	if i < 0 {
		s.mu.Unlock()
		return Book{}, errors.NewNotFoundError(id)
	}

	book := p.Book(id)
	next := cloneBooks(s.books)
	next[i] = book
	if err := s.commit(ctx, next); err != nil {
		s.mu.Unlock()
		return Book{}, fmt.Errorf("failed to update book: %w", err)
	}
	snapshot := cloneBooks(next)
	s.mu.Unlock()

	slog.Debug("Book updated", "id", id)
	s.notify(ctx, snapshot)
	return book, nil
}

// Delete removes the book with id and persists the collection.
func (s *Store) Delete(ctx context.Context, id int64) error {
	s.mu.Lock()
	i := s.indexOf(id)
	if i < 0 {
		s.mu.Unlock()
		return errors.NewNotFoundError(id)
	}

	next := make([]Book, 0, len(s.books)-1)
	next = append(next, s.books[:i]...)
	next = append(next, s.books[i+1:]...)
	if err := s.commit(ctx, next); err != nil {
		s.mu.Unlock()
		return fmt.Errorf("failed to delete book: %w", err)
	}
	snapshot := cloneBooks(next)
	s.mu.Unlock()

	slog.Debug("Book deleted", "id", id)
	s.notify(ctx, snapshot)
	return nil
}

// commit persists next and only then installs it. Callers hold s.mu.
func (s *Store) commit(ctx context.Context, next []Book) error {
	if err := s.save(ctx, next); err != nil {
		return err
	}
	s.books = next
	return nil
}

func (s *Store) save(ctx context.Context, books []Book) error {
	data, err := Encode(books)
	if err != nil {
		return err
	}
	if err := s.slot.Save(ctx, s.key, data); err != nil {
		return fmt.Errorf("failed to persist catalog: %w", err)
	}
	slog.Debug("Catalog persisted", "key", s.key, "books", len(books), "bytes", len(data))
	return nil
}

// backup copies an undecodable payload aside so the next save does not lose it.
func (s *Store) backup(ctx context.Context, data []byte) {
	key := s.key + CorruptSuffix
	if err := s.slot.Save(ctx, key, data); err != nil {
		slog.Warn("Failed to back up unparsable storage slot", "key", key, "error", err)
		return
	}
	slog.Warn("Backed up unparsable storage slot", "key", key, "bytes", len(data))
}

func (s *Store) notify(ctx context.Context, books []Book) {
	for _, h := range s.hooks {
		h(ctx, books)
	}
}

// newID returns an id not used by any held book. Callers hold s.mu.
func (s *Store) newID() int64 {
	id := s.ids.NextID()
	if s.indexOf(id) < 0 {
		return id
	}

	var maxID int64
	for _, b := range s.books {
		maxID = max(maxID, b.ID)
	}
	return maxID + 1
}

func (s *Store) indexOf(id int64) int {
	for i, b := range s.books {
		if b.ID == id {
			return i
		}
	}
	return -1
}

func cloneBooks(books []Book) []Book {
	out := make([]Book, len(books))
	copy(out, books)
	return out
}
