package testutil

import (
	"context"
	"sync"
	"testing"

	"github.com/lepinkainen/bookshop/internal/catalog"
)

// MemorySlot is a catalog.Slot that keeps payloads in a map.
// SaveErr, when set, is returned by every Save.
type MemorySlot struct {
	mu      sync.Mutex
	data    map[string][]byte
	SaveErr error
	Saves   int
}

// NewMemorySlot returns an empty slot.
func NewMemorySlot() *MemorySlot {
	return &MemorySlot{data: make(map[string][]byte)}
}

// Load implements catalog.Slot.
func (m *MemorySlot) Load(_ context.Context, key string) ([]byte, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	data, ok := m.data[key]
	return data, ok, nil
}

// Save implements catalog.Slot.
func (m *MemorySlot) Save(_ context.Context, key string, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.SaveErr != nil {
		return m.SaveErr
	}
	m.Saves++
	m.data[key] = append([]byte(nil), data...)
	return nil
}

// Raw returns the stored payload for key.
func (m *MemorySlot) Raw(key string) string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return string(m.data[key])
}

// NewCatalog returns an initialized store over a fresh MemorySlot.
// With no books the store holds the seed catalog. IDs are handed out
// sequentially starting at 100.
func NewCatalog(t *testing.T, books ...catalog.Book) (*catalog.Store, *MemorySlot) {
	t.Helper()

	s := NewMemorySlot()
	if len(books) > 0 {
		data, err := catalog.Encode(books)
		if err != nil {
			t.Fatalf("failed to encode books: %v", err)
		}
		s.data[catalog.DefaultKey] = data
	}

	next := int64(99)
	store := catalog.New(s, catalog.WithIDSource(catalog.IDFunc(func() int64 {
		next++
		return next
	})))
	store.Initialize(context.Background())
	return store, s
}
