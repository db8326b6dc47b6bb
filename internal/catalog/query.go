package catalog

import (
	"cmp"
	"fmt"
	"slices"
	"strings"
)

// SortKey selects the ascending order of a List result.
type SortKey string

const (
	SortTitle  SortKey = "title"
	SortAuthor SortKey = "author"
	SortPrice  SortKey = "price"
)

// SortKeys returns the supported sort keys in selector order.
func SortKeys() []SortKey {
	return []SortKey{SortTitle, SortPrice, SortAuthor}
}

// ParseSortKey converts user input into a SortKey. Empty input means title.
func ParseSortKey(s string) (SortKey, error) {
	switch SortKey(strings.ToLower(strings.TrimSpace(s))) {
	case "", SortTitle:
		return SortTitle, nil
	case SortAuthor:
		return SortAuthor, nil
	case SortPrice:
		return SortPrice, nil
	}
	return "", fmt.Errorf("invalid sort key %q: expected title, author or price", s)
}

// Next returns the sort key following k in selector order.
func (k SortKey) Next() SortKey {
	keys := SortKeys()
	for i, key := range keys {
		if key == k {
			return keys[(i+1)%len(keys)]
		}
	}
	return SortTitle
}

// Query is the filter and ordering applied by List.
type Query struct {
	Text     string
	PriceMin float64
	PriceMax float64
	Sort     SortKey
}

// DefaultQuery matches every book priced 0..100 ordered by title.
func DefaultQuery() Query {
	return Query{PriceMin: 0, PriceMax: 100, Sort: SortTitle}
}

// Matches reports whether b passes the text and price filters of q.
// Text matches case-insensitively as a substring of title, author or genre,
// price bounds are inclusive on both ends.
func (q Query) Matches(b Book) bool {
	if b.Price < q.PriceMin || b.Price > q.PriceMax {
		return false
	}

	needle := strings.ToLower(q.Text)
	if needle == "" {
		return true
	}
	return strings.Contains(strings.ToLower(b.Title), needle) ||
		strings.Contains(strings.ToLower(b.Author), needle) ||
		strings.Contains(strings.ToLower(string(b.Genre)), needle)
}

// Apply filters books by q and returns a freshly sorted slice. books is not modified.
func (q Query) Apply(books []Book) []Book {
	result := make([]Book, 0, len(books))
	for _, b := range books {
		if q.Matches(b) {
			result = append(result, b)
		}
	}

	slices.SortStableFunc(result, q.compare)
	return result
}

func (q Query) compare(a, b Book) int {
	switch q.Sort {
	case SortPrice:
		return cmp.Compare(a.Price, b.Price)
	case SortAuthor:
		return strings.Compare(a.Author, b.Author)
	default:
		return strings.Compare(a.Title, b.Title)
	}
}
