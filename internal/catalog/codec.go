package catalog

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Encode serializes the whole collection into the storage slot format.
func Encode(books []Book) ([]byte, error) {
	if books == nil {
		books = []Book{}
	}
	data, err := json.Marshal(books)
	if err != nil {
		return nil, fmt.Errorf("failed to encode catalog: %w", err)
	}
	return data, nil
}

// Decode parses a storage slot value. A JSON null is rejected so callers fall
// back to the seed list instead of installing a nil collection.
func Decode(data []byte) ([]Book, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return nil, fmt.Errorf("failed to decode catalog: empty payload")
	}

	var books []Book
	if err := json.Unmarshal(trimmed, &books); err != nil {
		return nil, fmt.Errorf("failed to decode catalog: %w", err)
	}
	if books == nil {
		books = []Book{}
	}
	return books, nil
}

// UnmarshalJSON accepts numbers written either as JSON numbers or as the raw
// form strings older browser payloads stored ("19.99", "1925", "").
func (b *Book) UnmarshalJSON(data []byte) error {
	type bookAlias Book
	aux := &struct {
		ID    json.RawMessage `json:"id"`
		Price json.RawMessage `json:"price"`
		Year  json.RawMessage `json:"year"`
		*bookAlias
	}{bookAlias: (*bookAlias)(b)}

	if err := json.Unmarshal(data, aux); err != nil {
		return err
	}

	id, err := flexInt(aux.ID)
	if err != nil {
		return fmt.Errorf("invalid id: %w", err)
	}
	b.ID = id
	b.Price = flexFloat(aux.Price)
	b.Year = int(flexFloat(aux.Year))
	return nil
}

// rawText returns the textual content of a JSON scalar, unquoting strings.
func rawText(raw json.RawMessage) string {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return ""
	}
	if raw[0] == '"' {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return ""
		}
		return strings.TrimSpace(s)
	}
	return string(raw)
}

func flexFloat(raw json.RawMessage) float64 {
	text := rawText(raw)
	if text == "" {
		return 0
	}
	f, err := strconv.ParseFloat(text, 64)
	if err != nil {
		return 0
	}
	return f
}

// flexInt is strict: an id that cannot be read would break uniqueness.
func flexInt(raw json.RawMessage) (int64, error) {
	text := rawText(raw)
	if text == "" {
		return 0, fmt.Errorf("missing")
	}
	if id, err := strconv.ParseInt(text, 10, 64); err == nil {
		return id, nil
	}
	f, err := strconv.ParseFloat(text, 64)
	if err != nil {
		return 0, err
	}
	return int64(f), nil
}
