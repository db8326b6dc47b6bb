// Package catalog holds the book collection and keeps its storage slot in sync.
package catalog

import "strings"

// Genre is one of the fixed set of catalog genres.
type Genre string

const (
	GenreFiction    Genre = "Fiction"
	GenreNonFiction Genre = "Non-Fiction"
	GenreClassic    Genre = "Classic"
	GenreScience    Genre = "Science"
)

// Genres returns the selectable genres in form order.
func Genres() []Genre {
	return []Genre{GenreFiction, GenreNonFiction, GenreClassic, GenreScience}
}

// ParseGenre matches s case-insensitively against the known genres.
func ParseGenre(s string) (Genre, bool) {
	s = strings.TrimSpace(s)
	for _, g := range Genres() {
		if strings.EqualFold(string(g), s) {
			return g, true
		}
	}
	return "", false
}

// Valid reports whether g is one of the known genres.
func (g Genre) Valid() bool {
	for _, known := range Genres() {
		if g == known {
			return true
		}
	}
	return false
}

// Book is a single catalog record.
type Book struct {
	ID          int64   `json:"id"`
	Title       string  `json:"title"`
	Author      string  `json:"author"`
	Price       float64 `json:"price"`
	Genre       Genre   `json:"genre"`
	ISBN        string  `json:"isbn"`
	Year        int     `json:"year"`
	Description string  `json:"description"`
	Image       string  `json:"image"`
}

// Payload is every user editable field of a Book, i.e. all but the id.
type Payload struct {
	Title       string
	Author      string
	Price       float64
	Genre       Genre
	ISBN        string
	Year        int
	Description string
	Image       string
}

// Payload returns the editable fields of b.
func (b Book) Payload() Payload {
	return Payload{
		Title:       b.Title,
		Author:      b.Author,
		Price:       b.Price,
		Genre:       b.Genre,
		ISBN:        b.ISBN,
		Year:        b.Year,
		Description: b.Description,
		Image:       b.Image,
	}
}

// Book builds a Book from p carrying the given id.
func (p Payload) Book(id int64) Book {
	return Book{
		ID:          id,
		Title:       p.Title,
		Author:      p.Author,
		Price:       p.Price,
		Genre:       p.Genre,
		ISBN:        p.ISBN,
		Year:        p.Year,
		Description: p.Description,
		Image:       p.Image,
	}
}
