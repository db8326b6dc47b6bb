package goodreads

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/lepinkainen/bookshop/internal/catalog"
	"github.com/lepinkainen/bookshop/internal/csvutil"
)

const openLibraryCoverURL = "https://covers.openlibrary.org/b/isbn/%s-L.jpg"

var reviewReplacer = strings.NewReplacer("<br/>", "\n", "<br />", "\n", "<br>", "\n")

func parseRow(r csvutil.Record) (Row, error) {
	bookID, err := strconv.Atoi(r.Get(colBookID))
	if err != nil {
		return Row{}, fmt.Errorf("invalid book ID: %w", err)
	}

	authors := []string{}
	if author := r.Get(colAuthor); author != "" {
		authors = append(authors, author)
	}
	authors = append(authors, splitString(r.Get(colAdditionalAuthors))...)

	return Row{
		BookID:                  bookID,
		Title:                   r.Get(colTitle),
		Authors:                 authors,
		ISBN:                    sanitizeISBNValue(r.Get(colISBN)),
		ISBN13:                  sanitizeISBNValue(r.Get(colISBN13)),
		YearPublished:           parseIntField(r.Get(colYearPublished)),
		OriginalPublicationYear: parseIntField(r.Get(colOriginalYear)),
		Bookshelves:             splitString(r.Get(colBookshelves)),
		ExclusiveShelf:          r.Get(colExclusiveShelf),
		MyReview:                r.Get(colMyReview),
	}, nil
}

// Payload converts the row to a catalog payload. Goodreads has no prices, so price is 0.
func (row Row) Payload() catalog.Payload {
	p := catalog.Payload{
		Title:       strings.TrimSpace(row.Title),
		Genre:       guessGenre(append([]string{row.ExclusiveShelf}, row.Bookshelves...)),
		ISBN:        row.isbn(),
		Year:        row.OriginalPublicationYear,
		Description: strings.TrimSpace(reviewReplacer.Replace(row.MyReview)),
	}
	if len(row.Authors) > 0 {
		p.Author = row.Authors[0]
	}
	if p.Year == 0 {
		p.Year = row.YearPublished
	}
	if p.ISBN != "" {
		p.Image = fmt.Sprintf(openLibraryCoverURL, p.ISBN)
	}
	return p
}

func (row Row) isbn() string {
	if row.ISBN13 != "" {
		return row.ISBN13
	}
	return row.ISBN
}

// guessGenre maps Goodreads shelf names onto the catalog genres.
// Anything unrecognised is Fiction.
func guessGenre(shelves []string) catalog.Genre {
	var science, nonFiction bool
	for _, shelf := range shelves {
		shelf = strings.ToLower(strings.TrimSpace(shelf))
		switch {
		case shelf == "":
			continue
		case strings.Contains(shelf, "classic"):
			return catalog.GenreClassic
		case strings.Contains(shelf, "science") && !strings.Contains(shelf, "fiction"):
			science = true
		case isNonFictionShelf(shelf):
			nonFiction = true
		}
	}

	switch {
	case science:
		return catalog.GenreScience
	case nonFiction:
		return catalog.GenreNonFiction
	default:
		return catalog.GenreFiction
	}
}

func isNonFictionShelf(shelf string) bool {
	for _, marker := range []string{"non-fiction", "nonfiction", "biography", "history", "memoir", "essays"} {
		if strings.Contains(shelf, marker) {
			return true
		}
	}
	return false
}

func splitString(str string) []string {
	if str == "" {
		return nil
	}
	var result []string
	for _, s := range strings.Split(str, ",") {
		if s = strings.TrimSpace(s); s != "" {
			result = append(result, s)
		}
	}
	return result
}

func parseIntField(value string) int {
	result, err := strconv.Atoi(value)
	if err != nil {
		return 0
	}
	return result
}

// sanitizeISBNValue strips the ="..." wrapper Goodreads puts around ISBNs
func sanitizeISBNValue(value string) string {
	value = strings.TrimPrefix(value, "=")
	return strings.Trim(value, "\"")
}
