package catalog

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/lepinkainen/bookshop/internal/errors"
)

// Form is the add/edit form exactly as the user filled it in. Every value is
// text so that an untouched field can be told apart from a zero.
type Form struct {
	Title       string `json:"title"`
	Author      string `json:"author"`
	Price       string `json:"price"`
	Genre       string `json:"genre"`
	ISBN        string `json:"isbn"`
	Year        string `json:"year"`
	Description string `json:"description"`
	Image       string `json:"image"`
}

// FormFromBook pre-fills a form with the current values of b, as the edit dialog does.
func FormFromBook(b Book) Form {
	f := Form{
		Title:       b.Title,
		Author:      b.Author,
		Price:       strconv.FormatFloat(b.Price, 'f', -1, 64),
		Genre:       string(b.Genre),
		ISBN:        b.ISBN,
		Description: b.Description,
		Image:       b.Image,
	}
	if b.Year != 0 {
		f.Year = strconv.Itoa(b.Year)
	}
	return f
}

// UnmarshalJSON lets API clients send price and year as JSON numbers.
// Keys outside the form are rejected.
func (f *Form) UnmarshalJSON(data []byte) error {
	type formAlias Form
	aux := &struct {
		Price json.RawMessage `json:"price"`
		Year  json.RawMessage `json:"year"`
		*formAlias
	}{formAlias: (*formAlias)(f)}

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(aux); err != nil {
		return err
	}
	f.Price = rawText(aux.Price)
	f.Year = rawText(aux.Year)
	return nil
}

// Payload validates the form and converts it. Title, author, price and genre
// are required; nothing else is checked beyond being parseable.
func (f Form) Payload() (Payload, error) {
	v := errors.NewValidationError()

	title := strings.TrimSpace(f.Title)
	author := strings.TrimSpace(f.Author)
	v.Check(title != "", "title", "must be provided")
	v.Check(author != "", "author", "must be provided")

	price, err := ParsePrice(f.Price)
	if err != nil {
		v.Add("price", err.Error())
	}

	genre, ok := ParseGenre(f.Genre)
	switch {
	case strings.TrimSpace(f.Genre) == "":
		v.Add("genre", "must be provided")
	case !ok:
		v.Add("genre", genreProblem())
	}

	var year int
	if text := strings.TrimSpace(f.Year); text != "" {
		year, err = strconv.Atoi(text)
		if err != nil {
			v.Add("year", "must be a whole number")
		}
	}

	if err := v.Err(); err != nil {
		return Payload{}, err
	}

	return Payload{
		Title:       title,
		Author:      author,
		Price:       price,
		Genre:       genre,
		ISBN:        strings.TrimSpace(f.ISBN),
		Year:        year,
		Description: strings.TrimSpace(f.Description),
		Image:       strings.TrimSpace(f.Image),
	}, nil
}

// ParsePrice reads a decimal price from form text.
func ParsePrice(s string) (float64, error) {
	s = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(s), "$"))
	if s == "" {
		return 0, fmt.Errorf("must be provided")
	}
	price, err := strconv.ParseFloat(s, 64)
	if err != nil || !finite(price) {
		return 0, fmt.Errorf("must be a number")
	}
	return price, nil
}

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

// Validate checks an already typed payload for the required fields.
func Validate(p Payload) error {
	v := errors.NewValidationError()
	v.Check(strings.TrimSpace(p.Title) != "", "title", "must be provided")
	v.Check(strings.TrimSpace(p.Author) != "", "author", "must be provided")
	v.Check(finite(p.Price), "price", "must be a number")
	v.Check(p.Genre.Valid(), "genre", genreProblem())
	return v.Err()
}

func genreProblem() string {
	names := make([]string, 0, len(Genres()))
	for _, g := range Genres() {
		names = append(names, string(g))
	}
	return "must be one of " + strings.Join(names, ", ")
}
