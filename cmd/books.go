package cmd

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"strings"
	"text/tabwriter"

	"github.com/lepinkainen/bookshop/internal/catalog"
	"github.com/lepinkainen/bookshop/internal/config"
	"github.com/lepinkainen/bookshop/internal/errors"
)

// ListCmd lists books matching a query
type ListCmd struct {
	Search string  `short:"s" help:"Case-insensitive text matched against title, author and genre"`
	Min    float64 `help:"Lowest price to include" default:"0"`
	Max    float64 `help:"Highest price to include" default:"100"`
	Sort   string  `help:"Sort key (title, author, price)" enum:"title,author,price" default:"title"`
	JSON   bool    `help:"Print the books as JSON"`
}

// ShowCmd prints one book
type ShowCmd struct {
	ID   int64 `arg:"" help:"Book id"`
	JSON bool  `help:"Print the book as JSON"`
}

// BookFlags are the editable fields of a book. Numbers are taken as text so
// that edit can tell an omitted flag from a zero.
type BookFlags struct {
	Title       string `help:"Book title"`
	Author      string `help:"Book author"`
	Price       string `help:"Price, e.g. 19.99"`
	Genre       string `help:"Genre (Fiction, Non-Fiction, Classic, Science)"`
	ISBN        string `help:"ISBN"`
	Year        string `help:"Publication year"`
	Description string `help:"Short description"`
	Image       string `help:"Cover image URL"`
}

// AddCmd adds a book
type AddCmd struct {
	BookFlags `embed:""`
}

// EditCmd replaces the fields of a book
type EditCmd struct {
	ID        int64 `arg:"" help:"Book id"`
	BookFlags `embed:""`
}

// DeleteCmd deletes a book after confirmation
type DeleteCmd struct {
	ID  int64 `arg:"" help:"Book id"`
	Yes bool  `short:"y" help:"Delete without asking for confirmation"`
}

// ResetCmd removes the stored catalog
type ResetCmd struct {
	Yes bool `short:"y" help:"Reset without asking for confirmation"`
}

func (l *ListCmd) Run(app *appContext) error {
	sort, err := catalog.ParseSortKey(l.Sort)
	if err != nil {
		return err
	}
	if math.IsNaN(l.Min) || math.IsNaN(l.Max) {
		return fmt.Errorf("--min and --max must be numbers")
	}
	if l.Min > l.Max {
		return fmt.Errorf("--min (%g) must not be greater than --max (%g)", l.Min, l.Max)
	}

	store, closeStore, err := app.open()
	if err != nil {
		return err
	}
	defer closeStore()

	books := store.List(catalog.Query{Text: l.Search, PriceMin: l.Min, PriceMax: l.Max, Sort: sort})
	if l.JSON {
		return writeJSON(app.out, books)
	}
	return writeTable(app.out, books)
}

func (s *ShowCmd) Run(app *appContext) error {
	store, closeStore, err := app.open()
	if err != nil {
		return err
	}
	defer closeStore()

	book, err := store.Get(s.ID)
	if err != nil {
		return err
	}
	if s.JSON {
		return writeJSON(app.out, book)
	}
	return writeBook(app.out, book)
}

func (f BookFlags) form() catalog.Form {
	return catalog.Form{
		Title:       f.Title,
		Author:      f.Author,
		Price:       f.Price,
		Genre:       f.Genre,
		ISBN:        f.ISBN,
		Year:        f.Year,
		Description: f.Description,
		Image:       f.Image,
	}
}

// applyTo overrides the fields of form that were given on the command line.
func (f BookFlags) applyTo(form catalog.Form) catalog.Form {
	set := func(dst *string, v string) {
		if v != "" {
			*dst = v
		}
	}
	set(&form.Title, f.Title)
	set(&form.Author, f.Author)
	set(&form.Price, f.Price)
	set(&form.Genre, f.Genre)
	set(&form.ISBN, f.ISBN)
	set(&form.Year, f.Year)
	set(&form.Description, f.Description)
	set(&form.Image, f.Image)
	return form
}

func (a *AddCmd) Run(app *appContext) error {
	payload, err := a.form().Payload()
	if err != nil {
		return err
	}

	store, closeStore, err := app.open()
	if err != nil {
		return err
	}
	defer closeStore()

	book, err := store.Create(app.ctx, payload)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(app.out, "Added book %d: %s\n", book.ID, book.Title)
	return err
}

func (e *EditCmd) Run(app *appContext) error {
	store, closeStore, err := app.open()
	if err != nil {
		return err
	}
	defer closeStore()

	current, err := store.Get(e.ID)
	if err != nil {
		return err
	}

	payload, err := e.applyTo(catalog.FormFromBook(current)).Payload()
	if err != nil {
		return err
	}

	book, err := store.Update(app.ctx, e.ID, payload)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(app.out, "Updated book %d: %s\n", book.ID, book.Title)
	return err
}

func (d *DeleteCmd) Run(app *appContext) error {
	store, closeStore, err := app.open()
	if err != nil {
		return err
	}
	defer closeStore()

	book, err := store.Get(d.ID)
	if err != nil {
		return err
	}

	if !d.Yes {
		ok, err := confirm(app, fmt.Sprintf("Delete %q by %s?", book.Title, book.Author))
		if err != nil {
			return err
		}
		if !ok {
			return errors.NewCancelledError("delete")
		}
	}

	if err := store.Delete(app.ctx, d.ID); err != nil {
		return err
	}
	_, err = fmt.Fprintf(app.out, "Deleted book %d: %s\n", book.ID, book.Title)
	return err
}

func (r *ResetCmd) Run(app *appContext) error {
	if !r.Yes {
		ok, err := confirm(app, "Discard every stored book and restore the seed list?")
		if err != nil {
			return err
		}
		if !ok {
			return errors.NewCancelledError("reset")
		}
	}

	s, err := app.openSlot()
	if err != nil {
		return err
	}
	defer func() { _ = s.Close() }()

	key := config.SlotKey
	if key == "" {
		key = catalog.DefaultKey
	}
	removed, err := s.Delete(app.ctx, key)
	if err != nil {
		return fmt.Errorf("failed to reset catalog: %w", err)
	}
	if !removed {
		_, err = fmt.Fprintln(app.out, "Nothing stored yet")
		return err
	}
	_, err = fmt.Fprintln(app.out, "Catalog reset")
	return err
}

// confirm asks a yes/no question on app.in. Anything but y or yes is a no.
func confirm(app *appContext, question string) (bool, error) {
	if _, err := fmt.Fprintf(app.out, "%s [y/N]: ", question); err != nil {
		return false, err
	}

	answer, err := bufio.NewReader(app.in).ReadString('\n')
	if err != nil && err != io.EOF {
		return false, fmt.Errorf("failed to read answer: %w", err)
	}
	switch strings.ToLower(strings.TrimSpace(answer)) {
	case "y", "yes":
		return true, nil
	}
	return false, nil
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func writeTable(w io.Writer, books []catalog.Book) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tTITLE\tAUTHOR\tPRICE\tGENRE")
	for _, b := range books {
		fmt.Fprintf(tw, "%d\t%s\t%s\t$%.2f\t%s\n", b.ID, b.Title, b.Author, b.Price, b.Genre)
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "%d books\n", len(books))
	return err
}

func writeBook(w io.Writer, b catalog.Book) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	rows := [][2]string{
		{"ID", fmt.Sprint(b.ID)},
		{"Title", b.Title},
		{"Author", b.Author},
		{"Price", fmt.Sprintf("$%.2f", b.Price)},
		{"Genre", string(b.Genre)},
		{"ISBN", b.ISBN},
		{"Year", yearText(b.Year)},
		{"Description", b.Description},
		{"Image", b.Image},
	}
	for _, row := range rows {
		fmt.Fprintf(tw, "%s:\t%s\n", row[0], row[1])
	}
	return tw.Flush()
}

func yearText(year int) string {
	if year == 0 {
		return ""
	}
	return fmt.Sprint(year)
}
