package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/lepinkainen/bookshop/internal/catalog"
)

const (
	fieldTitle = iota
	fieldAuthor
	fieldPrice
	fieldGenre
	fieldISBN
	fieldYear
	fieldDescription
	fieldImage
	fieldCount
)

var fieldKeys = [fieldCount]string{"title", "author", "price", "genre", "isbn", "year", "description", "image"}

var fieldLabels = [fieldCount]string{"Title", "Author", "Price", "Genre", "ISBN", "Year", "Description", "Image URL"}

// formAction is what a key press did to the form.
type formAction int

const (
	formEditing formAction = iota
	formSubmitted
	formCancelled
)

// bookForm is the add/edit dialog. The genre input is never typed into;
// left, right and space cycle it through the known genres.
type bookForm struct {
	id     int64
	inputs [fieldCount]textinput.Model
	focus  int
	errors map[string]string
}

func newBookForm() *bookForm {
	f := &bookForm{}
	for i := range f.inputs {
		ti := textinput.New()
		ti.Prompt = ""
		ti.CharLimit = 256
		ti.Width = 48
		f.inputs[i] = ti
	}
	f.inputs[fieldPrice].Placeholder = "0.00"
	f.inputs[fieldGenre].Placeholder = "press space to choose"
	f.inputs[fieldImage].Placeholder = "https://"
	f.inputs[fieldTitle].Focus()
	return f
}

func editBookForm(b catalog.Book) *bookForm {
	f := newBookForm()
	f.id = b.ID

	form := catalog.FormFromBook(b)
	values := [fieldCount]string{form.Title, form.Author, form.Price, form.Genre, form.ISBN, form.Year, form.Description, form.Image}
	for i, v := range values {
		f.inputs[i].SetValue(v)
	}
	return f
}

func (f *bookForm) editing() bool { return f.id != 0 }

// Form returns the current field values.
func (f *bookForm) Form() catalog.Form {
	return catalog.Form{
		Title:       f.inputs[fieldTitle].Value(),
		Author:      f.inputs[fieldAuthor].Value(),
		Price:       f.inputs[fieldPrice].Value(),
		Genre:       f.inputs[fieldGenre].Value(),
		ISBN:        f.inputs[fieldISBN].Value(),
		Year:        f.inputs[fieldYear].Value(),
		Description: f.inputs[fieldDescription].Value(),
		Image:       f.inputs[fieldImage].Value(),
	}
}

func (f *bookForm) setFocus(i int) tea.Cmd {
	f.inputs[f.focus].Blur()
	f.focus = (i + fieldCount) % fieldCount
	return f.inputs[f.focus].Focus()
}

func (f *bookForm) cycleGenre(step int) {
	genres := catalog.Genres()
	current := -1
	if g, ok := catalog.ParseGenre(f.inputs[fieldGenre].Value()); ok {
		for i, known := range genres {
			if known == g {
				current = i
			}
		}
	}

	next := current + step
	if current < 0 && step < 0 {
		next = len(genres) - 1
	}
	next = (next + len(genres)) % len(genres)
	f.inputs[fieldGenre].SetValue(string(genres[next]))
}

func (f *bookForm) update(msg tea.Msg) (formAction, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		var cmd tea.Cmd
		f.inputs[f.focus], cmd = f.inputs[f.focus].Update(msg)
		return formEditing, cmd
	}

	switch key.String() {
	case "esc":
		return formCancelled, nil
	case "ctrl+s":
		return formSubmitted, nil
	case "enter":
		if f.focus == fieldCount-1 {
			return formSubmitted, nil
		}
		return formEditing, f.setFocus(f.focus + 1)
	case "tab", "down":
		return formEditing, f.setFocus(f.focus + 1)
	case "shift+tab", "up":
		return formEditing, f.setFocus(f.focus - 1)
	}

	if f.focus == fieldGenre {
		switch key.String() {
		case "right", " ":
			f.cycleGenre(1)
		case "left":
			f.cycleGenre(-1)
		}
		return formEditing, nil
	}

	var cmd tea.Cmd
	f.inputs[f.focus], cmd = f.inputs[f.focus].Update(msg)
	return formEditing, cmd
}

func (f *bookForm) view() string {
	title := "Add Book"
	if f.editing() {
		title = "Edit Book"
	}

	rows := []string{headerStyle.Render(title)}
	for i := range f.inputs {
		label := labelStyle
		if i == f.focus {
			label = focusedLabelStyle
		}
		row := lipgloss.JoinHorizontal(lipgloss.Left, label.Render(fieldLabels[i]), f.inputs[i].View())
		if msg, ok := f.errors[fieldKeys[i]]; ok {
			row = lipgloss.JoinHorizontal(lipgloss.Left, row, "  ", errorStyle.Render(msg))
		}
		rows = append(rows, row)
	}
	rows = append(rows, helpStyle.Render("Tab/Down next | Shift+Tab/Up previous | Space cycle genre | Ctrl+S save | Esc cancel"))
	return formStyle.Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}

func (f *bookForm) errorSummary() string {
	parts := make([]string, 0, len(f.errors))
	for _, key := range fieldKeys {
		if msg, ok := f.errors[key]; ok {
			parts = append(parts, fmt.Sprintf("%s %s", key, msg))
		}
	}
	return strings.Join(parts, "; ")
}
