package tui

import (
	"context"
	"errors"
	"testing"
	"unicode/utf8"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lepinkainen/bookshop/internal/catalog"
	"github.com/lepinkainen/bookshop/internal/testutil"
)

func keyMsg(k string) tea.KeyMsg {
	switch k {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "shift+tab":
		return tea.KeyMsg{Type: tea.KeyShiftTab}
	case "left":
		return tea.KeyMsg{Type: tea.KeyLeft}
	case "right":
		return tea.KeyMsg{Type: tea.KeyRight}
	case "ctrl+s":
		return tea.KeyMsg{Type: tea.KeyCtrlS}
	case "ctrl+c":
		return tea.KeyMsg{Type: tea.KeyCtrlC}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
}

func press(m *model, keys ...string) tea.Cmd {
	var cmd tea.Cmd
	for _, k := range keys {
		_, cmd = m.Update(keyMsg(k))
	}
	return cmd
}

func titles(m *model) []string {
	var out []string
	for _, item := range m.list.Items() {
		out = append(out, item.(bookItem).Title)
	}
	return out
}

func newTestModel(t *testing.T) (*model, *catalog.Store, *testutil.MemorySlot) {
	t.Helper()
	store, s := testutil.NewCatalog(t)
	return newModel(context.Background(), store), store, s
}

func TestModelListsSeedByTitle(t *testing.T) {
	m, _, _ := newTestModel(t)

	assert.Equal(t, []string{"The Great Gatsby", "To Kill a Mockingbird"}, titles(m))
	view := m.View()
	assert.Contains(t, view, "The Great Gatsby")
	assert.Contains(t, view, "$24.99")
	assert.Contains(t, view, "[CLASSIC]")
	assert.Contains(t, view, "Sort: title")
}

func TestSearch(t *testing.T) {
	m, _, _ := newTestModel(t)

	press(m, "/", "atsb")
	assert.Equal(t, modeSearch, m.mode)
	assert.Equal(t, []string{"The Great Gatsby"}, titles(m))

	press(m, "enter")
	assert.Equal(t, modeBrowse, m.mode)
	assert.Equal(t, "atsb", m.query.Text)

	press(m, "esc")
	assert.Empty(t, m.query.Text)
	assert.Len(t, titles(m), 2)
}

func TestSearchTypingDoesNotTriggerCommands(t *testing.T) {
	m, store, _ := newTestModel(t)

	press(m, "/", "dq")
	assert.Equal(t, modeSearch, m.mode)
	assert.Equal(t, "dq", m.query.Text)
	assert.Empty(t, titles(m))
	assert.Equal(t, 2, store.Len())
}

func TestPriceRangeKeys(t *testing.T) {
	m, _, _ := newTestModel(t)

	press(m, "]", "]", "]", "]")
	assert.Equal(t, 20.0, m.query.PriceMin)
	assert.Equal(t, []string{"To Kill a Mockingbird"}, titles(m))

	press(m, "[", "[", "[", "[", "[")
	assert.Equal(t, 0.0, m.query.PriceMin, "min never drops below zero")

	for range 16 {
		press(m, "{")
	}
	assert.Equal(t, 20.0, m.query.PriceMax)
	assert.Equal(t, []string{"The Great Gatsby"}, titles(m))

	press(m, "}")
	assert.Equal(t, 25.0, m.query.PriceMax)
	assert.Len(t, titles(m), 2)
}

func TestPriceMinStopsAtMax(t *testing.T) {
	m, _, _ := newTestModel(t)
	m.query.PriceMax = 10

	press(m, "]", "]", "]")
	assert.Equal(t, 10.0, m.query.PriceMin)
}

func TestSortCycles(t *testing.T) {
	m, store, _ := newTestModel(t)
	_, err := store.Create(context.Background(), catalog.Payload{Title: "A Brief History of Time", Author: "Stephen Hawking", Price: 30, Genre: catalog.GenreScience})
	require.NoError(t, err)
	m.refresh()

	press(m, "s")
	assert.Equal(t, catalog.SortPrice, m.query.Sort)
	assert.Equal(t, []string{"The Great Gatsby", "To Kill a Mockingbird", "A Brief History of Time"}, titles(m))

	press(m, "s")
	assert.Equal(t, catalog.SortAuthor, m.query.Sort)
	assert.Equal(t, []string{"The Great Gatsby", "To Kill a Mockingbird", "A Brief History of Time"}, titles(m))

	press(m, "s")
	assert.Equal(t, catalog.SortTitle, m.query.Sort)
	assert.Equal(t, "A Brief History of Time", titles(m)[0])
}

func TestAddBook(t *testing.T) {
	m, store, s := newTestModel(t)

	press(m, "a")
	require.Equal(t, modeForm, m.mode)
	assert.Contains(t, m.View(), "Add Book")

	press(m, "Dune", "tab", "Frank Herbert", "tab", "9.99", "tab", " ", "ctrl+s")

	assert.Equal(t, modeBrowse, m.mode)
	assert.Nil(t, m.form)
	assert.Equal(t, `Added "Dune"`, m.status)
	assert.Equal(t, 3, store.Len())
	assert.Contains(t, s.Raw(catalog.DefaultKey), "Frank Herbert")

	book, ok := m.selected()
	require.True(t, ok)
	assert.Equal(t, "Dune", book.Title)
	assert.Equal(t, catalog.GenreFiction, book.Genre)
	assert.Equal(t, 9.99, book.Price)
}

func TestAddBookEnterOnLastFieldSubmits(t *testing.T) {
	m, store, _ := newTestModel(t)

	press(m, "a", "Emma", "enter", "Jane Austen", "enter", "4", "enter", "right", "right", "right")
	assert.Equal(t, string(catalog.GenreClassic), m.form.inputs[fieldGenre].Value())

	press(m, "enter", "enter", "enter", "enter")
	assert.Equal(t, fieldImage, m.form.focus)

	press(m, "enter")
	assert.Equal(t, modeBrowse, m.mode)
	assert.Equal(t, 3, store.Len())
}

func TestAddBookValidationBlocks(t *testing.T) {
	m, store, _ := newTestModel(t)

	press(m, "a", "ctrl+s")

	require.Equal(t, modeForm, m.mode)
	assert.Equal(t, "must be provided", m.form.errors["title"])
	assert.Equal(t, "must be provided", m.form.errors["author"])
	assert.Equal(t, "must be provided", m.form.errors["price"])
	assert.Equal(t, "must be provided", m.form.errors["genre"])
	assert.Contains(t, m.status, "title must be provided")
	assert.Contains(t, m.View(), "must be provided")
	assert.Equal(t, 2, store.Len())
}

func TestAddBookSaveFailureKeepsForm(t *testing.T) {
	m, store, s := newTestModel(t)
	s.SaveErr = errors.New("disk full")

	press(m, "a", "Dune", "tab", "Frank Herbert", "tab", "9.99", "tab", " ", "ctrl+s")

	assert.Equal(t, modeForm, m.mode)
	assert.Contains(t, m.status, "disk full")
	assert.Equal(t, 2, store.Len())
}

func TestFormEscCancels(t *testing.T) {
	m, store, _ := newTestModel(t)

	press(m, "a", "Dune", "esc")
	assert.Equal(t, modeBrowse, m.mode)
	assert.Equal(t, "Edit cancelled", m.status)
	assert.Equal(t, 2, store.Len())
}

func TestGenreCycling(t *testing.T) {
	f := newBookForm()
	f.setFocus(fieldGenre)

	f.update(keyMsg("left"))
	assert.Equal(t, string(catalog.GenreScience), f.inputs[fieldGenre].Value())

	f.update(keyMsg("right"))
	assert.Equal(t, string(catalog.GenreFiction), f.inputs[fieldGenre].Value())

	f.update(keyMsg("x"))
	assert.Equal(t, string(catalog.GenreFiction), f.inputs[fieldGenre].Value(), "genre ignores typing")
}

func TestEditBook(t *testing.T) {
	m, store, _ := newTestModel(t)

	press(m, "e")
	require.Equal(t, modeForm, m.mode)
	assert.Equal(t, int64(1), m.form.id)
	assert.Equal(t, "The Great Gatsby", m.form.inputs[fieldTitle].Value())
	assert.Equal(t, "19.99", m.form.inputs[fieldPrice].Value())
	assert.Equal(t, "1925", m.form.inputs[fieldYear].Value())
	assert.Contains(t, m.View(), "Edit Book")

	m.form.inputs[fieldPrice].SetValue("5")
	press(m, "ctrl+s")

	assert.Equal(t, modeBrowse, m.mode)
	assert.Equal(t, `Saved "The Great Gatsby"`, m.status)

	got, err := store.Get(1)
	require.NoError(t, err)
	assert.Equal(t, 5.0, got.Price)
	assert.Equal(t, "978-0743273565", got.ISBN)
	assert.Equal(t, 2, store.Len())
}

func TestDeleteConfirmation(t *testing.T) {
	m, store, _ := newTestModel(t)

	press(m, "d")
	require.Equal(t, modeConfirm, m.mode)
	assert.Contains(t, m.View(), `Delete "The Great Gatsby"? y/n`)

	press(m, "x")
	assert.Equal(t, modeConfirm, m.mode, "other keys are ignored")

	press(m, "n")
	assert.Equal(t, modeBrowse, m.mode)
	assert.Equal(t, "Delete cancelled", m.status)
	assert.Equal(t, 2, store.Len())

	press(m, "d", "y")
	assert.Equal(t, modeBrowse, m.mode)
	assert.Equal(t, `Deleted "The Great Gatsby"`, m.status)
	assert.Equal(t, []string{"To Kill a Mockingbird"}, titles(m))

	_, err := store.Get(1)
	assert.Error(t, err)
}

func TestDeleteLastItemKeepsSelection(t *testing.T) {
	m, _, _ := newTestModel(t)

	m.list.Select(1)
	press(m, "d", "y")

	book, ok := m.selected()
	require.True(t, ok)
	assert.Equal(t, "The Great Gatsby", book.Title)
}

func TestEditAndDeleteWithoutSelection(t *testing.T) {
	m, _, _ := newTestModel(t)
	press(m, "/", "orwell", "enter")
	require.Empty(t, titles(m))

	press(m, "e")
	assert.Equal(t, modeBrowse, m.mode)
	press(m, "d")
	assert.Equal(t, modeBrowse, m.mode)
}

func TestQuit(t *testing.T) {
	m, _, _ := newTestModel(t)

	cmd := press(m, "q")
	require.NotNil(t, cmd)
	assert.Equal(t, tea.Quit(), cmd())
}

func TestWindowResize(t *testing.T) {
	m, _, _ := newTestModel(t)

	m.Update(tea.WindowSizeMsg{Width: 50, Height: 20})
	assert.Equal(t, 46, m.list.Width())
	assert.Equal(t, 12, m.list.Height())
}

func TestRun(t *testing.T) {
	original := runProgram
	t.Cleanup(func() { runProgram = original })

	store, _ := testutil.NewCatalog(t)

	var started *model
	runProgram = func(tm tea.Model) (tea.Model, error) {
		started = tm.(*model)
		return tm, nil
	}
	require.NoError(t, Run(context.Background(), store))
	require.NotNil(t, started)
	assert.Len(t, started.list.Items(), 2)

	runProgram = func(tea.Model) (tea.Model, error) { return nil, errors.New("no tty") }
	err := Run(context.Background(), store)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no tty")
}

func TestFitKeepsRunesWhole(t *testing.T) {
	tests := []struct {
		name  string
		value string
		width int
		want  string
	}{
		{name: "fits", value: "Dune", width: 10, want: "Dune"},
		{name: "collapses whitespace", value: "  The   Hobbit ", width: 20, want: "The Hobbit"},
		{name: "ascii", value: "The Great Gatsby", width: 10, want: "The Gre..."},
		{name: "accented", value: "Seitsemän veljestä", width: 12, want: "Seitsemän..."},
		{name: "narrow", value: "Äiti", width: 2, want: "Äi"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := fit(tt.value, tt.width)
			assert.Equal(t, tt.want, got)
			assert.True(t, utf8.ValidString(got))
		})
	}
}
