// Package tui is the interactive terminal browser for the catalog.
package tui

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/lepinkainen/bookshop/internal/catalog"
	"github.com/lepinkainen/bookshop/internal/errors"
)

const priceStep = 5

var runProgram = func(m tea.Model) (tea.Model, error) {
	return tea.NewProgram(m, tea.WithAltScreen()).Run()
}

// Catalog is the store the browser reads and mutates.
type Catalog interface {
	List(q catalog.Query) []catalog.Book
	Create(ctx context.Context, p catalog.Payload) (catalog.Book, error)
	Update(ctx context.Context, id int64, p catalog.Payload) (catalog.Book, error)
	Delete(ctx context.Context, id int64) error
}

type mode int

const (
	modeBrowse mode = iota
	modeSearch
	modeForm
	modeConfirm
)

type model struct {
	ctx     context.Context
	store   Catalog
	query   catalog.Query
	list    list.Model
	search  textinput.Model
	form    *bookForm
	mode    mode
	pending catalog.Book
	status  string
}

func newModel(ctx context.Context, store Catalog) *model {
	l := list.New(nil, newDelegate(), defaultListWidth, defaultListHeight)
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(false)
	l.SetShowHelp(false)
	l.SetShowTitle(false)
	l.DisableQuitKeybindings()
	l.Styles.NoItems = lipgloss.NewStyle().Foreground(lipgloss.Color("244"))

	search := textinput.New()
	search.Prompt = "/ "
	search.Placeholder = "search title, author or genre"
	search.CharLimit = 128

	m := &model{
		ctx:    ctx,
		store:  store,
		query:  catalog.DefaultQuery(),
		list:   l,
		search: search,
	}
	m.refresh()
	return m
}

// refresh re-runs the query against the store.
func (m *model) refresh() {
	books := m.store.List(m.query)
	items := make([]list.Item, len(books))
	for i, b := range books {
		items[i] = bookItem{Book: b}
	}
	m.list.SetItems(items)
	if n := len(items); n > 0 && m.list.Index() >= n {
		m.list.Select(n - 1)
	}
}

func (m *model) selected() (catalog.Book, bool) {
	item, ok := m.list.SelectedItem().(bookItem)
	return item.Book, ok
}

func (m *model) selectID(id int64) {
	for i, item := range m.list.Items() {
		if b, ok := item.(bookItem); ok && b.ID == id {
			m.list.Select(i)
			return
		}
	}
}

func (m *model) Init() tea.Cmd { return nil }

func (m *model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if size, ok := msg.(tea.WindowSizeMsg); ok {
		width := clamp(defaultListWidth, size.Width-4, 40)
		height := clamp(defaultListHeight, size.Height-8, 4)
		m.list.SetSize(width, height)
		return m, nil
	}

	switch m.mode {
	case modeSearch:
		return m.updateSearch(msg)
	case modeForm:
		return m.updateForm(msg)
	case modeConfirm:
		return m.updateConfirm(msg)
	}

	if key, ok := msg.(tea.KeyMsg); ok {
		if cmd, handled := m.handleBrowseKey(key); handled {
			return m, cmd
		}
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m *model) handleBrowseKey(key tea.KeyMsg) (tea.Cmd, bool) {
	switch key.String() {
	case "ctrl+c", "q":
		return tea.Quit, true
	case "/":
		m.mode = modeSearch
		return m.search.Focus(), true
	case "esc":
		if m.query.Text == "" {
			return nil, true
		}
		m.search.SetValue("")
		m.query.Text = ""
	case "[":
		m.query.PriceMin = max(0, m.query.PriceMin-priceStep)
	case "]":
		m.query.PriceMin = min(m.query.PriceMax, m.query.PriceMin+priceStep)
	case "{":
		m.query.PriceMax = max(m.query.PriceMin, m.query.PriceMax-priceStep)
	case "}":
		m.query.PriceMax += priceStep
	case "s":
		m.query.Sort = m.query.Sort.Next()
	case "a":
		m.form = newBookForm()
		m.mode = modeForm
		m.status = ""
		return textinput.Blink, true
	case "e":
		book, ok := m.selected()
		if !ok {
			return nil, true
		}
		m.form = editBookForm(book)
		m.mode = modeForm
		m.status = ""
		return textinput.Blink, true
	case "d":
		book, ok := m.selected()
		if !ok {
			return nil, true
		}
		m.pending = book
		m.mode = modeConfirm
		return nil, true
	default:
		return nil, false
	}

	m.refresh()
	return nil, true
}

func (m *model) updateSearch(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.String() {
		case "enter":
			m.search.Blur()
			m.mode = modeBrowse
			return m, nil
		case "esc":
			m.search.Blur()
			m.search.SetValue("")
			m.query.Text = ""
			m.mode = modeBrowse
			m.refresh()
			return m, nil
		case "ctrl+c":
			return m, tea.Quit
		}
	}

	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)
	if m.search.Value() != m.query.Text {
		m.query.Text = m.search.Value()
		m.refresh()
	}
	return m, cmd
}

func (m *model) updateConfirm(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch key.String() {
	case "y", "Y":
		if err := m.store.Delete(m.ctx, m.pending.ID); err != nil {
			slog.Error("Failed to delete book", "id", m.pending.ID, "error", err)
			m.status = fmt.Sprintf("Delete failed: %v", err)
		} else {
			m.status = fmt.Sprintf("Deleted %q", m.pending.Title)
		}
	case "n", "N", "esc":
		m.status = "Delete cancelled"
	case "ctrl+c":
		return m, tea.Quit
	default:
		return m, nil
	}

	m.pending = catalog.Book{}
	m.mode = modeBrowse
	m.refresh()
	return m, nil
}

func (m *model) updateForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok && key.String() == "ctrl+c" {
		return m, tea.Quit
	}

	action, cmd := m.form.update(msg)
	switch action {
	case formCancelled:
		m.closeForm("Edit cancelled")
	case formSubmitted:
		m.submitForm()
	}
	return m, cmd
}

// submitForm validates the form and saves it. The form stays open on failure.
func (m *model) submitForm() {
	payload, err := m.form.Form().Payload()
	if verr, ok := errors.AsValidationError(err); ok {
		m.form.errors = verr.Fields
		m.status = "Please fix: " + m.form.errorSummary()
		return
	}
	if err != nil {
		m.status = err.Error()
		return
	}

	var book catalog.Book
	if m.form.editing() {
		book, err = m.store.Update(m.ctx, m.form.id, payload)
	} else {
		book, err = m.store.Create(m.ctx, payload)
	}
	if err != nil {
		slog.Error("Failed to save book", "title", payload.Title, "error", err)
		m.form.errors = nil
		m.status = fmt.Sprintf("Save failed: %v", err)
		return
	}

	verb := "Added"
	if m.form.editing() {
		verb = "Saved"
	}
	m.closeForm(fmt.Sprintf("%s %q", verb, book.Title))
	m.selectID(book.ID)
}

func (m *model) closeForm(status string) {
	m.form = nil
	m.mode = modeBrowse
	m.status = status
	m.refresh()
}

func (m *model) View() string {
	if m.mode == modeForm {
		return lipgloss.JoinVertical(lipgloss.Left, m.form.view(), statusStyle.Render(m.status))
	}

	header := headerStyle.Render(fmt.Sprintf("Bookshop (%d books)", len(m.list.Items())))
	filters := filterStyle.Render(fmt.Sprintf("Price $%.0f-$%.0f | Sort: %s", m.query.PriceMin, m.query.PriceMax, m.query.Sort))

	parts := []string{header, m.search.View(), filters, m.list.View()}
	switch {
	case m.mode == modeConfirm:
		parts = append(parts, confirmStyle.Render(fmt.Sprintf(" Delete %q? y/n ", m.pending.Title)))
	case m.status != "":
		parts = append(parts, statusStyle.Render(m.status))
	}
	parts = append(parts, helpStyle.Render("/ search | [ ] min price | { } max price | s sort | a add | e edit | d delete | q quit"))
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

// Run starts the browser over store and blocks until the user quits.
func Run(ctx context.Context, store Catalog) error {
	finalModel, err := runProgram(newModel(ctx, store))
	if err != nil {
		return fmt.Errorf("failed to run browser: %w", err)
	}
	if _, ok := finalModel.(*model); !ok {
		return fmt.Errorf("unexpected program result")
	}
	return nil
}
