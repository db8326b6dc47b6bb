package tui

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/truncate"

	"github.com/lepinkainen/bookshop/internal/catalog"
)

type bookItem struct {
	catalog.Book
}

func (i bookItem) FilterValue() string { return i.Title }

type bookDelegate struct {
	styles rowStyles
}

func newDelegate() bookDelegate {
	return bookDelegate{styles: newRowStyles()}
}

func (d bookDelegate) Height() int                         { return 4 }
func (d bookDelegate) Spacing() int                        { return 0 }
func (d bookDelegate) Update(tea.Msg, *list.Model) tea.Cmd { return nil }

func (d bookDelegate) Render(w io.Writer, m list.Model, idx int, item list.Item) {
	book, ok := item.(bookItem)
	if !ok {
		return
	}

	width := m.Width() - 4
	titleLine := d.styles.title.Render(fit(book.Title, width))
	infoLine := lipgloss.JoinHorizontal(lipgloss.Left,
		d.styles.author.Render(fit(book.Author, width/2)),
		"  ",
		d.styles.price.Render(formatPrice(book.Price)),
		"  ",
		d.styles.genre.Render(fmt.Sprintf("[%s]", strings.ToUpper(string(book.Genre)))),
		"  ",
		d.coverLabel(book.Book),
	)

	container := d.styles.normal
	if idx == m.Index() {
		container = d.styles.selected
	}
	_, _ = fmt.Fprint(w, container.Render(lipgloss.JoinVertical(lipgloss.Left, titleLine, infoLine)))
}

func (d bookDelegate) coverLabel(b catalog.Book) string {
	if b.Image == "" || b.Image == catalog.PlaceholderImage {
		return d.styles.noCover.Render("no cover")
	}
	return d.styles.cover.Render("cover")
}

func formatPrice(price float64) string {
	return fmt.Sprintf("$%.2f", price)
}

// fit collapses whitespace and cuts value to width terminal cells.
func fit(value string, width int) string {
	value = strings.Join(strings.Fields(value), " ")
	if width <= 0 || lipgloss.Width(value) <= width {
		return value
	}
	if width <= 3 {
		return truncate.String(value, uint(width))
	}
	return truncate.StringWithTail(value, uint(width), "...")
}

func clamp(defaultValue, available, minimum int) int {
	size := defaultValue
	if available > 0 && available < defaultValue {
		size = available
	}
	if size < minimum {
		size = minimum
	}
	return size
}
