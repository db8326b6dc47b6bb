package obsidian

import (
	"fmt"
	"strings"

	"github.com/lepinkainen/bookshop/internal/catalog"
)

// BookNote builds the note for b. coverPath, when set, is embedded instead
// of the remote image URL.
func BookNote(b catalog.Book, coverPath string) *Note {
	fm := NewFrontmatter()
	fm.Set("title", b.Title)
	fm.SetIf("author", b.Author)
	fm.Set("price", b.Price)
	fm.SetIf("genre", string(b.Genre))
	fm.SetIf("isbn", b.ISBN)
	fm.SetIf("year", b.Year)
	fm.Set("bookshop_id", b.ID)
	fm.SetIf("cover", b.Image)
	fm.Set("tags", bookTags(b))

	var body strings.Builder
	switch {
	case coverPath != "":
		fmt.Fprintf(&body, "![[%s|250]]\n\n", coverPath)
	case b.Image != "":
		fmt.Fprintf(&body, "![](%s)\n\n", b.Image)
	}
	if b.Description != "" {
		body.WriteString(b.Description)
		body.WriteString("\n")
	}

	return &Note{Frontmatter: fm, Body: body.String()}
}

// MergeExisting carries over user added tags from an earlier version of the note.
func (n *Note) MergeExisting(existing *Note) {
	if existing == nil || existing.Frontmatter == nil {
		return
	}
	n.Frontmatter.Set("tags", MergeTags(existing.Frontmatter.Tags(), n.Frontmatter.Tags()))
}

func bookTags(b catalog.Book) []string {
	ts := NewTagSet("book")
	if b.Genre != "" {
		ts.AddFormat("genre/%s", b.Genre)
	}
	if tag := DecadeTag(b.Year); tag != "" {
		ts.Add(tag)
	}
	return ts.GetSorted()
}
