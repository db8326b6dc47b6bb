package obsidian

import (
	"testing"

	"github.com/lepinkainen/bookshop/internal/catalog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeTag(t *testing.T) {
	testCases := []struct {
		input    string
		expected string
	}{
		{input: "book", expected: "book"},
		{input: "#book", expected: "book"},
		{input: "  science fiction  ", expected: "science-fiction"},
		{input: "genre/Non-Fiction", expected: "genre/Non-Fiction"},
		{input: "sword & sorcery", expected: "sword-and-sorcery"},
		{input: "a -- b", expected: "a-b"},
		{input: "#", expected: ""},
		{input: "", expected: ""},
	}

	for _, tc := range testCases {
		t.Run(tc.input, func(t *testing.T) {
			assert.Equal(t, tc.expected, NormalizeTag(tc.input))
		})
	}
}

func TestTagSet(t *testing.T) {
	ts := NewTagSet("book", "#book", "")
	ts.AddFormat("year/%ds", 1960)
	ts.Add("genre/Fiction")

	assert.Equal(t, []string{"book", "genre/Fiction", "year/1960s"}, ts.GetSorted())
}

func TestMergeTags(t *testing.T) {
	got := MergeTags([]string{"to-read", "book"}, []string{"book", "genre/Classic"})
	assert.Equal(t, []string{"book", "genre/Classic", "to-read"}, got)
}

func TestTagsFromAny(t *testing.T) {
	assert.Equal(t, []string{"a", "b"}, TagsFromAny([]string{"a", "", "b"}))
	assert.Equal(t, []string{"a"}, TagsFromAny([]any{"a", 3, ""}))
	assert.Equal(t, []string{}, TagsFromAny(nil))
	assert.Equal(t, []string{}, TagsFromAny("book"))
}

func TestDecadeTag(t *testing.T) {
	assert.Equal(t, "year/1920s", DecadeTag(1925))
	assert.Equal(t, "year/2000s", DecadeTag(2000))
	assert.Equal(t, "", DecadeTag(0))
}

func TestFrontmatterKeysSorted(t *testing.T) {
	fm := NewFrontmatter()
	fm.Set("title", "Dune")
	fm.Set("author", "Frank Herbert")
	fm.Set("price", 9.99)
	fm.Set("title", "Dune Messiah")
	fm.SetIf("isbn", "")
	fm.SetIf("year", 0)

	assert.Equal(t, []string{"author", "price", "title"}, fm.Keys())
	assert.Equal(t, "Dune Messiah", fm.GetString("title"))
	assert.Equal(t, "", fm.GetString("price"))
}

func TestNoteBuild(t *testing.T) {
	fm := NewFrontmatter()
	fm.Set("title", "Dune")
	fm.Set("tags", []string{"book", "genre/Fiction"})

	out, err := (&Note{Frontmatter: fm, Body: "\nSpice.\n\n"}).Build()
	require.NoError(t, err)

	expected := "---\ntags: [book, genre/Fiction]\ntitle: Dune\n---\n\nSpice.\n"
	assert.Equal(t, expected, string(out))
}

func TestNoteBuildWithoutFrontmatter(t *testing.T) {
	out, err := (&Note{Frontmatter: NewFrontmatter(), Body: "just text"}).Build()
	require.NoError(t, err)
	assert.Equal(t, "just text\n", string(out))
}

func TestParseMarkdown(t *testing.T) {
	t.Run("with frontmatter", func(t *testing.T) {
		note, err := ParseMarkdown([]byte("---\ntitle: Dune\ntags: [book, to-read]\n---\n\nBody text\n"))
		require.NoError(t, err)
		assert.Equal(t, "Dune", note.Frontmatter.GetString("title"))
		assert.Equal(t, []string{"book", "to-read"}, note.Frontmatter.Tags())
		assert.Equal(t, "Body text\n", note.Body)
	})

	t.Run("crlf", func(t *testing.T) {
		note, err := ParseMarkdown([]byte("---\r\ntitle: Dune\r\n---\r\nBody\r\n"))
		require.NoError(t, err)
		assert.Equal(t, "Dune", note.Frontmatter.GetString("title"))
		assert.Equal(t, "Body\n", note.Body)
	})

	t.Run("no frontmatter", func(t *testing.T) {
		note, err := ParseMarkdown([]byte("# Heading\n"))
		require.NoError(t, err)
		assert.Empty(t, note.Frontmatter.Keys())
		assert.Equal(t, "# Heading\n", note.Body)
	})

	t.Run("unterminated", func(t *testing.T) {
		note, err := ParseMarkdown([]byte("---\ntitle: Dune\n"))
		require.NoError(t, err)
		assert.Empty(t, note.Frontmatter.Keys())
	})

	t.Run("invalid yaml", func(t *testing.T) {
		_, err := ParseMarkdown([]byte("---\ntitle: [unclosed\n---\n"))
		require.Error(t, err)
	})
}

func TestBookNote(t *testing.T) {
	b := catalog.SeedBooks()[0]

	out, err := BookNote(b, "").Build()
	require.NoError(t, err)

	parsed, err := ParseMarkdown(out)
	require.NoError(t, err)

	fm := parsed.Frontmatter
	assert.Equal(t, "The Great Gatsby", fm.GetString("title"))
	assert.Equal(t, "F. Scott Fitzgerald", fm.GetString("author"))
	assert.Equal(t, "Classic", fm.GetString("genre"))
	assert.Equal(t, []string{"book", "genre/Classic", "year/1920s"}, fm.Tags())
	assert.Contains(t, parsed.Body, "![]("+b.Image+")")
	assert.Contains(t, parsed.Body, b.Description)
}

func TestBookNoteLocalCover(t *testing.T) {
	b := catalog.Book{ID: 5, Title: "Dune", Author: "Frank Herbert", Genre: catalog.GenreScience, Image: "https://example.com/d.jpg"}

	note := BookNote(b, "attachments/Dune - cover.jpg")
	assert.Contains(t, note.Body, "![[attachments/Dune - cover.jpg|250]]")
	assert.NotContains(t, note.Body, "https://example.com/d.jpg")

	_, hasYear := note.Frontmatter.Get("year")
	assert.False(t, hasYear)
}

func TestMergeExisting(t *testing.T) {
	existing, err := ParseMarkdown([]byte("---\ntitle: Dune\ntags: [book, favourite]\n---\n"))
	require.NoError(t, err)

	note := BookNote(catalog.Book{ID: 5, Title: "Dune", Genre: catalog.GenreFiction}, "")
	note.MergeExisting(existing)
	note.MergeExisting(nil)

	assert.Equal(t, []string{"book", "favourite", "genre/Fiction"}, note.Frontmatter.Tags())
}
