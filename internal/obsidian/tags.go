package obsidian

import (
	"fmt"
	"regexp"
	"slices"
	"strings"
)

var (
	whitespace = regexp.MustCompile(`\s+`)
	hyphens    = regexp.MustCompile(`-{2,}`)
)

// NormalizeTag applies Obsidian tag rules: no leading #, whitespace becomes
// hyphens, & becomes "and". Case and / hierarchy are preserved.
func NormalizeTag(tag string) string {
	tag = strings.TrimSpace(tag)
	tag = strings.TrimSpace(strings.TrimPrefix(tag, "#"))
	if tag == "" {
		return ""
	}

	tag = strings.ReplaceAll(tag, "&", "and")
	tag = strings.ReplaceAll(tag, "#", "")
	tag = whitespace.ReplaceAllString(tag, "-")
	tag = hyphens.ReplaceAllString(tag, "-")
	return strings.Trim(tag, "-")
}

// TagSet collects normalized, deduplicated tags.
type TagSet struct {
	tags map[string]struct{}
}

// NewTagSet creates a TagSet holding tags.
func NewTagSet(tags ...string) *TagSet {
	ts := &TagSet{tags: make(map[string]struct{})}
	for _, tag := range tags {
		ts.Add(tag)
	}
	return ts
}

// Add adds tag after normalization. Empty results are dropped.
func (ts *TagSet) Add(tag string) {
	if normalized := NormalizeTag(tag); normalized != "" {
		ts.tags[normalized] = struct{}{}
	}
}

// AddFormat adds a tag built like fmt.Sprintf.
func (ts *TagSet) AddFormat(format string, args ...any) {
	ts.Add(fmt.Sprintf(format, args...))
}

// GetSorted returns the tags sorted.
func (ts *TagSet) GetSorted() []string {
	result := make([]string, 0, len(ts.tags))
	for tag := range ts.tags {
		result = append(result, tag)
	}
	slices.Sort(result)
	return result
}

// MergeTags returns the sorted union of both lists after normalization.
func MergeTags(existing, added []string) []string {
	ts := NewTagSet(existing...)
	for _, tag := range added {
		ts.Add(tag)
	}
	return ts.GetSorted()
}

// TagsFromAny extracts a string slice from a decoded YAML value,
// which may be []string or []any.
func TagsFromAny(val any) []string {
	var result []string
	switch v := val.(type) {
	case []string:
		for _, s := range v {
			if s != "" {
				result = append(result, s)
			}
		}
	case []any:
		for _, item := range v {
			if s, ok := item.(string); ok && s != "" {
				result = append(result, s)
			}
		}
	}
	if result == nil {
		return []string{}
	}
	return result
}

// DecadeTag returns the year/<decade> tag for year, or "" for unknown years.
func DecadeTag(year int) string {
	if year <= 0 {
		return ""
	}
	return fmt.Sprintf("year/%ds", year/10*10)
}
