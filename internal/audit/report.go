// Package audit inspects the collection for maintenance problems: missing
// descriptions, duplicate URLs, tag suggestions, malformed URLs and dead links.
package audit

import (
	"fmt"
	"io"
	"regexp"
	"slices"
	"strings"

	"github.com/nikbrunner/vault/internal/model"
)

var httpURL = regexp.MustCompile(`^https?://\S+$`)

type tagRule struct {
	pattern *regexp.Regexp
	tags    []string
}

var tagRules = []tagRule{
	{regexp.MustCompile(`(?i)github\.com`), []string{"dev", "opensource"}},
	{regexp.MustCompile(`(?i)youtube\.com`), []string{"video", "media"}},
	{regexp.MustCompile(`(?i)twitter\.com|(?:^|[/.])x\.com`), []string{"social", "microblog"}},
	{regexp.MustCompile(`(?i)linkedin\.com`), []string{"professional", "career"}},
	{regexp.MustCompile(`(?i)medium\.com`), []string{"blog", "article"}},
	{regexp.MustCompile(`(?i)stackoverflow\.com`), []string{"dev", "qa", "programming"}},
	{regexp.MustCompile(`(?i)docs\.`), []string{"documentation"}},
	{regexp.MustCompile(`(?i)wikipedia\.org`), []string{"reference", "research"}},
	{regexp.MustCompile(`(?i)amazon\.com`), []string{"shopping"}},
	{regexp.MustCompile(`(?i)netflix\.com|hulu\.com`), []string{"entertainment"}},
}

// DuplicateGroup is a set of bookmarks sharing a URL, compared lowercased.
type DuplicateGroup struct {
	URL string
	IDs []string
}

// TagSuggestion lists tags a bookmark's URL suggests that it does not have.
type TagSuggestion struct {
	Bookmark  model.Bookmark
	Suggested []string
}

// Report is the result of Analyze.
type Report struct {
	EmptyDescriptions []model.Bookmark
	Duplicates        []DuplicateGroup
	Suggestions       []TagSuggestion
	InvalidURLs       []model.Bookmark
}

// Analyze inspects bookmarks. Groups and lists keep collection order.
func Analyze(bookmarks []model.Bookmark) Report {
	var r Report

	groups := make(map[string]*DuplicateGroup)
	var order []string

	for _, b := range bookmarks {
		if strings.TrimSpace(b.Description) == "" {
			r.EmptyDescriptions = append(r.EmptyDescriptions, b)
		}

		key := strings.ToLower(b.URL)
		g, ok := groups[key]
		if !ok {
			g = &DuplicateGroup{URL: key}
			groups[key] = g
			order = append(order, key)
		}
		g.IDs = append(g.IDs, b.ID)

		if tags := SuggestTags(b.URL, b.Tags); len(tags) > 0 {
			r.Suggestions = append(r.Suggestions, TagSuggestion{Bookmark: b, Suggested: tags})
		}

		if !httpURL.MatchString(b.URL) {
			r.InvalidURLs = append(r.InvalidURLs, b)
		}
	}

	for _, key := range order {
		if g := groups[key]; len(g.IDs) > 1 {
			r.Duplicates = append(r.Duplicates, *g)
		}
	}
	return r
}

// SuggestTags returns the rule tags matching url that current lacks, in rule
// order. A tag suggested by two rules appears twice.
func SuggestTags(url string, current []string) []string {
	var out []string
	for _, rule := range tagRules {
		if !rule.pattern.MatchString(url) {
			continue
		}
		for _, t := range rule.tags {
			if !slices.Contains(current, t) {
				out = append(out, t)
			}
		}
	}
	return out
}

// Markdown writes the report as Markdown.
func (r Report) Markdown(w io.Writer) error {
	var b strings.Builder

	b.WriteString("## Bookmark Validation Report\n\n")

	fmt.Fprintf(&b, "### Empty Descriptions (%d found)\n", len(r.EmptyDescriptions))
	if len(r.EmptyDescriptions) > 0 {
		writeTable(&b, r.EmptyDescriptions)
	} else {
		b.WriteString("No empty descriptions found.\n")
	}
	b.WriteString("\n")

	fmt.Fprintf(&b, "### Duplicate URLs (%d groups found)\n", len(r.Duplicates))
	if len(r.Duplicates) > 0 {
		for _, g := range r.Duplicates {
			fmt.Fprintf(&b, "- URL: `%s`\n", g.URL)
			fmt.Fprintf(&b, "  - Bookmark IDs: [%s]\n", strings.Join(g.IDs, ", "))
		}
	} else {
		b.WriteString("No duplicate URLs found.\n")
	}
	b.WriteString("\n")

	fmt.Fprintf(&b, "### Tag Suggestions (%d bookmarks)\n", len(r.Suggestions))
	if len(r.Suggestions) > 0 {
		b.WriteString("| ID | URL | Current Tags | Suggested Tags |\n")
		b.WriteString("|----|-----|--------------|----------------|\n")
		for _, s := range r.Suggestions {
			current := "(none)"
			if len(s.Bookmark.Tags) > 0 {
				current = strings.Join(s.Bookmark.Tags, ", ")
			}
			fmt.Fprintf(&b, "| %s | %s | %s | %s |\n",
				s.Bookmark.ID, s.Bookmark.URL, current, strings.Join(s.Suggested, ", "))
		}
	} else {
		b.WriteString("No tag suggestions needed.\n")
	}
	b.WriteString("\n")

	fmt.Fprintf(&b, "### Invalid URLs (%d found)\n", len(r.InvalidURLs))
	if len(r.InvalidURLs) > 0 {
		writeTable(&b, r.InvalidURLs)
	} else {
		b.WriteString("No invalid URLs detected.\n")
	}

	_, err := io.WriteString(w, b.String())
	return err
}

func writeTable(b *strings.Builder, bookmarks []model.Bookmark) {
	b.WriteString("| ID | Title | URL |\n")
	b.WriteString("|----|-------|-----|\n")
	for _, bm := range bookmarks {
		fmt.Fprintf(b, "| %s | %s | %s |\n", bm.ID, bm.Title, bm.URL)
	}
}
