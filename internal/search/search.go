// Package search implements the two ways of finding bookmarks: the plain
// substring filter behind the search box and the fuzzy title match behind
// quick-open.
package search

import (
	"strings"

	"github.com/nikbrunner/vault/internal/model"
	"github.com/sahilm/fuzzy"
)

// Matches reports whether b contains term in its title, url, description or
// any tag. term must already be lowercased.
func Matches(b model.Bookmark, term string) bool {
	if strings.Contains(strings.ToLower(b.Title), term) ||
		strings.Contains(strings.ToLower(b.URL), term) ||
		strings.Contains(strings.ToLower(b.Description), term) {
		return true
	}
	for _, tag := range b.Tags {
		if strings.Contains(strings.ToLower(tag), term) {
			return true
		}
	}
	return false
}

// Filter returns the bookmarks matching query in their original order.
// A blank query returns the input unchanged.
func Filter(bookmarks []model.Bookmark, query string) []model.Bookmark {
	term := strings.ToLower(strings.TrimSpace(query))
	if term == "" {
		return bookmarks
	}

	out := make([]model.Bookmark, 0, len(bookmarks))
	for _, b := range bookmarks {
		if Matches(b, term) {
			out = append(out, b)
		}
	}
	return out
}

// Result represents a fuzzy search match.
type Result struct {
	Bookmark       model.Bookmark
	MatchedIndexes []int
	Score          int
}

// bookmarkTitles implements fuzzy.Source for a bookmark slice.
type bookmarkTitles []model.Bookmark

func (bt bookmarkTitles) String(i int) string {
	return bt[i].Title
}

func (bt bookmarkTitles) Len() int {
	return len(bt)
}

// Fuzzy searches bookmarks by title using fuzzy matching.
// Returns results sorted by match score (best first).
func Fuzzy(bookmarks []model.Bookmark, query string) []Result {
	if query == "" {
		return nil
	}

	source := bookmarkTitles(bookmarks)
	matches := fuzzy.FindFrom(query, source)

	results := make([]Result, len(matches))
	for i, m := range matches {
		results[i] = Result{
			Bookmark:       source[m.Index],
			MatchedIndexes: m.MatchedIndexes,
			Score:          m.Score,
		}
	}

	return results
}
