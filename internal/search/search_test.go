package search

import (
	"testing"

	"github.com/nikbrunner/vault/internal/model"
)

func fixtures() []model.Bookmark {
	return []model.Bookmark{
		{ID: "b1", Title: "GitHub", URL: "https://github.com", Tags: []string{"dev"}},
		{ID: "b2", Title: "Go docs", URL: "https://go.dev/doc", Description: "Language reference", Tags: []string{}},
		{ID: "b3", Title: "News", URL: "https://news.ycombinator.com", Tags: []string{"Reading"}},
	}
}

func ids(bookmarks []model.Bookmark) []string {
	out := make([]string, len(bookmarks))
	for i, b := range bookmarks {
		out[i] = b.ID
	}
	return out
}

func TestFilter(t *testing.T) {
	tests := []struct {
		name  string
		query string
		want  []string
	}{
		{"blank returns all", "   ", []string{"b1", "b2", "b3"}},
		{"url match ignores case", "GITHUB", []string{"b1"}},
		{"description", "reference", []string{"b2"}},
		{"tag", "reading", []string{"b3"}},
		{"trimmed", "  news  ", []string{"b3"}},
		{"order preserved", "https", []string{"b1", "b2", "b3"}},
		{"no match", "zzz", []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ids(Filter(fixtures(), tt.query))
			if len(got) != len(tt.want) {
				t.Fatalf("expected %v, got %v", tt.want, got)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("expected %v, got %v", tt.want, got)
				}
			}
		})
	}
}

func TestFuzzy_EmptyQuery(t *testing.T) {
	if results := Fuzzy(fixtures(), ""); len(results) != 0 {
		t.Errorf("expected 0 results for empty query, got %d", len(results))
	}
}

func TestFuzzy_MultipleMatches(t *testing.T) {
	bookmarks := []model.Bookmark{
		{ID: "b1", Title: "GitHub", URL: "https://github.com"},
		{ID: "b2", Title: "GitLab", URL: "https://gitlab.com"},
		{ID: "b3", Title: "Gitea", URL: "https://gitea.io"},
	}

	if results := Fuzzy(bookmarks, "git"); len(results) != 3 {
		t.Errorf("expected 3 results for 'git', got %d", len(results))
	}
}

func TestFuzzy_NoMatch(t *testing.T) {
	if results := Fuzzy(fixtures(), "xyz123"); len(results) != 0 {
		t.Errorf("expected 0 results for 'xyz123', got %d", len(results))
	}
}

func TestFuzzy_CaseInsensitive(t *testing.T) {
	results := Fuzzy(fixtures(), "github")
	if len(results) != 1 {
		t.Fatalf("expected 1 result for case-insensitive match, got %d", len(results))
	}
	if results[0].Bookmark.ID != "b1" {
		t.Errorf("expected b1, got %s", results[0].Bookmark.ID)
	}
}

func TestFuzzy_SortedByScore(t *testing.T) {
	bookmarks := []model.Bookmark{
		{ID: "b1", Title: "React Router Documentation", URL: "https://reactrouter.com"},
		{ID: "b2", Title: "Router", URL: "https://router.example.com"},
	}

	results := Fuzzy(bookmarks, "router")
	if len(results) < 2 {
		t.Fatalf("expected at least 2 results, got %d", len(results))
	}
	// "Router" should rank higher (exact match) than "React Router Documentation"
	if results[0].Bookmark.Title != "Router" {
		t.Errorf("expected 'Router' as first result (exact match), got %s", results[0].Bookmark.Title)
	}
}
