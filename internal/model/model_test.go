package model_test

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/nikbrunner/vault/internal/model"
	"gotest.tools/v3/assert"
	is "gotest.tools/v3/assert/cmp"
)

// Helper functions for pointers
func stringPtr(s string) *string { return &s }

type fixedClock struct{ t time.Time }

func (c fixedClock) Now() time.Time { return c.t }

func TestBookmark_JSONShape(t *testing.T) {
	tests := []struct {
		name     string
		bookmark model.Bookmark
		want     string
	}{
		{
			name: "optional fields omitted",
			bookmark: model.Bookmark{
				ID:        "b1",
				Title:     "Go",
				URL:       "https://go.dev",
				Tags:      []string{},
				CreatedAt: "2025-01-15T10:30:00.000Z",
			},
			want: `{"id":"b1","title":"Go","url":"https://go.dev","tags":[],"createdAt":"2025-01-15T10:30:00.000Z"}`,
		},
		{
			name: "all fields",
			bookmark: model.Bookmark{
				ID:          "b2",
				Title:       "TanStack Router",
				URL:         "https://tanstack.com/router",
				Description: "Type-safe routing",
				Tags:        []string{"react", "routing"},
				CreatedAt:   "2025-01-15T10:30:00.000Z",
				UpdatedAt:   "2025-01-20T14:22:00.000Z",
			},
			want: `{"id":"b2","title":"TanStack Router","url":"https://tanstack.com/router","description":"Type-safe routing","tags":["react","routing"],"createdAt":"2025-01-15T10:30:00.000Z","updatedAt":"2025-01-20T14:22:00.000Z"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := json.Marshal(tt.bookmark)
			assert.NilError(t, err)
			assert.Equal(t, string(data), tt.want)
		})
	}
}

func TestNewBookmark_CopiesTagsAndDefaultsEmpty(t *testing.T) {
	tags := []string{"search"}
	b := model.NewBookmark(model.CreateInput{Title: "Google", URL: "https://www.google.com", Tags: tags}, "id-1", "2025-01-01T00:00:00.000Z")

	tags[0] = "mutated"
	assert.DeepEqual(t, b.Tags, []string{"search"})

	empty := model.NewBookmark(model.CreateInput{Title: "x", URL: "https://x.io"}, "id-2", "2025-01-01T00:00:00.000Z")
	assert.Assert(t, empty.Tags != nil, "tags must never be nil")
	assert.Check(t, is.Len(empty.Tags, 0))
}

func TestUpdateInput_ApplyTo(t *testing.T) {
	orig := model.Bookmark{ID: "b1", Title: "Old", URL: "https://old.com", Tags: []string{"a"}, CreatedAt: "c"}
	newTags := []string{"x", "y"}

	got := model.UpdateInput{Title: stringPtr("New"), Tags: &newTags}.ApplyTo(orig, "u")

	assert.Equal(t, got.Title, "New")
	assert.Equal(t, got.URL, "https://old.com")
	assert.DeepEqual(t, got.Tags, []string{"x", "y"})
	assert.Equal(t, got.UpdatedAt, "u")
	assert.Equal(t, got.CreatedAt, "c")
	// original untouched
	assert.Equal(t, orig.Title, "Old")
	assert.Equal(t, orig.UpdatedAt, "")
}

func TestTimestamper_StrictlyIncreasing(t *testing.T) {
	clock := fixedClock{t: time.Date(2025, 1, 15, 10, 30, 0, 0, time.UTC)}
	s := model.NewTimestamper(clock)

	first := s.Stamp()
	second := s.Stamp()

	assert.Equal(t, first, "2025-01-15T10:30:00.000Z")
	assert.Equal(t, second, "2025-01-15T10:30:00.001Z")
	assert.Assert(t, second > first)
}

func TestCollectionHelpers(t *testing.T) {
	bookmarks := []model.Bookmark{
		{ID: "b1", URL: "https://a.com", Tags: []string{"go", "dev"}},
		{ID: "b2", URL: "https://b.com", Tags: []string{"dev", "tools"}},
	}

	assert.Equal(t, model.IndexOf(bookmarks, "b2"), 1)
	assert.Equal(t, model.IndexOf(bookmarks, "nope"), -1)
	assert.Assert(t, model.FindByID(bookmarks, "nope") == nil)

	without := model.Without(bookmarks, "b1")
	assert.Equal(t, len(without), 1)
	assert.Equal(t, len(bookmarks), 2, "input must not be modified")

	prepended := model.Prepend(bookmarks, model.Bookmark{ID: "b0"})
	assert.Equal(t, prepended[0].ID, "b0")
	assert.Equal(t, len(prepended), 3)

	replaced := model.Replace(bookmarks, model.Bookmark{ID: "b2", Title: "B"})
	assert.Equal(t, replaced[1].Title, "B")
	assert.Equal(t, bookmarks[1].Title, "")

	_, ok := model.URLSet(bookmarks)["https://a.com"]
	assert.Assert(t, ok)
	assert.DeepEqual(t, model.AllTags(bookmarks), []string{"go", "dev", "tools"})
}
