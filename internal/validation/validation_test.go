package validation_test

import (
	"encoding/json"
	"testing"

	"github.com/nikbrunner/vault/internal/model"
	"github.com/nikbrunner/vault/internal/validation"
	"gotest.tools/v3/assert"
	is "gotest.tools/v3/assert/cmp"
)

func TestValidURL(t *testing.T) {
	tests := []struct {
		url  string
		want bool
	}{
		{"https://github.com", true},
		{"http://localhost:3000/path?q=1", true},
		{"mailto:someone@example.com", true},
		{"not-a-valid-url", false},
		{"", false},
		{"https://exa mple.com", false},
		{"//example.com", false},
	}

	for _, tt := range tests {
		t.Run(tt.url, func(t *testing.T) {
			assert.Equal(t, validation.ValidURL(tt.url), tt.want)
		})
	}
}

func TestValidateCreateInput(t *testing.T) {
	ok := validation.ValidateCreateInput(model.CreateInput{Title: "Google", URL: "https://www.google.com"})
	assert.Assert(t, ok.OK())

	issues := validation.ValidateCreateInput(model.CreateInput{Title: "", URL: "nope"})
	assert.Equal(t, issues.For("title"), validation.MsgTitleRequired)
	assert.Equal(t, issues.For("url"), validation.MsgInvalidURL)
	assert.DeepEqual(t, issues.Strings(), []string{"title: Title is required", "url: Must be a valid URL"})
}

func TestValidateCreateInput_TitleMatchesRecordSchema(t *testing.T) {
	in := model.CreateInput{Title: " ", URL: "https://www.google.com"}
	assert.Assert(t, validation.ValidateCreateInput(in).OK())

	b := model.Bookmark{ID: "b1", Title: in.Title, URL: in.URL, Tags: []string{}, CreatedAt: "c"}
	assert.Assert(t, validation.ValidateBookmark(b).OK())

	blank := " "
	assert.Assert(t, validation.ValidateUpdateInput(model.UpdateInput{Title: &blank}).OK())
}

func TestValidateUpdateInput_OnlyChecksSetFields(t *testing.T) {
	empty := ""
	assert.Assert(t, validation.ValidateUpdateInput(model.UpdateInput{}).OK())

	issues := validation.ValidateUpdateInput(model.UpdateInput{Title: &empty})
	assert.Assert(t, issues.Has("title"))
	assert.Assert(t, !issues.Has("url"))
}

func TestValidateBookmark(t *testing.T) {
	valid := model.Bookmark{ID: "b1", Title: "Go", URL: "https://go.dev", Tags: []string{}, CreatedAt: "2025-01-01T00:00:00.000Z"}
	assert.Assert(t, validation.ValidateBookmark(valid).OK())

	issues := validation.ValidateBookmark(model.Bookmark{Title: "Go", URL: "https://go.dev"})
	assert.Assert(t, issues.Has("id"))
	assert.Assert(t, issues.Has("createdAt"))
}

func TestDecodeBookmark(t *testing.T) {
	tests := []struct {
		name      string
		raw       string
		wantPaths []string
	}{
		{
			name: "valid record",
			raw:  `{"id":"1","title":"Google","url":"https://www.google.com","tags":["search"],"createdAt":"2025-01-01T00:00:00.000Z"}`,
		},
		{
			name:      "missing title",
			raw:       `{"id":"1","url":"https://www.google.com","tags":[],"createdAt":"x"}`,
			wantPaths: []string{"title"},
		},
		{
			name:      "empty title and bad url",
			raw:       `{"id":"1","title":"","url":"nope","tags":[],"createdAt":"x"}`,
			wantPaths: []string{"title", "url"},
		},
		{
			name:      "wrong tag element type",
			raw:       `{"id":"1","title":"t","url":"https://a.com","tags":["ok",3],"createdAt":"x"}`,
			wantPaths: []string{"tags.1"},
		},
		{
			name:      "tags missing and id numeric",
			raw:       `{"id":7,"title":"t","url":"https://a.com","createdAt":"x"}`,
			wantPaths: []string{"id", "tags"},
		},
		{
			name:      "null description",
			raw:       `{"id":"1","title":"t","url":"https://a.com","tags":[],"createdAt":"x","description":null}`,
			wantPaths: []string{"description"},
		},
		{
			name:      "bare string",
			raw:       `"hello"`,
			wantPaths: []string{""},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, issues := validation.DecodeBookmark(json.RawMessage(tt.raw))
			assert.Check(t, is.Len(issues, len(tt.wantPaths)), "issues: %v", issues.Strings())
			for _, p := range tt.wantPaths {
				assert.Check(t, issues.Has(p), "expected issue at %q, got %v", p, issues.Strings())
			}
		})
	}
}

func TestDecodeBookmark_Messages(t *testing.T) {
	_, issues := validation.DecodeBookmark(json.RawMessage(`{"id":"1","url":"https://a.com","tags":"x","createdAt":"c"}`))
	assert.DeepEqual(t, issues.Strings(), []string{"title: Required", "tags: Expected array, received string"})

	_, root := validation.DecodeBookmark(json.RawMessage(`42`))
	assert.DeepEqual(t, root.Strings(), []string{"Expected object, received number"})
}

func TestFilterValid(t *testing.T) {
	in := []model.Bookmark{
		{ID: "b1", Title: "ok", URL: "https://ok.com", CreatedAt: "c"},
		{ID: "b2", Title: "", URL: "https://bad.com", CreatedAt: "c"},
	}
	out, dropped := validation.FilterValid(in)
	assert.Equal(t, dropped, 1)
	assert.Equal(t, len(out), 1)
	assert.Assert(t, out[0].Tags != nil)
}
