package exporter

import (
	"strings"
	"testing"

	"github.com/nikbrunner/vault/internal/model"
)

func TestExportHTML_Empty(t *testing.T) {
	html := ExportHTML(nil)

	// Should have basic structure even when empty
	if !strings.Contains(html, "<!DOCTYPE NETSCAPE-Bookmark-file-1>") {
		t.Error("expected DOCTYPE declaration")
	}
	if !strings.Contains(html, "<TITLE>Bookmarks</TITLE>") {
		t.Error("expected TITLE element")
	}
	if !strings.Contains(html, "<H1>Bookmarks</H1>") {
		t.Error("expected H1 element")
	}
}

func TestExportHTML_SingleBookmark(t *testing.T) {
	html := ExportHTML([]model.Bookmark{{
		ID:        "b1",
		Title:     "GitHub",
		URL:       "https://github.com",
		Tags:      []string{},
		CreatedAt: "2023-11-14T22:13:20.000Z",
	}})

	if !strings.Contains(html, `<A HREF="https://github.com"`) {
		t.Error("expected bookmark URL")
	}
	if !strings.Contains(html, "GitHub</A>") {
		t.Error("expected bookmark title")
	}
	if !strings.Contains(html, `ADD_DATE="1700000000"`) {
		t.Error("expected ADD_DATE timestamp")
	}
	if strings.Contains(html, "TAGS=") {
		t.Error("expected no TAGS attribute for untagged bookmark")
	}
}

func TestExportHTML_TagsDescriptionAndEscaping(t *testing.T) {
	html := ExportHTML([]model.Bookmark{{
		ID:          "b1",
		Title:       "Q&A <site>",
		URL:         "https://example.com/?a=1&b=2",
		Description: "Ask & answer",
		Tags:        []string{"dev", "qa"},
		CreatedAt:   "not a timestamp",
		UpdatedAt:   "2023-11-14T22:13:20.000Z",
	}})

	if !strings.Contains(html, `TAGS="dev,qa"`) {
		t.Error("expected TAGS attribute")
	}
	if !strings.Contains(html, "Q&amp;A &lt;site&gt;</A>") {
		t.Error("expected escaped title")
	}
	if !strings.Contains(html, `HREF="https://example.com/?a=1&amp;b=2"`) {
		t.Error("expected escaped URL")
	}
	if !strings.Contains(html, "<DD>Ask &amp; answer") {
		t.Error("expected description in DD")
	}
	if strings.Contains(html, "ADD_DATE") {
		t.Error("unparsable createdAt should be omitted")
	}
	if !strings.Contains(html, `LAST_MODIFIED="1700000000"`) {
		t.Error("expected LAST_MODIFIED from updatedAt")
	}
}
