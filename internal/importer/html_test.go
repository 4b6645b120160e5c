package importer_test

import (
	"strings"
	"testing"

	"github.com/nikbrunner/vault/internal/importer"
	"github.com/nikbrunner/vault/internal/storage"
	"github.com/nikbrunner/vault/internal/store"
	"github.com/nikbrunner/vault/internal/testutil"
)

func newRecorder() *store.Store {
	return store.New(storage.NewMemoryKV(),
		store.WithClock(testutil.FixedClock()),
		store.WithIDs(testutil.NewSequentialIDs("id")))
}

func TestParseHTML_SingleBookmark(t *testing.T) {
	html := `<!DOCTYPE NETSCAPE-Bookmark-file-1>
<TITLE>Bookmarks</TITLE>
<H1>Bookmarks</H1>
<DL><p>
    <DT><A HREF="https://example.com" ADD_DATE="1234567890">Example Site</A>
</DL><p>`

	bookmarks, err := importer.ParseHTML(strings.NewReader(html), newRecorder())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(bookmarks) != 1 {
		t.Fatalf("expected 1 bookmark, got %d", len(bookmarks))
	}

	b := bookmarks[0]
	if b.Title != "Example Site" {
		t.Errorf("expected title 'Example Site', got %q", b.Title)
	}
	if b.URL != "https://example.com" {
		t.Errorf("expected URL 'https://example.com', got %q", b.URL)
	}
	if len(b.Tags) != 0 {
		t.Errorf("expected no tags at root, got %v", b.Tags)
	}
	if b.ID != "id-1" {
		t.Errorf("expected id-1, got %q", b.ID)
	}
	if b.CreatedAt != "2009-02-13T23:31:30.000Z" {
		t.Errorf("expected ADD_DATE as createdAt, got %q", b.CreatedAt)
	}
}

func TestParseHTML_NestedFoldersBecomeTags(t *testing.T) {
	html := `<!DOCTYPE NETSCAPE-Bookmark-file-1>
<DL><p>
    <DT><H3 ADD_DATE="1234567890">Development</H3>
    <DL><p>
        <DT><H3 ADD_DATE="1234567890">React Stuff</H3>
        <DL><p>
            <DT><A HREF="https://react.dev" ADD_DATE="1234567890">React Docs</A>
        </DL><p>
        <DT><A HREF="https://github.com" ADD_DATE="1234567890">GitHub</A>
    </DL><p>
    <DT><A HREF="https://google.com" ADD_DATE="1234567890">Google</A>
</DL><p>`

	bookmarks, err := importer.ParseHTML(strings.NewReader(html), newRecorder())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(bookmarks) != 3 {
		t.Fatalf("expected 3 bookmarks, got %d", len(bookmarks))
	}

	want := map[string][]string{
		"React Docs": {"development", "react-stuff"},
		"GitHub":     {"development"},
		"Google":     {},
	}
	for _, b := range bookmarks {
		tags, ok := want[b.Title]
		if !ok {
			t.Errorf("unexpected bookmark %q", b.Title)
			continue
		}
		if strings.Join(b.Tags, ",") != strings.Join(tags, ",") {
			t.Errorf("%s: expected tags %v, got %v", b.Title, tags, b.Tags)
		}
	}
}

func TestParseHTML_TagsAttributeAndDescription(t *testing.T) {
	html := `<DL><p>
    <DT><H3>Work</H3>
    <DL><p>
        <DT><A HREF="https://go.dev" TAGS="go, lang,work">Go</A>
        <DD>The Go programming language
    </DL><p>
</DL>`

	bookmarks, err := importer.ParseHTML(strings.NewReader(html), newRecorder())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(bookmarks) != 1 {
		t.Fatalf("expected 1 bookmark, got %d", len(bookmarks))
	}
	b := bookmarks[0]
	if got := strings.Join(b.Tags, ","); got != "work,go,lang" {
		t.Errorf("expected folder tag then TAGS without duplicates, got %q", got)
	}
	if b.Description != "The Go programming language" {
		t.Errorf("expected description from DD, got %q", b.Description)
	}
}

func TestParseHTML_SkipsAnchorsWithoutHref(t *testing.T) {
	html := `<DL><DT><A>Nothing</A><DT><A HREF="https://x.com"></A></DL>`

	bookmarks, err := importer.ParseHTML(strings.NewReader(html), newRecorder())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(bookmarks) != 1 {
		t.Fatalf("expected 1 bookmark, got %d", len(bookmarks))
	}
	if bookmarks[0].Title != "https://x.com" {
		t.Errorf("expected URL as fallback title, got %q", bookmarks[0].Title)
	}
}
