package exporter

import (
	"fmt"
	"html"
	"strings"
	"time"

	"github.com/nikbrunner/vault/internal/model"
)

// ExportHTML exports bookmarks to Netscape bookmark HTML format. Tags are
// written to the TAGS attribute so a re-import restores them.
func ExportHTML(bookmarks []model.Bookmark) string {
	var b strings.Builder

	// Header
	b.WriteString("<!DOCTYPE NETSCAPE-Bookmark-file-1>\n")
	b.WriteString("<META HTTP-EQUIV=\"Content-Type\" CONTENT=\"text/html; charset=UTF-8\">\n")
	b.WriteString("<TITLE>Bookmarks</TITLE>\n")
	b.WriteString("<H1>Bookmarks</H1>\n")
	b.WriteString("<DL><p>\n")

	prefix := "    "
	for _, bookmark := range bookmarks {
		fmt.Fprintf(&b, "%s<DT><A HREF=\"%s\"", prefix, html.EscapeString(bookmark.URL))
		if ts, ok := unix(bookmark.CreatedAt); ok {
			fmt.Fprintf(&b, " ADD_DATE=\"%d\"", ts)
		}
		if ts, ok := unix(bookmark.UpdatedAt); ok {
			fmt.Fprintf(&b, " LAST_MODIFIED=\"%d\"", ts)
		}
		if len(bookmark.Tags) > 0 {
			fmt.Fprintf(&b, " TAGS=\"%s\"", html.EscapeString(strings.Join(bookmark.Tags, ",")))
		}
		fmt.Fprintf(&b, ">%s</A>\n", html.EscapeString(bookmark.Title))
		if bookmark.Description != "" {
			fmt.Fprintf(&b, "%s<DD>%s\n", prefix, html.EscapeString(bookmark.Description))
		}
	}

	// Footer
	b.WriteString("</DL><p>\n")

	return b.String()
}

// unix parses an ISO timestamp into Unix seconds.
func unix(ts string) (int64, bool) {
	if ts == "" {
		return 0, false
	}
	t, err := time.Parse(time.RFC3339, ts)
	if err != nil {
		return 0, false
	}
	return t.Unix(), true
}
