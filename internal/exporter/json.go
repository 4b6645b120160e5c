// Package exporter writes the collection out as JSON or Netscape HTML.
package exporter

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/nikbrunner/vault/internal/model"
)

// DefaultExportPath returns the default export file path.
// Format: ~/Downloads/bookmarks-YYYY-MM-DD.<ext>, dated in UTC.
func DefaultExportPath(now time.Time, ext string) (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, "Downloads", FileName(now, ext)), nil
}

// FileName returns bookmarks-YYYY-MM-DD.<ext>.
func FileName(now time.Time, ext string) string {
	return fmt.Sprintf("bookmarks-%s.%s", now.UTC().Format("2006-01-02"), ext)
}

// ExportJSON writes bookmarks as a JSON array indented with two spaces.
func ExportJSON(w io.Writer, bookmarks []model.Bookmark) error {
	if bookmarks == nil {
		bookmarks = []model.Bookmark{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(bookmarks)
}
