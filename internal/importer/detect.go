package importer

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"strings"
)

// Format is an import file format.
type Format string

const (
	FormatJSON     Format = "json"
	FormatHTML     Format = "html"
	FormatHomepage Format = "yaml"
)

// Detect picks a format from the file extension, falling back to sniffing
// the content.
func Detect(filename string, data []byte) Format {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".json":
		return FormatJSON
	case ".html", ".htm":
		return FormatHTML
	case ".yaml", ".yml":
		return FormatHomepage
	}

	head := bytes.TrimSpace(data)
	if len(head) > 512 {
		head = head[:512]
	}
	lower := bytes.ToLower(head)
	switch {
	case bytes.HasPrefix(head, []byte("[")), bytes.HasPrefix(head, []byte("{")):
		return FormatJSON
	case bytes.Contains(lower, []byte("<!doctype netscape")), bytes.Contains(lower, []byte("<dl")):
		return FormatHTML
	case bytes.HasPrefix(head, []byte("---")), bytes.HasPrefix(head, []byte("- ")):
		return FormatHomepage
	default:
		return FormatJSON
	}
}

// Read decodes an import file of any supported format into candidates for
// Classify.
func Read(filename string, data []byte, rec Recorder) ([]json.RawMessage, error) {
	switch Detect(filename, data) {
	case FormatHTML:
		if len(bytes.TrimSpace(data)) == 0 {
			return nil, ErrEmptyFile
		}
		bookmarks, err := ParseHTML(bytes.NewReader(data), rec)
		if err != nil {
			return nil, err
		}
		return Candidates(bookmarks), nil
	case FormatHomepage:
		if len(bytes.TrimSpace(data)) == 0 {
			return nil, ErrEmptyFile
		}
		bookmarks, err := ParseHomepageYAML(data, rec)
		if err != nil {
			return nil, err
		}
		return Candidates(bookmarks), nil
	default:
		return ParseJSON(data)
	}
}
