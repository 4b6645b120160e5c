// Package importer turns external bookmark files into a classified preview
// and applies the accepted records to the store.
package importer

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/nikbrunner/vault/internal/model"
)

var (
	ErrEmptyFile        = errors.New("import file is empty")
	ErrInvalidJSON      = errors.New("import file is not valid JSON")
	ErrNoValidBookmarks = errors.New("no valid bookmarks in import file")
	ErrNothingToImport  = errors.New("no valid bookmarks to import")
)

// UserMessage renders the importer's errors the way they are shown to the
// user. Other errors are returned as-is.
func UserMessage(err error) string {
	switch {
	case errors.Is(err, ErrEmptyFile):
		return "File is empty. Please select a valid JSON file."
	case errors.Is(err, ErrInvalidJSON):
		return "Invalid JSON format. Please check the file content."
	case errors.Is(err, ErrNoValidBookmarks):
		return "No valid bookmarks found in the file."
	case errors.Is(err, ErrNothingToImport):
		return "No valid bookmarks to import."
	default:
		return err.Error()
	}
}

// ParseJSON decodes data into candidate records. A top-level value that is
// not an array becomes a single candidate.
func ParseJSON(data []byte) ([]json.RawMessage, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return nil, ErrEmptyFile
	}
	if !json.Valid(trimmed) {
		return nil, ErrInvalidJSON
	}

	if trimmed[0] == '[' {
		var items []json.RawMessage
		if err := json.Unmarshal(trimmed, &items); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidJSON, err)
		}
		return items, nil
	}
	return []json.RawMessage{json.RawMessage(trimmed)}, nil
}

// Candidates encodes already-built records so they go through Classify like
// any JSON import.
func Candidates(bookmarks []model.Bookmark) []json.RawMessage {
	out := make([]json.RawMessage, 0, len(bookmarks))
	for _, b := range bookmarks {
		if b.Tags == nil {
			b.Tags = []string{}
		}
		data, err := json.Marshal(b)
		if err != nil {
			continue
		}
		out = append(out, data)
	}
	return out
}
