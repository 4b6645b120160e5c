package importer

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/nikbrunner/vault/internal/model"
	"github.com/nikbrunner/vault/internal/validation"
)

// Invalid is a candidate that failed the record schema.
type Invalid struct {
	Data   json.RawMessage
	Errors []string
}

// Preview is the classified result of an import file.
type Preview struct {
	Valid      []model.Bookmark
	Invalid    []Invalid
	Duplicates []model.Bookmark
}

// Classify validates every candidate and sorts it into valid, invalid or
// duplicate. URLs are compared exactly against existingURLs and against the
// valid records accepted earlier in the same file.
func Classify(candidates []json.RawMessage, existingURLs []string) Preview {
	urls := make(map[string]struct{}, len(existingURLs)+len(candidates))
	for _, u := range existingURLs {
		urls[u] = struct{}{}
	}

	preview := Preview{
		Valid:      []model.Bookmark{},
		Invalid:    []Invalid{},
		Duplicates: []model.Bookmark{},
	}
	for _, raw := range candidates {
		b, issues := validation.DecodeBookmark(raw)
		if !issues.OK() {
			preview.Invalid = append(preview.Invalid, Invalid{Data: raw, Errors: issues.Strings()})
			continue
		}
		if _, seen := urls[b.URL]; seen {
			preview.Duplicates = append(preview.Duplicates, b)
			continue
		}
		urls[b.URL] = struct{}{}
		preview.Valid = append(preview.Valid, b)
	}
	return preview
}

// Check reports ErrNoValidBookmarks when the file held invalid records and
// nothing usable.
func (p Preview) Check() error {
	if len(p.Valid) == 0 && len(p.Invalid) > 0 {
		return ErrNoValidBookmarks
	}
	return nil
}

// Importable returns the records an Apply would write. Duplicates and invalid
// records are informational only.
func (p Preview) Importable() []model.Bookmark {
	return p.Valid
}

// Summary renders the counts shown before the user confirms.
func (p Preview) Summary() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%d valid", len(p.Valid))
	if len(p.Duplicates) > 0 {
		fmt.Fprintf(&b, ", %d duplicate (skipped)", len(p.Duplicates))
	}
	if len(p.Invalid) > 0 {
		fmt.Fprintf(&b, ", %d invalid (skipped)", len(p.Invalid))
	}
	return b.String()
}

// Mode selects how Apply combines imported and existing records.
type Mode string

const (
	ModeMerge   Mode = "merge"
	ModeReplace Mode = "replace"
)

// ParseMode parses "merge" or "replace".
func ParseMode(s string) (Mode, error) {
	switch Mode(strings.ToLower(strings.TrimSpace(s))) {
	case ModeMerge:
		return ModeMerge, nil
	case ModeReplace:
		return ModeReplace, nil
	default:
		return "", fmt.Errorf("unknown import mode %q (want merge or replace)", s)
	}
}

// Target is where Apply writes. *store.Store implements it.
type Target interface {
	Append(ctx context.Context, bookmarks []model.Bookmark) error
	ReplaceAll(ctx context.Context, bookmarks []model.Bookmark) error
}

// Apply writes the preview's valid records and returns how many were
// written. The caller reloads any in-memory view afterwards.
func Apply(ctx context.Context, target Target, preview Preview, mode Mode) (int, error) {
	records := preview.Importable()
	if len(records) == 0 {
		return 0, ErrNothingToImport
	}

	var err error
	switch mode {
	case ModeReplace:
		err = target.ReplaceAll(ctx, records)
	case ModeMerge, "":
		err = target.Append(ctx, records)
	default:
		return 0, fmt.Errorf("unknown import mode %q", mode)
	}
	if err != nil {
		return 0, fmt.Errorf("applying import: %w", err)
	}
	return len(records), nil
}
