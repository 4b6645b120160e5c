// Package validation defines the structural contract for bookmarks and their
// creation input. Results are reported as Issues, never as panics.
package validation

import (
	"net/url"
	"strings"

	"github.com/nikbrunner/vault/internal/model"
)

const (
	MsgTitleRequired = "Title is required"
	MsgInvalidURL    = "Must be a valid URL"
	MsgRequired      = "Required"
	MsgTooShort      = "String must contain at least 1 character(s)"
	MsgBadURL        = "Invalid url"
)

// Issue is a single field-level validation failure.
type Issue struct {
	Path    string
	Message string
}

// String renders "path: message", or just the message for root issues.
func (i Issue) String() string {
	if i.Path == "" {
		return i.Message
	}
	return i.Path + ": " + i.Message
}

// Issues is the result of validating one value. Empty means valid.
type Issues []Issue

// OK reports whether there are no issues.
func (is Issues) OK() bool { return len(is) == 0 }

// Strings renders every issue.
func (is Issues) Strings() []string {
	out := make([]string, len(is))
	for i, issue := range is {
		out[i] = issue.String()
	}
	return out
}

// Error joins the issues so Issues can be returned where an error is expected.
func (is Issues) Error() string {
	return strings.Join(is.Strings(), "; ")
}

// Has reports whether any issue is reported at path.
func (is Issues) Has(path string) bool {
	for _, issue := range is {
		if issue.Path == path {
			return true
		}
	}
	return false
}

// For returns the first message reported at path, or "".
func (is Issues) For(path string) string {
	for _, issue := range is {
		if issue.Path == path {
			return issue.Message
		}
	}
	return ""
}

// ValidURL reports whether s parses as an absolute URL: a scheme plus either
// a host or an opaque part ("mailto:x@y.z").
func ValidURL(s string) bool {
	if s == "" || strings.ContainsAny(s, " \t\r\n") {
		return false
	}
	u, err := url.Parse(s)
	if err != nil || u.Scheme == "" {
		return false
	}
	return u.Host != "" || u.Opaque != ""
}

// ValidateCreateInput checks a form/tool input before a record is created.
func ValidateCreateInput(in model.CreateInput) Issues {
	var issues Issues
	if in.Title == "" {
		issues = append(issues, Issue{Path: "title", Message: MsgTitleRequired})
	}
	if !ValidURL(in.URL) {
		issues = append(issues, Issue{Path: "url", Message: MsgInvalidURL})
	}
	return issues
}

// ValidateUpdateInput checks only the fields that are being changed.
func ValidateUpdateInput(in model.UpdateInput) Issues {
	var issues Issues
	if in.Title != nil && *in.Title == "" {
		issues = append(issues, Issue{Path: "title", Message: MsgTitleRequired})
	}
	if in.URL != nil && !ValidURL(*in.URL) {
		issues = append(issues, Issue{Path: "url", Message: MsgInvalidURL})
	}
	return issues
}

// ValidateBookmark checks a persisted record.
func ValidateBookmark(b model.Bookmark) Issues {
	var issues Issues
	if b.ID == "" {
		issues = append(issues, Issue{Path: "id", Message: MsgRequired})
	}
	if b.Title == "" {
		issues = append(issues, Issue{Path: "title", Message: MsgTooShort})
	}
	if !ValidURL(b.URL) {
		issues = append(issues, Issue{Path: "url", Message: MsgBadURL})
	}
	if b.CreatedAt == "" {
		issues = append(issues, Issue{Path: "createdAt", Message: MsgRequired})
	}
	return issues
}

// FilterValid drops records that fail ValidateBookmark and returns the
// survivors together with the number dropped.
func FilterValid(bookmarks []model.Bookmark) ([]model.Bookmark, int) {
	out := make([]model.Bookmark, 0, len(bookmarks))
	for _, b := range bookmarks {
		if ValidateBookmark(b).OK() {
			if b.Tags == nil {
				b.Tags = []string{}
			}
			out = append(out, b)
		}
	}
	return out, len(bookmarks) - len(out)
}
