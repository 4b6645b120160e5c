package validation

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/nikbrunner/vault/internal/model"
)

// DecodeBookmark validates an untrusted JSON value against the persisted
// record schema. The returned Bookmark is only meaningful when Issues is empty.
func DecodeBookmark(raw json.RawMessage) (model.Bookmark, Issues) {
	var value any
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	if err := dec.Decode(&value); err != nil {
		return model.Bookmark{}, Issues{{Message: fmt.Sprintf("Invalid JSON: %v", err)}}
	}
	return DecodeValue(value)
}

// DecodeValue validates an already-decoded JSON value (map[string]any etc.).
func DecodeValue(value any) (model.Bookmark, Issues) {
	obj, ok := value.(map[string]any)
	if !ok {
		return model.Bookmark{}, Issues{{Message: "Expected object, received " + kindOf(value)}}
	}

	var (
		b      model.Bookmark
		issues Issues
	)

	b.ID, issues = requiredString(obj, "id", issues)

	b.Title, issues = requiredString(obj, "title", issues)
	if _, present := obj["title"].(string); present && b.Title == "" {
		issues = append(issues, Issue{Path: "title", Message: MsgTooShort})
	}

	b.URL, issues = requiredString(obj, "url", issues)
	if _, present := obj["url"].(string); present && !ValidURL(b.URL) {
		issues = append(issues, Issue{Path: "url", Message: MsgBadURL})
	}

	b.Description, issues = optionalString(obj, "description", issues)
	b.Tags, issues = stringArray(obj, "tags", issues)
	b.CreatedAt, issues = requiredString(obj, "createdAt", issues)
	b.UpdatedAt, issues = optionalString(obj, "updatedAt", issues)

	return b, issues
}

func requiredString(obj map[string]any, key string, issues Issues) (string, Issues) {
	v, ok := obj[key]
	if !ok {
		return "", append(issues, Issue{Path: key, Message: MsgRequired})
	}
	s, ok := v.(string)
	if !ok {
		return "", append(issues, typeIssue(key, "string", v))
	}
	return s, issues
}

func optionalString(obj map[string]any, key string, issues Issues) (string, Issues) {
	v, ok := obj[key]
	if !ok {
		return "", issues
	}
	s, ok := v.(string)
	if !ok {
		return "", append(issues, typeIssue(key, "string", v))
	}
	return s, issues
}

func stringArray(obj map[string]any, key string, issues Issues) ([]string, Issues) {
	v, ok := obj[key]
	if !ok {
		return nil, append(issues, Issue{Path: key, Message: MsgRequired})
	}
	items, ok := v.([]any)
	if !ok {
		return nil, append(issues, typeIssue(key, "array", v))
	}
	out := make([]string, 0, len(items))
	for i, item := range items {
		s, ok := item.(string)
		if !ok {
			issues = append(issues, typeIssue(fmt.Sprintf("%s.%d", key, i), "string", item))
			continue
		}
		out = append(out, s)
	}
	return out, issues
}

func typeIssue(path, want string, got any) Issue {
	return Issue{Path: path, Message: fmt.Sprintf("Expected %s, received %s", want, kindOf(got))}
}

func kindOf(v any) string {
	switch v.(type) {
	case nil:
		return "null"
	case string:
		return "string"
	case bool:
		return "boolean"
	case json.Number, float64, int:
		return "number"
	case []any:
		return "array"
	case map[string]any:
		return "object"
	default:
		return fmt.Sprintf("%T", v)
	}
}
