package model

// Bookmark represents a saved URL with metadata.
// Timestamps are ISO-8601 strings so persisted records round-trip unchanged.
type Bookmark struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	URL         string   `json:"url"`
	Description string   `json:"description,omitempty"`
	Tags        []string `json:"tags"`
	CreatedAt   string   `json:"createdAt"`
	UpdatedAt   string   `json:"updatedAt,omitempty"`
}

// CreateInput holds the caller-supplied fields for a new Bookmark.
type CreateInput struct {
	Title       string   `json:"title"`
	URL         string   `json:"url"`
	Description string   `json:"description,omitempty"`
	Tags        []string `json:"tags"`
}

// UpdateInput is a partial Bookmark. Nil fields are left untouched.
type UpdateInput struct {
	Title       *string   `json:"title,omitempty"`
	URL         *string   `json:"url,omitempty"`
	Description *string   `json:"description,omitempty"`
	Tags        *[]string `json:"tags,omitempty"`
}

// NewBookmark builds a full record from input, id and creation timestamp.
func NewBookmark(in CreateInput, id, createdAt string) Bookmark {
	return Bookmark{
		ID:          id,
		Title:       in.Title,
		URL:         in.URL,
		Description: in.Description,
		Tags:        copyTags(in.Tags),
		CreatedAt:   createdAt,
	}
}

// Input returns the mutable fields of b as a CreateInput.
func (b Bookmark) Input() CreateInput {
	return CreateInput{
		Title:       b.Title,
		URL:         b.URL,
		Description: b.Description,
		Tags:        copyTags(b.Tags),
	}
}

// Clone returns a deep copy of b.
func (b Bookmark) Clone() Bookmark {
	b.Tags = copyTags(b.Tags)
	return b
}

// IsEmpty reports whether no field is set.
func (u UpdateInput) IsEmpty() bool {
	return u.Title == nil && u.URL == nil && u.Description == nil && u.Tags == nil
}

// ApplyTo merges the set fields onto b and stamps UpdatedAt.
func (u UpdateInput) ApplyTo(b Bookmark, updatedAt string) Bookmark {
	b = b.Clone()
	if u.Title != nil {
		b.Title = *u.Title
	}
	if u.URL != nil {
		b.URL = *u.URL
	}
	if u.Description != nil {
		b.Description = *u.Description
	}
	if u.Tags != nil {
		b.Tags = copyTags(*u.Tags)
	}
	b.UpdatedAt = updatedAt
	return b
}

func copyTags(tags []string) []string {
	out := make([]string, len(tags))
	copy(out, tags)
	return out
}
