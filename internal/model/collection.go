package model

// IndexOf returns the position of the bookmark with the given ID, or -1.
func IndexOf(bookmarks []Bookmark, id string) int {
	for i := range bookmarks {
		if bookmarks[i].ID == id {
			return i
		}
	}
	return -1
}

// FindByID finds a bookmark by ID, returns nil if not found.
func FindByID(bookmarks []Bookmark, id string) *Bookmark {
	if i := IndexOf(bookmarks, id); i >= 0 {
		return &bookmarks[i]
	}
	return nil
}

// Without returns a new slice with every bookmark matching id removed.
func Without(bookmarks []Bookmark, id string) []Bookmark {
	out := make([]Bookmark, 0, len(bookmarks))
	for _, b := range bookmarks {
		if b.ID != id {
			out = append(out, b)
		}
	}
	return out
}

// Prepend returns a new slice with b at the head.
func Prepend(bookmarks []Bookmark, b Bookmark) []Bookmark {
	out := make([]Bookmark, 0, len(bookmarks)+1)
	out = append(out, b)
	return append(out, bookmarks...)
}

// Replace returns a new slice with the bookmark sharing b's ID swapped for b.
func Replace(bookmarks []Bookmark, b Bookmark) []Bookmark {
	out := CloneAll(bookmarks)
	if i := IndexOf(out, b.ID); i >= 0 {
		out[i] = b
	}
	return out
}

// CloneAll deep-copies a collection. A nil input yields an empty slice.
func CloneAll(bookmarks []Bookmark) []Bookmark {
	out := make([]Bookmark, len(bookmarks))
	for i, b := range bookmarks {
		out[i] = b.Clone()
	}
	return out
}

// URLSet returns the set of URLs in the collection (exact strings).
func URLSet(bookmarks []Bookmark) map[string]struct{} {
	set := make(map[string]struct{}, len(bookmarks))
	for _, b := range bookmarks {
		set[b.URL] = struct{}{}
	}
	return set
}

// AllTags returns the unique tags in first-seen order.
func AllTags(bookmarks []Bookmark) []string {
	seen := make(map[string]bool)
	var tags []string
	for _, b := range bookmarks {
		for _, t := range b.Tags {
			if !seen[t] {
				seen[t] = true
				tags = append(tags, t)
			}
		}
	}
	return tags
}
