package state

import (
	"github.com/nikbrunner/vault/internal/model"
)

// Kind identifies a state transition.
type Kind int

const (
	CreateRequested Kind = iota
	CreateConfirmed
	CreateFailed
	DeleteRequested
	DeleteConfirmed
	DeleteFailed
	UpdateRequested
	UpdateConfirmed
	UpdateFailed
	CollectionReplaced
	ErrorCleared
)

var kindNames = [...]string{
	CreateRequested:    "create-requested",
	CreateConfirmed:    "create-confirmed",
	CreateFailed:       "create-failed",
	DeleteRequested:    "delete-requested",
	DeleteConfirmed:    "delete-confirmed",
	DeleteFailed:       "delete-failed",
	UpdateRequested:    "update-requested",
	UpdateConfirmed:    "update-confirmed",
	UpdateFailed:       "update-failed",
	CollectionReplaced: "collection-replaced",
	ErrorCleared:       "error-cleared",
}

func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return "unknown"
	}
	return kindNames[k]
}

// Action is the input to Reduce. Which fields are read depends on Kind:
//   - CreateRequested, UpdateRequested: Bookmark
//   - UpdateFailed: Bookmark holds the record to restore; a zero Bookmark
//     leaves the collection unchanged
//   - CollectionReplaced: Bookmarks
//   - *Failed: Err
type Action struct {
	Kind      Kind
	ID        string
	Bookmark  model.Bookmark
	Bookmarks []model.Bookmark
	Err       string
}

// State is the in-memory view of the collection.
type State struct {
	Bookmarks      []model.Bookmark
	PendingAdds    map[string]struct{}
	PendingDeletes map[string]struct{}
	Err            string
}

// NewState returns an empty State.
func NewState() State {
	return State{
		Bookmarks:      []model.Bookmark{},
		PendingAdds:    map[string]struct{}{},
		PendingDeletes: map[string]struct{}{},
	}
}

// IsPendingAdd reports whether id awaits create confirmation.
func (s State) IsPendingAdd(id string) bool {
	_, ok := s.PendingAdds[id]
	return ok
}

// IsPendingDelete reports whether id awaits delete confirmation.
func (s State) IsPendingDelete(id string) bool {
	_, ok := s.PendingDeletes[id]
	return ok
}

// Clone returns a deep copy of s.
func (s State) Clone() State {
	return State{
		Bookmarks:      model.CloneAll(s.Bookmarks),
		PendingAdds:    copySet(s.PendingAdds),
		PendingDeletes: copySet(s.PendingDeletes),
		Err:            s.Err,
	}
}

func copySet(set map[string]struct{}) map[string]struct{} {
	out := make(map[string]struct{}, len(set))
	for k := range set {
		out[k] = struct{}{}
	}
	return out
}

func with(set map[string]struct{}, id string) map[string]struct{} {
	out := copySet(set)
	out[id] = struct{}{}
	return out
}

func without(set map[string]struct{}, id string) map[string]struct{} {
	out := copySet(set)
	delete(out, id)
	return out
}

// Reduce returns the state that follows s after a. It never mutates s.
func Reduce(s State, a Action) State {
	switch a.Kind {
	case CollectionReplaced:
		bookmarks := model.CloneAll(a.Bookmarks)
		return State{
			Bookmarks:      bookmarks,
			PendingAdds:    map[string]struct{}{},
			PendingDeletes: map[string]struct{}{},
		}

	case CreateRequested:
		return State{
			Bookmarks:      model.Prepend(s.Bookmarks, a.Bookmark.Clone()),
			PendingAdds:    with(s.PendingAdds, a.Bookmark.ID),
			PendingDeletes: s.PendingDeletes,
		}

	case CreateConfirmed:
		return State{
			Bookmarks:      s.Bookmarks,
			PendingAdds:    without(s.PendingAdds, a.ID),
			PendingDeletes: s.PendingDeletes,
		}

	case CreateFailed:
		return State{
			Bookmarks:      model.Without(s.Bookmarks, a.ID),
			PendingAdds:    without(s.PendingAdds, a.ID),
			PendingDeletes: s.PendingDeletes,
			Err:            a.Err,
		}

	case DeleteRequested:
		return State{
			Bookmarks:      s.Bookmarks,
			PendingAdds:    s.PendingAdds,
			PendingDeletes: with(s.PendingDeletes, a.ID),
		}

	case DeleteConfirmed:
		return State{
			Bookmarks:      model.Without(s.Bookmarks, a.ID),
			PendingAdds:    s.PendingAdds,
			PendingDeletes: without(s.PendingDeletes, a.ID),
		}

	case DeleteFailed:
		return State{
			Bookmarks:      s.Bookmarks,
			PendingAdds:    s.PendingAdds,
			PendingDeletes: without(s.PendingDeletes, a.ID),
			Err:            a.Err,
		}

	case UpdateRequested:
		return State{
			Bookmarks:      model.Replace(s.Bookmarks, a.Bookmark.Clone()),
			PendingAdds:    s.PendingAdds,
			PendingDeletes: s.PendingDeletes,
		}

	case UpdateConfirmed:
		return State{
			Bookmarks:      s.Bookmarks,
			PendingAdds:    s.PendingAdds,
			PendingDeletes: s.PendingDeletes,
		}

	case UpdateFailed:
		bookmarks := s.Bookmarks
		if a.Bookmark.ID != "" {
			bookmarks = model.Replace(s.Bookmarks, a.Bookmark.Clone())
		}
		return State{
			Bookmarks:      bookmarks,
			PendingAdds:    s.PendingAdds,
			PendingDeletes: s.PendingDeletes,
			Err:            a.Err,
		}

	case ErrorCleared:
		return State{
			Bookmarks:      s.Bookmarks,
			PendingAdds:    s.PendingAdds,
			PendingDeletes: s.PendingDeletes,
		}

	default:
		return s
	}
}
