package picker

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/nikbrunner/vault/internal/model"
	"github.com/nikbrunner/vault/internal/search"
)

func twoResults() []search.Result {
	return []search.Result{
		{Bookmark: model.Bookmark{ID: "b1", Title: "GitHub", URL: "https://github.com"}},
		{Bookmark: model.Bookmark{ID: "b2", Title: "GitLab", URL: "https://gitlab.com"}},
	}
}

func press(p Picker, msg tea.KeyMsg) (Picker, tea.Cmd) {
	m, cmd := p.Update(msg)
	return m.(Picker), cmd
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestPicker_InitialState(t *testing.T) {
	p := New(twoResults(), "git")

	if p.cursor != 0 {
		t.Errorf("expected cursor at 0, got %d", p.cursor)
	}
	if len(p.results) != 2 {
		t.Errorf("expected 2 results, got %d", len(p.results))
	}
}

func TestPicker_NavigateDownUp(t *testing.T) {
	p := New(twoResults(), "git")

	p, _ = press(p, runes("j"))
	if p.cursor != 1 {
		t.Errorf("expected cursor at 1, got %d", p.cursor)
	}

	p, _ = press(p, runes("k"))
	if p.cursor != 0 {
		t.Errorf("expected cursor at 0, got %d", p.cursor)
	}
}

func TestPicker_BoundsCheck(t *testing.T) {
	p := New(twoResults()[:1], "git")

	p, _ = press(p, runes("k"))
	if p.cursor != 0 {
		t.Errorf("expected cursor at 0, got %d", p.cursor)
	}

	p, _ = press(p, runes("j"))
	if p.cursor != 0 {
		t.Errorf("expected cursor at 0 (only 1 item), got %d", p.cursor)
	}
}

func TestPicker_TopBottom(t *testing.T) {
	p := New(twoResults(), "git")

	p, _ = press(p, runes("G"))
	if p.cursor != 1 {
		t.Errorf("G: expected cursor at 1, got %d", p.cursor)
	}
	p, _ = press(p, runes("g"))
	if p.cursor != 0 {
		t.Errorf("g: expected cursor at 0, got %d", p.cursor)
	}
}

func TestPicker_SelectItem(t *testing.T) {
	p := New(twoResults(), "git")
	p.cursor = 1

	p, cmd := press(p, tea.KeyMsg{Type: tea.KeyEnter})

	if cmd == nil {
		t.Error("expected quit command after selection")
	}
	got, ok := p.SelectedBookmark()
	if !ok || got.ID != "b2" {
		t.Errorf("SelectedBookmark() = %v, %v; want b2", got.ID, ok)
	}
}

func TestPicker_EnterWithNoResults(t *testing.T) {
	p, _ := press(New(nil, "zzz"), tea.KeyMsg{Type: tea.KeyEnter})
	if _, ok := p.SelectedBookmark(); ok {
		t.Error("expected no selection from an empty picker")
	}
}

func TestPicker_Cancel(t *testing.T) {
	p := New(twoResults(), "git")

	p, cmd := press(p, tea.KeyMsg{Type: tea.KeyEsc})

	if !p.Cancelled() {
		t.Error("expected cancelled to be true after Esc")
	}
	if cmd == nil {
		t.Error("expected quit command after cancel")
	}
	if _, ok := p.SelectedBookmark(); ok {
		t.Error("expected no selection when cancelled")
	}
}

func TestPicker_ArrowKeys(t *testing.T) {
	p := New(twoResults(), "git")

	p, _ = press(p, tea.KeyMsg{Type: tea.KeyDown})
	if p.cursor != 1 {
		t.Errorf("expected cursor at 1 after down arrow, got %d", p.cursor)
	}

	p, _ = press(p, tea.KeyMsg{Type: tea.KeyUp})
	if p.cursor != 0 {
		t.Errorf("expected cursor at 0 after up arrow, got %d", p.cursor)
	}
}

func TestPicker_ScrollsWithCursor(t *testing.T) {
	var results []search.Result
	for _, id := range []string{"a", "b", "c", "d", "e", "f"} {
		results = append(results, search.Result{Bookmark: model.Bookmark{ID: id, Title: "title-" + id, URL: "https://" + id + ".com"}})
	}
	p := New(results, "title")
	m, _ := p.Update(tea.WindowSizeMsg{Width: 80, Height: 8}) // two results visible
	p = m.(Picker)

	for range 4 {
		p, _ = press(p, runes("j"))
	}
	if p.offset != 3 {
		t.Errorf("offset = %d, want 3", p.offset)
	}
	view := p.View()
	if strings.Contains(view, "title-a") || !strings.Contains(view, "https://e.com") {
		t.Errorf("view does not follow the cursor:\n%s", view)
	}
}

func TestPicker_ViewShowsTags(t *testing.T) {
	p := New([]search.Result{{Bookmark: model.Bookmark{ID: "1", Title: "Go", URL: "https://go.dev", Tags: []string{"lang", "dev"}}}}, "go")
	if view := p.View(); !strings.Contains(view, "#lang #dev") {
		t.Errorf("view missing tags:\n%s", view)
	}
}
