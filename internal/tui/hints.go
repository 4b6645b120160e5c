package tui

import "strings"

// Hint represents a single keybind hint for display.
type Hint struct {
	Key  string // Display key (e.g., "j/k", "Enter")
	Desc string // Short description (e.g., "move", "open")
}

// renderHint renders a single hint as "key:desc" with styling.
func (a App) renderHint(h Hint) string {
	return a.styles.HintKey.Render(h.Key) + ":" + a.styles.HintDesc.Render(h.Desc)
}

// renderHints renders hints in horizontal format for the bottom bar: "j/k:move /:search"
func (a App) renderHints(hints []Hint) string {
	if len(hints) == 0 {
		return ""
	}
	parts := make([]string, len(hints))
	for i, h := range hints {
		parts[i] = a.renderHint(h)
	}
	return strings.Join(parts, " ")
}

// renderHintsInline renders hints in inline format for dialogs: "Enter confirm  Esc cancel"
func (a App) renderHintsInline(hints []Hint) string {
	if len(hints) == 0 {
		return ""
	}
	parts := make([]string, len(hints))
	for i, h := range hints {
		parts[i] = a.styles.HintKey.Render(h.Key) + " " + a.styles.HintDesc.Render(h.Desc)
	}
	return strings.Join(parts, "  ")
}

// contextualHints returns the hints for the current mode.
func (a App) contextualHints() []Hint {
	switch a.mode {
	case ModeSearch:
		return []Hint{
			{Key: "Enter", Desc: "keep"},
			{Key: "Esc", Desc: "clear"},
		}
	case ModeForm:
		return []Hint{
			{Key: "Tab", Desc: "next"},
			{Key: "Enter", Desc: "save"},
			{Key: "Esc", Desc: "cancel"},
		}
	case ModeConfirmDelete:
		return []Hint{
			{Key: "y", Desc: "delete"},
			{Key: "n", Desc: "cancel"},
		}
	case ModeHelp:
		return nil
	}

	hints := []Hint{{Key: "j/k", Desc: "move"}}
	if _, ok := a.selected(); ok {
		hints = append(hints,
			Hint{Key: "o", Desc: "open"},
			Hint{Key: "Y", Desc: "yank"},
			Hint{Key: "e", Desc: "edit"},
			Hint{Key: "d", Desc: "delete"},
		)
	}
	hints = append(hints,
		Hint{Key: "a", Desc: "add"},
		Hint{Key: "/", Desc: "search"},
		Hint{Key: "!", Desc: "fail"},
		Hint{Key: "?", Desc: "help"},
		Hint{Key: "q", Desc: "quit"},
	)
	if a.snap.Err != "" {
		hints = append(hints, Hint{Key: "Esc", Desc: "dismiss"})
	}
	return hints
}
