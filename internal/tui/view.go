package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/nikbrunner/vault/internal/model"
	"github.com/nikbrunner/vault/internal/tui/layout"
)

// renderView creates the list view, or the dialog for the current mode.
func (a App) renderView() string {
	switch a.mode {
	case ModeForm, ModeConfirmDelete:
		return a.renderModal()
	case ModeHelp:
		return a.renderHelpOverlay()
	}

	content := a.styles.App.Render(lipgloss.JoinVertical(lipgloss.Left,
		a.renderHeader(),
		a.renderSearchLine(),
		a.renderBanner(),
		a.renderList(),
		a.renderHelpBar(),
	))

	// Use Place to ensure exact terminal dimensions and prevent overflow
	return lipgloss.Place(a.width, a.height, lipgloss.Left, lipgloss.Top, content)
}

func (a App) renderHeader() string {
	total := len(a.snap.Bookmarks)
	shown := len(a.snap.Filtered)
	count := fmt.Sprintf("%d bookmarks", total)
	if shown != total {
		count = fmt.Sprintf("%d of %d bookmarks", shown, total)
	}
	header := a.styles.Header.Render("vault") + "  " + a.styles.Help.Render(count)
	if a.snap.SimulateFailure {
		header += "  " + a.styles.Warning.Render("[simulating failures]")
	}
	return header
}

func (a App) renderSearchLine() string {
	if a.mode == ModeSearch {
		return a.search.View()
	}
	if a.snap.SearchTerm != "" {
		return a.styles.Help.Render("/" + a.snap.SearchTerm)
	}
	return ""
}

// renderBanner shows the manager's error, else the status message.
func (a App) renderBanner() string {
	if a.snap.Err != "" {
		return a.styles.Error.Render("✗ " + a.snap.Err)
	}
	if a.messageText == "" {
		return ""
	}

	switch a.messageType {
	case MessageError:
		return a.styles.Error.Render("✗ " + a.messageText)
	case MessageWarning:
		return a.styles.Warning.Render("⚠ " + a.messageText)
	case MessageSuccess:
		return a.styles.Success.Render("✓ " + a.messageText)
	default:
		return a.styles.Help.Render(a.messageText)
	}
}

func (a App) renderList() string {
	cfg := a.layoutConfig.List
	height := layout.ListHeight(a.height, cfg)

	if len(a.snap.Filtered) == 0 {
		msg := "No bookmarks yet. Press a to add one."
		if strings.TrimSpace(a.snap.DebouncedTerm) != "" {
			msg = "No bookmarks match your search."
		}
		return lipgloss.NewStyle().Height(height).Render(a.styles.Empty.Render(msg))
	}

	visible := layout.VisibleItems(height, cfg)
	offset := layout.ViewportOffset(a.cursor, len(a.snap.Filtered), visible)
	end := min(offset+visible, len(a.snap.Filtered))
	width := a.width - cfg.ContentPadding

	var lines []string
	for i := offset; i < end; i++ {
		lines = append(lines, a.renderItem(a.snap.Filtered[i], i == a.cursor, width))
	}
	return lipgloss.NewStyle().Height(height).Render(strings.Join(lines, "\n"))
}

// renderItem renders a bookmark as title line plus url/tags line. Records
// awaiting confirmation are dimmed and labelled.
func (a App) renderItem(b model.Bookmark, isCursor bool, maxWidth int) string {
	text := a.layoutConfig.Text

	title := b.Title
	switch {
	case a.snap.IsPendingAdd(b.ID):
		title += " (saving...)"
	case a.snap.IsPendingDelete(b.ID):
		title += " (deleting...)"
	}
	title = layout.Truncate(title, maxWidth, text)

	detail := b.URL
	if len(b.Tags) > 0 {
		detail += "  #" + strings.Join(b.Tags, " #")
	}
	detail = layout.Truncate(detail, maxWidth-2, text)

	pending := a.snap.IsPendingAdd(b.ID) || a.snap.IsPendingDelete(b.ID)
	switch {
	case isCursor:
		return a.styles.ItemSelected.Render(title) + "\n" + a.styles.Item.Render("  "+detail)
	case pending:
		return a.styles.Pending.Render(title) + "\n" + a.styles.Pending.Render("  "+detail)
	default:
		return a.styles.Item.Render(title) + "\n" + a.styles.Item.Render("  "+a.styles.URL.Render(detail))
	}
}

func (a App) renderHelpBar() string {
	return "\n" + a.renderHints(a.contextualHints())
}

func (a App) renderModal() string {
	var content strings.Builder
	modalStyle := a.styles.Modal.Width(layout.ModalWidth(a.width, a.layoutConfig.Modal))

	switch a.mode {
	case ModeForm:
		if a.form.Editing() {
			content.WriteString(a.styles.Title.Render("Edit Bookmark") + "\n\n")
		} else {
			content.WriteString(a.styles.Title.Render("Add Bookmark") + "\n\n")
		}
		for i := range fieldCount {
			content.WriteString(fieldLabels[i] + ":\n")
			content.WriteString(a.form.inputs[i].View() + "\n")
			if msg := a.form.issues.For(fieldPaths[i]); msg != "" {
				content.WriteString(a.styles.FieldError.Render(msg) + "\n")
			}
			content.WriteString("\n")
		}
		content.WriteString(a.renderHintsInline(a.contextualHints()))

	case ModeConfirmDelete:
		title := a.deleteID
		if b := model.FindByID(a.snap.Bookmarks, a.deleteID); b != nil {
			title = b.Title
		}
		content.WriteString(a.styles.Title.Render("Delete Bookmark?") + "\n\n")
		content.WriteString(fmt.Sprintf("%q will be removed.\n\n", title))
		content.WriteString(a.renderHintsInline(a.contextualHints()))
	}

	return lipgloss.Place(a.width, a.height, lipgloss.Center, lipgloss.Center, modalStyle.Render(content.String()))
}

func (a App) renderHelpOverlay() string {
	modalStyle := lipgloss.NewStyle().Padding(1, 2)

	var left strings.Builder
	left.WriteString(a.styles.Title.Render("nav") + "\n")
	left.WriteString("j/k  move\n")
	left.WriteString("gg   top\n")
	left.WriteString("G    bottom\n")
	left.WriteString("/    search\n")
	left.WriteString("\n")
	left.WriteString(a.styles.Title.Render("act") + "\n")
	left.WriteString("o    open url\n")
	left.WriteString("Y    yank url\n")
	left.WriteString("r    reload\n")

	var right strings.Builder
	right.WriteString(a.styles.Title.Render("edit") + "\n")
	right.WriteString("a    add bookmark\n")
	right.WriteString("e    edit\n")
	right.WriteString("d    delete\n")
	right.WriteString("\n")
	right.WriteString(a.styles.Title.Render("debug") + "\n")
	right.WriteString("!    simulate failures\n")
	right.WriteString("esc  dismiss error\n")
	right.WriteString("\n")
	right.WriteString(a.styles.Help.Render("[?/esc] close  [q] quit"))

	leftCol := lipgloss.NewStyle().Width(20).Render(left.String())
	rightCol := lipgloss.NewStyle().Width(26).Render(right.String())
	cols := lipgloss.JoinHorizontal(lipgloss.Top, leftCol, "  ", rightCol)

	return lipgloss.Place(a.width, a.height, lipgloss.Left, lipgloss.Top, modalStyle.Render(cols))
}

// renderCrash is the fallback screen after a recovered panic.
func (a App) renderCrash(reason string) string {
	var b strings.Builder
	b.WriteString(a.styles.Error.Render("Something went wrong.") + "\n\n")
	b.WriteString(a.styles.Help.Render(reason) + "\n\n")
	b.WriteString(a.renderHintsInline([]Hint{
		{Key: "r", Desc: "try again"},
		{Key: "q", Desc: "quit"},
	}))
	return a.styles.App.Render(b.String())
}
