package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/nikbrunner/vault/internal/model"
	"github.com/nikbrunner/vault/internal/tui/layout"
	"github.com/nikbrunner/vault/internal/validation"
)

type field int

const (
	fieldTitle field = iota
	fieldURL
	fieldDescription
	fieldTags
	fieldCount
)

var fieldLabels = [fieldCount]string{"Title", "URL", "Description", "Tags (comma-separated)"}

var fieldPaths = [fieldCount]string{"title", "url", "description", "tags"}

// Form is the add/edit bookmark dialog.
type Form struct {
	editID string // empty when adding
	inputs [fieldCount]textinput.Model
	focus  field
	issues validation.Issues
}

// NewForm returns an empty add form.
func NewForm(cfg layout.InputConfig) Form {
	var f Form
	limits := [fieldCount]int{cfg.TitleCharLimit, cfg.URLCharLimit, cfg.DescriptionCharLimit, cfg.TagsCharLimit}
	placeholders := [fieldCount]string{"Bookmark title", "https://", "Optional description", "dev, go"}
	for i := range f.inputs {
		ti := textinput.New()
		ti.Prompt = "> "
		ti.Placeholder = placeholders[i]
		ti.CharLimit = limits[i]
		ti.Width = cfg.Width
		f.inputs[i] = ti
	}
	return f
}

// EditForm returns a form prefilled with b.
func EditForm(cfg layout.InputConfig, b model.Bookmark) Form {
	f := NewForm(cfg)
	f.editID = b.ID
	f.inputs[fieldTitle].SetValue(b.Title)
	f.inputs[fieldURL].SetValue(b.URL)
	f.inputs[fieldDescription].SetValue(b.Description)
	f.inputs[fieldTags].SetValue(FormatTags(b.Tags))
	return f
}

// Editing reports whether the form edits an existing bookmark.
func (f Form) Editing() bool { return f.editID != "" }

// Focus focuses the current field.
func (f *Form) Focus() tea.Cmd {
	for i := range f.inputs {
		f.inputs[i].Blur()
	}
	return f.inputs[f.focus].Focus()
}

func (f *Form) next() tea.Cmd {
	f.focus = (f.focus + 1) % fieldCount
	return f.Focus()
}

func (f *Form) prev() tea.Cmd {
	f.focus = (f.focus + fieldCount - 1) % fieldCount
	return f.Focus()
}

func (f Form) onLastField() bool { return f.focus == fieldTags }

// Update forwards msg to the focused input.
func (f Form) Update(msg tea.Msg) (Form, tea.Cmd) {
	var cmd tea.Cmd
	f.inputs[f.focus], cmd = f.inputs[f.focus].Update(msg)
	return f, cmd
}

// CreateInput reads the form as input for a new bookmark.
func (f Form) CreateInput() model.CreateInput {
	return model.CreateInput{
		Title:       strings.TrimSpace(f.inputs[fieldTitle].Value()),
		URL:         strings.TrimSpace(f.inputs[fieldURL].Value()),
		Description: strings.TrimSpace(f.inputs[fieldDescription].Value()),
		Tags:        ParseTags(f.inputs[fieldTags].Value()),
	}
}

// UpdateInput reads the form as a full replacement of the editable fields.
func (f Form) UpdateInput() model.UpdateInput {
	in := f.CreateInput()
	return model.UpdateInput{
		Title:       &in.Title,
		URL:         &in.URL,
		Description: &in.Description,
		Tags:        &in.Tags,
	}
}

// ParseTags splits a comma-separated list, trimming each tag and dropping
// blanks. The result is never nil.
func ParseTags(s string) []string {
	tags := []string{}
	for _, part := range strings.Split(s, ",") {
		if t := strings.TrimSpace(part); t != "" {
			tags = append(tags, t)
		}
	}
	return tags
}

// FormatTags is the inverse of ParseTags.
func FormatTags(tags []string) string {
	return strings.Join(tags, ", ")
}
