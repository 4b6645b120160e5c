package layout

// Config holds the sizing knobs for the list view and its dialogs.
type Config struct {
	List  ListConfig
	Modal ModalConfig
	Input InputConfig
	Text  TextConfig
}

// ListConfig sizes the bookmark list.
type ListConfig struct {
	// ChromeLines is subtracted from the terminal height for the list.
	// Accounts for: app padding (1) + header (1) + search line (1) + banner (1) + help bar (2) = 6
	ChromeLines int

	// MinHeight is the minimum list height in lines.
	MinHeight int

	// LinesPerItem is title + url/tags.
	LinesPerItem int

	// ContentPadding is subtracted from the terminal width for item text.
	ContentPadding int
}

// ModalConfig holds dialog configuration.
type ModalConfig struct {
	// WidthPercent is the dialog width as percentage of terminal width.
	WidthPercent int
	MinWidth     int
	MaxWidth     int
}

// InputConfig holds text input limits.
type InputConfig struct {
	TitleCharLimit       int
	URLCharLimit         int
	DescriptionCharLimit int
	TagsCharLimit        int
	SearchCharLimit      int
	Width                int
}

// TextConfig holds text truncation configuration.
type TextConfig struct {
	// Ellipsis is the string used to indicate truncation.
	Ellipsis string
}

// DefaultConfig returns the default layout configuration.
func DefaultConfig() Config {
	return Config{
		List: ListConfig{
			ChromeLines:    6,
			MinHeight:      4,
			LinesPerItem:   2,
			ContentPadding: 6,
		},
		Modal: ModalConfig{
			WidthPercent: 50,
			MinWidth:     50,
			MaxWidth:     80,
		},
		Input: InputConfig{
			TitleCharLimit:       200,
			URLCharLimit:         2000,
			DescriptionCharLimit: 500,
			TagsCharLimit:        200,
			SearchCharLimit:      100,
			Width:                44,
		},
		Text: TextConfig{
			Ellipsis: "...",
		},
	}
}
