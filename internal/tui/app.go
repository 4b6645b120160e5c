// Package tui is the interactive list view over the state manager.
package tui

import (
	"context"
	"errors"
	"fmt"
	"runtime/debug"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/nikbrunner/vault/internal/logger"
	"github.com/nikbrunner/vault/internal/model"
	"github.com/nikbrunner/vault/internal/state"
	"github.com/nikbrunner/vault/internal/tui/layout"
	"github.com/nikbrunner/vault/internal/validation"
)

// Mode is what the keyboard currently drives.
type Mode int

const (
	ModeNormal Mode = iota
	ModeSearch
	ModeForm
	ModeConfirmDelete
	ModeHelp
)

// MessageType selects the styling of the status line.
type MessageType int

const (
	MessageInfo MessageType = iota
	MessageSuccess
	MessageWarning
	MessageError
)

type (
	changedMsg struct{}
	loadedMsg  struct{}
	yankedMsg  struct {
		url string
		err error
	}
	openedMsg struct{ err error }
)

// App is the main bubbletea model for the bookmark vault.
type App struct {
	ctx          context.Context
	mgr          *state.Manager
	keys         KeyMap
	styles       Styles
	layoutConfig layout.Config
	log          logger.Logger
	copyURL      func(string) error
	openURL      func(string) error

	mode     Mode
	snap     state.Snapshot
	cursor   int
	search   textinput.Model
	form     Form
	deleteID string

	// For gg command
	lastKeyWasG bool

	messageText string
	messageType MessageType

	// crashed holds the recovered panic; the view falls back to an error
	// screen until the user retries.
	crashed string

	width  int
	height int
}

// AppParams holds parameters for creating a new App.
type AppParams struct {
	Context      context.Context
	Manager      *state.Manager
	Keys         *KeyMap            // optional, uses default if nil
	Styles       *Styles            // optional, uses default if nil
	LayoutConfig *layout.Config     // optional, uses default if nil
	Logger       logger.Logger      // optional, discards if nil
	Clipboard    func(string) error // optional, system clipboard if nil
	OpenURL      func(string) error // optional, system browser if nil
}

// NewApp creates a new App with the given parameters.
func NewApp(params AppParams) App {
	keys := DefaultKeyMap()
	if params.Keys != nil {
		keys = *params.Keys
	}
	styles := DefaultStyles()
	if params.Styles != nil {
		styles = *params.Styles
	}
	cfg := layout.DefaultConfig()
	if params.LayoutConfig != nil {
		cfg = *params.LayoutConfig
	}
	ctx := params.Context
	if ctx == nil {
		ctx = context.Background()
	}
	log := params.Logger
	if log == nil {
		log = logger.NewNop()
	}
	copyURL := params.Clipboard
	if copyURL == nil {
		copyURL = clipboard.WriteAll
	}
	openURL := params.OpenURL
	if openURL == nil {
		openURL = OpenURL
	}

	search := textinput.New()
	search.Prompt = "/"
	search.Placeholder = "Search bookmarks..."
	search.CharLimit = cfg.Input.SearchCharLimit
	search.Width = cfg.Input.Width

	return App{
		ctx:          ctx,
		mgr:          params.Manager,
		keys:         keys,
		styles:       styles,
		layoutConfig: cfg,
		log:          log,
		copyURL:      copyURL,
		openURL:      openURL,
		search:       search,
		width:        80,
		height:       24,
	}
}

// WithDimensions returns a copy of the app sized to width x height.
func (a App) WithDimensions(width, height int) App {
	a.width = width
	a.height = height
	return a
}

// Cursor returns the current cursor position.
func (a App) Cursor() int { return a.cursor }

// Mode returns the current input mode.
func (a App) Mode() Mode { return a.mode }

// Snapshot returns the state last rendered.
func (a App) Snapshot() state.Snapshot { return a.snap }

// Message returns the status line text.
func (a App) Message() string { return a.messageText }

// Crashed returns the recovered panic message, if any.
func (a App) Crashed() string { return a.crashed }

// Init implements tea.Model.
func (a App) Init() tea.Cmd {
	return tea.Batch(a.load(), a.waitForChange())
}

func (a App) load() tea.Cmd {
	mgr, ctx := a.mgr, a.ctx
	return func() tea.Msg {
		mgr.Load(ctx)
		return loadedMsg{}
	}
}

func (a App) waitForChange() tea.Cmd {
	ch := a.mgr.Changes()
	return func() tea.Msg {
		<-ch
		return changedMsg{}
	}
}

// refresh re-reads the manager and keeps the cursor in range.
func (a *App) refresh() {
	a.snap = a.mgr.Snapshot(a.ctx)
	if n := len(a.snap.Filtered); a.cursor >= n {
		a.cursor = max(n-1, 0)
	}
}

func (a *App) setMessage(t MessageType, text string) {
	a.messageType = t
	a.messageText = text
}

func (a App) selected() (model.Bookmark, bool) {
	if a.cursor < 0 || a.cursor >= len(a.snap.Filtered) {
		return model.Bookmark{}, false
	}
	return a.snap.Filtered[a.cursor], true
}

// Update implements tea.Model. A panic while handling msg is recovered and
// switches the app to its error screen.
func (a App) Update(msg tea.Msg) (m tea.Model, cmd tea.Cmd) {
	defer func() {
		if r := recover(); r != nil {
			a.crashed = fmt.Sprint(r)
			a.log.Error("recovered panic",
				logger.String("panic", a.crashed),
				logger.String("stack", string(debug.Stack())))
			m, cmd = a, nil
		}
	}()

	if a.crashed != "" {
		return a.updateCrashed(msg)
	}
	return a.update(msg)
}

func (a App) updateCrashed(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width, a.height = msg.Width, msg.Height
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, a.keys.Quit):
			return a, tea.Quit
		case key.Matches(msg, a.keys.Refresh):
			a.crashed = ""
			a.mode = ModeNormal
			// the crash may have dropped the change subscription
			return a, tea.Batch(a.load(), a.waitForChange())
		}
	}
	return a, nil
}

func (a App) update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		return a, nil

	case changedMsg:
		a.refresh()
		return a, a.waitForChange()

	case loadedMsg:
		a.refresh()
		return a, nil

	case yankedMsg:
		if msg.err != nil {
			a.setMessage(MessageError, "Copy failed: "+msg.err.Error())
		} else {
			a.setMessage(MessageSuccess, "Copied "+msg.url)
		}
		return a, nil

	case openedMsg:
		if msg.err != nil {
			a.setMessage(MessageError, "Open failed: "+msg.err.Error())
		}
		return a, nil

	case tea.KeyMsg:
		switch a.mode {
		case ModeSearch:
			return a.updateSearch(msg)
		case ModeForm:
			return a.updateForm(msg)
		case ModeConfirmDelete:
			return a.updateConfirmDelete(msg)
		case ModeHelp:
			return a.updateHelp(msg)
		default:
			return a.updateNormal(msg)
		}
	}

	if a.mode == ModeForm {
		var cmd tea.Cmd
		a.form, cmd = a.form.Update(msg)
		return a, cmd
	}
	if a.mode == ModeSearch {
		var cmd tea.Cmd
		a.search, cmd = a.search.Update(msg)
		return a, cmd
	}
	return a, nil
}

func (a App) updateNormal(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// Handle gg sequence
	if key.Matches(msg, a.keys.Top) {
		if a.lastKeyWasG {
			a.cursor = 0
			a.lastKeyWasG = false
			return a, nil
		}
		a.lastKeyWasG = true
		return a, nil
	}
	a.lastKeyWasG = false

	switch {
	case key.Matches(msg, a.keys.Quit):
		return a, tea.Quit

	case key.Matches(msg, a.keys.Down):
		if a.cursor < len(a.snap.Filtered)-1 {
			a.cursor++
		}

	case key.Matches(msg, a.keys.Up):
		if a.cursor > 0 {
			a.cursor--
		}

	case key.Matches(msg, a.keys.Bottom):
		if n := len(a.snap.Filtered); n > 0 {
			a.cursor = n - 1
		}

	case key.Matches(msg, a.keys.Search):
		a.mode = ModeSearch
		a.search.SetValue(a.snap.SearchTerm)
		a.search.CursorEnd()
		cmd := a.search.Focus()
		return a, cmd

	case key.Matches(msg, a.keys.Add):
		a.form = NewForm(a.layoutConfig.Input)
		a.mode = ModeForm
		cmd := a.form.Focus()
		return a, cmd

	case key.Matches(msg, a.keys.Edit):
		b, ok := a.selected()
		if !ok || a.snap.IsPendingAdd(b.ID) || a.snap.IsPendingDelete(b.ID) {
			return a, nil
		}
		a.form = EditForm(a.layoutConfig.Input, b)
		a.mode = ModeForm
		cmd := a.form.Focus()
		return a, cmd

	case key.Matches(msg, a.keys.Delete):
		b, ok := a.selected()
		if !ok || a.snap.IsPendingDelete(b.ID) {
			return a, nil
		}
		a.deleteID = b.ID
		a.mode = ModeConfirmDelete

	case key.Matches(msg, a.keys.YankURL):
		if b, ok := a.selected(); ok {
			return a, a.yank(b.URL)
		}

	case key.Matches(msg, a.keys.Open):
		if b, ok := a.selected(); ok {
			open := a.openURL
			url := b.URL
			return a, func() tea.Msg { return openedMsg{err: open(url)} }
		}

	case key.Matches(msg, a.keys.Refresh):
		a.setMessage(MessageInfo, "Reloaded")
		return a, a.load()

	case key.Matches(msg, a.keys.ToggleFailure):
		on := !a.mgr.SimulateFailure()
		a.mgr.SetSimulateFailure(on)
		if on {
			a.setMessage(MessageWarning, "Failure simulation on: saves, updates and deletes will fail")
		} else {
			a.setMessage(MessageInfo, "Failure simulation off")
		}
		a.refresh()

	case key.Matches(msg, a.keys.Dismiss):
		if a.snap.Err != "" {
			a.mgr.ClearError()
			a.refresh()
		}
		a.messageText = ""

	case key.Matches(msg, a.keys.Help):
		a.mode = ModeHelp
	}

	return a, nil
}

func (a App) yank(url string) tea.Cmd {
	copyURL := a.copyURL
	return func() tea.Msg {
		return yankedMsg{url: url, err: copyURL(url)}
	}
}

func (a App) updateSearch(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		a.search.SetValue("")
		a.search.Blur()
		a.mgr.SetSearchTerm("")
		a.mode = ModeNormal
		a.cursor = 0
		a.refresh()
		return a, nil

	case tea.KeyEnter:
		a.search.Blur()
		a.mode = ModeNormal
		return a, nil
	}

	before := a.search.Value()
	var cmd tea.Cmd
	a.search, cmd = a.search.Update(msg)
	if v := a.search.Value(); v != before {
		a.mgr.SetSearchTerm(v)
		a.cursor = 0
		a.refresh()
	}
	return a, cmd
}

func (a App) updateForm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		a.mode = ModeNormal
		return a, nil

	case "tab", "down":
		cmd := a.form.next()
		return a, cmd

	case "shift+tab", "up":
		cmd := a.form.prev()
		return a, cmd

	case "enter":
		if !a.form.onLastField() {
			cmd := a.form.next()
			return a, cmd
		}
		return a.submitForm()

	case "ctrl+s":
		return a.submitForm()
	}

	var cmd tea.Cmd
	a.form, cmd = a.form.Update(msg)
	return a, cmd
}

func (a App) submitForm() (tea.Model, tea.Cmd) {
	in := a.form.CreateInput()
	if issues := validation.ValidateCreateInput(in); !issues.OK() {
		a.form.issues = issues
		return a, nil
	}

	var err error
	if a.form.Editing() {
		err = a.mgr.Update(a.ctx, a.form.editID, a.form.UpdateInput())
	} else {
		_, err = a.mgr.Create(a.ctx, in)
		if err == nil {
			// new records are prepended
			a.cursor = 0
		}
	}

	var issues validation.Issues
	switch {
	case errors.As(err, &issues):
		a.form.issues = issues
		return a, nil
	case err != nil:
		a.setMessage(MessageError, err.Error())
	}

	a.mode = ModeNormal
	a.refresh()
	return a, nil
}

func (a App) updateConfirmDelete(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "y", "enter":
		a.mgr.Delete(a.ctx, a.deleteID)
		a.deleteID = ""
		a.mode = ModeNormal
		a.refresh()
	case "n", "esc", "q":
		a.deleteID = ""
		a.mode = ModeNormal
	}
	return a, nil
}

func (a App) updateHelp(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, a.keys.Help), key.Matches(msg, a.keys.Dismiss):
		a.mode = ModeNormal
	case key.Matches(msg, a.keys.Quit):
		return a, tea.Quit
	}
	return a, nil
}

// View implements tea.Model. A panic while rendering shows the error screen.
func (a App) View() (out string) {
	defer func() {
		if r := recover(); r != nil {
			a.log.Error("recovered panic in view", logger.String("panic", fmt.Sprint(r)))
			out = a.renderCrash(fmt.Sprint(r))
		}
	}()

	if a.crashed != "" {
		return a.renderCrash(a.crashed)
	}
	return a.renderView()
}
