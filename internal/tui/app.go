package tui

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/jask/photopicker/internal/config"
	"github.com/jask/photopicker/internal/library"
	"github.com/jask/photopicker/internal/logging"
	"github.com/jask/photopicker/internal/photos"
	"github.com/jask/photopicker/internal/store"
)

// Library lists pickable items. *library.Library satisfies it.
type Library interface {
	List(ctx context.Context, limited bool) ([]library.Handle, error)
}

// App is the single picker screen. It never touches application state
// directly: it dispatches events into the store and renders the states the
// store publishes.
type App struct {
	ctx     context.Context
	store   *store.Store
	library Library
	ui      config.UIConfig

	state  store.State
	states <-chan store.State
	unsub  func()

	items      []library.Handle
	visible    []library.Handle
	menuCursor int
	itemCursor int
	picking    bool
	filtering  bool
	filter     textinput.Model

	prompt *promptMsg

	keys    keyMap
	pkeys   promptKeys
	help    help.Model
	spinner spinner.Model
	status  string
	width   int
	height  int
}

type menuRow int

const (
	rowRequest menuRow = iota
	rowSettings
	rowPick
	menuRows
)

// New builds the screen. The store must be running (or about to run) for
// dispatched events to take effect.
func New(ctx context.Context, st *store.Store, lib Library, ui config.UIConfig) *App {
	states, unsub := st.Subscribe()

	filter := textinput.New()
	filter.Placeholder = "name"
	filter.Prompt = "/ "

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	return &App{
		ctx:     logging.WithComponent(ctx, "tui"),
		store:   st,
		library: lib,
		ui:      ui,
		state:   st.State(),
		states:  states,
		unsub:   unsub,
		filter:  filter,
		keys:    defaultKeyMap(),
		pkeys:   defaultPromptKeys(),
		help:    help.New(),
		spinner: sp,
		width:   80,
		height:  24,
	}
}

// Close releases the store subscription and any open prompt.
func (a *App) Close() {
	a.closePrompt()
	a.unsub()
}

func (a *App) Init() tea.Cmd {
	return tea.Batch(a.waitForState(), a.dispatch(store.Start{}), a.spinner.Tick)
}

// messages
type stateMsg store.State

type storeClosedMsg struct{}

type itemsMsg []library.Handle

type errMsg struct{ error }

type promptMsg struct {
	reply chan photos.AuthorizationStatus
}

type openEditorMsg struct {
	editor string
	path   string
	done   chan error
}

type editorDoneMsg struct {
	err  error
	done chan error
}

// LibraryChanged tells the screen to re-read the library listing.
type LibraryChanged struct{}

// ConfigChanged carries reloaded UI settings.
type ConfigChanged struct {
	UI config.UIConfig
}

func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch m := msg.(type) {
	case tea.WindowSizeMsg:
		a.width, a.height = m.Width, m.Height
		a.help.Width = m.Width
		return a, nil

	case tea.KeyMsg:
		if a.prompt != nil {
			return a.handlePromptKey(m)
		}
		if a.filtering {
			return a.handleFilterKey(m)
		}
		if a.picking {
			return a.handlePickerKey(m)
		}
		return a.handleMenuKey(m)

	case stateMsg:
		prev := a.state
		a.state = store.State(m)
		cmds := []tea.Cmd{a.waitForState()}
		if prev.Status != a.state.Status {
			cmds = append(cmds, a.statusChanged())
		}
		return a, tea.Batch(cmds...)

	case storeClosedMsg:
		return a, tea.Quit

	case itemsMsg:
		a.items = []library.Handle(m)
		a.applyFilter()
		return a, nil

	case LibraryChanged:
		if a.state.Status.CanBrowse() {
			return a, a.loadItems()
		}
		return a, nil

	case ConfigChanged:
		a.ui = m.UI
		a.status = "config reloaded"
		return a, nil

	case promptMsg:
		a.closePrompt()
		a.prompt = &m
		return a, nil

	case openEditorMsg:
		argv := append(strings.Fields(resolveEditor(m.editor)), m.path)
		c := exec.Command(argv[0], argv[1:]...)
		done := m.done
		return a, tea.ExecProcess(c, func(err error) tea.Msg {
			return editorDoneMsg{err: err, done: done}
		})

	case editorDoneMsg:
		m.done <- m.err
		if m.err != nil {
			a.status = "settings: " + m.err.Error()
		} else {
			a.status = "settings saved; changes apply on reload"
		}
		return a, nil

	case errMsg:
		a.status = "error: " + m.Error()
		return a, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		a.spinner, cmd = a.spinner.Update(m)
		return a, cmd
	}
	return a, nil
}

func (a *App) handleMenuKey(m tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(m, a.keys.Quit):
		a.Close()
		return a, tea.Quit
	case key.Matches(m, a.keys.Help):
		a.help.ShowAll = !a.help.ShowAll
	case key.Matches(m, a.keys.Up):
		if a.menuCursor > 0 {
			a.menuCursor--
		}
	case key.Matches(m, a.keys.Down):
		if a.menuCursor < int(menuRows)-1 {
			a.menuCursor++
		}
	case key.Matches(m, a.keys.Request):
		return a, a.activate(rowRequest)
	case key.Matches(m, a.keys.Settings):
		return a, a.activate(rowSettings)
	case key.Matches(m, a.keys.Pick):
		return a, a.activate(rowPick)
	case key.Matches(m, a.keys.Select):
		return a, a.activate(menuRow(a.menuCursor))
	}
	return a, nil
}

func (a *App) activate(row menuRow) tea.Cmd {
	a.menuCursor = int(row)
	switch row {
	case rowRequest:
		a.status = ""
		return a.dispatch(store.RequestPermission{})
	case rowSettings:
		return a.dispatch(store.OpenSettings{})
	case rowPick:
		if !a.state.Status.CanBrowse() {
			a.status = fmt.Sprintf("photo access is %s; request permission first", a.state.Status)
			return nil
		}
		a.picking = true
		a.itemCursor = 0
		return a.loadItems()
	}
	return nil
}

func (a *App) handlePickerKey(m tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(m, a.keys.Quit):
		a.Close()
		return a, tea.Quit
	case key.Matches(m, a.keys.Back):
		a.picking = false
		return a, a.dispatch(store.ItemSelected{})
	case key.Matches(m, a.keys.Filter):
		a.filtering = true
		return a, a.filter.Focus()
	case key.Matches(m, a.keys.Up):
		if a.itemCursor > 0 {
			a.itemCursor--
		}
	case key.Matches(m, a.keys.Down):
		if a.itemCursor < len(a.visible)-1 {
			a.itemCursor++
		}
	case key.Matches(m, a.keys.Select):
		if len(a.visible) == 0 {
			return a, nil
		}
		h := a.visible[a.itemCursor]
		a.picking = false
		return a, a.dispatch(store.Select(h))
	}
	return a, nil
}

func (a *App) handleFilterKey(m tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.Type {
	case tea.KeyEsc:
		a.filtering = false
		a.filter.Blur()
		a.filter.SetValue("")
		a.applyFilter()
		return a, nil
	case tea.KeyEnter:
		a.filtering = false
		a.filter.Blur()
		return a, nil
	}
	var cmd tea.Cmd
	a.filter, cmd = a.filter.Update(m)
	a.applyFilter()
	return a, cmd
}

// handlePromptKey answers the open prompt. Dismissing or quitting closes it
// without an answer, so nothing is recorded and the status stays as it was.
func (a *App) handlePromptKey(m tea.KeyMsg) (tea.Model, tea.Cmd) {
	var answer photos.AuthorizationStatus
	switch {
	case key.Matches(m, a.keys.Quit):
		a.Close()
		return a, tea.Quit
	case key.Matches(m, a.pkeys.Dismiss):
		a.closePrompt()
		a.status = "permission request dismissed"
		return a, nil
	case key.Matches(m, a.pkeys.Allow):
		answer = photos.StatusAuthorized
	case key.Matches(m, a.pkeys.Limited):
		answer = photos.StatusLimited
	case key.Matches(m, a.pkeys.Deny):
		answer = photos.StatusDenied
	default:
		return a, nil
	}
	a.prompt.reply <- answer
	a.prompt = nil
	return a, nil
}

func (a *App) closePrompt() {
	if a.prompt != nil {
		close(a.prompt.reply)
		a.prompt = nil
	}
}

func (a *App) applyFilter() {
	a.visible = library.Filter(a.items, a.filter.Value())
	if a.itemCursor >= len(a.visible) {
		a.itemCursor = max(0, len(a.visible)-1)
	}
}

func (a *App) statusChanged() tea.Cmd {
	if a.state.Status.CanBrowse() {
		return a.loadItems()
	}
	a.items, a.visible = nil, nil
	a.picking, a.filtering = false, false
	return nil
}

// commands
func (a *App) dispatch(ev store.Event) tea.Cmd {
	return func() tea.Msg {
		if err := a.store.Dispatch(ev); err != nil {
			return errMsg{err}
		}
		return nil
	}
}

func (a *App) waitForState() tea.Cmd {
	states := a.states
	return func() tea.Msg {
		st, ok := <-states
		if !ok {
			return storeClosedMsg{}
		}
		return stateMsg(st)
	}
}

func (a *App) loadItems() tea.Cmd {
	limited := a.state.Status == photos.StatusLimited
	return func() tea.Msg {
		items, err := a.library.List(a.ctx, limited)
		if err != nil {
			logging.FromContext(a.ctx).Warn().Err(err).Msg("list library")
			return errMsg{err}
		}
		return itemsMsg(items)
	}
}

// resolveEditor picks the settings editor command line: the configured one,
// then $VISUAL, then $EDITOR, then vi.
func resolveEditor(configured string) string {
	if strings.TrimSpace(configured) != "" {
		return configured
	}
	for _, env := range []string{"VISUAL", "EDITOR"} {
		if v := os.Getenv(env); strings.TrimSpace(v) != "" {
			return v
		}
	}
	return "vi"
}
