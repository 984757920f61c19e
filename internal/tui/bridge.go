package tui

import (
	"context"
	"errors"
	"sync"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jask/photopicker/internal/photos"
)

// Sender delivers messages into a running program. *tea.Program satisfies it.
type Sender interface {
	Send(msg tea.Msg)
}

// errNotBound is returned when a bridge is used before Bind.
var errNotBound = errors.New("tui: bridge not bound to a program")

// bridge forwards requests from effect goroutines into the program and
// blocks until the view answers.
type bridge struct {
	mu     sync.RWMutex
	sender Sender
}

// Bind attaches the running program. It must be called before Run.
func (b *bridge) Bind(s Sender) {
	b.mu.Lock()
	b.sender = s
	b.mu.Unlock()
}

func (b *bridge) send(msg tea.Msg) error {
	b.mu.RLock()
	s := b.sender
	b.mu.RUnlock()
	if s == nil {
		return errNotBound
	}
	s.Send(msg)
	return nil
}

// Prompter shows the authorization prompt inside the TUI.
type Prompter struct{ bridge }

var _ photos.Prompter = (*Prompter)(nil)

func NewPrompter() *Prompter { return &Prompter{} }

// Prompt opens the prompt and waits for the user's answer.
func (p *Prompter) Prompt(ctx context.Context) (photos.AuthorizationStatus, error) {
	reply := make(chan photos.AuthorizationStatus, 1)
	if err := p.send(promptMsg{reply: reply}); err != nil {
		return photos.StatusNotDetermined, err
	}
	select {
	case st, ok := <-reply:
		if !ok {
			return photos.StatusNotDetermined, photos.ErrPromptClosed
		}
		return st, nil
	case <-ctx.Done():
		return photos.StatusNotDetermined, ctx.Err()
	}
}

// EditorLauncher opens the config file in the user's editor, suspending the
// TUI while it runs.
type EditorLauncher struct {
	bridge
	Editor string
	Path   string
}

func NewEditorLauncher(editor, path string) *EditorLauncher {
	return &EditorLauncher{Editor: editor, Path: path}
}

// OpenSettings runs the editor and waits for it to exit.
func (e *EditorLauncher) OpenSettings(ctx context.Context) error {
	done := make(chan error, 1)
	if err := e.send(openEditorMsg{editor: e.Editor, path: e.Path, done: done}); err != nil {
		return err
	}
	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}
