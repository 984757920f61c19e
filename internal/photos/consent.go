package photos

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"sync"

	"github.com/rs/zerolog"

	"github.com/jask/photopicker/internal/database/repository"
)

// ErrPromptClosed is returned by a Prompter when the prompt went away
// without an answer.
var ErrPromptClosed = errors.New("photos: prompt closed without an answer")

// Prompter asks the user for photo-library access. It returns one of
// StatusAuthorized, StatusLimited or StatusDenied.
type Prompter interface {
	Prompt(ctx context.Context) (AuthorizationStatus, error)
}

// PrompterFunc adapts a function to Prompter.
type PrompterFunc func(ctx context.Context) (AuthorizationStatus, error)

func (f PrompterFunc) Prompt(ctx context.Context) (AuthorizationStatus, error) { return f(ctx) }

// ConsentStore persists decisions. *repository.ConsentRepo satisfies it.
type ConsentStore interface {
	Get(ctx context.Context, scope string) (*repository.Consent, error)
	Set(ctx context.Context, scope, status string) error
	Delete(ctx context.Context, scope string) error
}

// ConsentOptions configures a ConsentService.
type ConsentOptions struct {
	Scope       string
	Restricted  bool
	LibraryRoot string
}

// ConsentService is the live PermissionService. A decision is asked for at
// most once per scope and then served from the consent store until Reset.
type ConsentService struct {
	store    ConsentStore
	prompter Prompter
	opts     ConsentOptions
	log      zerolog.Logger

	// promptMu keeps concurrent requests from stacking prompts.
	promptMu sync.Mutex

	mu sync.Mutex
	// unsaved holds an answer the store failed to persist so the session
	// still honours it.
	unsaved *AuthorizationStatus
}

var _ PermissionService = (*ConsentService)(nil)

func NewConsentService(store ConsentStore, prompter Prompter, opts ConsentOptions, log zerolog.Logger) *ConsentService {
	return &ConsentService{store: store, prompter: prompter, opts: opts, log: log}
}

// CurrentStatus reports the stored decision without prompting.
func (s *ConsentService) CurrentStatus() AuthorizationStatus {
	return s.status(context.Background())
}

func (s *ConsentService) status(ctx context.Context) AuthorizationStatus {
	if s.restricted() {
		return StatusRestricted
	}
	s.mu.Lock()
	unsaved := s.unsaved
	s.mu.Unlock()
	if unsaved != nil {
		return *unsaved
	}

	c, err := s.store.Get(ctx, s.opts.Scope)
	if err != nil {
		s.log.Warn().Err(err).Str("scope", s.opts.Scope).Msg("read consent")
		return StatusNotDetermined
	}
	if c == nil {
		return StatusNotDetermined
	}
	st, ok := ParseStatus(c.Status)
	if !ok {
		s.log.Warn().Str("scope", s.opts.Scope).Str("status", c.Status).Msg("unrecognised stored consent")
		return StatusNotDetermined
	}
	return st
}

// RequestAuthorization prompts when no decision exists yet and returns the
// resulting status. An existing decision is returned as is.
func (s *ConsentService) RequestAuthorization(ctx context.Context) AuthorizationStatus {
	s.promptMu.Lock()
	defer s.promptMu.Unlock()

	current := s.status(ctx)
	if current != StatusNotDetermined || s.prompter == nil {
		return current
	}

	answer, err := s.prompter.Prompt(ctx)
	if err != nil {
		s.log.Debug().Err(err).Msg("authorization prompt ended without answer")
		return current
	}
	switch answer {
	case StatusAuthorized, StatusLimited, StatusDenied:
	default:
		s.log.Warn().Stringer("answer", answer).Msg("prompt returned a non-decision")
		return current
	}

	if err := s.store.Set(ctx, s.opts.Scope, answer.String()); err != nil {
		s.log.Error().Err(err).Str("scope", s.opts.Scope).Msg("persist consent")
		s.mu.Lock()
		s.unsaved = &answer
		s.mu.Unlock()
	}
	s.log.Info().Str("scope", s.opts.Scope).Stringer("status", answer).Msg("authorization decided")
	return answer
}

// Reset forgets the stored decision so the next request prompts again.
func (s *ConsentService) Reset(ctx context.Context) error {
	s.mu.Lock()
	s.unsaved = nil
	s.mu.Unlock()
	return s.store.Delete(ctx, s.opts.Scope)
}

func (s *ConsentService) restricted() bool {
	if s.opts.Restricted {
		return true
	}
	if s.opts.LibraryRoot == "" {
		return false
	}
	f, err := os.Open(s.opts.LibraryRoot)
	if err != nil {
		return errors.Is(err, fs.ErrPermission)
	}
	_ = f.Close()
	return false
}
