package store

import (
	"context"
	"errors"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/jask/photopicker/internal/library"
	"github.com/jask/photopicker/internal/logging"
)

// ErrStopped is returned by Dispatch once the store has shut down.
var ErrStopped = errors.New("store: stopped")

// SettingsOpener opens the settings editor.
type SettingsOpener interface {
	OpenSettings(ctx context.Context) error
}

// SettingsFunc adapts a function to SettingsOpener.
type SettingsFunc func(ctx context.Context) error

func (f SettingsFunc) OpenSettings(ctx context.Context) error { return f(ctx) }

// Options configures a Store.
type Options struct {
	Reducer   Reducer
	Loader    library.Loader
	Settings  SettingsOpener
	QueueSize int
	Initial   State
}

// Store owns a State and serialises every change through the Reducer.
type Store struct {
	reducer  Reducer
	loader   library.Loader
	settings SettingsOpener

	events chan Event
	done   chan struct{}

	mu       sync.RWMutex
	state    State
	inFlight int
	subs     map[int]chan State
	nextSub  int
}

// New builds a store. It does nothing until Run is called, but events may be
// dispatched before that up to the queue size.
func New(opts Options) *Store {
	size := opts.QueueSize
	if size <= 0 {
		size = 64
	}
	return &Store{
		reducer:  opts.Reducer,
		loader:   opts.Loader,
		settings: opts.Settings,
		events:   make(chan Event, size),
		done:     make(chan struct{}),
		state:    opts.Initial,
		subs:     map[int]chan State{},
	}
}

// State returns the current state. Image bytes are shared and must not be
// modified.
func (s *Store) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// InFlight returns how many effects are running.
func (s *Store) InFlight() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.inFlight
}

// Subscribe returns a channel carrying every state the store settles on.
// Slow readers only ever see the latest state. The channel is closed when the
// store stops or cancel is called.
func (s *Store) Subscribe() (<-chan State, func()) {
	ch := make(chan State, 1)
	s.mu.Lock()
	id := s.nextSub
	s.nextSub++
	select {
	case <-s.done:
		close(ch)
	default:
		s.subs[id] = ch
		ch <- s.state
	}
	s.mu.Unlock()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			s.mu.Lock()
			if c, ok := s.subs[id]; ok {
				delete(s.subs, id)
				close(c)
			}
			s.mu.Unlock()
		})
	}
}

// Dispatch enqueues ev. It blocks only while the queue is full. Once Run
// has begun shutting down it returns ErrStopped, even when the queue still
// has room; events still queued at shutdown are dropped.
func (s *Store) Dispatch(ev Event) error {
	select {
	case <-s.done:
		return ErrStopped
	default:
	}
	select {
	case s.events <- ev:
	case <-s.done:
		return ErrStopped
	}
	// both cases may have been ready; a send that raced shutdown is lost
	select {
	case <-s.done:
		return ErrStopped
	default:
		return nil
	}
}

// Run processes events until ctx is done, then waits for in-flight effects
// to return. Results arriving after shutdown are dropped.
func (s *Store) Run(ctx context.Context) error {
	ctx = logging.WithComponent(ctx, "store")
	log := logging.FromContext(ctx)

	g, gctx := errgroup.WithContext(ctx)
	defer func() {
		close(s.done)
		_ = g.Wait()
		s.closeSubs()
	}()

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev := <-s.events:
			next, eff := s.reducer.Reduce(s.State(), ev)
			log.Trace().Str("event", eventName(ev)).Msg("event applied")
			s.commit(next, eff != nil)
			if eff != nil {
				s.run(gctx, g, eff)
			}
		}
	}
}

func (s *Store) commit(next State, startEffect bool) {
	s.mu.Lock()
	s.state = next
	if startEffect {
		s.inFlight++
	}
	for _, ch := range s.subs {
		select {
		case <-ch:
		default:
		}
		ch <- next
	}
	s.mu.Unlock()
}

func (s *Store) finish() {
	s.mu.Lock()
	s.inFlight--
	s.mu.Unlock()
}

func (s *Store) closeSubs() {
	s.mu.Lock()
	for id, ch := range s.subs {
		delete(s.subs, id)
		close(ch)
	}
	s.mu.Unlock()
}

// run executes eff on its own goroutine and feeds any result back.
func (s *Store) run(ctx context.Context, g *errgroup.Group, eff Effect) {
	log := logging.FromContext(ctx)
	g.Go(func() error {
		defer s.finish()

		var result Event
		switch e := eff.(type) {
		case RequestAuthorization:
			status := s.reducer.Permissions.RequestAuthorization(ctx)
			result = PermissionResult{Status: status}

		case Decode:
			if s.loader == nil {
				result = DecodeFailed(e.Selection, errors.New("store: no loader configured"))
				break
			}
			dctx := logging.WithDecode(ctx, e.Selection, e.Handle.ID, e.Handle.Path)
			data, err := s.loader.Load(dctx, e.Handle)
			if err != nil {
				logging.FromContext(dctx).Debug().Err(err).Msg("decode failed")
				result = DecodeFailed(e.Selection, err)
				break
			}
			result = Decoded(e.Selection, data)

		case LaunchSettings:
			if s.settings == nil {
				log.Warn().Msg("no settings opener configured")
				return nil
			}
			if err := s.settings.OpenSettings(ctx); err != nil {
				log.Warn().Err(err).Msg("open settings")
			}
			return nil
		}

		if result == nil {
			return nil
		}
		select {
		case s.events <- result:
		case <-s.done:
		case <-ctx.Done():
		}
		return nil
	})
}

func eventName(ev Event) string {
	switch ev.(type) {
	case Start:
		return "start"
	case RequestPermission:
		return "request_permission"
	case PermissionResult:
		return "permission_result"
	case OpenSettings:
		return "open_settings"
	case ItemSelected:
		return "item_selected"
	case DecodeResult:
		return "decode_result"
	default:
		return "unknown"
	}
}
