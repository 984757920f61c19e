package library

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/jask/photopicker/internal/logging"
)

// settle is how long the watcher waits for a burst of file events to end
// before reporting a change.
const settle = 250 * time.Millisecond

// Watch reports changes under the library root on onChange, coalescing
// bursts. New directories are watched as they appear. It blocks until ctx
// is done.
func (l *Library) Watch(ctx context.Context, onChange func()) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("library watcher: %w", err)
	}
	defer w.Close()

	if err := l.addDirs(w, l.root); err != nil {
		return err
	}

	log := logging.FromContext(ctx)
	var timer *time.Timer
	var fire <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			return nil
		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if ev.Has(fsnotify.Create) {
				_ = l.addDirs(w, ev.Name)
			}
			if timer == nil {
				timer = time.NewTimer(settle)
			} else {
				timer.Reset(settle)
			}
			fire = timer.C
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			log.Warn().Err(err).Msg("library watcher error")
		case <-fire:
			fire = nil
			onChange()
		}
	}
}

// addDirs watches path and every non-ignored directory below it.
func (l *Library) addDirs(w *fsnotify.Watcher, path string) error {
	err := filepath.WalkDir(path, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return fs.SkipAll
			}
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if rel, relErr := filepath.Rel(l.root, p); relErr == nil && rel != "." && l.ignored(rel, true) {
			return filepath.SkipDir
		}
		return w.Add(p)
	})
	if err != nil {
		return fmt.Errorf("watch %s: %w", path, err)
	}
	return nil
}
