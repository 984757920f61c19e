package config

import (
	"context"
	"fmt"

	"github.com/fsnotify/fsnotify"

	"github.com/jask/photopicker/internal/logging"
)

// Watch re-reads the config file whenever it changes on disk and hands every
// valid result to onChange. Invalid edits are logged and skipped so a
// half-saved file never replaces a working config. Watching stops when ctx
// is done; viper offers no unsubscribe, so later events are ignored.
func Watch(ctx context.Context, path string, onChange func(Config)) error {
	v := newViper(path)
	if err := v.ReadInConfig(); err != nil {
		return fmt.Errorf("watch config: %w", err)
	}

	log := logging.FromContext(ctx)
	v.OnConfigChange(func(e fsnotify.Event) {
		if ctx.Err() != nil {
			return
		}
		log.Debug().Str("op", e.Op.String()).Str("file", e.Name).Msg("config change detected")
		cfg, err := decode(v)
		if err != nil {
			log.Warn().Err(err).Msg("ignoring invalid config")
			return
		}
		onChange(cfg)
	})
	v.WatchConfig()
	return nil
}
