package logging

import (
	"context"

	"github.com/rs/zerolog"
)

// FromContext extracts the logger from context.
// If no logger is found, returns a disabled logger (no-op).
func FromContext(ctx context.Context) *zerolog.Logger {
	return zerolog.Ctx(ctx)
}

// WithContext returns a new context with the logger attached.
func WithContext(ctx context.Context, logger zerolog.Logger) context.Context {
	return logger.WithContext(ctx)
}

// WithComponent creates a child logger with a component field.
func WithComponent(ctx context.Context, component string) context.Context {
	logger := FromContext(ctx)
	childLogger := logger.With().Str("component", component).Logger()
	return WithContext(ctx, childLogger)
}

// WithDecode tags the logger with the item being decoded and the selection
// stamp it was started for, so a late result can be matched to its pick.
func WithDecode(ctx context.Context, selection uint64, itemID, itemPath string) context.Context {
	logger := FromContext(ctx).With().
		Uint64("selection", selection).
		Str("item_id", itemID).
		Str("item", itemPath).
		Logger()
	return WithContext(ctx, logger)
}
