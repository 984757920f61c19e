package library

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"os"

	"github.com/jask/photopicker/internal/logging"
)

// Loader resolves an item handle to its raw bytes.
type Loader interface {
	Load(ctx context.Context, h Handle) ([]byte, error)
}

var _ Loader = (*Library)(nil)

// Load reads the item's bytes. An empty file yields nil bytes and no error:
// the item exists but has no data. Bytes that do not parse as an image
// header fail with ErrNotImage.
func (l *Library) Load(ctx context.Context, h Handle) ([]byte, error) {
	path, err := l.resolve(h)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", h.Path, err)
	}
	if len(data) == 0 {
		return nil, nil
	}
	_, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrNotImage, h.Path)
	}
	logging.FromContext(ctx).Trace().Str("format", format).Int("bytes", len(data)).Msg("item loaded")
	return data, nil
}
