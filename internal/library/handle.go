// Package library exposes a directory of images as a photo library: listing
// pickable items, resolving an item handle to bytes and watching for changes.
package library

import (
	"path/filepath"

	"github.com/google/uuid"
)

// Handle is an opaque reference to one pickable item. It is comparable and
// cheap to copy; resolving it to bytes is the Loader's job.
type Handle struct {
	ID   string
	Path string // slash-separated, relative to the library root
}

// NewHandle derives a stable handle for rel, a path relative to the root.
func NewHandle(rel string) Handle {
	rel = filepath.ToSlash(filepath.Clean(rel))
	return Handle{
		ID:   uuid.NewSHA1(uuid.NameSpaceURL, []byte("photopicker:"+rel)).String(),
		Path: rel,
	}
}

// Name is the file name shown in the picker.
func (h Handle) Name() string { return filepath.Base(filepath.FromSlash(h.Path)) }

func (h Handle) String() string { return h.Path }
