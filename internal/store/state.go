package store

import (
	"github.com/jask/photopicker/internal/library"
	"github.com/jask/photopicker/internal/photos"
)

// State is the whole application state. Nil Selected and nil Image mean
// absent.
type State struct {
	Status   photos.AuthorizationStatus
	Selected *library.Handle
	Image    []byte

	// Selection counts non-empty selections; decodes are stamped with it.
	Selection uint64
}

// HasImage reports whether decoded bytes are available for display.
func (s State) HasImage() bool { return s.Image != nil }
