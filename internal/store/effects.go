package store

import "github.com/jask/photopicker/internal/library"

// Effect describes asynchronous work the Store must run after a transition.
// A nil Effect means nothing to do. Effects are comparable values.
type Effect interface{ effect() }

// RequestAuthorization runs the permission request and reports a
// PermissionResult.
type RequestAuthorization struct{}

// Decode loads the handle's bytes and reports a DecodeResult stamped with
// Selection.
type Decode struct {
	Handle    library.Handle
	Selection uint64
}

// LaunchSettings opens the settings editor. It reports nothing.
type LaunchSettings struct{}

func (RequestAuthorization) effect() {}
func (Decode) effect()               {}
func (LaunchSettings) effect()       {}
