package store

import (
	"github.com/jask/photopicker/internal/library"
	"github.com/jask/photopicker/internal/photos"
)

// Event is an input to the Reducer.
type Event interface{ event() }

// Start re-reads the current authorization status.
type Start struct{}

// RequestPermission asks the permission service for access.
type RequestPermission struct{}

// PermissionResult carries the status a permission request resolved to.
type PermissionResult struct {
	Status photos.AuthorizationStatus
}

// OpenSettings opens the settings editor.
type OpenSettings struct{}

// ItemSelected reports a pick. A nil Handle means nothing was picked.
type ItemSelected struct {
	Handle *library.Handle
}

// DecodeResult carries the outcome of a decode. Err non-nil is a failure;
// otherwise Data holds the bytes, nil when the item had none.
type DecodeResult struct {
	Selection uint64
	Data      []byte
	Err       error
}

func (Start) event()             {}
func (RequestPermission) event() {}
func (PermissionResult) event()  {}
func (OpenSettings) event()      {}
func (ItemSelected) event()      {}
func (DecodeResult) event()      {}

// Select is shorthand for ItemSelected with a handle.
func Select(h library.Handle) ItemSelected { return ItemSelected{Handle: &h} }

// Decoded is shorthand for a successful DecodeResult.
func Decoded(selection uint64, data []byte) DecodeResult {
	return DecodeResult{Selection: selection, Data: data}
}

// DecodeFailed is shorthand for a failed DecodeResult.
func DecodeFailed(selection uint64, err error) DecodeResult {
	return DecodeResult{Selection: selection, Err: err}
}
