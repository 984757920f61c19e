package store

import "github.com/jask/photopicker/internal/photos"

// Reducer is the transition function.
type Reducer struct {
	Permissions photos.PermissionService

	// DropStaleDecodes discards decode results for a selection that has
	// since been replaced.
	DropStaleDecodes bool
}

// Reduce applies ev to s. It never blocks: the only collaborator call is the
// synchronous CurrentStatus on Start.
func (r Reducer) Reduce(s State, ev Event) (State, Effect) {
	switch e := ev.(type) {
	case Start:
		s.Status = r.Permissions.CurrentStatus()
		return s, nil

	case RequestPermission:
		return s, RequestAuthorization{}

	case PermissionResult:
		s.Status = e.Status
		return s, nil

	case OpenSettings:
		return s, LaunchSettings{}

	case ItemSelected:
		if e.Handle == nil {
			return s, nil
		}
		h := *e.Handle
		s.Selected = &h
		s.Selection++
		return s, Decode{Handle: h, Selection: s.Selection}

	case DecodeResult:
		if e.Err != nil {
			return s, nil
		}
		if r.DropStaleDecodes && e.Selection != s.Selection {
			return s, nil
		}
		s.Image = e.Data
		return s, nil
	}
	return s, nil
}
