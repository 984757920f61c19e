// Package photos defines the photo-library authorization contract and its
// consent-backed implementation.
package photos

// AuthorizationStatus is the photo-library access level reported by the
// permission service.
type AuthorizationStatus int

const (
	StatusNotDetermined AuthorizationStatus = iota
	StatusRestricted
	StatusDenied
	StatusAuthorized
	StatusLimited
)

func (s AuthorizationStatus) String() string {
	switch s {
	case StatusNotDetermined:
		return "not-determined"
	case StatusRestricted:
		return "restricted"
	case StatusDenied:
		return "denied"
	case StatusAuthorized:
		return "authorized"
	case StatusLimited:
		return "limited"
	default:
		return "unknown"
	}
}

// ParseStatus is the inverse of String. ok is false for anything it does
// not recognise.
func ParseStatus(s string) (AuthorizationStatus, bool) {
	switch s {
	case "not-determined":
		return StatusNotDetermined, true
	case "restricted":
		return StatusRestricted, true
	case "denied":
		return StatusDenied, true
	case "authorized":
		return StatusAuthorized, true
	case "limited":
		return StatusLimited, true
	}
	return StatusNotDetermined, false
}

// CanBrowse reports whether items may be listed at this level.
func (s AuthorizationStatus) CanBrowse() bool {
	return s == StatusAuthorized || s == StatusLimited
}
