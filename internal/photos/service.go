package photos

import "context"

// PermissionService reports and requests photo-library authorization.
//
// CurrentStatus is synchronous and has no side effects. RequestAuthorization
// may prompt the user and blocks until they answer or ctx ends; it returns the
// resulting status. Implementations decide how often a prompt may appear.
type PermissionService interface {
	CurrentStatus() AuthorizationStatus
	RequestAuthorization(ctx context.Context) AuthorizationStatus
}
