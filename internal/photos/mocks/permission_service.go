// Package mocks holds testify mocks for the photos contracts.
package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/jask/photopicker/internal/photos"
)

// PermissionService is a testify mock of photos.PermissionService.
type PermissionService struct {
	mock.Mock
}

var _ photos.PermissionService = (*PermissionService)(nil)

func (m *PermissionService) CurrentStatus() photos.AuthorizationStatus {
	args := m.Called()
	return args.Get(0).(photos.AuthorizationStatus)
}

func (m *PermissionService) RequestAuthorization(ctx context.Context) photos.AuthorizationStatus {
	args := m.Called(ctx)
	return args.Get(0).(photos.AuthorizationStatus)
}
