package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/turtacn/usersvc/internal/application/dto"
)

// MockAuthAppService is a mock implementation of service.AuthAppService
type MockAuthAppService struct {
	mock.Mock
}

func (m *MockAuthAppService) Register(ctx context.Context, req *dto.RegisterRequest) (*dto.MessageResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.MessageResponse), args.Error(1)
}

func (m *MockAuthAppService) Confirm(ctx context.Context, token string) (*dto.MessageResponse, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.MessageResponse), args.Error(1)
}

func (m *MockAuthAppService) Login(ctx context.Context, req *dto.LoginRequest) (*dto.LoginResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.LoginResponse), args.Error(1)
}

func (m *MockAuthAppService) Authorize(ctx context.Context) (dto.AuthorizationHeaders, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(dto.AuthorizationHeaders), args.Error(1)
}

func (m *MockAuthAppService) EnableUser(ctx context.Context, email string) error {
	args := m.Called(ctx, email)
	return args.Error(0)
}
