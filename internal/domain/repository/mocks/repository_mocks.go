package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/turtacn/usersvc/internal/domain/models"
)

// MockSigningKeyRepository is a mock implementation of repository.SigningKeyRepository
type MockSigningKeyRepository struct {
	mock.Mock
}

func (m *MockSigningKeyRepository) FindByID(ctx context.Context, id string) (*models.SigningKey, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.SigningKey), args.Error(1)
}

func (m *MockSigningKeyRepository) CreateIfAbsent(ctx context.Context, key *models.SigningKey) (bool, error) {
	args := m.Called(ctx, key)
	return args.Bool(0), args.Error(1)
}

// MockConfirmationTokenRepository is a mock implementation of repository.ConfirmationTokenRepository
type MockConfirmationTokenRepository struct {
	mock.Mock
}

func (m *MockConfirmationTokenRepository) Create(ctx context.Context, token *models.ConfirmationToken) error {
	args := m.Called(ctx, token)
	return args.Error(0)
}

func (m *MockConfirmationTokenRepository) FindByToken(ctx context.Context, token string) (*models.ConfirmationToken, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ConfirmationToken), args.Error(1)
}

func (m *MockConfirmationTokenRepository) Activate(ctx context.Context, token string) (bool, error) {
	args := m.Called(ctx, token)
	return args.Bool(0), args.Error(1)
}

// MockUserRepository is a mock implementation of repository.UserRepository
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, user *models.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) FindByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	args := m.Called(ctx, email)
	return args.Bool(0), args.Error(1)
}

func (m *MockUserRepository) SetEnabled(ctx context.Context, email string, enabled bool) error {
	args := m.Called(ctx, email, enabled)
	return args.Error(0)
}
