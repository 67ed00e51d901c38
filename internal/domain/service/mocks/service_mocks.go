package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"
	"github.com/turtacn/usersvc/internal/domain/models"
)

// MockKMSClient is a mock implementation of service.KMSClient
type MockKMSClient struct {
	mock.Mock
}

func (m *MockKMSClient) Encrypt(ctx context.Context, plaintext []byte) ([]byte, error) {
	args := m.Called(ctx, plaintext)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

func (m *MockKMSClient) Decrypt(ctx context.Context, ciphertext []byte) ([]byte, error) {
	args := m.Called(ctx, ciphertext)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

// MockKeyManager is a mock implementation of service.KeyManager
type MockKeyManager struct {
	mock.Mock
}

func (m *MockKeyManager) GetEncryptedSigningKey(ctx context.Context) ([]byte, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

// MockTokenService is a mock implementation of service.TokenService
type MockTokenService struct {
	mock.Mock
}

func (m *MockTokenService) Issue(ctx context.Context, subject string) (string, error) {
	args := m.Called(ctx, subject)
	return args.String(0), args.Error(1)
}

func (m *MockTokenService) ExtractSubject(ctx context.Context, token string) (string, error) {
	args := m.Called(ctx, token)
	return args.String(0), args.Error(1)
}

func (m *MockTokenService) Validate(ctx context.Context, token, expectedSubject string) (bool, error) {
	args := m.Called(ctx, token, expectedSubject)
	return args.Bool(0), args.Error(1)
}

// MockUserLookup is a mock implementation of service.UserLookup
type MockUserLookup struct {
	mock.Mock
}

func (m *MockUserLookup) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

// MockAccountEnabler is a mock implementation of service.AccountEnabler
type MockAccountEnabler struct {
	mock.Mock
}

func (m *MockAccountEnabler) EnableUser(ctx context.Context, email string) error {
	args := m.Called(ctx, email)
	return args.Error(0)
}

// MockConfirmationTokenService is a mock implementation of service.ConfirmationTokenService
type MockConfirmationTokenService struct {
	mock.Mock
}

func (m *MockConfirmationTokenService) Create(ctx context.Context, email string) (string, error) {
	args := m.Called(ctx, email)
	return args.String(0), args.Error(1)
}

func (m *MockConfirmationTokenService) Confirm(ctx context.Context, token string) (string, error) {
	args := m.Called(ctx, token)
	return args.String(0), args.Error(1)
}

// MockMessagePublisher is a mock implementation of service.MessagePublisher
type MockMessagePublisher struct {
	mock.Mock
}

func (m *MockMessagePublisher) Publish(ctx context.Context, topic, key string, payload interface{}) error {
	args := m.Called(ctx, topic, key, payload)
	return args.Error(0)
}
