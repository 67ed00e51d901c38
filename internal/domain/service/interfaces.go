// Package service defines the contracts between the domain services of the credential
// and token lifecycle.
package service

import (
	"context"

	"github.com/turtacn/usersvc/internal/domain/models"
)

//go:generate mockery --name KMSClient --output mocks --outpkg mocks
// KMSClient encrypts and decrypts small payloads with one fixed remote key and one fixed
// additional authenticated data context.
type KMSClient interface {
	Encrypt(ctx context.Context, plaintext []byte) ([]byte, error)
	Decrypt(ctx context.Context, ciphertext []byte) ([]byte, error)
}

//go:generate mockery --name KeyManager --output mocks --outpkg mocks
// KeyManager returns the KMS-encrypted token signing key, creating it on first use.
type KeyManager interface {
	GetEncryptedSigningKey(ctx context.Context) ([]byte, error)
}

//go:generate mockery --name TokenService --output mocks --outpkg mocks
// TokenService issues and verifies signed bearer tokens.
type TokenService interface {
	// Issue signs a token for subject valid for the configured TTL.
	Issue(ctx context.Context, subject string) (string, error)
	// ExtractSubject verifies the signature and returns the subject. Expiry is not checked.
	ExtractSubject(ctx context.Context, token string) (string, error)
	// Validate reports whether token belongs to expectedSubject and has not expired.
	Validate(ctx context.Context, token, expectedSubject string) (bool, error)
}

//go:generate mockery --name UserLookup --output mocks --outpkg mocks
// UserLookup resolves a token subject to an account.
type UserLookup interface {
	// FindByEmail fails with a UserNotFound error when no account has the email.
	FindByEmail(ctx context.Context, email string) (*models.User, error)
}

//go:generate mockery --name AccountEnabler --output mocks --outpkg mocks
// AccountEnabler is invoked once an email address has been confirmed.
type AccountEnabler interface {
	EnableUser(ctx context.Context, email string) error
}

//go:generate mockery --name ConfirmationTokenService --output mocks --outpkg mocks
// ConfirmationTokenService manages single-use email confirmation tokens.
type ConfirmationTokenService interface {
	Create(ctx context.Context, email string) (string, error)
	Confirm(ctx context.Context, token string) (string, error)
}

//go:generate mockery --name MessagePublisher --output mocks --outpkg mocks
// MessagePublisher hands a JSON-encodable payload to the message queue.
type MessagePublisher interface {
	Publish(ctx context.Context, topic, key string, payload interface{}) error
}
