// Package repository defines the persistence contracts of the domain.
package repository

import (
	"context"
	stderrors "errors"

	"github.com/turtacn/usersvc/internal/domain/models"
)

// ErrNotFound is returned by every repository when the requested record does not exist.
var ErrNotFound = stderrors.New("record not found")

// SigningKeyRepository defines the interface for signing key persistence.
type SigningKeyRepository interface {
	// FindByID returns ErrNotFound when no key with id is stored.
	FindByID(ctx context.Context, id string) (*models.SigningKey, error)
	// CreateIfAbsent stores key unless a record with the same id exists. It reports whether
	// this call created the record.
	CreateIfAbsent(ctx context.Context, key *models.SigningKey) (bool, error)
}
