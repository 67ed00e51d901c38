package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/turtacn/usersvc/internal/domain/models"
)

// UserRepository defines the interface for account persistence.
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	// SetEnabled returns ErrNotFound when no account has the email.
	SetEnabled(ctx context.Context, email string, enabled bool) error
}
