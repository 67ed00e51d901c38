package repository

import (
	"context"

	"github.com/turtacn/usersvc/internal/domain/models"
)

// ConfirmationTokenRepository defines the interface for confirmation token persistence.
type ConfirmationTokenRepository interface {
	Create(ctx context.Context, token *models.ConfirmationToken) error
	// FindByToken returns ErrNotFound when the token value is unknown.
	FindByToken(ctx context.Context, token string) (*models.ConfirmationToken, error)
	// Activate sets activated=true only if it is still false. It reports whether this call
	// performed the transition.
	Activate(ctx context.Context, token string) (bool, error)
}
