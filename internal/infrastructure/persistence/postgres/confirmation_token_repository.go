package postgres

import (
	"context"

	"gorm.io/gorm"

	"github.com/turtacn/usersvc/internal/domain/models"
)

// ConfirmationTokenRepository is a PostgreSQL implementation of the ConfirmationTokenRepository interface.
type ConfirmationTokenRepository struct {
	db *gorm.DB
}

// NewConfirmationTokenRepository creates a new ConfirmationTokenRepository.
func NewConfirmationTokenRepository(db *gorm.DB) *ConfirmationTokenRepository {
	return &ConfirmationTokenRepository{db: db}
}

// Create stores a new token.
func (r *ConfirmationTokenRepository) Create(ctx context.Context, token *models.ConfirmationToken) error {
	if err := r.db.WithContext(ctx).Create(token).Error; err != nil {
		return translate(err, "create confirmation token")
	}
	return nil
}

// FindByToken retrieves a token by its value.
func (r *ConfirmationTokenRepository) FindByToken(ctx context.Context, value string) (*models.ConfirmationToken, error) {
	var token models.ConfirmationToken
	if err := r.db.WithContext(ctx).Where("token = ?", value).First(&token).Error; err != nil {
		return nil, translate(err, "find confirmation token")
	}
	return &token, nil
}

// Activate flips activated to true with a conditional update so that exactly one of
// several concurrent callers observes a changed row.
func (r *ConfirmationTokenRepository) Activate(ctx context.Context, value string) (bool, error) {
	result := r.db.WithContext(ctx).
		Model(&models.ConfirmationToken{}).
		Where("token = ? AND activated = ?", value, false).
		Update("activated", true)
	if result.Error != nil {
		return false, translate(result.Error, "activate confirmation token")
	}
	return result.RowsAffected == 1, nil
}
