package postgres

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/turtacn/usersvc/internal/domain/models"
	"github.com/turtacn/usersvc/internal/domain/repository"
	"github.com/turtacn/usersvc/pkg/errors"
)

// SigningKeyRepository is a PostgreSQL implementation of the SigningKeyRepository interface.
type SigningKeyRepository struct {
	db *gorm.DB
}

// NewSigningKeyRepository creates a new SigningKeyRepository.
func NewSigningKeyRepository(db *gorm.DB) *SigningKeyRepository {
	return &SigningKeyRepository{db: db}
}

// FindByID retrieves the key stored under id.
func (r *SigningKeyRepository) FindByID(ctx context.Context, id string) (*models.SigningKey, error) {
	var key models.SigningKey
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&key).Error; err != nil {
		return nil, translate(err, "find signing key")
	}
	return &key, nil
}

// CreateIfAbsent inserts key with ON CONFLICT DO NOTHING.
func (r *SigningKeyRepository) CreateIfAbsent(ctx context.Context, key *models.SigningKey) (bool, error) {
	result := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "id"}}, DoNothing: true}).
		Create(key)
	if result.Error != nil {
		return false, translate(result.Error, "create signing key")
	}
	return result.RowsAffected == 1, nil
}

// translate maps gorm errors onto the repository contract.
func translate(err error, op string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return repository.ErrNotFound
	}
	return errors.ErrStorageFailure(op).WithCause(err)
}
