package postgres

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/turtacn/usersvc/internal/domain/models"
	"github.com/turtacn/usersvc/internal/domain/repository"
	"github.com/turtacn/usersvc/pkg/errors"
)

// UserRepository is a PostgreSQL implementation of the UserRepository interface.
type UserRepository struct {
	db *gorm.DB
}

// NewUserRepository creates a new UserRepository.
func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

// Create stores a new account. A duplicate email fails with UserExists.
func (r *UserRepository) Create(ctx context.Context, user *models.User) error {
	if err := r.db.WithContext(ctx).Create(user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return errors.ErrUserExists(user.Email)
		}
		return translate(err, "create user")
	}
	return nil
}

// FindByEmail retrieves an account by email.
func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		return nil, translate(err, "find user")
	}
	return &user, nil
}

// FindByID retrieves an account by id.
func (r *UserRepository) FindByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&user).Error; err != nil {
		return nil, translate(err, "find user")
	}
	return &user, nil
}

// ExistsByEmail reports whether an account uses email.
func (r *UserRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.User{}).Where("email = ?", email).Count(&count).Error; err != nil {
		return false, translate(err, "count users")
	}
	return count > 0, nil
}

// SetEnabled updates the enabled flag of the account for email.
func (r *UserRepository) SetEnabled(ctx context.Context, email string, enabled bool) error {
	result := r.db.WithContext(ctx).Model(&models.User{}).Where("email = ?", email).Update("enabled", enabled)
	if result.Error != nil {
		return translate(result.Error, "update user")
	}
	if result.RowsAffected == 0 {
		return repository.ErrNotFound
	}
	return nil
}
