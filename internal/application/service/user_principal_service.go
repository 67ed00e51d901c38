package service

import (
	"context"

	"github.com/google/uuid"

	"github.com/turtacn/usersvc/internal/domain/models"
	"github.com/turtacn/usersvc/internal/domain/repository"
	"github.com/turtacn/usersvc/pkg/errors"
	"github.com/turtacn/usersvc/pkg/logger"
)

// UserPrincipalService resolves accounts for authentication and enables them once their
// email is confirmed. It implements both UserLookup and AccountEnabler.
type UserPrincipalService struct {
	users  repository.UserRepository
	logger logger.Logger
}

// NewUserPrincipalService creates a new instance of the UserPrincipalService.
func NewUserPrincipalService(users repository.UserRepository, log logger.Logger) *UserPrincipalService {
	return &UserPrincipalService{users: users, logger: log.WithComponent("UserPrincipalService")}
}

// FindByEmail returns the account for email or a UserNotFound error.
func (s *UserPrincipalService) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, errors.ErrUserNotFound(email)
		}
		return nil, err
	}
	return user, nil
}

// FindByID returns the account with id or a UserNotFound error.
func (s *UserPrincipalService) FindByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, errors.ErrUserIDNotFound(id.String())
		}
		return nil, err
	}
	return user, nil
}

// EnableUser marks the account for email as enabled.
func (s *UserPrincipalService) EnableUser(ctx context.Context, email string) error {
	if err := s.users.SetEnabled(ctx, email, true); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return errors.ErrUserNotFound(email)
		}
		return err
	}
	s.logger.Info(ctx, "Account enabled", logger.String("email", email))
	return nil
}
