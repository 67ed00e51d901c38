package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/usersvc/internal/domain/models"
	repomocks "github.com/turtacn/usersvc/internal/domain/repository/mocks"
	"github.com/turtacn/usersvc/pkg/errors"
	"github.com/turtacn/usersvc/pkg/logger"
)

func TestUserRequestHandler(t *testing.T) {
	user := &models.User{
		ID:           uuid.New(),
		FirstName:    "Jane",
		LastName:     "Doe",
		DateOfBirth:  time.Date(1990, 4, 12, 0, 0, 0, 0, time.UTC),
		Email:        "jane@example.com",
		PasswordHash: "$2a$10$secret",
		Role:         models.RoleUser,
		Enabled:      true,
	}
	h := NewUserRequestHandler(NewUserPrincipalService(newMemoryUsers(user), logger.NewNoopLogger()), logger.NewNoopLogger())

	view, err := h.HandleUserRequest(context.Background(), user.ID.String())
	require.NoError(t, err)
	require.NotNil(t, view)
	assert.Equal(t, "jane@example.com", view.Email)
	assert.Equal(t, "1990-04-12", view.DateOfBirth)

	view, err = h.HandleUserRequest(context.Background(), "not-a-uuid")
	assert.NoError(t, err)
	assert.Nil(t, view)

	view, err = h.HandleUserRequest(context.Background(), uuid.NewString())
	assert.NoError(t, err)
	assert.Nil(t, view)
}

func TestUserRequestHandler_StorageFailurePropagates(t *testing.T) {
	users := new(repomocks.MockUserRepository)
	users.On("FindByID", mock.Anything, mock.AnythingOfType("uuid.UUID")).Return(nil, errors.ErrStorageFailure("find user"))
	h := NewUserRequestHandler(NewUserPrincipalService(users, logger.NewNoopLogger()), logger.NewNoopLogger())

	view, err := h.HandleUserRequest(context.Background(), uuid.NewString())

	require.Error(t, err)
	assert.True(t, errors.IsKind(err, errors.KindStorageFailure))
	assert.Nil(t, view)
	users.AssertExpectations(t)
}
