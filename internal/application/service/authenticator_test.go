package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/usersvc/internal/domain/models"
	"github.com/turtacn/usersvc/internal/domain/service/mocks"
	"github.com/turtacn/usersvc/pkg/errors"
	"github.com/turtacn/usersvc/pkg/logger"
)

func newTestAuthenticator() (*Authenticator, *mocks.MockTokenService, *mocks.MockUserLookup) {
	tokens := &mocks.MockTokenService{}
	users := &mocks.MockUserLookup{}
	return NewAuthenticator(tokens, users, nil, logger.NewNoopLogger()), tokens, users
}

func jane() *models.User {
	return &models.User{ID: uuid.New(), Email: "jane@example.com", Role: models.RoleUser, PasswordHash: "$2a$10$hash", Enabled: true}
}

func TestAuthenticator_PassThroughWithoutCalls(t *testing.T) {
	tests := []struct {
		name    string
		header  string
		outcome AuthOutcome
	}{
		{"no header", "", OutcomeNoHeader},
		{"basic scheme", "Basic dXNlcjpwYXNz", OutcomeInvalidFormat},
		{"lowercase bearer", "bearer abc", OutcomeInvalidFormat},
		{"bearer without space", "Bearerabc", OutcomeInvalidFormat},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a, tokens, users := newTestAuthenticator()
			ctx := context.Background()

			out, outcome, err := a.Authenticate(ctx, tt.header)
			require.NoError(t, err)
			assert.Equal(t, tt.outcome, outcome)
			assert.True(t, outcome.Proceeds())
			assert.Equal(t, ctx, out)
			tokens.AssertNotCalled(t, "ExtractSubject", mock.Anything, mock.Anything)
			users.AssertNotCalled(t, "FindByEmail", mock.Anything, mock.Anything)
		})
	}
}

func TestAuthenticator_Authenticated(t *testing.T) {
	a, tokens, users := newTestAuthenticator()
	user := jane()
	tokens.On("ExtractSubject", mock.Anything, "tok").Return("jane@example.com", nil)
	tokens.On("Validate", mock.Anything, "tok", "jane@example.com").Return(true, nil)
	users.On("FindByEmail", mock.Anything, "jane@example.com").Return(user, nil)

	ctx, outcome, err := a.Authenticate(context.Background(), "Bearer tok")
	require.NoError(t, err)
	assert.Equal(t, OutcomeAuthenticated, outcome)

	id, ok := models.IdentityFromContext(ctx)
	require.True(t, ok)
	assert.Equal(t, user.ID, id.UserID)
	assert.Equal(t, "jane@example.com", id.Email)
	assert.Equal(t, []string{"ROLE_USER"}, id.Authorities)
	users.AssertNumberOfCalls(t, "FindByEmail", 2)
}

func TestAuthenticator_ExtractFailureRejects(t *testing.T) {
	a, tokens, users := newTestAuthenticator()
	tokens.On("ExtractSubject", mock.Anything, "garbage").Return("", errors.ErrTokenInvalid("malformed"))

	_, outcome, err := a.Authenticate(context.Background(), "Bearer garbage")
	assert.Equal(t, OutcomeRejected, outcome)
	assert.False(t, outcome.Proceeds())
	assert.True(t, errors.IsKind(err, errors.KindTokenInvalid))
	users.AssertNotCalled(t, "FindByEmail", mock.Anything, mock.Anything)
}

func TestAuthenticator_EmptySubjectPassesThrough(t *testing.T) {
	a, tokens, users := newTestAuthenticator()
	tokens.On("ExtractSubject", mock.Anything, "tok").Return("", nil)

	_, outcome, err := a.Authenticate(context.Background(), "Bearer tok")
	require.NoError(t, err)
	assert.Equal(t, OutcomeMissingSubject, outcome)
	users.AssertNotCalled(t, "FindByEmail", mock.Anything, mock.Anything)
	tokens.AssertNotCalled(t, "Validate", mock.Anything, mock.Anything, mock.Anything)
}

func TestAuthenticator_AlreadyAuthenticatedSkipsValidation(t *testing.T) {
	a, tokens, users := newTestAuthenticator()
	tokens.On("ExtractSubject", mock.Anything, "tok").Return("jane@example.com", nil)

	existing := models.WithIdentity(context.Background(), models.NewIdentity(jane()))
	ctx, outcome, err := a.Authenticate(existing, "Bearer tok")
	require.NoError(t, err)
	assert.Equal(t, OutcomeAlreadyAuthenticated, outcome)
	assert.Equal(t, existing, ctx)
	tokens.AssertNotCalled(t, "Validate", mock.Anything, mock.Anything, mock.Anything)
	users.AssertNotCalled(t, "FindByEmail", mock.Anything, mock.Anything)
}

func TestAuthenticator_UnknownUserRejects(t *testing.T) {
	a, tokens, users := newTestAuthenticator()
	tokens.On("ExtractSubject", mock.Anything, "tok").Return("ghost@example.com", nil)
	users.On("FindByEmail", mock.Anything, "ghost@example.com").Return(nil, errors.ErrUserNotFound("ghost@example.com"))

	_, outcome, err := a.Authenticate(context.Background(), "Bearer tok")
	assert.Equal(t, OutcomeRejected, outcome)
	assert.True(t, errors.IsKind(err, errors.KindUserNotFound))
	tokens.AssertNotCalled(t, "Validate", mock.Anything, mock.Anything, mock.Anything)
}

func TestAuthenticator_ValidationFalseRejects(t *testing.T) {
	a, tokens, users := newTestAuthenticator()
	tokens.On("ExtractSubject", mock.Anything, "tok").Return("jane@example.com", nil)
	tokens.On("Validate", mock.Anything, "tok", "jane@example.com").Return(false, nil)
	users.On("FindByEmail", mock.Anything, "jane@example.com").Return(jane(), nil)

	ctx, outcome, err := a.Authenticate(context.Background(), "Bearer tok")
	assert.Equal(t, OutcomeRejected, outcome)
	assert.True(t, errors.IsKind(err, errors.KindTokenInvalid))
	_, ok := models.IdentityFromContext(ctx)
	assert.False(t, ok)
}

func TestAuthenticator_UserRemovedBetweenLookups(t *testing.T) {
	a, tokens, users := newTestAuthenticator()
	tokens.On("ExtractSubject", mock.Anything, "tok").Return("jane@example.com", nil)
	tokens.On("Validate", mock.Anything, "tok", "jane@example.com").Return(true, nil)
	users.On("FindByEmail", mock.Anything, "jane@example.com").Return(jane(), nil).Once()
	users.On("FindByEmail", mock.Anything, "jane@example.com").Return(nil, errors.ErrUserNotFound("jane@example.com")).Once()

	_, outcome, err := a.Authenticate(context.Background(), "Bearer tok")
	assert.Equal(t, OutcomeRejected, outcome)
	assert.True(t, errors.IsKind(err, errors.KindUserNotFound))
}
