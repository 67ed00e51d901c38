package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKindHTTPStatus(t *testing.T) {
	tests := []struct {
		err  *AppError
		want int
	}{
		{ErrInvalidRequest("bad"), http.StatusBadRequest},
		{ErrUserExists("a@b.c"), http.StatusBadRequest},
		{ErrConfirmationTokenNotFound(), http.StatusBadRequest},
		{ErrAlreadyActivated(), http.StatusBadRequest},
		{ErrConfirmationExpired(), http.StatusBadRequest},
		{ErrTokenInvalid("signature"), http.StatusUnauthorized},
		{ErrForbidden("Bad credentials"), http.StatusForbidden},
		{ErrUserNotFound("a@b.c"), http.StatusNotFound},
		{ErrInvalidAlgorithm("RSA"), http.StatusInternalServerError},
		{ErrKMSFailure("decrypt"), http.StatusInternalServerError},
		{ErrStorageFailure("find"), http.StatusInternalServerError},
		{ErrPublishFailure("topic"), http.StatusInternalServerError},
		{ErrInternal("boom"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.err.Kind().String(), func(t *testing.T) {
			assert.Equal(t, tt.want, HTTPStatus(tt.err))
		})
	}
}

func TestKindOfWrappedChain(t *testing.T) {
	cause := stderrors.New("connection refused")
	err := fmt.Errorf("get signing key: %w", ErrKMSFailure("decrypt").WithCause(cause))

	assert.Equal(t, KindKMSFailure, KindOf(err))
	assert.True(t, IsKind(err, KindKMSFailure))
	assert.True(t, Is(err, cause))
	assert.True(t, Is(err, ErrKMSFailure("encrypt")))
	assert.False(t, Is(err, ErrStorageFailure("find")))

	var appErr *AppError
	require.True(t, As(err, &appErr))
	assert.Equal(t, "kms decrypt failed", appErr.Message())
	assert.Contains(t, appErr.Error(), "connection refused")
}

func TestKindOfPlainError(t *testing.T) {
	err := stderrors.New("plain")
	assert.Equal(t, KindInternal, KindOf(err))
	assert.Equal(t, http.StatusInternalServerError, HTTPStatus(err))
	assert.Equal(t, "Internal server error", PublicMessage(err))
}

func TestWithMetadataDoesNotMutate(t *testing.T) {
	base := New(KindTokenInvalid, "JWT is invalid")
	withReason := base.WithMetadata("reason", "expired")

	assert.Nil(t, base.Metadata())
	assert.Equal(t, "expired", withReason.Metadata()["reason"])
}

func TestPublicMessage(t *testing.T) {
	assert.Equal(t, "Verification link is expired", PublicMessage(ErrConfirmationExpired()))
	assert.Equal(t, "Internal server error", PublicMessage(ErrStorageFailure("find").WithCause(stderrors.New("dsn leaked"))))
	assert.Equal(t, "Algorithm not found", PublicMessage(ErrInvalidAlgorithm("RSA")))
}

func TestKindStringUnknown(t *testing.T) {
	assert.Equal(t, "internal_error", Kind(999).String())
}
