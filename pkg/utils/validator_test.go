package utils

import (
	stderrors "errors"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"

	"github.com/turtacn/usersvc/pkg/errors"
)

type signup struct {
	Email    string `validate:"required,email"`
	Password string `validate:"required,min=8"`
}

func TestBindingError_ValidationErrors(t *testing.T) {
	err := validator.New().Struct(signup{Email: "nope", Password: "short"})

	appErr := BindingError(err)
	assert.True(t, errors.IsKind(appErr, errors.KindInvalidRequest))
	assert.Equal(t, "Email must be a valid email address; Password must be at least 8 characters", appErr.Message())
	assert.Equal(t, "is required", formatValidationError(requiredFieldError(t)))
	assert.Equal(t, "must be a valid email address", appErr.Metadata()["Email"])
}

func TestBindingError_MalformedBody(t *testing.T) {
	appErr := BindingError(stderrors.New("unexpected EOF"))
	assert.True(t, errors.IsKind(appErr, errors.KindInvalidRequest))
	assert.Equal(t, "malformed request body", appErr.Message())
}

func requiredFieldError(t *testing.T) validator.FieldError {
	t.Helper()
	err := validator.New().Var("", "required")
	var ve validator.ValidationErrors
	if !stderrors.As(err, &ve) || len(ve) == 0 {
		t.Fatal("expected validation errors")
	}
	return ve[0]
}
