package utils

import (
	stderrors "errors"
	"fmt"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/turtacn/usersvc/pkg/errors"
)

// BindingError turns a request binding failure into an InvalidRequest error whose
// message lists every rejected field, e.g. "email must be a valid email address".
func BindingError(err error) *errors.AppError {
	var validationErrors validator.ValidationErrors
	if !stderrors.As(err, &validationErrors) {
		return errors.ErrInvalidRequest("malformed request body").WithCause(err)
	}

	details := make(map[string]any, len(validationErrors))
	messages := make([]string, 0, len(validationErrors))
	for _, fe := range validationErrors {
		msg := formatValidationError(fe)
		details[fe.Field()] = msg
		messages = append(messages, fe.Field()+" "+msg)
	}
	sort.Strings(messages)

	appErr := errors.ErrInvalidRequest(strings.Join(messages, "; ")).WithCause(err)
	for k, v := range details {
		appErr = appErr.WithMetadata(k, v)
	}
	return appErr
}

func formatValidationError(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email address"
	case "datetime":
		return fmt.Sprintf("must match %s", fe.Param())
	case "min":
		return fmt.Sprintf("must be at least %s characters", fe.Param())
	case "max":
		return fmt.Sprintf("must be at most %s characters", fe.Param())
	default:
		return fmt.Sprintf("failed on the '%s' tag", fe.Tag())
	}
}

