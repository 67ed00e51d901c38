package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/turtacn/usersvc/internal/application/service"
	"github.com/turtacn/usersvc/internal/domain/models"
	"github.com/turtacn/usersvc/internal/interfaces/http/handlers"
	"github.com/turtacn/usersvc/pkg/constants"
	"github.com/turtacn/usersvc/pkg/errors"
)

// Authenticate runs the bearer token filter for every request. A rejected request is
// reported and the chain stops; every other outcome continues, with the identity on the
// request context when one was established.
func Authenticate(auth *service.Authenticator, reporter handlers.ErrorReporter) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, outcome, err := auth.Authenticate(c.Request.Context(), c.GetHeader(constants.HeaderAuthorization))
		if !outcome.Proceeds() {
			reporter.Report(c, err)
			return
		}
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

// RequireIdentity rejects requests that reach it without an authenticated identity.
func RequireIdentity(reporter handlers.ErrorReporter) gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := models.IdentityFromContext(c.Request.Context()); !ok {
			reporter.Report(c, errors.ErrForbidden("Access denied"))
			return
		}
		c.Next()
	}
}
