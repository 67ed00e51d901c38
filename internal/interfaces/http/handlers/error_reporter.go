package handlers

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/turtacn/usersvc/internal/application/dto"
	"github.com/turtacn/usersvc/pkg/errors"
	"github.com/turtacn/usersvc/pkg/logger"
)

// ErrorReporter turns an error into the HTTP response of the request.
type ErrorReporter interface {
	Report(c *gin.Context, err error)
}

// JSONErrorReporter writes {"error","status","timestamp"} bodies and aborts the chain.
type JSONErrorReporter struct {
	logger logger.Logger
	now    func() time.Time
}

// NewJSONErrorReporter creates a JSONErrorReporter.
func NewJSONErrorReporter(log logger.Logger) *JSONErrorReporter {
	return &JSONErrorReporter{logger: log.WithComponent("ErrorReporter"), now: time.Now}
}

// Report maps err to its status once and writes the body. Server-side failures are logged
// with their cause but answered with a generic message.
func (r *JSONErrorReporter) Report(c *gin.Context, err error) {
	status := errors.HTTPStatus(err)
	if status >= 500 {
		r.logger.Error(c.Request.Context(), "Request failed", err,
			logger.String("method", c.Request.Method),
			logger.String("path", c.Request.URL.Path),
		)
	}
	c.AbortWithStatusJSON(status, dto.NewErrorResponse(status, errors.PublicMessage(err), r.now()))
}
