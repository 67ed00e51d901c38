package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/turtacn/usersvc/internal/application/dto"
	"github.com/turtacn/usersvc/internal/application/service"
	"github.com/turtacn/usersvc/pkg/errors"
	"github.com/turtacn/usersvc/pkg/utils"
)

// UserHandler serves registration, confirmation, login and gateway authorization.
type UserHandler struct {
	authService service.AuthAppService
	reporter    ErrorReporter
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(authService service.AuthAppService, reporter ErrorReporter) *UserHandler {
	return &UserHandler{authService: authService, reporter: reporter}
}

// Register handles POST /register.
func (h *UserHandler) Register(c *gin.Context) {
	var req dto.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.reporter.Report(c, utils.BindingError(err))
		return
	}

	resp, err := h.authService.Register(c.Request.Context(), &req)
	if err != nil {
		h.reporter.Report(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Confirm handles GET /confirm?token=.
func (h *UserHandler) Confirm(c *gin.Context) {
	token := c.Query("token")
	if token == "" {
		h.reporter.Report(c, errors.ErrInvalidRequest("token is required"))
		return
	}

	resp, err := h.authService.Confirm(c.Request.Context(), token)
	if err != nil {
		h.reporter.Report(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Login handles POST /login.
func (h *UserHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.reporter.Report(c, utils.BindingError(err))
		return
	}

	resp, err := h.authService.Login(c.Request.Context(), &req)
	if err != nil {
		h.reporter.Report(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Authorize handles GET /auth. The identity headers are set on the response for the gateway
// and echoed in the body.
func (h *UserHandler) Authorize(c *gin.Context) {
	headers, err := h.authService.Authorize(c.Request.Context())
	if err != nil {
		h.reporter.Report(c, err)
		return
	}
	for name, value := range headers {
		c.Header(name, value)
	}
	c.JSON(http.StatusOK, headers)
}
