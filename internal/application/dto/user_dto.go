package dto

import (
	"github.com/google/uuid"

	"github.com/turtacn/usersvc/internal/domain/models"
)

// DateLayout is the wire format of dates of birth.
const DateLayout = "2006-01-02"

// RegisterRequest 用户注册请求 DTO
type RegisterRequest struct {
	FirstName   string `json:"firstName" binding:"required,max=100"`
	LastName    string `json:"lastName" binding:"required,max=100"`
	DateOfBirth string `json:"dateOfBirth" binding:"required,datetime=2006-01-02"`
	Email       string `json:"email" binding:"required,email,max=255"`
	Password    string `json:"password" binding:"required,min=8,max=72"`
}

// LoginRequest 登录请求 DTO
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
}

// LoginResponse carries the issued bearer token.
type LoginResponse struct {
	Token string `json:"token"`
}

// MessageResponse is a plain confirmation message.
type MessageResponse struct {
	Message string `json:"message"`
}

// UserView is the public projection of an account, without credentials.
type UserView struct {
	ID          uuid.UUID   `json:"id"`
	FirstName   string      `json:"firstName"`
	LastName    string      `json:"lastName"`
	DateOfBirth string      `json:"dateOfBirth"`
	Email       string      `json:"email"`
	Role        models.Role `json:"role"`
	Enabled     bool        `json:"enabled"`
	Locked      bool        `json:"locked"`
}

// NewUserView projects user.
func NewUserView(user *models.User) *UserView {
	return &UserView{
		ID:          user.ID,
		FirstName:   user.FirstName,
		LastName:    user.LastName,
		DateOfBirth: user.DateOfBirth.Format(DateLayout),
		Email:       user.Email,
		Role:        user.Role,
		Enabled:     user.Enabled,
		Locked:      user.Locked,
	}
}

// AuthorizationHeaders are the identity headers the gateway forwards downstream.
type AuthorizationHeaders map[string]string
