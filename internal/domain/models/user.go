package models

import (
	"time"

	"github.com/google/uuid"
)

// Role is the coarse account role granted to a user.
type Role string

const (
	RoleUser  Role = "USER"
	RoleAdmin Role = "ADMIN"
)

// User is an account record. PasswordHash never leaves the service.
type User struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	FirstName    string    `gorm:"size:100;not null" json:"first_name"`
	LastName     string    `gorm:"size:100;not null" json:"last_name"`
	DateOfBirth  time.Time `gorm:"type:date" json:"date_of_birth"`
	Email        string    `gorm:"size:255;uniqueIndex;not null" json:"email"`
	PasswordHash string    `gorm:"size:255;not null" json:"-"`
	Role         Role      `gorm:"size:16;not null;default:USER" json:"role"`
	Locked       bool      `gorm:"not null;default:false" json:"locked"`
	Enabled      bool      `gorm:"not null;default:false" json:"enabled"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// TableName sets the table name for the User model.
func (User) TableName() string {
	return "users"
}

// Authorities returns the granted authorities derived from the role.
func (u *User) Authorities() []string {
	return []string{"ROLE_" + string(u.Role)}
}

// EmailVerificationDetails is the payload published for the mail sender to deliver a
// verification link.
type EmailVerificationDetails struct {
	Email     string `json:"email"`
	FirstName string `json:"firstName"`
	Link      string `json:"link"`
}
