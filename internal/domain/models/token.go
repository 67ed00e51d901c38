package models

import (
	"time"

	"github.com/google/uuid"
)

// ConfirmationToken is a single-use, time-bounded proof of email ownership.
type ConfirmationToken struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Token     string    `gorm:"size:64;uniqueIndex;not null" json:"token"`
	IssuedAt  time.Time `gorm:"not null" json:"issued_at"`
	ExpiresAt time.Time `gorm:"not null" json:"expires_at"`
	Activated bool      `gorm:"not null;default:false" json:"activated"`
	UserEmail string    `gorm:"size:255;not null;index" json:"user_email"`
}

// TableName sets the table name for the ConfirmationToken model.
func (ConfirmationToken) TableName() string {
	return "confirmation_tokens"
}

// NewConfirmationToken creates an unactivated token for email valid for ttl from now.
func NewConfirmationToken(email string, now time.Time, ttl time.Duration) *ConfirmationToken {
	return &ConfirmationToken{
		ID:        uuid.New(),
		Token:     uuid.NewString(),
		IssuedAt:  now,
		ExpiresAt: now.Add(ttl),
		Activated: false,
		UserEmail: email,
	}
}

// IsExpired reports whether the token's expiry lies strictly before now.
func (t *ConfirmationToken) IsExpired(now time.Time) bool {
	return t.ExpiresAt.Before(now)
}
