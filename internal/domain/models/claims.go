package models

import (
	"context"

	"github.com/google/uuid"
	"github.com/turtacn/usersvc/pkg/constants"
)

// Identity is the authenticated principal attached to a request context. It carries the
// account and its roles but never its credentials.
type Identity struct {
	UserID      uuid.UUID
	Email       string
	Role        Role
	Authorities []string
}

// NewIdentity builds the identity for an account.
func NewIdentity(u *User) *Identity {
	return &Identity{
		UserID:      u.ID,
		Email:       u.Email,
		Role:        u.Role,
		Authorities: u.Authorities(),
	}
}

// WithIdentity returns a copy of ctx carrying id.
func WithIdentity(ctx context.Context, id *Identity) context.Context {
	return context.WithValue(ctx, constants.ContextKeyIdentity, id)
}

// IdentityFromContext returns the identity established for the request, if any.
func IdentityFromContext(ctx context.Context) (*Identity, bool) {
	id, ok := ctx.Value(constants.ContextKeyIdentity).(*Identity)
	return id, ok && id != nil
}
