package service

import (
	"context"

	"github.com/google/uuid"

	"github.com/turtacn/usersvc/internal/application/dto"
	"github.com/turtacn/usersvc/pkg/errors"
	"github.com/turtacn/usersvc/pkg/logger"
)

// UserRequestHandler answers user lookups from other services.
type UserRequestHandler struct {
	principals *UserPrincipalService
	logger     logger.Logger
}

// NewUserRequestHandler creates a new UserRequestHandler.
func NewUserRequestHandler(principals *UserPrincipalService, log logger.Logger) *UserRequestHandler {
	return &UserRequestHandler{principals: principals, logger: log.WithComponent("UserRequestHandler")}
}

// HandleUserRequest returns the account for userID. A malformed or unknown id yields
// (nil, nil), which the requester reads as "no such user". Any other lookup failure is returned.
func (h *UserRequestHandler) HandleUserRequest(ctx context.Context, userID string) (*dto.UserView, error) {
	id, err := uuid.Parse(userID)
	if err != nil {
		h.logger.Warn(ctx, "Malformed user id in request", logger.String("user_id", userID))
		return nil, nil
	}

	user, err := h.principals.FindByID(ctx, id)
	if err != nil {
		if errors.IsKind(err, errors.KindUserNotFound) {
			h.logger.Debug(ctx, "Requested user does not exist", logger.String("user_id", userID))
			return nil, nil
		}
		return nil, err
	}
	return dto.NewUserView(user), nil
}
