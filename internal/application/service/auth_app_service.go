// Package service provides application-level services that orchestrate domain services and repositories
package service

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/turtacn/usersvc/internal/application/dto"
	"github.com/turtacn/usersvc/internal/config"
	"github.com/turtacn/usersvc/internal/domain/models"
	"github.com/turtacn/usersvc/internal/domain/repository"
	domainService "github.com/turtacn/usersvc/internal/domain/service"
	"github.com/turtacn/usersvc/pkg/errors"
	"github.com/turtacn/usersvc/pkg/logger"
)

const badCredentials = "Bad credentials"

// AuthAppService defines the interface for the account authentication application service
type AuthAppService interface {
	// Register creates a disabled account and sends its verification link
	Register(ctx context.Context, req *dto.RegisterRequest) (*dto.MessageResponse, error)

	// Confirm consumes a verification link token
	Confirm(ctx context.Context, token string) (*dto.MessageResponse, error)

	// Login checks credentials and issues a bearer token
	Login(ctx context.Context, req *dto.LoginRequest) (*dto.LoginResponse, error)

	// Authorize returns the identity headers for the already authenticated request
	Authorize(ctx context.Context) (dto.AuthorizationHeaders, error)

	// EnableUser enables the account for email
	EnableUser(ctx context.Context, email string) error
}

// AuthAppConfig holds the settings the service needs from the global configuration.
type AuthAppConfig struct {
	GatewayURI        string
	VerificationTopic string
	BcryptCost        int
	UserIDHeader      string
	UserRoleHeader    string
}

// NewAuthAppConfig extracts AuthAppConfig from cfg.
func NewAuthAppConfig(cfg *config.Config) AuthAppConfig {
	return AuthAppConfig{
		GatewayURI:        cfg.Server.GatewayURI,
		VerificationTopic: cfg.Kafka.VerificationTopic,
		BcryptCost:        cfg.Security.Password.BcryptCost,
		UserIDHeader:      cfg.Security.Headers.UserID,
		UserRoleHeader:    cfg.Security.Headers.UserRole,
	}
}

// authAppServiceImpl is the concrete implementation of AuthAppService
type authAppServiceImpl struct {
	cfg           AuthAppConfig
	users         repository.UserRepository
	enabler       domainService.AccountEnabler
	confirmations domainService.ConfirmationTokenService
	tokens        domainService.TokenService
	publisher     domainService.MessagePublisher
	logger        logger.Logger
	now           func() time.Time
}

// NewAuthAppService creates a new instance of AuthAppService
func NewAuthAppService(
	cfg AuthAppConfig,
	users repository.UserRepository,
	enabler domainService.AccountEnabler,
	confirmations domainService.ConfirmationTokenService,
	tokens domainService.TokenService,
	publisher domainService.MessagePublisher,
	log logger.Logger,
) AuthAppService {
	if cfg.BcryptCost == 0 {
		cfg.BcryptCost = bcrypt.DefaultCost
	}
	return &authAppServiceImpl{
		cfg:           cfg,
		users:         users,
		enabler:       enabler,
		confirmations: confirmations,
		tokens:        tokens,
		publisher:     publisher,
		logger:        log.WithComponent("AuthAppService"),
		now:           time.Now,
	}
}

// Register creates the account, a confirmation token and publishes the verification mail request.
func (s *authAppServiceImpl) Register(ctx context.Context, req *dto.RegisterRequest) (*dto.MessageResponse, error) {
	email := strings.TrimSpace(req.Email)

	dob, err := time.Parse(dto.DateLayout, req.DateOfBirth)
	if err != nil {
		return nil, errors.ErrInvalidRequest("Date of birth must use the format YYYY-MM-DD")
	}
	if !dob.Before(s.now()) {
		return nil, errors.ErrInvalidRequest("Date of birth must be in the past")
	}

	exists, err := s.users.ExistsByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, errors.ErrUserExists(email)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), s.cfg.BcryptCost)
	if err != nil {
		return nil, errors.ErrInvalidRequest("Password cannot be used").WithCause(err)
	}

	user := &models.User{
		ID:           uuid.New(),
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		DateOfBirth:  dob,
		Email:        email,
		PasswordHash: string(hash),
		Role:         models.RoleUser,
		Enabled:      false,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}

	token, err := s.confirmations.Create(ctx, email)
	if err != nil {
		return nil, err
	}

	details := models.EmailVerificationDetails{
		Email:     email,
		FirstName: user.FirstName,
		Link:      s.verificationLink(token),
	}
	if err := s.publisher.Publish(ctx, s.cfg.VerificationTopic, email, details); err != nil {
		s.logger.Error(ctx, "Failed to publish verification link", err, logger.String("email", email))
		return nil, err
	}

	s.logger.Info(ctx, "User registered", logger.String("user_id", user.ID.String()))
	return &dto.MessageResponse{Message: fmt.Sprintf("Verification link was sent to email %s", email)}, nil
}

// Confirm consumes a verification link token.
func (s *authAppServiceImpl) Confirm(ctx context.Context, token string) (*dto.MessageResponse, error) {
	if token == "" {
		return nil, errors.ErrConfirmationTokenNotFound()
	}
	msg, err := s.confirmations.Confirm(ctx, token)
	if err != nil {
		return nil, err
	}
	return &dto.MessageResponse{Message: msg}, nil
}

// Login checks the password and account state and issues a bearer token.
func (s *authAppServiceImpl) Login(ctx context.Context, req *dto.LoginRequest) (*dto.LoginResponse, error) {
	user, err := s.users.FindByEmail(ctx, strings.TrimSpace(req.Email))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, errors.ErrForbidden(badCredentials)
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, errors.ErrForbidden(badCredentials)
	}
	if !user.Enabled {
		return nil, errors.ErrForbidden("User is disabled")
	}
	if user.Locked {
		return nil, errors.ErrForbidden("User account is locked")
	}

	token, err := s.tokens.Issue(ctx, user.Email)
	if err != nil {
		return nil, err
	}
	return &dto.LoginResponse{Token: token}, nil
}

// Authorize returns the identity headers of the authenticated request.
func (s *authAppServiceImpl) Authorize(ctx context.Context) (dto.AuthorizationHeaders, error) {
	id, ok := models.IdentityFromContext(ctx)
	if !ok {
		return nil, errors.ErrForbidden("Access denied")
	}
	return dto.AuthorizationHeaders{
		s.cfg.UserIDHeader:   id.UserID.String(),
		s.cfg.UserRoleHeader: string(id.Role),
	}, nil
}

// EnableUser enables the account for email.
func (s *authAppServiceImpl) EnableUser(ctx context.Context, email string) error {
	return s.enabler.EnableUser(ctx, email)
}

func (s *authAppServiceImpl) verificationLink(token string) string {
	return fmt.Sprintf("%s/users/confirm?token=%s", strings.TrimRight(s.cfg.GatewayURI, "/"), url.QueryEscape(token))
}
