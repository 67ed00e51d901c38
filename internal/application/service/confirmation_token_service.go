package service

import (
	"context"
	"time"

	"github.com/turtacn/usersvc/internal/config"
	"github.com/turtacn/usersvc/internal/domain/models"
	"github.com/turtacn/usersvc/internal/domain/repository"
	domainService "github.com/turtacn/usersvc/internal/domain/service"
	"github.com/turtacn/usersvc/pkg/constants"
	"github.com/turtacn/usersvc/pkg/errors"
	"github.com/turtacn/usersvc/pkg/logger"
)

// ConfirmationTokenService implements domainService.ConfirmationTokenService.
type ConfirmationTokenService struct {
	repo    repository.ConfirmationTokenRepository
	enabler domainService.AccountEnabler
	ttl     time.Duration
	metrics domainService.Metrics
	logger  logger.Logger
	now     func() time.Time
}

// NewConfirmationTokenService creates a new instance of the ConfirmationTokenService.
func NewConfirmationTokenService(cfg config.ConfirmationConfig, repo repository.ConfirmationTokenRepository, enabler domainService.AccountEnabler, metrics domainService.Metrics, log logger.Logger) *ConfirmationTokenService {
	if metrics == nil {
		metrics = domainService.NoopMetrics{}
	}
	return &ConfirmationTokenService{
		repo:    repo,
		enabler: enabler,
		ttl:     cfg.TTL,
		metrics: metrics,
		logger:  log.WithComponent("ConfirmationTokenService"),
		now:     time.Now,
	}
}

// Create issues and stores a new token for email and returns its value.
func (s *ConfirmationTokenService) Create(ctx context.Context, email string) (string, error) {
	token := models.NewConfirmationToken(email, s.now(), s.ttl)
	if err := s.repo.Create(ctx, token); err != nil {
		return "", err
	}
	return token.Token, nil
}

// Confirm activates token and enables the owning account.
func (s *ConfirmationTokenService) Confirm(ctx context.Context, value string) (string, error) {
	token, err := s.repo.FindByToken(ctx, value)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			s.metrics.RecordConfirmation("not_found")
			return "", errors.ErrConfirmationTokenNotFound()
		}
		return "", err
	}

	if token.Activated {
		s.metrics.RecordConfirmation("already_activated")
		return "", errors.ErrAlreadyActivated()
	}
	if token.IsExpired(s.now()) {
		s.metrics.RecordConfirmation("expired")
		return "", errors.ErrConfirmationExpired()
	}

	activated, err := s.repo.Activate(ctx, value)
	if err != nil {
		return "", err
	}
	if !activated {
		// A concurrent confirmation won the compare-and-set.
		s.metrics.RecordConfirmation("already_activated")
		return "", errors.ErrAlreadyActivated()
	}

	if err := s.enabler.EnableUser(ctx, token.UserEmail); err != nil {
		s.logger.Error(ctx, "Failed to enable account after confirmation", err, logger.String("email", token.UserEmail))
		return "", err
	}

	s.metrics.RecordConfirmation("confirmed")
	s.logger.Info(ctx, "Email confirmed", logger.String("email", token.UserEmail))
	return constants.ConfirmationSuccessMessage, nil
}
