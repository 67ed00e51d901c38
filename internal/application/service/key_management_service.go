package service

import (
	"context"
	"crypto/rand"
	"encoding/base64"

	"golang.org/x/sync/singleflight"

	"github.com/turtacn/usersvc/internal/config"
	"github.com/turtacn/usersvc/internal/domain/models"
	"github.com/turtacn/usersvc/internal/domain/repository"
	domainService "github.com/turtacn/usersvc/internal/domain/service"
	"github.com/turtacn/usersvc/pkg/errors"
	"github.com/turtacn/usersvc/pkg/logger"
)

// KeyManagementService owns the lifecycle of the token signing key: it returns the stored
// KMS-encrypted key, generating and storing one on first use.
type KeyManagementService struct {
	repo      repository.SigningKeyRepository
	kms       domainService.KMSClient
	keyID     string
	algorithm string
	group     singleflight.Group
	metrics   domainService.Metrics
	logger    logger.Logger
}

// NewKeyManagementService creates a new instance of the KeyManagementService.
func NewKeyManagementService(cfg config.JWTConfig, repo repository.SigningKeyRepository, kms domainService.KMSClient, metrics domainService.Metrics, log logger.Logger) *KeyManagementService {
	if metrics == nil {
		metrics = domainService.NoopMetrics{}
	}
	return &KeyManagementService{
		repo:      repo,
		kms:       kms,
		keyID:     cfg.SigningKeyID,
		algorithm: cfg.Algorithm,
		metrics:   metrics,
		logger:    log.WithComponent("KeyManagementService"),
	}
}

// GetEncryptedSigningKey returns the encrypted signing key, creating it if absent.
// Concurrent first-use callers in this process share one creation; callers in other
// processes converge on whichever record the store accepted first.
func (s *KeyManagementService) GetEncryptedSigningKey(ctx context.Context) ([]byte, error) {
	key, err := s.repo.FindByID(ctx, s.keyID)
	if err == nil {
		return key.EncryptedMaterial, nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}

	v, err, _ := s.group.Do(s.keyID, func() (interface{}, error) {
		return s.create(context.WithoutCancel(ctx))
	})
	if err != nil {
		return nil, err
	}
	return v.([]byte), nil
}

func (s *KeyManagementService) create(ctx context.Context) ([]byte, error) {
	spec, err := models.LookupAlgorithm(s.algorithm)
	if err != nil {
		s.logger.Error(ctx, "Signing algorithm is not supported", err, logger.String("algorithm", s.algorithm))
		return nil, err
	}

	raw := make([]byte, spec.KeySize)
	if _, err := rand.Read(raw); err != nil {
		return nil, errors.ErrInternal("failed to generate signing key").WithCause(err)
	}
	encoded := []byte(base64.StdEncoding.EncodeToString(raw))
	clear(raw)

	ciphertext, err := s.kms.Encrypt(ctx, encoded)
	clear(encoded)
	if err != nil {
		return nil, err
	}

	created, err := s.repo.CreateIfAbsent(ctx, &models.SigningKey{ID: s.keyID, EncryptedMaterial: ciphertext})
	if err != nil {
		return nil, err
	}
	if created {
		s.metrics.RecordSigningKeyCreated()
		s.logger.Info(ctx, "Signing key created",
			logger.String("key_id", s.keyID),
			logger.String("algorithm", string(spec.Name)),
		)
		return ciphertext, nil
	}

	// Another writer stored the key first; its record is the one everybody must use.
	winner, err := s.repo.FindByID(ctx, s.keyID)
	if err != nil {
		return nil, err
	}
	s.logger.Debug(ctx, "Signing key created concurrently elsewhere", logger.String("key_id", s.keyID))
	return winner.EncryptedMaterial, nil
}
