package redis

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/turtacn/usersvc/internal/domain/models"
	"github.com/turtacn/usersvc/internal/domain/repository"
	"github.com/turtacn/usersvc/pkg/errors"
)

const signingKeyPrefix = "signing_key:"

// signingKeyRecord is the JSON value stored per key. EncryptedMaterial is base64 in JSON.
type signingKeyRecord struct {
	EncryptedMaterial []byte    `json:"encrypted_material"`
	CreatedAt         time.Time `json:"created_at"`
}

// SigningKeyRepository stores signing keys as JSON values without expiry.
type SigningKeyRepository struct {
	client redis.UniversalClient
}

// NewSigningKeyRepository creates a new SigningKeyRepository.
func NewSigningKeyRepository(client redis.UniversalClient) *SigningKeyRepository {
	return &SigningKeyRepository{client: client}
}

// FindByID retrieves the key stored under id.
func (r *SigningKeyRepository) FindByID(ctx context.Context, id string) (*models.SigningKey, error) {
	data, err := r.client.Get(ctx, signingKeyPrefix+id).Bytes()
	if err != nil {
		if stderrors.Is(err, redis.Nil) {
			return nil, repository.ErrNotFound
		}
		return nil, errors.ErrStorageFailure("find signing key").WithCause(err)
	}

	var rec signingKeyRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, errors.ErrStorageFailure("decode signing key").WithCause(err)
	}
	return &models.SigningKey{ID: id, EncryptedMaterial: rec.EncryptedMaterial, CreatedAt: rec.CreatedAt}, nil
}

// CreateIfAbsent stores key with SETNX.
func (r *SigningKeyRepository) CreateIfAbsent(ctx context.Context, key *models.SigningKey) (bool, error) {
	if key.CreatedAt.IsZero() {
		key.CreatedAt = time.Now().UTC()
	}
	data, err := json.Marshal(signingKeyRecord{EncryptedMaterial: key.EncryptedMaterial, CreatedAt: key.CreatedAt})
	if err != nil {
		return false, errors.ErrStorageFailure("encode signing key").WithCause(err)
	}

	created, err := r.client.SetNX(ctx, signingKeyPrefix+key.ID, data, 0).Result()
	if err != nil {
		return false, errors.ErrStorageFailure("create signing key").WithCause(err)
	}
	return created, nil
}
