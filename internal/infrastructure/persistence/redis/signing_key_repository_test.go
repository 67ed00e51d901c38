package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/usersvc/internal/config"
	"github.com/turtacn/usersvc/internal/domain/models"
	"github.com/turtacn/usersvc/internal/domain/repository"
	"github.com/turtacn/usersvc/pkg/errors"
	"github.com/turtacn/usersvc/pkg/logger"
)

func setupMiniredis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return mr, client
}

func TestSigningKeyRepository_CreateIfAbsent(t *testing.T) {
	ctx := context.Background()
	mr, client := setupMiniredis(t)
	repo := NewSigningKeyRepository(client)

	_, err := repo.FindByID(ctx, "jwt")
	assert.ErrorIs(t, err, repository.ErrNotFound)

	created, err := repo.CreateIfAbsent(ctx, &models.SigningKey{ID: "jwt", EncryptedMaterial: []byte("vault:v1:first")})
	require.NoError(t, err)
	assert.True(t, created)

	created, err = repo.CreateIfAbsent(ctx, &models.SigningKey{ID: "jwt", EncryptedMaterial: []byte("vault:v1:second")})
	require.NoError(t, err)
	assert.False(t, created)

	key, err := repo.FindByID(ctx, "jwt")
	require.NoError(t, err)
	assert.Equal(t, "jwt", key.ID)
	assert.Equal(t, []byte("vault:v1:first"), key.EncryptedMaterial)
	assert.False(t, key.CreatedAt.IsZero())

	assert.True(t, mr.Exists("signing_key:jwt"))
	assert.Equal(t, time.Duration(0), mr.TTL("signing_key:jwt"))
}

func TestSigningKeyRepository_Errors(t *testing.T) {
	ctx := context.Background()
	mr, client := setupMiniredis(t)
	repo := NewSigningKeyRepository(client)

	require.NoError(t, mr.Set("signing_key:broken", "not-json"))
	_, err := repo.FindByID(ctx, "broken")
	assert.True(t, errors.IsKind(err, errors.KindStorageFailure))

	mr.Close()
	_, err = repo.FindByID(ctx, "jwt")
	assert.True(t, errors.IsKind(err, errors.KindStorageFailure))
	_, err = repo.CreateIfAbsent(ctx, &models.SigningKey{ID: "jwt", EncryptedMaterial: []byte("c")})
	assert.True(t, errors.IsKind(err, errors.KindStorageFailure))
}

func TestNewRedisConnection(t *testing.T) {
	ctx := context.Background()
	mr := miniredis.RunT(t)

	conn, err := NewRedisConnection(ctx, config.RedisConfig{Address: mr.Addr(), PoolSize: 2}, logger.NewNoopLogger())
	require.NoError(t, err)
	assert.NoError(t, conn.HealthCheck(ctx))
	assert.NoError(t, conn.Close())

	mr.Close()
	_, err = NewRedisConnection(ctx, config.RedisConfig{Address: mr.Addr()}, logger.NewNoopLogger())
	assert.True(t, errors.IsKind(err, errors.KindStorageFailure))
}
