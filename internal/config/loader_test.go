package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/turtacn/usersvc/pkg/errors"
	"github.com/turtacn/usersvc/pkg/logger"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := NewLoader(logger.NewNoopLogger(), t.TempDir()).Load()
	require.NoError(t, err)

	assert.Equal(t, "HMAC-SHA256", cfg.Security.JWT.Algorithm)
	assert.Equal(t, time.Hour, cfg.Security.JWT.TTL)
	assert.Equal(t, 15*time.Minute, cfg.Security.Confirmation.TTL)
	assert.Equal(t, time.Duration(0), cfg.Security.JWT.KeyCacheTTL)
	assert.Equal(t, "transit", cfg.KMS.MountPath)
	assert.Equal(t, "postgres", cfg.Storage.SigningKeyBackend)
	assert.Equal(t, "X-User-Id", cfg.Security.Headers.UserID)
	assert.False(t, cfg.Server.IsProduction())
}

func TestLoad_FileAndEnvOverride(t *testing.T) {
	dir := t.TempDir()
	yaml := []byte(`
security:
  jwt:
    algorithm: HMAC-SHA512
    ttl: 1000ms
  confirmation:
    ttl: 24h
kms:
  key_id: users-key
storage:
  signing_key_backend: redis
`)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), yaml, 0o600))
	t.Setenv("USERSVC_KMS_TOKEN", "s.test-token")
	t.Setenv("USERSVC_SERVER_ENVIRONMENT", "production")

	cfg, err := NewLoader(logger.NewNoopLogger(), dir).Load()
	require.NoError(t, err)

	assert.Equal(t, "HMAC-SHA512", cfg.Security.JWT.Algorithm)
	assert.Equal(t, time.Second, cfg.Security.JWT.TTL)
	assert.Equal(t, 24*time.Hour, cfg.Security.Confirmation.TTL)
	assert.Equal(t, "users-key", cfg.KMS.KeyID)
	assert.Equal(t, "redis", cfg.Storage.SigningKeyBackend)
	assert.Equal(t, "s.test-token", cfg.KMS.Token)
	assert.True(t, cfg.Server.IsProduction())
}

func TestLoad_InvalidBackend(t *testing.T) {
	t.Setenv("USERSVC_STORAGE_SIGNING_KEY_BACKEND", "mongo")

	_, err := NewLoader(logger.NewNoopLogger(), t.TempDir()).Load()
	require.Error(t, err)
	assert.True(t, errors.IsKind(err, errors.KindInvalidRequest))
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			KMS:      KMSConfig{KeyID: "k", MountPath: "transit"},
			Security: SecurityConfig{JWT: JWTConfig{TTL: time.Minute, SigningKeyID: "id"}, Confirmation: ConfirmationConfig{TTL: time.Minute}},
			Storage:  StorageConfig{SigningKeyBackend: "postgres"},
		}
	}

	require.NoError(t, valid().Validate())

	cfg := valid()
	cfg.Security.JWT.TTL = 0
	assert.Error(t, cfg.Validate())

	cfg = valid()
	cfg.Security.JWT.SigningKeyID = ""
	assert.Error(t, cfg.Validate())

	cfg = valid()
	cfg.Kafka.Enabled = true
	assert.Error(t, cfg.Validate())
}

func TestDatabaseConfig_GetDSN(t *testing.T) {
	c := DatabaseConfig{Host: "db", Port: 5432, User: "u", Password: "p", Database: "users", SSLMode: "disable"}
	assert.Equal(t, "host=db port=5432 user=u password=p dbname=users sslmode=disable", c.GetDSN())
}
