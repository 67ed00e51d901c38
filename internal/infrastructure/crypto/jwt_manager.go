// Package crypto issues and verifies HMAC-signed bearer tokens. The signing key is never
// held at rest in plaintext; every operation fetches the encrypted key and decrypts it
// through the KMS unless the optional in-process cache is enabled.
package crypto

import (
	"context"
	"encoding/base64"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/patrickmn/go-cache"
	"go.opentelemetry.io/otel"

	"github.com/turtacn/usersvc/internal/config"
	"github.com/turtacn/usersvc/internal/domain/models"
	"github.com/turtacn/usersvc/internal/domain/service"
	"github.com/turtacn/usersvc/pkg/errors"
	"github.com/turtacn/usersvc/pkg/logger"
)

const signingKeyCacheKey = "signing-key"

var tracer = otel.Tracer("usersvc/crypto")

func init() {
	// iat and exp carry milliseconds so sub-second TTLs are honoured.
	jwt.TimePrecision = time.Millisecond
}

// JWTManager implements service.TokenService.
type JWTManager struct {
	keyManager service.KeyManager
	kms        service.KMSClient
	algorithm  models.AlgorithmSpec
	ttl        time.Duration
	keyCache   *cache.Cache
	metrics    service.Metrics
	logger     logger.Logger
	now        func() time.Time
}

// NewJWTManager creates a new JWTManager. It fails with InvalidAlgorithm when cfg.Algorithm
// is not a supported HMAC variant.
func NewJWTManager(cfg config.JWTConfig, keyManager service.KeyManager, kms service.KMSClient, metrics service.Metrics, log logger.Logger) (*JWTManager, error) {
	spec, err := models.LookupAlgorithm(cfg.Algorithm)
	if err != nil {
		return nil, err
	}
	if metrics == nil {
		metrics = service.NoopMetrics{}
	}

	m := &JWTManager{
		keyManager: keyManager,
		kms:        kms,
		algorithm:  spec,
		ttl:        cfg.TTL,
		metrics:    metrics,
		logger:     log.WithComponent("JWTManager"),
		now:        time.Now,
	}
	if cfg.KeyCacheTTL > 0 {
		m.keyCache = cache.New(cfg.KeyCacheTTL, 2*cfg.KeyCacheTTL)
	}
	return m, nil
}

// Issue signs a token with sub=subject, iat=now and exp=now+TTL.
func (m *JWTManager) Issue(ctx context.Context, subject string) (string, error) {
	ctx, span := tracer.Start(ctx, "token.issue")
	defer span.End()

	start := m.now()
	key, err := m.signingKey(ctx)
	if err != nil {
		m.metrics.RecordTokenIssue(false, time.Since(start))
		return "", err
	}

	claims := jwt.RegisteredClaims{
		Subject:   subject,
		IssuedAt:  jwt.NewNumericDate(start),
		ExpiresAt: jwt.NewNumericDate(start.Add(m.ttl)),
	}
	signed, err := jwt.NewWithClaims(m.algorithm.Method, claims).SignedString(key)
	if err != nil {
		m.metrics.RecordTokenIssue(false, time.Since(start))
		m.logger.Error(ctx, "Failed to sign token", err)
		return "", errors.ErrInternal("failed to sign token").WithCause(err)
	}

	m.metrics.RecordTokenIssue(true, time.Since(start))
	return signed, nil
}

// ExtractSubject verifies the signature and returns the sub claim. Expiry is not checked.
func (m *JWTManager) ExtractSubject(ctx context.Context, token string) (string, error) {
	ctx, span := tracer.Start(ctx, "token.extract_subject")
	defer span.End()

	claims, err := m.parse(ctx, token)
	if err != nil {
		return "", err
	}
	return claims.Subject, nil
}

// Validate reports whether token names expectedSubject and its exp lies strictly after now.
// Malformed or wrongly signed tokens fail with TokenInvalid rather than returning false.
func (m *JWTManager) Validate(ctx context.Context, token, expectedSubject string) (bool, error) {
	ctx, span := tracer.Start(ctx, "token.validate")
	defer span.End()

	claims, err := m.parse(ctx, token)
	if err != nil {
		return false, err
	}

	if claims.Subject != expectedSubject {
		m.metrics.RecordTokenValidation("mismatch")
		return false, nil
	}
	if claims.ExpiresAt == nil || !claims.ExpiresAt.Time.After(m.now()) {
		m.metrics.RecordTokenValidation("expired")
		return false, nil
	}

	m.metrics.RecordTokenValidation("valid")
	return true, nil
}

// Invalidate drops the cached decrypted key so the next call goes back to the KMS.
func (m *JWTManager) Invalidate() {
	if m.keyCache != nil {
		m.keyCache.Delete(signingKeyCacheKey)
	}
}

func (m *JWTManager) parse(ctx context.Context, token string) (*jwt.RegisteredClaims, error) {
	key, err := m.signingKey(ctx)
	if err != nil {
		return nil, err
	}

	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{m.algorithm.Method.Alg()}),
		jwt.WithoutClaimsValidation(),
	)
	claims := &jwt.RegisteredClaims{}
	if _, err := parser.ParseWithClaims(token, claims, func(*jwt.Token) (interface{}, error) {
		return key, nil
	}); err != nil {
		m.metrics.RecordTokenValidation("invalid")
		return nil, errors.ErrTokenInvalid(err.Error()).WithCause(err)
	}
	return claims, nil
}

// signingKey returns the raw HMAC key: encrypted key -> KMS decrypt -> base64 decode.
func (m *JWTManager) signingKey(ctx context.Context) ([]byte, error) {
	if m.keyCache != nil {
		if cached, found := m.keyCache.Get(signingKeyCacheKey); found {
			m.metrics.RecordKeyCacheAccess(true)
			return cached.([]byte), nil
		}
		m.metrics.RecordKeyCacheAccess(false)
	}

	encrypted, err := m.keyManager.GetEncryptedSigningKey(ctx)
	if err != nil {
		return nil, err
	}
	encoded, err := m.kms.Decrypt(ctx, encrypted)
	if err != nil {
		return nil, err
	}
	key, err := base64.StdEncoding.DecodeString(string(encoded))
	if err != nil {
		m.logger.Error(ctx, "Decrypted signing key is not valid base64", err)
		return nil, errors.ErrInternal("signing key material is corrupt").WithCause(err)
	}

	if m.keyCache != nil {
		m.keyCache.SetDefault(signingKeyCacheKey, key)
	}
	return key, nil
}
