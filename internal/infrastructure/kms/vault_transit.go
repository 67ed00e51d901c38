// Package kms implements the KMS client over the HashiCorp Vault transit secrets engine.
package kms

import (
	"context"
	"encoding/base64"
	"fmt"
	"time"

	vault "github.com/hashicorp/vault/api"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/turtacn/usersvc/internal/config"
	"github.com/turtacn/usersvc/internal/domain/service"
	"github.com/turtacn/usersvc/pkg/errors"
	"github.com/turtacn/usersvc/pkg/logger"
)

var tracer = otel.Tracer("usersvc/kms")

// NewVaultClient creates the Vault API client used by the transit KMS client.
func NewVaultClient(cfg config.KMSConfig) (*vault.Client, error) {
	vaultCfg := vault.DefaultConfig()
	if err := vaultCfg.Error; err != nil {
		return nil, errors.ErrKMSFailure("configure").WithCause(err)
	}
	vaultCfg.Address = cfg.Address
	if cfg.Timeout > 0 {
		vaultCfg.Timeout = cfg.Timeout
	}
	vaultCfg.MaxRetries = cfg.MaxRetries

	client, err := vault.NewClient(vaultCfg)
	if err != nil {
		return nil, errors.ErrKMSFailure("configure").WithCause(err)
	}
	if cfg.Token != "" {
		client.SetToken(cfg.Token)
	}
	return client, nil
}

// VaultTransitClient encrypts and decrypts with one transit key. The associated data is
// fixed at construction and used in both directions, so a ciphertext produced under a
// different context fails to decrypt.
type VaultTransitClient struct {
	client    *vault.Client
	mountPath string
	keyID     string
	aad       string
	metrics   service.Metrics
	logger    logger.Logger
}

// NewVaultTransitClient binds a transit client to cfg.KeyID and cfg.AADContext.
func NewVaultTransitClient(cfg config.KMSConfig, client *vault.Client, metrics service.Metrics, log logger.Logger) *VaultTransitClient {
	if metrics == nil {
		metrics = service.NoopMetrics{}
	}
	return &VaultTransitClient{
		client:    client,
		mountPath: cfg.MountPath,
		keyID:     cfg.KeyID,
		aad:       base64.StdEncoding.EncodeToString([]byte(cfg.AADContext)),
		metrics:   metrics,
		logger:    log.WithComponent("VaultTransitClient"),
	}
}

// Encrypt returns the Vault ciphertext ("vault:vN:...") for plaintext.
func (c *VaultTransitClient) Encrypt(ctx context.Context, plaintext []byte) ([]byte, error) {
	data := map[string]interface{}{
		"plaintext":       base64.StdEncoding.EncodeToString(plaintext),
		"associated_data": c.aad,
	}
	out, err := c.call(ctx, "encrypt", data, "ciphertext")
	if err != nil {
		return nil, err
	}
	return []byte(out), nil
}

// Decrypt reverses Encrypt.
func (c *VaultTransitClient) Decrypt(ctx context.Context, ciphertext []byte) ([]byte, error) {
	data := map[string]interface{}{
		"ciphertext":      string(ciphertext),
		"associated_data": c.aad,
	}
	out, err := c.call(ctx, "decrypt", data, "plaintext")
	if err != nil {
		return nil, err
	}
	plaintext, err := base64.StdEncoding.DecodeString(out)
	if err != nil {
		return nil, errors.ErrKMSFailure("decrypt").WithCause(err)
	}
	return plaintext, nil
}

func (c *VaultTransitClient) call(ctx context.Context, op string, data map[string]interface{}, field string) (string, error) {
	ctx, span := tracer.Start(ctx, "kms."+op)
	defer span.End()
	span.SetAttributes(attribute.String("kms.key_id", c.keyID))

	start := time.Now()
	path := fmt.Sprintf("%s/%s/%s", c.mountPath, op, c.keyID)
	secret, err := c.client.Logical().WriteWithContext(ctx, path, data)
	if err == nil && (secret == nil || secret.Data == nil) {
		err = fmt.Errorf("empty response from %s", path)
	}

	var out string
	if err == nil {
		var ok bool
		out, ok = secret.Data[field].(string)
		if !ok || out == "" {
			err = fmt.Errorf("response from %s has no %s", path, field)
		}
	}

	c.metrics.RecordKMSCall(op, time.Since(start), err)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		c.logger.Error(ctx, "KMS call failed", err, logger.String("operation", op), logger.String("key_id", c.keyID))
		return "", errors.ErrKMSFailure(op).WithCause(err)
	}
	return out, nil
}

// HealthCheck reports whether Vault is reachable, initialized and unsealed.
func (c *VaultTransitClient) HealthCheck(ctx context.Context) error {
	health, err := c.client.Sys().HealthWithContext(ctx)
	if err != nil {
		return errors.ErrKMSFailure("health").WithCause(err)
	}
	if !health.Initialized || health.Sealed {
		return errors.ErrKMSFailure("health").WithCause(fmt.Errorf("vault initialized=%t sealed=%t", health.Initialized, health.Sealed))
	}
	return nil
}
