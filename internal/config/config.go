package config

import (
	"fmt"
	"time"

	"github.com/turtacn/usersvc/pkg/constants"
	"github.com/turtacn/usersvc/pkg/errors"
)

// Config holds the application's configuration.
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	Redis    RedisConfig    `mapstructure:"redis"`
	Kafka    KafkaConfig    `mapstructure:"kafka"`
	KMS      KMSConfig      `mapstructure:"kms"`
	Security SecurityConfig `mapstructure:"security"`
	Storage  StorageConfig  `mapstructure:"storage"`
	Log      LogConfig      `mapstructure:"log"`
	Tracing  TracingConfig  `mapstructure:"tracing"`
}

type ServerConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	GRPCPort        int           `mapstructure:"grpc_port"`
	Environment     string        `mapstructure:"environment"`
	GatewayURI      string        `mapstructure:"gateway_uri"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
	AllowedOrigins  []string      `mapstructure:"allowed_origins"`
}

// IsProduction reports whether debug surfaces such as pprof must stay off.
func (c *ServerConfig) IsProduction() bool {
	return c.Environment == "production"
}

type DatabaseConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	User            string        `mapstructure:"user"`
	Password        string        `mapstructure:"password"`
	Database        string        `mapstructure:"database"`
	SSLMode         string        `mapstructure:"ssl_mode"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
	AutoMigrate     bool          `mapstructure:"auto_migrate"`
}

func (c *DatabaseConfig) GetDSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Database, c.SSLMode)
}

type RedisConfig struct {
	Address  string `mapstructure:"address"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
	PoolSize int    `mapstructure:"pool_size"`
}

type KafkaConfig struct {
	Enabled           bool          `mapstructure:"enabled"`
	Brokers           []string      `mapstructure:"brokers"`
	VerificationTopic string        `mapstructure:"verification_topic"`
	UserRequestTopic  string        `mapstructure:"user_request_topic"`
	UserReplyTopic    string        `mapstructure:"user_reply_topic"`
	GroupID           string        `mapstructure:"group_id"`
	WriteTimeout      time.Duration `mapstructure:"write_timeout"`
	RequiredAcks      int           `mapstructure:"required_acks"`
}

// KMSConfig binds the client to one Vault transit key and one AAD context.
type KMSConfig struct {
	Address    string        `mapstructure:"address"`
	Token      string        `mapstructure:"token"`
	MountPath  string        `mapstructure:"mount_path"`
	KeyID      string        `mapstructure:"key_id"`
	AADContext string        `mapstructure:"aad_context"`
	Timeout    time.Duration `mapstructure:"timeout"`
	MaxRetries int           `mapstructure:"max_retries"`
}

type SecurityConfig struct {
	JWT          JWTConfig          `mapstructure:"jwt"`
	Confirmation ConfirmationConfig `mapstructure:"confirmation"`
	Password     PasswordConfig     `mapstructure:"password"`
	Headers      HeadersConfig      `mapstructure:"headers"`
}

type JWTConfig struct {
	Algorithm    string        `mapstructure:"algorithm"`
	TTL          time.Duration `mapstructure:"ttl"`
	SigningKeyID string        `mapstructure:"signing_key_id"`
	// KeyCacheTTL keeps the decrypted signing key in memory; zero disables the cache.
	KeyCacheTTL time.Duration `mapstructure:"key_cache_ttl"`
}

type ConfirmationConfig struct {
	TTL time.Duration `mapstructure:"ttl"`
}

type PasswordConfig struct {
	BcryptCost int `mapstructure:"bcrypt_cost"`
}

// HeadersConfig names the headers the gateway reads the authorised identity from.
type HeadersConfig struct {
	UserID   string `mapstructure:"user_id"`
	UserRole string `mapstructure:"user_role"`
}

type StorageConfig struct {
	SigningKeyBackend string `mapstructure:"signing_key_backend"`
}

type LogConfig struct {
	Level string `mapstructure:"level"`
}

type TracingConfig struct {
	Enabled        bool    `mapstructure:"enabled"`
	JaegerEndpoint string  `mapstructure:"jaeger_endpoint"`
	ServiceName    string  `mapstructure:"service_name"`
	SamplingRate   float64 `mapstructure:"sampling_rate"`
}

// Validate checks for essential configuration values.
func (c *Config) Validate() error {
	if c.Security.JWT.TTL <= 0 {
		return errors.ErrInvalidRequest("security.jwt.ttl must be positive")
	}
	if c.Security.Confirmation.TTL <= 0 {
		return errors.ErrInvalidRequest("security.confirmation.ttl must be positive")
	}
	if c.Security.JWT.SigningKeyID == "" {
		return errors.ErrInvalidRequest("security.jwt.signing_key_id is required")
	}
	if c.KMS.KeyID == "" || c.KMS.MountPath == "" {
		return errors.ErrInvalidRequest("kms.key_id and kms.mount_path are required")
	}
	switch c.Storage.SigningKeyBackend {
	case constants.SigningKeyBackendPostgres, constants.SigningKeyBackendRedis:
	default:
		return errors.ErrInvalidRequest(fmt.Sprintf("unknown storage.signing_key_backend %q", c.Storage.SigningKeyBackend))
	}
	if c.Kafka.Enabled && len(c.Kafka.Brokers) == 0 {
		return errors.ErrInvalidRequest("kafka.brokers is required when kafka is enabled")
	}
	return nil
}
