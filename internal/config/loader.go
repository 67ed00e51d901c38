package config

import (
	"context"
	"strings"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
	"github.com/turtacn/usersvc/pkg/constants"
	"github.com/turtacn/usersvc/pkg/errors"
	"github.com/turtacn/usersvc/pkg/logger"
)

// EnvPrefix is prepended to every environment override, e.g. USERSVC_KMS_TOKEN.
const EnvPrefix = "USERSVC"

// Loader reads configuration and watches the file for log level changes.
type Loader struct {
	v   *viper.Viper
	log logger.Logger
}

// NewLoader creates a loader reading config.yaml from the given paths, then /etc/usersvc/ and ".".
func NewLoader(log logger.Logger, paths ...string) *Loader {
	v := viper.New()
	setDefaults(v)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	for _, p := range paths {
		v.AddConfigPath(p)
	}
	v.AddConfigPath("/etc/usersvc/")
	v.AddConfigPath(".")

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	return &Loader{v: v, log: log}
}

// Load loads the configuration from file and environment variables.
func (l *Loader) Load() (*Config, error) {
	if err := l.v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, errors.ErrInvalidRequest("failed to read config file").WithCause(err)
		}
		l.log.Info(context.Background(), "No config file found, using defaults and environment")
	}

	var cfg Config
	if err := l.v.Unmarshal(&cfg); err != nil {
		return nil, errors.ErrInvalidRequest("failed to unmarshal config").WithCause(err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// WatchLogLevel applies log.level changes from the config file to the running logger.
func (l *Loader) WatchLogLevel(target logger.Logger) {
	l.v.OnConfigChange(func(e fsnotify.Event) {
		level := constants.LogLevel(l.v.GetString("log.level"))
		target.SetLevel(level)
		l.log.Info(context.Background(), "Config file changed",
			logger.String("file", e.Name),
			logger.String("log_level", string(level)),
		)
	})
	l.v.WatchConfig()
}

// LoadConfig is a convenience wrapper for a one-shot load.
func LoadConfig(log logger.Logger) (*Config, error) {
	return NewLoader(log).Load()
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.grpc_port", 50051)
	v.SetDefault("server.environment", "development")
	v.SetDefault("server.gateway_uri", "http://localhost:8080")
	v.SetDefault("server.read_timeout", "15s")
	v.SetDefault("server.write_timeout", "15s")
	v.SetDefault("server.shutdown_timeout", constants.DefaultShutdownTimeout)
	v.SetDefault("server.allowed_origins", []string{"*"})

	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.user", "postgres")
	v.SetDefault("database.password", "")
	v.SetDefault("database.database", "users")
	v.SetDefault("database.ssl_mode", "disable")
	v.SetDefault("database.max_open_conns", 25)
	v.SetDefault("database.max_idle_conns", 5)
	v.SetDefault("database.conn_max_lifetime", "30m")
	v.SetDefault("database.auto_migrate", true)

	v.SetDefault("redis.address", "localhost:6379")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.pool_size", 10)

	v.SetDefault("kafka.enabled", false)
	v.SetDefault("kafka.brokers", []string{"localhost:9092"})
	v.SetDefault("kafka.verification_topic", "email-verification")
	v.SetDefault("kafka.user_request_topic", "user-request")
	v.SetDefault("kafka.user_reply_topic", "user-reply")
	v.SetDefault("kafka.group_id", "user-service")
	v.SetDefault("kafka.write_timeout", "10s")
	v.SetDefault("kafka.required_acks", -1)

	v.SetDefault("kms.address", "http://127.0.0.1:8200")
	v.SetDefault("kms.token", "")
	v.SetDefault("kms.mount_path", "transit")
	v.SetDefault("kms.key_id", "user-service")
	v.SetDefault("kms.aad_context", "user-service")
	v.SetDefault("kms.timeout", constants.DefaultKMSTimeout)
	v.SetDefault("kms.max_retries", 2)

	v.SetDefault("security.jwt.algorithm", string(constants.AlgorithmHMACSHA256))
	v.SetDefault("security.jwt.ttl", "1h")
	v.SetDefault("security.jwt.signing_key_id", "jwt-signing-key")
	v.SetDefault("security.jwt.key_cache_ttl", "0s")
	v.SetDefault("security.confirmation.ttl", "15m")
	v.SetDefault("security.password.bcrypt_cost", 10)
	v.SetDefault("security.headers.user_id", "X-User-Id")
	v.SetDefault("security.headers.user_role", "X-User-Role")

	v.SetDefault("storage.signing_key_backend", constants.SigningKeyBackendPostgres)

	v.SetDefault("log.level", string(constants.LogLevelInfo))

	v.SetDefault("tracing.enabled", false)
	v.SetDefault("tracing.jaeger_endpoint", "http://localhost:14268/api/traces")
	v.SetDefault("tracing.service_name", "user-service")
	v.SetDefault("tracing.sampling_rate", 1.0)
}
