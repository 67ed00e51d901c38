// Package constants defines system-wide constants for the user service.
// This package provides type-safe constant definitions used across all modules.
package constants

import "time"

// ================================================================================
// Authentication Constants
// ================================================================================

const (
	// HeaderAuthorization is the HTTP header (and gRPC metadata key, lower-cased) carrying bearer tokens
	HeaderAuthorization = "Authorization"

	// BearerPrefix is the literal scheme prefix a bearer credential must start with
	BearerPrefix = "Bearer "

	// HeaderRequestID carries the request correlation id
	HeaderRequestID = "X-Request-ID"

	// ConfirmationSuccessMessage is returned once an email has been confirmed
	ConfirmationSuccessMessage = "Email verified successfully"
)

// ================================================================================
// Signing Algorithm Constants
// ================================================================================

// SigningAlgorithm names a symmetric algorithm used to generate and apply the token signing key
type SigningAlgorithm string

const (
	// AlgorithmHMACSHA256 is HMAC with SHA-256, a 256-bit key
	AlgorithmHMACSHA256 SigningAlgorithm = "HMAC-SHA256"

	// AlgorithmHMACSHA384 is HMAC with SHA-384, a 384-bit key
	AlgorithmHMACSHA384 SigningAlgorithm = "HMAC-SHA384"

	// AlgorithmHMACSHA512 is HMAC with SHA-512, a 512-bit key
	AlgorithmHMACSHA512 SigningAlgorithm = "HMAC-SHA512"
)

// ================================================================================
// Storage Constants
// ================================================================================

const (
	// SigningKeyBackendPostgres keeps the signing key in the relational store
	SigningKeyBackendPostgres = "postgres"

	// SigningKeyBackendRedis keeps the signing key in redis
	SigningKeyBackendRedis = "redis"
)

// ================================================================================
// Timeouts
// ================================================================================

const (
	// DefaultKMSTimeout bounds a single encrypt/decrypt round trip
	DefaultKMSTimeout = 10 * time.Second

	// DefaultShutdownTimeout is the graceful shutdown timeout (30 seconds)
	DefaultShutdownTimeout = 30 * time.Second
)

// ================================================================================
// Logging Constants
// ================================================================================

// LogLevel represents the severity level of log messages
type LogLevel string

const (
	// LogLevelDebug is the most verbose logging level
	LogLevelDebug LogLevel = "debug"

	// LogLevelInfo is the standard informational logging level
	LogLevelInfo LogLevel = "info"

	// LogLevelWarn indicates potential issues
	LogLevelWarn LogLevel = "warn"

	// LogLevelError indicates errors that need attention
	LogLevelError LogLevel = "error"
)

// ================================================================================
// Context Keys
// ================================================================================

// ContextKey represents keys used in context.Context
type ContextKey string

const (
	// ContextKeyRequestID is the key for request ID in context
	ContextKeyRequestID ContextKey = "request_id"

	// ContextKeyTraceID is the key for distributed trace ID in context
	ContextKeyTraceID ContextKey = "trace_id"

	// ContextKeyIdentity is the key for the authenticated identity of the current request
	ContextKeyIdentity ContextKey = "identity"
)
