package service

import "time"

// Metrics defines the interface for collecting business metrics.
// The application layer stays independent of the monitoring backend.
type Metrics interface {
	// RecordTokenIssue records a token issuance attempt.
	RecordTokenIssue(success bool, duration time.Duration)

	// RecordTokenValidation records the outcome of a token check ("valid", "mismatch", "expired", "invalid").
	RecordTokenValidation(result string)

	// RecordAuthOutcome records which path the authentication filter took.
	RecordAuthOutcome(outcome string)

	// RecordKMSCall records the latency and error status of a KMS call.
	RecordKMSCall(operation string, duration time.Duration, err error)

	// RecordSigningKeyCreated records that this process created the signing key.
	RecordSigningKeyCreated()

	// RecordKeyCacheAccess records a decrypted key cache hit or miss.
	RecordKeyCacheAccess(hit bool)

	// RecordConfirmation records the outcome of a confirmation attempt.
	RecordConfirmation(result string)
}

// NoopMetrics discards everything.
type NoopMetrics struct{}

func (NoopMetrics) RecordTokenIssue(bool, time.Duration)       {}
func (NoopMetrics) RecordTokenValidation(string)               {}
func (NoopMetrics) RecordAuthOutcome(string)                   {}
func (NoopMetrics) RecordKMSCall(string, time.Duration, error) {}
func (NoopMetrics) RecordSigningKeyCreated()                   {}
func (NoopMetrics) RecordKeyCacheAccess(bool)                  {}
func (NoopMetrics) RecordConfirmation(string)                  {}
