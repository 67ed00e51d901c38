package monitoring

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	domainService "github.com/turtacn/usersvc/internal/domain/service"
)

var _ domainService.Metrics = (*Metrics)(nil)

// Metrics manages the Prometheus metrics.
type Metrics struct {
	TokenIssueRequests *prometheus.CounterVec
	TokenIssueLatency  prometheus.Histogram
	TokenValidations   *prometheus.CounterVec
	AuthOutcomes       *prometheus.CounterVec
	KMSCalls           *prometheus.CounterVec
	KMSLatency         *prometheus.HistogramVec
	SigningKeysCreated prometheus.Counter
	KeyCacheAccesses   *prometheus.CounterVec
	Confirmations      *prometheus.CounterVec
}

// NewMetrics creates the metrics and registers them with reg. A nil reg means the default
// registerer.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	factory := promauto.With(reg)

	return &Metrics{
		TokenIssueRequests: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "usersvc_token_issue_requests_total",
				Help: "Total number of bearer token issue requests.",
			},
			[]string{"result"},
		),
		TokenIssueLatency: factory.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "usersvc_token_issue_latency_seconds",
				Help:    "Latency of bearer token issuance including key retrieval.",
				Buckets: prometheus.DefBuckets,
			},
		),
		TokenValidations: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "usersvc_token_validations_total",
				Help: "Bearer token checks by result.",
			},
			[]string{"result"},
		),
		AuthOutcomes: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "usersvc_auth_outcomes_total",
				Help: "Authentication filter outcomes.",
			},
			[]string{"outcome"},
		),
		KMSCalls: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "usersvc_kms_calls_total",
				Help: "KMS calls by operation and result.",
			},
			[]string{"operation", "result"},
		),
		KMSLatency: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "usersvc_kms_latency_seconds",
				Help:    "Latency of KMS calls.",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation"},
		),
		SigningKeysCreated: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "usersvc_signing_keys_created_total",
				Help: "Signing keys created by this process.",
			},
		),
		KeyCacheAccesses: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "usersvc_key_cache_accesses_total",
				Help: "Decrypted signing key cache lookups.",
			},
			[]string{"result"},
		),
		Confirmations: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "usersvc_confirmations_total",
				Help: "Email confirmation attempts by result.",
			},
			[]string{"result"},
		),
	}
}

// RecordTokenIssue records metrics for a token issue event.
func (m *Metrics) RecordTokenIssue(success bool, duration time.Duration) {
	m.TokenIssueRequests.WithLabelValues(resultLabel(success)).Inc()
	m.TokenIssueLatency.Observe(duration.Seconds())
}

func (m *Metrics) RecordTokenValidation(result string) {
	m.TokenValidations.WithLabelValues(result).Inc()
}

func (m *Metrics) RecordAuthOutcome(outcome string) {
	m.AuthOutcomes.WithLabelValues(outcome).Inc()
}

// RecordKMSCall records a KMS call and its latency.
func (m *Metrics) RecordKMSCall(operation string, duration time.Duration, err error) {
	m.KMSCalls.WithLabelValues(operation, resultLabel(err == nil)).Inc()
	m.KMSLatency.WithLabelValues(operation).Observe(duration.Seconds())
}

func (m *Metrics) RecordSigningKeyCreated() {
	m.SigningKeysCreated.Inc()
}

func (m *Metrics) RecordKeyCacheAccess(hit bool) {
	result := "miss"
	if hit {
		result = "hit"
	}
	m.KeyCacheAccesses.WithLabelValues(result).Inc()
}

func (m *Metrics) RecordConfirmation(result string) {
	m.Confirmations.WithLabelValues(result).Inc()
}

func resultLabel(success bool) string {
	if success {
		return "success"
	}
	return "failure"
}
