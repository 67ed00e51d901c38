package monitoring

import (
	"bytes"
	"context"
	"encoding/json"
	stderrors "errors"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/usersvc/internal/config"
	"github.com/turtacn/usersvc/pkg/constants"
	"github.com/turtacn/usersvc/pkg/logger"
)

func decodeLines(t *testing.T, buf *bytes.Buffer) []map[string]interface{} {
	t.Helper()
	var out []map[string]interface{}
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		if line == "" {
			continue
		}
		var entry map[string]interface{}
		require.NoError(t, json.Unmarshal([]byte(line), &entry))
		out = append(out, entry)
	}
	return out
}

func TestZapLogger_FieldsAndRedaction(t *testing.T) {
	var buf bytes.Buffer
	l := newZapLogger(&config.LogConfig{Level: "info"}, &buf)

	ctx := context.WithValue(context.Background(), constants.ContextKeyTraceID, "trace-1")
	l.WithComponent("JWTManager").Info(ctx, "token issued",
		logger.String("subject", "jane@example.com"),
		logger.String("token", "eyJhbGciOiJIUzI1NiJ9.payload.sig"),
	)
	l.Error(context.Background(), "kms failed", stderrors.New("boom"))

	entries := decodeLines(t, &buf)
	require.Len(t, entries, 2)
	assert.Equal(t, "token issued", entries[0]["msg"])
	assert.Equal(t, "JWTManager", entries[0]["component"])
	assert.Equal(t, "trace-1", entries[0]["trace_id"])
	assert.Equal(t, "jane@example.com", entries[0]["subject"])
	assert.Equal(t, "eyJh***.sig", entries[0]["token"])
	assert.Contains(t, entries[0], "timestamp")
	assert.Equal(t, "boom", entries[1]["error"])
}

func TestZapLogger_SetLevelAffectsDerivedLoggers(t *testing.T) {
	var buf bytes.Buffer
	l := newZapLogger(&config.LogConfig{Level: "warn"}, &buf)
	child := l.WithComponent("child")

	child.Info(context.Background(), "hidden")
	assert.Empty(t, buf.String())

	l.SetLevel(constants.LogLevelDebug)
	child.Debug(context.Background(), "shown")
	assert.Contains(t, buf.String(), "shown")
}

func TestMetrics_Record(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMetrics(reg)

	m.RecordTokenIssue(true, 5*time.Millisecond)
	m.RecordTokenIssue(false, time.Millisecond)
	m.RecordKMSCall("decrypt", time.Millisecond, nil)
	m.RecordKMSCall("decrypt", time.Millisecond, stderrors.New("down"))
	m.RecordAuthOutcome("authenticated")
	m.RecordKeyCacheAccess(true)
	m.RecordSigningKeyCreated()
	m.RecordConfirmation("confirmed")
	m.RecordTokenValidation("expired")

	assert.Equal(t, 1.0, testutil.ToFloat64(m.TokenIssueRequests.WithLabelValues("success")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.TokenIssueRequests.WithLabelValues("failure")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.KMSCalls.WithLabelValues("decrypt", "failure")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.AuthOutcomes.WithLabelValues("authenticated")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.KeyCacheAccesses.WithLabelValues("hit")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.SigningKeysCreated))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Confirmations.WithLabelValues("confirmed")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.TokenValidations.WithLabelValues("expired")))
}

func TestTracingManager_Disabled(t *testing.T) {
	cfg := &config.Config{Tracing: config.TracingConfig{Enabled: false, ServiceName: "user-service"}}
	tm, err := NewTracingManager(cfg, logger.NewNoopLogger())
	require.NoError(t, err)

	ctx, span := tm.StartSpan(context.Background(), "op")
	span.End()
	assert.Equal(t, "", TraceID(ctx))
	assert.NoError(t, tm.Shutdown(context.Background()))
}
