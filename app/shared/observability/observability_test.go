package observability

import (
	"bytes"
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, ParseLevel("DEBUG"))
	assert.Equal(t, slog.LevelWarn, ParseLevel("warning"))
	assert.Equal(t, slog.LevelError, ParseLevel("error"))
	assert.Equal(t, slog.LevelInfo, ParseLevel(""))
}

func TestNewLoggerJSON(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(&buf, "json", "warn")
	logger.Info("hidden")
	logger.Warn("shown", slog.String("guild_id", "g1"))

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, `"msg":"shown"`)
	assert.Contains(t, out, `"guild_id":"g1"`)
}

func TestPrometheusMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	m, err := NewPrometheusMetrics(reg)
	require.NoError(t, err)

	ctx := context.Background()
	m.RecordOperationAttempt(ctx, "Transfer", "TransferService")
	m.RecordOperationAttempt(ctx, "Transfer", "TransferService")
	m.RecordOperationFailure(ctx, "Transfer", "TransferService")
	m.RecordOperationDuration(ctx, "Transfer", "TransferService", 20*time.Millisecond)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.attempts.WithLabelValues("Transfer", "TransferService")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.failure.WithLabelValues("Transfer", "TransferService")))
	assert.Equal(t, 0.0, testutil.ToFloat64(m.success.WithLabelValues("Transfer", "TransferService")))

	_, err = NewPrometheusMetrics(reg)
	assert.Error(t, err, "registering twice should fail")
}

func TestInit(t *testing.T) {
	var buf bytes.Buffer
	obs, err := Init(Config{LogFormat: "json", MetricsEnabled: true, Output: &buf, Environment: "test"})
	require.NoError(t, err)

	obs.Provider.Logger.Info("hello")
	assert.Contains(t, buf.String(), `"service":"league-bot"`)
	assert.IsType(t, &PrometheusMetrics{}, obs.Registry.Metrics)
	assert.NotNil(t, obs.Registry.Tracer)
}
