// Package observability bundles the logger, tracer and metrics handed to every module.
package observability

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
)

// Config selects log output and whether Prometheus collectors are registered.
type Config struct {
	ServiceName    string
	Environment    string
	LogLevel       string
	LogFormat      string
	MetricsEnabled bool
	Output         io.Writer
}

// Provider owns process level sinks.
type Provider struct {
	Logger     *slog.Logger
	Prometheus *prometheus.Registry
}

// Registry holds instruments modules use directly.
type Registry struct {
	Tracer  trace.Tracer
	Metrics OperationMetrics
}

// Observability is passed to module constructors.
type Observability struct {
	Provider *Provider
	Registry *Registry
}

// Init builds logging, tracing and metrics from cfg.
func Init(cfg Config) (Observability, error) {
	if cfg.ServiceName == "" {
		cfg.ServiceName = "league-bot"
	}
	logger := NewLogger(cfg.Output, cfg.LogFormat, cfg.LogLevel).With(
		slog.String("service", cfg.ServiceName),
		slog.String("environment", cfg.Environment),
	)

	promReg := prometheus.NewRegistry()
	var metrics OperationMetrics = NewNoop()
	if cfg.MetricsEnabled {
		promReg.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
		pm, err := NewPrometheusMetrics(promReg)
		if err != nil {
			return Observability{}, fmt.Errorf("failed to register metrics: %w", err)
		}
		metrics = pm
	}

	return Observability{
		Provider: &Provider{Logger: logger, Prometheus: promReg},
		Registry: &Registry{
			Tracer:  otel.Tracer(cfg.ServiceName),
			Metrics: metrics,
		},
	}, nil
}

// NewNop returns an Observability that discards logs, spans and metrics.
func NewNop() Observability {
	return Observability{
		Provider: &Provider{
			Logger:     slog.New(slog.NewTextHandler(io.Discard, nil)),
			Prometheus: prometheus.NewRegistry(),
		},
		Registry: &Registry{
			Tracer:  noop.NewTracerProvider().Tracer("test"),
			Metrics: NewNoop(),
		},
	}
}
