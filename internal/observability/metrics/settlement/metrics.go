// Package settlementmetrics records operation-level metrics for the
// settlement services.
package settlementmetrics

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// SettlementMetrics is the metrics contract shared by every module service.
type SettlementMetrics interface {
	RecordOperationAttempt(ctx context.Context, operation, service string)
	RecordOperationSuccess(ctx context.Context, operation, service string)
	RecordOperationFailure(ctx context.Context, operation, service string)
	RecordOperationDuration(ctx context.Context, operation, service string, duration time.Duration)
}

type promMetrics struct {
	operations *prometheus.CounterVec
	durations  *prometheus.HistogramVec
}

// NewPrometheus creates prometheus-backed metrics registered on reg.
func NewPrometheus(reg prometheus.Registerer) SettlementMetrics {
	m := &promMetrics{
		operations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "rounds_service",
			Name:      "operations_total",
			Help:      "Settlement operations by operation, service, and outcome.",
		}, []string{"operation", "service", "outcome"}),
		durations: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "rounds_service",
			Name:      "operation_duration_seconds",
			Help:      "Settlement operation duration.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"operation", "service"}),
	}
	reg.MustRegister(m.operations, m.durations)
	return m
}

func (m *promMetrics) RecordOperationAttempt(_ context.Context, operation, service string) {
	m.operations.WithLabelValues(operation, service, "attempt").Inc()
}

func (m *promMetrics) RecordOperationSuccess(_ context.Context, operation, service string) {
	m.operations.WithLabelValues(operation, service, "success").Inc()
}

func (m *promMetrics) RecordOperationFailure(_ context.Context, operation, service string) {
	m.operations.WithLabelValues(operation, service, "failure").Inc()
}

func (m *promMetrics) RecordOperationDuration(_ context.Context, operation, service string, duration time.Duration) {
	m.durations.WithLabelValues(operation, service).Observe(duration.Seconds())
}

type noopMetrics struct{}

// NewNoop creates a metrics implementation that records nothing. Used in
// tests and as the default when no registry is wired.
func NewNoop() SettlementMetrics { return noopMetrics{} }

func (noopMetrics) RecordOperationAttempt(context.Context, string, string)                {}
func (noopMetrics) RecordOperationSuccess(context.Context, string, string)                {}
func (noopMetrics) RecordOperationFailure(context.Context, string, string)                {}
func (noopMetrics) RecordOperationDuration(context.Context, string, string, time.Duration) {}
