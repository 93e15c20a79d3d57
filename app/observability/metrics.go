// Package observability builds the Prometheus registry, module metrics and
// tracers shared by the server.
package observability

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
)

const namespace = "scorekeeper"

// NewRegistry returns a registry with the Go runtime and process collectors.
func NewRegistry() *prometheus.Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return reg
}

// Tracer returns the global tracer for a module.
func Tracer(module string) trace.Tracer {
	return otel.Tracer(namespace + "/" + module)
}

// OperationMetrics records service operation outcomes.
type OperationMetrics interface {
	RecordOperationAttempt(ctx context.Context, operation string)
	RecordOperationSuccess(ctx context.Context, operation string)
	RecordOperationFailure(ctx context.Context, operation string)
	RecordOperationDuration(ctx context.Context, operation string, d time.Duration)
}

// ScoreMetrics adds import counters to OperationMetrics.
type ScoreMetrics interface {
	OperationMetrics
	RecordImportedScores(ctx context.Context, imported, rejected int)
	RecordUploadPreview(ctx context.Context, valid, invalid int)
}

// LeaderboardMetrics adds cache counters to OperationMetrics.
type LeaderboardMetrics interface {
	OperationMetrics
	RecordCacheHit(ctx context.Context, board string)
	RecordCacheMiss(ctx context.Context, board string)
	RecordCacheInvalidation(ctx context.Context)
}

type operationMetrics struct {
	attempts *prometheus.CounterVec
	outcomes *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

func newOperationMetrics(reg prometheus.Registerer, subsystem string) *operationMetrics {
	m := &operationMetrics{
		attempts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "operation_attempts_total",
			Help:      "Service operations started.",
		}, []string{"operation"}),
		outcomes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "operation_results_total",
			Help:      "Service operations finished, by result.",
		}, []string{"operation", "result"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "operation_duration_seconds",
			Help:      "Service operation latency.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"operation"}),
	}
	reg.MustRegister(m.attempts, m.outcomes, m.duration)
	return m
}

func (m *operationMetrics) RecordOperationAttempt(_ context.Context, operation string) {
	m.attempts.WithLabelValues(operation).Inc()
}

func (m *operationMetrics) RecordOperationSuccess(_ context.Context, operation string) {
	m.outcomes.WithLabelValues(operation, "success").Inc()
}

func (m *operationMetrics) RecordOperationFailure(_ context.Context, operation string) {
	m.outcomes.WithLabelValues(operation, "failure").Inc()
}

func (m *operationMetrics) RecordOperationDuration(_ context.Context, operation string, d time.Duration) {
	m.duration.WithLabelValues(operation).Observe(d.Seconds())
}

type scoreMetrics struct {
	*operationMetrics
	records *prometheus.CounterVec
	preview *prometheus.CounterVec
}

// NewScoreMetrics registers the score module metrics on reg.
func NewScoreMetrics(reg prometheus.Registerer) ScoreMetrics {
	m := &scoreMetrics{
		operationMetrics: newOperationMetrics(reg, "score"),
		records: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "score",
			Name:      "imported_records_total",
			Help:      "Records received by the import endpoint, by outcome.",
		}, []string{"outcome"}),
		preview: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "score",
			Name:      "previewed_records_total",
			Help:      "Records read from uploaded files, by validity.",
		}, []string{"validity"}),
	}
	reg.MustRegister(m.records, m.preview)
	return m
}

func (m *scoreMetrics) RecordImportedScores(_ context.Context, imported, rejected int) {
	m.records.WithLabelValues("imported").Add(float64(imported))
	m.records.WithLabelValues("rejected").Add(float64(rejected))
}

func (m *scoreMetrics) RecordUploadPreview(_ context.Context, valid, invalid int) {
	m.preview.WithLabelValues("valid").Add(float64(valid))
	m.preview.WithLabelValues("invalid").Add(float64(invalid))
}

type leaderboardMetrics struct {
	*operationMetrics
	cache         *prometheus.CounterVec
	invalidations prometheus.Counter
}

// NewLeaderboardMetrics registers the leaderboard module metrics on reg.
func NewLeaderboardMetrics(reg prometheus.Registerer) LeaderboardMetrics {
	m := &leaderboardMetrics{
		operationMetrics: newOperationMetrics(reg, "leaderboard"),
		cache: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "leaderboard",
			Name:      "cache_lookups_total",
			Help:      "Leaderboard cache lookups, by board and result.",
		}, []string{"board", "result"}),
		invalidations: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "leaderboard",
			Name:      "cache_invalidations_total",
			Help:      "Leaderboard cache flushes caused by score changes.",
		}),
	}
	reg.MustRegister(m.cache, m.invalidations)
	return m
}

func (m *leaderboardMetrics) RecordCacheHit(_ context.Context, board string) {
	m.cache.WithLabelValues(board, "hit").Inc()
}

func (m *leaderboardMetrics) RecordCacheMiss(_ context.Context, board string) {
	m.cache.WithLabelValues(board, "miss").Inc()
}

func (m *leaderboardMetrics) RecordCacheInvalidation(context.Context) {
	m.invalidations.Inc()
}
