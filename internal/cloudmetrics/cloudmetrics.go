package cloudmetrics

import (
	"context"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
)

type metrics struct {
	draftSaves        *prometheus.CounterVec
	validationChecks  *prometheus.CounterVec
	verificationCalls *prometheus.CounterVec
	engineErrors      *prometheus.CounterVec
	draftSnapshots    prometheus.Gauge
	memoryBytes       prometheus.Gauge
}

func newMetrics(registry *prometheus.Registry) *metrics {
	m := &metrics{
		draftSaves: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "steelcore_cloud_draft_saves_total",
			Help: "Draft snapshot saves by backend.",
		}, []string{"backend"}),
		validationChecks: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "steelcore_cloud_validation_checks_total",
			Help: "Validation checks by component and outcome.",
		}, []string{"component", "outcome"}),
		verificationCalls: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "steelcore_cloud_trn_verifications_total",
			Help: "External TRN verification calls by country and outcome.",
		}, []string{"country", "outcome"}),
		engineErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "steelcore_cloud_engine_errors_total",
			Help: "Internal errors by operation.",
		}, []string{"operation"}),
		draftSnapshots: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "steelcore_cloud_draft_snapshots",
			Help: "Draft snapshots currently persisted.",
		}),
		memoryBytes: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "steelcore_cloud_memory_bytes",
			Help: "Process memory obtained from the OS.",
		}),
	}

	if registry != nil {
		registry.MustRegister(
			m.draftSaves,
			m.validationChecks,
			m.verificationCalls,
			m.engineErrors,
			m.draftSnapshots,
			m.memoryBytes,
		)
	}
	return m
}

// CloudMetrics aggregates accounting counters and pushes them upstream.
type CloudMetrics struct {
	registry *prometheus.Registry
	pusher   Pusher
	metrics  *metrics
	logger   *zap.Logger
}

// New wires the accounting registry. A nil registry allocates a private one.
func New(registry *prometheus.Registry, pusher Pusher, logger *zap.Logger) *CloudMetrics {
	if registry == nil {
		registry = prometheus.NewRegistry()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	c := &CloudMetrics{
		registry: registry,
		pusher:   pusher,
		metrics:  newMetrics(registry),
		logger:   logger,
	}
	setRecorder(&recorder{metrics: c.metrics})
	return c
}

// Push sends the current accounting counters to the control plane.
func (c *CloudMetrics) Push(ctx context.Context) error {
	if c == nil || c.pusher == nil {
		return nil
	}
	return c.pusher.Push(ctx, c.registry)
}

// SetMemoryUsage records process memory for capacity accounting.
func (c *CloudMetrics) SetMemoryUsage(bytes uint64) {
	if c == nil || c.metrics == nil {
		return
	}
	c.metrics.memoryBytes.Set(float64(bytes))
}

// SetDraftSnapshotsTotal records how many drafts are persisted.
func (c *CloudMetrics) SetDraftSnapshotsTotal(count int64) {
	if c == nil || c.metrics == nil {
		return
	}
	if count < 0 {
		count = 0
	}
	c.metrics.draftSnapshots.Set(float64(count))
}

func normalizeLabel(value string) string {
	value = strings.TrimSpace(value)
	if value == "" {
		return "unknown"
	}
	return value
}
