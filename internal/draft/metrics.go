package draft

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	SaveTriggerDebounce = "debounce"
	SaveTriggerManual   = "manual"
	SaveTriggerClose    = "close"
)

// Metrics captures draft lifecycle health signals. Counters live on the
// default registry and are served from /metrics alongside the HTTP
// instruments.
type Metrics struct {
	saves      *prometheus.CounterVec
	saveErrors *prometheus.CounterVec
	recoveries prometheus.Counter
	clears     prometheus.Counter
}

var (
	metricsOnce sync.Once
	metricsInst *Metrics
)

// SharedMetrics returns the process-wide draft metrics, registering them on
// first use.
func SharedMetrics() *Metrics {
	metricsOnce.Do(func() {
		metricsInst = newMetrics(prometheus.DefaultRegisterer)
	})
	return metricsInst
}

// ResetMetricsForTest clears the shared instance so tests can swap the
// default registry.
func ResetMetricsForTest() {
	metricsOnce = sync.Once{}
	metricsInst = nil
}

func newMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		saves: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "steelcore_draft_saves_total",
			Help: "Draft snapshot writes by trigger.",
		}, []string{"trigger"}),
		saveErrors: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "steelcore_draft_save_errors_total",
			Help: "Draft snapshot writes that failed at the store.",
		}, []string{"trigger"}),
		recoveries: factory.NewCounter(prometheus.CounterOpts{
			Name: "steelcore_draft_recoveries_total",
			Help: "Drafts surfaced for recovery at manager startup.",
		}),
		clears: factory.NewCounter(prometheus.CounterOpts{
			Name: "steelcore_draft_clears_total",
			Help: "Drafts cleared after an authoritative save.",
		}),
	}
}

func (m *Metrics) IncSave(trigger string) {
	if m == nil {
		return
	}
	m.saves.WithLabelValues(trigger).Inc()
}

func (m *Metrics) IncSaveError(trigger string) {
	if m == nil {
		return
	}
	m.saveErrors.WithLabelValues(trigger).Inc()
}

func (m *Metrics) IncRecovery() {
	if m == nil {
		return
	}
	m.recoveries.Inc()
}

func (m *Metrics) IncClear() {
	if m == nil {
		return
	}
	m.clears.Inc()
}
