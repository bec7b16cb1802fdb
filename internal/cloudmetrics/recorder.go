package cloudmetrics

import "sync"

// Recorder receives accounting events from the domain services. The
// package-level functions delegate to a swappable recorder so callers
// never need a handle on CloudMetrics.
type Recorder interface {
	RecordDraftSave(backend string)
	RecordValidationCheck(component, outcome string)
	RecordVerificationCall(country, outcome string)
	RecordEngineError(operation string)
}

type recorder struct {
	metrics *metrics
}

type noopRecorder struct{}

func (noopRecorder) RecordDraftSave(string)               {}
func (noopRecorder) RecordValidationCheck(string, string) {}
func (noopRecorder) RecordVerificationCall(string, string) {
}
func (noopRecorder) RecordEngineError(string) {}

var (
	activeRecorder Recorder = noopRecorder{}
	recorderMu     sync.RWMutex
)

func setRecorder(rec Recorder) {
	if rec == nil {
		return
	}
	recorderMu.Lock()
	activeRecorder = rec
	recorderMu.Unlock()
}

func RecordDraftSave(backend string) {
	recorderMu.RLock()
	rec := activeRecorder
	recorderMu.RUnlock()
	rec.RecordDraftSave(backend)
}

func RecordValidationCheck(component, outcome string) {
	recorderMu.RLock()
	rec := activeRecorder
	recorderMu.RUnlock()
	rec.RecordValidationCheck(component, outcome)
}

func RecordVerificationCall(country, outcome string) {
	recorderMu.RLock()
	rec := activeRecorder
	recorderMu.RUnlock()
	rec.RecordVerificationCall(country, outcome)
}

func RecordEngineError(operation string) {
	recorderMu.RLock()
	rec := activeRecorder
	recorderMu.RUnlock()
	rec.RecordEngineError(operation)
}

func (r *recorder) RecordDraftSave(backend string) {
	if r == nil || r.metrics == nil {
		return
	}
	r.metrics.draftSaves.WithLabelValues(normalizeLabel(backend)).Inc()
}

func (r *recorder) RecordValidationCheck(component, outcome string) {
	if r == nil || r.metrics == nil {
		return
	}
	r.metrics.validationChecks.WithLabelValues(normalizeLabel(component), normalizeLabel(outcome)).Inc()
}

func (r *recorder) RecordVerificationCall(country, outcome string) {
	if r == nil || r.metrics == nil {
		return
	}
	r.metrics.verificationCalls.WithLabelValues(normalizeLabel(country), normalizeLabel(outcome)).Inc()
}

func (r *recorder) RecordEngineError(operation string) {
	if r == nil || r.metrics == nil {
		return
	}
	r.metrics.engineErrors.WithLabelValues(normalizeLabel(operation)).Inc()
}
