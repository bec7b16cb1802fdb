package clock

import "time"

// Clock abstracts wall-clock reads and timer scheduling so debounce
// behavior can be driven deterministically in tests.
type Clock interface {
	Now() time.Time
	// AfterFunc schedules fn to run after d. The returned Timer can be
	// stopped before it fires.
	AfterFunc(d time.Duration, fn func()) Timer
}

// Timer is a cancellable scheduled callback.
type Timer interface {
	// Stop prevents the callback from firing. It reports whether the
	// timer was still pending.
	Stop() bool
}

type realClock struct{}

// New returns a Clock backed by the runtime timer.
func New() Clock {
	return realClock{}
}

func (realClock) Now() time.Time {
	return time.Now().UTC()
}

func (realClock) AfterFunc(d time.Duration, fn func()) Timer {
	return realTimer{t: time.AfterFunc(d, fn)}
}

type realTimer struct {
	t *time.Timer
}

func (r realTimer) Stop() bool {
	return r.t.Stop()
}
