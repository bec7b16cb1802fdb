package draft

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"sync"
	"time"

	"github.com/sreeramsuresh/steelcore/internal/clock"
	"go.uber.org/zap"
)

// Status describes the manager's current state. Exactly one value holds at
// any instant.
type Status string

const (
	StatusSaved     Status = "saved"
	StatusSaving    Status = "saving"
	StatusUnsaved   Status = "unsaved"
	StatusRecovered Status = "recovered"
)

const (
	// DefaultDebounceInterval is the quiet period before an observed
	// change is flushed to the store.
	DefaultDebounceInterval = 30 * time.Second
	// MinDebounceInterval bounds write frequency; shorter intervals are
	// floored here.
	MinDebounceInterval = 5 * time.Second
)

// Options configure one manager instance.
type Options struct {
	// Enabled gates the whole manager. When false the manager is fully
	// inert: no reads, no writes, no status transitions.
	Enabled bool
	// DebounceInterval is floored to MinDebounceInterval; zero means
	// DefaultDebounceInterval.
	DebounceInterval time.Duration
	// OnRecoverable is invoked at most once, during construction, when a
	// prior-session snapshot exists for the owner key.
	OnRecoverable func(Snapshot)
}

// DefaultOptions returns the enabled defaults.
func DefaultOptions() Options {
	return Options{Enabled: true, DebounceInterval: DefaultDebounceInterval}
}

func (o Options) withDefaults() Options {
	if o.DebounceInterval <= 0 {
		o.DebounceInterval = DefaultDebounceInterval
	}
	if o.DebounceInterval < MinDebounceInterval {
		o.DebounceInterval = MinDebounceInterval
	}
	return o
}

// Manager protects in-progress form edits by snapshotting them to the draft
// store ahead of the authoritative server save. Instances are 1:1 with an
// edited entity; two live managers for the same owner key is a caller bug
// and write ordering between them is undefined.
type Manager struct {
	ownerKey string
	key      string
	store    Store
	clk      clock.Clock
	log      *zap.Logger
	metrics  *Metrics
	opts     Options

	mu          sync.Mutex
	status      Status
	dirty       bool
	observed    bool
	closed      bool
	current     json.RawMessage
	lastSaved   json.RawMessage
	lastSavedAt time.Time
	timer       clock.Timer
}

// NewManager builds a manager bound to ownerKey. When OnRecoverable is set
// and a prior snapshot exists it is surfaced once, before the manager is
// returned.
func NewManager(ctx context.Context, ownerKey string, store Store, clk clock.Clock, log *zap.Logger, metrics *Metrics, opts Options) *Manager {
	if log == nil {
		log = zap.NewNop()
	}
	if clk == nil {
		clk = clock.New()
	}
	opts = opts.withDefaults()

	m := &Manager{
		ownerKey: strings.TrimSpace(ownerKey),
		key:      KeyFor(ownerKey),
		store:    store,
		clk:      clk,
		log:      log.Named("draft").With(zap.String("draft_key", KeyFor(ownerKey))),
		metrics:  metrics,
		opts:     opts,
		status:   StatusSaved,
	}

	if opts.Enabled && opts.OnRecoverable != nil {
		if snap, ok := m.LoadFromStore(ctx); ok {
			opts.OnRecoverable(snap)
		}
	}
	return m
}

// Observe feeds the current form data into the manager. Equality against
// the last-saved snapshot is structural: the data is serialized and the
// bytes compared, so a rebuilt-but-identical object is not a change. Each
// real change marks the manager unsaved and rearms the debounce timer;
// intermediate changes are coalesced, never queued.
func (m *Manager) Observe(data any) error {
	if !m.opts.Enabled {
		return nil
	}
	serialized, err := json.Marshal(data)
	if err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return nil
	}
	if bytes.Equal(serialized, m.lastSaved) {
		if m.dirty {
			// edits reverted to the saved snapshot; drop the pending write
			if m.timer != nil {
				m.timer.Stop()
				m.timer = nil
			}
			m.current = serialized
			m.dirty = false
			m.status = StatusSaved
		}
		return nil
	}
	if m.observed && bytes.Equal(serialized, m.current) && m.dirty {
		// same pending value; the armed timer stands
		return nil
	}

	m.current = serialized
	m.observed = true
	m.dirty = true
	m.status = StatusUnsaved

	if m.timer != nil {
		m.timer.Stop()
	}
	m.timer = m.clk.AfterFunc(m.opts.DebounceInterval, m.debounceFire)
	return nil
}

func (m *Manager) debounceFire() {
	m.mu.Lock()
	m.timer = nil
	if m.closed || !m.dirty {
		m.mu.Unlock()
		return
	}
	m.mu.Unlock()
	m.save(context.Background(), SaveTriggerDebounce)
}

// SaveNow cancels any pending debounce and writes the current data
// immediately. Storage failures are logged and downgrade the status to
// unsaved; a failed draft save must never interrupt the editing flow, so no
// error is returned.
func (m *Manager) SaveNow(ctx context.Context) Status {
	if !m.opts.Enabled {
		return m.Status()
	}
	m.mu.Lock()
	if m.timer != nil {
		m.timer.Stop()
		m.timer = nil
	}
	m.mu.Unlock()
	m.save(ctx, SaveTriggerManual)
	return m.Status()
}

func (m *Manager) save(ctx context.Context, trigger string) {
	m.mu.Lock()
	if !m.observed || (m.closed && trigger != SaveTriggerClose) {
		m.mu.Unlock()
		return
	}
	m.status = StatusSaving
	data := m.current
	m.mu.Unlock()

	snap := Snapshot{
		Data:      data,
		Timestamp: m.clk.Now().UnixMilli(),
		InvoiceID: m.invoiceID(),
		Rev:       newRev(),
	}
	value, err := json.Marshal(snap)
	if err == nil {
		err = m.store.Set(ctx, m.key, value)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if err != nil {
		m.status = StatusUnsaved
		m.metrics.IncSaveError(trigger)
		m.log.Warn("draft save failed", zap.String("trigger", trigger), zap.Error(err))
		return
	}

	m.lastSaved = data
	m.lastSavedAt = m.clk.Now()
	if bytes.Equal(m.current, data) {
		m.dirty = false
		m.status = StatusSaved
	} else {
		// a newer observation arrived mid-write; it still needs saving
		m.status = StatusUnsaved
	}
	m.metrics.IncSave(trigger)
}

// LoadFromStore reads the persisted snapshot without mutating state.
// Unparsable content reads as absent.
func (m *Manager) LoadFromStore(ctx context.Context) (Snapshot, bool) {
	if !m.opts.Enabled {
		return Snapshot{}, false
	}
	value, ok, err := m.store.Get(ctx, m.key)
	if err != nil {
		m.log.Warn("draft read failed", zap.Error(err))
		return Snapshot{}, false
	}
	if !ok {
		return Snapshot{}, false
	}
	return decodeSnapshot(value)
}

// CheckForRecoverableDraft reads the persisted snapshot and, when one
// exists, flips the status to recovered. Intended for startup.
func (m *Manager) CheckForRecoverableDraft(ctx context.Context) (Snapshot, bool) {
	snap, ok := m.LoadFromStore(ctx)
	if !ok {
		return Snapshot{}, false
	}
	m.mu.Lock()
	m.status = StatusRecovered
	m.mu.Unlock()
	m.metrics.IncRecovery()
	return snap, true
}

// ClearDraft deletes the persisted snapshot and resets the manager to a
// clean saved state. Call after the owning entity is durably saved
// server-side.
func (m *Manager) ClearDraft(ctx context.Context) {
	if !m.opts.Enabled {
		return
	}
	if err := m.store.Delete(ctx, m.key); err != nil {
		m.log.Warn("draft clear failed", zap.Error(err))
	}
	m.mu.Lock()
	m.dirty = false
	m.status = StatusSaved
	m.lastSaved = nil
	m.mu.Unlock()
	m.metrics.IncClear()
}

// HasLocalDraft reports whether a snapshot currently exists for the owner.
func (m *Manager) HasLocalDraft(ctx context.Context) bool {
	_, ok := m.LoadFromStore(ctx)
	return ok
}

// Close cancels any pending debounce and, when dirty, makes one best-effort
// flush attempt; the page-unload behavior. The manager is unusable after.
func (m *Manager) Close(ctx context.Context) {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return
	}
	m.closed = true
	if m.timer != nil {
		m.timer.Stop()
		m.timer = nil
	}
	needFlush := m.opts.Enabled && m.dirty && m.observed
	m.mu.Unlock()

	if needFlush {
		m.save(ctx, SaveTriggerClose)
	}
}

// Status returns the current lifecycle state.
func (m *Manager) Status() Status {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.status
}

// Dirty reports whether observed data is newer than the last snapshot.
func (m *Manager) Dirty() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.dirty
}

// LastSavedAt returns the instant of the last successful write, zero if
// none.
func (m *Manager) LastSavedAt() time.Time {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.lastSavedAt
}

// Key returns the derived store key.
func (m *Manager) Key() string {
	return m.key
}

func (m *Manager) invoiceID() string {
	if m.ownerKey == "" {
		return ownerNew
	}
	return m.ownerKey
}
