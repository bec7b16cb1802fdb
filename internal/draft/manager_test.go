package draft

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/sreeramsuresh/steelcore/internal/clock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

var testBase = time.Date(2026, 1, 2, 9, 0, 0, 0, time.UTC)

type managerFixture struct {
	store *MemoryStore
	clk   *clock.FakeClock
}

func newFixture() *managerFixture {
	return &managerFixture{
		store: NewMemoryStore(),
		clk:   clock.NewFakeClock(testBase),
	}
}

func (f *managerFixture) manager(ownerKey string, opts Options) *Manager {
	return NewManager(context.Background(), ownerKey, f.store, f.clk, zap.NewNop(), nil, opts)
}

type invoiceForm struct {
	Customer string `json:"customer"`
	Amount   int    `json:"amount,omitempty"`
}

func TestSaveNowPersistsSnapshot(t *testing.T) {
	f := newFixture()
	m := f.manager("123", DefaultOptions())

	require.NoError(t, m.Observe(invoiceForm{Customer: "Test"}))
	assert.Equal(t, StatusUnsaved, m.Status())
	assert.True(t, m.Dirty())

	status := m.SaveNow(context.Background())
	assert.Equal(t, StatusSaved, status)
	assert.False(t, m.Dirty())
	assert.Equal(t, testBase, m.LastSavedAt())

	raw, ok, err := f.store.Get(context.Background(), "invoice_draft_123")
	require.NoError(t, err)
	require.True(t, ok)

	var snap Snapshot
	require.NoError(t, json.Unmarshal(raw, &snap))
	assert.Equal(t, "123", snap.InvoiceID)
	assert.Equal(t, testBase.UnixMilli(), snap.Timestamp)
	assert.NotEmpty(t, snap.Rev)
	assert.JSONEq(t, `{"customer":"Test"}`, string(snap.Data))
}

func TestNewOwnerUsesSentinelKey(t *testing.T) {
	f := newFixture()
	m := f.manager("", DefaultOptions())
	require.NoError(t, m.Observe(invoiceForm{Customer: "draft"}))
	m.SaveNow(context.Background())

	_, ok, err := f.store.Get(context.Background(), "invoice_draft_new")
	require.NoError(t, err)
	assert.True(t, ok)

	snap, found := m.LoadFromStore(context.Background())
	require.True(t, found)
	assert.Equal(t, "new", snap.InvoiceID)
}

func TestDebounceFlushesAfterQuietPeriod(t *testing.T) {
	f := newFixture()
	m := f.manager("42", DefaultOptions())

	require.NoError(t, m.Observe(invoiceForm{Customer: "A"}))
	f.clk.Advance(29 * time.Second)
	assert.Equal(t, StatusUnsaved, m.Status())
	assert.Zero(t, f.store.Len())

	f.clk.Advance(time.Second)
	assert.Equal(t, StatusSaved, m.Status())
	assert.False(t, m.Dirty())
	assert.Equal(t, 1, f.store.Len())
}

func TestDebounceCoalescesIntermediateChanges(t *testing.T) {
	f := newFixture()
	m := f.manager("42", DefaultOptions())

	require.NoError(t, m.Observe(invoiceForm{Customer: "A"}))
	f.clk.Advance(20 * time.Second)
	require.NoError(t, m.Observe(invoiceForm{Customer: "AB"}))
	f.clk.Advance(20 * time.Second)
	// second observation rearmed the timer; 20s of quiet is not enough
	assert.Zero(t, f.store.Len())

	f.clk.Advance(10 * time.Second)
	require.Equal(t, 1, f.store.Len())

	snap, ok := m.LoadFromStore(context.Background())
	require.True(t, ok)
	// only the most recent observation was written
	assert.JSONEq(t, `{"customer":"AB"}`, string(snap.Data))
}

func TestRevertToSavedValueDropsPendingWrite(t *testing.T) {
	f := newFixture()
	m := f.manager("42", DefaultOptions())

	require.NoError(t, m.Observe(invoiceForm{Customer: "A"}))
	m.SaveNow(context.Background())
	require.Equal(t, StatusSaved, m.Status())

	// edit then undo back to the saved value before the debounce fires
	require.NoError(t, m.Observe(invoiceForm{Customer: "B"}))
	require.Equal(t, StatusUnsaved, m.Status())
	require.NoError(t, m.Observe(invoiceForm{Customer: "A"}))
	assert.Equal(t, StatusSaved, m.Status())
	assert.False(t, m.Dirty())

	// the intermediate value must never reach the store
	f.clk.Advance(time.Minute)
	snap, ok := m.LoadFromStore(context.Background())
	require.True(t, ok)
	assert.JSONEq(t, `{"customer":"A"}`, string(snap.Data))
}

func TestDebounceIntervalFloor(t *testing.T) {
	f := newFixture()
	m := f.manager("42", Options{Enabled: true, DebounceInterval: time.Second})

	require.NoError(t, m.Observe(invoiceForm{Customer: "A"}))
	f.clk.Advance(4 * time.Second)
	assert.Zero(t, f.store.Len())
	f.clk.Advance(time.Second)
	assert.Equal(t, 1, f.store.Len())
}

func TestObserveEqualDataIsNotAChange(t *testing.T) {
	f := newFixture()
	m := f.manager("42", DefaultOptions())

	require.NoError(t, m.Observe(invoiceForm{Customer: "A"}))
	m.SaveNow(context.Background())
	require.Equal(t, StatusSaved, m.Status())

	// structurally equal value: no transition, no timer
	require.NoError(t, m.Observe(invoiceForm{Customer: "A"}))
	assert.Equal(t, StatusSaved, m.Status())
	assert.False(t, m.Dirty())
	f.clk.Advance(time.Minute)
	assert.Equal(t, 1, f.store.Len())
}

func TestDisabledManagerIsInert(t *testing.T) {
	f := newFixture()
	m := f.manager("42", Options{Enabled: false})

	require.NoError(t, m.Observe(invoiceForm{Customer: "A"}))
	m.SaveNow(context.Background())
	f.clk.Advance(time.Minute)
	m.ClearDraft(context.Background())

	assert.Equal(t, StatusSaved, m.Status())
	assert.False(t, m.Dirty())
	assert.Zero(t, f.store.Len())

	_, ok := m.LoadFromStore(context.Background())
	assert.False(t, ok)
}

func TestClearDraftRemovesSnapshot(t *testing.T) {
	f := newFixture()
	m := f.manager("123", DefaultOptions())

	require.NoError(t, m.Observe(invoiceForm{Customer: "Test"}))
	m.SaveNow(context.Background())
	require.True(t, m.HasLocalDraft(context.Background()))

	m.ClearDraft(context.Background())
	assert.False(t, m.HasLocalDraft(context.Background()))
	assert.Equal(t, StatusSaved, m.Status())
	assert.False(t, m.Dirty())

	// the same data is a change again after a clear
	require.NoError(t, m.Observe(invoiceForm{Customer: "Test"}))
	assert.Equal(t, StatusUnsaved, m.Status())
}

func TestCheckForRecoverableDraft(t *testing.T) {
	f := newFixture()
	first := f.manager("7", DefaultOptions())
	require.NoError(t, first.Observe(invoiceForm{Customer: "crashed"}))
	first.SaveNow(context.Background())

	second := f.manager("7", DefaultOptions())
	snap, ok := second.CheckForRecoverableDraft(context.Background())
	require.True(t, ok)
	assert.Equal(t, StatusRecovered, second.Status())
	assert.JSONEq(t, `{"customer":"crashed"}`, string(snap.Data))
}

func TestOnRecoverableInvokedOnceAtInit(t *testing.T) {
	f := newFixture()
	first := f.manager("7", DefaultOptions())
	require.NoError(t, first.Observe(invoiceForm{Customer: "crashed"}))
	first.SaveNow(context.Background())

	var calls int
	var got Snapshot
	opts := DefaultOptions()
	opts.OnRecoverable = func(s Snapshot) {
		calls++
		got = s
	}
	m := f.manager("7", opts)
	assert.Equal(t, 1, calls)
	assert.JSONEq(t, `{"customer":"crashed"}`, string(got.Data))
	// surfacing alone does not flip status; that is CheckForRecoverableDraft
	assert.Equal(t, StatusSaved, m.Status())

	// no snapshot, no callback
	calls = 0
	_ = NewManager(context.Background(), "absent", f.store, f.clk, zap.NewNop(), nil, opts)
	assert.Zero(t, calls)
}

func TestUnparsableSnapshotReadsAsAbsent(t *testing.T) {
	f := newFixture()
	require.NoError(t, f.store.Set(context.Background(), "invoice_draft_9", []byte("{not json")))

	m := f.manager("9", DefaultOptions())
	_, ok := m.LoadFromStore(context.Background())
	assert.False(t, ok)
	assert.False(t, m.HasLocalDraft(context.Background()))
}

type failingStore struct{ inner *MemoryStore }

func (s *failingStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	return s.inner.Get(ctx, key)
}

func (s *failingStore) Set(context.Context, string, []byte) error {
	return errors.New("quota exceeded")
}

func (s *failingStore) Delete(ctx context.Context, key string) error {
	return s.inner.Delete(ctx, key)
}

func TestStorageFailureDowngradesToUnsaved(t *testing.T) {
	clk := clock.NewFakeClock(testBase)
	m := NewManager(context.Background(), "1", &failingStore{inner: NewMemoryStore()}, clk, zap.NewNop(), nil, DefaultOptions())

	require.NoError(t, m.Observe(invoiceForm{Customer: "x"}))
	status := m.SaveNow(context.Background())
	assert.Equal(t, StatusUnsaved, status)
	assert.True(t, m.Dirty())
	assert.True(t, m.LastSavedAt().IsZero())
}

func TestCloseFlushesDirtyState(t *testing.T) {
	f := newFixture()
	m := f.manager("55", DefaultOptions())

	require.NoError(t, m.Observe(invoiceForm{Customer: "leaving"}))
	m.Close(context.Background())
	assert.Equal(t, 1, f.store.Len())

	// pending timer was cancelled; nothing further happens
	f.clk.Advance(time.Minute)
	assert.Equal(t, 1, f.store.Len())

	// closed managers ignore new observations
	require.NoError(t, m.Observe(invoiceForm{Customer: "late"}))
	f.clk.Advance(time.Minute)
	snap, ok := m.LoadFromStore(context.Background())
	require.True(t, ok)
	assert.JSONEq(t, `{"customer":"leaving"}`, string(snap.Data))
}

func TestLastWriteWinsPerOwner(t *testing.T) {
	f := newFixture()
	m := f.manager("123", DefaultOptions())

	require.NoError(t, m.Observe(invoiceForm{Customer: "v1"}))
	m.SaveNow(context.Background())
	require.NoError(t, m.Observe(invoiceForm{Customer: "v2"}))
	m.SaveNow(context.Background())

	assert.Equal(t, 1, f.store.Len())
	snap, ok := m.LoadFromStore(context.Background())
	require.True(t, ok)
	assert.JSONEq(t, `{"customer":"v2"}`, string(snap.Data))
}

func TestKeyFor(t *testing.T) {
	assert.Equal(t, "invoice_draft_123", KeyFor("123"))
	assert.Equal(t, "invoice_draft_new", KeyFor(""))
	assert.Equal(t, "invoice_draft_new", KeyFor("   "))
	// free-form owner keys are slugged into safe key material
	assert.Equal(t, "invoice_draft_inv-2026-001", KeyFor("INV 2026/001"))
}
