package draft

import (
	"encoding/json"
	"strings"

	"github.com/gosimple/slug"
	"github.com/oklog/ulid/v2"
)

const (
	keyPrefix = "invoice_draft_"

	// ownerNew is the sentinel owner for a draft of an entity that has
	// no server-side identity yet.
	ownerNew = "new"
)

// Snapshot is one persisted save of in-progress form data. The wire shape
// matches what the front-end historically wrote to browser local storage;
// rev was added server-side for ordering diagnostics and older records
// without it still parse.
type Snapshot struct {
	// Data is the caller's form data, opaque to the manager.
	Data json.RawMessage `json:"data"`
	// Timestamp is the capture instant in unix milliseconds.
	Timestamp int64 `json:"timestamp"`
	// InvoiceID is the owner key the snapshot was saved under.
	InvoiceID string `json:"invoiceId"`
	Rev       string `json:"rev,omitempty"`
}

// KeyFor derives the store key for an owner. An absent owner maps to the
// shared "new" slot. Owner keys are slugged so free-form identifiers cannot
// produce unsafe key material.
func KeyFor(ownerKey string) string {
	owner := strings.TrimSpace(ownerKey)
	if owner == "" {
		owner = ownerNew
	}
	return keyPrefix + slug.Make(owner)
}

func newRev() string {
	return ulid.Make().String()
}

// decodeSnapshot parses a stored value. Unparsable or legacy-shaped content
// reads as absent; a draft cache must never fail a read loudly.
func decodeSnapshot(value []byte) (Snapshot, bool) {
	if len(value) == 0 {
		return Snapshot{}, false
	}
	var s Snapshot
	if err := json.Unmarshal(value, &s); err != nil {
		return Snapshot{}, false
	}
	if s.Timestamp == 0 && len(s.Data) == 0 {
		return Snapshot{}, false
	}
	return s, true
}
