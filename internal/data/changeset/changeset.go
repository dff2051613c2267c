package changeset

import (
	"sync"

	"github.com/google/uuid"

	"github.com/openhearth/charity-backend/internal/domain"
)

// FieldChange captures one field's before/after values. Pointers
// distinguish "absent" from legitimate zero values: a create has only New,
// a delete only Old, an update both.
type FieldChange struct {
	Old *any `json:"old,omitempty"`
	New *any `json:"new,omitempty"`
}

// EntityChange is one entity's staged mutation, diffed over non-key fields.
type EntityChange struct {
	EntityName string
	EntityID   uuid.UUID
	Action     domain.AuditAction
	Fields     map[string]FieldChange
}

// ChangeSet collects entity mutations staged within a single transaction.
// It is created by the transaction runner, threaded through dbctx, and
// drained exactly once by the audit recorder at commit. Entities the field
// tables don't know, and audit rows themselves, are silently ignored.
type ChangeSet struct {
	mu      sync.Mutex
	pending []*EntityChange
}

func New() *ChangeSet {
	return &ChangeSet{}
}

func (cs *ChangeSet) RecordCreate(entity any) {
	snap, ok := describe(entity)
	if !ok || !snap.audited {
		return
	}
	fields := make(map[string]FieldChange, len(snap.fields))
	for _, f := range snap.fields {
		v := f.value
		fields[f.name] = FieldChange{New: &v}
	}
	cs.append(&EntityChange{
		EntityName: snap.name,
		EntityID:   snap.id,
		Action:     domain.ActionCreated,
		Fields:     fields,
	})
}

func (cs *ChangeSet) RecordDelete(entity any) {
	snap, ok := describe(entity)
	if !ok || !snap.audited {
		return
	}
	fields := make(map[string]FieldChange, len(snap.fields))
	for _, f := range snap.fields {
		v := f.value
		fields[f.name] = FieldChange{Old: &v}
	}
	cs.append(&EntityChange{
		EntityName: snap.name,
		EntityID:   snap.id,
		Action:     domain.ActionDeleted,
		Fields:     fields,
	})
}

// RecordUpdate diffs two snapshots of the same entity. Fields that did not
// actually change are omitted; an update that touched nothing records no
// change at all.
func (cs *ChangeSet) RecordUpdate(before, after any) {
	prev, okB := describe(before)
	next, okA := describe(after)
	if !okB || !okA || !next.audited || prev.name != next.name {
		return
	}
	old := make(map[string]any, len(prev.fields))
	for _, f := range prev.fields {
		old[f.name] = f.value
	}
	fields := make(map[string]FieldChange)
	for _, f := range next.fields {
		ov, had := old[f.name]
		if had && equalValues(ov, f.value) {
			continue
		}
		oldVal, newVal := ov, f.value
		fields[f.name] = FieldChange{Old: &oldVal, New: &newVal}
	}
	if len(fields) == 0 {
		return
	}
	cs.append(&EntityChange{
		EntityName: next.name,
		EntityID:   next.id,
		Action:     domain.ActionUpdated,
		Fields:     fields,
	})
}

// Drain returns all staged changes and empties the set.
func (cs *ChangeSet) Drain() []*EntityChange {
	cs.mu.Lock()
	defer cs.mu.Unlock()
	out := cs.pending
	cs.pending = nil
	return out
}

func (cs *ChangeSet) Len() int {
	cs.mu.Lock()
	defer cs.mu.Unlock()
	return len(cs.pending)
}

func (cs *ChangeSet) append(ec *EntityChange) {
	cs.mu.Lock()
	defer cs.mu.Unlock()
	cs.pending = append(cs.pending, ec)
}
