package changeset

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/openhearth/charity-backend/internal/domain"
)

func TestRecordCreateCapturesAllFields(t *testing.T) {
	cs := New()
	d := &domain.Donation{
		ID:        uuid.New(),
		ProjectID: uuid.New(),
		Amount:    decimal.RequireFromString("400.00"),
		Method:    domain.MethodCard,
		DonatedAt: time.Now().UTC(),
	}
	cs.RecordCreate(d)

	changes := cs.Drain()
	if len(changes) != 1 {
		t.Fatalf("expected 1 change, got %d", len(changes))
	}
	ec := changes[0]
	if ec.EntityName != KindDonation {
		t.Fatalf("expected entity %q, got %q", KindDonation, ec.EntityName)
	}
	if ec.EntityID != d.ID {
		t.Fatalf("expected entity id %s, got %s", d.ID, ec.EntityID)
	}
	if ec.Action != domain.ActionCreated {
		t.Fatalf("expected action created, got %s", ec.Action)
	}
	fc, ok := ec.Fields["Amount"]
	if !ok {
		t.Fatalf("expected Amount field in diff")
	}
	if fc.Old != nil {
		t.Fatalf("create diff must not carry old values")
	}
	if fc.New == nil {
		t.Fatalf("create diff must carry new value")
	}
}

func TestRecordDeleteCapturesOldSide(t *testing.T) {
	cs := New()
	r := &domain.Report{ID: uuid.New(), ProjectID: uuid.New(), Title: "April recap"}
	cs.RecordDelete(r)

	changes := cs.Drain()
	if len(changes) != 1 {
		t.Fatalf("expected 1 change, got %d", len(changes))
	}
	fc := changes[0].Fields["Title"]
	if fc.Old == nil || fc.New != nil {
		t.Fatalf("delete diff must carry only old values: %+v", fc)
	}
}

func TestRecordUpdateDiffsOnlyChangedFields(t *testing.T) {
	cs := New()
	before := &domain.Project{
		ID:              uuid.New(),
		Code:            "WELLS",
		Name:            "Clean Wells",
		GoalAmount:      decimal.RequireFromString("5000.00"),
		CollectedAmount: decimal.Zero,
		Status:          domain.ProjectDraft,
	}
	after := *before
	after.Name = "Clean Wells 2026"
	after.Status = domain.ProjectActive

	cs.RecordUpdate(before, &after)

	changes := cs.Drain()
	if len(changes) != 1 {
		t.Fatalf("expected 1 change, got %d", len(changes))
	}
	fields := changes[0].Fields
	if len(fields) != 2 {
		t.Fatalf("expected exactly 2 changed fields, got %d: %v", len(fields), fields)
	}
	if _, ok := fields["Name"]; !ok {
		t.Fatalf("expected Name in diff")
	}
	if _, ok := fields["Status"]; !ok {
		t.Fatalf("expected Status in diff")
	}
	if _, ok := fields["GoalAmount"]; ok {
		t.Fatalf("unchanged GoalAmount must not appear in diff")
	}
}

func TestRecordUpdateSkipsNoopWrites(t *testing.T) {
	cs := New()
	p := &domain.Project{ID: uuid.New(), Code: "WELLS", GoalAmount: decimal.RequireFromString("5000.00")}
	same := *p
	cs.RecordUpdate(p, &same)

	if cs.Len() != 0 {
		t.Fatalf("update that touched nothing must record no change, got %d", cs.Len())
	}
}

func TestRecordUpdateTreatsEqualDecimalsAsUnchanged(t *testing.T) {
	cs := New()
	before := &domain.Project{ID: uuid.New(), GoalAmount: decimal.RequireFromString("100.00")}
	after := *before
	// Same numeric value, different internal exponent.
	after.GoalAmount = decimal.RequireFromString("100")

	cs.RecordUpdate(before, &after)
	if cs.Len() != 0 {
		t.Fatalf("numerically equal decimals must not produce a diff")
	}
}

func TestCompositeKeyEntityRecordsNilEntityID(t *testing.T) {
	cs := New()
	pm := &domain.ProjectMember{
		ProjectID:      uuid.New(),
		UserID:         uuid.New(),
		AssignmentRole: "Member",
		AssignedAt:     time.Now().UTC(),
	}
	cs.RecordCreate(pm)

	changes := cs.Drain()
	if len(changes) != 1 {
		t.Fatalf("expected 1 change, got %d", len(changes))
	}
	if changes[0].EntityID != uuid.Nil {
		t.Fatalf("composite-key entity must record uuid.Nil id, got %s", changes[0].EntityID)
	}
	if _, ok := changes[0].Fields["ProjectID"]; !ok {
		t.Fatalf("membership diff must carry the project id as a field")
	}
}

func TestAuditLogEntityIsNeverRecorded(t *testing.T) {
	cs := New()
	cs.RecordCreate(&domain.AuditLog{ID: uuid.New(), EntityName: KindDonation})
	cs.RecordDelete(&domain.AuditLog{ID: uuid.New()})

	if cs.Len() != 0 {
		t.Fatalf("audit rows must never enter the change set, got %d", cs.Len())
	}
}

func TestUnknownEntityIsIgnored(t *testing.T) {
	cs := New()
	cs.RecordCreate(struct{ Name string }{Name: "stray"})
	if cs.Len() != 0 {
		t.Fatalf("unknown entities must be ignored, got %d", cs.Len())
	}
}

func TestDrainEmptiesTheSet(t *testing.T) {
	cs := New()
	cs.RecordCreate(&domain.Role{ID: uuid.New(), Name: "Volunteer"})
	if got := len(cs.Drain()); got != 1 {
		t.Fatalf("expected 1 drained change, got %d", got)
	}
	if got := len(cs.Drain()); got != 0 {
		t.Fatalf("second drain must be empty, got %d", got)
	}
}

func TestUpdateAcrossEntityKindsIsRejected(t *testing.T) {
	cs := New()
	cs.RecordUpdate(&domain.Project{ID: uuid.New()}, &domain.Report{ID: uuid.New()})
	if cs.Len() != 0 {
		t.Fatalf("mismatched entity kinds must not record a change")
	}
}
