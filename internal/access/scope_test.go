package access

import (
	"testing"

	"github.com/google/uuid"

	"github.com/openhearth/charity-backend/internal/domain"
	"github.com/openhearth/charity-backend/internal/platform/ctxutil"
)

func TestZeroScopeDenies(t *testing.T) {
	var s Scope
	if !s.Denied() {
		t.Fatalf("zero scope must deny")
	}
	if s.AllowsProject(true) {
		t.Fatalf("zero scope must not allow any project")
	}
	if s.OwnsReport(&domain.Report{}) {
		t.Fatalf("zero scope must not own any report")
	}
}

func TestScopeFailsClosed(t *testing.T) {
	cases := []struct {
		name   string
		role   string
		userID uuid.UUID
	}{
		{"unknown role", "Auditor", uuid.New()},
		{"empty role", "", uuid.New()},
		{"volunteer without user id", domain.RoleVolunteer, uuid.Nil},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			s := ForCaller(tc.role, tc.userID)
			if !s.Denied() {
				t.Fatalf("scope for %q must deny", tc.name)
			}
		})
	}
}

func TestAdministratorSeesEverything(t *testing.T) {
	s := ForCaller(domain.RoleAdministrator, uuid.New())
	if s.Denied() {
		t.Fatalf("administrator must not be denied")
	}
	if !s.AllowsProject(false) {
		t.Fatalf("administrator must see projects without membership")
	}
	if !s.OwnsReport(&domain.Report{CreatedByID: uuid.New()}) {
		t.Fatalf("administrator must pass the ownership check for any report")
	}
}

func TestRoleMatchingIsCaseInsensitive(t *testing.T) {
	if ForCaller("administrator", uuid.New()).Denied() {
		t.Fatalf("lowercase role name must still grant admin scope")
	}
	if !ForCaller("  volunteer ", uuid.New()).IsVolunteer() {
		t.Fatalf("padded role name must still resolve to volunteer")
	}
}

func TestVolunteerBoundByMembership(t *testing.T) {
	s := ForCaller(domain.RoleVolunteer, uuid.New())
	if !s.AllowsProject(true) {
		t.Fatalf("member volunteer must see the project")
	}
	if s.AllowsProject(false) {
		t.Fatalf("non-member volunteer must not see the project")
	}
}

func TestOwnsReport(t *testing.T) {
	me := uuid.New()
	s := ForCaller(domain.RoleVolunteer, me)

	if !s.OwnsReport(&domain.Report{CreatedByID: me}) {
		t.Fatalf("volunteer must own their report")
	}
	if s.OwnsReport(&domain.Report{CreatedByID: uuid.New()}) {
		t.Fatalf("volunteer must not own another author's report")
	}
	if s.OwnsReport(nil) {
		t.Fatalf("nil report is never owned")
	}
}

func TestFromRequest(t *testing.T) {
	if !FromRequest(nil).Denied() {
		t.Fatalf("nil request identity must yield a denying scope")
	}

	id := uuid.New()
	s := FromRequest(&ctxutil.RequestData{UserID: id, Role: domain.RoleVolunteer})
	if !s.IsVolunteer() {
		t.Fatalf("request-derived volunteer scope expected")
	}
	if s.CallerID() != id {
		t.Fatalf("caller id mismatch")
	}
}
