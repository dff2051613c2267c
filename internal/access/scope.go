package access

import (
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/openhearth/charity-backend/internal/domain"
	"github.com/openhearth/charity-backend/internal/platform/ctxutil"
)

// Scope is the caller's visibility predicate, derived from role and
// identity. Administrators see everything; volunteers see only rows tied
// to projects they are members of; every other caller (unknown role,
// missing role, volunteer without a user id) is denied outright. The zero
// Scope denies.
//
// Scope gates visibility only. Mutations layer an ownership check on top
// (see OwnsReport): a visible-but-not-owned row is Forbidden, not
// Not-Found, while read paths report out-of-scope rows as Not-Found to
// avoid leaking existence.
type Scope struct {
	role   string
	userID uuid.UUID
}

// ForCaller builds a scope from an explicit role and user id.
func ForCaller(role string, userID uuid.UUID) Scope {
	return Scope{role: role, userID: userID}
}

// FromRequest derives the scope from the request identity. A nil identity
// (no request context) yields the denying zero scope.
func FromRequest(rd *ctxutil.RequestData) Scope {
	if rd == nil {
		return Scope{}
	}
	return Scope{role: rd.Role, userID: rd.UserID}
}

func (s Scope) IsAdministrator() bool {
	return domain.IsAdministrator(s.role)
}

// IsVolunteer is true only for a well-formed volunteer identity; a
// volunteer token without a user id fails closed.
func (s Scope) IsVolunteer() bool {
	return domain.IsVolunteer(s.role) && s.userID != uuid.Nil
}

// Denied reports whether the caller sees nothing at all.
func (s Scope) Denied() bool {
	return !s.IsAdministrator() && !s.IsVolunteer()
}

func (s Scope) CallerID() uuid.UUID { return s.userID }

// AllowsProject resolves the single-item decision given a membership
// lookup result for the target's project.
func (s Scope) AllowsProject(isMember bool) bool {
	switch {
	case s.IsAdministrator():
		return true
	case s.IsVolunteer():
		return isMember
	default:
		return false
	}
}

// OwnsReport is the second enforcement layer for report mutations:
// visibility alone does not grant update/delete.
func (s Scope) OwnsReport(r *domain.Report) bool {
	if r == nil {
		return false
	}
	switch {
	case s.IsAdministrator():
		return true
	case s.IsVolunteer():
		return r.CreatedByID == s.userID
	default:
		return false
	}
}

// FilterProjects narrows a project query to in-scope rows.
func (s Scope) FilterProjects(q *gorm.DB) *gorm.DB {
	return s.filterByMembership(q, "project.id")
}

// FilterDonations narrows a donation query via the owning project.
func (s Scope) FilterDonations(q *gorm.DB) *gorm.DB {
	return s.filterByMembership(q, "donation.project_id")
}

// FilterReports narrows a report query via the owning project.
func (s Scope) FilterReports(q *gorm.DB) *gorm.DB {
	return s.filterByMembership(q, "report.project_id")
}

// FilterNotifications narrows a notification query via the owning project.
// Rows without a project (system-level notices) stay admin-only.
func (s Scope) FilterNotifications(q *gorm.DB) *gorm.DB {
	return s.filterByMembership(q, "notification.project_id")
}

func (s Scope) filterByMembership(q *gorm.DB, projectCol string) *gorm.DB {
	switch {
	case s.IsAdministrator():
		return q
	case s.IsVolunteer():
		return q.Where(
			"EXISTS (SELECT 1 FROM project_member pm WHERE pm.project_id = "+projectCol+" AND pm.user_id = ?)",
			s.userID,
		)
	default:
		return q.Where("1 = 0")
	}
}
