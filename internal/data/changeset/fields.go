package changeset

import (
	"reflect"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/openhearth/charity-backend/internal/domain"
)

// Entity kind names recorded on audit entries and used by audit queries.
const (
	KindRole          = "Role"
	KindUser          = "User"
	KindProject       = "Project"
	KindProjectMember = "ProjectMember"
	KindDonation      = "Donation"
	KindReport        = "Report"
	KindNotification  = "Notification"
	KindAuditLog      = "AuditLog"
)

type fieldValue struct {
	name  string
	value any
}

type entitySnapshot struct {
	name    string
	id      uuid.UUID
	audited bool
	fields  []fieldValue
}

// describe builds the non-key field table for a known entity kind. This is
// a fixed dispatch over the schema, not runtime introspection: adding an
// entity means adding a case here. Primary-key fields are deliberately not
// listed; composite-key entities report uuid.Nil as their id. AuditLog is
// known but never audited, which keeps the recorder from recursing into
// its own writes.
func describe(e any) (entitySnapshot, bool) {
	switch v := e.(type) {
	case *domain.Role:
		return entitySnapshot{name: KindRole, id: v.ID, audited: true, fields: []fieldValue{
			{"Name", v.Name},
			{"Description", v.Description},
		}}, true
	case *domain.User:
		return entitySnapshot{name: KindUser, id: v.ID, audited: true, fields: []fieldValue{
			{"UserName", v.UserName},
			{"Email", v.Email},
			{"FirstName", v.FirstName},
			{"LastName", v.LastName},
			{"PhoneNumber", deref(v.PhoneNumber)},
			{"IsActive", v.IsActive},
			{"JoinedAt", v.JoinedAt},
			{"RoleID", v.RoleID},
		}}, true
	case *domain.Project:
		return entitySnapshot{name: KindProject, id: v.ID, audited: true, fields: []fieldValue{
			{"Code", v.Code},
			{"Name", v.Name},
			{"Description", v.Description},
			{"GoalAmount", v.GoalAmount},
			{"CollectedAmount", v.CollectedAmount},
			{"StartDate", v.StartDate},
			{"EndDate", deref(v.EndDate)},
			{"Status", string(v.Status)},
			{"IsArchived", v.IsArchived},
		}}, true
	case *domain.ProjectMember:
		// Composite primary key: no single entity id to record.
		return entitySnapshot{name: KindProjectMember, id: uuid.Nil, audited: true, fields: []fieldValue{
			{"ProjectID", v.ProjectID},
			{"UserID", v.UserID},
			{"AssignmentRole", v.AssignmentRole},
			{"AssignedAt", v.AssignedAt},
		}}, true
	case *domain.Donation:
		return entitySnapshot{name: KindDonation, id: v.ID, audited: true, fields: []fieldValue{
			{"ProjectID", v.ProjectID},
			{"UserID", deref(v.UserID)},
			{"Amount", v.Amount},
			{"Method", string(v.Method)},
			{"DonorName", deref(v.DonorName)},
			{"DonorEmail", deref(v.DonorEmail)},
			{"DonorPhone", deref(v.DonorPhone)},
			{"PaymentReference", deref(v.PaymentReference)},
			{"DonatedAt", v.DonatedAt},
		}}, true
	case *domain.Report:
		return entitySnapshot{name: KindReport, id: v.ID, audited: true, fields: []fieldValue{
			{"ProjectID", v.ProjectID},
			{"CreatedByID", v.CreatedByID},
			{"Title", v.Title},
			{"Content", v.Content},
			{"IsPublic", v.IsPublic},
			{"PublishedAt", deref(v.PublishedAt)},
		}}, true
	case *domain.Notification:
		return entitySnapshot{name: KindNotification, id: v.ID, audited: true, fields: []fieldValue{
			{"Channel", string(v.Channel)},
			{"Title", v.Title},
			{"Message", v.Message},
			{"IsSent", v.IsSent},
			{"SentAt", deref(v.SentAt)},
			{"ProjectID", deref(v.ProjectID)},
			{"UserID", deref(v.UserID)},
			{"DonationID", deref(v.DonationID)},
		}}, true
	case *domain.AuditLog:
		return entitySnapshot{name: KindAuditLog, audited: false}, true
	}
	return entitySnapshot{}, false
}

func deref[T any](p *T) any {
	if p == nil {
		return nil
	}
	return *p
}

// equalValues compares two snapshot values, with typed handling for the
// types whose natural equality differs from structural equality.
func equalValues(a, b any) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	switch av := a.(type) {
	case decimal.Decimal:
		bv, ok := b.(decimal.Decimal)
		return ok && av.Equal(bv)
	case time.Time:
		bv, ok := b.(time.Time)
		return ok && av.Equal(bv)
	}
	return reflect.DeepEqual(a, b)
}
