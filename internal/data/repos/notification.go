package repos

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/openhearth/charity-backend/internal/access"
	"github.com/openhearth/charity-backend/internal/domain"
	"github.com/openhearth/charity-backend/internal/platform/dbctx"
	"github.com/openhearth/charity-backend/internal/platform/logger"
)

type NotificationFilter struct {
	Channel    domain.NotificationChannel
	ProjectID  uuid.UUID
	DonationID uuid.UUID
	Unsent     bool
}

type NotificationRepo interface {
	Create(dbc dbctx.Context, rows []*domain.Notification) ([]*domain.Notification, error)
	GetByID(dbc dbctx.Context, id uuid.UUID) (*domain.Notification, error)
	List(dbc dbctx.Context, scope access.Scope, filter NotificationFilter) ([]*domain.Notification, error)
	MarkSent(dbc dbctx.Context, id uuid.UUID, at time.Time) (bool, error)
	ListByDonation(dbc dbctx.Context, donationID uuid.UUID) ([]*domain.Notification, error)
	Delete(dbc dbctx.Context, row *domain.Notification) error
}

type notificationRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewNotificationRepo(db *gorm.DB, log *logger.Logger) NotificationRepo {
	return &notificationRepo{db: db, log: log.With("repo", "NotificationRepo")}
}

func (r *notificationRepo) Create(dbc dbctx.Context, rows []*domain.Notification) ([]*domain.Notification, error) {
	if len(rows) == 0 {
		return []*domain.Notification{}, nil
	}
	if err := session(dbc, r.db).Create(&rows).Error; err != nil {
		return nil, err
	}
	if dbc.Changes != nil {
		for _, row := range rows {
			dbc.Changes.RecordCreate(row)
		}
	}
	return rows, nil
}

func (r *notificationRepo) GetByID(dbc dbctx.Context, id uuid.UUID) (*domain.Notification, error) {
	if id == uuid.Nil {
		return nil, fmt.Errorf("missing notification id")
	}
	var out domain.Notification
	if err := session(dbc, r.db).Where("id = ?", id).Take(&out).Error; err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *notificationRepo) List(dbc dbctx.Context, scope access.Scope, filter NotificationFilter) ([]*domain.Notification, error) {
	q := session(dbc, r.db).Model(&domain.Notification{})
	q = scope.FilterNotifications(q)
	if filter.Channel != "" {
		q = q.Where("channel = ?", filter.Channel)
	}
	if filter.ProjectID != uuid.Nil {
		q = q.Where("project_id = ?", filter.ProjectID)
	}
	if filter.DonationID != uuid.Nil {
		q = q.Where("donation_id = ?", filter.DonationID)
	}
	if filter.Unsent {
		q = q.Where("is_sent = FALSE")
	}
	var out []*domain.Notification
	if err := q.Order("created_at DESC").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

// MarkSent flips is_sent for a pending notification. Returns false when the
// row was already sent or does not exist, so delivery retries stay idempotent.
func (r *notificationRepo) MarkSent(dbc dbctx.Context, id uuid.UUID, at time.Time) (bool, error) {
	if id == uuid.Nil {
		return false, fmt.Errorf("missing notification id")
	}
	res := session(dbc, r.db).Model(&domain.Notification{}).
		Where("id = ? AND is_sent = FALSE", id).
		Updates(map[string]any{"is_sent": true, "sent_at": at.UTC()})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *notificationRepo) ListByDonation(dbc dbctx.Context, donationID uuid.UUID) ([]*domain.Notification, error) {
	if donationID == uuid.Nil {
		return nil, fmt.Errorf("missing donation id")
	}
	var out []*domain.Notification
	if err := session(dbc, r.db).
		Where("donation_id = ?", donationID).
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *notificationRepo) Delete(dbc dbctx.Context, row *domain.Notification) error {
	if row == nil || row.ID == uuid.Nil {
		return fmt.Errorf("missing notification")
	}
	if err := session(dbc, r.db).
		Where("id = ?", row.ID).
		Delete(&domain.Notification{}).Error; err != nil {
		return err
	}
	if dbc.Changes != nil {
		dbc.Changes.RecordDelete(row)
	}
	return nil
}
