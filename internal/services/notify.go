package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/openhearth/charity-backend/internal/data/aggregates"
	"github.com/openhearth/charity-backend/internal/data/repos"
	"github.com/openhearth/charity-backend/internal/domain"
	"github.com/openhearth/charity-backend/internal/platform/dbctx"
	"github.com/openhearth/charity-backend/internal/platform/logger"
)

// AnonymousDonor substitutes for a blank or missing donor name in
// notification text.
const AnonymousDonor = "Anonymous"

// SynthesizeDonationNotifications drafts one notification per configured
// channel for a freshly created donation. Pure: it stages rows, the caller
// inserts them inside the donation transaction. An empty channel list
// yields an empty slice; the donation still commits.
func SynthesizeDonationNotifications(
	project *domain.Project,
	donor *domain.User,
	donation *domain.Donation,
	channels []domain.NotificationChannel,
) []*domain.Notification {
	if project == nil || donation == nil || len(channels) == 0 {
		return []*domain.Notification{}
	}

	donorName := donor.DisplayName()
	if donation.DonorName != nil && strings.TrimSpace(*donation.DonorName) != "" {
		donorName = strings.TrimSpace(*donation.DonorName)
	}
	if strings.TrimSpace(donorName) == "" {
		donorName = AnonymousDonor
	}

	title := fmt.Sprintf("New donation for %s", project.Name)
	message := fmt.Sprintf("%s donated %s to project %s.",
		donorName, donation.Amount.StringFixed(2), project.Name)

	now := time.Now().UTC()
	out := make([]*domain.Notification, 0, len(channels))
	for _, ch := range channels {
		out = append(out, &domain.Notification{
			ID:         uuid.New(),
			Channel:    ch,
			Title:      title,
			Message:    message,
			IsSent:     false,
			CreatedAt:  now,
			ProjectID:  &project.ID,
			UserID:     donation.UserID,
			DonationID: &donation.ID,
		})
	}
	return out
}

type NotificationService interface {
	List(ctx context.Context, filter repos.NotificationFilter) ([]*domain.Notification, error)
	MarkSent(ctx context.Context, id uuid.UUID) (*domain.Notification, error)
}

type notificationService struct {
	db               *gorm.DB
	log              *logger.Logger
	tx               aggregates.TxRunner
	notificationRepo repos.NotificationRepo
}

func NewNotificationService(
	db *gorm.DB,
	log *logger.Logger,
	tx aggregates.TxRunner,
	notificationRepo repos.NotificationRepo,
) NotificationService {
	return &notificationService{
		db:               db,
		log:              log.With("service", "NotificationService"),
		tx:               tx,
		notificationRepo: notificationRepo,
	}
}

func (ns *notificationService) List(ctx context.Context, filter repos.NotificationFilter) ([]*domain.Notification, error) {
	const op = "notification.list"
	scope := callerScope(ctx)
	if scope.Denied() {
		return nil, aggregates.ForbiddenError(op, "authentication required")
	}
	rows, err := ns.notificationRepo.List(dbctx.Context{Ctx: ctx}, scope, filter)
	if err != nil {
		return nil, aggregates.MapError(op, err)
	}
	return rows, nil
}

// MarkSent flips a pending notification for the delivery worker. Repeated
// calls for an already-sent id return the row unchanged.
func (ns *notificationService) MarkSent(ctx context.Context, id uuid.UUID) (*domain.Notification, error) {
	const op = "notification.mark_sent"
	if !callerScope(ctx).IsAdministrator() {
		return nil, aggregates.ForbiddenError(op, "administrator role required")
	}
	var out *domain.Notification
	err := ns.tx.InTx(ctx, func(dbc dbctx.Context) error {
		before, err := ns.notificationRepo.GetByID(dbc, id)
		if err != nil {
			return aggregates.MapError(op, err)
		}
		flipped, err := ns.notificationRepo.MarkSent(dbc, id, time.Now())
		if err != nil {
			return aggregates.MapError(op, err)
		}
		if !flipped {
			out = before
			return nil
		}
		row, err := ns.notificationRepo.GetByID(dbc, id)
		if err != nil {
			return aggregates.MapError(op, err)
		}
		if dbc.Changes != nil {
			dbc.Changes.RecordUpdate(before, row)
		}
		out = row
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}
