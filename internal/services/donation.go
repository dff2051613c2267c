package services

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/openhearth/charity-backend/internal/data/aggregates"
	"github.com/openhearth/charity-backend/internal/data/repos"
	"github.com/openhearth/charity-backend/internal/domain"
	"github.com/openhearth/charity-backend/internal/platform/dbctx"
	"github.com/openhearth/charity-backend/internal/platform/logger"
)

type CreateDonationInput struct {
	ProjectID        uuid.UUID
	UserID           *uuid.UUID
	Amount           decimal.Decimal
	Method           domain.DonationMethod
	DonorName        *string
	DonorEmail       *string
	DonorPhone       *string
	PaymentReference *string
	DonatedAt        *time.Time
}

type DonationService interface {
	Create(ctx context.Context, in CreateDonationInput) (*domain.Donation, error)
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Donation, error)
	List(ctx context.Context, filter repos.DonationFilter) ([]*domain.Donation, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type donationService struct {
	db               *gorm.DB
	log              *logger.Logger
	tx               aggregates.TxRunner
	funds            *aggregates.ProjectFunds
	donationRepo     repos.DonationRepo
	projectRepo      repos.ProjectRepo
	memberRepo       repos.ProjectMemberRepo
	userRepo         repos.UserRepo
	notificationRepo repos.NotificationRepo
	channels         []domain.NotificationChannel
	hooks            aggregates.Hooks
}

func NewDonationService(
	db *gorm.DB,
	log *logger.Logger,
	tx aggregates.TxRunner,
	funds *aggregates.ProjectFunds,
	donationRepo repos.DonationRepo,
	projectRepo repos.ProjectRepo,
	memberRepo repos.ProjectMemberRepo,
	userRepo repos.UserRepo,
	notificationRepo repos.NotificationRepo,
	channels []domain.NotificationChannel,
	hooks aggregates.Hooks,
) DonationService {
	if hooks == nil {
		hooks = aggregates.NoopHooks{}
	}
	return &donationService{
		db:               db,
		log:              log.With("service", "DonationService"),
		tx:               tx,
		funds:            funds,
		donationRepo:     donationRepo,
		projectRepo:      projectRepo,
		memberRepo:       memberRepo,
		userRepo:         userRepo,
		notificationRepo: notificationRepo,
		channels:         channels,
		hooks:            hooks,
	}
}

// Create records a donation, bumps the project total, and drafts the
// notification fan-out, all in one transaction. The project row is locked
// FOR UPDATE so concurrent donations serialize on the aggregate.
func (ds *donationService) Create(ctx context.Context, in CreateDonationInput) (*domain.Donation, error) {
	const op = "donation.create"
	scope := callerScope(ctx)
	if scope.Denied() {
		return nil, aggregates.ForbiddenError(op, "authentication required")
	}
	if in.ProjectID == uuid.Nil {
		return nil, aggregates.ValidationError(op, "project id is required")
	}

	// Rounded exactly once, here. Everything downstream treats the amount
	// as final.
	amount := domain.RoundAmount(in.Amount)
	if amount.Sign() <= 0 {
		return nil, aggregates.ValidationError(op, "amount must be positive")
	}
	method := in.Method
	if method == "" {
		method = domain.MethodUnknown
	}
	if !method.Valid() {
		return nil, aggregates.ValidationError(op, "unknown donation method")
	}

	if scope.IsVolunteer() {
		// Volunteers record donations only against their own projects and
		// only attributed to themselves.
		if in.UserID != nil && *in.UserID != scope.CallerID() {
			return nil, aggregates.ForbiddenError(op, "volunteers may only record their own donations")
		}
		self := scope.CallerID()
		in.UserID = &self
	}

	var created *domain.Donation
	err := ds.tx.InTx(ctx, func(dbc dbctx.Context) error {
		if scope.IsVolunteer() {
			isMember, err := ds.memberRepo.Exists(dbc, in.ProjectID, scope.CallerID())
			if err != nil {
				return aggregates.MapError(op, err)
			}
			if !isMember {
				return aggregates.ForbiddenError(op, "not a member of this project")
			}
		}

		project, err := ds.projectRepo.LockByID(dbc, in.ProjectID)
		if err != nil {
			return aggregates.MapError(op, err)
		}

		var donor *domain.User
		if in.UserID != nil && *in.UserID != uuid.Nil {
			donor, err = ds.userRepo.GetByID(dbc, *in.UserID)
			if err != nil {
				return aggregates.NewError(aggregates.CodeValidation, op, "attributed user not found", err)
			}
		}

		donatedAt := time.Now().UTC()
		if in.DonatedAt != nil {
			donatedAt = in.DonatedAt.UTC()
		}
		donation := &domain.Donation{
			ID:               uuid.New(),
			ProjectID:        project.ID,
			UserID:           in.UserID,
			Amount:           amount,
			Method:           method,
			DonorName:        trimPtr(in.DonorName),
			DonorEmail:       trimPtr(in.DonorEmail),
			DonorPhone:       trimPtr(in.DonorPhone),
			PaymentReference: trimPtr(in.PaymentReference),
			DonatedAt:        donatedAt,
		}
		if _, err := ds.donationRepo.Create(dbc, []*domain.Donation{donation}); err != nil {
			return aggregates.MapError(op, err)
		}

		if err := ds.funds.Collect(dbc, project, amount); err != nil {
			return err
		}

		notifications := SynthesizeDonationNotifications(project, donor, donation, ds.channels)
		if _, err := ds.notificationRepo.Create(dbc, notifications); err != nil {
			return aggregates.MapError(op, err)
		}
		for _, n := range notifications {
			ds.hooks.IncNotification(string(n.Channel))
		}

		created = donation
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

func (ds *donationService) GetByID(ctx context.Context, id uuid.UUID) (*domain.Donation, error) {
	const op = "donation.get"
	scope := callerScope(ctx)
	if scope.Denied() {
		return nil, aggregates.NotFoundError(op, "donation not found")
	}
	dbc := dbctx.Context{Ctx: ctx}
	donation, err := ds.donationRepo.GetByID(dbc, id)
	if err != nil {
		return nil, aggregates.MapError(op, err)
	}
	if !scope.IsAdministrator() {
		isMember, err := ds.memberRepo.Exists(dbc, donation.ProjectID, scope.CallerID())
		if err != nil {
			return nil, aggregates.MapError(op, err)
		}
		// Out-of-scope reads report not-found, never forbidden.
		if !scope.AllowsProject(isMember) {
			return nil, aggregates.NotFoundError(op, "donation not found")
		}
	}
	return donation, nil
}

func (ds *donationService) List(ctx context.Context, filter repos.DonationFilter) ([]*domain.Donation, error) {
	const op = "donation.list"
	scope := callerScope(ctx)
	if scope.Denied() {
		return nil, aggregates.ForbiddenError(op, "authentication required")
	}
	rows, err := ds.donationRepo.List(dbctx.Context{Ctx: ctx}, scope, filter)
	if err != nil {
		return nil, aggregates.MapError(op, err)
	}
	return rows, nil
}

// Delete removes a donation and releases its amount from the project
// total, clamped at zero. The synthesized notifications cascade with it.
func (ds *donationService) Delete(ctx context.Context, id uuid.UUID) error {
	const op = "donation.delete"
	if !callerScope(ctx).IsAdministrator() {
		return aggregates.ForbiddenError(op, "administrator role required")
	}
	return ds.tx.InTx(ctx, func(dbc dbctx.Context) error {
		donation, err := ds.donationRepo.GetByID(dbc, id)
		if err != nil {
			return aggregates.MapError(op, err)
		}
		project, err := ds.projectRepo.LockByID(dbc, donation.ProjectID)
		if err != nil {
			return aggregates.MapError(op, err)
		}

		cascade, err := ds.notificationRepo.ListByDonation(dbc, donation.ID)
		if err != nil {
			return aggregates.MapError(op, err)
		}
		for _, n := range cascade {
			if err := ds.notificationRepo.Delete(dbc, n); err != nil {
				return aggregates.MapError(op, err)
			}
		}

		if err := ds.donationRepo.Delete(dbc, donation); err != nil {
			return aggregates.MapError(op, err)
		}
		return ds.funds.Release(dbc, project, donation.Amount)
	})
}

func trimPtr(p *string) *string {
	if p == nil {
		return nil
	}
	v := strings.TrimSpace(*p)
	if v == "" {
		return nil
	}
	return &v
}
