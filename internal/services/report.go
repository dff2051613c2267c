package services

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/openhearth/charity-backend/internal/access"
	"github.com/openhearth/charity-backend/internal/data/aggregates"
	"github.com/openhearth/charity-backend/internal/data/repos"
	"github.com/openhearth/charity-backend/internal/domain"
	"github.com/openhearth/charity-backend/internal/platform/dbctx"
	"github.com/openhearth/charity-backend/internal/platform/logger"
)

type CreateReportInput struct {
	ProjectID uuid.UUID
	Title     string
	Content   string
	IsPublic  bool
}

type UpdateReportInput struct {
	Title    *string
	Content  *string
	IsPublic *bool
}

// ReportService enforces two layers on mutations: the caller must see the
// report (scope) and must own it (author or administrator). Visibility
// without ownership is forbidden, not hidden.
type ReportService interface {
	Create(ctx context.Context, in CreateReportInput) (*domain.Report, error)
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Report, error)
	List(ctx context.Context, filter repos.ReportFilter) ([]*domain.Report, error)
	Update(ctx context.Context, id uuid.UUID, in UpdateReportInput) (*domain.Report, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type reportService struct {
	db         *gorm.DB
	log        *logger.Logger
	tx         aggregates.TxRunner
	reportRepo repos.ReportRepo
	memberRepo repos.ProjectMemberRepo
}

func NewReportService(
	db *gorm.DB,
	log *logger.Logger,
	tx aggregates.TxRunner,
	reportRepo repos.ReportRepo,
	memberRepo repos.ProjectMemberRepo,
) ReportService {
	return &reportService{
		db:         db,
		log:        log.With("service", "ReportService"),
		tx:         tx,
		reportRepo: reportRepo,
		memberRepo: memberRepo,
	}
}

func (rs *reportService) Create(ctx context.Context, in CreateReportInput) (*domain.Report, error) {
	const op = "report.create"
	scope := callerScope(ctx)
	if scope.Denied() {
		return nil, aggregates.ForbiddenError(op, "authentication required")
	}
	title := strings.TrimSpace(in.Title)
	switch {
	case in.ProjectID == uuid.Nil:
		return nil, aggregates.ValidationError(op, "project id is required")
	case title == "":
		return nil, aggregates.ValidationError(op, "report title is required")
	}

	var created *domain.Report
	err := rs.tx.InTx(ctx, func(dbc dbctx.Context) error {
		if scope.IsVolunteer() {
			isMember, err := rs.memberRepo.Exists(dbc, in.ProjectID, scope.CallerID())
			if err != nil {
				return aggregates.MapError(op, err)
			}
			if !isMember {
				return aggregates.ForbiddenError(op, "not a member of this project")
			}
		}
		now := time.Now().UTC()
		report := &domain.Report{
			ID:          uuid.New(),
			ProjectID:   in.ProjectID,
			CreatedByID: scope.CallerID(),
			Title:       title,
			Content:     in.Content,
			IsPublic:    in.IsPublic,
			CreatedAt:   now,
		}
		if in.IsPublic {
			report.PublishedAt = &now
		}
		row, err := rs.reportRepo.Create(dbc, report)
		if err != nil {
			return aggregates.MapError(op, err)
		}
		created = row
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

func (rs *reportService) GetByID(ctx context.Context, id uuid.UUID) (*domain.Report, error) {
	const op = "report.get"
	scope := callerScope(ctx)
	if scope.Denied() {
		return nil, aggregates.NotFoundError(op, "report not found")
	}
	dbc := dbctx.Context{Ctx: ctx}
	report, err := rs.reportRepo.GetByID(dbc, id)
	if err != nil {
		return nil, aggregates.MapError(op, err)
	}
	if !scope.IsAdministrator() {
		isMember, err := rs.memberRepo.Exists(dbc, report.ProjectID, scope.CallerID())
		if err != nil {
			return nil, aggregates.MapError(op, err)
		}
		if !scope.AllowsProject(isMember) {
			return nil, aggregates.NotFoundError(op, "report not found")
		}
	}
	return report, nil
}

func (rs *reportService) List(ctx context.Context, filter repos.ReportFilter) ([]*domain.Report, error) {
	const op = "report.list"
	scope := callerScope(ctx)
	if scope.Denied() {
		return nil, aggregates.ForbiddenError(op, "authentication required")
	}
	rows, err := rs.reportRepo.List(dbctx.Context{Ctx: ctx}, scope, filter)
	if err != nil {
		return nil, aggregates.MapError(op, err)
	}
	return rows, nil
}

func (rs *reportService) Update(ctx context.Context, id uuid.UUID, in UpdateReportInput) (*domain.Report, error) {
	const op = "report.update"
	scope := callerScope(ctx)
	if scope.Denied() {
		return nil, aggregates.ForbiddenError(op, "authentication required")
	}

	var updated *domain.Report
	err := rs.tx.InTx(ctx, func(dbc dbctx.Context) error {
		report, err := rs.reportRepo.GetByID(dbc, id)
		if err != nil {
			return aggregates.MapError(op, err)
		}
		if err := rs.authorizeMutation(dbc, scope, report, op); err != nil {
			return err
		}
		before := *report

		fields := map[string]any{}
		if in.Title != nil {
			title := strings.TrimSpace(*in.Title)
			if title == "" {
				return aggregates.ValidationError(op, "report title cannot be blank")
			}
			report.Title = title
			fields["title"] = title
		}
		if in.Content != nil {
			report.Content = *in.Content
			fields["content"] = *in.Content
		}
		if in.IsPublic != nil && *in.IsPublic != report.IsPublic {
			report.IsPublic = *in.IsPublic
			fields["is_public"] = *in.IsPublic
			if *in.IsPublic && report.PublishedAt == nil {
				now := time.Now().UTC()
				report.PublishedAt = &now
				fields["published_at"] = now
			}
		}

		if len(fields) > 0 {
			if err := rs.reportRepo.UpdateFields(dbc, id, fields); err != nil {
				return aggregates.MapError(op, err)
			}
			if dbc.Changes != nil {
				dbc.Changes.RecordUpdate(&before, report)
			}
		}
		updated = report
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func (rs *reportService) Delete(ctx context.Context, id uuid.UUID) error {
	const op = "report.delete"
	scope := callerScope(ctx)
	if scope.Denied() {
		return aggregates.ForbiddenError(op, "authentication required")
	}
	return rs.tx.InTx(ctx, func(dbc dbctx.Context) error {
		report, err := rs.reportRepo.GetByID(dbc, id)
		if err != nil {
			return aggregates.MapError(op, err)
		}
		if err := rs.authorizeMutation(dbc, scope, report, op); err != nil {
			return err
		}
		return aggregates.MapError(op, rs.reportRepo.Delete(dbc, report))
	})
}

// authorizeMutation runs the scope check first (out-of-scope rows stay
// hidden as not-found), then the ownership check: a visible report the
// caller did not author is forbidden.
func (rs *reportService) authorizeMutation(dbc dbctx.Context, scope access.Scope, report *domain.Report, op string) error {
	if !scope.IsAdministrator() {
		isMember, err := rs.memberRepo.Exists(dbc, report.ProjectID, scope.CallerID())
		if err != nil {
			return aggregates.MapError(op, err)
		}
		if !scope.AllowsProject(isMember) {
			return aggregates.NotFoundError(op, "report not found")
		}
	}
	if !scope.OwnsReport(report) {
		return aggregates.ForbiddenError(op, "only the author may modify this report")
	}
	return nil
}
