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

type CreateProjectInput struct {
	Code        string
	Name        string
	Description string
	GoalAmount  decimal.Decimal
	StartDate   time.Time
	EndDate     *time.Time
}

// UpdateProjectInput uses pointers to distinguish "leave alone" from
// "set to this value".
type UpdateProjectInput struct {
	Name        *string
	Description *string
	GoalAmount  *decimal.Decimal
	EndDate     *time.Time
	ClearEnd    bool
	Status      *domain.ProjectStatus
	IsArchived  *bool
}

type ProjectService interface {
	Create(ctx context.Context, in CreateProjectInput) (*domain.Project, error)
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Project, error)
	List(ctx context.Context, filter repos.ProjectFilter) ([]*domain.Project, error)
	Update(ctx context.Context, id uuid.UUID, in UpdateProjectInput) (*domain.Project, error)
	Delete(ctx context.Context, id uuid.UUID) error
	AssignMember(ctx context.Context, projectID, userID uuid.UUID, assignmentRole string) (*domain.ProjectMember, error)
	RemoveMember(ctx context.Context, projectID, userID uuid.UUID) error
}

type projectService struct {
	db           *gorm.DB
	log          *logger.Logger
	tx           aggregates.TxRunner
	projectRepo  repos.ProjectRepo
	memberRepo   repos.ProjectMemberRepo
	userRepo     repos.UserRepo
	donationRepo repos.DonationRepo
	reportRepo   repos.ReportRepo
}

func NewProjectService(
	db *gorm.DB,
	log *logger.Logger,
	tx aggregates.TxRunner,
	projectRepo repos.ProjectRepo,
	memberRepo repos.ProjectMemberRepo,
	userRepo repos.UserRepo,
	donationRepo repos.DonationRepo,
	reportRepo repos.ReportRepo,
) ProjectService {
	return &projectService{
		db:           db,
		log:          log.With("service", "ProjectService"),
		tx:           tx,
		projectRepo:  projectRepo,
		memberRepo:   memberRepo,
		userRepo:     userRepo,
		donationRepo: donationRepo,
		reportRepo:   reportRepo,
	}
}

func (ps *projectService) Create(ctx context.Context, in CreateProjectInput) (*domain.Project, error) {
	const op = "project.create"
	if !callerScope(ctx).IsAdministrator() {
		return nil, aggregates.ForbiddenError(op, "administrator role required")
	}

	code := strings.ToUpper(strings.TrimSpace(in.Code))
	name := strings.TrimSpace(in.Name)
	goal := domain.RoundAmount(in.GoalAmount)
	switch {
	case code == "":
		return nil, aggregates.ValidationError(op, "project code is required")
	case name == "":
		return nil, aggregates.ValidationError(op, "project name is required")
	case goal.Sign() <= 0:
		return nil, aggregates.ValidationError(op, "goal amount must be positive")
	case in.StartDate.IsZero():
		return nil, aggregates.ValidationError(op, "start date is required")
	case in.EndDate != nil && in.EndDate.Before(in.StartDate):
		return nil, aggregates.ValidationError(op, "end date precedes start date")
	}

	var created *domain.Project
	err := ps.tx.InTx(ctx, func(dbc dbctx.Context) error {
		taken, err := ps.projectRepo.CodeExists(dbc, code)
		if err != nil {
			return aggregates.MapError(op, err)
		}
		if taken {
			return aggregates.ConflictError(op, "project code already in use")
		}
		now := time.Now().UTC()
		project := &domain.Project{
			ID:              uuid.New(),
			Code:            code,
			Name:            name,
			Description:     strings.TrimSpace(in.Description),
			GoalAmount:      goal,
			CollectedAmount: decimal.Zero,
			StartDate:       in.StartDate,
			EndDate:         in.EndDate,
			Status:          domain.ProjectDraft,
			CreatedAt:       now,
			UpdatedAt:       now,
		}
		rows, err := ps.projectRepo.Create(dbc, []*domain.Project{project})
		if err != nil {
			return aggregates.MapError(op, err)
		}
		created = rows[0]
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

func (ps *projectService) GetByID(ctx context.Context, id uuid.UUID) (*domain.Project, error) {
	const op = "project.get"
	scope := callerScope(ctx)
	if scope.Denied() {
		return nil, aggregates.NotFoundError(op, "project not found")
	}
	dbc := dbctx.Context{Ctx: ctx}
	project, err := ps.projectRepo.GetByID(dbc, id)
	if err != nil {
		return nil, aggregates.MapError(op, err)
	}
	if !scope.IsAdministrator() {
		isMember, err := ps.memberRepo.Exists(dbc, id, scope.CallerID())
		if err != nil {
			return nil, aggregates.MapError(op, err)
		}
		if !scope.AllowsProject(isMember) {
			return nil, aggregates.NotFoundError(op, "project not found")
		}
	}
	return project, nil
}

func (ps *projectService) List(ctx context.Context, filter repos.ProjectFilter) ([]*domain.Project, error) {
	const op = "project.list"
	scope := callerScope(ctx)
	if scope.Denied() {
		return nil, aggregates.ForbiddenError(op, "authentication required")
	}
	rows, err := ps.projectRepo.List(dbctx.Context{Ctx: ctx}, scope, filter)
	if err != nil {
		return nil, aggregates.MapError(op, err)
	}
	return rows, nil
}

// Update applies a partial edit. Goal amount and end date freeze once the
// project goes active; status edits must follow the lifecycle.
func (ps *projectService) Update(ctx context.Context, id uuid.UUID, in UpdateProjectInput) (*domain.Project, error) {
	const op = "project.update"
	if !callerScope(ctx).IsAdministrator() {
		return nil, aggregates.ForbiddenError(op, "administrator role required")
	}

	var updated *domain.Project
	err := ps.tx.InTx(ctx, func(dbc dbctx.Context) error {
		project, err := ps.projectRepo.LockByID(dbc, id)
		if err != nil {
			return aggregates.MapError(op, err)
		}
		before := *project

		if project.Status == domain.ProjectActive {
			if in.GoalAmount != nil && !domain.RoundAmount(*in.GoalAmount).Equal(project.GoalAmount) {
				return aggregates.ConflictError(op, "goal amount is locked while the project is active")
			}
			if (in.EndDate != nil && !sameTimePtr(in.EndDate, project.EndDate)) ||
				(in.ClearEnd && project.EndDate != nil) {
				return aggregates.ConflictError(op, "end date is locked while the project is active")
			}
		}

		fields := map[string]interface{}{}
		if in.Name != nil {
			name := strings.TrimSpace(*in.Name)
			if name == "" {
				return aggregates.ValidationError(op, "project name cannot be blank")
			}
			project.Name = name
			fields["name"] = name
		}
		if in.Description != nil {
			project.Description = strings.TrimSpace(*in.Description)
			fields["description"] = project.Description
		}
		if in.GoalAmount != nil && project.Status != domain.ProjectActive {
			goal := domain.RoundAmount(*in.GoalAmount)
			if goal.Sign() <= 0 {
				return aggregates.ValidationError(op, "goal amount must be positive")
			}
			project.GoalAmount = goal
			fields["goal_amount"] = goal
		}
		if project.Status != domain.ProjectActive {
			if in.ClearEnd {
				project.EndDate = nil
				fields["end_date"] = gorm.Expr("NULL")
			} else if in.EndDate != nil {
				if in.EndDate.Before(project.StartDate) {
					return aggregates.ValidationError(op, "end date precedes start date")
				}
				project.EndDate = in.EndDate
				fields["end_date"] = *in.EndDate
			}
		}
		if in.Status != nil && *in.Status != project.Status {
			if !in.Status.Valid() {
				return aggregates.ValidationError(op, "unknown project status")
			}
			if !project.Status.CanTransitionTo(*in.Status) {
				return aggregates.ConflictError(op, "status transition not allowed")
			}
			project.Status = *in.Status
			fields["status"] = *in.Status
		}
		if in.IsArchived != nil && *in.IsArchived != project.IsArchived {
			project.IsArchived = *in.IsArchived
			fields["is_archived"] = *in.IsArchived
		}

		if len(fields) > 0 {
			if err := ps.projectRepo.UpdateFields(dbc, id, fields); err != nil {
				return aggregates.MapError(op, err)
			}
			project.UpdatedAt = time.Now().UTC()
			if dbc.Changes != nil {
				dbc.Changes.RecordUpdate(&before, project)
			}
		}
		updated = project
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// Delete removes a project along with its memberships and reports. Projects
// that have received donations cannot be deleted.
func (ps *projectService) Delete(ctx context.Context, id uuid.UUID) error {
	const op = "project.delete"
	if !callerScope(ctx).IsAdministrator() {
		return aggregates.ForbiddenError(op, "administrator role required")
	}
	return ps.tx.InTx(ctx, func(dbc dbctx.Context) error {
		project, err := ps.projectRepo.LockByID(dbc, id)
		if err != nil {
			return aggregates.MapError(op, err)
		}
		hasDonations, err := ps.donationRepo.ExistsByProject(dbc, id)
		if err != nil {
			return aggregates.MapError(op, err)
		}
		if hasDonations {
			return aggregates.ConflictError(op, "project has donations and cannot be deleted")
		}
		reports, err := ps.reportRepo.ListByProject(dbc, id)
		if err != nil {
			return aggregates.MapError(op, err)
		}
		for _, report := range reports {
			if err := ps.reportRepo.Delete(dbc, report); err != nil {
				return aggregates.MapError(op, err)
			}
		}
		members, err := ps.memberRepo.ListByProject(dbc, id)
		if err != nil {
			return aggregates.MapError(op, err)
		}
		for _, member := range members {
			if err := ps.memberRepo.Delete(dbc, member.ProjectID, member.UserID); err != nil {
				return aggregates.MapError(op, err)
			}
		}
		if err := ps.projectRepo.Delete(dbc, project); err != nil {
			return aggregates.MapError(op, err)
		}
		return nil
	})
}

func (ps *projectService) AssignMember(ctx context.Context, projectID, userID uuid.UUID, assignmentRole string) (*domain.ProjectMember, error) {
	const op = "project.assign_member"
	if !callerScope(ctx).IsAdministrator() {
		return nil, aggregates.ForbiddenError(op, "administrator role required")
	}
	var created *domain.ProjectMember
	err := ps.tx.InTx(ctx, func(dbc dbctx.Context) error {
		if _, err := ps.projectRepo.GetByID(dbc, projectID); err != nil {
			return aggregates.MapError(op, err)
		}
		if _, err := ps.userRepo.GetByID(dbc, userID); err != nil {
			return aggregates.MapError(op, err)
		}
		exists, err := ps.memberRepo.Exists(dbc, projectID, userID)
		if err != nil {
			return aggregates.MapError(op, err)
		}
		if exists {
			return aggregates.ConflictError(op, "user is already a member")
		}
		role := strings.TrimSpace(assignmentRole)
		if role == "" {
			role = "Member"
		}
		member := &domain.ProjectMember{
			ProjectID:      projectID,
			UserID:         userID,
			AssignmentRole: role,
			AssignedAt:     time.Now().UTC(),
		}
		rows, err := ps.memberRepo.Create(dbc, []*domain.ProjectMember{member})
		if err != nil {
			return aggregates.MapError(op, err)
		}
		created = rows[0]
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

func (ps *projectService) RemoveMember(ctx context.Context, projectID, userID uuid.UUID) error {
	const op = "project.remove_member"
	if !callerScope(ctx).IsAdministrator() {
		return aggregates.ForbiddenError(op, "administrator role required")
	}
	return ps.tx.InTx(ctx, func(dbc dbctx.Context) error {
		if err := ps.memberRepo.Delete(dbc, projectID, userID); err != nil {
			return aggregates.MapError(op, err)
		}
		return nil
	})
}

func sameTimePtr(a, b *time.Time) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.Equal(*b)
}
