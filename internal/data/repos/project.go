package repos

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/openhearth/charity-backend/internal/access"
	"github.com/openhearth/charity-backend/internal/domain"
	"github.com/openhearth/charity-backend/internal/platform/dbctx"
	"github.com/openhearth/charity-backend/internal/platform/logger"
)

// ProjectFilter narrows project listings. Zero values mean "no filter".
type ProjectFilter struct {
	Status   domain.ProjectStatus
	MemberID uuid.UUID
	From     *time.Time
	To       *time.Time
	Search   string
	SortBy   string
	Desc     bool
}

type ProjectRepo interface {
	Create(dbc dbctx.Context, rows []*domain.Project) ([]*domain.Project, error)
	GetByID(dbc dbctx.Context, id uuid.UUID) (*domain.Project, error)
	// LockByID takes a row-level FOR UPDATE lock; requires an open
	// transaction. Serializes concurrent aggregate deltas on one project.
	LockByID(dbc dbctx.Context, id uuid.UUID) (*domain.Project, error)
	CodeExists(dbc dbctx.Context, code string) (bool, error)
	List(dbc dbctx.Context, scope access.Scope, filter ProjectFilter) ([]*domain.Project, error)
	CountByStatus(dbc dbctx.Context, scope access.Scope, status domain.ProjectStatus) (int64, error)
	Count(dbc dbctx.Context, scope access.Scope) (int64, error)
	UpdateFields(dbc dbctx.Context, id uuid.UUID, updates map[string]interface{}) error
	Delete(dbc dbctx.Context, row *domain.Project) error
}

type projectRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewProjectRepo(db *gorm.DB, log *logger.Logger) ProjectRepo {
	return &projectRepo{db: db, log: log.With("repo", "ProjectRepo")}
}

func (r *projectRepo) Create(dbc dbctx.Context, rows []*domain.Project) ([]*domain.Project, error) {
	if len(rows) == 0 {
		return []*domain.Project{}, nil
	}
	if err := session(dbc, r.db).Omit("Members").Create(&rows).Error; err != nil {
		return nil, err
	}
	if dbc.Changes != nil {
		for _, row := range rows {
			dbc.Changes.RecordCreate(row)
		}
	}
	return rows, nil
}

func (r *projectRepo) GetByID(dbc dbctx.Context, id uuid.UUID) (*domain.Project, error) {
	if id == uuid.Nil {
		return nil, fmt.Errorf("missing project id")
	}
	var out domain.Project
	if err := session(dbc, r.db).
		Preload("Members.User").
		Where("id = ?", id).
		Take(&out).Error; err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *projectRepo) LockByID(dbc dbctx.Context, id uuid.UUID) (*domain.Project, error) {
	if id == uuid.Nil {
		return nil, fmt.Errorf("missing project id")
	}
	if dbc.Tx == nil {
		return nil, fmt.Errorf("LockByID requires dbc.Tx")
	}
	var out domain.Project
	if err := dbc.Tx.WithContext(dbc.Ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ?", id).
		Take(&out).Error; err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *projectRepo) CodeExists(dbc dbctx.Context, code string) (bool, error) {
	var n int64
	if err := session(dbc, r.db).
		Model(&domain.Project{}).
		Where("code = ?", code).
		Count(&n).Error; err != nil {
		return false, err
	}
	return n > 0, nil
}

func (r *projectRepo) List(dbc dbctx.Context, scope access.Scope, filter ProjectFilter) ([]*domain.Project, error) {
	q := session(dbc, r.db).Model(&domain.Project{})
	q = scope.FilterProjects(q)

	if filter.Status != "" {
		q = q.Where("status = ?", filter.Status)
	}
	if filter.MemberID != uuid.Nil {
		q = q.Where(
			"EXISTS (SELECT 1 FROM project_member fm WHERE fm.project_id = project.id AND fm.user_id = ?)",
			filter.MemberID,
		)
	}
	if filter.From != nil {
		q = q.Where("start_date >= ?", *filter.From)
	}
	if filter.To != nil {
		q = q.Where("end_date <= ? OR end_date IS NULL", *filter.To)
	}
	if term := strings.ToLower(strings.TrimSpace(filter.Search)); term != "" {
		like := "%" + term + "%"
		q = q.Where("LOWER(name) LIKE ? OR LOWER(code) LIKE ? OR LOWER(description) LIKE ?", like, like, like)
	}
	q = q.Order(projectOrder(filter.SortBy, filter.Desc))

	var out []*domain.Project
	if err := q.Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func projectOrder(sortBy string, desc bool) string {
	col := "created_at"
	switch strings.ToLower(strings.TrimSpace(sortBy)) {
	case "name":
		col = "name"
	case "goal":
		col = "goal_amount"
	case "collected":
		col = "collected_amount"
	case "status":
		col = "status"
	}
	if desc {
		return col + " DESC"
	}
	return col + " ASC"
}

func (r *projectRepo) CountByStatus(dbc dbctx.Context, scope access.Scope, status domain.ProjectStatus) (int64, error) {
	var n int64
	q := session(dbc, r.db).Model(&domain.Project{}).Where("status = ?", status)
	if err := scope.FilterProjects(q).Count(&n).Error; err != nil {
		return 0, err
	}
	return n, nil
}

func (r *projectRepo) Count(dbc dbctx.Context, scope access.Scope) (int64, error) {
	var n int64
	q := session(dbc, r.db).Model(&domain.Project{})
	if err := scope.FilterProjects(q).Count(&n).Error; err != nil {
		return 0, err
	}
	return n, nil
}

func (r *projectRepo) UpdateFields(dbc dbctx.Context, id uuid.UUID, updates map[string]interface{}) error {
	if id == uuid.Nil {
		return fmt.Errorf("missing project id")
	}
	if updates == nil {
		updates = map[string]interface{}{}
	}
	updates["updated_at"] = time.Now().UTC()
	return session(dbc, r.db).
		Model(&domain.Project{}).
		Where("id = ?", id).
		Updates(updates).Error
}

func (r *projectRepo) Delete(dbc dbctx.Context, row *domain.Project) error {
	if row == nil || row.ID == uuid.Nil {
		return fmt.Errorf("missing project")
	}
	if err := session(dbc, r.db).
		Where("id = ?", row.ID).
		Delete(&domain.Project{}).Error; err != nil {
		return err
	}
	if dbc.Changes != nil {
		dbc.Changes.RecordDelete(row)
	}
	return nil
}
