package repos

import (
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/openhearth/charity-backend/internal/access"
	"github.com/openhearth/charity-backend/internal/domain"
	"github.com/openhearth/charity-backend/internal/platform/dbctx"
	"github.com/openhearth/charity-backend/internal/platform/logger"
)

type ReportFilter struct {
	ProjectID uuid.UUID
	AuthorID  uuid.UUID
}

type ReportRepo interface {
	Create(dbc dbctx.Context, row *domain.Report) (*domain.Report, error)
	GetByID(dbc dbctx.Context, id uuid.UUID) (*domain.Report, error)
	List(dbc dbctx.Context, scope access.Scope, filter ReportFilter) ([]*domain.Report, error)
	ListByProject(dbc dbctx.Context, projectID uuid.UUID) ([]*domain.Report, error)
	UpdateFields(dbc dbctx.Context, id uuid.UUID, fields map[string]any) error
	Delete(dbc dbctx.Context, row *domain.Report) error
}

type reportRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewReportRepo(db *gorm.DB, log *logger.Logger) ReportRepo {
	return &reportRepo{db: db, log: log.With("repo", "ReportRepo")}
}

func (r *reportRepo) Create(dbc dbctx.Context, row *domain.Report) (*domain.Report, error) {
	if row == nil {
		return nil, fmt.Errorf("missing report")
	}
	if err := session(dbc, r.db).Create(row).Error; err != nil {
		return nil, err
	}
	if dbc.Changes != nil {
		dbc.Changes.RecordCreate(row)
	}
	return row, nil
}

func (r *reportRepo) GetByID(dbc dbctx.Context, id uuid.UUID) (*domain.Report, error) {
	if id == uuid.Nil {
		return nil, fmt.Errorf("missing report id")
	}
	var out domain.Report
	if err := session(dbc, r.db).Where("id = ?", id).Take(&out).Error; err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *reportRepo) List(dbc dbctx.Context, scope access.Scope, filter ReportFilter) ([]*domain.Report, error) {
	q := session(dbc, r.db).Model(&domain.Report{})
	q = scope.FilterReports(q)
	if filter.ProjectID != uuid.Nil {
		q = q.Where("project_id = ?", filter.ProjectID)
	}
	if filter.AuthorID != uuid.Nil {
		q = q.Where("created_by_id = ?", filter.AuthorID)
	}
	var out []*domain.Report
	if err := q.Order("created_at DESC").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *reportRepo) ListByProject(dbc dbctx.Context, projectID uuid.UUID) ([]*domain.Report, error) {
	if projectID == uuid.Nil {
		return nil, fmt.Errorf("missing project id")
	}
	var out []*domain.Report
	if err := session(dbc, r.db).
		Where("project_id = ?", projectID).
		Order("created_at DESC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *reportRepo) UpdateFields(dbc dbctx.Context, id uuid.UUID, fields map[string]any) error {
	if id == uuid.Nil {
		return fmt.Errorf("missing report id")
	}
	if len(fields) == 0 {
		return nil
	}
	res := session(dbc, r.db).Model(&domain.Report{}).Where("id = ?", id).Updates(fields)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *reportRepo) Delete(dbc dbctx.Context, row *domain.Report) error {
	if row == nil || row.ID == uuid.Nil {
		return fmt.Errorf("missing report")
	}
	if err := session(dbc, r.db).
		Where("id = ?", row.ID).
		Delete(&domain.Report{}).Error; err != nil {
		return err
	}
	if dbc.Changes != nil {
		dbc.Changes.RecordDelete(row)
	}
	return nil
}
