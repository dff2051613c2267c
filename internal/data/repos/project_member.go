package repos

import (
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/openhearth/charity-backend/internal/domain"
	"github.com/openhearth/charity-backend/internal/platform/dbctx"
	"github.com/openhearth/charity-backend/internal/platform/logger"
)

type ProjectMemberRepo interface {
	Create(dbc dbctx.Context, rows []*domain.ProjectMember) ([]*domain.ProjectMember, error)
	Get(dbc dbctx.Context, projectID, userID uuid.UUID) (*domain.ProjectMember, error)
	Exists(dbc dbctx.Context, projectID, userID uuid.UUID) (bool, error)
	ListByProject(dbc dbctx.Context, projectID uuid.UUID) ([]*domain.ProjectMember, error)
	ListByUser(dbc dbctx.Context, userID uuid.UUID) ([]*domain.ProjectMember, error)
	Delete(dbc dbctx.Context, projectID, userID uuid.UUID) error
}

type projectMemberRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewProjectMemberRepo(db *gorm.DB, log *logger.Logger) ProjectMemberRepo {
	return &projectMemberRepo{db: db, log: log.With("repo", "ProjectMemberRepo")}
}

func (r *projectMemberRepo) Create(dbc dbctx.Context, rows []*domain.ProjectMember) ([]*domain.ProjectMember, error) {
	if len(rows) == 0 {
		return []*domain.ProjectMember{}, nil
	}
	if err := session(dbc, r.db).Omit("User").Create(&rows).Error; err != nil {
		return nil, err
	}
	if dbc.Changes != nil {
		for _, row := range rows {
			dbc.Changes.RecordCreate(row)
		}
	}
	return rows, nil
}

func (r *projectMemberRepo) Get(dbc dbctx.Context, projectID, userID uuid.UUID) (*domain.ProjectMember, error) {
	if projectID == uuid.Nil || userID == uuid.Nil {
		return nil, fmt.Errorf("missing membership key")
	}
	var out domain.ProjectMember
	if err := session(dbc, r.db).
		Where("project_id = ? AND user_id = ?", projectID, userID).
		Take(&out).Error; err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *projectMemberRepo) Exists(dbc dbctx.Context, projectID, userID uuid.UUID) (bool, error) {
	if projectID == uuid.Nil || userID == uuid.Nil {
		return false, nil
	}
	var n int64
	if err := session(dbc, r.db).
		Model(&domain.ProjectMember{}).
		Where("project_id = ? AND user_id = ?", projectID, userID).
		Count(&n).Error; err != nil {
		return false, err
	}
	return n > 0, nil
}

func (r *projectMemberRepo) ListByProject(dbc dbctx.Context, projectID uuid.UUID) ([]*domain.ProjectMember, error) {
	if projectID == uuid.Nil {
		return nil, fmt.Errorf("missing project id")
	}
	var out []*domain.ProjectMember
	if err := session(dbc, r.db).
		Preload("User").
		Where("project_id = ?", projectID).
		Order("assigned_at ASC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *projectMemberRepo) ListByUser(dbc dbctx.Context, userID uuid.UUID) ([]*domain.ProjectMember, error) {
	if userID == uuid.Nil {
		return nil, fmt.Errorf("missing user id")
	}
	var out []*domain.ProjectMember
	if err := session(dbc, r.db).
		Where("user_id = ?", userID).
		Order("assigned_at ASC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *projectMemberRepo) Delete(dbc dbctx.Context, projectID, userID uuid.UUID) error {
	if projectID == uuid.Nil || userID == uuid.Nil {
		return fmt.Errorf("missing membership key")
	}
	existing, err := r.Get(dbc, projectID, userID)
	if err != nil {
		return err
	}
	if err := session(dbc, r.db).
		Where("project_id = ? AND user_id = ?", projectID, userID).
		Delete(&domain.ProjectMember{}).Error; err != nil {
		return err
	}
	if dbc.Changes != nil {
		dbc.Changes.RecordDelete(existing)
	}
	return nil
}
