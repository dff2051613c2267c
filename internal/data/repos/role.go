package repos

import (
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/openhearth/charity-backend/internal/domain"
	"github.com/openhearth/charity-backend/internal/platform/dbctx"
	"github.com/openhearth/charity-backend/internal/platform/logger"
)

type RoleRepo interface {
	Create(dbc dbctx.Context, rows []*domain.Role) ([]*domain.Role, error)
	GetByID(dbc dbctx.Context, id uuid.UUID) (*domain.Role, error)
	GetByName(dbc dbctx.Context, name string) (*domain.Role, error)
	List(dbc dbctx.Context) ([]*domain.Role, error)
}

type roleRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewRoleRepo(db *gorm.DB, log *logger.Logger) RoleRepo {
	return &roleRepo{db: db, log: log.With("repo", "RoleRepo")}
}

func (r *roleRepo) Create(dbc dbctx.Context, rows []*domain.Role) ([]*domain.Role, error) {
	if len(rows) == 0 {
		return []*domain.Role{}, nil
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

func (r *roleRepo) GetByID(dbc dbctx.Context, id uuid.UUID) (*domain.Role, error) {
	if id == uuid.Nil {
		return nil, fmt.Errorf("missing role id")
	}
	var out domain.Role
	if err := session(dbc, r.db).Where("id = ?", id).Take(&out).Error; err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *roleRepo) GetByName(dbc dbctx.Context, name string) (*domain.Role, error) {
	var out domain.Role
	if err := session(dbc, r.db).Where("LOWER(name) = LOWER(?)", name).Take(&out).Error; err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *roleRepo) List(dbc dbctx.Context) ([]*domain.Role, error) {
	var out []*domain.Role
	if err := session(dbc, r.db).Order("name ASC").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}
