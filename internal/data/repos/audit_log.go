package repos

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/openhearth/charity-backend/internal/domain"
	"github.com/openhearth/charity-backend/internal/platform/dbctx"
	"github.com/openhearth/charity-backend/internal/platform/logger"
)

const (
	auditPageMin     = 10
	auditPageMax     = 500
	auditPageDefault = 50
)

type AuditLogFilter struct {
	EntityName string
	EntityID   uuid.UUID
	From       *time.Time
	To         *time.Time
	Page       int
	PageSize   int
}

// AuditLogRepo is read-only on purpose. Rows are inserted by the audit
// recorder inside the committing transaction and never touched again.
type AuditLogRepo interface {
	List(dbc dbctx.Context, filter AuditLogFilter) ([]*domain.AuditLog, int64, error)
}

type auditLogRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewAuditLogRepo(db *gorm.DB, log *logger.Logger) AuditLogRepo {
	return &auditLogRepo{db: db, log: log.With("repo", "AuditLogRepo")}
}

// ClampAuditPage normalizes paging input. Zero size means the default;
// anything outside [10, 500] is pulled back to the nearest bound.
func ClampAuditPage(page, size int) (int, int) {
	if page < 1 {
		page = 1
	}
	switch {
	case size == 0:
		size = auditPageDefault
	case size < auditPageMin:
		size = auditPageMin
	case size > auditPageMax:
		size = auditPageMax
	}
	return page, size
}

func (r *auditLogRepo) List(dbc dbctx.Context, filter AuditLogFilter) ([]*domain.AuditLog, int64, error) {
	page, size := ClampAuditPage(filter.Page, filter.PageSize)

	q := session(dbc, r.db).Model(&domain.AuditLog{})
	if filter.EntityName != "" {
		q = q.Where("entity_name = ?", filter.EntityName)
	}
	if filter.EntityID != uuid.Nil {
		q = q.Where("entity_id = ?", filter.EntityID)
	}
	if filter.From != nil {
		q = q.Where("created_at >= ?", *filter.From)
	}
	if filter.To != nil {
		q = q.Where("created_at <= ?", *filter.To)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var out []*domain.AuditLog
	if err := q.
		Order("created_at DESC").
		Offset((page - 1) * size).
		Limit(size).
		Find(&out).Error; err != nil {
		return nil, 0, err
	}
	return out, total, nil
}
