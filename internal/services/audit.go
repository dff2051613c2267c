package services

import (
	"context"

	"gorm.io/gorm"

	"github.com/openhearth/charity-backend/internal/data/aggregates"
	"github.com/openhearth/charity-backend/internal/data/repos"
	"github.com/openhearth/charity-backend/internal/domain"
	"github.com/openhearth/charity-backend/internal/platform/dbctx"
	"github.com/openhearth/charity-backend/internal/platform/logger"
)

// AuditService exposes the audit trail to administrators. Read-only:
// audit rows are written by the recorder at commit time and are never
// edited afterwards.
type AuditService interface {
	List(ctx context.Context, filter repos.AuditLogFilter) ([]*domain.AuditLog, int64, error)
}

type auditService struct {
	db           *gorm.DB
	log          *logger.Logger
	auditLogRepo repos.AuditLogRepo
}

func NewAuditService(db *gorm.DB, log *logger.Logger, auditLogRepo repos.AuditLogRepo) AuditService {
	return &auditService{
		db:           db,
		log:          log.With("service", "AuditService"),
		auditLogRepo: auditLogRepo,
	}
}

func (as *auditService) List(ctx context.Context, filter repos.AuditLogFilter) ([]*domain.AuditLog, int64, error) {
	const op = "audit.list"
	if !callerScope(ctx).IsAdministrator() {
		return nil, 0, aggregates.ForbiddenError(op, "administrator role required")
	}
	rows, total, err := as.auditLogRepo.List(dbctx.Context{Ctx: ctx}, filter)
	if err != nil {
		return nil, 0, aggregates.MapError(op, err)
	}
	return rows, total, nil
}
