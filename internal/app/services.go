package app

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/openhearth/charity-backend/internal/clients/redis"
	"github.com/openhearth/charity-backend/internal/data/aggregates"
	"github.com/openhearth/charity-backend/internal/data/audit"
	"github.com/openhearth/charity-backend/internal/observability"
	"github.com/openhearth/charity-backend/internal/platform/logger"
	"github.com/openhearth/charity-backend/internal/services"
)

type Services struct {
	Auth         services.AuthService
	User         services.UserService
	Project      services.ProjectService
	Donation     services.DonationService
	Report       services.ReportService
	Notification services.NotificationService
	Dashboard    services.DashboardService
	Audit        services.AuditService

	TxRunner aggregates.TxRunner
	Funds    *aggregates.ProjectFunds
	Recorder *audit.Recorder
}

func wireServices(db *gorm.DB, log *logger.Logger, cfg Config, r Repos, metrics *observability.Metrics) (Services, error) {
	log.Info("Wiring services...")

	hooks := observability.NewMetricsHooks(metrics)
	recorder := audit.NewRecorder(log, hooks)
	txRunner := aggregates.NewGormTxRunner(db, recorder, hooks)
	funds := aggregates.NewProjectFunds(log, hooks)

	cache, err := redis.NewCache(log)
	if err != nil {
		return Services{}, fmt.Errorf("init redis cache: %w", err)
	}
	if cache == nil {
		log.Info("redis not configured, dashboard cache disabled")
	}

	return Services{
		Auth: services.NewAuthService(db, log, r.User, cfg.JWTSecretKey, cfg.AccessTokenTTL),
		User: services.NewUserService(db, log, txRunner, r.User, r.Role, r.ProjectMember),
		Project: services.NewProjectService(
			db, log, txRunner, r.Project, r.ProjectMember, r.User, r.Donation, r.Report,
		),
		Donation: services.NewDonationService(
			db, log, txRunner, funds,
			r.Donation, r.Project, r.ProjectMember, r.User, r.Notification,
			cfg.Channels, hooks,
		),
		Report:       services.NewReportService(db, log, txRunner, r.Report, r.ProjectMember),
		Notification: services.NewNotificationService(db, log, txRunner, r.Notification),
		Dashboard:    services.NewDashboardService(db, log, r.Project, r.Donation, cache),
		Audit:        services.NewAuditService(db, log, r.AuditLog),

		TxRunner: txRunner,
		Funds:    funds,
		Recorder: recorder,
	}, nil
}
