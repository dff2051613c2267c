package app

import (
	httpH "github.com/openhearth/charity-backend/internal/http/handlers"
	httpMW "github.com/openhearth/charity-backend/internal/http/middleware"
	"github.com/openhearth/charity-backend/internal/platform/logger"
)

type Handlers struct {
	Health       *httpH.HealthHandler
	Auth         *httpH.AuthHandler
	User         *httpH.UserHandler
	Project      *httpH.ProjectHandler
	Donation     *httpH.DonationHandler
	Report       *httpH.ReportHandler
	Notification *httpH.NotificationHandler
	Dashboard    *httpH.DashboardHandler
	Audit        *httpH.AuditHandler
}

func wireHandlers(s Services) Handlers {
	return Handlers{
		Health:       httpH.NewHealthHandler(),
		Auth:         httpH.NewAuthHandler(s.Auth),
		User:         httpH.NewUserHandler(s.User),
		Project:      httpH.NewProjectHandler(s.Project),
		Donation:     httpH.NewDonationHandler(s.Donation),
		Report:       httpH.NewReportHandler(s.Report),
		Notification: httpH.NewNotificationHandler(s.Notification),
		Dashboard:    httpH.NewDashboardHandler(s.Dashboard),
		Audit:        httpH.NewAuditHandler(s.Audit),
	}
}

func wireMiddleware(log *logger.Logger, s Services) *httpMW.AuthMiddleware {
	return httpMW.NewAuthMiddleware(log, s.Auth)
}
