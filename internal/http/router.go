package http

import (
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	httpH "github.com/openhearth/charity-backend/internal/http/handlers"
	httpMW "github.com/openhearth/charity-backend/internal/http/middleware"
	"github.com/openhearth/charity-backend/internal/observability"
	"github.com/openhearth/charity-backend/internal/platform/logger"
)

type RouterConfig struct {
	Log            *logger.Logger
	Metrics        *observability.Metrics
	AllowedOrigins []string

	AuthMiddleware *httpMW.AuthMiddleware

	HealthHandler       *httpH.HealthHandler
	AuthHandler         *httpH.AuthHandler
	UserHandler         *httpH.UserHandler
	ProjectHandler      *httpH.ProjectHandler
	DonationHandler     *httpH.DonationHandler
	ReportHandler       *httpH.ReportHandler
	NotificationHandler *httpH.NotificationHandler
	DashboardHandler    *httpH.DashboardHandler
	AuditHandler        *httpH.AuditHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(otelgin.Middleware("charity-backend"))
	r.Use(httpMW.RequestLog(cfg.Log, cfg.Metrics))
	r.Use(httpMW.CORS(cfg.AllowedOrigins))

	if cfg.HealthHandler != nil {
		r.GET("/healthcheck", cfg.HealthHandler.HealthCheck)
	}
	if cfg.Metrics != nil {
		r.GET("/metrics", gin.WrapF(cfg.Metrics.Handler()))
	}

	api := r.Group("/api")
	{
		if cfg.AuthHandler != nil {
			api.POST("/login", cfg.AuthHandler.Login)
		}
	}

	protected := api.Group("/")
	{
		if cfg.AuthMiddleware != nil {
			protected.Use(cfg.AuthMiddleware.RequireAuth())
		}

		if cfg.UserHandler != nil {
			protected.GET("/me", cfg.UserHandler.GetMe)
			protected.POST("/users", cfg.UserHandler.Create)
			protected.GET("/users", cfg.UserHandler.List)
			protected.GET("/users/:id", cfg.UserHandler.Get)
			protected.PUT("/users/:id", cfg.UserHandler.Update)
			protected.DELETE("/users/:id", cfg.UserHandler.Delete)
		}

		if cfg.ProjectHandler != nil {
			protected.GET("/projects", cfg.ProjectHandler.List)
			protected.POST("/projects", cfg.ProjectHandler.Create)
			protected.GET("/projects/:id", cfg.ProjectHandler.Get)
			protected.PUT("/projects/:id", cfg.ProjectHandler.Update)
			protected.DELETE("/projects/:id", cfg.ProjectHandler.Delete)
			protected.POST("/projects/:id/members", cfg.ProjectHandler.AssignMember)
			protected.DELETE("/projects/:id/members/:userId", cfg.ProjectHandler.RemoveMember)
		}

		if cfg.DonationHandler != nil {
			protected.GET("/donations", cfg.DonationHandler.List)
			protected.POST("/donations", cfg.DonationHandler.Create)
			protected.GET("/donations/:id", cfg.DonationHandler.Get)
			protected.DELETE("/donations/:id", cfg.DonationHandler.Delete)
		}

		if cfg.ReportHandler != nil {
			protected.GET("/reports", cfg.ReportHandler.List)
			protected.POST("/reports", cfg.ReportHandler.Create)
			protected.GET("/reports/:id", cfg.ReportHandler.Get)
			protected.PUT("/reports/:id", cfg.ReportHandler.Update)
			protected.DELETE("/reports/:id", cfg.ReportHandler.Delete)
		}

		if cfg.NotificationHandler != nil {
			protected.GET("/notifications", cfg.NotificationHandler.List)
			protected.PATCH("/notifications/:id/send", cfg.NotificationHandler.MarkSent)
		}

		if cfg.DashboardHandler != nil {
			protected.GET("/dashboard", cfg.DashboardHandler.Summary)
		}

		if cfg.AuditHandler != nil {
			protected.GET("/audit-logs", cfg.AuditHandler.List)
		}
	}

	return r
}
