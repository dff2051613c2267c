package app

import (
	"gorm.io/gorm"

	"github.com/openhearth/charity-backend/internal/data/repos"
	"github.com/openhearth/charity-backend/internal/platform/logger"
)

type Repos struct {
	Role          repos.RoleRepo
	User          repos.UserRepo
	Project       repos.ProjectRepo
	ProjectMember repos.ProjectMemberRepo
	Donation      repos.DonationRepo
	Report        repos.ReportRepo
	Notification  repos.NotificationRepo
	AuditLog      repos.AuditLogRepo
}

func wireRepos(db *gorm.DB, log *logger.Logger) Repos {
	log.Info("Wiring repos...")
	return Repos{
		Role:          repos.NewRoleRepo(db, log),
		User:          repos.NewUserRepo(db, log),
		Project:       repos.NewProjectRepo(db, log),
		ProjectMember: repos.NewProjectMemberRepo(db, log),
		Donation:      repos.NewDonationRepo(db, log),
		Report:        repos.NewReportRepo(db, log),
		Notification:  repos.NewNotificationRepo(db, log),
		AuditLog:      repos.NewAuditLogRepo(db, log),
	}
}
