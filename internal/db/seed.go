package db

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/openhearth/charity-backend/internal/domain"
)

// SeedRoles ensures the two built-in roles exist. Idempotent.
func (s *PostgresService) SeedRoles() error {
	roles := []domain.Role{
		{Name: domain.RoleAdministrator, Description: "Full access to every project and record."},
		{Name: domain.RoleVolunteer, Description: "Access limited to assigned projects."},
	}
	for _, role := range roles {
		var existing domain.Role
		err := s.db.Where("name = ?", role.Name).Take(&existing).Error
		if err == nil {
			continue
		}
		role.ID = uuid.New()
		if err := s.db.Create(&role).Error; err != nil {
			return fmt.Errorf("seed role %s: %w", role.Name, err)
		}
		s.log.Info("seeded role", "role", role.Name)
	}
	return nil
}
