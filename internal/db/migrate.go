package db

import (
	"fmt"

	"github.com/zulandar/stagecraft/internal/models"
	"gorm.io/gorm"
)

// AllModels returns the list of all GORM models for migration.
func AllModels() []interface{} {
	return []interface{}{
		&models.Project{},
		&models.User{},
		&models.WorkItem{},
		&models.Artifact{},
		&models.TransitionLog{},
		&models.Comment{},
		&models.CodeFile{},
		&models.WorkspaceBranch{},
		&models.Approval{},
	}
}

// AutoMigrate creates or updates all tables.
func AutoMigrate(db *gorm.DB) error {
	if err := db.AutoMigrate(AllModels()...); err != nil {
		return fmt.Errorf("db: auto-migrate: %w", err)
	}
	return nil
}
