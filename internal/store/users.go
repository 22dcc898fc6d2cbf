package store

import (
	"fmt"

	"github.com/zulandar/stagecraft/internal/models"
	"gorm.io/gorm"
)

// CreateUser records a user with a pre-hashed credential.
func CreateUser(db *gorm.DB, username, displayName, role, credential string) (*models.User, error) {
	if username == "" {
		return nil, fmt.Errorf("store: username is required")
	}
	user := models.User{
		Username:    username,
		DisplayName: displayName,
		Role:        role,
		Credential:  credential,
	}
	if err := db.Create(&user).Error; err != nil {
		return nil, fmt.Errorf("store: create user %s: %w", username, err)
	}
	return &user, nil
}

// GetUserByUsername fetches a user by unique username.
func GetUserByUsername(db *gorm.DB, username string) (*models.User, error) {
	var user models.User
	if err := db.Where("username = ?", username).First(&user).Error; err != nil {
		return nil, fmt.Errorf("store: get user %s: %w", username, err)
	}
	return &user, nil
}

// CreateProject records a project.
func CreateProject(db *gorm.DB, key, name, description string) (*models.Project, error) {
	if key == "" || name == "" {
		return nil, fmt.Errorf("store: project key and name are required")
	}
	project := models.Project{Key: key, Name: name, Description: description}
	if err := db.Create(&project).Error; err != nil {
		return nil, fmt.Errorf("store: create project %s: %w", key, err)
	}
	return &project, nil
}

// DeleteProject removes a project and all its work items.
func DeleteProject(db *gorm.DB, id uint) error {
	return db.Transaction(func(tx *gorm.DB) error {
		var items []models.WorkItem
		if err := tx.Where("project_id = ?", id).Find(&items).Error; err != nil {
			return fmt.Errorf("store: list project %d items: %w", id, err)
		}
		for _, item := range items {
			if err := Delete(tx, item.ID); err != nil {
				return err
			}
		}
		result := tx.Delete(&models.Project{}, id)
		if result.Error != nil {
			return fmt.Errorf("store: delete project %d: %w", id, result.Error)
		}
		if result.RowsAffected == 0 {
			return fmt.Errorf("store: delete project %d: %w", id, gorm.ErrRecordNotFound)
		}
		return nil
	})
}
