package store

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"

	"github.com/zulandar/stagecraft/internal/models"
	"github.com/zulandar/stagecraft/internal/stage"
	"gorm.io/gorm"
)

// CreateOpts holds parameters for creating a new work item.
type CreateOpts struct {
	ProjectID   *uint
	Title       string
	Description string
	Priority    int
	Assignee    string
	OwnerID     *uint
}

// ListFilters holds optional filters for listing work items.
type ListFilters struct {
	Stage     string
	ProjectID *uint
	Assignee  string
}

// GeneratePublicID creates a short public identifier in wi-xxxxx format.
func GeneratePublicID() (string, error) {
	b := make([]byte, 3)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("store: generate public ID: %w", err)
	}
	return "wi-" + hex.EncodeToString(b)[:5], nil
}

// Create creates a work item in the initial stage with zero counters.
func Create(db *gorm.DB, opts CreateOpts) (*models.WorkItem, error) {
	if opts.Title == "" {
		return nil, fmt.Errorf("store: title is required")
	}
	publicID, err := GeneratePublicID()
	if err != nil {
		return nil, err
	}

	item := models.WorkItem{
		PublicID:     publicID,
		ProjectID:    opts.ProjectID,
		Title:        opts.Title,
		Description:  opts.Description,
		CurrentStage: stage.Requirement,
		Priority:     opts.Priority,
		Assignee:     opts.Assignee,
		OwnerID:      opts.OwnerID,
	}
	if err := db.Create(&item).Error; err != nil {
		return nil, fmt.Errorf("store: create work item: %w", err)
	}
	return &item, nil
}

// Get fetches a work item by numeric ID.
func Get(db *gorm.DB, id uint) (*models.WorkItem, error) {
	var item models.WorkItem
	if err := db.First(&item, id).Error; err != nil {
		return nil, fmt.Errorf("store: get work item %d: %w", id, err)
	}
	return &item, nil
}

// List returns work items matching the filters, newest first.
func List(db *gorm.DB, filters ListFilters) ([]models.WorkItem, error) {
	q := db.Model(&models.WorkItem{})
	if filters.Stage != "" {
		q = q.Where("current_stage = ?", filters.Stage)
	}
	if filters.ProjectID != nil {
		q = q.Where("project_id = ?", *filters.ProjectID)
	}
	if filters.Assignee != "" {
		q = q.Where("assignee = ?", filters.Assignee)
	}
	var items []models.WorkItem
	if err := q.Order("created_at DESC, id DESC").Find(&items).Error; err != nil {
		return nil, fmt.Errorf("store: list work items: %w", err)
	}
	return items, nil
}

// UpdateFields applies unguarded edits (priority, assignee). Stage and
// counters are only ever changed through Transition.
type UpdateFields struct {
	Priority *int
	Assignee *string
	OwnerID  *uint
}

// Update applies the given field edits to a work item.
func Update(db *gorm.DB, id uint, fields UpdateFields) error {
	updates := map[string]interface{}{}
	if fields.Priority != nil {
		updates["priority"] = *fields.Priority
	}
	if fields.Assignee != nil {
		updates["assignee"] = *fields.Assignee
	}
	if fields.OwnerID != nil {
		updates["owner_id"] = *fields.OwnerID
	}
	if len(updates) == 0 {
		return nil
	}
	result := db.Model(&models.WorkItem{}).Where("id = ?", id).Updates(updates)
	if result.Error != nil {
		return fmt.Errorf("store: update work item %d: %w", id, result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("store: update work item %d: %w", id, gorm.ErrRecordNotFound)
	}
	return nil
}

// Delete removes a work item and all dependent rows.
func Delete(db *gorm.DB, id uint) error {
	return db.Transaction(func(tx *gorm.DB) error {
		// SQLite does not always enforce cascades; delete children explicitly.
		for _, child := range []interface{}{
			&models.Artifact{}, &models.TransitionLog{}, &models.Comment{},
			&models.CodeFile{}, &models.WorkspaceBranch{}, &models.Approval{},
		} {
			if err := tx.Where("work_item_id = ?", id).Delete(child).Error; err != nil {
				return fmt.Errorf("store: delete children of %d: %w", id, err)
			}
		}
		result := tx.Delete(&models.WorkItem{}, id)
		if result.Error != nil {
			return fmt.Errorf("store: delete work item %d: %w", id, result.Error)
		}
		if result.RowsAffected == 0 {
			return fmt.Errorf("store: delete work item %d: %w", id, gorm.ErrRecordNotFound)
		}
		return nil
	})
}
