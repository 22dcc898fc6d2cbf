package store

import (
	"fmt"

	"github.com/zulandar/stagecraft/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// MainBranch is the implicit branch every work item has, row or no row.
const MainBranch = "main"

// AddComment appends a comment to a work item.
func AddComment(db *gorm.DB, id uint, author, body string) (*models.Comment, error) {
	if body == "" {
		return nil, fmt.Errorf("store: comment body is required")
	}
	comment := models.Comment{WorkItemID: id, Author: author, Body: body}
	if err := db.Create(&comment).Error; err != nil {
		return nil, fmt.Errorf("store: add comment to %d: %w", id, err)
	}
	return &comment, nil
}

// ListComments returns a work item's comments, oldest first.
func ListComments(db *gorm.DB, id uint) ([]models.Comment, error) {
	var comments []models.Comment
	if err := db.Where("work_item_id = ?", id).Order("created_at ASC, id ASC").Find(&comments).Error; err != nil {
		return nil, fmt.Errorf("store: list comments for %d: %w", id, err)
	}
	return comments, nil
}

// SaveCodeFile writes a file on a branch with last-write-wins semantics.
func SaveCodeFile(db *gorm.DB, id uint, branch, filename, content string) (*models.CodeFile, error) {
	if branch == "" {
		branch = MainBranch
	}
	if filename == "" {
		return nil, fmt.Errorf("store: filename is required")
	}
	file := models.CodeFile{WorkItemID: id, Branch: branch, Filename: filename, Content: content}
	result := db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "work_item_id"}, {Name: "branch"}, {Name: "filename"}},
		DoUpdates: clause.AssignmentColumns([]string{"content", "updated_at"}),
	}).Create(&file)
	if result.Error != nil {
		return nil, fmt.Errorf("store: save file %s@%s for %d: %w", filename, branch, id, result.Error)
	}
	return &file, nil
}

// GetCodeFile fetches one file from a branch.
func GetCodeFile(db *gorm.DB, id uint, branch, filename string) (*models.CodeFile, error) {
	if branch == "" {
		branch = MainBranch
	}
	var file models.CodeFile
	err := db.Where("work_item_id = ? AND branch = ? AND filename = ?", id, branch, filename).First(&file).Error
	if err != nil {
		return nil, fmt.Errorf("store: get file %s@%s for %d: %w", filename, branch, id, err)
	}
	return &file, nil
}

// ListCodeFiles returns the files recorded on a branch.
func ListCodeFiles(db *gorm.DB, id uint, branch string) ([]models.CodeFile, error) {
	if branch == "" {
		branch = MainBranch
	}
	var files []models.CodeFile
	if err := db.Where("work_item_id = ? AND branch = ?", id, branch).Order("filename ASC").Find(&files).Error; err != nil {
		return nil, fmt.Errorf("store: list files on %s for %d: %w", branch, id, err)
	}
	return files, nil
}

// CreateBranch records an explicit branch for a work item.
func CreateBranch(db *gorm.DB, id uint, name string) (*models.WorkspaceBranch, error) {
	if name == "" {
		return nil, fmt.Errorf("store: branch name is required")
	}
	if name == MainBranch {
		return nil, fmt.Errorf("store: branch %q is implicit and always exists", MainBranch)
	}
	branch := models.WorkspaceBranch{WorkItemID: id, Name: name}
	if err := db.Create(&branch).Error; err != nil {
		return nil, fmt.Errorf("store: create branch %s for %d: %w", name, id, err)
	}
	return &branch, nil
}

// ListBranches returns a work item's branches. The implicit main branch is
// always first, whether or not a row exists for it.
func ListBranches(db *gorm.DB, id uint) ([]models.WorkspaceBranch, error) {
	var branches []models.WorkspaceBranch
	if err := db.Where("work_item_id = ?", id).Order("name ASC").Find(&branches).Error; err != nil {
		return nil, fmt.Errorf("store: list branches for %d: %w", id, err)
	}
	result := []models.WorkspaceBranch{{WorkItemID: id, Name: MainBranch, Merged: true}}
	for _, b := range branches {
		if b.Name != MainBranch {
			result = append(result, b)
		}
	}
	return result, nil
}

// MergeBranch marks a branch merged.
func MergeBranch(db *gorm.DB, id uint, name string) error {
	if name == MainBranch {
		return fmt.Errorf("store: cannot merge %s into itself", MainBranch)
	}
	result := db.Model(&models.WorkspaceBranch{}).
		Where("work_item_id = ? AND name = ?", id, name).
		Update("merged", true)
	if result.Error != nil {
		return fmt.Errorf("store: merge branch %s for %d: %w", name, id, result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("store: merge branch %s for %d: %w", name, id, gorm.ErrRecordNotFound)
	}
	return nil
}

// RecordApproval stores a sign-off row. Nothing in the transition engine
// reads these; they are audit data only.
func RecordApproval(db *gorm.DB, id uint, stageName, approver, status, signature string) (*models.Approval, error) {
	if status == "" {
		status = "pending"
	}
	approval := models.Approval{
		WorkItemID: id,
		Stage:      stageName,
		Approver:   approver,
		Status:     status,
		Signature:  signature,
	}
	if err := db.Create(&approval).Error; err != nil {
		return nil, fmt.Errorf("store: record approval for %d: %w", id, err)
	}
	return &approval, nil
}

// ListApprovals returns a work item's recorded approvals.
func ListApprovals(db *gorm.DB, id uint) ([]models.Approval, error) {
	var approvals []models.Approval
	if err := db.Where("work_item_id = ?", id).Order("created_at ASC, id ASC").Find(&approvals).Error; err != nil {
		return nil, fmt.Errorf("store: list approvals for %d: %w", id, err)
	}
	return approvals, nil
}
