package models

import "time"

// Comment is a free-form discussion entry on a work item.
type Comment struct {
	ID         uint   `gorm:"primaryKey"`
	WorkItemID uint   `gorm:"index;not null"`
	Author     string `gorm:"size:64"`
	Body       string `gorm:"type:text;not null"`
	CreatedAt  time.Time
}

// CodeFile is a versioned-by-overwrite file in a work item's workspace,
// keyed by (work item, branch, filename) with last-write-wins semantics.
type CodeFile struct {
	ID         uint   `gorm:"primaryKey"`
	WorkItemID uint   `gorm:"uniqueIndex:idx_code_file,priority:1"`
	Branch     string `gorm:"size:128;not null;uniqueIndex:idx_code_file,priority:2"`
	Filename   string `gorm:"size:255;not null;uniqueIndex:idx_code_file,priority:3"`
	Content    string `gorm:"type:text"`
	UpdatedAt  time.Time
}

// WorkspaceBranch tracks explicit branch existence and merge status for a
// work item. "main" is implicit: it exists for every item even with no row.
type WorkspaceBranch struct {
	ID         uint   `gorm:"primaryKey"`
	WorkItemID uint   `gorm:"uniqueIndex:idx_branch,priority:1"`
	Name       string `gorm:"size:128;not null;uniqueIndex:idx_branch,priority:2"`
	Merged     bool   `gorm:"default:false"`
	CreatedAt  time.Time
}
