package models

import "time"

// WorkItem is the governed unit of work moving through the SDLC stages.
//
// RegressionCount and TransitionCount are denormalized from the transition
// log and are only ever updated inside the same transaction as a log
// append; store.CheckCounters verifies they never drift.
type WorkItem struct {
	ID           uint   `gorm:"primaryKey"`
	PublicID     string `gorm:"size:16;uniqueIndex"`
	ProjectID    *uint  `gorm:"index"`
	Title        string `gorm:"size:100;not null"`
	Description  string `gorm:"type:text"`
	CurrentStage string `gorm:"size:50;default:Requirement;index"`
	Priority     int    `gorm:"default:2"`
	Assignee     string `gorm:"size:64"`
	OwnerID      *uint  `gorm:"index"`

	RegressionCount int `gorm:"default:0"`
	TransitionCount int `gorm:"default:0"`

	CreatedAt        time.Time
	UpdatedAt        time.Time
	LastTransitionAt *time.Time

	Artifacts      []Artifact        `gorm:"foreignKey:WorkItemID;constraint:OnDelete:CASCADE"`
	TransitionLogs []TransitionLog   `gorm:"foreignKey:WorkItemID;constraint:OnDelete:CASCADE"`
	Comments       []Comment         `gorm:"foreignKey:WorkItemID;constraint:OnDelete:CASCADE"`
	CodeFiles      []CodeFile        `gorm:"foreignKey:WorkItemID;constraint:OnDelete:CASCADE"`
	Branches       []WorkspaceBranch `gorm:"foreignKey:WorkItemID;constraint:OnDelete:CASCADE"`
	Approvals      []Approval        `gorm:"foreignKey:WorkItemID;constraint:OnDelete:CASCADE"`
}
