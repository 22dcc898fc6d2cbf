package models

import "time"

// TransitionLog is the append-only audit record of a stage change. Rows are
// never updated or deleted except by cascading work-item deletion; ordered
// by TransitionedAt ascending they form the canonical history.
type TransitionLog struct {
	ID         uint   `gorm:"primaryKey"`
	WorkItemID uint   `gorm:"index;not null"`
	FromStage  string `gorm:"size:50;not null"`
	ToStage    string `gorm:"size:50;not null"`
	// Reason is populated only for regressions.
	Reason         *string   `gorm:"type:text"`
	TransitionedAt time.Time `gorm:"index"`
}
