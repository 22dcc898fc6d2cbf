package models

import "time"

// Artifact is a typed piece of evidence attached to a work item at the
// stage it was produced in. The stage tag is frozen at creation; it is not
// re-evaluated as the item moves. At most one artifact may exist per
// (work item, stage, type) slot: the admission checker enforces it and
// the composite unique index backstops it.
type Artifact struct {
	ID           uint   `gorm:"primaryKey"`
	WorkItemID   uint   `gorm:"uniqueIndex:idx_artifact_slot,priority:1"`
	Stage        string `gorm:"size:50;not null;uniqueIndex:idx_artifact_slot,priority:2"`
	ArtifactType string `gorm:"size:100;not null;uniqueIndex:idx_artifact_slot,priority:3"`
	Reference    string `gorm:"size:255"`
	Payload      []byte `gorm:"type:blob"`
	Version      int    `gorm:"default:1"`
	Locked       bool   `gorm:"default:false"`
	CreatedAt    time.Time
}
