// Package store is the persistence layer around the validation engine. It
// loads work-item snapshots, runs evaluations, and commits each allowed
// decision as exactly one state mutation plus one log append, atomically,
// serialized per work item.
package store

import (
	"fmt"

	"github.com/zulandar/stagecraft/internal/engine"
	"github.com/zulandar/stagecraft/internal/models"
	"gorm.io/gorm"
)

// Snapshot is the consistent view of a work item the engine evaluates
// against: the item row, its ordered transition history, and its artifacts.
type Snapshot struct {
	Record    models.WorkItem
	Item      engine.Item
	History   []engine.Transition
	Artifacts []engine.ArtifactRecord
}

// Load assembles a snapshot for the work item. Returns
// gorm.ErrRecordNotFound (wrapped) if the item does not exist.
func Load(db *gorm.DB, id uint) (*Snapshot, error) {
	var item models.WorkItem
	if err := db.First(&item, id).Error; err != nil {
		return nil, fmt.Errorf("store: load work item %d: %w", id, err)
	}

	var logs []models.TransitionLog
	if err := db.Where("work_item_id = ?", id).Order("transitioned_at ASC, id ASC").Find(&logs).Error; err != nil {
		return nil, fmt.Errorf("store: load history for %d: %w", id, err)
	}

	var artifacts []models.Artifact
	if err := db.Where("work_item_id = ?", id).Find(&artifacts).Error; err != nil {
		return nil, fmt.Errorf("store: load artifacts for %d: %w", id, err)
	}

	snap := &Snapshot{
		Record: item,
		Item: engine.Item{
			ID:           item.ID,
			PublicID:     item.PublicID,
			CurrentStage: item.CurrentStage,
			Owner:        item.OwnerID,
			CreatedAt:    item.CreatedAt,
		},
	}
	for _, l := range logs {
		snap.History = append(snap.History, engine.Transition{
			From:   l.FromStage,
			To:     l.ToStage,
			Reason: l.Reason,
			At:     l.TransitionedAt,
		})
	}
	for _, a := range artifacts {
		snap.Artifacts = append(snap.Artifacts, engine.ArtifactRecord{
			Stage:     a.Stage,
			Type:      a.ArtifactType,
			Reference: a.Reference,
		})
	}
	return snap, nil
}
