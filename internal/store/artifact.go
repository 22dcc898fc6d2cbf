package store

import (
	"fmt"

	"github.com/zulandar/stagecraft/internal/engine"
	"github.com/zulandar/stagecraft/internal/models"
	"github.com/zulandar/stagecraft/internal/stage"
	"gorm.io/gorm"
)

// AddArtifactOpts holds parameters for recording an artifact.
type AddArtifactOpts struct {
	// Stage defaults to the item's current stage when empty.
	Stage     string
	Type      string
	Reference string
	Payload   []byte
}

// AddArtifact runs the admission checker and, when it passes, inserts the
// artifact row. The decision's denial is not an error.
func AddArtifact(db *gorm.DB, policy *stage.Policy, id uint, opts AddArtifactOpts) (engine.Decision, *models.Artifact, error) {
	unlock := lockItem(id)
	defer unlock()

	snap, err := Load(db, id)
	if err != nil {
		return engine.Decision{}, nil, err
	}

	target := opts.Stage
	if target == "" {
		target = snap.Item.CurrentStage
	}

	decision := engine.CanAddArtifact(policy, snap.Item, snap.History, snap.Artifacts, target, opts.Type, opts.Reference)
	if !decision.Allowed {
		return decision, nil, nil
	}

	artifact := models.Artifact{
		WorkItemID:   snap.Record.ID,
		Stage:        target,
		ArtifactType: opts.Type,
		Reference:    opts.Reference,
		Payload:      opts.Payload,
		Version:      1,
	}
	if err := db.Create(&artifact).Error; err != nil {
		return engine.Decision{}, nil, fmt.Errorf("store: create artifact for %d: %w", id, err)
	}
	return decision, &artifact, nil
}
