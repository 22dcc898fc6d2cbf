package store

import (
	"fmt"
	"strings"
	"time"

	"github.com/zulandar/stagecraft/internal/engine"
	"github.com/zulandar/stagecraft/internal/models"
	"github.com/zulandar/stagecraft/internal/stage"
	"gorm.io/gorm"
)

// Transition evaluates a stage change and, if allowed, commits it: one
// transition-log append plus the stage/counter/timestamp mutation, in a
// single transaction. The returned decision carries post-commit counts on
// success and pre-evaluation counts on denial. A denial is not an error;
// errors are storage faults only.
func Transition(db *gorm.DB, policy *stage.Policy, id uint, target, reason string, actor engine.Actor) (engine.Decision, error) {
	unlock := lockItem(id)
	defer unlock()

	snap, err := Load(db, id)
	if err != nil {
		return engine.Decision{}, err
	}

	now := time.Now().UTC()
	decision := engine.EvaluateTransition(policy, snap.Item, snap.History, snap.Artifacts, target, reason, actor, now)
	if !decision.Allowed {
		return decision, nil
	}

	isRegression := policy.Index(target) < policy.Index(snap.Item.CurrentStage)
	var logReason *string
	if isRegression {
		trimmed := strings.TrimSpace(reason)
		logReason = &trimmed
	}

	entry := engine.Transition{From: snap.Item.CurrentStage, To: target, Reason: logReason, At: now}

	// Counters are recomputed with the analyzer's own rule over the
	// about-to-be-committed history, so the stored values can never diverge
	// from what the log derives.
	newHistory := append(append([]engine.Transition{}, snap.History...), entry)
	newRegressions := engine.RegressionCount(policy, newHistory)
	newTransitions := engine.TransitionCount(newHistory)

	err = db.Transaction(func(tx *gorm.DB) error {
		row := models.TransitionLog{
			WorkItemID:     snap.Record.ID,
			FromStage:      entry.From,
			ToStage:        entry.To,
			Reason:         entry.Reason,
			TransitionedAt: entry.At,
		}
		if err := tx.Create(&row).Error; err != nil {
			return fmt.Errorf("append transition log: %w", err)
		}
		updates := map[string]interface{}{
			"current_stage":      target,
			"last_transition_at": now,
			"updated_at":         now,
			"transition_count":   newTransitions,
			"regression_count":   newRegressions,
		}
		if err := tx.Model(&snap.Record).Updates(updates).Error; err != nil {
			return fmt.Errorf("update work item: %w", err)
		}
		return nil
	})
	if err != nil {
		return engine.Decision{}, fmt.Errorf("store: commit transition for %d: %w", id, err)
	}

	decision.Meta.RegressionCount = newRegressions
	decision.Meta.TotalTransitions = newTransitions
	return decision, nil
}
