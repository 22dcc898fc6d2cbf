package store

import (
	"fmt"

	"github.com/zulandar/stagecraft/internal/engine"
	"github.com/zulandar/stagecraft/internal/models"
	"github.com/zulandar/stagecraft/internal/stage"
	"gorm.io/gorm"
)

// CounterDrift reports a work item whose denormalized counters disagree
// with what its transition log derives. Any drift is a bug.
type CounterDrift struct {
	WorkItemID        uint
	PublicID          string
	StoredRegressions int
	ActualRegressions int
	StoredTransitions int
	ActualTransitions int
}

// CheckCounters recomputes every work item's counters from its log and
// returns the items that drifted.
func CheckCounters(db *gorm.DB, policy *stage.Policy) ([]CounterDrift, error) {
	var items []models.WorkItem
	if err := db.Find(&items).Error; err != nil {
		return nil, fmt.Errorf("store: list work items: %w", err)
	}

	var drifted []CounterDrift
	for _, item := range items {
		snap, err := Load(db, item.ID)
		if err != nil {
			return nil, err
		}
		regressions := engine.RegressionCount(policy, snap.History)
		transitions := engine.TransitionCount(snap.History)
		if regressions != item.RegressionCount || transitions != item.TransitionCount {
			drifted = append(drifted, CounterDrift{
				WorkItemID:        item.ID,
				PublicID:          item.PublicID,
				StoredRegressions: item.RegressionCount,
				ActualRegressions: regressions,
				StoredTransitions: item.TransitionCount,
				ActualTransitions: transitions,
			})
		}
	}
	return drifted, nil
}
