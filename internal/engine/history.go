package engine

import (
	"time"

	"github.com/zulandar/stagecraft/internal/stage"
)

// RegressionCount counts regressions in an ordered history log. A regression
// is recognized when the log's destination sequence drops: consecutive
// entries whose to-stage index decreases from one record to the next.
//
// Note this deliberately compares adjacent destinations rather than the
// from/to pair of a single record; the quota tables are calibrated against
// this rule, so it must not be "simplified" to a per-record from>to test.
func RegressionCount(p *stage.Policy, history []Transition) int {
	count := 0
	for i := 1; i < len(history); i++ {
		prev := p.Index(history[i-1].To)
		cur := p.Index(history[i].To)
		if prev >= 0 && cur >= 0 && cur < prev {
			count++
		}
	}
	return count
}

// TransitionCount returns the total number of logged transitions.
func TransitionCount(history []Transition) int {
	return len(history)
}

// TimeInCurrentStage returns how long the item has been in its current
// stage: since the most recent log entry that moved it there, or since
// creation if the item never left its initial stage.
func TimeInCurrentStage(item Item, history []Transition, now time.Time) time.Duration {
	entered := item.CreatedAt
	for i := len(history) - 1; i >= 0; i-- {
		if history[i].To == item.CurrentStage {
			entered = history[i].At
			break
		}
	}
	return now.Sub(entered)
}
