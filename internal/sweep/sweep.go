// Package sweep periodically reports work items that have overstayed their
// stage's dwell limit. The scan is read-only: overdue items are surfaced,
// never moved.
package sweep

import (
	"context"
	"fmt"
	"io"
	"log"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/zulandar/stagecraft/internal/engine"
	"github.com/zulandar/stagecraft/internal/models"
	"github.com/zulandar/stagecraft/internal/stage"
	"github.com/zulandar/stagecraft/internal/store"
	"gorm.io/gorm"
)

// cronParser uses standard 5-field cron expressions (minute, hour, dom, month, dow).
var cronParser = cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow)

// Overdue describes one work item past its stage's dwell limit.
type Overdue struct {
	WorkItemID uint
	PublicID   string
	Title      string
	Stage      string
	Days       int
	LimitDays  int
}

// Scan returns every work item whose time in its current stage exceeds the
// stage's timeout. Stages with no timeout never report.
func Scan(db *gorm.DB, policy *stage.Policy, now time.Time) ([]Overdue, error) {
	var items []models.WorkItem
	if err := db.Find(&items).Error; err != nil {
		return nil, fmt.Errorf("sweep: list work items: %w", err)
	}

	var overdue []Overdue
	for _, item := range items {
		limit := policy.TimeoutDays(item.CurrentStage)
		if limit <= 0 {
			continue
		}
		snap, err := store.Load(db, item.ID)
		if err != nil {
			return nil, err
		}
		elapsed := engine.TimeInCurrentStage(snap.Item, snap.History, now)
		if elapsed > time.Duration(limit)*24*time.Hour {
			overdue = append(overdue, Overdue{
				WorkItemID: item.ID,
				PublicID:   item.PublicID,
				Title:      item.Title,
				Stage:      item.CurrentStage,
				Days:       int(elapsed.Hours() / 24),
				LimitDays:  limit,
			})
		}
	}
	return overdue, nil
}

// Report writes a human-readable overdue report.
func Report(w io.Writer, overdue []Overdue) {
	if len(overdue) == 0 {
		fmt.Fprintln(w, "No overdue work items.")
		return
	}
	for _, o := range overdue {
		fmt.Fprintf(w, "%s %q: %d days in %s (limit %d)\n", o.PublicID, o.Title, o.Days, o.Stage, o.LimitDays)
	}
}

// Run scans on the given cron schedule until ctx is cancelled.
func Run(ctx context.Context, db *gorm.DB, policy *stage.Policy, schedule string) error {
	sched, err := cronParser.Parse(schedule)
	if err != nil {
		return fmt.Errorf("sweep: parse schedule %q: %w", schedule, err)
	}

	for {
		next := sched.Next(time.Now())
		timer := time.NewTimer(time.Until(next))
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil
		case now := <-timer.C:
			overdue, err := Scan(db, policy, now)
			if err != nil {
				log.Printf("sweep: scan failed: %v", err)
				continue
			}
			for _, o := range overdue {
				log.Printf("sweep: %s %q overdue: %d days in %s (limit %d)", o.PublicID, o.Title, o.Days, o.Stage, o.LimitDays)
			}
		}
	}
}
