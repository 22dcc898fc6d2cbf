package store

import (
	"fmt"

	"github.com/zulandar/stagecraft/internal/models"
	"github.com/zulandar/stagecraft/internal/stage"
	"gorm.io/gorm"
)

// BoardCard is the summary of one work item in a board column.
type BoardCard struct {
	ID                 uint   `json:"id"`
	PublicID           string `json:"public_id"`
	Title              string `json:"title"`
	DescriptionSnippet string `json:"description_snippet"`
	Priority           int    `json:"priority"`
	Assignee           string `json:"assignee,omitempty"`
}

// Board returns the work items grouped by current stage, newest first
// within each column. Every stage appears, empty or not.
func Board(db *gorm.DB, policy *stage.Policy) (map[string][]BoardCard, error) {
	board := make(map[string][]BoardCard, len(policy.Stages))
	for _, s := range policy.Stages {
		var items []models.WorkItem
		if err := db.Where("current_stage = ?", s).Order("created_at DESC, id DESC").Find(&items).Error; err != nil {
			return nil, fmt.Errorf("store: board column %s: %w", s, err)
		}
		cards := make([]BoardCard, len(items))
		for i, item := range items {
			cards[i] = BoardCard{
				ID:                 item.ID,
				PublicID:           item.PublicID,
				Title:              item.Title,
				DescriptionSnippet: snippet(item.Description, 80),
				Priority:           item.Priority,
				Assignee:           item.Assignee,
			}
		}
		board[s] = cards
	}
	return board, nil
}

// Metrics summarizes throughput across the whole database.
type Metrics struct {
	ItemsPerStage    map[string]int64 `json:"items_per_stage"`
	TotalItems       int64            `json:"total_items"`
	TotalTransitions int64            `json:"total_stage_transitions"`
	TotalRegressions int64            `json:"total_regressions"`
}

// CollectMetrics computes the metrics payload.
func CollectMetrics(db *gorm.DB, policy *stage.Policy) (*Metrics, error) {
	m := &Metrics{ItemsPerStage: make(map[string]int64, len(policy.Stages))}
	for _, s := range policy.Stages {
		var count int64
		if err := db.Model(&models.WorkItem{}).Where("current_stage = ?", s).Count(&count).Error; err != nil {
			return nil, fmt.Errorf("store: count stage %s: %w", s, err)
		}
		m.ItemsPerStage[s] = count
	}
	if err := db.Model(&models.WorkItem{}).Count(&m.TotalItems).Error; err != nil {
		return nil, fmt.Errorf("store: count items: %w", err)
	}
	if err := db.Model(&models.TransitionLog{}).Count(&m.TotalTransitions).Error; err != nil {
		return nil, fmt.Errorf("store: count transitions: %w", err)
	}
	if err := db.Model(&models.TransitionLog{}).Where("reason IS NOT NULL").Count(&m.TotalRegressions).Error; err != nil {
		return nil, fmt.Errorf("store: count regressions: %w", err)
	}
	return m, nil
}

func snippet(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max] + "..."
}
