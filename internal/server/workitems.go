package server

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/zulandar/stagecraft/internal/engine"
	"github.com/zulandar/stagecraft/internal/models"
	"github.com/zulandar/stagecraft/internal/stage"
	"github.com/zulandar/stagecraft/internal/store"
	"gorm.io/gorm"
)

type createWorkItemRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Priority    *int   `json:"priority"`
	Assignee    string `json:"assignee"`
	ProjectID   *uint  `json:"project_id"`
	OwnerID     *uint  `json:"owner_id"`
}

func handleCreateWorkItem(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req createWorkItemRequest
		if err := c.ShouldBindJSON(&req); err != nil || req.Title == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "title is required"})
			return
		}
		priority := 2
		if req.Priority != nil {
			priority = *req.Priority
		}
		item, err := store.Create(db, store.CreateOpts{
			ProjectID:   req.ProjectID,
			Title:       req.Title,
			Description: req.Description,
			Priority:    priority,
			Assignee:    req.Assignee,
			OwnerID:     req.OwnerID,
		})
		if err != nil {
			respondStoreError(c, err)
			return
		}
		c.JSON(http.StatusCreated, gin.H{
			"message":   "work item created",
			"id":        item.ID,
			"public_id": item.PublicID,
		})
	}
}

func handleListWorkItems(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		items, err := store.List(db, store.ListFilters{
			Stage:    c.Query("stage"),
			Assignee: c.Query("assignee"),
		})
		if err != nil {
			respondStoreError(c, err)
			return
		}
		out := make([]gin.H, len(items))
		for i, item := range items {
			out[i] = workItemJSON(&item)
		}
		c.JSON(http.StatusOK, out)
	}
}

func handleGetWorkItem(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := itemID(c)
		if !ok {
			return
		}
		snap, err := store.Load(db, id)
		if err != nil {
			respondStoreError(c, err)
			return
		}

		var artifacts []models.Artifact
		if err := db.Where("work_item_id = ?", id).Order("created_at ASC, id ASC").Find(&artifacts).Error; err != nil {
			respondStoreError(c, err)
			return
		}

		detail := workItemJSON(&snap.Record)
		detail["artifacts"] = artifactsJSON(artifacts)
		detail["history"] = historyJSON(snap.History)
		c.JSON(http.StatusOK, detail)
	}
}

type updateWorkItemRequest struct {
	Priority *int    `json:"priority"`
	Assignee *string `json:"assignee"`
	OwnerID  *uint   `json:"owner_id"`
}

func handleUpdateWorkItem(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := itemID(c)
		if !ok {
			return
		}
		var req updateWorkItemRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
			return
		}
		err := store.Update(db, id, store.UpdateFields{
			Priority: req.Priority,
			Assignee: req.Assignee,
			OwnerID:  req.OwnerID,
		})
		if err != nil {
			respondStoreError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "work item updated"})
	}
}

func handleDeleteWorkItem(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := itemID(c)
		if !ok {
			return
		}
		if err := store.Delete(db, id); err != nil {
			respondStoreError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "work item deleted"})
	}
}

type addArtifactRequest struct {
	ArtifactType string `json:"artifact_type"`
	Reference    string `json:"reference"`
	Stage        string `json:"stage"`
}

func handleAddArtifact(db *gorm.DB, policy *stage.Policy) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := itemID(c)
		if !ok {
			return
		}
		var req addArtifactRequest
		if err := c.ShouldBindJSON(&req); err != nil || req.ArtifactType == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "artifact_type is required"})
			return
		}

		snap, err := store.Load(db, id)
		if err != nil {
			respondStoreError(c, err)
			return
		}

		// Caller policy: only types the current stage's catalog names may be
		// submitted over HTTP. The engine's quality checker itself applies no
		// whitelist.
		target := req.Stage
		if target == "" {
			target = snap.Item.CurrentStage
		}
		allowed := policy.RequiredArtifacts(target)
		if !containsType(allowed, req.ArtifactType) {
			c.JSON(http.StatusBadRequest, gin.H{
				"error":         "invalid artifact type for stage",
				"stage":         target,
				"allowed_types": allowed,
			})
			return
		}

		decision, artifact, err := store.AddArtifact(db, policy, id, store.AddArtifactOpts{
			Stage:     req.Stage,
			Type:      req.ArtifactType,
			Reference: req.Reference,
		})
		if err != nil {
			respondStoreError(c, err)
			return
		}
		if !decision.Allowed {
			c.JSON(denialStatus(decision.Class), gin.H{
				"blocked": true,
				"reason":  decision.Message,
				"meta":    decision.Meta,
			})
			return
		}
		c.JSON(http.StatusCreated, gin.H{
			"message":     "artifact recorded",
			"artifact_id": artifact.ID,
			"stage":       artifact.Stage,
			"type":        artifact.ArtifactType,
			"meta":        decision.Meta,
		})
	}
}

type transitionRequest struct {
	TargetStage string `json:"target_stage"`
	Reason      string `json:"reason"`
	ActorID     uint   `json:"actor_id"`
	ActorRole   string `json:"actor_role"`
}

func handleTransition(db *gorm.DB, policy *stage.Policy) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := itemID(c)
		if !ok {
			return
		}
		var req transitionRequest
		if err := c.ShouldBindJSON(&req); err != nil || req.TargetStage == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "target_stage is required"})
			return
		}

		actor := engine.Actor{ID: req.ActorID, Role: req.ActorRole}
		decision, err := store.Transition(db, policy, id, req.TargetStage, req.Reason, actor)
		if err != nil {
			respondStoreError(c, err)
			return
		}
		if !decision.Allowed {
			snap, loadErr := store.Load(db, id)
			body := gin.H{
				"blocked":      true,
				"reason":       decision.Message,
				"target_stage": req.TargetStage,
				"meta":         decision.Meta,
			}
			if loadErr == nil {
				body["current_stage"] = snap.Item.CurrentStage
				body["required_artifacts"] = policy.RequiredArtifacts(snap.Item.CurrentStage)
				body["uploaded_artifacts"] = stageArtifactTypes(snap.Artifacts, snap.Item.CurrentStage)
			}
			c.JSON(denialStatus(decision.Class), body)
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"blocked":   false,
			"message":   decision.Message,
			"new_stage": req.TargetStage,
			"meta":      decision.Meta,
		})
	}
}

func handleHistory(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := itemID(c)
		if !ok {
			return
		}
		snap, err := store.Load(db, id)
		if err != nil {
			respondStoreError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"work_item_id":  id,
			"current_stage": snap.Item.CurrentStage,
			"history":       historyJSON(snap.History),
		})
	}
}

func handleBoard(db *gorm.DB, policy *stage.Policy) gin.HandlerFunc {
	return func(c *gin.Context) {
		board, err := store.Board(db, policy)
		if err != nil {
			respondStoreError(c, err)
			return
		}
		c.JSON(http.StatusOK, board)
	}
}

func handleMetrics(db *gorm.DB, policy *stage.Policy) gin.HandlerFunc {
	return func(c *gin.Context) {
		metrics, err := store.CollectMetrics(db, policy)
		if err != nil {
			respondStoreError(c, err)
			return
		}
		c.JSON(http.StatusOK, metrics)
	}
}

func workItemJSON(item *models.WorkItem) gin.H {
	out := gin.H{
		"id":               item.ID,
		"public_id":        item.PublicID,
		"title":            item.Title,
		"description":      item.Description,
		"current_stage":    item.CurrentStage,
		"priority":         item.Priority,
		"assignee":         item.Assignee,
		"regression_count": item.RegressionCount,
		"transition_count": item.TransitionCount,
		"created_at":       item.CreatedAt.Format(time.RFC3339),
		"updated_at":       item.UpdatedAt.Format(time.RFC3339),
	}
	if item.OwnerID != nil {
		out["owner_id"] = *item.OwnerID
	}
	if item.LastTransitionAt != nil {
		out["last_transition_at"] = item.LastTransitionAt.Format(time.RFC3339)
	}
	return out
}

func artifactsJSON(artifacts []models.Artifact) []gin.H {
	out := make([]gin.H, len(artifacts))
	for i, a := range artifacts {
		out[i] = gin.H{
			"type":       a.ArtifactType,
			"stage":      a.Stage,
			"reference":  a.Reference,
			"version":    a.Version,
			"created_at": a.CreatedAt.Format(time.RFC3339),
		}
	}
	return out
}

func historyJSON(history []engine.Transition) []gin.H {
	out := make([]gin.H, len(history))
	for i, h := range history {
		entry := gin.H{
			"from":      h.From,
			"to":        h.To,
			"timestamp": h.At.Format(time.RFC3339),
		}
		if h.Reason != nil {
			entry["reason"] = *h.Reason
		}
		out[i] = entry
	}
	return out
}

func stageArtifactTypes(artifacts []engine.ArtifactRecord, stageName string) []string {
	types := []string{}
	for _, a := range artifacts {
		if a.Stage == stageName {
			types = append(types, a.Type)
		}
	}
	return types
}

func containsType(types []string, t string) bool {
	for _, candidate := range types {
		if candidate == t {
			return true
		}
	}
	return false
}
