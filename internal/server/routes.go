package server

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/zulandar/stagecraft/internal/engine"
	"github.com/zulandar/stagecraft/internal/stage"
	"gorm.io/gorm"
)

// registerRoutes sets up all API routes on the Gin router.
func registerRoutes(router *gin.Engine, db *gorm.DB, policy *stage.Policy) {
	router.GET("/", handleHealth)
	router.GET("/stages", handleStages(policy))

	router.GET("/workitems", handleListWorkItems(db))
	router.POST("/workitems", handleCreateWorkItem(db))
	router.GET("/workitems/:id", handleGetWorkItem(db))
	router.PATCH("/workitems/:id", handleUpdateWorkItem(db))
	router.DELETE("/workitems/:id", handleDeleteWorkItem(db))

	router.POST("/workitems/:id/artifact", handleAddArtifact(db, policy))
	router.POST("/workitems/:id/transition", handleTransition(db, policy))
	router.GET("/workitems/:id/history", handleHistory(db))

	router.POST("/workitems/:id/comments", handleAddComment(db))
	router.GET("/workitems/:id/comments", handleListComments(db))
	router.PUT("/workitems/:id/files/:branch/*filename", handleSaveFile(db))
	router.GET("/workitems/:id/files/:branch/*filename", handleGetFile(db))
	router.GET("/workitems/:id/files/:branch", handleListFiles(db))
	router.POST("/workitems/:id/branches", handleCreateBranch(db))
	router.GET("/workitems/:id/branches", handleListBranches(db))
	router.POST("/workitems/:id/branches/:name/merge", handleMergeBranch(db))
	router.POST("/workitems/:id/approvals", handleRecordApproval(db))
	router.GET("/workitems/:id/approvals", handleListApprovals(db))

	router.GET("/board", handleBoard(db, policy))
	router.GET("/metrics", handleMetrics(db, policy))
}

func handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"message": "Stagecraft backend running"})
}

func handleStages(policy *stage.Policy) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"stages": policy.Stages})
	}
}

// itemID parses the :id path parameter, responding 400 itself on failure.
func itemID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid work item id"})
		return 0, false
	}
	return uint(id), true
}

// respondStoreError maps storage errors to 404 or 500.
func respondStoreError(c *gin.Context, err error) {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "work item not found"})
		return
	}
	c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
}

// denialStatus maps an engine decision class to an HTTP status.
func denialStatus(class engine.Class) int {
	if class == engine.ClassForbidden {
		return http.StatusForbidden
	}
	return http.StatusBadRequest
}
