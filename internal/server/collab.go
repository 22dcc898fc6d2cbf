package server

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/zulandar/stagecraft/internal/store"
	"gorm.io/gorm"
)

// itemExists responds 404 itself when the work item is missing.
func itemExists(c *gin.Context, db *gorm.DB, id uint) bool {
	if _, err := store.Get(db, id); err != nil {
		respondStoreError(c, err)
		return false
	}
	return true
}

type addCommentRequest struct {
	Author string `json:"author"`
	Body   string `json:"body"`
}

func handleAddComment(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := itemID(c)
		if !ok || !itemExists(c, db, id) {
			return
		}
		var req addCommentRequest
		if err := c.ShouldBindJSON(&req); err != nil || req.Body == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "body is required"})
			return
		}
		comment, err := store.AddComment(db, id, req.Author, req.Body)
		if err != nil {
			respondStoreError(c, err)
			return
		}
		c.JSON(http.StatusCreated, gin.H{"message": "comment added", "comment_id": comment.ID})
	}
}

func handleListComments(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := itemID(c)
		if !ok || !itemExists(c, db, id) {
			return
		}
		comments, err := store.ListComments(db, id)
		if err != nil {
			respondStoreError(c, err)
			return
		}
		out := make([]gin.H, len(comments))
		for i, comment := range comments {
			out[i] = gin.H{
				"id":         comment.ID,
				"author":     comment.Author,
				"body":       comment.Body,
				"created_at": comment.CreatedAt.Format(time.RFC3339),
			}
		}
		c.JSON(http.StatusOK, out)
	}
}

type saveFileRequest struct {
	Content string `json:"content"`
}

// filenameParam strips the leading slash Gin keeps on wildcard params.
func filenameParam(c *gin.Context) string {
	return strings.TrimPrefix(c.Param("filename"), "/")
}

func handleSaveFile(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := itemID(c)
		if !ok || !itemExists(c, db, id) {
			return
		}
		var req saveFileRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
			return
		}
		file, err := store.SaveCodeFile(db, id, c.Param("branch"), filenameParam(c), req.Content)
		if err != nil {
			respondStoreError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"message":  "file saved",
			"branch":   file.Branch,
			"filename": file.Filename,
		})
	}
}

func handleGetFile(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := itemID(c)
		if !ok || !itemExists(c, db, id) {
			return
		}
		file, err := store.GetCodeFile(db, id, c.Param("branch"), filenameParam(c))
		if err != nil {
			respondStoreError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"branch":     file.Branch,
			"filename":   file.Filename,
			"content":    file.Content,
			"updated_at": file.UpdatedAt.Format(time.RFC3339),
		})
	}
}

func handleListFiles(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := itemID(c)
		if !ok || !itemExists(c, db, id) {
			return
		}
		files, err := store.ListCodeFiles(db, id, c.Param("branch"))
		if err != nil {
			respondStoreError(c, err)
			return
		}
		out := make([]gin.H, len(files))
		for i, f := range files {
			out[i] = gin.H{"filename": f.Filename, "updated_at": f.UpdatedAt.Format(time.RFC3339)}
		}
		c.JSON(http.StatusOK, out)
	}
}

type createBranchRequest struct {
	Name string `json:"name"`
}

func handleCreateBranch(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := itemID(c)
		if !ok || !itemExists(c, db, id) {
			return
		}
		var req createBranchRequest
		if err := c.ShouldBindJSON(&req); err != nil || req.Name == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "name is required"})
			return
		}
		branch, err := store.CreateBranch(db, id, req.Name)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusCreated, gin.H{"message": "branch created", "name": branch.Name})
	}
}

func handleListBranches(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := itemID(c)
		if !ok || !itemExists(c, db, id) {
			return
		}
		branches, err := store.ListBranches(db, id)
		if err != nil {
			respondStoreError(c, err)
			return
		}
		out := make([]gin.H, len(branches))
		for i, b := range branches {
			out[i] = gin.H{"name": b.Name, "merged": b.Merged}
		}
		c.JSON(http.StatusOK, out)
	}
}

func handleMergeBranch(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := itemID(c)
		if !ok || !itemExists(c, db, id) {
			return
		}
		if err := store.MergeBranch(db, id, c.Param("name")); err != nil {
			respondStoreError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "branch merged", "name": c.Param("name")})
	}
}

type recordApprovalRequest struct {
	Stage     string `json:"stage"`
	Approver  string `json:"approver"`
	Status    string `json:"status"`
	Signature string `json:"signature"`
}

func handleRecordApproval(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := itemID(c)
		if !ok || !itemExists(c, db, id) {
			return
		}
		var req recordApprovalRequest
		if err := c.ShouldBindJSON(&req); err != nil || req.Stage == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "stage is required"})
			return
		}
		approval, err := store.RecordApproval(db, id, req.Stage, req.Approver, req.Status, req.Signature)
		if err != nil {
			respondStoreError(c, err)
			return
		}
		c.JSON(http.StatusCreated, gin.H{"message": "approval recorded", "approval_id": approval.ID})
	}
}

func handleListApprovals(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := itemID(c)
		if !ok || !itemExists(c, db, id) {
			return
		}
		approvals, err := store.ListApprovals(db, id)
		if err != nil {
			respondStoreError(c, err)
			return
		}
		out := make([]gin.H, len(approvals))
		for i, a := range approvals {
			out[i] = gin.H{
				"stage":    a.Stage,
				"approver": a.Approver,
				"status":   a.Status,
			}
		}
		c.JSON(http.StatusOK, out)
	}
}
