package handlers

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/suPer8Hu/account-pilot/internal/assist"
	"github.com/suPer8Hu/account-pilot/internal/common"
	"github.com/suPer8Hu/account-pilot/internal/store"
	"gorm.io/gorm"
)

type chatReq struct {
	Prompt      string            `json:"prompt"`
	Companies   []map[string]any  `json:"companies"`
	SessionID   string            `json:"session_id"`
	Preferences map[string]string `json:"preferences"`
}

// Chat runs the full pipeline for one turn. The service guarantees a
// structurally-valid result on every path, so the only error branch here
// is the missing-prompt 400.
func (h *Handler) Chat(c *gin.Context) {
	var req chatReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}
	if req.Prompt == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Prompt is required"})
		return
	}

	sessionID := req.SessionID
	if sessionID == "" {
		sid, err := common.NewULID()
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create session"})
			return
		}
		sessionID = sid
	}

	result, _ := h.Svc.ProcessChat(c.Request.Context(), assist.ChatRequest{
		SessionID:   sessionID,
		Prompt:      req.Prompt,
		Companies:   req.Companies,
		Preferences: req.Preferences,
	})
	result.SessionID = sessionID

	c.JSON(http.StatusOK, result)
}

type bestPlanReq struct {
	Companies []map[string]any `json:"companies"`
}

func (h *Handler) GenerateBestPlan(c *gin.Context) {
	var req bestPlanReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}
	if len(req.Companies) < 2 {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":       "At least 2 companies required",
			"reply":       "Please research at least 2 companies before generating the best plan.",
			"suggestions": []string{"Research another company", "Add more companies to compare"},
		})
		return
	}

	result, err := h.Svc.GenerateBestPlan(c.Request.Context(), req.Companies)
	if err != nil {
		log.Printf("generate best plan failed err=%v", err)
		friendly := assist.UserFacingError(err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":    friendly,
			"reply":    friendly,
			"bestPlan": req.Companies[0],
		})
		return
	}

	c.JSON(http.StatusOK, result)
}

type chatAsyncReq struct {
	Prompt    string `json:"prompt"`
	SessionID string `json:"session_id"`
}

// ChatAsync enqueues the turn as a research job and returns immediately;
// the worker runs the same pipeline and records the result on the job row.
func (h *Handler) ChatAsync(c *gin.Context) {
	if h.Jobs == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "async processing is not configured"})
		return
	}

	var req chatAsyncReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}
	if req.Prompt == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Prompt is required"})
		return
	}

	sessionID := req.SessionID
	if sessionID == "" {
		sid, err := common.NewULID()
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create session"})
			return
		}
		sessionID = sid
	}

	jobID, err := common.NewULID()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}

	job := &store.Job{
		ID:        jobID,
		SessionID: sessionID,
		Prompt:    req.Prompt,
		Status:    store.JobQueued,
	}
	if err := h.Repo.CreateJob(c.Request.Context(), job); err != nil {
		log.Printf("create job failed session=%s err=%v", sessionID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}

	if err := h.Jobs.PublishJob(c.Request.Context(), job.ID); err != nil {
		log.Printf("publish job failed job=%s err=%v", job.ID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "enqueue failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"job_id": job.ID, "session_id": sessionID})
}

func (h *Handler) GetJob(c *gin.Context) {
	jobID := c.Param("job_id")
	if jobID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "job_id required"})
		return
	}

	j, err := h.Repo.GetJobByID(c.Request.Context(), jobID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "job not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"job": gin.H{
			"id":             j.ID,
			"session_id":     j.SessionID,
			"status":         j.Status,
			"result_turn_id": j.ResultTurnID,
			"error":          j.Error,
			"created_at":     j.CreatedAt,
			"updated_at":     j.UpdatedAt,
		},
	})
}
