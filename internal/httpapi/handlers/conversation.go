package handlers

import (
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/suPer8Hu/account-pilot/internal/convo"
	"github.com/suPer8Hu/account-pilot/internal/store"
)

func turnView(t *store.Turn) gin.H {
	return gin.H{
		"role":      t.Role,
		"content":   t.Content,
		"intent":    t.Intent,
		"persona":   t.Persona,
		"timestamp": t.CreatedAt,
		"metadata":  t.Meta(),
	}
}

func sessionView(s *store.Session) gin.H {
	if s == nil {
		return nil
	}
	return gin.H{
		"session_id":        s.SessionID,
		"created_at":        s.CreatedAt,
		"last_active":       s.LastActive,
		"interaction_count": s.InteractionCount,
		"detected_persona":  s.DetectedPersona,
		"preferences":       s.Prefs(),
	}
}

func (h *Handler) GetConversation(c *gin.Context) {
	sessionID := c.Param("session_id")

	limit := 20
	if v := c.Query("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			limit = n
		}
	}

	history, err := h.Repo.History(c.Request.Context(), sessionID, limit)
	if err != nil {
		log.Printf("get conversation failed session=%s err=%v", sessionID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load conversation"})
		return
	}

	session, err := h.Repo.GetSession(c.Request.Context(), sessionID)
	if err != nil {
		log.Printf("get session failed session=%s err=%v", sessionID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load session"})
		return
	}

	summary, err := h.Svc.Summary(c.Request.Context(), sessionID)
	if err != nil {
		log.Printf("conversation summary failed session=%s err=%v", sessionID, err)
		summary = ""
	}

	views := make([]gin.H, 0, len(history))
	for i := range history {
		views = append(views, turnView(&history[i]))
	}

	c.JSON(http.StatusOK, gin.H{
		"history":      views,
		"session_info": sessionView(session),
		"summary":      summary,
	})
}

type clearReq struct {
	SessionID string `json:"session_id"`
}

func (h *Handler) ClearConversation(c *gin.Context) {
	var req clearReq
	if err := c.ShouldBindJSON(&req); err != nil || req.SessionID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "session_id is required"})
		return
	}

	if err := h.Repo.ClearSession(c.Request.Context(), req.SessionID); err != nil {
		log.Printf("clear conversation failed session=%s err=%v", req.SessionID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to clear conversation"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Conversation cleared successfully",
	})
}

type suggestionsReq struct {
	SessionID string           `json:"session_id"`
	Companies []map[string]any `json:"companies"`
}

func (h *Handler) Suggestions(c *gin.Context) {
	var req suggestionsReq
	_ = c.ShouldBindJSON(&req) // empty body means no session context

	suggestions, persona := h.Svc.Suggestions(c.Request.Context(), req.SessionID, len(req.Companies))

	c.JSON(http.StatusOK, gin.H{
		"suggestions": suggestions,
		"persona":     persona,
	})
}

type preferencesReq struct {
	SessionID   string            `json:"session_id"`
	Preferences map[string]string `json:"preferences"`
}

func (h *Handler) UpdatePreferences(c *gin.Context) {
	var req preferencesReq
	if err := c.ShouldBindJSON(&req); err != nil || req.SessionID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "session_id is required"})
		return
	}

	if err := h.Repo.SetPreferences(c.Request.Context(), req.SessionID, req.Preferences); err != nil {
		log.Printf("update preferences failed session=%s err=%v", req.SessionID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update preferences"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Preferences updated successfully",
	})
}

type validateReq struct {
	Prompt string `json:"prompt"`
}

// Validate exposes the capability/ambiguity gate directly: always 200,
// always deterministic, never a generation call.
func (h *Handler) Validate(c *gin.Context) {
	var req validateReq
	_ = c.ShouldBindJSON(&req)

	v := convo.ValidatePrompt(req.Prompt)
	suggestions := v.Suggestions
	if suggestions == nil {
		suggestions = []string{}
	}

	c.JSON(http.StatusOK, gin.H{
		"is_valid":    v.Valid,
		"message":     v.Message,
		"suggestions": suggestions,
	})
}
