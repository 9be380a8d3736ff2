package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

func (h *Handler) GetAccount(c *gin.Context) {
	id := c.Param("id")

	acc, err := h.Repo.GetAccount(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Not found"})
			return
		}
		log.Printf("get account failed id=%s err=%v", id, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}

	var payload map[string]any
	if err := json.Unmarshal([]byte(acc.Payload), &payload); err != nil {
		log.Printf("account payload decode failed id=%s err=%v", id, err)
		payload = map[string]any{}
	}

	c.JSON(http.StatusOK, gin.H{
		"id":           acc.ID,
		"company_name": acc.CompanyName,
		"payload":      payload,
		"created_at":   acc.CreatedAt,
		"updated_at":   acc.UpdatedAt,
	})
}

func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "Company Research Assistant API",
		"version": h.Version,
	})
}
