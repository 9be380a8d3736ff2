package httpapi

import (
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/suPer8Hu/account-pilot/internal/httpapi/handlers"
	"github.com/suPer8Hu/account-pilot/internal/httpapi/middleware"
)

// NewRouter wires the HTTP surface. All dependencies arrive pre-built in
// the handler; the router holds no state of its own.
func NewRouter(h *handlers.Handler) *gin.Engine {
	r := gin.New()
	r.HandleMethodNotAllowed = true
	r.Use(gin.Logger())
	r.Use(middleware.Recovery())
	r.Use(middleware.RequestID())
	r.Use(cors.Default())

	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"error": "route not found"})
	})
	r.NoMethod(func(c *gin.Context) {
		c.JSON(http.StatusMethodNotAllowed, gin.H{"error": "method not allowed"})
	})

	r.GET("/health", h.Health)

	r.POST("/chat", h.Chat)
	r.POST("/chat/async", h.ChatAsync)
	r.GET("/jobs/:job_id", h.GetJob)
	r.POST("/generate-best-plan", h.GenerateBestPlan)

	r.GET("/conversation/:session_id", h.GetConversation)
	r.POST("/conversation/clear", h.ClearConversation)
	r.POST("/suggestions", h.Suggestions)
	r.POST("/preferences", h.UpdatePreferences)
	r.POST("/validate", h.Validate)

	r.GET("/account/:id", h.GetAccount)

	return r
}
