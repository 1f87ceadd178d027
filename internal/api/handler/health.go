package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// HealthHandler handles liveness endpoints.
type HealthHandler struct{}

// NewHealthHandler creates a new health handler.
func NewHealthHandler() *HealthHandler {
	return &HealthHandler{}
}

// Health answers 200 whenever the process is serving requests.
func (h *HealthHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
	})
}
