package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// RestHealthHandler answers liveness probes.
type RestHealthHandler struct{}

// NewRestHealthHandler creates a new RestHealthHandler.
func NewRestHealthHandler() *RestHealthHandler {
	return &RestHealthHandler{}
}

// Health handles GET /api/health
func (h *RestHealthHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "OK", "message": "Server is running"})
}
