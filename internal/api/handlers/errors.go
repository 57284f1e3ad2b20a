package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/abdussamietahir2006-stack/remotage-backend/internal/logger"
)

// respondServerError attaches err to the context for the access log and
// replies 500 with the underlying message.
func respondServerError(c *gin.Context, err error, message string) {
	_ = c.Error(err)
	logger.GetLogger().Errorw(message,
		"error", err,
		"path", c.Request.URL.Path,
		"method", c.Request.Method,
		"request_id", c.GetString("request_id"))
	c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
}

// respondBadBody reports an unreadable request body the same way the
// catch-all recovery does.
func respondBadBody(c *gin.Context, err error) {
	_ = c.Error(err)
	logger.GetLogger().Warnw("Unreadable request body",
		"error", err,
		"path", c.Request.URL.Path,
		"request_id", c.GetString("request_id"))
	c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error", "message": err.Error()})
}
