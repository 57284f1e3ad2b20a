package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/abdussamietahir2006-stack/remotage-backend/internal/api/handlers"
	"github.com/abdussamietahir2006-stack/remotage-backend/internal/api/middleware"
	"github.com/abdussamietahir2006-stack/remotage-backend/internal/config"
	"github.com/abdussamietahir2006-stack/remotage-backend/internal/metrics"
	"github.com/abdussamietahir2006-stack/remotage-backend/internal/services"
)

// LeadExpirer runs one lead expiry sweep on demand.
type LeadExpirer interface {
	ExpireLeads(ctx context.Context) (int64, error)
}

// SetupRouter configures and returns the main Gin engine.
func SetupRouter(
	cfg *config.Config,
	log *zap.SugaredLogger,
	m *metrics.Metrics,
	leadService services.ILeadService,
	contentService services.IContentService,
	rateLimiter *middleware.RateLimiterMiddleware,
) *gin.Engine {
	r := gin.New()

	// ClientIP keys the rate limiter, so forwarded headers are only honoured
	// from configured proxies.
	if err := r.SetTrustedProxies(cfg.TrustedProxies); err != nil {
		log.Errorw("Invalid trusted proxies, using peer address only", "proxies", cfg.TrustedProxies, "error", err)
		_ = r.SetTrustedProxies(nil)
	}

	// Apply global middleware first (order matters)
	r.Use(middleware.RecoveryMiddleware(log))
	r.Use(middleware.RequestIDMiddleware())
	r.Use(middleware.LoggingMiddleware(log))
	r.Use(middleware.MetricsMiddleware(m))
	r.Use(middleware.CORSMiddleware(cfg.CORSOrigins))
	r.Use(middleware.BodyLimitMiddleware(cfg.MaxBodyBytes))

	restHealthHandler := handlers.NewRestHealthHandler()
	restLeadHandler := handlers.NewRestLeadHandler(leadService, m)
	restContentHandler := handlers.NewRestContentHandler(contentService, m)

	apiGroup := r.Group("/api")
	{
		apiGroup.GET("/health", restHealthHandler.Health)

		apiGroup.GET("/leads", restLeadHandler.ListLeads)
		apiGroup.POST("/leads", rateLimiter.Limit(), restLeadHandler.CreateLead)

		apiGroup.GET("/content", restContentHandler.GetAllContent)
		apiGroup.GET("/content/:id", restContentHandler.GetContent)
		apiGroup.POST("/content", restContentHandler.SaveContent)
		apiGroup.DELETE("/content/:id", restContentHandler.DeleteContent)
	}

	r.GET("/metrics", gin.WrapH(m.Handler()))

	return r
}

// SetupServiceRouter configures the loopback service engine used by operators:
// "shutdown" stops the process, "expireLeads" runs a lead sweep immediately.
func SetupServiceRouter(log *zap.SugaredLogger, expirer LeadExpirer, shutdownChan chan<- struct{}) *gin.Engine {
	r := gin.New()
	r.Use(middleware.RecoveryMiddleware(log), middleware.LoggingMiddleware(log))

	r.POST("/api", func(c *gin.Context) {
		var req struct {
			Method    string          `json:"method"`
			Arguments json.RawMessage `json:"arguments"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Invalid request format"})
			return
		}

		switch req.Method {
		case "shutdown":
			log.Info("Received shutdown command via Service API")
			c.JSON(http.StatusOK, gin.H{"success": true, "result": "Shutdown initiated"})
			select {
			case shutdownChan <- struct{}{}:
			default:
				log.Warn("Shutdown channel already signaled")
			}
		case "expireLeads":
			deleted, err := expirer.ExpireLeads(c.Request.Context())
			if err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": err.Error()})
				return
			}
			c.JSON(http.StatusOK, gin.H{"success": true, "result": gin.H{"deleted": deleted}})
		default:
			c.JSON(http.StatusNotFound, gin.H{"success": false, "error": fmt.Sprintf("Unknown service method: %s", req.Method)})
		}
	})
	return r
}
