package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/abdussamietahir2006-stack/remotage-backend/internal/metrics"
	"github.com/abdussamietahir2006-stack/remotage-backend/internal/services"
)

// saveContentRequest is the body of POST /api/content. ID stays untyped so
// numeric keys are accepted the way editors send them.
type saveContentRequest struct {
	ID   interface{} `json:"id"`
	Data interface{} `json:"data"`
}

// contentID converts the submitted id to its string key. Absent, empty, false
// and zero ids come back as "" so the service rejects them.
func contentID(raw interface{}) (string, error) {
	switch v := raw.(type) {
	case bool:
		if !v {
			return "", nil
		}
	case float64:
		if v == 0 {
			return "", nil
		}
	}
	id, err := castString("id", raw)
	if err != nil || id == nil {
		return "", err
	}
	return *id, nil
}

// RestContentHandler handles the /content REST endpoints.
type RestContentHandler struct {
	contentService services.IContentService
	metrics        *metrics.Metrics
}

// NewRestContentHandler creates a new RestContentHandler.
func NewRestContentHandler(contentService services.IContentService, m *metrics.Metrics) *RestContentHandler {
	return &RestContentHandler{contentService: contentService, metrics: m}
}

// GetContent handles GET /api/content/:id. Unknown ids answer null.
func (h *RestContentHandler) GetContent(c *gin.Context) {
	data, err := h.contentService.GetContent(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondServerError(c, err, "Failed to retrieve content")
		return
	}
	c.JSON(http.StatusOK, data)
}

// GetAllContent handles GET /api/content
func (h *RestContentHandler) GetAllContent(c *gin.Context) {
	all, err := h.contentService.GetAllContent(c.Request.Context())
	if err != nil {
		respondServerError(c, err, "Failed to retrieve content")
		return
	}
	c.JSON(http.StatusOK, all)
}

// SaveContent handles POST /api/content
func (h *RestContentHandler) SaveContent(c *gin.Context) {
	var req saveContentRequest
	if err := bindJSONBody(c, &req); err != nil {
		respondBadBody(c, err)
		return
	}

	id, err := contentID(req.ID)
	if err != nil {
		respondServerError(c, err, "Failed to save content")
		return
	}

	content, err := h.contentService.SaveContent(c.Request.Context(), id, req.Data)
	if errors.Is(err, services.ErrContentIDRequired) {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err != nil {
		respondServerError(c, err, "Failed to save content")
		return
	}

	h.metrics.ContentWrites.WithLabelValues("save").Inc()
	c.JSON(http.StatusOK, gin.H{"message": "Content saved successfully", "content": content})
}

// DeleteContent handles DELETE /api/content/:id. Deleting a missing id succeeds.
func (h *RestContentHandler) DeleteContent(c *gin.Context) {
	if err := h.contentService.DeleteContent(c.Request.Context(), c.Param("id")); err != nil {
		respondServerError(c, err, "Failed to delete content")
		return
	}
	h.metrics.ContentWrites.WithLabelValues("delete").Inc()
	c.JSON(http.StatusOK, gin.H{"message": "Content deleted successfully"})
}
