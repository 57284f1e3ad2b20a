package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/abdussamietahir2006-stack/remotage-backend/internal/metrics"
	"github.com/abdussamietahir2006-stack/remotage-backend/internal/models"
	"github.com/abdussamietahir2006-stack/remotage-backend/internal/services"
)

// leadRequest is the submission body. Fields outside the lead schema are
// dropped. The string fields stay untyped so numbers and booleans are cast
// the way the form sends them.
type leadRequest struct {
	Type      interface{} `json:"type"`
	FullName  interface{} `json:"fullName"`
	Email     interface{} `json:"email"`
	Message   interface{} `json:"message"`
	Reason    interface{} `json:"reason"`
	Date      interface{} `json:"date"`
	Time      interface{} `json:"time"`
	Day       interface{} `json:"day"`
	CreatedAt *time.Time  `json:"createdAt"`
}

// toLead casts every field and reports all uncastable ones as one
// validation error.
func (r *leadRequest) toLead() (*models.Lead, error) {
	lead := &models.Lead{}
	var leadType *string
	fields := []struct {
		path string
		raw  interface{}
		dst  **string
	}{
		{"type", r.Type, &leadType},
		{"fullName", r.FullName, &lead.FullName},
		{"email", r.Email, &lead.Email},
		{"message", r.Message, &lead.Message},
		{"reason", r.Reason, &lead.Reason},
		{"date", r.Date, &lead.Date},
		{"time", r.Time, &lead.Time},
		{"day", r.Day, &lead.Day},
	}

	var problems []string
	for _, f := range fields {
		s, err := castString(f.path, f.raw)
		if err != nil {
			problems = append(problems, f.path+": "+err.Error())
			continue
		}
		*f.dst = s
	}
	if len(problems) > 0 {
		return nil, &models.ValidationError{Model: "Lead", Problems: problems}
	}

	if leadType != nil {
		lead.Type = models.LeadType(*leadType)
	}
	if r.CreatedAt != nil {
		lead.CreatedAt = r.CreatedAt.UTC()
	}
	return lead, nil
}

// RestLeadHandler handles the /leads REST endpoints.
type RestLeadHandler struct {
	leadService services.ILeadService
	metrics     *metrics.Metrics
}

// NewRestLeadHandler creates a new RestLeadHandler.
func NewRestLeadHandler(leadService services.ILeadService, m *metrics.Metrics) *RestLeadHandler {
	return &RestLeadHandler{leadService: leadService, metrics: m}
}

// ListLeads handles GET /api/leads
func (h *RestLeadHandler) ListLeads(c *gin.Context) {
	leads, err := h.leadService.ListLeads(c.Request.Context())
	if err != nil {
		respondServerError(c, err, "Failed to list leads")
		return
	}
	c.JSON(http.StatusOK, leads)
}

// CreateLead handles POST /api/leads
func (h *RestLeadHandler) CreateLead(c *gin.Context) {
	var req leadRequest
	if err := bindJSONBody(c, &req); err != nil {
		respondBadBody(c, err)
		return
	}

	lead, err := req.toLead()
	if err != nil {
		respondServerError(c, err, "Failed to save lead")
		return
	}

	lead, err = h.leadService.CreateLead(c.Request.Context(), lead)
	if err != nil {
		respondServerError(c, err, "Failed to save lead")
		return
	}

	h.metrics.LeadsCreated.Inc()
	c.JSON(http.StatusCreated, gin.H{"message": "Lead saved successfully", "lead": lead})
}
