package handlers_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/abdussamietahir2006-stack/remotage-backend/internal/api/handlers"
	"github.com/abdussamietahir2006-stack/remotage-backend/internal/logger"
	"github.com/abdussamietahir2006-stack/remotage-backend/internal/metrics"
	"github.com/abdussamietahir2006-stack/remotage-backend/internal/models"
)

func TestMain(m *testing.M) {
	logger.IsTest = true
	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}

func setupLeadRouter(svc *MockLeadService, m *metrics.Metrics) *gin.Engine {
	handler := handlers.NewRestLeadHandler(svc, m)
	r := gin.New()
	r.GET("/api/leads", handler.ListLeads)
	r.POST("/api/leads", handler.CreateLead)
	return r
}

func TestRestLeadHandler_ListLeads_Success(t *testing.T) {
	mockSvc := new(MockLeadService)
	r := setupLeadRouter(mockSvc, metrics.New())
	created := time.Date(2026, 10, 16, 12, 0, 0, 0, time.UTC)
	leads := []models.Lead{
		{ID: primitive.NewObjectID(), Type: models.LeadTypeBooking, FullName: models.StringPtr("Ada"), CreatedAt: created},
		{ID: primitive.NewObjectID(), Type: models.LeadTypeQuery, Email: models.StringPtr("grace@example.com"), CreatedAt: created.Add(-time.Hour)},
	}
	mockSvc.On("ListLeads", mock.Anything).Return(leads, nil)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/api/leads", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	var body []map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.Len(t, body, 2)
	assert.Equal(t, "booking", body[0]["type"])
	assert.Equal(t, "Ada", body[0]["fullName"])
	assert.Equal(t, leads[0].ID.Hex(), body[0]["_id"])
	assert.Equal(t, "2026-10-16T12:00:00Z", body[0]["createdAt"])
	assert.Equal(t, "grace@example.com", body[1]["email"])
	mockSvc.AssertExpectations(t)
}

func TestRestLeadHandler_ListLeads_Empty(t *testing.T) {
	mockSvc := new(MockLeadService)
	r := setupLeadRouter(mockSvc, metrics.New())
	mockSvc.On("ListLeads", mock.Anything).Return([]models.Lead{}, nil)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/api/leads", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `[]`, w.Body.String())
}

func TestRestLeadHandler_ListLeads_ServiceError(t *testing.T) {
	mockSvc := new(MockLeadService)
	r := setupLeadRouter(mockSvc, metrics.New())
	mockSvc.On("ListLeads", mock.Anything).Return(nil, errors.New("failed to query leads: server selection timeout"))

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/api/leads", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.JSONEq(t, `{"error":"failed to query leads: server selection timeout"}`, w.Body.String())
}

func TestRestLeadHandler_CreateLead_Success(t *testing.T) {
	mockSvc := new(MockLeadService)
	m := metrics.New()
	r := setupLeadRouter(mockSvc, m)

	var received *models.Lead
	mockSvc.On("CreateLead", mock.Anything, mock.AnythingOfType("*models.Lead")).
		Run(func(args mock.Arguments) { received = args.Get(1).(*models.Lead) }).
		Return(func() *models.Lead {
			return &models.Lead{
				ID:        primitive.NewObjectID(),
				Type:      models.LeadTypeQuery,
				FullName:  models.StringPtr("Ada Lovelace"),
				Message:   models.StringPtr("Hello"),
				CreatedAt: time.Now().UTC(),
			}
		}(), nil)

	payload := `{"type":"query","fullName":"Ada Lovelace","message":"Hello","utm_source":"ads"}`
	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodPost, "/api/leads", bytes.NewBufferString(payload))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "Lead saved successfully", body["message"])
	lead := body["lead"].(map[string]interface{})
	assert.Equal(t, "Ada Lovelace", lead["fullName"])
	assert.NotEmpty(t, lead["_id"])

	require.NotNil(t, received)
	assert.Equal(t, models.LeadTypeQuery, received.Type)
	assert.Equal(t, models.StringPtr("Hello"), received.Message)
	assert.Nil(t, received.Email)
	assert.True(t, received.CreatedAt.IsZero(), "createdAt is defaulted by the service")
	assert.Equal(t, float64(1), testutil.ToFloat64(m.LeadsCreated))
	mockSvc.AssertExpectations(t)
}

func TestRestLeadHandler_CreateLead_ValidationError(t *testing.T) {
	mockSvc := new(MockLeadService)
	m := metrics.New()
	r := setupLeadRouter(mockSvc, m)
	vErr := (&models.Lead{Type: "spam"}).Validate()
	mockSvc.On("CreateLead", mock.Anything, mock.Anything).Return(nil, vErr)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodPost, "/api/leads", bytes.NewBufferString(`{"type":"spam"}`))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Contains(t, body["error"], "Lead validation failed")
	assert.Equal(t, float64(0), testutil.ToFloat64(m.LeadsCreated))
}

func TestRestLeadHandler_CreateLead_MalformedBody(t *testing.T) {
	mockSvc := new(MockLeadService)
	r := setupLeadRouter(mockSvc, metrics.New())

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodPost, "/api/leads", bytes.NewBufferString(`{"type":`))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "Internal server error", body["error"])
	assert.NotEmpty(t, body["message"])
	mockSvc.AssertNotCalled(t, "CreateLead", mock.Anything, mock.Anything)
}

func postLead(r *gin.Engine, payload string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodPost, "/api/leads", bytes.NewBufferString(payload))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	return w
}

func TestRestLeadHandler_CreateLead_CastsScalarFields(t *testing.T) {
	mockSvc := new(MockLeadService)
	r := setupLeadRouter(mockSvc, metrics.New())

	var received *models.Lead
	mockSvc.On("CreateLead", mock.Anything, mock.AnythingOfType("*models.Lead")).
		Run(func(args mock.Arguments) { received = args.Get(1).(*models.Lead) }).
		Return(&models.Lead{Type: models.LeadTypeBooking}, nil)

	w := postLead(r, `{"type":"booking","date":20261020,"day":5,"time":10.5,"reason":true}`)

	assert.Equal(t, http.StatusCreated, w.Code)
	require.NotNil(t, received)
	assert.Equal(t, models.LeadTypeBooking, received.Type)
	assert.Equal(t, models.StringPtr("20261020"), received.Date)
	assert.Equal(t, models.StringPtr("5"), received.Day)
	assert.Equal(t, models.StringPtr("10.5"), received.Time)
	assert.Equal(t, models.StringPtr("true"), received.Reason)
}

func TestRestLeadHandler_CreateLead_KeepsEmptyStrings(t *testing.T) {
	mockSvc := new(MockLeadService)
	r := setupLeadRouter(mockSvc, metrics.New())

	var received *models.Lead
	mockSvc.On("CreateLead", mock.Anything, mock.AnythingOfType("*models.Lead")).
		Run(func(args mock.Arguments) { received = args.Get(1).(*models.Lead) }).
		Return(&models.Lead{Type: models.LeadTypeQuery, Message: models.StringPtr("")}, nil)

	w := postLead(r, `{"type":"query","message":"","email":null}`)

	assert.Equal(t, http.StatusCreated, w.Code)
	require.NotNil(t, received)
	assert.Equal(t, models.StringPtr(""), received.Message)
	assert.Nil(t, received.Email)
	assert.Nil(t, received.FullName)
	assert.Contains(t, w.Body.String(), `"message":""`)
}

func TestRestLeadHandler_CreateLead_RejectsStructuredFields(t *testing.T) {
	mockSvc := new(MockLeadService)
	m := metrics.New()
	r := setupLeadRouter(mockSvc, m)

	w := postLead(r, `{"type":"query","date":{"y":2026},"fullName":["Ada","Lovelace"]}`)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	msg := body["error"].(string)
	assert.Contains(t, msg, "Lead validation failed")
	assert.Contains(t, msg, `Cast to string failed for value of type map[string]interface {} at path "date"`)
	assert.Contains(t, msg, `at path "fullName"`)
	assert.Equal(t, float64(0), testutil.ToFloat64(m.LeadsCreated))
	mockSvc.AssertNotCalled(t, "CreateLead", mock.Anything, mock.Anything)
}

func TestRestLeadHandler_CreateLead_EmptyBody(t *testing.T) {
	for name, body := range map[string]io.Reader{
		"no body":    nil,
		"empty body": bytes.NewBufferString(""),
		"whitespace": bytes.NewBufferString("  \n"),
	} {
		t.Run(name, func(t *testing.T) {
			mockSvc := new(MockLeadService)
			r := setupLeadRouter(mockSvc, metrics.New())
			var received *models.Lead
			mockSvc.On("CreateLead", mock.Anything, mock.AnythingOfType("*models.Lead")).
				Run(func(args mock.Arguments) { received = args.Get(1).(*models.Lead) }).
				Return(nil, (&models.Lead{}).Validate())

			w := httptest.NewRecorder()
			req, _ := http.NewRequest(http.MethodPost, "/api/leads", body)
			req.Header.Set("Content-Type", "application/json")
			r.ServeHTTP(w, req)

			assert.Equal(t, http.StatusInternalServerError, w.Code)
			assert.JSONEq(t, "{\"error\":\"Lead validation failed: type: Path `type` is required.\"}", w.Body.String())
			require.NotNil(t, received)
			assert.Empty(t, received.Type)
		})
	}
}
