package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"sakkanal_backend/internal/leads/service"
	"sakkanal_backend/platform/httpkit"
	"sakkanal_backend/platform/logger"
	"sakkanal_backend/platform/validator"

	"github.com/gin-gonic/gin"
)

func newTestRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	svc := service.New(nil, nil, nil, logger.Discard())
	val := validator.New()

	r := gin.New()
	r.POST("/leads", NewPublicHandler(svc, val).CreateLead)
	r.GET("/leads/:id", New(svc, val).Get)
	return r
}

func TestCreateLeadRejectsMalformedJSON(t *testing.T) {
	r := newTestRouter()
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/leads", strings.NewReader("{"))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
}

func TestCreateLeadReportsFieldErrors(t *testing.T) {
	r := newTestRouter()
	w := httptest.NewRecorder()
	body := `{"contactName":"Awa","email":"not-an-email","phone":"701234567","siteType":"bureau","electricityBill":0}`
	req := httptest.NewRequest(http.MethodPost, "/leads", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}

	var resp httpkit.ErrorResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	details, ok := resp.Details.(map[string]any)
	if !ok {
		t.Fatalf("expected field details, got %#v", resp.Details)
	}
	if details["email"] != "email" {
		t.Fatalf("expected email tag failure, got %#v", details)
	}
	if details["electricityBill"] != "gt" {
		t.Fatalf("expected electricityBill gt failure, got %#v", details)
	}
}

func TestGetRejectsInvalidID(t *testing.T) {
	r := newTestRouter()
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/leads/not-a-uuid", nil))

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
}
