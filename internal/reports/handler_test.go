package reports

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"sakkanal_backend/platform/validator"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRouter(svc *Service) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	h := NewHandler(svc, validator.New())
	r.POST("/reports", h.Generate)
	return r
}

func postReport(r *gin.Engine, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/reports", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func reportBody(scenarioID, email string) string {
	return `{"scenarioId":"` + scenarioID + `","user":{"fullName":"Fatou Diop","email":"` + email + `"},` +
		`"questionnaire":{"siteType":"hotel","electricityBill":800000}}`
}

func TestHandlerRejectsMissingEmail(t *testing.T) {
	sc := performanceScenario()
	svc, _, _ := newTestService(sc)

	w := postReport(newTestRouter(svc), reportBody(sc.ID.String(), ""))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "validation failed")
}

func TestHandlerStreamsPDF(t *testing.T) {
	sc := performanceScenario()
	svc, _, _ := newTestService(sc)
	svc.SetConverter(&fakeConverter{})

	w := postReport(newTestRouter(svc), reportBody(sc.ID.String(), "fatou@teranga.sn"))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, ContentTypePDF, w.Header().Get("Content-Type"))
	assert.Contains(t, w.Header().Get("Content-Disposition"), `attachment; filename="Rapport_Sakkanal_Sakkanal_Performance_`)
	assert.NotEmpty(t, w.Header().Get("X-Report-Id"))
	assert.Equal(t, "%PDF-1.7 report", w.Body.String())
}

func TestHandlerReturnsDownloadLink(t *testing.T) {
	sc := performanceScenario()
	svc, _, _ := newTestService(sc)
	svc.SetConverter(&fakeConverter{})
	svc.SetObjectStore(&fakeObjects{}, "reports")

	w := postReport(newTestRouter(svc), reportBody(sc.ID.String(), "fatou@teranga.sn"))
	require.Equal(t, http.StatusCreated, w.Code)

	var resp StoredReportResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Contains(t, resp.DownloadURL, "https://files.sakkanal.sn/reports/2025/03/")
	assert.Equal(t, "2025-03-15T00:00:00Z", resp.ExpiresAt)
	assert.Equal(t, 25.0, resp.Savings.Rate)
}

func TestHandlerUnknownScenarioIs404(t *testing.T) {
	svc, _, _ := newTestService(performanceScenario())

	w := postReport(newTestRouter(svc), reportBody("6f1c2b4e-8d1a-4c55-9a0e-2f3b4c5d6e7f", "fatou@teranga.sn"))
	assert.Equal(t, http.StatusNotFound, w.Code)
}
