package exports

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"sakkanal_backend/internal/exports/csvexport"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAPIKey(t *testing.T) {
	plaintext, hash, prefix, err := GenerateAPIKey()
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(plaintext, apiKeyPrefix))
	assert.Len(t, plaintext, len(apiKeyPrefix)+64)
	assert.Equal(t, plaintext[:12], prefix)
	assert.Equal(t, HashKey(plaintext), hash)
	assert.NotEqual(t, plaintext, hash)
}

func TestToLeadFilter(t *testing.T) {
	filter, err := toLeadFilter(LeadExportQuery{Status: "new", From: "2024-03-01", To: "2024-03-31"})
	require.NoError(t, err)
	assert.Equal(t, defaultExportLimit, filter.Limit)
	require.NotNil(t, filter.From)
	require.NotNil(t, filter.To)
	assert.Equal(t, "2024-03-31", filter.To.Format(dateLayout))
	assert.Equal(t, 23, filter.To.Hour())

	_, err = toLeadFilter(LeadExportQuery{From: "2024-03-10", To: "2024-03-01"})
	assert.Error(t, err)

	filter, err = toLeadFilter(LeadExportQuery{Limit: 50})
	require.NoError(t, err)
	assert.Equal(t, 50, filter.Limit)
	assert.Nil(t, filter.From)
}

func TestWriteCSVResponse(t *testing.T) {
	gin.SetMode(gin.TestMode)

	t.Run("attachment", func(t *testing.T) {
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		WriteCSVResponse(c, "leads", []csvexport.Row{{{Key: "Nom", Value: "Awa"}}})

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, csvexport.ContentType, w.Header().Get("Content-Type"))
		assert.Contains(t, w.Header().Get("Content-Disposition"), "attachment; filename=\"leads_")
		assert.Equal(t, csvexport.BOM+"Nom\nAwa", w.Body.String())
	})

	t.Run("no data", func(t *testing.T) {
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		WriteCSVResponse(c, "leads", nil)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), csvexport.MsgNoData)
		assert.Empty(t, w.Header().Get("Content-Disposition"))
	})
}

func TestAPIKeyMiddlewareRequiresHeader(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	called := false
	router.GET("/exports/leads.csv", APIKeyAuthMiddleware(nil), func(c *gin.Context) {
		called = true
	})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/exports/leads.csv", nil))

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.False(t, called)
}
