package exports

import (
	"bytes"
	"fmt"
	"net/http"
	"time"

	"sakkanal_backend/internal/exports/csvexport"
	"sakkanal_backend/platform/httpkit"
	"sakkanal_backend/platform/logger"
	"sakkanal_backend/platform/validator"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	dateLayout         = "2006-01-02"
	defaultExportLimit = 1000
	maxExportLimit     = 10000
)

// Handler handles export requests and API key management.
type Handler struct {
	repo      *Repository
	analytics AnalyticsSource
	val       *validator.Validator
	log       *logger.Logger
}

// NewHandler creates a new export handler.
func NewHandler(repo *Repository, analytics AnalyticsSource, val *validator.Validator, log *logger.Logger) *Handler {
	return &Handler{repo: repo, analytics: analytics, val: val, log: log}
}

// ---- Admin API Key Management (JWT authenticated) ----

type CreateAPIKeyRequest struct {
	Name string `json:"name" validate:"required,min=1,max=100"`
}

type APIKeyResponse struct {
	ID         uuid.UUID  `json:"id"`
	Name       string     `json:"name"`
	KeyPrefix  string     `json:"keyPrefix"`
	IsActive   bool       `json:"isActive"`
	CreatedAt  string     `json:"createdAt"`
	LastUsedAt *time.Time `json:"lastUsedAt,omitempty"`
}

type CreateAPIKeyResponse struct {
	APIKeyResponse
	Key string `json:"key"`
}

func (h *Handler) HandleCreateAPIKey(c *gin.Context) {
	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return
	}

	var req CreateAPIKeyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "invalid request", nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "validation failed", httpkit.ValidationDetails(err))
		return
	}

	plaintext, hash, prefix, err := GenerateAPIKey()
	if err != nil {
		httpkit.Error(c, http.StatusInternalServerError, "failed to generate key", nil)
		return
	}

	createdBy := identity.UserID()
	key, err := h.repo.CreateAPIKey(c.Request.Context(), req.Name, hash, prefix, &createdBy)
	if httpkit.HandleError(c, err) {
		return
	}
	h.log.Info("export api key created", "id", key.ID, "prefix", key.KeyPrefix)

	httpkit.JSON(c, http.StatusCreated, CreateAPIKeyResponse{
		APIKeyResponse: toAPIKeyResponse(key),
		Key:            plaintext,
	})
}

func (h *Handler) HandleListAPIKeys(c *gin.Context) {
	keys, err := h.repo.ListAPIKeys(c.Request.Context())
	if httpkit.HandleError(c, err) {
		return
	}

	resp := make([]APIKeyResponse, 0, len(keys))
	for _, k := range keys {
		resp = append(resp, toAPIKeyResponse(k))
	}
	httpkit.OK(c, resp)
}

func (h *Handler) HandleRevokeAPIKey(c *gin.Context) {
	keyID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, "invalid key id", nil)
		return
	}

	if httpkit.HandleError(c, h.repo.RevokeAPIKey(c.Request.Context(), keyID)) {
		return
	}
	h.log.Info("export api key revoked", "id", keyID)
	c.Status(http.StatusNoContent)
}

// ---- CSV exports ----

// LeadExportQuery is the query string of the lead exports.
type LeadExportQuery struct {
	Status       string `form:"status" validate:"omitempty,oneof=new contacted qualified converted lost"`
	From         string `form:"from" validate:"omitempty,datetime=2006-01-02"`
	To           string `form:"to" validate:"omitempty,datetime=2006-01-02"`
	Analytics    bool   `form:"analytics"`
	Interactions bool   `form:"interactions"`
	Limit        int    `form:"limit" validate:"omitempty,min=1,max=10000"`
}

// ExportLeadsCSV streams the lead export.
// GET /api/v1/admin/exports/leads.csv and GET /api/v1/exports/leads.csv
func (h *Handler) ExportLeadsCSV(c *gin.Context) {
	var query LeadExportQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "invalid request", nil)
		return
	}
	if err := h.val.Struct(query); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "validation failed", httpkit.ValidationDetails(err))
		return
	}

	if keyID, ok := c.Get(contextKeyID); ok {
		if id, ok := keyID.(uuid.UUID); ok {
			h.repo.TouchAPIKey(c.Request.Context(), id)
		}
	}

	filter, err := toLeadFilter(query)
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, err.Error(), nil)
		return
	}

	leads, err := h.repo.ListLeadsForExport(c.Request.Context(), filter)
	if httpkit.HandleError(c, err) {
		return
	}

	name := "leads"
	rows := csvexport.LeadRows(leads)
	if query.Analytics {
		name = "leads_analytics"
		rows = csvexport.LeadRowsWithAnalytics(leads, query.Interactions)
	}
	WriteCSVResponse(c, name, rows)
}

// ExportAnalyticsCSV streams the trends summary.
// GET /api/v1/admin/exports/analytics.csv
func (h *Handler) ExportAnalyticsCSV(c *gin.Context) {
	summary, err := h.analytics.ExportSummary(c.Request.Context())
	if httpkit.HandleError(c, err) {
		return
	}
	WriteCSVResponse(c, "analytics", csvexport.AnalyticsRows(summary))
}

// WriteCSVResponse renders rows as a CSV attachment. Rendering happens before
// any header is written so an empty export still maps to a JSON error.
func WriteCSVResponse(c *gin.Context, name string, rows []csvexport.Row) {
	var buf bytes.Buffer
	if httpkit.HandleError(c, csvexport.Write(&buf, rows)) {
		return
	}

	filename := csvexport.Filename(name, time.Now())
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, csvexport.ContentType, buf.Bytes())
}

func toLeadFilter(query LeadExportQuery) (LeadFilter, error) {
	filter := LeadFilter{Status: query.Status, Limit: query.Limit}
	if filter.Limit <= 0 {
		filter.Limit = defaultExportLimit
	}
	if filter.Limit > maxExportLimit {
		filter.Limit = maxExportLimit
	}

	if query.From != "" {
		from, err := time.Parse(dateLayout, query.From)
		if err != nil {
			return LeadFilter{}, fmt.Errorf("invalid from date")
		}
		filter.From = &from
	}
	if query.To != "" {
		to, err := time.Parse(dateLayout, query.To)
		if err != nil {
			return LeadFilter{}, fmt.Errorf("invalid to date")
		}
		end := to.Add(24*time.Hour - time.Nanosecond)
		filter.To = &end
	}
	if filter.From != nil && filter.To != nil && filter.To.Before(*filter.From) {
		return LeadFilter{}, fmt.Errorf("to must not be before from")
	}
	return filter, nil
}

func toAPIKeyResponse(k APIKey) APIKeyResponse {
	return APIKeyResponse{
		ID:         k.ID,
		Name:       k.Name,
		KeyPrefix:  k.KeyPrefix,
		IsActive:   k.IsActive,
		CreatedAt:  k.CreatedAt.Format(time.RFC3339),
		LastUsedAt: k.LastUsedAt,
	}
}
