package reports

import (
	"fmt"
	"net/http"
	"time"

	"sakkanal_backend/platform/httpkit"
	"sakkanal_backend/platform/validator"

	"github.com/gin-gonic/gin"
)

const (
	msgInvalidRequest   = "invalid request"
	msgValidationFailed = "validation failed"
)

type Handler struct {
	svc *Service
	val *validator.Validator
}

func NewHandler(svc *Service, val *validator.Validator) *Handler {
	return &Handler{svc: svc, val: val}
}

// Generate renders the report for a prospect.
// POST /api/v1/public/reports
func (h *Handler) Generate(c *gin.Context) {
	var req GenerateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, httpkit.ValidationDetails(err))
		return
	}

	result, err := h.svc.Generate(c.Request.Context(), req.ToInput())
	if httpkit.HandleError(c, err) {
		return
	}

	if result.Stored() {
		httpkit.JSON(c, http.StatusCreated, StoredReportResponse{
			ReportID:    result.ReportID,
			FileName:    result.FileName,
			DownloadURL: result.DownloadURL,
			ExpiresAt:   result.ExpiresAt.UTC().Format(time.RFC3339),
			Savings:     result.Savings,
		})
		return
	}

	disposition := "attachment"
	if result.ContentType != ContentTypePDF {
		disposition = "inline"
	}
	c.Header("Content-Disposition", fmt.Sprintf(`%s; filename="%s"`, disposition, result.FileName))
	c.Header("X-Report-Id", result.ReportID.String())
	c.Data(http.StatusOK, result.ContentType, result.Content)
}

// List returns the latest generated reports.
// GET /api/v1/admin/reports
func (h *Handler) List(c *gin.Context) {
	var q ListQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(q); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, httpkit.ValidationDetails(err))
		return
	}

	items, err := h.svc.ListRecent(c.Request.Context(), q.Limit)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, gin.H{"items": items})
}
