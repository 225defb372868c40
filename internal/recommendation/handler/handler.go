package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"sakkanal_backend/internal/recommendation/service"
	"sakkanal_backend/internal/recommendation/transport"
	"sakkanal_backend/platform/httpkit"
	"sakkanal_backend/platform/validator"
)

// Handler handles HTTP requests for recommendations.
type Handler struct {
	svc *service.Service
	val *validator.Validator
}

const (
	msgInvalidRequest   = "invalid request"
	msgValidationFailed = "validation failed"
)

// New creates a new recommendation handler.
func New(svc *service.Service, val *validator.Validator) *Handler {
	return &Handler{svc: svc, val: val}
}

// Recommend returns the top scenarios for questionnaire answers.
// POST /api/v1/public/recommendations
func (h *Handler) Recommend(c *gin.Context) {
	var req transport.RecommendRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, httpkit.ValidationDetails(err))
		return
	}

	result, err := h.svc.Recommend(c.Request.Context(), req.ToEngine(), req.LeadID)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

// Compare returns side-by-side metrics for 2 or 3 scenarios.
// POST /api/v1/public/recommendations/compare
func (h *Handler) Compare(c *gin.Context) {
	var req transport.CompareRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, httpkit.ValidationDetails(err))
		return
	}

	result, err := h.svc.Compare(c.Request.Context(), req.Questionnaire.ToEngine(), req.ScenarioIDs)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}
