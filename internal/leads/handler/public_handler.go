package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"sakkanal_backend/internal/leads/service"
	"sakkanal_backend/internal/leads/transport"
	"sakkanal_backend/platform/httpkit"
	"sakkanal_backend/platform/validator"
)

// PublicHandler serves the anonymous lead capture endpoint.
type PublicHandler struct {
	svc *service.Service
	val *validator.Validator
}

// NewPublicHandler creates the public lead handler.
func NewPublicHandler(svc *service.Service, val *validator.Validator) *PublicHandler {
	return &PublicHandler{svc: svc, val: val}
}

// CreateLead captures a lead from the results page.
// POST /api/v1/public/leads
func (h *PublicHandler) CreateLead(c *gin.Context) {
	var req transport.CreateLeadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, httpkit.ValidationDetails(err))
		return
	}

	result, err := h.svc.CreateLead(c.Request.Context(), req)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.JSON(c, http.StatusCreated, result)
}
