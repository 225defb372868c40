// Package crm pushes leads to external CRM tools through signed webhooks.
package crm

import (
	"sakkanal_backend/internal/events"
	apphttp "sakkanal_backend/internal/http"
	"sakkanal_backend/platform/config"
	"sakkanal_backend/platform/logger"
	"sakkanal_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Module is the CRM integrations module implementing http.Module.
type Module struct {
	handler *Handler
	service *Service
}

// NewModule wires the module and subscribes it to lead events.
func NewModule(pool *pgxpool.Pool, leads LeadSource, bus events.Bus, cfg config.WebhookConfig, val *validator.Validator, log *logger.Logger) *Module {
	svc := NewService(NewRepository(pool), leads, NewWebhookClient(cfg), nil, log)
	if bus != nil {
		svc.Subscribe(bus)
	}

	return &Module{
		handler: NewHandler(svc, val),
		service: svc,
	}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "crm"
}

// Service returns the service for the scheduler worker.
func (m *Module) Service() *Service {
	return m.service
}

// SetEnqueuer routes realtime deliveries through the job queue.
func (m *Module) SetEnqueuer(enqueuer DeliveryEnqueuer) {
	m.service.SetEnqueuer(enqueuer)
}

// RegisterRoutes mounts the admin integration routes.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	group := ctx.Admin.Group("/crm/integrations")
	group.GET("", m.handler.List)
	group.POST("", m.handler.Create)
	group.GET("/:id", m.handler.Get)
	group.PUT("/:id", m.handler.Update)
	group.DELETE("/:id", m.handler.Delete)
	group.POST("/:id/toggle", m.handler.Toggle)
	group.POST("/:id/sync", m.handler.SyncNow)
}

var _ apphttp.Module = (*Module)(nil)
