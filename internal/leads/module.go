// Package leads provides the lead management bounded context module.
// This file defines the module that encapsulates all leads setup and route registration.
package leads

import (
	"sakkanal_backend/internal/events"
	apphttp "sakkanal_backend/internal/http"
	"sakkanal_backend/internal/leads/handler"
	"sakkanal_backend/internal/leads/repository"
	"sakkanal_backend/internal/leads/service"
	"sakkanal_backend/platform/config"
	"sakkanal_backend/platform/logger"
	"sakkanal_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Module is the leads bounded context module implementing http.Module.
type Module struct {
	handler       *handler.Handler
	publicHandler *handler.PublicHandler
	service       *service.Service
	repo          *repository.Repository
}

// NewModule creates and initializes the leads module with all its dependencies.
func NewModule(pool *pgxpool.Pool, eventBus events.Bus, val *validator.Validator, cfg config.LeadsConfig, log *logger.Logger) *Module {
	repo := repository.New(pool)
	svc := service.New(repo, eventBus, cfg, log)
	if eventBus != nil {
		svc.Subscribe(eventBus)
	}

	return &Module{
		handler:       handler.New(svc, val),
		publicHandler: handler.NewPublicHandler(svc, val),
		service:       svc,
		repo:          repo,
	}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "leads"
}

// Service returns the leads service for other modules.
func (m *Module) Service() *service.Service {
	return m.service
}

// Repository returns the repository for adapters in other domains.
func (m *Module) Repository() *repository.Repository {
	return m.repo
}

// RegisterRoutes mounts leads routes on the provided router context.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	// Public lead capture, throttled per IP
	ctx.Public.POST("/leads", ctx.PublicRateLimiter.RateLimit(), m.publicHandler.CreateLead)

	leads := ctx.Admin.Group("/leads")
	leads.GET("", m.handler.List)
	leads.GET("/:id", m.handler.Get)
	leads.PUT("/:id/status", m.handler.UpdateStatus)
	leads.GET("/:id/interactions", m.handler.ListInteractions)
	leads.POST("/:id/interactions", m.handler.AddInteraction)
	leads.DELETE("/:id", m.handler.Delete)
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
