// Package recommendation provides the scenario recommendation module.
package recommendation

import (
	apphttp "sakkanal_backend/internal/http"
	"sakkanal_backend/internal/recommendation/handler"
	"sakkanal_backend/internal/recommendation/ports"
	"sakkanal_backend/internal/recommendation/repository"
	"sakkanal_backend/internal/recommendation/service"
	"sakkanal_backend/platform/logger"
	"sakkanal_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Module is the recommendation module implementing http.Module.
type Module struct {
	handler *handler.Handler
	service *service.Service
}

// NewModule creates the recommendation module.
func NewModule(pool *pgxpool.Pool, scenarios ports.ScenarioReader, val *validator.Validator, log *logger.Logger) *Module {
	svc := service.New(scenarios, repository.New(pool), log)
	return &Module{
		handler: handler.New(svc, val),
		service: svc,
	}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "recommendation"
}

// Service returns the service layer for other modules.
func (m *Module) Service() *service.Service {
	return m.service
}

// RegisterRoutes mounts the public recommendation routes.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	group := ctx.Public.Group("/recommendations")
	group.POST("", m.handler.Recommend)
	group.POST("/compare", m.handler.Compare)
}

var _ apphttp.Module = (*Module)(nil)
