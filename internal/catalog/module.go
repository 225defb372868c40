// Package catalog provides the catalog bounded context module.
package catalog

import (
	"context"

	"sakkanal_backend/internal/catalog/handler"
	"sakkanal_backend/internal/catalog/repository"
	"sakkanal_backend/internal/catalog/service"
	apphttp "sakkanal_backend/internal/http"
	"sakkanal_backend/platform/config"
	"sakkanal_backend/platform/logger"
	"sakkanal_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Module is the catalog bounded context module implementing http.Module.
type Module struct {
	handler *handler.Handler
	service *service.Service
	repo    repository.Repository
}

// NewModule creates and initializes the catalog module.
func NewModule(pool *pgxpool.Pool, val *validator.Validator, log *logger.Logger) *Module {
	repo := repository.New(pool)
	svc := service.New(repo, log)
	h := handler.New(svc, val)

	return &Module{
		handler: h,
		service: svc,
		repo:    repo,
	}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "catalog"
}

// Service returns the service layer for external use.
func (m *Module) Service() *service.Service {
	return m.service
}

// Repository returns the repository for adapters that read scenarios.
func (m *Module) Repository() repository.Repository {
	return m.repo
}

// Seed loads the YAML seed file into an empty catalog.
func (m *Module) Seed(ctx context.Context, cfg config.CatalogConfig) error {
	_, err := m.service.SeedFromFile(ctx, cfg.GetCatalogSeedFile())
	return err
}

// RegisterRoutes mounts catalog routes on the provided router context.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	// Public read-only endpoints for the questionnaire and comparison pages
	ctx.Public.GET("/scenarios", m.handler.ListScenarios)
	ctx.Public.GET("/scenarios/:id", m.handler.GetScenarioByID)

	// Admin CRUD endpoints
	adminGroup := ctx.Admin.Group("/catalog")
	adminGroup.GET("/scenarios", m.handler.ListScenarios)
	adminGroup.POST("/scenarios", m.handler.CreateScenario)
	adminGroup.PUT("/scenarios/:id", m.handler.UpdateScenario)
	adminGroup.DELETE("/scenarios/:id", m.handler.DeleteScenario)

	adminGroup.GET("/products", m.handler.ListProducts)
	adminGroup.GET("/products/:id", m.handler.GetProductByID)
	adminGroup.POST("/products", m.handler.CreateProduct)
	adminGroup.PUT("/products/:id", m.handler.UpdateProduct)
	adminGroup.DELETE("/products/:id", m.handler.DeleteProduct)
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
