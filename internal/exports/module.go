package exports

import (
	apphttp "sakkanal_backend/internal/http"
	"sakkanal_backend/platform/logger"
	"sakkanal_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Module is the exports bounded context module implementing http.Module.
type Module struct {
	handler *Handler
	repo    *Repository
}

// NewModule creates and initializes the exports module.
func NewModule(pool *pgxpool.Pool, analytics AnalyticsSource, val *validator.Validator, log *logger.Logger) *Module {
	repo := NewRepository(pool)
	handler := NewHandler(repo, analytics, val, log)

	return &Module{
		handler: handler,
		repo:    repo,
	}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "exports"
}

// RegisterRoutes mounts export routes on the provided router context.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	pullGroup := ctx.V1.Group("/exports")
	pullGroup.Use(APIKeyAuthMiddleware(m.repo))
	pullGroup.GET("/leads.csv", m.handler.ExportLeadsCSV)

	adminGroup := ctx.Admin.Group("/exports")
	adminGroup.GET("/leads.csv", m.handler.ExportLeadsCSV)
	adminGroup.GET("/analytics.csv", m.handler.ExportAnalyticsCSV)

	keys := adminGroup.Group("/api-keys")
	keys.POST("", m.handler.HandleCreateAPIKey)
	keys.GET("", m.handler.HandleListAPIKeys)
	keys.DELETE("/:id", m.handler.HandleRevokeAPIKey)
}

var _ apphttp.Module = (*Module)(nil)
