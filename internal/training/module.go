// Package training provides the admin panel that curates project outcomes
// and tracks model versions for the recommender.
package training

import (
	apphttp "sakkanal_backend/internal/http"
	"sakkanal_backend/internal/training/handler"
	"sakkanal_backend/internal/training/repository"
	"sakkanal_backend/internal/training/service"
	"sakkanal_backend/platform/logger"
	"sakkanal_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Module is the training module implementing http.Module.
type Module struct {
	handler *handler.Handler
}

func NewModule(pool *pgxpool.Pool, val *validator.Validator, log *logger.Logger) *Module {
	svc := service.New(repository.New(pool), log)
	return &Module{handler: handler.New(svc, val)}
}

func (m *Module) Name() string {
	return "training"
}

func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	group := ctx.Admin.Group("/training")
	group.GET("/data", m.handler.ListData)
	group.POST("/data", m.handler.AddData)
	group.GET("/stats", m.handler.Stats)
	group.POST("/collect", m.handler.Collect)
	group.POST("/train", m.handler.Train)
	group.GET("/models/metrics", m.handler.ModelMetrics)
	group.POST("/models/activate", m.handler.Activate)
}

var _ apphttp.Module = (*Module)(nil)
