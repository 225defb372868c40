// Package analytics aggregates lead and visit data for the admin dashboard.
package analytics

import (
	apphttp "sakkanal_backend/internal/http"
	"sakkanal_backend/platform/logger"
	"sakkanal_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Module is the analytics module implementing http.Module.
type Module struct {
	handler *Handler
	service *Service
}

func NewModule(pool *pgxpool.Pool, val *validator.Validator, log *logger.Logger) *Module {
	svc := NewService(NewRepository(pool), log)
	return &Module{
		handler: NewHandler(svc, val),
		service: svc,
	}
}

func (m *Module) Name() string {
	return "analytics"
}

// Service exposes the analytics summary to the exports module.
func (m *Module) Service() *Service {
	return m.service
}

func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	ctx.Public.POST("/visits", ctx.PublicRateLimiter.RateLimit(), m.handler.RecordVisit)

	group := ctx.Admin.Group("/analytics")
	group.GET("/overview", m.handler.Overview)
	group.GET("/trends", m.handler.Trends)
}

var _ apphttp.Module = (*Module)(nil)
