// Package reports renders the prospect energy report and delivers it as a PDF.
package reports

import (
	"sakkanal_backend/internal/events"
	apphttp "sakkanal_backend/internal/http"
	"sakkanal_backend/platform/logger"
	"sakkanal_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Module is the reports module implementing http.Module.
type Module struct {
	handler *Handler
	service *Service
}

// NewModule creates the reports module. Converter and object storage are
// attached through Service when configured.
func NewModule(pool *pgxpool.Pool, scenarios ScenarioReader, bus events.Bus, val *validator.Validator, log *logger.Logger) *Module {
	svc := NewService(scenarios, NewRepository(pool), bus, log)
	return &Module{
		handler: NewHandler(svc, val),
		service: svc,
	}
}

func (m *Module) Name() string {
	return "reports"
}

func (m *Module) Service() *Service {
	return m.service
}

func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	ctx.Public.POST("/reports", ctx.PublicRateLimiter.RateLimit(), m.handler.Generate)
	ctx.Admin.GET("/reports", m.handler.List)
}

var _ apphttp.Module = (*Module)(nil)
