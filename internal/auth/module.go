// Package auth provides the authentication bounded context module.
// This file defines the module that encapsulates all auth setup and route registration.
package auth

import (
	"sakkanal_backend/internal/auth/handler"
	"sakkanal_backend/internal/auth/repository"
	"sakkanal_backend/internal/auth/service"
	authvalidator "sakkanal_backend/internal/auth/validator"
	apphttp "sakkanal_backend/internal/http"
	"sakkanal_backend/platform/config"
	"sakkanal_backend/platform/logger"
	"sakkanal_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

// ModuleConfig is the slice of configuration the auth module reads.
type ModuleConfig interface {
	config.AuthServiceConfig
	config.CookieConfig
}

// Module is the auth bounded context module implementing http.Module.
type Module struct {
	handler *handler.Handler
	service *service.Service
}

// NewModule creates and initializes the auth module with all its dependencies.
func NewModule(pool *pgxpool.Pool, cfg ModuleConfig, log *logger.Logger, val *validator.Validator) (*Module, error) {
	if err := authvalidator.Register(val); err != nil {
		return nil, err
	}
	repo := repository.New(pool)
	svc := service.New(repo, cfg, log)
	h := handler.New(svc, cfg, val)

	return &Module{
		handler: h,
		service: svc,
	}, nil
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "auth"
}

// Service returns the auth service for use by adapters (e.g., AdminDirectory).
func (m *Module) Service() *service.Service {
	return m.service
}

// RegisterRoutes mounts auth routes on the provided router context.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	// Public auth routes with stricter rate limiting
	authGroup := ctx.V1.Group("/auth")
	authGroup.Use(ctx.AuthRateLimiter.RateLimit())
	m.handler.RegisterRoutes(authGroup)

	// Protected admin routes
	ctx.Protected.GET("/auth/me", m.handler.GetMe)
	ctx.Protected.PUT("/auth/me/password", m.handler.ChangePassword)
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
