// Package cashier provides the cashier form bounded context module.
package cashier

import (
	"time"

	"kasir_backend/internal/cashier/handler"
	"kasir_backend/internal/cashier/service"
	"kasir_backend/internal/cashier/web"
	apphttp "kasir_backend/internal/http"
	"kasir_backend/platform/logger"
	"kasir_backend/platform/validator"
)

// Config is the subset of configuration the cashier module needs.
type Config struct {
	SessionIdleTTL   time.Duration
	ResetAfterSubmit bool
}

// Module is the cashier bounded context module implementing http.Module.
type Module struct {
	handler *handler.Handler
	service *service.Service
}

// NewModule creates and initializes the cashier module.
func NewModule(catalog service.CatalogReader, submitter service.Submitter, val *validator.Validator, cfg Config, log *logger.Logger) *Module {
	store := service.NewStore(cfg.SessionIdleTTL, nil)
	svc := service.New(catalog, submitter, store, cfg.ResetAfterSubmit, log)

	return &Module{
		handler: handler.New(svc, val),
		service: svc,
	}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "cashier"
}

// Service returns the service layer for external use.
func (m *Module) Service() *service.Service {
	return m.service
}

// RegisterRoutes mounts cashier routes and the form page.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	sessions := ctx.V1.Group("/cashier/sessions")
	sessions.POST("", m.handler.CreateSession)
	sessions.GET("/:id", m.handler.GetSession)
	sessions.PUT("/:id/tenant", m.handler.SelectTenant)
	sessions.PUT("/:id/lines", m.handler.UpdateLine)
	sessions.POST("/:id/submit", ctx.SubmitLimiter.RateLimit(), m.handler.Submit)

	web.Register(ctx.Engine)
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
