// Package catalog provides the catalog bounded context module.
package catalog

import (
	"time"

	"kasir_backend/internal/catalog/cache"
	"kasir_backend/internal/catalog/handler"
	"kasir_backend/internal/catalog/repository"
	"kasir_backend/internal/catalog/service"
	apphttp "kasir_backend/internal/http"
	"kasir_backend/platform/logger"

	"github.com/redis/go-redis/v9"
)

// Config is the subset of configuration the catalog module needs.
type Config struct {
	TTL            time.Duration
	RedisKeyPrefix string
}

// Module is the catalog bounded context module implementing http.Module.
type Module struct {
	handler *handler.Handler
	service *service.Service
}

// NewModule creates and initializes the catalog module. rdb may be nil, in
// which case only the in-process cache tier is used.
func NewModule(repo repository.Repository, rdb redis.Cmdable, cfg Config, log *logger.Logger) *Module {
	tiers := []cache.Cache{cache.NewMemory(nil)}
	if rdb != nil {
		tiers = append(tiers, cache.NewRedis(rdb, cfg.RedisKeyPrefix))
	}

	svc := service.New(repo, tiers, cfg.TTL, log)
	h := handler.New(svc)

	return &Module{
		handler: h,
		service: svc,
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

// RegisterRoutes mounts catalog routes on the provided router context.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	ctx.V1.GET("/catalog/tenants", m.handler.ListTenants)
	ctx.V1.GET("/catalog/tenants/:tenant/products", m.handler.ListProducts)
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
