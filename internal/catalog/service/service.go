package service

import (
	"context"
	"time"

	"golang.org/x/sync/singleflight"

	"kasir_backend/internal/catalog/cache"
	"kasir_backend/internal/catalog/repository"
	"kasir_backend/internal/catalog/transport"
	"kasir_backend/platform/apperr"
	"kasir_backend/platform/logger"
)

// DefaultTTL is how long a loaded catalog is served before the next caller refetches it.
const DefaultTTL = 600 * time.Second

const msgCatalogUnavailable = "products cannot be loaded"

// Service provides the read-only product catalog.
type Service struct {
	repo  repository.Repository
	tiers []cache.Cache
	ttl   time.Duration
	now   func() time.Time
	log   *logger.Logger
	group singleflight.Group
}

// Option customizes a Service.
type Option func(*Service)

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// New creates a catalog service. tiers are consulted in order on every load;
// a miss in all of them triggers one synchronous fetch from repo.
func New(repo repository.Repository, tiers []cache.Cache, ttl time.Duration, log *logger.Logger, opts ...Option) *Service {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	s := &Service{repo: repo, tiers: tiers, ttl: ttl, now: time.Now, log: log}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Load returns the current catalog. On upstream failure it returns an empty
// catalog together with an Unavailable error carrying the diagnostic; failures
// are not cached, so the next call tries again.
func (s *Service) Load(ctx context.Context) (repository.Catalog, error) {
	if catalog, ok := s.lookup(ctx); ok {
		return catalog, nil
	}

	// Concurrent callers that all missed share a single fetch. The fetch is
	// detached from the first caller's cancellation so the others still get it.
	result, err, _ := s.group.Do("catalog", func() (interface{}, error) {
		if catalog, ok := s.lookup(ctx); ok {
			return catalog, nil
		}
		return s.fetch(context.WithoutCancel(ctx))
	})
	if err != nil {
		return repository.Catalog{}, err
	}
	return result.(repository.Catalog), nil
}

// ListTenants returns tenant names in catalog order.
func (s *Service) ListTenants(ctx context.Context) (transport.TenantListResponse, error) {
	catalog, err := s.Load(ctx)
	if err != nil {
		return transport.TenantListResponse{Tenants: []string{}}, err
	}
	return transport.TenantListResponse{
		Tenants:  catalog.Tenants(),
		LoadedAt: catalog.LoadedAt.Format(time.RFC3339),
	}, nil
}

// ListProducts returns a tenant's products with their default prices.
func (s *Service) ListProducts(ctx context.Context, tenant string) (transport.ProductListResponse, error) {
	catalog, err := s.Load(ctx)
	if err != nil {
		return transport.ProductListResponse{}, err
	}
	if !catalog.HasTenant(tenant) {
		return transport.ProductListResponse{}, apperr.NotFound("tenant not found")
	}
	return toProductListResponse(tenant, catalog.ProductsFor(tenant)), nil
}

func (s *Service) lookup(ctx context.Context) (repository.Catalog, bool) {
	for i, tier := range s.tiers {
		catalog, ok, err := tier.Get(ctx)
		if err != nil {
			s.log.WithContext(ctx).Warn("catalog cache read failed", "tier", tier.Name(), "error", err)
			continue
		}
		if !ok {
			continue
		}
		// Backfill faster tiers with whatever lifetime the snapshot has left.
		if remaining := s.remaining(catalog); remaining > 0 {
			for _, faster := range s.tiers[:i] {
				s.store(ctx, faster, catalog, remaining)
			}
		}
		return catalog, true
	}
	return repository.Catalog{}, false
}

func (s *Service) fetch(ctx context.Context) (repository.Catalog, error) {
	catalog, err := s.repo.FetchCatalog(ctx)
	if err != nil {
		s.log.CatalogLoadFailed(s.repo.Source(), err)
		return repository.Catalog{}, apperr.Unavailable(msgCatalogUnavailable, err).WithOp("catalog.Load")
	}

	catalog.LoadedAt = s.now()
	s.log.CatalogLoaded(s.repo.Source(), len(catalog.Products), len(catalog.Tenants()), catalog.SkippedRows)

	for _, tier := range s.tiers {
		s.store(ctx, tier, catalog, s.ttl)
	}
	return catalog, nil
}

func (s *Service) store(ctx context.Context, tier cache.Cache, catalog repository.Catalog, ttl time.Duration) {
	if err := tier.Set(ctx, catalog, ttl); err != nil {
		s.log.WithContext(ctx).Warn("catalog cache write failed", "tier", tier.Name(), "error", err)
	}
}

func (s *Service) remaining(catalog repository.Catalog) time.Duration {
	return s.ttl - s.now().Sub(catalog.LoadedAt)
}

func toProductListResponse(tenant string, products []repository.Product) transport.ProductListResponse {
	items := make([]transport.ProductResponse, 0, len(products))
	for _, p := range products {
		items = append(items, transport.ProductResponse{
			Name:             p.Name,
			DefaultUnitPrice: p.DefaultUnitPrice,
		})
	}
	return transport.ProductListResponse{Tenant: tenant, Products: items}
}
