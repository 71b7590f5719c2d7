package repository

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// Product is one sellable item of a tenant. Identity is the (Tenant, Name) pair;
// the source is assumed, not enforced, to keep it unique.
type Product struct {
	Tenant           string          `json:"tenant"`
	Name             string          `json:"name"`
	DefaultUnitPrice decimal.Decimal `json:"defaultUnitPrice"`
}

// Catalog is the full product list across all tenants, in source order.
type Catalog struct {
	Products    []Product `json:"products"`
	SkippedRows int       `json:"skippedRows"`
	LoadedAt    time.Time `json:"loadedAt"`
}

// Columns names the master worksheet header cells.
type Columns struct {
	Tenant  string
	Product string
	Price   string
}

// DefaultColumns is the canonical master worksheet schema.
var DefaultColumns = Columns{Tenant: "Tenant", Product: "Produk", Price: "Harga_Jual"}

// Repository fetches the catalog from its upstream source.
type Repository interface {
	FetchCatalog(ctx context.Context) (Catalog, error)
	// Source names the upstream for logging.
	Source() string
}

// IsEmpty reports whether the catalog holds no products.
func (c Catalog) IsEmpty() bool {
	return len(c.Products) == 0
}

// Tenants returns the distinct tenants in order of first appearance.
func (c Catalog) Tenants() []string {
	seen := make(map[string]struct{})
	tenants := make([]string, 0)
	for _, p := range c.Products {
		if _, ok := seen[p.Tenant]; ok {
			continue
		}
		seen[p.Tenant] = struct{}{}
		tenants = append(tenants, p.Tenant)
	}
	return tenants
}

// HasTenant reports whether at least one product belongs to tenant.
func (c Catalog) HasTenant(tenant string) bool {
	for _, p := range c.Products {
		if p.Tenant == tenant {
			return true
		}
	}
	return false
}

// ProductsFor returns the tenant's products in source order.
func (c Catalog) ProductsFor(tenant string) []Product {
	products := make([]Product, 0)
	for _, p := range c.Products {
		if p.Tenant == tenant {
			products = append(products, p)
		}
	}
	return products
}
