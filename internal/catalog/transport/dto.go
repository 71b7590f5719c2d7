package transport

import "github.com/shopspring/decimal"

type TenantListResponse struct {
	Tenants  []string `json:"tenants"`
	LoadedAt string   `json:"loadedAt,omitempty"`
}

type ProductResponse struct {
	Name             string          `json:"name"`
	DefaultUnitPrice decimal.Decimal `json:"defaultUnitPrice"`
}

type ProductListResponse struct {
	Tenant   string            `json:"tenant"`
	Products []ProductResponse `json:"products"`
}
