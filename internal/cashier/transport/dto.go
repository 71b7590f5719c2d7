package transport

import (
	"github.com/shopspring/decimal"

	"kasir_backend/internal/cart"
	"kasir_backend/internal/sales"
)

// Banner levels.
const (
	LevelSuccess = "success"
	LevelWarning = "warning"
	LevelError   = "error"
)

type SelectTenantRequest struct {
	Tenant string `json:"tenant" validate:"required,max=200"`
}

type UpdateLineRequest struct {
	Product   string           `json:"product" validate:"required,max=200"`
	Quantity  *int64           `json:"quantity" validate:"required,gte=0,lte=1000000"`
	UnitPrice *decimal.Decimal `json:"unitPrice,omitempty" validate:"omitempty,gte=0"`
}

type Banner struct {
	Level   string `json:"level"`
	Message string `json:"message"`
}

type RowView struct {
	ProductName      string          `json:"productName"`
	DefaultUnitPrice decimal.Decimal `json:"defaultUnitPrice"`
	UnitPrice        decimal.Decimal `json:"unitPrice"`
	Quantity         int64           `json:"quantity"`
	Subtotal         decimal.Decimal `json:"subtotal"`
}

type SessionView struct {
	SessionID      string         `json:"sessionId"`
	State          string         `json:"state"`
	Tenants        []string       `json:"tenants"`
	SelectedTenant string         `json:"selectedTenant,omitempty"`
	Rows           []RowView      `json:"rows"`
	Cart           cart.Cart      `json:"cart"`
	Banner         *Banner        `json:"banner,omitempty"`
	Receipt        *sales.Receipt `json:"receipt,omitempty"`
}
