// Package cart computes line items and totals for one tenant's products.
// Everything here is pure: no I/O, no clock, no shared state.
package cart

import (
	"kasir_backend/internal/catalog/repository"
	"kasir_backend/platform/apperr"

	"github.com/shopspring/decimal"
)

// LineInput is the user-editable state of one product row.
type LineInput struct {
	Quantity  int64           `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unitPrice"`
}

// LineItem is one product row that made it into the cart.
type LineItem struct {
	Tenant      string          `json:"tenant"`
	ProductName string          `json:"productName"`
	Quantity    int64           `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unitPrice"`
	Subtotal    decimal.Decimal `json:"subtotal"`
}

// Cart is the ordered set of line items for one tenant.
type Cart struct {
	Items      []LineItem      `json:"items"`
	GrandTotal decimal.Decimal `json:"grandTotal"`
}

// DefaultInput is the state of a freshly displayed row: nothing ordered, catalog price.
func DefaultInput(p repository.Product) LineInput {
	return LineInput{Quantity: 0, UnitPrice: p.DefaultUnitPrice}
}

// Validate rejects negative quantities and prices. Callers at the input
// boundary must run it before handing inputs to the engine.
func (in LineInput) Validate() error {
	if in.Quantity < 0 {
		return apperr.Validation("quantity must not be negative")
	}
	if in.UnitPrice.IsNegative() {
		return apperr.Validation("unit price must not be negative")
	}
	return nil
}

// Subtotal is quantity × unit price, exact.
func (in LineInput) Subtotal() decimal.Decimal {
	return in.UnitPrice.Mul(decimal.NewFromInt(in.Quantity))
}

// ComputeLine turns a product row into a line item. Rows with no quantity are
// left out of the cart whatever their price; a zero price with a positive
// quantity is kept.
func ComputeLine(p repository.Product, in LineInput) (LineItem, bool) {
	if in.Quantity <= 0 {
		return LineItem{}, false
	}
	return LineItem{
		Tenant:      p.Tenant,
		ProductName: p.Name,
		Quantity:    in.Quantity,
		UnitPrice:   in.UnitPrice,
		Subtotal:    in.Subtotal(),
	}, true
}

// ComputeCart sums the line items in the order given.
func ComputeCart(items []LineItem) Cart {
	total := decimal.Zero
	out := make([]LineItem, 0, len(items))
	for _, item := range items {
		total = total.Add(item.Subtotal)
		out = append(out, item)
	}
	return Cart{Items: out, GrandTotal: total}
}

// Build folds a tenant's products, in catalog order, with the inputs keyed by
// product name. Products without an input use DefaultInput.
func Build(products []repository.Product, inputs map[string]LineInput) Cart {
	items := make([]LineItem, 0, len(products))
	for _, p := range products {
		in, ok := inputs[p.Name]
		if !ok {
			in = DefaultInput(p)
		}
		if item, ok := ComputeLine(p, in); ok {
			items = append(items, item)
		}
	}
	return ComputeCart(items)
}

// IsEmpty reports whether the cart holds no line items.
func (c Cart) IsEmpty() bool {
	return len(c.Items) == 0
}
