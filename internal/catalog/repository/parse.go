package repository

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"kasir_backend/platform/sanitize"
	"kasir_backend/platform/sheets"

	"github.com/shopspring/decimal"
)

// ParseTable maps raw worksheet rows into products.
// Rows without a tenant or product name are skipped and counted. Price cells
// that are missing, unparseable or negative become 0; one bad cell never
// fails the whole load. A missing header column does.
func ParseTable(table sheets.Table, cols Columns) (Catalog, error) {
	tenantCol, ok := table.Column(cols.Tenant)
	if !ok {
		return Catalog{}, fmt.Errorf("missing column %q", cols.Tenant)
	}
	productCol, ok := table.Column(cols.Product)
	if !ok {
		return Catalog{}, fmt.Errorf("missing column %q", cols.Product)
	}
	priceCol, ok := table.Column(cols.Price)
	if !ok {
		return Catalog{}, fmt.Errorf("missing column %q", cols.Price)
	}

	catalog := Catalog{Products: make([]Product, 0, len(table.Rows))}
	for _, row := range table.Rows {
		tenant := CellString(sheets.Cell(row, tenantCol))
		name := CellString(sheets.Cell(row, productCol))
		if tenant == "" || name == "" {
			catalog.SkippedRows++
			continue
		}
		catalog.Products = append(catalog.Products, Product{
			Tenant:           tenant,
			Name:             name,
			DefaultUnitPrice: ParsePrice(sheets.Cell(row, priceCol)),
		})
	}
	return catalog, nil
}

// ParsePrice coerces a cell value to a non-negative decimal, defaulting to 0.
func ParsePrice(value interface{}) decimal.Decimal {
	var price decimal.Decimal
	switch v := value.(type) {
	case float64:
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return decimal.Zero
		}
		price = decimal.NewFromFloat(v)
	case int:
		price = decimal.NewFromInt(int64(v))
	case int64:
		price = decimal.NewFromInt(v)
	case uint64:
		price = decimal.NewFromUint64(v)
	case string:
		parsed, err := decimal.NewFromString(strings.TrimSpace(v))
		if err != nil {
			return decimal.Zero
		}
		price = parsed
	default:
		return decimal.Zero
	}

	if price.IsNegative() {
		return decimal.Zero
	}
	return price
}

// CellString renders a cell as normalized text. Numeric cells (a product named
// "1001", say) are printed without exponent or trailing zeros.
func CellString(value interface{}) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return sanitize.Text(v)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case int:
		return strconv.Itoa(v)
	default:
		return sanitize.Text(fmt.Sprint(v))
	}
}
