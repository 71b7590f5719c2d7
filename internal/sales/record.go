// Package sales appends submitted carts to the transaction log.
package sales

import (
	"context"
	"encoding/json"

	"kasir_backend/internal/cart"
)

// TimestampLayout is the log's timestamp format, local clock.
const TimestampLayout = "2006-01-02 15:04:05"

// Record is one log row: a line item stamped with the submission time.
type Record struct {
	cart.LineItem
	Timestamp string `json:"timestamp"`
}

// Row renders the record in log column order: tenant, product, quantity,
// unit price, subtotal, timestamp. Decimals are sent as JSON number literals
// so no float rounding happens on the way to the sheet.
func (r Record) Row() []interface{} {
	return []interface{}{
		r.Tenant,
		r.ProductName,
		r.Quantity,
		json.Number(r.UnitPrice.String()),
		json.Number(r.Subtotal.String()),
		r.Timestamp,
	}
}

// Sink is the append-only transaction log. Append must write the whole batch
// in one upstream call.
type Sink interface {
	Append(ctx context.Context, records []Record) error
	// Backend names the log for logging.
	Backend() string
}
