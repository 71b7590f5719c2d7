package sales

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/shopspring/decimal"
)

var salesLogColumns = []string{"tenant", "product_name", "quantity", "unit_price", "subtotal", "recorded_at"}

// Copier is the bulk-copy part of *pgxpool.Pool.
type Copier interface {
	CopyFrom(ctx context.Context, tableName pgx.Identifier, columnNames []string, rowSrc pgx.CopyFromSource) (int64, error)
}

// PostgresSink appends records to the sales_log table with one COPY, which
// commits all rows or none.
type PostgresSink struct {
	db Copier
}

// NewPostgresSink creates a sink over db.
func NewPostgresSink(db Copier) *PostgresSink {
	return &PostgresSink{db: db}
}

var _ Sink = (*PostgresSink)(nil)

// Append copies all records in one statement.
func (s *PostgresSink) Append(ctx context.Context, records []Record) error {
	rows := make([][]any, 0, len(records))
	for _, r := range records {
		rows = append(rows, []any{
			r.Tenant,
			r.ProductName,
			r.Quantity,
			toNumeric(r.UnitPrice),
			toNumeric(r.Subtotal),
			r.Timestamp,
		})
	}

	copied, err := s.db.CopyFrom(ctx, pgx.Identifier{"sales_log"}, salesLogColumns, pgx.CopyFromRows(rows))
	if err != nil {
		return fmt.Errorf("copy sales log: %w", err)
	}
	if copied != int64(len(records)) {
		return fmt.Errorf("copy sales log: wrote %d of %d rows", copied, len(records))
	}
	return nil
}

// Backend names the log for logging.
func (s *PostgresSink) Backend() string {
	return "postgres:sales_log"
}

func toNumeric(d decimal.Decimal) pgtype.Numeric {
	return pgtype.Numeric{Int: d.Coefficient(), Exp: d.Exponent(), Valid: true}
}
