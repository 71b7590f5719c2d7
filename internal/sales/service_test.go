package sales

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"kasir_backend/internal/cart"
	"kasir_backend/platform/apperr"
	"kasir_backend/platform/logger"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingSink struct {
	calls   [][]Record
	failure error
}

func (s *recordingSink) Append(_ context.Context, records []Record) error {
	s.calls = append(s.calls, records)
	return s.failure
}

func (s *recordingSink) Backend() string { return "memory" }

func sampleCart() cart.Cart {
	return cart.ComputeCart([]cart.LineItem{
		{Tenant: "A", ProductName: "Rice", Quantity: 2, UnitPrice: decimal.NewFromInt(10000), Subtotal: decimal.NewFromInt(20000)},
		{Tenant: "A", ProductName: "Egg", Quantity: 3, UnitPrice: decimal.RequireFromString("1999.5"), Subtotal: decimal.RequireFromString("5998.5")},
	})
}

func fixedClock() time.Time {
	return time.Date(2024, 3, 9, 14, 5, 7, 0, time.Local)
}

func TestSubmit_AppendsWholeCartInOneCall(t *testing.T) {
	sink := &recordingSink{}
	svc := New(sink, fixedClock, logger.Discard())

	receipt, err := svc.Submit(context.Background(), sampleCart())
	require.NoError(t, err)

	require.Len(t, sink.calls, 1)
	records := sink.calls[0]
	require.Len(t, records, 2)
	for _, r := range records {
		assert.Equal(t, "2024-03-09 14:05:07", r.Timestamp)
	}
	assert.Equal(t, "Rice", records[0].ProductName)
	assert.Equal(t, "Egg", records[1].ProductName)

	assert.Equal(t, 2, receipt.Lines)
	assert.Equal(t, "25998.5", receipt.GrandTotal.String())
	assert.Equal(t, "2024-03-09 14:05:07", receipt.Timestamp)
}

func TestSubmit_EmptyCartSkipsSink(t *testing.T) {
	sink := &recordingSink{}
	svc := New(sink, fixedClock, logger.Discard())

	_, err := svc.Submit(context.Background(), cart.ComputeCart(nil))
	require.Error(t, err)
	assert.True(t, apperr.Is(err, apperr.KindEmptyCart))
	assert.Empty(t, sink.calls)
}

func TestSubmit_FailureCarriesDiagnosticAndDoesNotRetry(t *testing.T) {
	sink := &recordingSink{failure: errors.New("googleapi: Error 429: Quota exceeded")}
	svc := New(sink, fixedClock, logger.Discard())

	_, err := svc.Submit(context.Background(), sampleCart())
	require.Error(t, err)
	assert.True(t, apperr.Is(err, apperr.KindUpstream))

	var appErr *apperr.Error
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, "failed to save transaction: googleapi: Error 429: Quota exceeded", appErr.Message)
	assert.Len(t, sink.calls, 1)
}

func TestRecordRow_ColumnOrderAndExactNumbers(t *testing.T) {
	r := Record{
		LineItem: cart.LineItem{
			Tenant: "A", ProductName: "Egg", Quantity: 3,
			UnitPrice: decimal.RequireFromString("1999.5"), Subtotal: decimal.RequireFromString("5998.5"),
		},
		Timestamp: "2024-03-09 14:05:07",
	}

	data, err := json.Marshal(r.Row())
	require.NoError(t, err)
	assert.JSONEq(t, `["A","Egg",3,1999.5,5998.5,"2024-03-09 14:05:07"]`, string(data))
}

type fakeAppender struct {
	worksheet string
	rows      [][]interface{}
	calls     int
}

func (f *fakeAppender) AppendRows(_ context.Context, worksheet string, rows [][]interface{}) error {
	f.calls++
	f.worksheet = worksheet
	f.rows = rows
	return nil
}

func TestSheetSink_SingleAppend(t *testing.T) {
	appender := &fakeAppender{}
	sink := NewSheetSink(appender, "Log")

	err := sink.Append(context.Background(), []Record{
		{LineItem: cart.LineItem{Tenant: "A", ProductName: "Rice", Quantity: 1}},
		{LineItem: cart.LineItem{Tenant: "A", ProductName: "Egg", Quantity: 2}},
	})
	require.NoError(t, err)

	assert.Equal(t, 1, appender.calls)
	assert.Equal(t, "Log", appender.worksheet)
	assert.Len(t, appender.rows, 2)
	assert.Equal(t, "sheets:Log", sink.Backend())
}

type fakeCopier struct {
	table   pgx.Identifier
	columns []string
	rows    [][]any
	calls   int
	err     error
}

func (f *fakeCopier) CopyFrom(_ context.Context, table pgx.Identifier, columns []string, src pgx.CopyFromSource) (int64, error) {
	f.calls++
	f.table = table
	f.columns = columns
	for src.Next() {
		values, err := src.Values()
		if err != nil {
			return 0, err
		}
		f.rows = append(f.rows, values)
	}
	if f.err != nil {
		return 0, f.err
	}
	return int64(len(f.rows)), nil
}

func TestPostgresSink_CopiesBatchOnce(t *testing.T) {
	copier := &fakeCopier{}
	sink := NewPostgresSink(copier)

	err := sink.Append(context.Background(), []Record{
		{LineItem: cart.LineItem{Tenant: "A", ProductName: "Rice", Quantity: 2,
			UnitPrice: decimal.NewFromInt(10000), Subtotal: decimal.NewFromInt(20000)}, Timestamp: "2024-03-09 14:05:07"},
		{LineItem: cart.LineItem{Tenant: "A", ProductName: "Egg", Quantity: 3,
			UnitPrice: decimal.RequireFromString("1999.5"), Subtotal: decimal.RequireFromString("5998.5")}, Timestamp: "2024-03-09 14:05:07"},
	})
	require.NoError(t, err)

	assert.Equal(t, 1, copier.calls)
	assert.Equal(t, pgx.Identifier{"sales_log"}, copier.table)
	assert.Equal(t, salesLogColumns, copier.columns)
	require.Len(t, copier.rows, 2)

	price, ok := copier.rows[1][3].(pgtype.Numeric)
	require.True(t, ok)
	assert.Equal(t, int64(19995), price.Int.Int64())
	assert.Equal(t, int32(-1), price.Exp)
}

func TestPostgresSink_PropagatesCopyError(t *testing.T) {
	sink := NewPostgresSink(&fakeCopier{err: errors.New("connection refused")})

	err := sink.Append(context.Background(), []Record{{LineItem: cart.LineItem{Tenant: "A", ProductName: "Rice", Quantity: 1}}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "connection refused")
}
