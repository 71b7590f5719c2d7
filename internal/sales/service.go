package sales

import (
	"context"
	"time"

	"kasir_backend/internal/cart"
	"kasir_backend/platform/apperr"
	"kasir_backend/platform/logger"

	"github.com/shopspring/decimal"
)

// User-facing outcome messages.
const (
	MsgSubmitted    = "transaction saved"
	MsgSubmitFailed = "failed to save transaction"
	MsgEmptyCart    = "cart is empty; enter a quantity for at least one product"
)

// Receipt describes a committed submission.
type Receipt struct {
	Lines      int             `json:"lines"`
	GrandTotal decimal.Decimal `json:"grandTotal"`
	Timestamp  string          `json:"timestamp"`
}

// Service submits carts to the sink.
type Service struct {
	sink Sink
	now  func() time.Time
	log  *logger.Logger
}

// New creates a sales service. now defaults to time.Now.
func New(sink Sink, now func() time.Time, log *logger.Logger) *Service {
	if now == nil {
		now = time.Now
	}
	return &Service{sink: sink, now: now, log: log}
}

// Submit stamps every line with the current local time and appends the cart
// as a single batch. An empty cart is rejected without touching the sink.
// Failures are returned as-is from the sink, wrapped; there is no retry.
func (s *Service) Submit(ctx context.Context, c cart.Cart) (Receipt, error) {
	if c.IsEmpty() {
		return Receipt{}, apperr.EmptyCart(MsgEmptyCart)
	}

	timestamp := s.now().In(time.Local).Format(TimestampLayout)
	records := make([]Record, 0, len(c.Items))
	for _, item := range c.Items {
		records = append(records, Record{LineItem: item, Timestamp: timestamp})
	}

	log := s.log.WithContext(ctx)
	if err := s.sink.Append(ctx, records); err != nil {
		log.SinkError(s.sink.Backend(), err)
		return Receipt{}, apperr.Upstream(MsgSubmitFailed, err).WithOp("sales.Submit")
	}

	log.TransactionsAppended(s.sink.Backend(), c.Items[0].Tenant, len(records), c.GrandTotal.String())
	return Receipt{Lines: len(records), GrandTotal: c.GrandTotal, Timestamp: timestamp}, nil
}
