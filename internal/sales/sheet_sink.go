package sales

import (
	"context"
)

// RowAppender appends rows to a worksheet in one call. *sheets.Client satisfies it.
type RowAppender interface {
	AppendRows(ctx context.Context, worksheet string, rows [][]interface{}) error
}

// SheetSink appends records to the log worksheet.
type SheetSink struct {
	appender  RowAppender
	worksheet string
}

// NewSheetSink creates a sink writing to worksheet.
func NewSheetSink(appender RowAppender, worksheet string) *SheetSink {
	return &SheetSink{appender: appender, worksheet: worksheet}
}

var _ Sink = (*SheetSink)(nil)

// Append writes all records with a single append call.
func (s *SheetSink) Append(ctx context.Context, records []Record) error {
	rows := make([][]interface{}, 0, len(records))
	for _, r := range records {
		rows = append(rows, r.Row())
	}
	return s.appender.AppendRows(ctx, s.worksheet, rows)
}

// Backend names the log for logging.
func (s *SheetSink) Backend() string {
	return "sheets:" + s.worksheet
}
