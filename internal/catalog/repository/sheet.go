package repository

import (
	"context"

	"kasir_backend/platform/sheets"
)

// TableReader reads a worksheet as a table. *sheets.Client satisfies it.
type TableReader interface {
	ReadTable(ctx context.Context, worksheet string) (sheets.Table, error)
}

// SheetRepo reads the catalog from the master worksheet.
type SheetRepo struct {
	reader    TableReader
	worksheet string
	columns   Columns
}

// NewSheetRepo creates a catalog repository over worksheet.
func NewSheetRepo(reader TableReader, worksheet string, columns Columns) *SheetRepo {
	return &SheetRepo{reader: reader, worksheet: worksheet, columns: columns}
}

// Compile-time check that SheetRepo implements Repository.
var _ Repository = (*SheetRepo)(nil)

// FetchCatalog reads and parses the master worksheet.
func (r *SheetRepo) FetchCatalog(ctx context.Context) (Catalog, error) {
	table, err := r.reader.ReadTable(ctx, r.worksheet)
	if err != nil {
		return Catalog{}, err
	}
	return ParseTable(table, r.columns)
}

// Source names the upstream for logging.
func (r *SheetRepo) Source() string {
	return "sheets:" + r.worksheet
}
