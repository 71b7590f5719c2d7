package repository

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"kasir_backend/platform/sheets"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTable_CoercesPricesAndSkipsIncompleteRows(t *testing.T) {
	table := sheets.Table{
		Header: []string{"Tenant", "Produk", "Harga_Jual"},
		Rows: [][]interface{}{
			{"A", "Rice", float64(10000)},
			{"A", "Egg", "2000.50"},
			{"A", "Tea", "n/a"},
			{"A", "Water"},
			{"B", "Coffee", float64(-5)},
			{"", "Orphan", float64(1)},
			{"B", float64(1001), float64(3)},
		},
	}

	catalog, err := ParseTable(table, DefaultColumns)
	require.NoError(t, err)

	require.Len(t, catalog.Products, 6)
	assert.Equal(t, 1, catalog.SkippedRows)

	expected := []struct {
		tenant, name, price string
	}{
		{"A", "Rice", "10000"},
		{"A", "Egg", "2000.5"},
		{"A", "Tea", "0"},
		{"A", "Water", "0"},
		{"B", "Coffee", "0"},
		{"B", "1001", "3"},
	}
	for i, want := range expected {
		got := catalog.Products[i]
		assert.Equal(t, want.tenant, got.Tenant)
		assert.Equal(t, want.name, got.Name)
		assert.True(t, decimal.RequireFromString(want.price).Equal(got.DefaultUnitPrice),
			"row %d: want %s got %s", i, want.price, got.DefaultUnitPrice)
	}
}

func TestParseTable_HeaderMatchIsCaseInsensitive(t *testing.T) {
	table := sheets.Table{
		Header: []string{"nama_tenant", "nama_produk", "harga_jual"},
		Rows:   [][]interface{}{{"A", "Rice", float64(10000)}},
	}

	catalog, err := ParseTable(table, Columns{Tenant: "Nama_Tenant", Product: "nama_produk", Price: "HARGA_JUAL"})
	require.NoError(t, err)
	require.Len(t, catalog.Products, 1)
}

func TestParseTable_MissingColumnFails(t *testing.T) {
	table := sheets.Table{Header: []string{"Tenant", "Produk"}}

	_, err := ParseTable(table, DefaultColumns)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Harga_Jual")
}

func TestCatalog_TenantsKeepFirstSeenOrder(t *testing.T) {
	catalog := Catalog{Products: []Product{
		{Tenant: "B", Name: "x"},
		{Tenant: "A", Name: "y"},
		{Tenant: "B", Name: "z"},
	}}

	assert.Equal(t, []string{"B", "A"}, catalog.Tenants())
	assert.True(t, catalog.HasTenant("A"))
	assert.False(t, catalog.HasTenant("C"))

	products := catalog.ProductsFor("B")
	require.Len(t, products, 2)
	assert.Equal(t, "x", products[0].Name)
	assert.Equal(t, "z", products[1].Name)
}

type fakeReader struct {
	table sheets.Table
	err   error
}

func (f fakeReader) ReadTable(context.Context, string) (sheets.Table, error) {
	return f.table, f.err
}

func TestSheetRepo_PropagatesReadError(t *testing.T) {
	repo := NewSheetRepo(fakeReader{err: errors.New("403 forbidden")}, "Master", DefaultColumns)

	_, err := repo.FetchCatalog(context.Background())
	require.Error(t, err)
	assert.Equal(t, "sheets:Master", repo.Source())
}

func TestFileRepo_ParsesYAMLFixture(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.yaml")
	fixture := `products:
  - tenant: Warung A
    name: Nasi Goreng
    price: 15000
  - tenant: Warung A
    name: Es Teh
    price: "3500.5"
  - tenant: Warung B
    name: Kopi
  - tenant: Warung B
    name: Teh Tarik
    price: .nan
  - tenant: Warung B
    name: Susu
    price: .inf
  - tenant: Warung B
    name: Roti
    price: -.inf
  - tenant: Warung C
    name: Paket Hajatan
    price: 18446744073709551615
`
	require.NoError(t, os.WriteFile(path, []byte(fixture), 0o600))

	catalog, err := NewFileRepo(path).FetchCatalog(context.Background())
	require.NoError(t, err)
	require.Len(t, catalog.Products, 7)
	assert.True(t, decimal.NewFromInt(15000).Equal(catalog.Products[0].DefaultUnitPrice))
	assert.Equal(t, "3500.5", catalog.Products[1].DefaultUnitPrice.String())
	assert.True(t, catalog.Products[2].DefaultUnitPrice.IsZero())
	for _, p := range catalog.Products[3:6] {
		assert.True(t, p.DefaultUnitPrice.IsZero(), "non-finite price for %s", p.Name)
	}
	assert.Equal(t, "18446744073709551615", catalog.Products[6].DefaultUnitPrice.String())
}
