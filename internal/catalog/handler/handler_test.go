package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kasir_backend/internal/catalog/cache"
	"kasir_backend/internal/catalog/repository"
	"kasir_backend/internal/catalog/service"
	"kasir_backend/internal/catalog/transport"
	"kasir_backend/platform/httpkit"
	"kasir_backend/platform/logger"
)

type stubRepo struct {
	err error
}

func (r stubRepo) FetchCatalog(context.Context) (repository.Catalog, error) {
	if r.err != nil {
		return repository.Catalog{}, r.err
	}
	return repository.Catalog{Products: []repository.Product{
		{Tenant: "Kopi Kenangan", Name: "Kopi Susu", DefaultUnitPrice: decimal.NewFromInt(18000)},
		{Tenant: "Kopi Kenangan", Name: "Americano", DefaultUnitPrice: decimal.NewFromInt(15000)},
		{Tenant: "Roti Bakar 88", Name: "Roti Coklat", DefaultUnitPrice: decimal.NewFromInt(12000)},
	}}, nil
}

func (r stubRepo) Source() string { return "stub" }

func newEngine(repo repository.Repository) *gin.Engine {
	gin.SetMode(gin.TestMode)
	svc := service.New(repo, []cache.Cache{cache.NewMemory(nil)}, time.Minute, logger.Discard())
	h := New(svc)

	engine := gin.New()
	engine.GET("/api/v1/catalog/tenants", h.ListTenants)
	engine.GET("/api/v1/catalog/tenants/:tenant/products", h.ListProducts)
	return engine
}

func get(engine *gin.Engine, path string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	return rec
}

func TestListTenants(t *testing.T) {
	rec := get(newEngine(stubRepo{}), "/api/v1/catalog/tenants")

	require.Equal(t, http.StatusOK, rec.Code)
	var body transport.TenantListResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, []string{"Kopi Kenangan", "Roti Bakar 88"}, body.Tenants)
}

func TestListProducts(t *testing.T) {
	rec := get(newEngine(stubRepo{}), "/api/v1/catalog/tenants/Kopi%20Kenangan/products")

	require.Equal(t, http.StatusOK, rec.Code)
	var body transport.ProductListResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Len(t, body.Products, 2)
	assert.Equal(t, "Kopi Susu", body.Products[0].Name)
	assert.Equal(t, "18000", body.Products[0].DefaultUnitPrice.String())
}

func TestListProductsUnknownTenant(t *testing.T) {
	rec := get(newEngine(stubRepo{}), "/api/v1/catalog/tenants/Nowhere/products")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCatalogFailureIsServiceUnavailable(t *testing.T) {
	rec := get(newEngine(stubRepo{err: errors.New("spreadsheet not found")}), "/api/v1/catalog/tenants")

	require.Equal(t, http.StatusServiceUnavailable, rec.Code)
	var body httpkit.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "products cannot be loaded: spreadsheet not found", body.Error)
}
