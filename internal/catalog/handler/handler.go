package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"kasir_backend/internal/catalog/service"
	"kasir_backend/platform/httpkit"
	"kasir_backend/platform/sanitize"
)

// Handler handles HTTP requests for catalog.
type Handler struct {
	svc *service.Service
}

const msgInvalidTenant = "invalid tenant"

// New creates a new catalog handler.
func New(svc *service.Service) *Handler {
	return &Handler{svc: svc}
}

// ListTenants retrieves the tenants present in the catalog.
// GET /api/v1/catalog/tenants
func (h *Handler) ListTenants(c *gin.Context) {
	result, err := h.svc.ListTenants(c.Request.Context())
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

// ListProducts retrieves one tenant's products with default prices.
// GET /api/v1/catalog/tenants/:tenant/products
func (h *Handler) ListProducts(c *gin.Context) {
	tenant := sanitize.Text(c.Param("tenant"))
	if tenant == "" {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidTenant, nil)
		return
	}

	result, err := h.svc.ListProducts(c.Request.Context(), tenant)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}
