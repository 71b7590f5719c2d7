package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"kasir_backend/internal/cashier/service"
	"kasir_backend/internal/cashier/transport"
	"kasir_backend/platform/httpkit"
	"kasir_backend/platform/logger"
	"kasir_backend/platform/sanitize"
	"kasir_backend/platform/validator"
)

// Handler handles HTTP requests for cashier sessions.
type Handler struct {
	svc *service.Service
	val *validator.Validator
}

const (
	msgInvalidRequest   = "invalid request"
	msgValidationFailed = "validation failed"
	msgInvalidID        = "invalid session id"
)

// New creates a new cashier handler.
func New(svc *service.Service, val *validator.Validator) *Handler {
	return &Handler{svc: svc, val: val}
}

// CreateSession opens a new form session.
// POST /api/v1/cashier/sessions
func (h *Handler) CreateSession(c *gin.Context) {
	view, err := h.svc.CreateSession(c.Request.Context())
	if err == nil {
		httpkit.JSON(c, http.StatusCreated, view)
		return
	}
	respond(c, view, err)
}

// GetSession returns the current form view.
// GET /api/v1/cashier/sessions/:id
func (h *Handler) GetSession(c *gin.Context) {
	id, ctx, ok := sessionContext(c)
	if !ok {
		return
	}

	view, err := h.svc.GetSession(ctx, id)
	respond(c, view, err)
}

// SelectTenant switches the session's tenant.
// PUT /api/v1/cashier/sessions/:id/tenant
func (h *Handler) SelectTenant(c *gin.Context) {
	id, ctx, ok := sessionContext(c)
	if !ok {
		return
	}
	var req transport.SelectTenantRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	req.Tenant = sanitize.Text(req.Tenant)
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	view, err := h.svc.SelectTenant(ctx, id, req.Tenant)
	respond(c, view, err)
}

// UpdateLine edits one product row.
// PUT /api/v1/cashier/sessions/:id/lines
func (h *Handler) UpdateLine(c *gin.Context) {
	id, ctx, ok := sessionContext(c)
	if !ok {
		return
	}
	var req transport.UpdateLineRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	req.Product = sanitize.Text(req.Product)
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	view, err := h.svc.UpdateLine(ctx, id, req)
	respond(c, view, err)
}

// Submit writes the session's cart to the transaction log.
// POST /api/v1/cashier/sessions/:id/submit
func (h *Handler) Submit(c *gin.Context) {
	id, ctx, ok := sessionContext(c)
	if !ok {
		return
	}

	view, err := h.svc.Submit(ctx, id)
	respond(c, view, err)
}

// respond writes the view. Errors that carry a banner still answer with the
// view so the page can render it; the rest use the standard error body.
func respond(c *gin.Context, view transport.SessionView, err error) {
	if err == nil {
		httpkit.OK(c, view)
		return
	}
	if view.Banner != nil {
		httpkit.JSON(c, httpkit.StatusFor(err), view)
		return
	}
	httpkit.HandleError(c, err)
}

func sessionContext(c *gin.Context) (uuid.UUID, context.Context, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidID, nil)
		return uuid.Nil, nil, false
	}
	ctx := context.WithValue(c.Request.Context(), logger.SessionIDKey, id.String())
	return id, ctx, true
}
