// Package service holds the cashier form state machine.
package service

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"kasir_backend/internal/cart"
	"kasir_backend/internal/cashier/transport"
	"kasir_backend/internal/catalog/repository"
	"kasir_backend/internal/sales"
	"kasir_backend/platform/apperr"
	"kasir_backend/platform/logger"
)

const (
	msgSessionNotFound = "session not found"
	msgTenantNotFound  = "tenant not found"
	msgProductNotFound = "product not found for the selected tenant"
	msgSelectTenant    = "select a tenant first"
	msgSubmitting      = "a submission for this session is still in progress"
)

// CatalogReader yields the current product catalog.
type CatalogReader interface {
	Load(ctx context.Context) (repository.Catalog, error)
}

// Submitter writes a cart to the transaction log.
type Submitter interface {
	Submit(ctx context.Context, c cart.Cart) (sales.Receipt, error)
}

// Service drives cashier sessions. Each session accepts one interaction at a
// time; the session lock is released while a submission is in flight so the
// Submitting state is observable.
type Service struct {
	catalog          CatalogReader
	submitter        Submitter
	sessions         *Store
	resetAfterSubmit bool
	log              *logger.Logger
}

// New creates a cashier service.
func New(catalog CatalogReader, submitter Submitter, sessions *Store, resetAfterSubmit bool, log *logger.Logger) *Service {
	return &Service{
		catalog:          catalog,
		submitter:        submitter,
		sessions:         sessions,
		resetAfterSubmit: resetAfterSubmit,
		log:              log,
	}
}

// CreateSession opens a session with no tenant selected.
func (s *Service) CreateSession(ctx context.Context) (transport.SessionView, error) {
	sess := s.sessions.create()
	sess.mu.Lock()
	defer sess.mu.Unlock()

	s.log.WithContext(ctx).Info("cashier_session_created", "session_id", sess.id.String())
	return s.render(ctx, sess)
}

// GetSession returns the current view of a session.
func (s *Service) GetSession(ctx context.Context, id uuid.UUID) (transport.SessionView, error) {
	sess, err := s.lookup(id)
	if err != nil {
		return transport.SessionView{}, err
	}
	sess.mu.Lock()
	defer sess.mu.Unlock()

	return s.render(ctx, sess)
}

// SelectTenant switches the session to tenant. Changing tenant discards every
// line input; selecting the current tenant again keeps them.
func (s *Service) SelectTenant(ctx context.Context, id uuid.UUID, tenant string) (transport.SessionView, error) {
	sess, err := s.lookup(id)
	if err != nil {
		return transport.SessionView{}, err
	}
	sess.mu.Lock()
	defer sess.mu.Unlock()

	if sess.state == StateSubmitting {
		return transport.SessionView{}, apperr.Conflict(msgSubmitting)
	}

	catalog, err := s.catalog.Load(ctx)
	if err != nil {
		return s.blocked(sess, err)
	}
	if !catalog.HasTenant(tenant) {
		return transport.SessionView{}, apperr.NotFound(msgTenantNotFound)
	}

	if tenant != sess.tenant {
		sess.tenant = tenant
		sess.inputs = defaultInputs(catalog.ProductsFor(tenant))
	}
	sess.state = StateTenantSelected
	sess.banner = nil
	sess.receipt = nil

	return s.view(sess, catalog), nil
}

// UpdateLine sets the quantity of one product row and, when given, its unit
// price. Without a price the row keeps its current one.
func (s *Service) UpdateLine(ctx context.Context, id uuid.UUID, req transport.UpdateLineRequest) (transport.SessionView, error) {
	sess, err := s.lookup(id)
	if err != nil {
		return transport.SessionView{}, err
	}
	sess.mu.Lock()
	defer sess.mu.Unlock()

	switch sess.state {
	case StateNoTenantSelected:
		return transport.SessionView{}, apperr.Validation(msgSelectTenant)
	case StateSubmitting:
		return transport.SessionView{}, apperr.Conflict(msgSubmitting)
	}

	catalog, err := s.catalog.Load(ctx)
	if err != nil {
		return s.blocked(sess, err)
	}
	product, ok := findProduct(catalog.ProductsFor(sess.tenant), req.Product)
	if !ok {
		return transport.SessionView{}, apperr.NotFound(msgProductNotFound).
			WithDetails(map[string]string{"product": req.Product, "tenant": sess.tenant})
	}

	in, ok := sess.inputs[product.Name]
	if !ok {
		in = cart.DefaultInput(product)
	}
	if req.Quantity != nil {
		in.Quantity = *req.Quantity
	}
	if req.UnitPrice != nil {
		in.UnitPrice = *req.UnitPrice
	}
	if err := in.Validate(); err != nil {
		return transport.SessionView{}, err
	}

	sess.inputs[product.Name] = in
	sess.state = StateTenantSelected
	sess.banner = nil
	sess.receipt = nil

	return s.view(sess, catalog), nil
}

// Submit writes the session's cart to the transaction log. An empty cart is
// answered with a warning and nothing is written. A failed write keeps every
// input so the user can retry.
func (s *Service) Submit(ctx context.Context, id uuid.UUID) (transport.SessionView, error) {
	sess, err := s.lookup(id)
	if err != nil {
		return transport.SessionView{}, err
	}

	sess.mu.Lock()
	switch sess.state {
	case StateNoTenantSelected:
		sess.mu.Unlock()
		return transport.SessionView{}, apperr.Validation(msgSelectTenant)
	case StateSubmitting:
		sess.mu.Unlock()
		return transport.SessionView{}, apperr.Conflict(msgSubmitting)
	}

	catalog, err := s.catalog.Load(ctx)
	if err != nil {
		defer sess.mu.Unlock()
		return s.blocked(sess, err)
	}

	products := catalog.ProductsFor(sess.tenant)
	c := cart.Build(products, sess.inputs)
	if c.IsEmpty() {
		defer sess.mu.Unlock()
		sess.state = StateTenantSelected
		sess.banner = &transport.Banner{Level: transport.LevelWarning, Message: sales.MsgEmptyCart}
		sess.receipt = nil
		return s.view(sess, catalog), apperr.EmptyCart(sales.MsgEmptyCart)
	}

	sess.state = StateSubmitting
	sess.banner = nil
	sess.receipt = nil
	sess.mu.Unlock()

	// The write outlives a dropped client so the session never sticks in Submitting.
	receipt, submitErr := s.submitter.Submit(context.WithoutCancel(ctx), c)

	sess.mu.Lock()
	defer sess.mu.Unlock()

	sess.state = StateSubmitResult
	if submitErr != nil {
		sess.banner = &transport.Banner{Level: transport.LevelError, Message: errorMessage(submitErr)}
		return s.view(sess, catalog), submitErr
	}

	sess.banner = &transport.Banner{Level: transport.LevelSuccess, Message: sales.MsgSubmitted}
	sess.receipt = &receipt
	if s.resetAfterSubmit {
		sess.inputs = defaultInputs(products)
	}
	return s.view(sess, catalog), nil
}

func (s *Service) lookup(id uuid.UUID) (*session, error) {
	sess, ok := s.sessions.get(id)
	if !ok {
		return nil, apperr.NotFound(msgSessionNotFound)
	}
	return sess, nil
}

// render loads the catalog and builds the view. Callers hold sess.mu.
func (s *Service) render(ctx context.Context, sess *session) (transport.SessionView, error) {
	catalog, err := s.catalog.Load(ctx)
	if err != nil {
		return s.blocked(sess, err)
	}
	return s.view(sess, catalog), nil
}

// blocked is the view shown while the catalog cannot be read: an error banner
// and nothing else. The session's own state is left untouched.
func (s *Service) blocked(sess *session, err error) (transport.SessionView, error) {
	return transport.SessionView{
		SessionID: sess.id.String(),
		State:     sess.state.String(),
		Tenants:   []string{},
		Rows:      []transport.RowView{},
		Cart:      cart.ComputeCart(nil),
		Banner:    &transport.Banner{Level: transport.LevelError, Message: errorMessage(err)},
	}, err
}

func (s *Service) view(sess *session, catalog repository.Catalog) transport.SessionView {
	v := transport.SessionView{
		SessionID:      sess.id.String(),
		State:          sess.state.String(),
		Tenants:        catalog.Tenants(),
		SelectedTenant: sess.tenant,
		Rows:           []transport.RowView{},
		Cart:           cart.ComputeCart(nil),
		Banner:         sess.banner,
		Receipt:        sess.receipt,
	}
	if sess.state == StateNoTenantSelected {
		return v
	}

	products := catalog.ProductsFor(sess.tenant)
	for _, p := range products {
		in, ok := sess.inputs[p.Name]
		if !ok {
			in = cart.DefaultInput(p)
		}
		v.Rows = append(v.Rows, transport.RowView{
			ProductName:      p.Name,
			DefaultUnitPrice: p.DefaultUnitPrice,
			UnitPrice:        in.UnitPrice,
			Quantity:         in.Quantity,
			Subtotal:         in.Subtotal(),
		})
	}
	v.Cart = cart.Build(products, sess.inputs)
	return v
}

func defaultInputs(products []repository.Product) map[string]cart.LineInput {
	inputs := make(map[string]cart.LineInput, len(products))
	for _, p := range products {
		// Rows sharing a name share one input; the first one wins.
		if _, ok := inputs[p.Name]; !ok {
			inputs[p.Name] = cart.DefaultInput(p)
		}
	}
	return inputs
}

func findProduct(products []repository.Product, name string) (repository.Product, bool) {
	for _, p := range products {
		if p.Name == name {
			return p, true
		}
	}
	return repository.Product{}, false
}

func errorMessage(err error) string {
	var e *apperr.Error
	if errors.As(err, &e) {
		return e.Message
	}
	return err.Error()
}
