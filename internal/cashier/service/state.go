package service

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"kasir_backend/internal/cart"
	"kasir_backend/internal/cashier/transport"
	"kasir_backend/internal/sales"
)

// State is a session's position in the form lifecycle.
type State int

const (
	StateNoTenantSelected State = iota
	StateTenantSelected
	StateSubmitting
	StateSubmitResult
)

func (s State) String() string {
	switch s {
	case StateNoTenantSelected:
		return "no_tenant_selected"
	case StateTenantSelected:
		return "tenant_selected"
	case StateSubmitting:
		return "submitting"
	case StateSubmitResult:
		return "submit_result"
	default:
		return "unknown"
	}
}

// session is one user's form. mu serializes interactions on it; it is never
// held across upstream I/O.
type session struct {
	id uuid.UUID

	mu       sync.Mutex
	state    State
	tenant   string
	inputs   map[string]cart.LineInput
	banner   *transport.Banner
	receipt  *sales.Receipt
	lastSeen time.Time
}

func newSession(now time.Time) *session {
	return &session{
		id:       uuid.New(),
		state:    StateNoTenantSelected,
		inputs:   map[string]cart.LineInput{},
		lastSeen: now,
	}
}
