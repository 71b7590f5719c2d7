// Package cache holds catalog snapshot caches. The service consults them in
// order: the in-process memory tier first, then the optional shared Redis tier.
package cache

import (
	"context"
	"sync"
	"time"

	"kasir_backend/internal/catalog/repository"
)

// Cache stores one catalog snapshot with an expiry.
type Cache interface {
	// Get returns the snapshot when present and not expired.
	Get(ctx context.Context) (repository.Catalog, bool, error)
	// Set stores the snapshot for ttl.
	Set(ctx context.Context, catalog repository.Catalog, ttl time.Duration) error
	// Name identifies the tier in logs.
	Name() string
}

// Memory is the process-wide tier. A snapshot is served until its expiry and
// replaced wholesale on the next fill.
type Memory struct {
	mu        sync.RWMutex
	catalog   repository.Catalog
	expiresAt time.Time
	filled    bool
	now       func() time.Time
}

// NewMemory creates an empty memory tier. now defaults to time.Now.
func NewMemory(now func() time.Time) *Memory {
	if now == nil {
		now = time.Now
	}
	return &Memory{now: now}
}

// Get returns the cached snapshot while now is before its expiry.
func (m *Memory) Get(_ context.Context) (repository.Catalog, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if !m.filled || !m.now().Before(m.expiresAt) {
		return repository.Catalog{}, false, nil
	}
	return m.catalog, true, nil
}

// Set replaces the snapshot.
func (m *Memory) Set(_ context.Context, catalog repository.Catalog, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.catalog = catalog
	m.expiresAt = m.now().Add(ttl)
	m.filled = true
	return nil
}

// Name identifies the tier in logs.
func (m *Memory) Name() string {
	return "memory"
}
