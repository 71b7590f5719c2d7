// Package http provides HTTP server infrastructure including module registration.
package http

import (
	"context"

	"kasir_backend/platform/config"
	"kasir_backend/platform/logger"
)

// HealthChecker exposes minimal functionality for readiness checks.
type HealthChecker interface {
	Ping(ctx context.Context) error
}

// App holds the fully initialized application dependencies.
// This is populated by main.go (the composition root) and passed to the router.
type App struct {
	// Config holds the router configuration.
	Config config.HTTPConfig
	// Logger is the structured logger.
	Logger *logger.Logger
	// Health is used for readiness checks; nil means always ready.
	Health HealthChecker
	// SubmitRatePerMinute bounds write endpoints per client IP.
	SubmitRatePerMinute int
	// Modules contains all HTTP-facing domain modules.
	Modules []Module
}
