package http

import (
	"context"

	"leadchat_backend/platform/config"
	"leadchat_backend/platform/logger"
)

// HealthChecker exposes minimal functionality for readiness checks.
type HealthChecker interface {
	Ping(ctx context.Context) error
}

// App holds the fully initialized application dependencies.
// This is populated by main.go (the composition root) and passed to the router.
type App struct {
	// Config holds the HTTP server configuration.
	Config config.HTTPConfig
	// Logger is the structured logger.
	Logger *logger.Logger
	// Health is used for readiness checks (e.g., DB ping). Optional.
	Health HealthChecker
	// Modules contains all HTTP-facing domain modules.
	Modules []Module
}
