package conversation

import (
	apphttp "leadchat_backend/internal/http"
)

// Module is the conversation bounded context implementing http.Module.
type Module struct {
	service *Service
	handler *Handler
}

// NewModule wraps an assembled service for route registration.
func NewModule(service *Service, h *Handler) *Module {
	return &Module{service: service, handler: h}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "conversation"
}

// Service returns the conversation service for external wiring.
func (m *Module) Service() *Service {
	return m.service
}

// RegisterRoutes mounts the chat routes.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	m.handler.RegisterRoutes(ctx.V1.Group("/chat"))
}

var _ apphttp.Module = (*Module)(nil)
