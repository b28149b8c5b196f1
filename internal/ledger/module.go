package ledger

import (
	"github.com/jackc/pgx/v5/pgxpool"

	apphttp "leadchat_backend/internal/http"
	"leadchat_backend/platform/logger"
	"leadchat_backend/platform/validator"
)

// Module is the lead ledger bounded context implementing http.Module.
type Module struct {
	ledger  Ledger
	handler *Handler
}

// NewModule creates the ledger module backed by Postgres.
func NewModule(pool *pgxpool.Pool, val *validator.Validator, log *logger.Logger) *Module {
	ledger := NewPostgresLedger(pool)
	return &Module{
		ledger:  ledger,
		handler: NewHandler(ledger, val, log),
	}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "ledger"
}

// Ledger returns the ledger for use by other modules.
func (m *Module) Ledger() Ledger {
	return m.ledger
}

// RegisterRoutes mounts the public lead submission route.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	m.handler.RegisterRoutes(ctx.V1.Group("/leads"))
}

var _ apphttp.Module = (*Module)(nil)
