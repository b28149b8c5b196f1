// Package ledger persists captured leads. The ledger is append-only and
// deduplicates by email so a lead is recorded at most once.
package ledger

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Row is one captured lead.
type Row struct {
	ID           uuid.UUID
	Name         string
	Email        string
	Phone        string
	BusinessType string
	ProjectGoal  string
	Source       string
	CreatedAt    time.Time
}

// Ledger appends lead rows. Implementations return apperr.Conflict when a row
// with the same email already exists.
type Ledger interface {
	Append(ctx context.Context, row Row) error
}
