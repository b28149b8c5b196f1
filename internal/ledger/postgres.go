package ledger

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"leadchat_backend/platform/apperr"
)

const uniqueViolation = "23505"

// PostgresLedger stores lead rows in the leads table.
type PostgresLedger struct {
	pool *pgxpool.Pool
}

// NewPostgresLedger creates a ledger backed by the given pool.
func NewPostgresLedger(pool *pgxpool.Pool) *PostgresLedger {
	return &PostgresLedger{pool: pool}
}

func (l *PostgresLedger) Append(ctx context.Context, row Row) error {
	if row.ID == uuid.Nil {
		row.ID = uuid.New()
	}
	if row.CreatedAt.IsZero() {
		row.CreatedAt = time.Now()
	}

	_, err := l.pool.Exec(ctx, `
		INSERT INTO leads (id, name, email, phone, business_type, project_goal, source, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		row.ID, row.Name, row.Email, row.Phone, row.BusinessType, row.ProjectGoal, row.Source, row.CreatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return apperr.Conflict("lead already recorded for this email")
		}
		return apperr.Wrap(apperr.KindInternal, "append lead", err)
	}
	return nil
}
