package repositories

import (
	"context"

	"github.com/jackc/pgx/v5"
)

// querier is satisfied by *pgxpool.Pool, pgx.Tx and the fakes in tests.
type querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}
