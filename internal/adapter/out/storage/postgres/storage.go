package postgres

import (
	"context"
	_ "embed"
	"errors"
	"fmt"

	"forumview/internal/stub"

	trmpgx "github.com/avito-tech/go-transaction-manager/drivers/pgxv5/v2"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	ErrBuildingQuery = errors.New("error building sql-query")
)

//go:embed schema.sql
var schema string

const uniqueViolation = "23505"

// Storage implements stub.Storage on PostgreSQL. Queries run inside the
// transaction carried by ctx when there is one.
type Storage struct {
	pool   *pgxpool.Pool
	getter *trmpgx.CtxGetter
}

func New(pool *pgxpool.Pool, getter *trmpgx.CtxGetter) *Storage {
	return &Storage{pool: pool, getter: getter}
}

var _ stub.Storage = (*Storage)(nil)

// EnsureSchema creates missing tables and indexes.
func EnsureSchema(ctx context.Context, pool *pgxpool.Pool) error {
	if _, err := pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("apply schema: %w", err)
	}
	return nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}
