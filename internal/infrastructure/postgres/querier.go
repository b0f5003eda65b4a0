package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/KrisYarno/inventory-core/internal/domain"
)

// Querier abstrae pool y transacción: los repositorios funcionan igual atados
// a un *pgxpool.Pool o a una pgx.Tx.
type Querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// wrapStore envuelve una falla de infraestructura marcándola con
// domain.ErrStore, para que el caller la distinga de un conflicto lógico.
func wrapStore(op string, err error) error {
	return fmt.Errorf("%s: %w", op, errors.Join(domain.ErrStore, err))
}
