package postgres

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/KrisYarno/inventory-core/internal/application/inventory"
	"github.com/KrisYarno/inventory-core/internal/domain/repository"
)

var _ inventory.TxRunner = (*TxRunner)(nil)

// TxRunner ejecuta callbacks dentro de una transacción PostgreSQL, entregando
// repositorios atados a esa tx. Es la única vía de mutación del snapshot:
// ledger y product_locations se confirman o revierten juntos.
type TxRunner struct {
	pool *pgxpool.Pool
}

// NewTxRunner construye el runner con el pool.
func NewTxRunner(pool *pgxpool.Pool) *TxRunner {
	return &TxRunner{pool: pool}
}

// Run inicia una transacción, ejecuta fn con repos atados a la tx y hace
// Commit o Rollback según el resultado.
func (r *TxRunner) Run(ctx context.Context, fn func(
	ledgerRepo repository.LedgerRepository,
	snapshotRepo repository.SnapshotRepository,
	productRepo repository.ProductRepository,
) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return wrapStore("begin transaction", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	ledgerRepo := NewLedgerRepository(tx)
	snapshotRepo := NewSnapshotRepository(tx)
	productRepo := NewProductRepository(tx)

	if err := fn(ledgerRepo, snapshotRepo, productRepo); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return wrapStore("commit transaction", err)
	}
	return nil
}
