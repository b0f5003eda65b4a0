package repository

import (
	"context"
	"time"

	"github.com/KrisYarno/inventory-core/internal/domain/entity"
)

// PairQuantity cantidad agregada de un par (producto, ubicación); resultado de
// consultas históricas que suman deltas del ledger.
type PairQuantity struct {
	ProductID  int64
	LocationID int64
	Quantity   int64
}

// LedgerRepository define el puerto de persistencia del log append-only de
// inventario. Sólo existe Append como escritura: las filas jamás se actualizan
// ni se borran.
type LedgerRepository interface {
	// Append inserta la entrada y asigna ID y ChangeTime en el insert.
	Append(e *entity.LedgerEntry) error
	GetByID(id int64) (*entity.LedgerEntry, error)
	ListByPair(ctx context.Context, productID, locationID int64, limit, offset int) ([]*entity.LedgerEntry, error)
	// SumDeltasUntil suma los deltas con change_time <= ts por par, ignorando
	// por completo la tabla materializada (vista punto-en-el-tiempo).
	SumDeltasUntil(ctx context.Context, ts time.Time, locationID *int64) ([]PairQuantity, error)
}
