package inventory

import (
	"context"
	"time"

	"github.com/KrisYarno/inventory-core/internal/domain/repository"
)

// QueryUseCase derivaciones de sólo lectura sobre el ledger y el snapshot.
// Nunca muta estado.
type QueryUseCase struct {
	snapshots repository.SnapshotRepository
	ledger    repository.LedgerRepository
}

// NewQueryUseCase construye el servicio de consulta.
func NewQueryUseCase(snapshots repository.SnapshotRepository, ledger repository.LedgerRepository) *QueryUseCase {
	return &QueryUseCase{snapshots: snapshots, ledger: ledger}
}

// CurrentLevels niveles actuales por par (producto, ubicación): cantidad del
// snapshot, último change_time del ledger (epoch si el par no registra
// movimientos) y valorización al costo. locationID nil = todas las ubicaciones.
func (uc *QueryUseCase) CurrentLevels(ctx context.Context, locationID *int64) ([]repository.StockLevel, error) {
	return uc.snapshots.ListLevels(ctx, locationID)
}

// SnapshotAt cantidades por producto en el instante ts, sumando los deltas del
// ledger con change_time <= ts. Es independiente de la tabla materializada:
// tolera que esté arbitrariamente desactualizada o ausente.
func (uc *QueryUseCase) SnapshotAt(ctx context.Context, ts time.Time, locationID *int64) ([]repository.PairQuantity, error) {
	return uc.ledger.SumDeltasUntil(ctx, ts, locationID)
}

// History entradas del ledger de un par, más recientes primero.
func (uc *QueryUseCase) History(ctx context.Context, productID, locationID int64, limit, offset int) ([]LedgerEntryView, error) {
	entries, err := uc.ledger.ListByPair(ctx, productID, locationID, limit, offset)
	if err != nil {
		return nil, err
	}
	views := make([]LedgerEntryView, 0, len(entries))
	for _, e := range entries {
		views = append(views, LedgerEntryView{
			LogID:      e.ID,
			UserID:     e.UserID,
			Delta:      e.Delta,
			LogType:    e.LogType,
			ChangeTime: e.ChangeTime,
		})
	}
	return views, nil
}

// LedgerEntryView proyección de una entrada del ledger para la UI de historial.
type LedgerEntryView struct {
	LogID      int64
	UserID     int64
	Delta      int64
	LogType    string
	ChangeTime time.Time
}
