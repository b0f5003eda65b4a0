package inventory

import (
	"github.com/KrisYarno/inventory-core/internal/domain"
	"github.com/KrisYarno/inventory-core/internal/domain/entity"
	"github.com/KrisYarno/inventory-core/internal/domain/repository"
	"github.com/KrisYarno/inventory-core/internal/domain/stock"
)

// LedgerStore agrupa las operaciones atómicas de lectura-modificación-escritura
// sobre el ledger y el snapshot materializado. Se construye con repositorios
// atados a UNA transacción (los que entrega TxRunner), de modo que la entrada
// del ledger y la mutación del snapshot se confirman o revierten juntas:
// nunca puede existir una sin la otra.
type LedgerStore struct {
	ledger    repository.LedgerRepository
	snapshots repository.SnapshotRepository
}

// NewLedgerStore construye el store sobre repos de una misma transacción.
func NewLedgerStore(ledger repository.LedgerRepository, snapshots repository.SnapshotRepository) *LedgerStore {
	return &LedgerStore{ledger: ledger, snapshots: snapshots}
}

// ApplyResult resultado de una aplicación exitosa.
type ApplyResult struct {
	LogID       int64
	NewQuantity int64
	NewVersion  int
}

// CurrentQuantity devuelve la cantidad del snapshot, o 0 si el par no tiene
// fila. Debe leerse dentro de la misma transacción que cualquier escritura
// que dependa de ella.
func (s *LedgerStore) CurrentQuantity(productID, locationID int64) (int64, error) {
	snap, err := s.snapshots.Get(productID, locationID)
	if err != nil {
		return 0, err
	}
	if snap == nil {
		return 0, nil
	}
	return snap.Quantity, nil
}

// AppendAndApply ejecuta la secuencia atómica completa para un delta:
//
//  1. lee el snapshot bloqueando la fila (SELECT FOR UPDATE);
//  2. si vino expectedVersion y la fila existe con otra versión, aborta con
//     OptimisticLockError (reintetable re-leyendo);
//  3. si delta < 0, re-valida contra la cantidad recién leída y aborta con
//     InsufficientStockError si no alcanza (restricción real, no se reintenta);
//  4. inserta la entrada del ledger;
//  5. aplica el delta al snapshot de forma relativa en el almacén:
//     ausente → quantity=delta, version=1; presente → quantity+=delta,
//     version+=1. La aplicación relativa cubre la carrera del primer insert
//     de un par: si GetForUpdate no encontró fila pero otra transacción la
//     creó antes de nuestro commit, el delta se suma encima en vez de
//     sobreescribirla.
//
// Los cinco pasos viven en la transacción de los repos con que se construyó
// el store: un fallo en cualquiera revierte todos.
func (s *LedgerStore) AppendAndApply(
	userID int64,
	product *entity.Product,
	locationID, delta int64,
	logType string,
	expectedVersion *int,
) (*ApplyResult, error) {
	if delta == 0 {
		return nil, domain.ErrInvalidInput
	}

	snap, err := s.snapshots.GetForUpdate(product.ID, locationID)
	if err != nil {
		return nil, err
	}

	if expectedVersion != nil && snap != nil && snap.Version != *expectedVersion {
		return nil, &domain.OptimisticLockError{Current: snap.Version, Expected: *expectedVersion}
	}

	if delta < 0 {
		var current int64
		if snap != nil {
			current = snap.Quantity
		}
		if !stock.ValidateChange(current, delta) {
			return nil, &domain.InsufficientStockError{
				ProductName: product.Name,
				Current:     current,
				Requested:   -delta,
			}
		}
	}

	entry := &entity.LedgerEntry{
		UserID:     userID,
		ProductID:  product.ID,
		LocationID: locationID,
		Delta:      delta,
		LogType:    logType,
	}
	if err := s.ledger.Append(entry); err != nil {
		return nil, err
	}

	applied, err := s.snapshots.ApplyDelta(product.ID, locationID, delta)
	if err != nil {
		return nil, err
	}

	return &ApplyResult{
		LogID:       entry.ID,
		NewQuantity: applied.Quantity,
		NewVersion:  applied.Version,
	}, nil
}
