package inventory

import (
	"context"

	"github.com/KrisYarno/inventory-core/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD, pasando
// repositorios atados a esa tx. Garantiza atomicidad para el motor del ledger:
// si fn falla, nada de lo escrito dentro es visible.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		ledgerRepo repository.LedgerRepository,
		snapshotRepo repository.SnapshotRepository,
		productRepo repository.ProductRepository,
	) error) error
}

// AuditEntry ítem del payload que se entrega al colaborador de auditoría.
type AuditEntry struct {
	ProductID   int64
	ProductName string
	Delta       int64
}

// AuditLogger colaborador externo de auditoría: recibe exactamente una llamada
// por lote confirmado, con la lista completa de productos afectados.
type AuditLogger interface {
	BatchAdjusted(ctx context.Context, userID int64, batchID string, entries []AuditEntry) error
}
