package repository

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/KrisYarno/inventory-core/internal/domain/entity"
)

// StockLevel fila de reporte de niveles actuales: snapshot + último movimiento
// del ledger + valorización al costo del producto.
type StockLevel struct {
	ProductID   int64
	LocationID  int64
	SKU         string
	ProductName string
	Quantity    int64
	LastUpdated time.Time // epoch si el par no tiene entradas en el ledger
	Value       decimal.Decimal
}

// SnapshotRepository define el puerto sobre product_locations, la caché
// materializada con bloqueo optimista. Usado dentro de transacciones para
// garantizar consistencia con el ledger.
type SnapshotRepository interface {
	// Get devuelve nil (sin error) si el par no tiene fila: cantidad implícita 0.
	Get(productID, locationID int64) (*entity.StockSnapshot, error)
	// GetForUpdate bloquea la fila (SELECT FOR UPDATE) durante la transacción.
	GetForUpdate(productID, locationID int64) (*entity.StockSnapshot, error)
	// ApplyDelta crea la fila (quantity=delta, version=1) o suma el delta e
	// incrementa la versión de forma atómica, y devuelve el snapshot
	// resultante. La rama de conflicto es relativa: una fila insertada por
	// una transacción concurrente después de un GetForUpdate vacío también
	// recibe el delta, nunca se sobreescribe.
	ApplyDelta(productID, locationID, delta int64) (*entity.StockSnapshot, error)
	// ListLevels reporta niveles actuales. Con locationID concreto incluye
	// todos los productos activos: sin fila de snapshot → cantidad 0.
	ListLevels(ctx context.Context, locationID *int64) ([]StockLevel, error)
}
