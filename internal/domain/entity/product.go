package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product representa un producto o SKU del catálogo (multi-ubicación).
// El stock nunca vive aquí: se deriva del ledger y se materializa en
// StockSnapshot por ubicación. Cost se usa para valorizar inventario.
type Product struct {
	ID        int64
	SKU       string // código único
	Name      string
	Price     decimal.Decimal // precio de venta
	Cost      decimal.Decimal // costo unitario para valorización
	IsDeleted bool            // baja lógica; conserva snapshots históricos
	CreatedAt time.Time
	UpdatedAt time.Time
}
