package entity

import "time"

// Tipos de entrada del ledger de inventario.
const (
	LogTypeAdjustment = "ADJUSTMENT" // ajuste manual, entrada de mercancía o empaque de orden
	LogTypeTransfer   = "TRANSFER"   // traslado entre ubicaciones (dos entradas, misma transacción)
)

// LedgerEntry representa una fila inmutable de inventory_logs: un delta firmado
// de cantidad para un producto en una ubicación, en un instante dado.
// Nunca se actualiza ni se borra; la suma de deltas de un par
// (producto, ubicación) hasta el instante T es el stock en T.
type LedgerEntry struct {
	ID         int64
	UserID     int64
	ProductID  int64
	LocationID int64
	Delta      int64 // firmado, nunca cero
	LogType    string
	ChangeTime time.Time
}
