package entity

import "time"

// StockSnapshot representa la fila materializada de product_locations:
// la cantidad actual denormalizada de un producto en una ubicación más su
// versión de bloqueo optimista.
//
// Invariantes: Quantity nunca negativa y siempre igual a la suma de deltas del
// ledger para el par; Version inicia en 1 con la primera escritura y sube
// exactamente 1 por cada mutación exitosa. La fila no se borra (productos
// dados de baja conservan su histórico).
type StockSnapshot struct {
	ProductID  int64
	LocationID int64
	Quantity   int64
	Version    int
	UpdatedAt  time.Time
}
