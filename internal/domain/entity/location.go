package entity

import "time"

// Location representa una ubicación física donde se almacena inventario
// (bodega, tienda, zona de empaque).
type Location struct {
	ID        int64
	Name      string
	Code      string
	CreatedAt time.Time
}
