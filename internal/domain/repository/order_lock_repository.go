package repository

import (
	"time"

	"github.com/KrisYarno/inventory-core/internal/domain/entity"
)

// OrderLockRepository define el puerto del lease durable de empaque de órdenes.
// La semántica es "adquirir si no existe o si expiró", resuelta con un único
// upsert condicional en el almacén (no hay estado en memoria del proceso).
type OrderLockRepository interface {
	// Acquire intenta tomar el lock. Devuelve false si otra sesión lo sostiene
	// y su lease aún no vence.
	Acquire(lock *entity.OrderLock) (bool, error)
	Get(orderRef string) (*entity.OrderLock, error)
	// Extend renueva el lease sólo si el token coincide.
	Extend(orderRef, holderToken string, until time.Time) (bool, error)
	// Release libera el lock sólo si el token coincide.
	Release(orderRef, holderToken string) (bool, error)
}
