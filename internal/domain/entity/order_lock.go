package entity

import "time"

// OrderLock representa el lease durable que protege el empaque concurrente de
// una misma orden externa. A diferencia de un lock en memoria sobrevive
// reinicios y despliegues multi-instancia, porque la adquisición es un upsert
// condicional sobre la tabla order_locks.
type OrderLock struct {
	OrderRef    string
	HolderToken string // uuid emitido al adquirir; requerido para liberar/extender
	UserID      int64
	ExpiresAt   time.Time
	AcquiredAt  time.Time
}

// Expired indica si el lease ya venció y puede ser robado por otro holder.
func (l *OrderLock) Expired(now time.Time) bool {
	return now.After(l.ExpiresAt)
}
