package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/KrisYarno/inventory-core/internal/domain/entity"
	"github.com/KrisYarno/inventory-core/internal/domain/repository"
)

var _ repository.OrderLockRepository = (*OrderLockRepo)(nil)

// OrderLockRepo lease durable de empaque sobre PostgreSQL. La adquisición es
// un único upsert condicional ("si no existe o expiró"), de modo que dos
// instancias del servicio jamás pueden quedarse ambas con el lock.
type OrderLockRepo struct {
	q Querier
}

// NewOrderLockRepository construye el adaptador. Pasar pool o tx (Querier).
func NewOrderLockRepository(q Querier) *OrderLockRepo {
	return &OrderLockRepo{q: q}
}

// Acquire inserta el lock, o roba la fila sólo si su lease venció. Devuelve
// false cuando otra sesión lo sostiene vigente (cero filas afectadas).
func (r *OrderLockRepo) Acquire(lock *entity.OrderLock) (bool, error) {
	query := `
		INSERT INTO order_locks (order_ref, holder_token, user_id, expires_at, acquired_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (order_ref) DO UPDATE
		SET holder_token = EXCLUDED.holder_token,
		    user_id = EXCLUDED.user_id,
		    expires_at = EXCLUDED.expires_at,
		    acquired_at = EXCLUDED.acquired_at
		WHERE order_locks.expires_at < now()`
	tag, err := r.q.Exec(context.Background(), query,
		lock.OrderRef, lock.HolderToken, lock.UserID, lock.ExpiresAt, lock.AcquiredAt,
	)
	if err != nil {
		return false, wrapStore("acquire order lock", err)
	}
	return tag.RowsAffected() > 0, nil
}

// Get obtiene el lock de una orden; nil si no existe.
func (r *OrderLockRepo) Get(orderRef string) (*entity.OrderLock, error) {
	query := `
		SELECT order_ref, holder_token, user_id, expires_at, acquired_at
		FROM order_locks WHERE order_ref = $1`
	var l entity.OrderLock
	err := r.q.QueryRow(context.Background(), query, orderRef).Scan(
		&l.OrderRef, &l.HolderToken, &l.UserID, &l.ExpiresAt, &l.AcquiredAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, wrapStore("get order lock", err)
	}
	return &l, nil
}

// Extend renueva el lease sólo si el token coincide y el lease sigue vigente.
func (r *OrderLockRepo) Extend(orderRef, holderToken string, until time.Time) (bool, error) {
	query := `
		UPDATE order_locks SET expires_at = $3
		WHERE order_ref = $1 AND holder_token = $2 AND expires_at >= now()`
	tag, err := r.q.Exec(context.Background(), query, orderRef, holderToken, until)
	if err != nil {
		return false, wrapStore("extend order lock", err)
	}
	return tag.RowsAffected() > 0, nil
}

// Release borra el lock sólo si el token coincide.
func (r *OrderLockRepo) Release(orderRef, holderToken string) (bool, error) {
	query := `DELETE FROM order_locks WHERE order_ref = $1 AND holder_token = $2`
	tag, err := r.q.Exec(context.Background(), query, orderRef, holderToken)
	if err != nil {
		return false, wrapStore("release order lock", err)
	}
	return tag.RowsAffected() > 0, nil
}
