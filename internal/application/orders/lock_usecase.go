// Package orders contiene el caso de uso del lock de empaque de órdenes
// externas: un lease durable que impide que dos operarios empaquen la misma
// orden a la vez.
package orders

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/KrisYarno/inventory-core/internal/domain"
	"github.com/KrisYarno/inventory-core/internal/domain/entity"
	"github.com/KrisYarno/inventory-core/internal/domain/repository"
)

// LockUseCase administra los leases de empaque. La adquisición es
// "si no existe o expiró", resuelta atómicamente en el almacén: sirve en
// despliegues multi-instancia, a diferencia del mapa en memoria al que
// reemplaza.
type LockUseCase struct {
	locks repository.OrderLockRepository
	ttl   time.Duration
}

// NewLockUseCase construye el caso de uso; ttl es la vigencia del lease.
func NewLockUseCase(locks repository.OrderLockRepository, ttl time.Duration) *LockUseCase {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &LockUseCase{locks: locks, ttl: ttl}
}

// Acquire toma el lock de la orden para el usuario. Devuelve el lease con su
// token de holder, o domain.ErrOrderLocked si otra sesión lo sostiene vigente.
func (uc *LockUseCase) Acquire(ctx context.Context, orderRef string, userID int64) (*entity.OrderLock, error) {
	if orderRef == "" {
		return nil, domain.ErrInvalidInput
	}
	now := time.Now()
	lock := &entity.OrderLock{
		OrderRef:    orderRef,
		HolderToken: uuid.New().String(),
		UserID:      userID,
		ExpiresAt:   now.Add(uc.ttl),
		AcquiredAt:  now,
	}
	ok, err := uc.locks.Acquire(lock)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, domain.ErrOrderLocked
	}
	return lock, nil
}

// Refresh extiende el lease mientras el empaque sigue en curso.
func (uc *LockUseCase) Refresh(ctx context.Context, orderRef, holderToken string) (*entity.OrderLock, error) {
	until := time.Now().Add(uc.ttl)
	ok, err := uc.locks.Extend(orderRef, holderToken, until)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, domain.ErrOrderLocked
	}
	lock, err := uc.locks.Get(orderRef)
	if err != nil {
		return nil, err
	}
	if lock == nil {
		// liberado por otra sesión entre el Extend y esta lectura
		return nil, domain.ErrOrderLocked
	}
	return lock, nil
}

// Release libera el lock; sólo el holder con el token correcto puede hacerlo.
func (uc *LockUseCase) Release(ctx context.Context, orderRef, holderToken string) error {
	ok, err := uc.locks.Release(orderRef, holderToken)
	if err != nil {
		return err
	}
	if !ok {
		return domain.ErrOrderLocked
	}
	return nil
}
