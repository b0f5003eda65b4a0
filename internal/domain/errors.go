package domain

import (
	"errors"
	"fmt"
)

// Errores centinela de dominio (sin dependencias externas).
var (
	ErrNotFound         = errors.New("recurso no encontrado")
	ErrProductNotFound  = errors.New("producto no encontrado")
	ErrLocationNotFound = errors.New("ubicación no encontrada")
	ErrInvalidInput     = errors.New("entrada inválida")
	ErrUnauthorized     = errors.New("no autorizado")
	ErrOrderLocked      = errors.New("la orden está bloqueada por otro usuario")
)

// ErrStore marca fallas de infraestructura de persistencia (transporte, transacción).
// El caller puede reintentar; el núcleo nunca lo reintenta automáticamente.
var ErrStore = errors.New("fallo del almacén de datos")

// InsufficientStockError indica que una salida excede el stock disponible.
// Es una restricción real del negocio: no se reintenta.
type InsufficientStockError struct {
	ProductName string
	Current     int64
	Requested   int64
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("%s: Insufficient inventory: current %d, trying to remove %d",
		e.ProductName, e.Current, e.Requested)
}

// OptimisticLockError indica una carrera de versiones sobre product_locations.
// Es transitorio: el orquestador lo reintenta con backoff antes de rendirse.
type OptimisticLockError struct {
	Current  int
	Expected int
}

func (e *OptimisticLockError) Error() string {
	return fmt.Sprintf("optimistic lock conflict: version actual %d, esperada %d",
		e.Current, e.Expected)
}

// ItemError error de validación asociado a un producto concreto del lote.
type ItemError struct {
	ProductID int64
	Message   string
}

// BatchValidationError agrupa todos los errores detectados en la validación
// previa de un lote. Si existe, no se escribió nada.
type BatchValidationError struct {
	Items []ItemError
}

func (e *BatchValidationError) Error() string {
	if len(e.Items) == 1 {
		return fmt.Sprintf("batch validation failed: %s", e.Items[0].Message)
	}
	return fmt.Sprintf("batch validation failed: %d errores", len(e.Items))
}
