// Package stock contiene las reglas puras de admisibilidad de cambios de
// inventario (servicio de dominio, sin efectos secundarios). Se usa tanto en
// la validación previa de lotes como en la re-validación final dentro de la
// transacción.
package stock

import (
	"fmt"

	"github.com/KrisYarno/inventory-core/internal/domain"
	"github.com/KrisYarno/inventory-core/internal/domain/entity"
)

// Adjustment es un cambio de cantidad solicitado para un producto en una
// ubicación. ExpectedVersion es opcional: si viene, la versión del snapshot
// debe coincidir o el lote se rechaza.
type Adjustment struct {
	ProductID       int64
	LocationID      int64
	Delta           int64
	ExpectedVersion *int
}

// BatchValidation resultado de validar un lote completo.
// IsValid es true sólo si Errors está vacío.
type BatchValidation struct {
	IsValid bool
	Errors  []domain.ItemError
}

// NetChanges agregado neto de un conjunto de ajustes.
type NetChanges struct {
	Additions int64 // suma de deltas positivos
	Removals  int64 // suma de valores absolutos de deltas negativos
	Net       int64 // Additions - Removals
}

// ValidateChange indica si aplicar delta sobre current es admisible:
// el resultado no puede quedar negativo. Dejar el stock exactamente en cero
// es válido.
func ValidateChange(current, delta int64) bool {
	return current+delta >= 0
}

// ValidateBatch valida cada ajuste contra los snapshots actuales (mapeados por
// producto) y recolecta TODOS los errores aplicables: nunca corta en el
// primero, porque la UI muestra los problemas de cada fila a la vez.
//
// Reglas:
//   - Sin snapshot: sólo se admite delta positivo (alta de stock nuevo);
//     un delta negativo contra un registro inexistente es error.
//   - Con ExpectedVersion: la versión del snapshot debe coincidir.
//   - El resultado nunca puede quedar negativo.
//
// En el texto del error de versión, la versión real del servidor va en el
// hueco "expected" y la expectativa obsoleta del caller en "got"; hay asserts
// externos sobre ese string exacto.
func ValidateBatch(adjustments []Adjustment, snapshots map[int64]*entity.StockSnapshot) BatchValidation {
	var errs []domain.ItemError

	for _, adj := range adjustments {
		snap := snapshots[adj.ProductID]

		if snap == nil {
			if adj.Delta < 0 {
				errs = append(errs, domain.ItemError{
					ProductID: adj.ProductID,
					Message:   "product not found in inventory",
				})
			}
			continue
		}

		if adj.ExpectedVersion != nil && snap.Version != *adj.ExpectedVersion {
			errs = append(errs, domain.ItemError{
				ProductID: adj.ProductID,
				Message: fmt.Sprintf("Version mismatch (expected %d, got %d)",
					snap.Version, *adj.ExpectedVersion),
			})
		}

		if !ValidateChange(snap.Quantity, adj.Delta) {
			if snap.Quantity == 0 {
				errs = append(errs, domain.ItemError{
					ProductID: adj.ProductID,
					Message:   "No inventory available",
				})
			} else {
				errs = append(errs, domain.ItemError{
					ProductID: adj.ProductID,
					Message: fmt.Sprintf("Insufficient inventory (current: %d, trying to remove: %d)",
						snap.Quantity, -adj.Delta),
				})
			}
		}
	}

	return BatchValidation{IsValid: len(errs) == 0, Errors: errs}
}

// CalculateNetChanges agrega los deltas de un lote: entradas, salidas y neto.
// Los deltas cero no aportan a ninguno.
func CalculateNetChanges(adjustments []Adjustment) NetChanges {
	var nc NetChanges
	for _, adj := range adjustments {
		switch {
		case adj.Delta > 0:
			nc.Additions += adj.Delta
		case adj.Delta < 0:
			nc.Removals += -adj.Delta
		}
	}
	nc.Net = nc.Additions - nc.Removals
	return nc
}
