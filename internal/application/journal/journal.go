// Package journal implementa el área de preparación de ajustes pendientes:
// el usuario acumula cambios por producto antes de confirmarlos como un lote
// atómico. El núcleo lo hospeda por usuario detrás de la API para que el
// cliente quede delgado y el estado pendiente sea consultable.
package journal

import (
	"sort"
	"sync"

	"github.com/KrisYarno/inventory-core/internal/domain/stock"
)

// PendingAdjustment un cambio pendiente, como mucho uno por producto.
// QuantityChange es el delta acumulado que el usuario pretende aplicar; no es
// una entrada del ledger y no persiste hasta el submit.
type PendingAdjustment struct {
	ProductID       int64
	QuantityChange  int64
	ExpectedVersion *int
	Notes           string
}

// NetTotals agregados netos de un journal.
type NetTotals struct {
	Additions int64
	Removals  int64
	Total     int64
}

// Journal mapa de ajustes pendientes de un usuario, con clave por producto.
// Seguro para uso concurrente: varias peticiones del mismo usuario pueden
// tocarlo a la vez.
type Journal struct {
	mu      sync.RWMutex
	pending map[int64]PendingAdjustment
}

// New crea un journal vacío.
func New() *Journal {
	return &Journal{pending: make(map[int64]PendingAdjustment)}
}

// AddOrReplace hace upsert por producto: el último valor escrito reemplaza al
// anterior, nunca se suma sobre él.
func (j *Journal) AddOrReplace(productID, quantityChange int64, expectedVersion *int, notes string) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.pending[productID] = PendingAdjustment{
		ProductID:       productID,
		QuantityChange:  quantityChange,
		ExpectedVersion: expectedVersion,
		Notes:           notes,
	}
}

// Remove descarta el pendiente de un producto, si existe.
func (j *Journal) Remove(productID int64) {
	j.mu.Lock()
	defer j.mu.Unlock()
	delete(j.pending, productID)
}

// ClearAll descarta todos los pendientes (submit exitoso o descarte explícito).
func (j *Journal) ClearAll() {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.pending = make(map[int64]PendingAdjustment)
}

// HasPendingChanges indica si hay alguna entrada. Un producto con cambio 0
// cuenta como entrada (se filtra recién al armar el lote).
func (j *Journal) HasPendingChanges() bool {
	j.mu.RLock()
	defer j.mu.RUnlock()
	return len(j.pending) > 0
}

// Entries devuelve los pendientes ordenados por producto (orden estable para
// la UI y para el lote).
func (j *Journal) Entries() []PendingAdjustment {
	j.mu.RLock()
	defer j.mu.RUnlock()
	out := make([]PendingAdjustment, 0, len(j.pending))
	for _, p := range j.pending {
		out = append(out, p)
	}
	sort.Slice(out, func(a, b int) bool { return out[a].ProductID < out[b].ProductID })
	return out
}

// NetTotals agrega los pendientes: entradas, salidas (valor absoluto) y neto.
// Sin pendientes, los tres son 0.
func (j *Journal) NetTotals() NetTotals {
	j.mu.RLock()
	defer j.mu.RUnlock()
	var t NetTotals
	for _, p := range j.pending {
		switch {
		case p.QuantityChange > 0:
			t.Additions += p.QuantityChange
		case p.QuantityChange < 0:
			t.Removals += -p.QuantityChange
		}
	}
	t.Total = t.Additions - t.Removals
	return t
}

// ToBatch convierte los pendientes en un lote contra una ubicación, filtrando
// las entradas con cambio 0 (nunca se envían al orquestador).
func (j *Journal) ToBatch(locationID int64) []stock.Adjustment {
	entries := j.Entries()
	batch := make([]stock.Adjustment, 0, len(entries))
	for _, p := range entries {
		if p.QuantityChange == 0 {
			continue
		}
		batch = append(batch, stock.Adjustment{
			ProductID:       p.ProductID,
			LocationID:      locationID,
			Delta:           p.QuantityChange,
			ExpectedVersion: p.ExpectedVersion,
		})
	}
	return batch
}
