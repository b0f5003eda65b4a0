package dto

// JournalEntryRequest body para POST /api/journal: upsert por producto
// (último escribe gana, nunca suma sobre lo pendiente).
type JournalEntryRequest struct {
	ProductID       int64  `json:"product_id"`
	QuantityChange  int64  `json:"quantity_change"`
	ExpectedVersion *int   `json:"expected_version,omitempty"`
	Notes           string `json:"notes,omitempty"`
}

// JournalEntryDTO un ajuste pendiente en el journal de un usuario.
type JournalEntryDTO struct {
	ProductID       int64  `json:"product_id"`
	QuantityChange  int64  `json:"quantity_change"`
	ExpectedVersion *int   `json:"expected_version,omitempty"`
	Notes           string `json:"notes,omitempty"`
}

// JournalTotalsDTO agregados netos de los ajustes pendientes.
type JournalTotalsDTO struct {
	Additions int64 `json:"additions"`
	Removals  int64 `json:"removals"`
	Total     int64 `json:"total"`
}

// JournalSubmitRequest body para POST /api/journal/submit: confirma el journal
// completo como un lote atómico contra una ubicación.
type JournalSubmitRequest struct {
	LocationID int64 `json:"location_id"`
}

// OrderLockDTO respuesta de adquisición/renovación de lock de empaque.
type OrderLockDTO struct {
	OrderRef    string `json:"order_ref"`
	HolderToken string `json:"holder_token"`
	ExpiresAt   string `json:"expires_at"`
}
