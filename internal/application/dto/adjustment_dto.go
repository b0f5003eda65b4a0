package dto

// AdjustmentItemRequest un ajuste solicitado dentro del lote.
// Delta nunca puede ser cero; ExpectedVersion es opcional (bloqueo optimista
// contra la versión que el cliente leyó).
type AdjustmentItemRequest struct {
	ProductID       int64  `json:"product_id"`
	LocationID      int64  `json:"location_id"`
	Delta           int64  `json:"delta"`
	ExpectedVersion *int   `json:"expected_version,omitempty"`
	Notes           string `json:"notes,omitempty"`
}

// BatchAdjustmentRequest body para POST /api/inventory/adjustments.
type BatchAdjustmentRequest struct {
	Adjustments []AdjustmentItemRequest `json:"adjustments"`
}

// AdjustmentResultDTO resultado por ítem de un lote confirmado.
type AdjustmentResultDTO struct {
	ProductID  int64 `json:"product_id"`
	LogID      int64 `json:"log_id"`
	Delta      int64 `json:"delta"`
	NewVersion int   `json:"new_version"`
}

// BatchAdjustmentResponse respuesta de éxito del lote.
type BatchAdjustmentResponse struct {
	Success bool                  `json:"success"`
	Count   int                   `json:"count"`
	Results []AdjustmentResultDTO `json:"results"`
}

// StockInRequest body para POST /api/inventory/stock-in (entradas, deltas > 0).
type StockInRequest struct {
	LocationID int64         `json:"location_id"`
	Items      []StockInItem `json:"items"`
}

// StockInItem una entrada de mercancía.
type StockInItem struct {
	ProductID int64 `json:"product_id"`
	Quantity  int64 `json:"quantity"` // > 0
}

// TransferRequest body para POST /api/inventory/transfer.
type TransferRequest struct {
	ProductID      int64 `json:"product_id"`
	FromLocationID int64 `json:"from_location_id"`
	ToLocationID   int64 `json:"to_location_id"`
	Quantity       int64 `json:"quantity"` // > 0
}

// StockLevelDTO fila de GET /api/inventory/levels.
type StockLevelDTO struct {
	ProductID   int64  `json:"product_id"`
	LocationID  int64  `json:"location_id"`
	SKU         string `json:"sku"`
	ProductName string `json:"product_name"`
	Quantity    int64  `json:"quantity"`
	LastUpdated string `json:"last_updated"` // RFC3339; epoch si el par no registra movimientos
	Value       string `json:"value"`        // quantity * cost, decimal serializado como string
}

// LedgerEntryDTO fila de GET /api/inventory/history.
type LedgerEntryDTO struct {
	LogID      int64  `json:"log_id"`
	UserID     int64  `json:"user_id"`
	Delta      int64  `json:"delta"`
	LogType    string `json:"log_type"`
	ChangeTime string `json:"change_time"` // RFC3339
}

// SnapshotAtDTO fila de GET /api/inventory/snapshot (vista punto-en-el-tiempo).
type SnapshotAtDTO struct {
	ProductID  int64 `json:"product_id"`
	LocationID int64 `json:"location_id"`
	Quantity   int64 `json:"quantity"`
}
