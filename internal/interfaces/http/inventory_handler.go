package http

import (
	"context"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/KrisYarno/inventory-core/internal/application/dto"
	"github.com/KrisYarno/inventory-core/internal/application/inventory"
	"github.com/KrisYarno/inventory-core/internal/domain/repository"
)

// LevelsQuerier puerto de lectura que el handler necesita del servicio de
// consulta.
type LevelsQuerier interface {
	CurrentLevels(ctx context.Context, locationID *int64) ([]repository.StockLevel, error)
	SnapshotAt(ctx context.Context, ts time.Time, locationID *int64) ([]repository.PairQuantity, error)
	History(ctx context.Context, productID, locationID int64, limit, offset int) ([]inventory.LedgerEntryView, error)
}

// InventoryHandler maneja las lecturas de inventario (protegido).
type InventoryHandler struct {
	query LevelsQuerier
}

// NewInventoryHandler construye el handler.
func NewInventoryHandler(query LevelsQuerier) *InventoryHandler {
	return &InventoryHandler{query: query}
}

// Levels godoc
// @Summary      Niveles actuales de inventario
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        location_id  query  int  false  "Filtrar por ubicación. Vacío = todas."
// @Success      200  {array}   dto.StockLevelDTO
// @Failure      500  {object}  dto.ErrorResponse
// @Router       /api/inventory/levels [get]
func (h *InventoryHandler) Levels(c *fiber.Ctx) error {
	locationID, err := optionalLocationID(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "location_id must be a positive integer"})
	}

	levels, err := h.query.CurrentLevels(c.Context(), locationID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Error: err.Error()})
	}

	out := make([]dto.StockLevelDTO, 0, len(levels))
	for _, lv := range levels {
		out = append(out, dto.StockLevelDTO{
			ProductID:   lv.ProductID,
			LocationID:  lv.LocationID,
			SKU:         lv.SKU,
			ProductName: lv.ProductName,
			Quantity:    lv.Quantity,
			LastUpdated: lv.LastUpdated.UTC().Format(time.RFC3339),
			Value:       lv.Value.String(),
		})
	}
	return c.JSON(fiber.Map{"total": len(out), "levels": out})
}

// SnapshotAt godoc
// @Summary      Vista punto-en-el-tiempo del inventario
// @Description  Suma los deltas del ledger hasta el instante dado, sin usar la
//
//	tabla materializada.
//
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        at           query  string  true   "Instante RFC3339"
// @Param        location_id  query  int     false  "Filtrar por ubicación"
// @Success      200  {array}   dto.SnapshotAtDTO
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/inventory/snapshot [get]
func (h *InventoryHandler) SnapshotAt(c *fiber.Ctx) error {
	at := c.Query("at")
	if at == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "at must be an RFC3339 timestamp"})
	}
	ts, err := time.Parse(time.RFC3339, at)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "at must be an RFC3339 timestamp"})
	}
	locationID, err := optionalLocationID(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "location_id must be a positive integer"})
	}

	pairs, err := h.query.SnapshotAt(c.Context(), ts, locationID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Error: err.Error()})
	}

	out := make([]dto.SnapshotAtDTO, 0, len(pairs))
	for _, pq := range pairs {
		out = append(out, dto.SnapshotAtDTO{
			ProductID:  pq.ProductID,
			LocationID: pq.LocationID,
			Quantity:   pq.Quantity,
		})
	}
	return c.JSON(fiber.Map{"at": ts.UTC().Format(time.RFC3339), "snapshot": out})
}

// History godoc
// @Summary      Historial del ledger de un par (producto, ubicación)
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        product_id   query  int  true   "Producto"
// @Param        location_id  query  int  true   "Ubicación"
// @Param        limit        query  int  false  "Máximo de filas (default 20)"
// @Param        offset       query  int  false  "Desplazamiento"
// @Success      200  {array}   dto.LedgerEntryDTO
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/inventory/history [get]
func (h *InventoryHandler) History(c *fiber.Ctx) error {
	productID := int64(c.QueryInt("product_id"))
	locationID := int64(c.QueryInt("location_id"))
	if productID <= 0 || locationID <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "product_id and location_id must be positive integers"})
	}
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "limit and offset must be integers"})
	}
	page.DefaultPage()

	views, err := h.query.History(c.Context(), productID, locationID, page.Limit, page.Offset)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Error: err.Error()})
	}

	out := make([]dto.LedgerEntryDTO, 0, len(views))
	for _, v := range views {
		out = append(out, dto.LedgerEntryDTO{
			LogID:      v.LogID,
			UserID:     v.UserID,
			Delta:      v.Delta,
			LogType:    v.LogType,
			ChangeTime: v.ChangeTime.UTC().Format(time.RFC3339),
		})
	}
	return c.JSON(fiber.Map{"total": len(out), "entries": out})
}

// optionalLocationID lee el query param location_id; nil si no vino.
func optionalLocationID(c *fiber.Ctx) (*int64, error) {
	raw := c.Query("location_id")
	if raw == "" {
		return nil, nil
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return nil, fiber.ErrBadRequest
	}
	return &id, nil
}
