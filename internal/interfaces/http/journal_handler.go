package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/KrisYarno/inventory-core/internal/application/dto"
	"github.com/KrisYarno/inventory-core/internal/application/journal"
)

// JournalHandler maneja el área de preparación de ajustes pendientes del
// usuario autenticado (protegido).
type JournalHandler struct {
	store    *journal.Store
	adjuster BatchAdjuster
}

// NewJournalHandler construye el handler.
func NewJournalHandler(store *journal.Store, adjuster BatchAdjuster) *JournalHandler {
	return &JournalHandler{store: store, adjuster: adjuster}
}

// List godoc
// @Summary      Ajustes pendientes del usuario
// @Tags         journal
// @Security     Bearer
// @Produce      json
// @Success      200  {array}  dto.JournalEntryDTO
// @Router       /api/journal [get]
func (h *JournalHandler) List(c *fiber.Ctx) error {
	j := h.store.ForUser(GetUserID(c))
	entries := j.Entries()
	out := make([]dto.JournalEntryDTO, 0, len(entries))
	for _, p := range entries {
		out = append(out, dto.JournalEntryDTO{
			ProductID:       p.ProductID,
			QuantityChange:  p.QuantityChange,
			ExpectedVersion: p.ExpectedVersion,
			Notes:           p.Notes,
		})
	}
	return c.JSON(fiber.Map{
		"entries":             out,
		"has_pending_changes": j.HasPendingChanges(),
	})
}

// Upsert godoc
// @Summary      Agregar o reemplazar un ajuste pendiente
// @Description  Upsert por producto: el último valor reemplaza al anterior,
//
//	nunca se suma sobre él.
//
// @Tags         journal
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.JournalEntryRequest  true  "product_id y quantity_change"
// @Success      200   {object}  dto.JournalTotalsDTO
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/journal [post]
func (h *JournalHandler) Upsert(c *fiber.Ctx) error {
	var in dto.JournalEntryRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "cuerpo inválido"})
	}
	if in.ProductID <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "product_id must be a positive integer"})
	}
	j := h.store.ForUser(GetUserID(c))
	j.AddOrReplace(in.ProductID, in.QuantityChange, in.ExpectedVersion, in.Notes)
	return c.JSON(toTotalsDTO(j))
}

// Remove godoc
// @Summary      Quitar el pendiente de un producto
// @Tags         journal
// @Security     Bearer
// @Produce      json
// @Param        product_id  path  int  true  "Producto"
// @Success      200  {object}  dto.JournalTotalsDTO
// @Router       /api/journal/{product_id} [delete]
func (h *JournalHandler) Remove(c *fiber.Ctx) error {
	productID, err := c.ParamsInt("product_id")
	if err != nil || productID <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "product_id must be a positive integer"})
	}
	j := h.store.ForUser(GetUserID(c))
	j.Remove(int64(productID))
	return c.JSON(toTotalsDTO(j))
}

// Clear godoc
// @Summary      Descartar todos los pendientes
// @Tags         journal
// @Security     Bearer
// @Router       /api/journal [delete]
func (h *JournalHandler) Clear(c *fiber.Ctx) error {
	h.store.ForUser(GetUserID(c)).ClearAll()
	return c.JSON(fiber.Map{"message": "journal descartado"})
}

// Totals godoc
// @Summary      Agregados netos de los pendientes
// @Tags         journal
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.JournalTotalsDTO
// @Router       /api/journal/totals [get]
func (h *JournalHandler) Totals(c *fiber.Ctx) error {
	return c.JSON(toTotalsDTO(h.store.ForUser(GetUserID(c))))
}

// Submit godoc
// @Summary      Confirmar el journal como lote atómico
// @Description  Convierte los pendientes (filtrando cambios 0) en un lote y lo
//
//	aplica contra la ubicación dada. El journal se limpia sólo si
//	el lote confirma.
//
// @Tags         journal
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.JournalSubmitRequest  true  "location_id destino del lote"
// @Success      200   {object}  dto.BatchAdjustmentResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.OperationErrorResponse
// @Router       /api/journal/submit [post]
func (h *JournalHandler) Submit(c *fiber.Ctx) error {
	userID := GetUserID(c)
	var in dto.JournalSubmitRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "cuerpo inválido"})
	}
	if in.LocationID <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "location_id must be a positive integer"})
	}

	j := h.store.ForUser(userID)
	batch := j.ToBatch(in.LocationID)
	if len(batch) == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "journal has no pending changes"})
	}

	result, err := h.adjuster.Adjust(c.Context(), userID, batch)
	if err != nil {
		// El journal se conserva: el usuario corrige y reintenta.
		return writeAdjustError(c, err)
	}
	j.ClearAll()
	return c.JSON(toBatchResponse(result))
}

func toTotalsDTO(j *journal.Journal) dto.JournalTotalsDTO {
	t := j.NetTotals()
	return dto.JournalTotalsDTO{Additions: t.Additions, Removals: t.Removals, Total: t.Total}
}
