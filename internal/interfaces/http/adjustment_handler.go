package http

import (
	"context"
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v2"

	"github.com/KrisYarno/inventory-core/internal/application/dto"
	"github.com/KrisYarno/inventory-core/internal/application/inventory"
	"github.com/KrisYarno/inventory-core/internal/domain"
	"github.com/KrisYarno/inventory-core/internal/domain/stock"
)

// BatchAdjuster puerto que el handler necesita del orquestador de ajustes.
type BatchAdjuster interface {
	Adjust(ctx context.Context, userID int64, items []stock.Adjustment) (*inventory.BatchResult, error)
	StockIn(ctx context.Context, userID, locationID int64, items []stock.Adjustment) (*inventory.BatchResult, error)
	Transfer(ctx context.Context, userID, productID, fromLocationID, toLocationID, qty int64) (*inventory.BatchResult, error)
}

// AdjustmentHandler maneja las peticiones de escritura del motor de ajustes
// (protegido).
type AdjustmentHandler struct {
	uc BatchAdjuster
}

// NewAdjustmentHandler construye el handler.
func NewAdjustmentHandler(uc BatchAdjuster) *AdjustmentHandler {
	return &AdjustmentHandler{uc: uc}
}

// BatchAdjust godoc
// @Summary      Aplicar un lote de ajustes de inventario
// @Description  Valida el lote completo y lo aplica como unidad atómica.
//
//	Reintenta internamente ante carreras de versión; un fallo de
//	negocio revierte el lote entero.
//
// @Tags         inventory
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.BatchAdjustmentRequest  true  "ajustes: product_id, location_id, delta != 0, expected_version opcional"
// @Success      200   {object}  dto.BatchAdjustmentResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.OperationErrorResponse
// @Failure      500   {object}  dto.OperationErrorResponse
// @Router       /api/inventory/adjustments [post]
func (h *AdjustmentHandler) BatchAdjust(c *fiber.Ctx) error {
	userID := GetUserID(c)
	if userID == 0 {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Error: "token inválido"})
	}
	var in dto.BatchAdjustmentRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "cuerpo inválido"})
	}
	items, details := parseAdjustments(in.Adjustments)
	if len(details) > 0 {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error:   "adjustments must be valid",
			Details: details,
		})
	}

	result, err := h.uc.Adjust(c.Context(), userID, items)
	if err != nil {
		return writeAdjustError(c, err)
	}
	return c.JSON(toBatchResponse(result))
}

// StockIn godoc
// @Summary      Registrar entrada de mercancía
// @Tags         inventory
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.StockInRequest  true  "location_id e ítems con quantity > 0"
// @Success      200   {object}  dto.BatchAdjustmentResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/inventory/stock-in [post]
func (h *AdjustmentHandler) StockIn(c *fiber.Ctx) error {
	userID := GetUserID(c)
	if userID == 0 {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Error: "token inválido"})
	}
	var in dto.StockInRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "cuerpo inválido"})
	}
	if in.LocationID <= 0 || len(in.Items) == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "location_id and items are required"})
	}
	items := make([]stock.Adjustment, 0, len(in.Items))
	for i, it := range in.Items {
		if it.ProductID <= 0 || it.Quantity <= 0 {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
				Error:   "items must be valid",
				Details: map[string]string{fmt.Sprintf("items[%d]", i): "quantity must be a positive integer"},
			})
		}
		items = append(items, stock.Adjustment{ProductID: it.ProductID, Delta: it.Quantity})
	}

	result, err := h.uc.StockIn(c.Context(), userID, in.LocationID, items)
	if err != nil {
		return writeAdjustError(c, err)
	}
	return c.JSON(toBatchResponse(result))
}

// Transfer godoc
// @Summary      Trasladar stock entre ubicaciones
// @Tags         inventory
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.TransferRequest  true  "product_id, from_location_id, to_location_id, quantity > 0"
// @Success      200   {object}  dto.BatchAdjustmentResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      500   {object}  dto.OperationErrorResponse
// @Router       /api/inventory/transfer [post]
func (h *AdjustmentHandler) Transfer(c *fiber.Ctx) error {
	userID := GetUserID(c)
	if userID == 0 {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Error: "token inválido"})
	}
	var in dto.TransferRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "cuerpo inválido"})
	}
	if in.ProductID <= 0 || in.FromLocationID <= 0 || in.ToLocationID <= 0 ||
		in.FromLocationID == in.ToLocationID || in.Quantity <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "transfer request must be valid"})
	}

	result, err := h.uc.Transfer(c.Context(), userID, in.ProductID, in.FromLocationID, in.ToLocationID, in.Quantity)
	if err != nil {
		return writeAdjustError(c, err)
	}
	return c.JSON(toBatchResponse(result))
}

// parseAdjustments valida la forma del lote en el borde (petición malformada,
// no regla de negocio) y lo convierte al tipo del dominio.
func parseAdjustments(in []dto.AdjustmentItemRequest) ([]stock.Adjustment, map[string]string) {
	details := make(map[string]string)
	if len(in) == 0 {
		details["adjustments"] = "adjustments must not be empty"
		return nil, details
	}
	items := make([]stock.Adjustment, 0, len(in))
	for i, a := range in {
		switch {
		case a.ProductID <= 0:
			details[fmt.Sprintf("adjustments[%d].product_id", i)] = "product_id must be a positive integer"
		case a.LocationID <= 0:
			details[fmt.Sprintf("adjustments[%d].location_id", i)] = "location_id must be a positive integer"
		case a.Delta == 0:
			details[fmt.Sprintf("adjustments[%d].delta", i)] = "delta must be a non-zero integer"
		default:
			items = append(items, stock.Adjustment{
				ProductID:       a.ProductID,
				LocationID:      a.LocationID,
				Delta:           a.Delta,
				ExpectedVersion: a.ExpectedVersion,
			})
		}
	}
	if len(details) > 0 {
		return nil, details
	}
	return items, nil
}

// writeAdjustError mapea la taxonomía de errores del motor a HTTP. El diálogo
// de recuperación del cliente distingue condiciones reintetables por el code,
// así que cada tipo conserva su forma: nunca se colapsa a un fallo genérico.
func writeAdjustError(c *fiber.Ctx, err error) error {
	var validationErr *domain.BatchValidationError
	if errors.As(err, &validationErr) {
		details := make(map[string]string, len(validationErr.Items))
		for _, item := range validationErr.Items {
			details[fmt.Sprintf("product_%d", item.ProductID)] = item.Message
		}
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error:   "validation failed",
			Details: details,
		})
	}

	var lockErr *domain.OptimisticLockError
	if errors.As(err, &lockErr) {
		return c.Status(fiber.StatusConflict).JSON(dto.OperationErrorResponse{Error: dto.ErrorBody{
			Message: "The record was modified by another user. Please refresh and try again.",
			Code:    dto.CodeOptimisticLock,
		}})
	}

	// La insuficiencia detectada dentro de la transacción se reporta como
	// fallo de operación (500), no como 4xx; los clientes dependen de eso.
	var stockErr *domain.InsufficientStockError
	if errors.As(err, &stockErr) {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.OperationErrorResponse{Error: dto.ErrorBody{
			Message: stockErr.Error(),
		}})
	}

	switch {
	case errors.Is(err, domain.ErrProductNotFound):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Error: "producto no encontrado"})
	case errors.Is(err, domain.ErrInvalidInput):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "entrada inválida"})
	}

	return c.Status(fiber.StatusInternalServerError).JSON(dto.OperationErrorResponse{Error: dto.ErrorBody{
		Code: dto.CodeBatchFailed,
	}})
}

func toBatchResponse(result *inventory.BatchResult) dto.BatchAdjustmentResponse {
	results := make([]dto.AdjustmentResultDTO, 0, len(result.Results))
	for _, r := range result.Results {
		results = append(results, dto.AdjustmentResultDTO{
			ProductID:  r.ProductID,
			LogID:      r.LogID,
			Delta:      r.Delta,
			NewVersion: r.NewVersion,
		})
	}
	return dto.BatchAdjustmentResponse{Success: true, Count: len(results), Results: results}
}
