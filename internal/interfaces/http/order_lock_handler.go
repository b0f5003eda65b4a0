package http

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/KrisYarno/inventory-core/internal/application/dto"
	"github.com/KrisYarno/inventory-core/internal/application/orders"
	"github.com/KrisYarno/inventory-core/internal/domain"
	"github.com/KrisYarno/inventory-core/internal/domain/entity"
)

// OrderLockHandler maneja los leases de empaque de órdenes (protegido).
type OrderLockHandler struct {
	uc *orders.LockUseCase
}

// NewOrderLockHandler construye el handler.
func NewOrderLockHandler(uc *orders.LockUseCase) *OrderLockHandler {
	return &OrderLockHandler{uc: uc}
}

// Acquire godoc
// @Summary      Tomar el lock de empaque de una orden
// @Tags         orders
// @Security     Bearer
// @Produce      json
// @Param        ref  path  string  true  "Referencia de la orden externa"
// @Success      200  {object}  dto.OrderLockDTO
// @Failure      409  {object}  dto.OperationErrorResponse
// @Router       /api/orders/{ref}/lock [post]
func (h *OrderLockHandler) Acquire(c *fiber.Ctx) error {
	lock, err := h.uc.Acquire(c.Context(), c.Params("ref"), GetUserID(c))
	if err != nil {
		return writeLockError(c, err)
	}
	return c.JSON(toLockDTO(lock))
}

// Refresh godoc
// @Summary      Extender el lease de empaque
// @Tags         orders
// @Security     Bearer
// @Produce      json
// @Param        ref    path    string  true  "Referencia de la orden externa"
// @Param        token  query   string  true  "Holder token recibido al adquirir"
// @Success      200  {object}  dto.OrderLockDTO
// @Failure      409  {object}  dto.OperationErrorResponse
// @Router       /api/orders/{ref}/lock [put]
func (h *OrderLockHandler) Refresh(c *fiber.Ctx) error {
	lock, err := h.uc.Refresh(c.Context(), c.Params("ref"), c.Query("token"))
	if err != nil {
		return writeLockError(c, err)
	}
	return c.JSON(toLockDTO(lock))
}

// Release godoc
// @Summary      Liberar el lock de empaque
// @Tags         orders
// @Security     Bearer
// @Param        ref    path   string  true  "Referencia de la orden externa"
// @Param        token  query  string  true  "Holder token recibido al adquirir"
// @Success      200
// @Failure      409  {object}  dto.OperationErrorResponse
// @Router       /api/orders/{ref}/lock [delete]
func (h *OrderLockHandler) Release(c *fiber.Ctx) error {
	if err := h.uc.Release(c.Context(), c.Params("ref"), c.Query("token")); err != nil {
		return writeLockError(c, err)
	}
	return c.JSON(fiber.Map{"message": "lock liberado"})
}

func writeLockError(c *fiber.Ctx, err error) error {
	if errors.Is(err, domain.ErrOrderLocked) {
		return c.Status(fiber.StatusConflict).JSON(dto.OperationErrorResponse{Error: dto.ErrorBody{
			Message: "Order is locked by another user.",
			Code:    dto.CodeOrderLocked,
		}})
	}
	if errors.Is(err, domain.ErrInvalidInput) {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "entrada inválida"})
	}
	return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Error: err.Error()})
}

func toLockDTO(lock *entity.OrderLock) dto.OrderLockDTO {
	return dto.OrderLockDTO{
		OrderRef:    lock.OrderRef,
		HolderToken: lock.HolderToken,
		ExpiresAt:   lock.ExpiresAt.UTC().Format(time.RFC3339),
	}
}
