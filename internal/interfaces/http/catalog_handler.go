package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"

	"github.com/KrisYarno/inventory-core/internal/application/catalog"
	"github.com/KrisYarno/inventory-core/internal/application/dto"
	"github.com/KrisYarno/inventory-core/internal/domain"
	"github.com/KrisYarno/inventory-core/internal/domain/entity"
)

// CatalogHandler maneja productos y ubicaciones (protegido).
type CatalogHandler struct {
	catalog *catalog.UseCase
}

// NewCatalogHandler construye el handler.
func NewCatalogHandler(uc *catalog.UseCase) *CatalogHandler {
	return &CatalogHandler{catalog: uc}
}

// CreateProduct godoc
// @Summary      Crear producto
// @Tags         catalog
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        request  body  dto.CreateProductRequest  true  "Producto"
// @Success      201  {object}  dto.ProductDTO
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/products [post]
func (h *CatalogHandler) CreateProduct(c *fiber.Ctx) error {
	var req dto.CreateProductRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "Invalid request body"})
	}

	price, err := parseMoney(req.Price)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "price must be a decimal number"})
	}
	cost, err := parseMoney(req.Cost)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "cost must be a decimal number"})
	}

	p, err := h.catalog.CreateProduct(req.SKU, req.Name, price, cost)
	if err != nil {
		return writeCatalogError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(toProductDTO(p))
}

// ListProducts godoc
// @Summary      Listar productos
// @Tags         catalog
// @Security     Bearer
// @Produce      json
// @Param        include_deleted  query  bool  false  "Incluir bajas lógicas"
// @Param        limit            query  int   false  "Máximo de filas (default 50)"
// @Param        offset           query  int   false  "Desplazamiento"
// @Success      200  {array}  dto.ProductDTO
// @Router       /api/products [get]
func (h *CatalogHandler) ListProducts(c *fiber.Ctx) error {
	products, err := h.catalog.ListProducts(
		c.QueryBool("include_deleted"),
		c.QueryInt("limit", 50),
		c.QueryInt("offset", 0),
	)
	if err != nil {
		return writeCatalogError(c, err)
	}

	out := make([]dto.ProductDTO, 0, len(products))
	for _, p := range products {
		out = append(out, toProductDTO(p))
	}
	return c.JSON(fiber.Map{"total": len(out), "products": out})
}

// GetProduct godoc
// @Summary      Obtener producto por ID
// @Tags         catalog
// @Security     Bearer
// @Produce      json
// @Param        id  path  int  true  "ID del producto"
// @Success      200  {object}  dto.ProductDTO
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/products/{id} [get]
func (h *CatalogHandler) GetProduct(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "id must be a positive integer"})
	}
	p, err := h.catalog.GetProduct(int64(id))
	if err != nil {
		return writeCatalogError(c, err)
	}
	return c.JSON(toProductDTO(p))
}

// CreateLocation godoc
// @Summary      Crear ubicación
// @Tags         catalog
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        request  body  dto.CreateLocationRequest  true  "Ubicación"
// @Success      201  {object}  dto.LocationDTO
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/locations [post]
func (h *CatalogHandler) CreateLocation(c *fiber.Ctx) error {
	var req dto.CreateLocationRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "Invalid request body"})
	}

	l, err := h.catalog.CreateLocation(req.Name, req.Code)
	if err != nil {
		return writeCatalogError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(toLocationDTO(l))
}

// ListLocations godoc
// @Summary      Listar ubicaciones
// @Tags         catalog
// @Security     Bearer
// @Produce      json
// @Success      200  {array}  dto.LocationDTO
// @Router       /api/locations [get]
func (h *CatalogHandler) ListLocations(c *fiber.Ctx) error {
	locations, err := h.catalog.ListLocations()
	if err != nil {
		return writeCatalogError(c, err)
	}

	out := make([]dto.LocationDTO, 0, len(locations))
	for _, l := range locations {
		out = append(out, toLocationDTO(l))
	}
	return c.JSON(fiber.Map{"total": len(out), "locations": out})
}

func writeCatalogError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: err.Error()})
	case errors.Is(err, domain.ErrProductNotFound), errors.Is(err, domain.ErrLocationNotFound):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Error: err.Error()})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Error: "Internal server error"})
	}
}

func parseMoney(raw string) (decimal.Decimal, error) {
	if raw == "" {
		return decimal.Zero, nil
	}
	return decimal.NewFromString(raw)
}

func toProductDTO(p *entity.Product) dto.ProductDTO {
	return dto.ProductDTO{
		ID:        p.ID,
		SKU:       p.SKU,
		Name:      p.Name,
		Price:     p.Price.String(),
		Cost:      p.Cost.String(),
		IsDeleted: p.IsDeleted,
	}
}

func toLocationDTO(l *entity.Location) dto.LocationDTO {
	return dto.LocationDTO{ID: l.ID, Name: l.Name, Code: l.Code}
}
