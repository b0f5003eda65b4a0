package catalog

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/KrisYarno/inventory-core/internal/domain"
	"github.com/KrisYarno/inventory-core/internal/domain/entity"
	"github.com/KrisYarno/inventory-core/internal/domain/repository"
)

// UseCase operaciones del catálogo (productos y ubicaciones). El catálogo es
// soporte del motor de inventario: los ajustes referencian sus IDs y los
// mensajes de error y auditoría usan sus nombres.
type UseCase struct {
	products  repository.ProductRepository
	locations repository.LocationRepository
}

// NewUseCase construye el caso de uso del catálogo.
func NewUseCase(products repository.ProductRepository, locations repository.LocationRepository) *UseCase {
	return &UseCase{products: products, locations: locations}
}

// CreateProduct da de alta un producto del catálogo.
func (uc *UseCase) CreateProduct(sku, name string, price, cost decimal.Decimal) (*entity.Product, error) {
	sku = strings.TrimSpace(sku)
	name = strings.TrimSpace(name)
	if sku == "" || name == "" {
		return nil, fmt.Errorf("%w: sku and name are required", domain.ErrInvalidInput)
	}
	if price.IsNegative() || cost.IsNegative() {
		return nil, fmt.Errorf("%w: price and cost must not be negative", domain.ErrInvalidInput)
	}

	p := &entity.Product{SKU: sku, Name: name, Price: price, Cost: cost}
	if err := uc.products.Create(p); err != nil {
		return nil, err
	}
	return p, nil
}

// GetProduct obtiene un producto por ID.
func (uc *UseCase) GetProduct(id int64) (*entity.Product, error) {
	p, err := uc.products.GetByID(id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, domain.ErrProductNotFound
	}
	return p, nil
}

// ListProducts lista el catálogo (por defecto sin bajas lógicas).
func (uc *UseCase) ListProducts(includeDeleted bool, limit, offset int) ([]*entity.Product, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	return uc.products.List(includeDeleted, limit, offset)
}

// CreateLocation da de alta una ubicación.
func (uc *UseCase) CreateLocation(name, code string) (*entity.Location, error) {
	name = strings.TrimSpace(name)
	code = strings.TrimSpace(code)
	if name == "" {
		return nil, fmt.Errorf("%w: name is required", domain.ErrInvalidInput)
	}

	l := &entity.Location{Name: name, Code: code}
	if err := uc.locations.Create(l); err != nil {
		return nil, err
	}
	return l, nil
}

// GetLocation obtiene una ubicación por ID.
func (uc *UseCase) GetLocation(id int64) (*entity.Location, error) {
	l, err := uc.locations.GetByID(id)
	if err != nil {
		return nil, err
	}
	if l == nil {
		return nil, domain.ErrLocationNotFound
	}
	return l, nil
}

// ListLocations lista todas las ubicaciones.
func (uc *UseCase) ListLocations() ([]*entity.Location, error) {
	return uc.locations.List()
}
