package repository

import "github.com/KrisYarno/inventory-core/internal/domain/entity"

// ProductRepository define el puerto de persistencia para el catálogo.
type ProductRepository interface {
	Create(product *entity.Product) error
	GetByID(id int64) (*entity.Product, error)
	// GetByIDs carga varios productos de una vez, mapeados por ID
	// (nombres para mensajes de error y payload de auditoría).
	GetByIDs(ids []int64) (map[int64]*entity.Product, error)
	List(includeDeleted bool, limit, offset int) ([]*entity.Product, error)
}
