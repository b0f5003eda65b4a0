package repository

import "github.com/KrisYarno/inventory-core/internal/domain/entity"

// LocationRepository define el puerto de persistencia para ubicaciones.
type LocationRepository interface {
	Create(location *entity.Location) error
	GetByID(id int64) (*entity.Location, error)
	List() ([]*entity.Location, error)
}
