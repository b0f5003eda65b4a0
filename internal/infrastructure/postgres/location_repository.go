package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/KrisYarno/inventory-core/internal/domain/entity"
	"github.com/KrisYarno/inventory-core/internal/domain/repository"
)

var _ repository.LocationRepository = (*LocationRepo)(nil)

// LocationRepo implementación de LocationRepository sobre PostgreSQL.
type LocationRepo struct {
	q Querier
}

// NewLocationRepository construye el adaptador. Pasar pool o tx (Querier).
func NewLocationRepository(q Querier) *LocationRepo {
	return &LocationRepo{q: q}
}

// Create persiste una ubicación nueva; el id lo asigna el insert.
func (r *LocationRepo) Create(location *entity.Location) error {
	query := `
		INSERT INTO locations (name, code, created_at)
		VALUES ($1, $2, now())
		RETURNING id, created_at`
	err := r.q.QueryRow(context.Background(), query, location.Name, location.Code).
		Scan(&location.ID, &location.CreatedAt)
	if err != nil {
		return wrapStore("insert location", err)
	}
	return nil
}

// GetByID obtiene una ubicación por ID; nil si no existe.
func (r *LocationRepo) GetByID(id int64) (*entity.Location, error) {
	query := `SELECT id, name, code, created_at FROM locations WHERE id = $1`
	var l entity.Location
	err := r.q.QueryRow(context.Background(), query, id).Scan(&l.ID, &l.Name, &l.Code, &l.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, wrapStore("get location", err)
	}
	return &l, nil
}

// List lista todas las ubicaciones.
func (r *LocationRepo) List() ([]*entity.Location, error) {
	rows, err := r.q.Query(context.Background(),
		`SELECT id, name, code, created_at FROM locations ORDER BY id`)
	if err != nil {
		return nil, wrapStore("list locations", err)
	}
	defer rows.Close()
	var list []*entity.Location
	for rows.Next() {
		var l entity.Location
		if err := rows.Scan(&l.ID, &l.Name, &l.Code, &l.CreatedAt); err != nil {
			return nil, wrapStore("scan location", err)
		}
		list = append(list, &l)
	}
	return list, rows.Err()
}
