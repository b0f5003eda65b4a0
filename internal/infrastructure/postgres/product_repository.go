package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/KrisYarno/inventory-core/internal/domain"
	"github.com/KrisYarno/inventory-core/internal/domain/entity"
	"github.com/KrisYarno/inventory-core/internal/domain/repository"
)

var _ repository.ProductRepository = (*ProductRepo)(nil)

// ProductRepo implementación de ProductRepository sobre PostgreSQL (usable con
// pool o tx).
type ProductRepo struct {
	q Querier
}

// NewProductRepository construye el adaptador. Pasar pool o tx (Querier).
func NewProductRepository(q Querier) *ProductRepo {
	return &ProductRepo{q: q}
}

const productColumns = "id, sku, name, price, cost, is_deleted, created_at, updated_at"

// Create persiste un producto nuevo; el id lo asigna el insert.
func (r *ProductRepo) Create(product *entity.Product) error {
	query := `
		INSERT INTO products (sku, name, price, cost, is_deleted, created_at, updated_at)
		VALUES ($1, $2, $3, $4, false, now(), now())
		RETURNING id, created_at, updated_at`
	err := r.q.QueryRow(context.Background(), query,
		product.SKU, product.Name, product.Price, product.Cost,
	).Scan(&product.ID, &product.CreatedAt, &product.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrInvalidInput
		}
		return wrapStore("insert product", err)
	}
	return nil
}

// GetByID obtiene un producto por ID; nil si no existe.
func (r *ProductRepo) GetByID(id int64) (*entity.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE id = $1`
	var p entity.Product
	err := r.q.QueryRow(context.Background(), query, id).Scan(
		&p.ID, &p.SKU, &p.Name, &p.Price, &p.Cost, &p.IsDeleted, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, wrapStore("get product", err)
	}
	return &p, nil
}

// GetByIDs carga varios productos de una vez, mapeados por ID. Los IDs no
// encontrados simplemente no aparecen en el mapa.
func (r *ProductRepo) GetByIDs(ids []int64) (map[int64]*entity.Product, error) {
	if len(ids) == 0 {
		return map[int64]*entity.Product{}, nil
	}
	query := `SELECT ` + productColumns + ` FROM products WHERE id = ANY($1)`
	rows, err := r.q.Query(context.Background(), query, ids)
	if err != nil {
		return nil, wrapStore("get products", err)
	}
	defer rows.Close()
	out := make(map[int64]*entity.Product, len(ids))
	for rows.Next() {
		var p entity.Product
		if err := rows.Scan(&p.ID, &p.SKU, &p.Name, &p.Price, &p.Cost, &p.IsDeleted,
			&p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, wrapStore("scan product", err)
		}
		out[p.ID] = &p
	}
	return out, rows.Err()
}

// List lista el catálogo; includeDeleted controla si entran las bajas lógicas.
func (r *ProductRepo) List(includeDeleted bool, limit, offset int) ([]*entity.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products`
	if !includeDeleted {
		query += " WHERE NOT is_deleted"
	}
	query += " ORDER BY name LIMIT $1 OFFSET $2"
	rows, err := r.q.Query(context.Background(), query, limit, offset)
	if err != nil {
		return nil, wrapStore("list products", err)
	}
	defer rows.Close()
	var list []*entity.Product
	for rows.Next() {
		var p entity.Product
		if err := rows.Scan(&p.ID, &p.SKU, &p.Name, &p.Price, &p.Cost, &p.IsDeleted,
			&p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, wrapStore("scan product", err)
		}
		list = append(list, &p)
	}
	return list, rows.Err()
}
