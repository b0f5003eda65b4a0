package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/KrisYarno/inventory-core/internal/domain/entity"
	"github.com/KrisYarno/inventory-core/internal/domain/repository"
)

var _ repository.SnapshotRepository = (*SnapshotRepo)(nil)

// SnapshotRepo implementación de SnapshotRepository sobre PostgreSQL (usable
// con pool o tx).
type SnapshotRepo struct {
	q Querier
}

// NewSnapshotRepository construye el adaptador. Pasar pool o tx (Querier).
func NewSnapshotRepository(q Querier) *SnapshotRepo {
	return &SnapshotRepo{q: q}
}

const snapshotColumns = "product_id, location_id, quantity, version, updated_at"

// Get obtiene el snapshot del par; nil si no tiene fila (cantidad implícita 0).
func (r *SnapshotRepo) Get(productID, locationID int64) (*entity.StockSnapshot, error) {
	query := `
		SELECT ` + snapshotColumns + `
		FROM product_locations WHERE product_id = $1 AND location_id = $2`
	return r.scanOne(query, productID, locationID)
}

// GetForUpdate obtiene el snapshot bloqueando la fila (SELECT FOR UPDATE)
// durante la transacción; nil si no existe.
func (r *SnapshotRepo) GetForUpdate(productID, locationID int64) (*entity.StockSnapshot, error) {
	query := `
		SELECT ` + snapshotColumns + `
		FROM product_locations WHERE product_id = $1 AND location_id = $2
		FOR UPDATE`
	return r.scanOne(query, productID, locationID)
}

func (r *SnapshotRepo) scanOne(query string, productID, locationID int64) (*entity.StockSnapshot, error) {
	var s entity.StockSnapshot
	err := r.q.QueryRow(context.Background(), query, productID, locationID).Scan(
		&s.ProductID, &s.LocationID, &s.Quantity, &s.Version, &s.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, wrapStore("get stock snapshot", err)
	}
	return &s, nil
}

// ApplyDelta aplica el delta al snapshot del par de forma relativa: fila
// ausente → (quantity=delta, version=1); fila presente → quantity+delta,
// version+1. La rama de conflicto suma sobre el valor ya almacenado, de modo
// que si otra transacción insertó la primera fila del par después de que
// nuestro GetForUpdate no encontró nada, su escritura no se pierde.
func (r *SnapshotRepo) ApplyDelta(productID, locationID, delta int64) (*entity.StockSnapshot, error) {
	query := `
		INSERT INTO product_locations (product_id, location_id, quantity, version, updated_at)
		VALUES ($1, $2, $3, 1, now())
		ON CONFLICT (product_id, location_id)
		DO UPDATE SET quantity   = product_locations.quantity + EXCLUDED.quantity,
		              version    = product_locations.version + 1,
		              updated_at = now()
		RETURNING ` + snapshotColumns
	var s entity.StockSnapshot
	err := r.q.QueryRow(context.Background(), query, productID, locationID, delta).Scan(
		&s.ProductID, &s.LocationID, &s.Quantity, &s.Version, &s.UpdatedAt,
	)
	if err != nil {
		return nil, wrapStore("apply stock delta", err)
	}
	return &s, nil
}

// ListLevels niveles actuales con el último change_time del ledger por par
// (epoch si el par no tiene entradas) y valorización al costo del producto.
// Con ubicación concreta el reporte cubre el catálogo activo completo: un
// producto sin fila de snapshot en esa ubicación aparece con cantidad 0.
func (r *SnapshotRepo) ListLevels(ctx context.Context, locationID *int64) ([]repository.StockLevel, error) {
	var query string
	var args []any
	if locationID != nil {
		query = `
			SELECT p.id, $1::bigint AS location_id, p.sku, p.name,
			       COALESCE(s.quantity, 0) AS quantity,
			       COALESCE(l.last_change, to_timestamp(0)) AS last_updated,
			       (COALESCE(s.quantity, 0) * p.cost) AS value
			FROM products p
			LEFT JOIN product_locations s
			       ON s.product_id = p.id AND s.location_id = $1
			LEFT JOIN LATERAL (
				SELECT MAX(change_time) AS last_change
				FROM inventory_logs il
				WHERE il.product_id = p.id AND il.location_id = $1
			) l ON true
			WHERE NOT p.is_deleted
			ORDER BY p.name`
		args = []any{*locationID}
	} else {
		query = `
			SELECT s.product_id, s.location_id, p.sku, p.name, s.quantity,
			       COALESCE(l.last_change, to_timestamp(0)) AS last_updated,
			       (s.quantity * p.cost) AS value
			FROM product_locations s
			JOIN products p ON p.id = s.product_id
			LEFT JOIN LATERAL (
				SELECT MAX(change_time) AS last_change
				FROM inventory_logs il
				WHERE il.product_id = s.product_id AND il.location_id = s.location_id
			) l ON true
			ORDER BY p.name, s.location_id`
	}

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, wrapStore("list stock levels", err)
	}
	defer rows.Close()
	var out []repository.StockLevel
	for rows.Next() {
		var lv repository.StockLevel
		if err := rows.Scan(&lv.ProductID, &lv.LocationID, &lv.SKU, &lv.ProductName,
			&lv.Quantity, &lv.LastUpdated, &lv.Value); err != nil {
			return nil, wrapStore("scan stock level", err)
		}
		out = append(out, lv)
	}
	return out, rows.Err()
}
