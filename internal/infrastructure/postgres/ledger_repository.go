package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/KrisYarno/inventory-core/internal/domain/entity"
	"github.com/KrisYarno/inventory-core/internal/domain/repository"
)

var _ repository.LedgerRepository = (*LedgerRepo)(nil)

// LedgerRepo implementación de LedgerRepository sobre PostgreSQL (usable con
// pool o tx). La tabla inventory_logs es append-only: este adaptador no tiene
// UPDATE ni DELETE.
type LedgerRepo struct {
	q Querier
}

// NewLedgerRepository construye el adaptador. Pasar pool o tx (Querier).
func NewLedgerRepository(q Querier) *LedgerRepo {
	return &LedgerRepo{q: q}
}

// Append inserta la entrada; id y change_time los asigna el insert.
func (r *LedgerRepo) Append(e *entity.LedgerEntry) error {
	query := `
		INSERT INTO inventory_logs (user_id, product_id, location_id, delta, log_type, change_time)
		VALUES ($1, $2, $3, $4, $5, now())
		RETURNING id, change_time`
	err := r.q.QueryRow(context.Background(), query,
		e.UserID, e.ProductID, e.LocationID, e.Delta, e.LogType,
	).Scan(&e.ID, &e.ChangeTime)
	if err != nil {
		return wrapStore("append ledger entry", err)
	}
	return nil
}

// GetByID obtiene una entrada por ID; nil si no existe.
func (r *LedgerRepo) GetByID(id int64) (*entity.LedgerEntry, error) {
	query := `
		SELECT id, user_id, product_id, location_id, delta, log_type, change_time
		FROM inventory_logs WHERE id = $1`
	var e entity.LedgerEntry
	err := r.q.QueryRow(context.Background(), query, id).Scan(
		&e.ID, &e.UserID, &e.ProductID, &e.LocationID, &e.Delta, &e.LogType, &e.ChangeTime,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, wrapStore("get ledger entry", err)
	}
	return &e, nil
}

// ListByPair lista las entradas de un par (producto, ubicación), más
// recientes primero.
func (r *LedgerRepo) ListByPair(ctx context.Context, productID, locationID int64, limit, offset int) ([]*entity.LedgerEntry, error) {
	query := `
		SELECT id, user_id, product_id, location_id, delta, log_type, change_time
		FROM inventory_logs
		WHERE product_id = $1 AND location_id = $2
		ORDER BY id DESC LIMIT $3 OFFSET $4`
	rows, err := r.q.Query(ctx, query, productID, locationID, limit, offset)
	if err != nil {
		return nil, wrapStore("list ledger entries", err)
	}
	defer rows.Close()
	var list []*entity.LedgerEntry
	for rows.Next() {
		var e entity.LedgerEntry
		if err := rows.Scan(&e.ID, &e.UserID, &e.ProductID, &e.LocationID, &e.Delta, &e.LogType, &e.ChangeTime); err != nil {
			return nil, wrapStore("scan ledger entry", err)
		}
		list = append(list, &e)
	}
	return list, rows.Err()
}

// SumDeltasUntil suma los deltas por par con change_time <= ts, sin tocar la
// tabla materializada (vista histórica punto-en-el-tiempo).
func (r *LedgerRepo) SumDeltasUntil(ctx context.Context, ts time.Time, locationID *int64) ([]repository.PairQuantity, error) {
	query := `
		SELECT product_id, location_id, SUM(delta)::bigint
		FROM inventory_logs
		WHERE change_time <= $1`
	args := []any{ts}
	if locationID != nil {
		query += fmt.Sprintf(" AND location_id = $%d", len(args)+1)
		args = append(args, *locationID)
	}
	query += " GROUP BY product_id, location_id ORDER BY product_id, location_id"

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, wrapStore("sum ledger deltas", err)
	}
	defer rows.Close()
	var out []repository.PairQuantity
	for rows.Next() {
		var pq repository.PairQuantity
		if err := rows.Scan(&pq.ProductID, &pq.LocationID, &pq.Quantity); err != nil {
			return nil, wrapStore("scan pair quantity", err)
		}
		out = append(out, pq)
	}
	return out, rows.Err()
}
