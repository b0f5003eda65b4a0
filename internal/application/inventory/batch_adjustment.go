package inventory

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/KrisYarno/inventory-core/internal/domain"
	"github.com/KrisYarno/inventory-core/internal/domain/entity"
	"github.com/KrisYarno/inventory-core/internal/domain/repository"
	"github.com/KrisYarno/inventory-core/internal/domain/stock"
	"github.com/KrisYarno/inventory-core/pkg/logger"
)

// BatchState estado de una sumisión de lote.
type BatchState string

// Estados por los que pasa un lote: Received → Validating → Applying →
// Committed | RolledBack.
const (
	StateReceived   BatchState = "RECEIVED"
	StateValidating BatchState = "VALIDATING"
	StateApplying   BatchState = "APPLYING"
	StateCommitted  BatchState = "COMMITTED"
	StateRolledBack BatchState = "ROLLED_BACK"
)

// EngineConfig parámetros del motor de ajustes. El conteo de reintentos y la
// unidad de backoff son configuración, no literales regados por el código.
type EngineConfig struct {
	MaxRetries   int           // intentos totales ante carreras de versión
	RetryBackoff time.Duration // unidad de backoff lineal: backoff * intento
}

// DefaultEngineConfig valores usados cuando la configuración no los define.
func DefaultEngineConfig() EngineConfig {
	return EngineConfig{MaxRetries: 3, RetryBackoff: 100 * time.Millisecond}
}

// ItemResult resultado por ítem de un lote confirmado.
type ItemResult struct {
	ProductID  int64
	LogID      int64
	Delta      int64
	NewVersion int
}

// BatchResult lote confirmado: una entrada del ledger por ítem, todas visibles
// atómicamente.
type BatchResult struct {
	BatchID string
	Results []ItemResult
	Net     stock.NetChanges
}

// BatchAdjustUseCase orquesta un lote de deltas como unidad todo-o-nada:
// validación previa exhaustiva, aplicación secuencial dentro de UNA transacción
// y reintento acotado con backoff cuando el fallo es únicamente una carrera de
// versiones. Cualquier otro fallo revierte el lote completo y se propaga con
// su tipo intacto.
type BatchAdjustUseCase struct {
	txRunner  TxRunner
	snapshots repository.SnapshotRepository // lecturas previas, fuera de la tx
	products  repository.ProductRepository
	audit     AuditLogger
	cfg       EngineConfig
	log       *logger.Logger
}

// NewBatchAdjustUseCase construye el orquestador.
func NewBatchAdjustUseCase(
	txRunner TxRunner,
	snapshots repository.SnapshotRepository,
	products repository.ProductRepository,
	audit AuditLogger,
	cfg EngineConfig,
	log *logger.Logger,
) *BatchAdjustUseCase {
	if cfg.MaxRetries <= 0 {
		cfg.MaxRetries = DefaultEngineConfig().MaxRetries
	}
	if cfg.RetryBackoff <= 0 {
		cfg.RetryBackoff = DefaultEngineConfig().RetryBackoff
	}
	return &BatchAdjustUseCase{
		txRunner:  txRunner,
		snapshots: snapshots,
		products:  products,
		audit:     audit,
		cfg:       cfg,
		log:       log,
	}
}

// Adjust aplica el lote. El contrato de errores es el de §taxonomía del
// dominio: BatchValidationError (nada escrito), InsufficientStockError
// (revertido completo), OptimisticLockError (tras agotar reintentos) o un
// error de almacén envuelto.
func (uc *BatchAdjustUseCase) Adjust(ctx context.Context, userID int64, items []stock.Adjustment) (*BatchResult, error) {
	if len(items) == 0 {
		return nil, domain.ErrInvalidInput
	}
	for _, it := range items {
		if it.Delta == 0 {
			return nil, &domain.BatchValidationError{Items: []domain.ItemError{{
				ProductID: it.ProductID,
				Message:   "delta must be non-zero",
			}}}
		}
	}

	batchID := uuid.New().String()
	uc.transition(batchID, StateReceived, len(items))

	products, err := uc.loadProducts(items)
	if err != nil {
		return nil, err
	}

	var lastErr error
	for attempt := 1; attempt <= uc.cfg.MaxRetries; attempt++ {
		if attempt > 1 {
			// Backoff lineal antes de reintentar con snapshots frescos.
			select {
			case <-time.After(uc.cfg.RetryBackoff * time.Duration(attempt-1)):
			case <-ctx.Done():
				return nil, ctx.Err()
			}
			uc.log.Warn().Str("batch_id", batchID).Int("attempt", attempt).
				Msg("reintentando lote tras conflicto de versión")
		}

		result, err := uc.applyOnce(ctx, batchID, userID, items, products)
		if err == nil {
			uc.transition(batchID, StateCommitted, len(items))
			uc.notifyAudit(ctx, userID, batchID, items, products)
			return result, nil
		}

		uc.transition(batchID, StateRolledBack, len(items))
		var lockErr *domain.OptimisticLockError
		if !errors.As(err, &lockErr) {
			return nil, err
		}
		lastErr = err
	}
	return nil, lastErr
}

// applyOnce hace una pasada completa: validación previa con snapshots frescos
// y luego la transacción única con todos los ítems en orden.
func (uc *BatchAdjustUseCase) applyOnce(
	ctx context.Context,
	batchID string,
	userID int64,
	items []stock.Adjustment,
	products map[int64]*entity.Product,
) (*BatchResult, error) {
	uc.transition(batchID, StateValidating, len(items))

	current, err := uc.readSnapshots(items)
	if err != nil {
		return nil, err
	}
	if v := stock.ValidateBatch(items, current); !v.IsValid {
		return nil, &domain.BatchValidationError{Items: v.Errors}
	}

	uc.transition(batchID, StateApplying, len(items))

	results := make([]ItemResult, 0, len(items))
	err = uc.txRunner.Run(ctx, func(
		ledgerRepo repository.LedgerRepository,
		snapshotRepo repository.SnapshotRepository,
		_ repository.ProductRepository,
	) error {
		store := NewLedgerStore(ledgerRepo, snapshotRepo)
		for _, it := range items {
			res, err := store.AppendAndApply(
				userID, products[it.ProductID], it.LocationID,
				it.Delta, entity.LogTypeAdjustment, it.ExpectedVersion,
			)
			if err != nil {
				return err
			}
			results = append(results, ItemResult{
				ProductID:  it.ProductID,
				LogID:      res.LogID,
				Delta:      it.Delta,
				NewVersion: res.NewVersion,
			})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &BatchResult{
		BatchID: batchID,
		Results: results,
		Net:     stock.CalculateNetChanges(items),
	}, nil
}

// StockIn registra entradas de mercancía: un lote de deltas positivos.
func (uc *BatchAdjustUseCase) StockIn(ctx context.Context, userID, locationID int64, items []stock.Adjustment) (*BatchResult, error) {
	for _, it := range items {
		if it.Delta <= 0 {
			return nil, domain.ErrInvalidInput
		}
	}
	stamped := make([]stock.Adjustment, len(items))
	copy(stamped, items)
	for i := range stamped {
		stamped[i].LocationID = locationID
	}
	return uc.Adjust(ctx, userID, stamped)
}

// Transfer traslada qty unidades entre ubicaciones: dos entradas TRANSFER
// (negativa en origen, positiva en destino) en una única transacción. El
// insuficiente se verifica en el origen con la fila bloqueada.
func (uc *BatchAdjustUseCase) Transfer(ctx context.Context, userID, productID, fromLocationID, toLocationID, qty int64) (*BatchResult, error) {
	if qty <= 0 || fromLocationID == toLocationID {
		return nil, domain.ErrInvalidInput
	}
	product, err := uc.products.GetByID(productID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrProductNotFound
	}

	batchID := uuid.New().String()
	results := make([]ItemResult, 0, 2)
	err = uc.txRunner.Run(ctx, func(
		ledgerRepo repository.LedgerRepository,
		snapshotRepo repository.SnapshotRepository,
		_ repository.ProductRepository,
	) error {
		store := NewLedgerStore(ledgerRepo, snapshotRepo)
		out, err := store.AppendAndApply(userID, product, fromLocationID, -qty, entity.LogTypeTransfer, nil)
		if err != nil {
			return err
		}
		in, err := store.AppendAndApply(userID, product, toLocationID, qty, entity.LogTypeTransfer, nil)
		if err != nil {
			return err
		}
		results = append(results,
			ItemResult{ProductID: productID, LogID: out.LogID, Delta: -qty, NewVersion: out.NewVersion},
			ItemResult{ProductID: productID, LogID: in.LogID, Delta: qty, NewVersion: in.NewVersion},
		)
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.notifyAudit(ctx, userID, batchID,
		[]stock.Adjustment{
			{ProductID: productID, LocationID: fromLocationID, Delta: -qty},
			{ProductID: productID, LocationID: toLocationID, Delta: qty},
		},
		map[int64]*entity.Product{productID: product},
	)
	return &BatchResult{BatchID: batchID, Results: results}, nil
}

// loadProducts carga los productos del lote de una vez; un producto ausente o
// dado de baja aborta antes de cualquier escritura.
func (uc *BatchAdjustUseCase) loadProducts(items []stock.Adjustment) (map[int64]*entity.Product, error) {
	ids := make([]int64, 0, len(items))
	seen := make(map[int64]bool, len(items))
	for _, it := range items {
		if !seen[it.ProductID] {
			seen[it.ProductID] = true
			ids = append(ids, it.ProductID)
		}
	}
	products, err := uc.products.GetByIDs(ids)
	if err != nil {
		return nil, err
	}
	for _, id := range ids {
		if products[id] == nil {
			return nil, domain.ErrProductNotFound
		}
	}
	return products, nil
}

// readSnapshots lee el estado actual de cada par del lote, mapeado por
// producto (la clave con que valida el validador).
func (uc *BatchAdjustUseCase) readSnapshots(items []stock.Adjustment) (map[int64]*entity.StockSnapshot, error) {
	current := make(map[int64]*entity.StockSnapshot, len(items))
	for _, it := range items {
		snap, err := uc.snapshots.Get(it.ProductID, it.LocationID)
		if err != nil {
			return nil, err
		}
		if snap != nil {
			current[it.ProductID] = snap
		}
	}
	return current, nil
}

func (uc *BatchAdjustUseCase) notifyAudit(
	ctx context.Context,
	userID int64,
	batchID string,
	items []stock.Adjustment,
	products map[int64]*entity.Product,
) {
	entries := make([]AuditEntry, 0, len(items))
	for _, it := range items {
		name := ""
		if p := products[it.ProductID]; p != nil {
			name = p.Name
		}
		entries = append(entries, AuditEntry{ProductID: it.ProductID, ProductName: name, Delta: it.Delta})
	}
	if err := uc.audit.BatchAdjusted(ctx, userID, batchID, entries); err != nil {
		// El lote ya está confirmado; un fallo del colaborador no lo revierte.
		uc.log.Warn().Err(err).Str("batch_id", batchID).Msg("fallo al notificar auditoría")
	}
}

func (uc *BatchAdjustUseCase) transition(batchID string, state BatchState, count int) {
	uc.log.Debug().Str("batch_id", batchID).Str("state", string(state)).Int("items", count).
		Msg("transición de lote")
}
