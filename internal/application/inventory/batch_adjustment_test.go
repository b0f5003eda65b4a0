package inventory_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KrisYarno/inventory-core/internal/application/inventory"
	"github.com/KrisYarno/inventory-core/internal/domain"
	"github.com/KrisYarno/inventory-core/internal/domain/entity"
	"github.com/KrisYarno/inventory-core/internal/domain/repository"
	"github.com/KrisYarno/inventory-core/internal/domain/stock"
	"github.com/KrisYarno/inventory-core/pkg/logger"
)

// ──────────────────────────────────────────────────────────────────────────────
// Fakes en memoria con semántica real de commit/rollback: el TxRunner clona el
// estado, ejecuta fn contra el clon y sólo si fn retorna nil promueve el clon
// como estado visible. Un fallo a mitad del lote descarta TODO lo escrito en
// la transacción, igual que la base real.
// ──────────────────────────────────────────────────────────────────────────────

type pairKey struct{ productID, locationID int64 }

type memState struct {
	ledger    []entity.LedgerEntry
	nextLogID int64
	snaps     map[pairKey]entity.StockSnapshot
}

func newMemState() *memState {
	return &memState{nextLogID: 1, snaps: make(map[pairKey]entity.StockSnapshot)}
}

func (st *memState) clone() *memState {
	c := &memState{
		ledger:    append([]entity.LedgerEntry(nil), st.ledger...),
		nextLogID: st.nextLogID,
		snaps:     make(map[pairKey]entity.StockSnapshot, len(st.snaps)),
	}
	for k, v := range st.snaps {
		c.snaps[k] = v
	}
	return c
}

func (st *memState) setSnapshot(productID, locationID, qty int64, version int) {
	st.snaps[pairKey{productID, locationID}] = entity.StockSnapshot{
		ProductID: productID, LocationID: locationID, Quantity: qty, Version: version,
	}
}

// ── repos fake sobre un memState ─────────────────────────────────────────────

type fakeLedgerRepo struct{ st *memState }

func (r *fakeLedgerRepo) Append(e *entity.LedgerEntry) error {
	e.ID = r.st.nextLogID
	r.st.nextLogID++
	e.ChangeTime = time.Now()
	r.st.ledger = append(r.st.ledger, *e)
	return nil
}

func (r *fakeLedgerRepo) GetByID(id int64) (*entity.LedgerEntry, error) {
	for i := range r.st.ledger {
		if r.st.ledger[i].ID == id {
			e := r.st.ledger[i]
			return &e, nil
		}
	}
	return nil, nil
}

func (r *fakeLedgerRepo) ListByPair(_ context.Context, productID, locationID int64, limit, offset int) ([]*entity.LedgerEntry, error) {
	var out []*entity.LedgerEntry
	for i := range r.st.ledger {
		if r.st.ledger[i].ProductID == productID && r.st.ledger[i].LocationID == locationID {
			e := r.st.ledger[i]
			out = append(out, &e)
		}
	}
	return out, nil
}

func (r *fakeLedgerRepo) SumDeltasUntil(_ context.Context, ts time.Time, locationID *int64) ([]repository.PairQuantity, error) {
	sums := make(map[pairKey]int64)
	for _, e := range r.st.ledger {
		if e.ChangeTime.After(ts) {
			continue
		}
		if locationID != nil && e.LocationID != *locationID {
			continue
		}
		sums[pairKey{e.ProductID, e.LocationID}] += e.Delta
	}
	out := make([]repository.PairQuantity, 0, len(sums))
	for k, q := range sums {
		out = append(out, repository.PairQuantity{ProductID: k.productID, LocationID: k.locationID, Quantity: q})
	}
	return out, nil
}

type fakeSnapshotRepo struct{ st *memState }

func (r *fakeSnapshotRepo) Get(productID, locationID int64) (*entity.StockSnapshot, error) {
	if s, ok := r.st.snaps[pairKey{productID, locationID}]; ok {
		snap := s
		return &snap, nil
	}
	return nil, nil
}

func (r *fakeSnapshotRepo) GetForUpdate(productID, locationID int64) (*entity.StockSnapshot, error) {
	return r.Get(productID, locationID)
}

func (r *fakeSnapshotRepo) ApplyDelta(productID, locationID, delta int64) (*entity.StockSnapshot, error) {
	k := pairKey{productID, locationID}
	snap, ok := r.st.snaps[k]
	if !ok {
		snap = entity.StockSnapshot{ProductID: productID, LocationID: locationID}
	}
	snap.Quantity += delta
	snap.Version++
	snap.UpdatedAt = time.Now()
	r.st.snaps[k] = snap
	return &snap, nil
}

func (r *fakeSnapshotRepo) ListLevels(_ context.Context, _ *int64) ([]repository.StockLevel, error) {
	return nil, nil
}

type fakeProductRepo struct{ products map[int64]*entity.Product }

func (r fakeProductRepo) Create(*entity.Product) error { return nil }

func (r fakeProductRepo) GetByID(id int64) (*entity.Product, error) {
	return r.products[id], nil
}

func (r fakeProductRepo) GetByIDs(ids []int64) (map[int64]*entity.Product, error) {
	out := make(map[int64]*entity.Product)
	for _, id := range ids {
		if p, ok := r.products[id]; ok {
			out[id] = p
		}
	}
	return out, nil
}

func (r fakeProductRepo) List(bool, int, int) ([]*entity.Product, error) { return nil, nil }

// ── TxRunner fake ────────────────────────────────────────────────────────────

type fakeTxRunner struct {
	st    *memState
	calls int
	// conflictsLeft simula carreras de versión detectadas dentro de la tx:
	// las primeras N ejecuciones fallan con OptimisticLockError sin tocar nada.
	conflictsLeft int
	// beforeTx simula un commit concurrente entre la validación previa
	// (que lee el pool) y la apertura de nuestra transacción.
	beforeTx func(st *memState)
}

func (r *fakeTxRunner) Run(_ context.Context, fn func(
	repository.LedgerRepository,
	repository.SnapshotRepository,
	repository.ProductRepository,
) error) error {
	r.calls++
	if r.conflictsLeft > 0 {
		r.conflictsLeft--
		return &domain.OptimisticLockError{Current: 9, Expected: 8}
	}

	clone := r.st.clone()
	if r.beforeTx != nil {
		r.beforeTx(clone)
		r.beforeTx = nil // el racer comete una sola vez
	}
	if err := fn(&fakeLedgerRepo{st: clone}, &fakeSnapshotRepo{st: clone}, fakeProductRepo{}); err != nil {
		return err
	}
	*r.st = *clone
	return nil
}

// ── auditoría fake ───────────────────────────────────────────────────────────

type auditCall struct {
	userID  int64
	batchID string
	entries []inventory.AuditEntry
}

type fakeAudit struct {
	calls []auditCall
	err   error
}

func (a *fakeAudit) BatchAdjusted(_ context.Context, userID int64, batchID string, entries []inventory.AuditEntry) error {
	a.calls = append(a.calls, auditCall{userID: userID, batchID: batchID, entries: entries})
	return a.err
}

// ── armado del caso de uso bajo prueba ───────────────────────────────────────

type fixture struct {
	st     *memState
	runner *fakeTxRunner
	audit  *fakeAudit
	uc     *inventory.BatchAdjustUseCase
}

func newFixture(products map[int64]*entity.Product) *fixture {
	st := newMemState()
	runner := &fakeTxRunner{st: st}
	audit := &fakeAudit{}
	uc := inventory.NewBatchAdjustUseCase(
		runner,
		&fakeSnapshotRepo{st: st},
		fakeProductRepo{products: products},
		audit,
		inventory.EngineConfig{MaxRetries: 3, RetryBackoff: time.Millisecond},
		logger.Nop(),
	)
	return &fixture{st: st, runner: runner, audit: audit, uc: uc}
}

func catalogWith(ids ...int64) map[int64]*entity.Product {
	products := make(map[int64]*entity.Product, len(ids))
	for _, id := range ids {
		products[id] = &entity.Product{ID: id, Name: "Producto " + string(rune('A'+id-1))}
	}
	return products
}

// ──────────────────────────────────────────────────────────────────────────────
// Camino feliz de extremo a extremo
// ──────────────────────────────────────────────────────────────────────────────

func TestAdjust_LoteConfirmado(t *testing.T) {
	f := newFixture(catalogWith(1, 2))
	f.st.setSnapshot(1, 1, 100, 1)
	f.st.setSnapshot(2, 1, 50, 1)

	result, err := f.uc.Adjust(context.Background(), 42, []stock.Adjustment{
		{ProductID: 1, LocationID: 1, Delta: 20},
		{ProductID: 2, LocationID: 1, Delta: -10},
	})

	require.NoError(t, err)
	require.Len(t, result.Results, 2)
	assert.NotEmpty(t, result.BatchID)

	// Estado final: cantidades aplicadas y versión subida exactamente en 1.
	s1 := f.st.snaps[pairKey{1, 1}]
	s2 := f.st.snaps[pairKey{2, 1}]
	assert.Equal(t, int64(120), s1.Quantity)
	assert.Equal(t, 2, s1.Version)
	assert.Equal(t, int64(40), s2.Quantity)
	assert.Equal(t, 2, s2.Version)

	// Una entrada del ledger por ítem, con IDs reflejados en los resultados.
	require.Len(t, f.st.ledger, 2)
	assert.Equal(t, f.st.ledger[0].ID, result.Results[0].LogID)
	assert.Equal(t, entity.LogTypeAdjustment, f.st.ledger[0].LogType)
	assert.Equal(t, int64(42), f.st.ledger[0].UserID)

	// Neto del lote.
	assert.Equal(t, int64(20), result.Net.Additions)
	assert.Equal(t, int64(10), result.Net.Removals)
	assert.Equal(t, int64(10), result.Net.Net)

	// Exactamente UNA llamada de auditoría con todos los productos.
	require.Len(t, f.audit.calls, 1)
	assert.Equal(t, int64(42), f.audit.calls[0].userID)
	require.Len(t, f.audit.calls[0].entries, 2)
	assert.Equal(t, "Producto A", f.audit.calls[0].entries[0].ProductName)
	assert.Equal(t, int64(-10), f.audit.calls[0].entries[1].Delta)
}

func TestAdjust_ParNuevoIniciaEnVersionUno(t *testing.T) {
	f := newFixture(catalogWith(1))

	result, err := f.uc.Adjust(context.Background(), 1, []stock.Adjustment{
		{ProductID: 1, LocationID: 3, Delta: 15},
	})

	require.NoError(t, err)
	assert.Equal(t, 1, result.Results[0].NewVersion)
	snap := f.st.snaps[pairKey{1, 3}]
	assert.Equal(t, int64(15), snap.Quantity)
	assert.Equal(t, 1, snap.Version)
}

// ──────────────────────────────────────────────────────────────────────────────
// Validación previa: nada se escribe
// ──────────────────────────────────────────────────────────────────────────────

func TestAdjust_LoteVacio(t *testing.T) {
	f := newFixture(catalogWith(1))
	_, err := f.uc.Adjust(context.Background(), 1, nil)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Zero(t, f.runner.calls)
}

func TestAdjust_DeltaCeroRechazado(t *testing.T) {
	f := newFixture(catalogWith(1))
	_, err := f.uc.Adjust(context.Background(), 1, []stock.Adjustment{
		{ProductID: 1, LocationID: 1, Delta: 0},
	})

	var ve *domain.BatchValidationError
	require.ErrorAs(t, err, &ve)
	require.Len(t, ve.Items, 1)
	assert.Equal(t, "delta must be non-zero", ve.Items[0].Message)
	assert.Zero(t, f.runner.calls)
}

func TestAdjust_ProductoInexistente(t *testing.T) {
	f := newFixture(catalogWith(1))
	_, err := f.uc.Adjust(context.Background(), 1, []stock.Adjustment{
		{ProductID: 99, LocationID: 1, Delta: 5},
	})
	assert.ErrorIs(t, err, domain.ErrProductNotFound)
	assert.Zero(t, f.runner.calls)
}

func TestAdjust_ValidacionInsuficienteNoEscribe(t *testing.T) {
	f := newFixture(catalogWith(1))
	f.st.setSnapshot(1, 1, 5, 1)

	_, err := f.uc.Adjust(context.Background(), 1, []stock.Adjustment{
		{ProductID: 1, LocationID: 1, Delta: -8},
	})

	var ve *domain.BatchValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "Insufficient inventory (current: 5, trying to remove: 8)", ve.Items[0].Message)

	// La transacción nunca se abrió y el estado quedó intacto.
	assert.Zero(t, f.runner.calls)
	assert.Empty(t, f.st.ledger)
	assert.Equal(t, 1, f.st.snaps[pairKey{1, 1}].Version)
}

func TestAdjust_VersionEsperadaObsoleta(t *testing.T) {
	f := newFixture(catalogWith(1))
	f.st.setSnapshot(1, 1, 100, 5)

	expected := 2
	_, err := f.uc.Adjust(context.Background(), 1, []stock.Adjustment{
		{ProductID: 1, LocationID: 1, Delta: 1, ExpectedVersion: &expected},
	})

	var ve *domain.BatchValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "Version mismatch (expected 5, got 2)", ve.Items[0].Message)
	assert.Empty(t, f.st.ledger)
}

// ──────────────────────────────────────────────────────────────────────────────
// Atomicidad: un fallo a mitad del lote revierte TODO
// ──────────────────────────────────────────────────────────────────────────────

func TestAdjust_FalloEnMedioRevierteElLoteCompleto(t *testing.T) {
	f := newFixture(catalogWith(1, 2, 3))
	f.st.setSnapshot(1, 1, 100, 1)
	f.st.setSnapshot(2, 1, 100, 1)
	f.st.setSnapshot(3, 1, 100, 1)

	// Un racer consume el stock del producto 3 entre la validación previa
	// (que lo vio con 100) y nuestra transacción: el tercer ítem falla ya
	// dentro de la tx y los dos primeros, aunque aplicados, se revierten.
	f.runner.beforeTx = func(st *memState) {
		st.setSnapshot(3, 1, 2, 2)
	}

	_, err := f.uc.Adjust(context.Background(), 1, []stock.Adjustment{
		{ProductID: 1, LocationID: 1, Delta: -10},
		{ProductID: 2, LocationID: 1, Delta: -10},
		{ProductID: 3, LocationID: 1, Delta: -10},
	})

	var insufficient *domain.InsufficientStockError
	require.ErrorAs(t, err, &insufficient)
	assert.Equal(t, int64(2), insufficient.Current)
	assert.Equal(t, int64(10), insufficient.Requested)

	// Nada visible: ni entradas del ledger ni versiones movidas.
	assert.Empty(t, f.st.ledger)
	assert.Equal(t, 1, f.st.snaps[pairKey{1, 1}].Version)
	assert.Equal(t, int64(100), f.st.snaps[pairKey{1, 1}].Quantity)
	assert.Equal(t, 1, f.st.snaps[pairKey{2, 1}].Version)
	assert.Empty(t, f.audit.calls)
}

// ──────────────────────────────────────────────────────────────────────────────
// Reintentos ante carreras de versión
// ──────────────────────────────────────────────────────────────────────────────

func TestAdjust_ReintentaYConfirmaTrasConflicto(t *testing.T) {
	f := newFixture(catalogWith(1))
	f.st.setSnapshot(1, 1, 10, 1)
	f.runner.conflictsLeft = 1 // el primer intento pierde la carrera

	result, err := f.uc.Adjust(context.Background(), 1, []stock.Adjustment{
		{ProductID: 1, LocationID: 1, Delta: 5},
	})

	require.NoError(t, err)
	assert.Equal(t, 2, f.runner.calls)
	assert.Equal(t, int64(15), f.st.snaps[pairKey{1, 1}].Quantity)
	assert.Equal(t, 2, result.Results[0].NewVersion)
	// La auditoría sólo se notifica en el intento confirmado.
	assert.Len(t, f.audit.calls, 1)
}

func TestAdjust_AgotaReintentosYPropagaElConflicto(t *testing.T) {
	f := newFixture(catalogWith(1))
	f.st.setSnapshot(1, 1, 10, 1)
	f.runner.conflictsLeft = 100 // nunca gana la carrera

	_, err := f.uc.Adjust(context.Background(), 1, []stock.Adjustment{
		{ProductID: 1, LocationID: 1, Delta: 5},
	})

	var lockErr *domain.OptimisticLockError
	require.ErrorAs(t, err, &lockErr)
	assert.Equal(t, 3, f.runner.calls, "MaxRetries acota los intentos totales")
	assert.Empty(t, f.st.ledger)
	assert.Empty(t, f.audit.calls)
}

func TestAdjust_ErrorNoReintentableNoSeReintenta(t *testing.T) {
	f := newFixture(catalogWith(1))
	f.st.setSnapshot(1, 1, 100, 1)

	// Un runner que siempre falla con un error de almacén genérico: no es una
	// carrera de versión, así que no debe haber segundo intento.
	storeErr := errors.New("conexión perdida")
	failing := &failingTxRunner{err: storeErr}
	uc := inventory.NewBatchAdjustUseCase(
		failing, &fakeSnapshotRepo{st: f.st}, fakeProductRepo{products: catalogWith(1)},
		f.audit, inventory.EngineConfig{MaxRetries: 3, RetryBackoff: time.Millisecond}, logger.Nop(),
	)

	_, err := uc.Adjust(context.Background(), 1, []stock.Adjustment{
		{ProductID: 1, LocationID: 1, Delta: 5},
	})

	assert.ErrorIs(t, err, storeErr)
	assert.Equal(t, 1, failing.calls, "los fallos que no son de versión abortan sin reintento")
}

type failingTxRunner struct {
	err   error
	calls int
}

func (r *failingTxRunner) Run(_ context.Context, _ func(
	repository.LedgerRepository,
	repository.SnapshotRepository,
	repository.ProductRepository,
) error) error {
	r.calls++
	return r.err
}

// ──────────────────────────────────────────────────────────────────────────────
// Auditoría: colaborador externo, nunca revierte un lote confirmado
// ──────────────────────────────────────────────────────────────────────────────

func TestAdjust_FalloDeAuditoriaNoRevierteElLote(t *testing.T) {
	f := newFixture(catalogWith(1))
	f.st.setSnapshot(1, 1, 10, 1)
	f.audit.err = errors.New("colaborador caído")

	result, err := f.uc.Adjust(context.Background(), 1, []stock.Adjustment{
		{ProductID: 1, LocationID: 1, Delta: 5},
	})

	require.NoError(t, err)
	assert.Equal(t, int64(15), f.st.snaps[pairKey{1, 1}].Quantity)
	assert.NotNil(t, result)
}

// ──────────────────────────────────────────────────────────────────────────────
// StockIn
// ──────────────────────────────────────────────────────────────────────────────

func TestStockIn_RechazaDeltasNoPositivos(t *testing.T) {
	f := newFixture(catalogWith(1))
	_, err := f.uc.StockIn(context.Background(), 1, 1, []stock.Adjustment{
		{ProductID: 1, Delta: -5},
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestStockIn_AplicaEnLaUbicacionIndicada(t *testing.T) {
	f := newFixture(catalogWith(1, 2))

	items := []stock.Adjustment{
		{ProductID: 1, Delta: 30},
		{ProductID: 2, Delta: 12},
	}
	result, err := f.uc.StockIn(context.Background(), 1, 7, items)

	require.NoError(t, err)
	require.Len(t, result.Results, 2)
	assert.Equal(t, int64(30), f.st.snaps[pairKey{1, 7}].Quantity)
	assert.Equal(t, int64(12), f.st.snaps[pairKey{2, 7}].Quantity)
	for _, e := range f.st.ledger {
		assert.Equal(t, int64(7), e.LocationID)
	}

	// El slice del caller no se muta al estampar la ubicación.
	assert.Equal(t, int64(0), items[0].LocationID)
	assert.Equal(t, int64(0), items[1].LocationID)
}

// ──────────────────────────────────────────────────────────────────────────────
// Transfer: dos entradas TRANSFER en una transacción
// ──────────────────────────────────────────────────────────────────────────────

func TestTransfer_MueveStockEntreUbicaciones(t *testing.T) {
	f := newFixture(catalogWith(1))
	f.st.setSnapshot(1, 1, 50, 3)

	result, err := f.uc.Transfer(context.Background(), 9, 1, 1, 2, 20)

	require.NoError(t, err)
	require.Len(t, result.Results, 2)
	assert.Equal(t, int64(-20), result.Results[0].Delta)
	assert.Equal(t, int64(20), result.Results[1].Delta)

	assert.Equal(t, int64(30), f.st.snaps[pairKey{1, 1}].Quantity)
	assert.Equal(t, 4, f.st.snaps[pairKey{1, 1}].Version)
	assert.Equal(t, int64(20), f.st.snaps[pairKey{1, 2}].Quantity)
	assert.Equal(t, 1, f.st.snaps[pairKey{1, 2}].Version)

	require.Len(t, f.st.ledger, 2)
	assert.Equal(t, entity.LogTypeTransfer, f.st.ledger[0].LogType)
	assert.Equal(t, entity.LogTypeTransfer, f.st.ledger[1].LogType)
}

func TestTransfer_InsuficienteEnOrigenNoTocaDestino(t *testing.T) {
	f := newFixture(catalogWith(1))
	f.st.setSnapshot(1, 1, 5, 1)

	_, err := f.uc.Transfer(context.Background(), 9, 1, 1, 2, 10)

	var insufficient *domain.InsufficientStockError
	require.ErrorAs(t, err, &insufficient)
	assert.Equal(t, int64(5), insufficient.Current)

	assert.Empty(t, f.st.ledger)
	assert.Equal(t, int64(5), f.st.snaps[pairKey{1, 1}].Quantity)
	_, destExists := f.st.snaps[pairKey{1, 2}]
	assert.False(t, destExists, "el destino nunca debe materializarse si el origen falla")
}

func TestTransfer_ParametrosInvalidos(t *testing.T) {
	f := newFixture(catalogWith(1))

	_, err := f.uc.Transfer(context.Background(), 9, 1, 1, 1, 10)
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "origen y destino no pueden coincidir")

	_, err = f.uc.Transfer(context.Background(), 9, 1, 1, 2, 0)
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "la cantidad debe ser positiva")

	_, err = f.uc.Transfer(context.Background(), 9, 99, 1, 2, 10)
	assert.ErrorIs(t, err, domain.ErrProductNotFound)
}
