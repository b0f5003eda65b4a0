package inventory_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KrisYarno/inventory-core/internal/application/inventory"
	"github.com/KrisYarno/inventory-core/internal/domain/entity"
	"github.com/KrisYarno/inventory-core/internal/domain/repository"
)

func appendEntry(st *memState, productID, locationID, delta int64, at time.Time) {
	st.ledger = append(st.ledger, entity.LedgerEntry{
		ID: st.nextLogID, ProductID: productID, LocationID: locationID,
		Delta: delta, LogType: entity.LogTypeAdjustment, ChangeTime: at,
	})
	st.nextLogID++
}

// SnapshotAt deriva las cantidades EXCLUSIVAMENTE del ledger: la tabla
// materializada puede estar vacía o desactualizada y el resultado no cambia.
func TestSnapshotAt_SumaDeltasHastaElInstante(t *testing.T) {
	st := newMemState()
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	appendEntry(st, 1, 1, 100, base)
	appendEntry(st, 1, 1, -30, base.Add(time.Hour))
	appendEntry(st, 1, 1, 7, base.Add(48*time.Hour)) // posterior al corte
	appendEntry(st, 2, 1, 5, base.Add(time.Minute))

	uc := inventory.NewQueryUseCase(&fakeSnapshotRepo{st: st}, &fakeLedgerRepo{st: st})

	pairs, err := uc.SnapshotAt(context.Background(), base.Add(2*time.Hour), nil)
	require.NoError(t, err)

	byProduct := make(map[int64]int64)
	for _, p := range pairs {
		byProduct[p.ProductID] = p.Quantity
	}
	assert.Equal(t, int64(70), byProduct[1], "la entrada posterior al corte no cuenta")
	assert.Equal(t, int64(5), byProduct[2])
}

func TestSnapshotAt_FiltraPorUbicacion(t *testing.T) {
	st := newMemState()
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	appendEntry(st, 1, 1, 10, base)
	appendEntry(st, 1, 2, 99, base)

	uc := inventory.NewQueryUseCase(&fakeSnapshotRepo{st: st}, &fakeLedgerRepo{st: st})

	loc := int64(1)
	pairs, err := uc.SnapshotAt(context.Background(), base.Add(time.Hour), &loc)
	require.NoError(t, err)
	require.Len(t, pairs, 1)
	assert.Equal(t, int64(1), pairs[0].LocationID)
	assert.Equal(t, int64(10), pairs[0].Quantity)
}

func TestHistory_ProyectaEntradasDelPar(t *testing.T) {
	st := newMemState()
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	appendEntry(st, 1, 1, 10, base)
	appendEntry(st, 1, 2, 4, base) // otra ubicación, fuera del par
	appendEntry(st, 1, 1, -3, base.Add(time.Minute))

	uc := inventory.NewQueryUseCase(&fakeSnapshotRepo{st: st}, &fakeLedgerRepo{st: st})

	views, err := uc.History(context.Background(), 1, 1, 20, 0)
	require.NoError(t, err)
	require.Len(t, views, 2)
	assert.Equal(t, int64(10), views[0].Delta)
	assert.Equal(t, int64(-3), views[1].Delta)
	assert.Equal(t, entity.LogTypeAdjustment, views[0].LogType)
}

// CurrentLevels delega en el repositorio de snapshots; el SQL del join con el
// ledger se prueba contra la base real, aquí sólo el paso del filtro.
func TestCurrentLevels_PropagaElFiltro(t *testing.T) {
	recorder := &recordingSnapshotRepo{}
	uc := inventory.NewQueryUseCase(recorder, &fakeLedgerRepo{st: newMemState()})

	loc := int64(3)
	_, err := uc.CurrentLevels(context.Background(), &loc)
	require.NoError(t, err)
	require.NotNil(t, recorder.lastLocationID)
	assert.Equal(t, int64(3), *recorder.lastLocationID)
}

type recordingSnapshotRepo struct {
	fakeSnapshotRepo
	lastLocationID *int64
}

func (r *recordingSnapshotRepo) ListLevels(_ context.Context, locationID *int64) ([]repository.StockLevel, error) {
	r.lastLocationID = locationID
	return nil, nil
}
