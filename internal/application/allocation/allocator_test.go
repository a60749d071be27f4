package allocation_test

import (
	"sort"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Pedidos-api/internal/application/allocation"
	"github.com/jhoicas/Pedidos-api/internal/domain"
	"github.com/jhoicas/Pedidos-api/internal/domain/entity"
)

// fakeBatchRepo sirve lotes en memoria con el mismo orden que garantiza el
// repositorio real: expiry ascendente, sin vencimiento al final, empate por id.
type fakeBatchRepo struct {
	batches []*entity.Batch
}

func (f *fakeBatchRepo) Create(*entity.Batch) error          { return nil }
func (f *fakeBatchRepo) GetByID(string) (*entity.Batch, error) { return nil, nil }
func (f *fakeBatchRepo) UpdateStatus(string, string) error   { return nil }
func (f *fakeBatchRepo) ListByCompany(string, int, int) ([]*entity.Batch, error) {
	return nil, nil
}

func (f *fakeBatchRepo) ListActiveByProduct(productID string) ([]*entity.Batch, error) {
	var out []*entity.Batch
	for _, b := range f.batches {
		if b.ProductID == productID && b.Status == entity.BatchStatusActive {
			out = append(out, b)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		ei, ej := out[i].ExpiryDate, out[j].ExpiryDate
		switch {
		case ei == nil && ej == nil:
			return out[i].ID < out[j].ID
		case ei == nil:
			return false
		case ej == nil:
			return true
		case ei.Equal(*ej):
			return out[i].ID < out[j].ID
		default:
			return ei.Before(*ej)
		}
	})
	return out, nil
}

type fakePoolRepo struct {
	pools map[string]*entity.InventoryPool // por batchID
}

func (f *fakePoolRepo) Create(*entity.InventoryPool) error { return nil }
func (f *fakePoolRepo) Update(*entity.InventoryPool) error { return nil }
func (f *fakePoolRepo) GetByBatch(batchID string) (*entity.InventoryPool, error) {
	return f.pools[batchID], nil
}
func (f *fakePoolRepo) GetByBatchForUpdate(batchID string) (*entity.InventoryPool, error) {
	return f.pools[batchID], nil
}

func day(d int) *time.Time {
	t := time.Date(2026, 3, d, 0, 0, 0, 0, time.UTC)
	return &t
}

func activeBatch(id, productID string, expiry *time.Time, price int64) *entity.Batch {
	return &entity.Batch{
		ID:         id,
		ProductID:  productID,
		ExpiryDate: expiry,
		UnitPrice:  decimal.NewFromInt(price),
		Status:     entity.BatchStatusActive,
	}
}

func pool(batchID string, onShelf, reserved int64) *entity.InventoryPool {
	return &entity.InventoryPool{
		ID:               "pool-" + batchID,
		BatchID:          batchID,
		QuantityOnShelf:  onShelf,
		QuantityReserved: reserved,
	}
}

func newPlanner(batches []*entity.Batch, pools map[string]*entity.InventoryPool) *allocation.Planner {
	return allocation.NewPlanner(&fakeBatchRepo{batches: batches}, &fakePoolRepo{pools: pools})
}

// TestAllocate_OrdenFEFOConDerrame: B1 vence antes con 5 unidades, B2 después
// con 10; pedir 12 debe dar [(B1,5),(B2,7)] en ese orden.
func TestAllocate_OrdenFEFOConDerrame(t *testing.T) {
	p := newPlanner(
		[]*entity.Batch{
			activeBatch("b2", "prod-1", day(20), 100),
			activeBatch("b1", "prod-1", day(10), 100),
		},
		map[string]*entity.InventoryPool{
			"b1": pool("b1", 5, 0),
			"b2": pool("b2", 10, 0),
		},
	)

	picks, err := p.Allocate("prod-1", 12)
	require.NoError(t, err)
	require.Len(t, picks, 2)
	assert.Equal(t, "b1", picks[0].BatchID, "el lote que vence primero va primero")
	assert.Equal(t, int64(5), picks[0].Quantity)
	assert.Equal(t, "b2", picks[1].BatchID)
	assert.Equal(t, int64(7), picks[1].Quantity, "el resto se derrama al siguiente lote")
}

// TestAllocate_FaltanteReportaDisponible: con 8 disponibles en total, pedir 12
// falla con StockShortageError indicando requested=12 y available=8.
func TestAllocate_FaltanteReportaDisponible(t *testing.T) {
	p := newPlanner(
		[]*entity.Batch{
			activeBatch("b1", "prod-1", day(10), 100),
			activeBatch("b2", "prod-1", day(20), 100),
		},
		map[string]*entity.InventoryPool{
			"b1": pool("b1", 5, 0),
			"b2": pool("b2", 5, 2), // disponible 3
		},
	)

	picks, err := p.Allocate("prod-1", 12)
	assert.Nil(t, picks, "un faltante no entrega plan parcial")
	require.ErrorIs(t, err, domain.ErrInsufficientStock)

	var shortage *domain.StockShortageError
	require.ErrorAs(t, err, &shortage)
	assert.Equal(t, int64(12), shortage.Requested)
	assert.Equal(t, int64(8), shortage.Available)
}

// TestAllocate_SinLotesActivos: producto sin lotes -> faltante inmediato con disponible 0.
func TestAllocate_SinLotesActivos(t *testing.T) {
	p := newPlanner(nil, map[string]*entity.InventoryPool{})

	_, err := p.Allocate("prod-x", 3)
	var shortage *domain.StockShortageError
	require.ErrorAs(t, err, &shortage)
	assert.Equal(t, int64(0), shortage.Available)
}

// TestAllocate_SaltaDisponibilidadNoPositiva: lotes con todo reservado no aportan.
func TestAllocate_SaltaDisponibilidadNoPositiva(t *testing.T) {
	p := newPlanner(
		[]*entity.Batch{
			activeBatch("b1", "prod-1", day(10), 100),
			activeBatch("b2", "prod-1", day(20), 100),
		},
		map[string]*entity.InventoryPool{
			"b1": pool("b1", 4, 4), // disponible 0, se salta
			"b2": pool("b2", 6, 0),
		},
	)

	picks, err := p.Allocate("prod-1", 6)
	require.NoError(t, err)
	require.Len(t, picks, 1)
	assert.Equal(t, "b2", picks[0].BatchID, "un lote sin disponibilidad no debe aparecer en el plan")
}

// TestAllocate_EmpateDeVencimientoDesempataPorID: mismo expiry -> menor id primero.
func TestAllocate_EmpateDeVencimientoDesempataPorID(t *testing.T) {
	p := newPlanner(
		[]*entity.Batch{
			activeBatch("b9", "prod-1", day(10), 100),
			activeBatch("b2", "prod-1", day(10), 100),
		},
		map[string]*entity.InventoryPool{
			"b9": pool("b9", 10, 0),
			"b2": pool("b2", 10, 0),
		},
	)

	picks, err := p.Allocate("prod-1", 4)
	require.NoError(t, err)
	require.Len(t, picks, 1)
	assert.Equal(t, "b2", picks[0].BatchID)
}

// TestAllocate_SinVencimientoAlFinal: lotes sin expiry solo se usan después de
// agotar los que vencen.
func TestAllocate_SinVencimientoAlFinal(t *testing.T) {
	p := newPlanner(
		[]*entity.Batch{
			activeBatch("b1", "prod-1", nil, 100),
			activeBatch("b2", "prod-1", day(15), 100),
		},
		map[string]*entity.InventoryPool{
			"b1": pool("b1", 10, 0),
			"b2": pool("b2", 3, 0),
		},
	)

	picks, err := p.Allocate("prod-1", 5)
	require.NoError(t, err)
	require.Len(t, picks, 2)
	assert.Equal(t, "b2", picks[0].BatchID, "el lote con vencimiento sale antes que el que no vence")
	assert.Equal(t, int64(3), picks[0].Quantity)
	assert.Equal(t, "b1", picks[1].BatchID)
	assert.Equal(t, int64(2), picks[1].Quantity)
}

// TestAllocate_EntradaInvalida: cantidad no positiva o producto vacío.
func TestAllocate_EntradaInvalida(t *testing.T) {
	p := newPlanner(nil, nil)
	_, err := p.Allocate("", 5)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	_, err = p.Allocate("prod-1", 0)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
