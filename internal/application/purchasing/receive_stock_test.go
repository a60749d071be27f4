package purchasing_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Pedidos-api/internal/application/dto"
	"github.com/jhoicas/Pedidos-api/internal/application/inventory"
	"github.com/jhoicas/Pedidos-api/internal/application/purchasing"
	"github.com/jhoicas/Pedidos-api/internal/domain"
	"github.com/jhoicas/Pedidos-api/internal/domain/entity"
	"github.com/jhoicas/Pedidos-api/internal/domain/repository"
	"github.com/jhoicas/Pedidos-api/pkg/logger"
)

type memPurchases struct {
	purchases map[string]*entity.Purchase
	batches   map[string]*entity.Batch
	pools     map[string]*entity.InventoryPool
	movements []*entity.MovementRecord
	suppliers map[string]*entity.Supplier
	products  map[string]*entity.Product
}

func newMemPurchases() *memPurchases {
	return &memPurchases{
		purchases: make(map[string]*entity.Purchase),
		batches:   make(map[string]*entity.Batch),
		pools:     make(map[string]*entity.InventoryPool),
		suppliers: make(map[string]*entity.Supplier),
		products:  make(map[string]*entity.Product),
	}
}

type purchaseRepo struct{ s *memPurchases }

func (r *purchaseRepo) Create(p *entity.Purchase) error        { r.s.purchases[p.ID] = p; return nil }
func (r *purchaseRepo) GetByID(id string) (*entity.Purchase, error) { return r.s.purchases[id], nil }
func (r *purchaseRepo) ListByCompany(companyID string, limit, offset int) ([]*entity.Purchase, error) {
	return nil, nil
}

type batchRepo struct{ s *memPurchases }

func (r *batchRepo) Create(b *entity.Batch) error          { r.s.batches[b.ID] = b; return nil }
func (r *batchRepo) GetByID(id string) (*entity.Batch, error) { return r.s.batches[id], nil }
func (r *batchRepo) ListActiveByProduct(productID string) ([]*entity.Batch, error) { return nil, nil }
func (r *batchRepo) ListByCompany(companyID string, limit, offset int) ([]*entity.Batch, error) {
	return nil, nil
}
func (r *batchRepo) UpdateStatus(id, status string) error { return nil }

type poolRepo struct{ s *memPurchases }

func (r *poolRepo) Create(p *entity.InventoryPool) error { r.s.pools[p.BatchID] = p; return nil }
func (r *poolRepo) GetByBatch(batchID string) (*entity.InventoryPool, error) {
	return r.s.pools[batchID], nil
}
func (r *poolRepo) GetByBatchForUpdate(batchID string) (*entity.InventoryPool, error) {
	return r.s.pools[batchID], nil
}
func (r *poolRepo) Update(p *entity.InventoryPool) error { r.s.pools[p.BatchID] = p; return nil }

type movRepo struct{ s *memPurchases }

func (r *movRepo) Create(m *entity.MovementRecord) error {
	r.s.movements = append(r.s.movements, m)
	return nil
}
func (r *movRepo) ListByBatch(batchID string, from, to *time.Time, limit, offset int) ([]*entity.MovementRecord, error) {
	return nil, nil
}
func (r *movRepo) ListByOrder(orderID string) ([]*entity.MovementRecord, error) { return nil, nil }

type supplierRepo struct{ s *memPurchases }

func (r *supplierRepo) Create(sp *entity.Supplier) error          { r.s.suppliers[sp.ID] = sp; return nil }
func (r *supplierRepo) GetByID(id string) (*entity.Supplier, error) { return r.s.suppliers[id], nil }
func (r *supplierRepo) Update(sp *entity.Supplier) error          { return nil }
func (r *supplierRepo) ListByCompany(companyID string, limit, offset int) ([]*entity.Supplier, error) {
	return nil, nil
}

type productRepo struct{ s *memPurchases }

func (r *productRepo) Create(p *entity.Product) error          { r.s.products[p.ID] = p; return nil }
func (r *productRepo) GetByID(id string) (*entity.Product, error) { return r.s.products[id], nil }
func (r *productRepo) GetByCompanyAndSKU(companyID, sku string) (*entity.Product, error) {
	return nil, nil
}
func (r *productRepo) Update(p *entity.Product) error { return nil }
func (r *productRepo) ListByCompany(companyID string, limit, offset int) ([]*entity.Product, error) {
	return nil, nil
}
func (r *productRepo) Delete(id string) error { return nil }

type txRunner struct{ s *memPurchases }

func (r *txRunner) RunPurchase(ctx context.Context, fn func(
	repository.PurchaseRepository,
	repository.BatchRepository,
	repository.InventoryPoolRepository,
	repository.MovementRepository,
) error) error {
	return fn(&purchaseRepo{r.s}, &batchRepo{r.s}, &poolRepo{r.s}, &movRepo{r.s})
}

func newFixture(t *testing.T) (*memPurchases, *purchasing.ReceiveStockUseCase) {
	t.Helper()
	s := newMemPurchases()
	s.suppliers["sup-1"] = &entity.Supplier{ID: "sup-1", CompanyID: "co-1", Name: "Distribuidora Norte"}
	s.products["p1"] = &entity.Product{ID: "p1", CompanyID: "co-1", SKU: "SKU-1", Active: true}
	log := logger.New(logger.Config{Env: "production", Level: "error"})
	uc := purchasing.NewReceiveStockUseCase(
		&txRunner{s}, inventory.NewPoolStore(log),
		&supplierRepo{s}, &productRepo{s},
	)
	return s, uc
}

func TestReceive_CreaLotePoolYMovimiento(t *testing.T) {
	s, uc := newFixture(t)
	expiry := time.Now().AddDate(0, 6, 0)

	resp, err := uc.Receive(context.Background(), "co-1", "user-1", dto.ReceivePurchaseRequest{
		SupplierID: "sup-1",
		Reference:  "REM-001",
		Lines: []dto.PurchaseLineRequest{{
			ProductID: "p1", BatchCode: "L-2026-01", Quantity: 100,
			CostPrice: decimal.NewFromInt(500), UnitPrice: decimal.NewFromInt(900),
			ExpiryDate: &expiry,
		}},
	})
	require.NoError(t, err)
	require.Len(t, resp.BatchIDs, 1)

	batch := s.batches[resp.BatchIDs[0]]
	require.NotNil(t, batch)
	assert.Equal(t, entity.BatchStatusActive, batch.Status)
	assert.Equal(t, "sup-1", batch.SupplierID)

	// La mercancía entra a bodega; estantería y reserva quedan en cero.
	pool := s.pools[batch.ID]
	require.NotNil(t, pool)
	assert.Equal(t, int64(100), pool.QuantityOnHand)
	assert.Equal(t, int64(0), pool.QuantityOnShelf)
	assert.Equal(t, int64(0), pool.QuantityReserved)

	require.Len(t, s.movements, 1)
	assert.Equal(t, entity.MovementTypeIn, s.movements[0].Type)
	assert.Equal(t, int64(100), s.movements[0].QuantityDelta)
	assert.Equal(t, resp.PurchaseID, s.movements[0].PurchaseID)
}

func TestReceive_VariasLineas(t *testing.T) {
	s, uc := newFixture(t)
	s.products["p2"] = &entity.Product{ID: "p2", CompanyID: "co-1", SKU: "SKU-2", Active: true}

	resp, err := uc.Receive(context.Background(), "co-1", "user-1", dto.ReceivePurchaseRequest{
		SupplierID: "sup-1",
		Reference:  "REM-002",
		Lines: []dto.PurchaseLineRequest{
			{ProductID: "p1", BatchCode: "L-A", Quantity: 30, CostPrice: decimal.NewFromInt(100), UnitPrice: decimal.NewFromInt(200)},
			{ProductID: "p2", BatchCode: "L-B", Quantity: 40, CostPrice: decimal.NewFromInt(150), UnitPrice: decimal.NewFromInt(250)},
		},
	})
	require.NoError(t, err)
	assert.Len(t, resp.BatchIDs, 2)
	assert.Len(t, s.movements, 2)
}

func TestReceive_ProveedorAjeno(t *testing.T) {
	s, uc := newFixture(t)
	s.suppliers["sup-2"] = &entity.Supplier{ID: "sup-2", CompanyID: "otra-empresa"}

	_, err := uc.Receive(context.Background(), "co-1", "user-1", dto.ReceivePurchaseRequest{
		SupplierID: "sup-2",
		Lines:      []dto.PurchaseLineRequest{{ProductID: "p1", BatchCode: "L-X", Quantity: 1}},
	})
	require.ErrorIs(t, err, domain.ErrForbidden)
	assert.Empty(t, s.purchases)
}

func TestReceive_EntradaInvalida(t *testing.T) {
	_, uc := newFixture(t)
	ctx := context.Background()

	cases := []struct {
		name string
		req  dto.ReceivePurchaseRequest
	}{
		{"sin proveedor", dto.ReceivePurchaseRequest{Lines: []dto.PurchaseLineRequest{{ProductID: "p1", BatchCode: "L", Quantity: 1}}}},
		{"sin lineas", dto.ReceivePurchaseRequest{SupplierID: "sup-1"}},
		{"cantidad cero", dto.ReceivePurchaseRequest{SupplierID: "sup-1", Lines: []dto.PurchaseLineRequest{{ProductID: "p1", BatchCode: "L"}}}},
		{"sin codigo de lote", dto.ReceivePurchaseRequest{SupplierID: "sup-1", Lines: []dto.PurchaseLineRequest{{ProductID: "p1", Quantity: 5}}}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := uc.Receive(ctx, "co-1", "user-1", tc.req)
			assert.ErrorIs(t, err, domain.ErrInvalidInput)
		})
	}
}
