package orders_test

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Pedidos-api/internal/application/allocation"
	"github.com/jhoicas/Pedidos-api/internal/domain"
	"github.com/jhoicas/Pedidos-api/internal/domain/entity"
	"github.com/jhoicas/Pedidos-api/internal/domain/repository"
	"github.com/jhoicas/Pedidos-api/pkg/logger"
)

// memStore backend en memoria compartido por los repositorios falsos. El
// TxRunner falso toma un snapshot antes de cada unidad y lo restaura si la
// función devuelve error, imitando el rollback de Postgres.
type memStore struct {
	orders    map[string]*entity.Order
	items     map[string][]*entity.LineItem
	pools     map[string]*entity.InventoryPool // por batchID
	batches   map[string]*entity.Batch
	products  map[string]*entity.Product
	customers map[string]*entity.Customer
	movements []*entity.MovementRecord

	// onOrderLock se invoca al bloquear la fila del pedido, antes de leerla.
	// Permite simular otra transacción que comprometió primero.
	onOrderLock func(o *entity.Order)
	// movementWrites cuenta los Create de movimientos; el rollback del
	// snapshot no lo restaura, así que registra intentos de escritura.
	movementWrites int
}

func newMemStore() *memStore {
	return &memStore{
		orders:    make(map[string]*entity.Order),
		items:     make(map[string][]*entity.LineItem),
		pools:     make(map[string]*entity.InventoryPool),
		batches:   make(map[string]*entity.Batch),
		products:  make(map[string]*entity.Product),
		customers: make(map[string]*entity.Customer),
	}
}

type memSnapshot struct {
	orders    map[string]entity.Order
	items     map[string][]*entity.LineItem
	pools     map[string]entity.InventoryPool
	movements []*entity.MovementRecord
}

func (s *memStore) snapshot() memSnapshot {
	snap := memSnapshot{
		orders:    make(map[string]entity.Order, len(s.orders)),
		items:     make(map[string][]*entity.LineItem, len(s.items)),
		pools:     make(map[string]entity.InventoryPool, len(s.pools)),
		movements: append([]*entity.MovementRecord(nil), s.movements...),
	}
	for id, o := range s.orders {
		snap.orders[id] = *o
	}
	for id, lis := range s.items {
		snap.items[id] = append([]*entity.LineItem(nil), lis...)
	}
	for id, p := range s.pools {
		snap.pools[id] = *p
	}
	return snap
}

func (s *memStore) restore(snap memSnapshot) {
	s.orders = make(map[string]*entity.Order, len(snap.orders))
	for id := range snap.orders {
		o := snap.orders[id]
		s.orders[id] = &o
	}
	s.items = snap.items
	s.pools = make(map[string]*entity.InventoryPool, len(snap.pools))
	for id := range snap.pools {
		p := snap.pools[id]
		s.pools[id] = &p
	}
	s.movements = snap.movements
}

// ── Repositorios falsos ──────────────────────────────────────────────────────

type fakeOrderRepo struct{ s *memStore }

func (r *fakeOrderRepo) Create(order *entity.Order) error {
	cp := *order
	r.s.orders[order.ID] = &cp
	return nil
}

func (r *fakeOrderRepo) CreateLineItem(item *entity.LineItem) error {
	r.s.items[item.OrderID] = append(r.s.items[item.OrderID], item)
	return nil
}

func (r *fakeOrderRepo) GetByID(id string) (*entity.Order, error) {
	o, ok := r.s.orders[id]
	if !ok {
		return nil, nil
	}
	cp := *o
	return &cp, nil
}

func (r *fakeOrderRepo) GetByIDForUpdate(id string) (*entity.Order, error) {
	if o, ok := r.s.orders[id]; ok && r.s.onOrderLock != nil {
		r.s.onOrderLock(o)
	}
	return r.GetByID(id)
}

func (r *fakeOrderRepo) GetLineItems(orderID string) ([]*entity.LineItem, error) {
	return r.s.items[orderID], nil
}

func (r *fakeOrderRepo) UpdateStatus(order *entity.Order) error {
	stored, ok := r.s.orders[order.ID]
	if !ok {
		return domain.ErrNotFound
	}
	stored.Status = order.Status
	stored.PaymentStatus = order.PaymentStatus
	stored.UpdatedAt = order.UpdatedAt
	return nil
}

func (r *fakeOrderRepo) UpdatePaymentStatus(orderID, paymentStatus string) error {
	stored, ok := r.s.orders[orderID]
	if !ok {
		return domain.ErrNotFound
	}
	stored.PaymentStatus = paymentStatus
	return nil
}

func (r *fakeOrderRepo) ListByCompany(companyID string, status string, limit, offset int) ([]*entity.Order, error) {
	var out []*entity.Order
	for _, o := range r.s.orders {
		if o.CompanyID != companyID {
			continue
		}
		if status != "" && o.Status != status {
			continue
		}
		cp := *o
		out = append(out, &cp)
	}
	return out, nil
}

type fakePoolRepo struct{ s *memStore }

func (r *fakePoolRepo) Create(pool *entity.InventoryPool) error {
	cp := *pool
	r.s.pools[pool.BatchID] = &cp
	return nil
}

func (r *fakePoolRepo) GetByBatch(batchID string) (*entity.InventoryPool, error) {
	p, ok := r.s.pools[batchID]
	if !ok {
		return nil, nil
	}
	cp := *p
	return &cp, nil
}

func (r *fakePoolRepo) GetByBatchForUpdate(batchID string) (*entity.InventoryPool, error) {
	return r.GetByBatch(batchID)
}

func (r *fakePoolRepo) Update(pool *entity.InventoryPool) error {
	if _, ok := r.s.pools[pool.BatchID]; !ok {
		return domain.ErrNotFound
	}
	cp := *pool
	r.s.pools[pool.BatchID] = &cp
	return nil
}

type fakeMovRepo struct{ s *memStore }

func (r *fakeMovRepo) Create(record *entity.MovementRecord) error {
	r.s.movementWrites++
	r.s.movements = append(r.s.movements, record)
	return nil
}

func (r *fakeMovRepo) ListByBatch(batchID string, from, to *time.Time, limit, offset int) ([]*entity.MovementRecord, error) {
	var out []*entity.MovementRecord
	for _, m := range r.s.movements {
		if m.BatchID == batchID {
			out = append(out, m)
		}
	}
	return out, nil
}

func (r *fakeMovRepo) ListByOrder(orderID string) ([]*entity.MovementRecord, error) {
	var out []*entity.MovementRecord
	for _, m := range r.s.movements {
		if m.OrderID == orderID {
			out = append(out, m)
		}
	}
	return out, nil
}

type fakeBatchRepo struct{ s *memStore }

func (r *fakeBatchRepo) Create(batch *entity.Batch) error {
	r.s.batches[batch.ID] = batch
	return nil
}

func (r *fakeBatchRepo) GetByID(id string) (*entity.Batch, error) {
	return r.s.batches[id], nil
}

func (r *fakeBatchRepo) ListActiveByProduct(productID string) ([]*entity.Batch, error) {
	var out []*entity.Batch
	for _, b := range r.s.batches {
		if b.ProductID == productID && b.IsActive() {
			out = append(out, b)
		}
	}
	return out, nil
}

func (r *fakeBatchRepo) ListByCompany(companyID string, limit, offset int) ([]*entity.Batch, error) {
	return nil, nil
}

func (r *fakeBatchRepo) UpdateStatus(id, status string) error {
	b, ok := r.s.batches[id]
	if !ok {
		return domain.ErrNotFound
	}
	b.Status = status
	return nil
}

type fakeProductRepo struct{ s *memStore }

func (r *fakeProductRepo) Create(product *entity.Product) error {
	r.s.products[product.ID] = product
	return nil
}
func (r *fakeProductRepo) GetByID(id string) (*entity.Product, error) { return r.s.products[id], nil }
func (r *fakeProductRepo) GetByCompanyAndSKU(companyID, sku string) (*entity.Product, error) {
	return nil, nil
}
func (r *fakeProductRepo) Update(product *entity.Product) error { return nil }
func (r *fakeProductRepo) ListByCompany(companyID string, limit, offset int) ([]*entity.Product, error) {
	return nil, nil
}
func (r *fakeProductRepo) Delete(id string) error { return nil }

type fakeCustomerRepo struct{ s *memStore }

func (r *fakeCustomerRepo) Create(customer *entity.Customer) error {
	r.s.customers[customer.ID] = customer
	return nil
}
func (r *fakeCustomerRepo) GetByID(id string) (*entity.Customer, error) {
	return r.s.customers[id], nil
}
func (r *fakeCustomerRepo) Update(customer *entity.Customer) error { return nil }
func (r *fakeCustomerRepo) ListByCompany(companyID string, limit, offset int) ([]*entity.Customer, error) {
	return nil, nil
}

// ── TxRunner falso ───────────────────────────────────────────────────────────

// fakeTxRunner ejecuta fn sobre el memStore con semántica de rollback.
// conflictsLeft permite simular aborts por serialización: mientras quede saldo,
// RunOrder falla con ErrConflict sin ejecutar fn.
type fakeTxRunner struct {
	s             *memStore
	conflictsLeft int
	runs          int
}

func (r *fakeTxRunner) RunOrder(ctx context.Context, fn func(
	orderRepo repository.OrderRepository,
	poolRepo repository.InventoryPoolRepository,
	movRepo repository.MovementRepository,
) error) error {
	r.runs++
	if r.conflictsLeft > 0 {
		r.conflictsLeft--
		return domain.ErrConflict
	}
	snap := r.s.snapshot()
	err := fn(&fakeOrderRepo{r.s}, &fakePoolRepo{r.s}, &fakeMovRepo{r.s})
	if err != nil {
		r.s.restore(snap)
	}
	return err
}

// ── Planner falso ────────────────────────────────────────────────────────────

type fakePlanner struct {
	picks map[string][]allocation.Pick
	err   error
}

func (p *fakePlanner) Allocate(productID string, requested int64) ([]allocation.Pick, error) {
	if p.err != nil {
		return nil, p.err
	}
	return p.picks[productID], nil
}

// ── Helpers de datos de prueba ───────────────────────────────────────────────

const (
	testCompanyID = "co-1"
	testUserID    = "user-1"
)

func testLogger() *logger.Logger {
	return logger.New(logger.Config{Env: "production", Level: "error"})
}

func seedCustomer(s *memStore, id string) {
	s.customers[id] = &entity.Customer{
		ID: id, CompanyID: testCompanyID, Name: "Cliente Prueba",
		Type: entity.CustomerTypeRetail, Active: true,
	}
}

func seedProduct(s *memStore, id string) {
	s.products[id] = &entity.Product{
		ID: id, CompanyID: testCompanyID, SKU: "SKU-" + id,
		Name: "Producto " + id, Active: true,
	}
}

func seedBatchWithPool(s *memStore, batchID, productID string, expiry *time.Time, onShelf, onHand int64) {
	s.batches[batchID] = &entity.Batch{
		ID: batchID, CompanyID: testCompanyID, ProductID: productID,
		Code: "L-" + batchID, ExpiryDate: expiry,
		CostPrice: decimal.NewFromInt(500), UnitPrice: decimal.NewFromInt(1000),
		Status: entity.BatchStatusActive,
	}
	s.pools[batchID] = &entity.InventoryPool{
		ID: uuid.New().String(), BatchID: batchID,
		QuantityOnHand: onHand, QuantityOnShelf: onShelf,
	}
}

func seedOrder(s *memStore, orderID, status string, lines []*entity.LineItem) {
	order := &entity.Order{
		ID: orderID, CompanyID: testCompanyID, CustomerID: "cust-1",
		CreatedBy: testUserID, Status: status,
		PaymentStatus: entity.PaymentStatusPending,
		ShippingFee:   decimal.Zero, DiscountPct: decimal.Zero,
	}
	s.orders[orderID] = order
	s.items[orderID] = lines
}

func daysFromNow(d int) *time.Time {
	t := time.Now().AddDate(0, 0, d)
	return &t
}
