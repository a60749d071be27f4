package orders_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Pedidos-api/internal/application/allocation"
	"github.com/jhoicas/Pedidos-api/internal/application/dto"
	"github.com/jhoicas/Pedidos-api/internal/application/orders"
	"github.com/jhoicas/Pedidos-api/internal/domain"
	"github.com/jhoicas/Pedidos-api/internal/domain/entity"
)

func newCreateFixture(t *testing.T, planner orders.Planner) (*memStore, *orders.CreateOrderUseCase) {
	t.Helper()
	s := newMemStore()
	seedCustomer(s, "cust-1")
	seedProduct(s, "p1")
	uc := orders.NewCreateOrderUseCase(
		&fakeTxRunner{s: s}, planner,
		&fakeCustomerRepo{s}, &fakeProductRepo{s},
		&fakeBatchRepo{s}, &fakePoolRepo{s},
	)
	return s, uc
}

func TestCreateOrder_PlanEnVariosLotes(t *testing.T) {
	planner := &fakePlanner{picks: map[string][]allocation.Pick{
		"p1": {
			{BatchID: "b1", Quantity: 5, UnitPrice: decimal.NewFromInt(1000)},
			{BatchID: "b2", Quantity: 7, UnitPrice: decimal.NewFromInt(1200)},
		},
	}}
	s, uc := newCreateFixture(t, planner)
	seedBatchWithPool(s, "b1", "p1", daysFromNow(3), 5, 0)
	seedBatchWithPool(s, "b2", "p1", daysFromNow(8), 9, 0)

	resp, err := uc.CreateOrder(context.Background(), testCompanyID, testUserID, dto.CreateOrderRequest{
		CustomerID: "cust-1",
		Lines:      []dto.OrderLineRequest{{ProductID: "p1", Quantity: 12}},
	})
	require.NoError(t, err)

	assert.Equal(t, entity.OrderStatusDraft, resp.Status)
	require.Len(t, resp.Lines, 2, "una solicitud se abre en una línea por lote del plan")
	assert.Equal(t, "b1", resp.Lines[0].BatchID)
	assert.Equal(t, int64(5), resp.Lines[0].Quantity)
	assert.Equal(t, "b2", resp.Lines[1].BatchID)
	assert.Equal(t, int64(7), resp.Lines[1].Quantity)
	// 5*1000 + 7*1200 = 13400
	assert.True(t, decimal.NewFromInt(13400).Equal(resp.Total), "total calculado, fue %s", resp.Total)

	// Crear en draft no muta pools ni escribe movimientos.
	assert.Equal(t, int64(0), s.pools["b1"].QuantityReserved)
	assert.Empty(t, s.movements)
	assert.Len(t, s.items[resp.ID], 2)
}

func TestCreateOrder_SinStock_PropagaFaltante(t *testing.T) {
	planner := &fakePlanner{err: &domain.StockShortageError{
		ProductID: "p1", Requested: 12, Available: 8,
	}}
	_, uc := newCreateFixture(t, planner)

	_, err := uc.CreateOrder(context.Background(), testCompanyID, testUserID, dto.CreateOrderRequest{
		CustomerID: "cust-1",
		Lines:      []dto.OrderLineRequest{{ProductID: "p1", Quantity: 12}},
	})
	require.ErrorIs(t, err, domain.ErrInsufficientStock)

	var shortage *domain.StockShortageError
	require.ErrorAs(t, err, &shortage)
	assert.Equal(t, int64(8), shortage.Available, "el error reporta cuánto sí había")
}

func TestCreateOrder_LotePineado(t *testing.T) {
	s, uc := newCreateFixture(t, &fakePlanner{})
	seedBatchWithPool(s, "b1", "p1", daysFromNow(3), 10, 0)

	resp, err := uc.CreateOrder(context.Background(), testCompanyID, testUserID, dto.CreateOrderRequest{
		CustomerID: "cust-1",
		Lines:      []dto.OrderLineRequest{{ProductID: "p1", Quantity: 4, PinnedBatchID: "b1"}},
	})
	require.NoError(t, err)
	require.Len(t, resp.Lines, 1)
	assert.Equal(t, "b1", resp.Lines[0].BatchID, "el lote pineado se respeta sin pasar por el planificador")
}

func TestCreateOrder_LotePineadoDeOtroProducto(t *testing.T) {
	s, uc := newCreateFixture(t, &fakePlanner{})
	seedBatchWithPool(s, "b1", "p-ajeno", daysFromNow(3), 10, 0)

	_, err := uc.CreateOrder(context.Background(), testCompanyID, testUserID, dto.CreateOrderRequest{
		CustomerID: "cust-1",
		Lines:      []dto.OrderLineRequest{{ProductID: "p1", Quantity: 4, PinnedBatchID: "b1"}},
	})
	require.ErrorIs(t, err, domain.ErrBatchMismatch)
}

func TestCreateOrder_LotePineadoSinDisponibilidad(t *testing.T) {
	s, uc := newCreateFixture(t, &fakePlanner{})
	seedBatchWithPool(s, "b1", "p1", daysFromNow(3), 2, 50)

	_, err := uc.CreateOrder(context.Background(), testCompanyID, testUserID, dto.CreateOrderRequest{
		CustomerID: "cust-1",
		Lines:      []dto.OrderLineRequest{{ProductID: "p1", Quantity: 4, PinnedBatchID: "b1"}},
	})
	require.ErrorIs(t, err, domain.ErrInsufficientShelfStock, "bodega no cuenta como vendible")
}

func TestCreateOrder_EntradaInvalida(t *testing.T) {
	_, uc := newCreateFixture(t, &fakePlanner{})
	ctx := context.Background()

	cases := []struct {
		name string
		req  dto.CreateOrderRequest
	}{
		{"sin cliente", dto.CreateOrderRequest{Lines: []dto.OrderLineRequest{{ProductID: "p1", Quantity: 1}}}},
		{"sin lineas", dto.CreateOrderRequest{CustomerID: "cust-1"}},
		{"cantidad cero", dto.CreateOrderRequest{CustomerID: "cust-1", Lines: []dto.OrderLineRequest{{ProductID: "p1"}}}},
		{"descuento fuera de rango", dto.CreateOrderRequest{
			CustomerID:  "cust-1",
			DiscountPct: decimal.NewFromInt(101),
			Lines:       []dto.OrderLineRequest{{ProductID: "p1", Quantity: 1}},
		}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := uc.CreateOrder(ctx, testCompanyID, testUserID, tc.req)
			assert.ErrorIs(t, err, domain.ErrInvalidInput)
		})
	}
}

func TestCreateOrder_DescuentoYEnvio(t *testing.T) {
	planner := &fakePlanner{picks: map[string][]allocation.Pick{
		"p1": {{BatchID: "b1", Quantity: 10, UnitPrice: decimal.NewFromInt(1000)}},
	}}
	s, uc := newCreateFixture(t, planner)
	seedBatchWithPool(s, "b1", "p1", daysFromNow(3), 10, 0)

	resp, err := uc.CreateOrder(context.Background(), testCompanyID, testUserID, dto.CreateOrderRequest{
		CustomerID:  "cust-1",
		DiscountPct: decimal.NewFromInt(10),
		ShippingFee: decimal.NewFromInt(500),
		Lines:       []dto.OrderLineRequest{{ProductID: "p1", Quantity: 10}},
	})
	require.NoError(t, err)
	// 10000 * 0.9 + 500 = 9500
	assert.True(t, decimal.NewFromInt(9500).Equal(resp.Total), "total con descuento y envío, fue %s", resp.Total)
}
