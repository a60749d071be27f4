package orders_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Pedidos-api/internal/application/orders"
	"github.com/jhoicas/Pedidos-api/internal/domain"
	"github.com/jhoicas/Pedidos-api/internal/domain/entity"
)

func TestSetPaymentStatus_PendingAPaid(t *testing.T) {
	s := newMemStore()
	seedOrder(s, "ord-1", entity.OrderStatusPending, nil)
	uc := orders.NewQueryOrderUseCase(&fakeOrderRepo{s}, &fakeTxRunner{s: s})

	resp, err := uc.SetPaymentStatus(context.Background(), testCompanyID, "ord-1", entity.PaymentStatusPaid)
	require.NoError(t, err)
	assert.Equal(t, entity.PaymentStatusPaid, resp.PaymentStatus)
	assert.Equal(t, entity.PaymentStatusPaid, s.orders["ord-1"].PaymentStatus)
}

func TestSetPaymentStatus_PedidoCancelado(t *testing.T) {
	s := newMemStore()
	seedOrder(s, "ord-1", entity.OrderStatusCancelled, nil)
	uc := orders.NewQueryOrderUseCase(&fakeOrderRepo{s}, &fakeTxRunner{s: s})

	_, err := uc.SetPaymentStatus(context.Background(), testCompanyID, "ord-1", entity.PaymentStatusPaid)
	require.ErrorIs(t, err, domain.ErrInvalidTransition, "no se cobra un pedido cancelado")
}

func TestSetPaymentStatus_RefundedNoEsManual(t *testing.T) {
	s := newMemStore()
	seedOrder(s, "ord-1", entity.OrderStatusDelivered, nil)
	uc := orders.NewQueryOrderUseCase(&fakeOrderRepo{s}, &fakeTxRunner{s: s})

	_, err := uc.SetPaymentStatus(context.Background(), testCompanyID, "ord-1", entity.PaymentStatusRefunded)
	require.ErrorIs(t, err, domain.ErrInvalidInput, "refunded solo lo fija la transición de estado")
}

func TestSetPaymentStatus_Idempotente(t *testing.T) {
	s := newMemStore()
	seedOrder(s, "ord-1", entity.OrderStatusPending, nil)
	s.orders["ord-1"].PaymentStatus = entity.PaymentStatusPaid
	uc := orders.NewQueryOrderUseCase(&fakeOrderRepo{s}, &fakeTxRunner{s: s})

	resp, err := uc.SetPaymentStatus(context.Background(), testCompanyID, "ord-1", entity.PaymentStatusPaid)
	require.NoError(t, err)
	assert.Equal(t, entity.PaymentStatusPaid, resp.PaymentStatus)
}

// La confirmación de pago lee el pedido con la fila bloqueada: si una
// cancelación comprometió primero, el pago se rechaza en vez de marcar paid un
// pedido ya cancelado.
func TestSetPaymentStatus_CancelacionConcurrente(t *testing.T) {
	s := newMemStore()
	seedOrder(s, "ord-1", entity.OrderStatusPending, nil)
	s.onOrderLock = func(o *entity.Order) {
		s.onOrderLock = nil
		o.Status = entity.OrderStatusCancelled
	}
	uc := orders.NewQueryOrderUseCase(&fakeOrderRepo{s}, &fakeTxRunner{s: s})

	_, err := uc.SetPaymentStatus(context.Background(), testCompanyID, "ord-1", entity.PaymentStatusPaid)
	require.ErrorIs(t, err, domain.ErrInvalidTransition)
	assert.Equal(t, entity.PaymentStatusPending, s.orders["ord-1"].PaymentStatus,
		"el pedido cancelado no queda marcado como pagado")
}

func TestGetOrder_ConLineas(t *testing.T) {
	s := newMemStore()
	seedOrder(s, "ord-1", entity.OrderStatusDraft, []*entity.LineItem{
		{ID: "li-1", OrderID: "ord-1", ProductID: "p1", BatchID: "b1", Quantity: 4},
	})
	uc := orders.NewQueryOrderUseCase(&fakeOrderRepo{s}, &fakeTxRunner{s: s})

	resp, err := uc.GetOrder(testCompanyID, "ord-1")
	require.NoError(t, err)
	require.Len(t, resp.Lines, 1)
	assert.Equal(t, "b1", resp.Lines[0].BatchID)
}

func TestGetOrder_OtraEmpresa(t *testing.T) {
	s := newMemStore()
	seedOrder(s, "ord-1", entity.OrderStatusDraft, nil)
	uc := orders.NewQueryOrderUseCase(&fakeOrderRepo{s}, &fakeTxRunner{s: s})

	_, err := uc.GetOrder("otra-empresa", "ord-1")
	require.ErrorIs(t, err, domain.ErrForbidden)
}

func TestListOrders_FiltraPorEstado(t *testing.T) {
	s := newMemStore()
	seedOrder(s, "ord-1", entity.OrderStatusDraft, nil)
	seedOrder(s, "ord-2", entity.OrderStatusPending, nil)
	uc := orders.NewQueryOrderUseCase(&fakeOrderRepo{s}, &fakeTxRunner{s: s})

	list, err := uc.ListOrders(testCompanyID, entity.OrderStatusPending, 50, 0)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "ord-2", list[0].ID)
}
