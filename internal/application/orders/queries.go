package orders

import (
	"context"

	"github.com/jhoicas/Pedidos-api/internal/application/dto"
	"github.com/jhoicas/Pedidos-api/internal/domain"
	"github.com/jhoicas/Pedidos-api/internal/domain/entity"
	"github.com/jhoicas/Pedidos-api/internal/domain/repository"
)

// QueryOrderUseCase lecturas de pedidos y confirmación de pago externa.
// Las lecturas van directo al repositorio sin transacción; la confirmación de
// pago corre en una tx con la fila del pedido bloqueada.
type QueryOrderUseCase struct {
	orderRepo repository.OrderRepository
	txRunner  TxRunner
}

// NewQueryOrderUseCase construye el caso de uso.
func NewQueryOrderUseCase(orderRepo repository.OrderRepository, txRunner TxRunner) *QueryOrderUseCase {
	return &QueryOrderUseCase{orderRepo: orderRepo, txRunner: txRunner}
}

// GetOrder devuelve el pedido con sus líneas, verificando pertenencia a la empresa.
func (uc *QueryOrderUseCase) GetOrder(companyID, orderID string) (*dto.OrderResponse, error) {
	order, err := uc.loadOrder(companyID, orderID)
	if err != nil {
		return nil, err
	}
	return toOrderResponse(order), nil
}

// ListOrders lista los pedidos de la empresa, opcionalmente filtrados por
// estado, paginados. Las líneas no se cargan en el listado.
func (uc *QueryOrderUseCase) ListOrders(companyID, status string, limit, offset int) ([]*dto.OrderResponse, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	orders, err := uc.orderRepo.ListByCompany(companyID, status, limit, offset)
	if err != nil {
		return nil, err
	}
	out := make([]*dto.OrderResponse, 0, len(orders))
	for _, o := range orders {
		out = append(out, toOrderResponse(o))
	}
	return out, nil
}

// SetPaymentStatus registra la confirmación de pago de una pasarela externa.
// Solo admite pending -> paid; refunded lo fija exclusivamente la transición
// de estado a refunded, nunca esta operación. Corre en una transacción con la
// fila del pedido bloqueada: una cancelación concurrente se serializa antes o
// después, nunca entre la lectura y el UPDATE.
func (uc *QueryOrderUseCase) SetPaymentStatus(ctx context.Context, companyID, orderID, paymentStatus string) (*dto.OrderResponse, error) {
	if paymentStatus != entity.PaymentStatusPaid {
		return nil, domain.ErrInvalidInput
	}
	var updated *entity.Order
	err := uc.txRunner.RunOrder(ctx, func(
		orderRepo repository.OrderRepository,
		_ repository.InventoryPoolRepository,
		_ repository.MovementRepository,
	) error {
		order, err := orderRepo.GetByIDForUpdate(orderID)
		if err != nil {
			return err
		}
		if order == nil {
			return domain.ErrNotFound
		}
		if order.CompanyID != companyID {
			return domain.ErrForbidden
		}
		if order.Status == entity.OrderStatusCancelled || order.Status == entity.OrderStatusRefunded {
			return domain.ErrInvalidTransition
		}
		if order.PaymentStatus == paymentStatus {
			updated = order
			return nil
		}
		if order.PaymentStatus != entity.PaymentStatusPending {
			return domain.ErrInvalidTransition
		}
		if err := orderRepo.UpdatePaymentStatus(orderID, paymentStatus); err != nil {
			return err
		}
		order.PaymentStatus = paymentStatus
		updated = order
		return nil
	})
	if err != nil {
		return nil, err
	}
	return toOrderResponse(updated), nil
}

func (uc *QueryOrderUseCase) loadOrder(companyID, orderID string) (*entity.Order, error) {
	order, err := uc.orderRepo.GetByID(orderID)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, domain.ErrNotFound
	}
	if order.CompanyID != companyID {
		return nil, domain.ErrForbidden
	}
	items, err := uc.orderRepo.GetLineItems(orderID)
	if err != nil {
		return nil, err
	}
	order.LineItems = items
	return order, nil
}
