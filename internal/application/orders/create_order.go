package orders

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Pedidos-api/internal/application/dto"
	"github.com/jhoicas/Pedidos-api/internal/domain"
	"github.com/jhoicas/Pedidos-api/internal/domain/entity"
	"github.com/jhoicas/Pedidos-api/internal/domain/repository"
)

// CreateOrderUseCase crea pedidos en draft: valida cliente y productos, fija el
// lote de cada línea (pineado por el operador o planificado por FEFO) y persiste
// cabecera y líneas en una transacción. No toca ningún pool: el inventario se
// muta recién en la transición draft -> pending.
type CreateOrderUseCase struct {
	txRunner     TxRunner
	planner      Planner
	customerRepo repository.CustomerRepository
	productRepo  repository.ProductRepository
	batchRepo    repository.BatchRepository
	poolRepo     repository.InventoryPoolRepository
}

// NewCreateOrderUseCase construye el caso de uso.
func NewCreateOrderUseCase(
	txRunner TxRunner,
	planner Planner,
	customerRepo repository.CustomerRepository,
	productRepo repository.ProductRepository,
	batchRepo repository.BatchRepository,
	poolRepo repository.InventoryPoolRepository,
) *CreateOrderUseCase {
	return &CreateOrderUseCase{
		txRunner:     txRunner,
		planner:      planner,
		customerRepo: customerRepo,
		productRepo:  productRepo,
		batchRepo:    batchRepo,
		poolRepo:     poolRepo,
	}
}

// CreateOrder crea el pedido en draft. Por cada línea solicitada: si viene
// PinnedBatchID se valida que el lote pertenezca al producto (ErrBatchMismatch),
// esté active y tenga disponibilidad en estantería; si no, el planificador FEFO
// puede abrir la solicitud en varias líneas (una por lote del plan).
func (uc *CreateOrderUseCase) CreateOrder(ctx context.Context, companyID, userID string, in dto.CreateOrderRequest) (*dto.OrderResponse, error) {
	if in.CustomerID == "" || len(in.Lines) == 0 {
		return nil, domain.ErrInvalidInput
	}
	if in.DiscountPct.LessThan(decimal.Zero) || in.DiscountPct.GreaterThan(decimal.NewFromInt(100)) {
		return nil, domain.ErrInvalidInput
	}
	if in.ShippingFee.LessThan(decimal.Zero) {
		return nil, domain.ErrInvalidInput
	}

	// Validar cliente y que sea de la empresa
	customer, err := uc.customerRepo.GetByID(in.CustomerID)
	if err != nil || customer == nil {
		return nil, domain.ErrNotFound
	}
	if customer.CompanyID != companyID {
		return nil, domain.ErrForbidden
	}
	if !customer.Active {
		return nil, domain.ErrInvalidInput
	}

	now := time.Now()
	orderID := uuid.New().String()
	var items []*entity.LineItem

	for _, line := range in.Lines {
		if line.ProductID == "" || line.Quantity <= 0 {
			return nil, domain.ErrInvalidInput
		}
		product, err := uc.productRepo.GetByID(line.ProductID)
		if err != nil || product == nil {
			return nil, domain.ErrNotFound
		}
		if product.CompanyID != companyID {
			return nil, domain.ErrForbidden
		}
		if !product.Active {
			return nil, domain.ErrInvalidInput
		}

		if line.PinnedBatchID != "" {
			item, err := uc.pinnedLine(orderID, line)
			if err != nil {
				return nil, err
			}
			items = append(items, item)
			continue
		}

		// Plan FEFO: una solicitud puede abrirse en varias líneas, una por lote.
		picks, err := uc.planner.Allocate(line.ProductID, line.Quantity)
		if err != nil {
			return nil, err
		}
		for _, pick := range picks {
			price := pick.UnitPrice
			if line.UnitPrice != nil {
				price = *line.UnitPrice
			}
			items = append(items, &entity.LineItem{
				ID:        uuid.New().String(),
				OrderID:   orderID,
				ProductID: line.ProductID,
				BatchID:   pick.BatchID,
				Quantity:  pick.Quantity,
				UnitPrice: price,
			})
		}
	}

	order := &entity.Order{
		ID:            orderID,
		CompanyID:     companyID,
		CustomerID:    in.CustomerID,
		CreatedBy:     userID,
		Status:        entity.OrderStatusDraft,
		PaymentStatus: entity.PaymentStatusPending,
		ShippingFee:   in.ShippingFee,
		DiscountPct:   in.DiscountPct,
		LineItems:     items,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	order.Total = order.ComputeTotal()

	// Persistencia: cabecera y líneas en una transacción, sin tocar pools.
	err = uc.txRunner.RunOrder(ctx, func(
		orderRepo repository.OrderRepository,
		_ repository.InventoryPoolRepository,
		_ repository.MovementRepository,
	) error {
		if err := orderRepo.Create(order); err != nil {
			return err
		}
		for _, item := range items {
			if err := orderRepo.CreateLineItem(item); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return toOrderResponse(order), nil
}

// pinnedLine valida el lote fijado por el operador: producto correcto, active y
// con disponibilidad en estantería. La verificación es de lectura; la reserva
// real se re-valida en draft -> pending.
func (uc *CreateOrderUseCase) pinnedLine(orderID string, line dto.OrderLineRequest) (*entity.LineItem, error) {
	batch, err := uc.batchRepo.GetByID(line.PinnedBatchID)
	if err != nil {
		return nil, err
	}
	if batch == nil {
		return nil, domain.ErrNotFound
	}
	if batch.ProductID != line.ProductID {
		return nil, domain.ErrBatchMismatch
	}
	if !batch.IsActive() {
		return nil, domain.ErrInvalidInput
	}
	pool, err := uc.poolRepo.GetByBatch(batch.ID)
	if err != nil {
		return nil, err
	}
	if pool == nil {
		return nil, domain.ErrNotFound
	}
	if pool.Available() < line.Quantity {
		return nil, domain.ErrInsufficientShelfStock
	}
	price := batch.UnitPrice
	if line.UnitPrice != nil {
		price = *line.UnitPrice
	}
	return &entity.LineItem{
		ID:        uuid.New().String(),
		OrderID:   orderID,
		ProductID: line.ProductID,
		BatchID:   batch.ID,
		Quantity:  line.Quantity,
		UnitPrice: price,
	}, nil
}

func toOrderResponse(o *entity.Order) *dto.OrderResponse {
	lines := make([]dto.LineItemResponse, 0, len(o.LineItems))
	for _, li := range o.LineItems {
		lines = append(lines, dto.LineItemResponse{
			ID:        li.ID,
			ProductID: li.ProductID,
			BatchID:   li.BatchID,
			Quantity:  li.Quantity,
			UnitPrice: li.UnitPrice,
			Subtotal:  li.Subtotal(),
		})
	}
	return &dto.OrderResponse{
		ID:            o.ID,
		CompanyID:     o.CompanyID,
		CustomerID:    o.CustomerID,
		CreatedBy:     o.CreatedBy,
		Status:        o.Status,
		PaymentStatus: o.PaymentStatus,
		ShippingFee:   o.ShippingFee,
		DiscountPct:   o.DiscountPct,
		Total:         o.Total,
		Lines:         lines,
		CreatedAt:     o.CreatedAt,
		UpdatedAt:     o.UpdatedAt,
	}
}
