package orders

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Pedidos-api/internal/domain"
	"github.com/jhoicas/Pedidos-api/internal/domain/entity"
	"github.com/jhoicas/Pedidos-api/internal/domain/repository"
)

// PackingSlipLine una línea del remito de despacho, lista para imprimir:
// el bodeguero necesita ver lote y vencimiento para tomar las unidades correctas.
type PackingSlipLine struct {
	ProductName string
	SKU         string
	BatchCode   string
	ExpiryDate  *time.Time
	Quantity    int64
	UnitPrice   decimal.Decimal
	Subtotal    decimal.Decimal
}

// PackingSlipGenerator puerto hacia el generador de PDF.
type PackingSlipGenerator interface {
	GeneratePackingSlip(ctx context.Context, order *entity.Order, company *entity.Company,
		customer *entity.Customer, lines []PackingSlipLine) ([]byte, error)
}

// PackingSlipUseCase arma el remito de despacho de un pedido: resuelve nombres
// de producto y códigos de lote y delega el render al generador.
type PackingSlipUseCase struct {
	orderRepo    repository.OrderRepository
	customerRepo repository.CustomerRepository
	productRepo  repository.ProductRepository
	batchRepo    repository.BatchRepository
	companyRepo  repository.CompanyRepository
	gen          PackingSlipGenerator
}

// NewPackingSlipUseCase construye el caso de uso.
func NewPackingSlipUseCase(
	orderRepo repository.OrderRepository,
	customerRepo repository.CustomerRepository,
	productRepo repository.ProductRepository,
	batchRepo repository.BatchRepository,
	companyRepo repository.CompanyRepository,
	gen PackingSlipGenerator,
) *PackingSlipUseCase {
	return &PackingSlipUseCase{
		orderRepo:    orderRepo,
		customerRepo: customerRepo,
		productRepo:  productRepo,
		batchRepo:    batchRepo,
		companyRepo:  companyRepo,
		gen:          gen,
	}
}

// Generate produce el PDF del remito. Solo tiene sentido desde pending en
// adelante: en draft los lotes aún pueden cambiar.
func (uc *PackingSlipUseCase) Generate(ctx context.Context, companyID, orderID string) ([]byte, error) {
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
	if order.Status == entity.OrderStatusDraft {
		return nil, domain.ErrInvalidInput
	}

	items, err := uc.orderRepo.GetLineItems(orderID)
	if err != nil {
		return nil, err
	}
	order.LineItems = items

	company, err := uc.companyRepo.GetByID(companyID)
	if err != nil {
		return nil, err
	}
	customer, err := uc.customerRepo.GetByID(order.CustomerID)
	if err != nil {
		return nil, err
	}
	if company == nil || customer == nil {
		return nil, domain.ErrNotFound
	}

	lines := make([]PackingSlipLine, 0, len(items))
	for _, li := range items {
		product, err := uc.productRepo.GetByID(li.ProductID)
		if err != nil {
			return nil, err
		}
		batch, err := uc.batchRepo.GetByID(li.BatchID)
		if err != nil {
			return nil, err
		}
		if product == nil || batch == nil {
			return nil, domain.ErrNotFound
		}
		lines = append(lines, PackingSlipLine{
			ProductName: product.Name,
			SKU:         product.SKU,
			BatchCode:   batch.Code,
			ExpiryDate:  batch.ExpiryDate,
			Quantity:    li.Quantity,
			UnitPrice:   li.UnitPrice,
			Subtotal:    li.Subtotal(),
		})
	}
	return uc.gen.GeneratePackingSlip(ctx, order, company, customer, lines)
}
