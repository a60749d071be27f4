package purchasing

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Pedidos-api/internal/application/dto"
	"github.com/jhoicas/Pedidos-api/internal/application/inventory"
	"github.com/jhoicas/Pedidos-api/internal/domain"
	"github.com/jhoicas/Pedidos-api/internal/domain/entity"
	"github.com/jhoicas/Pedidos-api/internal/domain/repository"
)

// ReceiveStockUseCase registra una recepción de mercancía: crea la cabecera de
// compra y, por cada línea, un lote nuevo con su pool y un movimiento `in` a
// bodega. Las unidades recibidas quedan en bodega; pasar a estantería es un
// traslado posterior (inventory.UseCase.Transfer).
type ReceiveStockUseCase struct {
	txRunner     TxRunner
	store        *inventory.PoolStore
	supplierRepo repository.SupplierRepository
	productRepo  repository.ProductRepository
}

// NewReceiveStockUseCase construye el caso de uso.
func NewReceiveStockUseCase(
	txRunner TxRunner,
	store *inventory.PoolStore,
	supplierRepo repository.SupplierRepository,
	productRepo repository.ProductRepository,
) *ReceiveStockUseCase {
	return &ReceiveStockUseCase{
		txRunner:     txRunner,
		store:        store,
		supplierRepo: supplierRepo,
		productRepo:  productRepo,
	}
}

// Receive valida proveedor y productos fuera de la transacción y persiste la
// recepción entera dentro de una sola.
func (uc *ReceiveStockUseCase) Receive(ctx context.Context, companyID, userID string, in dto.ReceivePurchaseRequest) (*dto.ReceivePurchaseResponse, error) {
	if in.SupplierID == "" || len(in.Lines) == 0 {
		return nil, domain.ErrInvalidInput
	}
	supplier, err := uc.supplierRepo.GetByID(in.SupplierID)
	if err != nil {
		return nil, err
	}
	if supplier == nil {
		return nil, domain.ErrNotFound
	}
	if supplier.CompanyID != companyID {
		return nil, domain.ErrForbidden
	}

	for _, line := range in.Lines {
		if line.ProductID == "" || line.BatchCode == "" || line.Quantity <= 0 {
			return nil, domain.ErrInvalidInput
		}
		if line.CostPrice.LessThan(decimal.Zero) || line.UnitPrice.LessThan(decimal.Zero) {
			return nil, domain.ErrInvalidInput
		}
		product, err := uc.productRepo.GetByID(line.ProductID)
		if err != nil {
			return nil, err
		}
		if product == nil {
			return nil, domain.ErrNotFound
		}
		if product.CompanyID != companyID {
			return nil, domain.ErrForbidden
		}
	}

	now := time.Now()
	purchase := &entity.Purchase{
		ID:         uuid.New().String(),
		CompanyID:  companyID,
		SupplierID: in.SupplierID,
		Reference:  in.Reference,
		ReceivedBy: userID,
		ReceivedAt: now,
	}

	batchIDs := make([]string, 0, len(in.Lines))
	err = uc.txRunner.RunPurchase(ctx, func(
		purchaseRepo repository.PurchaseRepository,
		batchRepo repository.BatchRepository,
		poolRepo repository.InventoryPoolRepository,
		movRepo repository.MovementRepository,
	) error {
		if err := purchaseRepo.Create(purchase); err != nil {
			return err
		}
		for _, line := range in.Lines {
			batch := &entity.Batch{
				ID:              uuid.New().String(),
				CompanyID:       companyID,
				ProductID:       line.ProductID,
				SupplierID:      in.SupplierID,
				Code:            line.BatchCode,
				ExpiryDate:      line.ExpiryDate,
				ManufactureDate: line.ManufactureDate,
				CostPrice:       line.CostPrice,
				UnitPrice:       line.UnitPrice,
				Status:          entity.BatchStatusActive,
				CreatedAt:       now,
				UpdatedAt:       now,
			}
			if err := batchRepo.Create(batch); err != nil {
				return err
			}
			if err := poolRepo.Create(&entity.InventoryPool{
				ID:        uuid.New().String(),
				BatchID:   batch.ID,
				UpdatedAt: now,
			}); err != nil {
				return err
			}
			err := uc.store.Receive(poolRepo, movRepo, batch.ID, line.Quantity, inventory.MovementRef{
				ActorID:    userID,
				PurchaseID: purchase.ID,
				Reason:     "recepción " + in.Reference,
			})
			if err != nil {
				return err
			}
			batchIDs = append(batchIDs, batch.ID)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &dto.ReceivePurchaseResponse{PurchaseID: purchase.ID, BatchIDs: batchIDs}, nil
}
