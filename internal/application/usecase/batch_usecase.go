package usecase

import (
	"time"

	"github.com/jhoicas/Pedidos-api/internal/application/dto"
	"github.com/jhoicas/Pedidos-api/internal/domain"
	"github.com/jhoicas/Pedidos-api/internal/domain/entity"
	"github.com/jhoicas/Pedidos-api/internal/domain/repository"
)

// BatchUseCase consultas de lotes y marcado de vencidos. Un lote expired sale
// del plan FEFO de inmediato; las reservas ya tomadas sobre él completan su
// ciclo normal (el pedido en curso no se rompe por el vencimiento).
type BatchUseCase struct {
	batchRepo repository.BatchRepository
	poolRepo  repository.InventoryPoolRepository
}

// NewBatchUseCase construye el caso de uso.
func NewBatchUseCase(batchRepo repository.BatchRepository, poolRepo repository.InventoryPoolRepository) *BatchUseCase {
	return &BatchUseCase{batchRepo: batchRepo, poolRepo: poolRepo}
}

// GetByID devuelve el lote con su pool.
func (uc *BatchUseCase) GetByID(companyID, id string) (*dto.BatchResponse, error) {
	batch, err := uc.batchRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if batch == nil {
		return nil, domain.ErrNotFound
	}
	if batch.CompanyID != companyID {
		return nil, domain.ErrForbidden
	}
	resp := toBatchResponse(batch)
	pool, err := uc.poolRepo.GetByBatch(id)
	if err != nil {
		return nil, err
	}
	if pool != nil {
		resp.Pool = &dto.PoolResponse{
			BatchID:          pool.BatchID,
			QuantityOnHand:   pool.QuantityOnHand,
			QuantityOnShelf:  pool.QuantityOnShelf,
			QuantityReserved: pool.QuantityReserved,
			Available:        pool.Available(),
		}
	}
	return resp, nil
}

// List lista lotes por empresa con paginación.
func (uc *BatchUseCase) List(companyID string, page dto.PageRequest) ([]*dto.BatchResponse, error) {
	page.DefaultPage()
	list, err := uc.batchRepo.ListByCompany(companyID, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	out := make([]*dto.BatchResponse, 0, len(list))
	for _, b := range list {
		out = append(out, toBatchResponse(b))
	}
	return out, nil
}

// Expire marca el lote como vencido. Idempotente: expirar un lote ya expired
// no es error. El stock remanente queda visible en el pool para ajuste manual.
func (uc *BatchUseCase) Expire(companyID, id string) error {
	batch, err := uc.batchRepo.GetByID(id)
	if err != nil {
		return err
	}
	if batch == nil {
		return domain.ErrNotFound
	}
	if batch.CompanyID != companyID {
		return domain.ErrForbidden
	}
	if batch.Status == entity.BatchStatusExpired {
		return nil
	}
	return uc.batchRepo.UpdateStatus(id, entity.BatchStatusExpired)
}

// ExpireDue marca como vencidos todos los lotes active de la empresa cuya fecha
// de vencimiento ya pasó. Devuelve cuántos marcó. Pensado para correr periódico.
func (uc *BatchUseCase) ExpireDue(companyID string, now time.Time) (int, error) {
	const pageSize = 200
	expired := 0
	for offset := 0; ; offset += pageSize {
		list, err := uc.batchRepo.ListByCompany(companyID, pageSize, offset)
		if err != nil {
			return expired, err
		}
		for _, b := range list {
			if !b.IsActive() || b.ExpiryDate == nil || b.ExpiryDate.After(now) {
				continue
			}
			if err := uc.batchRepo.UpdateStatus(b.ID, entity.BatchStatusExpired); err != nil {
				return expired, err
			}
			expired++
		}
		if len(list) < pageSize {
			return expired, nil
		}
	}
}

func toBatchResponse(b *entity.Batch) *dto.BatchResponse {
	return &dto.BatchResponse{
		ID:              b.ID,
		ProductID:       b.ProductID,
		SupplierID:      b.SupplierID,
		Code:            b.Code,
		ExpiryDate:      b.ExpiryDate,
		ManufactureDate: b.ManufactureDate,
		CostPrice:       b.CostPrice,
		UnitPrice:       b.UnitPrice,
		Status:          b.Status,
	}
}
