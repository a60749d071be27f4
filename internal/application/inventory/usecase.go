package inventory

import (
	"context"
	"time"

	"github.com/jhoicas/Pedidos-api/internal/application/dto"
	"github.com/jhoicas/Pedidos-api/internal/domain"
	"github.com/jhoicas/Pedidos-api/internal/domain/entity"
	"github.com/jhoicas/Pedidos-api/internal/domain/repository"
)

// UseCase operaciones de inventario que no nacen de una transición de pedido:
// traslado bodega <-> estantería, ajustes manuales y consultas del libro.
// Cada mutación abre su propia transacción vía TxRunner y delega en PoolStore.
type UseCase struct {
	txRunner  TxRunner
	store     *PoolStore
	batchRepo repository.BatchRepository
	poolRepo  repository.InventoryPoolRepository
	movRepo   repository.MovementRepository
}

// NewUseCase construye el caso de uso. batchRepo/poolRepo/movRepo se usan solo
// para lecturas fuera de transacción.
func NewUseCase(
	txRunner TxRunner,
	store *PoolStore,
	batchRepo repository.BatchRepository,
	poolRepo repository.InventoryPoolRepository,
	movRepo repository.MovementRepository,
) *UseCase {
	return &UseCase{
		txRunner:  txRunner,
		store:     store,
		batchRepo: batchRepo,
		poolRepo:  poolRepo,
		movRepo:   movRepo,
	}
}

// validateBatchOwnership verifica que el lote exista y sea de la empresa.
func (uc *UseCase) validateBatchOwnership(companyID, batchID string) (*entity.Batch, error) {
	batch, err := uc.batchRepo.GetByID(batchID)
	if err != nil {
		return nil, err
	}
	if batch == nil {
		return nil, domain.ErrNotFound
	}
	if batch.CompanyID != companyID {
		return nil, domain.ErrForbidden
	}
	return batch, nil
}

// Transfer traslada unidades entre bodega y estantería (reposición de estantería
// o retorno a bodega) en una transacción propia.
func (uc *UseCase) Transfer(ctx context.Context, companyID, userID string, in dto.TransferRequest) error {
	if in.BatchID == "" || in.Quantity <= 0 {
		return domain.ErrInvalidInput
	}
	if in.Direction != entity.TransferToShelf && in.Direction != entity.TransferToHand {
		return domain.ErrInvalidInput
	}
	if _, err := uc.validateBatchOwnership(companyID, in.BatchID); err != nil {
		return err
	}
	return uc.txRunner.Run(ctx, func(
		poolRepo repository.InventoryPoolRepository,
		movRepo repository.MovementRepository,
		_ repository.BatchRepository,
	) error {
		return uc.store.Transfer(poolRepo, movRepo, in.BatchID, in.Quantity, in.Direction,
			MovementRef{ActorID: userID, Reason: "traslado " + in.Direction})
	})
}

// Adjust aplica una corrección manual de estantería en una transacción propia.
func (uc *UseCase) Adjust(ctx context.Context, companyID, userID string, in dto.AdjustmentRequest) error {
	if in.BatchID == "" || in.Delta == 0 || in.Reason == "" {
		return domain.ErrInvalidInput
	}
	if _, err := uc.validateBatchOwnership(companyID, in.BatchID); err != nil {
		return err
	}
	return uc.txRunner.Run(ctx, func(
		poolRepo repository.InventoryPoolRepository,
		movRepo repository.MovementRepository,
		_ repository.BatchRepository,
	) error {
		return uc.store.Adjust(poolRepo, movRepo, in.BatchID, in.Delta,
			MovementRef{ActorID: userID, Reason: in.Reason})
	})
}

// ListMovements consulta el libro por lote (solo lectura).
func (uc *UseCase) ListMovements(companyID, batchID string, from, to *time.Time, page dto.PageRequest) ([]dto.MovementResponse, error) {
	if _, err := uc.validateBatchOwnership(companyID, batchID); err != nil {
		return nil, err
	}
	page.DefaultPage()
	records, err := uc.movRepo.ListByBatch(batchID, from, to, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	out := make([]dto.MovementResponse, 0, len(records))
	for _, m := range records {
		out = append(out, toMovementResponse(m))
	}
	return out, nil
}

// ListMovementsByOrder devuelve todas las entradas del libro ligadas a un pedido.
func (uc *UseCase) ListMovementsByOrder(orderID string) ([]dto.MovementResponse, error) {
	records, err := uc.movRepo.ListByOrder(orderID)
	if err != nil {
		return nil, err
	}
	out := make([]dto.MovementResponse, 0, len(records))
	for _, m := range records {
		out = append(out, toMovementResponse(m))
	}
	return out, nil
}

// GetPool devuelve los contadores del pool de un lote (solo lectura).
func (uc *UseCase) GetPool(companyID, batchID string) (*dto.PoolResponse, error) {
	if _, err := uc.validateBatchOwnership(companyID, batchID); err != nil {
		return nil, err
	}
	pool, err := uc.poolRepo.GetByBatch(batchID)
	if err != nil {
		return nil, err
	}
	if pool == nil {
		return nil, domain.ErrNotFound
	}
	return &dto.PoolResponse{
		BatchID:          pool.BatchID,
		QuantityOnHand:   pool.QuantityOnHand,
		QuantityOnShelf:  pool.QuantityOnShelf,
		QuantityReserved: pool.QuantityReserved,
		Available:        pool.Available(),
	}, nil
}

func toMovementResponse(m *entity.MovementRecord) dto.MovementResponse {
	return dto.MovementResponse{
		ID:            m.ID,
		BatchID:       m.BatchID,
		PoolID:        m.PoolID,
		Type:          m.Type,
		QuantityDelta: m.QuantityDelta,
		Reason:        m.Reason,
		ActorID:       m.ActorID,
		OrderID:       m.OrderID,
		PurchaseID:    m.PurchaseID,
		CreatedAt:     m.CreatedAt,
	}
}
