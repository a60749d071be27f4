package inventory

import (
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/Pedidos-api/internal/domain"
	"github.com/jhoicas/Pedidos-api/internal/domain/entity"
	"github.com/jhoicas/Pedidos-api/internal/domain/repository"
	"github.com/jhoicas/Pedidos-api/pkg/logger"
)

// PoolStore ejecuta las operaciones de cantidad sobre el pool de un lote usando
// los repositorios proporcionados (misma transacción del caller, ver TxRunner).
// Cada operación valida, muta el pool con la fila bloqueada (GetByBatchForUpdate)
// y registra exactamente un MovementRecord. No abre transacción propia: la
// atomicidad la garantiza quien la invoca (el motor de pedidos o un caso de uso
// standalone de inventario). Un fallo no deja entrada en el libro: el rollback
// de la transacción descarta pool y movimiento juntos.
type PoolStore struct {
	log *logger.Logger
}

// NewPoolStore construye el store. El logger se usa para la advertencia del
// recorte en Release.
func NewPoolStore(log *logger.Logger) *PoolStore {
	return &PoolStore{log: log}
}

// MovementRef referencias del movimiento: quién lo causó y qué documento lo origina.
type MovementRef struct {
	ActorID    string
	OrderID    string
	PurchaseID string
	Reason     string
}

func lockPool(poolRepo repository.InventoryPoolRepository, batchID string) (*entity.InventoryPool, error) {
	pool, err := poolRepo.GetByBatchForUpdate(batchID)
	if err != nil {
		return nil, err
	}
	if pool == nil {
		return nil, domain.ErrNotFound
	}
	return pool, nil
}

// apply persiste el pool mutado y registra el movimiento en el libro.
func apply(
	poolRepo repository.InventoryPoolRepository,
	movRepo repository.MovementRepository,
	pool *entity.InventoryPool,
	movType string, delta int64, ref MovementRef,
) error {
	now := time.Now()
	pool.UpdatedAt = now
	if err := poolRepo.Update(pool); err != nil {
		return err
	}
	return movRepo.Create(&entity.MovementRecord{
		ID:            uuid.New().String(),
		BatchID:       pool.BatchID,
		PoolID:        pool.ID,
		Type:          movType,
		QuantityDelta: delta,
		Reason:        ref.Reason,
		ActorID:       ref.ActorID,
		OrderID:       ref.OrderID,
		PurchaseID:    ref.PurchaseID,
		CreatedAt:     now,
	})
}

// Reserve aparta qty de estantería para un pedido. Falla con
// ErrInsufficientShelfStock si no hay disponibilidad.
func (s *PoolStore) Reserve(
	poolRepo repository.InventoryPoolRepository,
	movRepo repository.MovementRepository,
	batchID string, qty int64, ref MovementRef,
) error {
	pool, err := lockPool(poolRepo, batchID)
	if err != nil {
		return err
	}
	if err := pool.Reserve(qty); err != nil {
		return err
	}
	// Reserva: las unidades no entran ni salen; el delta registra el apartado
	// con signo contra la disponibilidad.
	return apply(poolRepo, movRepo, pool, entity.MovementTypeAudit, -qty, ref)
}

// Release devuelve qty reservadas a disponibilidad. Si la reserva era menor,
// recorta y deja advertencia: no debería pasar si las transiciones se respetan.
func (s *PoolStore) Release(
	poolRepo repository.InventoryPoolRepository,
	movRepo repository.MovementRepository,
	batchID string, qty int64, ref MovementRef,
) error {
	pool, err := lockPool(poolRepo, batchID)
	if err != nil {
		return err
	}
	released, err := pool.Release(qty)
	if err != nil {
		return err
	}
	if released < qty {
		s.log.Warn().
			Str("batch_id", batchID).
			Int64("solicitado", qty).
			Int64("liberado", released).
			Msg("release recortado: la reserva era menor que lo solicitado")
	}
	if released == 0 {
		return nil // nada que liberar ni registrar
	}
	return apply(poolRepo, movRepo, pool, entity.MovementTypeAudit, released, ref)
}

// Consume descuenta qty reservadas: la venta se concretó y el stock sale del
// sistema. Falla duro con ErrInsufficientReservedStock.
func (s *PoolStore) Consume(
	poolRepo repository.InventoryPoolRepository,
	movRepo repository.MovementRepository,
	batchID string, qty int64, ref MovementRef,
) error {
	pool, err := lockPool(poolRepo, batchID)
	if err != nil {
		return err
	}
	if err := pool.Consume(qty); err != nil {
		return err
	}
	return apply(poolRepo, movRepo, pool, entity.MovementTypeOut, -qty, ref)
}

// Receive ingresa qty unidades nuevas a bodega (compra recibida).
func (s *PoolStore) Receive(
	poolRepo repository.InventoryPoolRepository,
	movRepo repository.MovementRepository,
	batchID string, qty int64, ref MovementRef,
) error {
	pool, err := lockPool(poolRepo, batchID)
	if err != nil {
		return err
	}
	if err := pool.Receive(qty); err != nil {
		return err
	}
	return apply(poolRepo, movRepo, pool, entity.MovementTypeIn, qty, ref)
}

// Return reingresa qty unidades a estantería (pedido reembolsado).
func (s *PoolStore) Return(
	poolRepo repository.InventoryPoolRepository,
	movRepo repository.MovementRepository,
	batchID string, qty int64, ref MovementRef,
) error {
	pool, err := lockPool(poolRepo, batchID)
	if err != nil {
		return err
	}
	if err := pool.Return(qty); err != nil {
		return err
	}
	return apply(poolRepo, movRepo, pool, entity.MovementTypeIn, qty, ref)
}

// Transfer mueve qty entre bodega y estantería. El delta se registra positivo
// hacia estantería y negativo hacia bodega.
func (s *PoolStore) Transfer(
	poolRepo repository.InventoryPoolRepository,
	movRepo repository.MovementRepository,
	batchID string, qty int64, direction string, ref MovementRef,
) error {
	pool, err := lockPool(poolRepo, batchID)
	if err != nil {
		return err
	}
	if err := pool.Transfer(qty, direction); err != nil {
		return err
	}
	delta := qty
	if direction == entity.TransferToHand {
		delta = -qty
	}
	return apply(poolRepo, movRepo, pool, entity.MovementTypeTransfer, delta, ref)
}

// Adjust aplica una corrección manual sobre estantería: delta positivo suma,
// negativo resta. Nunca deja el disponible negativo.
func (s *PoolStore) Adjust(
	poolRepo repository.InventoryPoolRepository,
	movRepo repository.MovementRepository,
	batchID string, delta int64, ref MovementRef,
) error {
	if delta == 0 {
		return domain.ErrInvalidInput
	}
	pool, err := lockPool(poolRepo, batchID)
	if err != nil {
		return err
	}
	if delta < 0 && pool.Available() < -delta {
		return domain.ErrInsufficientShelfStock
	}
	pool.QuantityOnShelf += delta
	return apply(poolRepo, movRepo, pool, entity.MovementTypeAdjustment, delta, ref)
}
