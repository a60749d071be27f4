package orders

import (
	"context"
	"errors"
	"time"

	"github.com/jhoicas/Pedidos-api/internal/application/dto"
	"github.com/jhoicas/Pedidos-api/internal/application/inventory"
	"github.com/jhoicas/Pedidos-api/internal/domain"
	"github.com/jhoicas/Pedidos-api/internal/domain/entity"
	domainorder "github.com/jhoicas/Pedidos-api/internal/domain/order"
	"github.com/jhoicas/Pedidos-api/internal/domain/repository"
	"github.com/jhoicas/Pedidos-api/pkg/logger"
)

// Reintentos ante conflicto de concurrencia: la transición completa se vuelve a
// ejecutar desde cero, con espera lineal entre intentos.
const (
	maxConflictRetries = 3
	conflictRetryDelay = 50 * time.Millisecond
)

// TransitionOrderUseCase aplica la máquina de estados del pedido. Cada
// transición corre en una sola transacción: bloquea la fila del pedido y los
// pools de todas las líneas (SELECT FOR UPDATE), pre-valida que la acción sea viable
// para cada línea, aplica todas, escribe un MovementRecord por línea y
// actualiza el estado. Si una sola línea es inviable, nada se muta.
type TransitionOrderUseCase struct {
	txRunner TxRunner
	store    *inventory.PoolStore
	log      *logger.Logger
}

// NewTransitionOrderUseCase construye el caso de uso.
func NewTransitionOrderUseCase(txRunner TxRunner, store *inventory.PoolStore, log *logger.Logger) *TransitionOrderUseCase {
	return &TransitionOrderUseCase{txRunner: txRunner, store: store, log: log}
}

// Transition mueve el pedido a newStatus. Conflictos de concurrencia
// (ErrConflict) se reintentan completos hasta maxConflictRetries veces; todos
// los demás errores son terminales para la solicitud.
func (uc *TransitionOrderUseCase) Transition(ctx context.Context, companyID, userID, orderID, newStatus string) (*dto.OrderResponse, error) {
	var result *dto.OrderResponse
	var err error
	for attempt := 0; ; attempt++ {
		result, err = uc.transitionOnce(ctx, companyID, userID, orderID, newStatus)
		if err == nil || !errors.Is(err, domain.ErrConflict) || attempt >= maxConflictRetries {
			return result, err
		}
		uc.log.Warn().
			Str("order_id", orderID).
			Int("intento", attempt+1).
			Msg("conflicto de concurrencia en transición, reintentando")
		time.Sleep(time.Duration(attempt+1) * conflictRetryDelay)
	}
}

func (uc *TransitionOrderUseCase) transitionOnce(ctx context.Context, companyID, userID, orderID, newStatus string) (*dto.OrderResponse, error) {
	var updated *entity.Order
	err := uc.txRunner.RunOrder(ctx, func(
		orderRepo repository.OrderRepository,
		poolRepo repository.InventoryPoolRepository,
		movRepo repository.MovementRepository,
	) error {
		// La fila del pedido se bloquea primero: dos transiciones concurrentes
		// del mismo pedido se serializan aquí y la segunda decide sobre el
		// estado ya comprometido por la primera, no sobre uno obsoleto.
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

		// Estado previo leído bajo lock; la misma meta es un no-op idempotente.
		prev := order.Status
		if prev == newStatus {
			updated = order
			return nil
		}

		action, err := domainorder.TransitionAction(prev, newStatus)
		if err != nil {
			return err
		}

		items, err := orderRepo.GetLineItems(orderID)
		if err != nil {
			return err
		}
		order.LineItems = items

		if action != domainorder.ActionNone {
			// Pre-validación: bloquear el pool de cada línea y comprobar que la
			// acción es viable para el pedido ENTERO antes de aplicar nada.
			if err := uc.validateAll(poolRepo, items, action); err != nil {
				return err
			}
			if err := uc.applyAll(poolRepo, movRepo, order, items, action, userID); err != nil {
				return err
			}
		}

		order.Status = newStatus
		if newStatus == entity.OrderStatusRefunded {
			order.PaymentStatus = entity.PaymentStatusRefunded
		}
		order.UpdatedAt = time.Now()
		if err := orderRepo.UpdateStatus(order); err != nil {
			return err
		}
		updated = order
		return nil
	})
	if err != nil {
		return nil, err
	}
	return toOrderResponse(updated), nil
}

// validateAll bloquea los pools y verifica la viabilidad de la acción sin
// mutar nada. La demanda se agrega por lote: varias líneas sobre el mismo lote
// compiten por el mismo pool y la viabilidad se comprueba sobre la suma. Los
// pools quedan bloqueados hasta el Commit/Rollback.
func (uc *TransitionOrderUseCase) validateAll(
	poolRepo repository.InventoryPoolRepository,
	items []*entity.LineItem,
	action domainorder.PoolAction,
) error {
	totals := make(map[string]int64, len(items))
	batchIDs := make([]string, 0, len(items))
	for _, item := range items {
		if _, seen := totals[item.BatchID]; !seen {
			batchIDs = append(batchIDs, item.BatchID)
		}
		totals[item.BatchID] += item.Quantity
	}
	for _, batchID := range batchIDs {
		pool, err := poolRepo.GetByBatchForUpdate(batchID)
		if err != nil {
			return err
		}
		if pool == nil {
			return domain.ErrNotFound
		}
		switch action {
		case domainorder.ActionReserve:
			if pool.Available() < totals[batchID] {
				return domain.ErrInsufficientShelfStock
			}
		case domainorder.ActionConsume:
			if pool.QuantityReserved < totals[batchID] {
				return domain.ErrInsufficientReservedStock
			}
		case domainorder.ActionRelease, domainorder.ActionReturn:
			// Release recorta al saldo reservado y Return siempre procede.
		}
	}
	return nil
}

// applyAll ejecuta la acción sobre cada línea vía PoolStore: una mutación de
// pool y un MovementRecord por línea, todo dentro de la transacción en curso.
func (uc *TransitionOrderUseCase) applyAll(
	poolRepo repository.InventoryPoolRepository,
	movRepo repository.MovementRepository,
	order *entity.Order,
	items []*entity.LineItem,
	action domainorder.PoolAction,
	userID string,
) error {
	for _, item := range items {
		ref := inventory.MovementRef{
			ActorID: userID,
			OrderID: order.ID,
			Reason:  "pedido " + order.ID + ": " + action.String(),
		}
		var err error
		switch action {
		case domainorder.ActionReserve:
			err = uc.store.Reserve(poolRepo, movRepo, item.BatchID, item.Quantity, ref)
		case domainorder.ActionRelease:
			err = uc.store.Release(poolRepo, movRepo, item.BatchID, item.Quantity, ref)
		case domainorder.ActionConsume:
			err = uc.store.Consume(poolRepo, movRepo, item.BatchID, item.Quantity, ref)
		case domainorder.ActionReturn:
			err = uc.store.Return(poolRepo, movRepo, item.BatchID, item.Quantity, ref)
		}
		if err != nil {
			return err
		}
	}
	return nil
}
