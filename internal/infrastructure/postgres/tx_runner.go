package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jhoicas/Pedidos-api/internal/application/inventory"
	"github.com/jhoicas/Pedidos-api/internal/application/orders"
	"github.com/jhoicas/Pedidos-api/internal/application/purchasing"
	"github.com/jhoicas/Pedidos-api/internal/domain/repository"
)

// Ensure TxRunner implementa los puertos transaccionales de la aplicación.
var _ inventory.TxRunner = (*TxRunner)(nil)
var _ orders.TxRunner = (*TxRunner)(nil)
var _ purchasing.TxRunner = (*TxRunner)(nil)

// TxRunner ejecuta callbacks dentro de una transacción PostgreSQL. Los errores
// de contención (serialización, deadlock, lock) salen como domain.ErrConflict
// para que el caller decida reintentar.
type TxRunner struct {
	pool *pgxpool.Pool
}

// NewTxRunner construye el runner con el pool.
func NewTxRunner(pool *pgxpool.Pool) *TxRunner {
	return &TxRunner{pool: pool}
}

func (r *TxRunner) inTx(ctx context.Context, fn func(tx pgx.Tx) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(tx); err != nil {
		return mapConflict(err)
	}
	if err := tx.Commit(ctx); err != nil {
		return mapConflict(fmt.Errorf("commit transaction: %w", err))
	}
	return nil
}

// Run inicia una transacción con los repos de inventario (traslados, ajustes).
func (r *TxRunner) Run(ctx context.Context, fn func(
	poolRepo repository.InventoryPoolRepository,
	movRepo repository.MovementRepository,
	batchRepo repository.BatchRepository,
) error) error {
	return r.inTx(ctx, func(tx pgx.Tx) error {
		return fn(NewInventoryPoolRepository(tx), NewMovementRepository(tx), NewBatchRepository(tx))
	})
}

// RunOrder inicia una transacción con los repos del motor de pedidos:
// transición de estado, mutación de pools y libro de movimientos juntos.
func (r *TxRunner) RunOrder(ctx context.Context, fn func(
	orderRepo repository.OrderRepository,
	poolRepo repository.InventoryPoolRepository,
	movRepo repository.MovementRepository,
) error) error {
	return r.inTx(ctx, func(tx pgx.Tx) error {
		return fn(NewOrderRepository(tx), NewInventoryPoolRepository(tx), NewMovementRepository(tx))
	})
}

// RunPurchase inicia una transacción para una recepción de compra completa.
func (r *TxRunner) RunPurchase(ctx context.Context, fn func(
	purchaseRepo repository.PurchaseRepository,
	batchRepo repository.BatchRepository,
	poolRepo repository.InventoryPoolRepository,
	movRepo repository.MovementRepository,
) error) error {
	return r.inTx(ctx, func(tx pgx.Tx) error {
		return fn(NewPurchaseRepository(tx), NewBatchRepository(tx), NewInventoryPoolRepository(tx), NewMovementRepository(tx))
	})
}
