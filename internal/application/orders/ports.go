package orders

import (
	"context"

	"github.com/jhoicas/Pedidos-api/internal/application/allocation"
	"github.com/jhoicas/Pedidos-api/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD con los
// repositorios del motor de pedidos atados a esa tx. La unidad entera hace
// Commit o Rollback: pedido, líneas, pools y movimientos viven o mueren juntos.
type TxRunner interface {
	RunOrder(ctx context.Context, fn func(
		orderRepo repository.OrderRepository,
		poolRepo repository.InventoryPoolRepository,
		movRepo repository.MovementRepository,
	) error) error
}

// Planner puerto hacia el planificador FEFO (solo lectura, plan advisory).
type Planner interface {
	Allocate(productID string, requested int64) ([]allocation.Pick, error)
}
