package inventory

import (
	"context"

	"github.com/jhoicas/Pedidos-api/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD, pasando
// repositorios atados a esa tx. Garantiza atomicidad para las operaciones de
// inventario que no nacen de una transición de pedido (traslados, ajustes).
type TxRunner interface {
	Run(ctx context.Context, fn func(
		poolRepo repository.InventoryPoolRepository,
		movRepo repository.MovementRepository,
		batchRepo repository.BatchRepository,
	) error) error
}
