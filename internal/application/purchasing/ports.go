package purchasing

import (
	"context"

	"github.com/jhoicas/Pedidos-api/internal/domain/repository"
)

// TxRunner ejecuta una recepción completa en una transacción: cabecera de
// compra, lotes nuevos, pools y movimientos `in` se confirman o descartan juntos.
type TxRunner interface {
	RunPurchase(ctx context.Context, fn func(
		purchaseRepo repository.PurchaseRepository,
		batchRepo repository.BatchRepository,
		poolRepo repository.InventoryPoolRepository,
		movRepo repository.MovementRepository,
	) error) error
}
