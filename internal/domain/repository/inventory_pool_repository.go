package repository

import "github.com/jhoicas/Pedidos-api/internal/domain/entity"

// InventoryPoolRepository define el puerto para los pools de inventario por lote.
// Usado dentro de transacciones para garantizar consistencia.
type InventoryPoolRepository interface {
	Create(pool *entity.InventoryPool) error
	GetByBatch(batchID string) (*entity.InventoryPool, error)
	// GetByBatchForUpdate bloquea la fila para update (SELECT FOR UPDATE).
	GetByBatchForUpdate(batchID string) (*entity.InventoryPool, error)
	Update(pool *entity.InventoryPool) error
}
