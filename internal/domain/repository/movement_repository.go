package repository

import (
	"time"

	"github.com/jhoicas/Pedidos-api/internal/domain/entity"
)

// MovementRepository define el puerto del libro de movimientos.
// Solo inserta y consulta: el libro es append-only, no existe Update ni Delete.
type MovementRepository interface {
	Create(record *entity.MovementRecord) error
	ListByBatch(batchID string, from, to *time.Time, limit, offset int) ([]*entity.MovementRecord, error)
	ListByOrder(orderID string) ([]*entity.MovementRecord, error)
}
