package repository

import "github.com/jhoicas/Pedidos-api/internal/domain/entity"

// BatchRepository define el puerto de persistencia para lotes.
// ListActiveByProduct devuelve los lotes active del producto ordenados por
// vencimiento ascendente (sin vencimiento al final, empate por id): el orden
// FEFO lo decide la base de datos una sola vez.
type BatchRepository interface {
	Create(batch *entity.Batch) error
	GetByID(id string) (*entity.Batch, error)
	ListActiveByProduct(productID string) ([]*entity.Batch, error)
	ListByCompany(companyID string, limit, offset int) ([]*entity.Batch, error)
	UpdateStatus(id, status string) error
}
