package repository

import "github.com/jhoicas/Pedidos-api/internal/domain/entity"

// PurchaseRepository define el puerto de persistencia para recepciones de compra.
type PurchaseRepository interface {
	Create(purchase *entity.Purchase) error
	GetByID(id string) (*entity.Purchase, error)
	ListByCompany(companyID string, limit, offset int) ([]*entity.Purchase, error)
}
