package repository

import "github.com/jhoicas/Pedidos-api/internal/domain/entity"

// OrderRepository define el puerto de persistencia para pedidos y sus líneas.
type OrderRepository interface {
	Create(order *entity.Order) error
	CreateLineItem(item *entity.LineItem) error
	GetByID(id string) (*entity.Order, error)
	// GetByIDForUpdate bloquea la fila del pedido (SELECT FOR UPDATE): dos
	// transiciones concurrentes del mismo pedido se serializan sobre ella.
	GetByIDForUpdate(id string) (*entity.Order, error)
	GetLineItems(orderID string) ([]*entity.LineItem, error)
	// UpdateStatus persiste status, paymentStatus y updated_at del pedido.
	UpdateStatus(order *entity.Order) error
	UpdatePaymentStatus(orderID, paymentStatus string) error
	ListByCompany(companyID string, status string, limit, offset int) ([]*entity.Order, error)
}
