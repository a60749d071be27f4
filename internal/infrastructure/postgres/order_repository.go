package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/Pedidos-api/internal/domain/entity"
	"github.com/jhoicas/Pedidos-api/internal/domain/repository"
)

var _ repository.OrderRepository = (*OrderRepo)(nil)

// OrderRepo implementación de OrderRepository sobre PostgreSQL (usable con pool o tx).
// Las líneas son inmutables después del INSERT: no hay UpdateLineItem.
type OrderRepo struct {
	q Querier
}

// NewOrderRepository construye el adaptador de pedidos. Pasar pool o tx (Querier).
func NewOrderRepository(q Querier) *OrderRepo {
	return &OrderRepo{q: q}
}

const orderColumns = `id, company_id, customer_id, created_by, status, payment_status,
	shipping_fee, discount_pct, total, created_at, updated_at`

func scanOrder(row pgx.Row) (*entity.Order, error) {
	var o entity.Order
	err := row.Scan(
		&o.ID, &o.CompanyID, &o.CustomerID, &o.CreatedBy, &o.Status, &o.PaymentStatus,
		&o.ShippingFee, &o.DiscountPct, &o.Total, &o.CreatedAt, &o.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &o, nil
}

// Create inserta la cabecera del pedido.
func (r *OrderRepo) Create(order *entity.Order) error {
	query := `
		INSERT INTO orders (` + orderColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`
	_, err := r.q.Exec(context.Background(), query,
		order.ID, order.CompanyID, order.CustomerID, order.CreatedBy, order.Status,
		order.PaymentStatus, order.ShippingFee, order.DiscountPct, order.Total,
		order.CreatedAt, order.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("create order: %w", err)
	}
	return nil
}

// CreateLineItem inserta una línea del pedido.
func (r *OrderRepo) CreateLineItem(item *entity.LineItem) error {
	query := `
		INSERT INTO order_line_items (id, order_id, product_id, batch_id, quantity, unit_price)
		VALUES ($1, $2, $3, $4, $5, $6)`
	_, err := r.q.Exec(context.Background(), query,
		item.ID, item.OrderID, item.ProductID, item.BatchID, item.Quantity, item.UnitPrice,
	)
	if err != nil {
		return fmt.Errorf("create line item: %w", err)
	}
	return nil
}

// GetByID obtiene la cabecera del pedido. Devuelve nil sin error si no existe.
// Las líneas se cargan aparte con GetLineItems.
func (r *OrderRepo) GetByID(id string) (*entity.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE id = $1`
	o, err := scanOrder(r.q.QueryRow(context.Background(), query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get order: %w", err)
	}
	return o, nil
}

// GetByIDForUpdate obtiene la cabecera bloqueando la fila hasta el fin de la
// transacción. Usar solo dentro de una tx del TxRunner.
func (r *OrderRepo) GetByIDForUpdate(id string) (*entity.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE id = $1 FOR UPDATE`
	o, err := scanOrder(r.q.QueryRow(context.Background(), query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, mapConflict(fmt.Errorf("get order for update: %w", err))
	}
	return o, nil
}

// GetLineItems devuelve las líneas del pedido en su orden de creación.
func (r *OrderRepo) GetLineItems(orderID string) ([]*entity.LineItem, error) {
	query := `
		SELECT id, order_id, product_id, batch_id, quantity, unit_price
		FROM order_line_items
		WHERE order_id = $1
		ORDER BY id ASC`
	rows, err := r.q.Query(context.Background(), query, orderID)
	if err != nil {
		return nil, fmt.Errorf("get line items: %w", err)
	}
	defer rows.Close()

	var out []*entity.LineItem
	for rows.Next() {
		var li entity.LineItem
		if err := rows.Scan(&li.ID, &li.OrderID, &li.ProductID, &li.BatchID, &li.Quantity, &li.UnitPrice); err != nil {
			return nil, fmt.Errorf("scan line item: %w", err)
		}
		out = append(out, &li)
	}
	return out, rows.Err()
}

// UpdateStatus persiste status, payment_status y updated_at del pedido.
func (r *OrderRepo) UpdateStatus(order *entity.Order) error {
	query := `
		UPDATE orders
		SET status = $2, payment_status = $3, updated_at = $4
		WHERE id = $1`
	tag, err := r.q.Exec(context.Background(), query,
		order.ID, order.Status, order.PaymentStatus, order.UpdatedAt,
	)
	if err != nil {
		return mapConflict(fmt.Errorf("update order status: %w", err))
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("update order status: pedido %s no existe", order.ID)
	}
	return nil
}

// UpdatePaymentStatus persiste solo el estado de pago (confirmación externa).
func (r *OrderRepo) UpdatePaymentStatus(orderID, paymentStatus string) error {
	query := `UPDATE orders SET payment_status = $2, updated_at = now() WHERE id = $1`
	tag, err := r.q.Exec(context.Background(), query, orderID, paymentStatus)
	if err != nil {
		return fmt.Errorf("update payment status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("update payment status: pedido %s no existe", orderID)
	}
	return nil
}

// ListByCompany lista pedidos de la empresa, más recientes primero, con filtro
// de estado opcional ("" = todos).
func (r *OrderRepo) ListByCompany(companyID string, status string, limit, offset int) ([]*entity.Order, error) {
	query := `
		SELECT ` + orderColumns + `
		FROM orders
		WHERE company_id = $1 AND ($2 = '' OR status = $2)
		ORDER BY created_at DESC
		LIMIT $3 OFFSET $4`
	rows, err := r.q.Query(context.Background(), query, companyID, status, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	defer rows.Close()

	var out []*entity.Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("scan order: %w", err)
		}
		out = append(out, o)
	}
	return out, rows.Err()
}
