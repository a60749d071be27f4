package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/Pedidos-api/internal/domain/entity"
	"github.com/jhoicas/Pedidos-api/internal/domain/repository"
)

var _ repository.MovementRepository = (*MovementRepo)(nil)

// MovementRepo implementación del libro de movimientos sobre PostgreSQL.
// Append-only: solo INSERT y SELECT; la tabla no admite UPDATE ni DELETE
// desde la aplicación.
type MovementRepo struct {
	q Querier
}

// NewMovementRepository construye el adaptador. Pasar pool o tx (Querier).
func NewMovementRepository(q Querier) *MovementRepo {
	return &MovementRepo{q: q}
}

const movementColumns = `id, batch_id, pool_id, type, quantity_delta, reason,
	actor_id, order_id, purchase_id, created_at`

func scanMovement(row pgx.Row) (*entity.MovementRecord, error) {
	var m entity.MovementRecord
	err := row.Scan(
		&m.ID, &m.BatchID, &m.PoolID, &m.Type, &m.QuantityDelta, &m.Reason,
		&m.ActorID, &m.OrderID, &m.PurchaseID, &m.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// Create inserta una entrada en el libro.
func (r *MovementRepo) Create(record *entity.MovementRecord) error {
	query := `
		INSERT INTO inventory_movements (` + movementColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	_, err := r.q.Exec(context.Background(), query,
		record.ID, record.BatchID, record.PoolID, record.Type, record.QuantityDelta,
		record.Reason, record.ActorID, record.OrderID, record.PurchaseID, record.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("create movement: %w", err)
	}
	return nil
}

// ListByBatch consulta el libro de un lote, más recientes primero, con rango
// de fechas opcional.
func (r *MovementRepo) ListByBatch(batchID string, from, to *time.Time, limit, offset int) ([]*entity.MovementRecord, error) {
	query := `
		SELECT ` + movementColumns + `
		FROM inventory_movements
		WHERE batch_id = $1
		  AND ($2::timestamptz IS NULL OR created_at >= $2)
		  AND ($3::timestamptz IS NULL OR created_at <= $3)
		ORDER BY created_at DESC, id DESC
		LIMIT $4 OFFSET $5`
	rows, err := r.q.Query(context.Background(), query, batchID, from, to, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list movements: %w", err)
	}
	defer rows.Close()

	var out []*entity.MovementRecord
	for rows.Next() {
		m, err := scanMovement(rows)
		if err != nil {
			return nil, fmt.Errorf("scan movement: %w", err)
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

// ListByOrder devuelve todas las entradas ligadas a un pedido, en orden de inserción.
func (r *MovementRepo) ListByOrder(orderID string) ([]*entity.MovementRecord, error) {
	query := `
		SELECT ` + movementColumns + `
		FROM inventory_movements
		WHERE order_id = $1
		ORDER BY created_at ASC, id ASC`
	rows, err := r.q.Query(context.Background(), query, orderID)
	if err != nil {
		return nil, fmt.Errorf("list movements by order: %w", err)
	}
	defer rows.Close()

	var out []*entity.MovementRecord
	for rows.Next() {
		m, err := scanMovement(rows)
		if err != nil {
			return nil, fmt.Errorf("scan movement: %w", err)
		}
		out = append(out, m)
	}
	return out, rows.Err()
}
