package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/Pedidos-api/internal/domain/entity"
	"github.com/jhoicas/Pedidos-api/internal/domain/repository"
)

var _ repository.InventoryPoolRepository = (*InventoryPoolRepo)(nil)

// InventoryPoolRepo implementación de InventoryPoolRepository sobre PostgreSQL
// (usable con pool o tx). Las mutaciones van siempre dentro de una tx con la
// fila tomada vía GetByBatchForUpdate.
type InventoryPoolRepo struct {
	q Querier
}

// NewInventoryPoolRepository construye el adaptador. Pasar pool o tx (Querier).
func NewInventoryPoolRepository(q Querier) *InventoryPoolRepo {
	return &InventoryPoolRepo{q: q}
}

const poolColumns = `id, batch_id, quantity_on_hand, quantity_on_shelf, quantity_reserved, updated_at`

func scanPool(row pgx.Row) (*entity.InventoryPool, error) {
	var p entity.InventoryPool
	err := row.Scan(&p.ID, &p.BatchID, &p.QuantityOnHand, &p.QuantityOnShelf, &p.QuantityReserved, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// Create inserta el pool de un lote recién recibido.
func (r *InventoryPoolRepo) Create(pool *entity.InventoryPool) error {
	query := `
		INSERT INTO inventory_pools (` + poolColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6)`
	_, err := r.q.Exec(context.Background(), query,
		pool.ID, pool.BatchID, pool.QuantityOnHand, pool.QuantityOnShelf, pool.QuantityReserved, pool.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("create pool: el lote %s ya tiene pool", pool.BatchID)
		}
		return fmt.Errorf("create pool: %w", err)
	}
	return nil
}

// GetByBatch obtiene el pool de un lote. Devuelve nil sin error si no existe.
func (r *InventoryPoolRepo) GetByBatch(batchID string) (*entity.InventoryPool, error) {
	query := `SELECT ` + poolColumns + ` FROM inventory_pools WHERE batch_id = $1`
	p, err := scanPool(r.q.QueryRow(context.Background(), query, batchID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get pool: %w", err)
	}
	return p, nil
}

// GetByBatchForUpdate obtiene el pool y bloquea la fila (SELECT FOR UPDATE).
// La fila queda tomada hasta el Commit/Rollback de la transacción en curso.
func (r *InventoryPoolRepo) GetByBatchForUpdate(batchID string) (*entity.InventoryPool, error) {
	query := `SELECT ` + poolColumns + ` FROM inventory_pools WHERE batch_id = $1 FOR UPDATE`
	p, err := scanPool(r.q.QueryRow(context.Background(), query, batchID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, mapConflict(fmt.Errorf("get pool for update: %w", err))
	}
	return p, nil
}

// Update persiste los tres contadores. El CHECK de la tabla respalda en BD que
// ningún contador quede negativo ni la reserva supere la estantería.
func (r *InventoryPoolRepo) Update(pool *entity.InventoryPool) error {
	query := `
		UPDATE inventory_pools
		SET quantity_on_hand = $2, quantity_on_shelf = $3, quantity_reserved = $4, updated_at = $5
		WHERE id = $1`
	tag, err := r.q.Exec(context.Background(), query,
		pool.ID, pool.QuantityOnHand, pool.QuantityOnShelf, pool.QuantityReserved, pool.UpdatedAt,
	)
	if err != nil {
		return mapConflict(fmt.Errorf("update pool: %w", err))
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("update pool: pool %s no existe", pool.ID)
	}
	return nil
}
