package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/Pedidos-api/internal/domain/entity"
	"github.com/jhoicas/Pedidos-api/internal/domain/repository"
)

var _ repository.BatchRepository = (*BatchRepo)(nil)

// BatchRepo implementación de BatchRepository sobre PostgreSQL (usable con pool o tx).
type BatchRepo struct {
	q Querier
}

// NewBatchRepository construye el adaptador de lotes. Pasar pool o tx (Querier).
func NewBatchRepository(q Querier) *BatchRepo {
	return &BatchRepo{q: q}
}

const batchColumns = `id, company_id, product_id, supplier_id, code, expiry_date,
	manufacture_date, cost_price, unit_price, status, created_at, updated_at`

func scanBatch(row pgx.Row) (*entity.Batch, error) {
	var b entity.Batch
	err := row.Scan(
		&b.ID, &b.CompanyID, &b.ProductID, &b.SupplierID, &b.Code, &b.ExpiryDate,
		&b.ManufactureDate, &b.CostPrice, &b.UnitPrice, &b.Status, &b.CreatedAt, &b.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &b, nil
}

// Create inserta un lote nuevo.
func (r *BatchRepo) Create(batch *entity.Batch) error {
	query := `
		INSERT INTO batches (` + batchColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`
	_, err := r.q.Exec(context.Background(), query,
		batch.ID, batch.CompanyID, batch.ProductID, batch.SupplierID, batch.Code,
		batch.ExpiryDate, batch.ManufactureDate, batch.CostPrice, batch.UnitPrice,
		batch.Status, batch.CreatedAt, batch.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("create batch: %w", err)
	}
	return nil
}

// GetByID obtiene un lote por ID. Devuelve nil sin error si no existe.
func (r *BatchRepo) GetByID(id string) (*entity.Batch, error) {
	query := `SELECT ` + batchColumns + ` FROM batches WHERE id = $1`
	b, err := scanBatch(r.q.QueryRow(context.Background(), query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get batch: %w", err)
	}
	return b, nil
}

// ListActiveByProduct devuelve los lotes active del producto en orden FEFO:
// vencimiento ascendente, sin vencimiento al final, empate resuelto por id.
func (r *BatchRepo) ListActiveByProduct(productID string) ([]*entity.Batch, error) {
	query := `
		SELECT ` + batchColumns + `
		FROM batches
		WHERE product_id = $1 AND status = 'active'
		ORDER BY expiry_date ASC NULLS LAST, id ASC`
	rows, err := r.q.Query(context.Background(), query, productID)
	if err != nil {
		return nil, fmt.Errorf("list active batches: %w", err)
	}
	defer rows.Close()

	var out []*entity.Batch
	for rows.Next() {
		b, err := scanBatch(rows)
		if err != nil {
			return nil, fmt.Errorf("scan batch: %w", err)
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

// ListByCompany lista lotes de la empresa, más recientes primero.
func (r *BatchRepo) ListByCompany(companyID string, limit, offset int) ([]*entity.Batch, error) {
	query := `
		SELECT ` + batchColumns + `
		FROM batches
		WHERE company_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3`
	rows, err := r.q.Query(context.Background(), query, companyID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list batches: %w", err)
	}
	defer rows.Close()

	var out []*entity.Batch
	for rows.Next() {
		b, err := scanBatch(rows)
		if err != nil {
			return nil, fmt.Errorf("scan batch: %w", err)
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

// UpdateStatus cambia el estado del lote (active -> expired).
func (r *BatchRepo) UpdateStatus(id, status string) error {
	query := `UPDATE batches SET status = $2, updated_at = now() WHERE id = $1`
	tag, err := r.q.Exec(context.Background(), query, id, status)
	if err != nil {
		return fmt.Errorf("update batch status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("update batch status: lote %s no existe", id)
	}
	return nil
}
