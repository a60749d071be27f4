package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/Pedidos-api/internal/domain/entity"
	"github.com/jhoicas/Pedidos-api/internal/domain/repository"
)

var _ repository.PurchaseRepository = (*PurchaseRepo)(nil)

// PurchaseRepo implementación de PurchaseRepository sobre PostgreSQL.
type PurchaseRepo struct {
	q Querier
}

// NewPurchaseRepository construye el adaptador de compras. Pasar pool o tx (Querier).
func NewPurchaseRepository(q Querier) *PurchaseRepo {
	return &PurchaseRepo{q: q}
}

const purchaseColumns = `id, company_id, supplier_id, reference, received_by, received_at`

func scanPurchase(row pgx.Row) (*entity.Purchase, error) {
	var p entity.Purchase
	err := row.Scan(&p.ID, &p.CompanyID, &p.SupplierID, &p.Reference, &p.ReceivedBy, &p.ReceivedAt)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// Create inserta la cabecera de una recepción.
func (r *PurchaseRepo) Create(purchase *entity.Purchase) error {
	query := `
		INSERT INTO purchases (` + purchaseColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6)`
	_, err := r.q.Exec(context.Background(), query,
		purchase.ID, purchase.CompanyID, purchase.SupplierID, purchase.Reference,
		purchase.ReceivedBy, purchase.ReceivedAt,
	)
	if err != nil {
		return fmt.Errorf("create purchase: %w", err)
	}
	return nil
}

// GetByID obtiene una recepción por ID. Devuelve nil sin error si no existe.
func (r *PurchaseRepo) GetByID(id string) (*entity.Purchase, error) {
	query := `SELECT ` + purchaseColumns + ` FROM purchases WHERE id = $1`
	p, err := scanPurchase(r.q.QueryRow(context.Background(), query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get purchase: %w", err)
	}
	return p, nil
}

// ListByCompany lista recepciones de la empresa, más recientes primero.
func (r *PurchaseRepo) ListByCompany(companyID string, limit, offset int) ([]*entity.Purchase, error) {
	query := `
		SELECT ` + purchaseColumns + `
		FROM purchases
		WHERE company_id = $1
		ORDER BY received_at DESC
		LIMIT $2 OFFSET $3`
	rows, err := r.q.Query(context.Background(), query, companyID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list purchases: %w", err)
	}
	defer rows.Close()

	var out []*entity.Purchase
	for rows.Next() {
		p, err := scanPurchase(rows)
		if err != nil {
			return nil, fmt.Errorf("scan purchase: %w", err)
		}
		out = append(out, p)
	}
	return out, rows.Err()
}
