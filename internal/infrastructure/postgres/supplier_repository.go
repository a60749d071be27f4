package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/Pedidos-api/internal/domain"
	"github.com/jhoicas/Pedidos-api/internal/domain/entity"
	"github.com/jhoicas/Pedidos-api/internal/domain/repository"
)

var _ repository.SupplierRepository = (*SupplierRepo)(nil)

// SupplierRepo implementación de SupplierRepository sobre PostgreSQL.
type SupplierRepo struct {
	q Querier
}

// NewSupplierRepository construye el adaptador de proveedores. Pasar pool o tx (Querier).
func NewSupplierRepository(q Querier) *SupplierRepo {
	return &SupplierRepo{q: q}
}

const supplierColumns = `id, company_id, name, tax_id, email, phone, created_at, updated_at`

func scanSupplier(row pgx.Row) (*entity.Supplier, error) {
	var s entity.Supplier
	err := row.Scan(&s.ID, &s.CompanyID, &s.Name, &s.TaxID, &s.Email, &s.Phone, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// Create inserta un proveedor.
func (r *SupplierRepo) Create(supplier *entity.Supplier) error {
	query := `
		INSERT INTO suppliers (` + supplierColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := r.q.Exec(context.Background(), query,
		supplier.ID, supplier.CompanyID, supplier.Name, supplier.TaxID,
		supplier.Email, supplier.Phone, supplier.CreatedAt, supplier.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("create supplier: %w", err)
	}
	return nil
}

// GetByID obtiene un proveedor por ID. Devuelve nil sin error si no existe.
func (r *SupplierRepo) GetByID(id string) (*entity.Supplier, error) {
	query := `SELECT ` + supplierColumns + ` FROM suppliers WHERE id = $1`
	s, err := scanSupplier(r.q.QueryRow(context.Background(), query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get supplier: %w", err)
	}
	return s, nil
}

// Update persiste los campos editables del proveedor.
func (r *SupplierRepo) Update(supplier *entity.Supplier) error {
	query := `
		UPDATE suppliers
		SET name = $2, tax_id = $3, email = $4, phone = $5, updated_at = $6
		WHERE id = $1`
	tag, err := r.q.Exec(context.Background(), query,
		supplier.ID, supplier.Name, supplier.TaxID, supplier.Email, supplier.Phone, supplier.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update supplier: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// ListByCompany lista proveedores de la empresa ordenados por nombre.
func (r *SupplierRepo) ListByCompany(companyID string, limit, offset int) ([]*entity.Supplier, error) {
	query := `
		SELECT ` + supplierColumns + `
		FROM suppliers
		WHERE company_id = $1
		ORDER BY name ASC
		LIMIT $2 OFFSET $3`
	rows, err := r.q.Query(context.Background(), query, companyID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list suppliers: %w", err)
	}
	defer rows.Close()

	var out []*entity.Supplier
	for rows.Next() {
		s, err := scanSupplier(rows)
		if err != nil {
			return nil, fmt.Errorf("scan supplier: %w", err)
		}
		out = append(out, s)
	}
	return out, rows.Err()
}
