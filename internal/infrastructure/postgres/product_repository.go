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

var _ repository.ProductRepository = (*ProductRepo)(nil)

// ProductRepo implementación de ProductRepository sobre PostgreSQL (usable con pool o tx).
type ProductRepo struct {
	q Querier
}

// NewProductRepository construye el adaptador de productos. Pasar pool o tx (Querier).
func NewProductRepository(q Querier) *ProductRepo {
	return &ProductRepo{q: q}
}

const productColumns = `id, company_id, sku, name, description, price, unit_measure,
	active, created_at, updated_at`

func scanProduct(row pgx.Row) (*entity.Product, error) {
	var p entity.Product
	err := row.Scan(
		&p.ID, &p.CompanyID, &p.SKU, &p.Name, &p.Description, &p.Price,
		&p.UnitMeasure, &p.Active, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// Create inserta un producto. El par (company_id, sku) es único.
func (r *ProductRepo) Create(product *entity.Product) error {
	query := `
		INSERT INTO products (` + productColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	_, err := r.q.Exec(context.Background(), query,
		product.ID, product.CompanyID, product.SKU, product.Name, product.Description,
		product.Price, product.UnitMeasure, product.Active, product.CreatedAt, product.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("create product: %w", err)
	}
	return nil
}

// GetByID obtiene un producto por ID. Devuelve nil sin error si no existe.
func (r *ProductRepo) GetByID(id string) (*entity.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE id = $1`
	p, err := scanProduct(r.q.QueryRow(context.Background(), query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get product: %w", err)
	}
	return p, nil
}

// GetByCompanyAndSKU busca por SKU dentro de la empresa. Nil sin error si no existe.
func (r *ProductRepo) GetByCompanyAndSKU(companyID, sku string) (*entity.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE company_id = $1 AND sku = $2`
	p, err := scanProduct(r.q.QueryRow(context.Background(), query, companyID, sku))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get product by sku: %w", err)
	}
	return p, nil
}

// Update persiste los campos editables del producto.
func (r *ProductRepo) Update(product *entity.Product) error {
	query := `
		UPDATE products
		SET name = $2, description = $3, price = $4, unit_measure = $5, active = $6, updated_at = $7
		WHERE id = $1`
	tag, err := r.q.Exec(context.Background(), query,
		product.ID, product.Name, product.Description, product.Price,
		product.UnitMeasure, product.Active, product.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update product: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// ListByCompany lista productos de la empresa ordenados por nombre.
func (r *ProductRepo) ListByCompany(companyID string, limit, offset int) ([]*entity.Product, error) {
	query := `
		SELECT ` + productColumns + `
		FROM products
		WHERE company_id = $1
		ORDER BY name ASC
		LIMIT $2 OFFSET $3`
	rows, err := r.q.Query(context.Background(), query, companyID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	defer rows.Close()

	var out []*entity.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// Delete elimina un producto sin lotes asociados; la FK de batches lo impide
// si ya recibió mercancía.
func (r *ProductRepo) Delete(id string) error {
	tag, err := r.q.Exec(context.Background(), `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete product: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
