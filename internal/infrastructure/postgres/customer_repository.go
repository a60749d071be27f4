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

var _ repository.CustomerRepository = (*CustomerRepo)(nil)

// CustomerRepo implementación de CustomerRepository sobre PostgreSQL.
type CustomerRepo struct {
	q Querier
}

// NewCustomerRepository construye el adaptador de clientes. Pasar pool o tx (Querier).
func NewCustomerRepository(q Querier) *CustomerRepo {
	return &CustomerRepo{q: q}
}

const customerColumns = `id, company_id, name, tax_id, email, phone, type, active, created_at, updated_at`

func scanCustomer(row pgx.Row) (*entity.Customer, error) {
	var c entity.Customer
	err := row.Scan(
		&c.ID, &c.CompanyID, &c.Name, &c.TaxID, &c.Email, &c.Phone,
		&c.Type, &c.Active, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// Create inserta un cliente.
func (r *CustomerRepo) Create(customer *entity.Customer) error {
	query := `
		INSERT INTO customers (` + customerColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	_, err := r.q.Exec(context.Background(), query,
		customer.ID, customer.CompanyID, customer.Name, customer.TaxID, customer.Email,
		customer.Phone, customer.Type, customer.Active, customer.CreatedAt, customer.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("create customer: %w", err)
	}
	return nil
}

// GetByID obtiene un cliente por ID. Devuelve nil sin error si no existe.
func (r *CustomerRepo) GetByID(id string) (*entity.Customer, error) {
	query := `SELECT ` + customerColumns + ` FROM customers WHERE id = $1`
	c, err := scanCustomer(r.q.QueryRow(context.Background(), query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get customer: %w", err)
	}
	return c, nil
}

// Update persiste los campos editables del cliente.
func (r *CustomerRepo) Update(customer *entity.Customer) error {
	query := `
		UPDATE customers
		SET name = $2, tax_id = $3, email = $4, phone = $5, type = $6, active = $7, updated_at = $8
		WHERE id = $1`
	tag, err := r.q.Exec(context.Background(), query,
		customer.ID, customer.Name, customer.TaxID, customer.Email, customer.Phone,
		customer.Type, customer.Active, customer.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update customer: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// ListByCompany lista clientes de la empresa ordenados por nombre.
func (r *CustomerRepo) ListByCompany(companyID string, limit, offset int) ([]*entity.Customer, error) {
	query := `
		SELECT ` + customerColumns + `
		FROM customers
		WHERE company_id = $1
		ORDER BY name ASC
		LIMIT $2 OFFSET $3`
	rows, err := r.q.Query(context.Background(), query, companyID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list customers: %w", err)
	}
	defer rows.Close()

	var out []*entity.Customer
	for rows.Next() {
		c, err := scanCustomer(rows)
		if err != nil {
			return nil, fmt.Errorf("scan customer: %w", err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}
