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

var _ repository.CompanyRepository = (*CompanyRepo)(nil)

// CompanyRepo implementación de CompanyRepository sobre PostgreSQL.
type CompanyRepo struct {
	q Querier
}

// NewCompanyRepository construye el adaptador de empresas. Pasar pool o tx (Querier).
func NewCompanyRepository(q Querier) *CompanyRepo {
	return &CompanyRepo{q: q}
}

const companyColumns = `id, name, tax_id, created_at, updated_at`

// Create inserta una empresa.
func (r *CompanyRepo) Create(company *entity.Company) error {
	query := `
		INSERT INTO companies (` + companyColumns + `)
		VALUES ($1, $2, $3, $4, $5)`
	_, err := r.q.Exec(context.Background(), query,
		company.ID, company.Name, company.TaxID, company.CreatedAt, company.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("create company: %w", err)
	}
	return nil
}

// GetByID obtiene una empresa por ID. Devuelve nil sin error si no existe.
func (r *CompanyRepo) GetByID(id string) (*entity.Company, error) {
	query := `SELECT ` + companyColumns + ` FROM companies WHERE id = $1`
	var c entity.Company
	err := r.q.QueryRow(context.Background(), query, id).Scan(
		&c.ID, &c.Name, &c.TaxID, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get company: %w", err)
	}
	return &c, nil
}

// List lista empresas con paginación.
func (r *CompanyRepo) List(limit, offset int) ([]*entity.Company, error) {
	query := `
		SELECT ` + companyColumns + `
		FROM companies
		ORDER BY name ASC
		LIMIT $1 OFFSET $2`
	rows, err := r.q.Query(context.Background(), query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list companies: %w", err)
	}
	defer rows.Close()

	var out []*entity.Company
	for rows.Next() {
		var c entity.Company
		if err := rows.Scan(&c.ID, &c.Name, &c.TaxID, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan company: %w", err)
		}
		out = append(out, &c)
	}
	return out, rows.Err()
}
