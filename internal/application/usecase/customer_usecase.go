package usecase

import (
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/Pedidos-api/internal/application/dto"
	"github.com/jhoicas/Pedidos-api/internal/domain"
	"github.com/jhoicas/Pedidos-api/internal/domain/entity"
	"github.com/jhoicas/Pedidos-api/internal/domain/repository"
)

// CustomerUseCase casos de uso CRUD para clientes.
type CustomerUseCase struct {
	repo repository.CustomerRepository
}

// NewCustomerUseCase construye el caso de uso.
func NewCustomerUseCase(repo repository.CustomerRepository) *CustomerUseCase {
	return &CustomerUseCase{repo: repo}
}

// Create crea un cliente. Sin tipo explícito queda como retail.
func (uc *CustomerUseCase) Create(companyID string, in dto.CreateCustomerRequest) (*dto.CustomerResponse, error) {
	if in.Name == "" {
		return nil, domain.ErrInvalidInput
	}
	custType := in.Type
	if custType == "" {
		custType = entity.CustomerTypeRetail
	}
	if custType != entity.CustomerTypeRetail && custType != entity.CustomerTypeWholesale {
		return nil, domain.ErrInvalidInput
	}
	now := time.Now()
	customer := &entity.Customer{
		ID:        uuid.New().String(),
		CompanyID: companyID,
		Name:      in.Name,
		TaxID:     in.TaxID,
		Email:     in.Email,
		Phone:     in.Phone,
		Type:      custType,
		Active:    true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := uc.repo.Create(customer); err != nil {
		return nil, err
	}
	return toCustomerResponse(customer), nil
}

// GetByID obtiene un cliente verificando pertenencia a la empresa.
func (uc *CustomerUseCase) GetByID(companyID, id string) (*dto.CustomerResponse, error) {
	customer, err := uc.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if customer == nil {
		return nil, domain.ErrNotFound
	}
	if customer.CompanyID != companyID {
		return nil, domain.ErrForbidden
	}
	return toCustomerResponse(customer), nil
}

// Deactivate desactiva un cliente: no puede crear pedidos nuevos, pero sus
// pedidos existentes siguen su ciclo normal.
func (uc *CustomerUseCase) Deactivate(companyID, id string) error {
	customer, err := uc.repo.GetByID(id)
	if err != nil {
		return err
	}
	if customer == nil {
		return domain.ErrNotFound
	}
	if customer.CompanyID != companyID {
		return domain.ErrForbidden
	}
	customer.Active = false
	customer.UpdatedAt = time.Now()
	return uc.repo.Update(customer)
}

// List lista clientes por empresa con paginación.
func (uc *CustomerUseCase) List(companyID string, page dto.PageRequest) ([]*dto.CustomerResponse, error) {
	page.DefaultPage()
	list, err := uc.repo.ListByCompany(companyID, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	out := make([]*dto.CustomerResponse, 0, len(list))
	for _, c := range list {
		out = append(out, toCustomerResponse(c))
	}
	return out, nil
}

func toCustomerResponse(c *entity.Customer) *dto.CustomerResponse {
	return &dto.CustomerResponse{
		ID:        c.ID,
		CompanyID: c.CompanyID,
		Name:      c.Name,
		TaxID:     c.TaxID,
		Email:     c.Email,
		Phone:     c.Phone,
		Type:      c.Type,
		Active:    c.Active,
		CreatedAt: c.CreatedAt,
	}
}
