package usecase

import (
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/Pedidos-api/internal/application/dto"
	"github.com/jhoicas/Pedidos-api/internal/domain"
	"github.com/jhoicas/Pedidos-api/internal/domain/entity"
	"github.com/jhoicas/Pedidos-api/internal/domain/repository"
)

// SupplierUseCase casos de uso CRUD para proveedores.
type SupplierUseCase struct {
	repo repository.SupplierRepository
}

// NewSupplierUseCase construye el caso de uso.
func NewSupplierUseCase(repo repository.SupplierRepository) *SupplierUseCase {
	return &SupplierUseCase{repo: repo}
}

// Create crea un proveedor.
func (uc *SupplierUseCase) Create(companyID string, in dto.CreateSupplierRequest) (*dto.SupplierResponse, error) {
	if in.Name == "" {
		return nil, domain.ErrInvalidInput
	}
	now := time.Now()
	supplier := &entity.Supplier{
		ID:        uuid.New().String(),
		CompanyID: companyID,
		Name:      in.Name,
		TaxID:     in.TaxID,
		Email:     in.Email,
		Phone:     in.Phone,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := uc.repo.Create(supplier); err != nil {
		return nil, err
	}
	return toSupplierResponse(supplier), nil
}

// GetByID obtiene un proveedor verificando pertenencia a la empresa.
func (uc *SupplierUseCase) GetByID(companyID, id string) (*dto.SupplierResponse, error) {
	supplier, err := uc.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if supplier == nil {
		return nil, domain.ErrNotFound
	}
	if supplier.CompanyID != companyID {
		return nil, domain.ErrForbidden
	}
	return toSupplierResponse(supplier), nil
}

// List lista proveedores por empresa con paginación.
func (uc *SupplierUseCase) List(companyID string, page dto.PageRequest) ([]*dto.SupplierResponse, error) {
	page.DefaultPage()
	list, err := uc.repo.ListByCompany(companyID, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	out := make([]*dto.SupplierResponse, 0, len(list))
	for _, s := range list {
		out = append(out, toSupplierResponse(s))
	}
	return out, nil
}

func toSupplierResponse(s *entity.Supplier) *dto.SupplierResponse {
	return &dto.SupplierResponse{
		ID:        s.ID,
		CompanyID: s.CompanyID,
		Name:      s.Name,
		TaxID:     s.TaxID,
		Email:     s.Email,
		Phone:     s.Phone,
		CreatedAt: s.CreatedAt,
	}
}
