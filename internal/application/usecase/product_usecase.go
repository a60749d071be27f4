package usecase

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Pedidos-api/internal/application/dto"
	"github.com/jhoicas/Pedidos-api/internal/domain"
	"github.com/jhoicas/Pedidos-api/internal/domain/entity"
	"github.com/jhoicas/Pedidos-api/internal/domain/repository"
)

// ProductUseCase casos de uso CRUD para productos. El stock no se toca aquí:
// vive por lote en los pools de inventario.
type ProductUseCase struct {
	repo repository.ProductRepository
}

// NewProductUseCase construye el caso de uso.
func NewProductUseCase(repo repository.ProductRepository) *ProductUseCase {
	return &ProductUseCase{repo: repo}
}

// Create crea un nuevo producto. El SKU es único por empresa.
func (uc *ProductUseCase) Create(companyID string, in dto.CreateProductRequest) (*dto.ProductResponse, error) {
	if in.SKU == "" || in.Name == "" {
		return nil, domain.ErrInvalidInput
	}
	if in.Price.LessThan(decimal.Zero) {
		return nil, domain.ErrInvalidInput
	}
	existing, _ := uc.repo.GetByCompanyAndSKU(companyID, in.SKU)
	if existing != nil {
		return nil, domain.ErrDuplicate
	}
	if in.UnitMeasure == "" {
		in.UnitMeasure = "unidad"
	}
	now := time.Now()
	product := &entity.Product{
		ID:          uuid.New().String(),
		CompanyID:   companyID,
		SKU:         in.SKU,
		Name:        in.Name,
		Description: in.Description,
		Price:       in.Price,
		UnitMeasure: in.UnitMeasure,
		Active:      true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := uc.repo.Create(product); err != nil {
		return nil, err
	}
	return toProductResponse(product), nil
}

// GetByID obtiene un producto verificando pertenencia a la empresa.
func (uc *ProductUseCase) GetByID(companyID, id string) (*dto.ProductResponse, error) {
	product, err := uc.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrNotFound
	}
	if product.CompanyID != companyID {
		return nil, domain.ErrForbidden
	}
	return toProductResponse(product), nil
}

// Update actualiza los campos editables del producto. El SKU es inmutable.
func (uc *ProductUseCase) Update(companyID, id string, in dto.UpdateProductRequest) (*dto.ProductResponse, error) {
	product, err := uc.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrNotFound
	}
	if product.CompanyID != companyID {
		return nil, domain.ErrForbidden
	}
	if in.Name != "" {
		product.Name = in.Name
	}
	if in.Description != "" {
		product.Description = in.Description
	}
	if in.Price != nil {
		if in.Price.LessThan(decimal.Zero) {
			return nil, domain.ErrInvalidInput
		}
		product.Price = *in.Price
	}
	if in.UnitMeasure != "" {
		product.UnitMeasure = in.UnitMeasure
	}
	if in.Active != nil {
		product.Active = *in.Active
	}
	product.UpdatedAt = time.Now()
	if err := uc.repo.Update(product); err != nil {
		return nil, err
	}
	return toProductResponse(product), nil
}

// List lista productos por empresa con paginación.
func (uc *ProductUseCase) List(companyID string, page dto.PageRequest) ([]*dto.ProductResponse, error) {
	page.DefaultPage()
	list, err := uc.repo.ListByCompany(companyID, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	out := make([]*dto.ProductResponse, 0, len(list))
	for _, p := range list {
		out = append(out, toProductResponse(p))
	}
	return out, nil
}

func toProductResponse(p *entity.Product) *dto.ProductResponse {
	return &dto.ProductResponse{
		ID:          p.ID,
		CompanyID:   p.CompanyID,
		SKU:         p.SKU,
		Name:        p.Name,
		Description: p.Description,
		Price:       p.Price,
		UnitMeasure: p.UnitMeasure,
		Active:      p.Active,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}
