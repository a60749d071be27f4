package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateProductRequest body para POST /api/products.
type CreateProductRequest struct {
	SKU         string          `json:"sku"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	UnitMeasure string          `json:"unit_measure"`
}

// UpdateProductRequest body para PUT /api/products/:id.
type UpdateProductRequest struct {
	Name        string           `json:"name"`
	Description string           `json:"description"`
	Price       *decimal.Decimal `json:"price,omitempty"`
	UnitMeasure string           `json:"unit_measure"`
	Active      *bool            `json:"active,omitempty"`
}

// ProductResponse producto en respuestas.
type ProductResponse struct {
	ID          string          `json:"id"`
	CompanyID   string          `json:"company_id"`
	SKU         string          `json:"sku"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	UnitMeasure string          `json:"unit_measure"`
	Active      bool            `json:"active"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// CreateCustomerRequest body para POST /api/customers.
type CreateCustomerRequest struct {
	Name  string `json:"name"`
	TaxID string `json:"tax_id"`
	Email string `json:"email"`
	Phone string `json:"phone"`
	Type  string `json:"type"` // retail, wholesale
}

// CustomerResponse cliente en respuestas.
type CustomerResponse struct {
	ID        string    `json:"id"`
	CompanyID string    `json:"company_id"`
	Name      string    `json:"name"`
	TaxID     string    `json:"tax_id"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone"`
	Type      string    `json:"type"`
	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"created_at"`
}

// CreateSupplierRequest body para POST /api/suppliers.
type CreateSupplierRequest struct {
	Name  string `json:"name"`
	TaxID string `json:"tax_id"`
	Email string `json:"email"`
	Phone string `json:"phone"`
}

// SupplierResponse proveedor en respuestas.
type SupplierResponse struct {
	ID        string    `json:"id"`
	CompanyID string    `json:"company_id"`
	Name      string    `json:"name"`
	TaxID     string    `json:"tax_id"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone"`
	CreatedAt time.Time `json:"created_at"`
}
