package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de un lote.
const (
	BatchStatusActive  = "active"
	BatchStatusExpired = "expired"
)

// Batch representa un lote físico de un producto, con fecha de vencimiento.
// Se crea al recibir mercancía; un proceso aparte lo marca como expired.
// Inmutable salvo Status y los precios.
type Batch struct {
	ID              string
	CompanyID       string
	ProductID       string
	SupplierID      string
	Code            string     // código de lote del proveedor
	ExpiryDate      *time.Time // nil = producto sin vencimiento
	ManufactureDate *time.Time
	CostPrice       decimal.Decimal
	UnitPrice       decimal.Decimal
	Status          string // active, expired
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// IsActive indica si el lote puede participar en asignaciones FEFO.
func (b *Batch) IsActive() bool {
	return b.Status == BatchStatusActive
}
