package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product representa un producto o SKU del catálogo. El stock no vive aquí:
// se maneja por lote en InventoryPool.
type Product struct {
	ID          string
	CompanyID   string
	SKU         string // código único por empresa
	Name        string
	Description string
	Price       decimal.Decimal // precio de venta por defecto (el lote puede sobreescribirlo)
	UnitMeasure string
	Active      bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
