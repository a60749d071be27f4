package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// PurchaseLineRequest un lote recibido dentro de una compra.
type PurchaseLineRequest struct {
	ProductID       string          `json:"product_id"`
	BatchCode       string          `json:"batch_code"`
	Quantity        int64           `json:"quantity"`
	CostPrice       decimal.Decimal `json:"cost_price"`
	UnitPrice       decimal.Decimal `json:"unit_price"`
	ExpiryDate      *time.Time      `json:"expiry_date,omitempty"`
	ManufactureDate *time.Time      `json:"manufacture_date,omitempty"`
}

// ReceivePurchaseRequest body para POST /api/purchases: una recepción de
// mercancía que crea lotes nuevos con su pool y movimientos `in`.
type ReceivePurchaseRequest struct {
	SupplierID string                `json:"supplier_id"`
	Reference  string                `json:"reference"`
	Lines      []PurchaseLineRequest `json:"lines"`
}

// ReceivePurchaseResponse resultado de la recepción.
type ReceivePurchaseResponse struct {
	PurchaseID string   `json:"purchase_id"`
	BatchIDs   []string `json:"batch_ids"`
}

// BatchResponse lote en respuestas.
type BatchResponse struct {
	ID              string          `json:"id"`
	ProductID       string          `json:"product_id"`
	SupplierID      string          `json:"supplier_id"`
	Code            string          `json:"code"`
	ExpiryDate      *time.Time      `json:"expiry_date,omitempty"`
	ManufactureDate *time.Time      `json:"manufacture_date,omitempty"`
	CostPrice       decimal.Decimal `json:"cost_price"`
	UnitPrice       decimal.Decimal `json:"unit_price"`
	Status          string          `json:"status"`
	Pool            *PoolResponse   `json:"pool,omitempty"`
}
