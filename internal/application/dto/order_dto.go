package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// OrderLineRequest una línea solicitada al crear un pedido. Si PinnedBatchID
// viene, el operador fija el lote a mano y se salta el planificador FEFO.
type OrderLineRequest struct {
	ProductID     string           `json:"product_id"`
	Quantity      int64            `json:"quantity"`
	PinnedBatchID string           `json:"pinned_batch_id,omitempty"`
	UnitPrice     *decimal.Decimal `json:"unit_price,omitempty"` // vacío = precio del lote
}

// CreateOrderRequest body para POST /api/orders.
type CreateOrderRequest struct {
	CustomerID  string             `json:"customer_id"`
	ShippingFee decimal.Decimal    `json:"shipping_fee"`
	DiscountPct decimal.Decimal    `json:"discount_pct"`
	Lines       []OrderLineRequest `json:"lines"`
}

// TransitionOrderRequest body para POST /api/orders/:id/status.
type TransitionOrderRequest struct {
	Status string `json:"status"`
}

// PaymentStatusRequest body para POST /api/orders/:id/payment (confirmación externa).
type PaymentStatusRequest struct {
	PaymentStatus string `json:"payment_status"`
}

// LineItemResponse línea de pedido en respuestas.
type LineItemResponse struct {
	ID        string          `json:"id"`
	ProductID string          `json:"product_id"`
	BatchID   string          `json:"batch_id"`
	Quantity  int64           `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Subtotal  decimal.Decimal `json:"subtotal"`
}

// OrderResponse pedido completo en respuestas.
type OrderResponse struct {
	ID            string             `json:"id"`
	CompanyID     string             `json:"company_id"`
	CustomerID    string             `json:"customer_id"`
	CreatedBy     string             `json:"created_by"`
	Status        string             `json:"status"`
	PaymentStatus string             `json:"payment_status"`
	ShippingFee   decimal.Decimal    `json:"shipping_fee"`
	DiscountPct   decimal.Decimal    `json:"discount_pct"`
	Total         decimal.Decimal    `json:"total"`
	Lines         []LineItemResponse `json:"lines"`
	CreatedAt     time.Time          `json:"created_at"`
	UpdatedAt     time.Time          `json:"updated_at"`
}
