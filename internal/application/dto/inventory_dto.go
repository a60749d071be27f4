package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// AllocationPreviewRequest body para POST /api/allocations/preview.
type AllocationPreviewRequest struct {
	ProductID string `json:"product_id"`
	Quantity  int64  `json:"quantity"`
}

// AllocationPickDTO un tramo del plan FEFO: cuánto tomar de qué lote.
type AllocationPickDTO struct {
	BatchID    string          `json:"batch_id"`
	Quantity   int64           `json:"quantity"`
	UnitPrice  decimal.Decimal `json:"unit_price"`
	ExpiryDate *time.Time      `json:"expiry_date,omitempty"`
}

// AllocationPreviewResponse plan completo (solo lectura, advisory).
type AllocationPreviewResponse struct {
	ProductID string              `json:"product_id"`
	Requested int64               `json:"requested"`
	Picks     []AllocationPickDTO `json:"picks"`
}

// TransferRequest body para POST /api/inventory/transfers (bodega <-> estantería).
type TransferRequest struct {
	BatchID   string `json:"batch_id"`
	Quantity  int64  `json:"quantity"`
	Direction string `json:"direction"` // to_shelf, to_hand
}

// AdjustmentRequest body para POST /api/inventory/adjustments (corrección manual).
// Delta positivo suma a estantería, negativo resta de estantería.
type AdjustmentRequest struct {
	BatchID string `json:"batch_id"`
	Delta   int64  `json:"delta"`
	Reason  string `json:"reason"`
}

// MovementResponse una entrada del libro de movimientos.
type MovementResponse struct {
	ID            string    `json:"id"`
	BatchID       string    `json:"batch_id"`
	PoolID        string    `json:"pool_id"`
	Type          string    `json:"type"`
	QuantityDelta int64     `json:"quantity_delta"`
	Reason        string    `json:"reason"`
	ActorID       string    `json:"actor_id"`
	OrderID       string    `json:"order_id,omitempty"`
	PurchaseID    string    `json:"purchase_id,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
}

// PoolResponse estado de los tres contadores de un lote.
type PoolResponse struct {
	BatchID          string `json:"batch_id"`
	QuantityOnHand   int64  `json:"quantity_on_hand"`
	QuantityOnShelf  int64  `json:"quantity_on_shelf"`
	QuantityReserved int64  `json:"quantity_reserved"`
	Available        int64  `json:"available"`
}
