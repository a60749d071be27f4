package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de un pedido (máquina de estados, ver internal/domain/order).
const (
	OrderStatusDraft     = "draft"
	OrderStatusPending   = "pending"
	OrderStatusShipping  = "shipping"
	OrderStatusDelivered = "delivered"
	OrderStatusCancelled = "cancelled"
	OrderStatusRefunded  = "refunded"
)

// Estados de pago. Solo la confirmación externa marca paid; refunded lo pone
// la transición delivered -> refunded.
const (
	PaymentStatusPending  = "pending"
	PaymentStatusPaid     = "paid"
	PaymentStatusRefunded = "refunded"
)

// Order representa la cabecera de un pedido. Nace en draft y solo muta a través
// de las transiciones definidas; las líneas son inmutables al salir de draft.
type Order struct {
	ID            string
	CompanyID     string
	CustomerID    string
	CreatedBy     string // UserID
	Status        string
	PaymentStatus string
	ShippingFee   decimal.Decimal
	DiscountPct   decimal.Decimal // porcentaje 0..100
	Total         decimal.Decimal
	LineItems     []*LineItem
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// ComputeTotal recalcula el total: sum(qty*precio) * (1 - descuento/100) + envío.
func (o *Order) ComputeTotal() decimal.Decimal {
	var subtotal decimal.Decimal
	for _, li := range o.LineItems {
		subtotal = subtotal.Add(li.Subtotal())
	}
	hundred := decimal.NewFromInt(100)
	factor := hundred.Sub(o.DiscountPct).Div(hundred)
	return subtotal.Mul(factor).Add(o.ShippingFee)
}
