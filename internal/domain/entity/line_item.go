package entity

import "github.com/shopspring/decimal"

// LineItem representa una línea de pedido, atada al lote elegido en la asignación.
type LineItem struct {
	ID        string
	OrderID   string
	ProductID string
	BatchID   string // fijado al crear el pedido (FEFO o lote pineado)
	Quantity  int64
	UnitPrice decimal.Decimal
}

// Subtotal devuelve cantidad por precio unitario.
func (li *LineItem) Subtotal() decimal.Decimal {
	return decimal.NewFromInt(li.Quantity).Mul(li.UnitPrice)
}
