package entity

import "time"

// Tipos de movimiento del libro de inventario (enum cerrado).
const (
	MovementTypeIn         = "in"         // entrada: compra recibida o devolución
	MovementTypeOut        = "out"        // salida: venta entregada
	MovementTypeAdjustment = "adjustment" // corrección manual
	MovementTypeTransfer   = "transfer"   // traslado bodega <-> estantería
	MovementTypeAudit      = "audit"      // reserva/liberación: las unidades no entran ni salen
)

// MovementRecord es una entrada del libro de movimientos: append-only, nunca se
// actualiza ni se borra. Una reversa se modela como un registro compensatorio nuevo.
// QuantityDelta lleva el signo del cambio neto sobre el pool.
type MovementRecord struct {
	ID            string
	BatchID       string
	PoolID        string
	Type          string // in, out, adjustment, transfer, audit
	QuantityDelta int64
	Reason        string
	ActorID       string
	OrderID       string // opcional: pedido que originó el movimiento
	PurchaseID    string // opcional: compra que originó el movimiento
	CreatedAt     time.Time
}
