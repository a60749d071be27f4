package entity

import (
	"time"

	"github.com/jhoicas/Pedidos-api/internal/domain"
)

// InventoryPool contiene los tres contadores de inventario de un lote:
// bodega (on-hand), estantería (on-shelf) y reservado. Invariantes:
//
//   - OnShelf - Reserved >= 0 y los tres contadores >= 0.
//   - OnHand + OnShelf + Reserved solo cambia vía Receive/Return/Consume;
//     Reserve/Release/Transfer conservan la suma.
//
// Las mutaciones solo ocurren dentro de una transacción del motor de pedidos,
// con la fila bloqueada (SELECT FOR UPDATE).
type InventoryPool struct {
	ID               string
	BatchID          string
	QuantityOnHand   int64 // en bodega
	QuantityOnShelf  int64 // en estantería, vendible
	QuantityReserved int64 // apartado para pedidos pendientes
	UpdatedAt        time.Time
}

// Available devuelve las unidades vendibles: estantería menos reservas.
func (p *InventoryPool) Available() int64 {
	return p.QuantityOnShelf - p.QuantityReserved
}

// Reserve aparta qty unidades de la estantería para un pedido.
func (p *InventoryPool) Reserve(qty int64) error {
	if qty <= 0 {
		return domain.ErrInvalidInput
	}
	if p.Available() < qty {
		return domain.ErrInsufficientShelfStock
	}
	p.QuantityReserved += qty
	return nil
}

// Release devuelve qty unidades reservadas a disponibilidad (pedido cancelado).
// Si la reserva es menor que qty, recorta a cero y reporta cuánto liberó de verdad;
// el caller decide si registrar una advertencia (no debería darse en operación normal).
func (p *InventoryPool) Release(qty int64) (released int64, err error) {
	if qty <= 0 {
		return 0, domain.ErrInvalidInput
	}
	released = qty
	if p.QuantityReserved < qty {
		released = p.QuantityReserved
	}
	p.QuantityReserved -= released
	return released, nil
}

// Consume descuenta qty unidades reservadas: la venta se concretó y el stock
// sale del sistema. Falla duro si la reserva no alcanza; un recorte silencioso
// aquí escondería stock perdido.
func (p *InventoryPool) Consume(qty int64) error {
	if qty <= 0 {
		return domain.ErrInvalidInput
	}
	if p.QuantityReserved < qty {
		return domain.ErrInsufficientReservedStock
	}
	p.QuantityReserved -= qty
	p.QuantityOnShelf -= qty
	return nil
}

// Receive ingresa qty unidades nuevas a bodega (compra recibida).
func (p *InventoryPool) Receive(qty int64) error {
	if qty <= 0 {
		return domain.ErrInvalidInput
	}
	p.QuantityOnHand += qty
	return nil
}

// Return reingresa qty unidades a estantería (devolución de un pedido reembolsado).
func (p *InventoryPool) Return(qty int64) error {
	if qty <= 0 {
		return domain.ErrInvalidInput
	}
	p.QuantityOnShelf += qty
	return nil
}

// Direcciones de traslado bodega <-> estantería.
const (
	TransferToShelf = "to_shelf"
	TransferToHand  = "to_hand"
)

// Transfer mueve qty unidades entre bodega y estantería según direction.
// Falla si el lado origen no tiene cantidad suficiente. Al trasladar hacia
// bodega no se pueden tocar unidades reservadas.
func (p *InventoryPool) Transfer(qty int64, direction string) error {
	if qty <= 0 {
		return domain.ErrInvalidInput
	}
	switch direction {
	case TransferToShelf:
		if p.QuantityOnHand < qty {
			return domain.ErrInsufficientStock
		}
		p.QuantityOnHand -= qty
		p.QuantityOnShelf += qty
	case TransferToHand:
		if p.Available() < qty {
			return domain.ErrInsufficientShelfStock
		}
		p.QuantityOnShelf -= qty
		p.QuantityOnHand += qty
	default:
		return domain.ErrInvalidInput
	}
	return nil
}
