// Package order contiene la máquina de estados de un pedido, sin dependencias
// de infraestructura. El motor de transiciones (application/orders) consulta
// aquí qué acción de inventario corresponde a cada arista.
package order

import (
	"github.com/jhoicas/Pedidos-api/internal/domain"
	"github.com/jhoicas/Pedidos-api/internal/domain/entity"
)

// PoolAction es la acción de inventario que una transición aplica a cada línea.
type PoolAction int

const (
	ActionNone    PoolAction = iota // transición informativa, sin tocar pools
	ActionReserve                   // draft -> pending
	ActionRelease                   // pending/shipping -> cancelled
	ActionConsume                   // pending/shipping -> delivered
	ActionReturn                    // delivered -> refunded
)

// String para logs y razones de movimiento.
func (a PoolAction) String() string {
	switch a {
	case ActionReserve:
		return "reserve"
	case ActionRelease:
		return "release"
	case ActionConsume:
		return "consume"
	case ActionReturn:
		return "return"
	default:
		return "none"
	}
}

// TransitionAction devuelve la acción de inventario para la arista old -> new,
// o ErrInvalidTransition si la arista no existe en la tabla. La llamada
// idempotente (old == new) la resuelve el motor antes de llegar aquí.
func TransitionAction(old, new string) (PoolAction, error) {
	switch old {
	case entity.OrderStatusDraft:
		switch new {
		case entity.OrderStatusPending:
			return ActionReserve, nil
		case entity.OrderStatusCancelled:
			return ActionNone, nil // nada reservado todavía
		}
	case entity.OrderStatusPending:
		switch new {
		case entity.OrderStatusShipping:
			return ActionNone, nil
		case entity.OrderStatusDelivered:
			return ActionConsume, nil
		case entity.OrderStatusCancelled:
			return ActionRelease, nil
		}
	case entity.OrderStatusShipping:
		switch new {
		case entity.OrderStatusPending:
			return ActionNone, nil // rollback informativo
		case entity.OrderStatusDelivered:
			return ActionConsume, nil
		case entity.OrderStatusCancelled:
			return ActionRelease, nil
		}
	case entity.OrderStatusDelivered:
		if new == entity.OrderStatusRefunded {
			return ActionReturn, nil
		}
	}
	return ActionNone, domain.ErrInvalidTransition
}

// IsTerminal indica si desde el estado ya no sale ninguna arista.
func IsTerminal(status string) bool {
	return status == entity.OrderStatusCancelled || status == entity.OrderStatusRefunded
}
