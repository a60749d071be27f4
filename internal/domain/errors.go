package domain

import (
	"errors"
	"fmt"
)

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound           = errors.New("recurso no encontrado")
	ErrUserNotFound       = errors.New("usuario no encontrado")
	ErrEmailAlreadyExists = errors.New("el email ya está registrado")
	ErrInvalidInput       = errors.New("entrada inválida")
	ErrDuplicate          = errors.New("recurso duplicado")
	ErrUnauthorized       = errors.New("no autorizado")
	ErrForbidden          = errors.New("acceso denegado")
	ErrConflict           = errors.New("conflicto de concurrencia, reintentar")

	// Errores del motor de pedidos e inventario por lotes.
	ErrInsufficientStock         = errors.New("stock insuficiente")
	ErrInsufficientShelfStock    = errors.New("stock en estantería insuficiente")
	ErrInsufficientReservedStock = errors.New("stock reservado insuficiente")
	ErrInvalidTransition         = errors.New("transición de estado no permitida")
	ErrBatchMismatch             = errors.New("el lote no pertenece al producto solicitado")
)

// StockShortageError detalla un faltante del planificador FEFO: cuánto se pidió
// y cuánto había disponible sumando todos los lotes activos del producto.
// Envuelve ErrInsufficientStock para que errors.Is siga funcionando.
type StockShortageError struct {
	ProductID string
	Requested int64
	Available int64
}

func (e *StockShortageError) Error() string {
	return fmt.Sprintf("stock insuficiente para producto %s: solicitado %d, disponible %d",
		e.ProductID, e.Requested, e.Available)
}

func (e *StockShortageError) Unwrap() error { return ErrInsufficientStock }
