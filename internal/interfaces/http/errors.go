package http

import (
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Pedidos-api/internal/application/dto"
	"github.com/jhoicas/Pedidos-api/internal/domain"
)

// respondError traduce los errores de dominio a respuestas HTTP. Los handlers
// delegan aquí todo lo que no manejan de forma especial.
func respondError(c *fiber.Ctx, err error) error {
	var shortage *domain.StockShortageError
	if errors.As(err, &shortage) {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(dto.ErrorResponse{
			Code: "INSUFFICIENT_STOCK",
			Message: fmt.Sprintf("stock insuficiente para el producto %s: pedido %d, disponible %d",
				shortage.ProductID, shortage.Requested, shortage.Available),
		})
	}

	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: err.Error()})
	case errors.Is(err, domain.ErrUnauthorized):
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: err.Error()})
	case errors.Is(err, domain.ErrForbidden):
		return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Code: "FORBIDDEN", Message: err.Error()})
	case errors.Is(err, domain.ErrNotFound), errors.Is(err, domain.ErrUserNotFound):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: err.Error()})
	case errors.Is(err, domain.ErrDuplicate), errors.Is(err, domain.ErrEmailAlreadyExists):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "DUPLICATE", Message: err.Error()})
	case errors.Is(err, domain.ErrInvalidTransition):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "INVALID_TRANSITION", Message: err.Error()})
	case errors.Is(err, domain.ErrConflict):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "CONFLICT", Message: err.Error()})
	case errors.Is(err, domain.ErrBatchMismatch):
		return c.Status(fiber.StatusUnprocessableEntity).JSON(dto.ErrorResponse{Code: "BATCH_MISMATCH", Message: err.Error()})
	case errors.Is(err, domain.ErrInsufficientShelfStock),
		errors.Is(err, domain.ErrInsufficientReservedStock),
		errors.Is(err, domain.ErrInsufficientStock):
		return c.Status(fiber.StatusUnprocessableEntity).JSON(dto.ErrorResponse{Code: "INSUFFICIENT_STOCK", Message: err.Error()})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
}
