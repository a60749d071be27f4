package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Pedidos-api/internal/application/dto"
	"github.com/jhoicas/Pedidos-api/internal/application/purchasing"
)

// PurchaseHandler maneja recepciones de mercancía (protegido).
type PurchaseHandler struct {
	uc *purchasing.ReceiveStockUseCase
}

// NewPurchaseHandler construye el handler.
func NewPurchaseHandler(uc *purchasing.ReceiveStockUseCase) *PurchaseHandler {
	return &PurchaseHandler{uc: uc}
}

// Receive godoc
// @Summary      Registrar recepción de mercancía
// @Description  Crea un lote nuevo por línea, con pool y movimiento de entrada a bodega.
// @Tags         purchases
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.ReceivePurchaseRequest  true  "Recepción"
// @Success      201   {object}  dto.ReceivePurchaseResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/purchases [post]
func (h *PurchaseHandler) Receive(c *fiber.Ctx) error {
	var in dto.ReceivePurchaseRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	out, err := h.uc.Receive(c.Context(), GetCompanyID(c), GetUserID(c), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}
