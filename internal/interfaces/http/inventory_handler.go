package http

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Pedidos-api/internal/application/allocation"
	"github.com/jhoicas/Pedidos-api/internal/application/dto"
	"github.com/jhoicas/Pedidos-api/internal/application/inventory"
)

// InventoryHandler maneja traslados, ajustes, consultas de pool y libro (protegido).
type InventoryHandler struct {
	uc        *inventory.UseCase
	previewUC *allocation.PreviewUseCase
}

// NewInventoryHandler construye el handler.
func NewInventoryHandler(uc *inventory.UseCase, previewUC *allocation.PreviewUseCase) *InventoryHandler {
	return &InventoryHandler{uc: uc, previewUC: previewUC}
}

// Transfer godoc
// @Summary      Trasladar unidades bodega <-> estantería
// @Tags         inventory
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.TransferRequest  true  "Traslado"
// @Success      204
// @Failure      422   {object}  dto.ErrorResponse
// @Router       /api/inventory/transfers [post]
func (h *InventoryHandler) Transfer(c *fiber.Ctx) error {
	var in dto.TransferRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if err := h.uc.Transfer(c.Context(), GetCompanyID(c), GetUserID(c), in); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// Adjust godoc
// @Summary      Ajuste manual de estantería
// @Tags         inventory
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.AdjustmentRequest  true  "Ajuste (delta con signo y razón)"
// @Success      204
// @Failure      422   {object}  dto.ErrorResponse
// @Router       /api/inventory/adjustments [post]
func (h *InventoryHandler) Adjust(c *fiber.Ctx) error {
	var in dto.AdjustmentRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if err := h.uc.Adjust(c.Context(), GetCompanyID(c), GetUserID(c), in); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// GetPool godoc
// @Summary      Contadores del pool de un lote
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        batchId  path  string  true  "ID del lote"
// @Success      200  {object}  dto.PoolResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/inventory/pools/{batchId} [get]
func (h *InventoryHandler) GetPool(c *fiber.Ctx) error {
	out, err := h.uc.GetPool(GetCompanyID(c), c.Params("batchId"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Movements godoc
// @Summary      Libro de movimientos de un lote
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        batchId  path   string  true   "ID del lote"
// @Param        from     query  string  false  "Desde (RFC3339)"
// @Param        to       query  string  false  "Hasta (RFC3339)"
// @Param        limit    query  int     false  "Límite"   default(20)
// @Param        offset   query  int     false  "Offset"   default(0)
// @Success      200  {array}  dto.MovementResponse
// @Router       /api/inventory/movements/{batchId} [get]
func (h *InventoryHandler) Movements(c *fiber.Ctx) error {
	var from, to *time.Time
	if s := c.Query("from"); s != "" {
		t, err := time.Parse(time.RFC3339, s)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "from debe ser RFC3339"})
		}
		from = &t
	}
	if s := c.Query("to"); s != "" {
		t, err := time.Parse(time.RFC3339, s)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "to debe ser RFC3339"})
		}
		to = &t
	}
	page := dto.PageRequest{Limit: c.QueryInt("limit", 20), Offset: c.QueryInt("offset", 0)}
	out, err := h.uc.ListMovements(GetCompanyID(c), c.Params("batchId"), from, to, page)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// PreviewAllocation godoc
// @Summary      Previsualizar el plan FEFO para una cantidad
// @Description  Solo lectura: no reserva nada; el plan real se decide al transicionar el pedido.
// @Tags         inventory
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.AllocationPreviewRequest  true  "Producto y cantidad"
// @Success      200   {object}  dto.AllocationPreviewResponse
// @Failure      422   {object}  dto.ErrorResponse
// @Router       /api/allocations/preview [post]
func (h *InventoryHandler) PreviewAllocation(c *fiber.Ctx) error {
	var in dto.AllocationPreviewRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	out, err := h.previewUC.Preview(GetCompanyID(c), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}
