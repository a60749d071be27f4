package http

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Pedidos-api/internal/application/dto"
	"github.com/jhoicas/Pedidos-api/internal/application/usecase"
)

// BatchHandler maneja consultas de lotes y marcado de vencidos (protegido).
type BatchHandler struct {
	uc *usecase.BatchUseCase
}

// NewBatchHandler construye el handler.
func NewBatchHandler(uc *usecase.BatchUseCase) *BatchHandler {
	return &BatchHandler{uc: uc}
}

// List godoc
// @Summary      Listar lotes de la empresa
// @Tags         batches
// @Security     Bearer
// @Produce      json
// @Param        limit   query  int  false  "Límite"   default(20)
// @Param        offset  query  int  false  "Offset"   default(0)
// @Success      200     {array}  dto.BatchResponse
// @Router       /api/batches [get]
func (h *BatchHandler) List(c *fiber.Ctx) error {
	page := dto.PageRequest{Limit: c.QueryInt("limit", 20), Offset: c.QueryInt("offset", 0)}
	out, err := h.uc.List(GetCompanyID(c), page)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// GetByID godoc
// @Summary      Obtener lote con su pool
// @Tags         batches
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del lote"
// @Success      200  {object}  dto.BatchResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/batches/{id} [get]
func (h *BatchHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.uc.GetByID(GetCompanyID(c), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Expire godoc
// @Summary      Marcar un lote como vencido
// @Description  El lote sale del plan FEFO de inmediato; las reservas en curso completan su ciclo.
// @Tags         batches
// @Security     Bearer
// @Param        id   path  string  true  "ID del lote"
// @Success      204
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/batches/{id}/expire [post]
func (h *BatchHandler) Expire(c *fiber.Ctx) error {
	if err := h.uc.Expire(GetCompanyID(c), c.Params("id")); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// ExpireDue godoc
// @Summary      Marcar como vencidos todos los lotes con fecha cumplida
// @Tags         batches
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  map[string]int
// @Router       /api/batches/expire-due [post]
func (h *BatchHandler) ExpireDue(c *fiber.Ctx) error {
	n, err := h.uc.ExpireDue(GetCompanyID(c), time.Now())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"expired": n})
}
