package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Pedidos-api/internal/application/dto"
	"github.com/jhoicas/Pedidos-api/internal/application/usecase"
)

// CustomerHandler maneja las peticiones HTTP para Customer (protegido).
type CustomerHandler struct {
	uc *usecase.CustomerUseCase
}

// NewCustomerHandler construye el handler.
func NewCustomerHandler(uc *usecase.CustomerUseCase) *CustomerHandler {
	return &CustomerHandler{uc: uc}
}

// Create godoc
// @Summary      Crear cliente
// @Tags         customers
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateCustomerRequest  true  "Datos del cliente"
// @Success      201   {object}  dto.CustomerResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/customers [post]
func (h *CustomerHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateCustomerRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	out, err := h.uc.Create(GetCompanyID(c), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// GetByID godoc
// @Summary      Obtener cliente por ID
// @Tags         customers
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del cliente"
// @Success      200  {object}  dto.CustomerResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/customers/{id} [get]
func (h *CustomerHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.uc.GetByID(GetCompanyID(c), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Deactivate godoc
// @Summary      Desactivar cliente
// @Tags         customers
// @Security     Bearer
// @Param        id   path  string  true  "ID del cliente"
// @Success      204
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/customers/{id} [delete]
func (h *CustomerHandler) Deactivate(c *fiber.Ctx) error {
	if err := h.uc.Deactivate(GetCompanyID(c), c.Params("id")); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// List godoc
// @Summary      Listar clientes
// @Tags         customers
// @Security     Bearer
// @Produce      json
// @Param        limit   query  int  false  "Límite"   default(20)
// @Param        offset  query  int  false  "Offset"   default(0)
// @Success      200     {array}  dto.CustomerResponse
// @Router       /api/customers [get]
func (h *CustomerHandler) List(c *fiber.Ctx) error {
	page := dto.PageRequest{Limit: c.QueryInt("limit", 20), Offset: c.QueryInt("offset", 0)}
	out, err := h.uc.List(GetCompanyID(c), page)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}
