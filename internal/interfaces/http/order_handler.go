package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Pedidos-api/internal/application/dto"
	"github.com/jhoicas/Pedidos-api/internal/application/inventory"
	"github.com/jhoicas/Pedidos-api/internal/application/orders"
)

// OrderHandler maneja las peticiones HTTP de pedidos (protegido).
type OrderHandler struct {
	createUC     *orders.CreateOrderUseCase
	transitionUC *orders.TransitionOrderUseCase
	queryUC      *orders.QueryOrderUseCase
	slipUC       *orders.PackingSlipUseCase
	inventoryUC  *inventory.UseCase
}

// NewOrderHandler construye el handler.
func NewOrderHandler(
	createUC *orders.CreateOrderUseCase,
	transitionUC *orders.TransitionOrderUseCase,
	queryUC *orders.QueryOrderUseCase,
	slipUC *orders.PackingSlipUseCase,
	inventoryUC *inventory.UseCase,
) *OrderHandler {
	return &OrderHandler{
		createUC:     createUC,
		transitionUC: transitionUC,
		queryUC:      queryUC,
		slipUC:       slipUC,
		inventoryUC:  inventoryUC,
	}
}

// Create godoc
// @Summary      Crear pedido en draft
// @Tags         orders
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateOrderRequest  true  "Pedido"
// @Success      201   {object}  dto.OrderResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      422   {object}  dto.ErrorResponse
// @Router       /api/orders [post]
func (h *OrderHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateOrderRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	out, err := h.createUC.CreateOrder(c.Context(), GetCompanyID(c), GetUserID(c), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// GetByID godoc
// @Summary      Obtener pedido con sus líneas
// @Tags         orders
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del pedido"
// @Success      200  {object}  dto.OrderResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/orders/{id} [get]
func (h *OrderHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.queryUC.GetOrder(GetCompanyID(c), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// List godoc
// @Summary      Listar pedidos de la empresa
// @Tags         orders
// @Security     Bearer
// @Produce      json
// @Param        status  query  string  false  "Filtro por estado"
// @Param        limit   query  int     false  "Límite"   default(50)
// @Param        offset  query  int     false  "Offset"   default(0)
// @Success      200     {array}  dto.OrderResponse
// @Router       /api/orders [get]
func (h *OrderHandler) List(c *fiber.Ctx) error {
	out, err := h.queryUC.ListOrders(GetCompanyID(c), c.Query("status"), c.QueryInt("limit", 50), c.QueryInt("offset", 0))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Transition godoc
// @Summary      Transicionar el estado del pedido
// @Description  Aplica la máquina de estados: mueve inventario de forma atómica según la arista.
// @Tags         orders
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID del pedido"
// @Param        body  body  dto.TransitionOrderRequest  true  "Estado destino"
// @Success      200   {object}  dto.OrderResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Failure      422   {object}  dto.ErrorResponse
// @Router       /api/orders/{id}/status [post]
func (h *OrderHandler) Transition(c *fiber.Ctx) error {
	var in dto.TransitionOrderRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if in.Status == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "status es requerido"})
	}
	out, err := h.transitionUC.Transition(c.Context(), GetCompanyID(c), GetUserID(c), c.Params("id"), in.Status)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// SetPayment godoc
// @Summary      Registrar confirmación de pago externa
// @Tags         orders
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID del pedido"
// @Param        body  body  dto.PaymentStatusRequest  true  "Estado de pago"
// @Success      200   {object}  dto.OrderResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/orders/{id}/payment [post]
func (h *OrderHandler) SetPayment(c *fiber.Ctx) error {
	var in dto.PaymentStatusRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	out, err := h.queryUC.SetPaymentStatus(c.Context(), GetCompanyID(c), c.Params("id"), in.PaymentStatus)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// PackingSlip godoc
// @Summary      Descargar remito de despacho en PDF
// @Tags         orders
// @Security     Bearer
// @Produce      application/pdf
// @Param        id   path  string  true  "ID del pedido"
// @Success      200  {file}  binary
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/orders/{id}/packing-slip [get]
func (h *OrderHandler) PackingSlip(c *fiber.Ctx) error {
	pdfBytes, err := h.slipUC.Generate(c.Context(), GetCompanyID(c), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="remito-`+c.Params("id")+`.pdf"`)
	return c.Send(pdfBytes)
}

// Movements godoc
// @Summary      Libro de movimientos de un pedido
// @Tags         orders
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del pedido"
// @Success      200  {array}  dto.MovementResponse
// @Router       /api/orders/{id}/movements [get]
func (h *OrderHandler) Movements(c *fiber.Ctx) error {
	// La pertenencia se valida vía el pedido.
	if _, err := h.queryUC.GetOrder(GetCompanyID(c), c.Params("id")); err != nil {
		return respondError(c, err)
	}
	out, err := h.inventoryUC.ListMovementsByOrder(c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}
