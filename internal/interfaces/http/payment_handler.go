package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/CarlosEstrada30/smart-orders-api/internal/application/dto"
	"github.com/CarlosEstrada30/smart-orders-api/internal/application/payments"
)

// PaymentHandler abonos contra órdenes.
type PaymentHandler struct {
	ledger *payments.Ledger
}

// NewPaymentHandler construye el handler.
func NewPaymentHandler(ledger *payments.Ledger) *PaymentHandler {
	return &PaymentHandler{ledger: ledger}
}

// Create godoc
// @Summary      Registrar pago
// @Tags         payments
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreatePaymentRequest  true  "Orden, monto y método"
// @Success      201   {object}  dto.PaymentResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/v1/payments [post]
func (h *PaymentHandler) Create(c *fiber.Ctx) error {
	var in dto.CreatePaymentRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.ledger.Record(c.UserContext(), GetStore(c), GetUserID(c), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// Bulk godoc
// @Summary      Registrar pagos en lote
// @Description  Cada entrada se procesa por separado; los fallos no detienen el lote.
// @Tags         payments
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.BulkPaymentRequest  true  "Pagos"
// @Success      200   {object}  dto.BulkPaymentResponse
// @Router       /api/v1/payments/bulk [post]
func (h *PaymentHandler) Bulk(c *fiber.Ctx) error {
	var in dto.BulkPaymentRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.ledger.BulkRecord(c.UserContext(), GetStore(c), GetUserID(c), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Cancel godoc
// @Summary      Cancelar pago
// @Tags         payments
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del pago"
// @Success      200  {object}  dto.PaymentResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/v1/payments/{id}/cancel [post]
func (h *PaymentHandler) Cancel(c *fiber.Ctx) error {
	out, err := h.ledger.Cancel(c.UserContext(), GetStore(c), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// GetByID godoc
// @Summary      Obtener pago
// @Tags         payments
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del pago"
// @Success      200  {object}  dto.PaymentResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/v1/payments/{id} [get]
func (h *PaymentHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.ledger.Get(c.UserContext(), GetStore(c), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// List godoc
// @Summary      Listar pagos
// @Tags         payments
// @Security     Bearer
// @Produce      json
// @Param        order_id        query  string  false  "Orden"
// @Param        payment_method  query  string  false  "Método"
// @Param        status          query  string  false  "confirmed | cancelled"
// @Param        from            query  string  false  "Desde"
// @Param        to              query  string  false  "Hasta"
// @Param        limit           query  int     false  "Límite"  default(20)
// @Param        offset          query  int     false  "Offset"  default(0)
// @Success      200             {object}  dto.PaymentListResponse
// @Router       /api/v1/payments [get]
func (h *PaymentHandler) List(c *fiber.Ctx) error {
	from, to, err := dateRange(c)
	if err != nil {
		return writeError(c, err)
	}
	out, err := h.ledger.List(c.UserContext(), GetStore(c), dto.PaymentListQuery{
		OrderID:     c.Query("order_id"),
		Method:      c.Query("payment_method"),
		Status:      c.Query("status"),
		From:        from,
		To:          to,
		PageRequest: pageFrom(c),
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Summary godoc
// @Summary      Resumen de cobro de una orden
// @Tags         payments
// @Security     Bearer
// @Produce      json
// @Param        orderId  path  string  true  "ID de la orden"
// @Success      200      {object}  dto.OrderPaymentSummary
// @Failure      404      {object}  dto.ErrorResponse
// @Router       /api/v1/payments/orders/{orderId}/summary [get]
func (h *PaymentHandler) Summary(c *fiber.Ctx) error {
	out, err := h.ledger.Summary(c.UserContext(), GetStore(c), c.Params("orderId"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}
