package http

import (
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/CarlosEstrada30/smart-orders-api/internal/application/production"
	"github.com/CarlosEstrada30/smart-orders-api/internal/domain"
)

// ProductionHandler tablero de producción.
type ProductionHandler struct {
	uc *production.DashboardUseCase
}

// NewProductionHandler construye el handler.
func NewProductionHandler(uc *production.DashboardUseCase) *ProductionHandler {
	return &ProductionHandler{uc: uc}
}

// Dashboard godoc
// @Summary      Tablero de producción
// @Description  Por producto: stock actual, cantidad comprometida en órdenes pending de la ruta
// @Description  creadas ese día y cantidad a producir. Mayor faltante primero.
// @Tags         production
// @Security     Bearer
// @Produce      json
// @Param        route_id  query  string  true  "ID de la ruta"
// @Param        date      query  string  true  "Día AAAA-MM-DD"
// @Success      200       {object}  dto.ProductionDashboardResponse
// @Failure      400       {object}  dto.ErrorResponse
// @Failure      404       {object}  dto.ErrorResponse
// @Router       /api/v1/production/dashboard [get]
func (h *ProductionHandler) Dashboard(c *fiber.Ctx) error {
	raw := c.Query("date")
	if raw == "" {
		return writeError(c, fmt.Errorf("%w: date es requerido", domain.ErrInvalidInput))
	}
	day, err := time.Parse(time.DateOnly, raw)
	if err != nil {
		return writeError(c, fmt.Errorf("%w: date debe ser AAAA-MM-DD", domain.ErrInvalidInput))
	}
	out, err := h.uc.Get(c.UserContext(), GetStore(c), c.Query("route_id"), day)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}
