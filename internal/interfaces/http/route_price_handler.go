package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/CarlosEstrada30/smart-orders-api/internal/application/dto"
	"github.com/CarlosEstrada30/smart-orders-api/internal/application/usecase"
)

// RoutePriceHandler precios de producto por ruta.
type RoutePriceHandler struct {
	uc *usecase.RoutePriceUseCase
}

// NewRoutePriceHandler construye el handler.
func NewRoutePriceHandler(uc *usecase.RoutePriceUseCase) *RoutePriceHandler {
	return &RoutePriceHandler{uc: uc}
}

// Set godoc
// @Summary      Fijar precio por ruta
// @Description  Crea el precio del producto en la ruta o reemplaza el existente.
// @Tags         product-route-prices
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.SetRoutePriceRequest  true  "Producto, ruta y precio"
// @Success      200   {object}  dto.RoutePriceResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/v1/product-route-prices [post]
func (h *RoutePriceHandler) Set(c *fiber.Ctx) error {
	var in dto.SetRoutePriceRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.Set(c.UserContext(), GetStore(c), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// List godoc
// @Summary      Listar precios por ruta
// @Tags         product-route-prices
// @Security     Bearer
// @Produce      json
// @Param        limit   query  int  false  "Límite"  default(20)
// @Param        offset  query  int  false  "Offset"  default(0)
// @Success      200     {array}   dto.RoutePriceResponse
// @Router       /api/v1/product-route-prices [get]
func (h *RoutePriceHandler) List(c *fiber.Ctx) error {
	out, err := h.uc.List(c.UserContext(), GetStore(c), pageFrom(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// ListByProduct godoc
// @Summary      Precios de un producto en cada ruta
// @Tags         product-route-prices
// @Security     Bearer
// @Produce      json
// @Param        productId  path  string  true  "ID del producto"
// @Success      200        {array}   dto.RoutePriceResponse
// @Failure      404        {object}  dto.ErrorResponse
// @Router       /api/v1/product-route-prices/product/{productId} [get]
func (h *RoutePriceHandler) ListByProduct(c *fiber.Ctx) error {
	out, err := h.uc.ListByProduct(c.UserContext(), GetStore(c), c.Params("productId"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// GetByID godoc
// @Summary      Obtener precio por ruta
// @Tags         product-route-prices
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del precio"
// @Success      200  {object}  dto.RoutePriceResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/v1/product-route-prices/{id} [get]
func (h *RoutePriceHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.uc.GetByID(c.UserContext(), GetStore(c), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Update godoc
// @Summary      Cambiar precio por ruta
// @Tags         product-route-prices
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                       true  "ID del precio"
// @Param        body  body  dto.UpdateRoutePriceRequest  true  "Nuevo precio"
// @Success      200   {object}  dto.RoutePriceResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/v1/product-route-prices/{id} [put]
func (h *RoutePriceHandler) Update(c *fiber.Ctx) error {
	var in dto.UpdateRoutePriceRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.UpdatePrice(c.UserContext(), GetStore(c), c.Params("id"), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Delete godoc
// @Summary      Eliminar precio por ruta
// @Tags         product-route-prices
// @Security     Bearer
// @Param        id   path  string  true  "ID del precio"
// @Success      204
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/v1/product-route-prices/{id} [delete]
func (h *RoutePriceHandler) Delete(c *fiber.Ctx) error {
	if err := h.uc.Delete(c.UserContext(), GetStore(c), c.Params("id")); err != nil {
		return writeError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// DeleteByProductAndRoute godoc
// @Summary      Eliminar precio de un producto en una ruta
// @Tags         product-route-prices
// @Security     Bearer
// @Param        productId  path  string  true  "ID del producto"
// @Param        routeId    path  string  true  "ID de la ruta"
// @Success      204
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/v1/product-route-prices/product/{productId}/route/{routeId} [delete]
func (h *RoutePriceHandler) DeleteByProductAndRoute(c *fiber.Ctx) error {
	err := h.uc.DeleteByProductAndRoute(c.UserContext(), GetStore(c), c.Params("productId"), c.Params("routeId"))
	if err != nil {
		return writeError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
