package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/CarlosEstrada30/smart-orders-api/internal/application/dto"
	"github.com/CarlosEstrada30/smart-orders-api/internal/application/usecase"
)

// ClientHandler clientes y rutas de reparto.
type ClientHandler struct {
	clients *usecase.ClientUseCase
	routes  *usecase.RouteUseCase
}

// NewClientHandler construye el handler.
func NewClientHandler(clients *usecase.ClientUseCase, routes *usecase.RouteUseCase) *ClientHandler {
	return &ClientHandler{clients: clients, routes: routes}
}

// Create godoc
// @Summary      Crear cliente
// @Tags         clients
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateClientRequest  true  "Datos del cliente"
// @Success      201   {object}  dto.ClientResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/v1/clients [post]
func (h *ClientHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateClientRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.clients.Create(c.UserContext(), GetStore(c), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// GetByID godoc
// @Summary      Obtener cliente
// @Tags         clients
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del cliente"
// @Success      200  {object}  dto.ClientResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/v1/clients/{id} [get]
func (h *ClientHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.clients.GetByID(c.UserContext(), GetStore(c), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// List godoc
// @Summary      Listar clientes
// @Tags         clients
// @Security     Bearer
// @Produce      json
// @Param        active_only  query  bool  false  "Solo activos"
// @Param        limit        query  int   false  "Límite"  default(20)
// @Param        offset       query  int   false  "Offset"  default(0)
// @Success      200          {array}  dto.ClientResponse
// @Router       /api/v1/clients [get]
func (h *ClientHandler) List(c *fiber.Ctx) error {
	out, err := h.clients.List(c.UserContext(), GetStore(c), dto.ClientListQuery{
		ActiveOnly:  c.QueryBool("active_only", false),
		PageRequest: pageFrom(c),
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Update godoc
// @Summary      Actualizar cliente
// @Tags         clients
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                   true  "ID del cliente"
// @Param        body  body  dto.UpdateClientRequest  true  "Campos a cambiar"
// @Success      200   {object}  dto.ClientResponse
// @Router       /api/v1/clients/{id} [put]
func (h *ClientHandler) Update(c *fiber.Ctx) error {
	var in dto.UpdateClientRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.clients.Update(c.UserContext(), GetStore(c), c.Params("id"), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Deactivate godoc
// @Summary      Desactivar cliente
// @Tags         clients
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del cliente"
// @Success      200  {object}  dto.ClientResponse
// @Router       /api/v1/clients/{id} [delete]
func (h *ClientHandler) Deactivate(c *fiber.Ctx) error {
	out, err := h.clients.Deactivate(c.UserContext(), GetStore(c), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// CreateRoute godoc
// @Summary      Crear ruta de reparto
// @Tags         routes
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateRouteRequest  true  "Nombre y descripción"
// @Success      201   {object}  dto.RouteResponse
// @Router       /api/v1/routes [post]
func (h *ClientHandler) CreateRoute(c *fiber.Ctx) error {
	var in dto.CreateRouteRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.routes.Create(c.UserContext(), GetStore(c), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// GetRoute godoc
// @Summary      Obtener ruta
// @Tags         routes
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la ruta"
// @Success      200  {object}  dto.RouteResponse
// @Router       /api/v1/routes/{id} [get]
func (h *ClientHandler) GetRoute(c *fiber.Ctx) error {
	out, err := h.routes.GetByID(c.UserContext(), GetStore(c), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// ListRoutes godoc
// @Summary      Listar rutas
// @Tags         routes
// @Security     Bearer
// @Produce      json
// @Param        active_only  query  bool  false  "Solo activas"
// @Success      200          {array}  dto.RouteResponse
// @Router       /api/v1/routes [get]
func (h *ClientHandler) ListRoutes(c *fiber.Ctx) error {
	out, err := h.routes.List(c.UserContext(), GetStore(c), c.QueryBool("active_only", false))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// DeactivateRoute godoc
// @Summary      Desactivar ruta
// @Tags         routes
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la ruta"
// @Success      200  {object}  dto.RouteResponse
// @Router       /api/v1/routes/{id} [delete]
func (h *ClientHandler) DeactivateRoute(c *fiber.Ctx) error {
	out, err := h.routes.Deactivate(c.UserContext(), GetStore(c), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}
