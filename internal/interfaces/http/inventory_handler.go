package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/CarlosEstrada30/smart-orders-api/internal/application/dto"
	"github.com/CarlosEstrada30/smart-orders-api/internal/application/inventory"
)

// InventoryHandler entradas de inventario, ajustes rápidos y sugerencias de reposición.
type InventoryHandler struct {
	entries       *inventory.EntryUseCase
	replenishment *inventory.ReplenishmentUseCase
}

// NewInventoryHandler construye el handler.
func NewInventoryHandler(entries *inventory.EntryUseCase, replenishment *inventory.ReplenishmentUseCase) *InventoryHandler {
	return &InventoryHandler{entries: entries, replenishment: replenishment}
}

// CreateEntry godoc
// @Summary      Crear entrada de inventario
// @Description  Queda en draft (o pending con submit=true). El stock solo cambia al completarla.
// @Tags         inventory
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateInventoryEntryRequest  true  "Tipo y líneas"
// @Success      201   {object}  dto.InventoryEntryResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/v1/inventory/entries [post]
func (h *InventoryHandler) CreateEntry(c *fiber.Ctx) error {
	var in dto.CreateInventoryEntryRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.entries.Create(c.UserContext(), GetStore(c), GetUserID(c), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// GetEntry godoc
// @Summary      Obtener entrada
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la entrada"
// @Success      200  {object}  dto.InventoryEntryResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/v1/inventory/entries/{id} [get]
func (h *InventoryHandler) GetEntry(c *fiber.Ctx) error {
	out, err := h.entries.Get(c.UserContext(), GetStore(c), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// ListEntries godoc
// @Summary      Listar entradas
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        entry_type  query  string  false  "Tipo"
// @Param        status      query  string  false  "Estado"
// @Param        limit       query  int     false  "Límite"  default(20)
// @Param        offset      query  int     false  "Offset"  default(0)
// @Success      200         {object}  dto.InventoryEntryListResponse
// @Router       /api/v1/inventory/entries [get]
func (h *InventoryHandler) ListEntries(c *fiber.Ctx) error {
	out, err := h.entries.List(c.UserContext(), GetStore(c), dto.InventoryEntryQuery{
		EntryType:   c.Query("entry_type"),
		Status:      c.Query("status"),
		PageRequest: pageFrom(c),
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Approve godoc
// @Summary      Aprobar entrada
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la entrada"
// @Success      200  {object}  dto.InventoryEntryResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/v1/inventory/entries/{id}/approve [post]
func (h *InventoryHandler) Approve(c *fiber.Ctx) error {
	out, err := h.entries.Approve(c.UserContext(), GetStore(c), c.Params("id"), GetUserID(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Complete godoc
// @Summary      Completar entrada (suma stock)
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la entrada"
// @Success      200  {object}  dto.InventoryEntryResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/v1/inventory/entries/{id}/complete [post]
func (h *InventoryHandler) Complete(c *fiber.Ctx) error {
	out, err := h.entries.Complete(c.UserContext(), GetStore(c), c.Params("id"), GetUserID(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Cancel godoc
// @Summary      Cancelar entrada
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la entrada"
// @Success      200  {object}  dto.InventoryEntryResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/v1/inventory/entries/{id}/cancel [post]
func (h *InventoryHandler) Cancel(c *fiber.Ctx) error {
	out, err := h.entries.Cancel(c.UserContext(), GetStore(c), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Adjust godoc
// @Summary      Ajuste rápido de stock
// @Tags         inventory
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.StockAdjustmentRequest  true  "Producto, delta y motivo"
// @Success      201   {object}  dto.InventoryEntryResponse
// @Failure      422   {object}  dto.ErrorResponse
// @Router       /api/v1/inventory/adjust [post]
func (h *InventoryHandler) Adjust(c *fiber.Ctx) error {
	var in dto.StockAdjustmentRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.entries.QuickAdjust(c.UserContext(), GetStore(c), GetUserID(c), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// Replenishment godoc
// @Summary      Sugerencias de reposición
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        threshold  query  int  false  "Umbral de stock bajo"  default(10)
// @Success      200        {array}  dto.ReplenishmentSuggestion
// @Router       /api/v1/inventory/replenishment [get]
func (h *InventoryHandler) Replenishment(c *fiber.Ctx) error {
	out, err := h.replenishment.Suggest(c.UserContext(), GetStore(c), c.QueryInt("threshold", 0))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}
