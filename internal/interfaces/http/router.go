package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/CarlosEstrada30/smart-orders-api/internal/application/auth"
	"github.com/CarlosEstrada30/smart-orders-api/internal/application/inventory"
	"github.com/CarlosEstrada30/smart-orders-api/internal/application/orders"
	"github.com/CarlosEstrada30/smart-orders-api/internal/application/payments"
	"github.com/CarlosEstrada30/smart-orders-api/internal/application/production"
	"github.com/CarlosEstrada30/smart-orders-api/internal/application/tenancy"
	"github.com/CarlosEstrada30/smart-orders-api/internal/application/usecase"
	"github.com/CarlosEstrada30/smart-orders-api/internal/domain/entity"
	"github.com/CarlosEstrada30/smart-orders-api/internal/domain/repository"
	"github.com/CarlosEstrada30/smart-orders-api/pkg/logger"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC        *auth.AuthUseCase
	TenantAdmin   *tenancy.AdminUseCase
	OrdersUC      *orders.UseCase
	Payments      *payments.Ledger
	Entries       *inventory.EntryUseCase
	Replenishment *inventory.ReplenishmentUseCase
	Production    *production.DashboardUseCase
	ProductUC     *usecase.ProductUseCase
	RoutePriceUC  *usecase.RoutePriceUseCase
	ClientUC      *usecase.ClientUseCase
	RouteUC       *usecase.RouteUseCase
	UserUC        *usecase.UserUseCase
	Sessions      repository.SessionFactory
	JWTSecret     string
	Log           *logger.Logger
}

// Router registra las rutas de la API bajo /api/v1.
func Router(app *fiber.App, deps RouterDeps) {
	v1 := app.Group("/api/v1")

	// Auth (público)
	authHandler := NewAuthHandler(deps.AuthUC)
	v1.Post("/auth/login", authHandler.Login)

	// Cada grupo protegido: JWT y luego sesión del schema del token.
	authed := []fiber.Handler{AuthMiddleware(deps.JWTSecret), TenantSession(deps.Sessions, deps.Log)}
	perm := RequirePermission

	// Orders
	orderHandler := NewOrderHandler(deps.OrdersUC)
	ord := v1.Group("/orders", authed...)
	ord.Get("/", orderHandler.List)
	ord.Post("/", perm(auth.PermManageOrders), orderHandler.Create)
	ord.Post("/bulk-status", perm(auth.PermUpdateOrderStatus), orderHandler.BulkStatus)
	ord.Get("/number/:number", orderHandler.GetByNumber)
	ord.Get("/:id", orderHandler.GetByID)
	ord.Get("/:id/invoice-view", orderHandler.InvoiceView)
	ord.Patch("/:id/status", perm(auth.PermUpdateOrderStatus), orderHandler.UpdateStatus)
	ord.Post("/:id/cancel", perm(auth.PermManageOrders), orderHandler.Cancel)

	// Payments
	paymentHandler := NewPaymentHandler(deps.Payments)
	pay := v1.Group("/payments", authed...)
	pay.Get("/", paymentHandler.List)
	pay.Post("/", perm(auth.PermManagePayments), paymentHandler.Create)
	pay.Post("/bulk", perm(auth.PermManagePayments), paymentHandler.Bulk)
	pay.Get("/orders/:orderId/summary", paymentHandler.Summary)
	pay.Get("/:id", paymentHandler.GetByID)
	pay.Post("/:id/cancel", perm(auth.PermManagePayments), paymentHandler.Cancel)

	// Inventory
	inventoryHandler := NewInventoryHandler(deps.Entries, deps.Replenishment)
	inv := v1.Group("/inventory", authed...)
	inv.Get("/replenishment", inventoryHandler.Replenishment)
	inv.Post("/adjust", perm(auth.PermManageInventory), inventoryHandler.Adjust)
	inv.Get("/entries", inventoryHandler.ListEntries)
	inv.Post("/entries", perm(auth.PermManageInventory), inventoryHandler.CreateEntry)
	inv.Get("/entries/:id", inventoryHandler.GetEntry)
	inv.Post("/entries/:id/approve", perm(auth.PermManageInventory), inventoryHandler.Approve)
	inv.Post("/entries/:id/complete", perm(auth.PermManageInventory), inventoryHandler.Complete)
	inv.Post("/entries/:id/cancel", perm(auth.PermManageInventory), inventoryHandler.Cancel)

	// Products
	productHandler := NewProductHandler(deps.ProductUC)
	products := v1.Group("/products", authed...)
	products.Get("/", productHandler.List)
	products.Get("/low-stock", productHandler.LowStock)
	products.Post("/", perm(auth.PermManageProducts), productHandler.Create)
	products.Get("/:id", productHandler.GetByID)
	products.Put("/:id", perm(auth.PermManageProducts), productHandler.Update)
	products.Delete("/:id", perm(auth.PermManageProducts), productHandler.Deactivate)

	// Precios por ruta
	routePriceHandler := NewRoutePriceHandler(deps.RoutePriceUC)
	prices := v1.Group("/product-route-prices", authed...)
	prices.Get("/", routePriceHandler.List)
	prices.Post("/", perm(auth.PermManageProducts), routePriceHandler.Set)
	prices.Get("/product/:productId", routePriceHandler.ListByProduct)
	prices.Delete("/product/:productId/route/:routeId", perm(auth.PermManageProducts), routePriceHandler.DeleteByProductAndRoute)
	prices.Get("/:id", routePriceHandler.GetByID)
	prices.Put("/:id", perm(auth.PermManageProducts), routePriceHandler.Update)
	prices.Delete("/:id", perm(auth.PermManageProducts), routePriceHandler.Delete)

	// Producción
	productionHandler := NewProductionHandler(deps.Production)
	v1.Get("/production/dashboard", append(authed, productionHandler.Dashboard)...)

	// Clients y rutas
	clientHandler := NewClientHandler(deps.ClientUC, deps.RouteUC)
	clients := v1.Group("/clients", authed...)
	clients.Get("/", clientHandler.List)
	clients.Post("/", perm(auth.PermManageClients), clientHandler.Create)
	clients.Get("/:id", clientHandler.GetByID)
	clients.Put("/:id", perm(auth.PermManageClients), clientHandler.Update)
	clients.Delete("/:id", perm(auth.PermManageClients), clientHandler.Deactivate)

	routes := v1.Group("/routes", authed...)
	routes.Get("/", clientHandler.ListRoutes)
	routes.Post("/", perm(auth.PermManageProducts), clientHandler.CreateRoute)
	routes.Get("/:id", clientHandler.GetRoute)
	routes.Delete("/:id", perm(auth.PermManageProducts), clientHandler.DeactivateRoute)

	// Users (admin del tenant)
	userHandler := NewUserHandler(deps.UserUC)
	users := v1.Group("/users", append(authed, perm(auth.PermManageUsers))...)
	users.Get("/", userHandler.List)
	users.Post("/", userHandler.Create)
	users.Get("/:id", userHandler.GetByID)

	// Tenants: el directorio vive en el schema por defecto, no hace falta sesión.
	tenantHandler := NewTenantHandler(deps.TenantAdmin)
	admin := v1.Group("/admin/tenants",
		AuthMiddleware(deps.JWTSecret),
		RequireRole(string(entity.RoleAdmin)),
		RequireDefaultSchema(),
	)
	admin.Get("/", tenantHandler.List)
	admin.Post("/", tenantHandler.Create)
	admin.Get("/:id", tenantHandler.GetByID)
	admin.Delete("/:id", tenantHandler.Delete)
	admin.Post("/:id/restore", tenantHandler.Restore)
}
