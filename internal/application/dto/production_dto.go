package dto

// ProductionDashboardResponse respuesta de GET /api/v1/production/dashboard.
// Compara lo comprometido en órdenes pending de una ruta y día con el stock actual.
type ProductionDashboardResponse struct {
	Route    ProductionRouteInfo `json:"route_info"`
	Summary  ProductionSummary   `json:"production_summary"`
	Products []ProductionLine    `json:"products"`
}

// ProductionRouteInfo ruta y día consultados.
type ProductionRouteInfo struct {
	RouteID   string `json:"route_id"`
	RouteName string `json:"route_name"`
	Date      string `json:"date"` // AAAA-MM-DD
}

// ProductionSummary totales del tablero.
type ProductionSummary struct {
	TotalProducts             int `json:"total_products"`
	ProductsNeedingProduction int `json:"products_needing_production"`
}

// ProductionLine un producto del tablero; ToProduce = max(0, Committed - Stock).
type ProductionLine struct {
	ProductID string `json:"product_id"`
	SKU       string `json:"sku"`
	Name      string `json:"name"`
	Stock     int    `json:"stock"`
	Committed int    `json:"committed"`
	ToProduce int    `json:"to_produce"`
}
