package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product representa un producto del catálogo del tenant.
// Stock es el único contador autoritativo de existencias; solo lo mueven
// las transiciones de órdenes y las entradas de inventario completadas.
type Product struct {
	ID          string
	SKU         string // único dentro del schema
	Name        string
	Description string
	Price       decimal.Decimal
	Stock       int
	IsActive    bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// ProductRoutePrice precio especial de un producto en una ruta. Único por (producto, ruta).
// Sin registro rige Product.Price.
type ProductRoutePrice struct {
	ID        string
	ProductID string
	RouteID   string
	Price     decimal.Decimal
	CreatedAt time.Time
	UpdatedAt time.Time
}
