package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateProductRequest entrada para crear un producto.
type CreateProductRequest struct {
	SKU          string          `json:"sku" validate:"required,min=1,max=100"`
	Name         string          `json:"name" validate:"required,min=1,max=200"`
	Description  string          `json:"description"`
	Price        decimal.Decimal `json:"price"`
	InitialStock int             `json:"initial_stock" validate:"min=0"`
}

// UpdateProductRequest entrada para actualizar un producto (sin Stock: se mueve vía órdenes y entradas).
type UpdateProductRequest struct {
	Name        *string          `json:"name" validate:"omitempty,min=1,max=200"`
	Description *string          `json:"description"`
	Price       *decimal.Decimal `json:"price"`
	IsActive    *bool            `json:"is_active"`
}

// ProductResponse salida de un producto.
type ProductResponse struct {
	ID          string               `json:"id"`
	SKU         string               `json:"sku"`
	Name        string               `json:"name"`
	Description string               `json:"description"`
	Price       decimal.Decimal      `json:"price"`
	Stock       int                  `json:"stock"`
	IsActive    bool                 `json:"is_active"`
	CreatedAt   time.Time            `json:"created_at"`
	UpdatedAt   time.Time            `json:"updated_at"`
	RoutePrices []RoutePriceResponse `json:"route_prices,omitempty"` // solo en el detalle
}

// ProductListResponse lista paginada de productos.
type ProductListResponse struct {
	Items []ProductResponse `json:"items"`
	Page  PageResponse      `json:"page"`
}

// ProductListQuery filtros del listado de productos.
type ProductListQuery struct {
	ActiveOnly bool   `query:"active_only"`
	Search     string `query:"search"`
	PageRequest
}

// ClientListQuery filtros del listado de clientes.
type ClientListQuery struct {
	ActiveOnly bool `query:"active_only"`
	PageRequest
}

// SetRoutePriceRequest fija el precio de un producto en una ruta; si ya existe, lo reemplaza.
type SetRoutePriceRequest struct {
	ProductID string          `json:"product_id" validate:"required"`
	RouteID   string          `json:"route_id" validate:"required"`
	Price     decimal.Decimal `json:"price"`
}

// UpdateRoutePriceRequest nuevo precio de un registro existente.
type UpdateRoutePriceRequest struct {
	Price decimal.Decimal `json:"price"`
}

// RoutePriceResponse precio por ruta con los nombres de producto y ruta.
type RoutePriceResponse struct {
	ID          string          `json:"id"`
	ProductID   string          `json:"product_id"`
	RouteID     string          `json:"route_id"`
	Price       decimal.Decimal `json:"price"`
	ProductName string          `json:"product_name,omitempty"`
	RouteName   string          `json:"route_name,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}
