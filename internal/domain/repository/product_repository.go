package repository

import (
	"context"

	"github.com/CarlosEstrada30/smart-orders-api/internal/domain/entity"
)

// ProductFilter filtros de listado de productos.
type ProductFilter struct {
	ActiveOnly bool
	Search     string
	Limit      int
	Offset     int
}

// ProductRepository define el puerto de persistencia para Product (DIP).
// GetByID devuelve (nil, nil) si no existe.
type ProductRepository interface {
	Create(ctx context.Context, p *entity.Product) error
	GetByID(ctx context.Context, id string) (*entity.Product, error)
	GetBySKU(ctx context.Context, sku string) (*entity.Product, error)
	Update(ctx context.Context, p *entity.Product) error
	List(ctx context.Context, f ProductFilter) ([]*entity.Product, error)
	ListLowStock(ctx context.Context, threshold int) ([]*entity.Product, error)

	// DecrementStock resta qty en una sola sentencia con guarda
	// (activo y stock >= qty). Devuelve false si la guarda no se cumplió.
	DecrementStock(ctx context.Context, id string, qty int) (bool, error)
	// IncrementStock suma qty sin límite superior.
	IncrementStock(ctx context.Context, id string, qty int) error
}

// ProductRoutePriceRepository precios por ruta. Los Get devuelven (nil, nil) si no existe.
type ProductRoutePriceRepository interface {
	// Create con (producto, ruta) repetido: domain.ErrDuplicate.
	Create(ctx context.Context, p *entity.ProductRoutePrice) error
	GetByID(ctx context.Context, id string) (*entity.ProductRoutePrice, error)
	GetByProductAndRoute(ctx context.Context, productID, routeID string) (*entity.ProductRoutePrice, error)
	ListByProduct(ctx context.Context, productID string) ([]*entity.ProductRoutePrice, error)
	List(ctx context.Context, limit, offset int) ([]*entity.ProductRoutePrice, error)
	UpdatePrice(ctx context.Context, p *entity.ProductRoutePrice) error
	Delete(ctx context.Context, id string) error
}
