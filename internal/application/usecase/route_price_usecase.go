package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/CarlosEstrada30/smart-orders-api/internal/application/dto"
	"github.com/CarlosEstrada30/smart-orders-api/internal/domain"
	"github.com/CarlosEstrada30/smart-orders-api/internal/domain/entity"
	"github.com/CarlosEstrada30/smart-orders-api/internal/domain/repository"
)

// RoutePriceUseCase precios especiales por (producto, ruta). Una orden con ruta toma
// este precio cuando la línea no trae unit_price.
type RoutePriceUseCase struct{}

// NewRoutePriceUseCase construye el caso de uso.
func NewRoutePriceUseCase() *RoutePriceUseCase {
	return &RoutePriceUseCase{}
}

// Set crea o reemplaza el precio del producto en la ruta.
func (uc *RoutePriceUseCase) Set(ctx context.Context, store repository.Store, in dto.SetRoutePriceRequest) (*dto.RoutePriceResponse, error) {
	if in.ProductID == "" || in.RouteID == "" {
		return nil, fmt.Errorf("%w: product_id y route_id requeridos", domain.ErrInvalidInput)
	}
	if err := validPrice(in.Price); err != nil {
		return nil, err
	}
	var out *dto.RoutePriceResponse
	err := store.WithTx(ctx, func(r repository.Repositories) error {
		product, route, err := productAndRoute(ctx, r, in.ProductID, in.RouteID)
		if err != nil {
			return err
		}
		now := time.Now()
		rp, err := r.RoutePrices.GetByProductAndRoute(ctx, in.ProductID, in.RouteID)
		if err != nil {
			return err
		}
		if rp != nil {
			rp.Price = in.Price
			rp.UpdatedAt = now
			err = r.RoutePrices.UpdatePrice(ctx, rp)
		} else {
			rp = &entity.ProductRoutePrice{
				ID:        uuid.New().String(),
				ProductID: in.ProductID,
				RouteID:   in.RouteID,
				Price:     in.Price,
				CreatedAt: now,
				UpdatedAt: now,
			}
			err = r.RoutePrices.Create(ctx, rp)
		}
		if err != nil {
			return err
		}
		out = toRoutePriceResponse(rp, product.Name, route.Name)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// GetByID obtiene un precio por ruta.
func (uc *RoutePriceUseCase) GetByID(ctx context.Context, store repository.Store, id string) (*dto.RoutePriceResponse, error) {
	r := store.Repos()
	rp, err := r.RoutePrices.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if rp == nil {
		return nil, fmt.Errorf("%w: precio por ruta %s", domain.ErrNotFound, id)
	}
	out, err := withNames(ctx, r, []*entity.ProductRoutePrice{rp})
	if err != nil {
		return nil, err
	}
	return &out[0], nil
}

// List todos los precios por ruta, más recientes primero.
func (uc *RoutePriceUseCase) List(ctx context.Context, store repository.Store, page dto.PageRequest) ([]dto.RoutePriceResponse, error) {
	page.DefaultPage()
	r := store.Repos()
	list, err := r.RoutePrices.List(ctx, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	return withNames(ctx, r, list)
}

// ListByProduct precios del producto en cada ruta. Producto inexistente: ErrNotFound.
func (uc *RoutePriceUseCase) ListByProduct(ctx context.Context, store repository.Store, productID string) ([]dto.RoutePriceResponse, error) {
	r := store.Repos()
	product, err := r.Products.GetByID(ctx, productID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, fmt.Errorf("%w: producto %s", domain.ErrNotFound, productID)
	}
	return routePricesOf(ctx, r, productID)
}

// UpdatePrice cambia el precio de un registro existente.
func (uc *RoutePriceUseCase) UpdatePrice(ctx context.Context, store repository.Store, id string, in dto.UpdateRoutePriceRequest) (*dto.RoutePriceResponse, error) {
	if err := validPrice(in.Price); err != nil {
		return nil, err
	}
	var rp *entity.ProductRoutePrice
	err := store.WithTx(ctx, func(r repository.Repositories) error {
		var err error
		rp, err = r.RoutePrices.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if rp == nil {
			return fmt.Errorf("%w: precio por ruta %s", domain.ErrNotFound, id)
		}
		rp.Price = in.Price
		rp.UpdatedAt = time.Now()
		return r.RoutePrices.UpdatePrice(ctx, rp)
	})
	if err != nil {
		return nil, err
	}
	out, err := withNames(ctx, store.Repos(), []*entity.ProductRoutePrice{rp})
	if err != nil {
		return nil, err
	}
	return &out[0], nil
}

// Delete elimina el registro; el producto vuelve a su precio general en esa ruta.
func (uc *RoutePriceUseCase) Delete(ctx context.Context, store repository.Store, id string) error {
	err := store.Repos().RoutePrices.Delete(ctx, id)
	if errors.Is(err, domain.ErrNotFound) {
		return fmt.Errorf("%w: precio por ruta %s", domain.ErrNotFound, id)
	}
	return err
}

// DeleteByProductAndRoute como Delete, identificando el registro por producto y ruta.
func (uc *RoutePriceUseCase) DeleteByProductAndRoute(ctx context.Context, store repository.Store, productID, routeID string) error {
	return store.WithTx(ctx, func(r repository.Repositories) error {
		rp, err := r.RoutePrices.GetByProductAndRoute(ctx, productID, routeID)
		if err != nil {
			return err
		}
		if rp == nil {
			return fmt.Errorf("%w: el producto %s no tiene precio en la ruta %s", domain.ErrNotFound, productID, routeID)
		}
		return r.RoutePrices.Delete(ctx, rp.ID)
	})
}

func validPrice(p decimal.Decimal) error {
	if !p.GreaterThan(decimal.Zero) {
		return fmt.Errorf("%w: el precio debe ser mayor a cero", domain.ErrInvalidInput)
	}
	return nil
}

func productAndRoute(ctx context.Context, r repository.Repositories, productID, routeID string) (*entity.Product, *entity.Route, error) {
	product, err := r.Products.GetByID(ctx, productID)
	if err != nil {
		return nil, nil, err
	}
	if product == nil {
		return nil, nil, fmt.Errorf("%w: producto %s", domain.ErrNotFound, productID)
	}
	route, err := r.Routes.GetByID(ctx, routeID)
	if err != nil {
		return nil, nil, err
	}
	if route == nil {
		return nil, nil, fmt.Errorf("%w: ruta %s", domain.ErrNotFound, routeID)
	}
	return product, route, nil
}

func routePricesOf(ctx context.Context, r repository.Repositories, productID string) ([]dto.RoutePriceResponse, error) {
	list, err := r.RoutePrices.ListByProduct(ctx, productID)
	if err != nil {
		return nil, err
	}
	return withNames(ctx, r, list)
}

// withNames completa nombres de producto y ruta, una consulta por id distinto.
func withNames(ctx context.Context, r repository.Repositories, list []*entity.ProductRoutePrice) ([]dto.RoutePriceResponse, error) {
	products := map[string]string{}
	routes := map[string]string{}
	out := make([]dto.RoutePriceResponse, 0, len(list))
	for _, rp := range list {
		if _, ok := products[rp.ProductID]; !ok {
			p, err := r.Products.GetByID(ctx, rp.ProductID)
			if err != nil {
				return nil, err
			}
			if p != nil {
				products[rp.ProductID] = p.Name
			} else {
				products[rp.ProductID] = ""
			}
		}
		if _, ok := routes[rp.RouteID]; !ok {
			rt, err := r.Routes.GetByID(ctx, rp.RouteID)
			if err != nil {
				return nil, err
			}
			if rt != nil {
				routes[rp.RouteID] = rt.Name
			} else {
				routes[rp.RouteID] = ""
			}
		}
		out = append(out, *toRoutePriceResponse(rp, products[rp.ProductID], routes[rp.RouteID]))
	}
	return out, nil
}

func toRoutePriceResponse(rp *entity.ProductRoutePrice, productName, routeName string) *dto.RoutePriceResponse {
	return &dto.RoutePriceResponse{
		ID:          rp.ID,
		ProductID:   rp.ProductID,
		RouteID:     rp.RouteID,
		Price:       rp.Price,
		ProductName: productName,
		RouteName:   routeName,
		CreatedAt:   rp.CreatedAt,
		UpdatedAt:   rp.UpdatedAt,
	}
}
