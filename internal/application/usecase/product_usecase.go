package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/CarlosEstrada30/smart-orders-api/internal/application/dto"
	"github.com/CarlosEstrada30/smart-orders-api/internal/domain"
	"github.com/CarlosEstrada30/smart-orders-api/internal/domain/entity"
	"github.com/CarlosEstrada30/smart-orders-api/internal/domain/repository"
)

// ProductUseCase casos de uso CRUD para productos. Stock solo se mueve vía órdenes y entradas;
// InitialStock es la única excepción, al crear.
type ProductUseCase struct{}

// NewProductUseCase construye el caso de uso.
func NewProductUseCase() *ProductUseCase {
	return &ProductUseCase{}
}

// Create crea un nuevo producto activo. SKU duplicado: ErrDuplicate.
func (uc *ProductUseCase) Create(ctx context.Context, store repository.Store, in dto.CreateProductRequest) (*dto.ProductResponse, error) {
	sku := strings.ToUpper(strings.TrimSpace(in.SKU))
	if sku == "" || strings.TrimSpace(in.Name) == "" {
		return nil, fmt.Errorf("%w: sku y nombre requeridos", domain.ErrInvalidInput)
	}
	if in.Price.IsNegative() || in.InitialStock < 0 {
		return nil, fmt.Errorf("%w: precio y stock inicial no pueden ser negativos", domain.ErrInvalidInput)
	}
	now := time.Now()
	product := &entity.Product{
		ID:          uuid.New().String(),
		SKU:         sku,
		Name:        strings.TrimSpace(in.Name),
		Description: in.Description,
		Price:       in.Price,
		Stock:       in.InitialStock,
		IsActive:    true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	err := store.WithTx(ctx, func(r repository.Repositories) error {
		existing, err := r.Products.GetBySKU(ctx, sku)
		if err != nil {
			return err
		}
		if existing != nil {
			return fmt.Errorf("%w: sku %s", domain.ErrDuplicate, sku)
		}
		return r.Products.Create(ctx, product)
	})
	if err != nil {
		return nil, err
	}
	return ToProductResponse(product), nil
}

// GetByID obtiene un producto por ID con sus precios por ruta.
func (uc *ProductUseCase) GetByID(ctx context.Context, store repository.Store, id string) (*dto.ProductResponse, error) {
	r := store.Repos()
	product, err := r.Products.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, fmt.Errorf("%w: producto %s", domain.ErrNotFound, id)
	}
	out := ToProductResponse(product)
	if out.RoutePrices, err = routePricesOf(ctx, r, id); err != nil {
		return nil, err
	}
	return out, nil
}

// Update actualiza nombre, descripción, precio o estado. No toca Stock.
func (uc *ProductUseCase) Update(ctx context.Context, store repository.Store, id string, in dto.UpdateProductRequest) (*dto.ProductResponse, error) {
	var product *entity.Product
	err := store.WithTx(ctx, func(r repository.Repositories) error {
		var err error
		product, err = r.Products.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if product == nil {
			return fmt.Errorf("%w: producto %s", domain.ErrNotFound, id)
		}
		if in.Name != nil {
			if strings.TrimSpace(*in.Name) == "" {
				return fmt.Errorf("%w: nombre vacío", domain.ErrInvalidInput)
			}
			product.Name = strings.TrimSpace(*in.Name)
		}
		if in.Description != nil {
			product.Description = *in.Description
		}
		if in.Price != nil {
			if in.Price.IsNegative() {
				return fmt.Errorf("%w: precio negativo", domain.ErrInvalidInput)
			}
			product.Price = *in.Price
		}
		if in.IsActive != nil {
			product.IsActive = *in.IsActive
		}
		product.UpdatedAt = time.Now()
		return r.Products.Update(ctx, product)
	})
	if err != nil {
		return nil, err
	}
	return ToProductResponse(product), nil
}

// Deactivate baja lógica: el producto deja de poder venderse o reservarse.
func (uc *ProductUseCase) Deactivate(ctx context.Context, store repository.Store, id string) (*dto.ProductResponse, error) {
	inactive := false
	return uc.Update(ctx, store, id, dto.UpdateProductRequest{IsActive: &inactive})
}

// List lista productos con paginación.
func (uc *ProductUseCase) List(ctx context.Context, store repository.Store, q dto.ProductListQuery) (*dto.ProductListResponse, error) {
	q.DefaultPage()
	list, err := store.Repos().Products.List(ctx, repository.ProductFilter{
		ActiveOnly: q.ActiveOnly,
		Search:     strings.TrimSpace(q.Search),
		Limit:      q.Limit,
		Offset:     q.Offset,
	})
	if err != nil {
		return nil, err
	}
	items := make([]dto.ProductResponse, 0, len(list))
	for _, p := range list {
		items = append(items, *ToProductResponse(p))
	}
	return &dto.ProductListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: q.Limit, Offset: q.Offset},
	}, nil
}

// LowStock productos activos con stock <= threshold, de menor a mayor.
func (uc *ProductUseCase) LowStock(ctx context.Context, store repository.Store, threshold int) ([]dto.ProductResponse, error) {
	if threshold < 0 {
		return nil, fmt.Errorf("%w: umbral negativo", domain.ErrInvalidInput)
	}
	list, err := store.Repos().Products.ListLowStock(ctx, threshold)
	if err != nil {
		return nil, err
	}
	items := make([]dto.ProductResponse, 0, len(list))
	for _, p := range list {
		items = append(items, *ToProductResponse(p))
	}
	return items, nil
}

// ToProductResponse mapea la entidad a su DTO.
func ToProductResponse(p *entity.Product) *dto.ProductResponse {
	if p == nil {
		return nil
	}
	return &dto.ProductResponse{
		ID:          p.ID,
		SKU:         p.SKU,
		Name:        p.Name,
		Description: p.Description,
		Price:       p.Price,
		Stock:       p.Stock,
		IsActive:    p.IsActive,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}
