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

// RouteUseCase rutas de reparto.
type RouteUseCase struct{}

// NewRouteUseCase construye el caso de uso.
func NewRouteUseCase() *RouteUseCase {
	return &RouteUseCase{}
}

// Create crea una ruta activa.
func (uc *RouteUseCase) Create(ctx context.Context, store repository.Store, in dto.CreateRouteRequest) (*dto.RouteResponse, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, fmt.Errorf("%w: nombre requerido", domain.ErrInvalidInput)
	}
	now := time.Now()
	rt := &entity.Route{
		ID:          uuid.New().String(),
		Name:        name,
		Description: in.Description,
		IsActive:    true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := store.Repos().Routes.Create(ctx, rt); err != nil {
		return nil, err
	}
	return toRouteResponse(rt), nil
}

// GetByID obtiene una ruta.
func (uc *RouteUseCase) GetByID(ctx context.Context, store repository.Store, id string) (*dto.RouteResponse, error) {
	rt, err := store.Repos().Routes.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if rt == nil {
		return nil, fmt.Errorf("%w: ruta %s", domain.ErrNotFound, id)
	}
	return toRouteResponse(rt), nil
}

// List lista rutas; solo activas si activeOnly.
func (uc *RouteUseCase) List(ctx context.Context, store repository.Store, activeOnly bool) ([]dto.RouteResponse, error) {
	list, err := store.Repos().Routes.List(ctx, activeOnly)
	if err != nil {
		return nil, err
	}
	out := make([]dto.RouteResponse, 0, len(list))
	for _, rt := range list {
		out = append(out, *toRouteResponse(rt))
	}
	return out, nil
}

// Deactivate baja lógica de la ruta.
func (uc *RouteUseCase) Deactivate(ctx context.Context, store repository.Store, id string) (*dto.RouteResponse, error) {
	var rt *entity.Route
	err := store.WithTx(ctx, func(r repository.Repositories) error {
		var err error
		rt, err = r.Routes.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if rt == nil {
			return fmt.Errorf("%w: ruta %s", domain.ErrNotFound, id)
		}
		rt.IsActive = false
		rt.UpdatedAt = time.Now()
		return r.Routes.Update(ctx, rt)
	})
	if err != nil {
		return nil, err
	}
	return toRouteResponse(rt), nil
}

func toRouteResponse(rt *entity.Route) *dto.RouteResponse {
	return &dto.RouteResponse{
		ID:          rt.ID,
		Name:        rt.Name,
		Description: rt.Description,
		IsActive:    rt.IsActive,
		CreatedAt:   rt.CreatedAt,
	}
}
