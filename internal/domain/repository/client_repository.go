package repository

import (
	"context"

	"github.com/CarlosEstrada30/smart-orders-api/internal/domain/entity"
)

// ClientRepository define el puerto de persistencia para Client.
type ClientRepository interface {
	Create(ctx context.Context, c *entity.Client) error
	GetByID(ctx context.Context, id string) (*entity.Client, error)
	Update(ctx context.Context, c *entity.Client) error
	List(ctx context.Context, activeOnly bool, limit, offset int) ([]*entity.Client, error)
}

// RouteRepository define el puerto de persistencia para Route.
type RouteRepository interface {
	Create(ctx context.Context, r *entity.Route) error
	GetByID(ctx context.Context, id string) (*entity.Route, error)
	Update(ctx context.Context, r *entity.Route) error
	List(ctx context.Context, activeOnly bool) ([]*entity.Route, error)
}
