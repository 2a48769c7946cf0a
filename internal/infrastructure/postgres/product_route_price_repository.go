package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/CarlosEstrada30/smart-orders-api/internal/domain"
	"github.com/CarlosEstrada30/smart-orders-api/internal/domain/entity"
	"github.com/CarlosEstrada30/smart-orders-api/internal/domain/repository"
)

var _ repository.ProductRoutePriceRepository = (*ProductRoutePriceRepo)(nil)

// ProductRoutePriceRepo precios de producto por ruta.
type ProductRoutePriceRepo struct {
	q Querier
}

// NewProductRoutePriceRepository construye el adaptador.
func NewProductRoutePriceRepository(q Querier) *ProductRoutePriceRepo {
	return &ProductRoutePriceRepo{q: q}
}

const routePriceColumns = `id, product_id, route_id, price, created_at, updated_at`

func scanRoutePrice(row pgx.Row) (*entity.ProductRoutePrice, error) {
	var p entity.ProductRoutePrice
	if err := row.Scan(&p.ID, &p.ProductID, &p.RouteID, &p.Price, &p.CreatedAt, &p.UpdatedAt); err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *ProductRoutePriceRepo) Create(ctx context.Context, p *entity.ProductRoutePrice) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO product_route_prices (`+routePriceColumns+`) VALUES ($1, $2, $3, $4, $5, $6)`,
		p.ID, p.ProductID, p.RouteID, p.Price, p.CreatedAt, p.UpdatedAt,
	)
	if err != nil {
		return mapWriteErr("insert route price", err)
	}
	return nil
}

func (r *ProductRoutePriceRepo) get(ctx context.Context, query string, args ...any) (*entity.ProductRoutePrice, error) {
	p, err := scanRoutePrice(r.q.QueryRow(ctx, query, args...))
	if err != nil {
		if isNoRow(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get route price: %w", err)
	}
	return p, nil
}

func (r *ProductRoutePriceRepo) GetByID(ctx context.Context, id string) (*entity.ProductRoutePrice, error) {
	return r.get(ctx, `SELECT `+routePriceColumns+` FROM product_route_prices WHERE id = $1`, id)
}

func (r *ProductRoutePriceRepo) GetByProductAndRoute(ctx context.Context, productID, routeID string) (*entity.ProductRoutePrice, error) {
	return r.get(ctx, `
		SELECT `+routePriceColumns+` FROM product_route_prices
		WHERE product_id = $1 AND route_id = $2`, productID, routeID)
}

// ListByProduct precios del producto en todas sus rutas.
func (r *ProductRoutePriceRepo) ListByProduct(ctx context.Context, productID string) ([]*entity.ProductRoutePrice, error) {
	rows, err := r.q.Query(ctx, `
		SELECT `+routePriceColumns+` FROM product_route_prices
		WHERE product_id = $1 ORDER BY created_at`, productID)
	if err != nil {
		return nil, queryErr("list route prices", err)
	}
	return collectRoutePrices(rows)
}

func (r *ProductRoutePriceRepo) List(ctx context.Context, limit, offset int) ([]*entity.ProductRoutePrice, error) {
	rows, err := r.q.Query(ctx, `
		SELECT `+routePriceColumns+` FROM product_route_prices
		ORDER BY created_at DESC LIMIT NULLIF($1, 0) OFFSET $2`, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list route prices: %w", err)
	}
	return collectRoutePrices(rows)
}

func collectRoutePrices(rows pgx.Rows) ([]*entity.ProductRoutePrice, error) {
	defer rows.Close()
	var list []*entity.ProductRoutePrice
	for rows.Next() {
		p, err := scanRoutePrice(rows)
		if err != nil {
			return nil, fmt.Errorf("scan route price: %w", err)
		}
		list = append(list, p)
	}
	if err := rows.Err(); err != nil {
		return nil, queryErr("list route prices", err)
	}
	return list, nil
}

// UpdatePrice solo cambia el precio; producto y ruta son la identidad del registro.
func (r *ProductRoutePriceRepo) UpdatePrice(ctx context.Context, p *entity.ProductRoutePrice) error {
	cmd, err := r.q.Exec(ctx, `
		UPDATE product_route_prices SET price = $2, updated_at = $3 WHERE id = $1`,
		p.ID, p.Price, p.UpdatedAt)
	if err != nil {
		return mapWriteErr("update route price", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *ProductRoutePriceRepo) Delete(ctx context.Context, id string) error {
	cmd, err := r.q.Exec(ctx, `DELETE FROM product_route_prices WHERE id = $1`, id)
	if err != nil {
		return mapWriteErr("delete route price", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
