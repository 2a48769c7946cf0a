// Package production contiene el tablero de producción: cuánto hay que fabricar
// de cada producto para surtir las órdenes pendientes de una ruta en un día.
package production

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/CarlosEstrada30/smart-orders-api/internal/application/dto"
	"github.com/CarlosEstrada30/smart-orders-api/internal/domain"
	"github.com/CarlosEstrada30/smart-orders-api/internal/domain/entity"
	"github.com/CarlosEstrada30/smart-orders-api/internal/domain/repository"
	"github.com/CarlosEstrada30/smart-orders-api/pkg/logger"
)

var tracer = otel.Tracer("smart-orders-api/production")

// DashboardUseCase arma el tablero de producción de una ruta y un día.
//
// Fuente de datos: órdenes pending creadas ese día en la ruta, y el stock actual.
// Las órdenes confirmadas ya descontaron su stock, por eso no cuentan aquí.
type DashboardUseCase struct {
	log *logger.Logger
}

// NewDashboardUseCase construye el caso de uso.
func NewDashboardUseCase(log *logger.Logger) *DashboardUseCase {
	if log == nil {
		log = logger.Nop()
	}
	return &DashboardUseCase{log: log.Named("production")}
}

// Get construye el tablero para routeID en el día de date (se ignora la hora).
//
// Productos listados: los activos más cualquier producto comprometido en esas órdenes.
// Orden: mayor cantidad a producir primero; a igual cantidad, por nombre.
func (uc *DashboardUseCase) Get(ctx context.Context, store repository.Store, routeID string, date time.Time) (*dto.ProductionDashboardResponse, error) {
	ctx, span := tracer.Start(ctx, "production.Dashboard", trace.WithAttributes(
		attribute.String("tenant.schema", store.Schema()),
		attribute.String("route.id", routeID),
	))
	defer span.End()

	if strings.TrimSpace(routeID) == "" {
		return nil, fmt.Errorf("%w: route_id es requerido", domain.ErrInvalidInput)
	}
	if date.IsZero() {
		return nil, fmt.Errorf("%w: date es requerido", domain.ErrInvalidInput)
	}

	// La sesión usa una sola conexión: las consultas van en serie.
	r := store.Repos()
	route, err := r.Routes.GetByID(ctx, routeID)
	if err != nil {
		return nil, err
	}
	if route == nil {
		return nil, fmt.Errorf("%w: ruta %s", domain.ErrNotFound, routeID)
	}

	// ── Rango del día ──────────────────────────────────────────────────────────
	dayStart := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, date.Location())
	dayEnd := dayStart.Add(24*time.Hour - time.Nanosecond)

	pending, err := r.Orders.List(ctx, repository.OrderFilter{
		Status:  entity.OrderPending,
		RouteID: routeID,
		From:    &dayStart,
		To:      &dayEnd,
	})
	if err != nil {
		return nil, fmt.Errorf("dashboard: órdenes pendientes: %w", err)
	}

	committed := map[string]int{}
	for _, o := range pending {
		for _, it := range o.Items {
			committed[it.ProductID] += it.Quantity
		}
	}

	products, err := r.Products.List(ctx, repository.ProductFilter{ActiveOnly: true})
	if err != nil {
		return nil, fmt.Errorf("dashboard: productos: %w", err)
	}
	seen := make(map[string]bool, len(products))
	for _, p := range products {
		seen[p.ID] = true
	}
	// Un producto desactivado después de tomar la orden sigue comprometido.
	for id := range committed {
		if seen[id] {
			continue
		}
		p, err := r.Products.GetByID(ctx, id)
		if err != nil {
			return nil, fmt.Errorf("dashboard: producto %s: %w", id, err)
		}
		if p != nil {
			products = append(products, p)
			seen[id] = true
		}
	}

	// ── Construir DTO ──────────────────────────────────────────────────────────
	out := &dto.ProductionDashboardResponse{
		Route: dto.ProductionRouteInfo{
			RouteID:   route.ID,
			RouteName: route.Name,
			Date:      dayStart.Format(time.DateOnly),
		},
		Products: make([]dto.ProductionLine, 0, len(products)),
	}
	for _, p := range products {
		line := dto.ProductionLine{
			ProductID: p.ID,
			SKU:       p.SKU,
			Name:      p.Name,
			Stock:     p.Stock,
			Committed: committed[p.ID],
		}
		line.ToProduce = max(0, line.Committed-line.Stock)
		if line.ToProduce > 0 {
			out.Summary.ProductsNeedingProduction++
		}
		out.Products = append(out.Products, line)
	}
	sort.SliceStable(out.Products, func(i, j int) bool {
		a, b := out.Products[i], out.Products[j]
		if a.ToProduce != b.ToProduce {
			return a.ToProduce > b.ToProduce
		}
		return a.Name < b.Name
	})
	out.Summary.TotalProducts = len(out.Products)

	uc.log.Debug().
		Str("schema", store.Schema()).
		Str("route_id", routeID).
		Int("pending_orders", len(pending)).
		Int("needing_production", out.Summary.ProductsNeedingProduction).
		Msg("tablero de producción")
	return out, nil
}
