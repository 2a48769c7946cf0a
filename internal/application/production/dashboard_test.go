package production_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/CarlosEstrada30/smart-orders-api/internal/application/production"
	"github.com/CarlosEstrada30/smart-orders-api/internal/domain"
	"github.com/CarlosEstrada30/smart-orders-api/internal/domain/entity"
	"github.com/CarlosEstrada30/smart-orders-api/internal/testutil/memstore"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

var day = time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)

func at(h, m int) time.Time { return day.Add(time.Duration(h)*time.Hour + time.Duration(m)*time.Minute) }

func putOrder(s *memstore.Store, id, routeID string, status entity.OrderStatus, created time.Time, items ...entity.OrderItem) {
	s.PutOrder(entity.Order{ID: id, OrderNumber: "ORD-" + id, ClientID: "c-1", RouteID: routeID, Status: status, CreatedAt: created, Items: items})
}

func item(productID string, qty int) entity.OrderItem {
	return entity.OrderItem{ProductID: productID, Quantity: qty}
}

func newStore(t *testing.T) *memstore.Store {
	t.Helper()
	s := memstore.New("acme_t1")
	s.PutRoute(entity.Route{ID: "r-1", Name: "Zona Norte", IsActive: true})
	s.PutRoute(entity.Route{ID: "r-2", Name: "Zona Sur", IsActive: true})
	s.PutProduct(entity.Product{ID: "p-1", SKU: "AGUA", Name: "Agua", Stock: 30, IsActive: true})
	s.PutProduct(entity.Product{ID: "p-2", SKU: "HIELO", Name: "Hielo", Stock: 5, IsActive: true})
	s.PutProduct(entity.Product{ID: "p-3", SKU: "BOLSA", Name: "Bolsa", Stock: 100, IsActive: true})
	s.PutProduct(entity.Product{ID: "p-off", SKU: "OLD", Name: "Viejo", Stock: 0, IsActive: false})
	return s
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests Get
// ──────────────────────────────────────────────────────────────────────────────

func TestDashboard_SoloPendientesDeLaRutaYDia(t *testing.T) {
	s := newStore(t)
	putOrder(s, "o-1", "r-1", entity.OrderPending, at(8, 0), item("p-1", 20), item("p-2", 10))
	putOrder(s, "o-2", "r-1", entity.OrderPending, at(23, 30), item("p-1", 15), item("p-off", 3))
	putOrder(s, "o-3", "r-1", entity.OrderConfirmed, at(9, 0), item("p-1", 100))
	putOrder(s, "o-4", "r-2", entity.OrderPending, at(9, 0), item("p-2", 50))
	putOrder(s, "o-5", "r-1", entity.OrderPending, day.Add(24*time.Hour), item("p-3", 1000))
	putOrder(s, "o-6", "r-1", entity.OrderPending, day.Add(-time.Second), item("p-3", 1000))

	uc := production.NewDashboardUseCase(nil)
	out, err := uc.Get(context.Background(), s, "r-1", day.Add(15*time.Hour))
	require.NoError(t, err)

	assert.Equal(t, "Zona Norte", out.Route.RouteName)
	assert.Equal(t, "2026-03-10", out.Route.Date)
	assert.Equal(t, 4, out.Summary.TotalProducts)
	assert.Equal(t, 3, out.Summary.ProductsNeedingProduction)

	type row struct {
		name                        string
		stock, committed, toProduce int
	}
	var got []row
	for _, l := range out.Products {
		got = append(got, row{l.Name, l.Stock, l.Committed, l.ToProduce})
	}
	assert.Equal(t, []row{
		{"Agua", 30, 35, 5},
		{"Hielo", 5, 10, 5},
		{"Viejo", 0, 3, 3}, // inactivo pero comprometido
		{"Bolsa", 100, 0, 0},
	}, got)
}

func TestDashboard_RutaSinOrdenes(t *testing.T) {
	s := newStore(t)
	out, err := production.NewDashboardUseCase(nil).Get(context.Background(), s, "r-2", day)
	require.NoError(t, err)

	assert.Equal(t, 3, out.Summary.TotalProducts, "solo los activos")
	assert.Zero(t, out.Summary.ProductsNeedingProduction)
	for _, l := range out.Products {
		assert.Zero(t, l.Committed)
		assert.Zero(t, l.ToProduce)
	}
}

func TestDashboard_Errores(t *testing.T) {
	s := newStore(t)
	uc := production.NewDashboardUseCase(nil)
	ctx := context.Background()

	cases := []struct {
		name    string
		routeID string
		date    time.Time
		want    error
	}{
		{"ruta vacía", " ", day, domain.ErrInvalidInput},
		{"fecha vacía", "r-1", time.Time{}, domain.ErrInvalidInput},
		{"ruta inexistente", "nope", day, domain.ErrNotFound},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := uc.Get(ctx, s, tc.routeID, tc.date)
			assert.ErrorIs(t, err, tc.want)
		})
	}
}
