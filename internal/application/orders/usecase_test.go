package orders_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/CarlosEstrada30/smart-orders-api/internal/application/dto"
	"github.com/CarlosEstrada30/smart-orders-api/internal/application/orders"
	"github.com/CarlosEstrada30/smart-orders-api/internal/application/ports"
	"github.com/CarlosEstrada30/smart-orders-api/internal/application/stock"
	"github.com/CarlosEstrada30/smart-orders-api/internal/domain"
	"github.com/CarlosEstrada30/smart-orders-api/internal/domain/entity"
	"github.com/CarlosEstrada30/smart-orders-api/internal/testutil/memstore"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func newStore(t *testing.T) *memstore.Store {
	t.Helper()
	s := memstore.New("acme_t1")
	s.PutClient(entity.Client{ID: "c-1", Name: "Tienda Don Pepe", IsActive: true})
	s.PutClient(entity.Client{ID: "c-off", Name: "Cerrado", IsActive: false})
	s.PutRoute(entity.Route{ID: "r-1", Name: "Zona 1", IsActive: true})
	s.PutProduct(entity.Product{ID: "p-1", SKU: "AGUA", Name: "Agua 600ml", Price: dec("5.00"), Stock: 100, IsActive: true})
	s.PutProduct(entity.Product{ID: "p-2", SKU: "HIELO", Name: "Hielo", Price: dec("12.50"), Stock: 10, IsActive: true})
	s.PutProduct(entity.Product{ID: "p-off", SKU: "OLD", Name: "Viejo", Price: dec("1"), Stock: 10, IsActive: false})
	return s
}

func newUC(enabled bool) *orders.UseCase {
	return orders.NewUseCase(stock.NewLedger(enabled, nil, nil), nil, nil)
}

func createOrder(t *testing.T, uc *orders.UseCase, s *memstore.Store, items ...dto.OrderItemRequest) *dto.OrderResponse {
	t.Helper()
	out, err := uc.Create(context.Background(), s, dto.CreateOrderRequest{ClientID: "c-1", RouteID: "r-1", Items: items})
	require.NoError(t, err)
	return out
}

// ──────────────────────────────────────────────────────────────────────────────
// Creación
// ──────────────────────────────────────────────────────────────────────────────

func TestCreate_CalculaTotalYNoReservaStock(t *testing.T) {
	s := newStore(t)
	uc := newUC(true)

	out := createOrder(t, uc, s,
		dto.OrderItemRequest{ProductID: "p-1", Quantity: 30},
		dto.OrderItemRequest{ProductID: "p-2", Quantity: 2, UnitPrice: dec("10.00")},
	)

	assert.Equal(t, "pending", out.Status)
	assert.Regexp(t, `^ORD-[0-9A-F]{8}$`, out.OrderNumber)
	assert.True(t, out.TotalAmount.Equal(dec("170.00")), "30×5 + 2×10 (precio de la línea)")
	assert.True(t, out.BalanceDue.Equal(out.TotalAmount))
	assert.Equal(t, "unpaid", out.PaymentStatus)
	assert.Equal(t, 100, s.Product("p-1").Stock, "crear no reserva stock")
}

func TestCreate_Validaciones(t *testing.T) {
	s := newStore(t)
	uc := newUC(true)
	ctx := context.Background()

	cases := []struct {
		name string
		in   dto.CreateOrderRequest
		want error
	}{
		{"sin items", dto.CreateOrderRequest{ClientID: "c-1"}, domain.ErrInvalidInput},
		{"cantidad cero", dto.CreateOrderRequest{ClientID: "c-1", Items: []dto.OrderItemRequest{{ProductID: "p-1"}}}, domain.ErrInvalidInput},
		{"cliente inexistente", dto.CreateOrderRequest{ClientID: "nadie", Items: []dto.OrderItemRequest{{ProductID: "p-1", Quantity: 1}}}, domain.ErrNotFound},
		{"cliente inactivo", dto.CreateOrderRequest{ClientID: "c-off", Items: []dto.OrderItemRequest{{ProductID: "p-1", Quantity: 1}}}, domain.ErrInvalidInput},
		{"ruta inexistente", dto.CreateOrderRequest{ClientID: "c-1", RouteID: "r-x", Items: []dto.OrderItemRequest{{ProductID: "p-1", Quantity: 1}}}, domain.ErrNotFound},
		{"producto inactivo", dto.CreateOrderRequest{ClientID: "c-1", Items: []dto.OrderItemRequest{{ProductID: "p-off", Quantity: 1}}}, domain.ErrInvalidInput},
		{"producto inexistente", dto.CreateOrderRequest{ClientID: "c-1", Items: []dto.OrderItemRequest{{ProductID: "p-x", Quantity: 1}}}, domain.ErrNotFound},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			_, err := uc.Create(ctx, s, c.in)
			assert.True(t, errors.Is(err, c.want), "esperado %v, obtenido %v", c.want, err)
		})
	}

	list, err := uc.List(ctx, s, dto.OrderListQuery{})
	require.NoError(t, err)
	assert.Empty(t, list.Items, "ninguna creación fallida debe dejar órdenes")
}

// ──────────────────────────────────────────────────────────────────────────────
// Transiciones con stock
// ──────────────────────────────────────────────────────────────────────────────

// Stock 100, cantidad 30: confirmar deja 70 y cancelar vuelve a 100.
func TestUpdateStatus_ConfirmarYCancelarMueveStock(t *testing.T) {
	s := newStore(t)
	uc := newUC(true)
	ctx := context.Background()
	o := createOrder(t, uc, s, dto.OrderItemRequest{ProductID: "p-1", Quantity: 30})

	out, err := uc.UpdateStatus(ctx, s, o.ID, entity.OrderConfirmed)
	require.NoError(t, err)
	assert.Equal(t, "confirmed", out.Status)
	assert.Equal(t, 70, s.Product("p-1").Stock)

	_, err = uc.Cancel(ctx, s, o.ID)
	require.NoError(t, err)
	assert.Equal(t, 100, s.Product("p-1").Stock)
	assert.Equal(t, entity.OrderCancelled, s.Order(o.ID).Status)
}

// Stock 10, cantidad 30: la transición se rechaza y nada cambia.
func TestUpdateStatus_StockInsuficienteNoCambiaNada(t *testing.T) {
	s := newStore(t)
	uc := newUC(true)
	o := createOrder(t, uc, s,
		dto.OrderItemRequest{ProductID: "p-1", Quantity: 5},
		dto.OrderItemRequest{ProductID: "p-2", Quantity: 30},
	)

	_, err := uc.UpdateStatus(context.Background(), s, o.ID, entity.OrderConfirmed)
	assert.True(t, errors.Is(err, domain.ErrInsufficientStock))
	assert.Equal(t, 10, s.Product("p-2").Stock)
	assert.Equal(t, 100, s.Product("p-1").Stock, "la reserva es de grupo")
	assert.Equal(t, entity.OrderPending, s.Order(o.ID).Status)
}

func TestUpdateStatus_TransicionesSinEfectoEnStock(t *testing.T) {
	s := newStore(t)
	uc := newUC(true)
	ctx := context.Background()
	o := createOrder(t, uc, s, dto.OrderItemRequest{ProductID: "p-1", Quantity: 10})

	for _, st := range []entity.OrderStatus{entity.OrderConfirmed, entity.OrderInProgress, entity.OrderShipped, entity.OrderDelivered} {
		_, err := uc.UpdateStatus(ctx, s, o.ID, st)
		require.NoError(t, err, "→ %s", st)
	}
	assert.Equal(t, 90, s.Product("p-1").Stock, "solo la confirmación descuenta")
}

func TestUpdateStatus_TransicionInvalida(t *testing.T) {
	s := newStore(t)
	uc := newUC(true)
	ctx := context.Background()
	o := createOrder(t, uc, s, dto.OrderItemRequest{ProductID: "p-1", Quantity: 1})

	_, err := uc.UpdateStatus(ctx, s, o.ID, entity.OrderShipped)
	assert.True(t, errors.Is(err, domain.ErrInvalidTransition))

	_, err = uc.Cancel(ctx, s, o.ID)
	require.NoError(t, err)

	_, err = uc.UpdateStatus(ctx, s, o.ID, entity.OrderConfirmed)
	assert.True(t, errors.Is(err, domain.ErrInvalidTransition), "cancelled es terminal")
	assert.Equal(t, 100, s.Product("p-1").Stock)
}

func TestCancel_DesdeShippedNoPermitido(t *testing.T) {
	s := newStore(t)
	uc := newUC(true)
	ctx := context.Background()
	o := createOrder(t, uc, s, dto.OrderItemRequest{ProductID: "p-1", Quantity: 4})
	for _, st := range []entity.OrderStatus{entity.OrderConfirmed, entity.OrderInProgress, entity.OrderShipped} {
		_, err := uc.UpdateStatus(ctx, s, o.ID, st)
		require.NoError(t, err)
	}

	_, err := uc.Cancel(ctx, s, o.ID)
	assert.True(t, errors.Is(err, domain.ErrInvalidTransition))
	assert.Equal(t, 96, s.Product("p-1").Stock)
}

func TestUpdateStatus_OrdenInexistente(t *testing.T) {
	_, err := newUC(true).UpdateStatus(context.Background(), newStore(t), "nada", entity.OrderConfirmed)
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}

func TestUpdateStatus_SinValidacionSoloCambiaEstado(t *testing.T) {
	s := newStore(t)
	uc := newUC(false)
	ctx := context.Background()
	o := createOrder(t, uc, s, dto.OrderItemRequest{ProductID: "p-2", Quantity: 30})

	_, err := uc.UpdateStatus(ctx, s, o.ID, entity.OrderConfirmed)
	require.NoError(t, err, "sin validación no importa que el stock sea 10")
	assert.Equal(t, 10, s.Product("p-2").Stock)

	_, err = uc.Cancel(ctx, s, o.ID)
	require.NoError(t, err)
	assert.Equal(t, 10, s.Product("p-2").Stock)
}

func TestUpdateStatus_ContextoCanceladoNoDejaEfectos(t *testing.T) {
	s := newStore(t)
	uc := newUC(true)
	o := createOrder(t, uc, s, dto.OrderItemRequest{ProductID: "p-1", Quantity: 30})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := uc.UpdateStatus(ctx, s, o.ID, entity.OrderConfirmed)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 100, s.Product("p-1").Stock)
	assert.Equal(t, entity.OrderPending, s.Order(o.ID).Status)
}

// ──────────────────────────────────────────────────────────────────────────────
// Cambio masivo
// ──────────────────────────────────────────────────────────────────────────────

func TestBulkUpdateStatus_ReportaPorOrden(t *testing.T) {
	s := newStore(t)
	uc := newUC(true)
	ok1 := createOrder(t, uc, s, dto.OrderItemRequest{ProductID: "p-1", Quantity: 10})
	sinStock := createOrder(t, uc, s, dto.OrderItemRequest{ProductID: "p-2", Quantity: 11})
	ok2 := createOrder(t, uc, s, dto.OrderItemRequest{ProductID: "p-2", Quantity: 10})

	out, err := uc.BulkUpdateStatus(context.Background(), s, dto.BulkOrderStatusRequest{
		OrderIDs: []string{ok1.ID, sinStock.ID, "no-existe", ok2.ID},
		Status:   "CONFIRMED",
	})
	require.NoError(t, err)
	assert.Equal(t, 2, out.UpdatedCount)
	assert.Equal(t, 2, out.FailedCount)
	require.Len(t, out.Results, 4)
	assert.True(t, out.Results[0].Success)
	assert.False(t, out.Results[1].Success)
	assert.Equal(t, sinStock.OrderNumber, out.Results[1].OrderNumber)
	assert.Contains(t, out.Results[1].Error, "stock insuficiente")
	assert.False(t, out.Results[2].Success)
	assert.True(t, out.Results[3].Success)

	assert.Equal(t, 90, s.Product("p-1").Stock)
	assert.Equal(t, 0, s.Product("p-2").Stock)
}

func TestBulkUpdateStatus_EstadoDesconocido(t *testing.T) {
	_, err := newUC(true).BulkUpdateStatus(context.Background(), newStore(t), dto.BulkOrderStatusRequest{
		OrderIDs: []string{"x"}, Status: "perdida",
	})
	assert.True(t, errors.Is(err, domain.ErrInvalidInput))
}

// ──────────────────────────────────────────────────────────────────────────────
// Consultas
// ──────────────────────────────────────────────────────────────────────────────

func TestListYInvoiceView(t *testing.T) {
	s := newStore(t)
	uc := newUC(true)
	ctx := context.Background()
	a := createOrder(t, uc, s, dto.OrderItemRequest{ProductID: "p-1", Quantity: 1})
	createOrder(t, uc, s, dto.OrderItemRequest{ProductID: "p-1", Quantity: 2})
	_, err := uc.UpdateStatus(ctx, s, a.ID, entity.OrderConfirmed)
	require.NoError(t, err)

	list, err := uc.List(ctx, s, dto.OrderListQuery{Status: "confirmed"})
	require.NoError(t, err)
	require.Len(t, list.Items, 1)
	assert.Equal(t, a.ID, list.Items[0].ID)

	view, err := uc.InvoiceView(ctx, s, a.ID)
	require.NoError(t, err)
	assert.False(t, view.Delivered)
	assert.True(t, view.BalanceDue.Equal(dec("5")))

	byNumber, err := uc.GetByNumber(ctx, s, a.OrderNumber)
	require.NoError(t, err)
	assert.Equal(t, a.ID, byNumber.ID)
}

func TestList_BusquedaPorNumeroOCliente(t *testing.T) {
	s := newStore(t)
	s.PutClient(entity.Client{ID: "c-2", Name: "Abarrotes La Esquina", IsActive: true})
	uc := newUC(true)
	ctx := context.Background()
	a := createOrder(t, uc, s, dto.OrderItemRequest{ProductID: "p-1", Quantity: 1})
	b, err := uc.Create(ctx, s, dto.CreateOrderRequest{ClientID: "c-2", Items: []dto.OrderItemRequest{{ProductID: "p-1", Quantity: 1}}})
	require.NoError(t, err)

	cases := []struct {
		name   string
		search string
		want   []string
	}{
		{"nombre del cliente sin distinguir mayúsculas", "  don PEPE ", []string{a.ID}},
		{"parte del número de orden", strings.ToLower(b.OrderNumber[4:]), []string{b.ID}},
		{"sin coincidencias", "ferretería", nil},
		{"vacío no filtra", "", []string{b.ID, a.ID}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			list, err := uc.List(ctx, s, dto.OrderListQuery{Search: tc.search})
			require.NoError(t, err)
			var got []string
			for _, o := range list.Items {
				got = append(got, o.ID)
			}
			assert.Equal(t, tc.want, got)
		})
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// Precio por ruta
// ──────────────────────────────────────────────────────────────────────────────

func TestCreate_UsaPrecioDeLaRuta(t *testing.T) {
	s := newStore(t)
	s.PutRoute(entity.Route{ID: "r-2", Name: "Zona 2", IsActive: true})
	s.PutRoutePrice(entity.ProductRoutePrice{ID: "rp-1", ProductID: "p-1", RouteID: "r-1", Price: dec("4.25")})
	uc := newUC(true)
	ctx := context.Background()

	// Ruta con precio especial: la línea sin unit_price lo toma; la que lo trae lo conserva.
	out := createOrder(t, uc, s,
		dto.OrderItemRequest{ProductID: "p-1", Quantity: 4},
		dto.OrderItemRequest{ProductID: "p-1", Quantity: 1, UnitPrice: dec("6")},
		dto.OrderItemRequest{ProductID: "p-2", Quantity: 2},
	)
	assert.True(t, out.Items[0].UnitPrice.Equal(dec("4.25")))
	assert.True(t, out.Items[1].UnitPrice.Equal(dec("6")))
	assert.True(t, out.Items[2].UnitPrice.Equal(dec("12.50")), "sin precio de ruta rige el general")
	assert.True(t, out.TotalAmount.Equal(dec("48")), "4×4.25 + 6 + 2×12.50")

	// Otra ruta, o sin ruta: precio general.
	for _, routeID := range []string{"r-2", ""} {
		o, err := uc.Create(ctx, s, dto.CreateOrderRequest{ClientID: "c-1", RouteID: routeID, Items: []dto.OrderItemRequest{{ProductID: "p-1", Quantity: 1}}})
		require.NoError(t, err)
		assert.True(t, o.Items[0].UnitPrice.Equal(dec("5")), "ruta %q", routeID)
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// Métricas
// ──────────────────────────────────────────────────────────────────────────────

type transitionRecorder struct {
	ports.NopMetrics
	got []string
}

func (r *transitionRecorder) OrderTransition(from, to, outcome string) {
	r.got = append(r.got, from+">"+to+":"+outcome)
}

func TestUpdateStatus_MetricaDeTransicion(t *testing.T) {
	s := newStore(t)
	rec := &transitionRecorder{}
	uc := orders.NewUseCase(stock.NewLedger(true, nil, nil), rec, nil)
	ctx := context.Background()
	o := createOrder(t, uc, s, dto.OrderItemRequest{ProductID: "p-1", Quantity: 1})

	_, err := uc.UpdateStatus(ctx, s, o.ID, entity.OrderConfirmed)
	require.NoError(t, err)
	_, err = uc.UpdateStatus(ctx, s, "no-existe", entity.OrderConfirmed)
	require.True(t, errors.Is(err, domain.ErrNotFound))

	// La orden inexistente no deja una serie con origen vacío.
	assert.Equal(t, []string{"pending>confirmed:ok"}, rec.got)
}
