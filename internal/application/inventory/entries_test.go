package inventory_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/CarlosEstrada30/smart-orders-api/internal/application/dto"
	"github.com/CarlosEstrada30/smart-orders-api/internal/application/inventory"
	"github.com/CarlosEstrada30/smart-orders-api/internal/application/stock"
	"github.com/CarlosEstrada30/smart-orders-api/internal/domain"
	"github.com/CarlosEstrada30/smart-orders-api/internal/domain/entity"
	"github.com/CarlosEstrada30/smart-orders-api/internal/testutil/memstore"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

func newStore() *memstore.Store {
	s := memstore.New("acme_t1")
	s.PutProduct(entity.Product{ID: "p-1", SKU: "AGUA", Name: "Agua", Price: decimal.NewFromInt(5), Stock: 10, IsActive: true})
	s.PutProduct(entity.Product{ID: "p-2", SKU: "HIELO", Name: "Hielo", Price: decimal.NewFromInt(12), Stock: 3, IsActive: true})
	s.PutProduct(entity.Product{ID: "p-3", SKU: "SODA", Name: "Soda", Price: decimal.NewFromInt(8), Stock: 40, IsActive: true})
	s.PutProduct(entity.Product{ID: "p-off", SKU: "OLD", Name: "Viejo", Stock: 0, IsActive: false})
	return s
}

func newUC(enabled bool) *inventory.EntryUseCase {
	return inventory.NewEntryUseCase(stock.NewLedger(enabled, nil, nil), nil)
}

func production(submit bool) dto.CreateInventoryEntryRequest {
	return dto.CreateInventoryEntryRequest{
		EntryType: "production",
		Submit:    submit,
		Items: []dto.InventoryEntryItemRequest{
			{ProductID: "p-1", Quantity: 20, UnitCost: decimal.RequireFromString("1.50")},
			{ProductID: "p-2", Quantity: 5, UnitCost: decimal.RequireFromString("4")},
		},
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// Flujo de entradas
// ──────────────────────────────────────────────────────────────────────────────

func TestEntry_FlujoCompletoSumaStock(t *testing.T) {
	s := newStore()
	uc := newUC(true)
	ctx := context.Background()

	e, err := uc.Create(ctx, s, "u-1", production(false))
	require.NoError(t, err)
	assert.Equal(t, "draft", e.Status)
	assert.Regexp(t, `^INV-[0-9A-F]{8}$`, e.EntryNumber)
	assert.True(t, e.TotalCost.Equal(decimal.NewFromInt(50)), "20×1.50 + 5×4")
	assert.Equal(t, 10, s.Product("p-1").Stock, "crear no mueve stock")

	e, err = uc.Approve(ctx, s, e.ID, "u-sup")
	require.NoError(t, err)
	assert.Equal(t, "approved", e.Status)
	assert.Equal(t, "u-sup", e.ApprovedByUserID)
	assert.Equal(t, 10, s.Product("p-1").Stock)

	e, err = uc.Complete(ctx, s, e.ID, "u-sup")
	require.NoError(t, err)
	assert.Equal(t, "completed", e.Status)
	require.NotNil(t, e.CompletedAt)
	assert.Equal(t, 30, s.Product("p-1").Stock)
	assert.Equal(t, 8, s.Product("p-2").Stock)

	_, err = uc.Complete(ctx, s, e.ID, "u-sup")
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
	assert.Equal(t, 30, s.Product("p-1").Stock, "completar dos veces no duplica")

	_, err = uc.Cancel(ctx, s, e.ID)
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
}

func TestEntry_PendingSeCompletaDirecto(t *testing.T) {
	s := newStore()
	uc := newUC(true)
	ctx := context.Background()

	e, err := uc.Create(ctx, s, "u-1", production(true))
	require.NoError(t, err)
	assert.Equal(t, "pending", e.Status)

	e, err = uc.Complete(ctx, s, e.ID, "u-mgr")
	require.NoError(t, err)
	assert.Equal(t, "u-mgr", e.ApprovedByUserID)
	assert.Equal(t, 30, s.Product("p-1").Stock)
}

func TestEntry_DraftNoSePuedeCompletar(t *testing.T) {
	s := newStore()
	uc := newUC(true)
	e, err := uc.Create(context.Background(), s, "u-1", production(false))
	require.NoError(t, err)

	_, err = uc.Complete(context.Background(), s, e.ID, "u-1")
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
	assert.Equal(t, 10, s.Product("p-1").Stock)
}

func TestEntry_CancelarNoMueveStock(t *testing.T) {
	s := newStore()
	uc := newUC(true)
	ctx := context.Background()
	e, err := uc.Create(ctx, s, "u-1", production(true))
	require.NoError(t, err)

	e, err = uc.Cancel(ctx, s, e.ID)
	require.NoError(t, err)
	assert.Equal(t, "cancelled", e.Status)

	_, err = uc.Approve(ctx, s, e.ID, "u-1")
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
	assert.Equal(t, 10, s.Product("p-1").Stock)
}

func TestEntry_CompletarConValidacionDesactivadaSumaIgual(t *testing.T) {
	s := newStore()
	uc := newUC(false)
	ctx := context.Background()
	e, err := uc.Create(ctx, s, "u-1", production(true))
	require.NoError(t, err)

	_, err = uc.Complete(ctx, s, e.ID, "u-1")
	require.NoError(t, err)
	assert.Equal(t, 30, s.Product("p-1").Stock)
}

func TestEntry_Validaciones(t *testing.T) {
	s := newStore()
	uc := newUC(true)
	ctx := context.Background()

	cases := []struct {
		name string
		in   dto.CreateInventoryEntryRequest
		want error
	}{
		{"tipo inválido", dto.CreateInventoryEntryRequest{EntryType: "regalo", Items: production(false).Items}, domain.ErrInvalidInput},
		{"sin líneas", dto.CreateInventoryEntryRequest{EntryType: "purchase"}, domain.ErrInvalidInput},
		{"cantidad cero", dto.CreateInventoryEntryRequest{EntryType: "purchase", Items: []dto.InventoryEntryItemRequest{{ProductID: "p-1"}}}, domain.ErrInvalidInput},
		{"costo negativo", dto.CreateInventoryEntryRequest{EntryType: "purchase", Items: []dto.InventoryEntryItemRequest{{ProductID: "p-1", Quantity: 1, UnitCost: decimal.NewFromInt(-1)}}}, domain.ErrInvalidInput},
		{"producto inexistente", dto.CreateInventoryEntryRequest{EntryType: "purchase", Items: []dto.InventoryEntryItemRequest{{ProductID: "nope", Quantity: 1}}}, domain.ErrNotFound},
		{"producto inactivo", dto.CreateInventoryEntryRequest{EntryType: "purchase", Items: []dto.InventoryEntryItemRequest{{ProductID: "p-off", Quantity: 1}}}, domain.ErrInvalidInput},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := uc.Create(ctx, s, "u-1", tc.in)
			assert.ErrorIs(t, err, tc.want)
		})
	}

	list, err := uc.List(ctx, s, dto.InventoryEntryQuery{})
	require.NoError(t, err)
	assert.Empty(t, list.Items)
}

func TestEntry_NoEncontrada(t *testing.T) {
	uc := newUC(true)
	_, err := uc.Get(context.Background(), newStore(), "nope")
	assert.ErrorIs(t, err, domain.ErrNotFound)
	_, err = uc.Approve(context.Background(), newStore(), "nope", "u-1")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestEntry_ListFiltra(t *testing.T) {
	s := newStore()
	uc := newUC(true)
	ctx := context.Background()
	_, err := uc.Create(ctx, s, "u-1", production(false))
	require.NoError(t, err)
	purchase := production(true)
	purchase.EntryType = "purchase"
	_, err = uc.Create(ctx, s, "u-1", purchase)
	require.NoError(t, err)

	list, err := uc.List(ctx, s, dto.InventoryEntryQuery{EntryType: "purchase"})
	require.NoError(t, err)
	require.Len(t, list.Items, 1)
	assert.Equal(t, "pending", list.Items[0].Status)

	list, err = uc.List(ctx, s, dto.InventoryEntryQuery{Status: "draft"})
	require.NoError(t, err)
	require.Len(t, list.Items, 1)
	assert.Equal(t, "production", list.Items[0].EntryType)

	_, err = uc.List(ctx, s, dto.InventoryEntryQuery{EntryType: "regalo"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

// ──────────────────────────────────────────────────────────────────────────────
// Ajustes rápidos
// ──────────────────────────────────────────────────────────────────────────────

func TestQuickAdjust(t *testing.T) {
	s := newStore()
	uc := newUC(true)
	ctx := context.Background()

	e, err := uc.QuickAdjust(ctx, s, "u-1", dto.StockAdjustmentRequest{ProductID: "p-1", Delta: 5, Reason: "conteo físico"})
	require.NoError(t, err)
	assert.Equal(t, "adjustment", e.EntryType)
	assert.Equal(t, "completed", e.Status)
	assert.Equal(t, 15, s.Product("p-1").Stock)

	_, err = uc.QuickAdjust(ctx, s, "u-1", dto.StockAdjustmentRequest{ProductID: "p-1", Delta: -15, Reason: "merma"})
	require.NoError(t, err)
	assert.Equal(t, 0, s.Product("p-1").Stock)

	_, err = uc.QuickAdjust(ctx, s, "u-1", dto.StockAdjustmentRequest{ProductID: "p-1", Delta: -1, Reason: "merma"})
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)
	assert.Equal(t, 0, s.Product("p-1").Stock, "nunca baja de cero")

	_, err = uc.QuickAdjust(ctx, s, "u-1", dto.StockAdjustmentRequest{ProductID: "p-1", Delta: 0, Reason: "x"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	_, err = uc.QuickAdjust(ctx, s, "u-1", dto.StockAdjustmentRequest{ProductID: "p-1", Delta: 1})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	_, err = uc.QuickAdjust(ctx, s, "u-1", dto.StockAdjustmentRequest{ProductID: "nope", Delta: 1, Reason: "x"})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	list, err := uc.List(ctx, s, dto.InventoryEntryQuery{EntryType: "adjustment"})
	require.NoError(t, err)
	assert.Len(t, list.Items, 2, "los ajustes fallidos no dejan entrada")
}

// ──────────────────────────────────────────────────────────────────────────────
// Reposición
// ──────────────────────────────────────────────────────────────────────────────

func TestReplenishment_Suggest(t *testing.T) {
	s := newStore()
	uc := inventory.NewReplenishmentUseCase()

	out, err := uc.Suggest(context.Background(), s, 0)
	require.NoError(t, err)
	require.Len(t, out, 2)

	assert.Equal(t, "HIELO", out[0].SKU)
	assert.Equal(t, 1, out[0].Priority)
	assert.Equal(t, 15, out[0].IdealStock)
	assert.Equal(t, 12, out[0].SuggestedQty)
	assert.Equal(t, "AGUA", out[1].SKU)
	assert.Equal(t, 5, out[1].SuggestedQty)

	_, err = uc.Suggest(context.Background(), s, -1)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
