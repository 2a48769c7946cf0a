package inventory_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/CarlosEstrada30/smart-orders-api/internal/domain/entity"
	"github.com/CarlosEstrada30/smart-orders-api/internal/domain/inventory"
)

func TestReglasDeEstado(t *testing.T) {
	assert.True(t, inventory.CanApprove(entity.EntryDraft))
	assert.True(t, inventory.CanApprove(entity.EntryPending))
	assert.False(t, inventory.CanApprove(entity.EntryApproved))

	assert.True(t, inventory.CanComplete(entity.EntryApproved))
	assert.True(t, inventory.CanComplete(entity.EntryPending))
	assert.False(t, inventory.CanComplete(entity.EntryDraft))
	assert.False(t, inventory.CanComplete(entity.EntryCompleted))

	assert.True(t, inventory.CanCancel(entity.EntryApproved))
	assert.False(t, inventory.CanCancel(entity.EntryCompleted))
	assert.False(t, inventory.CanCancel(entity.EntryCancelled))
}

func TestTotalCost(t *testing.T) {
	items := []entity.InventoryEntryItem{
		{Quantity: 3, UnitCost: decimal.RequireFromString("2.50")},
		{Quantity: 10, UnitCost: decimal.RequireFromString("1.10")},
	}
	assert.True(t, inventory.TotalCost(items).Equal(decimal.RequireFromString("18.50")))
}
