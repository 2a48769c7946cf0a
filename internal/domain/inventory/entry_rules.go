// Package inventory reglas puras de las entradas de inventario.
package inventory

import (
	"github.com/shopspring/decimal"

	"github.com/CarlosEstrada30/smart-orders-api/internal/domain/entity"
)

// CanApprove draft o pending pueden aprobarse.
func CanApprove(s entity.EntryStatus) bool {
	return s == entity.EntryDraft || s == entity.EntryPending
}

// CanComplete approved o pending pueden completarse (y mover stock).
func CanComplete(s entity.EntryStatus) bool {
	return s == entity.EntryApproved || s == entity.EntryPending
}

// CanCancel cualquier entrada que no esté completada ni cancelada.
func CanCancel(s entity.EntryStatus) bool {
	return s != entity.EntryCompleted && s != entity.EntryCancelled
}

// LineCost costo de una línea: cantidad × costo unitario.
func LineCost(quantity int, unitCost decimal.Decimal) decimal.Decimal {
	return unitCost.Mul(decimal.NewFromInt(int64(quantity)))
}

// TotalCost suma de los costos de línea.
func TotalCost(items []entity.InventoryEntryItem) decimal.Decimal {
	total := decimal.Zero
	for _, it := range items {
		total = total.Add(LineCost(it.Quantity, it.UnitCost))
	}
	return total
}
