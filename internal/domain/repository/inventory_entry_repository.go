package repository

import (
	"context"

	"github.com/CarlosEstrada30/smart-orders-api/internal/domain/entity"
)

// EntryFilter filtros de listado de entradas de inventario.
type EntryFilter struct {
	Type   entity.EntryType
	Status entity.EntryStatus
	Limit  int
	Offset int
}

// InventoryEntryRepository define el puerto para entradas de inventario y sus líneas.
type InventoryEntryRepository interface {
	Create(ctx context.Context, e *entity.InventoryEntry) error
	GetByID(ctx context.Context, id string) (*entity.InventoryEntry, error)
	GetForUpdate(ctx context.Context, id string) (*entity.InventoryEntry, error)
	List(ctx context.Context, f EntryFilter) ([]*entity.InventoryEntry, error)
	// UpdateStatus persiste Status, ApprovedByUserID, ApprovedAt y CompletedAt.
	UpdateStatus(ctx context.Context, e *entity.InventoryEntry) error
}
