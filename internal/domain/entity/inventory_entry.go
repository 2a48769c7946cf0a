package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// EntryType tipo de entrada de inventario.
type EntryType string

const (
	EntryProduction EntryType = "production"
	EntryPurchase   EntryType = "purchase"
	EntryReturn     EntryType = "return"
	EntryAdjustment EntryType = "adjustment"
	EntryTransfer   EntryType = "transfer"
	EntryInitial    EntryType = "initial"
)

// IsValid indica si el tipo es conocido.
func (t EntryType) IsValid() bool {
	switch t {
	case EntryProduction, EntryPurchase, EntryReturn, EntryAdjustment, EntryTransfer, EntryInitial:
		return true
	}
	return false
}

// EntryStatus estado de aprobación de la entrada.
type EntryStatus string

const (
	EntryDraft     EntryStatus = "draft"
	EntryPending   EntryStatus = "pending"
	EntryApproved  EntryStatus = "approved"
	EntryCompleted EntryStatus = "completed"
	EntryCancelled EntryStatus = "cancelled"
)

// InventoryEntry documento que ingresa (o ajusta) existencias.
// Product.Stock solo cambia cuando la entrada pasa a completed.
type InventoryEntry struct {
	ID               string
	EntryNumber      string
	EntryType        EntryType
	Status           EntryStatus
	SupplierInfo     string
	ExpectedDate     *time.Time
	TotalCost        decimal.Decimal
	Notes            string
	CreatedByUserID  string
	ApprovedByUserID string
	ApprovedAt       *time.Time
	CompletedAt      *time.Time
	Items            []InventoryEntryItem
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// InventoryEntryItem línea de la entrada. Lote y vencimiento son solo descriptivos.
// Quantity es negativo únicamente en ajustes de salida.
type InventoryEntryItem struct {
	ID          string
	EntryID     string
	ProductID   string
	Quantity    int
	UnitCost    decimal.Decimal
	TotalCost   decimal.Decimal
	BatchNumber string
	ExpiryDate  *time.Time
	Notes       string
}
