package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// InventoryEntryItemRequest línea de una entrada. Lote y vencimiento son informativos.
type InventoryEntryItemRequest struct {
	ProductID   string          `json:"product_id" validate:"required"`
	Quantity    int             `json:"quantity" validate:"required,gt=0"`
	UnitCost    decimal.Decimal `json:"unit_cost"`
	BatchNumber string          `json:"batch_number"`
	ExpiryDate  *time.Time      `json:"expiry_date"`
	Notes       string          `json:"notes"`
}

// CreateInventoryEntryRequest alta de una entrada de inventario.
// Submit=true la crea directamente en pending.
type CreateInventoryEntryRequest struct {
	EntryType    string                      `json:"entry_type" validate:"required,oneof=production purchase return adjustment transfer initial"`
	SupplierInfo string                      `json:"supplier_info"`
	ExpectedDate *time.Time                  `json:"expected_date"`
	Notes        string                      `json:"notes"`
	Submit       bool                        `json:"submit"`
	Items        []InventoryEntryItemRequest `json:"items" validate:"required,min=1"`
}

// StockAdjustmentRequest ajuste rápido: Delta positivo suma, negativo resta (nunca bajo cero).
type StockAdjustmentRequest struct {
	ProductID string `json:"product_id" validate:"required"`
	Delta     int    `json:"delta" validate:"required"`
	Reason    string `json:"reason" validate:"required"`
}

// InventoryEntryQuery filtros del listado.
type InventoryEntryQuery struct {
	EntryType string
	Status    string
	PageRequest
}

// InventoryEntryItemResponse línea de entrada.
type InventoryEntryItemResponse struct {
	ID          string          `json:"id"`
	ProductID   string          `json:"product_id"`
	Quantity    int             `json:"quantity"`
	UnitCost    decimal.Decimal `json:"unit_cost"`
	TotalCost   decimal.Decimal `json:"total_cost"`
	BatchNumber string          `json:"batch_number,omitempty"`
	ExpiryDate  *time.Time      `json:"expiry_date,omitempty"`
	Notes       string          `json:"notes,omitempty"`
}

// InventoryEntryResponse salida de una entrada.
type InventoryEntryResponse struct {
	ID               string                       `json:"id"`
	EntryNumber      string                       `json:"entry_number"`
	EntryType        string                       `json:"entry_type"`
	Status           string                       `json:"status"`
	SupplierInfo     string                       `json:"supplier_info,omitempty"`
	ExpectedDate     *time.Time                   `json:"expected_date,omitempty"`
	TotalCost        decimal.Decimal              `json:"total_cost"`
	Notes            string                       `json:"notes,omitempty"`
	CreatedByUserID  string                       `json:"created_by_user_id"`
	ApprovedByUserID string                       `json:"approved_by_user_id,omitempty"`
	ApprovedAt       *time.Time                   `json:"approved_at,omitempty"`
	CompletedAt      *time.Time                   `json:"completed_at,omitempty"`
	Items            []InventoryEntryItemResponse `json:"items"`
	CreatedAt        time.Time                    `json:"created_at"`
}

// InventoryEntryListResponse lista paginada de entradas.
type InventoryEntryListResponse struct {
	Items []InventoryEntryResponse `json:"items"`
	Page  PageResponse             `json:"page"`
}

// ReplenishmentSuggestion producto bajo el umbral con la cantidad sugerida a producir o comprar.
type ReplenishmentSuggestion struct {
	ProductID    string `json:"product_id"`
	SKU          string `json:"sku"`
	ProductName  string `json:"product_name"`
	CurrentStock int    `json:"current_stock"`
	Threshold    int    `json:"threshold"`
	IdealStock   int    `json:"ideal_stock"`
	SuggestedQty int    `json:"suggested_qty"`
	Priority     int    `json:"priority"`
}
