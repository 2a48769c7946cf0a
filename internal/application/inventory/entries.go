// Package inventory administra las entradas de inventario (producción, compras,
// devoluciones, ajustes) y su efecto sobre las existencias.
package inventory

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/CarlosEstrada30/smart-orders-api/internal/application/dto"
	"github.com/CarlosEstrada30/smart-orders-api/internal/application/stock"
	"github.com/CarlosEstrada30/smart-orders-api/internal/domain"
	"github.com/CarlosEstrada30/smart-orders-api/internal/domain/docnumber"
	"github.com/CarlosEstrada30/smart-orders-api/internal/domain/entity"
	"github.com/CarlosEstrada30/smart-orders-api/internal/domain/inventory"
	"github.com/CarlosEstrada30/smart-orders-api/internal/domain/repository"
	"github.com/CarlosEstrada30/smart-orders-api/pkg/logger"
)

// EntryUseCase flujo draft → pending → approved → completed de las entradas.
// El stock solo se mueve al completar.
type EntryUseCase struct {
	ledger *stock.Ledger
	log    *logger.Logger
}

// NewEntryUseCase construye el caso de uso.
func NewEntryUseCase(ledger *stock.Ledger, log *logger.Logger) *EntryUseCase {
	if log == nil {
		log = logger.Nop()
	}
	return &EntryUseCase{ledger: ledger, log: log.Named("inventory")}
}

// Create registra la entrada en draft (o pending si in.Submit) sin tocar stock.
func (uc *EntryUseCase) Create(ctx context.Context, store repository.Store, userID string, in dto.CreateInventoryEntryRequest) (*dto.InventoryEntryResponse, error) {
	et := entity.EntryType(strings.ToLower(strings.TrimSpace(in.EntryType)))
	if !et.IsValid() {
		return nil, fmt.Errorf("%w: tipo de entrada %q", domain.ErrInvalidInput, in.EntryType)
	}
	if len(in.Items) == 0 {
		return nil, fmt.Errorf("%w: la entrada debe tener al menos un producto", domain.ErrInvalidInput)
	}

	now := time.Now()
	e := &entity.InventoryEntry{
		ID:              uuid.New().String(),
		EntryNumber:     docnumber.New(docnumber.EntryPrefix),
		EntryType:       et,
		Status:          entity.EntryDraft,
		SupplierInfo:    in.SupplierInfo,
		ExpectedDate:    in.ExpectedDate,
		Notes:           in.Notes,
		CreatedByUserID: userID,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if in.Submit {
		e.Status = entity.EntryPending
	}

	err := store.WithTx(ctx, func(r repository.Repositories) error {
		for i, it := range in.Items {
			if it.Quantity <= 0 {
				return fmt.Errorf("%w: línea %d: cantidad debe ser mayor que cero", domain.ErrInvalidInput, i+1)
			}
			if it.UnitCost.IsNegative() {
				return fmt.Errorf("%w: línea %d: costo unitario negativo", domain.ErrInvalidInput, i+1)
			}
			p, err := r.Products.GetByID(ctx, it.ProductID)
			if err != nil {
				return err
			}
			if p == nil {
				return fmt.Errorf("%w: producto %s", domain.ErrNotFound, it.ProductID)
			}
			if !p.IsActive {
				return fmt.Errorf("%w: producto %s inactivo", domain.ErrInvalidInput, p.SKU)
			}
			e.Items = append(e.Items, entity.InventoryEntryItem{
				ID:          uuid.New().String(),
				EntryID:     e.ID,
				ProductID:   p.ID,
				Quantity:    it.Quantity,
				UnitCost:    it.UnitCost,
				TotalCost:   inventory.LineCost(it.Quantity, it.UnitCost),
				BatchNumber: it.BatchNumber,
				ExpiryDate:  it.ExpiryDate,
				Notes:       it.Notes,
			})
		}
		e.TotalCost = inventory.TotalCost(e.Items)
		return r.Entries.Create(ctx, e)
	})
	if err != nil {
		return nil, err
	}
	uc.log.Info().
		Str("schema", store.Schema()).
		Str("entry_number", e.EntryNumber).
		Str("type", string(e.EntryType)).
		Msg("entrada de inventario creada")
	return ToEntryResponse(e), nil
}

// Get obtiene una entrada con sus líneas.
func (uc *EntryUseCase) Get(ctx context.Context, store repository.Store, id string) (*dto.InventoryEntryResponse, error) {
	e, err := store.Repos().Entries.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if e == nil {
		return nil, fmt.Errorf("%w: entrada %s", domain.ErrNotFound, id)
	}
	return ToEntryResponse(e), nil
}

// List lista entradas filtrando por tipo y estado.
func (uc *EntryUseCase) List(ctx context.Context, store repository.Store, q dto.InventoryEntryQuery) (*dto.InventoryEntryListResponse, error) {
	q.DefaultPage()
	f := repository.EntryFilter{Limit: q.Limit, Offset: q.Offset}
	if q.EntryType != "" {
		f.Type = entity.EntryType(strings.ToLower(q.EntryType))
		if !f.Type.IsValid() {
			return nil, fmt.Errorf("%w: tipo de entrada %q", domain.ErrInvalidInput, q.EntryType)
		}
	}
	if q.Status != "" {
		f.Status = entity.EntryStatus(strings.ToLower(q.Status))
	}
	list, err := store.Repos().Entries.List(ctx, f)
	if err != nil {
		return nil, err
	}
	out := &dto.InventoryEntryListResponse{
		Items: make([]dto.InventoryEntryResponse, 0, len(list)),
		Page:  dto.PageResponse{Limit: q.Limit, Offset: q.Offset},
	}
	for _, e := range list {
		out.Items = append(out.Items, *ToEntryResponse(e))
	}
	return out, nil
}

// Approve marca la entrada como aprobada por userID.
func (uc *EntryUseCase) Approve(ctx context.Context, store repository.Store, id, userID string) (*dto.InventoryEntryResponse, error) {
	return uc.transition(ctx, store, id, "aprobar", inventory.CanApprove, func(_ repository.Repositories, e *entity.InventoryEntry, now time.Time) error {
		e.Status = entity.EntryApproved
		e.ApprovedByUserID = userID
		e.ApprovedAt = &now
		return nil
	})
}

// Complete suma las cantidades de las líneas al stock y cierra la entrada.
// Con la validación de stock desactivada el contador se actualiza igual.
func (uc *EntryUseCase) Complete(ctx context.Context, store repository.Store, id, userID string) (*dto.InventoryEntryResponse, error) {
	return uc.transition(ctx, store, id, "completar", inventory.CanComplete, func(r repository.Repositories, e *entity.InventoryEntry, now time.Time) error {
		lines := make([]stock.Line, 0, len(e.Items))
		for _, it := range e.Items {
			lines = append(lines, stock.Line{ProductID: it.ProductID, Quantity: it.Quantity})
		}
		if err := uc.ledger.Receive(ctx, r.Products, lines); err != nil {
			return err
		}
		if e.ApprovedByUserID == "" {
			e.ApprovedByUserID = userID
			e.ApprovedAt = &now
		}
		e.Status = entity.EntryCompleted
		e.CompletedAt = &now
		return nil
	})
}

// Cancel anula una entrada que aún no movió stock.
func (uc *EntryUseCase) Cancel(ctx context.Context, store repository.Store, id string) (*dto.InventoryEntryResponse, error) {
	return uc.transition(ctx, store, id, "cancelar", inventory.CanCancel, func(_ repository.Repositories, e *entity.InventoryEntry, _ time.Time) error {
		e.Status = entity.EntryCancelled
		return nil
	})
}

func (uc *EntryUseCase) transition(
	ctx context.Context,
	store repository.Store,
	id, action string,
	allowed func(entity.EntryStatus) bool,
	apply func(r repository.Repositories, e *entity.InventoryEntry, now time.Time) error,
) (*dto.InventoryEntryResponse, error) {
	var e *entity.InventoryEntry
	err := store.WithTx(ctx, func(r repository.Repositories) error {
		var err error
		e, err = r.Entries.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if e == nil {
			return fmt.Errorf("%w: entrada %s", domain.ErrNotFound, id)
		}
		if !allowed(e.Status) {
			return fmt.Errorf("%w: no se puede %s una entrada en estado %s", domain.ErrInvalidTransition, action, e.Status)
		}
		if err := apply(r, e, time.Now()); err != nil {
			return err
		}
		return r.Entries.UpdateStatus(ctx, e)
	})
	if err != nil {
		return nil, err
	}
	uc.log.Info().
		Str("schema", store.Schema()).
		Str("entry_number", e.EntryNumber).
		Str("status", string(e.Status)).
		Msg("entrada de inventario actualizada")
	return ToEntryResponse(e), nil
}

// QuickAdjust aplica un ajuste inmediato registrándolo como entrada completada de tipo adjustment.
// Un delta negativo nunca deja el producto bajo cero.
func (uc *EntryUseCase) QuickAdjust(ctx context.Context, store repository.Store, userID string, in dto.StockAdjustmentRequest) (*dto.InventoryEntryResponse, error) {
	if in.Delta == 0 {
		return nil, fmt.Errorf("%w: el ajuste no puede ser cero", domain.ErrInvalidInput)
	}
	if strings.TrimSpace(in.Reason) == "" {
		return nil, fmt.Errorf("%w: motivo requerido", domain.ErrInvalidInput)
	}
	now := time.Now()
	e := &entity.InventoryEntry{
		ID:               uuid.New().String(),
		EntryNumber:      docnumber.New(docnumber.EntryPrefix),
		EntryType:        entity.EntryAdjustment,
		Status:           entity.EntryCompleted,
		TotalCost:        decimal.Zero,
		Notes:            in.Reason,
		CreatedByUserID:  userID,
		ApprovedByUserID: userID,
		ApprovedAt:       &now,
		CompletedAt:      &now,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	e.Items = []entity.InventoryEntryItem{{
		ID:        uuid.New().String(),
		EntryID:   e.ID,
		ProductID: in.ProductID,
		Quantity:  in.Delta,
		UnitCost:  decimal.Zero,
		TotalCost: decimal.Zero,
		Notes:     in.Reason,
	}}

	err := store.WithTx(ctx, func(r repository.Repositories) error {
		p, err := r.Products.GetByID(ctx, in.ProductID)
		if err != nil {
			return err
		}
		if p == nil {
			return fmt.Errorf("%w: producto %s", domain.ErrNotFound, in.ProductID)
		}
		if in.Delta > 0 {
			err = uc.ledger.Receive(ctx, r.Products, []stock.Line{{ProductID: p.ID, Quantity: in.Delta}})
		} else {
			err = uc.ledger.Withdraw(ctx, r.Products, p.ID, -in.Delta)
		}
		if err != nil {
			return err
		}
		return r.Entries.Create(ctx, e)
	})
	if err != nil {
		return nil, err
	}
	uc.log.Info().
		Str("schema", store.Schema()).
		Str("product_id", in.ProductID).
		Int("delta", in.Delta).
		Msg("ajuste de stock aplicado")
	return ToEntryResponse(e), nil
}

// ToEntryResponse mapea la entidad a su DTO.
func ToEntryResponse(e *entity.InventoryEntry) *dto.InventoryEntryResponse {
	out := &dto.InventoryEntryResponse{
		ID:               e.ID,
		EntryNumber:      e.EntryNumber,
		EntryType:        string(e.EntryType),
		Status:           string(e.Status),
		SupplierInfo:     e.SupplierInfo,
		ExpectedDate:     e.ExpectedDate,
		TotalCost:        e.TotalCost,
		Notes:            e.Notes,
		CreatedByUserID:  e.CreatedByUserID,
		ApprovedByUserID: e.ApprovedByUserID,
		ApprovedAt:       e.ApprovedAt,
		CompletedAt:      e.CompletedAt,
		Items:            make([]dto.InventoryEntryItemResponse, 0, len(e.Items)),
		CreatedAt:        e.CreatedAt,
	}
	for _, it := range e.Items {
		out.Items = append(out.Items, dto.InventoryEntryItemResponse{
			ID:          it.ID,
			ProductID:   it.ProductID,
			Quantity:    it.Quantity,
			UnitCost:    it.UnitCost,
			TotalCost:   it.TotalCost,
			BatchNumber: it.BatchNumber,
			ExpiryDate:  it.ExpiryDate,
			Notes:       it.Notes,
		})
	}
	return out
}
