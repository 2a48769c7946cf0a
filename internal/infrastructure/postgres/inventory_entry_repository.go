package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/CarlosEstrada30/smart-orders-api/internal/domain"
	"github.com/CarlosEstrada30/smart-orders-api/internal/domain/entity"
	"github.com/CarlosEstrada30/smart-orders-api/internal/domain/repository"
)

var _ repository.InventoryEntryRepository = (*InventoryEntryRepo)(nil)

// InventoryEntryRepo entradas de inventario y sus líneas.
type InventoryEntryRepo struct {
	q Querier
}

// NewInventoryEntryRepository construye el adaptador de entradas.
func NewInventoryEntryRepository(q Querier) *InventoryEntryRepo {
	return &InventoryEntryRepo{q: q}
}

const entryColumns = `id, entry_number, entry_type, status, supplier_info, expected_date, total_cost, notes,
	created_by_user_id, approved_by_user_id, approved_at, completed_at, created_at, updated_at`

func scanEntry(row pgx.Row) (*entity.InventoryEntry, error) {
	var (
		e                     entity.InventoryEntry
		createdBy, approvedBy *string
	)
	err := row.Scan(&e.ID, &e.EntryNumber, &e.EntryType, &e.Status, &e.SupplierInfo, &e.ExpectedDate, &e.TotalCost,
		&e.Notes, &createdBy, &approvedBy, &e.ApprovedAt, &e.CompletedAt, &e.CreatedAt, &e.UpdatedAt)
	if err != nil {
		return nil, err
	}
	e.CreatedByUserID = deref(createdBy)
	e.ApprovedByUserID = deref(approvedBy)
	return &e, nil
}

// Create inserta cabecera y líneas; llamarlo dentro de WithTx.
func (r *InventoryEntryRepo) Create(ctx context.Context, e *entity.InventoryEntry) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO inventory_entries (`+entryColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`,
		e.ID, e.EntryNumber, e.EntryType, e.Status, e.SupplierInfo, dateOnly(e.ExpectedDate), e.TotalCost, e.Notes,
		nullable(e.CreatedByUserID), nullable(e.ApprovedByUserID), e.ApprovedAt, e.CompletedAt, e.CreatedAt, e.UpdatedAt,
	)
	if err != nil {
		return mapWriteErr("insert inventory entry", err)
	}
	for i := range e.Items {
		it := &e.Items[i]
		if it.ID == "" {
			it.ID = uuid.New().String()
		}
		it.EntryID = e.ID
		_, err := r.q.Exec(ctx, `
			INSERT INTO inventory_entry_items
				(id, entry_id, product_id, position, quantity, unit_cost, total_cost, batch_number, expiry_date, notes)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
			it.ID, e.ID, it.ProductID, i, it.Quantity, it.UnitCost, it.TotalCost, it.BatchNumber,
			dateOnly(it.ExpiryDate), it.Notes,
		)
		if err != nil {
			return mapWriteErr("insert inventory entry item", err)
		}
	}
	return nil
}

func (r *InventoryEntryRepo) get(ctx context.Context, query, id string) (*entity.InventoryEntry, error) {
	e, err := scanEntry(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if isNoRow(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get inventory entry: %w", err)
	}
	if err := r.loadItems(ctx, []*entity.InventoryEntry{e}); err != nil {
		return nil, err
	}
	return e, nil
}

func (r *InventoryEntryRepo) GetByID(ctx context.Context, id string) (*entity.InventoryEntry, error) {
	return r.get(ctx, `SELECT `+entryColumns+` FROM inventory_entries WHERE id = $1`, id)
}

func (r *InventoryEntryRepo) GetForUpdate(ctx context.Context, id string) (*entity.InventoryEntry, error) {
	return r.get(ctx, `SELECT `+entryColumns+` FROM inventory_entries WHERE id = $1 FOR UPDATE`, id)
}

func (r *InventoryEntryRepo) List(ctx context.Context, f repository.EntryFilter) ([]*entity.InventoryEntry, error) {
	var w filter
	if f.Type != "" {
		w.add("entry_type = ?", f.Type)
	}
	if f.Status != "" {
		w.add("status = ?", f.Status)
	}
	query := `SELECT ` + entryColumns + ` FROM inventory_entries` + w.where() + ` ORDER BY created_at DESC` + w.page(f.Limit, f.Offset)

	rows, err := r.q.Query(ctx, query, w.args...)
	if err != nil {
		return nil, fmt.Errorf("list inventory entries: %w", err)
	}
	var list []*entity.InventoryEntry
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			rows.Close()
			return nil, fmt.Errorf("scan inventory entry: %w", err)
		}
		list = append(list, e)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if err := r.loadItems(ctx, list); err != nil {
		return nil, err
	}
	return list, nil
}

func (r *InventoryEntryRepo) loadItems(ctx context.Context, entries []*entity.InventoryEntry) error {
	if len(entries) == 0 {
		return nil
	}
	ids := make([]string, len(entries))
	byID := make(map[string]*entity.InventoryEntry, len(entries))
	for i, e := range entries {
		ids[i] = e.ID
		byID[e.ID] = e
	}
	rows, err := r.q.Query(ctx, `
		SELECT id, entry_id, product_id, quantity, unit_cost, total_cost, batch_number, expiry_date, notes
		FROM inventory_entry_items WHERE entry_id = ANY($1::uuid[])
		ORDER BY entry_id, position`, ids)
	if err != nil {
		return fmt.Errorf("load entry items: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var it entity.InventoryEntryItem
		err := rows.Scan(&it.ID, &it.EntryID, &it.ProductID, &it.Quantity, &it.UnitCost, &it.TotalCost,
			&it.BatchNumber, &it.ExpiryDate, &it.Notes)
		if err != nil {
			return fmt.Errorf("scan entry item: %w", err)
		}
		e := byID[it.EntryID]
		e.Items = append(e.Items, it)
	}
	return rows.Err()
}

// UpdateStatus persiste estado, aprobador y marcas de tiempo.
func (r *InventoryEntryRepo) UpdateStatus(ctx context.Context, e *entity.InventoryEntry) error {
	cmd, err := r.q.Exec(ctx, `
		UPDATE inventory_entries
		SET status = $2, approved_by_user_id = $3, approved_at = $4, completed_at = $5, updated_at = now()
		WHERE id = $1`,
		e.ID, e.Status, nullable(e.ApprovedByUserID), e.ApprovedAt, e.CompletedAt,
	)
	if err != nil {
		return mapWriteErr("update inventory entry", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
