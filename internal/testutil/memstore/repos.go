package memstore

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/CarlosEstrada30/smart-orders-api/internal/domain"
	"github.com/CarlosEstrada30/smart-orders-api/internal/domain/entity"
	"github.com/CarlosEstrada30/smart-orders-api/internal/domain/payment"
	"github.com/CarlosEstrada30/smart-orders-api/internal/domain/repository"
)

var (
	_ repository.UserRepository              = (*userRepo)(nil)
	_ repository.ProductRepository           = (*productRepo)(nil)
	_ repository.ProductRoutePriceRepository = (*routePriceRepo)(nil)
	_ repository.ClientRepository            = (*clientRepo)(nil)
	_ repository.RouteRepository             = (*routeRepo)(nil)
	_ repository.OrderRepository             = (*orderRepo)(nil)
	_ repository.PaymentRepository           = (*paymentRepo)(nil)
	_ repository.InventoryEntryRepository    = (*entryRepo)(nil)
)

// newestFirst ordena IDs por inserción descendente.
func (s *Store) newestFirst(ids []string) {
	sort.Slice(ids, func(i, j int) bool { return s.st.seq[ids[i]] > s.st.seq[ids[j]] })
}

func page[T any](items []T, limit, offset int) []T {
	if offset >= len(items) {
		return nil
	}
	items = items[offset:]
	if limit > 0 && limit < len(items) {
		items = items[:limit]
	}
	return items
}

func inRange(t time.Time, from, to *time.Time) bool {
	if from != nil && t.Before(*from) {
		return false
	}
	if to != nil && t.After(*to) {
		return false
	}
	return true
}

// ── users ───────────────────────────────────────────────────────────────────

type userRepo struct{ s *Store }

func (r *userRepo) Create(_ context.Context, u *entity.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, x := range r.s.st.users {
		if strings.EqualFold(x.Email, u.Email) {
			return domain.ErrDuplicate
		}
	}
	r.s.st.users[u.ID] = *u
	r.s.st.touch(u.ID)
	return nil
}

func (r *userRepo) GetByID(_ context.Context, id string) (*entity.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	u, ok := r.s.st.users[id]
	if !ok {
		return nil, nil
	}
	return &u, nil
}

func (r *userRepo) GetByEmail(_ context.Context, email string) (*entity.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, u := range r.s.st.users {
		if strings.EqualFold(u.Email, email) {
			u := u
			return &u, nil
		}
	}
	return nil, nil
}

func (r *userRepo) List(_ context.Context, limit, offset int) ([]*entity.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	ids := make([]string, 0, len(r.s.st.users))
	for id := range r.s.st.users {
		ids = append(ids, id)
	}
	r.s.newestFirst(ids)
	var out []*entity.User
	for _, id := range page(ids, limit, offset) {
		u := r.s.st.users[id]
		out = append(out, &u)
	}
	return out, nil
}

// ── products ────────────────────────────────────────────────────────────────

type productRepo struct{ s *Store }

func (r *productRepo) Create(_ context.Context, p *entity.Product) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, x := range r.s.st.products {
		if x.SKU == p.SKU {
			return domain.ErrDuplicate
		}
	}
	r.s.st.products[p.ID] = *p
	r.s.st.touch(p.ID)
	return nil
}

func (r *productRepo) GetByID(_ context.Context, id string) (*entity.Product, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p, ok := r.s.st.products[id]
	if !ok {
		return nil, nil
	}
	return &p, nil
}

func (r *productRepo) GetBySKU(_ context.Context, sku string) (*entity.Product, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, p := range r.s.st.products {
		if p.SKU == sku {
			p := p
			return &p, nil
		}
	}
	return nil, nil
}

// Update no toca Stock, igual que la implementación SQL.
func (r *productRepo) Update(_ context.Context, p *entity.Product) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	cur, ok := r.s.st.products[p.ID]
	if !ok {
		return domain.ErrNotFound
	}
	upd := *p
	upd.Stock = cur.Stock
	r.s.st.products[p.ID] = upd
	return nil
}

func (r *productRepo) List(_ context.Context, f repository.ProductFilter) ([]*entity.Product, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var ids []string
	for id, p := range r.s.st.products {
		if f.ActiveOnly && !p.IsActive {
			continue
		}
		if f.Search != "" && !strings.Contains(strings.ToLower(p.Name+" "+p.SKU), strings.ToLower(f.Search)) {
			continue
		}
		ids = append(ids, id)
	}
	r.s.newestFirst(ids)
	var out []*entity.Product
	for _, id := range page(ids, f.Limit, f.Offset) {
		p := r.s.st.products[id]
		out = append(out, &p)
	}
	return out, nil
}

func (r *productRepo) ListLowStock(_ context.Context, threshold int) ([]*entity.Product, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*entity.Product
	for _, p := range r.s.st.products {
		if p.IsActive && p.Stock <= threshold {
			p := p
			out = append(out, &p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Stock < out[j].Stock })
	return out, nil
}

func (r *productRepo) DecrementStock(_ context.Context, id string, qty int) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.FailDecrement != nil && r.s.FailDecrement(id) {
		return false, nil
	}
	p, ok := r.s.st.products[id]
	if !ok || !p.IsActive || p.Stock < qty {
		return false, nil
	}
	p.Stock -= qty
	r.s.st.products[id] = p
	return true, nil
}

func (r *productRepo) IncrementStock(_ context.Context, id string, qty int) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p, ok := r.s.st.products[id]
	if !ok {
		return domain.ErrNotFound
	}
	p.Stock += qty
	r.s.st.products[id] = p
	return nil
}

// ── clients / routes ────────────────────────────────────────────────────────

type clientRepo struct{ s *Store }

func (r *clientRepo) Create(_ context.Context, c *entity.Client) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.st.clients[c.ID] = *c
	r.s.st.touch(c.ID)
	return nil
}

func (r *clientRepo) GetByID(_ context.Context, id string) (*entity.Client, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	c, ok := r.s.st.clients[id]
	if !ok {
		return nil, nil
	}
	return &c, nil
}

func (r *clientRepo) Update(_ context.Context, c *entity.Client) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.st.clients[c.ID]; !ok {
		return domain.ErrNotFound
	}
	r.s.st.clients[c.ID] = *c
	return nil
}

func (r *clientRepo) List(_ context.Context, activeOnly bool, limit, offset int) ([]*entity.Client, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var ids []string
	for id, c := range r.s.st.clients {
		if activeOnly && !c.IsActive {
			continue
		}
		ids = append(ids, id)
	}
	r.s.newestFirst(ids)
	var out []*entity.Client
	for _, id := range page(ids, limit, offset) {
		c := r.s.st.clients[id]
		out = append(out, &c)
	}
	return out, nil
}

type routeRepo struct{ s *Store }

func (r *routeRepo) Create(_ context.Context, rt *entity.Route) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.st.routes[rt.ID] = *rt
	r.s.st.touch(rt.ID)
	return nil
}

func (r *routeRepo) GetByID(_ context.Context, id string) (*entity.Route, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	rt, ok := r.s.st.routes[id]
	if !ok {
		return nil, nil
	}
	return &rt, nil
}

func (r *routeRepo) Update(_ context.Context, rt *entity.Route) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.st.routes[rt.ID]; !ok {
		return domain.ErrNotFound
	}
	r.s.st.routes[rt.ID] = *rt
	return nil
}

func (r *routeRepo) List(_ context.Context, activeOnly bool) ([]*entity.Route, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*entity.Route
	for _, rt := range r.s.st.routes {
		if activeOnly && !rt.IsActive {
			continue
		}
		rt := rt
		out = append(out, &rt)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

// ── route prices ────────────────────────────────────────────────────────────

type routePriceRepo struct{ s *Store }

func (r *routePriceRepo) Create(_ context.Context, p *entity.ProductRoutePrice) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, x := range r.s.st.prices {
		if x.ProductID == p.ProductID && x.RouteID == p.RouteID {
			return domain.ErrDuplicate
		}
	}
	r.s.st.prices[p.ID] = *p
	r.s.st.touch(p.ID)
	return nil
}

func (r *routePriceRepo) GetByID(_ context.Context, id string) (*entity.ProductRoutePrice, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p, ok := r.s.st.prices[id]
	if !ok {
		return nil, nil
	}
	return &p, nil
}

func (r *routePriceRepo) GetByProductAndRoute(_ context.Context, productID, routeID string) (*entity.ProductRoutePrice, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, p := range r.s.st.prices {
		if p.ProductID == productID && p.RouteID == routeID {
			return &p, nil
		}
	}
	return nil, nil
}

func (r *routePriceRepo) ListByProduct(_ context.Context, productID string) ([]*entity.ProductRoutePrice, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var ids []string
	for id, p := range r.s.st.prices {
		if p.ProductID == productID {
			ids = append(ids, id)
		}
	}
	sort.Slice(ids, func(i, j int) bool { return r.s.st.seq[ids[i]] < r.s.st.seq[ids[j]] })
	out := make([]*entity.ProductRoutePrice, 0, len(ids))
	for _, id := range ids {
		p := r.s.st.prices[id]
		out = append(out, &p)
	}
	return out, nil
}

func (r *routePriceRepo) List(_ context.Context, limit, offset int) ([]*entity.ProductRoutePrice, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	ids := make([]string, 0, len(r.s.st.prices))
	for id := range r.s.st.prices {
		ids = append(ids, id)
	}
	r.s.newestFirst(ids)
	var out []*entity.ProductRoutePrice
	for _, id := range page(ids, limit, offset) {
		p := r.s.st.prices[id]
		out = append(out, &p)
	}
	return out, nil
}

func (r *routePriceRepo) UpdatePrice(_ context.Context, p *entity.ProductRoutePrice) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	cur, ok := r.s.st.prices[p.ID]
	if !ok {
		return domain.ErrNotFound
	}
	cur.Price = p.Price
	cur.UpdatedAt = p.UpdatedAt
	r.s.st.prices[p.ID] = cur
	return nil
}

func (r *routePriceRepo) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.st.prices[id]; !ok {
		return domain.ErrNotFound
	}
	delete(r.s.st.prices, id)
	return nil
}

// ── orders ──────────────────────────────────────────────────────────────────

type orderRepo struct{ s *Store }

func (r *orderRepo) Create(_ context.Context, o *entity.Order) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, x := range r.s.st.orders {
		if x.OrderNumber == o.OrderNumber {
			return domain.ErrDuplicate
		}
	}
	r.s.st.orders[o.ID] = copyOrder(*o)
	r.s.st.touch(o.ID)
	return nil
}

func (r *orderRepo) GetByID(_ context.Context, id string) (*entity.Order, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	o, ok := r.s.st.orders[id]
	if !ok {
		return nil, nil
	}
	o = copyOrder(o)
	return &o, nil
}

func (r *orderRepo) GetByNumber(_ context.Context, number string) (*entity.Order, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, o := range r.s.st.orders {
		if o.OrderNumber == number {
			o = copyOrder(o)
			return &o, nil
		}
	}
	return nil, nil
}

// GetForUpdate las transacciones ya están serializadas por WithTx.
func (r *orderRepo) GetForUpdate(ctx context.Context, id string) (*entity.Order, error) {
	return r.GetByID(ctx, id)
}

func (r *orderRepo) List(_ context.Context, f repository.OrderFilter) ([]*entity.Order, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var ids []string
	for id, o := range r.s.st.orders {
		if f.Status != "" && o.Status != f.Status {
			continue
		}
		if f.ClientID != "" && o.ClientID != f.ClientID {
			continue
		}
		if f.RouteID != "" && o.RouteID != f.RouteID {
			continue
		}
		if !inRange(o.CreatedAt, f.From, f.To) {
			continue
		}
		if f.Search != "" && !r.matches(o, f.Search) {
			continue
		}
		ids = append(ids, id)
	}
	r.s.newestFirst(ids)
	var out []*entity.Order
	for _, id := range page(ids, f.Limit, f.Offset) {
		o := copyOrder(r.s.st.orders[id])
		out = append(out, &o)
	}
	return out, nil
}

// matches misma semántica que el ILIKE de Postgres sobre número y nombre del cliente.
func (r *orderRepo) matches(o entity.Order, search string) bool {
	q := strings.ToLower(search)
	if strings.Contains(strings.ToLower(o.OrderNumber), q) {
		return true
	}
	c, ok := r.s.st.clients[o.ClientID]
	return ok && strings.Contains(strings.ToLower(c.Name), q)
}

func (r *orderRepo) UpdateStatus(_ context.Context, id string, status entity.OrderStatus) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	o, ok := r.s.st.orders[id]
	if !ok {
		return domain.ErrNotFound
	}
	o.Status = status
	o.UpdatedAt = time.Now()
	r.s.st.orders[id] = o
	return nil
}

func (r *orderRepo) UpdatePaymentTotals(_ context.Context, id string, t payment.Totals) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	o, ok := r.s.st.orders[id]
	if !ok {
		return domain.ErrNotFound
	}
	o.PaidAmount = t.PaidAmount
	o.BalanceDue = t.BalanceDue
	o.PaymentStatus = t.PaymentStatus
	o.UpdatedAt = time.Now()
	r.s.st.orders[id] = o
	return nil
}

// ── payments ────────────────────────────────────────────────────────────────

type paymentRepo struct{ s *Store }

func (r *paymentRepo) Create(_ context.Context, p *entity.Payment) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.st.orders[p.OrderID]; !ok {
		return domain.ErrNotFound
	}
	r.s.st.payments[p.ID] = *p
	r.s.st.touch(p.ID)
	return nil
}

func (r *paymentRepo) GetByID(_ context.Context, id string) (*entity.Payment, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p, ok := r.s.st.payments[id]
	if !ok {
		return nil, nil
	}
	return &p, nil
}

func (r *paymentRepo) ListByOrder(_ context.Context, orderID string) ([]entity.Payment, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []entity.Payment
	for _, p := range r.s.st.payments {
		if p.OrderID == orderID {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return r.s.st.seq[out[i].ID] < r.s.st.seq[out[j].ID] })
	return out, nil
}

func (r *paymentRepo) List(_ context.Context, f repository.PaymentFilter) ([]*entity.Payment, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var ids []string
	for id, p := range r.s.st.payments {
		if f.OrderID != "" && p.OrderID != f.OrderID {
			continue
		}
		if f.Method != "" && p.Method != f.Method {
			continue
		}
		if f.Status != "" && p.Status != f.Status {
			continue
		}
		if !inRange(p.CreatedAt, f.From, f.To) {
			continue
		}
		ids = append(ids, id)
	}
	r.s.newestFirst(ids)
	var out []*entity.Payment
	for _, id := range page(ids, f.Limit, f.Offset) {
		p := r.s.st.payments[id]
		out = append(out, &p)
	}
	return out, nil
}

func (r *paymentRepo) UpdateStatus(_ context.Context, id string, status entity.PaymentStatus) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p, ok := r.s.st.payments[id]
	if !ok {
		return domain.ErrNotFound
	}
	p.Status = status
	p.UpdatedAt = time.Now()
	r.s.st.payments[id] = p
	return nil
}

// ── inventory entries ───────────────────────────────────────────────────────

type entryRepo struct{ s *Store }

func (r *entryRepo) Create(_ context.Context, e *entity.InventoryEntry) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.st.entries[e.ID] = copyEntry(*e)
	r.s.st.touch(e.ID)
	return nil
}

func (r *entryRepo) GetByID(_ context.Context, id string) (*entity.InventoryEntry, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	e, ok := r.s.st.entries[id]
	if !ok {
		return nil, nil
	}
	e = copyEntry(e)
	return &e, nil
}

func (r *entryRepo) GetForUpdate(ctx context.Context, id string) (*entity.InventoryEntry, error) {
	return r.GetByID(ctx, id)
}

func (r *entryRepo) List(_ context.Context, f repository.EntryFilter) ([]*entity.InventoryEntry, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var ids []string
	for id, e := range r.s.st.entries {
		if f.Type != "" && e.EntryType != f.Type {
			continue
		}
		if f.Status != "" && e.Status != f.Status {
			continue
		}
		ids = append(ids, id)
	}
	r.s.newestFirst(ids)
	var out []*entity.InventoryEntry
	for _, id := range page(ids, f.Limit, f.Offset) {
		e := copyEntry(r.s.st.entries[id])
		out = append(out, &e)
	}
	return out, nil
}

func (r *entryRepo) UpdateStatus(_ context.Context, e *entity.InventoryEntry) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	cur, ok := r.s.st.entries[e.ID]
	if !ok {
		return domain.ErrNotFound
	}
	cur.Status = e.Status
	cur.ApprovedByUserID = e.ApprovedByUserID
	cur.ApprovedAt = e.ApprovedAt
	cur.CompletedAt = e.CompletedAt
	cur.UpdatedAt = time.Now()
	r.s.st.entries[e.ID] = cur
	return nil
}
