// Package memstore implementa los puertos de repositorio en memoria para tests de casos de uso.
// WithTx toma una foto del estado y la restaura si fn falla, de modo que los tests
// pueden verificar que un error deja stock y totales intactos.
package memstore

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/CarlosEstrada30/smart-orders-api/internal/domain"
	"github.com/CarlosEstrada30/smart-orders-api/internal/domain/entity"
	"github.com/CarlosEstrada30/smart-orders-api/internal/domain/repository"
)

var (
	_ repository.Session        = (*Store)(nil)
	_ repository.SessionFactory = (*Factory)(nil)
)

type state struct {
	users    map[string]entity.User
	products map[string]entity.Product
	clients  map[string]entity.Client
	routes   map[string]entity.Route
	orders   map[string]entity.Order
	payments map[string]entity.Payment
	entries  map[string]entity.InventoryEntry
	prices   map[string]entity.ProductRoutePrice

	// seq orden de inserción por ID, para listados deterministas.
	seq  map[string]int64
	next int64
}

func newState() *state {
	return &state{
		users:    map[string]entity.User{},
		products: map[string]entity.Product{},
		clients:  map[string]entity.Client{},
		routes:   map[string]entity.Route{},
		orders:   map[string]entity.Order{},
		payments: map[string]entity.Payment{},
		entries:  map[string]entity.InventoryEntry{},
		prices:   map[string]entity.ProductRoutePrice{},
		seq:      map[string]int64{},
	}
}

func (s *state) touch(id string) {
	if _, ok := s.seq[id]; !ok {
		s.next++
		s.seq[id] = s.next
	}
}

func (s *state) clone() *state {
	c := newState()
	for k, v := range s.users {
		c.users[k] = v
	}
	for k, v := range s.products {
		c.products[k] = v
	}
	for k, v := range s.clients {
		c.clients[k] = v
	}
	for k, v := range s.routes {
		c.routes[k] = v
	}
	for k, v := range s.orders {
		c.orders[k] = copyOrder(v)
	}
	for k, v := range s.payments {
		c.payments[k] = v
	}
	for k, v := range s.entries {
		c.entries[k] = copyEntry(v)
	}
	for k, v := range s.prices {
		c.prices[k] = v
	}
	for k, v := range s.seq {
		c.seq[k] = v
	}
	c.next = s.next
	return c
}

func copyOrder(o entity.Order) entity.Order {
	o.Items = append([]entity.OrderItem(nil), o.Items...)
	return o
}

func copyEntry(e entity.InventoryEntry) entity.InventoryEntry {
	e.Items = append([]entity.InventoryEntryItem(nil), e.Items...)
	return e
}

// Store schema en memoria.
type Store struct {
	schema string
	mu     sync.Mutex
	txMu   sync.Mutex
	st     *state

	// FailDecrement, si no es nil, se consulta antes de cada DecrementStock;
	// devolver true simula que otra transacción ganó la carrera.
	FailDecrement func(productID string) bool

	closed int
}

// New crea un schema vacío.
func New(schema string) *Store {
	if schema == "" {
		schema = entity.DefaultSchema
	}
	return &Store{schema: schema, st: newState()}
}

func (s *Store) Schema() string { return s.schema }

// Repos repositorios sobre el estado compartido.
func (s *Store) Repos() repository.Repositories {
	return repository.Repositories{
		Users:       &userRepo{s},
		Products:    &productRepo{s},
		RoutePrices: &routePriceRepo{s},
		Clients:     &clientRepo{s},
		Routes:      &routeRepo{s},
		Orders:      &orderRepo{s},
		Payments:    &paymentRepo{s},
		Entries:     &entryRepo{s},
	}
}

// WithTx serializa las transacciones y restaura la foto previa si fn falla.
func (s *Store) WithTx(ctx context.Context, fn func(r repository.Repositories) error) error {
	s.txMu.Lock()
	defer s.txMu.Unlock()

	s.mu.Lock()
	snapshot := s.st.clone()
	s.mu.Unlock()

	err := ctx.Err()
	if err == nil {
		err = fn(s.Repos())
	}
	if err == nil {
		err = ctx.Err()
	}
	if err != nil {
		s.mu.Lock()
		s.st = snapshot
		s.mu.Unlock()
		return err
	}
	return nil
}

// Close cuenta los cierres para verificar la liberación de sesiones.
func (s *Store) Close(context.Context) {
	s.mu.Lock()
	s.closed++
	s.mu.Unlock()
}

// Closed número de veces que se llamó Close.
func (s *Store) Closed() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

// ── Siembra y consulta directa para tests ───────────────────────────────────

func (s *Store) PutProduct(p entity.Product) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if p.CreatedAt.IsZero() {
		p.CreatedAt = time.Now()
	}
	s.st.products[p.ID] = p
	s.st.touch(p.ID)
}

func (s *Store) PutClient(c entity.Client) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.st.clients[c.ID] = c
	s.st.touch(c.ID)
}

func (s *Store) PutRoute(r entity.Route) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.st.routes[r.ID] = r
	s.st.touch(r.ID)
}

func (s *Store) PutRoutePrice(p entity.ProductRoutePrice) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.st.prices[p.ID] = p
	s.st.touch(p.ID)
}

func (s *Store) PutUser(u entity.User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.st.users[u.ID] = u
	s.st.touch(u.ID)
}

func (s *Store) PutOrder(o entity.Order) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if o.CreatedAt.IsZero() {
		o.CreatedAt = time.Now()
	}
	s.st.orders[o.ID] = copyOrder(o)
	s.st.touch(o.ID)
}

// Product devuelve la copia actual del producto (zero value si no existe).
func (s *Store) Product(id string) entity.Product {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.st.products[id]
}

// Order devuelve la copia actual de la orden.
func (s *Store) Order(id string) entity.Order {
	s.mu.Lock()
	defer s.mu.Unlock()
	return copyOrder(s.st.orders[id])
}

// Payments pagos de una orden en orden de creación.
func (s *Store) Payments(orderID string) []entity.Payment {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []entity.Payment
	for _, p := range s.st.payments {
		if p.OrderID == orderID {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return s.st.seq[out[i].ID] < s.st.seq[out[j].ID] })
	return out
}

// Factory SessionFactory sobre un conjunto fijo de schemas.
type Factory struct {
	mu            sync.Mutex
	schemas       map[string]*Store
	opened        int
	FailProvision error
}

// NewFactory registra los stores dados por su schema.
func NewFactory(stores ...*Store) *Factory {
	f := &Factory{schemas: map[string]*Store{}}
	for _, s := range stores {
		f.schemas[s.Schema()] = s
	}
	return f
}

// Open devuelve el store del schema o ErrConfiguration si no existe.
func (f *Factory) Open(_ context.Context, schema string) (repository.Session, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	s, ok := f.schemas[schema]
	if !ok {
		return nil, domain.ErrConfiguration
	}
	f.opened++
	return s, nil
}

// Opened número de sesiones abiertas.
func (f *Factory) Opened() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.opened
}

// Provision crea un schema vacío; FailProvision simula un fallo del aprovisionamiento.
func (f *Factory) Provision(_ context.Context, schema string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.FailProvision != nil {
		return f.FailProvision
	}
	if _, ok := f.schemas[schema]; ok {
		return domain.ErrDuplicate
	}
	f.schemas[schema] = New(schema)
	return nil
}

// Drop elimina el schema.
func (f *Factory) Drop(_ context.Context, schema string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.schemas, schema)
	return nil
}

// Has indica si el schema existe.
func (f *Factory) Has(schema string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.schemas[schema]
	return ok
}

// Store devuelve el store del schema o nil.
func (f *Factory) Store(schema string) *Store {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.schemas[schema]
}
