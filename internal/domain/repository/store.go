package repository

import "context"

// Repositories conjunto de repositorios atados a una misma conexión o transacción.
type Repositories struct {
	Users       UserRepository
	Products    ProductRepository
	RoutePrices ProductRoutePriceRepository
	Clients     ClientRepository
	Routes      RouteRepository
	Orders      OrderRepository
	Payments    PaymentRepository
	Entries     InventoryEntryRepository
}

// Store acceso a los datos de un único schema durante una unidad de trabajo.
// Todo lo que se lee o escribe a través de él queda confinado a Schema().
type Store interface {
	Schema() string
	Repos() Repositories
	// WithTx ejecuta fn en una transacción: commit si devuelve nil, rollback en otro caso.
	WithTx(ctx context.Context, fn func(r Repositories) error) error
}

// Session Store que retiene una conexión del pool hasta Close.
type Session interface {
	Store
	Close(ctx context.Context)
}

// SessionFactory abre sesiones confinadas a un schema ya resuelto.
// Devuelve domain.ErrConfiguration si el schema no existe.
type SessionFactory interface {
	Open(ctx context.Context, schema string) (Session, error)
}
