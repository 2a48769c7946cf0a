package postgres

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/CarlosEstrada30/smart-orders-api/internal/domain"
	"github.com/CarlosEstrada30/smart-orders-api/internal/domain/entity"
	"github.com/CarlosEstrada30/smart-orders-api/internal/domain/repository"
	"github.com/CarlosEstrada30/smart-orders-api/pkg/logger"
)

var (
	_ repository.SessionFactory = (*SessionFactory)(nil)
	_ repository.Session        = (*Session)(nil)
)

// releaseTimeout tope para limpiar la conexión aunque el request ya se haya cancelado.
const releaseTimeout = 5 * time.Second

// SessionFactory abre sesiones confinadas a un schema sobre el pool compartido.
type SessionFactory struct {
	pool *pgxpool.Pool
	log  *logger.Logger
}

// NewSessionFactory construye la fábrica.
func NewSessionFactory(pool *pgxpool.Pool, log *logger.Logger) *SessionFactory {
	if log == nil {
		log = logger.Nop()
	}
	return &SessionFactory{pool: pool, log: log.Named("session")}
}

// Open toma una conexión del pool y fija su search_path al schema.
// Schema inválido o inexistente: ErrConfiguration y la conexión vuelve al pool.
func (f *SessionFactory) Open(ctx context.Context, schema string) (repository.Session, error) {
	if !entity.ValidSchemaName(schema) {
		return nil, fmt.Errorf("%w: schema %q inválido", domain.ErrConfiguration, schema)
	}
	conn, err := f.pool.Acquire(ctx)
	if err != nil {
		return nil, fmt.Errorf("acquire conn: %w", err)
	}

	var exists bool
	err = conn.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM information_schema.schemata WHERE schema_name = $1)`,
		schema,
	).Scan(&exists)
	if err != nil {
		conn.Release()
		return nil, fmt.Errorf("check schema: %w", err)
	}
	if !exists {
		conn.Release()
		return nil, fmt.Errorf("%w: el schema %s no existe", domain.ErrConfiguration, schema)
	}
	if _, err := conn.Exec(ctx, "SET search_path TO "+pgx.Identifier{schema}.Sanitize()); err != nil {
		destroy(conn)
		return nil, fmt.Errorf("set search_path: %w", err)
	}
	return &Session{conn: conn, schema: schema, log: f.log}, nil
}

// Session conexión dedicada a un schema durante un request.
type Session struct {
	conn   *pgxpool.Conn
	schema string
	log    *logger.Logger
	once   sync.Once
}

// Schema schema de la sesión.
func (s *Session) Schema() string { return s.schema }

// Repos repositorios sobre la conexión de la sesión, fuera de transacción.
func (s *Session) Repos() repository.Repositories { return NewRepositories(s.conn) }

// WithTx inicia una transacción en la conexión de la sesión, ejecuta fn con repos
// atados a la tx y hace Commit o Rollback.
func (s *Session) WithTx(ctx context.Context, fn func(r repository.Repositories) error) error {
	tx, err := s.conn.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(context.WithoutCancel(ctx)) }()

	if err := fn(NewRepositories(tx)); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// Close restaura el search_path y devuelve la conexión al pool. Si no se puede
// restaurar, la conexión se destruye. Llamarlo más de una vez no tiene efecto.
func (s *Session) Close(ctx context.Context) {
	s.once.Do(func() {
		cctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), releaseTimeout)
		defer cancel()
		if _, err := s.conn.Exec(cctx, "RESET search_path"); err != nil {
			s.log.Warn().Err(err).Str("schema", s.schema).Msg("no se pudo restaurar search_path, se descarta la conexión")
			destroy(s.conn)
			return
		}
		s.conn.Release()
	})
}

// destroy cierra la conexión física en lugar de devolverla al pool.
func destroy(conn *pgxpool.Conn) {
	ctx, cancel := context.WithTimeout(context.Background(), releaseTimeout)
	defer cancel()
	_ = conn.Hijack().Close(ctx)
}

// NewRepositories arma todos los repositorios sobre el mismo Querier.
func NewRepositories(q Querier) repository.Repositories {
	return repository.Repositories{
		Users:       NewUserRepository(q),
		Products:    NewProductRepository(q),
		RoutePrices: NewProductRoutePriceRepository(q),
		Clients:     NewClientRepository(q),
		Routes:      NewRouteRepository(q),
		Orders:      NewOrderRepository(q),
		Payments:    NewPaymentRepository(q),
		Entries:     NewInventoryEntryRepository(q),
	}
}
