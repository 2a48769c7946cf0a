package postgres

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"io/fs"

	"github.com/golang-migrate/migrate/v4"
	migratepg "github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"

	"github.com/CarlosEstrada30/smart-orders-api/internal/application/tenancy"
	"github.com/CarlosEstrada30/smart-orders-api/internal/domain"
	"github.com/CarlosEstrada30/smart-orders-api/internal/domain/entity"
	"github.com/CarlosEstrada30/smart-orders-api/internal/domain/repository"
	"github.com/CarlosEstrada30/smart-orders-api/pkg/logger"
)

//go:embed migrations/control/*.sql
var controlMigrations embed.FS

//go:embed migrations/tenant/*.sql
var tenantMigrations embed.FS

const (
	controlMigrationsTable = "control_migrations"
	tenantMigrationsTable  = "schema_migrations"
)

var _ tenancy.Provisioner = (*Migrator)(nil)

// Migrator aplica las migraciones embebidas: las de control (directorio de tenants)
// en el schema por defecto y las de tenant en cada schema, incluido el por defecto.
type Migrator struct {
	pool *pgxpool.Pool
	log  *logger.Logger
}

// NewMigrator construye el migrador sobre la configuración del pool.
func NewMigrator(pool *pgxpool.Pool, log *logger.Logger) *Migrator {
	if log == nil {
		log = logger.Nop()
	}
	return &Migrator{pool: pool, log: log.Named("migrations")}
}

// MigrateControl crea o actualiza el directorio de tenants y las tablas del schema por defecto.
func (m *Migrator) MigrateControl(ctx context.Context) error {
	if err := m.up(ctx, entity.DefaultSchema, controlMigrations, "migrations/control", controlMigrationsTable); err != nil {
		return err
	}
	return m.up(ctx, entity.DefaultSchema, tenantMigrations, "migrations/tenant", tenantMigrationsTable)
}

// MigrateTenants pone al día el schema de cada tenant registrado, activo o no.
// Un schema que falla no detiene a los demás; se devuelven todos los errores juntos.
func (m *Migrator) MigrateTenants(ctx context.Context, tenants repository.TenantRepository) error {
	list, err := tenants.List(ctx, true)
	if err != nil {
		return err
	}
	var errs []error
	for _, t := range list {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := m.up(ctx, t.SchemaName, tenantMigrations, "migrations/tenant", tenantMigrationsTable); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Provision crea el schema y le aplica las migraciones de tenant.
func (m *Migrator) Provision(ctx context.Context, schema string) error {
	if !entity.ValidSchemaName(schema) || schema == entity.DefaultSchema {
		return fmt.Errorf("%w: schema %q", domain.ErrInvalidInput, schema)
	}
	if _, err := m.pool.Exec(ctx, "CREATE SCHEMA IF NOT EXISTS "+pgx.Identifier{schema}.Sanitize()); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}
	return m.up(ctx, schema, tenantMigrations, "migrations/tenant", tenantMigrationsTable)
}

// Drop elimina el schema con todo su contenido. Nunca toca el schema por defecto.
func (m *Migrator) Drop(ctx context.Context, schema string) error {
	if !entity.ValidSchemaName(schema) || schema == entity.DefaultSchema {
		return fmt.Errorf("%w: schema %q", domain.ErrInvalidInput, schema)
	}
	if _, err := m.pool.Exec(ctx, "DROP SCHEMA IF EXISTS "+pgx.Identifier{schema}.Sanitize()+" CASCADE"); err != nil {
		return fmt.Errorf("drop schema: %w", err)
	}
	m.log.Warn().Str("schema", schema).Msg("schema eliminado")
	return nil
}

// up abre un *sql.DB propio cuyas conexiones llevan search_path=schema, de modo que
// las migraciones sin calificar creen las tablas en ese schema.
func (m *Migrator) up(ctx context.Context, schema string, fsys embed.FS, dir, table string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	sub, err := fs.Sub(fsys, dir)
	if err != nil {
		return fmt.Errorf("open migrations: %w", err)
	}
	source, err := iofs.New(sub, ".")
	if err != nil {
		return fmt.Errorf("create migration source: %w", err)
	}

	connCfg := m.pool.Config().ConnConfig.Copy()
	if connCfg.RuntimeParams == nil {
		connCfg.RuntimeParams = map[string]string{}
	}
	connCfg.RuntimeParams["search_path"] = schema
	db := stdlib.OpenDB(*connCfg)

	driver, err := migratepg.WithInstance(db, &migratepg.Config{
		MigrationsTable: table,
		SchemaName:      schema,
	})
	if err != nil {
		_ = db.Close()
		return fmt.Errorf("create migration driver (%s): %w", schema, err)
	}
	migrator, err := migrate.NewWithInstance("iofs", source, "postgres", driver)
	if err != nil {
		_ = db.Close()
		return fmt.Errorf("create migrator (%s): %w", schema, err)
	}
	// El *sql.DB es exclusivo de esta corrida: Close lo libera junto con la fuente.
	defer func() { _, _ = migrator.Close() }()

	upErr := migrator.Up()
	if upErr != nil && !errors.Is(upErr, migrate.ErrNoChange) {
		return fmt.Errorf("apply migrations (%s/%s): %w", schema, table, upErr)
	}
	version, dirty, _ := migrator.Version()
	m.log.Info().
		Str("schema", schema).
		Str("table", table).
		Uint("version", version).
		Bool("dirty", dirty).
		Msg("migraciones aplicadas")
	return nil
}
