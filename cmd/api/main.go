package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"

	"github.com/CarlosEstrada30/smart-orders-api/internal/application/auth"
	"github.com/CarlosEstrada30/smart-orders-api/internal/application/inventory"
	"github.com/CarlosEstrada30/smart-orders-api/internal/application/orders"
	"github.com/CarlosEstrada30/smart-orders-api/internal/application/payments"
	"github.com/CarlosEstrada30/smart-orders-api/internal/application/production"
	"github.com/CarlosEstrada30/smart-orders-api/internal/application/stock"
	"github.com/CarlosEstrada30/smart-orders-api/internal/application/tenancy"
	"github.com/CarlosEstrada30/smart-orders-api/internal/application/usecase"
	"github.com/CarlosEstrada30/smart-orders-api/internal/infrastructure/cache"
	"github.com/CarlosEstrada30/smart-orders-api/internal/infrastructure/metrics"
	"github.com/CarlosEstrada30/smart-orders-api/internal/infrastructure/postgres"
	httpRouter "github.com/CarlosEstrada30/smart-orders-api/internal/interfaces/http"
	"github.com/CarlosEstrada30/smart-orders-api/pkg/config"
	"github.com/CarlosEstrada30/smart-orders-api/pkg/logger"
	"github.com/CarlosEstrada30/smart-orders-api/pkg/tracing"
)

const swaggerFile = "./docs/swagger.json"

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.App.LogLevel,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Bool("stock_validation", cfg.Stock.ValidationEnabled).
		Msg("iniciando aplicación")

	ctx := context.Background()

	shutdownTracing, err := tracing.Setup(ctx, cfg.Tracing)
	if err != nil {
		log.Fatal().Err(err).Msg("inicializar trazas")
	}
	defer func() {
		if err := shutdownTracing(context.Background()); err != nil {
			log.Warn().Err(err).Msg("cerrar exportador de trazas")
		}
	}()

	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	tenantRepo := postgres.NewTenantRepository(pool)
	migrator := postgres.NewMigrator(pool, log)
	if err := migrator.MigrateControl(ctx); err != nil {
		log.Fatal().Err(err).Msg("migraciones del schema de control")
	}
	if err := migrator.MigrateTenants(ctx, tenantRepo); err != nil {
		log.Fatal().Err(err).Msg("migraciones de tenants")
	}

	m := metrics.New(true)

	// Sin REDIS_URL (o Redis caído al arrancar) el resolver consulta siempre la tabla de tenants.
	var tenantCache tenancy.Cache
	redisClient, err := cache.NewClient(ctx, cfg.Redis.URL)
	switch {
	case err != nil:
		log.Warn().Err(err).Msg("redis no disponible, resolución de tenants sin caché")
	case redisClient != nil:
		defer redisClient.Close()
		tenantCache = cache.NewTenantCache(redisClient, time.Duration(cfg.Redis.TenantTTLSeconds)*time.Second)
	}

	sessions := postgres.NewSessionFactory(pool, log)
	resolver := tenancy.NewResolver(tenantRepo, tenantCache, m, log)
	tenantAdmin := tenancy.NewAdminUseCase(tenantRepo, migrator, sessions, resolver, log)

	ledger := stock.NewLedger(cfg.Stock.ValidationEnabled, m, log)
	ordersUC := orders.NewUseCase(ledger, m, log)
	paymentLedger := payments.NewLedger(m, log)
	entryUC := inventory.NewEntryUseCase(ledger, log)
	replenishmentUC := inventory.NewReplenishmentUseCase()

	authUC := auth.NewAuthUseCase(resolver, sessions, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	}, log)

	app := httpRouter.NewApp(cfg.App.Name)
	app.Use(requestid.New())
	app.Use(m.Middleware())
	app.Use(httpRouter.RequestLogger(log))
	app.Use(recover.New())

	// Swagger UI en local: http://localhost:<port>/docs (requiere generar docs/swagger.json)
	if _, err := os.Stat(swaggerFile); err == nil {
		app.Use(swagger.New(swagger.Config{
			BasePath: "/",
			FilePath: swaggerFile,
			Path:     "docs",
			Title:    "Smart Orders API",
		}))
	}

	app.Get("/health", func(c *fiber.Ctx) error {
		pingCtx, cancel := context.WithTimeout(c.UserContext(), 2*time.Second)
		defer cancel()
		if err := pool.Ping(pingCtx); err != nil {
			return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"status": "degraded", "service": cfg.App.Name})
		}
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})
	app.Get("/metrics", m.Handler())

	httpRouter.Router(app, httpRouter.RouterDeps{
		AuthUC:        authUC,
		TenantAdmin:   tenantAdmin,
		OrdersUC:      ordersUC,
		Payments:      paymentLedger,
		Entries:       entryUC,
		Replenishment: replenishmentUC,
		Production:    production.NewDashboardUseCase(log),
		ProductUC:     usecase.NewProductUseCase(),
		RoutePriceUC:  usecase.NewRoutePriceUseCase(),
		ClientUC:      usecase.NewClientUseCase(),
		RouteUC:       usecase.NewRouteUseCase(),
		UserUC:        usecase.NewUserUseCase(),
		Sessions:      sessions,
		JWTSecret:     cfg.JWT.Secret,
		Log:           log,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}
