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

	"github.com/KrisYarno/inventory-core/internal/application/catalog"
	"github.com/KrisYarno/inventory-core/internal/application/inventory"
	"github.com/KrisYarno/inventory-core/internal/application/journal"
	"github.com/KrisYarno/inventory-core/internal/application/orders"
	"github.com/KrisYarno/inventory-core/internal/infrastructure/audit"
	"github.com/KrisYarno/inventory-core/internal/infrastructure/postgres"
	httpRouter "github.com/KrisYarno/inventory-core/internal/interfaces/http"
	"github.com/KrisYarno/inventory-core/pkg/config"
	"github.com/KrisYarno/inventory-core/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:     cfg.App.Env,
		Level:   "info",
		Service: cfg.App.Name,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Msg("iniciando aplicación")

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	snapshotRepo := postgres.NewSnapshotRepository(pool)
	ledgerRepo := postgres.NewLedgerRepository(pool)
	productRepo := postgres.NewProductRepository(pool)
	locationRepo := postgres.NewLocationRepository(pool)
	orderLockRepo := postgres.NewOrderLockRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	auditLogger := audit.NewZerologAuditLogger(log)
	batchAdjustUC := inventory.NewBatchAdjustUseCase(
		txRunner, snapshotRepo, productRepo, auditLogger,
		inventory.EngineConfig{
			MaxRetries:   cfg.Engine.MaxRetries,
			RetryBackoff: cfg.Engine.RetryBackoff,
		},
		log,
	)
	queryUC := inventory.NewQueryUseCase(snapshotRepo, ledgerRepo)
	catalogUC := catalog.NewUseCase(productRepo, locationRepo)
	journalStore := journal.NewStore()
	orderLockUC := orders.NewLockUseCase(orderLockRepo, cfg.Engine.OrderLockTTL)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "Inventory Core API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		BatchAdjust: batchAdjustUC,
		Query:       queryUC,
		Catalog:     catalogUC,
		Journals:    journalStore,
		OrderLocks:  orderLockUC,
		JWTSecret:   cfg.JWT.Secret,
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
