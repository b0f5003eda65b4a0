package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/KrisYarno/inventory-core/internal/application/catalog"
	"github.com/KrisYarno/inventory-core/internal/application/inventory"
	"github.com/KrisYarno/inventory-core/internal/application/journal"
	"github.com/KrisYarno/inventory-core/internal/application/orders"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	BatchAdjust *inventory.BatchAdjustUseCase
	Query       *inventory.QueryUseCase
	Catalog     *catalog.UseCase
	Journals    *journal.Store
	OrderLocks  *orders.LockUseCase
	JWTSecret   string
}

// Router registra las rutas de la API. Todo el inventario es protegido: la
// identidad del usuario viene del Bearer Token.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))

	// Motor de ajustes (protegido)
	invGroup := protected.Group("/inventory")
	adjustmentHandler := NewAdjustmentHandler(deps.BatchAdjust)
	invGroup.Post("/adjustments", adjustmentHandler.BatchAdjust)
	invGroup.Post("/stock-in", adjustmentHandler.StockIn)
	invGroup.Post("/transfer", adjustmentHandler.Transfer)

	// Lecturas (protegido)
	inventoryHandler := NewInventoryHandler(deps.Query)
	invGroup.Get("/levels", inventoryHandler.Levels)
	invGroup.Get("/snapshot", inventoryHandler.SnapshotAt)
	invGroup.Get("/history", inventoryHandler.History)

	// Catálogo (protegido)
	catalogHandler := NewCatalogHandler(deps.Catalog)
	productsGroup := protected.Group("/products")
	productsGroup.Get("/", catalogHandler.ListProducts)
	productsGroup.Get("/:id", catalogHandler.GetProduct)
	productsGroup.Post("/", catalogHandler.CreateProduct)
	locationsGroup := protected.Group("/locations")
	locationsGroup.Get("/", catalogHandler.ListLocations)
	locationsGroup.Post("/", catalogHandler.CreateLocation)

	// Journal de ajustes pendientes (protegido)
	journalGroup := protected.Group("/journal")
	journalHandler := NewJournalHandler(deps.Journals, deps.BatchAdjust)
	journalGroup.Get("/", journalHandler.List)
	journalGroup.Get("/totals", journalHandler.Totals)
	journalGroup.Post("/", journalHandler.Upsert)
	journalGroup.Post("/submit", journalHandler.Submit)
	journalGroup.Delete("/:product_id", journalHandler.Remove)
	journalGroup.Delete("/", journalHandler.Clear)

	// Locks de empaque de órdenes (protegido)
	ordersGroup := protected.Group("/orders")
	orderLockHandler := NewOrderLockHandler(deps.OrderLocks)
	ordersGroup.Post("/:ref/lock", orderLockHandler.Acquire)
	ordersGroup.Put("/:ref/lock", orderLockHandler.Refresh)
	ordersGroup.Delete("/:ref/lock", orderLockHandler.Release)
}
