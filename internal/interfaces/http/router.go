package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/inventory-tracker/internal/application/inventory"
	"github.com/jhoicas/inventory-tracker/internal/application/usecase"
	"github.com/jhoicas/inventory-tracker/pkg/jwt"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	ProductUC   *usecase.ProductUseCase
	WarehouseUC *usecase.WarehouseUseCase
	Ledger      *inventory.Ledger
	Transfers   *inventory.TransferEngine
	Orders      *inventory.PurchaseOrderService
	Alerts      *inventory.AlertService
	JWTSecret   string
}

// Router registra las rutas de la API. Las lecturas son públicas; toda mutación exige Bearer Token.
func Router(app *fiber.App, deps RouterDeps) {
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	api := app.Group("/api")
	auth := AuthMiddleware(deps.JWTSecret)

	// Products
	productHandler := NewProductHandler(deps.ProductUC)
	products := api.Group("/products")
	products.Get("/", productHandler.List)
	products.Get("/:id", productHandler.GetByID)
	products.Post("/", auth, productHandler.Create)
	products.Put("/:id", auth, productHandler.Update)

	// Warehouses
	warehouseHandler := NewWarehouseHandler(deps.WarehouseUC)
	warehouses := api.Group("/warehouses")
	warehouses.Get("/", warehouseHandler.List)
	warehouses.Get("/:id", warehouseHandler.GetByID)
	warehouses.Post("/", auth, warehouseHandler.Create)
	warehouses.Put("/:id", auth, warehouseHandler.Update)

	// Inventory (ledger)
	inventoryHandler := NewInventoryHandler(deps.Ledger, deps.Orders)
	inv := api.Group("/inventory")
	inv.Get("/stock", inventoryHandler.ListStock)
	inv.Get("/stock/:productId/:warehouseId", inventoryHandler.GetStock)
	inv.Get("/movements", inventoryHandler.ListMovements)
	inv.Get("/valuation", inventoryHandler.Valuation)
	inv.Get("/replenishment-list", inventoryHandler.GetReplenishmentList)
	inv.Post("/adjustments", auth, inventoryHandler.Adjust)

	// Transfers
	transferHandler := NewTransferHandler(deps.Transfers)
	transfers := api.Group("/transfers")
	transfers.Get("/", transferHandler.List)
	transfers.Get("/:id", transferHandler.GetByID)
	transfers.Post("/", auth, transferHandler.Create)

	// Purchase orders: /reorder va antes de /:id
	poHandler := NewPurchaseOrderHandler(deps.Orders)
	orders := api.Group("/purchase-orders")
	orders.Get("/", poHandler.List)
	orders.Post("/reorder", auth, poHandler.Reorder)
	orders.Get("/:id", poHandler.GetByID)
	orders.Post("/", auth, poHandler.Create)
	orders.Post("/:id/receive", auth, RequireRole(jwt.RoleAdmin, jwt.RoleBodeguero), poHandler.Receive)

	// Alerts: /summary va antes de /:id
	alertHandler := NewAlertHandler(deps.Alerts)
	alerts := api.Group("/alerts")
	alerts.Get("/", alertHandler.List)
	alerts.Get("/summary", alertHandler.Summary)
	alerts.Get("/:id", alertHandler.GetByID)
	alerts.Patch("/:productId/:warehouseId", auth, alertHandler.UpdateStatus)
}
