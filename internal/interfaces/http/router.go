package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/tienda-inventario/internal/application/inventory"
	"github.com/jhoicas/tienda-inventario/internal/application/usecase"
	"github.com/jhoicas/tienda-inventario/pkg/jwt"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	WarehouseUC *usecase.WarehouseUseCase
	ProductUC   *usecase.ProductUseCase
	StockUC     *inventory.StockAdjustmentUseCase
	ReportUC    *inventory.ReportUseCase
	ImportUC    *inventory.ImportUseCase
	JWTSecret   string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	productHandler := NewProductHandler(deps.ProductUC)
	warehouseHandler := NewWarehouseHandler(deps.WarehouseUC)
	inventoryHandler := NewInventoryHandler(deps.StockUC, deps.ReportUC, deps.ImportUC)

	// Catálogo público de la tienda
	api.Get("/public/companies/:companyID/products", productHandler.PublicList)

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))
	anyRole := RequireRole(jwt.RoleAdmin, jwt.RoleBodeguero, jwt.RoleVendedor)
	stockRoles := RequireRole(jwt.RoleAdmin, jwt.RoleBodeguero)
	adminOnly := RequireRole(jwt.RoleAdmin)

	warehouses := protected.Group("/warehouses")
	warehouses.Get("/", anyRole, warehouseHandler.List)
	warehouses.Get("/:id", anyRole, warehouseHandler.GetByID)
	warehouses.Post("/", adminOnly, warehouseHandler.Create)
	warehouses.Put("/:id", adminOnly, warehouseHandler.Update)
	warehouses.Delete("/:id", adminOnly, warehouseHandler.Delete)

	products := protected.Group("/products")
	products.Get("/", anyRole, productHandler.List)
	products.Get("/:id", anyRole, productHandler.GetByID)
	products.Post("/", stockRoles, productHandler.Create)
	products.Put("/:id", stockRoles, productHandler.Update)
	products.Delete("/:id", adminOnly, productHandler.Delete)

	inv := protected.Group("/inventory")
	inv.Post("/entries", stockRoles, inventoryHandler.RegisterEntry)
	inv.Post("/exits", stockRoles, inventoryHandler.RegisterExit)
	inv.Get("/items", anyRole, inventoryHandler.ListItems)
	inv.Post("/items", stockRoles, inventoryHandler.AddItem)
	inv.Delete("/items", adminOnly, inventoryHandler.DeleteItems)
	inv.Get("/items/:id", anyRole, inventoryHandler.GetItem)
	inv.Put("/items/:id", stockRoles, inventoryHandler.EditItem)
	inv.Get("/items/:id/movements", anyRole, inventoryHandler.ListMovements)
	inv.Get("/reports/:warehouseID.:format", anyRole, inventoryHandler.Report)
	inv.Post("/import", stockRoles, inventoryHandler.Import)
}
