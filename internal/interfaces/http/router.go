package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Pedidos-api/internal/application/allocation"
	"github.com/jhoicas/Pedidos-api/internal/application/auth"
	"github.com/jhoicas/Pedidos-api/internal/application/inventory"
	"github.com/jhoicas/Pedidos-api/internal/application/orders"
	"github.com/jhoicas/Pedidos-api/internal/application/purchasing"
	"github.com/jhoicas/Pedidos-api/internal/application/usecase"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC       *auth.AuthUseCase
	ProductUC    *usecase.ProductUseCase
	CustomerUC   *usecase.CustomerUseCase
	SupplierUC   *usecase.SupplierUseCase
	BatchUC      *usecase.BatchUseCase
	InventoryUC  *inventory.UseCase
	PreviewUC    *allocation.PreviewUseCase
	CreateOrder  *orders.CreateOrderUseCase
	Transition   *orders.TransitionOrderUseCase
	OrderQueries *orders.QueryOrderUseCase
	PackingSlip  *orders.PackingSlipUseCase
	ReceiveStock *purchasing.ReceiveStockUseCase
	JWTSecret    string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Auth (público)
	authGroup := api.Group("/auth")
	authHandler := NewAuthHandler(deps.AuthUC)
	authGroup.Post("/register", authHandler.Register)
	authGroup.Post("/login", authHandler.Login)

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))

	// Products (protegido)
	products := protected.Group("/products")
	productHandler := NewProductHandler(deps.ProductUC)
	products.Post("/", productHandler.Create)
	products.Get("/", productHandler.List)
	products.Get("/:id", productHandler.GetByID)
	products.Put("/:id", productHandler.Update)

	// Customers (protegido)
	customers := protected.Group("/customers")
	customerHandler := NewCustomerHandler(deps.CustomerUC)
	customers.Post("/", customerHandler.Create)
	customers.Get("/", customerHandler.List)
	customers.Get("/:id", customerHandler.GetByID)
	customers.Delete("/:id", customerHandler.Deactivate)

	// Suppliers (protegido)
	suppliers := protected.Group("/suppliers")
	supplierHandler := NewSupplierHandler(deps.SupplierUC)
	suppliers.Post("/", supplierHandler.Create)
	suppliers.Get("/", supplierHandler.List)
	suppliers.Get("/:id", supplierHandler.GetByID)

	// Batches (protegido)
	batches := protected.Group("/batches")
	batchHandler := NewBatchHandler(deps.BatchUC)
	batches.Get("/", batchHandler.List)
	batches.Post("/expire-due", batchHandler.ExpireDue)
	batches.Get("/:id", batchHandler.GetByID)
	batches.Post("/:id/expire", batchHandler.Expire)

	// Inventory: pools, traslados, ajustes y kardex (protegido)
	invGroup := protected.Group("/inventory")
	inventoryHandler := NewInventoryHandler(deps.InventoryUC, deps.PreviewUC)
	invGroup.Post("/transfers", inventoryHandler.Transfer)
	invGroup.Post("/adjustments", inventoryHandler.Adjust)
	invGroup.Get("/pools/:batchId", inventoryHandler.GetPool)
	invGroup.Get("/movements/:batchId", inventoryHandler.Movements)

	// Allocation preview (protegido, solo lectura, no reserva)
	allocations := protected.Group("/allocations")
	allocations.Post("/preview", inventoryHandler.PreviewAllocation)

	// Purchases (protegido)
	purchases := protected.Group("/purchases")
	purchaseHandler := NewPurchaseHandler(deps.ReceiveStock)
	purchases.Post("/", purchaseHandler.Receive)

	// Orders (protegido)
	ordersGroup := protected.Group("/orders")
	orderHandler := NewOrderHandler(deps.CreateOrder, deps.Transition, deps.OrderQueries, deps.PackingSlip, deps.InventoryUC)
	ordersGroup.Post("/", orderHandler.Create)
	ordersGroup.Get("/", orderHandler.List)
	ordersGroup.Get("/:id", orderHandler.GetByID)
	ordersGroup.Post("/:id/status", orderHandler.Transition)
	ordersGroup.Post("/:id/payment", orderHandler.SetPayment)
	ordersGroup.Get("/:id/packing-slip", orderHandler.PackingSlip)
	ordersGroup.Get("/:id/movements", orderHandler.Movements)
}
