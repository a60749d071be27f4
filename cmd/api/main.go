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

	"github.com/jhoicas/Pedidos-api/internal/application/allocation"
	"github.com/jhoicas/Pedidos-api/internal/application/auth"
	"github.com/jhoicas/Pedidos-api/internal/application/inventory"
	"github.com/jhoicas/Pedidos-api/internal/application/orders"
	"github.com/jhoicas/Pedidos-api/internal/application/purchasing"
	"github.com/jhoicas/Pedidos-api/internal/application/usecase"
	infrapdf "github.com/jhoicas/Pedidos-api/internal/infrastructure/pdf"
	"github.com/jhoicas/Pedidos-api/internal/infrastructure/postgres"
	httpRouter "github.com/jhoicas/Pedidos-api/internal/interfaces/http"
	"github.com/jhoicas/Pedidos-api/pkg/config"
	"github.com/jhoicas/Pedidos-api/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: "info",
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

	// Repositorios atados al pool (lecturas fuera de transacción).
	companyRepo := postgres.NewCompanyRepository(pool)
	userRepo := postgres.NewUserRepository(pool)
	productRepo := postgres.NewProductRepository(pool)
	customerRepo := postgres.NewCustomerRepository(pool)
	supplierRepo := postgres.NewSupplierRepository(pool)
	batchRepo := postgres.NewBatchRepository(pool)
	poolRepo := postgres.NewInventoryPoolRepository(pool)
	movRepo := postgres.NewMovementRepository(pool)
	orderRepo := postgres.NewOrderRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	// Motor de inventario y planificador FEFO.
	poolStore := inventory.NewPoolStore(log.Component("inventory"))
	inventoryUC := inventory.NewUseCase(txRunner, poolStore, batchRepo, poolRepo, movRepo)
	planner := allocation.NewPlanner(batchRepo, poolRepo)
	previewUC := allocation.NewPreviewUseCase(planner, productRepo)

	// Pedidos.
	createOrderUC := orders.NewCreateOrderUseCase(txRunner, planner, customerRepo, productRepo, batchRepo, poolRepo)
	transitionUC := orders.NewTransitionOrderUseCase(txRunner, poolStore, log.Component("orders"))
	orderQueriesUC := orders.NewQueryOrderUseCase(orderRepo, txRunner)

	// PDF: remito de despacho del pedido
	slipGenerator := infrapdf.NewMarotoPackingSlipGenerator()
	packingSlipUC := orders.NewPackingSlipUseCase(orderRepo, customerRepo, productRepo, batchRepo, companyRepo, slipGenerator)

	// Compras / recepción de stock.
	receiveStockUC := purchasing.NewReceiveStockUseCase(txRunner, poolStore, supplierRepo, productRepo)

	// Catálogo.
	productUC := usecase.NewProductUseCase(productRepo)
	customerUC := usecase.NewCustomerUseCase(customerRepo)
	supplierUC := usecase.NewSupplierUseCase(supplierRepo)
	batchUC := usecase.NewBatchUseCase(batchRepo, poolRepo)

	authUC := auth.NewAuthUseCase(userRepo, companyRepo, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})

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
		Title:    "Pedidos API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		AuthUC:       authUC,
		ProductUC:    productUC,
		CustomerUC:   customerUC,
		SupplierUC:   supplierUC,
		BatchUC:      batchUC,
		InventoryUC:  inventoryUC,
		PreviewUC:    previewUC,
		CreateOrder:  createOrderUC,
		Transition:   transitionUC,
		OrderQueries: orderQueriesUC,
		PackingSlip:  packingSlipUC,
		ReceiveStock: receiveStockUC,
		JWTSecret:    cfg.JWT.Secret,
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
