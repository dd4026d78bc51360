package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/swaggo/swag"

	"github.com/jhoicas/tienda-inventario/docs"
	"github.com/jhoicas/tienda-inventario/internal/application/inventory"
	"github.com/jhoicas/tienda-inventario/internal/application/usecase"
	"github.com/jhoicas/tienda-inventario/internal/domain/repository"
	"github.com/jhoicas/tienda-inventario/internal/infrastructure/memory"
	"github.com/jhoicas/tienda-inventario/internal/infrastructure/messaging"
	infrapdf "github.com/jhoicas/tienda-inventario/internal/infrastructure/pdf"
	"github.com/jhoicas/tienda-inventario/internal/infrastructure/postgres"
	infraxlsx "github.com/jhoicas/tienda-inventario/internal/infrastructure/xlsx"
	httpRouter "github.com/jhoicas/tienda-inventario/internal/interfaces/http"
	"github.com/jhoicas/tienda-inventario/pkg/config"
	"github.com/jhoicas/tienda-inventario/pkg/logger"
)

const swaggerFile = "./docs/swagger.json"

// storage repositorios y TxRunner del driver elegido.
type storage struct {
	txRunner   inventory.TxRunner
	records    repository.InventoryRecordRepository
	movements  repository.StockTransactionRepository
	products   repository.ProductRepository
	warehouses repository.WarehouseRepository
	close      func()
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:     cfg.App.Env,
		Level:   cfg.App.LogLevel,
		Service: cfg.App.Name,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("storage", cfg.App.StorageDriver).
		Msg("iniciando aplicación")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	store, err := openStorage(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión al almacenamiento")
	}
	defer store.close()

	// Alertas de umbral: sin broker se descartan y el motor sigue funcionando.
	var alerts inventory.AlertPublisher
	if cfg.RabbitMQ.Enabled {
		mq := messaging.NewRabbitMQClient(cfg.RabbitMQ)
		if err := mq.Connect(ctx); err != nil {
			log.Error().Err(err).Msg("rabbitmq no disponible, alertas de stock deshabilitadas")
		} else {
			defer mq.Close()
			alerts = messaging.NewStockAlertPublisher(mq)
		}
	}

	warehouseUC := usecase.NewWarehouseUseCase(store.warehouses)
	productUC := usecase.NewProductUseCase(store.products)
	stockUC := inventory.NewStockAdjustmentUseCase(
		store.txRunner, store.records, store.movements,
		store.products, store.warehouses, alerts,
	)
	sheet := infraxlsx.NewInventorySheet()
	reportUC := inventory.NewReportUseCase(store.records, store.products, store.warehouses, infrapdf.NewMarotoPDFGenerator(), sheet)
	importUC := inventory.NewImportUseCase(sheet, store.products, stockUC)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 30,
		IdleTimeout:  time.Second * 60,
		BodyLimit:    10 * 1024 * 1024,
		ErrorHandler: httpRouter.ErrorHandler,
	})
	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: cfg.HTTP.AllowOrigins,
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
	}))
	app.Use(httpRouter.RequestLogger())

	// Swagger UI en local: http://localhost:<port>/docs
	if _, err := os.Stat(swaggerFile); err == nil {
		app.Use(swagger.New(swagger.Config{
			BasePath: "/",
			FilePath: swaggerFile,
			Path:     "docs",
			Title:    docs.SwaggerInfo.Title,
		}))
	}
	app.Get("/openapi.json", func(c *fiber.Ctx) error {
		doc, err := swag.ReadDoc(docs.SwaggerInfo.InstanceName())
		if err != nil {
			return err
		}
		c.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
		return c.SendString(doc)
	})

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name, "storage": cfg.App.StorageDriver})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		WarehouseUC: warehouseUC,
		ProductUC:   productUC,
		StockUC:     stockUC,
		ReportUC:    reportUC,
		ImportUC:    importUC,
		JWTSecret:   cfg.JWT.Secret,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}

func openStorage(ctx context.Context, cfg *config.Config) (*storage, error) {
	if cfg.App.StorageDriver == config.StorageMemory {
		s := memory.NewStore()
		return &storage{
			txRunner:   memory.NewTxRunner(s),
			records:    s.Records(),
			movements:  s.Movements(),
			products:   s.Products(),
			warehouses: s.Warehouses(),
			close:      func() {},
		}, nil
	}

	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		return nil, err
	}
	return &storage{
		txRunner:   postgres.NewTxRunner(pool),
		records:    postgres.NewInventoryRecordRepository(pool),
		movements:  postgres.NewStockTransactionRepository(pool),
		products:   postgres.NewProductRepository(pool),
		warehouses: postgres.NewWarehouseRepository(pool),
		close:      pool.Close,
	}, nil
}
