package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/jonboulle/clockwork"

	"github.com/jhoicas/inventory-tracker/internal/application/inventory"
	"github.com/jhoicas/inventory-tracker/internal/application/usecase"
	"github.com/jhoicas/inventory-tracker/internal/infrastructure/metrics"
	"github.com/jhoicas/inventory-tracker/internal/infrastructure/recordstore"
	httpRouter "github.com/jhoicas/inventory-tracker/internal/interfaces/http"
	"github.com/jhoicas/inventory-tracker/pkg/config"
	"github.com/jhoicas/inventory-tracker/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.App.LogLevel,
		App:   cfg.App.Name,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("store", cfg.Store.Driver).
		Msg("iniciando aplicación")

	if cfg.JWT.Secret == "" {
		log.Warn().Msg("JWT_SECRET vacío: toda mutación responderá 401")
	}

	ctx := context.Background()
	store, closeStore, err := recordstore.Open(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Str("store", cfg.Store.Driver).Msg("abrir almacenamiento")
	}
	defer closeStore()

	clock := clockwork.NewRealClock()
	var opts []inventory.Option
	opts = append(opts, inventory.WithLogger(log), inventory.WithClock(clock))
	var m *metrics.Metrics
	if cfg.Metrics.Enabled {
		m = metrics.New()
		store = m.InstrumentStore(cfg.Store.Driver, store)
		opts = append(opts, inventory.WithRecorder(m))
	}

	productRepo := recordstore.NewProductRepository(store)
	warehouseRepo := recordstore.NewWarehouseRepository(store)
	ledger := inventory.NewLedger(store, productRepo, warehouseRepo, opts...)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(httpRouter.RequestLogger(log.Component("http")))

	// Swagger UI en local: http://localhost:<port>/docs
	if _, err := os.Stat(cfg.App.SwaggerFile); err == nil {
		app.Use(swagger.New(swagger.Config{
			BasePath: "/",
			FilePath: cfg.App.SwaggerFile,
			Path:     "docs",
			Title:    "Inventory Tracker API",
		}))
	} else {
		log.Info().Str("file", cfg.App.SwaggerFile).Msg("swagger no disponible")
	}

	if m != nil {
		app.Get("/metrics", adaptor.HTTPHandler(m.Handler()))
	}

	httpRouter.Router(app, httpRouter.RouterDeps{
		ProductUC:   usecase.NewProductUseCase(productRepo, clock),
		WarehouseUC: usecase.NewWarehouseUseCase(warehouseRepo, clock),
		Ledger:      ledger,
		Transfers:   inventory.NewTransferEngine(ledger),
		Orders:      inventory.NewPurchaseOrderService(ledger),
		Alerts:      inventory.NewAlertService(ledger),
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
