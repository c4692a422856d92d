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
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/jhoicas/inventory-system/internal/application/analytics"
	"github.com/jhoicas/inventory-system/internal/application/auth"
	"github.com/jhoicas/inventory-system/internal/application/inventory"
	"github.com/jhoicas/inventory-system/internal/application/ledger"
	"github.com/jhoicas/inventory-system/internal/infrastructure/kvstore"
	"github.com/jhoicas/inventory-system/internal/infrastructure/metrics"
	infrapdf "github.com/jhoicas/inventory-system/internal/infrastructure/pdf"
	"github.com/jhoicas/inventory-system/internal/infrastructure/xmlexport"
	httpRouter "github.com/jhoicas/inventory-system/internal/interfaces/http"
	"github.com/jhoicas/inventory-system/pkg/config"
	"github.com/jhoicas/inventory-system/pkg/logger"
)

const swaggerFile = "./docs/swagger.json"

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:     cfg.App.Env,
		Level:   cfg.Log.Level,
		Service: cfg.App.Name,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("store", cfg.Store.Driver).
		Msg("iniciando aplicación")

	ctx := context.Background()
	kv, kvCloser, err := kvstore.Open(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Str("driver", cfg.Store.Driver).Msg("abrir almacén")
	}

	// El ledger se carga primero: el Store le escribe desde la primera mutación.
	txLedger := ledger.New(kv, log.Component("ledger"), ledger.WithKey(cfg.Store.TransactionsKey))
	if err := txLedger.Init(ctx); err != nil {
		log.Fatal().Err(err).Msg("cargar historial de movimientos")
	}
	store := inventory.New(kv, txLedger, log.Component("inventory"), inventory.WithKey(cfg.Store.ItemsKey))
	if err := store.Init(ctx); err != nil {
		log.Fatal().Err(err).Msg("cargar inventario")
	}
	log.Info().Int("items", store.Len()).Int("transactions", txLedger.Len()).Msg("almacén cargado")

	authUC := auth.NewAuthUseCase(kvstore.NewUserRepository(kv, log.Component("users")), auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	}, cfg.Auth.LoginDelay)

	loc := cfg.App.Location()
	dashboardUC := analytics.NewDashboardUseCase(store, txLedger, loc)
	// El backend postgres suma el valor del stock en la base.
	if valuer, ok := kv.(analytics.StockValuer); ok {
		dashboardUC.WithStockValuer(valuer, cfg.Store.ItemsKey, log.Component("dashboard"))
	}
	reportUC := analytics.NewReportUseCase(store, txLedger, infrapdf.NewMarotoPDFGenerator(), xmlexport.NewLedgerExporter(), loc)
	appMetrics := metrics.New(store, txLedger)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		Immutable:    true,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: cfg.HTTP.CORSOrigins,
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
	}))
	app.Use(httpRouter.RequestLogger(log.Component("http")))
	app.Use(httpRouter.Metrics(appMetrics))

	// Swagger UI en local: http://localhost:<port>/docs
	if _, err := os.Stat(swaggerFile); err == nil {
		app.Use(swagger.New(swagger.Config{
			BasePath: "/",
			FilePath: swaggerFile,
			Path:     "docs",
			Title:    "Inventory API",
		}))
	} else {
		log.Warn().Str("file", swaggerFile).Msg("swagger deshabilitado")
	}

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name, "store": cfg.Store.Driver})
	})
	app.Get("/metrics", adaptor.HTTPHandler(appMetrics.Handler()))

	httpRouter.Router(app, httpRouter.RouterDeps{
		Items:     store,
		Ledger:    txLedger,
		AuthUC:    authUC,
		Dashboard: dashboardUC,
		Reports:   reportUC,
		JWTSecret: cfg.JWT.Secret,
		PageSize:  cfg.App.PageSize,
		Location:  loc,
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

	// Persistencia final: items, luego movimientos, luego conexiones.
	if err := store.Flush(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("guardar inventario")
	}
	if err := txLedger.Flush(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("guardar historial")
	}
	if err := kvCloser.Close(); err != nil {
		log.Error().Err(err).Msg("cerrar almacén")
	}

	log.Info().Msg("aplicación detenida")
}
