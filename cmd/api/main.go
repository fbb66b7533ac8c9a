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
	"github.com/jhoicas/socks-api/docs"
	"github.com/jhoicas/socks-api/internal/application/inventory"
	"github.com/jhoicas/socks-api/internal/domain/repository"
	"github.com/jhoicas/socks-api/internal/infrastructure/memory"
	"github.com/jhoicas/socks-api/internal/infrastructure/metrics"
	"github.com/jhoicas/socks-api/internal/infrastructure/postgres"
	httpRouter "github.com/jhoicas/socks-api/internal/interfaces/http"
	"github.com/jhoicas/socks-api/pkg/config"
	"github.com/jhoicas/socks-api/pkg/logger"
	"github.com/jhoicas/socks-api/pkg/textenc"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

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
		Str("store", cfg.Store.Driver).
		Msg("iniciando aplicación")

	ctx := context.Background()

	var (
		sockRepo repository.SockRepository
		txRunner inventory.TxRunner
		ready    func(context.Context) error
	)
	switch cfg.Store.Driver {
	case config.StoreDriverMemory:
		store := memory.NewStore()
		sockRepo, txRunner = store, store
		ready = func(context.Context) error { return nil }
	default:
		pool, err := postgres.NewPool(ctx, cfg.DB)
		if err != nil {
			log.Fatal().Err(err).Msg("conexión a PostgreSQL")
		}
		defer pool.Close()
		if err := postgres.Migrate(ctx, pool); err != nil {
			log.Fatal().Err(err).Msg("migraciones")
		}
		sockRepo, txRunner = postgres.NewSockRepository(pool), postgres.NewTxRunner(pool)
		ready = pool.Ping
	}

	recorder := metrics.NewRecorder(prometheus.DefaultRegisterer)
	sockUC := inventory.NewSockUseCase(txRunner, sockRepo, recorder)

	if cfg.Seed.OnStart {
		if err := seed(ctx, sockUC, cfg.Seed); err != nil {
			log.Fatal().Err(err).Str("path", cfg.Seed.CSVPath).Msg("precarga CSV")
		}
		log.Info().Str("path", cfg.Seed.CSVPath).Msg("inventario precargado")
	}

	app := httpRouter.NewApp(httpRouter.AppConfig{
		Name:      cfg.App.Name,
		BodyLimit: cfg.HTTP.BodyLimit(),
		Logger:    log,
	})

	// Swagger UI en local: http://localhost:<port>/docs
	if cfg.Docs.Enabled {
		app.Use(swagger.New(swagger.Config{
			BasePath:    "/",
			FileContent: docs.JSON(),
			Path:        "docs",
			Title:       "Socks API",
		}))
	}

	app.Get("/health", func(c *fiber.Ctx) error {
		if err := ready(c.UserContext()); err != nil {
			return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"status": "unavailable", "service": cfg.App.Name})
		}
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	httpRouter.Router(app, httpRouter.RouterDeps{
		SockUC:     sockUC,
		Logger:     log,
		CSVCharset: cfg.Seed.Charset,
		JWTSecret:  cfg.JWT.Secret,
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

// seed carga el CSV de SEED_CSV_PATH con las mismas reglas que /api/socks/batch.
func seed(ctx context.Context, uc *inventory.SockUseCase, cfg config.SeedConfig) error {
	f, err := os.Open(cfg.CSVPath)
	if err != nil {
		return err
	}
	defer f.Close()

	r, err := textenc.NewReader(f, cfg.Charset)
	if err != nil {
		return err
	}
	_, err = uc.UploadBatch(ctx, r)
	return err
}
