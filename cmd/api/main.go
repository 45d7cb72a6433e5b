package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"webdating-engagement/internal/config"
	"webdating-engagement/internal/handler"
	"webdating-engagement/internal/middleware"
	"webdating-engagement/internal/realtime"
	"webdating-engagement/internal/repository"
	"webdating-engagement/internal/service"
)

const shutdownTimeout = 10 * time.Second

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	zl, err := config.NewLogger(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer zl.Sync()

	if err := run(cfg, zl); err != nil {
		zl.Fatal("server stopped", zap.Error(err))
	}
}

func run(cfg *config.Config, zl *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := config.NewPostgresDB(cfg)
	if err != nil {
		return err
	}
	defer db.Close()

	if cfg.AutoMigrate {
		if err := repository.Migrate(ctx, db); err != nil {
			return err
		}
	}

	redisClient, err := config.NewRedisClient(cfg)
	if err != nil {
		return err
	}
	if redisClient == nil {
		zl.Warn("REDIS_URL not set, comment tree cache and push relay disabled")
	} else {
		defer redisClient.Close()
	}

	g, gctx := errgroup.WithContext(ctx)

	hub := realtime.NewHub(zl.Named("push"), cfg.PushQueueSize, cfg.PushSessionBuffer)
	g.Go(func() error {
		hub.Run(gctx)
		return nil
	})
	dispatcher := newDispatcher(gctx, g, hub, redisClient, cfg, zl)

	repos := repository.NewRepositories(db)
	uow := repository.NewUnitOfWork(db)
	services := service.NewServices(repos, uow, dispatcher, redisClient, cfg, zl)
	handlers := handler.NewHandlers(services)

	app := newApp(cfg, handlers)

	mux := http.NewServeMux()
	mux.Handle(realtime.HubPath, realtime.NewHandler(hub, cfg.JWTSecret, cfg.PushWriteTimeout, cfg.AllowedOrigins(), zl.Named("push")))
	mux.Handle("/metrics", promhttp.Handler())
	realtimeServer := &http.Server{
		Addr:              ":" + cfg.RealtimePort,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	g.Go(func() error {
		zl.Info("API server starting", zap.String("port", cfg.Port))
		return app.Listen(":" + cfg.Port)
	})
	g.Go(func() error {
		zl.Info("realtime server starting", zap.String("port", cfg.RealtimePort))
		if err := realtimeServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		zl.Info("shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		return errors.Join(
			app.ShutdownWithContext(shutdownCtx),
			realtimeServer.Shutdown(shutdownCtx),
		)
	})

	return g.Wait()
}

// newDispatcher relays pushes through Redis when it is available so users
// connected to other instances receive them; otherwise the local hub is used.
func newDispatcher(ctx context.Context, g *errgroup.Group, hub *realtime.Hub, redisClient *redis.Client, cfg *config.Config, zl *zap.Logger) realtime.Dispatcher {
	if redisClient == nil {
		return hub
	}

	relay := realtime.NewRedisRelay(redisClient, cfg.PushChannel, hub, cfg.PushQueueSize, zl.Named("relay"))
	g.Go(func() error {
		return relay.Run(ctx)
	})
	return relay
}

func newApp(cfg *config.Config, h *handler.Handlers) *fiber.App {
	app := fiber.New(fiber.Config{
		ErrorHandler: middleware.ErrorHandler,
	})

	app.Use(recover.New())
	app.Use(logger.New(logger.Config{
		Next: func(c *fiber.Ctx) bool {
			return c.Path() == "/health"
		},
	}))
	app.Use(cors.New(cors.Config{
		AllowOrigins: cfg.CORSOrigins,
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
		AllowMethods: "GET, POST, PUT, PATCH, DELETE, OPTIONS",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	v1 := app.Group("/api/v1", middleware.AuthRequired(cfg.JWTSecret))
	h.Register(v1)

	return app
}
