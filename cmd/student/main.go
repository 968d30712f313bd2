package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/piresc/unitransport/internal/pkg/config"
	"github.com/piresc/unitransport/internal/pkg/constants"
	"github.com/piresc/unitransport/internal/pkg/database"
	"github.com/piresc/unitransport/internal/pkg/health"
	"github.com/piresc/unitransport/internal/pkg/logger"
	"github.com/piresc/unitransport/internal/pkg/middleware"
	nrpkg "github.com/piresc/unitransport/internal/pkg/newrelic"
	"github.com/piresc/unitransport/internal/pkg/observability"
	"github.com/piresc/unitransport/internal/pkg/server"
	"github.com/piresc/unitransport/internal/pkg/transport"
	wspkg "github.com/piresc/unitransport/internal/pkg/websocket"
	"github.com/piresc/unitransport/services/fleet/gateway"
	"github.com/piresc/unitransport/services/fleet/handler"
	"github.com/piresc/unitransport/services/fleet/repository"
	"github.com/piresc/unitransport/services/fleet/usecase"
	"golang.org/x/sync/errgroup"

	// transport drivers
	_ "github.com/piresc/unitransport/internal/pkg/mqtt"
	_ "github.com/piresc/unitransport/internal/pkg/nats"
	_ "github.com/piresc/unitransport/internal/pkg/nsq"
)

func main() {
	appName := "unitransport-student"
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "config/student.env"
	}

	configs, err := config.InitConfig(configPath, appName)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize New Relic and loggers
	nrApp := nrpkg.InitNewRelic(configs)

	zapLogger, err := logger.InitZapLoggerFromConfig(configs, nrApp)
	if err != nil {
		log.Fatalf("Failed to create Zap logger: %v", err)
	}
	defer zapLogger.Close()
	logger.SetGlobalLogger(zapLogger)

	appLogger, err := logger.InitAppLoggerFromConfig(configs, nrApp)
	if err != nil {
		logger.Fatal("Failed to create access logger", logger.Err(err))
	}
	defer appLogger.Close()

	subscriberID := constants.SubscriberIDPrefix + uuid.NewString()
	logger.Info("Starting application",
		logger.String("app", appName),
		logger.String("version", configs.App.Version),
		logger.String("environment", configs.App.Environment),
		logger.String("transport", configs.Transport.Driver),
		logger.String("store", configs.Fleet.StoreDriver),
		logger.String("subscriber_id", subscriberID))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdown := server.NewShutdownManager()
	healthService := health.NewHealthService()

	// Initialize Redis client when the fleet store lives there
	var redisClient *database.RedisClient
	if configs.Fleet.StoreDriver == constants.StoreRedis {
		redisClient, err = database.NewRedisClient(configs.Redis)
		if err != nil {
			logger.Fatal("Failed to connect to Redis", logger.Err(err))
		}
		healthService.AddChecker("redis", health.NewRedisHealthChecker(redisClient))
		shutdown.Register(func(context.Context) error { return redisClient.Close() })
	}

	// Initialize transport
	client, err := transport.New(configs.Transport, subscriberID)
	if err != nil {
		logger.Fatal("Failed to create transport client", logger.Err(err))
	}
	healthService.AddTransport(client)
	shutdown.Register(func(context.Context) error { return client.Close() })

	// Initialize repository
	fleetRepo, err := repository.NewFleetStateRepo(configs.Fleet.StoreDriver, redisClient, subscriberID)
	if err != nil {
		logger.Fatal("Failed to create fleet store", logger.Err(err))
	}

	// Initialize gateway
	hub := wspkg.NewManager()
	renderGW := gateway.NewWebSocketRenderGW(hub)

	// Initialize usecase
	fleetUC := usecase.NewFleetUC(configs, fleetRepo, renderGW,
		usecase.WithTracer(observability.NewTracer(nrApp)))

	// Initialize handlers; the consumer must be registered before connecting
	h := handler.NewHandler(fleetUC, hub, client)
	h.InitTransportConsumer(ctx)

	// Initialize Echo server
	e := echo.New()
	e.HideBanner = true
	e.Use(echomw.RequestID())
	e.Use(middleware.PanicRecoveryWithZapMiddleware(zapLogger))
	e.Use(logger.EchoMiddleware(appLogger))

	health.RegisterHealthEndpoints(e, appName, configs.App.Version, healthService)
	h.RegisterRoutes(e)

	if nrApp != nil {
		shutdown.Register(func(context.Context) error {
			nrApp.Shutdown(5 * time.Second)
			return nil
		})
	}

	httpServer := server.NewGracefulServer(e,
		config.Address(configs.Server.Host, configs.Server.Port),
		configs.Server.ShutdownTimeout)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return fleetUC.Run(gctx)
	})
	g.Go(func() error {
		return client.Connect(gctx)
	})
	g.Go(func() error {
		return httpServer.Run(gctx)
	})
	runErr := g.Wait()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), config.DurationOr(configs.Server.ShutdownTimeout, 10*time.Second))
	defer cancel()
	if err := shutdown.Shutdown(shutdownCtx); err != nil {
		logger.Error("Shutdown completed with errors", logger.Err(err))
	}

	if runErr != nil {
		logger.Fatal("Server stopped", logger.String("app", appName), logger.Err(runErr))
	}
	logger.Info("Application stopped", logger.String("app", appName))
}
