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
	"github.com/piresc/unitransport/internal/pkg/health"
	"github.com/piresc/unitransport/internal/pkg/logger"
	"github.com/piresc/unitransport/internal/pkg/middleware"
	"github.com/piresc/unitransport/internal/pkg/models"
	nrpkg "github.com/piresc/unitransport/internal/pkg/newrelic"
	"github.com/piresc/unitransport/internal/pkg/server"
	"github.com/piresc/unitransport/internal/pkg/transport"
	"github.com/piresc/unitransport/services/driver"
	"github.com/piresc/unitransport/services/driver/feed"
	"github.com/piresc/unitransport/services/driver/gateway"
	"github.com/piresc/unitransport/services/driver/handler"
	"github.com/piresc/unitransport/services/driver/usecase"
	"golang.org/x/sync/errgroup"

	// transport drivers
	_ "github.com/piresc/unitransport/internal/pkg/mqtt"
	_ "github.com/piresc/unitransport/internal/pkg/nats"
	_ "github.com/piresc/unitransport/internal/pkg/nsq"
)

func main() {
	appName := "unitransport-driver"
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "config/driver.env"
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

	logger.Info("Starting application",
		logger.String("app", appName),
		logger.String("version", configs.App.Version),
		logger.String("environment", configs.App.Environment),
		logger.String("transport", configs.Transport.Driver))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Initialize transport
	client, err := transport.New(configs.Transport, constants.ClientIDPrefix+uuid.NewString())
	if err != nil {
		logger.Fatal("Failed to create transport client", logger.Err(err))
	}

	// Initialize gateway, feed and usecase
	positionGW := gateway.NewTransportPositionGW(client)
	locationFeed := feed.NewWebSocketFeed(configs.Driver.FeedURL,
		config.DurationOr(configs.Transport.ConnectTimeout, constants.DefaultReconnectDelay))
	driverUC := usecase.NewDriverUC(configs, positionGW, locationFeed)

	logger.Info("Publisher identity", logger.String("publisher_id", driverUC.PublisherID()))

	// Initialize Echo server
	e := echo.New()
	e.HideBanner = true
	e.Use(echomw.RequestID())
	e.Use(middleware.PanicRecoveryWithZapMiddleware(zapLogger))
	e.Use(logger.EchoMiddleware(appLogger))

	healthService := health.NewHealthService()
	healthService.AddTransport(client)
	health.RegisterHealthEndpoints(e, appName, configs.App.Version, healthService)

	handler.NewHandler(driverUC).RegisterRoutes(e)

	shutdown := server.NewShutdownManager()
	shutdown.Register(func(context.Context) error { return client.Close() })
	shutdown.Register(func(ctx context.Context) error {
		driverUC.StopDriving(ctx)
		return nil
	})
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
		// returns once the first dial is scheduled; reconnects continue in the background
		return client.Connect(gctx)
	})
	g.Go(func() error {
		return httpServer.Run(gctx)
	})

	// samples published before the broker is reachable are dropped
	if configs.Driver.AutoStart {
		autoStart(gctx, driverUC, configs.Driver)
	}

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

// autoStart applies the configured route and direction and begins driving
func autoStart(ctx context.Context, driverUC driver.DriverUC, cfg models.DriverConfig) {
	if err := driverUC.SetRoute(ctx, cfg.Route); err != nil {
		logger.Warn("Auto start skipped", logger.Err(err))
		return
	}
	if err := driverUC.SetDirection(ctx, cfg.Direction); err != nil {
		logger.Warn("Auto start skipped", logger.Err(err))
		return
	}
	if err := driverUC.StartDriving(ctx); err != nil {
		logger.Warn("Auto start failed", logger.Err(err))
	}
}
