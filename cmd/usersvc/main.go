package main

import (
	"context"
	"fmt"
	"log"
	"net"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel"
	"golang.org/x/sync/errgroup"

	appservice "github.com/turtacn/usersvc/internal/application/service"
	"github.com/turtacn/usersvc/internal/config"
	"github.com/turtacn/usersvc/internal/domain/repository"
	domainService "github.com/turtacn/usersvc/internal/domain/service"
	"github.com/turtacn/usersvc/internal/infrastructure/crypto"
	"github.com/turtacn/usersvc/internal/infrastructure/kms"
	"github.com/turtacn/usersvc/internal/infrastructure/messaging"
	"github.com/turtacn/usersvc/internal/infrastructure/monitoring"
	"github.com/turtacn/usersvc/internal/infrastructure/persistence/postgres"
	redisrepo "github.com/turtacn/usersvc/internal/infrastructure/persistence/redis"
	grpcserver "github.com/turtacn/usersvc/internal/interfaces/grpc"
	httpserver "github.com/turtacn/usersvc/internal/interfaces/http"
	"github.com/turtacn/usersvc/internal/interfaces/http/handlers"
	"github.com/turtacn/usersvc/internal/interfaces/http/middleware"
	"github.com/turtacn/usersvc/pkg/constants"
	"github.com/turtacn/usersvc/pkg/logger"
)

func main() {
	// Logger for startup
	startupLogger, _ := monitoring.NewZapLogger(&config.LogConfig{Level: "info"})

	loader := config.NewLoader(startupLogger)
	cfg, err := loader.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	appLogger, err := monitoring.NewZapLogger(&cfg.Log)
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	logger.SetGlobalLogger(appLogger)
	loader.WatchLogLevel(appLogger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, appLogger); err != nil {
		appLogger.Error(context.Background(), "Service terminated with error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, appLogger logger.Logger) error {
	tracing, err := monitoring.NewTracingManager(cfg, appLogger)
	if err != nil {
		return err
	}
	defer func() { _ = tracing.Shutdown(context.Background()) }()

	metrics := monitoring.NewMetrics(prometheus.DefaultRegisterer)
	healthCheckers := map[string]handlers.HealthChecker{}

	// Persistence
	db, err := postgres.NewDBConnection(ctx, &cfg.Database, appLogger)
	if err != nil {
		return err
	}
	defer db.Close()
	if cfg.Database.AutoMigrate {
		if err := db.Migrate(ctx); err != nil {
			return err
		}
	}
	healthCheckers["database"] = db

	var signingKeys repository.SigningKeyRepository
	switch cfg.Storage.SigningKeyBackend {
	case constants.SigningKeyBackendRedis:
		redisConn, err := redisrepo.NewRedisConnection(ctx, cfg.Redis, appLogger)
		if err != nil {
			return err
		}
		defer redisConn.Close()
		healthCheckers["redis"] = redisConn
		signingKeys = redisrepo.NewSigningKeyRepository(redisConn.Client())
	default:
		signingKeys = postgres.NewSigningKeyRepository(db.DB())
	}
	users := postgres.NewUserRepository(db.DB())
	confirmationTokens := postgres.NewConfirmationTokenRepository(db.DB())

	// Key management and tokens
	vaultClient, err := kms.NewVaultClient(cfg.KMS)
	if err != nil {
		return err
	}
	kmsClient := kms.NewVaultTransitClient(cfg.KMS, vaultClient, metrics, appLogger)
	healthCheckers["kms"] = kmsClient

	keyManager := appservice.NewKeyManagementService(cfg.Security.JWT, signingKeys, kmsClient, metrics, appLogger)
	jwtManager, err := crypto.NewJWTManager(cfg.Security.JWT, keyManager, kmsClient, metrics, appLogger)
	if err != nil {
		return err
	}

	// Messaging
	var publisher domainService.MessagePublisher
	if cfg.Kafka.Enabled {
		kafkaPublisher := messaging.NewKafkaPublisher(cfg.Kafka, appLogger)
		defer kafkaPublisher.Close()
		publisher = kafkaPublisher
	} else {
		publisher = messaging.NewNoopPublisher(appLogger)
	}

	// Application services
	principals := appservice.NewUserPrincipalService(users, appLogger)
	confirmations := appservice.NewConfirmationTokenService(cfg.Security.Confirmation, confirmationTokens, principals, metrics, appLogger)
	authApp := appservice.NewAuthAppService(appservice.NewAuthAppConfig(cfg), users, principals, confirmations, jwtManager, publisher, appLogger)
	authenticator := appservice.NewAuthenticator(jwtManager, principals, metrics, appLogger)

	// HTTP
	reporter := handlers.NewJSONErrorReporter(appLogger)
	router := httpserver.NewRouter(cfg, appLogger,
		handlers.NewHealthHandler(healthCheckers, appLogger),
		handlers.NewUserHandler(authApp, reporter),
		reporter,
		middleware.Authenticate(authenticator, reporter),
		middleware.Observability(otel.Tracer(cfg.Tracing.ServiceName), middleware.NewHTTPMetrics(prometheus.DefaultRegisterer)),
		promhttp.Handler(),
	)

	// gRPC
	grpcListener, err := net.Listen("tcp", fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.GRPCPort))
	if err != nil {
		return fmt.Errorf("failed to listen for gRPC: %w", err)
	}
	grpcSrv := grpcserver.NewServer(grpcserver.NewInterceptorChain(appLogger, authenticator), grpcserver.NewUserService(authApp), appLogger)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(router.Start)
	g.Go(func() error { return grpcSrv.Serve(grpcListener) })

	if cfg.Kafka.Enabled {
		consumer := messaging.NewUserRequestConsumer(cfg.Kafka, appservice.NewUserRequestHandler(principals, appLogger), publisher, appLogger)
		defer consumer.Close()
		g.Go(func() error { return consumer.Start(gctx) })
	}

	g.Go(func() error {
		<-gctx.Done()
		appLogger.Info(context.Background(), "Shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout(cfg))
		defer cancel()
		grpcSrv.Stop()
		return router.Stop(shutdownCtx)
	})

	return g.Wait()
}

func shutdownTimeout(cfg *config.Config) time.Duration {
	if cfg.Server.ShutdownTimeout > 0 {
		return cfg.Server.ShutdownTimeout
	}
	return constants.DefaultShutdownTimeout
}
