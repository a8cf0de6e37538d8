package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"gorm.io/gorm"

	"github.com/EgehanKilicarslan/prayog/backend-go/internal/api"
	"github.com/EgehanKilicarslan/prayog/backend-go/internal/config"
	"github.com/EgehanKilicarslan/prayog/backend-go/internal/database"
	"github.com/EgehanKilicarslan/prayog/backend-go/internal/database/repository"
	"github.com/EgehanKilicarslan/prayog/backend-go/internal/database/service"
	internalgrpc "github.com/EgehanKilicarslan/prayog/backend-go/internal/grpc"
	"github.com/EgehanKilicarslan/prayog/backend-go/internal/handler"
	"github.com/EgehanKilicarslan/prayog/backend-go/internal/identity"
	"github.com/EgehanKilicarslan/prayog/backend-go/internal/logger"
	"github.com/EgehanKilicarslan/prayog/backend-go/internal/middleware"
	"github.com/EgehanKilicarslan/prayog/backend-go/internal/rpc"
	"github.com/EgehanKilicarslan/prayog/backend-go/internal/secret"
	"github.com/EgehanKilicarslan/prayog/backend-go/internal/worker"
)

const healthCheckInterval = 15 * time.Second

func main() {
	// 1. Config
	cfg := config.LoadConfig()

	// 2. Logger
	appLogger := logger.New(cfg)

	appLogger.Info("🚀 [Go] Starting Prayog API...",
		"environment", cfg.AppEnv,
		"identity_api", cfg.IdentityAPIURL,
	)

	// 3. Connect to Database
	db, err := database.ConnectDatabase(cfg, appLogger)
	if err != nil {
		appLogger.Error("❌ Failed to connect to database", "error", err)
		os.Exit(1)
	}

	// 4. Initialize Repositories
	userRepo := repository.NewUserRepository(db)
	projectRepo := repository.NewProjectRepository(db)

	// 5. Identity provider and token sealing
	identityClient := identity.NewClient(cfg, appLogger)

	sealer, err := secret.NewSealer(cfg.TokenEncryptionKey)
	if err != nil {
		appLogger.Error("❌ Invalid token encryption key", "error", err)
		os.Exit(1)
	}

	// 6. Initialize Services
	userService := service.NewUserService(userRepo, identityClient, appLogger)
	projectService := service.NewProjectService(projectRepo, identityClient, sealer, appLogger)

	// 7. Initialize Rate Limiter
	rateLimiter := newRateLimiter(cfg, appLogger)

	// 8. Procedures & Handlers
	authMiddleware := middleware.NewAuthMiddleware(identityClient, appLogger)
	rpcConfig := rpc.NewConfig(db, appLogger, cfg.IsDevelopment())
	procedures := api.NewProcedures(rpcConfig, cfg, authMiddleware, appLogger)

	projectHandler := handler.NewProjectHandler(projectService, appLogger)
	syncHandler := handler.NewSyncHandler(userService, appLogger)

	appRouter := api.BuildAppRouter(rpcConfig, procedures, projectHandler,
		middleware.DailyLimit(rateLimiter, cfg.ProjectDailyCreateLimit, appLogger))

	r := api.SetupRouter(cfg, appRouter, syncHandler, authMiddleware)

	// 9. Servers
	pool := worker.NewPool(appLogger)

	httpServer := &http.Server{
		Addr:              fmt.Sprintf(":%s", cfg.ApiServicePort),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	pool.Go("http", func(ctx context.Context) error {
		appLogger.Info("🌍 [Go] HTTP Server running...", "port", cfg.ApiServicePort, "procedures", appRouter.Paths())
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	healthServer := internalgrpc.NewHealthServer(func(ctx context.Context) error {
		return database.Ping(ctx, db)
	}, appLogger)

	grpcListener, err := net.Listen("tcp", fmt.Sprintf(":%s", cfg.ApiGrpcPort))
	if err != nil {
		appLogger.Error("❌ Failed to listen for gRPC", "error", err)
		os.Exit(1)
	}

	pool.Go("grpc-health", func(ctx context.Context) error {
		appLogger.Info("🔌 [Go] gRPC health server running...", "port", cfg.ApiGrpcPort)
		return healthServer.Serve(grpcListener)
	})

	pool.Go("health-watch", func(ctx context.Context) error {
		healthServer.Watch(ctx, healthCheckInterval)
		return nil
	})

	// 10. Wait for a signal or a server failure
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	exitCode := 0
	select {
	case sig := <-stop:
		appLogger.Info("📴 [Go] Shutdown signal received", "signal", sig.String())
	case err := <-pool.Failed():
		appLogger.Error("❌ Server stopped unexpectedly", "error", err)
		exitCode = 1
	}

	shutdown(httpServer, healthServer, pool, rateLimiter, db, cfg.ShutdownTimeout, appLogger)
	if exitCode != 0 {
		os.Exit(exitCode)
	}
}

// newRateLimiter falls back to the no-op limiter when Redis is unavailable
func newRateLimiter(cfg *config.Config, appLogger *slog.Logger) middleware.RateLimiter {
	if cfg.ProjectDailyCreateLimit <= 0 {
		return middleware.NewNoOpRateLimiter(appLogger)
	}

	redisClient, err := database.NewRedisClient(cfg, appLogger)
	if err != nil {
		appLogger.Warn("⚠️ Failed to connect to Redis, using no-op rate limiter", "error", err)
		return middleware.NewNoOpRateLimiter(appLogger)
	}

	return middleware.NewRedisRateLimiter(redisClient, appLogger)
}

func shutdown(
	httpServer *http.Server,
	healthServer *internalgrpc.HealthServer,
	pool *worker.Pool,
	rateLimiter middleware.RateLimiter,
	db *gorm.DB,
	timeout time.Duration,
	appLogger *slog.Logger,
) {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if err := httpServer.Shutdown(ctx); err != nil {
		appLogger.Warn("⚠️ HTTP Server did not shut down cleanly", "error", err)
	}
	healthServer.Stop()

	pool.Shutdown(timeout)

	if err := rateLimiter.Close(); err != nil {
		appLogger.Warn("⚠️ Failed to close rate limiter", "error", err)
	}
	if err := database.Close(db); err != nil {
		appLogger.Warn("⚠️ Failed to close database", "error", err)
	}

	appLogger.Info("👋 [Go] Prayog API stopped")
}
