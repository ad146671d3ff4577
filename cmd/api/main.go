package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.uber.org/multierr"

	"github.com/petparadise/petparadise-api/api/routes"
	"github.com/petparadise/petparadise-api/internal/auth"
	"github.com/petparadise/petparadise-api/internal/backend"
	"github.com/petparadise/petparadise-api/internal/cart"
	"github.com/petparadise/petparadise-api/internal/pets"
	"github.com/petparadise/petparadise-api/pkg/config"
	"github.com/petparadise/petparadise-api/pkg/logger"
	"github.com/petparadise/petparadise-api/pkg/metrics"
	"github.com/petparadise/petparadise-api/pkg/redis"
)

// run returns false when the process should exit non-zero.
func run() bool {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		return false
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       cfg.App.LogLevel,
		WarnStack:   cfg.App.LogWarnStack,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, err := backend.Open(ctx, cfg, logg)
	if err != nil {
		logg.Error(ctx, "failed to bootstrap store", err)
		return false
	}

	var redisClient *redis.Client
	if cfg.Redis.Enabled() {
		redisClient, err = redis.New(ctx, cfg.Redis, logg)
		if err != nil {
			logg.Error(ctx, "failed to bootstrap redis", err)
			_ = store.Close()
			return false
		}
	} else {
		logg.Warn(ctx, "redis not configured; cart cache, idempotency and auth rate limits disabled")
	}

	defer func() {
		err := store.Close()
		if redisClient != nil {
			err = multierr.Append(err, redisClient.Close())
		}
		if err != nil {
			logg.Error(context.Background(), "error closing resources", err)
		}
	}()

	if cfg.Admin.BootstrapOnStart {
		if _, err := auth.EnsureAdmin(ctx, store.Users, cfg.Admin, cfg.Password, logg); err != nil {
			logg.Error(ctx, "failed to bootstrap admin", err)
			return false
		}
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	authService, err := auth.NewService(auth.ServiceParams{
		UserRepo:       store.Users,
		JWTConfig:      cfg.JWT,
		PasswordConfig: cfg.Password,
		Logger:         logg,
	})
	if err != nil {
		logg.Error(ctx, "failed to create auth service", err)
		return false
	}

	petService, err := pets.NewService(store.Pets)
	if err != nil {
		logg.Error(ctx, "failed to create pet service", err)
		return false
	}

	var cartCache cart.Cache
	if redisClient != nil {
		cartCache = cart.NewRedisCache(redisClient, cfg.Cart.CacheTTL)
	}
	cartService, err := cart.NewService(cart.ServiceParams{
		Repo:            store.Carts,
		Cache:           cartCache,
		Metrics:         metrics.NewCartMetrics(registry),
		Logger:          logg,
		MaxRetries:      cfg.Cart.MaxRetries,
		MaxLineQuantity: cfg.Cart.MaxLineQuantity,
	})
	if err != nil {
		logg.Error(ctx, "failed to create cart service", err)
		return false
	}

	router := routes.NewRouter(
		cfg,
		logg,
		registry,
		metrics.NewHTTPMetrics(registry),
		store,
		redisClient,
		authService,
		petService,
		cartService,
	)

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	ctx = logg.WithFields(ctx, map[string]any{
		"env":    cfg.App.Env,
		"addr":   addr,
		"driver": store.Driver,
	})

	server := &http.Server{
		Addr:              addr,
		Handler:           otelhttp.NewHandler(router, "petparadise-api"),
		ReadHeaderTimeout: 10 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		logg.Info(ctx, "starting api server")
		serveErr <- server.ListenAndServe()
	}()

	select {
	case err := <-serveErr:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logg.Error(ctx, "api server stopped unexpectedly", err)
			return false
		}
		return true
	case <-ctx.Done():
	}

	logg.Info(ctx, "shutting down api server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.App.ShutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logg.Error(ctx, "graceful shutdown failed", err)
		return false
	}
	return true
}

func main() {
	if !run() {
		os.Exit(1)
	}
}
