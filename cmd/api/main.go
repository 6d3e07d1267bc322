package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"safarinova/internal/api"
	"safarinova/internal/authn"
	"safarinova/internal/config"
	"safarinova/internal/directory"
	"safarinova/internal/domain"
	"safarinova/internal/events"
	"safarinova/internal/logging"
	"safarinova/internal/metrics"
	"safarinova/internal/repository"
	"safarinova/internal/service"
	"safarinova/internal/store"
	"safarinova/internal/worker"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

func main() {
	if err := run(); err != nil {
		log.Fatalf("Fatal error: %v", err)
	}
}

func run() error {
	cfg, logger, closer, err := loadConfigAndLogger()
	if err != nil {
		return err
	}
	if closer != nil {
		defer func() { _ = closer.Close() }()
	}

	st := store.New(cfg.Database, &logger)
	defer st.Close()

	redisClient := initRedis(cfg, &logger)
	if redisClient != nil {
		defer redisClient.Close()
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	dir := directory.New(st, cfg.Auth.OwnerOpenID, &logger)
	resolver, err := buildResolver(cfg, redisClient, dir, &logger)
	if err != nil {
		return err
	}

	eventBus := events.NewEventBus()
	auditWorker := startAuditWorker(ctx, st, eventBus, &logger)

	bookings := service.NewBookingService(st, eventBus, &logger)
	httpServer := api.NewHTTPServer(*cfg, resolver, bookings, &logger)

	startMetrics(ctx, cfg, &logger)

	return serve(ctx, httpServer, auditWorker, &logger)
}

func loadConfigAndLogger() (*config.Config, zerolog.Logger, io.Closer, error) {
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "configs/config.yaml"
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, zerolog.Logger{}, nil, fmt.Errorf("load config: %w", err)
	}

	baseLogger, closer, err := logging.New(cfg.Logging, cfg.App)
	if err != nil {
		return nil, zerolog.Logger{}, nil, fmt.Errorf("init logger: %w", err)
	}
	logger := baseLogger.With().Str("component", "api-main").Logger()

	return cfg, logger, closer, nil
}

func initRedis(cfg *config.Config, logger *zerolog.Logger) *redis.Client {
	if cfg.Redis.Address == "" {
		return nil
	}

	redisClient := repository.NewRedisClient(cfg.Redis)
	if _, err := redisClient.Ping(context.Background()).Result(); err != nil {
		logger.Warn().Err(err).Msg("redis connection failed, continuing without redis")
		return nil
	}

	logger.Info().Str("addr", cfg.Redis.Address).Msg("redis connected")
	return redisClient
}

func buildResolver(
	cfg *config.Config,
	redisClient *redis.Client,
	dir *directory.Directory,
	logger *zerolog.Logger,
) (*authn.Resolver, error) {
	verifier, err := authn.NewJWKSVerifier(cfg.Auth.JWKSURL, logger)
	if err != nil {
		return nil, fmt.Errorf("init credential verifier: %w", err)
	}

	var cache domain.ClaimsCache = repository.NewMemoryClaimsCache()
	if redisClient != nil {
		cache = repository.NewFailoverClaimsCache(
			repository.NewRedisClaimsCache(redisClient),
			repository.NewMemoryClaimsCache(),
			logger,
		)
	}

	ttl := time.Duration(cfg.Auth.ClaimsTTLSeconds) * time.Second
	return authn.NewResolver(verifier, cache, dir, ttl, logger), nil
}

func startAuditWorker(
	ctx context.Context,
	st *store.Store,
	eventBus *events.EventBus,
	logger *zerolog.Logger,
) *worker.AuditWorker {
	if !st.Available() {
		logger.Warn().Msg("store unavailable, audit worker disabled")
		return nil
	}

	auditWorker := worker.NewAuditWorker(st.DB(), 0, logger)
	auditWorker.Start(ctx)
	eventBus.Subscribe(events.EventBookingCreated, auditWorker.Handle)
	eventBus.Subscribe(events.EventBookingStatusChanged, auditWorker.Handle)
	return auditWorker
}

func startMetrics(ctx context.Context, cfg *config.Config, logger *zerolog.Logger) {
	if !cfg.Monitoring.PrometheusEnabled {
		return
	}

	metrics.Register()
	port := cfg.Monitoring.PrometheusPort
	if port == 0 {
		port = 9090
	}
	go startMetricsServer(ctx, port, logger)
}

func serve(
	ctx context.Context,
	httpServer *api.HTTPServer,
	auditWorker *worker.AuditWorker,
	logger *zerolog.Logger,
) error {
	go func() {
		if err := httpServer.Start(); err != nil {
			logger.Error().Err(err).Msg("http server stopped")
		}
	}()

	<-ctx.Done()
	logger.Info().Msg("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	_ = httpServer.Shutdown(shutdownCtx)
	if auditWorker != nil {
		auditWorker.Stop(shutdownCtx)
	}

	logger.Info().Msg("API server stopped")
	return nil
}

func startMetricsServer(ctx context.Context, port int, logger *zerolog.Logger) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())

	srv := &http.Server{Addr: fmt.Sprintf(":%d", port), Handler: mux}
	go func() {
		<-ctx.Done()
		ctxShutdown, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		_ = srv.Shutdown(ctxShutdown)
	}()
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error().Err(err).Msg("metrics server error")
	}
}
