package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/bytedance/sonic"
	"github.com/go-redis/redis/v8"
	"github.com/joho/godotenv"
	"github.com/twmb/franz-go/pkg/kgo"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"

	"github.com/dvukovic/bookstore/internal/addresses"
	"github.com/dvukovic/bookstore/internal/auth"
	"github.com/dvukovic/bookstore/internal/books"
	"github.com/dvukovic/bookstore/internal/config"
	"github.com/dvukovic/bookstore/internal/database"
	idempostgres "github.com/dvukovic/bookstore/internal/idempotency/postgres"
	"github.com/dvukovic/bookstore/internal/notifications"
	"github.com/dvukovic/bookstore/internal/orders/adapters"
	httpadapter "github.com/dvukovic/bookstore/internal/orders/adapters/http"
	orderspostgres "github.com/dvukovic/bookstore/internal/orders/adapters/postgres"
	ordersapp "github.com/dvukovic/bookstore/internal/orders/app"
	ordersmetrics "github.com/dvukovic/bookstore/internal/orders/metrics"
	"github.com/dvukovic/bookstore/internal/orders/ports"
	"github.com/dvukovic/bookstore/internal/telemetry"
	"github.com/dvukovic/bookstore/internal/users"
)

const meterName = "github.com/dvukovic/bookstore"

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := telemetry.NewLogger(parseLogLevel(cfg.Telemetry.LogLevel))
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	tel, err := telemetry.Initialize(ctx, telemetry.Config{
		ServiceName:    cfg.Service.Name,
		ServiceVersion: cfg.Service.Version,
		Environment:    cfg.Service.Environment,
		OTLPEndpoint:   cfg.Telemetry.OTelEndpoint,
		EnableTracing:  cfg.Telemetry.EnableTracing,
		EnableMetrics:  cfg.Telemetry.EnableMetrics,
		SampleRate:     cfg.Telemetry.SampleRate,
	})
	if err != nil {
		logger.Error("failed to initialize telemetry", "error", err)
		os.Exit(1)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := tel.Shutdown(shutdownCtx); err != nil {
			logger.Error("telemetry shutdown failed", "error", err)
		}
	}()

	pool, err := database.NewPool(ctx, cfg.Database.URL)
	if err != nil {
		logger.Error("failed to create database pool", "error", err)
		os.Exit(1)
	}
	defer pool.Close()

	if cfg.Database.AutoMigrate {
		logger.Info("running database migrations", "path", cfg.Database.MigrationsPath)
		if err := database.RunMigrations(cfg.Database.URL, cfg.Database.MigrationsPath); err != nil {
			logger.Error("failed to run migrations", "error", err)
			os.Exit(1)
		}
		logger.Info("migrations completed successfully")
	}

	meter := otel.Meter(meterName)

	dbMetrics, err := database.NewMetrics(meter)
	if err != nil {
		logger.Error("failed to create database metrics", "error", err)
		os.Exit(1)
	}
	if err := database.RegisterPoolStats(meter, pool); err != nil {
		logger.Error("failed to register pool metrics", "error", err)
		os.Exit(1)
	}
	orderMetrics, err := ordersmetrics.NewMetrics(meter)
	if err != nil {
		logger.Error("failed to create order metrics", "error", err)
		os.Exit(1)
	}
	httpMetrics, err := httpadapter.NewMetrics(meter)
	if err != nil {
		logger.Error("failed to create http metrics", "error", err)
		os.Exit(1)
	}

	bookStore := books.NewPostgresStore(pool)
	addressStore := addresses.NewPostgresStore(pool)
	userStore := users.NewPostgresStore(pool)
	verifier := auth.NewJWTVerifier([]byte(cfg.Auth.JWTSecret), userStore)

	var (
		listCache    books.ListCache
		catalogCache ports.CatalogCache
	)
	if cfg.Redis.Addr != "" {
		redisClient := redis.NewClient(&redis.Options{Addr: cfg.Redis.Addr})
		cache := books.NewRedisListCache(redisClient, time.Duration(cfg.Redis.CatalogCacheTTL)*time.Second)
		listCache = cache
		catalogCache = cache
		defer redisClient.Close()
	}

	dispatcher, consumerDone := setupNotifications(ctx, cfg, meter, logger)

	repo := adapters.NewObservableRepository(orderspostgres.NewRepository(pool), dbMetrics)
	idemStore := idempostgres.NewStore(pool)

	service := ordersapp.NewService(
		repo,
		bookStore,
		addressStore,
		dispatcher,
		catalogCache,
		idemStore,
		logger,
		orderMetrics,
		ordersapp.Config{PriceTolerance: cfg.Orders.PriceTolerance},
	)

	booksService := books.NewService(bookStore, listCache, logger)

	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	mux.HandleFunc("/readyz", func(w http.ResponseWriter, r *http.Request) {
		if err := database.CheckHealth(r.Context(), pool); err != nil {
			respondJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "not ready", "error": err.Error()})
			return
		}
		respondJSON(w, http.StatusOK, map[string]string{"status": "ready"})
	})

	books.NewHandler(booksService).Register(mux)

	ordersMux := http.NewServeMux()
	httpadapter.NewHandler(service).Register(ordersMux)
	ordersRoutes := httpadapter.RequireAuth(ordersMux, verifier)
	mux.Handle("/v1/orders", ordersRoutes)
	mux.Handle("/v1/orders/", ordersRoutes)

	handler := withRecovery(withLogging(httpadapter.WithMetrics(mux, httpMetrics)))

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.HTTP.Port),
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		logger.Info("http server starting", "port", cfg.HTTP.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("http server error", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.HTTP.ShutdownGrace)*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", "error", err)
	} else {
		logger.Info("http server stopped")
	}

	if consumerDone != nil {
		select {
		case <-consumerDone:
		case <-shutdownCtx.Done():
			logger.Warn("mail worker did not stop within shutdown grace")
		}
	}
}

// setupNotifications returns the order-placed dispatcher and, when Kafka is
// configured, a channel closed once the mail worker exits. Without brokers the
// service falls back to a log-only dispatcher.
func setupNotifications(ctx context.Context, cfg *config.Config, meter metric.Meter, logger *slog.Logger) (ports.NotificationDispatcher, <-chan struct{}) {
	if len(cfg.Kafka.Brokers) == 0 {
		logger.Info("kafka brokers not configured, using noop dispatcher")
		return notifications.NewNoopDispatcher(), nil
	}

	notifMetrics, err := notifications.NewMetrics(meter)
	if err != nil {
		logger.Error("failed to create notification metrics", "error", err)
		os.Exit(1)
	}

	producer, err := notifications.NewKafkaClient(cfg.Kafka.Brokers)
	if err != nil {
		logger.Error("failed to create kafka producer", "error", err)
		os.Exit(1)
	}

	consumerClient, err := notifications.NewKafkaClient(cfg.Kafka.Brokers,
		kgo.ConsumerGroup(cfg.Kafka.ConsumerGroup),
		kgo.ConsumeTopics(notifications.TopicOrderPlaced),
	)
	if err != nil {
		logger.Error("failed to create kafka consumer", "error", err)
		os.Exit(1)
	}

	consumer := notifications.NewConsumer(consumerClient, notifications.NewLogSender(logger), notifMetrics, logger)
	done := make(chan struct{})
	go func() {
		defer close(done)
		defer consumerClient.Close()
		if err := consumer.Run(ctx); err != nil && ctx.Err() == nil {
			logger.Error("mail worker stopped", "error", err)
		}
	}()

	return notifications.NewKafkaDispatcher(producer, notifMetrics), done
}

func parseLogLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rw := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rw, r)
		slog.InfoContext(r.Context(), "http request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", rw.status,
			"duration", time.Since(start),
		)
	})
}

func withRecovery(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				slog.ErrorContext(r.Context(), "panic recovered", "error", rec)
				respondJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
			}
		}()
		next.ServeHTTP(w, r)
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (w *statusRecorder) WriteHeader(status int) {
	w.status = status
	w.ResponseWriter.WriteHeader(status)
}

func respondJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	data, err := sonic.Marshal(payload)
	if err != nil {
		return
	}
	_, _ = w.Write(data)
}
