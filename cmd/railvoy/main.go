package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/railvoy/railvoy/internal/config"
	dbRedis "github.com/railvoy/railvoy/internal/db/redis"
	logpkg "github.com/railvoy/railvoy/internal/logger"
	"github.com/railvoy/railvoy/internal/metrics"
	catalogrepo "github.com/railvoy/railvoy/internal/repository/catalog"
	vectorindexrepo "github.com/railvoy/railvoy/internal/repository/vectorindex"
	chiTransport "github.com/railvoy/railvoy/internal/transport/chi"
	healthuc "github.com/railvoy/railvoy/internal/usecase/health"
	recommenduc "github.com/railvoy/railvoy/internal/usecase/recommend"
	semindexuc "github.com/railvoy/railvoy/internal/usecase/semindex"
	"github.com/railvoy/railvoy/internal/version"
)

func main() {
	// Load configuration based on ENV
	env := config.GetEnv()

	cfg, err := config.Load(env)
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	logger, err := logpkg.NewLogger(env, cfg.Logging.Level)
	if err != nil {
		panic("failed to create logger: " + err.Error())
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("Starting railvoy API server",
		zap.String("version", version.Version),
		zap.String("commit", version.Commit),
		zap.String("env", env),
		zap.Int("http_port", cfg.HTTP.Port),
		zap.Strings("redis_addrs", cfg.Redis.Addrs),
	)

	store, err := dbRedis.NewStore(dbRedis.Config{
		Addrs:    cfg.Redis.Addrs,
		Password: cfg.Redis.Password,
	})
	if err != nil {
		logger.Fatal("Failed to create index store", zap.Error(err))
	}
	defer store.Close()

	ctx := context.Background()
	if err := store.WaitForReady(ctx, time.Duration(cfg.Redis.ReadinessTimeout)*time.Second); err != nil {
		logger.Fatal("Index store not ready", zap.Error(err))
	}
	logger.Info("Connected to index store")

	catalogue, err := catalogrepo.New(cfg.Catalogue.DSN, cfg.Catalogue.MaxConns, cfg.Catalogue.MaxIdleConns)
	if err != nil {
		logger.Fatal("Failed to connect to catalogue database", zap.Error(err))
	}
	defer func() { _ = catalogue.Close() }()
	logger.Info("Connected to catalogue database")

	// Register engine metrics explicitly (no init())
	metrics.RegisterEngineMetrics()

	indexRepo := vectorindexrepo.New(store, cfg.Storage.KeyPrefix+"index:")

	semSvc, err := semindexuc.New(indexRepo, catalogue, semindexuc.Config{
		MaxVocab:      cfg.Index.MaxVocab,
		MinDF:         cfg.Index.MinDF,
		MaxDFFraction: cfg.Index.MaxDFFraction,
		Workers:       cfg.Index.Workers,
		VectorTTL:     time.Duration(cfg.Index.VectorTTLSec) * time.Second,
		QueryTTL:      time.Duration(cfg.Index.QueryTTLSec) * time.Second,
		QueryCacheCap: cfg.Index.QueryCacheCap,
		DefaultTopK:   cfg.Index.DefaultTopK,
	}, metrics.SemanticCacheTotal, logger)
	if err != nil {
		logger.Fatal("Failed to create semantic index service", zap.Error(err))
	}
	defer semSvc.Release()

	recSvc := recommenduc.New(catalogue, semSvc, logger)
	healthSvc := healthuc.New(store, catalogue)

	server := chiTransport.NewServer(recSvc, semSvc, healthSvc, logger)

	r := chi.NewRouter()
	r.Use(jsonRecoverer(logger))
	r.Use(chiMiddleware.RequestID)
	r.Use(wideEventMiddleware(logger))
	r.Use(chiTransport.BearerAuthMiddleware(cfg.Auth.APIKeys))
	r.Use(metrics.Middleware())
	server.Register(r)

	addr := fmt.Sprintf(":%d", cfg.HTTP.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.HTTP.ReadTimeoutSec) * time.Second,
		WriteTimeout: time.Duration(cfg.HTTP.WriteTimeoutSec) * time.Second,
	}

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	go func() {
		logger.Info("Starting HTTP server", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("HTTP server error", zap.Error(err))
		}
	}()

	<-quit
	logger.Info("Received shutdown signal")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.HTTP.ShutdownSec)*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Error during shutdown", zap.Error(err))
	}

	logger.Info("Server stopped gracefully")
}

// jsonRecoverer is a recovery middleware that returns JSON instead of a plain text stacktrace.
func jsonRecoverer(logger *zap.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rvr := recover(); rvr != nil {
					logger.Error("panic recovered",
						zap.Any("panic", rvr),
						zap.Stack("stacktrace"),
					)
					w.Header().Set("Content-Type", "application/json")
					w.WriteHeader(http.StatusInternalServerError)
					_ = json.NewEncoder(w).Encode(map[string]string{
						"code":    "internal_error",
						"message": "internal error",
					})
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}

// wideEventMiddleware emits a canonical log line per request and propagates X-Request-ID.
func wideEventMiddleware(logger *zap.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			// chi.middleware.RequestID already placed request_id in context
			requestID := chiMiddleware.GetReqID(r.Context())

			// Set X-Request-ID in response header
			if requestID != "" {
				w.Header().Set("X-Request-ID", requestID)
			}

			// Per-request logger with request_id
			reqLogger := logger.With(zap.String("request_id", requestID))
			ctx := logpkg.ContextWithLogger(r.Context(), reqLogger)

			ww := chiMiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r.WithContext(ctx))

			// Canonical log line, one per request
			reqLogger.Info("http_request",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", ww.Status()),
				zap.Duration("latency", time.Since(start)),
				zap.String("ip", r.RemoteAddr),
				zap.Int64("content_length", r.ContentLength),
				zap.String("user_agent", r.UserAgent()),
				zap.Int("response_bytes", ww.BytesWritten()),
			)
		})
	}
}
