package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/todolist/todo-service/handlers"
	"github.com/todolist/todo-service/internal/config"
	"github.com/todolist/todo-service/internal/todo/handler"
	"github.com/todolist/todo-service/internal/todo/service"
	"github.com/todolist/todo-service/internal/todo/store"
	"github.com/todolist/todo-service/pkg/logger"
	"github.com/todolist/todo-service/pkg/metrics"
	"github.com/todolist/todo-service/pkg/middleware"
)

var startTime = time.Now()

func main() {
	// initialize logging (LOG_LEVEL env: debug|info|warn|error|fatal)
	logger.Init(os.Getenv("LOG_LEVEL"))

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Fatalf("failed to load config: %v", err)
	}
	logger.Init(cfg.LogLevel)
	if cfg.Server.Environment != "development" {
		logger.SetOutput(os.Stdout, false)
		gin.SetMode(gin.ReleaseMode)
	}
	logger.Debugf("startup: LOG_LEVEL=%s", logger.LevelString())
	logger.Infof("config loaded: store=%s rate_limit=%v env=%s", cfg.Store.Backend, cfg.RateLimit.Enabled, cfg.Server.Environment)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Redis serves both the redis store backend and the distributed rate limiter.
	redisClient := connectRedis(ctx, cfg.Redis)
	if redisClient != nil {
		defer redisClient.Close()
	}

	st, backend, closeStore, err := openStore(ctx, cfg, redisClient)
	if err != nil {
		if !cfg.Store.FallbackToMemory {
			logger.Fatalf("failed to open %s store: %v", cfg.Store.Backend, err)
		}
		logger.Warnf("cannot open %s store (%v); using memory-backed store", cfg.Store.Backend, err)
		st, backend, closeStore = store.NewMemoryStore(), config.BackendMemory, func() {}
	}
	defer closeStore()
	st = store.Instrument(st, backend)
	svc := service.New(st)

	r := gin.New()
	r.Use(gin.Logger(), gin.Recovery())
	r.Use(middleware.CORS(cfg.CORS.AllowOrigins))
	if cfg.RateLimit.Enabled {
		opts := middleware.RateLimitOptions{
			RPS:    cfg.RateLimit.RPS,
			Burst:  cfg.RateLimit.Burst,
			Window: time.Duration(cfg.RateLimit.WindowSeconds) * time.Second,
			Exempt: []string{"/health", "/ready", "/metrics"},
		}
		if cfg.RateLimit.UseRedis {
			if redisClient == nil {
				logger.Warnf("redis unavailable; rate limiting falls back to in-memory buckets")
			}
			r.Use(middleware.RedisRateLimit(redisClient, opts))
		} else {
			r.Use(middleware.RateLimit(opts))
		}
	}

	handlers.RegisterHealth(r, startTime, map[string]handlers.Probe{
		"store": func(ctx context.Context) error {
			_, err := st.ReadAll(ctx)
			return err
		},
	})
	handlers.RegisterSwagger(r)
	handler.RegisterTodoRoutes(r, svc)

	metrics.RegisterCollectors(prometheus.DefaultRegisterer)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	srv := &http.Server{
		Addr:         cfg.Server.Addr(),
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Infof("todo service listening on %s (store=%s)", srv.Addr, backend)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		logger.Errorf("server failed: %v", err)
	case <-ctx.Done():
		logger.Infof("shutdown signal received")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Errorf("graceful shutdown failed: %v", err)
	}
	logger.Infof("todo service stopped")
}
