package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/yourusername/checkpoint/api"
	"github.com/yourusername/checkpoint/internal/config"
	"github.com/yourusername/checkpoint/metrics"
	"github.com/yourusername/checkpoint/pkg/checkpoint"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	cfg, err := config.Load()
	if err != nil {
		logger.Error("config load failed", slog.Any("error", err))
		os.Exit(1)
	}

	limits, err := cfg.Limits()
	if err != nil {
		logger.Error("invalid limit policy", slog.Any("error", err))
		os.Exit(1)
	}

	limiter, err := checkpoint.New(limits)
	if err != nil {
		logger.Error("limiter init failed", slog.Any("error", err))
		os.Exit(1)
	}

	memStats := metrics.NewMemory()
	recorder := metrics.Recorder(memStats)

	if cfg.RedisAddr != "" {
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		redisStats := metrics.NewRedis(client, metrics.WithTrackKeys(cfg.RedisTrackKeys))

		pingCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		err := redisStats.Ping(pingCtx)
		cancel()
		if err != nil {
			logger.Error("redis unreachable", slog.String("addr", cfg.RedisAddr), slog.Any("error", err))
			os.Exit(1)
		}
		recorder = metrics.Multi(memStats, redisStats)
		logger.Info("redis stats sink enabled", slog.String("addr", cfg.RedisAddr))
	}

	handler := api.NewHandler(limiter, recorder, logger, cfg.TrustProxyHeaders)
	router := api.NewRouter(handler, api.NewMetricsHandler(memStats, limiter))

	httpServer := &http.Server{
		Addr:              cfg.Addr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		logger.Info("listening",
			slog.String("addr", cfg.Addr),
			slog.Int64("capacity", limits.Capacity),
			slog.Float64("refill_per_sec", limits.RefillPerSecond()),
		)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", slog.Any("error", err))
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown error", slog.Any("error", err))
	}
}
