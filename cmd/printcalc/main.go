package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"printcalc/internal/app"
	"printcalc/internal/config"
	"printcalc/pkg/api"
	"printcalc/pkg/logger"
	"printcalc/pkg/redis"
)

// ENTRY POINT

func main() {
	// Локальный .env, если есть
	_ = godotenv.Load()

	// Инициализация логгера
	zapLogger, err := logger.New()
	if err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
	defer zapLogger.Sync()

	// Загрузка конфигурации
	cfg, err := config.Load()
	if err != nil {
		zapLogger.Fatal("Failed to load config", zap.Error(err))
	}

	// Инициализация Redis клиента
	redisClient := redis.New(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB, cfg.RedisTTL)
	defer redisClient.Close()

	ctx, cancel := signal.NotifyContext(
		context.Background(),
		os.Interrupt,
		syscall.SIGTERM,
	)
	defer cancel()

	// Redis поднимается дольше нас, ждём с ретраями
	pingBackoff := backoff.NewExponentialBackOff()
	pingBackoff.MaxElapsedTime = 30 * time.Second
	err = backoff.RetryNotify(
		func() error { return redisClient.Ping(ctx) },
		backoff.WithContext(pingBackoff, ctx),
		func(err error, next time.Duration) {
			zapLogger.Warn("Redis not ready, retrying",
				zap.Duration("retry_in", next),
				zap.Error(err))
		},
	)
	if err != nil {
		zapLogger.Fatal("Failed to connect to Redis", zap.Error(err))
	}

	// Инициализация API клиента
	apiClient := api.NewClient(
		cfg.BaseURL,
		cfg.CSRFToken,
		cfg.SessionCookie,
		cfg.HTTPRequestTimeout,
		zapLogger,
	)

	// Сборка движка калькулятора
	engine := app.New(ctx, cfg, apiClient, redisClient, zapLogger)

	if err := engine.Start(ctx); err != nil {
		zapLogger.Fatal("Engine stopped with error", zap.Error(err))
	}

	zapLogger.Info("Engine shutdown gracefully")
}
