package main

import (
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"go.uber.org/zap"

	"github.com/jeovahfialho/stock-dashboard/internal/api"
	"github.com/jeovahfialho/stock-dashboard/internal/config"
	"github.com/jeovahfialho/stock-dashboard/internal/service"
	"github.com/jeovahfialho/stock-dashboard/internal/storage"
	"github.com/jeovahfialho/stock-dashboard/internal/storage/cache"
	pkglogger "github.com/jeovahfialho/stock-dashboard/pkg/logger"
)

// @title Stock Dashboard API
// @version 1.0
// @description API somente leitura de snapshots diários de ações

// @BasePath /api
// @schemes http https
func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Erro de configuração: %v\n", err)
		os.Exit(1)
	}

	if err := pkglogger.Init(cfg.LogLevel, cfg.Development(), cfg.LogFile); err != nil {
		fmt.Fprintf(os.Stderr, "Erro ao inicializar logger: %v\n", err)
		os.Exit(1)
	}
	defer pkglogger.Close()

	store, err := storage.Open(cfg)
	if err != nil {
		var cfgErr *config.ConfigurationError
		if errors.As(err, &cfgErr) {
			pkglogger.Fatal("configuração inválida", zap.Error(err))
		}
		pkglogger.Fatal("erro ao conectar ao banco", zap.Error(err))
	}
	defer store.Close()
	pkglogger.Info("✅ Conectado ao banco", zap.String("table", cfg.StoreTable))

	rateLimit := api.RateLimitConfig{
		Max:        cfg.RateLimitMax,
		Expiration: cfg.RateLimitWindow,
	}

	// handler recebe interface nil quando o Redis está ausente
	var cacheCheck api.HealthChecker
	if redisStorage := connectRedis(cfg); redisStorage != nil {
		defer redisStorage.Close()
		rateLimit.Storage = redisStorage
		cacheCheck = redisStorage
	}

	stockService := service.NewStockService(store, cfg.DefaultLimit, cfg.MaxLimit)
	handler := api.NewHandler(stockService, cacheCheck)

	app := fiber.New(fiber.Config{
		Prefork:                 false,
		ServerHeader:            "Stock-Dashboard",
		AppName:                 "Stock Dashboard v" + api.Version,
		ReadTimeout:             cfg.APIReadTimeout,
		WriteTimeout:            cfg.APIWriteTimeout,
		IdleTimeout:             120 * time.Second,
		ReadBufferSize:          8192,
		WriteBufferSize:         8192,
		ProxyHeader:             fiber.HeaderXForwardedFor,
		EnableTrustedProxyCheck: true,
		BodyLimit:               1 * 1024 * 1024,
	})

	// Middleware
	app.Use(recover.New())
	app.Use(logger.New(logger.Config{
		Format: "[${time}] ${status} - ${latency} ${method} ${path} ${reqHeader:X-Request-ID}\n",
	}))
	app.Use(compress.New(compress.Config{
		Level: compress.LevelBestSpeed,
	}))
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,HEAD,OPTIONS",
		AllowHeaders: "Origin,Content-Type,Accept,X-Request-ID",
	}))

	api.SetupRoutes(app, handler, api.RouteOptions{
		RateLimit: rateLimit,
		Metrics:   cfg.MetricsEnabled,
	})

	// Graceful shutdown
	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
		<-sigChan

		pkglogger.Info("encerrando servidor")
		if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
			pkglogger.Error("erro no shutdown", zap.Error(err))
		}
	}()

	addr := fmt.Sprintf("%s:%s", cfg.APIHost, cfg.APIPort)
	pkglogger.Info("iniciando servidor", zap.String("addr", addr))

	if err := app.Listen(addr); err != nil {
		pkglogger.Fatal("erro no servidor", zap.Error(err))
	}
}

func connectRedis(cfg *config.Config) *cache.RedisStorage {
	if cfg.RedisURL == "" {
		pkglogger.Info("REDIS_URL vazio, rate limit em memória")
		return nil
	}

	redisStorage, err := cache.NewRedisStorage(cfg.RedisURL, cache.DefaultPrefix)
	if err != nil {
		pkglogger.Warn("⚠️ Redis não disponível (continuando com rate limit em memória)", zap.Error(err))
		return nil
	}

	pkglogger.Info("✅ Conectado ao Redis")
	return redisStorage
}
