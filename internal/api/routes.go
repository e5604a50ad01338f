package api

import (
	"github.com/gofiber/adaptor/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/swagger"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	_ "github.com/jeovahfialho/stock-dashboard/docs"
)

type RouteOptions struct {
	RateLimit RateLimitConfig
	Metrics   bool
}

func SetupRoutes(app *fiber.App, handler *Handler, opts RouteOptions) {
	// Global middlewares
	app.Use(RequestID())
	app.Use(ErrorHandler())

	// Health checks (sem rate limiting)
	app.Get("/health", handler.HealthCheck)
	app.Get("/ready", handler.ReadinessCheck)

	if opts.Metrics {
		app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))
	}

	app.Get("/swagger/*", swagger.HandlerDefault)

	app.Get("/", handler.Dashboard)

	// API somente leitura
	api := app.Group("/api")
	api.Use(ReadOnly())
	api.Use(RateLimiter(opts.RateLimit))
	api.Use(PrometheusMiddleware())

	api.Get("/stocks", handler.GetStocks)
	api.Get("/dates", handler.GetDates)
	api.Get("/stats", handler.GetStats)
}
