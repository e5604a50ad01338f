package api

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/google/uuid"
	"github.com/jeovahfialho/stock-dashboard/pkg/logger"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.uber.org/zap"
)

var (
	httpDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name: "http_duration_seconds",
		Help: "Duration of HTTP requests.",
	}, []string{"method", "route", "status_code"})

	httpRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Total number of HTTP requests.",
	}, []string{"method", "route", "status_code"})
)

func PrometheusMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()

		err := c.Next()

		status := strconv.Itoa(c.Response().StatusCode())
		route := c.Route().Path

		httpDuration.WithLabelValues(c.Method(), route, status).Observe(time.Since(start).Seconds())
		httpRequests.WithLabelValues(c.Method(), route, status).Inc()

		return err
	}
}

type RateLimitConfig struct {
	Max        int
	Expiration time.Duration
	// Storage nil mantém os contadores em memória.
	Storage fiber.Storage
}

func RateLimiter(cfg RateLimitConfig) fiber.Handler {
	if cfg.Max <= 0 {
		cfg.Max = 100
	}
	if cfg.Expiration <= 0 {
		cfg.Expiration = time.Minute
	}

	return limiter.New(limiter.Config{
		Max:               cfg.Max,
		Expiration:        cfg.Expiration,
		Storage:           cfg.Storage,
		LimiterMiddleware: limiter.SlidingWindow{},
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			return fail(c, fiber.StatusTooManyRequests, fiber.ErrTooManyRequests)
		},
	})
}

// ReadOnly responde 405 para qualquer método que não seja GET ou HEAD.
func ReadOnly() fiber.Handler {
	return func(c *fiber.Ctx) error {
		switch c.Method() {
		case fiber.MethodGet, fiber.MethodHead:
			return c.Next()
		}
		c.Set(fiber.HeaderAllow, "GET, HEAD")
		msg := "method not allowed"
		return c.Status(fiber.StatusMethodNotAllowed).JSON(Response{Error: &msg})
	}
}

func ErrorHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		err := c.Next()
		if err == nil {
			return nil
		}

		code := fiber.StatusInternalServerError
		if e, ok := err.(*fiber.Error); ok {
			code = e.Code
		}

		if code >= fiber.StatusInternalServerError {
			logger.WithContext(c.UserContext()).Error("erro não tratado",
				zap.String("path", c.Path()),
				zap.Error(err))
		}

		return fail(c, code, err)
	}
}

// RequestID propaga X-Request-ID para os logs via UserContext.
func RequestID() fiber.Handler {
	return func(c *fiber.Ctx) error {
		requestID := c.Get(fiber.HeaderXRequestID)
		if requestID == "" {
			requestID = uuid.NewString()
		}

		c.Set(fiber.HeaderXRequestID, requestID)
		c.Locals("requestID", requestID)
		c.SetUserContext(logger.ContextWithRequestID(c.UserContext(), requestID))

		return c.Next()
	}
}
