package api

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/jeovahfialho/stock-dashboard/internal/domain"
	"github.com/jeovahfialho/stock-dashboard/internal/service"
	"github.com/jeovahfialho/stock-dashboard/pkg/logger"
	"github.com/jeovahfialho/stock-dashboard/pkg/metrics"
	"go.uber.org/zap"
)

const Version = "1.0.0"

// HealthChecker é qualquer dependência que o /ready consegue pingar.
type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}

type Handler struct {
	stocks *service.StockService
	cache  HealthChecker
}

// NewHandler recebe cache nil quando o Redis não está configurado.
func NewHandler(stocks *service.StockService, cache HealthChecker) *Handler {
	return &Handler{
		stocks: stocks,
		cache:  cache,
	}
}

// GetStocks godoc
// @Summary Snapshots de ações
// @Description Com date, todas as ações da data por variação desc. Sem date, as mais recentes até limit.
// @Tags stocks
// @Produce json
// @Param date query string false "Data (YYYY-MM-DD)"
// @Param limit query int false "Máximo de linhas quando date é omitido"
// @Success 200 {object} StocksResponse
// @Failure 400 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /stocks [get]
func (h *Handler) GetStocks(c *fiber.Ctx) error {
	ctx := c.UserContext()

	date, err := parseDateQuery(c)
	if err != nil {
		return fail(c, fiber.StatusBadRequest, err)
	}

	var rows []domain.Snapshot
	if date != nil {
		rows, err = h.stocks.GetStocksByDate(ctx, *date)
	} else {
		rows, err = h.stocks.GetLatestStocks(ctx, c.QueryInt("limit", 0))
	}
	if err != nil {
		logger.WithContext(ctx).Error("erro ao buscar snapshots", zap.Error(err))
		return fail(c, fiber.StatusInternalServerError, err)
	}

	metrics.RecordSnapshotsServed("stocks", len(rows))
	return ok(c, rows)
}

// GetDates godoc
// @Summary Datas disponíveis
// @Tags stocks
// @Produce json
// @Success 200 {object} DatesResponse
// @Failure 500 {object} ErrorResponse
// @Router /dates [get]
func (h *Handler) GetDates(c *fiber.Ctx) error {
	ctx := c.UserContext()

	dates, err := h.stocks.GetAvailableDates(ctx)
	if err != nil {
		logger.WithContext(ctx).Error("erro ao buscar datas", zap.Error(err))
		return fail(c, fiber.StatusInternalServerError, err)
	}

	return ok(c, dates)
}

// GetStats godoc
// @Summary Estatísticas do pregão
// @Description Sem date, usa a data mais recente.
// @Tags stocks
// @Produce json
// @Param date query string false "Data (YYYY-MM-DD)"
// @Success 200 {object} StatsResponse
// @Failure 400 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /stats [get]
func (h *Handler) GetStats(c *fiber.Ctx) error {
	ctx := c.UserContext()

	date, err := parseDateQuery(c)
	if err != nil {
		return fail(c, fiber.StatusBadRequest, err)
	}

	stats, err := h.stocks.GetStockStats(ctx, date)
	if err != nil {
		logger.WithContext(ctx).Error("erro ao calcular estatísticas", zap.Error(err))
		return fail(c, fiber.StatusInternalServerError, err)
	}

	return ok(c, stats)
}

func (h *Handler) HealthCheck(c *fiber.Ctx) error {
	return c.JSON(HealthResponse{
		Status:    "healthy",
		Version:   Version,
		Timestamp: time.Now(),
	})
}

func (h *Handler) ReadinessCheck(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.UserContext(), 5*time.Second)
	defer cancel()

	services := map[string]ServiceHealth{
		"store": check(ctx, h.stocks),
	}
	if h.cache != nil {
		services["redis"] = check(ctx, h.cache)
	}

	status := "ready"
	for _, svc := range services {
		if svc.Status != "healthy" {
			status = "not_ready"
			break
		}
	}

	response := HealthResponse{
		Status:    status,
		Version:   Version,
		Timestamp: time.Now(),
		Services:  services,
	}

	if status != "ready" {
		return c.Status(fiber.StatusServiceUnavailable).JSON(response)
	}

	return c.JSON(response)
}

func check(ctx context.Context, hc HealthChecker) ServiceHealth {
	start := time.Now()
	if err := hc.HealthCheck(ctx); err != nil {
		return ServiceHealth{
			Status: "unhealthy",
			Error:  err.Error(),
		}
	}
	return ServiceHealth{
		Status:  "healthy",
		Latency: time.Since(start).String(),
	}
}

func parseDateQuery(c *fiber.Ctx) (*domain.Date, error) {
	raw := c.Query("date")
	if raw == "" {
		return nil, nil
	}
	date, err := domain.ParseDate(raw)
	if err != nil {
		return nil, err
	}
	return &date, nil
}

func ok(c *fiber.Ctx, data interface{}) error {
	return c.JSON(Response{Data: data})
}

func fail(c *fiber.Ctx, status int, err error) error {
	msg := err.Error()
	return c.Status(status).JSON(Response{Error: &msg})
}
