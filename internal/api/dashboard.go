package api

import (
	"bytes"
	_ "embed"
	"html/template"
	"net/url"
	"sort"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/jeovahfialho/stock-dashboard/internal/domain"
	"github.com/jeovahfialho/stock-dashboard/pkg/logger"
	"github.com/jeovahfialho/stock-dashboard/pkg/metrics"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

//go:embed templates/dashboard.html
var dashboardHTML string

var dashboardTemplate = template.Must(template.New("dashboard").Funcs(template.FuncMap{
	"num":         formatNumber,
	"pct":         formatPercent,
	"fixed":       func(d decimal.Decimal, places int32) string { return d.StringFixed(places) },
	"changeClass": changeClass,
	"signClass":   func(d decimal.Decimal) string { return signClass(d.Sign()) },
}).Parse(dashboardHTML))

type dashboardPage struct {
	Dates       []string
	Selected    string
	Stocks      []domain.Snapshot
	Stats       *domain.Stats
	Error       string
	Sort        string
	Desc        bool
	GeneratedAt time.Time
}

// SortURL alterna a direção quando a coluna já é a ordenação atual.
func (p dashboardPage) SortURL(column string) string {
	q := url.Values{}
	if p.Selected != "" {
		q.Set("date", p.Selected)
	}
	q.Set("sort", column)

	order := "desc"
	if column == p.Sort && p.Desc {
		order = "asc"
	}
	q.Set("order", order)

	return "/?" + q.Encode()
}

// Dashboard renderiza a página HTML. Sem date, mostra a data mais recente.
func (h *Handler) Dashboard(c *fiber.Ctx) error {
	ctx := c.UserContext()
	page := dashboardPage{
		Sort:        c.Query("sort"),
		Desc:        c.Query("order", "desc") != "asc",
		GeneratedAt: time.Now(),
	}

	date, err := parseDateQuery(c)
	if err != nil {
		page.Error = err.Error()
		return render(c, fiber.StatusBadRequest, page)
	}

	dates, err := h.stocks.GetAvailableDates(ctx)
	if err != nil {
		logger.WithContext(ctx).Error("erro ao carregar painel", zap.Error(err))
		page.Error = err.Error()
		return render(c, fiber.StatusInternalServerError, page)
	}
	page.Dates = dates

	if date == nil && len(dates) > 0 {
		if latest, err := domain.ParseDate(dates[0]); err == nil {
			date = &latest
		}
	}
	if date != nil {
		page.Selected = date.String()
	}

	var (
		rows  []domain.Snapshot
		stats domain.Stats
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		if date != nil {
			rows, err = h.stocks.GetStocksByDate(gctx, *date)
		} else {
			rows, err = h.stocks.GetLatestStocks(gctx, 0)
		}
		return err
	})
	g.Go(func() error {
		var err error
		stats, err = h.stocks.GetStockStats(gctx, date)
		return err
	})

	if err := g.Wait(); err != nil {
		logger.WithContext(ctx).Error("erro ao carregar painel", zap.Error(err))
		page.Error = err.Error()
		return render(c, fiber.StatusInternalServerError, page)
	}

	sortSnapshots(rows, page.Sort, page.Desc)
	page.Stocks = rows
	page.Stats = &stats

	metrics.RecordSnapshotsServed("dashboard", len(rows))
	return render(c, fiber.StatusOK, page)
}

func render(c *fiber.Ctx, status int, page dashboardPage) error {
	var buf bytes.Buffer
	if err := dashboardTemplate.Execute(&buf, page); err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}

	c.Type("html", "utf-8")
	return c.Status(status).Send(buf.Bytes())
}

var sortableColumns = map[string]func(domain.Snapshot) decimal.NullDecimal{
	"latest_price":       func(s domain.Snapshot) decimal.NullDecimal { return s.LatestPrice },
	"latest_change_pct":  func(s domain.Snapshot) decimal.NullDecimal { return s.LatestChangePct },
	"auction_change_pct": func(s domain.Snapshot) decimal.NullDecimal { return s.AuctionChangePct },
	"pe_ttm":             func(s domain.Snapshot) decimal.NullDecimal { return s.PETTM },
	"dde_large_order":    func(s domain.Snapshot) decimal.NullDecimal { return s.DDELargeOrder },
	"volume_ratio":       func(s domain.Snapshot) decimal.NullDecimal { return s.VolumeRatio },
	"code": func(s domain.Snapshot) decimal.NullDecimal {
		return decimal.NewNullDecimal(decimal.NewFromInt(s.Code))
	},
}

// sortSnapshots reordena no lugar. Coluna desconhecida mantém a ordem do banco; nulos ficam no fim.
func sortSnapshots(rows []domain.Snapshot, column string, desc bool) {
	value, ok := sortableColumns[column]
	if !ok {
		return
	}

	sort.SliceStable(rows, func(i, j int) bool {
		a, b := value(rows[i]), value(rows[j])
		switch {
		case !a.Valid:
			return false
		case !b.Valid:
			return true
		case desc:
			return a.Decimal.GreaterThan(b.Decimal)
		default:
			return a.Decimal.LessThan(b.Decimal)
		}
	})
}

func formatNumber(d decimal.NullDecimal, places int32) string {
	if !d.Valid {
		return "-"
	}
	return d.Decimal.StringFixed(places)
}

func formatPercent(d decimal.NullDecimal) string {
	if !d.Valid {
		return "-"
	}
	return d.Decimal.StringFixed(2) + "%"
}

func changeClass(d decimal.NullDecimal) string {
	if !d.Valid {
		return "neutral"
	}
	return signClass(d.Decimal.Sign())
}

func signClass(sign int) string {
	switch {
	case sign > 0:
		return "positive"
	case sign < 0:
		return "negative"
	}
	return "neutral"
}
