package service

import (
	"context"

	"github.com/jeovahfialho/stock-dashboard/internal/domain"
	"github.com/jeovahfialho/stock-dashboard/pkg/logger"
	"github.com/jeovahfialho/stock-dashboard/pkg/metrics"
	"go.uber.org/zap"
)

type StockService struct {
	store        domain.SnapshotStore
	defaultLimit int
	maxLimit     int
}

func NewStockService(store domain.SnapshotStore, defaultLimit, maxLimit int) *StockService {
	if defaultLimit <= 0 {
		defaultLimit = 100
	}
	if maxLimit < defaultLimit {
		maxLimit = defaultLimit
	}
	return &StockService{
		store:        store,
		defaultLimit: defaultLimit,
		maxLimit:     maxLimit,
	}
}

func (s *StockService) ClampLimit(limit int) int {
	if limit <= 0 || limit > s.maxLimit {
		return s.defaultLimit
	}
	return limit
}

// GetLatestStocks devolve até limit snapshots por update_date desc e depois
// latest_change_pct desc. Se a data mais recente tiver menos linhas que o
// limite, o resultado inclui linhas de datas anteriores.
func (s *StockService) GetLatestStocks(ctx context.Context, limit int) ([]domain.Snapshot, error) {
	limit = s.ClampLimit(limit)

	rows, err := s.query(ctx, "latest_stocks", "erro ao buscar snapshots recentes", domain.Query{
		Orders: []domain.Order{
			domain.Desc(domain.ColumnUpdateDate),
			domain.Desc(domain.ColumnLatestChangePct),
		},
		Limit: limit,
	})
	if err != nil {
		return nil, err
	}

	logger.WithContext(ctx).Debug("snapshots recentes recuperados",
		zap.Int("limit", limit),
		zap.Int("records", len(rows)))

	return rows, nil
}

func (s *StockService) GetStocksByDate(ctx context.Context, date domain.Date) ([]domain.Snapshot, error) {
	rows, err := s.query(ctx, "stocks_by_date", "erro ao buscar snapshots por data", domain.Query{
		Date:   &date,
		Orders: []domain.Order{domain.Desc(domain.ColumnLatestChangePct)},
	})
	if err != nil {
		return nil, err
	}

	logger.WithContext(ctx).Debug("snapshots por data recuperados",
		zap.String("date", date.String()),
		zap.Int("records", len(rows)))

	return rows, nil
}

// GetAvailableDates devolve as datas distintas, da mais recente para a mais antiga.
func (s *StockService) GetAvailableDates(ctx context.Context) ([]string, error) {
	rows, err := s.query(ctx, "available_dates", "erro ao buscar datas", domain.Query{
		Columns:  []string{domain.ColumnUpdateDate},
		Orders:   []domain.Order{domain.Desc(domain.ColumnUpdateDate)},
		Distinct: true,
	})
	if err != nil {
		return nil, err
	}

	dates := make([]string, 0, len(rows))
	seen := make(map[string]struct{}, len(rows))
	for _, row := range rows {
		d := row.UpdateDate.String()
		if _, ok := seen[d]; ok {
			continue
		}
		seen[d] = struct{}{}
		dates = append(dates, d)
	}

	return dates, nil
}

// GetStockStats calcula as estatísticas de uma data. Sem data, usa a mais recente.
func (s *StockService) GetStockStats(ctx context.Context, date *domain.Date) (domain.Stats, error) {
	metrics.RecordStatsRequest(date != nil)

	target := date
	if target == nil {
		latest, err := s.latestDate(ctx)
		if err != nil {
			return domain.Stats{}, err
		}
		target = latest
	}

	// target nil aqui significa tabela sem datas: agrega sem filtro.
	rows, err := s.query(ctx, "stock_stats", "erro ao buscar estatísticas", domain.Query{
		Columns: []string{domain.ColumnLatestChangePct, domain.ColumnLatestPrice},
		Date:    target,
	})
	if err != nil {
		return domain.Stats{}, err
	}

	stats := Aggregate(rows)

	logger.WithContext(ctx).Debug("estatísticas calculadas",
		zap.String("date", dateLabel(target)),
		zap.Int("total", stats.TotalCount),
		zap.String("avg_change_pct", stats.AvgChangePct.String()))

	return stats, nil
}

func (s *StockService) latestDate(ctx context.Context) (*domain.Date, error) {
	rows, err := s.query(ctx, "latest_date", "erro ao buscar data mais recente", domain.Query{
		Columns: []string{domain.ColumnUpdateDate},
		Orders:  []domain.Order{domain.Desc(domain.ColumnUpdateDate)},
		Limit:   1,
	})
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 || rows[0].UpdateDate.IsZero() {
		return nil, nil
	}
	return &rows[0].UpdateDate, nil
}

func (s *StockService) HealthCheck(ctx context.Context) error {
	return s.store.HealthCheck(ctx)
}

func (s *StockService) query(ctx context.Context, queryType, op string, q domain.Query) ([]domain.Snapshot, error) {
	timer := metrics.NewTimer()
	rows, err := s.store.Select(ctx, q)
	metrics.RecordStoreQuery(queryType, err, timer.Elapsed())

	if err != nil {
		logger.WithContext(ctx).Error("falha na consulta ao banco",
			zap.String("query_type", queryType),
			zap.Error(err))
		return nil, domain.NewQueryError(op, err)
	}

	if rows == nil {
		rows = make([]domain.Snapshot, 0)
	}
	return rows, nil
}

func dateLabel(d *domain.Date) string {
	if d == nil {
		return "todas"
	}
	return d.String()
}
