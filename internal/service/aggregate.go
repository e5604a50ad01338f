package service

import (
	"github.com/jeovahfialho/stock-dashboard/internal/domain"
	"github.com/shopspring/decimal"
)

// Aggregate calcula as estatísticas de uma lista de snapshots.
// latest_change_pct nulo conta como zero na média e não entra em positivos nem negativos.
func Aggregate(records []domain.Snapshot) domain.Stats {
	stats := domain.Stats{
		TotalCount:   len(records),
		AvgChangePct: decimal.Zero,
	}
	if stats.TotalCount == 0 {
		return stats
	}

	sum := decimal.Zero
	for _, r := range records {
		pct := r.ChangePct()
		switch pct.Sign() {
		case 1:
			stats.PositiveCount++
		case -1:
			stats.NegativeCount++
		}
		sum = sum.Add(pct)
	}

	stats.AvgChangePct = sum.Div(decimal.NewFromInt(int64(stats.TotalCount))).Round(2)
	return stats
}
