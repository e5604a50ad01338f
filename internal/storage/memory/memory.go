// Package memory implementa domain.SnapshotStore em memória, para testes e desenvolvimento local.
package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/jeovahfialho/stock-dashboard/internal/domain"
	"github.com/shopspring/decimal"
)

type Store struct {
	mu   sync.RWMutex
	rows []domain.Snapshot

	// Err, quando definido, é devolvido por todas as operações.
	Err error
}

func NewStore(rows ...domain.Snapshot) *Store {
	return &Store{rows: append([]domain.Snapshot(nil), rows...)}
}

func (s *Store) Add(rows ...domain.Snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rows = append(s.rows, rows...)
}

func (s *Store) Select(ctx context.Context, q domain.Query) ([]domain.Snapshot, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s.Err != nil {
		return nil, s.Err
	}
	if err := q.Validate(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	out := make([]domain.Snapshot, 0, len(s.rows))
	for _, row := range s.rows {
		if q.Date != nil && !row.UpdateDate.Equal(*q.Date) {
			continue
		}
		out = append(out, row)
	}
	s.mu.RUnlock()

	sort.SliceStable(out, func(i, j int) bool {
		for _, o := range q.Orders {
			if c := compare(out[i], out[j], o); c != 0 {
				return c < 0
			}
		}
		return false
	})

	if q.Limit > 0 && len(out) > q.Limit {
		out = out[:q.Limit]
	}
	return out, nil
}

// compare devolve -1 quando a deve vir antes de b. NULLs vão para o fim.
func compare(a, b domain.Snapshot, o domain.Order) int {
	switch o.Column {
	case domain.ColumnUpdateDate:
		return direction(compareDate(a.UpdateDate, b.UpdateDate), o.Desc)
	case domain.ColumnCode:
		return direction(compareInt(a.Code, b.Code), o.Desc)
	case domain.ColumnID:
		return direction(compareInt(a.ID, b.ID), o.Desc)
	case domain.ColumnLatestPrice:
		return compareNullable(a.LatestPrice, b.LatestPrice, o.Desc)
	case domain.ColumnLatestChangePct:
		return compareNullable(a.LatestChangePct, b.LatestChangePct, o.Desc)
	}
	return 0
}

func compareNullable(a, b decimal.NullDecimal, desc bool) int {
	switch {
	case !a.Valid && !b.Valid:
		return 0
	case !a.Valid:
		return 1
	case !b.Valid:
		return -1
	}
	return direction(a.Decimal.Cmp(b.Decimal), desc)
}

func compareDate(a, b domain.Date) int {
	switch {
	case a.Before(b.Time):
		return -1
	case a.After(b.Time):
		return 1
	}
	return 0
}

func compareInt(a, b int64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

func direction(c int, desc bool) int {
	if desc {
		return -c
	}
	return c
}

func (s *Store) HealthCheck(ctx context.Context) error {
	if s.Err != nil {
		return s.Err
	}
	return ctx.Err()
}

func (s *Store) Close() {}
