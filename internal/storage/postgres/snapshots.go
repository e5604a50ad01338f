package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jeovahfialho/stock-dashboard/internal/domain"
	"github.com/jeovahfialho/stock-dashboard/pkg/metrics"
)

// SnapshotStore executa domain.Query como SQL sobre a tabela de snapshots.
type SnapshotStore struct {
	db    *DB
	table string
}

func NewSnapshotStore(db *DB, table string) *SnapshotStore {
	return &SnapshotStore{db: db, table: table}
}

func (s *SnapshotStore) Select(ctx context.Context, q domain.Query) ([]domain.Snapshot, error) {
	query, args, err := buildSelect(s.table, q)
	if err != nil {
		return nil, err
	}

	rows, err := s.db.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("erro ao executar query: %w", err)
	}
	defer rows.Close()

	columns := q.SelectedColumns()
	snapshots := make([]domain.Snapshot, 0)
	for rows.Next() {
		var snapshot domain.Snapshot
		targets, err := snapshot.FieldPointers(columns)
		if err != nil {
			return nil, err
		}
		if err := rows.Scan(targets...); err != nil {
			return nil, fmt.Errorf("erro ao escanear linha: %w", err)
		}
		snapshots = append(snapshots, snapshot)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("erro ao iterar resultados: %w", err)
	}

	return snapshots, nil
}

func (s *SnapshotStore) HealthCheck(ctx context.Context) error {
	if err := s.db.HealthCheck(ctx); err != nil {
		return err
	}

	stat := s.db.Stats()
	metrics.RecordPoolStats(stat.TotalConns(), stat.IdleConns(), stat.AcquiredConns())
	return nil
}

func (s *SnapshotStore) Close() {
	s.db.Close()
}

func buildSelect(table string, q domain.Query) (string, []interface{}, error) {
	if err := q.Validate(); err != nil {
		return "", nil, err
	}

	columns := q.SelectedColumns()
	quoted := make([]string, len(columns))
	for i, col := range columns {
		quoted[i] = pgx.Identifier{col}.Sanitize()
	}

	var sb strings.Builder
	sb.WriteString("SELECT ")
	if q.Distinct {
		sb.WriteString("DISTINCT ")
	}
	sb.WriteString(strings.Join(quoted, ", "))
	sb.WriteString(" FROM ")
	sb.WriteString(pgx.Identifier(strings.Split(table, ".")).Sanitize())

	args := []interface{}{}
	argCount := 0

	if q.Date != nil {
		argCount++
		sb.WriteString(fmt.Sprintf(" WHERE %s = $%d::date", pgx.Identifier{domain.ColumnUpdateDate}.Sanitize(), argCount))
		args = append(args, q.Date.String())
	}

	if len(q.Orders) > 0 {
		orders := make([]string, len(q.Orders))
		for i, o := range q.Orders {
			dir := "ASC"
			if o.Desc {
				dir = "DESC"
			}
			orders[i] = fmt.Sprintf("%s %s NULLS LAST", pgx.Identifier{o.Column}.Sanitize(), dir)
		}
		sb.WriteString(" ORDER BY ")
		sb.WriteString(strings.Join(orders, ", "))
	}

	if q.Limit > 0 {
		argCount++
		sb.WriteString(fmt.Sprintf(" LIMIT $%d", argCount))
		args = append(args, q.Limit)
	}

	return sb.String(), args, nil
}
