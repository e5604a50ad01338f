package export

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/jeovahfialho/stock-dashboard/internal/domain"
	"github.com/jeovahfialho/stock-dashboard/pkg/logger"
	"github.com/jeovahfialho/stock-dashboard/pkg/metrics"
	"go.uber.org/zap"
)

// Fetcher é a parte do StockService que a exportação usa.
type Fetcher interface {
	GetStocksByDate(ctx context.Context, date domain.Date) ([]domain.Snapshot, error)
}

type Exporter struct {
	fetcher Fetcher
	saver   Saver
	dir     string
	workers int
}

func NewExporter(fetcher Fetcher, saver Saver, dir string, workers int) *Exporter {
	return &Exporter{
		fetcher: fetcher,
		saver:   saver,
		dir:     dir,
		workers: workers,
	}
}

// Path devolve o arquivo de destino de uma data.
func (e *Exporter) Path(date domain.Date) string {
	return filepath.Join(e.dir, fmt.Sprintf("stocks_%s.%s", date, e.saver.Extension()))
}

// Export grava um arquivo por data. Falhas individuais não interrompem as demais;
// o erro devolvido junta todas elas.
func (e *Exporter) Export(ctx context.Context, dates []domain.Date) ([]Result, error) {
	if err := os.MkdirAll(e.dir, 0o755); err != nil {
		return nil, fmt.Errorf("erro ao criar diretório de saída: %w", err)
	}

	// datas repetidas gravariam o mesmo arquivo em paralelo
	dates = uniqueDates(dates)

	results := make(chan Result, len(dates))
	pool := NewWorkerPool(e.workers, e.exportDate)
	pool.Start(ctx)

	submitted := 0
	for _, date := range dates {
		if !pool.Submit(ctx, Job{Date: date, Result: results}) {
			break
		}
		submitted++
	}

	pool.Stop()
	close(results)

	out := make([]Result, 0, len(dates))
	done := make(map[string]struct{}, len(dates))
	for r := range results {
		out = append(out, r)
		done[r.Date.String()] = struct{}{}
	}

	// jobs que o cancelamento impediu de rodar
	for _, date := range dates {
		if _, ok := done[date.String()]; !ok {
			err := context.Cause(ctx)
			if err == nil {
				err = errors.New("exportação não executada")
			}
			out = append(out, Result{Date: date, Error: err})
		}
	}

	sort.Slice(out, func(i, j int) bool {
		return out[i].Date.After(out[j].Date.Time)
	})

	var errs []error
	for _, r := range out {
		if r.Error != nil {
			errs = append(errs, fmt.Errorf("%s: %w", r.Date, r.Error))
		}
	}
	if len(errs) > 0 {
		return out, fmt.Errorf("%d de %d exportações falharam: %w", len(errs), len(dates), errors.Join(errs...))
	}

	logger.Info("exportação concluída",
		zap.Int("files", submitted),
		zap.String("format", e.saver.Extension()),
		zap.String("dir", e.dir))

	return out, nil
}

func (e *Exporter) exportDate(ctx context.Context, date domain.Date) Result {
	result := Result{Date: date, Path: e.Path(date)}
	format := e.saver.Extension()

	timer := metrics.NewTimer()
	defer timer.ObserveDuration(metrics.ExportDuration.WithLabelValues(format))

	rows, err := e.fetcher.GetStocksByDate(ctx, date)
	if err != nil {
		result.Error = err
		metrics.RecordExport(format, 0, err)
		return result
	}

	result.Count = len(rows)
	result.Error = e.write(result.Path, rows)
	metrics.RecordExport(format, len(rows), result.Error)

	if result.Error != nil {
		logger.Error("erro ao exportar data",
			zap.String("date", date.String()),
			zap.Error(result.Error))
	}

	return result
}

func (e *Exporter) write(path string, rows []domain.Snapshot) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("erro ao criar arquivo: %w", err)
	}

	if err := e.saver.Save(f, rows); err != nil {
		f.Close()
		os.Remove(path)
		return fmt.Errorf("erro ao gravar %s: %w", filepath.Base(path), err)
	}

	return f.Close()
}

func uniqueDates(dates []domain.Date) []domain.Date {
	seen := make(map[string]struct{}, len(dates))
	out := make([]domain.Date, 0, len(dates))
	for _, d := range dates {
		if _, ok := seen[d.String()]; ok {
			continue
		}
		seen[d.String()] = struct{}{}
		out = append(out, d)
	}
	return out
}
