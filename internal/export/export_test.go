package export

import (
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/guregu/null/v6"
	"github.com/jeovahfialho/stock-dashboard/internal/domain"
	"github.com/jeovahfialho/stock-dashboard/internal/service"
	"github.com/jeovahfialho/stock-dashboard/internal/storage/memory"
	"github.com/parquet-go/parquet-go"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func sampleRows() []domain.Snapshot {
	return []domain.Snapshot{
		{
			ID:              1,
			Code:            1,
			StockName:       null.StringFrom("平安银行"),
			LatestPrice:     decimal.NewNullDecimal(decimal.RequireFromString("11.52")),
			LatestChangePct: decimal.NewNullDecimal(decimal.RequireFromString("-0.43")),
			ListingDays:     null.IntFrom(12000),
			UpdateDate:      domain.MustParseDate("2024-01-02"),
		},
		{
			ID:         2,
			Code:       600519,
			UpdateDate: domain.MustParseDate("2024-01-02"),
		},
	}
}

func indexOf(col string) int {
	for i, c := range domain.SnapshotColumns {
		if c == col {
			return i
		}
	}
	return -1
}

func TestNewSaver(t *testing.T) {
	for _, format := range append(Formats, "XLSX", " csv ") {
		s, err := NewSaver(format)
		require.NoError(t, err, format)
		assert.NotEmpty(t, s.Extension())
	}

	_, err := NewSaver("xml")
	assert.Error(t, err)
}

func TestCSVSaver(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, CSVSaver{}.Save(&buf, sampleRows()))

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3)

	assert.Equal(t, domain.SnapshotColumns, records[0])
	assert.Equal(t, "000001", records[1][indexOf("code")])
	assert.Equal(t, "平安银行", records[1][indexOf("stock_name")])
	assert.Equal(t, "-0.43", records[1][indexOf("latest_change_pct")])
	assert.Equal(t, "12000", records[1][indexOf("listing_days")])
	assert.Equal(t, "2024-01-02", records[1][indexOf("update_date")])
	assert.Equal(t, "", records[2][indexOf("latest_price")])
	assert.Equal(t, "", records[2][indexOf("created_at")])
}

func TestJSONSaver(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, JSONSaver{}.Save(&buf, sampleRows()))

	var rows []map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rows))
	require.Len(t, rows, 2)
	assert.Equal(t, 11.52, rows[0]["latest_price"])
	assert.Nil(t, rows[1]["latest_price"])
}

func TestParquetSaver(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, ParquetSaver{}.Save(&buf, sampleRows()))

	records, err := parquet.Read[Record](bytes.NewReader(buf.Bytes()), int64(buf.Len()))
	require.NoError(t, err)
	require.Len(t, records, 2)

	assert.Equal(t, "000001", records[0].Code)
	require.NotNil(t, records[0].LatestPrice)
	assert.InDelta(t, 11.52, *records[0].LatestPrice, 1e-9)
	require.NotNil(t, records[0].StockName)
	assert.Equal(t, "平安银行", *records[0].StockName)
	assert.Nil(t, records[1].LatestPrice)
	assert.Nil(t, records[1].CreatedAt)
	assert.Equal(t, "2024-01-02", records[1].UpdateDate)
}

func TestExcelSaver(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, ExcelSaver{}.Save(&buf, sampleRows()))

	wb, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer wb.Close()

	rows, err := wb.GetRows(excelSheet)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, "code", rows[0][indexOf("code")])
	assert.Equal(t, "000001", rows[1][indexOf("code")])
	assert.Equal(t, "11.52", rows[1][indexOf("latest_price")])
	assert.Equal(t, "600519", rows[2][indexOf("code")])

	panes, err := wb.GetPanes(excelSheet)
	require.NoError(t, err)
	assert.True(t, panes.Freeze)
	assert.Equal(t, 1, panes.YSplit)
}

func TestExporter(t *testing.T) {
	store := memory.NewStore(
		domain.Snapshot{ID: 1, Code: 1, UpdateDate: domain.MustParseDate("2024-01-01")},
		domain.Snapshot{ID: 2, Code: 2, UpdateDate: domain.MustParseDate("2024-01-02")},
		domain.Snapshot{ID: 3, Code: 3, UpdateDate: domain.MustParseDate("2024-01-02")},
	)
	svc := service.NewStockService(store, 100, 1000)
	dir := filepath.Join(t.TempDir(), "out")

	exporter := NewExporter(svc, CSVSaver{}, dir, 2)
	dates := []domain.Date{domain.MustParseDate("2024-01-01"), domain.MustParseDate("2024-01-02")}

	results, err := exporter.Export(context.Background(), dates)
	require.NoError(t, err)
	require.Len(t, results, 2)

	assert.Equal(t, "2024-01-02", results[0].Date.String())
	assert.Equal(t, 2, results[0].Count)
	assert.Equal(t, 1, results[1].Count)

	for _, r := range results {
		assert.Equal(t, exporter.Path(r.Date), r.Path)
		_, err := os.Stat(r.Path)
		assert.NoError(t, err)
	}
	assert.FileExists(t, filepath.Join(dir, "stocks_2024-01-02.csv"))
}

func TestExporterDuplicateDates(t *testing.T) {
	store := memory.NewStore(
		domain.Snapshot{ID: 1, Code: 1, UpdateDate: domain.MustParseDate("2024-01-02")},
		domain.Snapshot{ID: 2, Code: 2, UpdateDate: domain.MustParseDate("2024-01-02")},
	)
	svc := service.NewStockService(store, 100, 1000)

	exporter := NewExporter(svc, CSVSaver{}, t.TempDir(), 4)
	date := domain.MustParseDate("2024-01-02")

	results, err := exporter.Export(context.Background(), []domain.Date{date, date, date})
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, 2, results[0].Count)

	f, err := os.Open(results[0].Path)
	require.NoError(t, err)
	defer f.Close()

	records, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	assert.Len(t, records, 3)
}

func TestExporterFailure(t *testing.T) {
	store := memory.NewStore()
	store.Err = errors.New("connection reset")
	svc := service.NewStockService(store, 100, 1000)

	exporter := NewExporter(svc, JSONSaver{}, t.TempDir(), 4)
	results, err := exporter.Export(context.Background(), []domain.Date{domain.MustParseDate("2024-01-02")})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "connection reset")
	require.Len(t, results, 1)

	var qerr *domain.QueryError
	assert.True(t, errors.As(results[0].Error, &qerr))
	assert.NoFileExists(t, results[0].Path)
}

func TestExporterCanceled(t *testing.T) {
	svc := service.NewStockService(memory.NewStore(), 100, 1000)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	exporter := NewExporter(svc, CSVSaver{}, t.TempDir(), 1)
	results, err := exporter.Export(ctx, []domain.Date{domain.MustParseDate("2024-01-02"), domain.MustParseDate("2024-01-03")})

	require.Error(t, err)
	assert.Len(t, results, 2)
	for _, r := range results {
		assert.ErrorIs(t, r.Error, context.Canceled)
	}
}

func BenchmarkSavers(b *testing.B) {
	rows := make([]domain.Snapshot, 5000)
	for i := range rows {
		rows[i] = sampleRows()[0]
		rows[i].Code = int64(i)
	}

	for _, format := range Formats {
		saver, err := NewSaver(format)
		if err != nil {
			b.Fatal(err)
		}

		b.Run(format, func(b *testing.B) {
			b.ResetTimer()
			b.ReportAllocs()

			for i := 0; i < b.N; i++ {
				if err := saver.Save(io.Discard, rows); err != nil {
					b.Fatal(err)
				}
			}
		})
	}
}
