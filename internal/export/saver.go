// Package export grava snapshots em arquivo, um arquivo por data.
package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/guregu/null/v6"
	"github.com/jeovahfialho/stock-dashboard/internal/domain"
	"github.com/parquet-go/parquet-go"
	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

// Saver serializa uma lista de snapshots em um formato.
type Saver interface {
	Save(w io.Writer, rows []domain.Snapshot) error
	Extension() string
}

var Formats = []string{"csv", "json", "parquet", "xlsx"}

// NewSaver devolve a implementação do formato (csv, json, parquet, xlsx).
func NewSaver(format string) (Saver, error) {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "csv":
		return CSVSaver{}, nil
	case "json":
		return JSONSaver{}, nil
	case "parquet":
		return ParquetSaver{}, nil
	case "xlsx", "excel":
		return ExcelSaver{}, nil
	default:
		return nil, fmt.Errorf("formato não suportado %q (use: %s)", format, strings.Join(Formats, ", "))
	}
}

type CSVSaver struct{}

func (CSVSaver) Extension() string { return "csv" }

func (CSVSaver) Save(w io.Writer, rows []domain.Snapshot) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(domain.SnapshotColumns); err != nil {
		return err
	}

	record := make([]string, len(domain.SnapshotColumns))
	for _, row := range rows {
		values, err := rowValues(row)
		if err != nil {
			return err
		}
		for i, v := range values {
			record[i] = formatCell(v)
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}

type JSONSaver struct{}

func (JSONSaver) Extension() string { return "json" }

func (JSONSaver) Save(w io.Writer, rows []domain.Snapshot) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(rows)
}

type ParquetSaver struct{}

func (ParquetSaver) Extension() string { return "parquet" }

func (ParquetSaver) Save(w io.Writer, rows []domain.Snapshot) error {
	records := make([]Record, len(rows))
	for i, row := range rows {
		records[i] = NewRecord(row)
	}
	return parquet.Write(w, records)
}

const excelSheet = "stocks"

type ExcelSaver struct{}

func (ExcelSaver) Extension() string { return "xlsx" }

func (ExcelSaver) Save(w io.Writer, rows []domain.Snapshot) error {
	wb := excelize.NewFile()
	defer wb.Close()

	if err := wb.SetSheetName("Sheet1", excelSheet); err != nil {
		return err
	}

	header := make([]interface{}, len(domain.SnapshotColumns))
	for i, col := range domain.SnapshotColumns {
		header[i] = col
	}
	if err := wb.SetSheetRow(excelSheet, "A1", &header); err != nil {
		return fmt.Errorf("erro ao escrever cabeçalho: %w", err)
	}

	for i, row := range rows {
		values, err := rowValues(row)
		if err != nil {
			return err
		}
		for j, v := range values {
			values[j] = excelCell(v)
		}

		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := wb.SetSheetRow(excelSheet, cell, &values); err != nil {
			return fmt.Errorf("erro ao escrever linha %d: %w", i+2, err)
		}
	}

	if err := wb.SetPanes(excelSheet, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	}); err != nil {
		return fmt.Errorf("erro ao congelar cabeçalho: %w", err)
	}

	return wb.Write(w)
}

// rowValues devolve os valores na ordem de domain.SnapshotColumns; nil para nulo.
func rowValues(s domain.Snapshot) ([]interface{}, error) {
	targets, err := s.FieldPointers(domain.SnapshotColumns)
	if err != nil {
		return nil, err
	}

	values := make([]interface{}, len(targets))
	for i, t := range targets {
		switch v := t.(type) {
		case *int64:
			values[i] = *v
			if domain.SnapshotColumns[i] == domain.ColumnCode {
				// código com zeros à esquerda, como exibido no painel
				values[i] = s.Symbol()
			}
		case *null.String:
			if v.Valid {
				values[i] = v.String
			}
		case *null.Int:
			if v.Valid {
				values[i] = v.Int64
			}
		case *decimal.NullDecimal:
			if v.Valid {
				values[i] = v.Decimal
			}
		case *domain.Date:
			if !v.IsZero() {
				values[i] = v.String()
			}
		case *domain.Timestamp:
			if !v.IsZero() {
				values[i] = v.Time.Format(time.RFC3339)
			}
		default:
			return nil, fmt.Errorf("tipo de coluna não suportado: %T", t)
		}
	}

	return values, nil
}

func formatCell(v interface{}) string {
	switch v := v.(type) {
	case nil:
		return ""
	case string:
		return v
	case int64:
		return strconv.FormatInt(v, 10)
	case decimal.Decimal:
		return v.String()
	}
	return fmt.Sprint(v)
}

func excelCell(v interface{}) interface{} {
	switch v := v.(type) {
	case nil:
		return ""
	case decimal.Decimal:
		return v.InexactFloat64()
	}
	return v
}
