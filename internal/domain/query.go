package domain

import (
	"context"
	"fmt"
)

// Order ordena por uma coluna. NULLs sempre ficam por último.
type Order struct {
	Column string
	Desc   bool
}

func Desc(column string) Order { return Order{Column: column, Desc: true} }
func Asc(column string) Order  { return Order{Column: column} }

// Query descreve uma leitura da tabela de snapshots, independente do backend.
type Query struct {
	Columns []string // vazio = todas
	Date    *Date    // filtro update_date = Date
	Orders  []Order
	Limit   int // 0 = sem limite

	// Distinct é só uma dica: backends podem ignorar, quem chama deduplica.
	Distinct bool
}

func (q Query) Validate() error {
	for _, col := range q.Columns {
		if !IsColumn(col) {
			return fmt.Errorf("%w: %s", ErrUnknownColumn, col)
		}
	}
	for _, o := range q.Orders {
		if !IsColumn(o.Column) {
			return fmt.Errorf("%w: %s", ErrUnknownColumn, o.Column)
		}
	}
	if q.Limit < 0 {
		return fmt.Errorf("limite negativo: %d", q.Limit)
	}
	return nil
}

// SelectedColumns devolve as colunas da projeção, ou todas.
func (q Query) SelectedColumns() []string {
	if len(q.Columns) == 0 {
		return SnapshotColumns
	}
	return q.Columns
}

// SnapshotStore é o cliente do banco externo que guarda a tabela stocks.
type SnapshotStore interface {
	Select(ctx context.Context, q Query) ([]Snapshot, error)
	HealthCheck(ctx context.Context) error
	Close()
}
