package domain

import (
	"errors"
	"fmt"
)

var ErrUnknownColumn = errors.New("coluna desconhecida")

// QueryError envolve qualquer falha devolvida pelo banco, indicando a operação.
type QueryError struct {
	Op  string
	Err error
}

func (e *QueryError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *QueryError) Unwrap() error {
	return e.Err
}

func NewQueryError(op string, err error) error {
	if err == nil {
		return nil
	}
	return &QueryError{Op: op, Err: err}
}
