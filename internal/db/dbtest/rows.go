// Package dbtest provides in-memory db.Rows and db.Querier fakes for repository tests.
package dbtest

import (
	"context"
	"fmt"
	"reflect"

	"github.com/kailas-cloud/worldsearch/internal/db"
)

// Rows is a db.Rows over fixed values. Each Scan assigns the current row's values to dest by position.
type Rows struct {
	Values  [][]any
	ScanErr error
	IterErr error
	Closed  int

	idx int
}

// NewRows creates Rows from the given row values.
func NewRows(values ...[]any) *Rows {
	return &Rows{Values: values}
}

func (r *Rows) Next() bool {
	if r.idx >= len(r.Values) {
		return false
	}
	r.idx++
	return true
}

func (r *Rows) Scan(dest ...any) error {
	if r.ScanErr != nil {
		return r.ScanErr
	}
	if r.idx == 0 {
		return fmt.Errorf("dbtest: Scan called before Next")
	}
	row := r.Values[r.idx-1]
	if len(dest) != len(row) {
		return fmt.Errorf("dbtest: %d destinations for %d columns", len(dest), len(row))
	}
	for i, d := range dest {
		dv := reflect.ValueOf(d)
		if dv.Kind() != reflect.Pointer || dv.IsNil() {
			return fmt.Errorf("dbtest: destination %d is not a pointer", i)
		}
		sv := reflect.ValueOf(row[i])
		if !sv.IsValid() {
			dv.Elem().SetZero()
			continue
		}
		if !sv.Type().AssignableTo(dv.Elem().Type()) {
			if !sv.Type().ConvertibleTo(dv.Elem().Type()) {
				return fmt.Errorf("dbtest: column %d: cannot scan %T into %T", i, row[i], d)
			}
			sv = sv.Convert(dv.Elem().Type())
		}
		dv.Elem().Set(sv)
	}
	return nil
}

func (r *Rows) Err() error { return r.IterErr }
func (r *Rows) Close()     { r.Closed++ }

// Call records one statement issued through Querier.
type Call struct {
	SQL  string
	Args []any
}

// Querier is a db.Querier whose behavior is set per method.
type Querier struct {
	QueryFn func(ctx context.Context, sql string, args ...any) (db.Rows, error)
	ExecFn  func(ctx context.Context, sql string, args ...any) (int64, error)

	Calls []Call
}

func (q *Querier) Query(ctx context.Context, sql string, args ...any) (db.Rows, error) {
	q.Calls = append(q.Calls, Call{SQL: sql, Args: args})
	if q.QueryFn != nil {
		return q.QueryFn(ctx, sql, args...)
	}
	return NewRows(), nil
}

func (q *Querier) QueryRow(ctx context.Context, sql string, args ...any) db.Row {
	return db.RowFromRows(q.Query(ctx, sql, args...))
}

func (q *Querier) Exec(ctx context.Context, sql string, args ...any) (int64, error) {
	q.Calls = append(q.Calls, Call{SQL: sql, Args: args})
	if q.ExecFn != nil {
		return q.ExecFn(ctx, sql, args...)
	}
	return 0, nil
}
