// Package storetest provides in memory store seams for repo tests
package storetest

import (
	"context"
	"fmt"
	"reflect"
	"sync"

	"memorial/internal/platform/store"
)

// Rows is an in memory store.Rows; each entry of Data is one row
type Rows struct {
	Cols []string
	Data [][]any
	Fail error

	i int
}

// Next advances to the following row
func (r *Rows) Next() bool {
	if r.i >= len(r.Data) {
		return false
	}
	r.i++
	return true
}

// Scan assigns the current row into dest by position
// nil values zero the destination so nullable columns can be faked
func (r *Rows) Scan(dest ...any) error {
	if r.i == 0 || r.i > len(r.Data) {
		return fmt.Errorf("storetest: scan outside of rows")
	}
	row := r.Data[r.i-1]
	if len(dest) != len(row) {
		return fmt.Errorf("storetest: scan %d dest for %d values", len(dest), len(row))
	}
	for i, d := range dest {
		dv := reflect.ValueOf(d)
		if dv.Kind() != reflect.Pointer || dv.IsNil() {
			return fmt.Errorf("storetest: dest %d is not a pointer", i)
		}
		target := dv.Elem()
		if row[i] == nil {
			target.Set(reflect.Zero(target.Type()))
			continue
		}
		v := reflect.ValueOf(row[i])
		switch {
		case v.Type().AssignableTo(target.Type()):
			target.Set(v)
		case v.Type().ConvertibleTo(target.Type()):
			target.Set(v.Convert(target.Type()))
		default:
			return fmt.Errorf("storetest: cannot scan %T into %s", row[i], target.Type())
		}
	}
	return nil
}

// Err returns Fail
func (r *Rows) Err() error { return r.Fail }

// Close is a no op
func (r *Rows) Close() {}

// Columns returns Cols
func (r *Rows) Columns() []string { return r.Cols }

// Call is one recorded statement
type Call struct {
	SQL  string
	Args []any
}

// Querier is a recording store.TxRunner backed by canned results
// Query and QueryRow hand out Results in order, the last one repeats
type Querier struct {
	mu sync.Mutex

	Results []*Rows
	Err     error
	Tag     store.CommandTag
	Calls   []Call
}

func (q *Querier) record(sql string, args []any) *Rows {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.Calls = append(q.Calls, Call{SQL: sql, Args: args})
	if len(q.Results) == 0 {
		return &Rows{}
	}
	n := len(q.Calls) - 1
	if n >= len(q.Results) {
		n = len(q.Results) - 1
	}
	return q.Results[n]
}

// Last returns the most recent call
func (q *Querier) Last() Call {
	q.mu.Lock()
	defer q.mu.Unlock()
	if len(q.Calls) == 0 {
		return Call{}
	}
	return q.Calls[len(q.Calls)-1]
}

// Exec records the statement
func (q *Querier) Exec(_ context.Context, sql string, args ...any) (store.CommandTag, error) {
	q.record(sql, args)
	return q.Tag, q.Err
}

// Query records the statement and returns the next canned rows
func (q *Querier) Query(_ context.Context, sql string, args ...any) (store.Rows, error) {
	rows := q.record(sql, args)
	if q.Err != nil {
		return nil, q.Err
	}
	return rows, nil
}

// QueryRow records the statement and scans the first canned row
func (q *Querier) QueryRow(_ context.Context, sql string, args ...any) store.Row {
	rows := q.record(sql, args)
	return rowFunc(func(dest ...any) error {
		if q.Err != nil {
			return q.Err
		}
		if !rows.Next() {
			return fmt.Errorf("storetest: no rows")
		}
		return rows.Scan(dest...)
	})
}

// Tx runs fn against the same querier
func (q *Querier) Tx(_ context.Context, fn func(store.RowQuerier) error) error { return fn(q) }

type rowFunc func(dest ...any) error

func (f rowFunc) Scan(dest ...any) error { return f(dest...) }

var _ store.TxRunner = (*Querier)(nil)
