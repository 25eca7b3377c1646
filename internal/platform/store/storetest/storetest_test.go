package storetest

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestRowsScan(t *testing.T) {
	at := time.Unix(10, 0)
	two := 2
	r := &Rows{Data: [][]any{{int64(1), "a", at, &two}, {int64(2), "b", at, nil}}}

	var (
		id    int64
		text  string
		when  time.Time
		style *int
	)
	if !r.Next() {
		t.Fatal("expected a row")
	}
	if err := r.Scan(&id, &text, &when, &style); err != nil {
		t.Fatal(err)
	}
	if id != 1 || text != "a" || !when.Equal(at) || style == nil || *style != 2 {
		t.Fatalf("unexpected scan %d %s %v %v", id, text, when, style)
	}
	r.Next()
	if err := r.Scan(&id, &text, &when, &style); err != nil {
		t.Fatal(err)
	}
	if style != nil {
		t.Fatal("nil value should zero the destination")
	}
	if r.Next() {
		t.Fatal("expected end of rows")
	}
}

func TestRowsScanMismatch(t *testing.T) {
	r := &Rows{Data: [][]any{{"x"}}}
	r.Next()
	var n int
	if err := r.Scan(&n, &n); err == nil {
		t.Fatal("expected arity error")
	}
	if err := r.Scan(&n); err == nil {
		t.Fatal("expected type error")
	}
}

func TestQuerierRecordsAndFails(t *testing.T) {
	q := &Querier{Results: []*Rows{{Data: [][]any{{1}}}}}
	rows, err := q.Query(context.Background(), "select 1", 7)
	if err != nil {
		t.Fatal(err)
	}
	if !rows.Next() {
		t.Fatal("expected canned row")
	}
	if q.Last().SQL != "select 1" || q.Last().Args[0] != 7 {
		t.Fatalf("call not recorded: %+v", q.Last())
	}

	q.Err = errors.New("down")
	if _, err := q.Query(context.Background(), "select 2"); err == nil {
		t.Fatal("expected error")
	}
	if len(q.Calls) != 2 {
		t.Fatalf("calls = %d", len(q.Calls))
	}
}
