package gate

import (
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/kyager/retailfact/internal/schema"
	"github.com/kyager/retailfact/internal/table"
)

func salesBatch(t *testing.T, rows [][]any) *table.Batch {
	t.Helper()
	cols := []string{"sales_id", "product_id", "order_status", "qty", "price", "discount", "region", "time_stamp"}
	b, err := table.New(cols, rows)
	if err != nil {
		t.Fatal(err)
	}
	return b
}

func productsBatch(t *testing.T, rows [][]any) *table.Batch {
	t.Helper()
	b, err := table.New([]string{"product_id", "category", "brand", "rating", "in_stock"}, rows)
	if err != nil {
		t.Fatal(err)
	}
	return b
}

func enrichedRow(saleHour int64) []any {
	return []any{
		int64(1), int64(100), "Electronics", "Acme", "NORTH",
		int64(2), float64(10), float64(0), float64(20), float64(4.5),
		true, false, time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), saleHour,
	}
}

func enrichedBatch(t *testing.T, rows [][]any) *table.Batch {
	t.Helper()
	b, err := table.New(schema.OutputColumns, rows)
	if err != nil {
		t.Fatal(err)
	}
	return b
}

func TestInputs_IndependentValidation(t *testing.T) {
	g := New(zerolog.Nop())

	sales := salesBatch(t, [][]any{
		{int64(1), int64(100), "Completed", int64(2), float64(10), float64(0), "North", "2024-03-01"},
		{int64(2), int64(100), "Completed", int64(-1), float64(10), float64(0), "North", "2024-03-01"},
	})
	products := productsBatch(t, [][]any{
		{int64(100), "Electronics", "Acme", float64(9.9), true}, // rating out of range
		{int64(101), "Home", "Zeta", float64(4), false},
	})

	salesOut, productsOut, err := g.Inputs(sales, products)
	if err != nil {
		t.Fatalf("inputs: %v", err)
	}
	if salesOut.Batch.NumRows() != 1 || salesOut.Dropped != 1 {
		t.Errorf("sales: rows=%d dropped=%d, want 1/1", salesOut.Batch.NumRows(), salesOut.Dropped)
	}
	if productsOut.Batch.NumRows() != 1 || productsOut.Dropped != 1 {
		t.Errorf("products: rows=%d dropped=%d, want 1/1", productsOut.Batch.NumRows(), productsOut.Dropped)
	}
}

func TestInputs_EmptySalesIsFatal(t *testing.T) {
	g := New(zerolog.Nop())

	sales := salesBatch(t, [][]any{
		{int64(1), int64(100), "Completed", int64(0), float64(10), float64(0), "North", "2024-03-01"},
	})
	products := productsBatch(t, [][]any{
		{int64(100), "Electronics", "Acme", float64(4), true},
	})

	_, _, err := g.Inputs(sales, products)
	if !errors.Is(err, ErrEmptyResult) {
		t.Fatalf("err = %v, want ErrEmptyResult", err)
	}
	var emptyErr *EmptyResultError
	if !errors.As(err, &emptyErr) || emptyErr.Stage != "input gate (sales)" {
		t.Errorf("err = %v, want sales input gate stage", err)
	}
}

func TestInputs_EmptyProductsIsFatal(t *testing.T) {
	g := New(zerolog.Nop())

	sales := salesBatch(t, [][]any{
		{int64(1), int64(100), "Completed", int64(2), float64(10), float64(0), "North", "2024-03-01"},
	})
	products := productsBatch(t, [][]any{
		{nil, "Electronics", "Acme", float64(4), true}, // null key
	})

	_, _, err := g.Inputs(sales, products)
	var emptyErr *EmptyResultError
	if !errors.As(err, &emptyErr) || emptyErr.Stage != "input gate (products)" {
		t.Fatalf("err = %v, want products input gate stage", err)
	}
}

func TestOutput_SaleHourRange(t *testing.T) {
	g := New(zerolog.Nop())

	res, err := g.Output(enrichedBatch(t, [][]any{
		enrichedRow(0),
		enrichedRow(23),
		enrichedRow(25),
	}))
	if err != nil {
		t.Fatalf("output: %v", err)
	}
	if res.Batch.NumRows() != 2 {
		t.Errorf("rows = %d, want 2 (hours 0 and 23 valid, 25 rejected)", res.Batch.NumRows())
	}
	if res.Dropped != 1 {
		t.Errorf("dropped = %d, want 1", res.Dropped)
	}
}

func TestOutput_NullTemporalRejected(t *testing.T) {
	g := New(zerolog.Nop())

	row := enrichedRow(10)
	row[12] = nil // sale_date
	row[13] = nil // sale_hour
	res, err := g.Output(enrichedBatch(t, [][]any{enrichedRow(9), row}))
	if err != nil {
		t.Fatalf("output: %v", err)
	}
	if res.Batch.NumRows() != 1 {
		t.Errorf("rows = %d, want 1", res.Batch.NumRows())
	}
}

func TestOutput_EmptyIsFatal(t *testing.T) {
	g := New(zerolog.Nop())

	_, err := g.Output(enrichedBatch(t, [][]any{enrichedRow(99)}))
	if !errors.Is(err, ErrEmptyResult) {
		t.Fatalf("err = %v, want ErrEmptyResult", err)
	}
	var emptyErr *EmptyResultError
	if !errors.As(err, &emptyErr) || emptyErr.Stage != "output gate" {
		t.Errorf("err = %v, want output gate stage", err)
	}
}

func TestOutput_NullRatingAllowed(t *testing.T) {
	g := New(zerolog.Nop())

	row := enrichedRow(10)
	row[9] = nil // rating is the one nullable output column
	res, err := g.Output(enrichedBatch(t, [][]any{row}))
	if err != nil {
		t.Fatalf("output: %v", err)
	}
	if res.Batch.NumRows() != 1 {
		t.Errorf("rows = %d, want 1", res.Batch.NumRows())
	}
}
