package enrich

import (
	"math"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/kyager/retailfact/internal/table"
)

var salesColumns = []string{"sales_id", "product_id", "order_status", "qty", "price", "discount", "region", "time_stamp"}

func salesRow(id, productID, qty int64, price float64, discount any, region any, status, stamp string) []any {
	return []any{id, productID, status, qty, price, discount, region, stamp}
}

func productsBatch(t *testing.T) *table.Batch {
	t.Helper()
	b, err := table.New(
		[]string{"product_id", "category", "brand", "rating", "in_stock"},
		[][]any{
			{int64(100), "Electronics", "Acme", float64(4.5), true},
			{int64(101), "Home", "Zeta", nil, nil},
		},
	)
	if err != nil {
		t.Fatal(err)
	}
	return b
}

func runEnrich(t *testing.T, rows [][]any) *table.Batch {
	t.Helper()
	sales, err := table.New(salesColumns, rows)
	if err != nil {
		t.Fatal(err)
	}
	out, err := Enrich(zerolog.Nop(), sales, productsBatch(t))
	if err != nil {
		t.Fatalf("enrich: %v", err)
	}
	return out
}

func floatAt(t *testing.T, b *table.Batch, pos int, col string) float64 {
	t.Helper()
	v, ok := b.Value(pos, col)
	if !ok {
		t.Fatalf("no column %q", col)
	}
	f, ok := table.AsFloat64(v)
	if !ok {
		t.Fatalf("%s[%d] = %v (%T), not numeric", col, pos, v, v)
	}
	return f
}

func TestEnrich_RevenueLaw(t *testing.T) {
	out := runEnrich(t, [][]any{
		salesRow(1, 100, 5, 100, float64(0.1), "North", "Completed", "2024-03-01 10:30:00"),
		salesRow(2, 100, 3, 50, nil, "North", "Completed", "2024-03-01 11:00:00"),
	})
	if out.NumRows() != 2 {
		t.Fatalf("rows = %d, want 2", out.NumRows())
	}
	if got := floatAt(t, out, 0, "revenue"); math.Abs(got-450) > 1e-2 {
		t.Errorf("revenue = %v, want 450", got)
	}
	// missing discount defaults to zero before the derivation
	if got := floatAt(t, out, 1, "revenue"); math.Abs(got-150) > 1e-2 {
		t.Errorf("revenue with defaulted discount = %v, want 150", got)
	}
	if got := floatAt(t, out, 1, "discount"); got != 0 {
		t.Errorf("defaulted discount = %v, want 0", got)
	}
}

func TestEnrich_KeepsOnlyCompletedOrders(t *testing.T) {
	out := runEnrich(t, [][]any{
		salesRow(1, 100, 1, 10, float64(0), "North", "Completed", "2024-03-01"),
		salesRow(2, 100, 1, 10, float64(0), "North", "Pending", "2024-03-01"),
		salesRow(3, 100, 1, 10, float64(0), "North", "Cancelled", "2024-03-01"),
		salesRow(4, 100, 1, 10, float64(0), "North", "completed", "2024-03-01"),
		salesRow(5, 100, 1, 10, float64(0), "North", "Completed", "2024-03-01"),
	})
	if out.NumRows() != 2 {
		t.Fatalf("rows = %d, want 2 (exact, case-sensitive status match)", out.NumRows())
	}
}

func TestEnrich_RegionDefaultingAndUppercase(t *testing.T) {
	out := runEnrich(t, [][]any{
		salesRow(1, 100, 1, 10, float64(0), nil, "Completed", "2024-03-01"),
		salesRow(2, 100, 1, 10, float64(0), "  ", "Completed", "2024-03-01"),
		salesRow(3, 100, 1, 10, float64(0), "north", "Completed", "2024-03-01"),
	})
	want := []string{"UNKNOWN", "UNKNOWN", "NORTH"}
	for pos, w := range want {
		v, _ := out.Value(pos, "region")
		if s, _ := table.AsString(v); s != w {
			t.Errorf("region[%d] = %v, want %q", pos, v, w)
		}
	}
}

func TestEnrich_FinancialFilter(t *testing.T) {
	out := runEnrich(t, [][]any{
		salesRow(1, 100, 1, 10, float64(0), "North", "Completed", "2024-03-01"),
		salesRow(2, 100, 1, -10, float64(0), "North", "Completed", "2024-03-01"), // negative price
		salesRow(3, 100, 1, 0, float64(0), "North", "Completed", "2024-03-01"),   // zero price
		salesRow(4, 100, 1, 10, float64(1), "North", "Completed", "2024-03-01"),  // full discount, zero revenue
	})
	if out.NumRows() != 1 {
		t.Fatalf("rows = %d, want 1", out.NumRows())
	}
	v, _ := out.Value(0, "sales_id")
	if id, _ := table.AsInt64(v); id != 1 {
		t.Errorf("surviving sales_id = %v, want 1", v)
	}
}

func TestEnrich_LeftJoinAndFlags(t *testing.T) {
	out := runEnrich(t, [][]any{
		salesRow(1, 100, 2, 10, float64(0.5), "North", "Completed", "2024-03-01"), // matched, in stock
		salesRow(2, 101, 1, 10, float64(0), "North", "Completed", "2024-03-01"),   // matched, null stock
		salesRow(3, 999, 1, 10, float64(0), "North", "Completed", "2024-03-01"),   // unmatched
	})
	if out.NumRows() != 3 {
		t.Fatalf("rows = %d, want 3 (left join retains unmatched sales)", out.NumRows())
	}

	v, _ := out.Value(0, "category")
	if s, _ := table.AsString(v); s != "Electronics" {
		t.Errorf("category[0] = %v", v)
	}
	if v, _ := out.Value(2, "category"); v != nil {
		t.Errorf("unmatched category = %v, want nil", v)
	}
	if v, _ := out.Value(2, "brand"); v != nil {
		t.Errorf("unmatched brand = %v, want nil", v)
	}

	// is_discounted from the effective discount
	v, _ = out.Value(0, "is_discounted")
	if b, _ := table.AsBool(v); !b {
		t.Error("is_discounted[0] = false, want true")
	}
	v, _ = out.Value(1, "is_discounted")
	if b, _ := table.AsBool(v); b {
		t.Error("is_discounted[1] = true, want false")
	}

	// unknown stock status maps to false, both for a null dimension cell
	// and for a row the join never matched
	for _, pos := range []int{1, 2} {
		v, _ := out.Value(pos, "is_in_stock")
		b, ok := table.AsBool(v)
		if !ok || b {
			t.Errorf("is_in_stock[%d] = %v, want false", pos, v)
		}
	}
	v, _ = out.Value(0, "is_in_stock")
	if b, _ := table.AsBool(v); !b {
		t.Error("is_in_stock[0] = false, want true")
	}
}

func TestEnrich_TemporalDerivation(t *testing.T) {
	out := runEnrich(t, [][]any{
		salesRow(1, 100, 1, 10, float64(0), "North", "Completed", "2024-03-01 14:45:10"),
		salesRow(2, 100, 1, 10, float64(0), "North", "Completed", "03/15/2024"),
		salesRow(3, 100, 1, 10, float64(0), "North", "Completed", "not-a-date"),
	})

	v, _ := out.Value(0, "sale_date")
	d, ok := table.AsTime(v)
	if !ok || !d.Equal(time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("sale_date[0] = %v", v)
	}
	v, _ = out.Value(0, "sale_hour")
	if h, _ := table.AsInt64(v); h != 14 {
		t.Errorf("sale_hour[0] = %v, want 14", v)
	}

	// date-only formats land on midnight, hour zero
	v, _ = out.Value(1, "sale_date")
	d, ok = table.AsTime(v)
	if !ok || !d.Equal(time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("sale_date[1] = %v", v)
	}
	v, _ = out.Value(1, "sale_hour")
	if h, _ := table.AsInt64(v); h != 0 {
		t.Errorf("sale_hour[1] = %v, want 0", v)
	}

	// unparseable timestamps survive enrichment with null temporals; the
	// output gate is responsible for rejecting them
	if v, _ := out.Value(2, "sale_date"); v != nil {
		t.Errorf("sale_date[2] = %v, want nil", v)
	}
	if v, _ := out.Value(2, "sale_hour"); v != nil {
		t.Errorf("sale_hour[2] = %v, want nil", v)
	}
}

func TestEnrich_OutputLayout(t *testing.T) {
	out := runEnrich(t, [][]any{
		salesRow(1, 100, 1, 10, float64(0), "North", "Completed", "2024-03-01"),
	})
	if out.HasColumn("order_status") || out.HasColumn("time_stamp") || out.HasColumn("in_stock") {
		t.Errorf("intermediate columns leaked into output: %v", out.Columns())
	}
	if len(out.Columns()) != 14 {
		t.Errorf("output columns = %d, want 14", len(out.Columns()))
	}
}

func TestEnrich_EmptyResultIsNotAnError(t *testing.T) {
	out := runEnrich(t, [][]any{
		salesRow(1, 100, 1, 10, float64(0), "North", "Pending", "2024-03-01"),
	})
	if out.NumRows() != 0 {
		t.Fatalf("rows = %d, want 0", out.NumRows())
	}
}

func TestParseTimestamp(t *testing.T) {
	cases := []struct {
		in   string
		want time.Time
	}{
		{"2024-03-01", time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)},
		{"2024-03-01 10:30", time.Date(2024, 3, 1, 10, 30, 0, 0, time.UTC)},
		{"2024-03-01 10:30:00", time.Date(2024, 3, 1, 10, 30, 0, 0, time.UTC)},
		{"2024-03-01T10:30:00", time.Date(2024, 3, 1, 10, 30, 0, 0, time.UTC)},
		{"03/15/2024", time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)},
		{"3/5/2024", time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC)},
		{"2024/03/01", time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)},
	}
	for _, c := range cases {
		got := ParseTimestamp(c.in)
		if got == nil {
			t.Errorf("ParseTimestamp(%q) = nil", c.in)
			continue
		}
		if !got.Equal(c.want) {
			t.Errorf("ParseTimestamp(%q) = %v, want %v", c.in, got, c.want)
		}
	}
	for _, bad := range []string{"", "  ", "not-a-date", "31/31/2024"} {
		if got := ParseTimestamp(bad); got != nil {
			t.Errorf("ParseTimestamp(%q) = %v, want nil", bad, got)
		}
	}
}
