package schema

import (
	"testing"
	"time"
)

func TestKindAccepts(t *testing.T) {
	cases := []struct {
		kind Kind
		v    any
		want bool
	}{
		{Int, int64(3), true},
		{Int, float64(3), true},   // integral float widens back
		{Int, float64(3.5), false},
		{Int, "3", false},
		{Float, float64(1.5), true},
		{Float, int64(2), true}, // lossless widening
		{Float, true, false},
		{Bool, true, true},
		{Bool, "true", false},
		{String, "x", true},
		{String, int64(1), false},
		{Date, time.Now(), true},
		{Date, "2024-01-01", false},
	}
	for _, c := range cases {
		if got := c.kind.Accepts(c.v); got != c.want {
			t.Errorf("%s.Accepts(%v %T) = %v, want %v", c.kind, c.v, c.v, got, c.want)
		}
	}
}

func TestChecks(t *testing.T) {
	gt := GreaterThan(0)
	if gt.Name != "greater_than(0)" {
		t.Errorf("name = %q", gt.Name)
	}
	if gt.Fn(int64(0)) {
		t.Error("greater_than(0) accepted 0")
	}
	if !gt.Fn(float64(0.01)) {
		t.Error("greater_than(0) rejected 0.01")
	}

	rng := Between(0, 1)
	if rng.Name != "in_range(0, 1)" {
		t.Errorf("name = %q", rng.Name)
	}
	if !rng.Fn(float64(0)) || !rng.Fn(float64(1)) {
		t.Error("in_range(0, 1) should be inclusive")
	}
	if rng.Fn(float64(1.5)) {
		t.Error("in_range(0, 1) accepted 1.5")
	}
	if rng.Fn("0.5") {
		t.Error("in_range accepted a non-numeric cell")
	}
}

func TestRetailSchemas(t *testing.T) {
	sales := Sales()
	if len(sales.Columns) != 8 {
		t.Errorf("sales columns = %d, want 8", len(sales.Columns))
	}
	if sales.Strict {
		t.Error("sales schema must tolerate extra columns")
	}
	if !sales.Columns["region"].Nullable {
		t.Error("region should be nullable")
	}
	if sales.Columns["qty"].Check == nil {
		t.Error("qty should carry a check")
	}

	products := Products()
	if products.UniqueKey != "product_id" {
		t.Errorf("products unique key = %q", products.UniqueKey)
	}
	if !products.Columns["rating"].Nullable {
		t.Error("rating should be nullable")
	}

	out := Output()
	if !out.Strict {
		t.Error("output schema must be strict")
	}
	if len(OutputColumns) != 14 {
		t.Errorf("output columns = %d, want 14", len(OutputColumns))
	}
	for _, name := range OutputColumns {
		if _, ok := out.Columns[name]; !ok {
			t.Errorf("output schema missing declared column %q", name)
		}
	}
	for name, col := range out.Columns {
		if name != "rating" && col.Nullable {
			t.Errorf("output column %q should not be nullable", name)
		}
	}
}
