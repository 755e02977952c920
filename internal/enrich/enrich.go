// Package enrich turns a cleaned sales batch and a cleaned product dimension
// into one denormalized, analytics-ready fact batch through a fixed sequence
// of deterministic stages. The function is pure: no external state, no I/O,
// and an empty result is a valid outcome (the gates decide on emptiness).
package enrich

import (
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/kyager/retailfact/internal/schema"
	"github.com/kyager/retailfact/internal/table"
)

// CompletedStatus is the only order status that reaches the fact table.
// Matching is case-sensitive and exact.
const CompletedStatus = "Completed"

// UnknownRegion is the sentinel filled into missing region values.
const UnknownRegion = "UNKNOWN"

// Dimension columns joined onto sales rows, besides the product_id key.
var dimensionColumns = []string{"product_id", "category", "brand", "rating", "in_stock"}

// Enrich runs the transform/enrichment pipeline over validated inputs.
func Enrich(log zerolog.Logger, sales, products *table.Batch) (*table.Batch, error) {
	// 1. Header normalization on both inputs. The decoders already apply
	// this; re-applying is an idempotent safety net for batches built
	// elsewhere.
	sales = sales.NormalizeHeaders()
	products = products.NormalizeHeaders()

	// 2. Keep completed orders only. Other statuses are dropped silently,
	// not reported as violations.
	sales = sales.Filter(func(pos int) bool {
		v, _ := sales.Value(pos, "order_status")
		s, ok := table.AsString(v)
		return ok && s == CompletedStatus
	})
	log.Info().Int("rows", sales.NumRows()).Msg("completed orders retained")

	// 3. Region defaulting and uppercasing, on surviving rows only.
	sales = sales.MapColumn("region", func(v any) any {
		s, ok := table.AsString(v)
		if v == nil || (ok && strings.TrimSpace(s) == "") {
			return UnknownRegion
		}
		if ok {
			return strings.ToUpper(s)
		}
		return v
	})

	// 4. Mixed-format timestamp parsing and temporal derivation. Rows with
	// an unparseable timestamp get null sale_date/sale_hour here and are
	// caught by the output gate, not filtered at this stage.
	parsed := make([]*time.Time, sales.NumRows())
	for pos := 0; pos < sales.NumRows(); pos++ {
		v, _ := sales.Value(pos, "time_stamp")
		if s, ok := table.AsString(v); ok {
			parsed[pos] = ParseTimestamp(s)
		}
	}
	sales = sales.WithColumn("sale_date", func(pos int) any {
		t := parsed[pos]
		if t == nil {
			return nil
		}
		return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	})
	sales = sales.WithColumn("sale_hour", func(pos int) any {
		t := parsed[pos]
		if t == nil {
			return nil
		}
		return int64(t.Hour())
	})

	// 5. Discount defaulting and revenue derivation:
	// revenue = qty * price * (1 - discount).
	sales = sales.MapColumn("discount", func(v any) any {
		if v == nil {
			return float64(0)
		}
		return v
	})
	sales = sales.WithColumn("revenue", func(pos int) any {
		qv, _ := sales.Value(pos, "qty")
		pv, _ := sales.Value(pos, "price")
		dv, _ := sales.Value(pos, "discount")
		qty, okQ := table.AsFloat64(qv)
		price, okP := table.AsFloat64(pv)
		disc, okD := table.AsFloat64(dv)
		if !okQ || !okP || !okD {
			return nil
		}
		return qty * price * (1 - disc)
	})
	log.Info().Int("rows", sales.NumRows()).Msg("revenue calculated")

	// 6. Financial-quality filter: entry errors, out-of-range discounts
	// producing negative revenue, and refund/credit rows.
	before := sales.NumRows()
	sales = sales.Filter(func(pos int) bool {
		pv, _ := sales.Value(pos, "price")
		rv, _ := sales.Value(pos, "revenue")
		price, okP := table.AsFloat64(pv)
		revenue, okR := table.AsFloat64(rv)
		return okP && okR && price > 0 && revenue > 0
	})
	if dropped := before - sales.NumRows(); dropped > 0 {
		log.Warn().Int("rows_removed", dropped).Msg("financial quality filter removed rows")
	}

	// 7. Dimension enrichment: left-outer join on product_id. Unmatched
	// sales rows are retained with null category/brand/rating/in_stock.
	dim, err := products.Project(dimensionColumns)
	if err != nil {
		return nil, fmt.Errorf("enrich: product dimension: %w", err)
	}
	enriched, err := table.LeftJoin(sales, dim, "product_id")
	if err != nil {
		return nil, fmt.Errorf("enrich: join product dimension: %w", err)
	}
	log.Info().Int("rows", enriched.NumRows()).Msg("sales enriched with product dimension")

	// 8. Business flags. Unknown stock status is conservatively reported
	// as out-of-stock.
	enriched = enriched.WithColumn("is_discounted", func(pos int) any {
		v, _ := enriched.Value(pos, "discount")
		d, ok := table.AsFloat64(v)
		return ok && d > 0
	})
	enriched = enriched.WithColumn("is_in_stock", func(pos int) any {
		v, _ := enriched.Value(pos, "in_stock")
		b, ok := table.AsBool(v)
		return ok && b
	})

	// 9. sale_hour to integer for downstream storage.
	enriched = enriched.MapColumn("sale_hour", func(v any) any {
		if v == nil {
			return nil
		}
		if i, ok := table.AsInt64(v); ok {
			return i
		}
		return v
	})

	// 10. Projection to the fixed output layout; intermediate columns
	// (order status, raw timestamp) are dropped here.
	out, err := enriched.Project(schema.OutputColumns)
	if err != nil {
		return nil, fmt.Errorf("enrich: project output columns: %w", err)
	}
	log.Info().Int("rows", out.NumRows()).Msg("transformation complete")
	return out, nil
}
