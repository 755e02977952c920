package model

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/kyager/retailfact/internal/table"
)

// EnrichedRecord is one row of the denormalized sales fact table, in the
// fixed output layout. Field order matches the published column order:
// identifiers, dimensions, measures, enrichment, flags, temporal.
type EnrichedRecord struct {
	SalesID      int64     `parquet:"sales_id"`
	ProductID    int64     `parquet:"product_id"`
	Category     string    `parquet:"category"`
	Brand        string    `parquet:"brand"`
	Region       string    `parquet:"region"`
	Qty          int64     `parquet:"qty"`
	Price        float64   `parquet:"price"`
	Discount     float64   `parquet:"discount"`
	Revenue      float64   `parquet:"revenue"`
	Rating       *float64  `parquet:"rating,optional"`
	IsInStock    bool      `parquet:"is_in_stock"`
	IsDiscounted bool      `parquet:"is_discounted"`
	SaleDate     time.Time `parquet:"sale_date"`
	SaleHour     int32     `parquet:"sale_hour"`
}

// FromBatch binds a gate-validated output batch to typed records. It errors
// on any cell the output schema would have rejected, so a batch that skipped
// the output gate cannot silently reach a sink.
func FromBatch(b *table.Batch) ([]EnrichedRecord, error) {
	records := make([]EnrichedRecord, 0, b.NumRows())
	for pos := 0; pos < b.NumRows(); pos++ {
		rec, err := recordAt(b, pos)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", b.RowIndex(pos), err)
		}
		records = append(records, rec)
	}
	return records, nil
}

func recordAt(b *table.Batch, pos int) (EnrichedRecord, error) {
	var rec EnrichedRecord
	var err error

	if rec.SalesID, err = intCell(b, pos, "sales_id"); err != nil {
		return rec, err
	}
	if rec.ProductID, err = intCell(b, pos, "product_id"); err != nil {
		return rec, err
	}
	if rec.Category, err = stringCell(b, pos, "category"); err != nil {
		return rec, err
	}
	if rec.Brand, err = stringCell(b, pos, "brand"); err != nil {
		return rec, err
	}
	if rec.Region, err = stringCell(b, pos, "region"); err != nil {
		return rec, err
	}
	if rec.Qty, err = intCell(b, pos, "qty"); err != nil {
		return rec, err
	}
	if rec.Price, err = floatCell(b, pos, "price"); err != nil {
		return rec, err
	}
	if rec.Discount, err = floatCell(b, pos, "discount"); err != nil {
		return rec, err
	}
	if rec.Revenue, err = floatCell(b, pos, "revenue"); err != nil {
		return rec, err
	}

	// rating is the one nullable field in the output layout.
	if v, ok := b.Value(pos, "rating"); ok && v != nil {
		f, okF := table.AsFloat64(v)
		if !okF {
			return rec, fmt.Errorf("column rating: value %v is not numeric", v)
		}
		rec.Rating = &f
	}

	if rec.IsInStock, err = boolCell(b, pos, "is_in_stock"); err != nil {
		return rec, err
	}
	if rec.IsDiscounted, err = boolCell(b, pos, "is_discounted"); err != nil {
		return rec, err
	}

	v, _ := b.Value(pos, "sale_date")
	t, ok := table.AsTime(v)
	if !ok {
		return rec, fmt.Errorf("column sale_date: value %v is not a date", v)
	}
	rec.SaleDate = t

	hour, err := intCell(b, pos, "sale_hour")
	if err != nil {
		return rec, err
	}
	rec.SaleHour = int32(hour)
	return rec, nil
}

func intCell(b *table.Batch, pos int, column string) (int64, error) {
	v, _ := b.Value(pos, column)
	i, ok := table.AsInt64(v)
	if !ok {
		return 0, fmt.Errorf("column %s: value %v is not an integer", column, v)
	}
	return i, nil
}

func floatCell(b *table.Batch, pos int, column string) (float64, error) {
	v, _ := b.Value(pos, column)
	f, ok := table.AsFloat64(v)
	if !ok {
		return 0, fmt.Errorf("column %s: value %v is not numeric", column, v)
	}
	return f, nil
}

func stringCell(b *table.Batch, pos int, column string) (string, error) {
	v, _ := b.Value(pos, column)
	s, ok := table.AsString(v)
	if !ok {
		return "", fmt.Errorf("column %s: value %v is not a string", column, v)
	}
	return s, nil
}

func boolCell(b *table.Batch, pos int, column string) (bool, error) {
	v, _ := b.Value(pos, column)
	bl, ok := table.AsBool(v)
	if !ok {
		return false, fmt.Errorf("column %s: value %v is not a bool", column, v)
	}
	return bl, nil
}

// FactColumns returns the ordered column names for COPY into
// warehouse.sales_fact.
func FactColumns() []string {
	return []string{
		"run_id",
		"sales_id",
		"product_id",
		"category",
		"brand",
		"region",
		"qty",
		"price",
		"discount",
		"revenue",
		"rating",
		"is_in_stock",
		"is_discounted",
		"sale_date",
		"sale_hour",
	}
}

// CopyValues returns the record values in FactColumns order, tagged with the
// run that produced them.
func (r *EnrichedRecord) CopyValues(runID uuid.UUID) []any {
	return []any{
		runID,
		r.SalesID,
		r.ProductID,
		r.Category,
		r.Brand,
		r.Region,
		r.Qty,
		r.Price,
		r.Discount,
		r.Revenue,
		r.Rating,
		r.IsInStock,
		r.IsDiscounted,
		r.SaleDate,
		r.SaleHour,
	}
}
