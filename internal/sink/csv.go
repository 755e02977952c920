// Package sink serializes the gate-validated enriched batch. The pipeline
// core is agnostic to output format; these writers are the boundary where
// records become bytes.
package sink

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strconv"

	"github.com/kyager/retailfact/internal/model"
	"github.com/kyager/retailfact/internal/schema"
)

// EncodeCSV renders the enriched records as a CSV document with a header
// row, in the fixed output column order. Dates are rendered as ISO calendar
// dates, matching the warehouse file format.
func EncodeCSV(records []model.EnrichedRecord) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write(schema.OutputColumns); err != nil {
		return nil, fmt.Errorf("encode csv header: %w", err)
	}
	for i, rec := range records {
		rating := ""
		if rec.Rating != nil {
			rating = strconv.FormatFloat(*rec.Rating, 'g', -1, 64)
		}
		row := []string{
			strconv.FormatInt(rec.SalesID, 10),
			strconv.FormatInt(rec.ProductID, 10),
			rec.Category,
			rec.Brand,
			rec.Region,
			strconv.FormatInt(rec.Qty, 10),
			strconv.FormatFloat(rec.Price, 'g', -1, 64),
			strconv.FormatFloat(rec.Discount, 'g', -1, 64),
			strconv.FormatFloat(rec.Revenue, 'g', -1, 64),
			rating,
			strconv.FormatBool(rec.IsInStock),
			strconv.FormatBool(rec.IsDiscounted),
			rec.SaleDate.Format("2006-01-02"),
			strconv.FormatInt(int64(rec.SaleHour), 10),
		}
		if err := w.Write(row); err != nil {
			return nil, fmt.Errorf("encode csv row %d: %w", i, err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("encode csv: %w", err)
	}
	return buf.Bytes(), nil
}
