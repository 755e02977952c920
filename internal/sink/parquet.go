package sink

import (
	"bytes"
	"fmt"

	"github.com/parquet-go/parquet-go"

	"github.com/kyager/retailfact/internal/model"
)

// EncodeParquet renders the enriched records as a Parquet document using the
// EnrichedRecord struct tags as the schema.
func EncodeParquet(records []model.EnrichedRecord) ([]byte, error) {
	var buf bytes.Buffer
	w := parquet.NewGenericWriter[model.EnrichedRecord](&buf)

	for len(records) > 0 {
		n, err := w.Write(records)
		if err != nil {
			return nil, fmt.Errorf("write parquet rows: %w", err)
		}
		records = records[n:]
	}
	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("close parquet writer: %w", err)
	}
	return buf.Bytes(), nil
}
