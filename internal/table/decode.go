package table

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"sort"
)

// DecodeCSV reads a CSV document with a header row into a Batch. Header
// names are normalized (lowercase, spaces → underscores) and cell values are
// type-inferred per cell.
func DecodeCSV(r io.Reader) (*Batch, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("decode csv: empty document")
	}
	if err != nil {
		return nil, fmt.Errorf("decode csv: read header: %w", err)
	}
	columns := make([]string, len(header))
	for i, h := range header {
		columns[i] = NormalizeHeader(h)
	}

	var rows [][]any
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("decode csv: row %d: %w", len(rows)+1, err)
		}
		row := make([]any, len(rec))
		for i, cell := range rec {
			row[i] = InferValue(cell)
		}
		rows = append(rows, row)
	}
	return New(columns, rows)
}

// DecodeJSON reads a JSON array of flat objects into a Batch. The column set
// is the union of keys across all objects, normalized and sorted for a
// stable layout; keys absent from an object become nil cells. Numbers with
// no fractional part narrow to int64.
func DecodeJSON(data []byte) (*Batch, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var objects []map[string]any
	if err := dec.Decode(&objects); err != nil {
		return nil, fmt.Errorf("decode json: %w", err)
	}

	seen := make(map[string]bool)
	var columns []string
	for _, obj := range objects {
		for k := range obj {
			nk := NormalizeHeader(k)
			if !seen[nk] {
				seen[nk] = true
				columns = append(columns, nk)
			}
		}
	}
	sort.Strings(columns)

	rows := make([][]any, 0, len(objects))
	for i, obj := range objects {
		norm := make(map[string]any, len(obj))
		for k, v := range obj {
			norm[NormalizeHeader(k)] = v
		}
		row := make([]any, len(columns))
		for ci, c := range columns {
			v, err := fromJSONValue(norm[c])
			if err != nil {
				return nil, fmt.Errorf("decode json: row %d column %q: %w", i, c, err)
			}
			row[ci] = v
		}
		rows = append(rows, row)
	}
	return New(columns, rows)
}

func fromJSONValue(v any) (any, error) {
	switch x := v.(type) {
	case nil:
		return nil, nil
	case bool, string:
		return x, nil
	case json.Number:
		if i, err := x.Int64(); err == nil {
			return i, nil
		}
		f, err := x.Float64()
		if err != nil {
			return nil, fmt.Errorf("bad number %q: %w", x.String(), err)
		}
		return f, nil
	default:
		return nil, fmt.Errorf("unsupported value type %T (objects must be flat)", v)
	}
}
