package table

import (
	"fmt"
	"strings"
)

// Batch is a finite, in-memory, ordered collection of records sharing one
// column layout. Each record keeps the row index it had in the source data,
// so a validation failure can be correlated back to a physical row even
// after filtering.
type Batch struct {
	columns []string
	rows    [][]any
	index   []int
}

// New builds a Batch from column names and row values. Row indices are
// assigned sequentially from zero.
func New(columns []string, rows [][]any) (*Batch, error) {
	for i, row := range rows {
		if len(row) != len(columns) {
			return nil, fmt.Errorf("row %d has %d values, want %d", i, len(row), len(columns))
		}
	}
	idx := make([]int, len(rows))
	for i := range idx {
		idx[i] = i
	}
	return &Batch{columns: columns, rows: rows, index: idx}, nil
}

// NumRows returns the number of records in the batch.
func (b *Batch) NumRows() int { return len(b.rows) }

// Columns returns a copy of the column names in order.
func (b *Batch) Columns() []string {
	cols := make([]string, len(b.columns))
	copy(cols, b.columns)
	return cols
}

// HasColumn reports whether a column exists in the batch.
func (b *Batch) HasColumn(name string) bool {
	return b.columnIndex(name) >= 0
}

func (b *Batch) columnIndex(name string) int {
	for i, c := range b.columns {
		if c == name {
			return i
		}
	}
	return -1
}

// RowIndex returns the stable source row index of the record at position pos.
func (b *Batch) RowIndex(pos int) int { return b.index[pos] }

// Value returns the cell at (pos, column). The second return is false when
// the column does not exist.
func (b *Batch) Value(pos int, column string) (any, bool) {
	ci := b.columnIndex(column)
	if ci < 0 {
		return nil, false
	}
	return b.rows[pos][ci], true
}

// Row returns the record at position pos as a column name → value map.
func (b *Batch) Row(pos int) map[string]any {
	m := make(map[string]any, len(b.columns))
	for i, c := range b.columns {
		m[c] = b.rows[pos][i]
	}
	return m
}

// clone copies the batch so stage transformations never mutate their input.
func (b *Batch) clone() *Batch {
	rows := make([][]any, len(b.rows))
	for i, row := range b.rows {
		cp := make([]any, len(row))
		copy(cp, row)
		rows[i] = cp
	}
	cols := make([]string, len(b.columns))
	copy(cols, b.columns)
	idx := make([]int, len(b.index))
	copy(idx, b.index)
	return &Batch{columns: cols, rows: rows, index: idx}
}

// Filter returns a new batch holding only the records for which keep returns
// true. Surviving records retain their source row indices.
func (b *Batch) Filter(keep func(pos int) bool) *Batch {
	out := &Batch{columns: b.Columns()}
	for pos := range b.rows {
		if !keep(pos) {
			continue
		}
		row := make([]any, len(b.rows[pos]))
		copy(row, b.rows[pos])
		out.rows = append(out.rows, row)
		out.index = append(out.index, b.index[pos])
	}
	return out
}

// DropRows returns a new batch excluding every record whose source row index
// appears in the given set.
func (b *Batch) DropRows(indices map[int]bool) *Batch {
	return b.Filter(func(pos int) bool { return !indices[b.index[pos]] })
}

// MapColumn returns a new batch with fn applied to every cell of the named
// column. It is a no-op when the column does not exist.
func (b *Batch) MapColumn(column string, fn func(v any) any) *Batch {
	ci := b.columnIndex(column)
	out := b.clone()
	if ci < 0 {
		return out
	}
	for pos := range out.rows {
		out.rows[pos][ci] = fn(out.rows[pos][ci])
	}
	return out
}

// WithColumn returns a new batch with an added (or replaced) column whose
// cells are produced by fn from each record's position.
func (b *Batch) WithColumn(column string, fn func(pos int) any) *Batch {
	out := b.clone()
	ci := out.columnIndex(column)
	if ci < 0 {
		out.columns = append(out.columns, column)
		for pos := range out.rows {
			out.rows[pos] = append(out.rows[pos], fn(pos))
		}
		return out
	}
	for pos := range out.rows {
		out.rows[pos][ci] = fn(pos)
	}
	return out
}

// Project returns a new batch restricted to the given columns, in the given
// order. Unknown columns are an error so upstream drift cannot silently
// reach the output contract.
func (b *Batch) Project(columns []string) (*Batch, error) {
	src := make([]int, len(columns))
	for i, c := range columns {
		ci := b.columnIndex(c)
		if ci < 0 {
			return nil, fmt.Errorf("project: unknown column %q", c)
		}
		src[i] = ci
	}
	out := &Batch{columns: append([]string(nil), columns...)}
	for pos := range b.rows {
		row := make([]any, len(columns))
		for i, ci := range src {
			row[i] = b.rows[pos][ci]
		}
		out.rows = append(out.rows, row)
		out.index = append(out.index, b.index[pos])
	}
	return out, nil
}

// NormalizeHeaders returns a new batch with every column name lowercased,
// trimmed, and with spaces replaced by underscores. Idempotent.
func (b *Batch) NormalizeHeaders() *Batch {
	out := b.clone()
	for i, c := range out.columns {
		out.columns[i] = NormalizeHeader(c)
	}
	return out
}

// NormalizeHeader applies the column-name normalization rule to one name.
func NormalizeHeader(name string) string {
	name = strings.TrimSpace(name)
	name = strings.ToLower(name)
	return strings.ReplaceAll(name, " ", "_")
}
