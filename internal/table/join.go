package table

import "fmt"

// LeftJoin joins right onto left by the named key column. Every left record
// is retained; when no right record matches, the added columns are nil. When
// the right side holds duplicate keys, a matching left record is emitted once
// per match, in right-side order.
//
// Columns other than the key are taken from right and appended to the left
// layout; a right column whose name collides with a left column is an error.
func LeftJoin(left, right *Batch, key string) (*Batch, error) {
	if !left.HasColumn(key) {
		return nil, fmt.Errorf("left join: left batch has no column %q", key)
	}
	if !right.HasColumn(key) {
		return nil, fmt.Errorf("left join: right batch has no column %q", key)
	}

	var added []string
	for _, c := range right.columns {
		if c == key {
			continue
		}
		if left.HasColumn(c) {
			return nil, fmt.Errorf("left join: column %q exists on both sides", c)
		}
		added = append(added, c)
	}

	matches := make(map[string][]int, right.NumRows())
	for pos := 0; pos < right.NumRows(); pos++ {
		v, _ := right.Value(pos, key)
		k, ok := KeyFor(v)
		if !ok {
			continue
		}
		matches[k] = append(matches[k], pos)
	}

	out := &Batch{columns: append(left.Columns(), added...)}
	emit := func(leftPos, rightPos int) {
		row := make([]any, 0, len(out.columns))
		row = append(row, left.rows[leftPos]...)
		for _, c := range added {
			if rightPos < 0 {
				row = append(row, nil)
				continue
			}
			v, _ := right.Value(rightPos, c)
			row = append(row, v)
		}
		out.rows = append(out.rows, row)
		out.index = append(out.index, left.index[leftPos])
	}

	for pos := 0; pos < left.NumRows(); pos++ {
		v, _ := left.Value(pos, key)
		k, ok := KeyFor(v)
		if !ok {
			emit(pos, -1)
			continue
		}
		rights := matches[k]
		if len(rights) == 0 {
			emit(pos, -1)
			continue
		}
		for _, rp := range rights {
			emit(pos, rp)
		}
	}
	return out, nil
}
