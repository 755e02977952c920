// Package schema declares column-indexed constraint sets for record batches:
// a value type, a nullability rule, and an optional value predicate per
// column. Schemas are pure data; evaluation lives in internal/validate.
package schema

import (
	"fmt"

	"github.com/kyager/retailfact/internal/table"
)

// Kind is the expected value type of a column.
type Kind string

const (
	Int    Kind = "int"
	Float  Kind = "float"
	Bool   Kind = "bool"
	String Kind = "string"
	Date   Kind = "date"
)

// Accepts reports whether a non-nil cell value satisfies the kind. Float
// accepts integer cells (lossless widening); Int accepts float cells only
// when they carry no fractional part.
func (k Kind) Accepts(v any) bool {
	switch k {
	case Int:
		_, ok := table.AsInt64(v)
		return ok
	case Float:
		_, ok := table.AsFloat64(v)
		return ok
	case Bool:
		_, ok := table.AsBool(v)
		return ok
	case String:
		_, ok := table.AsString(v)
		return ok
	case Date:
		_, ok := table.AsTime(v)
		return ok
	}
	return false
}

// Check is a named value predicate. The name appears verbatim in violation
// reports.
type Check struct {
	Name string
	Fn   func(v any) bool
}

// GreaterThan builds a numeric strictly-greater-than check.
func GreaterThan(min float64) *Check {
	return &Check{
		Name: fmt.Sprintf("greater_than(%g)", min),
		Fn: func(v any) bool {
			f, ok := table.AsFloat64(v)
			return ok && f > min
		},
	}
}

// Between builds an inclusive numeric range check.
func Between(lo, hi float64) *Check {
	return &Check{
		Name: fmt.Sprintf("in_range(%g, %g)", lo, hi),
		Fn: func(v any) bool {
			f, ok := table.AsFloat64(v)
			return ok && f >= lo && f <= hi
		},
	}
}

// Column is the constraint set for one column.
type Column struct {
	Type     Kind
	Nullable bool
	Check    *Check
}

// Schema maps column names to constraints.
type Schema struct {
	Name    string
	Columns map[string]Column
	// Strict rejects batch columns not declared here. Non-strict schemas
	// tolerate extra columns (they get dropped during transform).
	Strict bool
	// UniqueKey names a column whose values must be unique across the batch.
	// Duplicate occurrences after the first are row-level violations.
	UniqueKey string
}

// ColumnNames returns the declared column names in unspecified order.
func (s *Schema) ColumnNames() []string {
	names := make([]string, 0, len(s.Columns))
	for name := range s.Columns {
		names = append(names, name)
	}
	return names
}
