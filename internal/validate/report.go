package validate

import (
	"fmt"
	"sort"
	"strings"
)

// Constraint kinds appearing in violation entries.
const (
	ConstraintType          = "type"
	ConstraintNotNullable   = "not_nullable"
	ConstraintCheck         = "check"
	ConstraintUnique        = "unique"
	ConstraintMissingColumn = "missing_column"
	ConstraintUnknownColumn = "unknown_column"
)

// BatchLevel marks a violation that cannot be attributed to a single record
// (missing or unexpected columns). Such entries count toward the violation
// total but never quarantine a row.
const BatchLevel = -1

// Violation is one constraint breach found during a validation pass.
type Violation struct {
	Row        int // source row index, or BatchLevel
	Column     string
	Constraint string // one of the Constraint* kinds; checks carry "check:<name>"
	Detail     string
}

func (v Violation) String() string {
	if v.Row == BatchLevel {
		return fmt.Sprintf("%s: %s (%s)", v.Column, v.Constraint, v.Detail)
	}
	return fmt.Sprintf("row %d, %s: %s (%s)", v.Row, v.Column, v.Constraint, v.Detail)
}

// Report is the total, non-short-circuiting outcome of one validation pass:
// every breach of every constraint on every row.
type Report struct {
	Violations []Violation
}

func (r *Report) add(row int, column, constraint, detail string) {
	r.Violations = append(r.Violations, Violation{Row: row, Column: column, Constraint: constraint, Detail: detail})
}

// Len returns the number of violation entries. Multiple violations on one
// row each count separately.
func (r *Report) Len() int { return len(r.Violations) }

// Empty reports whether the pass found no violations.
func (r *Report) Empty() bool { return len(r.Violations) == 0 }

// FailedRows returns the distinct source row indices implicated by row-level
// violations. A row appears here if it broke any constraint on any column.
func (r *Report) FailedRows() map[int]bool {
	rows := make(map[int]bool)
	for _, v := range r.Violations {
		if v.Row != BatchLevel {
			rows[v.Row] = true
		}
	}
	return rows
}

// Summary renders per-(column, constraint) violation counts for logging, in
// stable order.
func (r *Report) Summary() string {
	counts := make(map[string]int)
	for _, v := range r.Violations {
		counts[v.Column+" "+v.Constraint]++
	}
	keys := make([]string, 0, len(counts))
	for k := range counts {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	for i, k := range keys {
		if i > 0 {
			b.WriteString(", ")
		}
		fmt.Fprintf(&b, "%s=%d", k, counts[k])
	}
	return b.String()
}
