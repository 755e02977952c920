// Package validate evaluates a schema against a record batch. Evaluation is
// total rather than fail-fast: every constraint of every column is checked
// against every row before any accept/reject decision, so the report
// reflects each independent problem in one pass instead of masking later
// defects behind the first.
package validate

import (
	"fmt"
	"sort"

	"github.com/rs/zerolog"

	"github.com/kyager/retailfact/internal/schema"
	"github.com/kyager/retailfact/internal/table"
)

// Validator evaluates schemas against batches and quarantines failing rows.
type Validator struct {
	log zerolog.Logger
}

// New returns a Validator that reports through the given logger.
func New(log zerolog.Logger) *Validator {
	return &Validator{log: log}
}

// Validate runs one full evaluation pass and returns the total report. The
// batch is not modified.
func (v *Validator) Validate(b *table.Batch, s *schema.Schema) *Report {
	report := &Report{}

	// Declared columns must exist; their absence is a batch-level breach.
	names := s.ColumnNames()
	sort.Strings(names)
	for _, name := range names {
		if !b.HasColumn(name) {
			report.add(BatchLevel, name, ConstraintMissingColumn, "column not present in batch")
		}
	}

	// Strict schemas reject undeclared columns.
	if s.Strict {
		for _, name := range b.Columns() {
			if _, ok := s.Columns[name]; !ok {
				report.add(BatchLevel, name, ConstraintUnknownColumn, "column not permitted by schema")
			}
		}
	}

	// Cell-granular constraints.
	for _, name := range names {
		col, ok := s.Columns[name]
		if !ok || !b.HasColumn(name) {
			continue
		}
		for pos := 0; pos < b.NumRows(); pos++ {
			val, _ := b.Value(pos, name)
			row := b.RowIndex(pos)

			if val == nil {
				if !col.Nullable {
					report.add(row, name, ConstraintNotNullable, "null value in non-nullable column")
				}
				continue
			}
			if !col.Type.Accepts(val) {
				report.add(row, name, ConstraintType,
					fmt.Sprintf("value %v (%T) is not %s", val, val, col.Type))
				continue
			}
			if col.Check != nil && !col.Check.Fn(val) {
				report.add(row, name, ConstraintCheck+":"+col.Check.Name,
					fmt.Sprintf("value %v failed %s", val, col.Check.Name))
			}
		}
	}

	// Batch-level uniqueness on the declared key column.
	if s.UniqueKey != "" && b.HasColumn(s.UniqueKey) {
		seen := make(map[string]int)
		for pos := 0; pos < b.NumRows(); pos++ {
			val, _ := b.Value(pos, s.UniqueKey)
			key, ok := table.KeyFor(val)
			if !ok {
				continue // nullability is reported separately
			}
			if first, dup := seen[key]; dup {
				report.add(b.RowIndex(pos), s.UniqueKey, ConstraintUnique,
					fmt.Sprintf("duplicate key %v (first seen at row %d)", val, first))
				continue
			}
			seen[key] = b.RowIndex(pos)
		}
	}

	return report
}

// Clean validates the batch, quarantines every row implicated by the report,
// and re-validates the remainder as a consistency check. It returns the
// cleaned batch and the violation-entry count of the first pass.
//
// When the second pass still reports violations, the problem is logged and
// the batch returned anyway. Batch-level breaches (and type ambiguities
// surfaced by the removals) can persist after the obviously-bad rows are
// gone, and a partial batch is preferred over aborting the run.
func (v *Validator) Clean(b *table.Batch, s *schema.Schema) (*table.Batch, int) {
	report := v.Validate(b, s)
	if report.Empty() {
		v.log.Info().Str("schema", s.Name).Int("rows", b.NumRows()).Msg("validation passed")
		return b, 0
	}

	failed := report.FailedRows()
	v.log.Warn().
		Str("schema", s.Name).
		Int("violations", report.Len()).
		Int("failed_rows", len(failed)).
		Str("summary", report.Summary()).
		Msg("validation failed, quarantining rows")

	cleaned := b.DropRows(failed)

	if residual := v.Validate(cleaned, s); !residual.Empty() {
		v.log.Warn().
			Str("schema", s.Name).
			Int("residual_violations", residual.Len()).
			Str("summary", residual.Summary()).
			Msg("residual violations after quarantine, returning best effort")
	} else {
		v.log.Info().
			Str("schema", s.Name).
			Int("rows_remaining", cleaned.NumRows()).
			Msg("cleaned batch validated")
	}

	return cleaned, report.Len()
}
