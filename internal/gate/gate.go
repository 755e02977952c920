// Package gate composes the validator with concrete schemas at the pipeline
// boundaries: two independent input checks before the transform, one
// stricter check after it. Gates decide the fatal empty-result condition;
// the validator itself never does.
package gate

import (
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/kyager/retailfact/internal/schema"
	"github.com/kyager/retailfact/internal/table"
	"github.com/kyager/retailfact/internal/validate"
)

// ErrEmptyResult is wrapped by the fatal condition a gate raises when a
// cleaned batch has no rows left. The caller must abort rather than publish
// an empty artifact.
var ErrEmptyResult = errors.New("empty result after quarantine")

// EmptyResultError reports which gate produced an empty cleaned batch.
type EmptyResultError struct {
	Stage string
}

func (e *EmptyResultError) Error() string {
	return fmt.Sprintf("%s: %s", e.Stage, ErrEmptyResult)
}

func (e *EmptyResultError) Unwrap() error { return ErrEmptyResult }

// Result is what a gate hands back per batch: the cleaned rows and the
// violation-entry count from the first validation pass.
type Result struct {
	Batch   *table.Batch
	Dropped int
}

// Gate wraps a Validator with the retail schemas.
type Gate struct {
	validator *validate.Validator
	log       zerolog.Logger
}

// New returns a Gate reporting through the given logger.
func New(log zerolog.Logger) *Gate {
	return &Gate{validator: validate.New(log), log: log}
}

// Inputs validates the sales batch against the sales schema and the product
// batch against the product schema. The two validations are independent: a
// violation in one never affects the other's drop decision. Either cleaned
// batch coming out empty is fatal.
func (g *Gate) Inputs(sales, products *table.Batch) (salesOut, productsOut Result, err error) {
	salesOut = g.run(sales, schema.Sales())
	productsOut = g.run(products, schema.Products())

	if salesOut.Batch.NumRows() == 0 {
		return salesOut, productsOut, &EmptyResultError{Stage: "input gate (sales)"}
	}
	if productsOut.Batch.NumRows() == 0 {
		return salesOut, productsOut, &EmptyResultError{Stage: "input gate (products)"}
	}
	return salesOut, productsOut, nil
}

// Output validates the enriched batch against the strict output schema. An
// empty cleaned batch is fatal: there is nothing valid to publish.
func (g *Gate) Output(enriched *table.Batch) (Result, error) {
	res := g.run(enriched, schema.Output())
	if res.Batch.NumRows() == 0 {
		return res, &EmptyResultError{Stage: "output gate"}
	}
	return res, nil
}

func (g *Gate) run(b *table.Batch, s *schema.Schema) Result {
	cleaned, dropped := g.validator.Clean(b, s)
	if dropped > 0 {
		g.log.Warn().
			Str("schema", s.Name).
			Int("violations", dropped).
			Int("rows_in", b.NumRows()).
			Int("rows_out", cleaned.NumRows()).
			Msg("gate dropped rows")
	}
	return Result{Batch: cleaned, Dropped: dropped}
}
