package pipeline

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/kyager/retailfact/internal/config"
	"github.com/kyager/retailfact/internal/enrich"
	"github.com/kyager/retailfact/internal/schema"
	"github.com/kyager/retailfact/internal/validate"
)

// PlanReport holds the dry-run findings: what a real run would ingest, drop,
// and publish, without writing anything.
type PlanReport struct {
	SalesSource string
	SalesSHA256 string

	SalesRowsRaw    int
	ProductsRowsRaw int

	SalesViolations    *validate.Report
	ProductsViolations *validate.Report
	OutputViolations   *validate.Report

	RowsEnriched  int
	RowsPublished int
}

// Plan runs the pipeline through the output gate without publishing. Unlike
// Run it does not abort on empty cleaned batches; it reports what it found.
func Plan(ctx context.Context, store ObjectStore, log zerolog.Logger, cfg *config.Config) (*PlanReport, error) {
	raw, err := extract(ctx, store, cfg)
	if err != nil {
		return nil, &PhaseError{Phase: "extract", Err: err}
	}

	v := validate.New(log)
	report := &PlanReport{
		SalesSource:     raw.SalesSource,
		SalesSHA256:     raw.SalesSHA256,
		SalesRowsRaw:    raw.Sales.NumRows(),
		ProductsRowsRaw: raw.Products.NumRows(),
	}

	report.SalesViolations = v.Validate(raw.Sales, schema.Sales())
	report.ProductsViolations = v.Validate(raw.Products, schema.Products())

	cleanSales := raw.Sales.DropRows(report.SalesViolations.FailedRows())
	cleanProducts := raw.Products.DropRows(report.ProductsViolations.FailedRows())

	enriched, err := enrich.Enrich(log, cleanSales, cleanProducts)
	if err != nil {
		return nil, &PhaseError{Phase: "transform", Err: err}
	}
	report.RowsEnriched = enriched.NumRows()

	report.OutputViolations = v.Validate(enriched, schema.Output())
	report.RowsPublished = enriched.DropRows(report.OutputViolations.FailedRows()).NumRows()
	return report, nil
}
