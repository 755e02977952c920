package model

import "time"

// RunSummary captures metrics from a single pipeline run.
type RunSummary struct {
	RunID       string
	SalesSource string
	SalesSHA256 string

	SalesRowsRaw    int
	ProductsRowsRaw int
	SalesDropped    int
	ProductsDropped int
	RowsEnriched    int
	OutputDropped   int
	RowsPublished   int
	RowsLoaded      int64

	DurationExtract   time.Duration
	DurationValidate  time.Duration
	DurationTransform time.Duration
	DurationLoad      time.Duration
	DurationTotal     time.Duration
}
