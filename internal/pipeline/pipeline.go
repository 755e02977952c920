// Package pipeline orchestrates a single batch run: extract → input gate →
// enrich → output gate → publish. Every phase is side-effect-free with
// respect to its inputs, so the caller may re-invoke a failed run end-to-end
// from identical inputs.
package pipeline

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	"github.com/kyager/retailfact/internal/config"
	"github.com/kyager/retailfact/internal/db"
	"github.com/kyager/retailfact/internal/enrich"
	"github.com/kyager/retailfact/internal/gate"
	"github.com/kyager/retailfact/internal/model"
	"github.com/kyager/retailfact/internal/sink"
)

// PhaseError wraps an error with the phase where it occurred.
type PhaseError struct {
	Phase string
	Err   error
}

func (e *PhaseError) Error() string {
	return fmt.Sprintf("%s: %s", e.Phase, e.Err)
}

func (e *PhaseError) Unwrap() error {
	return e.Err
}

func bytesReader(data []byte) io.Reader { return bytes.NewReader(data) }

// Run executes the full pipeline and returns the run summary. pool may be
// nil when the warehouse load is skipped; store may be nil in local-file
// mode.
func Run(ctx context.Context, pool *pgxpool.Pool, store ObjectStore, log zerolog.Logger, cfg *config.Config) (*model.RunSummary, error) {
	totalStart := time.Now()
	runID := uuid.New()
	log = log.With().Str("run_id", runID.String()).Logger()

	// Phase 1: Extract
	log.Info().Msg("starting extract")
	extractStart := time.Now()
	raw, err := extract(ctx, store, cfg)
	if err != nil {
		return nil, &PhaseError{Phase: "extract", Err: err}
	}
	durExtract := time.Since(extractStart)
	log.Info().
		Str("sales_source", raw.SalesSource).
		Str("sales_sha256", raw.SalesSHA256).
		Int("sales_rows", raw.Sales.NumRows()).
		Int("product_rows", raw.Products.NumRows()).
		Str("duration", durExtract.String()).
		Msg("extract complete")

	// Phase 2: Input quality gate
	log.Info().Msg("starting input validation")
	validateStart := time.Now()
	g := gate.New(log)
	salesRes, productsRes, err := g.Inputs(raw.Sales, raw.Products)
	if err != nil {
		return nil, &PhaseError{Phase: "input gate", Err: err}
	}
	durValidate := time.Since(validateStart)

	// Phase 3: Transform / enrichment
	log.Info().Msg("starting transform")
	transformStart := time.Now()
	enriched, err := enrich.Enrich(log, salesRes.Batch, productsRes.Batch)
	if err != nil {
		return nil, &PhaseError{Phase: "transform", Err: err}
	}

	// Phase 4: Output quality gate
	outputRes, err := g.Output(enriched)
	if err != nil {
		return nil, &PhaseError{Phase: "output gate", Err: err}
	}
	durTransform := time.Since(transformStart)

	// Phase 5: Publish
	log.Info().Msg("publishing enriched batch")
	loadStart := time.Now()
	records, err := model.FromBatch(outputRes.Batch)
	if err != nil {
		return nil, &PhaseError{Phase: "publish", Err: err}
	}
	rowsLoaded, err := publish(ctx, pool, store, log, cfg, runID, records)
	if err != nil {
		return nil, &PhaseError{Phase: "publish", Err: err}
	}
	durLoad := time.Since(loadStart)

	summary := &model.RunSummary{
		RunID:             runID.String(),
		SalesSource:       raw.SalesSource,
		SalesSHA256:       raw.SalesSHA256,
		SalesRowsRaw:      raw.Sales.NumRows(),
		ProductsRowsRaw:   raw.Products.NumRows(),
		SalesDropped:      salesRes.Dropped,
		ProductsDropped:   productsRes.Dropped,
		RowsEnriched:      enriched.NumRows(),
		OutputDropped:     outputRes.Dropped,
		RowsPublished:     len(records),
		RowsLoaded:        rowsLoaded,
		DurationExtract:   durExtract,
		DurationValidate:  durValidate,
		DurationTransform: durTransform,
		DurationLoad:      durLoad,
		DurationTotal:     time.Since(totalStart),
	}

	log.Info().
		Int("sales_rows_raw", summary.SalesRowsRaw).
		Int("product_rows_raw", summary.ProductsRowsRaw).
		Int("sales_dropped", summary.SalesDropped).
		Int("products_dropped", summary.ProductsDropped).
		Int("rows_published", summary.RowsPublished).
		Int64("rows_loaded", summary.RowsLoaded).
		Str("total_duration", summary.DurationTotal.String()).
		Msg("pipeline complete")
	return summary, nil
}

// publish writes the fact records to the cleansed zone (CSV, optionally
// Parquet) and bulk-loads the warehouse table.
func publish(ctx context.Context, pool *pgxpool.Pool, store ObjectStore, log zerolog.Logger, cfg *config.Config, runID uuid.UUID, records []model.EnrichedRecord) (int64, error) {
	csvData, err := sink.EncodeCSV(records)
	if err != nil {
		return 0, err
	}

	switch {
	case cfg.UseObjectStore():
		key := cfg.ProcessedObjectKey()
		if err := store.Put(ctx, key, csvData, "text/csv"); err != nil {
			return 0, err
		}
		log.Info().Str("key", key).Int("rows", len(records)).Msg("cleansed csv written")

		if cfg.WriteParquet {
			pqData, err := sink.EncodeParquet(records)
			if err != nil {
				return 0, err
			}
			pqKey := strings.TrimSuffix(key, ".csv") + ".parquet"
			if err := store.Put(ctx, pqKey, pqData, "application/octet-stream"); err != nil {
				return 0, err
			}
			log.Info().Str("key", pqKey).Msg("cleansed parquet written")
		}
	case cfg.OutFile != "":
		if err := os.WriteFile(cfg.OutFile, csvData, 0o644); err != nil {
			return 0, fmt.Errorf("write output file: %w", err)
		}
		log.Info().Str("file", cfg.OutFile).Int("rows", len(records)).Msg("cleansed csv written")

		if cfg.WriteParquet {
			pqData, err := sink.EncodeParquet(records)
			if err != nil {
				return 0, err
			}
			pqFile := strings.TrimSuffix(cfg.OutFile, ".csv") + ".parquet"
			if err := os.WriteFile(pqFile, pqData, 0o644); err != nil {
				return 0, fmt.Errorf("write parquet file: %w", err)
			}
			log.Info().Str("file", pqFile).Msg("cleansed parquet written")
		}
	}

	if cfg.SkipWarehouse || pool == nil {
		log.Info().Msg("warehouse load skipped")
		return 0, nil
	}
	return db.LoadFacts(ctx, pool, log, runID, records)
}
