package db

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	"github.com/kyager/retailfact/internal/model"
)

// LoadFacts COPY-loads the enriched records into warehouse.sales_fact and
// returns the number of rows written.
func LoadFacts(ctx context.Context, pool *pgxpool.Pool, log zerolog.Logger, runID uuid.UUID, records []model.EnrichedRecord) (int64, error) {
	start := time.Now()

	rows, err := pool.CopyFrom(ctx,
		pgx.Identifier{"warehouse", "sales_fact"},
		model.FactColumns(),
		newFactSource(runID, records),
	)
	if err != nil {
		return 0, fmt.Errorf("copy sales_fact: %w", err)
	}

	dur := time.Since(start)
	log.Info().
		Int64("rows_loaded", rows).
		Str("run_id", runID.String()).
		Str("duration", dur.String()).
		Float64("rows_per_sec", float64(rows)/dur.Seconds()).
		Msg("warehouse load complete")

	return rows, nil
}

// DeleteRun removes previously loaded fact rows for a run, so a re-invoked
// run can load its output without duplicating rows.
func DeleteRun(ctx context.Context, pool *pgxpool.Pool, runID uuid.UUID) (int64, error) {
	tag, err := pool.Exec(ctx,
		"DELETE FROM warehouse.sales_fact WHERE run_id = $1",
		runID,
	)
	if err != nil {
		return 0, fmt.Errorf("delete run %s: %w", runID, err)
	}
	return tag.RowsAffected(), nil
}
