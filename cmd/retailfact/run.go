package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/spf13/cobra"

	"github.com/kyager/retailfact/internal/config"
	"github.com/kyager/retailfact/internal/db"
	"github.com/kyager/retailfact/internal/exitcode"
	"github.com/kyager/retailfact/internal/gate"
	"github.com/kyager/retailfact/internal/logging"
	"github.com/kyager/retailfact/internal/objectstore"
	"github.com/kyager/retailfact/internal/pipeline"
)

var envFile string

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the validate-enrich-load pipeline once",
	RunE:  runRun,
}

func init() {
	f := runCmd.Flags()
	f.StringVar(&cfg.SalesFile, "sales-file", "", "Local sales CSV (alternative to S3 input)")
	f.StringVar(&cfg.ProductsFile, "products-file", "", "Local products JSON (alternative to S3 input)")
	f.StringVar(&cfg.OutFile, "out", "", "Local output CSV path (local mode)")
	f.StringVar(&envFile, "env-file", ".env", "Path to .env file with credentials")
	f.BoolVar(&cfg.WriteParquet, "parquet", false, "Also write a Parquet copy of the cleansed output")
	f.BoolVar(&cfg.SkipWarehouse, "skip-warehouse", false, "Skip the Postgres fact load")
	rootCmd.AddCommand(runCmd)
}

func runRun(cmd *cobra.Command, args []string) error {
	log := logging.Setup(cfg.LogFormat)
	ctx := context.Background()

	if err := config.LoadEnvFile(envFile); err != nil {
		log.Error().Err(err).Msg("env file load failed")
		os.Exit(exitcode.UsageError)
	}
	if configFile != "" {
		if err := cfg.LoadFromFile(configFile); err != nil {
			log.Error().Err(err).Msg("config load failed")
			os.Exit(exitcode.UsageError)
		}
	}
	if err := cfg.ValidateWithDSN(); err != nil {
		log.Error().Err(err).Msg("config validation failed")
		os.Exit(exitcode.UsageError)
	}

	var store pipeline.ObjectStore
	if cfg.UseObjectStore() {
		s, err := objectstore.New(cfg.S3)
		if err != nil {
			log.Error().Err(err).Msg("object store setup failed")
			os.Exit(exitcode.ExtractError)
		}
		if err := s.EnsureBucket(ctx, cfg.S3.Region); err != nil {
			log.Error().Err(err).Msg("bucket check failed")
			os.Exit(exitcode.ExtractError)
		}
		store = s
	}

	var pool *pgxpool.Pool
	if !cfg.SkipWarehouse {
		p, err := db.NewPool(ctx, cfg.DSN)
		if err != nil {
			log.Error().Err(err).Msg("database connection failed")
			os.Exit(exitcode.DBConnError)
		}
		defer p.Close()
		pool = p
	}

	summary, err := pipeline.Run(ctx, pool, store, log, &cfg)
	if err != nil {
		var pe *pipeline.PhaseError
		if errors.As(err, &pe) {
			log.Error().Err(pe.Err).Str("phase", pe.Phase).Msg("run failed")
			switch {
			case errors.Is(err, gate.ErrEmptyResult):
				os.Exit(exitcode.EmptyResult)
			case pe.Phase == "extract":
				os.Exit(exitcode.ExtractError)
			case pe.Phase == "input gate", pe.Phase == "output gate":
				os.Exit(exitcode.ValidationError)
			case pe.Phase == "publish":
				os.Exit(exitcode.LoadError)
			default:
				os.Exit(exitcode.TransformError)
			}
		}
		log.Error().Err(err).Msg("run failed")
		os.Exit(exitcode.TransformError)
	}

	fmt.Printf("Run complete: %d rows published, %d loaded to warehouse (%.1fs)\n",
		summary.RowsPublished, summary.RowsLoaded, summary.DurationTotal.Seconds())
	return nil
}
