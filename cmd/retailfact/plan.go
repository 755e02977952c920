package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/kyager/retailfact/internal/exitcode"
	"github.com/kyager/retailfact/internal/logging"
	"github.com/kyager/retailfact/internal/objectstore"
	"github.com/kyager/retailfact/internal/pipeline"
	"github.com/kyager/retailfact/internal/validate"
)

var planCmd = &cobra.Command{
	Use:   "plan",
	Short: "Dry-run validation and stats (no writes)",
	RunE:  runPlan,
}

func init() {
	f := planCmd.Flags()
	f.StringVar(&cfg.SalesFile, "sales-file", "", "Local sales CSV (alternative to S3 input)")
	f.StringVar(&cfg.ProductsFile, "products-file", "", "Local products JSON (alternative to S3 input)")
	rootCmd.AddCommand(planCmd)
}

func runPlan(cmd *cobra.Command, args []string) error {
	log := logging.Setup(cfg.LogFormat)
	ctx := context.Background()

	if configFile != "" {
		if err := cfg.LoadFromFile(configFile); err != nil {
			log.Error().Err(err).Msg("config load failed")
			os.Exit(exitcode.UsageError)
		}
	}
	if err := cfg.Validate(); err != nil {
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
		store = s
	}

	report, err := pipeline.Plan(ctx, store, log, &cfg)
	if err != nil {
		log.Error().Err(err).Msg("plan failed")
		os.Exit(exitcode.ValidationError)
	}

	fmt.Println("=== retailfact plan ===")
	fmt.Printf("Sales:      %s\n", report.SalesSource)
	fmt.Printf("SHA-256:    %s\n", report.SalesSHA256)
	fmt.Printf("Raw rows:   %d sales, %d products\n", report.SalesRowsRaw, report.ProductsRowsRaw)
	fmt.Println()
	printViolations("sales", report.SalesViolations)
	printViolations("products", report.ProductsViolations)
	printViolations("output", report.OutputViolations)
	fmt.Println()
	fmt.Printf("Enriched rows:  %d\n", report.RowsEnriched)
	fmt.Printf("Would publish:  %d rows\n", report.RowsPublished)
	return nil
}

func printViolations(name string, r *validate.Report) {
	if r.Empty() {
		fmt.Printf("%-9s validation: OK\n", name)
		return
	}
	fmt.Printf("%-9s validation: %d violations (%d rows): %s\n",
		name, r.Len(), len(r.FailedRows()), r.Summary())
}
