package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/kyager/retailfact/internal/config"
)

var cfg config.Config

var configFile string

var rootCmd = &cobra.Command{
	Use:   "retailfact",
	Short: "Retail sales quality gate and enrichment loader",
	Long:  "Validates raw retail sales and product data, enriches it into a denormalized fact table, and bulk-loads the result into Postgres via the COPY protocol.",
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&cfg.DSN, "dsn", os.Getenv("DATABASE_URL"), "Postgres connection string (or set DATABASE_URL)")
	pf.StringVar(&cfg.LogFormat, "log-format", "text", "Log format: text or json")
	pf.StringVar(&configFile, "config", "", "Path to YAML config file with the S3 layout")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
