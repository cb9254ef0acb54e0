package cli

import (
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/vvka-141/petl/internal/config"
	"github.com/vvka-141/petl/internal/extract"
	"github.com/vvka-141/petl/internal/logging"
	"github.com/vvka-141/petl/pkg/petl"
)

var extractCmd = &cobra.Command{
	Use:   "extract",
	Short: "Extract the staging table to a delimited checkpoint file",
	Long: `Extract reads the entire staging table and writes it, unmodified, to a
delimited file (default datasets/extracted.csv). It is a pure
pass-through: the checkpoint lets the transform stage run without direct
access to the raw schema.

Examples:
  # Extract with defaults
  petl extract

  # Extract to a custom location
  petl extract --output /tmp/extracted.csv`,
	Args: cobra.NoArgs,
	RunE: runExtract,
}

type extractFlagValues struct {
	conn    connFlagValues
	table   string
	schema  string
	output  string
	timeout time.Duration
}

var extractFlags extractFlagValues

func init() {
	rootCmd.AddCommand(extractCmd)

	addConnectionFlags(extractCmd, &extractFlags.conn)

	extractCmd.Flags().StringVar(&extractFlags.table, "table", "",
		"Staging table name (default: raw_purchases, or petl.yaml)")
	extractCmd.Flags().StringVar(&extractFlags.schema, "schema", "",
		"Staging schema (default: raw, or petl.yaml)")
	extractCmd.Flags().StringVarP(&extractFlags.output, "output", "o", "",
		"Output file path (default: datasets/extracted.csv, or petl.yaml)")
	extractCmd.Flags().DurationVar(&extractFlags.timeout, "timeout", petl.DefaultStageTimeout,
		"Catastrophic failure protection timeout")
}

func runExtract(cmd *cobra.Command, args []string) error {
	verbose := getVerboseFlag(cmd)
	_ = godotenv.Load()

	projectCfg, err := config.LoadOptional()
	if err != nil {
		return fmt.Errorf("failed to load %s: %w", config.ConfigFileName, err)
	}

	cfg := petl.ExtractConfig{
		Schema:     firstNonEmpty(extractFlags.schema, projectCfg.Staging.Schema, petl.DefaultRawSchema),
		Table:      firstNonEmpty(extractFlags.table, projectCfg.Staging.Table, petl.DefaultRawTable),
		OutputPath: firstNonEmpty(extractFlags.output, projectCfg.Extract.Output, petl.DefaultExtractOutput),
		Timeout:    extractFlags.timeout,
		Verbose:    verbose,
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	connConfig, err := resolveConnection(&extractFlags.conn, projectCfg, verbose)
	if err != nil {
		return err
	}

	ctx, cancel := stageContext(cfg.Timeout, "extract")
	defer cancel()

	pool, err := connect(ctx, connConfig)
	if err != nil {
		return err
	}
	defer pool.Close()

	extractor := extract.NewExtractor(pool, logging.NewConsoleLogger(verbose))
	if _, err := extractor.Extract(ctx, cfg); err != nil {
		return fmt.Errorf("extract failed: %w", err)
	}
	return nil
}
