package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/vvka-141/petl/internal/config"
	"github.com/vvka-141/petl/internal/db"
	"github.com/vvka-141/petl/internal/logging"
	"github.com/vvka-141/petl/internal/rawload"
	"github.com/vvka-141/petl/internal/ui"
	"github.com/vvka-141/petl/pkg/petl"
)

var loadCmd = &cobra.Command{
	Use:   "load <input.csv>",
	Short: "Load a raw purchases CSV into the staging table",
	Long: `Load reads a delimited purchases file and persists it verbatim into an
all-text staging table (default raw.raw_purchases).

Every field is kept as text: no numeric or date coercion happens at this
stage, so oversized or malformed values never fail ingestion. Validation
and typing are the transform stage's job.

The input must carry these columns (case-insensitive):
  id, name, company_id, amount, status, created_at, paid_at

Policies for an existing staging table (--if-exists):
  replace  Drop and recreate (default). Asks for confirmation unless
           --force is given.
  append   Keep existing rows, add the new ones.
  fail     Abort if the table exists.

Examples:
  # Basic load with defaults (raw.raw_purchases, replace)
  petl load datasets/purchases.csv

  # Load into a different staging relation, fail if it exists
  petl load datasets/purchases.csv --schema staging --table purchases --if-exists fail

  # Non-interactive replace for scripted runs
  petl load datasets/purchases.csv --force`,
	Args: cobra.ExactArgs(1),
	RunE: runLoad,
}

type loadFlagValues struct {
	conn     connFlagValues
	table    string
	schema   string
	ifExists string
	force    bool
	timeout  time.Duration
}

var loadFlags loadFlagValues

func init() {
	rootCmd.AddCommand(loadCmd)

	addConnectionFlags(loadCmd, &loadFlags.conn)

	loadCmd.Flags().StringVar(&loadFlags.table, "table", "",
		"Staging table name (default: raw_purchases, or petl.yaml)")
	loadCmd.Flags().StringVar(&loadFlags.schema, "schema", "",
		"Staging schema (default: raw, or petl.yaml)")
	loadCmd.Flags().StringVar(&loadFlags.ifExists, "if-exists", string(petl.IfExistsReplace),
		"What to do if the staging table already exists: fail|replace|append")
	loadCmd.Flags().BoolVar(&loadFlags.force, "force", false,
		"Skip the interactive approval prompt when replacing an existing table\n"+
			"Use for CI/CD pipelines")
	loadCmd.Flags().DurationVar(&loadFlags.timeout, "timeout", petl.DefaultStageTimeout,
		"Catastrophic failure protection timeout\n"+
			"Examples: 30s, 5m, 1h30m")
}

func runLoad(cmd *cobra.Command, args []string) error {
	verbose := getVerboseFlag(cmd)
	_ = godotenv.Load()

	projectCfg, err := config.LoadOptional()
	if err != nil {
		return fmt.Errorf("failed to load %s: %w", config.ConfigFileName, err)
	}

	policy, err := petl.ParseIfExistsPolicy(loadFlags.ifExists)
	if err != nil {
		return err
	}

	cfg := petl.LoadConfig{
		InputPath: args[0],
		Schema:    firstNonEmpty(loadFlags.schema, projectCfg.Staging.Schema, petl.DefaultRawSchema),
		Table:     firstNonEmpty(loadFlags.table, projectCfg.Staging.Table, petl.DefaultRawTable),
		IfExists:  policy,
		Force:     loadFlags.force,
		Timeout:   loadFlags.timeout,
		Verbose:   verbose,
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	connConfig, err := resolveConnection(&loadFlags.conn, projectCfg, verbose)
	if err != nil {
		return err
	}

	ctx, cancel := stageContext(cfg.Timeout, "load")
	defer cancel()

	pool, err := connect(ctx, connConfig)
	if err != nil {
		return err
	}
	defer pool.Close()

	var approver petl.Approver
	if loadFlags.force {
		approver = ui.NewForcedApprover(verbose)
	} else {
		approver = ui.NewInteractiveApprover(verbose)
	}

	logger := logging.NewConsoleLogger(verbose)
	loader := rawload.NewLoader(pool, approver, logger)

	if _, err := loader.Load(ctx, cfg); err != nil {
		return fmt.Errorf("raw load failed: %w", err)
	}
	return nil
}

// stageContext builds a timeout-bounded context that is cancelled on
// SIGINT/SIGTERM for a graceful stop.
func stageContext(timeout time.Duration, stage string) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		select {
		case <-sigChan:
			fmt.Fprintf(os.Stderr, "\n[INTERRUPT] Received interrupt signal, cancelling %s...\n", stage)
			cancel()
		case <-ctx.Done():
		}
	}()

	return ctx, cancel
}

// connect builds the appropriate connector for the config and opens a pool.
func connect(ctx context.Context, connConfig *petl.ConnectionConfig) (*pgxpool.Pool, error) {
	connector, err := db.NewConnector(connConfig)
	if err != nil {
		return nil, err
	}

	pool, err := connector.Connect(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", petl.ErrConnectionFailed, err)
	}
	return pool, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
