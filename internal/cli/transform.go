package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/vvka-141/petl/internal/config"
	"github.com/vvka-141/petl/internal/csvio"
	"github.com/vvka-141/petl/internal/db"
	"github.com/vvka-141/petl/internal/logging"
	"github.com/vvka-141/petl/internal/transform"
	"github.com/vvka-141/petl/pkg/petl"
)

var transformCmd = &cobra.Command{
	Use:   "transform <input.csv>",
	Short: "Transform the extracted file into the warehouse tables",
	Long: `Transform reads the extracted purchases file, validates and types every
row, resolves companies, and loads the warehouse tables:

  companies  One row per distinct organization. Identifiers are
             deduplicated case- and whitespace-insensitively; each gets a
             system-generated surrogate key.
  charges    One row per valid purchase, referencing its company by
             foreign key. Amounts are fixed-point DECIMAL(16,2); rows with
             non-numeric, negative or out-of-range amounts are dropped, as
             are rows missing id, company_id, status or a parseable
             created_at. paid_at may be empty.

A read-only view (daily_company_charges) aggregating charge amounts per
day and company is (re)created with the schema.

The destination database is created if it does not exist. Companies load
before charges so the foreign key holds at all times.

Load modes (--if-exists):
  replace  Truncate both tables and reload (default). Rerunning on the
           same input yields identical contents.
  append   Keep existing rows; conflicting ids are skipped and existing
           companies keep their surrogate keys.

Examples:
  # Transform with defaults into the 'warehouse' database
  petl transform datasets/extracted.csv

  # Append to existing tables
  petl transform datasets/extracted.csv --if-exists append`,
	Args: cobra.ExactArgs(1),
	RunE: runTransform,
}

type transformFlagValues struct {
	conn      connFlagValues
	warehouse string
	ifExists  string
	timeout   time.Duration
}

var transformFlags transformFlagValues

func init() {
	rootCmd.AddCommand(transformCmd)

	addConnectionFlags(transformCmd, &transformFlags.conn)

	transformCmd.Flags().StringVar(&transformFlags.warehouse, "warehouse", "",
		"Destination database (default: warehouse, or petl.yaml). Created if missing.")
	transformCmd.Flags().StringVar(&transformFlags.ifExists, "if-exists", string(petl.IfExistsReplace),
		"Destination behavior: replace (truncate and reload) or append")
	transformCmd.Flags().DurationVar(&transformFlags.timeout, "timeout", petl.DefaultStageTimeout,
		"Catastrophic failure protection timeout")
}

func runTransform(cmd *cobra.Command, args []string) error {
	verbose := getVerboseFlag(cmd)
	_ = godotenv.Load()

	projectCfg, err := config.LoadOptional()
	if err != nil {
		return fmt.Errorf("failed to load %s: %w", config.ConfigFileName, err)
	}

	policy, err := petl.ParseIfExistsPolicy(transformFlags.ifExists)
	if err != nil {
		return err
	}

	cfg := petl.TransformConfig{
		InputPath: args[0],
		Database:  firstNonEmpty(transformFlags.warehouse, projectCfg.Warehouse.Database, petl.DefaultWarehouseDatabase),
		IfExists:  policy,
		Timeout:   transformFlags.timeout,
		Verbose:   verbose,
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	connConfig, err := resolveConnection(&transformFlags.conn, projectCfg, verbose)
	if err != nil {
		return err
	}

	logger := logging.NewConsoleLogger(verbose)

	ctx, cancel := stageContext(cfg.Timeout, "transform")
	defer cancel()

	// Read and validate the input before touching the database.
	table, err := csvio.Read(cfg.InputPath)
	if err != nil {
		return err
	}

	// Destination database first, through the maintenance connection.
	if err := ensureWarehouseExists(ctx, connConfig, cfg.Database, logger); err != nil {
		return err
	}

	warehouseConfig := *connConfig
	warehouseConfig.Database = cfg.Database

	pool, err := connect(ctx, &warehouseConfig)
	if err != nil {
		return err
	}
	defer pool.Close()

	loader := transform.NewLoader(pool, logger)
	if err := loader.EnsureSchema(ctx); err != nil {
		return err
	}

	resolver := transform.NewCompanyResolver()
	if cfg.IfExists == petl.IfExistsAppend {
		existing, err := loader.ExistingCompanies(ctx)
		if err != nil {
			return err
		}
		for _, c := range existing {
			resolver.Preseed(c.NaturalKey, c.ID, c.Name)
		}
		logger.Verbose("Preseeded %d existing companies", len(existing))
	}

	result, err := transform.NewTransformer(logger).Transform(table, resolver)
	if err != nil {
		return err
	}

	if err := loader.Load(ctx, result, cfg.IfExists); err != nil {
		return fmt.Errorf("transform load failed: %w", err)
	}

	companies, charges, err := loader.Counts(ctx)
	if err != nil {
		return err
	}
	logger.Info("[OK] Transform complete. companies=%d | charges=%d", companies, charges)
	return nil
}

// ensureWarehouseExists creates the destination database on demand using a
// short-lived maintenance connection.
func ensureWarehouseExists(ctx context.Context, connConfig *petl.ConnectionConfig, database string, logger petl.Logger) error {
	maintenanceConfig := *connConfig
	if maintenanceConfig.Database == "" || maintenanceConfig.Database == database {
		maintenanceConfig.Database = petl.DefaultManagementDB
	}

	pool, err := connect(ctx, &maintenanceConfig)
	if err != nil {
		return err
	}
	defer pool.Close()

	created, err := db.NewManager().EnsureExists(ctx, pool, database)
	if err != nil {
		return err
	}
	if created {
		logger.Info("[INFO] Created database %q", database)
	} else {
		logger.Verbose("Database %q already exists", database)
	}
	return nil
}
