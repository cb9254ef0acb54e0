package petl

import "time"

// Exit codes for semantic error classification.
// These follow Unix/GNU conventions:
//   - 0: Success
//   - 1: General error
//   - 2: CLI usage error (misuse of command line)
//   - 3+: Application-specific errors
const (
	ExitSuccess         = 0  // Stage completed successfully
	ExitGeneralError    = 1  // Unknown or unclassified error
	ExitUsageError      = 2  // CLI usage error (missing args, invalid flags)
	ExitPanic           = 3  // Internal panic (unexpected crash)
	ExitConfigError     = 10 // Invalid configuration or parameters
	ExitConnectionError = 11 // Failed to connect to database
	ExitApprovalDenied  = 12 // User denied replace approval
	ExitLoadFailed      = 13 // Database write failed
	ExitInputNotFound   = 14 // Input file not found or unreadable
)

// Default persisted layout. The staging relation lives in its own schema so
// raw, untyped rows never mix with the warehouse tables.
const (
	DefaultRawSchema = "raw"
	DefaultRawTable  = "raw_purchases"

	DefaultWarehouseDatabase = "warehouse"
	CompaniesTable           = "companies"
	ChargesTable             = "charges"
	DailyChargesView         = "daily_company_charges"

	// DefaultExtractOutput is where the extract stage writes the staging
	// table contents between the raw and transform stages.
	DefaultExtractOutput = "datasets/extracted.csv"

	// DefaultManagementDB is the database to connect to for server-level
	// operations such as CREATE DATABASE.
	DefaultManagementDB = "postgres"
)

const (
	// DefaultForceApprovalCountdown is the countdown duration before a
	// forced replace proceeds.
	DefaultForceApprovalCountdown = 5 * time.Second

	// DefaultRetryInitialDelay is the default initial delay before the first retry attempt.
	DefaultRetryInitialDelay = 100 * time.Millisecond

	// DefaultRetryMaxDelay is the default maximum delay between retry attempts.
	DefaultRetryMaxDelay = 1 * time.Minute

	// DefaultRetryMaxAttempts is the default maximum number of retry attempts.
	DefaultRetryMaxAttempts = 3

	// DefaultStageTimeout bounds a whole stage run. Catastrophic failure
	// protection, not fine-grained timeout control; use statement_timeout
	// on the server for query-level limits.
	DefaultStageTimeout = 3 * time.Minute

	// DefaultMissingBound is the sequence upper bound for the missing
	// number utility when none is given.
	DefaultMissingBound = 100
)

// RequiredColumns are the staging columns every purchases input must carry.
// Header matching is case-insensitive after trimming.
var RequiredColumns = []string{"id", "name", "company_id", "amount", "status", "created_at", "paid_at"}

// TimestampLayouts are the accepted textual forms for created_at / paid_at,
// tried in order. The canonical form is the plain date.
var TimestampLayouts = []string{
	"2006-01-02",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04:05.999999",
	time.RFC3339,
}
