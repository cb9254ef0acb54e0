package petl

import (
	"errors"
	"strings"
)

// Sentinel errors for common failure scenarios.
// These enable callers to distinguish error types using errors.Is().
//
// Example usage:
//
//	err := loader.Load(ctx, cfg)
//	if errors.Is(err, petl.ErrTableExists) {
//	    // Handle the fail-on-existing policy
//	}
var (
	// ErrInvalidConfig indicates the provided configuration is invalid.
	ErrInvalidConfig = errors.New("invalid configuration")

	// ErrConnectionFailed indicates database connection failed.
	ErrConnectionFailed = errors.New("connection failed")

	// ErrTableExists indicates the target table already exists and the
	// if-exists policy is set to fail.
	ErrTableExists = errors.New("table already exists")

	// ErrApprovalDenied indicates the user denied approval for a replace.
	ErrApprovalDenied = errors.New("approval denied")

	// ErrLoadFailed indicates a database write failed.
	ErrLoadFailed = errors.New("load failed")

	// ErrInputNotFound indicates the input file is missing or unreadable.
	ErrInputNotFound = errors.New("input file not found")

	// ErrMissingColumns indicates the input lacks required columns.
	ErrMissingColumns = errors.New("missing required columns")

	// ErrInvalidBound indicates an invalid sequence bound for the missing
	// number computation.
	ErrInvalidBound = errors.New("invalid sequence bound")

	// ErrUnsupportedAuthMethod indicates the requested authentication method is not supported.
	ErrUnsupportedAuthMethod = errors.New("unsupported authentication method")
)

// ExitCodeForError returns the appropriate exit code for an error.
// Returns ExitSuccess (0) for nil errors, semantic codes for known errors,
// and ExitGeneralError (1) for unclassified errors.
func ExitCodeForError(err error) int {
	if err == nil {
		return ExitSuccess
	}

	// Check for sentinel errors
	switch {
	case errors.Is(err, ErrInvalidConfig):
		return ExitConfigError
	case errors.Is(err, ErrInvalidBound):
		return ExitConfigError
	case errors.Is(err, ErrUnsupportedAuthMethod):
		return ExitConfigError
	case errors.Is(err, ErrConnectionFailed):
		return ExitConnectionError
	case errors.Is(err, ErrApprovalDenied):
		return ExitApprovalDenied
	case errors.Is(err, ErrTableExists):
		return ExitLoadFailed
	case errors.Is(err, ErrLoadFailed):
		return ExitLoadFailed
	case errors.Is(err, ErrInputNotFound):
		return ExitInputNotFound
	case errors.Is(err, ErrMissingColumns):
		return ExitInputNotFound
	}

	// Check for common connection error patterns
	errStr := err.Error()
	if strings.Contains(errStr, "failed to connect") ||
		strings.Contains(errStr, "connection refused") ||
		strings.Contains(errStr, "no such host") {
		return ExitConnectionError
	}

	return ExitGeneralError
}
