package petl

import (
	"errors"
	"fmt"
	"time"
)

// AuthMethod represents the type of authentication to use.
type AuthMethod int

const (
	AuthMethodStandard AuthMethod = iota // Username/Password
	AuthMethodAWSIAM                     // AWS IAM Database Authentication (RDS)
)

// String returns a human-readable string representation of the AuthMethod.
func (a AuthMethod) String() string {
	switch a {
	case AuthMethodStandard:
		return "Standard"
	case AuthMethodAWSIAM:
		return "AWS IAM"
	default:
		return fmt.Sprintf("Unknown(%d)", a)
	}
}

// ConnectionConfig represents resolved connection parameters.
type ConnectionConfig struct {
	Host     string
	Port     int
	Database string
	Username string
	Password string
	SSLMode  string

	// AuthMethod indicates the authentication mechanism to use
	AuthMethod AuthMethod

	// AWSRegion is required when AuthMethod is AuthMethodAWSIAM.
	AWSRegion string

	// Additional connection parameters
	AppName          string
	ConnectTimeout   time.Duration
	AdditionalParams map[string]string
}

// IfExistsPolicy controls what a load stage does when the destination
// relation already holds data.
type IfExistsPolicy string

const (
	// IfExistsFail aborts the run if the destination table exists.
	IfExistsFail IfExistsPolicy = "fail"

	// IfExistsReplace drops existing contents and reloads. This is the
	// pipeline's idempotency mechanism: reruns converge on the same state.
	IfExistsReplace IfExistsPolicy = "replace"

	// IfExistsAppend keeps existing rows and inserts new ones, skipping
	// primary key conflicts.
	IfExistsAppend IfExistsPolicy = "append"
)

// ParseIfExistsPolicy validates a policy string from a CLI flag.
func ParseIfExistsPolicy(s string) (IfExistsPolicy, error) {
	switch IfExistsPolicy(s) {
	case IfExistsFail, IfExistsReplace, IfExistsAppend:
		return IfExistsPolicy(s), nil
	default:
		return "", fmt.Errorf("if-exists must be one of fail|replace|append, got %q: %w", s, ErrInvalidConfig)
	}
}

// LoadConfig contains all parameters for the raw load stage.
type LoadConfig struct {
	// InputPath is the delimited purchases file to ingest.
	InputPath string

	// Schema and Table name the staging relation (default raw.raw_purchases).
	Schema string
	Table  string

	// IfExists controls behavior when the staging table already exists.
	IfExists IfExistsPolicy

	// Force bypasses interactive approval for replace.
	Force bool

	// Timeout bounds the whole stage run.
	Timeout time.Duration

	// Verbose enables detailed logging.
	Verbose bool
}

// Validate checks if the LoadConfig has all required fields and valid values.
// It returns a multi-error if multiple validation failures occur.
func (c *LoadConfig) Validate() error {
	var errs []error

	if c.InputPath == "" {
		errs = append(errs, fmt.Errorf("InputPath is required: %w", ErrInvalidConfig))
	}
	if c.Schema == "" {
		errs = append(errs, fmt.Errorf("Schema is required: %w", ErrInvalidConfig))
	}
	if c.Table == "" {
		errs = append(errs, fmt.Errorf("Table is required: %w", ErrInvalidConfig))
	}

	switch c.IfExists {
	case IfExistsFail, IfExistsReplace, IfExistsAppend:
	default:
		errs = append(errs, fmt.Errorf("IfExists policy %q is invalid: %w", c.IfExists, ErrInvalidConfig))
	}

	if c.Timeout < 0 {
		errs = append(errs, fmt.Errorf("timeout cannot be negative: %w", ErrInvalidConfig))
	}

	return errors.Join(errs...)
}

// ExtractConfig contains all parameters for the extract stage.
type ExtractConfig struct {
	// Schema and Table name the staging relation to read.
	Schema string
	Table  string

	// OutputPath is the delimited file to write. Parent directories are
	// created as needed.
	OutputPath string

	// Timeout bounds the whole stage run.
	Timeout time.Duration

	// Verbose enables detailed logging.
	Verbose bool
}

// Validate checks if the ExtractConfig has all required fields.
func (c *ExtractConfig) Validate() error {
	var errs []error

	if c.Schema == "" {
		errs = append(errs, fmt.Errorf("Schema is required: %w", ErrInvalidConfig))
	}
	if c.Table == "" {
		errs = append(errs, fmt.Errorf("Table is required: %w", ErrInvalidConfig))
	}
	if c.OutputPath == "" {
		errs = append(errs, fmt.Errorf("OutputPath is required: %w", ErrInvalidConfig))
	}

	return errors.Join(errs...)
}

// TransformConfig contains all parameters for the transform stage.
type TransformConfig struct {
	// InputPath is the extracted purchases file to transform.
	InputPath string

	// Database is the destination warehouse database. Created on demand
	// through the maintenance connection if it does not exist.
	Database string

	// IfExists controls destination behavior: replace truncates both
	// tables first; append keeps rows and skips conflicting ids.
	// Fail is not meaningful here because the DDL is create-if-missing.
	IfExists IfExistsPolicy

	// Timeout bounds the whole stage run.
	Timeout time.Duration

	// Verbose enables detailed logging.
	Verbose bool
}

// Validate checks if the TransformConfig has all required fields and valid values.
func (c *TransformConfig) Validate() error {
	var errs []error

	if c.InputPath == "" {
		errs = append(errs, fmt.Errorf("InputPath is required: %w", ErrInvalidConfig))
	}
	if c.Database == "" {
		errs = append(errs, fmt.Errorf("Database is required: %w", ErrInvalidConfig))
	}

	switch c.IfExists {
	case IfExistsReplace, IfExistsAppend:
	default:
		errs = append(errs, fmt.Errorf("IfExists policy %q is invalid for transform (replace|append): %w", c.IfExists, ErrInvalidConfig))
	}

	if c.Timeout < 0 {
		errs = append(errs, fmt.Errorf("timeout cannot be negative: %w", ErrInvalidConfig))
	}

	return errors.Join(errs...)
}
