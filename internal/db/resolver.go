package db

import (
	"fmt"
	"os"
	"os/user"
	"strconv"

	"github.com/vvka-141/petl/pkg/petl"
)

// GranularConnFlags represents connection parameters from CLI flags.
// These follow PostgreSQL standard flag conventions (-h, -p, -U, -d).
//
// Note: Password is NOT included as a CLI flag for security reasons.
// Use one of these methods instead:
//  1. $PGPASSWORD environment variable
//  2. Connection string with embedded password
//  3. The interactive terminal prompt
type GranularConnFlags struct {
	Host     string
	Port     int
	Username string
	Database string
	SSLMode  string
}

// IsEmpty returns true if no connection-related granular flags were provided.
// Database is excluded because it can override the database embedded in a
// connection string.
func (g *GranularConnFlags) IsEmpty() bool {
	return g.Host == "" && g.Port == 0 && g.Username == "" && g.SSLMode == ""
}

// AWSFlags represents AWS RDS IAM authentication CLI flags.
type AWSFlags struct {
	Enabled bool
	Region  string // Overrides $AWS_REGION
}

// EnvVars represents PostgreSQL standard environment variables.
// See: https://www.postgresql.org/docs/current/libpq-envars.html
type EnvVars struct {
	PGHOST       string
	PGPORT       string
	PGUSER       string
	PGPASSWORD   string // discouraged outside local development
	PGDATABASE   string
	PGSSLMODE    string
	DATABASE_URL string // Full connection string (Heroku/Rails convention)
	AWS_REGION   string
}

// LoadFromEnvironment loads PostgreSQL and AWS environment variables.
// This follows standard PostgreSQL client behavior.
func LoadFromEnvironment() *EnvVars {
	return &EnvVars{
		PGHOST:       os.Getenv("PGHOST"),
		PGPORT:       os.Getenv("PGPORT"),
		PGUSER:       os.Getenv("PGUSER"),
		PGPASSWORD:   os.Getenv("PGPASSWORD"),
		PGDATABASE:   os.Getenv("PGDATABASE"),
		PGSSLMODE:    os.Getenv("PGSSLMODE"),
		DATABASE_URL: os.Getenv("DATABASE_URL"),
		AWS_REGION:   os.Getenv("AWS_REGION"),
	}
}

// ResolveConnectionParams resolves connection parameters using
// PostgreSQL-standard precedence:
//
//  1. Connection string flag (--connection) - parsed and used directly
//  2. Granular flags (-h, -p, -U, -d)
//  3. Environment variables (PGHOST, PGPORT, ...)
//  4. DATABASE_URL environment variable
//  5. Defaults (localhost:5432, current OS user, prefer SSL)
//
// Returns an error if BOTH --connection and granular flags are provided;
// this prevents ambiguity about which source wins.
//
// When awsFlags.Enabled is set, the AuthMethod becomes AWS IAM and the
// region is resolved from the flag or $AWS_REGION.
func ResolveConnectionParams(
	connStringFlag string,
	granularFlags *GranularConnFlags,
	awsFlags *AWSFlags,
	envVars *EnvVars,
) (*petl.ConnectionConfig, error) {
	if granularFlags == nil {
		granularFlags = &GranularConnFlags{}
	}
	if awsFlags == nil {
		awsFlags = &AWSFlags{}
	}
	if envVars == nil {
		envVars = LoadFromEnvironment()
	}

	if connStringFlag != "" && !granularFlags.IsEmpty() {
		return nil, fmt.Errorf("cannot combine --connection with granular connection flags (--host, --port, --username, --sslmode): %w", petl.ErrInvalidConfig)
	}

	var config *petl.ConnectionConfig
	var err error

	switch {
	case connStringFlag != "":
		config, err = ParseConnectionString(connStringFlag)
		if err != nil {
			return nil, fmt.Errorf("invalid --connection value: %w", err)
		}

	case granularFlags.IsEmpty() && envVars.DATABASE_URL != "" && !hasPGEnv(envVars):
		config, err = ParseConnectionString(envVars.DATABASE_URL)
		if err != nil {
			return nil, fmt.Errorf("invalid DATABASE_URL: %w", err)
		}

	default:
		config, err = buildFromFlagsAndEnv(granularFlags, envVars)
		if err != nil {
			return nil, err
		}
	}

	// -d always overrides the database embedded in a connection string
	if granularFlags.Database != "" {
		config.Database = granularFlags.Database
	}

	if awsFlags.Enabled {
		config.AuthMethod = petl.AuthMethodAWSIAM
		config.AWSRegion = awsFlags.Region
		if config.AWSRegion == "" {
			config.AWSRegion = envVars.AWS_REGION
		}
		if config.AWSRegion == "" {
			return nil, fmt.Errorf("AWS IAM auth requires a region (use --aws-region or $AWS_REGION): %w", petl.ErrInvalidConfig)
		}
	}

	return config, nil
}

// hasPGEnv reports whether any granular PG* variable is set, in which case
// those take precedence over DATABASE_URL.
func hasPGEnv(envVars *EnvVars) bool {
	return envVars.PGHOST != "" || envVars.PGPORT != "" || envVars.PGUSER != "" || envVars.PGDATABASE != ""
}

// buildFromFlagsAndEnv builds a config with flag > env > default precedence.
func buildFromFlagsAndEnv(flags *GranularConnFlags, envVars *EnvVars) (*petl.ConnectionConfig, error) {
	config := &petl.ConnectionConfig{
		Host:       "localhost",
		Port:       5432,
		SSLMode:    "prefer",
		AuthMethod: petl.AuthMethodStandard,
	}

	if envVars.PGHOST != "" {
		config.Host = envVars.PGHOST
	}
	if flags.Host != "" {
		config.Host = flags.Host
	}

	if envVars.PGPORT != "" {
		port, err := strconv.Atoi(envVars.PGPORT)
		if err != nil || port < 1 || port > 65535 {
			return nil, fmt.Errorf("invalid PGPORT value %q: %w", envVars.PGPORT, petl.ErrInvalidConfig)
		}
		config.Port = port
	}
	if flags.Port != 0 {
		if flags.Port < 1 || flags.Port > 65535 {
			return nil, fmt.Errorf("invalid port %d: %w", flags.Port, petl.ErrInvalidConfig)
		}
		config.Port = flags.Port
	}

	config.Username = envVars.PGUSER
	if flags.Username != "" {
		config.Username = flags.Username
	}
	if config.Username == "" {
		if current, err := user.Current(); err == nil {
			config.Username = current.Username
		}
	}

	config.Password = envVars.PGPASSWORD

	config.Database = envVars.PGDATABASE
	if flags.Database != "" {
		config.Database = flags.Database
	}

	if envVars.PGSSLMODE != "" {
		config.SSLMode = envVars.PGSSLMODE
	}
	if flags.SSLMode != "" {
		config.SSLMode = flags.SSLMode
	}

	return config, nil
}
