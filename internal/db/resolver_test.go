package db

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vvka-141/petl/pkg/petl"
)

func TestResolveConnectionParams_ConnectionString(t *testing.T) {
	config, err := ResolveConnectionParams(
		"postgresql://alice@db.example.com:5433/warehouse",
		&GranularConnFlags{}, &AWSFlags{}, &EnvVars{})
	require.NoError(t, err)

	assert.Equal(t, "db.example.com", config.Host)
	assert.Equal(t, 5433, config.Port)
	assert.Equal(t, "alice", config.Username)
	assert.Equal(t, "warehouse", config.Database)
}

func TestResolveConnectionParams_ConflictingFlags(t *testing.T) {
	_, err := ResolveConnectionParams(
		"postgresql://localhost/db",
		&GranularConnFlags{Host: "other"}, &AWSFlags{}, &EnvVars{})
	require.Error(t, err)
	assert.ErrorIs(t, err, petl.ErrInvalidConfig)
}

func TestResolveConnectionParams_DatabaseFlagOverridesConnString(t *testing.T) {
	// -d is allowed alongside --connection and wins.
	config, err := ResolveConnectionParams(
		"postgresql://localhost/original",
		&GranularConnFlags{Database: "override"}, &AWSFlags{}, &EnvVars{})
	require.NoError(t, err)
	assert.Equal(t, "override", config.Database)
}

func TestResolveConnectionParams_FlagOverEnv(t *testing.T) {
	envVars := &EnvVars{
		PGHOST:     "env-host",
		PGPORT:     "5433",
		PGUSER:     "env-user",
		PGDATABASE: "env-db",
		PGSSLMODE:  "require",
		PGPASSWORD: "env-pass",
	}

	config, err := ResolveConnectionParams("",
		&GranularConnFlags{Host: "flag-host", Port: 5434, Username: "flag-user"},
		&AWSFlags{}, envVars)
	require.NoError(t, err)

	assert.Equal(t, "flag-host", config.Host)
	assert.Equal(t, 5434, config.Port)
	assert.Equal(t, "flag-user", config.Username)
	assert.Equal(t, "env-db", config.Database, "env fills flag gaps")
	assert.Equal(t, "require", config.SSLMode)
	assert.Equal(t, "env-pass", config.Password)
}

func TestResolveConnectionParams_Defaults(t *testing.T) {
	config, err := ResolveConnectionParams("", &GranularConnFlags{}, &AWSFlags{}, &EnvVars{})
	require.NoError(t, err)

	assert.Equal(t, "localhost", config.Host)
	assert.Equal(t, 5432, config.Port)
	assert.Equal(t, "prefer", config.SSLMode)
	assert.NotEmpty(t, config.Username, "falls back to the OS user")
	assert.Equal(t, petl.AuthMethodStandard, config.AuthMethod)
}

func TestResolveConnectionParams_DatabaseURLFallback(t *testing.T) {
	envVars := &EnvVars{DATABASE_URL: "postgresql://heroku@host/app"}

	config, err := ResolveConnectionParams("", &GranularConnFlags{}, &AWSFlags{}, envVars)
	require.NoError(t, err)
	assert.Equal(t, "host", config.Host)
	assert.Equal(t, "app", config.Database)
}

func TestResolveConnectionParams_PGEnvBeatsDatabaseURL(t *testing.T) {
	envVars := &EnvVars{
		PGHOST:       "pg-host",
		DATABASE_URL: "postgresql://ignored@other/app",
	}

	config, err := ResolveConnectionParams("", &GranularConnFlags{}, &AWSFlags{}, envVars)
	require.NoError(t, err)
	assert.Equal(t, "pg-host", config.Host)
}

func TestResolveConnectionParams_InvalidPGPort(t *testing.T) {
	_, err := ResolveConnectionParams("", &GranularConnFlags{}, &AWSFlags{},
		&EnvVars{PGPORT: "not-a-port"})
	require.Error(t, err)
	assert.ErrorIs(t, err, petl.ErrInvalidConfig)
}

func TestResolveConnectionParams_AWSIAM(t *testing.T) {
	config, err := ResolveConnectionParams("", &GranularConnFlags{}, &AWSFlags{
		Enabled: true,
		Region:  "eu-west-1",
	}, &EnvVars{})
	require.NoError(t, err)

	assert.Equal(t, petl.AuthMethodAWSIAM, config.AuthMethod)
	assert.Equal(t, "eu-west-1", config.AWSRegion)
}

func TestResolveConnectionParams_AWSRegionFromEnv(t *testing.T) {
	config, err := ResolveConnectionParams("", &GranularConnFlags{}, &AWSFlags{Enabled: true},
		&EnvVars{AWS_REGION: "us-east-2"})
	require.NoError(t, err)
	assert.Equal(t, "us-east-2", config.AWSRegion)
}

func TestResolveConnectionParams_AWSRegionMissing(t *testing.T) {
	_, err := ResolveConnectionParams("", &GranularConnFlags{}, &AWSFlags{Enabled: true}, &EnvVars{})
	require.Error(t, err)
	assert.ErrorIs(t, err, petl.ErrInvalidConfig)
}
