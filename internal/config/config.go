package config

import (
	"errors"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// ErrConfigNotFound is returned when the config file does not exist.
// Callers can check for this with errors.Is(err, config.ErrConfigNotFound).
var ErrConfigNotFound = errors.New("config file not found")

// ConnectionConfig carries connection defaults from the project file.
// CLI flags and PG* environment variables take precedence.
type ConnectionConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Username string `yaml:"username"`
	Database string `yaml:"database"`
	SSLMode  string `yaml:"sslmode"`
}

// StagingConfig names the raw staging relation.
type StagingConfig struct {
	Schema string `yaml:"schema"`
	Table  string `yaml:"table"`
}

// ExtractConfig carries extract stage defaults.
type ExtractConfig struct {
	Output string `yaml:"output"`
}

// WarehouseConfig carries transform stage defaults.
type WarehouseConfig struct {
	Database string `yaml:"database"`
}

// ProjectConfig is the optional petl.yaml project file.
type ProjectConfig struct {
	Connection ConnectionConfig `yaml:"connection"`
	Staging    StagingConfig    `yaml:"staging"`
	Extract    ExtractConfig    `yaml:"extract"`
	Warehouse  WarehouseConfig  `yaml:"warehouse"`
}

const ConfigFileName = "petl.yaml"

// Load reads petl.yaml from the given directory.
func Load(sourcePath string) (*ProjectConfig, error) {
	configPath := filepath.Join(sourcePath, ConfigFileName)
	data, err := os.ReadFile(configPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrConfigNotFound
		}
		return nil, err
	}

	var cfg ProjectConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// LoadOptional reads petl.yaml from the working directory, treating absence
// as an empty config. Every stage CLI goes through this.
func LoadOptional() (*ProjectConfig, error) {
	cfg, err := Load(".")
	if errors.Is(err, ErrConfigNotFound) {
		return &ProjectConfig{}, nil
	}
	if err != nil {
		return nil, err
	}
	return cfg, nil
}
