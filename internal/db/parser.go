package db

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/vvka-141/petl/pkg/petl"
)

// ParseConnectionString parses a PostgreSQL URI connection string and
// returns a ConnectionConfig.
//
// Format: postgresql://[user[:password]@][host][:port][/dbname][?param=value&...]
func ParseConnectionString(connStr string) (*petl.ConnectionConfig, error) {
	if connStr == "" {
		return nil, fmt.Errorf("connection string is empty")
	}

	if !strings.HasPrefix(connStr, "postgresql://") && !strings.HasPrefix(connStr, "postgres://") {
		return nil, fmt.Errorf("unrecognized connection string format (expected postgresql:// URI)")
	}

	u, err := url.Parse(connStr)
	if err != nil {
		return nil, fmt.Errorf("invalid PostgreSQL URI: %w", err)
	}

	config := &petl.ConnectionConfig{
		Host:       "localhost",
		Port:       5432,
		Database:   "postgres",
		SSLMode:    "prefer",
		AuthMethod: petl.AuthMethodStandard,
	}

	if u.Hostname() != "" {
		config.Host = u.Hostname()
	}

	if portStr := u.Port(); portStr != "" {
		port, err := strconv.Atoi(portStr)
		if err != nil || port < 1 || port > 65535 {
			return nil, fmt.Errorf("invalid port %q in connection string", portStr)
		}
		config.Port = port
	}

	if dbName := strings.TrimPrefix(u.Path, "/"); dbName != "" {
		config.Database = dbName
	}

	if u.User != nil {
		config.Username = u.User.Username()
		if password, ok := u.User.Password(); ok {
			config.Password = password
		}
	}

	query := u.Query()
	for key, values := range query {
		if len(values) == 0 {
			continue
		}
		value := values[0]

		switch key {
		case "sslmode":
			config.SSLMode = value
		case "application_name":
			config.AppName = value
		case "connect_timeout":
			seconds, err := strconv.Atoi(value)
			if err != nil {
				return nil, fmt.Errorf("invalid connect_timeout %q", value)
			}
			config.ConnectTimeout = time.Duration(seconds) * time.Second
		default:
			if config.AdditionalParams == nil {
				config.AdditionalParams = make(map[string]string)
			}
			config.AdditionalParams[key] = value
		}
	}

	return config, nil
}

// BuildConnectionString serializes a ConnectionConfig back into a
// PostgreSQL URI suitable for pgxpool.ParseConfig.
func BuildConnectionString(config *petl.ConnectionConfig) string {
	u := &url.URL{
		Scheme: "postgresql",
		Host:   fmt.Sprintf("%s:%d", config.Host, config.Port),
		Path:   "/" + config.Database,
	}

	if config.Username != "" {
		if config.Password != "" {
			u.User = url.UserPassword(config.Username, config.Password)
		} else {
			u.User = url.User(config.Username)
		}
	}

	query := url.Values{}
	if config.SSLMode != "" {
		query.Set("sslmode", config.SSLMode)
	}
	if config.AppName != "" {
		query.Set("application_name", config.AppName)
	}
	if config.ConnectTimeout > 0 {
		query.Set("connect_timeout", strconv.Itoa(int(config.ConnectTimeout.Seconds())))
	}

	for key, value := range config.AdditionalParams {
		query.Set(key, value)
	}

	u.RawQuery = query.Encode()
	return u.String()
}
