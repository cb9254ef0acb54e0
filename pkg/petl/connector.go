package petl

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Connector abstracts database connection establishment so stages stay
// independent of the authentication mechanism in use.
type Connector interface {
	// Connect establishes a connection pool to the configured database.
	// Implementations retry transient failures and verify the connection
	// with a ping before returning.
	Connect(ctx context.Context) (*pgxpool.Pool, error)
}

// ConnectorFactory creates a Connector for the given configuration.
// Injected into stage constructors to keep them testable.
type ConnectorFactory func(config *ConnectionConfig) (Connector, error)
