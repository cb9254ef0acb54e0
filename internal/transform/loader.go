package transform

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/vvka-141/petl/pkg/petl"
)

// warehouseDDL creates the destination tables and the derived daily view.
// Companies carry surrogate UUID keys; the natural key stays alongside for
// deduplication across append runs. Charges reference companies by FK, so
// companies must load first.
const warehouseDDL = `
CREATE TABLE IF NOT EXISTS companies (
    id UUID PRIMARY KEY,
    company_name VARCHAR(130),
    natural_key VARCHAR(130) NOT NULL UNIQUE
);
CREATE TABLE IF NOT EXISTS charges (
    id VARCHAR(64) PRIMARY KEY,
    company_id UUID NOT NULL REFERENCES companies(id),
    amount DECIMAL(16,2) NOT NULL,
    status VARCHAR(30) NOT NULL,
    created_at TIMESTAMP NOT NULL,
    paid_at TIMESTAMP NULL
);
CREATE INDEX IF NOT EXISTS idx_charges_company_id ON charges(company_id);
CREATE INDEX IF NOT EXISTS idx_charges_created_at ON charges(created_at);
CREATE OR REPLACE VIEW daily_company_charges AS
    SELECT
        ch.created_at::date AS charge_day,
        co.id AS company_id,
        co.company_name,
        SUM(ch.amount) AS total_amount,
        COUNT(*) AS charge_count
    FROM charges ch
    JOIN companies co ON co.id = ch.company_id
    GROUP BY charge_day, co.id, co.company_name;
`

// Loader writes a transform Result into the warehouse tables.
type Loader struct {
	pool   *pgxpool.Pool
	logger petl.Logger
}

// NewLoader creates a Loader with all dependencies injected.
func NewLoader(pool *pgxpool.Pool, logger petl.Logger) *Loader {
	return &Loader{
		pool:   pool,
		logger: logger,
	}
}

// EnsureSchema applies the warehouse DDL. Statements are create-if-missing,
// so this is safe on every run.
func (l *Loader) EnsureSchema(ctx context.Context) error {
	for _, stmt := range strings.Split(warehouseDDL, ";") {
		stmt = strings.TrimSpace(stmt)
		if stmt == "" {
			continue
		}
		if _, err := l.pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("failed to apply warehouse DDL: %w: %w", err, petl.ErrLoadFailed)
		}
	}
	return nil
}

// ExistingCompanies returns the persisted natural_key -> (id, name) mapping,
// used to preseed the resolver in append mode so surrogate keys are reused.
func (l *Loader) ExistingCompanies(ctx context.Context) ([]Company, error) {
	rows, err := l.pool.Query(ctx, "SELECT id, COALESCE(company_name, ''), natural_key FROM companies")
	if err != nil {
		return nil, fmt.Errorf("failed to read companies: %w", err)
	}
	defer rows.Close()

	var out []Company
	for rows.Next() {
		var c Company
		if err := rows.Scan(&c.ID, &c.Name, &c.NaturalKey); err != nil {
			return nil, fmt.Errorf("failed to scan company: %w", err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// Load writes companies then charges in a single transaction. Replace mode
// truncates both tables first, making the run idempotent; append mode keeps
// existing rows and skips conflicting ids.
func (l *Loader) Load(ctx context.Context, result *Result, mode petl.IfExistsPolicy) error {
	tx, err := l.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w: %w", err, petl.ErrLoadFailed)
	}
	defer tx.Rollback(ctx)

	if mode == petl.IfExistsReplace {
		// One statement so the FK is honored during truncation.
		if _, err := tx.Exec(ctx, "TRUNCATE TABLE charges, companies RESTART IDENTITY CASCADE"); err != nil {
			return fmt.Errorf("failed to truncate destination tables: %w: %w", err, petl.ErrLoadFailed)
		}
		l.logger.Verbose("Destination tables truncated (replace)")
	}

	batch := &pgx.Batch{}
	for _, c := range result.Companies {
		batch.Queue(`
			INSERT INTO companies (id, company_name, natural_key)
			VALUES ($1, $2, $3)
			ON CONFLICT (natural_key) DO NOTHING
		`, c.ID, nullable(c.Name), c.NaturalKey)
	}
	for _, ch := range result.Charges {
		batch.Queue(`
			INSERT INTO charges (id, company_id, amount, status, created_at, paid_at)
			VALUES ($1, $2, $3, $4, $5, $6)
			ON CONFLICT (id) DO NOTHING
		`, ch.ID, ch.CompanyID, ch.Amount, ch.Status, ch.CreatedAt, ch.PaidAt)
	}

	if err := tx.SendBatch(ctx, batch).Close(); err != nil {
		return fmt.Errorf("failed to write destination tables: %w: %w", err, petl.ErrLoadFailed)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit: %w: %w", err, petl.ErrLoadFailed)
	}

	return nil
}

// Counts reports the destination row counts after a load.
func (l *Loader) Counts(ctx context.Context) (companies, charges int, err error) {
	if err := l.pool.QueryRow(ctx, "SELECT COUNT(*) FROM companies").Scan(&companies); err != nil {
		return 0, 0, fmt.Errorf("failed to count companies: %w", err)
	}
	if err := l.pool.QueryRow(ctx, "SELECT COUNT(*) FROM charges").Scan(&charges); err != nil {
		return 0, 0, fmt.Errorf("failed to count charges: %w", err)
	}
	return companies, charges, nil
}

func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
