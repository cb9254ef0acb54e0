// Package rawload implements the raw ingestion stage: a purchases CSV is
// persisted verbatim into an all-text staging table. No business typing
// happens here; keeping every field as text means oversized or malformed
// values cannot fail ingestion, and all validation is deferred to the
// transform stage.
package rawload

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/vvka-141/petl/internal/csvio"
	"github.com/vvka-141/petl/internal/db"
	"github.com/vvka-141/petl/pkg/petl"
)

// Loader persists raw CSV tables into the staging schema.
type Loader struct {
	pool     *pgxpool.Pool
	approver petl.Approver
	logger   petl.Logger
}

// NewLoader creates a Loader with all dependencies injected.
func NewLoader(pool *pgxpool.Pool, approver petl.Approver, logger petl.Logger) *Loader {
	return &Loader{
		pool:     pool,
		approver: approver,
		logger:   logger,
	}
}

// Load reads the input file and replaces (or appends to, per policy) the
// staging table. Returns the number of rows written. The read happens fully
// before any write, so an unreadable file never leaves partial state.
func (l *Loader) Load(ctx context.Context, cfg petl.LoadConfig) (int, error) {
	if err := cfg.Validate(); err != nil {
		return 0, err
	}

	table, err := csvio.Read(cfg.InputPath)
	if err != nil {
		return 0, err
	}
	if err := table.RequireColumns(petl.RequiredColumns); err != nil {
		return 0, err
	}

	// Light cleanup only: no business logic in the raw stage.
	table.DropEmptyColumns()
	trimTextColumns(table)

	l.logger.Verbose("Read %d rows, %d columns from %s", len(table.Rows), len(table.Header), cfg.InputPath)

	qualified := fmt.Sprintf("%s.%s",
		pgx.Identifier{cfg.Schema}.Sanitize(),
		pgx.Identifier{cfg.Table}.Sanitize())

	if _, err := l.pool.Exec(ctx, fmt.Sprintf("CREATE SCHEMA IF NOT EXISTS %s", pgx.Identifier{cfg.Schema}.Sanitize())); err != nil {
		return 0, fmt.Errorf("failed to create schema %q: %w: %w", cfg.Schema, err, petl.ErrLoadFailed)
	}

	exists, err := db.NewManager().TableExists(ctx, l.pool, cfg.Schema, cfg.Table)
	if err != nil {
		return 0, err
	}

	if exists {
		switch cfg.IfExists {
		case petl.IfExistsFail:
			return 0, fmt.Errorf("%s.%s: %w", cfg.Schema, cfg.Table, petl.ErrTableExists)

		case petl.IfExistsReplace:
			approved, err := l.approver.RequestApproval(ctx, fmt.Sprintf("%s.%s", cfg.Schema, cfg.Table))
			if err != nil {
				return 0, fmt.Errorf("approval failed: %w", err)
			}
			if !approved {
				return 0, petl.ErrApprovalDenied
			}
		}
	}

	tx, err := l.pool.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w: %w", err, petl.ErrLoadFailed)
	}
	defer tx.Rollback(ctx)

	if exists && cfg.IfExists == petl.IfExistsReplace {
		if _, err := tx.Exec(ctx, fmt.Sprintf("DROP TABLE %s", qualified)); err != nil {
			return 0, fmt.Errorf("failed to drop %s: %w: %w", qualified, err, petl.ErrLoadFailed)
		}
		exists = false
		l.logger.Verbose("Dropped existing table %s", qualified)
	}

	if !exists {
		if _, err := tx.Exec(ctx, createTableSQL(qualified, table.Header)); err != nil {
			return 0, fmt.Errorf("failed to create %s: %w: %w", qualified, err, petl.ErrLoadFailed)
		}
	}

	count, err := copyRows(ctx, tx, cfg.Schema, cfg.Table, table)
	if err != nil {
		return 0, fmt.Errorf("failed to write rows: %w: %w", err, petl.ErrLoadFailed)
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("failed to commit: %w: %w", err, petl.ErrLoadFailed)
	}

	l.logger.Info("[OK] %d rows loaded into %s.%s", count, cfg.Schema, cfg.Table)
	return count, nil
}

// createTableSQL builds an all-text CREATE TABLE for the staging relation.
// Column identifiers come from the normalized CSV header.
func createTableSQL(qualified string, header []string) string {
	cols := make([]string, len(header))
	for i, name := range header {
		cols[i] = fmt.Sprintf("%s TEXT", pgx.Identifier{name}.Sanitize())
	}
	return fmt.Sprintf("CREATE TABLE %s (%s)", qualified, strings.Join(cols, ", "))
}

// copyRows bulk-inserts all rows via the COPY protocol. Empty cells are
// stored as NULL so the extract stage round-trips them as empty strings.
func copyRows(ctx context.Context, tx pgx.Tx, schema, table string, t *csvio.Table) (int, error) {
	rows := make([][]any, len(t.Rows))
	for i, row := range t.Rows {
		vals := make([]any, len(row))
		for j, cell := range row {
			if cell == "" {
				vals[j] = nil
			} else {
				vals[j] = cell
			}
		}
		rows[i] = vals
	}

	n, err := tx.CopyFrom(ctx, pgx.Identifier{schema, table}, t.Header, pgx.CopyFromRows(rows))
	if err != nil {
		return 0, err
	}
	return int(n), nil
}

// trimTextColumns trims surrounding whitespace on the identifier-ish text
// columns, leaving amount untouched so the transform stage sees the raw value.
func trimTextColumns(t *csvio.Table) {
	for _, name := range []string{"id", "name", "company_id", "status"} {
		idx, ok := t.ColumnIndex(name)
		if !ok {
			continue
		}
		for _, row := range t.Rows {
			row[idx] = strings.TrimSpace(row[idx])
		}
	}
}
