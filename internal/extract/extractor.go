// Package extract implements the pass-through checkpoint between raw
// storage and transformation: the staging table is read in full and
// serialized back to a delimited file, unmodified, so the transform stage
// never needs direct access to the raw schema.
package extract

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/vvka-141/petl/internal/csvio"
	"github.com/vvka-141/petl/pkg/petl"
)

// Extractor reads a staging relation and writes it to a delimited file.
type Extractor struct {
	pool   *pgxpool.Pool
	logger petl.Logger
}

// NewExtractor creates an Extractor with all dependencies injected.
func NewExtractor(pool *pgxpool.Pool, logger petl.Logger) *Extractor {
	return &Extractor{
		pool:   pool,
		logger: logger,
	}
}

// Extract dumps the configured staging table to the output path.
// Column order comes from the table itself; NULLs become empty strings.
// A missing relation or an output I/O failure is fatal.
func (e *Extractor) Extract(ctx context.Context, cfg petl.ExtractConfig) (int, error) {
	if err := cfg.Validate(); err != nil {
		return 0, err
	}

	qualified := fmt.Sprintf("%s.%s",
		pgx.Identifier{cfg.Schema}.Sanitize(),
		pgx.Identifier{cfg.Table}.Sanitize())

	rows, err := e.pool.Query(ctx, fmt.Sprintf("SELECT * FROM %s", qualified))
	if err != nil {
		return 0, fmt.Errorf("failed to read %s.%s: %w", cfg.Schema, cfg.Table, err)
	}
	defer rows.Close()

	fields := rows.FieldDescriptions()
	table := &csvio.Table{Header: make([]string, len(fields))}
	for i, fd := range fields {
		table.Header[i] = fd.Name
	}

	for rows.Next() {
		values, err := rows.Values()
		if err != nil {
			return 0, fmt.Errorf("failed to scan row: %w", err)
		}

		row := make([]string, len(values))
		for i, v := range values {
			if v == nil {
				continue
			}
			row[i] = fmt.Sprintf("%v", v)
		}
		table.Rows = append(table.Rows, row)
	}
	if err := rows.Err(); err != nil {
		return 0, fmt.Errorf("failed reading %s.%s: %w", cfg.Schema, cfg.Table, err)
	}

	if err := csvio.Write(cfg.OutputPath, table); err != nil {
		return 0, err
	}

	e.logger.Info("[DONE] Extracted %d rows into %s", len(table.Rows), cfg.OutputPath)
	return len(table.Rows), nil
}
