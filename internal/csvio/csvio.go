// Package csvio reads and writes the delimited files that flow between
// pipeline stages. Reading is deliberately forgiving (lazy quotes, variable
// field counts, tolerant UTF-8 handling) so malformed cells reach the
// transform stage as text instead of failing ingestion.
package csvio

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/vvka-141/petl/pkg/petl"
)

// Table is an in-memory delimited file: a normalized header plus data rows.
// Every row has exactly len(Header) fields; short rows are padded with
// empty strings and long rows are truncated.
type Table struct {
	Header []string
	Rows   [][]string
}

// Read loads a delimited file. Header cells are trimmed and lower-cased;
// rows that are empty in every field are dropped.
func Read(path string) (*Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%q: %w", path, petl.ErrInputNotFound)
		}
		return nil, fmt.Errorf("failed to read %q: %w", path, err)
	}

	return Parse(data)
}

// Parse decodes raw delimited content into a Table.
func Parse(data []byte) (*Table, error) {
	data = sanitizeUTF8(data)

	r := csv.NewReader(bytes.NewReader(data))
	r.FieldsPerRecord = -1
	r.LazyQuotes = true

	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to parse CSV: %w", err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("empty file: %w", petl.ErrInputNotFound)
	}

	header := make([]string, len(records[0]))
	for i, cell := range records[0] {
		header[i] = strings.ToLower(strings.TrimSpace(cell))
	}

	table := &Table{Header: header}
	for _, row := range records[1:] {
		if isEmptyRow(row) {
			continue
		}
		table.Rows = append(table.Rows, normalizeRow(row, len(header)))
	}

	return table, nil
}

// ColumnIndex returns the position of the named column.
func (t *Table) ColumnIndex(name string) (int, bool) {
	name = strings.ToLower(strings.TrimSpace(name))
	for i, col := range t.Header {
		if col == name {
			return i, true
		}
	}
	return 0, false
}

// RequireColumns verifies all named columns are present, returning an error
// that lists every absent one.
func (t *Table) RequireColumns(names []string) error {
	var missing []string
	for _, name := range names {
		if _, ok := t.ColumnIndex(name); !ok {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: %s", petl.ErrMissingColumns, strings.Join(missing, ", "))
	}
	return nil
}

// Field returns the named column's value in the given row, trimmed.
func (t *Table) Field(row []string, name string) string {
	idx, ok := t.ColumnIndex(name)
	if !ok || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

// DropEmptyColumns removes columns whose every row value is blank,
// mirroring the raw-stage policy of not persisting fully-empty columns.
func (t *Table) DropEmptyColumns() {
	keep := make([]int, 0, len(t.Header))
	for i := range t.Header {
		empty := true
		for _, row := range t.Rows {
			if strings.TrimSpace(row[i]) != "" {
				empty = false
				break
			}
		}
		if !empty {
			keep = append(keep, i)
		}
	}

	if len(keep) == len(t.Header) {
		return
	}

	newHeader := make([]string, len(keep))
	for j, i := range keep {
		newHeader[j] = t.Header[i]
	}

	for r, row := range t.Rows {
		newRow := make([]string, len(keep))
		for j, i := range keep {
			newRow[j] = row[i]
		}
		t.Rows[r] = newRow
	}
	t.Header = newHeader
}

// Write serializes the table to path, creating parent directories.
func Write(path string, t *Table) error {
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %q: %w", path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(t.Header); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	for _, row := range t.Rows {
		if err := w.Write(row); err != nil {
			return fmt.Errorf("failed to write row: %w", err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("failed to flush output: %w", err)
	}
	return f.Close()
}

func normalizeRow(row []string, width int) []string {
	out := make([]string, width)
	for i := 0; i < width && i < len(row); i++ {
		out[i] = row[i]
	}
	return out
}

func isEmptyRow(row []string) bool {
	for _, v := range row {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}

// sanitizeUTF8 replaces invalid byte sequences with the replacement rune so
// a single bad cell never aborts the read.
func sanitizeUTF8(data []byte) []byte {
	if utf8.Valid(data) {
		return data
	}

	var buf bytes.Buffer
	buf.Grow(len(data))

	for len(data) > 0 {
		r, size := utf8.DecodeRune(data)
		if r == utf8.RuneError && size == 1 {
			buf.WriteRune('�')
			data = data[1:]
		} else {
			buf.WriteRune(r)
			data = data[size:]
		}
	}

	return buf.Bytes()
}
