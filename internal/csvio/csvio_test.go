package csvio

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vvka-141/petl/pkg/petl"
)

func TestParse_NormalizesHeader(t *testing.T) {
	table, err := Parse([]byte(" ID , Name ,AMOUNT\n1,Acme,10\n"))
	require.NoError(t, err)

	assert.Equal(t, []string{"id", "name", "amount"}, table.Header)
	require.Len(t, table.Rows, 1)
}

func TestParse_SkipsEmptyRows(t *testing.T) {
	table, err := Parse([]byte("id,name\n1,Acme\n,\n  ,  \n2,Globex\n"))
	require.NoError(t, err)

	require.Len(t, table.Rows, 2)
	assert.Equal(t, "1", table.Rows[0][0])
	assert.Equal(t, "2", table.Rows[1][0])
}

func TestParse_PadsAndTruncatesRows(t *testing.T) {
	table, err := Parse([]byte("id,name,amount\n1,Acme\n2,Globex,10,extra\n"))
	require.NoError(t, err)

	require.Len(t, table.Rows, 2)
	assert.Equal(t, []string{"1", "Acme", ""}, table.Rows[0], "short row padded")
	assert.Equal(t, []string{"2", "Globex", "10"}, table.Rows[1], "long row truncated")
}

func TestParse_InvalidUTF8(t *testing.T) {
	data := append([]byte("id,name\n1,Ac"), 0xff, 0xfe)
	data = append(data, []byte("me\n")...)

	table, err := Parse(data)
	require.NoError(t, err, "a bad byte sequence must not abort the read")
	require.Len(t, table.Rows, 1)
}

func TestParse_EmptyFile(t *testing.T) {
	_, err := Parse([]byte(""))
	require.Error(t, err)
	assert.ErrorIs(t, err, petl.ErrInputNotFound)
}

func TestRead_MissingFile(t *testing.T) {
	_, err := Read(filepath.Join(t.TempDir(), "nope.csv"))
	require.Error(t, err)
	assert.ErrorIs(t, err, petl.ErrInputNotFound)
}

func TestRequireColumns(t *testing.T) {
	table := &Table{Header: []string{"id", "name", "amount"}}

	assert.NoError(t, table.RequireColumns([]string{"id", "amount"}))

	err := table.RequireColumns([]string{"id", "status", "created_at"})
	require.Error(t, err)
	assert.ErrorIs(t, err, petl.ErrMissingColumns)
	assert.Contains(t, err.Error(), "status")
	assert.Contains(t, err.Error(), "created_at")
}

func TestField(t *testing.T) {
	table := &Table{Header: []string{"id", "name"}}
	row := []string{"1", "  Acme  "}

	assert.Equal(t, "Acme", table.Field(row, "name"), "values come back trimmed")
	assert.Equal(t, "", table.Field(row, "missing"))
}

func TestDropEmptyColumns(t *testing.T) {
	table := &Table{
		Header: []string{"id", "empty", "name"},
		Rows: [][]string{
			{"1", "", "Acme"},
			{"2", "  ", "Globex"},
		},
	}

	table.DropEmptyColumns()

	assert.Equal(t, []string{"id", "name"}, table.Header)
	assert.Equal(t, []string{"1", "Acme"}, table.Rows[0])
	assert.Equal(t, []string{"2", "Globex"}, table.Rows[1])
}

func TestDropEmptyColumns_NothingToDrop(t *testing.T) {
	table := &Table{
		Header: []string{"id", "name"},
		Rows:   [][]string{{"1", "Acme"}},
	}

	table.DropEmptyColumns()
	assert.Equal(t, []string{"id", "name"}, table.Header)
}

func TestWrite_RoundTrip(t *testing.T) {
	table := &Table{
		Header: []string{"id", "name", "amount"},
		Rows: [][]string{
			{"1", "Acme, Inc", "19.99"},
			{"2", `say "hi"`, ""},
		},
	}

	path := filepath.Join(t.TempDir(), "nested", "out.csv")
	require.NoError(t, Write(path, table), "parent directories are created")

	back, err := Read(path)
	require.NoError(t, err)
	assert.Equal(t, table.Header, back.Header)
	assert.Equal(t, table.Rows, back.Rows)
}

func TestWrite_OverwritesExisting(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.csv")
	require.NoError(t, os.WriteFile(path, []byte("old,content\n"), 0o644))

	table := &Table{Header: []string{"id"}, Rows: [][]string{{"1"}}}
	require.NoError(t, Write(path, table))

	back, err := Read(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"id"}, back.Header)
}
