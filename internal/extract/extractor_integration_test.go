package extract

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vvka-141/petl/internal/csvio"
	"github.com/vvka-141/petl/internal/logging"
	"github.com/vvka-141/petl/internal/rawload"
	petltesting "github.com/vvka-141/petl/internal/testing"
	"github.com/vvka-141/petl/pkg/petl"
)

func TestExtract_RoundTrip(t *testing.T) {
	connString := petltesting.RequireDatabase(t)
	pool := petltesting.GetTestPool(t, connString, "postgres")
	ctx := context.Background()

	// Stage a file through the raw loader first.
	input := filepath.Join(t.TempDir(), "purchases.csv")
	content := `id,name,company_id,amount,status,created_at,paid_at
ch_1,Acme Inc,acme,19.99,paid,2024-03-15,2024-03-16
ch_2,Globex,globex,oops,pending,2024-03-15,
`
	require.NoError(t, os.WriteFile(input, []byte(content), 0o644))

	loader := rawload.NewLoader(pool, &petltesting.ForceApprover{}, logging.NewNullLogger())
	_, err := loader.Load(ctx, petl.LoadConfig{
		InputPath: input,
		Schema:    petl.DefaultRawSchema,
		Table:     "raw_extract_roundtrip",
		IfExists:  petl.IfExistsReplace,
		Timeout:   time.Minute,
	})
	require.NoError(t, err)

	output := filepath.Join(t.TempDir(), "nested", "extracted.csv")
	extractor := NewExtractor(pool, logging.NewNullLogger())

	n, err := extractor.Extract(ctx, petl.ExtractConfig{
		Schema:     petl.DefaultRawSchema,
		Table:      "raw_extract_roundtrip",
		OutputPath: output,
		Timeout:    time.Minute,
	})
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	back, err := csvio.Read(output)
	require.NoError(t, err)

	assert.Equal(t, []string{"id", "name", "company_id", "amount", "status", "created_at", "paid_at"}, back.Header)
	require.Len(t, back.Rows, 2)

	// The malformed amount and the empty paid_at round-trip unchanged.
	assert.Equal(t, "oops", back.Field(back.Rows[1], "amount"))
	assert.Equal(t, "", back.Field(back.Rows[1], "paid_at"))
	assert.Equal(t, "19.99", back.Field(back.Rows[0], "amount"))
}

func TestExtract_MissingTable(t *testing.T) {
	connString := petltesting.RequireDatabase(t)
	pool := petltesting.GetTestPool(t, connString, "postgres")

	extractor := NewExtractor(pool, logging.NewNullLogger())
	_, err := extractor.Extract(context.Background(), petl.ExtractConfig{
		Schema:     petl.DefaultRawSchema,
		Table:      "raw_does_not_exist",
		OutputPath: filepath.Join(t.TempDir(), "out.csv"),
	})
	require.Error(t, err)
}

func TestExtract_InvalidConfig(t *testing.T) {
	extractor := NewExtractor(nil, logging.NewNullLogger())
	_, err := extractor.Extract(context.Background(), petl.ExtractConfig{})
	require.Error(t, err)
	assert.ErrorIs(t, err, petl.ErrInvalidConfig)
}
