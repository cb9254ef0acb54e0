package transform

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vvka-141/petl/internal/csvio"
	"github.com/vvka-141/petl/internal/db"
	"github.com/vvka-141/petl/internal/logging"
	petltesting "github.com/vvka-141/petl/internal/testing"
	"github.com/vvka-141/petl/pkg/petl"
)

// newWarehouse provisions a dedicated database and a schema-applied Loader.
func newWarehouse(t *testing.T, name string) *Loader {
	t.Helper()

	connString := petltesting.RequireDatabase(t)
	t.Cleanup(petltesting.CreateTestDB(t, connString, name))

	pool := petltesting.GetTestPool(t, connString, name)
	loader := NewLoader(pool, logging.NewNullLogger())
	require.NoError(t, loader.EnsureSchema(context.Background()))
	return loader
}

func transformSample(t *testing.T, resolver *CompanyResolver) *Result {
	t.Helper()

	table := &csvio.Table{
		Header: []string{"id", "name", "company_id", "amount", "status", "created_at", "paid_at"},
		Rows: [][]string{
			{"ch_1", "Acme Inc", "acme", "19.99", "paid", "2024-03-15", "2024-03-16"},
			{"ch_2", "Acme Inc", "acme ", "5", "pending", "2024-03-15", ""},
			{"ch_3", "Globex", "globex", "100.00", "paid", "2024-03-17", "2024-03-18"},
			{"ch_4", "Globex", "globex", "not-a-number", "paid", "2024-03-17", ""},
		},
	}

	result, err := NewTransformer(logging.NewNullLogger()).Transform(table, resolver)
	require.NoError(t, err)
	return result
}

func TestWarehouseLoad_ForeignKeysHold(t *testing.T) {
	loader := newWarehouse(t, "petl_test_fk")
	ctx := context.Background()

	result := transformSample(t, NewCompanyResolver())
	require.NoError(t, loader.Load(ctx, result, petl.IfExistsReplace))

	companies, charges, err := loader.Counts(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, companies, "acme variants collapse to one organization")
	assert.Equal(t, 3, charges, "the bad-amount row is dropped")

	var orphans int
	require.NoError(t, loader.pool.QueryRow(ctx, `
		SELECT COUNT(*) FROM charges ch
		LEFT JOIN companies co ON co.id = ch.company_id
		WHERE co.id IS NULL`).Scan(&orphans))
	assert.Zero(t, orphans, "every charge references a persisted company")
}

func TestWarehouseLoad_ReplaceIsIdempotent(t *testing.T) {
	loader := newWarehouse(t, "petl_test_replace")
	ctx := context.Background()

	require.NoError(t, loader.Load(ctx, transformSample(t, NewCompanyResolver()), petl.IfExistsReplace))
	firstCompanies := dumpTable(t, loader, "SELECT id, company_name, natural_key FROM companies ORDER BY natural_key")
	firstCharges := dumpTable(t, loader, "SELECT id, company_id, amount::text, status, created_at::text FROM charges ORDER BY id")

	require.NoError(t, loader.Load(ctx, transformSample(t, NewCompanyResolver()), petl.IfExistsReplace))
	secondCompanies := dumpTable(t, loader, "SELECT id, company_name, natural_key FROM companies ORDER BY natural_key")
	secondCharges := dumpTable(t, loader, "SELECT id, company_id, amount::text, status, created_at::text FROM charges ORDER BY id")

	// Full contents, surrogate keys included, converge across reruns.
	assert.Equal(t, firstCompanies, secondCompanies)
	assert.Equal(t, firstCharges, secondCharges)

	companies, charges, err := loader.Counts(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, companies)
	assert.Equal(t, 3, charges)
}

// dumpTable snapshots a query result as text rows for content comparison.
func dumpTable(t *testing.T, loader *Loader, query string) [][]string {
	t.Helper()

	rows, err := loader.pool.Query(context.Background(), query)
	require.NoError(t, err)
	defer rows.Close()

	var out [][]string
	for rows.Next() {
		values, err := rows.Values()
		require.NoError(t, err)

		row := make([]string, len(values))
		for i, v := range values {
			if v != nil {
				row[i] = fmt.Sprintf("%v", v)
			}
		}
		out = append(out, row)
	}
	require.NoError(t, rows.Err())
	return out
}

func TestWarehouseLoad_AppendReusesSurrogateKeys(t *testing.T) {
	loader := newWarehouse(t, "petl_test_append")
	ctx := context.Background()

	require.NoError(t, loader.Load(ctx, transformSample(t, NewCompanyResolver()), petl.IfExistsReplace))

	var persistedAcme string
	require.NoError(t, loader.pool.QueryRow(ctx,
		"SELECT id FROM companies WHERE natural_key = 'acme'").Scan(&persistedAcme))

	// Second batch: a new acme charge plus an unseen company.
	resolver := NewCompanyResolver()
	existing, err := loader.ExistingCompanies(ctx)
	require.NoError(t, err)
	for _, c := range existing {
		resolver.Preseed(c.NaturalKey, c.ID, c.Name)
	}

	table := &csvio.Table{
		Header: []string{"id", "name", "company_id", "amount", "status", "created_at", "paid_at"},
		Rows: [][]string{
			{"ch_10", "Acme Inc", "ACME", "7.50", "paid", "2024-04-01", ""},
			{"ch_11", "Initech", "initech", "12", "paid", "2024-04-02", ""},
		},
	}
	result, err := NewTransformer(logging.NewNullLogger()).Transform(table, resolver)
	require.NoError(t, err)
	require.NoError(t, loader.Load(ctx, result, petl.IfExistsAppend))

	var appendedAcme string
	require.NoError(t, loader.pool.QueryRow(ctx,
		"SELECT company_id FROM charges WHERE id = 'ch_10'").Scan(&appendedAcme))
	assert.Equal(t, persistedAcme, appendedAcme, "append reuses the stored surrogate key")

	companies, charges, err := loader.Counts(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, companies)
	assert.Equal(t, 5, charges)
}

func TestWarehouseLoad_AppendSkipsConflictingIDs(t *testing.T) {
	loader := newWarehouse(t, "petl_test_conflict")
	ctx := context.Background()

	result := transformSample(t, NewCompanyResolver())
	require.NoError(t, loader.Load(ctx, result, petl.IfExistsReplace))
	require.NoError(t, loader.Load(ctx, result, petl.IfExistsAppend))

	_, charges, err := loader.Counts(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, charges, "conflicting charge ids are skipped")
}

func TestWarehouseLoad_DailyViewAggregates(t *testing.T) {
	loader := newWarehouse(t, "petl_test_view")
	ctx := context.Background()

	require.NoError(t, loader.Load(ctx, transformSample(t, NewCompanyResolver()), petl.IfExistsReplace))

	rows, err := loader.pool.Query(ctx, fmt.Sprintf(
		"SELECT charge_day, total_amount::text, charge_count FROM %s ORDER BY charge_day", petl.DailyChargesView))
	require.NoError(t, err)
	defer rows.Close()

	type daily struct {
		day     time.Time
		total   string
		charges int
	}
	var got []daily
	for rows.Next() {
		var d daily
		require.NoError(t, rows.Scan(&d.day, &d.total, &d.charges))
		got = append(got, d)
	}
	require.NoError(t, rows.Err())

	// 2024-03-15 has two acme charges (19.99 + 5), 2024-03-17 one globex.
	require.Len(t, got, 2)
	assert.Equal(t, "24.99", got[0].total)
	assert.Equal(t, 2, got[0].charges)
	assert.Equal(t, "100.00", got[1].total)
	assert.Equal(t, 1, got[1].charges)
}

func TestEnsureDatabaseExists(t *testing.T) {
	connString := petltesting.RequireDatabase(t)
	pool := petltesting.GetTestPool(t, connString, "postgres")
	ctx := context.Background()

	manager := db.NewManager()

	created, err := manager.EnsureExists(ctx, pool, "petl_test_ensure")
	require.NoError(t, err)
	assert.True(t, created)
	t.Cleanup(func() { petltesting.CleanupTestDB(t, connString, "petl_test_ensure") })

	created, err = manager.EnsureExists(ctx, pool, "petl_test_ensure")
	require.NoError(t, err)
	assert.False(t, created, "second call is a no-op")
}
