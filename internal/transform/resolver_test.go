package transform

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestResolver returns a resolver with readable sequential keys.
func newTestResolver() *CompanyResolver {
	r := NewCompanyResolver()
	n := 0
	r.newID = func(naturalKey string) string {
		n++
		return fmt.Sprintf("id-%d", n)
	}
	return r
}

func TestNormalizeKey(t *testing.T) {
	tests := []struct {
		raw  string
		want string
	}{
		{"Acme", "acme"},
		{"acme ", "acme"},
		{"  ACME  ", "acme"},
		{"Acme   Corp", "acme corp"},
		{"acme\tcorp", "acme corp"},
		{"", ""},
		{"   ", ""},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, NormalizeKey(tt.raw), "NormalizeKey(%q)", tt.raw)
	}
}

func TestResolve_DeduplicatesVariants(t *testing.T) {
	r := newTestResolver()

	a, ok := r.Resolve("Acme", "Acme Inc")
	require.True(t, ok)

	b, ok := r.Resolve("acme ", "Acme Incorporated")
	require.True(t, ok)

	assert.Equal(t, a.ID, b.ID, "case/whitespace variants resolve to one company")
	assert.Equal(t, "Acme Inc", b.Name, "first observed display name wins")
	assert.Len(t, r.Companies(), 1)
}

func TestResolve_SameKeyAcrossResolvers(t *testing.T) {
	// Surrogate keys are derived from the natural key, so two independent
	// resolvers (two runs) agree on them.
	a, ok := NewCompanyResolver().Resolve("Acme", "Acme Inc")
	require.True(t, ok)

	b, ok := NewCompanyResolver().Resolve("acme ", "Acme Incorporated")
	require.True(t, ok)

	assert.Equal(t, a.ID, b.ID)

	c, ok := NewCompanyResolver().Resolve("globex", "Globex")
	require.True(t, ok)
	assert.NotEqual(t, a.ID, c.ID)
}

func TestResolve_DistinctCompanies(t *testing.T) {
	r := newTestResolver()

	a, _ := r.Resolve("acme", "Acme")
	b, _ := r.Resolve("globex", "Globex")

	assert.NotEqual(t, a.ID, b.ID)

	companies := r.Companies()
	require.Len(t, companies, 2)
	assert.Equal(t, "acme", companies[0].NaturalKey, "observation order preserved")
	assert.Equal(t, "globex", companies[1].NaturalKey)
}

func TestResolve_EmptyIdentifier(t *testing.T) {
	r := newTestResolver()

	_, ok := r.Resolve("", "Nameless")
	assert.False(t, ok)

	_, ok = r.Resolve("   ", "Blank")
	assert.False(t, ok)

	assert.Empty(t, r.Companies())
}

func TestPreseed_ReusesPersistedKey(t *testing.T) {
	r := newTestResolver()
	r.Preseed("acme", "persisted-uuid", "Acme Inc")

	c, ok := r.Resolve("ACME", "Acme Renamed")
	require.True(t, ok)
	assert.Equal(t, "persisted-uuid", c.ID, "append runs keep the stored surrogate key")
	assert.Equal(t, "Acme Inc", c.Name)

	// Preseeded companies are already persisted and not re-emitted.
	assert.Empty(t, r.Companies())
}

func TestPreseed_DoesNotOverwrite(t *testing.T) {
	r := newTestResolver()

	c, _ := r.Resolve("acme", "Acme")
	r.Preseed("acme", "other-uuid", "Other")

	again, _ := r.Resolve("acme", "Acme")
	assert.Equal(t, c.ID, again.ID)
}
