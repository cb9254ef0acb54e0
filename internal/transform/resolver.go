package transform

import (
	"strings"

	"github.com/google/uuid"
)

// companyNamespace seeds surrogate key derivation. Keys are name-based
// (UUIDv5-style), so the same natural key always maps to the same UUID and
// full replacement stays idempotent across runs.
var companyNamespace = uuid.MustParse("c3b8f1d2-9a41-4e6b-8f0a-2d5e7c190b44")

// CompanyResolver deduplicates organizations by normalized natural key and
// assigns each distinct one a surrogate key. The display name from the
// first observation wins; companies come out in observation order.
type CompanyResolver struct {
	byKey map[string]*Company
	order []string

	// newID is swappable in tests for readable keys.
	newID func(naturalKey string) string
}

// NewCompanyResolver creates an empty resolver.
func NewCompanyResolver() *CompanyResolver {
	return &CompanyResolver{
		byKey: make(map[string]*Company),
		newID: func(naturalKey string) string {
			return uuid.NewSHA1(companyNamespace, []byte(naturalKey)).String()
		},
	}
}

// NormalizeKey produces the natural key used for deduplication: trimmed,
// lower-cased, inner whitespace collapsed to single spaces. "Acme" and
// "acme " normalize to the same key.
func NormalizeKey(raw string) string {
	return strings.ToLower(strings.Join(strings.Fields(raw), " "))
}

// Resolve returns the company for the given source identifier and display
// name, creating it with its derived surrogate key on first sight.
// An empty identifier resolves to nothing.
func (r *CompanyResolver) Resolve(sourceID, displayName string) (*Company, bool) {
	key := NormalizeKey(sourceID)
	if key == "" {
		return nil, false
	}

	if c, ok := r.byKey[key]; ok {
		return c, true
	}

	c := &Company{
		ID:         r.newID(key),
		Name:       strings.TrimSpace(displayName),
		NaturalKey: key,
	}
	r.byKey[key] = c
	r.order = append(r.order, key)
	return c, true
}

// Preseed registers an already-persisted company so append runs reuse its
// surrogate key instead of minting a duplicate organization.
func (r *CompanyResolver) Preseed(naturalKey, id, name string) {
	key := NormalizeKey(naturalKey)
	if key == "" {
		return
	}
	if _, ok := r.byKey[key]; ok {
		return
	}
	r.byKey[key] = &Company{ID: id, Name: name, NaturalKey: key}
	// Not appended to order: preseeded companies are already persisted.
}

// Companies returns the newly resolved companies in first-observation order.
func (r *CompanyResolver) Companies() []Company {
	out := make([]Company, 0, len(r.order))
	for _, key := range r.order {
		out = append(out, *r.byKey[key])
	}
	return out
}
