package transform

import (
	"github.com/vvka-141/petl/internal/csvio"
	"github.com/vvka-141/petl/pkg/petl"
)

// Result is the validated, resolved output of a transform run.
type Result struct {
	Companies []Company
	Charges   []Charge

	// Aggregate counters. RowsIn = len(Charges) + the rejection counts.
	RowsIn             int
	RejectedMissingKey int // missing id, company_id or status
	RejectedBadDate    int // empty or unparseable created_at
	RejectedBadAmount  int // non-numeric, negative or out-of-range amount
}

// Rejected returns the total number of dropped rows.
func (r *Result) Rejected() int {
	return r.RejectedMissingKey + r.RejectedBadDate + r.RejectedBadAmount
}

// Transformer validates purchase rows and splits them into companies and
// charges. Row-level failures drop the row and continue; only aggregate
// counts are reported.
type Transformer struct {
	logger petl.Logger
}

// NewTransformer creates a Transformer.
func NewTransformer(logger petl.Logger) *Transformer {
	return &Transformer{logger: logger}
}

// Transform processes the extracted table. The resolver may be preseeded
// with already-persisted companies (append mode) so their surrogate keys
// are reused.
func (t *Transformer) Transform(table *csvio.Table, resolver *CompanyResolver) (*Result, error) {
	if err := table.RequireColumns(petl.RequiredColumns); err != nil {
		return nil, err
	}
	if resolver == nil {
		resolver = NewCompanyResolver()
	}

	result := &Result{RowsIn: len(table.Rows)}

	for i, row := range table.Rows {
		p := RawPurchase{
			Line:      i + 2, // 1-based, after the header
			ID:        table.Field(row, "id"),
			Name:      table.Field(row, "name"),
			CompanyID: table.Field(row, "company_id"),
			Amount:    table.Field(row, "amount"),
			Status:    table.Field(row, "status"),
			CreatedAt: table.Field(row, "created_at"),
			PaidAt:    table.Field(row, "paid_at"),
		}

		charge, ok := t.transformRow(p, resolver, result)
		if !ok {
			continue
		}
		result.Charges = append(result.Charges, charge)
	}

	result.Companies = resolver.Companies()

	t.logger.Info("Transform: %d rows in, %d accepted, %d rejected (%d missing keys, %d bad dates, %d bad amounts)",
		result.RowsIn, len(result.Charges), result.Rejected(),
		result.RejectedMissingKey, result.RejectedBadDate, result.RejectedBadAmount)

	return result, nil
}

// transformRow validates one row. Companies are only resolved for rows
// that pass every other check, so a rejected row alone never produces an
// organization.
func (t *Transformer) transformRow(p RawPurchase, resolver *CompanyResolver, result *Result) (Charge, bool) {
	if p.ID == "" || p.CompanyID == "" || p.Status == "" {
		result.RejectedMissingKey++
		t.logger.Verbose("line %d: dropped, missing id/company_id/status", p.Line)
		return Charge{}, false
	}

	// created_at is the required ordering key; paid_at may be empty.
	createdAt, err := ParseTimestamp(p.CreatedAt)
	if err != nil {
		result.RejectedBadDate++
		t.logger.Verbose("line %d: dropped, %v", p.Line, err)
		return Charge{}, false
	}

	paidAt, err := ParseOptionalTimestamp(p.PaidAt)
	if err != nil {
		result.RejectedBadDate++
		t.logger.Verbose("line %d: dropped, %v", p.Line, err)
		return Charge{}, false
	}

	amount, err := ParseAmount(p.Amount)
	if err != nil {
		result.RejectedBadAmount++
		t.logger.Verbose("line %d: dropped, %v", p.Line, err)
		return Charge{}, false
	}

	company, ok := resolver.Resolve(p.CompanyID, p.Name)
	if !ok {
		result.RejectedMissingKey++
		t.logger.Verbose("line %d: dropped, unresolvable company %q", p.Line, p.CompanyID)
		return Charge{}, false
	}

	return Charge{
		ID:        p.ID,
		CompanyID: company.ID,
		Amount:    amount,
		Status:    p.Status,
		CreatedAt: createdAt,
		PaidAt:    paidAt,
	}, true
}
