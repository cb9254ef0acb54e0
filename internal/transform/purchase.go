// Package transform implements the validation and normalization stage: the
// extracted purchases file is split into a company entity and a charge
// entity, fields are typed and bounded, surrogate keys are assigned, and
// both tables are loaded under a foreign key with full-replace semantics.
package transform

import (
	"time"

	"github.com/shopspring/decimal"
)

// RawPurchase is one untyped input row, snapshotted before validation.
// Line is the 1-based position in the input file, used in verbose
// rejection logging.
type RawPurchase struct {
	Line      int
	ID        string
	Name      string
	CompanyID string
	Amount    string
	Status    string
	CreatedAt string
	PaidAt    string
}

// Company is one resolved organization. ID is a system-generated surrogate
// key; NaturalKey is the normalized source identifier used for
// deduplication; Name is the display name from the first row observed.
type Company struct {
	ID         string
	Name       string
	NaturalKey string
}

// Charge is one validated monetary event. CompanyID references a Company
// surrogate key. PaidAt is nil when the source field was empty.
type Charge struct {
	ID        string
	CompanyID string
	Amount    decimal.Decimal
	Status    string
	CreatedAt time.Time
	PaidAt    *time.Time
}
