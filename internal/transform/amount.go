package transform

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// amountAbsMax is the magnitude bound of the destination DECIMAL(16,2)
// column: 16 digits total with 2 fractional means the integer part must
// stay below 10^14.
var amountAbsMax = decimal.New(1, 14)

// Amount validation errors. Rows failing any of these are dropped, never
// clamped or nulled; the raw stage keeps amount as text precisely so the
// decision happens here and nowhere else.
var (
	ErrAmountEmpty      = errors.New("amount is empty")
	ErrAmountInvalid    = errors.New("amount is not numeric")
	ErrAmountNegative   = errors.New("amount is negative")
	ErrAmountOutOfRange = errors.New("amount exceeds DECIMAL(16,2) range")
)

// ParseAmount parses the textual amount into a fixed-point decimal with two
// fractional digits, rounded half-up. Negative amounts and values that do
// not fit DECIMAL(16,2) are rejected.
func ParseAmount(raw string) (decimal.Decimal, error) {
	if raw == "" {
		return decimal.Zero, ErrAmountEmpty
	}

	d, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: %q", ErrAmountInvalid, raw)
	}

	if d.IsNegative() {
		return decimal.Zero, fmt.Errorf("%w: %s", ErrAmountNegative, d)
	}

	// Round is half away from zero, which equals ROUND_HALF_UP for the
	// non-negative values that reach this point. The bound is checked on
	// the rounded value: 99999999999999.999 rounds up past the column's
	// capacity and must be dropped, not sent to the insert.
	d = d.Round(2)

	if d.Abs().GreaterThanOrEqual(amountAbsMax) {
		return decimal.Zero, fmt.Errorf("%w: %s", ErrAmountOutOfRange, d)
	}

	return d, nil
}
