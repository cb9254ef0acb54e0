package transform

import (
	"fmt"
	"time"

	"github.com/vvka-141/petl/pkg/petl"
)

// ParseTimestamp parses created_at / paid_at values, trying each accepted
// layout in order. The canonical input form is the plain YYYY-MM-DD date.
func ParseTimestamp(raw string) (time.Time, error) {
	for _, layout := range petl.TimestampLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized timestamp %q", raw)
}

// ParseOptionalTimestamp returns nil for an empty value and an error only
// for a non-empty value that matches no accepted layout.
func ParseOptionalTimestamp(raw string) (*time.Time, error) {
	if raw == "" {
		return nil, nil
	}
	t, err := ParseTimestamp(raw)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
