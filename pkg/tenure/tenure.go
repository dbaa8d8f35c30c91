// Package tenure parses the comma-separated month counts a lender
// advertises (e.g. "6,12,24") and answers membership queries.
package tenure

import (
	"strconv"
	"strings"

	"loantrackr-backend/pkg/apperr"
)

// Parse returns the ordered list of supported tenures. A blank string is
// an empty set, not an error.
func Parse(csv string) ([]int, error) {
	csv = strings.TrimSpace(csv)
	if csv == "" {
		return nil, nil
	}
	parts := strings.Split(csv, ",")
	out := make([]int, 0, len(parts))
	for _, p := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil || n <= 0 {
			return nil, apperr.Validationf("invalid tenure entry %q", p)
		}
		out = append(out, n)
	}
	return out, nil
}

// Supports reports whether months appears in the configured set.
// Malformed configuration simply does not match.
func Supports(csv string, months int) bool {
	tenures, err := Parse(csv)
	if err != nil {
		return false
	}
	for _, t := range tenures {
		if t == months {
			return true
		}
	}
	return false
}
