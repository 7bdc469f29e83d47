package id

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// BirthDateLayout is the dd/mm/yyyy layout operators type birth dates in.
const BirthDateLayout = "02/01/2006"

// ErrInvalidTaxID is returned for tax IDs that contain no digits or non-digit characters.
var ErrInvalidTaxID = errors.New("tax ID must contain only digits")

// NormalizeTaxID strips the usual punctuation ("123.456.789-00") and spaces
// and checks that only digits remain.
func NormalizeTaxID(raw string) (string, error) {
	var b strings.Builder
	for _, r := range strings.TrimSpace(raw) {
		switch {
		case r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == '.' || r == '-' || r == '/' || r == ' ':
			// punctuation
		default:
			return "", fmt.Errorf("%w: %q", ErrInvalidTaxID, raw)
		}
	}
	if b.Len() == 0 {
		return "", fmt.Errorf("%w: %q", ErrInvalidTaxID, raw)
	}
	return b.String(), nil
}

// ParseBirthDate parses a dd/mm/yyyy date.
func ParseBirthDate(s string) (time.Time, error) {
	t, err := time.Parse(BirthDateLayout, strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid birth date %q (want dd/mm/yyyy): %w", s, err)
	}
	return t, nil
}

// FormatAccountRef returns a reference like "0001-7" for branch 0001, account 7.
func FormatAccountRef(branch string, number int) string {
	return fmt.Sprintf("%s-%d", branch, number)
}
