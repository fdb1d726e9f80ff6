package core

// convert.go turns the messy cell text of hand-maintained price lists into
// values the aggregator can compute with:
//   - Currency symbols and "руб." suffixes
//   - Space, NBSP and apostrophe thousands separators
//   - Decimal comma ("12,5") as well as decimal point
//   - Excel formula prefixes (="value") and stray quotes
//
// Numbers go through pgtype.Numeric so that the textual validation and the
// decimal conversion share one well-tested implementation.

import (
	"errors"
	"fmt"
	"math"
	"regexp"
	"strings"

	"github.com/jackc/pgx/v5/pgtype"
)

// numericRegex validates that a string is a valid numeric format after cleanup.
// Matches integers, decimals, and scientific notation.
var numericRegex = regexp.MustCompile(`^[+-]?(\d+(\.\d*)?|\.\d+)([eE][+-]?\d+)?$`)

var errNotNumeric = errors.New("not a number")

// currencyMarks are removed before numeric validation.
var currencyMarks = []string{"$", "€", "£", "₽", "руб.", "руб", "р."}

// ToNumeric converts a cell to pgtype.Numeric.
// Returns invalid if the cell is empty or not a number after cleanup.
func ToNumeric(s string) pgtype.Numeric {
	s = CleanCell(s)
	if s == "" {
		return pgtype.Numeric{Valid: false}
	}

	// Detect negative accounting format "(123.45)"
	isNegative := false
	if strings.HasPrefix(s, "(") && strings.HasSuffix(s, ")") {
		isNegative = true
		s = strings.TrimSpace(s[1 : len(s)-1])
	}

	lower := strings.ToLower(s)
	for _, mark := range currencyMarks {
		lower = strings.ReplaceAll(lower, mark, "")
	}
	s = strings.NewReplacer(" ", "", "\u00a0", "", "\u202f", "", "'", "").Replace(lower)
	s = normalizeDecimalComma(s)

	if isNegative {
		s = "-" + s
	}

	if !numericRegex.MatchString(s) {
		return pgtype.Numeric{Valid: false}
	}

	var n pgtype.Numeric
	if err := n.Scan(s); err != nil {
		return pgtype.Numeric{Valid: false}
	}
	return n
}

// normalizeDecimalComma rewrites commas into the dot notation numericRegex
// accepts. With both separators present the comma groups thousands
// ("1,250.50"); a lone comma is the decimal separator ("12,5").
func normalizeDecimalComma(s string) string {
	if !strings.Contains(s, ",") {
		return s
	}
	if strings.Contains(s, ".") {
		return strings.ReplaceAll(s, ",", "")
	}
	if strings.Count(s, ",") == 1 {
		return strings.Replace(s, ",", ".", 1)
	}
	return strings.ReplaceAll(s, ",", "")
}

// ParseNumber parses a price or weight cell into a finite float64.
func ParseNumber(s string) (float64, error) {
	n := ToNumeric(s)
	if !n.Valid {
		return 0, errNotNumeric
	}
	f, err := n.Float64Value()
	if err != nil {
		return 0, fmt.Errorf("convert %q: %w", s, err)
	}
	if !f.Valid || math.IsNaN(f.Float64) || math.IsInf(f.Float64, 0) {
		return 0, errNotNumeric
	}
	return f.Float64, nil
}

// CleanCell removes common CSV artifacts from a cell value:
// - Trims whitespace and a leading UTF-8 BOM
// - Removes Excel formula prefix (="...")
// - Removes surrounding quotes
func CleanCell(s string) string {
	s = strings.TrimPrefix(s, "\ufeff")
	s = strings.TrimSpace(s)

	// Remove leading '='
	if strings.HasPrefix(s, "=\"") && strings.HasSuffix(s, "\"") {
		s = s[2 : len(s)-1]
	} else if strings.HasPrefix(s, "=") {
		s = s[1:]
	}

	// Remove any surrounding quotes
	s = strings.Trim(s, `"'`)

	return strings.TrimSpace(s)
}
