package scoring

import (
	"strings"

	"github.com/shopspring/decimal"
)

// DefaultTolerance is the absolute difference within which two numeric
// answers count as equal.
const DefaultTolerance = 1e-4

// CompareNumeric reports whether a submitted numeric-answer string matches
// the correct one within tol, inclusive at the boundary. Both inputs are
// trimmed and parsed as decimals; the boundary must be exact for decimal
// inputs ("98.0001" vs "98" at tol 0.0001 matches). If either side does not
// parse, the comparison degrades to case-insensitive trimmed string
// equality. Malformed input is an expected submission, so there is no error
// path.
func CompareNumeric(student, correct string, tol float64) bool {
	s := strings.TrimSpace(student)
	c := strings.TrimSpace(correct)

	sv, sErr := decimal.NewFromString(s)
	cv, cErr := decimal.NewFromString(c)
	if sErr != nil || cErr != nil {
		return strings.EqualFold(s, c)
	}
	diff := sv.Sub(cv).Abs()
	return diff.Cmp(decimal.NewFromFloat(tol)) <= 0
}

// parsesNumeric reports whether s would take the numeric path of
// CompareNumeric after trimming.
func parsesNumeric(s string) bool {
	_, err := decimal.NewFromString(strings.TrimSpace(s))
	return err == nil
}
