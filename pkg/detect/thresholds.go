package detect

import "math"

// Range is an unordered pair of threshold bounds for one criterion. The
// effective interval is [min, max] of the pair, inclusive on both ends,
// so Range{1, -1} and Range{-1, 1} are equivalent.
type Range [2]float64

// Lo returns the lower bound of the range.
func (r Range) Lo() float64 {
	return math.Min(r[0], r[1])
}

// Hi returns the upper bound of the range.
func (r Range) Hi() float64 {
	return math.Max(r[0], r[1])
}

// Thresholds is the set of five threshold ranges, one per criterion.
// Ranges are matched to criteria by position in canonical order (mean,
// max, line length, sigma, max slope deviation); no name-based matching
// is performed and the caller must supply them in that order.
type Thresholds []Range

// evaluateCriteria reports whether every criterion falls inside its
// threshold range, bounds inclusive. The caller has already validated
// that thresholds has exactly NumCriteria entries.
func evaluateCriteria(c Criteria, thresholds Thresholds) bool {
	for i, r := range thresholds {
		if c[i] < r.Lo() || c[i] > r.Hi() {
			return false
		}
	}
	return true
}
