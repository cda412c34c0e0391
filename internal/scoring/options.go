package scoring

import "sort"

// MatchSingle reports whether a single-choice selection hits the key.
// Only the first element of correct is consulted; an empty key can never
// be matched. Authoring data that carries extra elements for a
// single-choice question is surfaced by DetectAnomalies, not rejected here.
func MatchSingle(selected int, correct []int) bool {
	return len(correct) > 0 && correct[0] == selected
}

// MatchMultiple reports whether a multi-choice selection equals the key as
// a set. An empty key matches exactly the empty selection. Otherwise both
// sides are compared element-wise after sorting copies ascending, with a
// length check short-circuiting first.
func MatchMultiple(selected, correct []int) bool {
	if len(correct) == 0 {
		return len(selected) == 0
	}
	if len(selected) != len(correct) {
		return false
	}
	a := append([]int(nil), selected...)
	b := append([]int(nil), correct...)
	sort.Ints(a)
	sort.Ints(b)
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
