package scoring

// Score converts a correctness decision into awarded marks: the question's
// marks when correct, minus its penalty when attempted and wrong. Callers
// must not invoke Score for unanswered questions; an unanswered question
// scores 0 and never incurs the penalty (ProcessAnswers short-circuits it).
func Score(correct bool, marks, negativeMarks float64) float64 {
	if correct {
		return marks
	}
	return -negativeMarks
}
