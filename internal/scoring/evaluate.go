package scoring

import (
	"github.com/prepmark/prepmark-scoring/internal/paper"
)

// Evaluator decides correctness and marks for submitted answers. It is
// immutable after construction and safe for concurrent use.
type Evaluator struct {
	tolerance   float64
	parallelism int
}

type Option func(*Evaluator)

// WithTolerance sets the absolute numeric tolerance. Values <= 0 keep
// DefaultTolerance.
func WithTolerance(tol float64) Option {
	return func(e *Evaluator) {
		if tol > 0 {
			e.tolerance = tol
		}
	}
}

// WithParallelism sets the worker count for batch scoring. Values <= 1 keep
// the batch sequential.
func WithParallelism(n int) Option {
	return func(e *Evaluator) {
		if n > 1 {
			e.parallelism = n
		}
	}
}

func New(opts ...Option) *Evaluator {
	e := &Evaluator{tolerance: DefaultTolerance}
	for _, o := range opts {
		o(e)
	}
	return e
}

// With derives a new Evaluator from e with additional options applied.
func (e *Evaluator) With(opts ...Option) *Evaluator {
	d := *e
	for _, o := range opts {
		o(&d)
	}
	return &d
}

// Evaluate reports whether ans is a correct answer to q. The match is a
// closed switch over the answer variants: a nil answer, a variant that does
// not satisfy q's kind, or a question without a usable key all evaluate to
// false. Nothing here returns an error; a mis-typed submission is a normal
// occurrence and must not interrupt scoring of the rest of the test.
func (e *Evaluator) Evaluate(q paper.Question, ans paper.Answer) bool {
	switch a := ans.(type) {
	case paper.SingleChoice:
		if q.Type != paper.TypeSingleChoice {
			return false
		}
		return MatchSingle(int(a), q.CorrectOptions)
	case paper.MultiChoice:
		if q.Type != paper.TypeMultiChoice {
			return false
		}
		return MatchMultiple(a, q.CorrectOptions)
	case paper.Numerical:
		if q.Type != paper.TypeNumerical {
			return false
		}
		if q.CorrectAnswer == "" {
			return false
		}
		return CompareNumeric(string(a), q.CorrectAnswer, e.tolerance)
	default:
		// nil, or a variant added without a handling decision here.
		return false
	}
}
