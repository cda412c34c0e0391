package scoring

import (
	"fmt"
	"sort"

	"github.com/prepmark/prepmark-scoring/internal/paper"
)

// Anomaly reasons. Scoring itself never distinguishes "wrong" from
// "malformed"; these records carry that distinction for operators.
const (
	AnomalyKindMismatch    = "kind_mismatch"
	AnomalyNumericFallback = "numeric_fallback"
	AnomalyUnmatchableKey  = "unmatchable_key"
	AnomalyAmbiguousKey    = "ambiguous_key"
	AnomalyOrphanAnswer    = "orphan_answer"
)

type Anomaly struct {
	QuestionIndex int    `json:"question_index"`
	QuestionID    string `json:"question_id,omitempty"`
	Reason        string `json:"reason"`
	Detail        string `json:"detail,omitempty"`
}

// DetectAnomalies classifies the conditions that degrade to "incorrect"
// during scoring, plus authoring defects the checkers deliberately ignore.
// It is a pure second pass over the same inputs as ProcessAnswers and never
// changes a scoring outcome. Results are ordered by question index, with
// orphan answer entries last.
func DetectAnomalies(questions []paper.TestQuestion, answers paper.AnswerSet) []Anomaly {
	var out []Anomaly
	for i := range questions {
		q := questions[i].Question
		add := func(reason, detail string) {
			out = append(out, Anomaly{QuestionIndex: i, QuestionID: q.ID, Reason: reason, Detail: detail})
		}

		switch q.Type {
		case paper.TypeSingleChoice:
			if len(q.CorrectOptions) == 0 {
				add(AnomalyUnmatchableKey, "single-choice question with no correct option")
			} else if len(q.CorrectOptions) > 1 {
				add(AnomalyAmbiguousKey, fmt.Sprintf("single-choice question with %d correct options; only the first is consulted", len(q.CorrectOptions)))
			}
		case paper.TypeNumerical:
			if q.CorrectAnswer == "" {
				add(AnomalyUnmatchableKey, "numerical question with no correct answer")
			}
		}

		ans, ok := answers.Get(i)
		if !ok {
			continue
		}
		kind, known := paper.KindOf(ans)
		if !known || kind != q.Type {
			add(AnomalyKindMismatch, fmt.Sprintf("question kind %s answered as %s", q.Type, kindLabel(ans)))
			continue
		}
		if q.Type == paper.TypeNumerical && q.CorrectAnswer != "" {
			if v, _ := ans.(paper.Numerical); !parsesNumeric(string(v)) || !parsesNumeric(q.CorrectAnswer) {
				add(AnomalyNumericFallback, "numeric comparison fell back to string equality")
			}
		}
	}

	orphans := make([]int, 0)
	for idx := range answers {
		if idx < 0 || idx >= len(questions) {
			orphans = append(orphans, idx)
		}
	}
	sort.Ints(orphans)
	for _, idx := range orphans {
		out = append(out, Anomaly{
			QuestionIndex: idx,
			Reason:        AnomalyOrphanAnswer,
			Detail:        "answer submitted for a position outside the question list",
		})
	}
	return out
}

func kindLabel(a paper.Answer) string {
	if k, ok := paper.KindOf(a); ok {
		return string(k)
	}
	return "unknown"
}
