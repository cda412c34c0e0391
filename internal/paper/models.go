package paper

import "fmt"

type QuestionType string

const (
	TypeSingleChoice QuestionType = "mcq_single"
	TypeMultiChoice  QuestionType = "mcq_multi"
	TypeNumerical    QuestionType = "numerical"
)

func (t QuestionType) Valid() bool {
	switch t {
	case TypeSingleChoice, TypeMultiChoice, TypeNumerical:
		return true
	}
	return false
}

// Question is the authored answer specification for one question. Prompt
// text, choices and rendering belong to the authoring system; scoring only
// needs the key and the base marking pair.
type Question struct {
	ID   string       `json:"id"`
	Type QuestionType `json:"type"`

	// CorrectOptions holds zero-based option indices for the choice kinds.
	// Empty means "no option is correct", which is meaningful, not invalid.
	CorrectOptions []int `json:"correct_options,omitempty"`

	// CorrectAnswer is the numeric-answer string for TypeNumerical. The
	// empty string is the absent marker.
	CorrectAnswer string `json:"correct_answer,omitempty"`

	Marks         float64 `json:"marks,omitempty"`
	NegativeMarks float64 `json:"negative_marks,omitempty"`
}

// Validate rejects question data the scoring engine must not be fed. Empty
// or missing keys are allowed; they evaluate to incorrect, not to an error.
func (q Question) Validate() error {
	if !q.Type.Valid() {
		return fmt.Errorf("question %s: unknown type %q", q.ID, q.Type)
	}
	for _, idx := range q.CorrectOptions {
		if idx < 0 {
			return fmt.Errorf("question %s: negative option index %d", q.ID, idx)
		}
	}
	if q.NegativeMarks < 0 {
		return fmt.Errorf("question %s: negative_marks must be >= 0", q.ID)
	}
	return nil
}

// Key returns the display form of the correct answer: the option-index
// sequence for choice kinds (never nil, so it encodes as [] when no option
// is correct), the raw answer string for numerical kinds.
func (q Question) Key() any {
	if q.Type == TypeNumerical {
		return q.CorrectAnswer
	}
	if q.CorrectOptions == nil {
		return []int{}
	}
	return q.CorrectOptions
}

// TestQuestion is a question instance inside one specific test: the bank
// entry plus positional metadata and the marking pair that applies in this
// test. Marks here override the question's base marks; the same bank entry
// may carry different weights in different tests.
type TestQuestion struct {
	Question      Question `json:"question"`
	SectionID     string   `json:"section_id,omitempty"`
	SubsectionID  string   `json:"subsection_id,omitempty"`
	Marks         float64  `json:"marks,omitempty"`
	NegativeMarks float64  `json:"negative_marks,omitempty"`
}

// Response is the scored outcome for one question position. Created once at
// scoring time, never mutated afterwards.
type Response struct {
	QuestionIndex int    `json:"question_index"`
	QuestionID    string `json:"question_id"`
	SectionID     string `json:"section_id,omitempty"`
	SubsectionID  string `json:"subsection_id,omitempty"`

	// StudentAnswer is the raw submitted value; null when unanswered.
	StudentAnswer Answer `json:"student_answer"`

	// CorrectAnswer is Question.Key(): []int for choice kinds, string for
	// numerical.
	CorrectAnswer any `json:"correct_answer"`

	IsCorrect     bool    `json:"is_correct"`
	MarksObtained float64 `json:"marks_obtained"`
}
