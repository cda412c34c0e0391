package bundle

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/prepmark/prepmark-scoring/internal/paper"
)

// KindMarks is the default marking pair for one question kind.
type KindMarks struct {
	Marks         float64 `yaml:"marks" json:"marks"`
	NegativeMarks float64 `yaml:"negative_marks" json:"negative_marks"`
}

// MarkingScheme supplies per-kind default marks for test entries that do
// not carry their own. The file form is YAML:
//
//	kinds:
//	  mcq_single: {marks: 4, negative_marks: 1}
//	  mcq_multi:  {marks: 4, negative_marks: 2}
//	  numerical:  {marks: 4, negative_marks: 0}
type MarkingScheme struct {
	Kinds map[string]KindMarks `yaml:"kinds" json:"kinds"`
}

// DefaultScheme is the usual JEE-style marking: +4 across the board, -1 for
// a wrong single choice, -2 for a wrong multi choice, no penalty on
// numericals.
func DefaultScheme() MarkingScheme {
	return MarkingScheme{Kinds: map[string]KindMarks{
		string(paper.TypeSingleChoice): {Marks: 4, NegativeMarks: 1},
		string(paper.TypeMultiChoice):  {Marks: 4, NegativeMarks: 2},
		string(paper.TypeNumerical):    {Marks: 4, NegativeMarks: 0},
	}}
}

func LoadScheme(path string) (MarkingScheme, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return MarkingScheme{}, fmt.Errorf("read scheme: %w", err)
	}
	var m MarkingScheme
	if err := yaml.Unmarshal(raw, &m); err != nil {
		return MarkingScheme{}, fmt.Errorf("decode scheme: %w", err)
	}
	for kind := range m.Kinds {
		if !paper.QuestionType(kind).Valid() {
			return MarkingScheme{}, fmt.Errorf("scheme: unknown question kind %q", kind)
		}
	}
	return m, nil
}

// Apply fills the marking pair of entries that do not set one. Resolution
// order per entry: a test-level Marks wins, then the question's base marks,
// then the scheme default for its kind. An entry with Marks > 0 is left
// untouched, including its NegativeMarks.
func (m MarkingScheme) Apply(questions []paper.TestQuestion) {
	for i := range questions {
		if questions[i].Marks > 0 {
			continue
		}
		if base := questions[i].Question.Marks; base > 0 {
			questions[i].Marks = base
			questions[i].NegativeMarks = questions[i].Question.NegativeMarks
			continue
		}
		if km, ok := m.Kinds[string(questions[i].Question.Type)]; ok {
			questions[i].Marks = km.Marks
			questions[i].NegativeMarks = km.NegativeMarks
		}
	}
}
