// Package bundle reads and writes the file form of a submission: the ordered
// question list with its test context plus the sparse answer mapping. It is
// boundary glue for the scoring engine; the engine itself never touches
// files.
package bundle

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/prepmark/prepmark-scoring/internal/paper"
)

type Bundle struct {
	TestID    string               `json:"test_id,omitempty"`
	Title     string               `json:"title,omitempty"`
	Questions []paper.TestQuestion `json:"questions"`
	Answers   paper.AnswerSet      `json:"answers,omitempty"`
}

// Load reads and validates a submission bundle. Unlike scoring, the file
// boundary fails loud: a bundle that does not decode or carries an unknown
// question kind is an input error, not a wrong answer.
func Load(path string) (Bundle, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return Bundle{}, fmt.Errorf("read bundle: %w", err)
	}
	var b Bundle
	if err := json.Unmarshal(raw, &b); err != nil {
		return Bundle{}, fmt.Errorf("decode bundle: %w", err)
	}
	if err := b.Validate(); err != nil {
		return Bundle{}, err
	}
	return b, nil
}

func (b Bundle) Validate() error {
	for i := range b.Questions {
		if err := b.Questions[i].Question.Validate(); err != nil {
			return fmt.Errorf("question %d: %w", i, err)
		}
	}
	return nil
}

// Save writes v as indented JSON, suitable for both bundles and scored
// response lists.
func Save(path string, v any) error {
	raw, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, append(raw, '\n'), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
