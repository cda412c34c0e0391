package paper

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

// Answer is one submitted answer. The set of variants is closed: SingleChoice,
// MultiChoice and Numerical are the only implementations, matching the three
// question kinds. "Unanswered" is expressed by absence (a nil Answer or a
// missing AnswerSet entry), never by a zero value.
type Answer interface {
	isAnswer()
}

// SingleChoice is the selected option index of a single-choice answer.
type SingleChoice int

// MultiChoice is the selected option indices of a multi-choice answer. An
// empty (or nil) slice is a real submission: "nothing applies".
type MultiChoice []int

// Numerical is the free-form text of a numerical answer.
type Numerical string

func (SingleChoice) isAnswer() {}
func (MultiChoice) isAnswer()  {}
func (Numerical) isAnswer()    {}

// MarshalJSON keeps an empty selection on the wire as [], never null; null
// is reserved for "unanswered".
func (m MultiChoice) MarshalJSON() ([]byte, error) {
	if m == nil {
		m = MultiChoice{}
	}
	return json.Marshal([]int(m))
}

// KindOf reports which question kind the answer variant satisfies. The
// second result is false for a nil answer.
func KindOf(a Answer) (QuestionType, bool) {
	switch a.(type) {
	case SingleChoice:
		return TypeSingleChoice, true
	case MultiChoice:
		return TypeMultiChoice, true
	case Numerical:
		return TypeNumerical, true
	default:
		return "", false
	}
}

// AnswerSet is the sparse mapping from question position to submitted
// answer. Positions with no entry are unanswered.
type AnswerSet map[int]Answer

// Get looks up the answer at position i. The second result distinguishes
// "unanswered" from every present variant, including empty ones.
func (s AnswerSet) Get(i int) (Answer, bool) {
	a, ok := s[i]
	if !ok || a == nil {
		return nil, false
	}
	return a, true
}

// UnmarshalJSON decodes the wire form of a submission: an object keyed by
// stringified question position, each value a bare number (single choice),
// an array of numbers (multi choice) or a string (numerical). An explicit
// null value means the position was deliberately left unanswered and the
// entry is dropped.
func (s *AnswerSet) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	out := make(AnswerSet, len(raw))
	for k, v := range raw {
		idx, err := strconv.Atoi(k)
		if err != nil || idx < 0 {
			return fmt.Errorf("answer key %q: not a question position", k)
		}
		a, err := decodeAnswer(v)
		if err != nil {
			return fmt.Errorf("answer %d: %w", idx, err)
		}
		if a == nil {
			continue
		}
		out[idx] = a
	}
	*s = out
	return nil
}

func decodeAnswer(raw json.RawMessage) (Answer, error) {
	t := bytes.TrimSpace(raw)
	if len(t) == 0 || bytes.Equal(t, []byte("null")) {
		return nil, nil
	}
	switch t[0] {
	case '"':
		var v string
		if err := json.Unmarshal(t, &v); err != nil {
			return nil, err
		}
		return Numerical(v), nil
	case '[':
		var v []int
		if err := json.Unmarshal(t, &v); err != nil {
			return nil, fmt.Errorf("option list: %w", err)
		}
		return MultiChoice(v), nil
	case '{', 't', 'f':
		return nil, fmt.Errorf("unsupported answer shape %s", t)
	default:
		var v int
		if err := json.Unmarshal(t, &v); err != nil {
			return nil, fmt.Errorf("option index: %w", err)
		}
		return SingleChoice(v), nil
	}
}
