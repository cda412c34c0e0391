// Package synth generates demo submission bundles: plausible question keys,
// test context and a partially answered answer set. It exists for local
// development and CLI demos; nothing in scoring depends on it.
package synth

import (
	"fmt"
	"math/rand"
	"sort"

	"github.com/google/uuid"

	"github.com/prepmark/prepmark-scoring/internal/bundle"
	"github.com/prepmark/prepmark-scoring/internal/paper"
)

const optionCount = 4

type Plan struct {
	Seed          int64
	Questions     int
	AnsweredRatio float64 // fraction of questions that receive an answer
	Title         string
	Scheme        bundle.MarkingScheme
}

var sections = []struct{ id, subPrefix string }{
	{"PHY", "PHY"},
	{"CHE", "CHE"},
	{"MAT", "MAT"},
}

// Generate builds a bundle from the plan. The same plan produces the same
// bundle every time: all randomness, including the UUIDs, is drawn from the
// seeded source.
func Generate(p Plan) bundle.Bundle {
	n := p.Questions
	if n <= 0 {
		n = 30
	}
	ratio := p.AnsweredRatio
	if ratio < 0 {
		ratio = 0
	}
	if ratio > 1 {
		ratio = 1
	}
	scheme := p.Scheme
	if scheme.Kinds == nil {
		scheme = bundle.DefaultScheme()
	}
	title := p.Title
	if title == "" {
		title = fmt.Sprintf("Demo Test (seed %d)", p.Seed)
	}

	rng := rand.New(rand.NewSource(p.Seed))
	questions := make([]paper.TestQuestion, n)
	answers := make(paper.AnswerSet, n)

	for i := 0; i < n; i++ {
		sec := sections[i*len(sections)/n]
		q := newQuestion(rng, kindAt(i))
		questions[i] = paper.TestQuestion{
			Question:     q,
			SectionID:    sec.id,
			SubsectionID: sec.subPrefix + "-" + subsectionOf(q.Type),
		}
		if rng.Float64() < ratio {
			answers[i] = newAnswer(rng, q)
		}
	}
	scheme.Apply(questions)

	return bundle.Bundle{
		TestID:    newID(rng),
		Title:     title,
		Questions: questions,
		Answers:   answers,
	}
}

// Half single choice, a quarter multi choice, a quarter numerical.
func kindAt(i int) paper.QuestionType {
	switch i % 4 {
	case 2:
		return paper.TypeMultiChoice
	case 3:
		return paper.TypeNumerical
	default:
		return paper.TypeSingleChoice
	}
}

func subsectionOf(t paper.QuestionType) string {
	switch t {
	case paper.TypeMultiChoice:
		return "B"
	case paper.TypeNumerical:
		return "C"
	default:
		return "A"
	}
}

func newQuestion(rng *rand.Rand, t paper.QuestionType) paper.Question {
	q := paper.Question{ID: newID(rng), Type: t}
	switch t {
	case paper.TypeSingleChoice:
		q.CorrectOptions = []int{rng.Intn(optionCount)}
	case paper.TypeMultiChoice:
		size := 1 + rng.Intn(optionCount-1)
		picks := rng.Perm(optionCount)[:size]
		sort.Ints(picks)
		q.CorrectOptions = picks
	case paper.TypeNumerical:
		q.CorrectAnswer = newNumeral(rng)
	}
	return q
}

// Roughly 70% of generated answers hit the key; multi-choice answers come
// back in shuffled order to exercise order independence downstream.
func newAnswer(rng *rand.Rand, q paper.Question) paper.Answer {
	correct := rng.Float64() < 0.7
	switch q.Type {
	case paper.TypeSingleChoice:
		key := q.CorrectOptions[0]
		if correct {
			return paper.SingleChoice(key)
		}
		return paper.SingleChoice((key + 1 + rng.Intn(optionCount-1)) % optionCount)
	case paper.TypeMultiChoice:
		if correct {
			picks := append([]int(nil), q.CorrectOptions...)
			rng.Shuffle(len(picks), func(i, j int) { picks[i], picks[j] = picks[j], picks[i] })
			return paper.MultiChoice(picks)
		}
		// A different selection size guarantees a miss.
		size := 1 + rng.Intn(optionCount)
		if size == len(q.CorrectOptions) {
			size = size%optionCount + 1
		}
		return paper.MultiChoice(rng.Perm(optionCount)[:size])
	default:
		if correct {
			return paper.Numerical(q.CorrectAnswer)
		}
		return paper.Numerical(newNumeral(rng))
	}
}

func newNumeral(rng *rand.Rand) string {
	if rng.Intn(2) == 0 {
		return fmt.Sprintf("%d", rng.Intn(200)-100)
	}
	return fmt.Sprintf("%.2f", rng.Float64()*200-100)
}

func newID(rng *rand.Rand) string {
	id, err := uuid.NewRandomFromReader(rng)
	if err != nil {
		return uuid.NewString()
	}
	return id.String()
}
