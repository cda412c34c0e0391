package scoring

import (
	"golang.org/x/sync/errgroup"

	"github.com/prepmark/prepmark-scoring/internal/paper"
)

// ProcessAnswers scores a full submission: one Response per question, in
// question order. Positions without a submitted answer are marked incorrect
// with 0 marks and never incur the penalty. Every iteration is independent;
// with WithParallelism(n>1) the batch fans out over n workers writing into
// the result by index, so the output is identical to the sequential run.
func (e *Evaluator) ProcessAnswers(questions []paper.TestQuestion, answers paper.AnswerSet) []paper.Response {
	out := make([]paper.Response, len(questions))
	if e.parallelism > 1 {
		var g errgroup.Group
		g.SetLimit(e.parallelism)
		for i := range questions {
			i := i
			g.Go(func() error {
				out[i] = e.respond(i, questions[i], answers)
				return nil
			})
		}
		_ = g.Wait() // workers never fail
		return out
	}
	for i := range questions {
		out[i] = e.respond(i, questions[i], answers)
	}
	return out
}

func (e *Evaluator) respond(idx int, tq paper.TestQuestion, answers paper.AnswerSet) paper.Response {
	resp := paper.Response{
		QuestionIndex: idx,
		QuestionID:    tq.Question.ID,
		SectionID:     tq.SectionID,
		SubsectionID:  tq.SubsectionID,
		CorrectAnswer: tq.Question.Key(),
	}
	ans, ok := answers.Get(idx)
	if !ok {
		return resp
	}
	resp.StudentAnswer = ans
	resp.IsCorrect = e.Evaluate(tq.Question, ans)
	resp.MarksObtained = Score(resp.IsCorrect, tq.Marks, tq.NegativeMarks)
	return resp
}
