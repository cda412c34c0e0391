package http

import (
	"encoding/json"
	"net/http"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	authmw "github.com/prepmark/prepmark-scoring/internal/auth/middleware"
	"github.com/prepmark/prepmark-scoring/internal/eventlog"
	"github.com/prepmark/prepmark-scoring/internal/paper"
	"github.com/prepmark/prepmark-scoring/internal/scoring"
)

type scoreReq struct {
	TestID      string               `json:"test_id"`
	Questions   []paper.TestQuestion `json:"questions"`
	Answers     paper.AnswerSet      `json:"answers"`
	Tolerance   float64              `json:"tolerance,omitempty"`
	Parallelism int                  `json:"parallelism,omitempty"`
}

type scoreResp struct {
	RunID        string           `json:"run_id"`
	TestID       string           `json:"test_id,omitempty"`
	Responses    []paper.Response `json:"responses"`
	AnomalyCount int              `json:"anomaly_count"`
}

// ScoreHandler scores one complete submission and returns the ordered
// response list. Nothing about the submission is stored; only detected
// anomalies go to the event log, keyed by the run ID.
func ScoreHandler(base *scoring.Evaluator, events *eventlog.Repo, logger zerolog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req scoreReq
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "bad json: "+err.Error(), http.StatusBadRequest)
			return
		}
		for i := range req.Questions {
			if err := req.Questions[i].Question.Validate(); err != nil {
				http.Error(w, err.Error(), http.StatusBadRequest)
				return
			}
		}

		ev := base
		if req.Tolerance > 0 || req.Parallelism > 1 {
			ev = base.With(scoring.WithTolerance(req.Tolerance), scoring.WithParallelism(req.Parallelism))
		}

		runID := uuid.NewString()
		responses := ev.ProcessAnswers(req.Questions, req.Answers)
		anomalies := scoring.DetectAnomalies(req.Questions, req.Answers)
		for _, a := range anomalies {
			err := events.Append(r.Context(), eventlog.Event{
				RunID:         runID,
				TestID:        req.TestID,
				QuestionID:    a.QuestionID,
				QuestionIndex: a.QuestionIndex,
				Reason:        a.Reason,
				Detail:        a.Detail,
			})
			if err != nil {
				// Telemetry must not fail the run.
				logger.Warn().Err(err).Str("run_id", runID).Msg("append anomaly event")
			}
		}

		logger.Info().
			Str("run_id", runID).
			Str("test_id", req.TestID).
			Str("operator", authmw.SubjectFromContext(r.Context())).
			Int("questions", len(req.Questions)).
			Int("anomalies", len(anomalies)).
			Msg("submission scored")

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(scoreResp{
			RunID:        runID,
			TestID:       req.TestID,
			Responses:    responses,
			AnomalyCount: len(anomalies),
		})
	}
}
