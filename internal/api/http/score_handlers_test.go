package http_test

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	api "github.com/prepmark/prepmark-scoring/internal/api/http"
	auth "github.com/prepmark/prepmark-scoring/internal/auth/middleware"
	"github.com/prepmark/prepmark-scoring/internal/db"
	"github.com/prepmark/prepmark-scoring/internal/eventlog"
	"github.com/prepmark/prepmark-scoring/internal/rbac"
	"github.com/prepmark/prepmark-scoring/internal/scoring"
)

/* ---------------- test server wired like cmd/scoringd ---------------- */

func newTestServer(t *testing.T, name string) (*httptest.Server, *auth.AuthService) {
	t.Helper()

	dbh, err := db.Open(context.Background(), db.DriverSQLite, "file:"+name+"?mode=memory&cache=shared")
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { dbh.Close() })

	events := eventlog.NewRepo(dbh)
	authSvc := auth.NewAuthService("test-secret")
	logger := zerolog.Nop()

	r := chi.NewRouter()
	r.Group(func(pr chi.Router) {
		pr.Use(auth.JWTMiddleware(authSvc))
		pr.With(rbac.Require("submission:score")).
			Post("/v1/score", api.ScoreHandler(scoring.New(), events, logger))
		pr.With(rbac.Require("anomaly:read")).
			Get("/v1/anomalies", api.ListAnomaliesHandler(events))
	})

	ts := httptest.NewServer(r)
	t.Cleanup(ts.Close)
	return ts, authSvc
}

func bearerFor(t *testing.T, svc *auth.AuthService, sub, role string) string {
	t.Helper()
	tok, err := svc.IssueJWT(sub, role)
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}
	return "Bearer " + tok
}

func doJSON(t *testing.T, method, url, bearer, body string) (*http.Response, []byte) {
	t.Helper()
	var rd io.Reader
	if body != "" {
		rd = strings.NewReader(body)
	}
	req, err := http.NewRequest(method, url, rd)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	if bearer != "" {
		req.Header.Set("Authorization", bearer)
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("do request: %v", err)
	}
	defer resp.Body.Close()
	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	return resp, raw
}

// Response rows come back over the wire with the legacy answer shapes, so the
// test decodes them loosely.
type scoredRow struct {
	QuestionIndex int             `json:"question_index"`
	QuestionID    string          `json:"question_id"`
	SectionID     string          `json:"section_id"`
	IsCorrect     bool            `json:"is_correct"`
	MarksObtained float64         `json:"marks_obtained"`
	StudentAnswer json.RawMessage `json:"student_answer"`
	CorrectAnswer json.RawMessage `json:"correct_answer"`
}

type scoreReply struct {
	RunID        string      `json:"run_id"`
	TestID       string      `json:"test_id"`
	Responses    []scoredRow `json:"responses"`
	AnomalyCount int         `json:"anomaly_count"`
}

const submissionBody = `{
  "test_id": "t-100",
  "questions": [
    {"question": {"id": "q1", "type": "mcq_single", "correct_options": [1]}, "section_id": "PHY", "marks": 4, "negative_marks": 1},
    {"question": {"id": "q2", "type": "mcq_multi", "correct_options": [0, 2]}, "section_id": "PHY", "marks": 4, "negative_marks": 2},
    {"question": {"id": "q3", "type": "numerical", "correct_answer": "98"}, "section_id": "CHE", "marks": 4, "negative_marks": 0},
    {"question": {"id": "q4", "type": "mcq_single", "correct_options": [0, 3]}, "section_id": "CHE", "marks": 4, "negative_marks": 1}
  ],
  "answers": {"0": 1, "1": [2, 0], "2": "98.0001"}
}`

func TestScoreHandler_EndToEnd(t *testing.T) {
	ts, authSvc := newTestServer(t, "score_e2e")
	grader := bearerFor(t, authSvc, "alice", "grader")

	resp, raw := doJSON(t, "POST", ts.URL+"/v1/score", grader, submissionBody)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("score status = %d: %s", resp.StatusCode, raw)
	}
	var reply scoreReply
	if err := json.Unmarshal(raw, &reply); err != nil {
		t.Fatalf("decode reply: %v", err)
	}

	if reply.RunID == "" {
		t.Fatalf("missing run id")
	}
	if len(reply.Responses) != 4 {
		t.Fatalf("got %d responses, want 4", len(reply.Responses))
	}
	for i, r := range reply.Responses {
		if r.QuestionIndex != i {
			t.Fatalf("response %d carries index %d", i, r.QuestionIndex)
		}
	}
	if !reply.Responses[0].IsCorrect || reply.Responses[0].MarksObtained != 4 {
		t.Fatalf("q1: correct=%v marks=%v, want true/4", reply.Responses[0].IsCorrect, reply.Responses[0].MarksObtained)
	}
	if !reply.Responses[1].IsCorrect {
		t.Fatalf("q2: shuffled multi selection must match")
	}
	if !reply.Responses[2].IsCorrect {
		t.Fatalf("q3: boundary numerical must match")
	}
	// q4 is unanswered: no penalty, and its double-keyed single choice is the
	// one anomaly of this run.
	if reply.Responses[3].IsCorrect || reply.Responses[3].MarksObtained != 0 {
		t.Fatalf("q4: correct=%v marks=%v, want false/0", reply.Responses[3].IsCorrect, reply.Responses[3].MarksObtained)
	}
	if string(reply.Responses[3].StudentAnswer) != "null" {
		t.Fatalf("q4 student answer = %s, want null", reply.Responses[3].StudentAnswer)
	}
	if reply.AnomalyCount != 1 {
		t.Fatalf("anomaly count = %d, want 1", reply.AnomalyCount)
	}

	// The anomaly is persisted under this run and readable by an auditor.
	auditor := bearerFor(t, authSvc, "bob", "auditor")
	resp, raw = doJSON(t, "GET", ts.URL+"/v1/anomalies?run_id="+reply.RunID, auditor, "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("anomalies status = %d: %s", resp.StatusCode, raw)
	}
	var events []eventlog.Event
	if err := json.Unmarshal(raw, &events); err != nil {
		t.Fatalf("decode events: %v", err)
	}
	if len(events) != 1 {
		t.Fatalf("got %d events, want 1", len(events))
	}
	if events[0].QuestionID != "q4" || events[0].Reason != scoring.AnomalyAmbiguousKey || events[0].TestID != "t-100" {
		t.Fatalf("unexpected event: %+v", events[0])
	}
}

func TestScoreHandler_AuthMatrix(t *testing.T) {
	ts, authSvc := newTestServer(t, "score_auth")

	tests := []struct {
		name       string
		method     string
		path       string
		bearer     string
		wantStatus int
	}{
		{name: "score without token", method: "POST", path: "/v1/score", bearer: "", wantStatus: http.StatusUnauthorized},
		{name: "score as auditor", method: "POST", path: "/v1/score", bearer: bearerFor(t, authSvc, "bob", "auditor"), wantStatus: http.StatusForbidden},
		{name: "score as admin", method: "POST", path: "/v1/score", bearer: bearerFor(t, authSvc, "root", "admin"), wantStatus: http.StatusOK},
		{name: "anomalies as grader", method: "GET", path: "/v1/anomalies", bearer: bearerFor(t, authSvc, "alice", "grader"), wantStatus: http.StatusForbidden},
		{name: "anomalies as auditor", method: "GET", path: "/v1/anomalies", bearer: bearerFor(t, authSvc, "bob", "auditor"), wantStatus: http.StatusOK},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			body := ""
			if tc.method == "POST" {
				body = submissionBody
			}
			resp, raw := doJSON(t, tc.method, ts.URL+tc.path, tc.bearer, body)
			if resp.StatusCode != tc.wantStatus {
				t.Fatalf("status = %d, want %d: %s", resp.StatusCode, tc.wantStatus, raw)
			}
		})
	}
}

func TestScoreHandler_RejectsBadInput(t *testing.T) {
	ts, authSvc := newTestServer(t, "score_badinput")
	grader := bearerFor(t, authSvc, "alice", "grader")

	tests := []struct {
		name string
		body string
	}{
		{name: "malformed json", body: `{"questions": [`},
		{name: "unknown question kind", body: `{"questions": [{"question": {"id": "q1", "type": "essay"}}], "answers": {}}`},
		{name: "fractional answer index", body: `{"questions": [], "answers": {"0": 1.5}}`},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			resp, raw := doJSON(t, "POST", ts.URL+"/v1/score", grader, tc.body)
			if resp.StatusCode != http.StatusBadRequest {
				t.Fatalf("status = %d, want 400: %s", resp.StatusCode, raw)
			}
		})
	}
}

func TestScoreHandler_PerRequestOverrides(t *testing.T) {
	ts, authSvc := newTestServer(t, "score_overrides")
	grader := bearerFor(t, authSvc, "alice", "grader")

	// 0.5 is far outside the default tolerance but inside the override.
	body := fmt.Sprintf(`{
	  "test_id": "t-tol",
	  "questions": [{"question": {"id": "q1", "type": "numerical", "correct_answer": "100"}, "marks": 4}],
	  "answers": {"0": "100.5"},
	  "tolerance": %v,
	  "parallelism": 4
	}`, 0.5)

	resp, raw := doJSON(t, "POST", ts.URL+"/v1/score", grader, body)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d: %s", resp.StatusCode, raw)
	}
	var reply scoreReply
	if err := json.Unmarshal(raw, &reply); err != nil {
		t.Fatalf("decode reply: %v", err)
	}
	if len(reply.Responses) != 1 || !reply.Responses[0].IsCorrect {
		t.Fatalf("tolerance override not applied: %+v", reply.Responses)
	}
}
