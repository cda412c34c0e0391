// Package eventlog persists scoring anomalies for operators. Scored
// responses themselves are never stored; only the conditions a caller may
// want to tell apart from plain wrong answers.
package eventlog

import (
	"context"
	"database/sql"
	"time"
)

type Event struct {
	ID            int64  `json:"id"`
	RunID         string `json:"run_id"`
	TestID        string `json:"test_id,omitempty"`
	QuestionID    string `json:"question_id,omitempty"`
	QuestionIndex int    `json:"question_index"`
	Reason        string `json:"reason"`
	Detail        string `json:"detail,omitempty"`
	CreatedAt     int64  `json:"created_at"`
}

type Repo struct{ db *sql.DB }

func NewRepo(db *sql.DB) *Repo { return &Repo{db: db} }

func (r *Repo) Append(ctx context.Context, e Event) error {
	ts := e.CreatedAt
	if ts == 0 {
		ts = time.Now().Unix()
	}
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO anomaly_events (run_id, test_id, question_id, question_index, reason, detail, created_at)
		 VALUES ($1,$2,$3,$4,$5,$6,$7)`,
		e.RunID, e.TestID, e.QuestionID, e.QuestionIndex, e.Reason, e.Detail, ts)
	return err
}

// ListByRun returns the anomalies of one scoring run in append order.
func (r *Repo) ListByRun(ctx context.Context, runID string, limit int) ([]Event, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, run_id, test_id, question_id, question_index, reason, detail, created_at
		   FROM anomaly_events WHERE run_id=$1 ORDER BY id ASC LIMIT $2`,
		runID, clampLimit(limit))
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanEvents(rows)
}

// ListRecent returns the newest anomalies across all runs.
func (r *Repo) ListRecent(ctx context.Context, limit int) ([]Event, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, run_id, test_id, question_id, question_index, reason, detail, created_at
		   FROM anomaly_events ORDER BY id DESC LIMIT $1`,
		clampLimit(limit))
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanEvents(rows)
}

func scanEvents(rows *sql.Rows) ([]Event, error) {
	out := []Event{}
	for rows.Next() {
		var e Event
		if err := rows.Scan(&e.ID, &e.RunID, &e.TestID, &e.QuestionID, &e.QuestionIndex, &e.Reason, &e.Detail, &e.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func clampLimit(n int) int {
	if n <= 0 {
		return 100
	}
	if n > 500 {
		return 500
	}
	return n
}
