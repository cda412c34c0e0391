package eventlog_test

import (
	"context"
	"database/sql"
	"testing"

	"github.com/prepmark/prepmark-scoring/internal/db"
	"github.com/prepmark/prepmark-scoring/internal/eventlog"
)

// openTestDB opens a named in-memory SQLite database with the schema applied.
// Each test gets its own name so runs stay isolated.
func openTestDB(t *testing.T, name string) *sql.DB {
	t.Helper()
	dbh, err := db.Open(context.Background(), db.DriverSQLite, "file:"+name+"?mode=memory&cache=shared")
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { dbh.Close() })
	return dbh
}

func TestRepo_AppendAndListByRun(t *testing.T) {
	repo := eventlog.NewRepo(openTestDB(t, "eventlog_roundtrip"))
	ctx := context.Background()

	events := []eventlog.Event{
		{RunID: "run-1", TestID: "t-1", QuestionID: "q1", QuestionIndex: 0, Reason: "kind_mismatch", Detail: "answered as numerical"},
		{RunID: "run-1", TestID: "t-1", QuestionID: "q3", QuestionIndex: 2, Reason: "numeric_fallback"},
		{RunID: "run-2", TestID: "t-2", QuestionID: "q1", QuestionIndex: 0, Reason: "unmatchable_key"},
	}
	for _, e := range events {
		if err := repo.Append(ctx, e); err != nil {
			t.Fatalf("append: %v", err)
		}
	}

	got, err := repo.ListByRun(ctx, "run-1", 100)
	if err != nil {
		t.Fatalf("list by run: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("got %d events for run-1, want 2", len(got))
	}
	if got[0].QuestionID != "q1" || got[1].QuestionID != "q3" {
		t.Fatalf("events out of append order: %q then %q", got[0].QuestionID, got[1].QuestionID)
	}
	first := got[0]
	if first.RunID != "run-1" || first.TestID != "t-1" || first.QuestionIndex != 0 ||
		first.Reason != "kind_mismatch" || first.Detail != "answered as numerical" {
		t.Fatalf("event fields did not round trip: %+v", first)
	}
	if first.ID == 0 || first.CreatedAt == 0 {
		t.Fatalf("id/created_at not populated: %+v", first)
	}
}

func TestRepo_ListByRunEmpty(t *testing.T) {
	repo := eventlog.NewRepo(openTestDB(t, "eventlog_empty"))

	got, err := repo.ListByRun(context.Background(), "missing-run", 10)
	if err != nil {
		t.Fatalf("list by run: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("got %d events for unknown run, want 0", len(got))
	}
}

func TestRepo_ListRecent(t *testing.T) {
	repo := eventlog.NewRepo(openTestDB(t, "eventlog_recent"))
	ctx := context.Background()

	for _, run := range []string{"run-a", "run-b", "run-c"} {
		if err := repo.Append(ctx, eventlog.Event{RunID: run, QuestionIndex: 0, Reason: "orphan_answer"}); err != nil {
			t.Fatalf("append: %v", err)
		}
	}

	got, err := repo.ListRecent(ctx, 2)
	if err != nil {
		t.Fatalf("list recent: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("got %d events, want 2", len(got))
	}
	if got[0].RunID != "run-c" || got[1].RunID != "run-b" {
		t.Fatalf("not newest-first: %q then %q", got[0].RunID, got[1].RunID)
	}
}

func TestOpen_UnknownDriver(t *testing.T) {
	if _, err := db.Open(context.Background(), db.Driver("oracle"), ""); err == nil {
		t.Fatalf("expected error for unsupported driver")
	}
}
