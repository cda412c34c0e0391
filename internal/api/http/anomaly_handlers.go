package http

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/prepmark/prepmark-scoring/internal/eventlog"
)

// ListAnomaliesHandler returns anomaly events, filtered to one scoring run
// when run_id is given, newest-first across runs otherwise.
func ListAnomaliesHandler(events *eventlog.Repo) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		runID := strings.TrimSpace(r.URL.Query().Get("run_id"))
		limit := parseIntDefault(r.URL.Query().Get("limit"), 100)

		var (
			list []eventlog.Event
			err  error
		)
		if runID != "" {
			list, err = events.ListByRun(r.Context(), runID, limit)
		} else {
			list, err = events.ListRecent(r.Context(), limit)
		}
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(list)
	}
}

func parseIntDefault(s string, def int) int {
	if s == "" {
		return def
	}
	if v, err := strconv.Atoi(s); err == nil && v >= 0 {
		return v
	}
	return def
}
