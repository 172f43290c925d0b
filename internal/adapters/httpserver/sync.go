package httpserver

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/phenrril/possync/internal/domain"
)

func (s *Server) apiSyncRuns(w http.ResponseWriter, r *http.Request) {
	task := r.URL.Query().Get("task")
	if task != "" && task != domain.TaskOrderSync && task != domain.TaskCustomerSync {
		s.fail(w, r, fmt.Errorf("%w: unknown task %q", domain.ErrValidation, task))
		return
	}
	runs, err := s.Sync.Recent(r.Context(), task, queryInt(r, "limit", 20))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, runs)
}

// apiTriggerSync queues a run; its outcome lands in the journal.
func (s *Server) apiTriggerSync(w http.ResponseWriter, r *http.Request) {
	task := chi.URLParam(r, "task")
	if s.Trigger == nil {
		writeJSON(w, http.StatusServiceUnavailable, errorBody{Error: "reconciliation is disabled"})
		return
	}
	if err := s.Trigger(task); err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusAccepted, map[string]string{"task": task, "status": "queued"})
}
