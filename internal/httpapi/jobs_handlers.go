package httpapi

import (
	"database/sql"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"easyapply-engine/internal/events"
	"easyapply-engine/internal/report"
	"easyapply-engine/internal/store"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type JobsHandler struct {
	DB        *sql.DB
	Hub       *events.Hub
	Log       *zap.Logger
	ExportDir string
}

func (h JobsHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	opts := store.ListOpts{Sort: q.Get("sort"), Window: q.Get("window")}
	if v := q.Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			WriteError(w, r, http.StatusBadRequest, "invalid_input", "limit must be a positive number")
			return
		}
		opts.Limit = n
	}

	jobs, err := store.ListPostings(r.Context(), h.DB, opts)
	if err != nil {
		writeErr(w, r, h.Log, err)
		return
	}
	writeJSON(w, jobs)
}

func (h JobsHandler) Get(w http.ResponseWriter, r *http.Request) {
	p, err := store.GetPosting(r.Context(), h.DB, chi.URLParam(r, "id"))
	if err != nil {
		writeErr(w, r, h.Log, err)
		return
	}
	writeJSON(w, p)
}

func (h JobsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := store.DeletePosting(r.Context(), h.DB, id); err != nil {
		writeErr(w, r, h.Log, err)
		return
	}

	h.Hub.Emit(RequestIDFrom(r.Context()), events.TypeJobDeleted, map[string]any{"id": id})
	writeJSON(w, map[string]any{"ok": true, "id": id})
}

// Export streams every stored posting as a JSON attachment and keeps a copy
// under the export dir.
func (h JobsHandler) Export(w http.ResponseWriter, r *http.Request) {
	jobs, err := store.ListPostings(r.Context(), h.DB, store.ListOpts{Window: "all", Sort: "score"})
	if err != nil {
		writeErr(w, r, h.Log, err)
		return
	}

	now := time.Now()
	if h.ExportDir != "" {
		path := report.ExportPath(h.ExportDir, now)
		if err := report.SaveJSON(r.Context(), path, jobs); err != nil {
			h.Log.Warn("export copy failed", zap.String("path", path), zap.Error(err))
		} else {
			h.Log.Info("exported jobs", zap.String("path", path), zap.Int("count", len(jobs)))
		}
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="jobs_%s.json"`, now.Format("20060102_150405")))
	_ = report.WriteJSON(w, jobs)
}
