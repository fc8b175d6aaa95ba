package httpapi

import (
	"database/sql"
	"net/http"
	"sync/atomic"

	"easyapply-engine/internal/config"
	"easyapply-engine/internal/store"

	"go.uber.org/zap"
)

type DBHandler struct {
	DB     *sql.DB
	CfgVal *atomic.Value // stores config.Config
	Log    *zap.Logger
}

// Checkpoint removes postings past the retention window and folds the WAL.
// Mounted behind LocalOnly.
func (h DBHandler) Checkpoint(w http.ResponseWriter, r *http.Request) {
	cfg := h.CfgVal.Load().(config.Config)
	deleted, err := store.CleanupOld(r.Context(), h.DB, cfg.Retention.MaxAgeDays)
	if err != nil {
		writeErr(w, r, h.Log, err)
		return
	}
	if err := store.Checkpoint(r.Context(), h.DB); err != nil {
		writeErr(w, r, h.Log, err)
		return
	}
	h.Log.Info("db checkpoint", zap.Int64("deleted", deleted))
	writeJSON(w, map[string]any{"ok": true, "deleted": deleted})
}
